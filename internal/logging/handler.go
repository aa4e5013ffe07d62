package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// 控制台单条日志的最大显示长度
const maxDisplayLen = 500

// LogEntry 推送给前端的日志条目。
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// Options 日志处理器参数。
type Options struct {
	Level    *slog.LevelVar
	Console  io.Writer // 为 nil 时使用 os.Stdout
	FilePath string    // 为空时不写文件
	Emitter  *EventEmitter
}

// Handler 简化的日志处理器：控制台 + 可选文件 + 可选前端推送。
type Handler struct {
	level   *slog.LevelVar
	out     *output
	emitter *EventEmitter
	prefix  string // WithAttrs 预先格式化的属性
	group   string
}

type output struct {
	mu      sync.Mutex
	console io.Writer
	file    *os.File
}

// NewHandler 创建日志处理器。
func NewHandler(opts Options) (*Handler, error) {
	level := opts.Level
	if level == nil {
		level = new(slog.LevelVar)
	}
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	out := &output{console: console}
	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out.file = f
	}

	return &Handler{
		level:   level,
		out:     out,
		emitter: opts.Emitter,
	}, nil
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	message := r.Message

	var attrs []string
	if h.prefix != "" {
		attrs = append(attrs, h.prefix)
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.formatAttr(a))
		return true
	})
	if len(attrs) > 0 {
		message = message + " " + strings.Join(attrs, " ")
	}

	timestamp := r.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	ts := timestamp.Format("2006-01-02 15:04:05.000")
	level := levelName(r.Level)
	line := fmt.Sprintf("[%s] [PID:%d] [GID:%d] [%s] ", ts, os.Getpid(), getGoroutineID(), level)

	displayMessage := message
	if len(displayMessage) > maxDisplayLen {
		displayMessage = displayMessage[:maxDisplayLen] + "... (显示截断)"
	}

	h.out.mu.Lock()
	if h.out.file != nil {
		_, _ = io.WriteString(h.out.file, line+message+"\n")
	}
	_, err := io.WriteString(h.out.console, line+displayMessage+"\n")
	h.out.mu.Unlock()

	if h.emitter != nil {
		h.emitter.Emit(LogEntry{Timestamp: ts, Level: level, Message: message})
	}
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	parts := make([]string, 0, len(attrs)+1)
	if h.prefix != "" {
		parts = append(parts, h.prefix)
	}
	for _, a := range attrs {
		parts = append(parts, h.formatAttr(a))
	}
	clone := *h
	clone.prefix = strings.Join(parts, " ")
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return &clone
}

// SetLevel 运行时调整日志级别（配置热重载）。
func (h *Handler) SetLevel(level slog.Level) {
	h.level.Set(level)
}

// Close 关闭日志文件。
func (h *Handler) Close() error {
	h.out.mu.Lock()
	defer h.out.mu.Unlock()
	if h.out.file == nil {
		return nil
	}
	_ = h.out.file.Sync()
	err := h.out.file.Close()
	h.out.file = nil
	return err
}

func (h *Handler) formatAttr(a slog.Attr) string {
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	return fmt.Sprintf("%s=%v", key, a.Value.Resolve())
}

// ParseLevel 解析配置中的日志级别，未知值返回 info。
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARN"
	case l >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

func getGoroutineID() int {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	fields := strings.Fields(string(buf))
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0
	}
	return id
}
