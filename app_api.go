// app_api.go - 暴露给前端的 API 方法 (Wails Bindings)
// 这些方法会被自动生成为 JavaScript 调用
//
// - 系统状态
// - 窗口控制（与托盘菜单共用生命周期控制器）
// - 对话框 / 外部链接 / 文本文件读写

package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ai-resume-desktop/internal/tray"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// 前端可读写的单个文本文件上限
const maxTextFileSize = 10 * 1024 * 1024

var errAppNotReady = errors.New("应用尚未就绪")

// ============================================================
// 系统状态 API
// ============================================================

// TrayItemInfo 托盘菜单项信息
type TrayItemInfo struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

// SystemStatus 系统状态结构
type SystemStatus struct {
	Version       string         `json:"version"`
	Uptime        string         `json:"uptime"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	StartTime     string         `json:"start_time"` // ISO8601 格式的启动时间
	ConfigPath    string         `json:"config_path"`
	WindowName    string         `json:"window_name"`
	WindowState   string         `json:"window_state"`
	HideOnClose   bool           `json:"hide_on_close"`
	TrayID        string         `json:"tray_id"`
	TrayItems     []TrayItemInfo `json:"tray_items"`
}

// GetSystemStatus 获取系统状态
func (a *App) GetSystemStatus() SystemStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()

	uptime := time.Since(a.startTime)

	status := SystemStatus{
		Version:       Version,
		Uptime:        formatDuration(uptime),
		UptimeSeconds: int64(uptime.Seconds()),
		StartTime:     a.startTime.Format(time.RFC3339),
		ConfigPath:    a.configPath,
		HideOnClose:   a.hideOnClose.Load(),
	}

	if a.config != nil {
		status.WindowName = a.config.Window.Name
	}
	if a.lifecycle != nil {
		status.WindowState = a.lifecycle.State().String()
	}
	if a.trayDesc != nil {
		status.TrayID = a.trayDesc.ID()
		for _, item := range a.trayDesc.Items() {
			status.TrayItems = append(status.TrayItems, TrayItemInfo{
				ID:      item.ID,
				Label:   item.Label,
				Enabled: item.Enabled,
			})
		}
	}

	return status
}

// ============================================================
// 窗口控制 API
// ============================================================

// SetWindowTitle 按前端路由设置窗口标题
func (a *App) SetWindowTitle(title string) error {
	ctx := a.wailsCtx()
	if ctx == nil {
		return errAppNotReady
	}
	title = strings.TrimSpace(title)
	if title == "" {
		a.mu.RLock()
		title = a.config.App.Title
		a.mu.RUnlock()
	}
	runtime.WindowSetTitle(ctx, title)
	return nil
}

// ShowWindow 显示并聚焦主窗口
func (a *App) ShowWindow() error {
	return a.lifecycle.HandleEvent(tray.IDShow)
}

// HideToTray 隐藏主窗口到托盘
func (a *App) HideToTray() error {
	return a.lifecycle.HandleEvent(tray.IDHide)
}

// Quit 退出应用（退出码 0）
func (a *App) Quit() {
	a.lifecycle.Dispatch(tray.IDQuit)
}

// ============================================================
// 对话框 / 外部链接 API
// ============================================================

// FileFilter 文件对话框过滤器
type FileFilter struct {
	DisplayName string `json:"display_name"` // 如 "简历 (*.pdf)"
	Pattern     string `json:"pattern"`      // 如 "*.pdf;*.docx"
}

func toRuntimeFilters(filters []FileFilter) []runtime.FileFilter {
	out := make([]runtime.FileFilter, 0, len(filters))
	for _, f := range filters {
		out = append(out, runtime.FileFilter{DisplayName: f.DisplayName, Pattern: f.Pattern})
	}
	return out
}

// OpenFileDialog 打开文件选择对话框，用户取消时返回空字符串
func (a *App) OpenFileDialog(title string, filters []FileFilter) (string, error) {
	ctx := a.wailsCtx()
	if ctx == nil {
		return "", errAppNotReady
	}
	return runtime.OpenFileDialog(ctx, runtime.OpenDialogOptions{
		Title:   title,
		Filters: toRuntimeFilters(filters),
	})
}

// OpenDirectoryDialog 打开目录选择对话框
func (a *App) OpenDirectoryDialog(title string) (string, error) {
	ctx := a.wailsCtx()
	if ctx == nil {
		return "", errAppNotReady
	}
	return runtime.OpenDirectoryDialog(ctx, runtime.OpenDialogOptions{Title: title})
}

// SaveFileDialog 打开保存文件对话框
func (a *App) SaveFileDialog(title, defaultFilename string, filters []FileFilter) (string, error) {
	ctx := a.wailsCtx()
	if ctx == nil {
		return "", errAppNotReady
	}
	return runtime.SaveFileDialog(ctx, runtime.SaveDialogOptions{
		Title:           title,
		DefaultFilename: defaultFilename,
		Filters:         toRuntimeFilters(filters),
	})
}

// ShowMessage 显示信息对话框
func (a *App) ShowMessage(title, message string) error {
	ctx := a.wailsCtx()
	if ctx == nil {
		return errAppNotReady
	}
	_, err := runtime.MessageDialog(ctx, runtime.MessageDialogOptions{
		Type:    runtime.InfoDialog,
		Title:   title,
		Message: message,
	})
	return err
}

// OpenExternalURL 用系统浏览器打开链接，仅允许 http/https/mailto
func (a *App) OpenExternalURL(rawURL string) error {
	ctx := a.wailsCtx()
	if ctx == nil {
		return errAppNotReady
	}
	if err := validateExternalURL(rawURL); err != nil {
		a.logger.Warn("⚠️ 拒绝打开外部链接", "url", rawURL, "error", err)
		a.emitNotification("warning", "无法打开链接", err.Error())
		return err
	}
	runtime.BrowserOpenURL(ctx, rawURL)
	return nil
}

// ============================================================
// 文件 API
// ============================================================

// ReadTextFile 读取文本文件（如导入的简历草稿）
func (a *App) ReadTextFile(path string) (string, error) {
	if err := validateFilePath(path); err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("读取文件失败: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("读取文件失败: %s 是目录", path)
	}
	if info.Size() > maxTextFileSize {
		return "", fmt.Errorf("读取文件失败: 文件超过 %d 字节", maxTextFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("读取文件失败: %w", err)
	}
	return string(data), nil
}

// WriteTextFile 写入文本文件（如导出的简历）
func (a *App) WriteTextFile(path, content string) error {
	if err := validateFilePath(path); err != nil {
		return err
	}
	if len(content) > maxTextFileSize {
		return fmt.Errorf("写入文件失败: 内容超过 %d 字节", maxTextFileSize)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}
	return nil
}

// ============================================================
// 辅助函数
// ============================================================

func validateExternalURL(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Errorf("链接格式错误: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("链接缺少主机名")
		}
		return nil
	case "mailto":
		return nil
	default:
		return fmt.Errorf("不支持的链接协议: %q", u.Scheme)
	}
}

// validateFilePath 只接受对话框返回的绝对路径
func validateFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("文件路径为空")
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("文件路径必须是绝对路径: %s", path)
	}
	return nil
}

// formatDuration 格式化时长
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
