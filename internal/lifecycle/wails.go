package lifecycle

import (
	"context"
	"os"
	"sync"
	"sync/atomic"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// WailsHost 将 Wails 运行时适配为窗口注册表与进程退出能力。
//
// Wails v2 只有一个窗口，Attach 之前（OnStartup 未触发）或 Detach 之后
// （OnShutdown 已触发）视为窗口不存在。
type WailsHost struct {
	mu         sync.RWMutex
	ctx        context.Context
	windowName string

	quitting atomic.Bool
	exitCode atomic.Int32

	// 测试可替换
	quit   func(ctx context.Context)
	osExit func(code int)
}

// NewWailsHost 创建宿主适配器，windowName 为空时使用 "main"。
func NewWailsHost(windowName string) *WailsHost {
	if windowName == "" {
		windowName = MainWindow
	}
	return &WailsHost{
		windowName: windowName,
		quit:       runtime.Quit,
		osExit:     os.Exit,
	}
}

// Attach 在 Wails OnStartup 中调用。
func (h *WailsHost) Attach(ctx context.Context) {
	h.mu.Lock()
	h.ctx = ctx
	h.mu.Unlock()
}

// Detach 在 Wails OnShutdown 中调用。
func (h *WailsHost) Detach() {
	h.mu.Lock()
	h.ctx = nil
	h.mu.Unlock()
}

func (h *WailsHost) currentCtx() context.Context {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ctx
}

// Window 实现 Registry。
func (h *WailsHost) Window(name string) (Window, bool) {
	if name != h.windowName {
		return nil, false
	}
	ctx := h.currentCtx()
	if ctx == nil {
		return nil, false
	}
	return wailsWindow{ctx: ctx}, true
}

// Exit 记录退出码并请求 Wails 退出（会执行 OnShutdown）；
// 未 Attach 时直接结束进程。
func (h *WailsHost) Exit(code int) {
	h.exitCode.Store(int32(code))
	h.quitting.Store(true)

	ctx := h.currentCtx()
	if ctx == nil {
		h.osExit(code)
		return
	}
	// Quit 可能同步触发回调，避免阻塞调用方（托盘事件线程）
	go h.quit(ctx)
}

// Quitting 返回是否已请求退出。
func (h *WailsHost) Quitting() bool {
	return h.quitting.Load()
}

// ExitCode 返回 Exit 记录的退出码，wails.Run 返回后由 main 使用。
func (h *WailsHost) ExitCode() int {
	return int(h.exitCode.Load())
}

type wailsWindow struct {
	ctx context.Context
}

func (w wailsWindow) Show() {
	runtime.WindowShow(w.ctx)
	runtime.WindowUnminimise(w.ctx)
}

func (w wailsWindow) Hide() {
	runtime.WindowHide(w.ctx)
}

// SetFocus 通过短暂置顶把窗口带到前台。
func (w wailsWindow) SetFocus() {
	runtime.WindowUnminimise(w.ctx)
	runtime.WindowSetAlwaysOnTop(w.ctx, true)
	runtime.WindowSetAlwaysOnTop(w.ctx, false)
}
