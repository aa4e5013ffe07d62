// app_events.go - Wails 事件发射
// 将托盘操作与生命周期错误通知到前端

package main

import (
	"context"
	"errors"

	"ai-resume-desktop/internal/lifecycle"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// 事件名称常量
const (
	EventSystemStatus   = "system:status"
	EventTrayAction     = "tray:action"
	EventLifecycleError = "lifecycle:error"
	EventConfigReloaded = "config:reloaded"
	EventNotification   = "notification"
)

// wailsCtx 返回 Wails 上下文（启动前为 nil）
func (a *App) wailsCtx() context.Context {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.ctx
}

// emitSystemStatus 发送系统状态更新到前端
func (a *App) emitSystemStatus() {
	ctx := a.wailsCtx()
	if ctx == nil {
		return
	}
	runtime.EventsEmit(ctx, EventSystemStatus, a.GetSystemStatus())
}

// onTrayEvent 托盘事件处理完成后的回调（在托盘事件 goroutine 中执行）
func (a *App) onTrayEvent(ev lifecycle.Event) {
	ctx := a.wailsCtx()
	if ctx == nil {
		return
	}

	if ev.Err != nil {
		payload := map[string]string{
			"event_id": ev.ID,
			"item":     ev.Item,
			"error":    ev.Err.Error(),
		}
		if errors.Is(ev.Err, lifecycle.ErrWindowUnavailable) {
			payload["kind"] = "window_unavailable"
		}
		runtime.EventsEmit(ctx, EventLifecycleError, payload)
		return
	}

	runtime.EventsEmit(ctx, EventTrayAction, ev)
}

// emitConfigReloaded 通知前端配置已重新加载
func (a *App) emitConfigReloaded() {
	ctx := a.wailsCtx()
	if ctx == nil {
		return
	}
	runtime.EventsEmit(ctx, EventConfigReloaded, a.GetSystemStatus())
}

// emitNotification 发送通知到前端
func (a *App) emitNotification(level, title, message string) {
	ctx := a.wailsCtx()
	if ctx == nil {
		return
	}

	runtime.EventsEmit(ctx, EventNotification, map[string]string{
		"level":   level, // "info", "warning", "error", "success"
		"title":   title,
		"message": message,
	})
}
