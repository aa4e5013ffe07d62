package tray

import "context"

// Controller 表示托盘控制器（用于停止托盘）。
type Controller interface {
	Stop()
}

// Options 托盘启动参数。
type Options struct {
	// OnSelect 用户点击菜单项时触发，参数为菜单项标识。
	// 所有点击在同一个 goroutine 中按顺序回调，回调之间不会并发。
	OnSelect func(id string)

	// OnReady 托盘就绪后触发（可选）。
	OnReady func()
}

// Start 将托盘描述注册到系统托盘（平台相关实现）。
func Start(ctx context.Context, desc *Descriptor, opts Options) (Controller, error) {
	if desc == nil {
		return nil, &ConfigurationError{Reason: "nil descriptor"}
	}
	return start(ctx, desc, opts)
}
