//go:build !stub

package tray

import (
	"context"
	"sync"

	"github.com/getlantern/systray"
)

type systrayController struct {
	desc      *Descriptor
	opts      Options
	quitCh    chan struct{}
	once      sync.Once
	running   bool
	runningMu sync.Mutex
}

func (c *systrayController) Stop() {
	c.once.Do(func() {
		c.runningMu.Lock()
		if c.running {
			systray.Quit()
			c.running = false
		}
		c.runningMu.Unlock()
		close(c.quitCh)
	})
}

func start(ctx context.Context, desc *Descriptor, opts Options) (Controller, error) {
	ctrl := &systrayController{
		desc:   desc,
		opts:   opts,
		quitCh: make(chan struct{}),
	}

	// systray.Run 会阻塞，在单独的 goroutine 中运行
	go func() {
		ctrl.runningMu.Lock()
		ctrl.running = true
		ctrl.runningMu.Unlock()

		systray.Run(
			func() { ctrl.onReady() },
			func() { ctrl.onExit() },
		)
	}()

	// 宿主上下文结束时一并停止托盘
	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				ctrl.Stop()
			case <-ctrl.quitCh:
			}
		}()
	}

	return ctrl, nil
}

func (c *systrayController) onReady() {
	if icon := c.desc.Icon(); len(icon) > 0 {
		systray.SetIcon(icon)
	}
	if c.desc.Tooltip() != "" {
		systray.SetTooltip(c.desc.Tooltip())
	}

	// 每个菜单项一个转发 goroutine，汇聚到 selected，再由单个 goroutine 顺序回调
	selected := make(chan string)
	for _, item := range c.desc.Items() {
		mi := systray.AddMenuItem(item.Label, item.Tooltip)
		if !item.Enabled {
			mi.Disable()
		}
		go c.forward(item.ID, mi.ClickedCh, selected)
	}

	go c.dispatch(selected)

	if c.opts.OnReady != nil {
		c.opts.OnReady()
	}
}

func (c *systrayController) forward(id string, clicked <-chan struct{}, out chan<- string) {
	for {
		select {
		case <-c.quitCh:
			return
		case <-clicked:
			select {
			case out <- id:
			case <-c.quitCh:
				return
			}
		}
	}
}

func (c *systrayController) dispatch(selected <-chan string) {
	for {
		select {
		case <-c.quitCh:
			return
		case id := <-selected:
			if c.opts.OnSelect != nil {
				c.opts.OnSelect(id)
			}
		}
	}
}

func (c *systrayController) onExit() {
	c.runningMu.Lock()
	c.running = false
	c.runningMu.Unlock()
}
