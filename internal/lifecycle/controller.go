// Package lifecycle 将托盘菜单事件转换为主窗口的显示、隐藏与进程退出。
package lifecycle

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"ai-resume-desktop/internal/tray"

	"github.com/google/uuid"
)

// MainWindow 主窗口的固定名称。
const MainWindow = "main"

// State 应用生命周期状态。
type State int

const (
	StateVisible State = iota
	StateHidden
	StateExited
)

func (s State) String() string {
	switch s {
	case StateVisible:
		return "visible"
	case StateHidden:
		return "hidden"
	case StateExited:
		return "exited"
	default:
		return "unknown"
	}
}

// Window 宿主窗口的控制命令，均为幂等的即发即忘调用。
type Window interface {
	Show()
	Hide()
	SetFocus()
}

// Registry 按名称查找窗口。窗口可能尚未创建或已销毁，此时返回 false。
type Registry interface {
	Window(name string) (Window, bool)
}

// ExitFunc 请求进程以指定退出码结束。
type ExitFunc func(code int)

// ErrWindowUnavailable 用于 errors.Is 判断。
var ErrWindowUnavailable = errors.New("window unavailable")

// WindowUnavailableError 显示/隐藏时找不到指定窗口。可恢复，记录后继续处理后续事件。
type WindowUnavailableError struct {
	Name   string
	Action tray.Action
}

func (e *WindowUnavailableError) Error() string {
	return "window " + e.Name + " unavailable for " + e.Action.String()
}

func (e *WindowUnavailableError) Is(target error) bool {
	return target == ErrWindowUnavailable
}

// Event 一次已处理的托盘事件，用于通知观察者。
type Event struct {
	ID     string `json:"id"`
	Item   string `json:"item"`
	Action string `json:"action"`
	State  string `json:"state"`
	Err    error  `json:"-"`
}

// Option 控制器选项。
type Option func(*Controller)

// WithWindowName 覆盖主窗口名称（默认 "main"）。
func WithWindowName(name string) Option {
	return func(c *Controller) {
		if name != "" {
			c.windowName = name
		}
	}
}

// WithLogger 设置日志。
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver 每次 Dispatch 处理完成后回调（如推送到前端）。
func WithObserver(fn func(Event)) Option {
	return func(c *Controller) { c.observer = fn }
}

// WithInitialState 设置初始可见状态（窗口以隐藏方式启动时为 StateHidden）。
func WithInitialState(s State) Option {
	return func(c *Controller) {
		if s != StateExited {
			c.visibility = s
		}
	}
}

// Controller 托盘驱动的窗口生命周期控制器。
//
// 事件由宿主按顺序投递；控制器可以在非 UI 线程上调用。
type Controller struct {
	windows    Registry
	exit       ExitFunc
	windowName string
	logger     *slog.Logger
	observer   func(Event)

	exited atomic.Bool

	mu         sync.Mutex
	visibility State
}

// New 创建控制器。
func New(windows Registry, exit ExitFunc, opts ...Option) *Controller {
	c := &Controller{
		windows:    windows,
		exit:       exit,
		windowName: MainWindow,
		logger:     slog.Default(),
		visibility: StateVisible,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HandleEvent 处理一个菜单项标识。
// 未知标识直接忽略；Show/Hide 找不到窗口时返回 *WindowUnavailableError；
// Quit 无条件以退出码 0 结束进程。
func (c *Controller) HandleEvent(id string) error {
	if c.exited.Load() {
		return nil
	}

	action := tray.ParseAction(id)
	switch action {
	case tray.ActionShow:
		w, err := c.lookup(action)
		if err != nil {
			return err
		}
		w.Show()
		w.SetFocus()
		c.setVisibility(StateVisible)
	case tray.ActionHide:
		w, err := c.lookup(action)
		if err != nil {
			return err
		}
		w.Hide()
		c.setVisibility(StateHidden)
	case tray.ActionQuit:
		if c.exited.CompareAndSwap(false, true) && c.exit != nil {
			c.exit(0)
		}
	}
	return nil
}

// Dispatch 是事件循环的入口：处理事件并在本地消化窗口查找失败，保证托盘继续可用。
func (c *Controller) Dispatch(id string) {
	action := tray.ParseAction(id)
	ev := Event{
		ID:     uuid.NewString(),
		Item:   id,
		Action: action.String(),
	}

	if action == tray.ActionUnknown {
		c.logger.Debug("忽略未知托盘菜单项", "item", id, "event_id", ev.ID)
		return
	}
	if c.exited.Load() {
		c.logger.Debug("应用正在退出，忽略托盘操作", "item", id, "event_id", ev.ID)
		return
	}

	err := c.HandleEvent(id)
	ev.Err = err
	ev.State = c.State().String()

	if err != nil {
		c.logger.Error("❌ 托盘操作失败，主窗口不可用",
			"item", id,
			"window", c.windowName,
			"event_id", ev.ID,
			"error", err)
	} else {
		c.logger.Info("托盘操作完成",
			"action", ev.Action,
			"state", ev.State,
			"event_id", ev.ID)
	}

	if c.observer != nil {
		c.observer(ev)
	}
}

// State 返回 Exited，或最近一次成功应用的可见状态。
func (c *Controller) State() State {
	if c.exited.Load() {
		return StateExited
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visibility
}

func (c *Controller) lookup(action tray.Action) (Window, error) {
	if c.windows == nil {
		return nil, &WindowUnavailableError{Name: c.windowName, Action: action}
	}
	w, ok := c.windows.Window(c.windowName)
	if !ok || w == nil {
		return nil, &WindowUnavailableError{Name: c.windowName, Action: action}
	}
	return w, nil
}

func (c *Controller) setVisibility(s State) {
	c.mu.Lock()
	c.visibility = s
	c.mu.Unlock()
}
