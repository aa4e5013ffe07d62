package tray

import (
	"fmt"
	"strings"
)

// DescriptorID 托盘的固定标识。
const DescriptorID = "main-tray"

// Action 托盘菜单项对应的动作。
type Action int

const (
	ActionUnknown Action = iota
	ActionShow
	ActionHide
	ActionQuit
)

// 菜单项标识（事件回调中只会收到这些值）。
const (
	IDShow = "show"
	IDHide = "hide"
	IDQuit = "quit"
)

func (a Action) String() string {
	switch a {
	case ActionShow:
		return "show"
	case ActionHide:
		return "hide"
	case ActionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// ParseAction 将菜单项标识映射为动作，未知标识返回 ActionUnknown。
func ParseAction(id string) Action {
	switch id {
	case IDShow:
		return ActionShow
	case IDHide:
		return ActionHide
	case IDQuit:
		return ActionQuit
	default:
		return ActionUnknown
	}
}

// MenuItem 托盘菜单项。Checked 恒为 false，不支持快捷键。
type MenuItem struct {
	ID      string
	Label   string
	Tooltip string
	Enabled bool
	Action  Action
}

// ConfigurationError 菜单定义不合法（启动阶段致命）。
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "tray configuration: " + e.Reason
}

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// Descriptor 构建完成的托盘描述，构建后不可变。
type Descriptor struct {
	id      string
	icon    []byte
	tooltip string
	items   []MenuItem
}

func (d *Descriptor) ID() string      { return d.id }
func (d *Descriptor) Tooltip() string { return d.tooltip }

// Icon 返回图标字节的副本。
func (d *Descriptor) Icon() []byte {
	return append([]byte(nil), d.icon...)
}

// Items 返回菜单项的副本，顺序与构建时一致。
func (d *Descriptor) Items() []MenuItem {
	return append([]MenuItem(nil), d.items...)
}

// Item 按标识查找菜单项。
func (d *Descriptor) Item(id string) (MenuItem, bool) {
	for _, item := range d.items {
		if item.ID == id {
			return item, true
		}
	}
	return MenuItem{}, false
}

// BuildOption 构建选项。
type BuildOption func(*Descriptor)

// WithTooltip 设置托盘悬浮提示。
func WithTooltip(tooltip string) BuildOption {
	return func(d *Descriptor) { d.tooltip = tooltip }
}

// WithID 覆盖托盘标识（默认 main-tray）。
func WithID(id string) BuildOption {
	return func(d *Descriptor) {
		if id != "" {
			d.id = id
		}
	}
}

// Builder 构建托盘描述。只负责构建，注册到系统托盘由调用方完成。
type Builder struct {
	defaultIcon []byte
}

// NewBuilder 创建构建器，defaultIcon 在未提供图标时使用。
func NewBuilder(defaultIcon []byte) *Builder {
	return &Builder{defaultIcon: append([]byte(nil), defaultIcon...)}
}

// Build 校验菜单定义并返回托盘描述。
func (b *Builder) Build(icon []byte, items []MenuItem, opts ...BuildOption) (*Descriptor, error) {
	if len(icon) == 0 {
		icon = b.defaultIcon
	}
	if len(icon) == 0 {
		return nil, configErrorf("no icon supplied and no default icon available")
	}
	if len(items) == 0 {
		return nil, configErrorf("menu has no items")
	}

	seen := make(map[string]struct{}, len(items))
	present := make(map[Action]bool, 3)
	for i, item := range items {
		if strings.TrimSpace(item.ID) == "" {
			return nil, configErrorf("item %d: empty identifier", i)
		}
		if _, dup := seen[item.ID]; dup {
			return nil, configErrorf("duplicate identifier %q", item.ID)
		}
		seen[item.ID] = struct{}{}

		if strings.TrimSpace(item.Label) == "" {
			return nil, configErrorf("item %q: empty label", item.ID)
		}
		if got := ParseAction(item.ID); got == ActionUnknown || got != item.Action {
			return nil, configErrorf("item %q: identifier does not map to action %s", item.ID, item.Action)
		}
		present[item.Action] = true
	}

	for _, required := range []Action{ActionShow, ActionHide, ActionQuit} {
		if !present[required] {
			return nil, configErrorf("missing %s item", required)
		}
	}

	d := &Descriptor{
		id:    DescriptorID,
		icon:  append([]byte(nil), icon...),
		items: append([]MenuItem(nil), items...),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// DefaultItems 返回固定的三项菜单：显示 / 隐藏 / 退出。
func DefaultItems(labels Labels) []MenuItem {
	return []MenuItem{
		{ID: IDShow, Label: labels.Show, Tooltip: labels.ShowTooltip, Enabled: true, Action: ActionShow},
		{ID: IDHide, Label: labels.Hide, Tooltip: labels.HideTooltip, Enabled: true, Action: ActionHide},
		{ID: IDQuit, Label: labels.Quit, Tooltip: labels.QuitTooltip, Enabled: true, Action: ActionQuit},
	}
}
