package tray

import "strings"

// Labels 托盘菜单的本地化文本。
type Labels struct {
	Show        string `yaml:"show"`
	Hide        string `yaml:"hide"`
	Quit        string `yaml:"quit"`
	ShowTooltip string `yaml:"show_tooltip"`
	HideTooltip string `yaml:"hide_tooltip"`
	QuitTooltip string `yaml:"quit_tooltip"`
}

var (
	labelsZH = Labels{
		Show:        "显示",
		Hide:        "隐藏",
		Quit:        "退出",
		ShowTooltip: "显示主窗口",
		HideTooltip: "隐藏主窗口",
		QuitTooltip: "退出应用",
	}
	labelsEN = Labels{
		Show:        "Show",
		Hide:        "Hide",
		Quit:        "Quit",
		ShowTooltip: "Show the main window",
		HideTooltip: "Hide the main window",
		QuitTooltip: "Quit the application",
	}
)

// LabelsFor 按 locale 返回菜单文本。zh 开头的 locale 使用中文，其余使用英文。
// 空 locale 视为 zh-CN。
func LabelsFor(locale string) Labels {
	l := strings.ToLower(strings.TrimSpace(locale))
	if l == "" || strings.HasPrefix(l, "zh") {
		return labelsZH
	}
	return labelsEN
}

// Merge 用 override 中的非空字段覆盖 l。
func (l Labels) Merge(override Labels) Labels {
	pick := func(base, o string) string {
		if strings.TrimSpace(o) != "" {
			return o
		}
		return base
	}
	return Labels{
		Show:        pick(l.Show, override.Show),
		Hide:        pick(l.Hide, override.Hide),
		Quit:        pick(l.Quit, override.Quit),
		ShowTooltip: pick(l.ShowTooltip, override.ShowTooltip),
		HideTooltip: pick(l.HideTooltip, override.HideTooltip),
		QuitTooltip: pick(l.QuitTooltip, override.QuitTooltip),
	}
}
