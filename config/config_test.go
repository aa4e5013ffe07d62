package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_DefaultsApplied(t *testing.T) {
	cfg, err := Parse([]byte("app:\n  title: \"Resume\"\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if cfg.Window.Name != "main" {
		t.Fatalf("window name default mismatch: got %q", cfg.Window.Name)
	}
	if !cfg.Window.HideOnClose {
		t.Fatalf("hide_on_close should default to true")
	}
	if cfg.Tray.ID != "main-tray" {
		t.Fatalf("tray id default mismatch: got %q", cfg.Tray.ID)
	}
	if cfg.Tray.Tooltip != "Resume" {
		t.Fatalf("tooltip should follow title, got %q", cfg.Tray.Tooltip)
	}
	if cfg.App.Width != 1200 || cfg.App.Height != 800 {
		t.Fatalf("size default mismatch: %dx%d", cfg.App.Width, cfg.App.Height)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("logging level default mismatch: %q", cfg.Logging.Level)
	}
}

func TestParse_ExplicitFalseHideOnClose(t *testing.T) {
	cfg, err := Parse([]byte("window:\n  hide_on_close: false\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.Window.HideOnClose {
		t.Fatalf("explicit hide_on_close: false must be kept")
	}
}

func TestParse_Validation(t *testing.T) {
	cases := map[string]string{
		"bad level":    "logging:\n  level: trace\n",
		"min too big":  "app:\n  width: 640\n  min_width: 800\n",
		"negative":     "app:\n  height: -1\n",
		"invalid yaml": "app: [",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(content)); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestParse_SmallWindowClampsMinSize(t *testing.T) {
	cfg, err := Parse([]byte("app:\n  width: 640\n  height: 480\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.App.MinWidth != 640 || cfg.App.MinHeight != 480 {
		t.Fatalf("min size should clamp to window size, got %dx%d", cfg.App.MinWidth, cfg.App.MinHeight)
	}
}

func TestTrayLabels(t *testing.T) {
	cfg, err := Parse([]byte("tray:\n  locale: en-US\n  labels:\n    quit: \"Exit\"\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	labels := cfg.TrayLabels()
	if labels.Show != "Show" || labels.Hide != "Hide" || labels.Quit != "Exit" {
		t.Fatalf("unexpected labels: %+v", labels)
	}

	if got := Default().TrayLabels().Show; got != "显示" {
		t.Fatalf("default locale should be zh-CN, got %q", got)
	}
}

func TestEmbeddedDefaultConfigParses(t *testing.T) {
	data, err := os.ReadFile("config.yaml")
	if err != nil {
		t.Fatalf("read config.yaml: %v", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("default config.yaml invalid: %v", err)
	}
	if cfg.Window.Name != "main" || cfg.Tray.Locale != "zh-CN" {
		t.Fatalf("unexpected default config: %+v", cfg)
	}
}

func TestEnsureConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	created, err := EnsureConfigFile(path, []byte("app:\n  title: first\n"))
	if err != nil || !created {
		t.Fatalf("EnsureConfigFile first call: created=%v err=%v", created, err)
	}

	created, err = EnsureConfigFile(path, []byte("app:\n  title: second\n"))
	if err != nil || created {
		t.Fatalf("EnsureConfigFile second call: created=%v err=%v", created, err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.App.Title != "first" {
		t.Fatalf("existing config must not be overwritten, title=%q", cfg.App.Title)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Window.StartHidden = true
	cfg.Tray.Labels.Quit = "关闭"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig error: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if !loaded.Window.StartHidden || loaded.TrayLabels().Quit != "关闭" {
		t.Fatalf("saved config not restored: %+v", loaded)
	}
}

func TestConfigWatcher_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: info\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cw, err := NewConfigWatcher(path, nil)
	if err != nil {
		t.Fatalf("NewConfigWatcher error: %v", err)
	}
	defer cw.Close()
	cw.mutex.Lock()
	cw.debounce = 50 * time.Millisecond
	cw.mutex.Unlock()

	reloaded := make(chan *Config, 16)
	cw.AddReloadCallback(func(c *Config) {
		select {
		case reloaded <- c:
		default:
		}
	})

	// 确保修改时间前进
	time.Sleep(20 * time.Millisecond)
	if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	timeout := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case c := <-reloaded:
			done = c.Logging.Level == "debug"
		case <-timeout:
			t.Fatalf("config reload callback not called with new level")
		}
	}

	if got := cw.GetConfig().Logging.Level; !strings.EqualFold(got, "debug") {
		t.Fatalf("GetConfig not updated: %q", got)
	}
}
