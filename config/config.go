package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"ai-resume-desktop/internal/tray"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App     AppConfig     `yaml:"app"`
	Window  WindowConfig  `yaml:"window"`
	Tray    TrayConfig    `yaml:"tray"`
	Logging LoggingConfig `yaml:"logging"`
}

type AppConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	MinWidth  int    `yaml:"min_width"`
	MinHeight int    `yaml:"min_height"`
}

type WindowConfig struct {
	Name        string `yaml:"name"`          // Primary window name, default: main
	StartHidden bool   `yaml:"start_hidden"`  // Start minimized to tray
	HideOnClose bool   `yaml:"hide_on_close"` // Close button hides to tray instead of quitting, default: true
}

// TrayConfig 托盘配置。托盘菜单在运行期间不可变，修改后需重启生效。
type TrayConfig struct {
	ID       string      `yaml:"id"`
	Tooltip  string      `yaml:"tooltip"`
	IconPath string      `yaml:"icon_path"` // Optional icon file; empty uses the embedded app icon
	Locale   string      `yaml:"locale"`    // Label locale, e.g. zh-CN / en-US
	Labels   tray.Labels `yaml:"labels"`    // Per-label overrides
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	FileEnabled bool   `yaml:"file_enabled"` // Enable file logging
	FilePath    string `yaml:"file_path"`    // Log file path
}

// Default returns a configuration populated with defaults.
func Default() *Config {
	c := base()
	c.setDefaults()
	return c
}

// base holds defaults that cannot be expressed as zero-value fallbacks.
func base() *Config {
	return &Config{
		Window: WindowConfig{HideOnClose: true},
	}
}

// LoadConfig loads configuration from file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration content. Fields absent from data keep their defaults.
func Parse(data []byte) (*Config, error) {
	config := base()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.setDefaults()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// setDefaults sets default values for configuration
func (c *Config) setDefaults() {
	if c.App.Title == "" {
		c.App.Title = "AI 简历"
	}
	if c.App.Width == 0 {
		c.App.Width = 1200
	}
	if c.App.Height == 0 {
		c.App.Height = 800
	}
	if c.App.MinWidth == 0 {
		c.App.MinWidth = min(800, c.App.Width)
	}
	if c.App.MinHeight == 0 {
		c.App.MinHeight = min(600, c.App.Height)
	}
	if c.Window.Name == "" {
		c.Window.Name = "main"
	}
	if c.Tray.ID == "" {
		c.Tray.ID = tray.DescriptorID
	}
	if c.Tray.Tooltip == "" {
		c.Tray.Tooltip = c.App.Title
	}
	if c.Tray.Locale == "" {
		c.Tray.Locale = "zh-CN"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.App.Width < 0 || c.App.Height < 0 {
		return fmt.Errorf("app width and height must be positive")
	}
	if c.App.MinWidth > c.App.Width || c.App.MinHeight > c.App.Height {
		return fmt.Errorf("app min size %dx%d exceeds window size %dx%d",
			c.App.MinWidth, c.App.MinHeight, c.App.Width, c.App.Height)
	}
	if strings.TrimSpace(c.Window.Name) == "" {
		return fmt.Errorf("window name is required")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging level must be one of debug, info, warn, error")
	}
	return nil
}

// TrayLabels returns the localized tray labels with overrides applied.
func (c *Config) TrayLabels() tray.Labels {
	return tray.LabelsFor(c.Tray.Locale).Merge(c.Tray.Labels)
}

// EnsureConfigFile writes defaultContent to path when no file exists there.
func EnsureConfigFile(path string, defaultContent []byte) (created bool, err error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, defaultContent, 0644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ConfigWatcher handles automatic configuration reloading
type ConfigWatcher struct {
	configPath    string
	config        *Config
	mutex         sync.RWMutex
	watcher       *fsnotify.Watcher
	logger        *slog.Logger
	callbacks     []func(*Config)
	lastModTime   time.Time
	debounceTimer *time.Timer
	debounce      time.Duration
}

// NewConfigWatcher creates a new configuration watcher
func NewConfigWatcher(configPath string, logger *slog.Logger) (*ConfigWatcher, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial config: %w", err)
	}

	fileInfo, err := os.Stat(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	cw := &ConfigWatcher{
		configPath:  configPath,
		config:      config,
		watcher:     watcher,
		logger:      logger,
		callbacks:   make([]func(*Config), 0),
		lastModTime: fileInfo.ModTime(),
		debounce:    500 * time.Millisecond,
	}

	if err := watcher.Add(configPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch config file: %w", err)
	}

	go cw.watchLoop()

	return cw, nil
}

// GetConfig returns the current configuration (thread-safe)
func (cw *ConfigWatcher) GetConfig() *Config {
	cw.mutex.RLock()
	defer cw.mutex.RUnlock()
	return cw.config
}

// Path returns the watched config file path.
func (cw *ConfigWatcher) Path() string {
	return cw.configPath
}

// UpdateLogger updates the logger used by the config watcher
func (cw *ConfigWatcher) UpdateLogger(logger *slog.Logger) {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()
	cw.logger = logger
}

func (cw *ConfigWatcher) log() *slog.Logger {
	cw.mutex.RLock()
	defer cw.mutex.RUnlock()
	return cw.logger
}

// AddReloadCallback adds a callback function that will be called when config is reloaded
func (cw *ConfigWatcher) AddReloadCallback(callback func(*Config)) {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()
	cw.callbacks = append(cw.callbacks, callback)
}

// watchLoop monitors the config file for changes
func (cw *ConfigWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fileInfo, err := os.Stat(cw.configPath)
				if err != nil {
					cw.log().Warn(fmt.Sprintf("⚠️ 无法获取配置文件信息: %v", err))
					continue
				}

				// Skip if modification time hasn't changed
				if !fileInfo.ModTime().After(cw.lastModTime) {
					continue
				}
				cw.lastModTime = fileInfo.ModTime()

				cw.mutex.Lock()
				if cw.debounceTimer != nil {
					cw.debounceTimer.Stop()
				}
				cw.debounceTimer = time.AfterFunc(cw.debounce, func() {
					cw.log().Info(fmt.Sprintf("🔄 检测到配置文件变更，正在重新加载... - 文件: %s", event.Name))
					if err := cw.reloadConfig(); err != nil {
						cw.log().Error(fmt.Sprintf("❌ 配置文件重新加载失败: %v", err))
					} else {
						cw.log().Info("✅ 配置文件重新加载成功")
					}
				})
				cw.mutex.Unlock()
			}

			// Some editors rename files during save
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				time.Sleep(100 * time.Millisecond)
				if _, err := os.Stat(cw.configPath); err == nil {
					_ = cw.watcher.Add(cw.configPath)
					cw.log().Info(fmt.Sprintf("🔄 重新监听配置文件: %s", cw.configPath))
				}
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.log().Error(fmt.Sprintf("⚠️ 配置文件监听错误: %v", err))
		}
	}
}

// reloadConfig reloads the configuration from file
func (cw *ConfigWatcher) reloadConfig() error {
	newConfig, err := LoadConfig(cw.configPath)
	if err != nil {
		return err
	}

	cw.mutex.Lock()
	oldConfig := cw.config
	cw.config = newConfig
	callbacks := make([]func(*Config), len(cw.callbacks))
	copy(callbacks, cw.callbacks)
	cw.mutex.Unlock()

	for _, callback := range callbacks {
		callback(newConfig)
	}

	cw.logConfigChanges(oldConfig, newConfig)

	return nil
}

// logConfigChanges logs the key differences between old and new configurations
func (cw *ConfigWatcher) logConfigChanges(oldConfig, newConfig *Config) {
	logger := cw.log()

	if oldConfig.Logging.Level != newConfig.Logging.Level {
		logger.Info("📝 日志级别变更",
			"old_level", oldConfig.Logging.Level,
			"new_level", newConfig.Logging.Level)
	}

	if oldConfig.Window.HideOnClose != newConfig.Window.HideOnClose {
		logger.Info("🪟 关闭窗口行为变更",
			"hide_on_close", newConfig.Window.HideOnClose)
	}

	if oldConfig.Tray != newConfig.Tray || oldConfig.Window.Name != newConfig.Window.Name {
		logger.Warn("⚠️ 托盘菜单与主窗口名称在运行期间不可变，重启后生效")
	}
}

// Close stops the configuration watcher
func (cw *ConfigWatcher) Close() error {
	cw.mutex.Lock()
	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}
	cw.mutex.Unlock()
	return cw.watcher.Close()
}
