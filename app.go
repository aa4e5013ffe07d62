// app.go - Wails 应用核心结构
// 持有配置、日志、托盘与窗口生命周期控制器，提供 Wails 生命周期回调

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"ai-resume-desktop/config"
	"ai-resume-desktop/internal/lifecycle"
	"ai-resume-desktop/internal/logging"
	"ai-resume-desktop/internal/tray"
	"ai-resume-desktop/internal/utils"
)

// App 是 Wails 应用的核心结构
// 它持有托盘与生命周期控制器，并暴露方法给前端调用
type App struct {
	// Wails 上下文
	ctx context.Context

	// 核心组件
	config        *config.Config
	configWatcher *config.ConfigWatcher
	logger        *slog.Logger
	logLevel      *slog.LevelVar
	logHandler    *logging.Handler
	logEmitter    *logging.EventEmitter

	// 托盘与窗口生命周期
	trayDesc  *tray.Descriptor
	tray      tray.Controller
	host      *lifecycle.WailsHost
	lifecycle *lifecycle.Controller

	// 应用状态
	startTime  time.Time
	configPath string

	mu          sync.RWMutex
	hideOnClose atomic.Bool
}

// NewApp 创建新的应用实例
func NewApp() *App {
	return &App{
		startTime:  time.Now(),
		logEmitter: logging.NewEventEmitter(),
	}
}

// bootstrap 在 wails.Run 之前完成配置、日志与托盘菜单构建
// 返回的错误对启动是致命的
func (a *App) bootstrap() error {
	if err := a.loadConfig(); err != nil {
		return err
	}

	a.setupLogger()

	a.logger.Info("🚀 AI 简历桌面端启动中...",
		"version", Version,
		"config_file", a.configPath)

	desc, err := buildTrayDescriptor(a.config, icon, a.logger)
	if err != nil {
		var cfgErr *tray.ConfigurationError
		if errors.As(err, &cfgErr) {
			a.logger.Error("❌ 托盘菜单配置错误", "error", err)
		}
		return fmt.Errorf("failed to build tray menu: %w", err)
	}
	a.trayDesc = desc

	a.setupLifecycle()
	return nil
}

// startup 在 Wails 应用启动时调用
func (a *App) startup(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()

	// 主窗口从此刻起可被查找
	a.host.Attach(ctx)
	a.logEmitter.Start(ctx)

	// 托盘必须在 Wails 启动之后创建（macOS 需要运行中的事件循环）
	a.startTray(ctx)

	a.setupConfigReload()

	a.logger.Info("✅ AI 简历桌面端启动完成",
		"window", a.config.Window.Name,
		"start_hidden", a.config.Window.StartHidden,
		"hide_on_close", a.hideOnClose.Load())
}

// domReady 在前端 DOM 准备就绪时调用
func (a *App) domReady(ctx context.Context) {
	a.emitSystemStatus()
}

// beforeClose 在窗口关闭前调用，返回 true 阻止关闭
func (a *App) beforeClose(ctx context.Context) bool {
	// 已经在退出流程中：放行
	if a.host.Quitting() {
		return false
	}

	if a.hideOnClose.Load() {
		if err := a.lifecycle.HandleEvent(tray.IDHide); err != nil {
			a.logger.Warn("⚠️ 隐藏主窗口失败，按默认流程关闭", "error", err)
			return false
		}
		a.logger.Info("🪟 主窗口已隐藏到托盘")
		return true
	}

	// 与托盘“退出”走同一条路径，由 Quit 统一收口到 OnShutdown
	a.lifecycle.Dispatch(tray.IDQuit)
	return true
}

// shutdown 在 Wails 应用关闭时调用
func (a *App) shutdown(ctx context.Context) {
	a.mu.Lock()
	logger := a.logger
	trayCtrl := a.tray
	configWatcher := a.configWatcher
	a.tray = nil
	a.ctx = nil
	a.mu.Unlock()

	logger.Info("🛑 正在关闭 AI 简历桌面端...")

	// 1. 主窗口不再可用
	a.host.Detach()

	// 2. 移除托盘图标
	if trayCtrl != nil {
		trayCtrl.Stop()
	}

	// 3. 关闭配置监听
	if configWatcher != nil {
		_ = configWatcher.Close()
	}

	// 4. 停止日志事件发射器
	a.logEmitter.Stop()

	logger.Info("✅ AI 简历桌面端已关闭", "exit_code", a.host.ExitCode())
}

// closeLogs 在 wails.Run 返回后关闭日志文件
func (a *App) closeLogs() {
	if a.logHandler != nil {
		_ = a.logHandler.Close()
	}
}

// loadConfig 加载配置
func (a *App) loadConfig() error {
	tempLogger := slog.Default()

	path := a.configPath
	if path == "" {
		if err := utils.EnsureAppDirs(); err != nil {
			tempLogger.Warn("⚠️ 无法创建应用目录", "error", err)
		}
		path = utils.GetConfigPath()

		// 首次运行时写入内置默认配置
		created, err := config.EnsureConfigFile(path, defaultConfigContent)
		if err != nil {
			return fmt.Errorf("无法写入默认配置: %w", err)
		}
		if created {
			tempLogger.Info("📝 已生成默认配置", "path", path)
		}
	}

	configWatcher, err := config.NewConfigWatcher(path, tempLogger)
	if err != nil {
		return fmt.Errorf("无法加载配置: %w", err)
	}

	a.configWatcher = configWatcher
	a.config = configWatcher.GetConfig()
	a.configPath = path
	a.hideOnClose.Store(a.config.Window.HideOnClose)
	return nil
}

// setupLogger 设置日志
func (a *App) setupLogger() {
	logger, handler, level := setupLogger(a.config.Logging, a.logEmitter)
	a.logger = logger
	a.logHandler = handler
	a.logLevel = level
	slog.SetDefault(logger)

	if a.configWatcher != nil {
		a.configWatcher.UpdateLogger(logger)
	}

	a.logger.Info("✅ 日志系统初始化完成",
		"level", a.config.Logging.Level,
		"file_enabled", a.config.Logging.FileEnabled)
}

// setupLifecycle 创建窗口生命周期控制器
func (a *App) setupLifecycle() {
	a.host = lifecycle.NewWailsHost(a.config.Window.Name)

	initial := lifecycle.StateVisible
	if a.config.Window.StartHidden {
		initial = lifecycle.StateHidden
	}

	a.lifecycle = lifecycle.New(a.host, a.host.Exit,
		lifecycle.WithWindowName(a.config.Window.Name),
		lifecycle.WithLogger(a.logger.With("component", "lifecycle")),
		lifecycle.WithInitialState(initial),
		lifecycle.WithObserver(a.onTrayEvent),
	)
}

// startTray 将托盘描述注册到系统托盘，菜单点击交给生命周期控制器
func (a *App) startTray(ctx context.Context) {
	ctrl, err := tray.Start(ctx, a.trayDesc, tray.Options{
		OnSelect: a.lifecycle.Dispatch,
		OnReady: func() {
			a.logger.Info("📌 系统托盘已就绪",
				"tray_id", a.trayDesc.ID(),
				"items", len(a.trayDesc.Items()))
		},
	})
	if err != nil {
		a.logger.Error("❌ 系统托盘启动失败", "error", err)
		return
	}

	a.mu.Lock()
	a.tray = ctrl
	a.mu.Unlock()
}

// setupConfigReload 配置热重载：日志级别与关闭窗口行为
func (a *App) setupConfigReload() {
	if a.configWatcher == nil {
		return
	}
	a.configWatcher.AddReloadCallback(func(newConfig *config.Config) {
		a.mu.Lock()
		a.config = newConfig
		a.mu.Unlock()

		a.logLevel.Set(logging.ParseLevel(newConfig.Logging.Level))
		a.hideOnClose.Store(newConfig.Window.HideOnClose)

		a.emitConfigReloaded()
	})
}

// buildTrayDescriptor 根据配置构建托盘描述
// 自定义图标读取失败时退回内置图标
func buildTrayDescriptor(cfg *config.Config, defaultIcon []byte, logger *slog.Logger) (*tray.Descriptor, error) {
	var custom []byte
	if cfg.Tray.IconPath != "" {
		data, err := os.ReadFile(cfg.Tray.IconPath)
		if err != nil {
			logger.Warn("⚠️ 无法读取托盘图标，使用内置图标",
				"path", cfg.Tray.IconPath,
				"error", err)
		} else {
			custom = data
		}
	}

	return tray.NewBuilder(defaultIcon).Build(custom,
		tray.DefaultItems(cfg.TrayLabels()),
		tray.WithID(cfg.Tray.ID),
		tray.WithTooltip(cfg.Tray.Tooltip),
	)
}
