// main.go - AI 简历桌面端入口
// 负责加载配置、初始化日志、构建托盘菜单并运行 Wails 应用

package main

import (
	"embed"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ai-resume-desktop/config"
	"ai-resume-desktop/internal/logging"
	"ai-resume-desktop/internal/utils"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
)

// 版本信息
var (
	Version   = "1.0.0"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// 命令行参数
var (
	configPath  = flag.String("config", "", "配置文件路径（默认使用应用数据目录下的 config.yaml）")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

// 嵌入前端资源
//
//go:embed all:frontend/dist
var assets embed.FS

// 嵌入应用图标（同时作为托盘默认图标）
//
//go:embed build/appicon.png
var icon []byte

// 嵌入默认配置文件
//
//go:embed config/config.yaml
var defaultConfigContent []byte

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("AI Resume Desktop\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Commit: %s\n", Commit)
		fmt.Printf("Built: %s\n", BuildTime)
		os.Exit(0)
	}

	app := NewApp()
	app.configPath = *configPath

	// 配置错误（包括托盘菜单定义错误）在窗口和托盘出现之前终止启动
	if err := app.bootstrap(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := app.config
	err := wails.Run(&options.App{
		Title:       cfg.App.Title,
		Width:       cfg.App.Width,
		Height:      cfg.App.Height,
		MinWidth:    cfg.App.MinWidth,
		MinHeight:   cfg.App.MinHeight,
		StartHidden: cfg.Window.StartHidden,

		AssetServer: &assetserver.Options{
			Assets: assets,
		},

		BackgroundColour: &options.RGBA{R: 255, G: 255, B: 255, A: 1},

		// 生命周期回调
		OnStartup:     app.startup,
		OnDomReady:    app.domReady,
		OnBeforeClose: app.beforeClose,
		OnShutdown:    app.shutdown,

		// 绑定到前端的方法
		Bind: []interface{}{
			app,
		},

		Mac: &mac.Options{
			TitleBar: mac.TitleBarDefault(),
			About: &mac.AboutInfo{
				Title:   cfg.App.Title,
				Message: fmt.Sprintf("AI 简历智能生成平台\n版本 %s", Version),
				Icon:    icon,
			},
		},

		Windows: &windows.Options{
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			DisableWindowIcon:    false,
		},
	})

	app.closeLogs()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(app.host.ExitCode())
}

// setupLogger 配置结构化日志
func setupLogger(cfg config.LoggingConfig, emitter *logging.EventEmitter) (*slog.Logger, *logging.Handler, *slog.LevelVar) {
	level := new(slog.LevelVar)
	level.Set(logging.ParseLevel(cfg.Level))

	opts := logging.Options{
		Level:   level,
		Emitter: emitter,
	}
	if cfg.FileEnabled {
		opts.FilePath = resolveLogPath(cfg.FilePath)
	}

	handler, err := logging.NewHandler(opts)
	if err != nil {
		// 文件日志不可用时退回仅控制台输出
		fmt.Printf("警告：无法创建日志文件 %s: %v\n", opts.FilePath, err)
		opts.FilePath = ""
		handler, _ = logging.NewHandler(opts)
	} else if opts.FilePath != "" {
		fmt.Printf("🔧 文件日志已启用: 路径=%s\n", opts.FilePath)
	}

	return slog.New(handler), handler, level
}

// resolveLogPath 未配置或配置为相对路径时，日志写入应用数据目录
func resolveLogPath(path string) string {
	if path == "" {
		return filepath.Join(utils.GetLogDir(), "app.log")
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(utils.GetAppDataDir(), path)
}
