package utils

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName 应用目录名
const AppName = "AI-Resume"

// 测试可替换
var (
	goos     = runtime.GOOS
	getenv   = os.Getenv
	userHome = os.UserHomeDir
)

// GetAppDataDir 获取应用数据目录（跨平台）
// Windows: %APPDATA%\AI-Resume
// macOS: ~/Library/Application Support/AI-Resume
// Linux: $XDG_DATA_HOME/ai-resume 或 ~/.local/share/ai-resume
func GetAppDataDir() string {
	homeDir, _ := userHome()

	switch goos {
	case "windows":
		baseDir := getenv("APPDATA")
		if baseDir == "" {
			baseDir = filepath.Join(getenv("USERPROFILE"), "AppData", "Roaming")
		}
		return filepath.Join(baseDir, AppName)

	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", AppName)

	case "linux":
		if xdg := getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "ai-resume")
		}
		return filepath.Join(homeDir, ".local", "share", "ai-resume")

	default:
		return filepath.Join(homeDir, ".ai-resume")
	}
}

// GetLogDir 日志目录
func GetLogDir() string {
	return filepath.Join(GetAppDataDir(), "logs")
}

// GetConfigPath 用户配置文件路径
func GetConfigPath() string {
	return filepath.Join(GetAppDataDir(), "config.yaml")
}

// EnsureAppDirs 创建应用目录
func EnsureAppDirs() error {
	for _, dir := range []string{GetAppDataDir(), GetLogDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
