package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	names := []string{"task-manager.toml", ".task-manager.toml"}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks <data dir>/config.toml first, then falls back to the OS-specific
// config directory.
func findUserConfigFile(dataDir string) string {
	if dataDir != "" {
		userConfigPath := filepath.Join(expandPath(dataDir), UserConfigName)
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		userConfigPath := filepath.Join(cfgDir, "task-manager", UserConfigName)
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir
	if v := os.Getenv(dataDirEnv); v != "" {
		cfg.DataDir = v
	}
	cfg.TaskBucketPath = DefaultTaskBucketPath
	cfg.ProjectsPath = DefaultProjectsPath
	cfg.BackupDir = DefaultBackupDir
	cfg.LogPath = DefaultLogPath

	cfg.BackupEnabled = true
	cfg.BackupKeep = DefaultBackupKeep

	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = true

	cfg.ColorEnabled = true

	cfg.DefaultTaskType = DefaultTaskType
	cfg.DefaultPriority = DefaultPriority

	cfg.MarkdownFile = DefaultMarkdownFile
	cfg.MarkdownSync = true
}
