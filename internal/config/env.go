package config

import (
	"os"
	"strconv"
	"strings"
)

// envBinding maps one environment variable onto a config field.
type envBinding struct {
	name  string
	field string
	apply func(cfg *Config, v string) bool
}

func stringEnv(set func(*Config, string)) func(*Config, string) bool {
	return func(cfg *Config, v string) bool {
		set(cfg, v)
		return true
	}
}

func boolEnv(set func(*Config, bool)) func(*Config, string) bool {
	return func(cfg *Config, v string) bool {
		set(cfg, boolFromString(v))
		return true
	}
}

var envBindings = []envBinding{
	{dataDirEnv, "data_dir", stringEnv(func(c *Config, v string) { c.DataDir = v })},
	{"TASK_MANAGER_BUCKET", "task_bucket_path", stringEnv(func(c *Config, v string) { c.TaskBucketPath = v })},
	{"TASK_MANAGER_PROJECTS", "projects_path", stringEnv(func(c *Config, v string) { c.ProjectsPath = v })},
	{"TASK_MANAGER_BACKUP_DIR", "backup_dir", stringEnv(func(c *Config, v string) { c.BackupDir = v })},
	{"TASK_MANAGER_BACKUP_ENABLED", "backup_enabled", boolEnv(func(c *Config, v bool) { c.BackupEnabled = v })},
	{"TASK_MANAGER_BACKUP_KEEP", "backup_keep", func(c *Config, v string) bool {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return false
		}
		c.BackupKeep = n
		return true
	}},
	{"TASK_MANAGER_LOG_PATH", "log_path", stringEnv(func(c *Config, v string) { c.LogPath = v })},
	{"TASK_MANAGER_LOG_LEVEL", "log_level", stringEnv(func(c *Config, v string) { c.LogLevel = v })},
	{"TASK_MANAGER_LOG_FORMAT", "log_format", stringEnv(func(c *Config, v string) { c.LogFormat = v })},
	{"TASK_MANAGER_LOG_TIMESTAMPS", "log_timestamps", boolEnv(func(c *Config, v bool) { c.LogTimestamps = v })},
	{"TASK_MANAGER_COLOR", "color_enabled", boolEnv(func(c *Config, v bool) { c.ColorEnabled = v })},
	// https://no-color.org: any non-empty value disables color.
	{"NO_COLOR", "color_enabled", stringEnv(func(c *Config, _ string) { c.ColorEnabled = false })},
	{"TASK_MANAGER_DEFAULT_TYPE", "default_task_type", stringEnv(func(c *Config, v string) { c.DefaultTaskType = v })},
	{"TASK_MANAGER_DEFAULT_PRIORITY", "default_priority", stringEnv(func(c *Config, v string) { c.DefaultPriority = v })},
	{"TASK_MANAGER_MARKDOWN_FILE", "markdown_file", stringEnv(func(c *Config, v string) { c.MarkdownFile = v })},
	{"TASK_MANAGER_MARKDOWN_SYNC", "markdown_sync", boolEnv(func(c *Config, v bool) { c.MarkdownSync = v })},
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	loadFromEnvHelper(cfg, nil)
}

// loadFromEnvWithSources loads environment variables and updates source tracking.
func loadFromEnvWithSources(cfg *Config, sources map[string]ConfigSource) {
	loadFromEnvHelper(cfg, sources)
}

// loadFromEnvHelper is the shared implementation for env loading.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnvHelper(cfg *Config, sources map[string]ConfigSource) {
	for _, b := range envBindings {
		v := os.Getenv(b.name)
		if v == "" {
			continue
		}
		if b.apply(cfg, v) && sources != nil {
			sources[b.field] = SourceEnv
		}
	}
}

func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
