package config

import (
	"fmt"
	"strconv"
)

// Setting is one resolved configuration value and where it came from.
type Setting struct {
	Key    string
	Value  string
	Source ConfigSource
}

// Value returns the string form of a config key, and false for unknown keys.
func (c *Config) Value(key string) (string, bool) {
	switch key {
	case "data_dir":
		return c.DataDir, true
	case "task_bucket_path":
		return c.TaskBucketPath, true
	case "projects_path":
		return c.ProjectsPath, true
	case "backup_dir":
		return c.BackupDir, true
	case "backup_enabled":
		return strconv.FormatBool(c.BackupEnabled), true
	case "backup_keep":
		return strconv.Itoa(c.BackupKeep), true
	case "log_path":
		return c.LogPath, true
	case "log_level":
		return c.LogLevel, true
	case "log_format":
		return c.LogFormat, true
	case "log_timestamps":
		return strconv.FormatBool(c.LogTimestamps), true
	case "color_enabled":
		return strconv.FormatBool(c.ColorEnabled), true
	case "default_task_type":
		return c.DefaultTaskType, true
	case "default_priority":
		return c.DefaultPriority, true
	case "markdown_file":
		return c.MarkdownFile, true
	case "markdown_sync":
		return strconv.FormatBool(c.MarkdownSync), true
	}
	return "", false
}

// Settings lists every key with its value and source, in declaration order.
func (cws *ConfigWithSources) Settings() []Setting {
	fields := configFields()
	settings := make([]Setting, 0, len(fields))
	for _, key := range fields {
		value, _ := cws.Config.Value(key)
		source := cws.Sources[key]
		if source == "" {
			source = SourceDefault
		}
		settings = append(settings, Setting{Key: key, Value: value, Source: source})
	}
	return settings
}

// String implements fmt.Stringer for debugging output.
func (s Setting) String() string {
	return fmt.Sprintf("%s = %s (%s)", s.Key, s.Value, s.Source)
}
