package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultDataDir        = "~/.task-manager"
	DefaultTaskBucketPath = "task-bucket.json"
	DefaultProjectsPath   = "projects.json"
	DefaultBackupDir      = "backups"
	DefaultBackupKeep     = 10
	DefaultLogPath        = "logs/task.log"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultTaskType       = "work"
	DefaultPriority       = "medium"
	DefaultMarkdownFile   = "CLAUDE.md"
	UserConfigName        = "config.toml"
	dataDirEnv            = "TASK_MANAGER_DATA"
)

// Config holds the full configuration for the task manager.
type Config struct {
	// Paths
	DataDir        string `toml:"data_dir"`
	TaskBucketPath string `toml:"task_bucket_path"`
	ProjectsPath   string `toml:"projects_path"`
	BackupDir      string `toml:"backup_dir"`
	LogPath        string `toml:"log_path"`

	// Backups
	BackupEnabled bool `toml:"backup_enabled"`
	BackupKeep    int  `toml:"backup_keep"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`

	// Output
	ColorEnabled bool `toml:"color_enabled"`

	// New task defaults
	DefaultTaskType string `toml:"default_task_type"`
	DefaultPriority string `toml:"default_priority"`

	// Markdown sync into the project directory
	MarkdownFile string `toml:"markdown_file"`
	MarkdownSync bool   `toml:"markdown_sync"`
}
