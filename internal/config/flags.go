package config

import "flag"

// flagFields maps global flag names to config keys.
var flagFields = map[string]string{
	"data-dir":       "data_dir",
	"bucket":         "task_bucket_path",
	"projects":       "projects_path",
	"backup-dir":     "backup_dir",
	"backup":         "backup_enabled",
	"backup-keep":    "backup_keep",
	"log-file":       "log_path",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"color":          "color_enabled",
	"markdown-sync":  "markdown_sync",
}

// parseFlags defines and parses the global CLI flags.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	return parseFlagsHelper(cfg, fs, args, nil)
}

// parseFlagsWithSources parses CLI flags and updates source tracking.
func parseFlagsWithSources(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	return parseFlagsHelper(cfg, fs, args, sources)
}

// parseFlagsHelper binds flags directly to cfg, using the values loaded so
// far as defaults, then records which flags were given.
func parseFlagsHelper(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("task", flag.ContinueOnError)
	}

	// Paths
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Data directory for relative paths")
	fs.StringVar(&cfg.TaskBucketPath, "bucket", cfg.TaskBucketPath, "Path to task bucket file")
	fs.StringVar(&cfg.ProjectsPath, "projects", cfg.ProjectsPath, "Path to project registry file")
	fs.StringVar(&cfg.BackupDir, "backup-dir", cfg.BackupDir, "Backup directory")

	// Backups
	fs.BoolVar(&cfg.BackupEnabled, "backup", cfg.BackupEnabled, "Back up the bucket before each save")
	fs.IntVar(&cfg.BackupKeep, "backup-keep", cfg.BackupKeep, "Number of backups to keep")

	// Logging
	fs.StringVar(&cfg.LogPath, "log-file", cfg.LogPath, "Operation log file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")

	// Output
	fs.BoolVar(&cfg.ColorEnabled, "color", cfg.ColorEnabled, "Colorize output")
	fs.BoolVar(&cfg.MarkdownSync, "markdown-sync", cfg.MarkdownSync, "Sync task changes into project markdown")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
