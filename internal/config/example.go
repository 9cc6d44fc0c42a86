package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# task-manager configuration file
# Place in <data dir>/config.toml or ./task-manager.toml.
# Values can be overridden by TASK_MANAGER_* environment variables or CLI flags.

# Base directory for relative paths (default ~/.task-manager, or $TASK_MANAGER_DATA)
# data_dir = "~/.task-manager"

task_bucket_path = "task-bucket.json"
projects_path = "projects.json"

# Timestamped copies of the bucket taken before each save
backup_enabled = true
backup_dir = "backups"
backup_keep = 10

# Operation log
log_path = "logs/task.log"
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = true

color_enabled = true

# Defaults for new tasks
default_task_type = "work"    # work, personal, daily
default_priority = "medium"   # high, medium, low

# Keep "Upcoming Tasks" / "Recent Completions" sections in <project path>/<markdown_file>
markdown_file = "CLAUDE.md"
markdown_sync = true
`
}
