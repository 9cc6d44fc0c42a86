// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file ($TASK_MANAGER_DATA/config.toml, ~/.task-manager/config.toml
// or the OS-specific config directory)
// 3. Project config file (task-manager.toml or .task-manager.toml in the
// current directory)
// 4. Environment variables (TASK_MANAGER_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// Relative file paths resolve against data_dir, which defaults to
// ~/.task-manager and can be moved with TASK_MANAGER_DATA.
package config
