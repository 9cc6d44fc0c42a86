// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// isolate points every config lookup at temp directories and clears the
// TASK_MANAGER_* environment.
func isolate(t *testing.T) string {
	t.Helper()
	dataDir := t.TempDir()
	for _, b := range envBindings {
		t.Setenv(b.name, "")
	}
	t.Setenv(dataDirEnv, dataDir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
	return dataDir
}

func TestDefaults(t *testing.T) {
	t.Setenv(dataDirEnv, "")
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.DataDir != DefaultDataDir {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, DefaultDataDir)
	}
	if cfg.TaskBucketPath != DefaultTaskBucketPath {
		t.Errorf("TaskBucketPath: got %q, want %q", cfg.TaskBucketPath, DefaultTaskBucketPath)
	}
	if !cfg.BackupEnabled || cfg.BackupKeep != 10 {
		t.Errorf("backups: enabled=%v keep=%d", cfg.BackupEnabled, cfg.BackupKeep)
	}
	if cfg.DefaultTaskType != "work" || cfg.DefaultPriority != "medium" {
		t.Errorf("task defaults: %q %q", cfg.DefaultTaskType, cfg.DefaultPriority)
	}
}

func TestLoadResolvesPathsUnderDataDir(t *testing.T) {
	dataDir := isolate(t)

	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DataDir != dataDir {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, dataDir)
	}
	if want := filepath.Join(dataDir, "task-bucket.json"); cfg.TaskBucketPath != want {
		t.Errorf("TaskBucketPath: got %q, want %q", cfg.TaskBucketPath, want)
	}
	if want := filepath.Join(dataDir, "backups"); cfg.BackupDir != want {
		t.Errorf("BackupDir: got %q, want %q", cfg.BackupDir, want)
	}
	if want := filepath.Join(dataDir, "logs", "task.log"); cfg.LogPath != want {
		t.Errorf("LogPath: got %q, want %q", cfg.LogPath, want)
	}
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TASK_MANAGER_BUCKET", "custom-bucket.json")
	t.Setenv("TASK_MANAGER_BACKUP_KEEP", "3")
	t.Setenv("TASK_MANAGER_BACKUP_ENABLED", "no")
	t.Setenv("NO_COLOR", "1")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)

	if cfg.TaskBucketPath != "custom-bucket.json" {
		t.Errorf("TaskBucketPath: got %q, want custom-bucket.json", cfg.TaskBucketPath)
	}
	if cfg.BackupKeep != 3 {
		t.Errorf("BackupKeep: got %d, want 3", cfg.BackupKeep)
	}
	if cfg.BackupEnabled {
		t.Error("BackupEnabled should be false")
	}
	if cfg.ColorEnabled {
		t.Error("NO_COLOR should disable color")
	}
}

func TestLoadConfigFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "task-manager.toml")
	content := []byte(`task_bucket_path = "custom.json"
backup_keep = 25
default_priority = "high"
`)
	if err := os.WriteFile(configFile, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	if err := loadConfigFileWithSources(cfg, configFile, nil, ""); err != nil {
		t.Fatalf("loadConfigFileWithSources: %v", err)
	}

	if cfg.TaskBucketPath != "custom.json" {
		t.Errorf("TaskBucketPath: got %q, want custom.json", cfg.TaskBucketPath)
	}
	if cfg.BackupKeep != 25 {
		t.Errorf("BackupKeep: got %d, want 25", cfg.BackupKeep)
	}
	if cfg.DefaultPriority != "high" {
		t.Errorf("DefaultPriority: got %q, want high", cfg.DefaultPriority)
	}
}

func TestLoadConfigFileRejectsUnknownKeys(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "task-manager.toml")
	if err := os.WriteFile(configFile, []byte("bakup_keep = 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	err := loadConfigFileWithSources(&Config{}, configFile, nil, "")
	if err == nil || !strings.Contains(err.Error(), "bakup_keep") {
		t.Errorf("expected unknown key error, got %v", err)
	}
}

func TestLoadWithSourcesPriority(t *testing.T) {
	dataDir := isolate(t)

	userFile := filepath.Join(dataDir, UserConfigName)
	if err := os.WriteFile(userFile, []byte("log_level = \"debug\"\nbackup_keep = 4\ncolor_enabled = false\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("task-manager.toml", []byte("backup_keep = 6\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASK_MANAGER_LOG_FORMAT", "json")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cws, err := LoadWithSources(fs, []string{"--color=true", "list"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}

	cfg := cws.Config
	if cfg.LogLevel != "debug" || cws.Sources["log_level"] != SourceUserFile {
		t.Errorf("log_level: %q from %s", cfg.LogLevel, cws.Sources["log_level"])
	}
	if cfg.BackupKeep != 6 || cws.Sources["backup_keep"] != SourceProjFile {
		t.Errorf("backup_keep: %d from %s", cfg.BackupKeep, cws.Sources["backup_keep"])
	}
	if cfg.LogFormat != "json" || cws.Sources["log_format"] != SourceEnv {
		t.Errorf("log_format: %q from %s", cfg.LogFormat, cws.Sources["log_format"])
	}
	if !cfg.ColorEnabled || cws.Sources["color_enabled"] != SourceFlag {
		t.Errorf("color_enabled: %v from %s", cfg.ColorEnabled, cws.Sources["color_enabled"])
	}
	if cws.Sources["projects_path"] != SourceDefault {
		t.Errorf("projects_path source: %s", cws.Sources["projects_path"])
	}
	if len(cws.Files) != 2 {
		t.Errorf("Files: got %v, want user and project file", cws.Files)
	}
	if got := fs.Args(); len(got) != 1 || got[0] != "list" {
		t.Errorf("remaining args: %v", got)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
	}{
		{"task type", "TASK_MANAGER_DEFAULT_TYPE", "chore"},
		{"priority", "TASK_MANAGER_DEFAULT_PRIORITY", "urgent"},
		{"log format", "TASK_MANAGER_LOG_FORMAT", "xml"},
		{"log level", "TASK_MANAGER_LOG_LEVEL", "loud"},
		{"backup keep", "TASK_MANAGER_BACKUP_KEEP", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.env, tt.val)
			if _, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil); err == nil {
				t.Errorf("%s=%s should fail", tt.env, tt.val)
			}
		})
	}
}

func TestSettings(t *testing.T) {
	isolate(t)
	cws, err := LoadWithSources(flag.NewFlagSet("test", flag.ContinueOnError), []string{"--backup=false"})
	if err != nil {
		t.Fatal(err)
	}

	settings := cws.Settings()
	if len(settings) != len(configFields()) {
		t.Fatalf("Settings: got %d entries, want %d", len(settings), len(configFields()))
	}
	for _, s := range settings {
		if s.Key == "backup_enabled" {
			if s.Value != "false" || s.Source != SourceFlag {
				t.Errorf("backup_enabled setting = %v", s)
			}
			return
		}
	}
	t.Error("backup_enabled missing from settings")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
	}
	if runtime.GOOS != "windows" {
		tests = append(tests, struct {
			input string
			want  string
		}{`~\test`, `~\test`})
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := expandPath(tt.input); got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "data")
	if got := resolvePath(base, "bucket.json"); got != filepath.Join(base, "bucket.json") {
		t.Errorf("relative: got %q", got)
	}
	abs := filepath.Join(string(filepath.Separator), "elsewhere", "bucket.json")
	if got := resolvePath(base, abs); got != abs {
		t.Errorf("absolute: got %q", got)
	}
	t.Setenv("TASK_TEST_DIR", "/env")
	if got := resolvePath(base, "$TASK_TEST_DIR/b.json"); got != "/env/b.json" {
		t.Errorf("env: got %q", got)
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"off", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := boolFromString(tt.input); got != tt.want {
				t.Errorf("boolFromString(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExampleConfigParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(ExampleConfig()), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := &Config{}
	setDefaults(cfg)
	if err := loadConfigFileWithSources(cfg, path, nil, ""); err != nil {
		t.Fatalf("example config does not load: %v", err)
	}
}
