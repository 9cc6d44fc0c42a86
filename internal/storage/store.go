package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/nibzard/task-manager/internal/logging"
	"github.com/nibzard/task-manager/internal/task"
)

// DefaultBackupKeep is the number of bucket backups retained.
const DefaultBackupKeep = 10

// Options configures a Store.
type Options struct {
	BucketPath   string
	ProjectsPath string
	// BackupDir defaults to a "backups" directory next to the bucket.
	BackupDir     string
	BackupEnabled bool
	BackupKeep    int
	// Now is the clock used for last_updated and backup names.
	Now func() time.Time
}

// Store reads and writes the bucket and project registry files.
type Store struct {
	opts Options
	log  logging.Logger
}

// New creates the bucket, projects and backup directories and returns a Store.
func New(opts Options, logger logging.Logger) (*Store, error) {
	if opts.BucketPath == "" {
		return nil, errors.New("bucket path is empty")
	}
	if opts.ProjectsPath == "" {
		opts.ProjectsPath = filepath.Join(filepath.Dir(opts.BucketPath), "projects.json")
	}
	if opts.BackupDir == "" {
		opts.BackupDir = filepath.Join(filepath.Dir(opts.BucketPath), "backups")
	}
	if opts.BackupKeep <= 0 {
		opts.BackupKeep = DefaultBackupKeep
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = logging.Nop()
	}

	dirs := []string{filepath.Dir(opts.BucketPath), filepath.Dir(opts.ProjectsPath)}
	if opts.BackupEnabled {
		dirs = append(dirs, opts.BackupDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	return &Store{opts: opts, log: logger}, nil
}

// BucketPath returns the bucket file location.
func (s *Store) BucketPath() string { return s.opts.BucketPath }

// ProjectsPath returns the project registry location.
func (s *Store) ProjectsPath() string { return s.opts.ProjectsPath }

// BackupDir returns the backup directory.
func (s *Store) BackupDir() string { return s.opts.BackupDir }

// Now returns the store clock's current time.
func (s *Store) Now() time.Time { return s.opts.Now() }

// LoadBucket reads the bucket file. A missing file yields a fresh empty
// bucket. A file that cannot be parsed yields task.ErrCorrupt; it is never
// replaced by an empty bucket. Validation findings are logged and do not
// prevent loading.
func (s *Store) LoadBucket() (*task.Bucket, error) {
	path := s.opts.BucketPath
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Debug("bucket not found, starting empty", "path", path)
			return task.NewBucket(), nil
		}
		s.log.Failure("load_bucket", err)
		return nil, fmt.Errorf("read bucket: %w", err)
	}

	b, err := task.DecodeBucket(data)
	if err != nil {
		s.log.Failure("load_bucket", err)
		return nil, fmt.Errorf("load bucket %s: %w", path, err)
	}

	s.report("bucket", path, task.ValidateBucket(data))
	s.log.Debug("loaded bucket", "tasks", len(b.Tasks), "next_id", b.NextID)
	return b, nil
}

// ValidateBucketFile validates the bucket file on disk without loading it.
func (s *Store) ValidateBucketFile() (*task.ValidationResult, error) {
	data, err := os.ReadFile(s.opts.BucketPath)
	if err != nil {
		return nil, fmt.Errorf("read bucket: %w", err)
	}
	return task.ValidateBucket(data), nil
}

// SaveBucket stamps last_updated, backs up the current file when enabled,
// and atomically replaces the bucket file. Backup problems are logged and
// do not stop the save.
func (s *Store) SaveBucket(b *task.Bucket) error {
	b.Touch(s.opts.Now())
	data, err := task.EncodeBucket(b)
	if err != nil {
		s.log.Failure("save_bucket", err)
		return err
	}

	if s.opts.BackupEnabled {
		if _, err := s.backup(); err != nil {
			s.log.Warn("backup failed", "err", err)
		}
	}

	if err := WriteFileAtomic(s.opts.BucketPath, data, 0644); err != nil {
		s.log.Failure("save_bucket", err)
		return fmt.Errorf("save bucket: %w", err)
	}
	s.log.Debug("saved bucket", "tasks", len(b.Tasks), "path", s.opts.BucketPath)
	return nil
}

// report logs validation findings for a file.
func (s *Store) report(kind, path string, result *task.ValidationResult) {
	for _, w := range result.Warnings {
		s.log.Debug(kind+" validation warning", "path", path, "warning", w)
	}
	if result.Valid {
		return
	}
	for _, err := range result.Errors {
		s.log.Warn(kind+" validation error", "path", path, "err", err)
	}
}
