package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/nibzard/task-manager/internal/task"
)

// backupStampLayout names backups so that filename order is chronological.
const backupStampLayout = "20060102_150405"

// Backup describes one backup file.
type Backup struct {
	Name    string    `json:"name" yaml:"name"`
	Path    string    `json:"path" yaml:"path"`
	Created time.Time `json:"created" yaml:"created"`
	Size    int64     `json:"size" yaml:"size"`
}

func (s *Store) backupPrefix() string {
	base := filepath.Base(s.opts.BucketPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".backup."
}

func (s *Store) backupName(t time.Time) string {
	return s.backupPrefix() + t.Format(backupStampLayout) + ".json"
}

// backup copies the current bucket file into the backup directory and
// prunes old backups. It returns an empty name when there is nothing to
// back up. Two backups within the same second share a name and the later
// one wins.
func (s *Store) backup() (string, error) {
	data, err := os.ReadFile(s.opts.BucketPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read bucket for backup: %w", err)
	}
	if err := os.MkdirAll(s.opts.BackupDir, 0755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	name := s.backupName(s.opts.Now())
	if err := WriteFileAtomic(filepath.Join(s.opts.BackupDir, name), data, 0644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	s.log.Debug("created backup", "name", name)

	if err := s.pruneBackups(); err != nil {
		s.log.Warn("backup cleanup failed", "err", err)
	}
	return name, nil
}

// backupNames lists backup filenames oldest first.
func (s *Store) backupNames() ([]string, error) {
	entries, err := os.ReadDir(s.opts.BackupDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	prefix := s.backupPrefix()
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func (s *Store) pruneBackups() error {
	names, err := s.backupNames()
	if err != nil {
		return err
	}
	if len(names) <= s.opts.BackupKeep {
		return nil
	}
	var errs []error
	for _, name := range names[:len(names)-s.opts.BackupKeep] {
		if err := os.Remove(filepath.Join(s.opts.BackupDir, name)); err != nil {
			errs = append(errs, err)
			continue
		}
		s.log.Debug("removed old backup", "name", name)
	}
	return errors.Join(errs...)
}

// ListBackups returns the bucket backups, newest first.
func (s *Store) ListBackups() ([]Backup, error) {
	names, err := s.backupNames()
	if err != nil {
		return nil, err
	}
	backups := make([]Backup, 0, len(names))
	for i := len(names) - 1; i >= 0; i-- {
		name := names[i]
		b := Backup{Name: name, Path: filepath.Join(s.opts.BackupDir, name)}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, s.backupPrefix()), ".json")
		if t, err := time.ParseInLocation(backupStampLayout, stamp, time.Local); err == nil {
			b.Created = t
		}
		if info, err := os.Stat(b.Path); err == nil {
			b.Size = info.Size()
		}
		backups = append(backups, b)
	}
	return backups, nil
}

// RestoreBackup replaces the bucket with the named backup. The backup must
// parse as a bucket. The current bucket is backed up first so a restore
// can itself be undone.
func (s *Store) RestoreBackup(name string) (*task.Bucket, error) {
	if name != filepath.Base(name) || !strings.HasPrefix(name, s.backupPrefix()) {
		return nil, fmt.Errorf("%w: invalid backup name %q", task.ErrValidation, name)
	}
	path := filepath.Join(s.opts.BackupDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("backup %s: %w", name, task.ErrNotFound)
		}
		return nil, fmt.Errorf("read backup: %w", err)
	}
	b, err := task.DecodeBucket(data)
	if err != nil {
		return nil, fmt.Errorf("backup %s: %w", name, err)
	}

	if current, err := s.backup(); err != nil {
		s.log.Warn("backup before restore failed", "err", err)
	} else if current != "" {
		s.log.Debug("backed up current bucket before restore", "name", current)
	}

	if err := WriteFileAtomic(s.opts.BucketPath, data, 0644); err != nil {
		s.log.Failure("restore_backup", err)
		return nil, fmt.Errorf("restore backup: %w", err)
	}
	s.log.Operation("restore_backup", name)
	return b, nil
}
