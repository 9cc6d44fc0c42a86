// Package mdsync mirrors task activity into a markdown file kept in each
// project's directory.
//
// Active tasks are listed under "### Upcoming Tasks" and finished ones under
// "### Recent Completions". Each entry starts with an HTML comment marker
// carrying the task ID, so entries can be found and moved later:
//
//	### Upcoming Tasks
//
//	<!-- task-id: 7 -->
//	- **#7**: Draft the methods section (Due: 2026-02-01)
package mdsync

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nibzard/task-manager/internal/logging"
	"github.com/nibzard/task-manager/internal/storage"
	"github.com/nibzard/task-manager/internal/task"
)

// ErrNoMarkdown reports a project without a path or without the markdown
// file in it.
var ErrNoMarkdown = errors.New("no markdown file for project")

// DefaultFileName is the markdown file looked up in project directories.
const DefaultFileName = "CLAUDE.md"

// ProjectSource provides the project registry.
type ProjectSource interface {
	LoadProjects() task.Projects
}

// Syncer edits project markdown files.
type Syncer struct {
	projects ProjectSource
	fileName string
	log      logging.Logger
}

// New returns a Syncer that edits fileName inside project directories.
func New(projects ProjectSource, fileName string, logger logging.Logger) *Syncer {
	if fileName == "" {
		fileName = DefaultFileName
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Syncer{projects: projects, fileName: fileName, log: logger}
}

// Path returns the markdown file of a project. The file must exist.
func (s *Syncer) Path(projectID string) (string, error) {
	p, ok := s.projects.LoadProjects().Get(projectID)
	if !ok || p.Path == "" {
		return "", fmt.Errorf("%w %s", ErrNoMarkdown, projectID)
	}
	path := filepath.Join(expandHome(p.Path), s.fileName)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w %s", ErrNoMarkdown, projectID)
	}
	return path, nil
}

// Activate lists the task under Upcoming Tasks. A task already present in
// the file is left alone.
func (s *Syncer) Activate(t *task.Task) (string, error) {
	return s.edit(t, func(content string) (string, string) {
		if HasEntry(content, t.ID) {
			return content, fmt.Sprintf("Task #%d already in %s", t.ID, s.fileName)
		}
		return AddEntry(content, UpcomingSection, UpcomingEntry(t)),
			fmt.Sprintf("Task #%d added to Upcoming Tasks in %s", t.ID, s.fileName)
	})
}

// Complete moves the task to Recent Completions.
func (s *Syncer) Complete(t *task.Task) (string, error) {
	return s.edit(t, func(content string) (string, string) {
		content = RemoveEntry(content, UpcomingSection, t.ID)
		content = RemoveEntry(content, CompletedSection, t.ID)
		return AddEntry(content, CompletedSection, CompletedEntry(t)),
			fmt.Sprintf("Task #%d moved to Recent Completions in %s", t.ID, s.fileName)
	})
}

// Deactivate removes the task from both sections.
func (s *Syncer) Deactivate(t *task.Task) (string, error) {
	return s.edit(t, func(content string) (string, string) {
		content = RemoveEntry(content, UpcomingSection, t.ID)
		content = RemoveEntry(content, CompletedSection, t.ID)
		return content, fmt.Sprintf("Task #%d removed from %s", t.ID, s.fileName)
	})
}

func (s *Syncer) edit(t *task.Task, change func(string) (string, string)) (string, error) {
	path, err := s.Path(t.Project)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	updated, msg := change(string(data))
	if updated == string(data) {
		return msg, nil
	}

	perm := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := storage.WriteFileAtomic(path, []byte(updated), perm); err != nil {
		s.log.Failure("markdown_sync", err)
		return "", fmt.Errorf("update %s: %w", path, err)
	}
	s.log.Debug("updated markdown", "path", path, "task", t.ID)
	return msg, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
