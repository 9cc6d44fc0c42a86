// Package service implements the task commands shared by the CLI and the
// TUI. Each mutating command loads the bucket, validates its input before
// touching anything, applies the change and saves exactly once.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/nibzard/task-manager/internal/dateparse"
	"github.com/nibzard/task-manager/internal/logging"
	"github.com/nibzard/task-manager/internal/mdsync"
	"github.com/nibzard/task-manager/internal/storage"
	"github.com/nibzard/task-manager/internal/task"
)

// MarkdownSyncer mirrors task state into project markdown files.
type MarkdownSyncer interface {
	Activate(t *task.Task) (string, error)
	Complete(t *task.Task) (string, error)
	Deactivate(t *task.Task) (string, error)
}

// Options configures a Service.
type Options struct {
	// Now defaults to the store clock.
	Now   func() time.Time
	Dates *dateparse.Parser
	// Syncer is optional. When nil no markdown files are touched.
	Syncer          MarkdownSyncer
	DefaultTaskType task.TaskType
	DefaultPriority task.Priority
}

// Service runs task commands against a Store.
type Service struct {
	store *storage.Store
	log   logging.Logger
	opts  Options
}

// New returns a Service backed by store.
func New(store *storage.Store, logger logging.Logger, opts Options) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	if opts.Now == nil {
		opts.Now = store.Now
	}
	if opts.Dates == nil {
		opts.Dates = &dateparse.Parser{Now: opts.Now}
	}
	if !opts.DefaultTaskType.Valid() {
		opts.DefaultTaskType = task.TypeWork
	}
	if !opts.DefaultPriority.Valid() {
		opts.DefaultPriority = task.PriorityMedium
	}
	return &Service{store: store, log: logger, opts: opts}
}

// Store returns the underlying store.
func (s *Service) Store() *storage.Store { return s.store }

// Today returns the current date.
func (s *Service) Today() string {
	return task.FormatDate(s.opts.Now())
}

// Change is the result of a task mutation.
type Change struct {
	Task task.Task
	// Markdown describes what happened to the project markdown file, if
	// syncing is enabled.
	Markdown string
}

// mutate loads the bucket, applies fn to the task with id and saves. fn
// returning an error leaves the bucket file untouched.
func (s *Service) mutate(op string, id int, fn func(t *task.Task) error) (task.Task, error) {
	b, err := s.store.LoadBucket()
	if err != nil {
		return task.Task{}, err
	}
	t := b.TaskByID(id)
	if t == nil {
		return task.Task{}, fmt.Errorf("task %d: %w", id, task.ErrNotFound)
	}
	if err := fn(t); err != nil {
		return task.Task{}, err
	}
	if err := checkTask(t); err != nil {
		return task.Task{}, err
	}
	updated := *t
	if err := s.store.SaveBucket(b); err != nil {
		return task.Task{}, err
	}
	s.log.Operation(op, fmt.Sprintf("Task %d: %s", updated.ID, updated.Description))
	return updated, nil
}

func (s *Service) load() (*task.Bucket, error) {
	return s.store.LoadBucket()
}

// syncMarkdown runs a markdown update and folds the outcome into a message.
// Failures never undo the task change.
func (s *Service) syncMarkdown(t task.Task, update func(MarkdownSyncer, *task.Task) (string, error)) string {
	if s.opts.Syncer == nil {
		return ""
	}
	msg, err := update(s.opts.Syncer, &t)
	switch {
	case errors.Is(err, mdsync.ErrNoMarkdown):
		return err.Error()
	case err != nil:
		s.log.Warn("markdown sync failed", "task", t.ID, "err", err)
		return fmt.Sprintf("markdown sync failed: %v", err)
	}
	return msg
}

func (s *Service) parseDate(input string) (string, error) {
	return s.opts.Dates.ParseOrError(input)
}

func (s *Service) resolveProject(identifier string) (string, error) {
	id, ok := s.store.ResolveProjectIdentifier(identifier)
	if !ok {
		return "", fmt.Errorf("project %q (check project ID or code): %w", identifier, task.ErrNotFound)
	}
	return id, nil
}

// checkTask rejects a task that would not pass validation once saved.
func checkTask(t *task.Task) error {
	result := t.Validate()
	if result.Valid {
		return nil
	}
	return fmt.Errorf("%w: task %d: %w", task.ErrValidation, t.ID, errors.Join(result.Errors...))
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", task.ErrValidation, fmt.Sprintf(format, args...))
}
