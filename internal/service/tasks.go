package service

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nibzard/task-manager/internal/task"
)

// AddInput describes a new task. Empty optional fields are left unset.
type AddInput struct {
	Description string
	// Project is a project ID or code.
	Project        string
	TaskType       string
	Priority       string
	Deadline       string
	TimeEstimate   *float64
	EmployerClient string
	Tags           []string
	Notes          string
	Recurrence     string
	RecurrenceDays []int
	TimeOfDay      string
}

// recurrence holds validated recurrence settings.
type recurrence struct {
	kind      task.Recurrence
	days      []int
	timeOfDay string
}

func parseRecurrence(kind string, days []int, timeOfDay string) (recurrence, error) {
	r, err := task.ParseRecurrence(kind)
	if err != nil {
		return recurrence{}, err
	}
	for _, d := range days {
		if d < 0 || d > 6 {
			return recurrence{}, validationErr("recurrence day %d out of range 0-6 (0=Monday)", d)
		}
	}
	if r == task.RecurrenceCustom && len(days) == 0 {
		return recurrence{}, validationErr("custom recurrence needs at least one day")
	}
	if timeOfDay != "" && !task.IsTimeOfDay(timeOfDay) {
		return recurrence{}, validationErr("time of day must be HH:MM, got %q", timeOfDay)
	}
	out := recurrence{kind: r, timeOfDay: timeOfDay, days: []int{}}
	if r == task.RecurrenceCustom {
		out.days = slices.Clone(days)
		slices.Sort(out.days)
		out.days = slices.Compact(out.days)
	}
	return out, nil
}

func (r recurrence) apply(t *task.Task) {
	t.Recurrence = r.kind
	t.RecurrenceDays = r.days
	t.TimeOfDay = r.timeOfDay
}

func checkEstimate(hours *float64) error {
	if hours != nil && !task.ValidHours(*hours) {
		return validationErr("time estimate must be non-negative, got %v", *hours)
	}
	return nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" && !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	return out
}

// Add creates a task and returns it with its assigned ID.
func (s *Service) Add(in AddInput) (task.Task, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return task.Task{}, validationErr("description is required")
	}
	if strings.TrimSpace(in.Project) == "" {
		return task.Task{}, validationErr("project is required")
	}
	project, err := s.resolveProject(in.Project)
	if err != nil {
		return task.Task{}, err
	}

	taskType := s.opts.DefaultTaskType
	if in.TaskType != "" {
		if taskType, err = task.ParseTaskType(in.TaskType); err != nil {
			return task.Task{}, err
		}
	}
	priority := s.opts.DefaultPriority
	if in.Priority != "" {
		if priority, err = task.ParsePriority(in.Priority); err != nil {
			return task.Task{}, err
		}
	}
	deadline := ""
	if in.Deadline != "" {
		if deadline, err = s.parseDate(in.Deadline); err != nil {
			return task.Task{}, err
		}
	}
	if err := checkEstimate(in.TimeEstimate); err != nil {
		return task.Task{}, err
	}
	rec, err := parseRecurrence(in.Recurrence, in.RecurrenceDays, in.TimeOfDay)
	if err != nil {
		return task.Task{}, err
	}

	b, err := s.load()
	if err != nil {
		return task.Task{}, err
	}
	t := task.New(0, desc, project, s.Today())
	t.TaskType = taskType
	t.Priority = priority
	t.Deadline = deadline
	t.TimeEstimateHours = in.TimeEstimate
	t.EmployerClient = strings.TrimSpace(in.EmployerClient)
	t.Tags = cleanTags(in.Tags)
	t.Notes = in.Notes
	rec.apply(&t)

	added := *b.Add(t)
	if err := checkTask(&added); err != nil {
		return task.Task{}, err
	}
	if err := s.store.SaveBucket(b); err != nil {
		return task.Task{}, err
	}
	s.log.Operation("add_task", fmt.Sprintf("Task %d: %s", added.ID, added.Description))
	return added, nil
}

// Show returns one task.
func (s *Service) Show(id int) (task.Task, error) {
	b, err := s.load()
	if err != nil {
		return task.Task{}, err
	}
	t := b.TaskByID(id)
	if t == nil {
		return task.Task{}, fmt.Errorf("task %d: %w", id, task.ErrNotFound)
	}
	return *t, nil
}

// UpdateInput lists the fields to change. Nil fields are left alone; an
// empty Deadline clears the deadline.
type UpdateInput struct {
	Description    *string
	Status         *string
	Priority       *string
	Deadline       *string
	Notes          *string
	TaskType       *string
	EmployerClient *string
	TimeEstimate   *float64
	Tags           *[]string
	Project        *string
	Recurrence     *string
	RecurrenceDays *[]int
	TimeOfDay      *string
}

// IsZero reports whether the input changes nothing.
func (in UpdateInput) IsZero() bool {
	return in == UpdateInput{}
}

// Update changes task fields. Every field is validated before any is
// applied.
func (s *Service) Update(id int, in UpdateInput) (Change, error) {
	if in.IsZero() {
		return Change{}, validationErr("nothing to update")
	}

	var (
		status   task.Status
		priority task.Priority
		taskType task.TaskType
		deadline string
		project  string
		err      error
	)
	if in.Description != nil && strings.TrimSpace(*in.Description) == "" {
		return Change{}, validationErr("description cannot be empty")
	}
	if in.Status != nil {
		if status, err = task.ParseStatus(*in.Status); err != nil {
			return Change{}, err
		}
	}
	if in.Priority != nil {
		if priority, err = task.ParsePriority(*in.Priority); err != nil {
			return Change{}, err
		}
	}
	if in.TaskType != nil {
		if taskType, err = task.ParseTaskType(*in.TaskType); err != nil {
			return Change{}, err
		}
	}
	if in.Deadline != nil && *in.Deadline != "" {
		if deadline, err = s.parseDate(*in.Deadline); err != nil {
			return Change{}, err
		}
	}
	if in.Project != nil {
		if project, err = s.resolveProject(*in.Project); err != nil {
			return Change{}, err
		}
	}
	if err := checkEstimate(in.TimeEstimate); err != nil {
		return Change{}, err
	}

	var previous task.Status
	updated, err := s.mutate("update_task", id, func(t *task.Task) error {
		rec := recurrence{kind: t.Recurrence, days: t.RecurrenceDays, timeOfDay: t.TimeOfDay}
		if in.Recurrence != nil || in.RecurrenceDays != nil || in.TimeOfDay != nil {
			kind, days, tod := string(t.Recurrence), t.RecurrenceDays, t.TimeOfDay
			if in.Recurrence != nil {
				kind = *in.Recurrence
			}
			if in.RecurrenceDays != nil {
				days = *in.RecurrenceDays
			}
			if in.TimeOfDay != nil {
				tod = *in.TimeOfDay
			}
			if rec, err = parseRecurrence(kind, days, tod); err != nil {
				return err
			}
		}

		previous = t.Status
		if in.Description != nil {
			t.Description = strings.TrimSpace(*in.Description)
		}
		if in.Status != nil {
			t.SetStatus(status, s.Today())
		}
		if in.Priority != nil {
			t.Priority = priority
		}
		if in.TaskType != nil {
			t.TaskType = taskType
		}
		if in.Deadline != nil {
			t.Deadline = deadline
		}
		if in.Notes != nil {
			t.Notes = *in.Notes
		}
		if in.EmployerClient != nil {
			t.EmployerClient = strings.TrimSpace(*in.EmployerClient)
		}
		if in.TimeEstimate != nil {
			hours := *in.TimeEstimate
			t.TimeEstimateHours = &hours
		}
		if in.Tags != nil {
			t.Tags = cleanTags(*in.Tags)
		}
		if in.Project != nil {
			t.Project = project
		}
		rec.apply(t)
		return nil
	})
	if err != nil {
		return Change{}, err
	}

	change := Change{Task: updated}
	if in.Status != nil && status != previous {
		change.Markdown = s.syncStatus(updated, previous)
	}
	return change, nil
}

// syncStatus mirrors a status transition into markdown.
func (s *Service) syncStatus(t task.Task, previous task.Status) string {
	switch t.Status {
	case task.StatusInProgress:
		return s.syncMarkdown(t, MarkdownSyncer.Activate)
	case task.StatusDone:
		return s.syncMarkdown(t, MarkdownSyncer.Complete)
	case task.StatusTodo:
		if previous == task.StatusInProgress || previous == task.StatusDone {
			return s.syncMarkdown(t, MarkdownSyncer.Deactivate)
		}
	}
	return ""
}

func (s *Service) setStatus(op string, id int, status task.Status) (Change, error) {
	var previous task.Status
	updated, err := s.mutate(op, id, func(t *task.Task) error {
		previous = t.Status
		t.SetStatus(status, s.Today())
		return nil
	})
	if err != nil {
		return Change{}, err
	}
	change := Change{Task: updated}
	if previous != status {
		change.Markdown = s.syncStatus(updated, previous)
	}
	return change, nil
}

// Start moves a task to IN_PROGRESS and lists it in the project markdown.
func (s *Service) Start(id int) (Change, error) {
	return s.setStatus("start_task", id, task.StatusInProgress)
}

// Block marks a task BLOCKED.
func (s *Service) Block(id int) (Change, error) {
	return s.setStatus("block_task", id, task.StatusBlocked)
}

// Reopen moves a task back to TODO.
func (s *Service) Reopen(id int) (Change, error) {
	return s.setStatus("reopen_task", id, task.StatusTodo)
}

// Complete marks a task DONE, appending notes under a "[Completed]" prefix.
func (s *Service) Complete(id int, notes string) (Change, error) {
	updated, err := s.mutate("complete_task", id, func(t *task.Task) error {
		t.Complete(s.Today(), strings.TrimSpace(notes))
		return nil
	})
	if err != nil {
		return Change{}, err
	}
	return Change{Task: updated, Markdown: s.syncMarkdown(updated, MarkdownSyncer.Complete)}, nil
}

// Delete removes a task. It refuses unless confirm is set.
func (s *Service) Delete(id int, confirm bool) (Change, error) {
	b, err := s.load()
	if err != nil {
		return Change{}, err
	}
	t := b.TaskByID(id)
	if t == nil {
		return Change{}, fmt.Errorf("task %d: %w", id, task.ErrNotFound)
	}
	if !confirm {
		return Change{}, validationErr("delete requires confirmation (--confirm)")
	}
	removed := *t
	b.Remove(id)
	if err := s.store.SaveBucket(b); err != nil {
		return Change{}, err
	}
	s.log.Operation("delete_task", fmt.Sprintf("Task %d: %s", removed.ID, removed.Description))
	return Change{Task: removed, Markdown: s.syncMarkdown(removed, MarkdownSyncer.Deactivate)}, nil
}

// LogTime records hours against a task. An empty date means today.
func (s *Service) LogTime(id int, hours float64, description, date string) (task.Task, error) {
	if !task.ValidHours(hours) {
		return task.Task{}, validationErr("hours must be non-negative, got %v", hours)
	}
	day := s.Today()
	if date != "" {
		var err error
		if day, err = s.parseDate(date); err != nil {
			return task.Task{}, err
		}
	}
	entry := task.NewTimeLog(day, hours, strings.TrimSpace(description), s.opts.Now())
	return s.mutate("log_time", id, func(t *task.Task) error {
		return t.LogTime(entry)
	})
}
