package task

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// Canonical layouts for stored dates and timestamps.
const (
	DateLayout      = "2006-01-02"
	TimeOfDayLayout = "15:04"
	// TimestampLayout matches an ISO 8601 local timestamp with optional
	// microseconds, e.g. 2026-01-03T17:20:11.482113.
	TimestampLayout = "2006-01-02T15:04:05.999999"
)

// noDeadline sorts after every real deadline.
const noDeadline = "9999-12-31"

// FormatDate returns the canonical calendar date of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatTimestamp returns the canonical timestamp of t.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// IsDate reports whether s is a canonical YYYY-MM-DD calendar date.
func IsDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// IsTimeOfDay reports whether s is an HH:MM time.
func IsTimeOfDay(s string) bool {
	_, err := time.Parse(TimeOfDayLayout, s)
	if err == nil {
		return true
	}
	_, err = time.Parse("15:4", s)
	return err == nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	TimestampLayout,
	"2006-01-02 15:04:05.999999",
	"2006-01-02T15:04",
	DateLayout,
}

// ParseTimestamp parses the ISO 8601 variants found in bucket files.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO 8601 timestamp %q", s)
}

// TimeLog records hours spent on a task. Entries are immutable once appended.
type TimeLog struct {
	Date        string  `json:"date" yaml:"date"`
	Hours       float64 `json:"hours" yaml:"hours"`
	Description string  `json:"description" yaml:"description"`
	LoggedAt    string  `json:"logged_at" yaml:"logged_at"`
}

// NewTimeLog builds an entry for day, stamped with now.
func NewTimeLog(day string, hours float64, description string, now time.Time) TimeLog {
	return TimeLog{
		Date:        day,
		Hours:       hours,
		Description: description,
		LoggedAt:    FormatTimestamp(now),
	}
}

// Task represents a single tracked task.
type Task struct {
	ID          int      `json:"id" yaml:"id"`
	Description string   `json:"description" yaml:"description"`
	Project     string   `json:"project" yaml:"project"`
	Status      Status   `json:"status" yaml:"status"`
	Created     string   `json:"created" yaml:"created"`
	Priority    Priority `json:"priority" yaml:"priority"`
	Deadline    string   `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Notes       string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	Activated   string   `json:"activated,omitempty" yaml:"activated,omitempty"`
	Completed   string   `json:"completed,omitempty" yaml:"completed,omitempty"`

	TaskType          TaskType  `json:"task_type" yaml:"task_type"`
	EmployerClient    string    `json:"employer_client,omitempty" yaml:"employer_client,omitempty"`
	TimeEstimateHours *float64  `json:"time_estimate_hours,omitempty" yaml:"time_estimate_hours,omitempty"`
	TimeSpentHours    float64   `json:"time_spent_hours" yaml:"time_spent_hours"`
	TimeLogs          []TimeLog `json:"time_logs" yaml:"time_logs"`
	Tags              []string  `json:"tags" yaml:"tags"`

	Recurrence     Recurrence `json:"recurrence,omitempty" yaml:"recurrence,omitempty"`
	RecurrenceDays []int      `json:"recurrence_days" yaml:"recurrence_days"`
	TimeOfDay      string     `json:"time_of_day,omitempty" yaml:"time_of_day,omitempty"`
	StreakCount    int        `json:"streak_count" yaml:"streak_count"`
	LastCompleted  string     `json:"last_completed,omitempty" yaml:"last_completed,omitempty"`
}

// New returns a TODO task with default priority and type, created today.
func New(id int, description, project, today string) Task {
	return Task{
		ID:             id,
		Description:    description,
		Project:        project,
		Status:         StatusTodo,
		Created:        today,
		Priority:       PriorityMedium,
		TaskType:       TypeWork,
		TimeLogs:       []TimeLog{},
		Tags:           []string{},
		RecurrenceDays: []int{},
	}
}

// IsOverdue reports whether the deadline is before today and the task is
// not done.
func (t *Task) IsOverdue(today string) bool {
	if t.Deadline == "" || t.Status == StatusDone {
		return false
	}
	return t.Deadline < today
}

// DaysUntilDeadline returns the number of days from today to the deadline.
// It returns false when there is no deadline or the deadline has passed.
func (t *Task) DaysUntilDeadline(today string) (int, bool) {
	if t.Deadline == "" || t.Deadline < today {
		return 0, false
	}
	deadline, err := time.Parse(DateLayout, t.Deadline)
	if err != nil {
		return 0, false
	}
	from, err := time.Parse(DateLayout, today)
	if err != nil {
		return 0, false
	}
	return int(deadline.Sub(from).Hours() / 24), true
}

// DeadlineKey returns the deadline, or a far-future sentinel when unset.
func (t *Task) DeadlineKey() string {
	if t.Deadline == "" {
		return noDeadline
	}
	return t.Deadline
}

// HasTag reports whether the task carries tag exactly.
func (t *Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// ValidHours reports whether h is a finite, non-negative number of hours.
func ValidHours(h float64) bool {
	return !math.IsNaN(h) && !math.IsInf(h, 0) && h >= 0
}

// LogTime appends an entry and adds its hours to the running total.
func (t *Task) LogTime(entry TimeLog) error {
	if !ValidHours(entry.Hours) {
		return fmt.Errorf("%w: hours must be non-negative, got %v", ErrValidation, entry.Hours)
	}
	if !IsDate(entry.Date) {
		return fmt.Errorf("%w: time log date must be YYYY-MM-DD, got %q", ErrValidation, entry.Date)
	}
	t.TimeLogs = append(t.TimeLogs, entry)
	t.TimeSpentHours += entry.Hours
	return nil
}

// SetStatus changes the status and stamps lifecycle dates. The first move
// to IN_PROGRESS sets activated; DONE sets completed and advances the
// streak of recurring tasks.
func (t *Task) SetStatus(status Status, today string) {
	switch status {
	case StatusInProgress:
		if t.Activated == "" {
			t.Activated = today
		}
	case StatusDone:
		if t.Status != StatusDone || t.Completed == "" {
			t.Completed = today
		}
		if t.Recurrence != RecurrenceNone {
			t.advanceStreak(today)
		}
	}
	t.Status = status
}

// Complete marks the task DONE. Non-empty notes are appended to the task
// notes under a "[Completed]" prefix.
func (t *Task) Complete(today, notes string) {
	t.SetStatus(StatusDone, today)
	if notes == "" {
		return
	}
	if t.Notes == "" {
		t.Notes = "[Completed] " + notes
		return
	}
	t.Notes += "\n[Completed] " + notes
}

// IsRecurring reports whether the task repeats.
func (t *Task) IsRecurring() bool {
	return t.Recurrence != RecurrenceNone
}

// ScheduledOn reports whether a recurring task is due on day.
func (t *Task) ScheduledOn(day time.Time) bool {
	// time.Weekday counts from Sunday; recurrence days count from Monday.
	idx := (int(day.Weekday()) + 6) % 7
	switch t.Recurrence {
	case RecurrenceDaily:
		return true
	case RecurrenceWeekdays:
		return idx < 5
	case RecurrenceWeekends:
		return idx >= 5
	case RecurrenceCustom:
		return slices.Contains(t.RecurrenceDays, idx)
	}
	return false
}

func (t *Task) advanceStreak(today string) {
	if t.LastCompleted == today {
		return
	}
	day, err := time.Parse(DateLayout, today)
	if err != nil {
		return
	}
	previous := ""
	for i := 1; i <= 7; i++ {
		candidate := day.AddDate(0, 0, -i)
		if t.ScheduledOn(candidate) {
			previous = FormatDate(candidate)
			break
		}
	}
	if previous != "" && t.LastCompleted == previous {
		t.StreakCount++
	} else {
		t.StreakCount = 1
	}
	t.LastCompleted = today
}

// normalize fills defaults for fields that older files omit.
func (t *Task) normalize() {
	if t.Status == "" {
		t.Status = StatusTodo
	} else if s, err := ParseStatus(string(t.Status)); err == nil {
		t.Status = s
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	} else if p, err := ParsePriority(string(t.Priority)); err == nil {
		t.Priority = p
	}
	if t.TaskType == "" {
		t.TaskType = TypeWork
	} else if tt, err := ParseTaskType(string(t.TaskType)); err == nil {
		t.TaskType = tt
	}
	if t.TimeLogs == nil {
		t.TimeLogs = []TimeLog{}
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.RecurrenceDays == nil {
		t.RecurrenceDays = []int{}
	}
}
