package task

import (
	"fmt"
	"strings"
)

// Status represents a task status.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
	StatusBlocked    Status = "BLOCKED"
)

// Statuses lists the valid statuses in display order.
var Statuses = []Status{StatusInProgress, StatusTodo, StatusBlocked, StatusDone}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone, StatusBlocked:
		return true
	}
	return false
}

// ParseStatus normalizes user input such as "in-progress" or "done".
func ParseStatus(input string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(input))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	s := Status(normalized)
	if !s.Valid() {
		return "", fmt.Errorf("%w: invalid status %q, must be one of: TODO, IN_PROGRESS, DONE, BLOCKED", ErrValidation, input)
	}
	return s, nil
}

// Priority represents a task priority.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Rank orders priorities by importance. Unknown priorities rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// ParsePriority normalizes user input such as "High".
func ParsePriority(input string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(input)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: invalid priority %q, must be one of: high, medium, low", ErrValidation, input)
	}
	return p, nil
}

// TaskType classifies a task independently of status and priority.
type TaskType string

const (
	TypeWork     TaskType = "work"
	TypePersonal TaskType = "personal"
	TypeDaily    TaskType = "daily"
)

// Valid reports whether t is a known task type.
func (t TaskType) Valid() bool {
	switch t {
	case TypeWork, TypePersonal, TypeDaily:
		return true
	}
	return false
}

// ParseTaskType normalizes user input such as "Personal".
func ParseTaskType(input string) (TaskType, error) {
	t := TaskType(strings.ToLower(strings.TrimSpace(input)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: invalid task type %q, must be one of: work, personal, daily", ErrValidation, input)
	}
	return t, nil
}

// Recurrence is the repeat pattern of a daily task. The zero value means
// the task does not repeat.
type Recurrence string

const (
	RecurrenceNone     Recurrence = ""
	RecurrenceDaily    Recurrence = "daily"
	RecurrenceWeekdays Recurrence = "weekdays"
	RecurrenceWeekends Recurrence = "weekends"
	RecurrenceCustom   Recurrence = "custom"
)

// Valid reports whether r is unset or a known pattern.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekdays, RecurrenceWeekends, RecurrenceCustom:
		return true
	}
	return false
}

// ParseRecurrence normalizes user input. "none" and "" clear the recurrence.
func ParseRecurrence(input string) (Recurrence, error) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "none" {
		return RecurrenceNone, nil
	}
	r := Recurrence(normalized)
	if !r.Valid() {
		return "", fmt.Errorf("%w: invalid recurrence %q, must be one of: daily, weekdays, weekends, custom", ErrValidation, input)
	}
	return r, nil
}

// ProjectStatus represents the lifecycle of a project registry entry.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectPaused    ProjectStatus = "paused"
	ProjectCompleted ProjectStatus = "completed"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectPaused, ProjectCompleted:
		return true
	}
	return false
}

// ParseProjectStatus normalizes user input such as "Paused".
func ParseProjectStatus(input string) (ProjectStatus, error) {
	s := ProjectStatus(strings.ToLower(strings.TrimSpace(input)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: invalid project status %q, must be one of: active, paused, completed", ErrValidation, input)
	}
	return s, nil
}
