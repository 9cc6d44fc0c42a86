// Package query filters, searches, sorts and groups task snapshots.
//
// Every function is pure: it reads the tasks it is given, returns a new
// slice, and never touches storage. Callers pass "today" explicitly so
// results are deterministic.
package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nibzard/task-manager/internal/task"
)

// Criteria selects tasks. Zero-valued fields do not constrain the result
// and set fields combine with AND.
type Criteria struct {
	Status   string
	Project  string
	TaskType string
	Priority string
	// DeadlineBefore and DeadlineAfter are inclusive YYYY-MM-DD bounds.
	// Tasks without a deadline never match a bound.
	DeadlineBefore string
	DeadlineAfter  string
	// Tags matches tasks carrying any of the listed tags.
	Tags           []string
	EmployerClient string
}

// IsZero reports whether c selects every task.
func (c Criteria) IsZero() bool {
	return c.Status == "" && c.Project == "" && c.TaskType == "" &&
		c.Priority == "" && c.DeadlineBefore == "" && c.DeadlineAfter == "" &&
		len(c.Tags) == 0 && c.EmployerClient == ""
}

// Match reports whether t satisfies every set criterion.
func (c Criteria) Match(t *task.Task) bool {
	if c.Status != "" && string(t.Status) != strings.ToUpper(c.Status) {
		return false
	}
	if c.Project != "" && !strings.EqualFold(t.Project, c.Project) {
		return false
	}
	if c.TaskType != "" && string(t.TaskType) != strings.ToLower(c.TaskType) {
		return false
	}
	if c.Priority != "" && string(t.Priority) != strings.ToLower(c.Priority) {
		return false
	}
	if c.DeadlineBefore != "" && (t.Deadline == "" || t.Deadline > c.DeadlineBefore) {
		return false
	}
	if c.DeadlineAfter != "" && (t.Deadline == "" || t.Deadline < c.DeadlineAfter) {
		return false
	}
	if len(c.Tags) > 0 && !slices.ContainsFunc(c.Tags, t.HasTag) {
		return false
	}
	if c.EmployerClient != "" &&
		!strings.Contains(strings.ToLower(t.EmployerClient), strings.ToLower(c.EmployerClient)) {
		return false
	}
	return true
}

// Filter returns the tasks matching c, in their original order.
func Filter(tasks []task.Task, c Criteria) []task.Task {
	return where(tasks, c.Match)
}

// where returns the tasks for which keep is true.
func where(tasks []task.Task, keep func(*task.Task) bool) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for i := range tasks {
		if keep(&tasks[i]) {
			out = append(out, tasks[i])
		}
	}
	return out
}

// SearchField restricts Search to one task field.
type SearchField string

const (
	SearchAll         SearchField = ""
	SearchDescription SearchField = "description"
	SearchNotes       SearchField = "notes"
	SearchTags        SearchField = "tags"
	SearchClient      SearchField = "client"
)

// ParseSearchField validates a --search-in value.
func ParseSearchField(s string) (SearchField, error) {
	f := SearchField(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case SearchAll, SearchDescription, SearchNotes, SearchTags, SearchClient:
		return f, nil
	}
	return "", fmt.Errorf("%w: invalid search field %q, must be one of: description, notes, tags, client",
		task.ErrValidation, s)
}

// Search returns tasks containing query, case-insensitively, in field.
// With SearchAll the description, notes, tags and client are tried in that
// order and the first hit decides.
func Search(tasks []task.Task, query string, field SearchField) []task.Task {
	q := strings.ToLower(query)
	contains := func(s string) bool {
		return strings.Contains(strings.ToLower(s), q)
	}

	return where(tasks, func(t *task.Task) bool {
		if (field == SearchAll || field == SearchDescription) && contains(t.Description) {
			return true
		}
		if (field == SearchAll || field == SearchNotes) && t.Notes != "" && contains(t.Notes) {
			return true
		}
		if (field == SearchAll || field == SearchTags) && slices.ContainsFunc(t.Tags, contains) {
			return true
		}
		if (field == SearchAll || field == SearchClient) && t.EmployerClient != "" && contains(t.EmployerClient) {
			return true
		}
		return false
	})
}

// WithTags returns tasks carrying any of tags, or all of them when
// requireAll is set. Tags match exactly.
func WithTags(tasks []task.Task, tags []string, requireAll bool) []task.Task {
	return where(tasks, func(t *task.Task) bool {
		if requireAll {
			for _, tag := range tags {
				if !t.HasTag(tag) {
					return false
				}
			}
			return true
		}
		return slices.ContainsFunc(tags, t.HasTag)
	})
}

// SplitTags splits a comma-separated tag list, trimming blanks.
func SplitTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// WithStatus returns the tasks in status.
func WithStatus(tasks []task.Task, status task.Status) []task.Task {
	return where(tasks, func(t *task.Task) bool { return t.Status == status })
}

// Active returns IN_PROGRESS tasks.
func Active(tasks []task.Task) []task.Task { return WithStatus(tasks, task.StatusInProgress) }

// Pending returns TODO tasks.
func Pending(tasks []task.Task) []task.Task { return WithStatus(tasks, task.StatusTodo) }

// Completed returns DONE tasks.
func Completed(tasks []task.Task) []task.Task { return WithStatus(tasks, task.StatusDone) }

// Blocked returns BLOCKED tasks.
func Blocked(tasks []task.Task) []task.Task { return WithStatus(tasks, task.StatusBlocked) }
