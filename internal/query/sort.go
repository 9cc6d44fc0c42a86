package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/nibzard/task-manager/internal/task"
)

// SortKey names a list ordering.
type SortKey string

const (
	SortDeadline SortKey = "deadline"
	SortPriority SortKey = "priority"
	SortStatus   SortKey = "status"
	SortID       SortKey = "id"
)

// SortKeys lists the orderings in the order the TUI cycles through them.
var SortKeys = []SortKey{SortDeadline, SortPriority, SortStatus, SortID}

// ParseSortKey validates a --sort-by value. Empty means deadline.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return SortDeadline, nil
	}
	if !slices.Contains(SortKeys, k) {
		return "", fmt.Errorf("%w: invalid sort key %q, must be one of: deadline, priority, status, id",
			task.ErrValidation, s)
	}
	return k, nil
}

// Next returns the ordering after k, wrapping around.
func (k SortKey) Next() SortKey {
	i := slices.Index(SortKeys, k)
	return SortKeys[(i+1)%len(SortKeys)]
}

// statusOrder ranks statuses for SortByStatus. Unknown statuses sort last.
var statusOrder = map[task.Status]int{
	task.StatusInProgress: 0,
	task.StatusTodo:       1,
	task.StatusBlocked:    2,
	task.StatusDone:       3,
}

func statusRank(s task.Status) int {
	if r, ok := statusOrder[s]; ok {
		return r
	}
	return len(statusOrder)
}

// sorted returns a stably sorted copy of tasks.
func sorted(tasks []task.Task, less func(a, b task.Task) int) []task.Task {
	out := slices.Clone(tasks)
	if out == nil {
		out = []task.Task{}
	}
	slices.SortStableFunc(out, less)
	return out
}

// SortByDeadline orders by deadline, earliest first. Tasks without a
// deadline go last.
func SortByDeadline(tasks []task.Task) []task.Task {
	return sorted(tasks, func(a, b task.Task) int {
		return cmp.Compare(a.DeadlineKey(), b.DeadlineKey())
	})
}

// SortByPriority orders high before medium before low. Unknown priorities
// go last.
func SortByPriority(tasks []task.Task) []task.Task {
	return sorted(tasks, func(a, b task.Task) int {
		return cmp.Compare(b.Priority.Rank(), a.Priority.Rank())
	})
}

// SortByStatus orders IN_PROGRESS, TODO, BLOCKED, DONE, then unknown.
func SortByStatus(tasks []task.Task) []task.Task {
	return sorted(tasks, func(a, b task.Task) int {
		return cmp.Compare(statusRank(a.Status), statusRank(b.Status))
	})
}

// SortByID orders by ascending ID.
func SortByID(tasks []task.Task) []task.Task {
	return sorted(tasks, func(a, b task.Task) int {
		return cmp.Compare(a.ID, b.ID)
	})
}

// Sort orders tasks by key. An unknown key returns an unsorted copy.
func Sort(tasks []task.Task, key SortKey) []task.Task {
	switch key {
	case SortDeadline:
		return SortByDeadline(tasks)
	case SortPriority:
		return SortByPriority(tasks)
	case SortStatus:
		return SortByStatus(tasks)
	case SortID:
		return SortByID(tasks)
	}
	return sorted(tasks, func(task.Task, task.Task) int { return 0 })
}
