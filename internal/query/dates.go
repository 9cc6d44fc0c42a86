package query

import (
	"time"

	"github.com/nibzard/task-manager/internal/task"
)

// DeadlineRange returns tasks whose deadline lies in [start, end].
// Bounds are YYYY-MM-DD strings, which order like dates.
func DeadlineRange(tasks []task.Task, start, end string) []task.Task {
	return where(tasks, func(t *task.Task) bool {
		return t.Deadline != "" && start <= t.Deadline && t.Deadline <= end
	})
}

// DueToday returns tasks whose deadline is today.
func DueToday(tasks []task.Task, today time.Time) []task.Task {
	day := task.FormatDate(today)
	return DeadlineRange(tasks, day, day)
}

// WeekBounds returns the Monday and Sunday of the week containing day.
func WeekBounds(day time.Time) (start, end time.Time) {
	offset := (int(day.Weekday()) + 6) % 7
	start = day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// DueThisWeek returns tasks due between Monday and Sunday of today's week.
func DueThisWeek(tasks []task.Task, today time.Time) []task.Task {
	start, end := WeekBounds(today)
	return DeadlineRange(tasks, task.FormatDate(start), task.FormatDate(end))
}

// DueNextNDays returns tasks due from today through today+n, inclusive.
func DueNextNDays(tasks []task.Task, today time.Time, n int) []task.Task {
	return DeadlineRange(tasks, task.FormatDate(today), task.FormatDate(today.AddDate(0, 0, n)))
}

// Overdue returns tasks past their deadline that are not done.
func Overdue(tasks []task.Task, today time.Time) []task.Task {
	day := task.FormatDate(today)
	return where(tasks, func(t *task.Task) bool { return t.IsOverdue(day) })
}

// ScheduledOn returns the recurring tasks due on day that have not been
// completed that day.
func ScheduledOn(tasks []task.Task, day time.Time) []task.Task {
	date := task.FormatDate(day)
	return where(tasks, func(t *task.Task) bool {
		return t.IsRecurring() && t.ScheduledOn(day) && t.LastCompleted != date
	})
}
