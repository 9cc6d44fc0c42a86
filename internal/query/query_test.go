package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/task-manager/internal/task"
)

// Wednesday.
var today = time.Date(2026, 1, 7, 10, 0, 0, 0, time.UTC)

func mk(id int, status task.Status, deadline string, opts ...func(*task.Task)) task.Task {
	t := task.New(id, "task", "proj-a", "2026-01-01")
	t.Status = status
	t.Deadline = deadline
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

func ids(tasks []task.Task) []int {
	out := make([]int, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func fixture() []task.Task {
	return []task.Task{
		mk(1, task.StatusTodo, "2026-01-07", func(t *task.Task) {
			t.Description = "Write quarterly REPORT"
			t.Priority = task.PriorityHigh
			t.Tags = []string{"writing", "q1"}
		}),
		mk(2, task.StatusInProgress, "2026-01-05", func(t *task.Task) {
			t.Project = "Proj-B"
			t.Notes = "waiting on report data"
			t.EmployerClient = "Acme Corp"
		}),
		mk(3, task.StatusDone, "2026-01-02", func(t *task.Task) {
			t.Priority = task.PriorityLow
			t.TaskType = task.TypePersonal
			t.Tags = []string{"home"}
		}),
		mk(4, task.StatusBlocked, "", func(t *task.Task) {
			t.EmployerClient = "Globex"
			t.Tags = []string{"q1"}
		}),
		mk(5, task.StatusTodo, "2026-01-11", func(t *task.Task) {
			t.Priority = task.Priority("urgent")
			t.Tags = []string{"Report"}
		}),
	}
}

func TestFilter(t *testing.T) {
	tasks := fixture()
	tests := []struct {
		name string
		c    Criteria
		want []int
	}{
		{"zero criteria", Criteria{}, []int{1, 2, 3, 4, 5}},
		{"status case-insensitive input", Criteria{Status: "todo"}, []int{1, 5}},
		{"project case-insensitive", Criteria{Project: "proj-b"}, []int{2}},
		{"task type", Criteria{TaskType: "PERSONAL"}, []int{3}},
		{"priority", Criteria{Priority: "High"}, []int{1}},
		{"deadline before inclusive", Criteria{DeadlineBefore: "2026-01-05"}, []int{2, 3}},
		{"deadline after inclusive", Criteria{DeadlineAfter: "2026-01-07"}, []int{1, 5}},
		{"tags any", Criteria{Tags: []string{"home", "q1"}}, []int{1, 3, 4}},
		{"tags exact", Criteria{Tags: []string{"report"}}, []int{}},
		{"client substring", Criteria{EmployerClient: "acme"}, []int{2}},
		{"combined", Criteria{Status: "TODO", Tags: []string{"q1"}, DeadlineBefore: "2026-01-31"}, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(tasks, tt.c)))
		})
	}
}

func TestFilterStatusComposes(t *testing.T) {
	tasks := fixture()
	for _, status := range task.Statuses {
		got := Filter(Filter(tasks, Criteria{Project: "proj-a"}), Criteria{Status: string(status)})
		for _, tk := range got {
			assert.Equal(t, status, tk.Status)
		}
		assert.Equal(t, ids(Filter(tasks, Criteria{Project: "proj-a", Status: string(status)})), ids(got))
	}
}

func TestCriteriaIsZero(t *testing.T) {
	assert.True(t, Criteria{}.IsZero())
	assert.False(t, Criteria{Tags: []string{"x"}}.IsZero())
}

func TestSearch(t *testing.T) {
	tasks := fixture()
	tests := []struct {
		name  string
		query string
		field SearchField
		want  []int
	}{
		{"all fields", "report", SearchAll, []int{1, 2, 5}},
		{"description only", "report", SearchDescription, []int{1}},
		{"notes only", "REPORT", SearchNotes, []int{2}},
		{"tags substring", "rep", SearchTags, []int{5}},
		{"client", "glob", SearchClient, []int{4}},
		{"no match", "zebra", SearchAll, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Search(tasks, tt.query, tt.field)))
		})
	}
}

func TestParseSearchField(t *testing.T) {
	f, err := ParseSearchField("Notes")
	require.NoError(t, err)
	assert.Equal(t, SearchNotes, f)

	f, err = ParseSearchField("")
	require.NoError(t, err)
	assert.Equal(t, SearchAll, f)

	_, err = ParseSearchField("title")
	assert.ErrorIs(t, err, task.ErrValidation)
}

func TestWithTags(t *testing.T) {
	tasks := fixture()
	assert.Equal(t, []int{1, 4}, ids(WithTags(tasks, []string{"q1"}, false)))
	assert.Equal(t, []int{1}, ids(WithTags(tasks, []string{"q1", "writing"}, true)))
	assert.Equal(t, []int{1, 3, 4}, ids(WithTags(tasks, SplitTags(" q1, home ,"), false)))
}

func TestStatusShortcuts(t *testing.T) {
	tasks := fixture()
	assert.Equal(t, []int{2}, ids(Active(tasks)))
	assert.Equal(t, []int{1, 5}, ids(Pending(tasks)))
	assert.Equal(t, []int{3}, ids(Completed(tasks)))
	assert.Equal(t, []int{4}, ids(Blocked(tasks)))
}

func TestSortByDeadline(t *testing.T) {
	got := SortByDeadline(fixture())
	assert.Equal(t, []int{3, 2, 1, 5, 4}, ids(got))
	assert.Empty(t, got[len(got)-1].Deadline, "tasks without deadline sort last")
}

func TestSortByPriority(t *testing.T) {
	// Ties keep input order; unknown priorities go last.
	assert.Equal(t, []int{1, 2, 4, 3, 5}, ids(SortByPriority(fixture())))
}

func TestSortByStatus(t *testing.T) {
	tasks := append(fixture(), mk(6, task.Status("ARCHIVED"), ""))
	assert.Equal(t, []int{2, 1, 5, 4, 3, 6}, ids(SortByStatus(tasks)))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	tasks := fixture()
	_ = Sort(tasks, SortDeadline)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(tasks))

	reversed := []task.Task{tasks[4], tasks[3], tasks[2], tasks[1], tasks[0]}
	assert.Equal(t, []int{5, 4, 3, 2, 1}, ids(Sort(reversed, "bogus")))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(Sort(reversed, SortID)))
	assert.NotNil(t, Sort(nil, SortID))
}

func TestParseSortKey(t *testing.T) {
	k, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortDeadline, k)

	k, err = ParseSortKey("Priority")
	require.NoError(t, err)
	assert.Equal(t, SortPriority, k)

	_, err = ParseSortKey("size")
	assert.ErrorIs(t, err, task.ErrValidation)

	assert.Equal(t, SortDeadline, SortID.Next())
	assert.Equal(t, SortPriority, SortDeadline.Next())
}

func TestDateWindows(t *testing.T) {
	tasks := append(fixture(),
		mk(6, task.StatusTodo, "2026-01-12"),
		mk(7, task.StatusTodo, "2026-01-14"),
	)

	assert.Equal(t, []int{1}, ids(DueToday(tasks, today)))
	assert.Equal(t, []int{1, 2, 5}, ids(DueThisWeek(tasks, today)), "Monday 5th through Sunday 11th")
	assert.Equal(t, []int{1, 5, 6}, ids(DueNextNDays(tasks, today, 5)))
	assert.Equal(t, []int{2, 3}, ids(DeadlineRange(tasks, "2026-01-01", "2026-01-05")))
	assert.Equal(t, []int{2}, ids(Overdue(tasks, today)), "DONE tasks are never overdue")
}

func TestWeekBounds(t *testing.T) {
	tests := []struct {
		day   time.Time
		start string
		end   string
	}{
		{time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), "2026-01-05", "2026-01-11"},
		{time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC), "2026-01-05", "2026-01-11"},
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "2025-12-29", "2026-01-04"},
	}
	for _, tt := range tests {
		start, end := WeekBounds(tt.day)
		assert.Equal(t, tt.start, task.FormatDate(start))
		assert.Equal(t, tt.end, task.FormatDate(end))
	}
}

func TestScheduledOn(t *testing.T) {
	daily := mk(1, task.StatusTodo, "", func(t *task.Task) { t.Recurrence = task.RecurrenceDaily })
	weekend := mk(2, task.StatusTodo, "", func(t *task.Task) { t.Recurrence = task.RecurrenceWeekends })
	doneToday := mk(3, task.StatusDone, "", func(t *task.Task) {
		t.Recurrence = task.RecurrenceWeekdays
		t.LastCompleted = "2026-01-07"
	})
	plain := mk(4, task.StatusTodo, "")

	got := ScheduledOn([]task.Task{daily, weekend, doneToday, plain}, today)
	assert.Equal(t, []int{1}, ids(got))
}

func TestGroupBy(t *testing.T) {
	tasks := fixture()

	byProject := GroupByProject(tasks)
	assert.Equal(t, []string{"proj-a", "Proj-B"}, byProject.Keys())
	assert.Equal(t, []int{1, 3, 4, 5}, ids(byProject.Get("proj-a")))
	assert.Nil(t, byProject.Get("missing"))

	byStatus := GroupByStatus(tasks)
	assert.Equal(t, []string{"TODO", "IN_PROGRESS", "DONE", "BLOCKED"}, byStatus.Keys())
	assert.Equal(t, []int{1, 5}, ids(byStatus.Get("TODO")))
}

func timeTasks() []task.Task {
	logs := func(entries ...task.TimeLog) func(*task.Task) {
		return func(t *task.Task) {
			for _, e := range entries {
				_ = t.LogTime(e)
			}
		}
	}
	return []task.Task{
		mk(1, task.StatusTodo, "2030-01-01", func(t *task.Task) { t.EmployerClient = "Acme" },
			logs(task.TimeLog{Date: "2026-01-02", Hours: 2}, task.TimeLog{Date: "2026-01-09", Hours: 1.5})),
		mk(2, task.StatusDone, "", func(t *task.Task) {
			t.Project = "proj-b"
			t.EmployerClient = "Acme"
		}, logs(task.TimeLog{Date: "2026-01-03", Hours: 3})),
		mk(3, task.StatusTodo, "", logs(task.TimeLog{Date: "2026-01-04", Hours: 0.5}, task.TimeLog{Date: "2026-01-05", Hours: 1})),
	}
}

func TestTimeLogsByDateRange(t *testing.T) {
	tasks := timeTasks()

	entries := TimeLogsByDateRange(tasks, "2026-01-01", "2026-01-05", "", "")
	require.Len(t, entries, 4)
	assert.Equal(t, 1, entries[0].Task.ID)
	assert.Equal(t, "2026-01-02", entries[0].Log.Date)

	assert.Len(t, TimeLogsByDateRange(tasks, "2026-01-01", "2026-12-31", "proj-b", ""), 1)
	assert.Len(t, TimeLogsByDateRange(tasks, "2026-01-01", "2026-12-31", "", "Acme"), 3)
	assert.Empty(t, TimeLogsByDateRange(tasks, "2026-01-01", "2026-12-31", "", "acme"), "client matches exactly")
}

func TestSummarizeTime(t *testing.T) {
	entries := TimeLogsByDateRange(timeTasks(), "2026-01-01", "2026-01-31", "", "")

	byProject := SummarizeTime(entries, ByProject)
	assert.Equal(t, []TimeSummary{
		{Key: "proj-a", Hours: 5, Tasks: 2, Entries: 4},
		{Key: "proj-b", Hours: 3, Tasks: 1, Entries: 1},
	}, byProject)
	assert.InDelta(t, 8.0, TotalHours(byProject), 1e-9)

	byClient := SummarizeTime(entries, ByClient)
	assert.Equal(t, []TimeSummary{{Key: "Acme", Hours: 6.5, Tasks: 2, Entries: 3}}, byClient)

	g, err := ParseGroupField("")
	require.NoError(t, err)
	assert.Equal(t, ByProject, g)
	_, err = ParseGroupField("lab")
	assert.ErrorIs(t, err, task.ErrValidation)
}
