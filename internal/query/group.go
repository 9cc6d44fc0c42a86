package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/nibzard/task-manager/internal/task"
)

// Group is a run of tasks sharing a key.
type Group struct {
	Key   string
	Tasks []task.Task
}

// Groups holds groups in the order their keys were first seen.
type Groups []Group

// Keys returns the group keys in first-encounter order.
func (g Groups) Keys() []string {
	keys := make([]string, len(g))
	for i := range g {
		keys[i] = g[i].Key
	}
	return keys
}

// Get returns the tasks grouped under key.
func (g Groups) Get(key string) []task.Task {
	for i := range g {
		if g[i].Key == key {
			return g[i].Tasks
		}
	}
	return nil
}

func groupBy(tasks []task.Task, key func(*task.Task) string) Groups {
	var groups Groups
	index := make(map[string]int)
	for i := range tasks {
		k := key(&tasks[i])
		pos, ok := index[k]
		if !ok {
			pos = len(groups)
			index[k] = pos
			groups = append(groups, Group{Key: k})
		}
		groups[pos].Tasks = append(groups[pos].Tasks, tasks[i])
	}
	return groups
}

// GroupByProject groups tasks by project ID.
func GroupByProject(tasks []task.Task) Groups {
	return groupBy(tasks, func(t *task.Task) string { return t.Project })
}

// GroupByStatus groups tasks by status.
func GroupByStatus(tasks []task.Task) Groups {
	return groupBy(tasks, func(t *task.Task) string { return string(t.Status) })
}

// LogEntry pairs a time log with the task it belongs to.
type LogEntry struct {
	Task task.Task
	Log  task.TimeLog
}

// TimeLogsByDateRange returns the time logs dated within [start, end],
// with their tasks. It filters on each log's own date, not on deadlines.
// Non-empty project and client must match the task exactly.
func TimeLogsByDateRange(tasks []task.Task, start, end, project, client string) []LogEntry {
	var entries []LogEntry
	for _, t := range tasks {
		if project != "" && t.Project != project {
			continue
		}
		if client != "" && t.EmployerClient != client {
			continue
		}
		for _, l := range t.TimeLogs {
			if start <= l.Date && l.Date <= end {
				entries = append(entries, LogEntry{Task: t, Log: l})
			}
		}
	}
	return entries
}

// GroupField selects how SummarizeTime aggregates.
type GroupField string

const (
	ByProject GroupField = "project"
	ByClient  GroupField = "client"
)

// ParseGroupField validates a --group-by value. Empty means project.
func ParseGroupField(s string) (GroupField, error) {
	switch f := GroupField(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return ByProject, nil
	case ByProject, ByClient:
		return f, nil
	}
	return "", fmt.Errorf("%w: invalid group %q, must be project or client", task.ErrValidation, s)
}

// Key returns the project or client the entry is grouped under.
func (e LogEntry) Key(by GroupField) string {
	if by == ByClient {
		return e.Task.EmployerClient
	}
	return e.Task.Project
}

// TimeSummary is the logged time for one project or client.
type TimeSummary struct {
	Key     string  `json:"key" yaml:"key"`
	Hours   float64 `json:"hours" yaml:"hours"`
	Tasks   int     `json:"tasks" yaml:"tasks"`
	Entries int     `json:"entries" yaml:"entries"`
}

// SummarizeTime totals log hours per project or client, sorted by key.
// Grouping by client skips tasks without one.
func SummarizeTime(entries []LogEntry, by GroupField) []TimeSummary {
	index := make(map[string]int)
	seen := make(map[string]map[int]bool)
	var out []TimeSummary
	for _, e := range entries {
		key := e.Key(by)
		if key == "" {
			continue
		}
		pos, ok := index[key]
		if !ok {
			pos = len(out)
			index[key] = pos
			seen[key] = make(map[int]bool)
			out = append(out, TimeSummary{Key: key})
		}
		out[pos].Hours += e.Log.Hours
		out[pos].Entries++
		if !seen[key][e.Task.ID] {
			seen[key][e.Task.ID] = true
			out[pos].Tasks++
		}
	}
	slices.SortFunc(out, func(a, b TimeSummary) int { return cmp.Compare(a.Key, b.Key) })
	return out
}

// TotalHours sums the hours of every summary.
func TotalHours(summaries []TimeSummary) float64 {
	var total float64
	for _, s := range summaries {
		total += s.Hours
	}
	return total
}
