package format

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nibzard/task-manager/internal/config"
	"github.com/nibzard/task-manager/internal/query"
	"github.com/nibzard/task-manager/internal/storage"
	"github.com/nibzard/task-manager/internal/task"
)

const tableHeader = "ID   Description                    Code   Type Pri Due        Est    Spent  Status"

// fit pads or truncates s to exactly n runes.
func fit(s string, n int) string {
	if utf8.RuneCountInString(s) > n {
		r := []rune(s)
		return string(r[:n-1]) + "…"
	}
	return s + strings.Repeat(" ", n-utf8.RuneCountInString(s))
}

// Hours formats an hour count without trailing zeros, or "-" for zero.
func Hours(h float64) string {
	if h == 0 {
		return "-"
	}
	return strconv.FormatFloat(h, 'f', -1, 64) + "h"
}

// TaskTable renders tasks as a table. codes maps project IDs to display
// codes; projects without a code show their ID.
func TaskTable(tasks []task.Task, codes map[string]string, today string, st Styles) string {
	if len(tasks) == 0 {
		return "No tasks found."
	}
	var b strings.Builder
	b.WriteString(st.Render(st.Header, tableHeader))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", utf8.RuneCountInString(tableHeader)))
	b.WriteString("\n")
	for i := range tasks {
		b.WriteString(TaskRow(&tasks[i], codes, today, st))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// TaskGroups renders one table per group under a "Key (count)" heading.
// labels may rename group keys, e.g. project IDs to names.
func TaskGroups(groups query.Groups, labels map[string]string, codes map[string]string, today string, st Styles) string {
	if len(groups) == 0 {
		return "No tasks found."
	}
	parts := make([]string, len(groups))
	for i, g := range groups {
		label := g.Key
		if l := labels[g.Key]; l != "" {
			label = l
		}
		heading := st.Render(st.Title, fmt.Sprintf("%s (%d)", label, len(g.Tasks)))
		parts[i] = heading + "\n" + TaskTable(g.Tasks, codes, today, st)
	}
	return strings.Join(parts, "\n\n")
}

// TaskRow renders one table row.
func TaskRow(t *task.Task, codes map[string]string, today string, st Styles) string {
	code := codes[t.Project]
	if code == "" {
		code = t.Project
	}
	deadline := fit(orDash(t.Deadline), 10)
	if t.IsOverdue(today) {
		deadline = st.Render(st.Overdue, deadline)
	}
	estimate := "-"
	if t.TimeEstimateHours != nil {
		estimate = Hours(*t.TimeEstimateHours)
	}
	return fmt.Sprintf("%s %s %s %s %s   %s %s %s %s",
		fit(strconv.Itoa(t.ID), 4),
		fit(t.Description, 30),
		fit(code, 6),
		fit(string(t.TaskType), 4),
		st.Priority(t.Priority),
		deadline,
		fit(estimate, 6),
		fit(Hours(t.TimeSpentHours), 6),
		st.Status(t.Status),
	)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// TaskDetail renders every populated field of a task.
func TaskDetail(t *task.Task, projectName, today string, st Styles) string {
	var b strings.Builder
	line := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "  %s %s\n", st.Render(st.Label, label+":"), value)
	}

	b.WriteString(st.Render(st.Title, fmt.Sprintf("Task #%d", t.ID)))
	b.WriteString("\n")
	line("Description", t.Description)
	line("Status", st.Status(t.Status))
	line("Priority", string(t.Priority))
	project := t.Project
	if projectName != "" && projectName != t.Project {
		project = fmt.Sprintf("%s (%s)", projectName, t.Project)
	}
	line("Project", project)
	line("Type", string(t.TaskType))
	if t.IsOverdue(today) {
		line("Deadline", st.Render(st.Overdue, t.Deadline+" (overdue)"))
	} else {
		line("Deadline", t.Deadline)
	}
	line("Client/Employer", t.EmployerClient)
	if t.TimeEstimateHours != nil {
		line("Time Estimate", strconv.FormatFloat(*t.TimeEstimateHours, 'f', -1, 64)+" hours")
	}
	if t.TimeSpentHours > 0 {
		line("Time Spent", strconv.FormatFloat(t.TimeSpentHours, 'f', -1, 64)+" hours")
	}
	line("Tags", strings.Join(t.Tags, ", "))
	if t.IsRecurring() {
		rec := string(t.Recurrence)
		if len(t.RecurrenceDays) > 0 {
			days := make([]string, len(t.RecurrenceDays))
			for i, d := range t.RecurrenceDays {
				days[i] = weekdayNames[d%7]
			}
			rec += " (" + strings.Join(days, ", ") + ")"
		}
		if t.TimeOfDay != "" {
			rec += " at " + t.TimeOfDay
		}
		line("Recurrence", rec)
		line("Streak", strconv.Itoa(t.StreakCount))
	}
	line("Notes", t.Notes)
	if len(t.TimeLogs) > 0 {
		fmt.Fprintf(&b, "  %s\n", st.Render(st.Label, "Time Logs:"))
		for _, l := range t.TimeLogs {
			entry := fmt.Sprintf("    - %s: %s", l.Date, Hours(l.Hours))
			if l.Description != "" {
				entry += " - " + l.Description
			}
			b.WriteString(entry + "\n")
		}
	}
	line("Created", t.Created)
	line("Activated", t.Activated)
	line("Completed", t.Completed)
	return strings.TrimSuffix(b.String(), "\n")
}

// Monday first, matching recurrence_days.
var weekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Stats renders bucket statistics.
func Stats(s task.Stats, st Styles) string {
	var b strings.Builder
	b.WriteString(st.Render(st.Title, "Task Statistics:") + "\n")
	fmt.Fprintf(&b, "  Total tasks: %d\n", s.Total)
	fmt.Fprintf(&b, "  Pending (TODO): %d\n", s.Pending)
	fmt.Fprintf(&b, "  Active (IN_PROGRESS): %d\n", s.Active)
	fmt.Fprintf(&b, "  Completed (DONE): %d\n", s.Completed)
	fmt.Fprintf(&b, "  Blocked: %d\n", s.Blocked)
	overdue := strconv.Itoa(s.Overdue)
	if s.Overdue > 0 {
		overdue = st.Render(st.Overdue, overdue)
	}
	fmt.Fprintf(&b, "  Overdue: %s\n", overdue)
	if s.EstimatedHours > 0 || s.SpentHours > 0 {
		b.WriteString("\n" + st.Render(st.Title, "Time Tracking:") + "\n")
		fmt.Fprintf(&b, "  Total estimated: %s hours\n", strconv.FormatFloat(s.EstimatedHours, 'f', -1, 64))
		fmt.Fprintf(&b, "  Total spent: %s hours\n", strconv.FormatFloat(s.SpentHours, 'f', -1, 64))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Projects renders the project registry sorted by ID.
func Projects(ps task.Projects, st Styles) string {
	if len(ps) == 0 {
		return "No projects registered."
	}
	var b strings.Builder
	header := "ID                   Code  Status     Name"
	b.WriteString(st.Render(st.Header, header) + "\n")
	for _, id := range ps.IDs() {
		p := ps[id]
		p.ID = id
		status := string(p.Status)
		if status == "" {
			status = string(task.ProjectActive)
		}
		fmt.Fprintf(&b, "%s %s %s %s", fit(id, 20), fit(p.DefaultCode(), 5), fit(status, 10), p.DisplayName())
		if p.Path != "" {
			b.WriteString("  " + st.Render(st.Dim, p.Path))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Backups renders backups newest first.
func Backups(backups []storage.Backup, st Styles) string {
	if len(backups) == 0 {
		return "No backups found."
	}
	var b strings.Builder
	b.WriteString(st.Render(st.Header, "Backup                                        Created              Size") + "\n")
	for _, bk := range backups {
		created := "-"
		if !bk.Created.IsZero() {
			created = bk.Created.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(&b, "%s %s %d\n", fit(bk.Name, 45), fit(created, 20), bk.Size)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Validation renders a validation result for path.
func Validation(path string, r *task.ValidationResult, st Styles) string {
	var b strings.Builder
	method := "minimal checks"
	if r.UsedSchema {
		method = "JSON Schema"
	}
	if r.Valid {
		fmt.Fprintf(&b, "✓ %s is valid (%s)\n", path, method)
	} else {
		fmt.Fprintf(&b, "%s %s has %d error(s) (%s)\n", st.Render(st.Overdue, "✗"), path, len(r.Errors), method)
		for _, err := range r.Errors {
			fmt.Fprintf(&b, "  - %v\n", err)
		}
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "  %s %s\n", st.Render(st.Dim, "warning:"), w)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Settings renders resolved configuration with the source of each value.
func Settings(settings []config.Setting, files []string) string {
	var b strings.Builder
	for _, s := range settings {
		fmt.Fprintf(&b, "%s = %s  (%s)\n", fit(s.Key, 18), s.Value, s.Source)
	}
	if len(files) > 0 {
		b.WriteString("\nConfig files:\n")
		for _, f := range files {
			b.WriteString("  " + f + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}
