package task

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestNewTaskDefaults(t *testing.T) {
	task := New(1, "Write report", "proj-a", "2026-01-02")

	if task.Status != StatusTodo {
		t.Errorf("Status: got %s, want TODO", task.Status)
	}
	if task.Priority != PriorityMedium {
		t.Errorf("Priority: got %s, want medium", task.Priority)
	}
	if task.TaskType != TypeWork {
		t.Errorf("TaskType: got %s, want work", task.TaskType)
	}
	if task.Created != "2026-01-02" {
		t.Errorf("Created: got %s, want 2026-01-02", task.Created)
	}
	if task.Tags == nil || task.TimeLogs == nil || task.RecurrenceDays == nil {
		t.Error("slices should be empty, not nil")
	}
}

func TestIsOverdue(t *testing.T) {
	tests := []struct {
		name     string
		deadline string
		status   Status
		want     bool
	}{
		{"no deadline", "", StatusTodo, false},
		{"past deadline", "2026-01-01", StatusTodo, true},
		{"past deadline blocked", "2026-01-01", StatusBlocked, true},
		{"past deadline done", "2026-01-01", StatusDone, false},
		{"due today", "2026-01-05", StatusTodo, false},
		{"future", "2026-02-01", StatusInProgress, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{Deadline: tt.deadline, Status: tt.status}
			if got := task.IsOverdue("2026-01-05"); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDaysUntilDeadline(t *testing.T) {
	tests := []struct {
		deadline string
		wantDays int
		wantOK   bool
	}{
		{"", 0, false},
		{"2026-01-04", 0, false},
		{"2026-01-05", 0, true},
		{"2026-01-12", 7, true},
		{"2026-03-01", 55, true},
	}

	for _, tt := range tests {
		t.Run(tt.deadline, func(t *testing.T) {
			task := Task{Deadline: tt.deadline}
			days, ok := task.DaysUntilDeadline("2026-01-05")
			if days != tt.wantDays || ok != tt.wantOK {
				t.Errorf("DaysUntilDeadline() = (%d, %v), want (%d, %v)", days, ok, tt.wantDays, tt.wantOK)
			}
		})
	}
}

func TestLogTimeAccumulates(t *testing.T) {
	task := New(1, "Task", "p", "2026-01-01")
	now := time.Date(2026, 1, 3, 17, 20, 11, 0, time.Local)

	for _, hours := range []float64{1.5, 2.25, 0.25} {
		if err := task.LogTime(NewTimeLog("2026-01-03", hours, "", now)); err != nil {
			t.Fatalf("LogTime failed: %v", err)
		}
	}

	if task.TimeSpentHours != 4.0 {
		t.Errorf("TimeSpentHours: got %v, want 4.0", task.TimeSpentHours)
	}
	if len(task.TimeLogs) != 3 {
		t.Fatalf("TimeLogs count: got %d, want 3", len(task.TimeLogs))
	}
	if task.TimeLogs[0].Hours != 1.5 {
		t.Errorf("first log hours: got %v, want 1.5", task.TimeLogs[0].Hours)
	}
	if task.TimeLogs[0].LoggedAt != "2026-01-03T17:20:11" {
		t.Errorf("LoggedAt: got %q", task.TimeLogs[0].LoggedAt)
	}
}

func TestLogTimeRejectsInvalid(t *testing.T) {
	task := New(1, "Task", "p", "2026-01-01")

	for _, hours := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		err := task.LogTime(TimeLog{Date: "2026-01-03", Hours: hours})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("hours %v: got %v, want ErrValidation", hours, err)
		}
	}
	err := task.LogTime(TimeLog{Date: "01/03/2026", Hours: 1})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("bad date: got %v, want ErrValidation", err)
	}
	if len(task.TimeLogs) != 0 || task.TimeSpentHours != 0 {
		t.Error("rejected entries must not be recorded")
	}
}

func TestSetStatusStampsDates(t *testing.T) {
	task := New(1, "Task", "p", "2026-01-01")

	task.SetStatus(StatusInProgress, "2026-01-02")
	if task.Activated != "2026-01-02" {
		t.Errorf("Activated: got %q, want 2026-01-02", task.Activated)
	}

	task.SetStatus(StatusBlocked, "2026-01-03")
	task.SetStatus(StatusInProgress, "2026-01-04")
	if task.Activated != "2026-01-02" {
		t.Errorf("Activated should keep first value, got %q", task.Activated)
	}

	task.Complete("2026-01-05", "shipped")
	if task.Status != StatusDone {
		t.Errorf("Status: got %s, want DONE", task.Status)
	}
	if task.Completed != "2026-01-05" {
		t.Errorf("Completed: got %q, want 2026-01-05", task.Completed)
	}
	if task.Notes != "[Completed] shipped" {
		t.Errorf("Notes: got %q", task.Notes)
	}
}

func TestCompleteAppendsNotes(t *testing.T) {
	task := New(1, "Task", "p", "2026-01-01")
	task.Notes = "initial"
	task.Complete("2026-01-05", "done early")

	if task.Notes != "initial\n[Completed] done early" {
		t.Errorf("Notes: got %q", task.Notes)
	}
}

func TestStreak(t *testing.T) {
	tests := []struct {
		name          string
		recurrence    Recurrence
		days          []int
		lastCompleted string
		streak        int
		today         string
		wantStreak    int
	}{
		{"daily consecutive", RecurrenceDaily, nil, "2026-01-04", 3, "2026-01-05", 4},
		{"daily gap resets", RecurrenceDaily, nil, "2026-01-02", 3, "2026-01-05", 1},
		{"weekdays over weekend", RecurrenceWeekdays, nil, "2026-01-02", 5, "2026-01-05", 6},
		{"custom mon wed", RecurrenceCustom, []int{0, 2}, "2026-01-05", 2, "2026-01-07", 3},
		{"same day no change", RecurrenceDaily, nil, "2026-01-05", 3, "2026-01-05", 3},
		{"first completion", RecurrenceDaily, nil, "", 0, "2026-01-05", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := New(1, "Habit", "p", "2026-01-01")
			task.TaskType = TypeDaily
			task.Recurrence = tt.recurrence
			task.RecurrenceDays = tt.days
			task.LastCompleted = tt.lastCompleted
			task.StreakCount = tt.streak

			task.SetStatus(StatusDone, tt.today)

			if task.StreakCount != tt.wantStreak {
				t.Errorf("StreakCount: got %d, want %d", task.StreakCount, tt.wantStreak)
			}
			if task.LastCompleted != tt.today {
				t.Errorf("LastCompleted: got %q, want %q", task.LastCompleted, tt.today)
			}
		})
	}
}

func TestScheduledOn(t *testing.T) {
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	saturday := monday.AddDate(0, 0, 5)

	tests := []struct {
		recurrence Recurrence
		days       []int
		day        time.Time
		want       bool
	}{
		{RecurrenceDaily, nil, saturday, true},
		{RecurrenceWeekdays, nil, monday, true},
		{RecurrenceWeekdays, nil, saturday, false},
		{RecurrenceWeekends, nil, saturday, true},
		{RecurrenceCustom, []int{5}, saturday, true},
		{RecurrenceCustom, []int{5}, monday, false},
		{RecurrenceNone, nil, monday, false},
	}

	for _, tt := range tests {
		task := Task{Recurrence: tt.recurrence, RecurrenceDays: tt.days}
		if got := task.ScheduledOn(tt.day); got != tt.want {
			t.Errorf("%s %v on %s: got %v, want %v", tt.recurrence, tt.days, tt.day.Weekday(), got, tt.want)
		}
	}
}

func TestParseEnums(t *testing.T) {
	if s, err := ParseStatus("in-progress"); err != nil || s != StatusInProgress {
		t.Errorf("ParseStatus(in-progress) = %q, %v", s, err)
	}
	if s, err := ParseStatus("done"); err != nil || s != StatusDone {
		t.Errorf("ParseStatus(done) = %q, %v", s, err)
	}
	if _, err := ParseStatus("finished"); !errors.Is(err, ErrValidation) {
		t.Errorf("ParseStatus(finished) error = %v, want ErrValidation", err)
	}
	if p, err := ParsePriority("HIGH"); err != nil || p != PriorityHigh {
		t.Errorf("ParsePriority(HIGH) = %q, %v", p, err)
	}
	if _, err := ParseTaskType("chore"); !errors.Is(err, ErrValidation) {
		t.Errorf("ParseTaskType(chore) error = %v, want ErrValidation", err)
	}
	if r, err := ParseRecurrence("none"); err != nil || r != RecurrenceNone {
		t.Errorf("ParseRecurrence(none) = %q, %v", r, err)
	}
	if PriorityHigh.Rank() <= PriorityMedium.Rank() || PriorityLow.Rank() <= Priority("urgent").Rank() {
		t.Error("priority ranks out of order")
	}
}

func TestParseTimestamp(t *testing.T) {
	valid := []string{
		"2026-01-03T17:20:11.482113",
		"2026-01-03T17:20:11",
		"2026-01-03 17:20:11",
		"2026-01-03T17:20:11Z",
		"2026-01-03T17:20:11+02:00",
		"2026-01-03",
	}
	for _, s := range valid {
		if _, err := ParseTimestamp(s); err != nil {
			t.Errorf("ParseTimestamp(%q) failed: %v", s, err)
		}
	}
	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Error("ParseTimestamp(yesterday) should fail")
	}
}
