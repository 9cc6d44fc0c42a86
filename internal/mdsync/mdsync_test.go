package mdsync

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/task-manager/internal/logging"
	"github.com/nibzard/task-manager/internal/task"
)

type staticProjects task.Projects

func (p staticProjects) LoadProjects() task.Projects { return task.Projects(p) }

func newTask(id int, desc, deadline string) *task.Task {
	t := task.New(id, desc, "proj", "2026-01-01")
	t.Deadline = deadline
	return &t
}

func TestAddEntryCreatesSection(t *testing.T) {
	got := AddEntry("# Project\n", UpcomingSection, UpcomingEntry(newTask(1, "Write", "2026-01-10")))
	want := "# Project\n\n### Upcoming Tasks\n\n<!-- task-id: 1 -->\n- **#1**: Write (Due: 2026-01-10)\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestAddEntryBeforeNextHeading(t *testing.T) {
	content := "### Upcoming Tasks\n\n<!-- task-id: 1 -->\n- **#1**: A\n\n### Notes\nstuff\n"
	got := AddEntry(content, UpcomingSection, UpcomingEntry(newTask(2, "B", "")))
	want := "### Upcoming Tasks\n\n<!-- task-id: 1 -->\n- **#1**: A\n<!-- task-id: 2 -->\n- **#2**: B\n\n### Notes\nstuff\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestRemoveEntry(t *testing.T) {
	content := "# P\n\n### Upcoming Tasks\n\n" +
		"<!-- task-id: 1 -->\n- **#1**: A\n  more about A\n" +
		"<!-- task-id: 2 -->\n- **#2**: B\n\n" +
		"### Recent Completions\n\n<!-- task-id: 3 -->\n- **#3** ✓: C (Completed: 2026-01-02)\n"

	tests := []struct {
		name    string
		heading string
		id      int
		want    string
	}{
		{
			name:    "entry with continuation",
			heading: UpcomingSection,
			id:      1,
			want: "# P\n\n### Upcoming Tasks\n\n<!-- task-id: 2 -->\n- **#2**: B\n\n" +
				"### Recent Completions\n\n<!-- task-id: 3 -->\n- **#3** ✓: C (Completed: 2026-01-02)\n",
		},
		{
			name:    "last entry of a section",
			heading: CompletedSection,
			id:      3,
			want: "# P\n\n### Upcoming Tasks\n\n" +
				"<!-- task-id: 1 -->\n- **#1**: A\n  more about A\n" +
				"<!-- task-id: 2 -->\n- **#2**: B\n\n### Recent Completions\n\n",
		},
		{
			name:    "absent id",
			heading: UpcomingSection,
			id:      3,
			want:    content,
		},
		{
			name:    "absent section",
			heading: "### Elsewhere",
			id:      1,
			want:    content,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RemoveEntry(content, tt.heading, tt.id); got != tt.want {
				t.Errorf("got:\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestEnsureSectionMatchesWholeLines(t *testing.T) {
	content := "see ### Upcoming Tasks inline\n"
	got := EnsureSection(content, UpcomingSection)
	if !strings.HasSuffix(got, "\n\n### Upcoming Tasks\n\n") {
		t.Errorf("heading inside a line should not count: %q", got)
	}
	if again := EnsureSection(got, UpcomingSection); again != got {
		t.Errorf("EnsureSection is not idempotent: %q", again)
	}
}

func setupProject(t *testing.T, content string) (*Syncer, string, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	projects := staticProjects{
		"proj":    {Name: "Project", Path: dir},
		"no-path": {Name: "Nowhere"},
	}
	return New(projects, "", logging.NewWriter(&logs)), path, &logs
}

func TestSyncerLifecycle(t *testing.T) {
	s, path, _ := setupProject(t, "# Project notes\n")
	tk := newTask(4, "Ship it", "2026-02-01")

	if _, err := s.Activate(tk); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	msg, err := s.Activate(tk)
	if err != nil || !strings.Contains(msg, "already") {
		t.Errorf("second Activate: %q, %v", msg, err)
	}

	tk.Complete("2026-01-20", "")
	if _, err := s.Complete(tk); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	data, _ := os.ReadFile(path)
	content := string(data)
	if strings.Count(content, Marker(4)) != 1 {
		t.Errorf("task should appear once:\n%s", content)
	}
	if !strings.Contains(content, "- **#4** ✓: Ship it (Completed: 2026-01-20)") {
		t.Errorf("missing completion entry:\n%s", content)
	}
	upcoming := content[strings.Index(content, UpcomingSection):strings.Index(content, CompletedSection)]
	if strings.Contains(upcoming, Marker(4)) {
		t.Errorf("task still listed as upcoming:\n%s", content)
	}

	if _, err := s.Deactivate(tk); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	data, _ = os.ReadFile(path)
	if HasEntry(string(data), 4) {
		t.Errorf("task not removed:\n%s", data)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("file mode changed to %v", info.Mode().Perm())
	}
}

func TestSyncerNoMarkdown(t *testing.T) {
	s, path, _ := setupProject(t, "")

	for _, project := range []string{"no-path", "unknown"} {
		tk := newTask(1, "x", "")
		tk.Project = project
		if _, err := s.Activate(tk); !errors.Is(err, ErrNoMarkdown) {
			t.Errorf("%s: expected ErrNoMarkdown, got %v", project, err)
		}
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Activate(newTask(1, "x", "")); !errors.Is(err, ErrNoMarkdown) {
		t.Errorf("missing file: expected ErrNoMarkdown, got %v", err)
	}
}
