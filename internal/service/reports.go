package service

import (
	"time"

	"github.com/nibzard/task-manager/internal/query"
	"github.com/nibzard/task-manager/internal/task"
)

// ListOptions selects and orders tasks for display.
type ListOptions struct {
	query.Criteria
	// AllTags keeps tasks carrying every listed tag.
	AllTags []string
	// Date windows. At most one applies; they are checked in field order.
	Overdue     bool
	DueToday    bool
	DueThisWeek bool
	DueNext     int
	// ScheduledToday keeps recurring tasks due today and not yet done.
	ScheduledToday bool
	Sort           string
}

// List returns the tasks matching opts. The project criterion accepts a
// project ID or code.
func (s *Service) List(opts ListOptions) ([]task.Task, error) {
	c := opts.Criteria
	if c.Status != "" {
		status, err := task.ParseStatus(c.Status)
		if err != nil {
			return nil, err
		}
		c.Status = string(status)
	}
	if c.Priority != "" {
		if _, err := task.ParsePriority(c.Priority); err != nil {
			return nil, err
		}
	}
	if c.TaskType != "" {
		if _, err := task.ParseTaskType(c.TaskType); err != nil {
			return nil, err
		}
	}
	if c.Project != "" {
		id, err := s.resolveProject(c.Project)
		if err != nil {
			return nil, err
		}
		c.Project = id
	}
	for _, bound := range []*string{&c.DeadlineBefore, &c.DeadlineAfter} {
		if *bound == "" {
			continue
		}
		d, err := s.parseDate(*bound)
		if err != nil {
			return nil, err
		}
		*bound = d
	}
	if opts.DueNext < 0 {
		return nil, validationErr("--due-next must be positive, got %d", opts.DueNext)
	}
	key, err := query.ParseSortKey(opts.Sort)
	if err != nil {
		return nil, err
	}

	b, err := s.load()
	if err != nil {
		return nil, err
	}
	tasks := query.Filter(b.Tasks, c)

	now := s.opts.Now()
	switch {
	case opts.Overdue:
		tasks = query.Overdue(tasks, now)
	case opts.DueToday:
		tasks = query.DueToday(tasks, now)
	case opts.DueThisWeek:
		tasks = query.DueThisWeek(tasks, now)
	case opts.DueNext > 0:
		tasks = query.DueNextNDays(tasks, now, opts.DueNext)
	}
	if opts.ScheduledToday {
		tasks = query.ScheduledOn(tasks, now)
	}
	if len(opts.AllTags) > 0 {
		tasks = query.WithTags(tasks, opts.AllTags, true)
	}
	return query.Sort(tasks, key), nil
}

// Search finds tasks containing text. field is empty or one of
// description, notes, tags and client.
func (s *Service) Search(text, field string) ([]task.Task, error) {
	f, err := query.ParseSearchField(field)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, validationErr("search query is empty")
	}
	b, err := s.load()
	if err != nil {
		return nil, err
	}
	return query.Search(b.Tasks, text, f), nil
}

// Stats summarizes the bucket.
func (s *Service) Stats() (task.Stats, error) {
	b, err := s.load()
	if err != nil {
		return task.Stats{}, err
	}
	return b.Stats(s.Today()), nil
}

// Dashboard is the data behind the TUI header and list.
type Dashboard struct {
	Tasks  []task.Task
	Stats  task.Stats
	Codes  map[string]string
	Loaded time.Time
}

// Dashboard loads every task with stats and project codes in one read.
func (s *Service) Dashboard() (*Dashboard, error) {
	b, err := s.load()
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Tasks:  b.Tasks,
		Stats:  b.Stats(s.Today()),
		Codes:  s.store.ProjectCodes(),
		Loaded: s.opts.Now(),
	}, nil
}

// ReportOptions selects the time logs of a time report.
type ReportOptions struct {
	// Project is a project ID or code.
	Project string
	Client  string
	// Start and End bound log dates inclusively. Empty bounds are open.
	Start   string
	End     string
	GroupBy string
}

// TimeReport is logged time grouped by project or client.
type TimeReport struct {
	Start   string              `json:"start" yaml:"start"`
	End     string              `json:"end" yaml:"end"`
	GroupBy query.GroupField    `json:"group_by" yaml:"group_by"`
	Rows    []query.TimeSummary `json:"rows" yaml:"rows"`
	Total   float64             `json:"total_hours" yaml:"total_hours"`
	Entries []query.LogEntry    `json:"-" yaml:"-"`
}

const (
	openStart = "0001-01-01"
	openEnd   = "9999-12-31"
)

// TimeReport totals time logs dated within the range. Logs are selected by
// their own date, not by task deadlines.
func (s *Service) TimeReport(opts ReportOptions) (*TimeReport, error) {
	by, err := query.ParseGroupField(opts.GroupBy)
	if err != nil {
		return nil, err
	}
	start, end := openStart, openEnd
	if opts.Start != "" {
		if start, err = s.parseDate(opts.Start); err != nil {
			return nil, err
		}
	}
	if opts.End != "" {
		if end, err = s.parseDate(opts.End); err != nil {
			return nil, err
		}
	}
	if start > end {
		return nil, validationErr("start date %s is after end date %s", start, end)
	}
	project := ""
	if opts.Project != "" {
		if project, err = s.resolveProject(opts.Project); err != nil {
			return nil, err
		}
	}

	b, err := s.load()
	if err != nil {
		return nil, err
	}
	entries := query.TimeLogsByDateRange(b.Tasks, start, end, project, opts.Client)
	rows := query.SummarizeTime(entries, by)
	report := &TimeReport{
		GroupBy: by,
		Rows:    rows,
		Total:   query.TotalHours(rows),
		Entries: entries,
	}
	if opts.Start != "" {
		report.Start = start
	}
	if opts.End != "" {
		report.End = end
	}
	return report, nil
}
