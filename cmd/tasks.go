package cmd

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/nibzard/task-manager/internal/format"
	"github.com/nibzard/task-manager/internal/query"
	"github.com/nibzard/task-manager/internal/service"
	"github.com/nibzard/task-manager/internal/task"
)

// addCommand creates a task from the description words and flags.
func (a *app) addCommand(args []string) error {
	fs := a.flagSet("add")
	project := fs.String("project", "", "Project ID or code (required)")
	fs.StringVar(project, "p", "", "Project ID or code (shorthand)")
	taskType := fs.String("type", "", "Task type (work, personal)")
	priority := fs.String("priority", "", "Priority (low, medium, high)")
	deadline := fs.String("deadline", "", "Deadline (YYYY-MM-DD or natural language)")
	fs.StringVar(deadline, "d", "", "Deadline (shorthand)")
	estimate := hoursFlag(fs, "estimate", "Estimated hours")
	client := fs.String("client", "", "Employer or client")
	tags := fs.String("tags", "", "Comma-separated tags")
	notes := fs.String("notes", "", "Notes")
	recurrence := fs.String("recurrence", "", "Recurrence (daily, weekly, weekdays, custom)")
	days := fs.String("days", "", "Custom recurrence days (0=Monday or mon,tue,...)")
	timeOfDay := fs.String("time", "", "Scheduled time of day (HH:MM)")
	outFormat := formatFlag(fs)

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	in := service.AddInput{
		Description:    strings.Join(positional, " "),
		Project:        *project,
		TaskType:       *taskType,
		Priority:       *priority,
		Deadline:       *deadline,
		TimeEstimate:   *estimate,
		EmployerClient: *client,
		Tags:           query.SplitTags(*tags),
		Notes:          *notes,
		Recurrence:     *recurrence,
		TimeOfDay:      *timeOfDay,
	}
	if *days != "" {
		if in.RecurrenceDays, err = parseDays(*days); err != nil {
			return err
		}
	}

	t, err := a.svc.Add(in)
	if err != nil {
		return err
	}
	return a.write(*outFormat, t, func() string {
		msg := fmt.Sprintf("Added task #%d: %s", t.ID, t.Description)
		if t.Deadline != "" {
			msg += fmt.Sprintf(" (due %s)", t.Deadline)
		}
		return msg
	})
}

// listCommand lists tasks matching filters.
func (a *app) listCommand(args []string) error {
	fs := a.flagSet("list")
	var opts service.ListOptions
	fs.StringVar(&opts.Status, "status", "", "Filter by status (todo, in_progress, blocked, done)")
	fs.StringVar(&opts.Project, "project", "", "Filter by project ID or code")
	fs.StringVar(&opts.Project, "p", "", "Filter by project (shorthand)")
	fs.StringVar(&opts.TaskType, "type", "", "Filter by task type")
	fs.StringVar(&opts.Priority, "priority", "", "Filter by priority")
	fs.StringVar(&opts.EmployerClient, "client", "", "Filter by employer or client")
	fs.StringVar(&opts.DeadlineBefore, "before", "", "Deadline on or before date")
	fs.StringVar(&opts.DeadlineAfter, "after", "", "Deadline on or after date")
	anyTags := fs.String("tags", "", "Comma-separated tags, any must match")
	allTags := fs.String("all-tags", "", "Comma-separated tags, all must match")
	fs.BoolVar(&opts.Overdue, "overdue", false, "Only overdue tasks")
	fs.BoolVar(&opts.DueToday, "today", false, "Only tasks due today")
	fs.BoolVar(&opts.DueThisWeek, "week", false, "Only tasks due this week")
	fs.IntVar(&opts.DueNext, "due-next", 0, "Only tasks due in the next N days")
	fs.BoolVar(&opts.ScheduledToday, "scheduled", false, "Only tasks recurring today")
	fs.StringVar(&opts.Sort, "sort", "", "Sort key ("+sortKeysUsage()+")")
	detailed := fs.Bool("detailed", false, "Show full task details")
	group := fs.String("group", "", "Group text output by project or status")
	outFormat := formatFlag(fs)

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	// "task ls todo" is shorthand for -status todo.
	if len(positional) == 1 && opts.Status == "" {
		opts.Status = positional[0]
	} else if len(positional) > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", task.ErrValidation, positional)
	}
	opts.Tags = query.SplitTags(*anyTags)
	opts.AllTags = query.SplitTags(*allTags)

	var groupBy func([]task.Task) query.Groups
	switch strings.ToLower(*group) {
	case "":
	case "project":
		groupBy = query.GroupByProject
	case "status":
		groupBy = query.GroupByStatus
	default:
		return fmt.Errorf("%w: invalid group %q, must be project or status", task.ErrValidation, *group)
	}

	tasks, err := a.svc.List(opts)
	if err != nil {
		return err
	}
	return a.write(*outFormat, format.NewTaskList(tasks), func() string {
		switch {
		case *detailed:
			return a.details(tasks)
		case groupBy != nil:
			labels := make(map[string]string)
			for id, p := range a.svc.Projects() {
				labels[id] = p.Name
			}
			return format.TaskGroups(groupBy(tasks), labels, a.svc.ProjectCodes(), a.today(), a.styles)
		}
		return format.TaskTable(tasks, a.svc.ProjectCodes(), a.today(), a.styles)
	})
}

func (a *app) details(tasks []task.Task) string {
	if len(tasks) == 0 {
		return "No tasks found."
	}
	store := a.svc.Store()
	parts := make([]string, len(tasks))
	for i := range tasks {
		parts[i] = format.TaskDetail(&tasks[i], store.ProjectName(tasks[i].Project), a.today(), a.styles)
	}
	return strings.Join(parts, "\n\n")
}

// showCommand prints one task.
func (a *app) showCommand(args []string) error {
	fs := a.flagSet("show")
	outFormat := formatFlag(fs)
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs(positional, 1, "show <id>"); err != nil {
		return err
	}
	id, err := parseID(positional[0])
	if err != nil {
		return err
	}
	t, err := a.svc.Show(id)
	if err != nil {
		return err
	}
	return a.write(*outFormat, t, func() string {
		return a.details([]task.Task{t})
	})
}

// updateCommand changes only the fields whose flags were given.
func (a *app) updateCommand(args []string) error {
	fs := a.flagSet("update")
	description := fs.String("description", "", "New description")
	status := fs.String("status", "", "New status")
	priority := fs.String("priority", "", "New priority")
	deadline := fs.String("deadline", "", "New deadline (empty clears it)")
	fs.StringVar(deadline, "d", "", "New deadline (shorthand)")
	notes := fs.String("notes", "", "Replace notes")
	taskType := fs.String("type", "", "New task type")
	client := fs.String("client", "", "New employer or client")
	estimate := hoursFlag(fs, "estimate", "New estimated hours")
	tags := fs.String("tags", "", "Replace tags (comma-separated)")
	project := fs.String("project", "", "Move to project ID or code")
	recurrence := fs.String("recurrence", "", "New recurrence")
	days := fs.String("days", "", "New custom recurrence days")
	timeOfDay := fs.String("time", "", "New scheduled time (HH:MM, empty clears it)")

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs(positional, 1, "update <id> [flags]"); err != nil {
		return err
	}
	id, err := parseID(positional[0])
	if err != nil {
		return err
	}

	var in service.UpdateInput
	var visitErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "description":
			in.Description = description
		case "status":
			in.Status = status
		case "priority":
			in.Priority = priority
		case "deadline", "d":
			in.Deadline = deadline
		case "notes":
			in.Notes = notes
		case "type":
			in.TaskType = taskType
		case "client":
			in.EmployerClient = client
		case "estimate":
			in.TimeEstimate = *estimate
		case "tags":
			t := query.SplitTags(*tags)
			in.Tags = &t
		case "project":
			in.Project = project
		case "recurrence":
			in.Recurrence = recurrence
		case "days":
			d, err := parseDays(*days)
			if err != nil {
				visitErr = err
				return
			}
			in.RecurrenceDays = &d
		case "time":
			in.TimeOfDay = timeOfDay
		}
	})
	if visitErr != nil {
		return visitErr
	}

	change, err := a.svc.Update(id, in)
	if err != nil {
		return err
	}
	a.printChange("Updated", change)
	return nil
}

// statusCommand runs a single-ID status transition.
func (a *app) statusCommand(name, verb string, fn func(int) (service.Change, error), args []string) error {
	fs := a.flagSet(name)
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs(positional, 1, name+" <id>"); err != nil {
		return err
	}
	id, err := parseID(positional[0])
	if err != nil {
		return err
	}
	change, err := fn(id)
	if err != nil {
		return err
	}
	a.printChange(verb, change)
	return nil
}

// completeCommand marks a task done with optional completion notes.
func (a *app) completeCommand(args []string) error {
	fs := a.flagSet("complete")
	notes := fs.String("notes", "", "Completion notes")
	fs.StringVar(notes, "n", "", "Completion notes (shorthand)")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs(positional, 1, "complete <id> [-notes text]"); err != nil {
		return err
	}
	id, err := parseID(positional[0])
	if err != nil {
		return err
	}
	change, err := a.svc.Complete(id, *notes)
	if err != nil {
		return err
	}
	a.printChange("Completed", change)
	return nil
}

// deleteCommand removes a task. Without -confirm it only reports what
// would be deleted.
func (a *app) deleteCommand(args []string) error {
	fs := a.flagSet("delete")
	confirm := fs.Bool("confirm", false, "Confirm deletion")
	fs.BoolVar(confirm, "y", false, "Confirm deletion (shorthand)")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs(positional, 1, "delete <id> -confirm"); err != nil {
		return err
	}
	id, err := parseID(positional[0])
	if err != nil {
		return err
	}
	if !*confirm {
		t, err := a.svc.Show(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Would delete task #%d: %s\n", t.ID, t.Description)
	}
	change, err := a.svc.Delete(id, *confirm)
	if err != nil {
		return err
	}
	a.printChange("Deleted", change)
	return nil
}

// logTimeCommand records hours against a task.
func (a *app) logTimeCommand(args []string) error {
	fs := a.flagSet("log-time")
	description := fs.String("description", "", "What the time was spent on")
	fs.StringVar(description, "m", "", "Description (shorthand)")
	date := fs.String("date", "", "Date worked (default today)")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs(positional, 2, "log-time <id> <hours> [-description text] [-date date]"); err != nil {
		return err
	}
	id, err := parseID(positional[0])
	if err != nil {
		return err
	}
	hours, err := strconv.ParseFloat(positional[1], 64)
	if err != nil {
		return fmt.Errorf("%w: invalid hours %q", task.ErrValidation, positional[1])
	}

	t, err := a.svc.LogTime(id, hours, *description, *date)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged %sh on task #%d: %s (total %s)\n",
		strconv.FormatFloat(hours, 'f', -1, 64), t.ID, t.Description, format.Hours(t.TimeSpentHours))
	return nil
}

// searchCommand finds tasks by text.
func (a *app) searchCommand(args []string) error {
	fs := a.flagSet("search")
	field := fs.String("field", "", "Limit search to description, notes, tags or client")
	outFormat := formatFlag(fs)
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	text := strings.Join(positional, " ")
	tasks, err := a.svc.Search(text, *field)
	if err != nil {
		return err
	}
	return a.write(*outFormat, format.NewTaskList(tasks), func() string {
		return format.TaskTable(tasks, a.svc.ProjectCodes(), a.today(), a.styles)
	})
}
