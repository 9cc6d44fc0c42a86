// Package cmd implements the CLI command structure for task.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nibzard/task-manager/internal/config"
	"github.com/nibzard/task-manager/internal/format"
	"github.com/nibzard/task-manager/internal/logging"
	"github.com/nibzard/task-manager/internal/mdsync"
	"github.com/nibzard/task-manager/internal/query"
	"github.com/nibzard/task-manager/internal/service"
	"github.com/nibzard/task-manager/internal/storage"
	"github.com/nibzard/task-manager/internal/task"
	"github.com/nibzard/task-manager/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries what every command needs.
type app struct {
	cfg     *config.Config
	sources *config.ConfigWithSources
	log     *logging.Log
	svc     *service.Service
	styles  format.Styles
	out     io.Writer
	errOut  io.Writer
}

// Run executes the task CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, out, errOut io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("task", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		printUsage(fs, errOut)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, out)
		return nil
	}
	if *showVersion {
		return versionCommand(out)
	}

	// No subcommand opens the terminal UI.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "version":
		return versionCommand(out)
	case "help":
		printUsage(fs, out)
		return nil
	}

	a, err := newApp(cws, out, errOut)
	if err != nil {
		return err
	}
	defer a.log.Close()

	err = a.dispatch(ctx, subcommand, remainingArgs)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if errors.Is(err, errUnknownCommand) {
		printUsage(fs, errOut)
	}
	return err
}

var errUnknownCommand = errors.New("unknown command")

func (a *app) dispatch(ctx context.Context, subcommand string, args []string) error {
	switch subcommand {
	case "add":
		return a.addCommand(args)
	case "list", "ls":
		return a.listCommand(args)
	case "show":
		return a.showCommand(args)
	case "update":
		return a.updateCommand(args)
	case "start":
		return a.statusCommand("start", "Started", a.svc.Start, args)
	case "block":
		return a.statusCommand("block", "Blocked", a.svc.Block, args)
	case "reopen":
		return a.statusCommand("reopen", "Reopened", a.svc.Reopen, args)
	case "complete", "done":
		return a.completeCommand(args)
	case "delete", "rm":
		return a.deleteCommand(args)
	case "log-time":
		return a.logTimeCommand(args)
	case "search":
		return a.searchCommand(args)
	case "stats":
		return a.statsCommand(args)
	case "time-report":
		return a.timeReportCommand(args)
	case "add-project":
		return a.addProjectCommand(args)
	case "projects":
		return a.projectsCommand(args)
	case "project-status":
		return a.projectStatusCommand(args)
	case "backups":
		return a.backupsCommand(args)
	case "restore":
		return a.restoreCommand(args)
	case "validate", "doctor":
		return a.validateCommand(args)
	case "config":
		return a.configCommand(args)
	case "logs":
		return a.logsCommand(ctx, args)
	case "tui":
		return a.tuiCommand(ctx, args)
	}
	fmt.Fprintf(a.errOut, "Unknown command: %s\n", subcommand)
	return fmt.Errorf("%w: %s", errUnknownCommand, subcommand)
}

// newApp wires logging, storage, markdown sync and the service from cfg.
func newApp(cws *config.ConfigWithSources, out, errOut io.Writer) (*app, error) {
	cfg := cws.Config
	logOpts := logging.DefaultOptions()
	logOpts.Path = cfg.LogPath
	logOpts.Level = logging.ParseLevel(cfg.LogLevel)
	logOpts.Formatter = logging.ParseFormatter(cfg.LogFormat)
	logOpts.ReportTimestamp = cfg.LogTimestamps
	logOpts.Console = errOut
	logger, err := logging.New(logOpts)
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}

	store, err := storage.New(storage.Options{
		BucketPath:    cfg.TaskBucketPath,
		ProjectsPath:  cfg.ProjectsPath,
		BackupDir:     cfg.BackupDir,
		BackupEnabled: cfg.BackupEnabled,
		BackupKeep:    cfg.BackupKeep,
	}, logger)
	if err != nil {
		logger.Close()
		return nil, err
	}

	opts := service.Options{
		DefaultTaskType: task.TaskType(cfg.DefaultTaskType),
		DefaultPriority: task.Priority(cfg.DefaultPriority),
	}
	if cfg.MarkdownSync {
		opts.Syncer = mdsync.New(store, cfg.MarkdownFile, logger)
	}

	return &app{
		cfg:     cfg,
		sources: cws,
		log:     logger,
		svc:     service.New(store, logger, opts),
		styles:  format.NewStyles(cfg.ColorEnabled && ui.IsTTY(out)),
		out:     out,
		errOut:  errOut,
	}, nil
}

// flagSet returns a subcommand flag set that reports errors on stderr.
func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("task "+name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// formatFlag registers the shared -format flag.
func formatFlag(fs *flag.FlagSet) *string {
	return fs.String("format", "text", "Output format (text, json, yaml)")
}

// parseArgs parses flags that may appear before, between or after
// positional arguments and returns the positionals in order.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// exactArgs checks the positional count for a command.
func exactArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return fmt.Errorf("%w: usage: task %s", task.ErrValidation, usage)
	}
	return nil
}

// parseID parses a task ID argument.
func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid task ID %q", task.ErrValidation, s)
	}
	return id, nil
}

// parseDays parses recurrence days given as numbers (0=Monday) or
// weekday names, separated by commas.
func parseDays(s string) ([]int, error) {
	var days []int
	for _, part := range splitAndTrim(s, ",") {
		if n, err := strconv.Atoi(part); err == nil {
			days = append(days, n)
			continue
		}
		d, ok := weekdayIndex[strings.ToLower(part)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown recurrence day %q", task.ErrValidation, part)
		}
		days = append(days, d)
	}
	return days, nil
}

var weekdayIndex = map[string]int{
	"mon": 0, "monday": 0,
	"tue": 1, "tuesday": 1,
	"wed": 2, "wednesday": 2,
	"thu": 3, "thursday": 3,
	"fri": 4, "friday": 4,
	"sat": 5, "saturday": 5,
	"sun": 6, "sunday": 6,
}

// splitAndTrim splits a string and drops empty parts.
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// hoursFlag registers an optional non-negative float flag.
func hoursFlag(fs *flag.FlagSet, name, usage string) **float64 {
	var v *float64
	fs.Func(name, usage, func(s string) error {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		v = &f
		return nil
	})
	return &v
}

// write renders v in the requested format, falling back to text().
func (a *app) write(kind string, v any, text func() string) error {
	k, err := format.ParseKind(kind)
	if err != nil {
		return err
	}
	return format.Write(a.out, k, v, text)
}

// printChange reports a task mutation and any markdown sync outcome.
func (a *app) printChange(verb string, c service.Change) {
	fmt.Fprintf(a.out, "%s task #%d: %s\n", verb, c.Task.ID, c.Task.Description)
	if c.Markdown != "" {
		fmt.Fprintf(a.out, "  %s\n", c.Markdown)
	}
}

func (a *app) today() string {
	return a.svc.Today()
}

// sortKeysUsage lists the valid -sort values.
func sortKeysUsage() string {
	keys := make([]string, len(query.SortKeys))
	for i, k := range query.SortKeys {
		keys[i] = string(k)
	}
	return strings.Join(keys, ", ")
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "task version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Task Manager - personal task tracking with projects and time logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  task [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <description>       Add a task (-project required)")
	fmt.Fprintln(w, "  list, ls                List tasks with filters and sorting")
	fmt.Fprintln(w, "  show <id>               Show task details")
	fmt.Fprintln(w, "  update <id>             Update task fields")
	fmt.Fprintln(w, "  start <id>              Mark a task IN_PROGRESS")
	fmt.Fprintln(w, "  block <id>              Mark a task BLOCKED")
	fmt.Fprintln(w, "  reopen <id>             Move a task back to TODO")
	fmt.Fprintln(w, "  complete <id>           Mark a task DONE")
	fmt.Fprintln(w, "  delete <id> -confirm    Delete a task")
	fmt.Fprintln(w, "  log-time <id> <hours>   Log time spent on a task")
	fmt.Fprintln(w, "  search <text>           Search descriptions, notes, tags and clients")
	fmt.Fprintln(w, "  stats                   Show task statistics")
	fmt.Fprintln(w, "  time-report             Summarize logged time by project or client")
	fmt.Fprintln(w, "  add-project <name>      Register a project (-code required)")
	fmt.Fprintln(w, "  projects                List projects")
	fmt.Fprintln(w, "  project-status <p> <s>  Set a project status (active, paused, completed)")
	fmt.Fprintln(w, "  backups                 List bucket backups")
	fmt.Fprintln(w, "  restore <name>          Restore the bucket from a backup")
	fmt.Fprintln(w, "  validate                Check the data files against their schemas")
	fmt.Fprintln(w, "  config                  Show resolved configuration")
	fmt.Fprintln(w, "  logs                    Show the operation log")
	fmt.Fprintln(w, "  tui                     Launch terminal UI (default command)")
	fmt.Fprintln(w, "  version                 Show version information")
	fmt.Fprintln(w, "  help                    Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'task <command> -h' for command options.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
