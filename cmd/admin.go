package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/nibzard/task-manager/internal/config"
	"github.com/nibzard/task-manager/internal/format"
	"github.com/nibzard/task-manager/internal/logging"
	"github.com/nibzard/task-manager/internal/task"
	"github.com/nibzard/task-manager/internal/ui"
)

// backupsCommand lists bucket backups, newest first.
func (a *app) backupsCommand(args []string) error {
	flags := a.flagSet("backups")
	outFormat := formatFlag(flags)
	positional, err := parseArgs(flags, args)
	if err != nil {
		return err
	}
	if err := exactArgs(positional, 0, "backups"); err != nil {
		return err
	}
	backups, err := a.svc.Backups()
	if err != nil {
		return err
	}
	return a.write(*outFormat, backups, func() string {
		return format.Backups(backups, a.styles)
	})
}

// restoreCommand replaces the bucket with a named backup.
func (a *app) restoreCommand(args []string) error {
	flags := a.flagSet("restore")
	positional, err := parseArgs(flags, args)
	if err != nil {
		return err
	}
	if err := exactArgs(positional, 1, "restore <backup name>"); err != nil {
		return err
	}
	b, err := a.svc.Restore(positional[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Restored %s (%d tasks)\n", positional[0], len(b.Tasks))
	return nil
}

// validateCommand checks the data files, doctor style.
func (a *app) validateCommand(args []string) error {
	flags := a.flagSet("validate")
	positional, err := parseArgs(flags, args)
	if err != nil {
		return err
	}
	if err := exactArgs(positional, 0, "validate"); err != nil {
		return err
	}

	store := a.svc.Store()
	fmt.Fprintln(a.out, "Task Manager Validate")
	fmt.Fprintln(a.out, "=====================")
	fmt.Fprintln(a.out)

	allOK := true
	check := func(label, path string, validate func() (*task.ValidationResult, error)) {
		fmt.Fprintf(a.out, "%s: %s\n", label, path)
		result, err := validate()
		switch {
		case errors.Is(err, fs.ErrNotExist):
			fmt.Fprintln(a.out, "  ⚠️  Not found (created on first save)")
		case err != nil:
			fmt.Fprintf(a.out, "  ❌ Error: %v\n", err)
			allOK = false
		default:
			fmt.Fprintf(a.out, "  %s\n", strings.ReplaceAll(format.Validation(path, result, a.styles), "\n", "\n  "))
			if !result.Valid {
				allOK = false
			}
		}
		fmt.Fprintln(a.out)
	}
	check("Bucket", store.BucketPath(), store.ValidateBucketFile)
	check("Projects", store.ProjectsPath(), store.ValidateProjectsFile)

	fmt.Fprintf(a.out, "Backups: %s\n", store.BackupDir())
	if !a.cfg.BackupEnabled {
		fmt.Fprintln(a.out, "  ⚠️  Backups are disabled")
	} else if backups, err := store.ListBackups(); err != nil {
		fmt.Fprintf(a.out, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintf(a.out, "  ✅ %d of %d kept\n", len(backups), a.cfg.BackupKeep)
	}
	fmt.Fprintln(a.out)

	if allOK {
		fmt.Fprintln(a.out, "✅ All checks passed.")
		return nil
	}
	fmt.Fprintln(a.out, "⚠️  Some checks failed.")
	return fmt.Errorf("%w: validation checks failed", task.ErrValidation)
}

// configCommand prints resolved settings and where each came from.
func (a *app) configCommand(args []string) error {
	flags := a.flagSet("config")
	example := flags.Bool("example", false, "Print an example config file")
	positional, err := parseArgs(flags, args)
	if err != nil {
		return err
	}
	if err := exactArgs(positional, 0, "config [-example]"); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(a.out, config.ExampleConfig())
		return nil
	}
	fmt.Fprintln(a.out, format.Settings(a.sources.Settings(), a.sources.Files))
	return nil
}

// logsCommand prints the operation log.
func (a *app) logsCommand(ctx context.Context, args []string) error {
	flags := a.flagSet("logs")
	follow := flags.Bool("f", false, "Follow the log (like tail -f)")
	flags.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := flags.Int("n", 20, "Number of lines to show (0 = all)")
	positional, err := parseArgs(flags, args)
	if err != nil {
		return err
	}
	if err := exactArgs(positional, 0, "logs [-f] [-n lines]"); err != nil {
		return err
	}

	if a.cfg.LogPath == "" {
		fmt.Fprintln(a.out, "Operation log is disabled (log_path is empty).")
		return nil
	}
	if *follow {
		fmt.Fprintf(a.errOut, "Tailing: %s (Ctrl+C to stop)\n", a.cfg.LogPath)
	}
	return logging.Tail(ctx, a.out, a.cfg.LogPath, *n, *follow)
}

// tuiCommand launches the terminal UI.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	flags := a.flagSet("tui")
	refresh := flags.Duration("refresh", 5*time.Second, "Reload interval (0 disables)")
	positional, err := parseArgs(flags, args)
	if err != nil {
		return err
	}
	if err := exactArgs(positional, 0, "tui [-refresh interval]"); err != nil {
		return err
	}
	return ui.RunTUI(ctx, a.svc, ui.WithColor(a.cfg.ColorEnabled), ui.WithRefresh(*refresh))
}
