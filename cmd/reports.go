package cmd

import (
	"fmt"

	"github.com/nibzard/task-manager/internal/format"
	"github.com/nibzard/task-manager/internal/service"
	"github.com/nibzard/task-manager/internal/task"
)

// statsCommand prints counts by status and time totals.
func (a *app) statsCommand(args []string) error {
	fs := a.flagSet("stats")
	outFormat := formatFlag(fs)
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs(positional, 0, "stats"); err != nil {
		return err
	}
	stats, err := a.svc.Stats()
	if err != nil {
		return err
	}
	return a.write(*outFormat, stats, func() string {
		return format.Stats(stats, a.styles)
	})
}

// timeReportCommand summarizes logged hours, optionally as a PDF.
func (a *app) timeReportCommand(args []string) error {
	fs := a.flagSet("time-report")
	var opts service.ReportOptions
	fs.StringVar(&opts.Project, "project", "", "Only this project ID or code")
	fs.StringVar(&opts.Client, "client", "", "Only this employer or client")
	fs.StringVar(&opts.Start, "start", "", "First day to include")
	fs.StringVar(&opts.End, "end", "", "Last day to include")
	fs.StringVar(&opts.GroupBy, "group-by", "project", "Group by project or client")
	pdfPath := fs.String("pdf", "", "Also write the report as a PDF to this path")
	outFormat := formatFlag(fs)

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", task.ErrValidation, positional)
	}

	report, err := a.svc.TimeReport(opts)
	if err != nil {
		return err
	}
	if err := a.write(*outFormat, report, func() string {
		return format.TimeReport(report, a.styles)
	}); err != nil {
		return err
	}
	if *pdfPath != "" {
		if err := format.WriteTimeReportPDF(*pdfPath, report); err != nil {
			return err
		}
		fmt.Fprintf(a.errOut, "Wrote %s\n", *pdfPath)
	}
	return nil
}
