// Package logging records task operations to a log file and surfaces
// warnings on the console, using charmbracelet/log.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger is the logging collaborator handed to storage and service code.
type Logger interface {
	// Operation records a completed mutation, e.g. ("add_task", "id=3").
	Operation(op, details string)
	// Failure records a failed operation.
	Failure(op string, err error)
	Warn(msg string, keyvals ...any)
	Debug(msg string, keyvals ...any)
}

// Options holds configuration for the operation log.
type Options struct {
	// Path of the log file. Empty disables file logging.
	Path            string
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	// Console receives warnings and errors. Defaults to os.Stderr.
	Console io.Writer
	Prefix  string
}

// DefaultOptions returns default options for the operation log.
func DefaultOptions() Options {
	return Options{
		Level:           log.InfoLevel,
		Formatter:       log.TextFormatter,
		ReportTimestamp: true,
		Prefix:          "task",
	}
}

// Log writes to a file logger and a warn-level console logger.
type Log struct {
	file    *log.Logger
	console *log.Logger
	closer  io.Closer
}

// New opens the log file, creating its directory, and returns a Log.
func New(opts Options) (*Log, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	l := &Log{
		console: log.NewWithOptions(console, log.Options{
			Level:     log.WarnLevel,
			Formatter: log.TextFormatter,
			Prefix:    opts.Prefix,
		}),
	}

	if opts.Path == "" {
		return l, nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.closer = f
	l.file = log.NewWithOptions(f, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
	return l, nil
}

// NewFromConfig creates a Log from string configuration values.
func NewFromConfig(path, level, format string, timestamps bool) (*Log, error) {
	opts := DefaultOptions()
	opts.Path = path
	opts.Level = ParseLevel(level)
	opts.Formatter = ParseFormatter(format)
	opts.ReportTimestamp = timestamps
	return New(opts)
}

// NewWriter returns a Log that writes every level to w without timestamps.
// Console output is discarded.
func NewWriter(w io.Writer) *Log {
	return &Log{
		file: log.NewWithOptions(w, log.Options{
			Level:     log.DebugLevel,
			Formatter: log.TextFormatter,
		}),
		console: log.NewWithOptions(io.Discard, log.Options{}),
	}
}

// Close closes the log file.
func (l *Log) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *Log) Operation(op, details string) {
	if l.file != nil {
		l.file.Info(op, "details", details)
	}
}

func (l *Log) Failure(op string, err error) {
	if l.file != nil {
		l.file.Error(op, "err", err)
	}
	l.console.Error(op, "err", err)
}

func (l *Log) Warn(msg string, keyvals ...any) {
	if l.file != nil {
		l.file.Warn(msg, keyvals...)
	}
	l.console.Warn(msg, keyvals...)
}

func (l *Log) Debug(msg string, keyvals ...any) {
	if l.file != nil {
		l.file.Debug(msg, keyvals...)
	}
}

type nop struct{}

func (nop) Operation(string, string) {}
func (nop) Failure(string, error)    {}
func (nop) Warn(string, ...any)      {}
func (nop) Debug(string, ...any)     {}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nop{}
}

// ParseLevel parses a string log level to a charmbracelet/log Level.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter parses a string formatter name to a charmbracelet/log Formatter.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
