package format

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/task-manager/internal/task"
)

// Styles colors terminal output. The zero value renders plain text.
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Label   lipgloss.Style
	Dim     lipgloss.Style
	Overdue lipgloss.Style

	color    bool
	status   map[task.Status]lipgloss.Style
	priority map[task.Priority]lipgloss.Style
}

// NewStyles returns the palette, or plain styles when color is false.
func NewStyles(color bool) Styles {
	if !color {
		return Styles{}
	}
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return Styles{
		color:   true,
		Title:   lipgloss.NewStyle().Bold(true),
		Header:  lipgloss.NewStyle().Bold(true).Underline(true),
		Label:   fg("6"),
		Dim:     fg("8"),
		Overdue: fg("1").Bold(true),
		status: map[task.Status]lipgloss.Style{
			task.StatusDone:       fg("2"),
			task.StatusInProgress: fg("3"),
			task.StatusTodo:       fg("4"),
			task.StatusBlocked:    fg("1"),
		},
		priority: map[task.Priority]lipgloss.Style{
			task.PriorityHigh:   fg("1"),
			task.PriorityMedium: fg("3"),
			task.PriorityLow:    fg("4"),
		},
	}
}

// Render applies style unless color is off.
func (s Styles) Render(style lipgloss.Style, text string) string {
	if !s.color || text == "" {
		return text
	}
	return style.Render(text)
}

// Status renders a status in its color.
func (s Styles) Status(st task.Status) string {
	return s.Render(s.status[st], string(st))
}

// Priority renders the one-letter priority abbreviation.
func (s Styles) Priority(p task.Priority) string {
	if p == "" {
		return "-"
	}
	return s.Render(s.priority[p], strings.ToUpper(string(p)[:1]))
}
