// Package dateparse turns user-supplied deadlines such as "tomorrow",
// "next friday" or "in 3 days" into YYYY-MM-DD dates.
package dateparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nibzard/task-manager/internal/task"
)

// Parser resolves relative dates against its clock.
type Parser struct {
	Now func() time.Time
}

// New returns a Parser using the wall clock.
func New() *Parser {
	return &Parser{Now: time.Now}
}

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

var (
	weekdayRe  = regexp.MustCompile(`^(?:next\s+)?(monday|tuesday|wednesday|thursday|friday|saturday|sunday)$`)
	inRe       = regexp.MustCompile(`^in\s+(\d+)\s+(day|week|month)s?$`)
	fromNowRe  = regexp.MustCompile(`^(\d+)\s+(day|week)s?(?:\s+from\s+now)?$`)
	nextUnitRe = regexp.MustCompile(`^next\s+(week|month)$`)
)

// Parse returns the canonical date for s, or false when s is not a date
// the parser understands. Matching ignores case and surrounding space.
func (p *Parser) Parse(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	if t, err := time.Parse(task.DateLayout, s); err == nil {
		return task.FormatDate(t), true
	}

	now := p.now()
	switch s {
	case "today":
		return task.FormatDate(now), true
	case "tomorrow":
		return task.FormatDate(now.AddDate(0, 0, 1)), true
	}

	if m := weekdayRe.FindStringSubmatch(s); m != nil {
		return task.FormatDate(nextWeekday(now, weekdays[m[1]])), true
	}
	if m := inRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return "", false
		}
		return task.FormatDate(addUnits(now, n, m[2])), true
	}
	if m := fromNowRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return "", false
		}
		return task.FormatDate(addUnits(now, n, m[2])), true
	}
	if m := nextUnitRe.FindStringSubmatch(s); m != nil {
		return task.FormatDate(addUnits(now, 1, m[1])), true
	}
	return "", false
}

// ParseOrError is Parse with an error that suggests accepted forms.
func (p *Parser) ParseOrError(s string) (string, error) {
	if d, ok := p.Parse(s); ok {
		return d, nil
	}
	return "", fmt.Errorf("%w: could not parse date %q; use YYYY-MM-DD or natural language like 'tomorrow', 'next friday', 'in 3 days'",
		task.ErrValidation, s)
}

func (p *Parser) now() time.Time {
	if p == nil || p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// nextWeekday returns the next occurrence of wd after now. When today is
// wd the result is a week out.
func nextWeekday(now time.Time, wd time.Weekday) time.Time {
	ahead := (int(wd) - int(now.Weekday()) + 7) % 7
	if ahead == 0 {
		ahead = 7
	}
	return now.AddDate(0, 0, ahead)
}

// addUnits adds n days, weeks or 30-day months.
func addUnits(now time.Time, n int, unit string) time.Time {
	switch unit {
	case "week":
		return now.AddDate(0, 0, 7*n)
	case "month":
		return now.AddDate(0, 0, 30*n)
	}
	return now.AddDate(0, 0, n)
}
