package dateparse

import (
	"errors"
	"testing"
	"time"

	"github.com/nibzard/task-manager/internal/task"
)

func fixedParser() *Parser {
	// Wednesday.
	now := time.Date(2026, 1, 7, 15, 30, 0, 0, time.UTC)
	return &Parser{Now: func() time.Time { return now }}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2026-02-14", "2026-02-14"},
		{"  Today ", "2026-01-07"},
		{"tomorrow", "2026-01-08"},
		{"friday", "2026-01-09"},
		{"next friday", "2026-01-09"},
		{"Monday", "2026-01-12"},
		{"wednesday", "2026-01-14"},
		{"next  wednesday", "2026-01-14"},
		{"in 3 days", "2026-01-10"},
		{"in 1 day", "2026-01-08"},
		{"in 2 weeks", "2026-01-21"},
		{"in 1 month", "2026-02-06"},
		{"5 days", "2026-01-12"},
		{"2 weeks from now", "2026-01-21"},
		{"1 day from now", "2026-01-08"},
		{"next week", "2026-01-14"},
		{"next month", "2026-02-06"},
	}

	p := fixedParser()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := p.Parse(tt.input)
			if !ok {
				t.Fatalf("Parse(%q) failed", tt.input)
			}
			if got != tt.want {
				t.Errorf("Parse(%q): got %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	p := fixedParser()
	for _, input := range []string{"", "someday", "2026-13-01", "2026-02-30", "in days", "next year", "3 months"} {
		if got, ok := p.Parse(input); ok {
			t.Errorf("Parse(%q) = %s, want failure", input, got)
		}
	}
}

func TestParseOrError(t *testing.T) {
	p := fixedParser()
	if _, err := p.ParseOrError("whenever"); !errors.Is(err, task.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	got, err := p.ParseOrError("tomorrow")
	if err != nil || got != "2026-01-08" {
		t.Errorf("ParseOrError(tomorrow) = %q, %v", got, err)
	}
}

func TestZeroParserUsesWallClock(t *testing.T) {
	var p Parser
	got, ok := p.Parse("today")
	if !ok || got != task.FormatDate(time.Now()) {
		t.Errorf("Parse(today) with zero Parser = %q, %v", got, ok)
	}
}
