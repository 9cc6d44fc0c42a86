package mdsync

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nibzard/task-manager/internal/task"
)

// Section headings maintained in the markdown file.
const (
	UpcomingSection  = "### Upcoming Tasks"
	CompletedSection = "### Recent Completions"
)

// Marker returns the HTML comment that tags a task entry.
func Marker(id int) string {
	return fmt.Sprintf("<!-- task-id: %d -->", id)
}

// UpcomingEntry formats an active task.
func UpcomingEntry(t *task.Task) string {
	due := ""
	if t.Deadline != "" {
		due = fmt.Sprintf(" (Due: %s)", t.Deadline)
	}
	return fmt.Sprintf("%s\n- **#%d**: %s%s", Marker(t.ID), t.ID, t.Description, due)
}

// CompletedEntry formats a finished task.
func CompletedEntry(t *task.Task) string {
	when := t.Completed
	if when == "" {
		when = string(t.Status)
	}
	return fmt.Sprintf("%s\n- **#%d** ✓: %s (Completed: %s)", Marker(t.ID), t.ID, t.Description, when)
}

// section locates a heading and the body that runs to the next heading.
type section struct {
	start, bodyStart, bodyEnd int
	next                      bool
}

// indexHeading finds heading as a whole line.
func indexHeading(content, heading string) int {
	for from := 0; ; {
		i := strings.Index(content[from:], heading)
		if i < 0 {
			return -1
		}
		i += from
		after := i + len(heading)
		if (i == 0 || content[i-1] == '\n') && (after == len(content) || content[after] == '\n') {
			return i
		}
		from = after
	}
}

func findSection(content, heading string) (section, bool) {
	start := indexHeading(content, heading)
	if start < 0 {
		return section{}, false
	}
	sec := section{start: start, bodyStart: start + len(heading), bodyEnd: len(content)}
	if sec.bodyStart < len(content) {
		sec.bodyStart++
	}
	for pos := sec.bodyStart; pos < len(content); {
		if content[pos] == '#' {
			sec.bodyEnd, sec.next = pos, true
			break
		}
		nl := strings.IndexByte(content[pos:], '\n')
		if nl < 0 {
			break
		}
		pos += nl + 1
	}
	return sec, true
}

// replaceBody swaps a section's body, leaving one blank line before the
// next heading.
func replaceBody(content, heading string, sec section, body string) string {
	body = strings.Trim(body, "\n")
	var b strings.Builder
	b.WriteString(content[:sec.start])
	b.WriteString(heading)
	b.WriteString("\n\n")
	if body != "" {
		b.WriteString(body)
		b.WriteString("\n")
		if sec.next {
			b.WriteString("\n")
		}
	}
	b.WriteString(content[sec.bodyEnd:])
	return b.String()
}

// EnsureSection appends heading when the content lacks it.
func EnsureSection(content, heading string) string {
	if indexHeading(content, heading) >= 0 {
		return content
	}
	switch {
	case content == "":
		return heading + "\n\n"
	case strings.HasSuffix(content, "\n"):
		return content + "\n" + heading + "\n\n"
	}
	return content + "\n\n" + heading + "\n\n"
}

// AddEntry appends entry to the body of heading, creating the section when
// needed.
func AddEntry(content, heading, entry string) string {
	content = EnsureSection(content, heading)
	sec, ok := findSection(content, heading)
	if !ok {
		return content
	}
	body := strings.TrimRight(content[sec.bodyStart:sec.bodyEnd], "\n")
	if body != "" {
		body += "\n"
	}
	return replaceBody(content, heading, sec, body+entry)
}

// RemoveEntry drops the entry marked with id from the body of heading. The
// entry is the marker line, the bullet after it and any indented
// continuation lines.
func RemoveEntry(content, heading string, id int) string {
	sec, ok := findSection(content, heading)
	if !ok {
		return content
	}
	marker := Marker(id)
	lines := strings.Split(content[sec.bodyStart:sec.bodyEnd], "\n")
	kept := make([]string, 0, len(lines))
	removed := false
	for i := 0; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != marker {
			kept = append(kept, lines[i])
			continue
		}
		removed = true
		if i+1 < len(lines) && strings.HasPrefix(lines[i+1], "-") {
			i++
			for i+1 < len(lines) && isContinuation(lines[i+1]) {
				i++
			}
		}
	}
	if !removed {
		return content
	}
	body := collapseBlankLines(strings.Join(kept, "\n"))
	return replaceBody(content, heading, sec, body)
}

// HasEntry reports whether the task marker appears anywhere in content.
func HasEntry(content string, id int) bool {
	return strings.Contains(content, Marker(id))
}

func isContinuation(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

func collapseBlankLines(s string) string {
	return blankRuns.ReplaceAllString(s, "\n\n")
}
