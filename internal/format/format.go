// Package format renders tasks, projects and reports as terminal text,
// JSON or YAML, and time reports as PDF.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/task-manager/internal/task"
)

// Kind is an output format.
type Kind string

const (
	Text Kind = "text"
	JSON Kind = "json"
	YAML Kind = "yaml"
)

// ParseKind validates a --format value. Empty means text.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return Text, nil
	case Text, JSON, YAML:
		return k, nil
	}
	return "", fmt.Errorf("%w: invalid format %q, must be text, json or yaml", task.ErrValidation, s)
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// WriteYAML writes v as a YAML document.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Write renders v in the requested format. Text output comes from text,
// which is only called for Text.
func Write(w io.Writer, kind Kind, v any, text func() string) error {
	switch kind {
	case JSON:
		return WriteJSON(w, v)
	case YAML:
		return WriteYAML(w, v)
	}
	out := text()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err := io.WriteString(w, out)
	return err
}

// TaskList is the machine-readable shape of a task listing. It matches the
// bucket file so listings can be fed back to other tools.
type TaskList struct {
	Tasks []task.Task `json:"tasks" yaml:"tasks"`
	Count int         `json:"count" yaml:"count"`
}

// NewTaskList wraps tasks, never returning a nil slice.
func NewTaskList(tasks []task.Task) TaskList {
	if tasks == nil {
		tasks = []task.Task{}
	}
	return TaskList{Tasks: tasks, Count: len(tasks)}
}
