package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Bucket is the whole persisted task collection.
type Bucket struct {
	Tasks       []Task `json:"tasks" yaml:"tasks"`
	NextID      int    `json:"next_id" yaml:"next_id"`
	LastUpdated string `json:"last_updated,omitempty" yaml:"last_updated,omitempty"`
}

// NewBucket returns an empty bucket whose first ID is 1.
func NewBucket() *Bucket {
	return &Bucket{Tasks: []Task{}, NextID: 1}
}

// AllocateID returns the next task ID and advances the counter. IDs are
// never reused, even after deletion.
func (b *Bucket) AllocateID() int {
	if b.NextID < 1 {
		b.NextID = 1
	}
	id := b.NextID
	b.NextID++
	return id
}

// Add appends a task. A task without an ID gets one allocated.
func (b *Bucket) Add(t Task) *Task {
	if t.ID == 0 {
		t.ID = b.AllocateID()
	} else if t.ID >= b.NextID {
		b.NextID = t.ID + 1
	}
	t.normalize()
	b.Tasks = append(b.Tasks, t)
	return &b.Tasks[len(b.Tasks)-1]
}

// TaskByID returns a pointer into the bucket, or nil.
func (b *Bucket) TaskByID(id int) *Task {
	for i := range b.Tasks {
		if b.Tasks[i].ID == id {
			return &b.Tasks[i]
		}
	}
	return nil
}

// Remove deletes the task with id and reports whether it existed.
// The ID counter is left untouched.
func (b *Bucket) Remove(id int) bool {
	for i := range b.Tasks {
		if b.Tasks[i].ID == id {
			b.Tasks = append(b.Tasks[:i], b.Tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Stats summarizes the bucket as of today.
type Stats struct {
	Total          int     `json:"total" yaml:"total"`
	Pending        int     `json:"pending" yaml:"pending"`
	Active         int     `json:"active" yaml:"active"`
	Completed      int     `json:"completed" yaml:"completed"`
	Blocked        int     `json:"blocked" yaml:"blocked"`
	Overdue        int     `json:"overdue" yaml:"overdue"`
	EstimatedHours float64 `json:"estimated_hours" yaml:"estimated_hours"`
	SpentHours     float64 `json:"spent_hours" yaml:"spent_hours"`
}

// Stats counts tasks by status. Values are computed on every call.
func (b *Bucket) Stats(today string) Stats {
	s := Stats{Total: len(b.Tasks)}
	for i := range b.Tasks {
		t := &b.Tasks[i]
		switch t.Status {
		case StatusTodo:
			s.Pending++
		case StatusInProgress:
			s.Active++
		case StatusDone:
			s.Completed++
		case StatusBlocked:
			s.Blocked++
		}
		if t.IsOverdue(today) {
			s.Overdue++
		}
		if t.TimeEstimateHours != nil {
			s.EstimatedHours += *t.TimeEstimateHours
		}
		s.SpentHours += t.TimeSpentHours
	}
	return s
}

// Touch stamps last_updated.
func (b *Bucket) Touch(now time.Time) {
	b.LastUpdated = FormatTimestamp(now)
}

// DecodeBucket parses bucket JSON. Missing optional fields get their
// defaults and next_id is raised above the largest task ID so that a
// hand-edited file cannot cause collisions. Any field of the wrong JSON
// type makes the whole file ErrCorrupt. Enum values are not checked here.
func DecodeBucket(data []byte) (*Bucket, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty bucket file", ErrCorrupt)
	}
	var b Bucket
	if err := json.Unmarshal(data, &b); err != nil {
		// A mistyped field would be zeroed and written back on the next save.
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, fmt.Errorf("%w: field %q: cannot use %s as %s", ErrCorrupt, typeErr.Field, typeErr.Value, typeErr.Type)
		}
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if b.Tasks == nil {
		b.Tasks = []Task{}
	}
	maxID := 0
	for i := range b.Tasks {
		b.Tasks[i].normalize()
		if b.Tasks[i].ID > maxID {
			maxID = b.Tasks[i].ID
		}
	}
	if b.NextID <= maxID {
		b.NextID = maxID + 1
	}
	if b.NextID < 1 {
		b.NextID = 1
	}
	return &b, nil
}

// EncodeBucket renders the bucket with 2-space indentation and a trailing
// newline.
func EncodeBucket(b *Bucket) ([]byte, error) {
	if b.Tasks == nil {
		b.Tasks = []Task{}
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal bucket: %w", err)
	}
	return append(data, '\n'), nil
}
