package task

import "errors"

// Error kinds shared by storage, service and CLI layers. Callers wrap them
// with context and test with errors.Is.
var (
	// ErrNotFound reports a task ID or project identifier that does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrValidation reports malformed input to a mutation. Nothing is persisted.
	ErrValidation = errors.New("validation failed")
	// ErrCorrupt reports a bucket file that cannot be parsed.
	ErrCorrupt = errors.New("corrupt data")
)
