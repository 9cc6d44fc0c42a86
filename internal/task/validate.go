package task

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/*.json
var schemaFS embed.FS

const (
	bucketSchemaURL   = "https://github.com/nibzard/task-manager/schema/bucket.schema.json"
	projectsSchemaURL = "https://github.com/nibzard/task-manager/schema/projects.schema.json"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dotted path to the error location, e.g. tasks[3].status
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

func newResult() *ValidationResult {
	return &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}
}

func (r *ValidationResult) fail(path string, err error) {
	r.Valid = false
	r.Errors = append(r.Errors, &ValidationError{Path: path, Err: err})
}

func (r *ValidationResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

type compiledSchemas struct {
	bucket   *jsonschema.Schema
	task     *jsonschema.Schema
	projects *jsonschema.Schema
}

var loadSchemas = sync.OnceValues(func() (*compiledSchemas, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	for url, name := range map[string]string{
		bucketSchemaURL:   "schema/bucket.schema.json",
		projectsSchemaURL: "schema/projects.schema.json",
	} {
		data, err := schemaFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add %s: %w", name, err)
		}
	}
	var s compiledSchemas
	var err error
	if s.bucket, err = compiler.Compile(bucketSchemaURL); err != nil {
		return nil, fmt.Errorf("compile bucket schema: %w", err)
	}
	if s.task, err = compiler.Compile(bucketSchemaURL + "#/$defs/task"); err != nil {
		return nil, fmt.Errorf("compile task schema: %w", err)
	}
	if s.projects, err = compiler.Compile(projectsSchemaURL); err != nil {
		return nil, fmt.Errorf("compile projects schema: %w", err)
	}
	return &s, nil
})

var (
	bucketKeys  = []string{"tasks", "next_id", "last_updated"}
	taskKeys    = []string{"id", "description", "project", "status", "created", "priority", "deadline", "notes", "activated", "completed", "task_type", "employer_client", "time_estimate_hours", "time_spent_hours", "time_logs", "tags", "recurrence", "recurrence_days", "time_of_day", "streak_count", "last_completed"}
	timeLogKeys = []string{"date", "hours", "description", "logged_at"}
	dateFields  = []string{"created", "deadline", "activated", "completed", "last_completed"}
)

// ValidateBucket checks raw bucket JSON. It never fails: problems are
// reported in the result.
func ValidateBucket(data []byte) *ValidationResult {
	result := newResult()

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		result.fail("", fmt.Errorf("invalid JSON: %w", err))
		return result
	}

	schemas, err := loadSchemas()
	if err != nil {
		result.warn("JSON Schema validation not available, using minimal checks: %v", err)
	} else {
		result.UsedSchema = true
		appendSchemaErrors(result, schemas.bucket.Validate(doc))
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		if !result.UsedSchema {
			result.fail("", errors.New("bucket must be an object"))
		}
		return result
	}
	if !result.UsedSchema {
		validateBucketMinimal(obj, result)
	}
	checkBucketFormats(obj, result)
	return result
}

// ValidateTask checks a single decoded task object.
func ValidateTask(raw map[string]any) *ValidationResult {
	result := newResult()
	schemas, err := loadSchemas()
	if err != nil {
		result.warn("JSON Schema validation not available, using minimal checks: %v", err)
		validateTaskMinimal(raw, "", result)
	} else {
		result.UsedSchema = true
		appendSchemaErrors(result, schemas.task.Validate(raw))
	}
	checkTaskFormats(raw, "", result)
	return result
}

// Validate checks t in its stored JSON form.
func (t *Task) Validate() *ValidationResult {
	data, err := json.Marshal(t)
	if err != nil {
		result := newResult()
		result.fail("", err)
		return result
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		result := newResult()
		result.fail("", err)
		return result
	}
	return ValidateTask(raw)
}

// ValidateProjects checks an unwrapped project registry.
func ValidateProjects(data []byte) *ValidationResult {
	result := newResult()
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		result.fail("", fmt.Errorf("invalid JSON: %w", err))
		return result
	}
	schemas, err := loadSchemas()
	if err != nil {
		result.warn("JSON Schema validation not available: %v", err)
		return result
	}
	result.UsedSchema = true
	appendSchemaErrors(result, schemas.projects.Validate(doc))

	if obj, ok := doc.(map[string]any); ok {
		for id, v := range obj {
			p, ok := v.(map[string]any)
			if !ok {
				continue
			}
			if s, ok := p["last_accessed"].(string); ok && s != "" && !IsDate(s) {
				result.fail(id+".last_accessed", fmt.Errorf("must be YYYY-MM-DD format, got %q", s))
			}
		}
	}
	return result
}

func validateBucketMinimal(obj map[string]any, result *ValidationResult) {
	tasks, ok := obj["tasks"]
	if !ok {
		result.fail("tasks", errors.New("missing required field"))
	} else if list, ok := tasks.([]any); !ok {
		result.fail("tasks", fmt.Errorf("must be array, got %s", jsonType(tasks)))
	} else {
		for i, item := range list {
			path := fmt.Sprintf("tasks[%d]", i)
			raw, ok := item.(map[string]any)
			if !ok {
				result.fail(path, errors.New("must be object"))
				continue
			}
			validateTaskMinimal(raw, path, result)
		}
	}
	if v, ok := obj["next_id"]; !ok {
		result.fail("next_id", errors.New("missing required field"))
	} else if !isInteger(v) {
		result.fail("next_id", fmt.Errorf("must be integer, got %s", jsonType(v)))
	}
}

// validateTaskMinimal covers what the schema would when it cannot be loaded.
func validateTaskMinimal(raw map[string]any, path string, result *ValidationResult) {
	if v, ok := raw["id"]; !ok {
		result.fail(join(path, "id"), errors.New("missing required field"))
	} else if !isInteger(v) {
		result.fail(join(path, "id"), fmt.Errorf("must be integer, got %s", jsonType(v)))
	}
	if s, ok := raw["description"].(string); !ok || s == "" {
		result.fail(join(path, "description"), errors.New("required and cannot be empty"))
	}
	if v, ok := raw["project"]; !ok {
		result.fail(join(path, "project"), errors.New("missing required field"))
	} else if _, ok := v.(string); !ok {
		result.fail(join(path, "project"), fmt.Errorf("must be string, got %s", jsonType(v)))
	}
	if v, ok := raw["status"]; ok && !Status(fmt.Sprint(v)).Valid() {
		result.fail(join(path, "status"), fmt.Errorf("invalid status %v, must be one of: TODO, IN_PROGRESS, DONE, BLOCKED", v))
	}
	if v, ok := raw["priority"]; ok && !Priority(fmt.Sprint(v)).Valid() {
		result.fail(join(path, "priority"), fmt.Errorf("invalid priority %v, must be one of: high, medium, low", v))
	}
	if v, ok := raw["task_type"]; ok && !TaskType(fmt.Sprint(v)).Valid() {
		result.fail(join(path, "task_type"), fmt.Errorf("invalid task_type %v, must be one of: work, personal, daily", v))
	}
	if s, ok := raw["recurrence"].(string); ok && !Recurrence(s).Valid() {
		result.fail(join(path, "recurrence"), fmt.Errorf("invalid recurrence %q", s))
	}
	for _, field := range []string{"time_estimate_hours", "time_spent_hours", "streak_count"} {
		if v, ok := raw[field]; ok && v != nil {
			if _, ok := v.(float64); !ok {
				result.fail(join(path, field), fmt.Errorf("must be numeric, got %s", jsonType(v)))
			}
		}
	}
	if v, ok := raw["tags"]; ok && v != nil {
		if list, ok := v.([]any); !ok {
			result.fail(join(path, "tags"), fmt.Errorf("must be list, got %s", jsonType(v)))
		} else {
			for _, tag := range list {
				if _, ok := tag.(string); !ok {
					result.fail(join(path, "tags"), errors.New("all tags must be strings"))
					break
				}
			}
		}
	}
	if logs, ok := raw["time_logs"].([]any); ok {
		for i, item := range logs {
			logPath := fmt.Sprintf("%s[%d]", join(path, "time_logs"), i)
			entry, ok := item.(map[string]any)
			if !ok {
				result.fail(logPath, errors.New("must be object"))
				continue
			}
			if v, ok := entry["hours"]; !ok {
				result.fail(logPath+".hours", errors.New("missing required field"))
			} else if _, ok := v.(float64); !ok {
				result.fail(logPath+".hours", errors.New("must be numeric"))
			}
		}
	}
}

func checkBucketFormats(obj map[string]any, result *ValidationResult) {
	for key := range obj {
		if !slices.Contains(bucketKeys, key) {
			result.warn("unknown key %q", key)
		}
	}
	if s, ok := obj["last_updated"].(string); ok && s != "" {
		if _, err := ParseTimestamp(s); err != nil {
			result.fail("last_updated", fmt.Errorf("must be ISO 8601 format, got %q", s))
		}
	}
	list, _ := obj["tasks"].([]any)
	for i, item := range list {
		if raw, ok := item.(map[string]any); ok {
			checkTaskFormats(raw, fmt.Sprintf("tasks[%d]", i), result)
		}
	}
}

// checkTaskFormats covers what JSON Schema cannot express here: calendar
// dates, times of day and timestamps.
func checkTaskFormats(raw map[string]any, path string, result *ValidationResult) {
	for key := range raw {
		if !slices.Contains(taskKeys, key) {
			result.warn("%s: unknown key %q", displayPath(path), key)
		}
	}
	for _, field := range dateFields {
		if s, ok := raw[field].(string); ok && s != "" && !IsDate(s) {
			result.fail(join(path, field), fmt.Errorf("must be YYYY-MM-DD format, got %q", s))
		}
	}
	if s, ok := raw["time_of_day"].(string); ok && s != "" && !IsTimeOfDay(s) {
		result.fail(join(path, "time_of_day"), fmt.Errorf("must be HH:MM format, got %q", s))
	}
	logs, _ := raw["time_logs"].([]any)
	for i, item := range logs {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		logPath := fmt.Sprintf("%s[%d]", join(path, "time_logs"), i)
		for key := range entry {
			if !slices.Contains(timeLogKeys, key) {
				result.warn("%s: unknown key %q", logPath, key)
			}
		}
		if s, ok := entry["date"].(string); ok && s != "" && !IsDate(s) {
			result.fail(logPath+".date", fmt.Errorf("must be YYYY-MM-DD format, got %q", s))
		}
		if s, ok := entry["logged_at"].(string); ok && s != "" {
			if _, err := ParseTimestamp(s); err != nil {
				result.fail(logPath+".logged_at", fmt.Errorf("must be ISO 8601 format, got %q", s))
			}
		}
	}
}

func appendSchemaErrors(result *ValidationResult, err error) {
	if err == nil {
		return
	}
	result.Valid = false

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// jsonPointerToPath turns /tasks/3/status into tasks[3].status.
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func join(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

func displayPath(path string) string {
	if path == "" {
		return "task"
	}
	return path
}

func isInteger(v any) bool {
	f, ok := v.(float64)
	return ok && f == float64(int64(f))
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
