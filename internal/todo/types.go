package todo

import (
	"fmt"
	"strconv"
	"strings"
)

// Record keys in the key-value store.
const (
	KeyData         = "data"
	KeySuggestions  = "suggestions"
	KeyDeletedTasks = "deletedTasks"
)

// DefaultTimestampLayout renders creation times in the da-DK locale style
// used by existing stores, e.g. "19.10.2026 14.05.03".
const DefaultTimestampLayout = "02.01.2006 15.04.05"

// Priority is a task priority. Higher values sort first.
type Priority int

const (
	PriorityLow    Priority = 0
	PriorityMedium Priority = 1
	PriorityHigh   Priority = 2
)

// Valid reports whether p is one of the three known priorities.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// ParsePriority accepts a number (0-2) or a name (low, medium, high, or
// their first letter). The boolean is false for anything else.
func ParsePriority(s string) (Priority, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "low", "l":
		return PriorityLow, true
	case "medium", "med", "m":
		return PriorityMedium, true
	case "high", "h":
		return PriorityHigh, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	p := Priority(n)
	if !p.Valid() {
		return 0, false
	}
	return p, true
}

// Task is a single entry, identified by its text.
type Task struct {
	Text      string   `json:"-"`
	Timestamp string   `json:"timestamp"`
	Completed bool     `json:"completed"`
	Priority  Priority `json:"priority"`
}

// IsZero returns true if the task is empty (has no text).
func (t *Task) IsZero() bool {
	return t.Text == ""
}

// Collection maps task text to task.
type Collection map[string]Task

// ValidationError represents a validation error with context.
type ValidationError struct {
	Key  string // Record key (data, suggestions, deletedTasks)
	Path string // Path inside the record
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	loc := e.Key
	if e.Path != "" {
		loc += "." + e.Path
	}
	if loc != "" {
		return fmt.Sprintf("%s: %s", loc, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
