package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusDeleted   Status = "deleted"
	StatusPostponed Status = "postponed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusDeleted, StatusPostponed:
		return true
	}
	return false
}

// Priority is an Eisenhower matrix rank. Lower is more pressing.
type Priority int

const (
	PriorityUrgentImportant       Priority = 1
	PriorityUrgentNotImportant    Priority = 2
	PriorityNotUrgentImportant    Priority = 3
	PriorityNotUrgentNotImportant Priority = 4

	DefaultPriority = PriorityNotUrgentNotImportant
)

func (p Priority) IsValid() bool {
	return p >= PriorityUrgentImportant && p <= PriorityNotUrgentNotImportant
}

func (p Priority) Label() string {
	switch p {
	case PriorityUrgentImportant:
		return "urgent & important"
	case PriorityUrgentNotImportant:
		return "urgent, not important"
	case PriorityNotUrgentImportant:
		return "important, not urgent"
	case PriorityNotUrgentNotImportant:
		return "not urgent, not important"
	default:
		return "unknown"
	}
}

// DurationClass is a coarse horizon bucket that determines the default
// due-date offset for a task.
type DurationClass string

const (
	DurationShortTerm DurationClass = "short term"
	DurationMidTerm   DurationClass = "mid term"
	DurationLongTerm  DurationClass = "long term"

	DefaultDuration = DurationShortTerm
)

func (d DurationClass) IsValid() bool {
	switch d {
	case DurationShortTerm, DurationMidTerm, DurationLongTerm:
		return true
	}
	return false
}

// Days returns the default due-date offset in days for the class.
func (d DurationClass) Days() int {
	switch d {
	case DurationShortTerm:
		return 7
	case DurationMidTerm:
		return 30
	case DurationLongTerm:
		return 90
	default:
		return 0
	}
}

func (d DurationClass) Offset() time.Duration {
	return time.Duration(d.Days()) * 24 * time.Hour
}

// Category is a task grouping. Predefined categories ship with the system;
// custom ones are registered on first use.
type Category struct {
	Name       string `json:"name"`
	Predefined bool   `json:"predefined"`
}

// PredefinedCategories is the fixed set shipped with the system.
var PredefinedCategories = []string{"work", "personal", "study", "health", "finance", "home"}

// Task is the central entity. Elapsed and remaining time are never stored;
// they are recomputed from the timestamps below (see time.go).
type Task struct {
	ID            string        `json:"id"`
	Seq           int64         `json:"seq"`
	Title         string        `json:"title"`
	Description   string        `json:"description,omitempty"`
	Category      string        `json:"category"`
	Priority      Priority      `json:"priority"`
	Duration      DurationClass `json:"duration"`
	Status        Status        `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	DueAt         time.Time     `json:"due_at"`
	DueSet        bool          `json:"due_set,omitempty"`
	DueHistory    []time.Time   `json:"due_history,omitempty"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
	DeletedAt     *time.Time    `json:"deleted_at,omitempty"`
	Place         string        `json:"place,omitempty"`
	Assignee      string        `json:"assignee,omitempty"`
	Collaborators []string      `json:"collaborators,omitempty"`
	Tags          []string      `json:"tags,omitempty"`
}

// Clone returns a deep copy so callers can hand tasks out without readers
// observing later mutations.
func (t Task) Clone() Task {
	c := t
	if t.DueHistory != nil {
		c.DueHistory = append([]time.Time(nil), t.DueHistory...)
	}
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	if t.DeletedAt != nil {
		at := *t.DeletedAt
		c.DeletedAt = &at
	}
	if t.Collaborators != nil {
		c.Collaborators = append([]string(nil), t.Collaborators...)
	}
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	return c
}

// HasTag reports whether the task carries the tag (case-insensitive).
func (t Task) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if strings.EqualFold(have, tag) {
			return true
		}
	}
	return false
}

// NewID generates a task identifier: "td-" plus the first 8 hex chars of a
// UUID. Short enough to type, random enough for a single-user store; the
// store retries on the off chance of a collision.
func NewID() string {
	return "td-" + uuid.NewString()[:8]
}
