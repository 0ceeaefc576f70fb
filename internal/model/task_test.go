package model

import (
	"strings"
	"testing"
)

func TestNewID(t *testing.T) {
	id := NewID()

	if !strings.HasPrefix(id, "td-") {
		t.Errorf("expected prefix %q, got %q", "td-", id)
	}

	// Prefix (3 chars) + 8 hex chars = 11 total
	if len(id) != 11 {
		t.Errorf("expected length 11, got %d (%q)", len(id), id)
	}
}

func TestNewID_Uniqueness(t *testing.T) {
	// With 8 hex chars (16^8 = 4B possible values) and 100 iterations,
	// a collision here would point at a broken generator, not bad luck.
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if seen[id] {
			t.Errorf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		status Status
		valid  bool
	}{
		{StatusPending, true},
		{StatusCompleted, true},
		{StatusDeleted, true},
		{StatusPostponed, true},
		{Status("pending"), true},
		{Status(""), false},
		{Status("invalid"), false},
		{Status("Pending"), false}, // case sensitive
		{Status("done"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestPriority_IsValid(t *testing.T) {
	tests := []struct {
		priority Priority
		valid    bool
	}{
		{PriorityUrgentImportant, true},
		{PriorityUrgentNotImportant, true},
		{PriorityNotUrgentImportant, true},
		{PriorityNotUrgentNotImportant, true},
		{Priority(0), false},
		{Priority(5), false},
		{Priority(-1), false},
	}

	for _, tt := range tests {
		if got := tt.priority.IsValid(); got != tt.valid {
			t.Errorf("Priority(%d).IsValid() = %v, want %v", tt.priority, got, tt.valid)
		}
	}
}

func TestDurationClass_IsValid(t *testing.T) {
	tests := []struct {
		class DurationClass
		valid bool
	}{
		{DurationShortTerm, true},
		{DurationMidTerm, true},
		{DurationLongTerm, true},
		{DurationClass("short term"), true},
		{DurationClass(""), false},
		{DurationClass("weekly"), false},
		{DurationClass("Short Term"), false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			if got := tt.class.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestDurationClass_Days(t *testing.T) {
	tests := []struct {
		class DurationClass
		days  int
	}{
		{DurationShortTerm, 7},
		{DurationMidTerm, 30},
		{DurationLongTerm, 90},
		{DurationClass("bogus"), 0},
	}

	for _, tt := range tests {
		if got := tt.class.Days(); got != tt.days {
			t.Errorf("%s.Days() = %d, want %d", tt.class, got, tt.days)
		}
	}
}

func TestPriority_Label(t *testing.T) {
	if got := PriorityUrgentImportant.Label(); got != "urgent & important" {
		t.Errorf("label = %q, want %q", got, "urgent & important")
	}
	if got := Priority(9).Label(); got != "unknown" {
		t.Errorf("label = %q, want %q", got, "unknown")
	}
}

func TestTask_Clone(t *testing.T) {
	orig := Task{
		ID:            "td-aaaa1111",
		Title:         "Original",
		Tags:          []string{"deep", "copy"},
		Collaborators: []string{"ana"},
	}

	clone := orig.Clone()
	clone.Tags[0] = "mutated"
	clone.Collaborators = append(clone.Collaborators, "ben")

	if orig.Tags[0] != "deep" {
		t.Errorf("clone shares tag backing array: %q", orig.Tags[0])
	}
	if len(orig.Collaborators) != 1 {
		t.Errorf("clone shares collaborators: %v", orig.Collaborators)
	}
}

func TestTask_HasTag(t *testing.T) {
	task := Task{Tags: []string{"Errand", "urgent"}}

	if !task.HasTag("errand") {
		t.Error("expected case-insensitive tag match")
	}
	if task.HasTag("missing") {
		t.Error("unexpected match for absent tag")
	}
}
