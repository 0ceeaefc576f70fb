package store

import (
	"strings"
	"testing"
	"time"

	"github.com/ChrisZHHG/taskdeck/internal/model"
)

func validTask() model.Task {
	created := testEpoch
	return model.Task{
		ID:        "td-12345678",
		Seq:       1,
		Title:     "Valid task",
		Category:  "work",
		Priority:  model.DefaultPriority,
		Duration:  model.DurationShortTerm,
		Status:    model.StatusPending,
		CreatedAt: created,
		UpdatedAt: created,
		DueAt:     created.Add(7 * 24 * time.Hour),
	}
}

func TestValidate_Valid(t *testing.T) {
	reg := NewRegistry()

	if errs := Validate(validTask(), reg); len(errs) != 0 {
		t.Errorf("expected no violations, got %v", errs)
	}
}

func TestValidate_SingleRules(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name   string
		mutate func(*model.Task)
		field  string
	}{
		{"empty title", func(task *model.Task) { task.Title = "" }, "title"},
		{"title too long", func(task *model.Task) { task.Title = strings.Repeat("x", 101) }, "title"},
		{"description too long", func(task *model.Task) { task.Description = strings.Repeat("x", 501) }, "description"},
		{"empty category", func(task *model.Task) { task.Category = "" }, "category"},
		{"custom category too long", func(task *model.Task) { task.Category = strings.Repeat("x", 51) }, "category"},
		{"priority too low", func(task *model.Task) { task.Priority = 0 }, "priority"},
		{"priority too high", func(task *model.Task) { task.Priority = 5 }, "priority"},
		{"unknown duration", func(task *model.Task) { task.Duration = "fortnight" }, "duration"},
		{"due before creation", func(task *model.Task) { task.DueAt = task.CreatedAt.Add(-time.Hour) }, "due"},
		{"due equals creation", func(task *model.Task) { task.DueAt = task.CreatedAt }, "due"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			tt.mutate(&task)

			errs := Validate(task, reg)
			if len(errs) != 1 {
				t.Fatalf("got %d violations, want 1: %v", len(errs), errs)
			}
			if errs[0].Field != tt.field {
				t.Errorf("field = %q, want %q", errs[0].Field, tt.field)
			}
		})
	}
}

func TestValidate_TitleAtLimit(t *testing.T) {
	reg := NewRegistry()

	task := validTask()
	task.Title = strings.Repeat("x", 100)
	if errs := Validate(task, reg); len(errs) != 0 {
		t.Errorf("title of exactly 100 characters should pass, got %v", errs)
	}
}

func TestValidate_UnregisteredCategoryWithinLimit(t *testing.T) {
	reg := NewRegistry()

	task := validTask()
	task.Category = "brand-new"
	if errs := Validate(task, reg); len(errs) != 0 {
		t.Errorf("new custom category should pass, got %v", errs)
	}
}

func TestValidate_ReportsAllViolations(t *testing.T) {
	reg := NewRegistry()

	task := validTask()
	task.Title = ""
	task.Description = strings.Repeat("x", 501)
	task.Category = ""
	task.Priority = 9
	task.Duration = "eon"
	task.DueAt = task.CreatedAt

	errs := Validate(task, reg)
	if len(errs) != 6 {
		t.Fatalf("got %d violations, want 6: %v", len(errs), errs)
	}

	// Violations arrive in field declaration order
	wantFields := []string{"title", "description", "category", "priority", "duration", "due"}
	for i, want := range wantFields {
		if errs[i].Field != want {
			t.Errorf("violation %d field = %q, want %q", i, errs[i].Field, want)
		}
	}
}

func TestValidate_ErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "title", Rule: "is required"}
	if got := err.Error(); got != "invalid title: is required" {
		t.Errorf("error = %q", got)
	}
}
