package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ChrisZHHG/taskdeck/internal/model"
	"github.com/ChrisZHHG/taskdeck/internal/store"
)

// TaskListJSON is one list row in --json output.
type TaskListJSON struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Category      string   `json:"category"`
	Priority      int      `json:"priority"`
	Duration      string   `json:"duration"`
	Status        string   `json:"status"`
	DueAt         string   `json:"due_at"`
	RemainingDays int      `json:"remaining_days"`
	Tags          []string `json:"tags"`
}

// TaskShowJSON is the full task detail in --json output.
type TaskShowJSON struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Category       string   `json:"category"`
	Priority       int      `json:"priority"`
	PriorityLabel  string   `json:"priority_label"`
	Duration       string   `json:"duration"`
	Status         string   `json:"status"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
	DueAt          string   `json:"due_at"`
	CompletedAt    *string  `json:"completed_at,omitempty"`
	DeletedAt      *string  `json:"deleted_at,omitempty"`
	ElapsedMinutes int64    `json:"elapsed_minutes"`
	RemainingDays  int      `json:"remaining_days"`
	Place          string   `json:"place,omitempty"`
	Assignee       string   `json:"assignee,omitempty"`
	Collaborators  []string `json:"collaborators"`
	Tags           []string `json:"tags"`
	DueHistory     []string `json:"due_history"`
}

// CategoryJSON is one category registry entry in --json output.
type CategoryJSON struct {
	Name       string `json:"name"`
	Predefined bool   `json:"predefined"`
}

// ReportJSON is the status overview in --json output.
type ReportJSON struct {
	Pending    int            `json:"pending"`
	Postponed  int            `json:"postponed"`
	Completed  int            `json:"completed"`
	Deleted    int            `json:"deleted"`
	Overdue    []TaskListJSON `json:"overdue"`
	DueSoon    []TaskListJSON `json:"due_soon"`
	RecentDone []TaskListJSON `json:"recent_done"`
}

func taskListJSON(t model.Task, now time.Time) TaskListJSON {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return TaskListJSON{
		ID:            t.ID,
		Title:         t.Title,
		Category:      t.Category,
		Priority:      int(t.Priority),
		Duration:      string(t.Duration),
		Status:        string(t.Status),
		DueAt:         t.DueAt.Format(time.RFC3339),
		RemainingDays: model.RemainingDays(t.DueAt, now),
		Tags:          tags,
	}
}

func taskShowJSON(t model.Task, now time.Time) TaskShowJSON {
	collabs := t.Collaborators
	if collabs == nil {
		collabs = []string{}
	}
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	history := make([]string, 0, len(t.DueHistory))
	for _, due := range t.DueHistory {
		history = append(history, due.Format(time.RFC3339))
	}

	out := TaskShowJSON{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Category:       t.Category,
		Priority:       int(t.Priority),
		PriorityLabel:  t.Priority.Label(),
		Duration:       string(t.Duration),
		Status:         string(t.Status),
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      t.UpdatedAt.Format(time.RFC3339),
		DueAt:          t.DueAt.Format(time.RFC3339),
		ElapsedMinutes: int64(model.Elapsed(t.CreatedAt, now, t.Status, t.CompletedAt) / time.Minute),
		RemainingDays:  model.RemainingDays(t.DueAt, now),
		Place:          t.Place,
		Assignee:       t.Assignee,
		Collaborators:  collabs,
		Tags:           tags,
		DueHistory:     history,
	}
	if t.CompletedAt != nil {
		s := t.CompletedAt.Format(time.RFC3339)
		out.CompletedAt = &s
	}
	if t.DeletedAt != nil {
		s := t.DeletedAt.Format(time.RFC3339)
		out.DeletedAt = &s
	}
	return out
}

func reportJSON(r *store.StatusReport, now time.Time) ReportJSON {
	rows := func(tasks []model.Task) []TaskListJSON {
		out := make([]TaskListJSON, 0, len(tasks))
		for _, t := range tasks {
			out = append(out, taskListJSON(t, now))
		}
		return out
	}
	return ReportJSON{
		Pending:    r.Pending,
		Postponed:  r.Postponed,
		Completed:  r.Completed,
		Deleted:    r.Deleted,
		Overdue:    rows(r.OverdueItems),
		DueSoon:    rows(r.DueSoonItems),
		RecentDone: rows(r.RecentDone),
	}
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}
