package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ChrisZHHG/taskdeck/internal/model"
	"github.com/ChrisZHHG/taskdeck/internal/remind"
	"github.com/ChrisZHHG/taskdeck/internal/store"
)

const dueDateLayout = "2006-01-02"

// parseDue accepts a plain date or a full RFC3339 timestamp. Plain dates
// land at midnight UTC.
func parseDue(s string) (time.Time, error) {
	if t, err := time.Parse(dueDateLayout, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid due date %q: use YYYY-MM-DD or RFC3339", s)
}

// parseDurationClass maps user spellings onto a duration class. The
// leading word is enough: "short" means "short term".
func parseDurationClass(s string) (model.DurationClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "short", "short term":
		return model.DurationShortTerm, nil
	case "mid", "mid term":
		return model.DurationMidTerm, nil
	case "long", "long term":
		return model.DurationLongTerm, nil
	}
	return "", fmt.Errorf("invalid duration class %q: use short term, mid term, or long term", s)
}

func parseStatus(s string) (model.Status, error) {
	status := model.Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid status %q: use pending, completed, deleted, or postponed", s)
	}
	return status, nil
}

// taskLine renders one list row.
func taskLine(t model.Task, now time.Time) string {
	return fmt.Sprintf("%-11s %-9s p%d  %-32s %-10s %s",
		t.ID, t.Status, t.Priority, truncate(t.Title, 32), t.Category, dueLabel(t, now))
}

// dueLabel describes where a task stands against its due date.
func dueLabel(t model.Task, now time.Time) string {
	switch t.Status {
	case model.StatusCompleted:
		if t.CompletedAt != nil {
			return "done " + humanize.Time(*t.CompletedAt)
		}
		return "done"
	case model.StatusDeleted:
		return "deleted"
	}
	switch remaining := model.RemainingDays(t.DueAt, now); {
	case remaining < 0:
		return "overdue, was due " + humanize.Time(t.DueAt)
	case remaining == 0:
		return "due today"
	default:
		return "due " + humanize.Time(t.DueAt)
	}
}

// taskDetail renders the full show view.
func taskDetail(t model.Task, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", t.ID, t.Title)
	if t.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", t.Description)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Status:    %s\n", t.Status)
	fmt.Fprintf(&b, "Category:  %s\n", t.Category)
	fmt.Fprintf(&b, "Priority:  %d (%s)\n", t.Priority, t.Priority.Label())
	fmt.Fprintf(&b, "Duration:  %s\n", t.Duration)
	fmt.Fprintf(&b, "Created:   %s (%s)\n", t.CreatedAt.Format(dueDateLayout), humanize.Time(t.CreatedAt))
	fmt.Fprintf(&b, "Due:       %s (%s)\n", t.DueAt.Format(dueDateLayout), dueLabel(t, now))
	elapsed := model.Elapsed(t.CreatedAt, now, t.Status, t.CompletedAt)
	fmt.Fprintf(&b, "Elapsed:   %d minutes\n", int64(elapsed/time.Minute))
	if t.CompletedAt != nil {
		fmt.Fprintf(&b, "Completed: %s (%s)\n", t.CompletedAt.Format(dueDateLayout), humanize.Time(*t.CompletedAt))
	}
	if t.Place != "" {
		fmt.Fprintf(&b, "Place:     %s\n", t.Place)
	}
	if t.Assignee != "" {
		fmt.Fprintf(&b, "Assignee:  %s\n", t.Assignee)
	}
	if len(t.Collaborators) > 0 {
		fmt.Fprintf(&b, "With:      %s\n", strings.Join(t.Collaborators, ", "))
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(&b, "Tags:      %s\n", strings.Join(t.Tags, ", "))
	}
	if len(t.DueHistory) > 0 {
		fmt.Fprintf(&b, "Postponed %d time(s); earlier due dates:\n", len(t.DueHistory))
		for _, due := range t.DueHistory {
			fmt.Fprintf(&b, "  %s\n", due.Format(dueDateLayout))
		}
	}
	return b.String()
}

// reportText renders the status overview.
func reportText(r *store.StatusReport, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tasks: %d pending, %d postponed, %d completed, %d deleted\n",
		r.Pending, r.Postponed, r.Completed, r.Deleted)

	if len(r.OverdueItems) > 0 {
		b.WriteString("\nOverdue:\n")
		for _, t := range r.OverdueItems {
			fmt.Fprintf(&b, "  %s  %s (%s)\n", t.ID, truncate(t.Title, 40), dueLabel(t, now))
		}
	}
	if len(r.DueSoonItems) > 0 {
		b.WriteString("\nDue soon:\n")
		for _, t := range r.DueSoonItems {
			fmt.Fprintf(&b, "  %s  %s (%s)\n", t.ID, truncate(t.Title, 40), dueLabel(t, now))
		}
	}
	if len(r.RecentDone) > 0 {
		b.WriteString("\nRecently completed:\n")
		for _, t := range r.RecentDone {
			fmt.Fprintf(&b, "  %s  %s (%s)\n", t.ID, truncate(t.Title, 40), dueLabel(t, now))
		}
	}
	return b.String()
}

// reminderLine formats one reminder event for the watch loop.
func reminderLine(ev remind.Event) string {
	when := humanize.Time(ev.Task.DueAt)
	switch {
	case ev.Threshold == remind.ThresholdOverdue:
		return fmt.Sprintf("[overdue]  %s  %s (was due %s)", ev.Task.ID, ev.Task.Title, when)
	case ev.Remaining == 0:
		return fmt.Sprintf("[due-soon] %s  %s (due today)", ev.Task.ID, ev.Task.Title)
	default:
		return fmt.Sprintf("[due-soon] %s  %s (due %s)", ev.Task.ID, ev.Task.Title, when)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
