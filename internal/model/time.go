package model

import "time"

const day = 24 * time.Hour

// DueDate derives the default due timestamp for a task created at the given
// time: creation plus the duration class offset. Pure; callers pass the
// original creation time even when re-deriving after a class change so that
// repeated edits never drift the due date.
func DueDate(created time.Time, d DurationClass) time.Time {
	return created.Add(d.Offset())
}

// Elapsed returns how long a task has been live. Completed tasks freeze at
// their completion timestamp; every other status keeps counting from
// creation. Never negative.
func Elapsed(created, now time.Time, status Status, completedAt *time.Time) time.Duration {
	end := now
	if status == StatusCompleted && completedAt != nil {
		end = *completedAt
	}
	e := end.Sub(created)
	if e < 0 {
		return 0
	}
	return e
}

// RemainingDays returns ceil((due-now)/24h): positive while days remain,
// zero once the due moment has passed within the last 24h ("due today"),
// negative when overdue by a day or more. Monotonically non-increasing as
// now advances against a fixed due.
func RemainingDays(due, now time.Time) int {
	diff := due.Sub(now)
	days := int(diff / day)
	if diff%day > 0 {
		days++
	}
	return days
}
