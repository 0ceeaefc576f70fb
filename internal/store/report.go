package store

import (
	"slices"

	"github.com/ChrisZHHG/taskdeck/internal/model"
)

// StatusReport contains aggregated store status.
type StatusReport struct {
	Pending   int
	Postponed int
	Completed int
	Deleted   int
	Overdue   int
	DueSoon   int

	OverdueItems []model.Task // active tasks already past due
	DueSoonItems []model.Task // active tasks inside the due-soon window
	RecentDone   []model.Task // last 3 completed
}

// Report returns an aggregated status report. Active tasks whose due date
// falls within dueSoonDays count as due soon; those already past due count
// as overdue. Overdue and due-soon buckets are disjoint.
func (s *Store) Report(dueSoonDays int) *StatusReport {
	s.mu.RLock()
	now := s.now().UTC()
	report := &StatusReport{}
	var completed []model.Task
	for _, t := range s.tasks {
		switch t.Status {
		case model.StatusPending:
			report.Pending++
		case model.StatusPostponed:
			report.Postponed++
		case model.StatusCompleted:
			report.Completed++
			completed = append(completed, t.Clone())
			continue
		case model.StatusDeleted:
			report.Deleted++
			continue
		}

		remaining := model.RemainingDays(t.DueAt, now)
		switch {
		case remaining < 0:
			report.Overdue++
			report.OverdueItems = append(report.OverdueItems, t.Clone())
		case remaining <= dueSoonDays:
			report.DueSoon++
			report.DueSoonItems = append(report.DueSoonItems, t.Clone())
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(report.OverdueItems, compareTasks)
	slices.SortFunc(report.DueSoonItems, compareTasks)

	// Most recently completed first
	slices.SortFunc(completed, func(a, b model.Task) int {
		switch {
		case a.CompletedAt == nil || b.CompletedAt == nil:
			return 0
		case a.CompletedAt.After(*b.CompletedAt):
			return -1
		case b.CompletedAt.After(*a.CompletedAt):
			return 1
		}
		return 0
	})
	if len(completed) > 3 {
		completed = completed[:3]
	}
	report.RecentDone = completed

	return report
}
