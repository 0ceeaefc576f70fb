package store

import (
	"cmp"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/ChrisZHHG/taskdeck/internal/model"
)

// Filter selects tasks for listing. Zero-value fields match everything,
// with one exception: an empty Statuses list means "everything except
// tombstones" — deleted tasks only show up when asked for by status.
type Filter struct {
	Statuses   []model.Status
	Category   string
	Priorities []model.Priority
	Tags       []string // task must carry every listed tag
	DueAfter   *time.Time
	DueBefore  *time.Time
}

func (f Filter) matches(t model.Task) bool {
	if len(f.Statuses) == 0 {
		if t.Status == model.StatusDeleted {
			return false
		}
	} else if !slices.Contains(f.Statuses, t.Status) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(f.Category, t.Category) {
		return false
	}
	if len(f.Priorities) > 0 && !slices.Contains(f.Priorities, t.Priority) {
		return false
	}
	for _, tag := range f.Tags {
		if !t.HasTag(tag) {
			return false
		}
	}
	if f.DueAfter != nil && t.DueAt.Before(*f.DueAfter) {
		return false
	}
	if f.DueBefore != nil && !t.DueAt.Before(*f.DueBefore) {
		return false
	}
	return true
}

// Tasks returns a lazy sequence over the tasks matching f in canonical
// order. Each range over the sequence takes a fresh consistent snapshot of
// the store, so the sequence is restartable and iteration never observes a
// half-applied mutation.
func (s *Store) Tasks(f Filter) iter.Seq[model.Task] {
	return func(yield func(model.Task) bool) {
		for _, t := range s.collect(f) {
			if !yield(t) {
				return
			}
		}
	}
}

// List collects the tasks matching f into a slice, in canonical order.
func (s *Store) List(f Filter) []model.Task {
	return s.collect(f)
}

func (s *Store) collect(f Filter) []model.Task {
	s.mu.RLock()
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if f.matches(*t) {
			out = append(out, t.Clone())
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, compareTasks)
	return out
}

// compareTasks implements the canonical ordering: active before completed
// before deleted, then ascending priority rank, then earliest due first,
// then insertion order, with the identifier as the final tiebreak.
func compareTasks(a, b model.Task) int {
	if c := cmp.Compare(statusRank(a.Status), statusRank(b.Status)); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
		return c
	}
	if !a.DueAt.Equal(b.DueAt) {
		if a.DueAt.Before(b.DueAt) {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(a.Seq, b.Seq); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func statusRank(s model.Status) int {
	switch s {
	case model.StatusPending, model.StatusPostponed:
		return 0
	case model.StatusCompleted:
		return 1
	default: // deleted
		return 2
	}
}

func sortBySeq(tasks []model.Task) {
	slices.SortFunc(tasks, func(a, b model.Task) int {
		return cmp.Compare(a.Seq, b.Seq)
	})
}
