package store

import (
	"testing"
	"time"

	"github.com/ChrisZHHG/taskdeck/internal/model"
)

func TestList_CanonicalOrder(t *testing.T) {
	s, _ := setupTestStore(t)

	// Insertion order: a, b, c, d
	a := mustCreate(t, s, CreateFields{Title: "a", Category: "work", Priority: 2, Duration: model.DurationShortTerm})
	b := mustCreate(t, s, CreateFields{Title: "b", Category: "work", Priority: 1, Duration: model.DurationMidTerm})
	c := mustCreate(t, s, CreateFields{Title: "c", Category: "work", Priority: 1, Duration: model.DurationShortTerm})
	d := mustCreate(t, s, CreateFields{Title: "d", Category: "work", Priority: 1, Duration: model.DurationShortTerm})
	if _, err := s.Complete(d.ID); err != nil {
		t.Fatalf("failed to complete task: %v", err)
	}

	// Incomplete first, then priority rank, then due date; completed last
	wantOrder := []string{c.ID, b.ID, a.ID, d.ID}
	got := s.List(Filter{})
	if len(got) != len(wantOrder) {
		t.Fatalf("list returned %d tasks, want %d", len(got), len(wantOrder))
	}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Errorf("position %d = %q (%s), want %q", i, got[i].ID, got[i].Title, want)
		}
	}
}

func TestList_TiesBreakByInsertionOrder(t *testing.T) {
	s, _ := setupTestStore(t)

	first := mustCreate(t, s, CreateFields{Title: "first", Category: "work"})
	second := mustCreate(t, s, CreateFields{Title: "second", Category: "work"})

	got := s.List(Filter{})
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Errorf("order = [%s, %s], want insertion order [%s, %s]",
			got[0].ID, got[1].ID, first.ID, second.ID)
	}
}

func TestList_ExcludesDeletedByDefault(t *testing.T) {
	s, _ := setupTestStore(t)

	kept := mustCreate(t, s, CreateFields{Title: "kept", Category: "work"})
	gone := mustCreate(t, s, CreateFields{Title: "gone", Category: "work"})
	if err := s.Delete(gone.ID); err != nil {
		t.Fatalf("failed to delete task: %v", err)
	}

	got := s.List(Filter{})
	if len(got) != 1 || got[0].ID != kept.ID {
		t.Errorf("default list = %v, want only %s", ids(got), kept.ID)
	}

	// Tombstones show up when asked for by status
	tombs := s.List(Filter{Statuses: []model.Status{model.StatusDeleted}})
	if len(tombs) != 1 || tombs[0].ID != gone.ID {
		t.Errorf("deleted list = %v, want only %s", ids(tombs), gone.ID)
	}
}

func TestList_FilterByStatus(t *testing.T) {
	s, _ := setupTestStore(t)

	pending := mustCreate(t, s, CreateFields{Title: "pending", Category: "work"})
	done := mustCreate(t, s, CreateFields{Title: "done", Category: "work"})
	if _, err := s.Complete(done.ID); err != nil {
		t.Fatalf("failed to complete task: %v", err)
	}

	got := s.List(Filter{Statuses: []model.Status{model.StatusPending}})
	if len(got) != 1 || got[0].ID != pending.ID {
		t.Errorf("pending list = %v, want only %s", ids(got), pending.ID)
	}
}

func TestList_FilterByCategory(t *testing.T) {
	s, _ := setupTestStore(t)

	work := mustCreate(t, s, CreateFields{Title: "work task", Category: "work"})
	mustCreate(t, s, CreateFields{Title: "home task", Category: "home"})

	// Category matching is case-insensitive
	got := s.List(Filter{Category: "WORK"})
	if len(got) != 1 || got[0].ID != work.ID {
		t.Errorf("work list = %v, want only %s", ids(got), work.ID)
	}
}

func TestList_FilterByPriority(t *testing.T) {
	s, _ := setupTestStore(t)

	urgent := mustCreate(t, s, CreateFields{Title: "urgent", Category: "work", Priority: 1})
	mustCreate(t, s, CreateFields{Title: "casual", Category: "work", Priority: 4})

	got := s.List(Filter{Priorities: []model.Priority{model.PriorityUrgentImportant}})
	if len(got) != 1 || got[0].ID != urgent.ID {
		t.Errorf("priority list = %v, want only %s", ids(got), urgent.ID)
	}
}

func TestList_FilterByTags(t *testing.T) {
	s, _ := setupTestStore(t)

	both := mustCreate(t, s, CreateFields{Title: "both", Category: "work", Tags: []string{"errand", "urgent"}})
	mustCreate(t, s, CreateFields{Title: "one", Category: "work", Tags: []string{"errand"}})

	// Every listed tag must be present
	got := s.List(Filter{Tags: []string{"errand", "URGENT"}})
	if len(got) != 1 || got[0].ID != both.ID {
		t.Errorf("tag list = %v, want only %s", ids(got), both.ID)
	}
}

func TestList_FilterByDueRange(t *testing.T) {
	s, _ := setupTestStore(t)

	soon := mustCreate(t, s, CreateFields{Title: "soon", Category: "work", Duration: model.DurationShortTerm})
	mustCreate(t, s, CreateFields{Title: "later", Category: "work", Duration: model.DurationLongTerm})

	cutoff := testEpoch.Add(14 * 24 * time.Hour)
	got := s.List(Filter{DueBefore: &cutoff})
	if len(got) != 1 || got[0].ID != soon.ID {
		t.Errorf("due-before list = %v, want only %s", ids(got), soon.ID)
	}

	after := s.List(Filter{DueAfter: &cutoff})
	if len(after) != 1 || after[0].Title != "later" {
		t.Errorf("due-after list = %v, want only the long term task", ids(after))
	}
}

func TestTasks_Restartable(t *testing.T) {
	s, _ := setupTestStore(t)

	mustCreate(t, s, CreateFields{Title: "one", Category: "work"})
	mustCreate(t, s, CreateFields{Title: "two", Category: "work"})

	seq := s.Tasks(Filter{})

	var first, second int
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	if first != 2 || second != 2 {
		t.Errorf("iteration counts = %d, %d, want 2 both times", first, second)
	}
}

func TestTasks_EarlyBreak(t *testing.T) {
	s, _ := setupTestStore(t)

	for _, title := range []string{"one", "two", "three"} {
		mustCreate(t, s, CreateFields{Title: title, Category: "work"})
	}

	var seen int
	for range s.Tasks(Filter{}) {
		seen++
		if seen == 1 {
			break
		}
	}
	if seen != 1 {
		t.Errorf("seen = %d, want 1", seen)
	}
}

func TestTasks_FreshSnapshotPerIteration(t *testing.T) {
	s, _ := setupTestStore(t)

	mustCreate(t, s, CreateFields{Title: "one", Category: "work"})
	seq := s.Tasks(Filter{})

	var before int
	for range seq {
		before++
	}

	mustCreate(t, s, CreateFields{Title: "two", Category: "work"})

	var after int
	for range seq {
		after++
	}

	if before != 1 || after != 2 {
		t.Errorf("counts = %d then %d, want 1 then 2", before, after)
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
