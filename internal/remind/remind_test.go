package remind

import (
	"context"
	"testing"
	"time"

	"github.com/ChrisZHHG/taskdeck/internal/model"
	"github.com/ChrisZHHG/taskdeck/internal/store"
)

var testEpoch = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func setupTestScheduler(t *testing.T, opts ...Option) (*Scheduler, *store.Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: testEpoch}
	st := store.New(store.NewRegistry(), store.WithClock(clock.Now))

	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return New(st, opts...), st, clock
}

func TestScan_DueSoon(t *testing.T) {
	sched, st, clock := setupTestScheduler(t)

	task, err := st.Create(store.CreateFields{Title: "Soon", Category: "work"})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	// Due in 7 days: nothing to report yet
	if n := sched.Scan(); n != 0 {
		t.Errorf("emitted %d events, want 0", n)
	}

	// 23 hours before due: inside the 24h window
	clock.Advance(6*24*time.Hour + time.Hour)
	if n := sched.Scan(); n != 1 {
		t.Fatalf("emitted %d events, want 1", n)
	}

	ev := <-sched.Events()
	if ev.Task.ID != task.ID {
		t.Errorf("event task = %s, want %s", ev.Task.ID, task.ID)
	}
	if ev.Threshold != ThresholdDueSoon {
		t.Errorf("threshold = %q, want %q", ev.Threshold, ThresholdDueSoon)
	}
	if ev.Remaining != 1 {
		t.Errorf("remaining = %d, want 1", ev.Remaining)
	}
}

func TestScan_Overdue(t *testing.T) {
	sched, st, clock := setupTestScheduler(t)

	if _, err := st.Create(store.CreateFields{Title: "Late", Category: "work"}); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	// Two days past due
	clock.Advance(9 * 24 * time.Hour)
	if n := sched.Scan(); n != 1 {
		t.Fatalf("emitted %d events, want 1", n)
	}

	ev := <-sched.Events()
	if ev.Threshold != ThresholdOverdue {
		t.Errorf("threshold = %q, want %q", ev.Threshold, ThresholdOverdue)
	}
	if ev.Remaining >= 0 {
		t.Errorf("remaining = %d, want negative", ev.Remaining)
	}
}

func TestScan_NoDuplicateWithinSession(t *testing.T) {
	sched, st, clock := setupTestScheduler(t)

	if _, err := st.Create(store.CreateFields{Title: "Once", Category: "work"}); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	clock.Advance(6*24*time.Hour + 23*time.Hour)
	if n := sched.Scan(); n != 1 {
		t.Fatalf("emitted %d events, want 1", n)
	}

	// Same crossing again: no storm
	if n := sched.Scan(); n != 0 {
		t.Errorf("emitted %d events on repeat scan, want 0", n)
	}
	clock.Advance(30 * time.Minute)
	if n := sched.Scan(); n != 0 {
		t.Errorf("emitted %d events on repeat scan, want 0", n)
	}
}

func TestScan_OverdueAfterDueSoonIsNewCrossing(t *testing.T) {
	sched, st, clock := setupTestScheduler(t)

	if _, err := st.Create(store.CreateFields{Title: "Escalates", Category: "work"}); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	clock.Advance(6*24*time.Hour + 23*time.Hour)
	if n := sched.Scan(); n != 1 {
		t.Fatalf("emitted %d events, want due-soon", n)
	}

	// Crossing into overdue is a distinct threshold
	clock.Advance(3 * 24 * time.Hour)
	if n := sched.Scan(); n != 1 {
		t.Fatalf("emitted %d events, want overdue", n)
	}

	<-sched.Events()
	ev := <-sched.Events()
	if ev.Threshold != ThresholdOverdue {
		t.Errorf("second threshold = %q, want %q", ev.Threshold, ThresholdOverdue)
	}
}

func TestScan_PostponeRearmsReminders(t *testing.T) {
	sched, st, clock := setupTestScheduler(t)

	task, err := st.Create(store.CreateFields{Title: "Slides", Category: "work"})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	clock.Advance(6*24*time.Hour + 23*time.Hour)
	if n := sched.Scan(); n != 1 {
		t.Fatalf("emitted %d events, want 1", n)
	}

	// Postponed tasks are out of the scan; restored ones come back with a
	// new due date and a fresh dedup marker
	if _, err := st.Postpone(task.ID, task.DueAt.Add(5*24*time.Hour)); err != nil {
		t.Fatalf("failed to postpone task: %v", err)
	}
	if n := sched.Scan(); n != 0 {
		t.Errorf("emitted %d events for postponed task, want 0", n)
	}
	if _, err := st.Restore(task.ID); err != nil {
		t.Fatalf("failed to restore task: %v", err)
	}
	if n := sched.Scan(); n != 0 {
		t.Errorf("emitted %d events before the new window, want 0", n)
	}

	clock.Advance(5 * 24 * time.Hour)
	if n := sched.Scan(); n != 1 {
		t.Errorf("emitted %d events at the new due date, want 1", n)
	}
}

func TestScan_SkipsNonPending(t *testing.T) {
	sched, st, clock := setupTestScheduler(t)

	done, err := st.Create(store.CreateFields{Title: "Done", Category: "work"})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	if _, err := st.Complete(done.ID); err != nil {
		t.Fatalf("failed to complete task: %v", err)
	}

	gone, err := st.Create(store.CreateFields{Title: "Gone", Category: "work"})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	if err := st.Delete(gone.ID); err != nil {
		t.Fatalf("failed to delete task: %v", err)
	}

	// Way past both due dates; neither task is pending
	clock.Advance(30 * 24 * time.Hour)
	if n := sched.Scan(); n != 0 {
		t.Errorf("emitted %d events, want 0", n)
	}
}

func TestScan_FullBufferDropsAndRetries(t *testing.T) {
	sched, st, clock := setupTestScheduler(t, WithBuffer(1))

	for _, title := range []string{"first", "second"} {
		if _, err := st.Create(store.CreateFields{Title: title, Category: "work"}); err != nil {
			t.Fatalf("failed to create task: %v", err)
		}
	}

	// Both overdue, but only one event fits the buffer
	clock.Advance(10 * 24 * time.Hour)
	if n := sched.Scan(); n != 1 {
		t.Fatalf("emitted %d events, want 1", n)
	}

	// Drain and rescan: the dropped reminder is retried
	<-sched.Events()
	if n := sched.Scan(); n != 1 {
		t.Errorf("emitted %d events on retry, want 1", n)
	}
}

func TestRun_EmitsOnTimer(t *testing.T) {
	clock := &fakeClock{now: testEpoch}
	st := store.New(store.NewRegistry(), store.WithClock(clock.Now))
	sched := New(st, WithClock(clock.Now), WithInterval(10*time.Millisecond))

	if _, err := st.Create(store.CreateFields{Title: "Ticker", Category: "work"}); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	clock.Advance(10 * 24 * time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Run(ctx)

	select {
	case ev := <-sched.Events():
		if ev.Threshold != ThresholdOverdue {
			t.Errorf("threshold = %q, want %q", ev.Threshold, ThresholdOverdue)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event within 2s")
	}
}

func TestScan_RespectsDueSoonWindow(t *testing.T) {
	sched, st, clock := setupTestScheduler(t, WithDueSoonDays(3))

	if _, err := st.Create(store.CreateFields{Title: "Window", Category: "work", Duration: model.DurationShortTerm}); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	// 4 days out: outside a 3-day window
	clock.Advance(3 * 24 * time.Hour)
	if n := sched.Scan(); n != 0 {
		t.Errorf("emitted %d events at 4 days out, want 0", n)
	}

	// 3 days out: inside
	clock.Advance(24 * time.Hour)
	if n := sched.Scan(); n != 1 {
		t.Errorf("emitted %d events at 3 days out, want 1", n)
	}
}
