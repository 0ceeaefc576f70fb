// Package remind scans the task store on a timer and emits reminder
// events for tasks that are due soon or overdue. Each threshold crossing
// is reported once per session and per due date, so a postponed task is
// eligible for reminders again at its new due date.
package remind

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ChrisZHHG/taskdeck/internal/model"
	"github.com/ChrisZHHG/taskdeck/internal/store"
)

// Threshold names a reminder boundary.
type Threshold string

const (
	// ThresholdDueSoon fires when a pending task's due date is within
	// the configured window.
	ThresholdDueSoon Threshold = "due-soon"
	// ThresholdOverdue fires once a pending task is past due.
	ThresholdOverdue Threshold = "overdue"
)

// Event is a single reminder. Remaining is in days and negative once the
// task is overdue.
type Event struct {
	Task      model.Task
	Threshold Threshold
	Remaining int
	At        time.Time
}

// Scheduler periodically scans pending tasks and emits Events. Scans are
// read-only against the store and never block its mutations for long.
type Scheduler struct {
	store    *store.Store
	interval time.Duration
	soonDays int
	now      func() time.Time
	log      *zap.Logger

	mu       sync.Mutex
	notified map[string]bool
	events   chan Event
}

// Option configures a Scheduler at construction time.
type Option func(*Scheduler)

// WithInterval sets the scan interval.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = d }
}

// WithDueSoonDays sets the due-soon window in days. The default of 1
// reports tasks due within 24 hours.
func WithDueSoonDays(days int) Option {
	return func(s *Scheduler) { s.soonDays = days }
}

// WithBuffer sets the event channel capacity.
func WithBuffer(n int) Option {
	return func(s *Scheduler) { s.events = make(chan Event, n) }
}

// WithClock overrides the time source, for tests that simulate "now".
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithLogger sets the logger used for scan and delivery events.
func WithLogger(log *zap.Logger) Option {
	return func(s *Scheduler) { s.log = log }
}

// New returns a scheduler reading from st. Call Run to start scanning,
// or Scan for a single pass.
func New(st *store.Store, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:    st,
		interval: time.Minute,
		soonDays: 1,
		now:      time.Now,
		log:      zap.NewNop(),
		notified: make(map[string]bool),
		events:   make(chan Event, 16),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Events returns the reminder stream. The channel is never closed; stop
// consuming when the context passed to Run is done.
func (s *Scheduler) Events() <-chan Event {
	return s.events
}

// Run scans on the configured interval until ctx is done. A failed event
// delivery is logged and retried on a later scan; it never halts the loop.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("reminder scheduler started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
			s.Scan()
		}
	}
}

// Scan runs one pass over pending tasks and emits an event for every new
// threshold crossing. Returns the number of events emitted. If a receiver
// is not keeping up the event is dropped unmarked, so the next scan tries
// again.
func (s *Scheduler) Scan() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	var emitted int
	for task := range s.store.Tasks(store.Filter{Statuses: []model.Status{model.StatusPending}}) {
		remaining := model.RemainingDays(task.DueAt, now)

		var th Threshold
		switch {
		case remaining < 0:
			th = ThresholdOverdue
		case remaining <= s.soonDays:
			th = ThresholdDueSoon
		default:
			continue
		}

		key := marker(task.ID, th, task.DueAt)
		if s.notified[key] {
			continue
		}

		select {
		case s.events <- Event{Task: task, Threshold: th, Remaining: remaining, At: now}:
			s.notified[key] = true
			emitted++
			s.log.Debug("reminder emitted",
				zap.String("task", task.ID),
				zap.String("threshold", string(th)),
				zap.Int("remaining", remaining))
		default:
			s.log.Warn("reminder dropped, receiver not ready", zap.String("task", task.ID))
		}
	}
	return emitted
}

// marker keys the session dedup set. The due date is part of the key so
// moving a task's due date re-arms its reminders.
func marker(id string, th Threshold, due time.Time) string {
	return id + "|" + string(th) + "|" + due.Format(time.RFC3339)
}
