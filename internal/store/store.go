// Package store holds the authoritative in-memory task collection and
// enforces the lifecycle rules: field validation, status transitions,
// due-date policy, and the canonical list ordering.
//
// A Store is created empty with New and populated from a persisted
// Snapshot via Load. All mutations go through Store methods under a single
// read-write mutex, so every operation is all-or-nothing and readers
// always observe a consistent view of each task.
package store

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ChrisZHHG/taskdeck/internal/model"
)

// DefaultAssignee is used when a task is created without an explicit
// assignee. Single-user system: the owner is "me" unless configured.
const DefaultAssignee = "me"

// SnapshotVersion is the current snapshot schema version.
const SnapshotVersion = 1

// Store is the in-memory task collection. Create one with New.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]*model.Task
	seq   int64

	// revision counts committed mutations; updatedAt is when the last
	// one happened. Both are carried into snapshots so an unchanged
	// store saves byte-identically.
	revision  uint64
	updatedAt time.Time

	categories *Registry
	assignee   string
	now        func() time.Time
	log        *zap.Logger
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithClock overrides the time source, for tests that simulate "now".
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for mutation tracing.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithAssignee sets the default assignee for new tasks.
func WithAssignee(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.assignee = name
		}
	}
}

// New returns an empty store backed by the given category registry.
// A nil registry gets a fresh one seeded with the predefined categories.
func New(reg *Registry, opts ...Option) *Store {
	if reg == nil {
		reg = NewRegistry()
	}
	s := &Store{
		tasks:      make(map[string]*model.Task),
		categories: reg,
		assignee:   DefaultAssignee,
		now:        time.Now,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Categories returns the registry backing this store.
func (s *Store) Categories() *Registry {
	return s.categories
}

// Get retrieves a task by ID.
func (s *Store) Get(id string) (*model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	c := t.Clone()
	return &c, nil
}

// Snapshot is an immutable point-in-time serialization of the full task
// collection plus the category registry. Produced by Store.Snapshot,
// consumed by the persistence layer, never mutated after creation.
type Snapshot struct {
	Version    int              `json:"version"`
	Revision   uint64           `json:"revision"`
	TaskCount  int              `json:"task_count"`
	UpdatedAt  time.Time        `json:"updated_at"`
	Tasks      []model.Task     `json:"tasks"`
	Categories []model.Category `json:"categories"`
}

// Snapshot captures the current store contents. Tasks are ordered by
// insertion sequence so the same state always serializes the same way.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t.Clone())
	}
	sortBySeq(tasks)

	return Snapshot{
		Version:    SnapshotVersion,
		Revision:   s.revision,
		TaskCount:  len(tasks),
		UpdatedAt:  s.updatedAt,
		Tasks:      tasks,
		Categories: s.categories.All(),
	}
}

// Load replaces the store contents with a persisted snapshot. Categories
// referenced by tasks are registered even if the snapshot's registry is
// missing them, so older files load cleanly.
func (s *Store) Load(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories.Load(snap.Categories)

	s.tasks = make(map[string]*model.Task, len(snap.Tasks))
	s.seq = 0
	for _, t := range snap.Tasks {
		c := t.Clone()
		s.tasks[c.ID] = &c
		if c.Seq > s.seq {
			s.seq = c.Seq
		}
		if c.Category != "" {
			s.categories.Ensure(c.Category)
		}
	}
	s.revision = snap.Revision
	s.updatedAt = snap.UpdatedAt

	s.log.Debug("store loaded",
		zap.Int("tasks", len(snap.Tasks)),
		zap.Uint64("revision", snap.Revision))
}

// touch records a committed mutation. Caller must hold the write lock.
func (s *Store) touch(now time.Time) {
	s.revision++
	s.updatedAt = now
}
