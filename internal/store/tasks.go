package store

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ChrisZHHG/taskdeck/internal/model"
)

// CreateFields carries the caller-supplied attributes for a new task.
// Zero values fall back to defaults: priority 4, short term duration, the
// store's default assignee, and a due date computed from the duration
// class. A non-nil Due overrides the computed due date.
type CreateFields struct {
	Title         string
	Description   string
	Category      string
	Priority      model.Priority
	Duration      model.DurationClass
	Due           *time.Time
	Place         string
	Assignee      string
	Collaborators []string
	Tags          []string
}

// UpdateFields carries a partial update. Nil pointers leave the field
// unchanged.
type UpdateFields struct {
	Title         *string
	Description   *string
	Category      *string
	Priority      *model.Priority
	Duration      *model.DurationClass
	Due           *time.Time
	Place         *string
	Assignee      *string
	Collaborators *[]string
	Tags          *[]string
}

// Create validates the fields, assigns an identifier and timestamps, and
// inserts a new pending task. A previously unseen category is appended to
// the registry as a custom category.
func (s *Store) Create(fields CreateFields) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()

	id := model.NewID()
	for s.tasks[id] != nil {
		id = model.NewID()
	}

	t := model.Task{
		ID:            id,
		Seq:           s.seq + 1,
		Title:         strings.TrimSpace(fields.Title),
		Description:   fields.Description,
		Category:      strings.TrimSpace(fields.Category),
		Priority:      fields.Priority,
		Duration:      fields.Duration,
		Status:        model.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
		Place:         fields.Place,
		Assignee:      fields.Assignee,
		Collaborators: dedupe(fields.Collaborators),
		Tags:          dedupe(fields.Tags),
	}
	if t.Priority == 0 {
		t.Priority = model.DefaultPriority
	}
	if t.Duration == "" {
		t.Duration = model.DefaultDuration
	}
	if t.Assignee == "" {
		t.Assignee = s.assignee
	}
	if fields.Due != nil {
		t.DueAt = fields.Due.UTC()
		t.DueSet = true
	} else {
		t.DueAt = model.DueDate(t.CreatedAt, t.Duration)
	}

	if errs := Validate(t, s.categories); len(errs) > 0 {
		return nil, errs[0]
	}

	t.Category = s.categories.Ensure(t.Category)
	s.tasks[t.ID] = &t
	s.seq = t.Seq
	s.touch(now)

	s.log.Debug("task created", zap.String("id", t.ID), zap.String("title", t.Title))

	c := t.Clone()
	return &c, nil
}

// Update applies a partial update to an active task. Only pending and
// postponed tasks can be edited; completed tasks are frozen and deleted
// tasks are tombstones awaiting purge. If the duration class changes and
// no explicit due date was ever supplied, the due date is recomputed from
// the original creation timestamp, not from now.
func (s *Store) Update(id string, fields UpdateFields) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	if t.Status != model.StatusPending && t.Status != model.StatusPostponed {
		return nil, &InvalidTransitionError{ID: id, From: t.Status, Op: "update"}
	}

	candidate := t.Clone()
	if fields.Title != nil {
		candidate.Title = strings.TrimSpace(*fields.Title)
	}
	if fields.Description != nil {
		candidate.Description = *fields.Description
	}
	if fields.Category != nil {
		candidate.Category = strings.TrimSpace(*fields.Category)
	}
	if fields.Priority != nil {
		candidate.Priority = *fields.Priority
	}
	if fields.Duration != nil {
		candidate.Duration = *fields.Duration
		if fields.Due == nil && !candidate.DueSet {
			candidate.DueAt = model.DueDate(candidate.CreatedAt, candidate.Duration)
		}
	}
	if fields.Due != nil {
		candidate.DueAt = fields.Due.UTC()
		candidate.DueSet = true
	}
	if fields.Place != nil {
		candidate.Place = *fields.Place
	}
	if fields.Assignee != nil {
		candidate.Assignee = *fields.Assignee
	}
	if fields.Collaborators != nil {
		candidate.Collaborators = dedupe(*fields.Collaborators)
	}
	if fields.Tags != nil {
		candidate.Tags = dedupe(*fields.Tags)
	}

	if errs := Validate(candidate, s.categories); len(errs) > 0 {
		return nil, errs[0]
	}

	now := s.now().UTC()
	candidate.Category = s.categories.Ensure(candidate.Category)
	candidate.UpdatedAt = now
	*t = candidate
	s.touch(now)

	s.log.Debug("task updated", zap.String("id", id))

	c := t.Clone()
	return &c, nil
}

// Complete marks a pending task completed, recording the completion time
// that freezes its elapsed clock.
func (s *Store) Complete(id string) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	if t.Status != model.StatusPending {
		return nil, &InvalidTransitionError{ID: id, From: t.Status, Op: "complete"}
	}

	now := s.now().UTC()
	t.Status = model.StatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
	s.touch(now)

	s.log.Debug("task completed", zap.String("id", id))

	c := t.Clone()
	return &c, nil
}

// Postpone moves a task's due date later and marks it postponed. The new
// due must be strictly later than the current one; the displaced due date
// is appended to the task's due history. Postponing an already postponed
// task pushes the date out again.
func (s *Store) Postpone(id string, newDue time.Time) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	if t.Status != model.StatusPending && t.Status != model.StatusPostponed {
		return nil, &InvalidTransitionError{ID: id, From: t.Status, Op: "postpone"}
	}

	newDue = newDue.UTC()
	if !newDue.After(t.DueAt) {
		return nil, &ValidationError{Field: "due", Rule: "must be later than the current due date"}
	}

	now := s.now().UTC()
	t.DueHistory = append(t.DueHistory, t.DueAt)
	t.DueAt = newDue
	t.DueSet = true
	t.Status = model.StatusPostponed
	t.UpdatedAt = now
	s.touch(now)

	s.log.Debug("task postponed", zap.String("id", id), zap.Time("due", newDue))

	c := t.Clone()
	return &c, nil
}

// Restore reactivates a postponed task back to pending. This is the only
// path back to pending; deleted tasks stay deleted until purged.
func (s *Store) Restore(id string) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	if t.Status != model.StatusPostponed {
		return nil, &InvalidTransitionError{ID: id, From: t.Status, Op: "restore"}
	}

	now := s.now().UTC()
	t.Status = model.StatusPending
	t.UpdatedAt = now
	s.touch(now)

	s.log.Debug("task restored", zap.String("id", id))

	c := t.Clone()
	return &c, nil
}

// Delete soft-deletes a task, turning it into a tombstone that is hidden
// from default listings but retained for audit until purged. Completed
// tasks may be deleted too (archiving).
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	if t.Status == model.StatusDeleted {
		return &InvalidTransitionError{ID: id, From: t.Status, Op: "delete"}
	}

	now := s.now().UTC()
	t.Status = model.StatusDeleted
	t.DeletedAt = &now
	t.UpdatedAt = now
	s.touch(now)

	s.log.Debug("task deleted", zap.String("id", id))
	return nil
}

// Purge permanently removes a tombstone from the collection. Only valid
// on tasks already deleted.
func (s *Store) Purge(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	if t.Status != model.StatusDeleted {
		return &InvalidTransitionError{ID: id, From: t.Status, Op: "purge"}
	}

	delete(s.tasks, id)
	s.touch(s.now().UTC())

	s.log.Debug("task purged", zap.String("id", id))
	return nil
}

// PurgeExpired removes every tombstone deleted longer than maxAge ago and
// reports how many were removed.
func (s *Store) PurgeExpired(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	cutoff := now.Add(-maxAge)

	var purged int
	for id, t := range s.tasks {
		if t.Status == model.StatusDeleted && t.DeletedAt != nil && t.DeletedAt.Before(cutoff) {
			delete(s.tasks, id)
			purged++
		}
	}
	if purged > 0 {
		s.touch(now)
		s.log.Debug("expired tombstones purged", zap.Int("count", purged))
	}
	return purged
}

// dedupe trims, drops empties, and removes case-insensitive duplicates
// while preserving first-seen order and spelling. Returns nil for an
// effectively empty input so omitted and empty lists serialize the same.
func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
