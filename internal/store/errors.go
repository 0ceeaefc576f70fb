package store

import (
	"fmt"

	"github.com/ChrisZHHG/taskdeck/internal/model"
)

// ValidationError reports a single field rule violation. No mutation is
// performed when one is returned.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Rule)
}

// NotFoundError reports an operation against an unknown task identifier.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s (use 'taskdeck list' to see available tasks)", e.ID)
}

// InvalidTransitionError reports an operation that is not allowed in the
// task's current status. The task is left unchanged.
type InvalidTransitionError struct {
	ID   string
	From model.Status
	Op   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s task %s: status is %q", e.Op, e.ID, e.From)
}
