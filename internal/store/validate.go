package store

import (
	"unicode/utf8"

	"github.com/ChrisZHHG/taskdeck/internal/model"
)

// Field limits enforced by Validate.
const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 500
	MaxCategoryLen    = 50
)

// Validate checks every field rule against a candidate task and returns one
// ValidationError per violated rule, in field declaration order. An empty
// result means the candidate is acceptable. The store applies the first
// violation only (fail-fast); callers that want the full picture, such as a
// form UI, use the whole slice.
//
// The registry is consulted for category membership: a registered name
// passes regardless of length, an unregistered one must fit the custom
// category limit so it can be appended on commit.
func Validate(t model.Task, reg *Registry) []*ValidationError {
	var errs []*ValidationError

	if t.Title == "" {
		errs = append(errs, &ValidationError{Field: "title", Rule: "is required"})
	} else if utf8.RuneCountInString(t.Title) > MaxTitleLen {
		errs = append(errs, &ValidationError{Field: "title", Rule: "must be 100 characters or fewer"})
	}

	if utf8.RuneCountInString(t.Description) > MaxDescriptionLen {
		errs = append(errs, &ValidationError{Field: "description", Rule: "must be 500 characters or fewer"})
	}

	if t.Category == "" {
		errs = append(errs, &ValidationError{Field: "category", Rule: "is required"})
	} else if _, ok := reg.Canonical(t.Category); !ok && utf8.RuneCountInString(t.Category) > MaxCategoryLen {
		errs = append(errs, &ValidationError{Field: "category", Rule: "must be 50 characters or fewer"})
	}

	if !t.Priority.IsValid() {
		errs = append(errs, &ValidationError{Field: "priority", Rule: "must be between 1 and 4"})
	}

	if !t.Duration.IsValid() {
		errs = append(errs, &ValidationError{Field: "duration", Rule: "must be one of short term, mid term, long term"})
	}

	if !t.DueAt.After(t.CreatedAt) {
		errs = append(errs, &ValidationError{Field: "due", Rule: "must be after the creation time"})
	}

	return errs
}
