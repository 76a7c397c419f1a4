// Package filter derives the visible subset of the task cache. It is a pure
// projection: it never mutates its input and is recomputed from the latest
// cache snapshot whenever the criteria or the cache change.
package filter

import (
	"strings"

	"taskboard/internal/domain"
)

// Criteria narrows the visible task set. Zero-valued fields are skipped.
type Criteria struct {
	Status     domain.Status
	AssignedTo string
	Search     string
}

func (c Criteria) IsZero() bool {
	return c.Status == "" && c.AssignedTo == "" && c.Search == ""
}

// Matches reports whether a single task satisfies every non-empty criterion.
func Matches(t domain.Task, c Criteria) bool {
	if c.Status != "" && t.Status != c.Status {
		return false
	}
	if c.AssignedTo != "" && (t.AssignedTo == nil || *t.AssignedTo != c.AssignedTo) {
		return false
	}
	if c.Search != "" {
		needle := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false
		}
	}
	return true
}

// Apply returns the tasks satisfying the criteria, preserving their relative
// order. The result is always a fresh slice.
func Apply(tasks []domain.Task, c Criteria) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if Matches(t, c) {
			out = append(out, t)
		}
	}
	return out
}
