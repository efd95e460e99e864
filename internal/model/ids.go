package model

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns prefix-<8 hex chars> drawn from a random UUID.
func NewID(prefix string) string {
	u := uuid.New()
	suffix := strings.ReplaceAll(u.String(), "-", "")[:8]
	if prefix == "" {
		return suffix
	}
	return prefix + "-" + suffix
}

// CloneSteps deep-copies steps so the result shares no pointers with the input.
func CloneSteps(steps []Step) []Step {
	if steps == nil {
		return nil
	}
	out := make([]Step, len(steps))
	for i, s := range steps {
		out[i] = s
		if s.CompletedAt != nil {
			t := *s.CompletedAt
			out[i].CompletedAt = &t
		}
		if s.EstimatedMinutes != nil {
			m := *s.EstimatedMinutes
			out[i].EstimatedMinutes = &m
		}
	}
	return out
}
