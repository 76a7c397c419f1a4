package cli

import (
	"strings"
	"testing"
	"time"

	"taskboard/internal/domain"
)

func TestDoneMessage(t *testing.T) {
	when := time.Date(2026, 8, 31, 14, 30, 0, 0, time.Local)
	withTimestamp := &domain.Task{
		Title:       "Ship it",
		Status:      domain.StatusDone,
		CompletedAt: &when,
	}
	got := doneMessage(withTimestamp)
	if !strings.HasPrefix(got, "Done: Ship it") || !strings.Contains(got, "2026-08-31 14:30") {
		t.Errorf("doneMessage = %q", got)
	}

	// A nonconforming server may answer without the timestamp.
	withoutTimestamp := &domain.Task{Title: "Ship it", Status: domain.StatusDone}
	if got := doneMessage(withoutTimestamp); got != "Done: Ship it" {
		t.Errorf("doneMessage without timestamp = %q", got)
	}
}
