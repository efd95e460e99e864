package store

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEvents_AppendAndReadForEntity(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	base := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)

	if err := s.AppendEvent(base, "task.create", "task-1", map[string]any{"title": "A"}); err != nil {
		t.Fatalf("append 1: %v", err)
	}
	if err := s.AppendEvent(base.Add(time.Minute), "focus.start", "task-1", nil); err != nil {
		t.Fatalf("append 2: %v", err)
	}
	if err := s.AppendEvent(base.Add(2*time.Minute), "task.create", "task-2", map[string]any{"title": "B"}); err != nil {
		t.Fatalf("append 3: %v", err)
	}

	evs, err := s.ReadEventsForEntity("task-1", 0)
	if err != nil {
		t.Fatalf("read entity events: %v", err)
	}
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].Type != "task.create" || evs[1].Type != "focus.start" {
		t.Fatalf("unexpected order: %q then %q", evs[0].Type, evs[1].Type)
	}
	var payload map[string]any
	if err := json.Unmarshal(evs[0].Payload, &payload); err != nil || payload["title"] != "A" {
		t.Fatalf("unexpected payload %s (err=%v)", evs[0].Payload, err)
	}
	if !evs[1].TS.Equal(base.Add(time.Minute)) {
		t.Fatalf("unexpected ts: %v", evs[1].TS)
	}

	tail, err := s.ReadEventsForEntity("task-1", 1)
	if err != nil {
		t.Fatalf("read tail: %v", err)
	}
	if len(tail) != 1 || tail[0].Type != "focus.start" {
		t.Fatalf("expected newest event only; got %+v", tail)
	}

	// Saving a snapshot never touches the events table.
	if err := s.Save(&DB{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if evs, _ := s.ReadEventsForEntity("task-2", 0); len(evs) != 1 {
		t.Fatalf("expected events to survive a save; got %d", len(evs))
	}
}
