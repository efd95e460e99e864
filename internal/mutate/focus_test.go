package mutate

import (
	"errors"
	"testing"
	"time"

	"focus-tools/internal/focus"
	"focus-tools/internal/model"
	"focus-tools/internal/store"
)

func focusDB() *store.DB {
	return &store.DB{
		Tasks: []model.Task{
			{ID: "task-1", Title: "Write report", Status: model.StatusPool, Steps: []model.Step{{ID: "s1", Text: "Outline"}, {ID: "s2", Text: "Draft"}}},
			{ID: "task-2", Title: "Call Sam", Status: model.StatusPool},
		},
	}
}

func TestQueueOperations(t *testing.T) {
	db := focusDB()
	a, err := QueueAdd(db, "task-1", "", nil, focus.SectionToday, now)
	if err != nil {
		t.Fatalf("QueueAdd error: %v", err)
	}
	if a.Section != focus.SectionToday || a.EventPayload["updated"] != false {
		t.Fatalf("unexpected result: %+v", a)
	}
	b, _ := QueueAdd(db, "task-2", "", nil, focus.SectionUpcoming, now)
	if b.Section != focus.SectionUpcoming || db.Queue.TodayLineIndex != 1 {
		t.Fatalf("expected upcoming item; queue=%+v", db.Queue)
	}

	again, err := QueueAdd(db, "task-1", model.SelectionSpecificSteps, []string{"s2"}, focus.SectionUpcoming, now)
	if err != nil || again.EventPayload["updated"] != true || again.Item.ID != a.Item.ID {
		t.Fatalf("expected in-place update; got %+v err=%v", again, err)
	}

	if _, err := QueueSetSection(db, "task-2", focus.SectionToday); err != nil {
		t.Fatalf("QueueSetSection error: %v", err)
	}
	if db.Queue.TodayLineIndex != 2 {
		t.Fatalf("expected both items today; queue=%+v", db.Queue)
	}
	if _, err := QueueMove(db, b.Item.ID, 0); err != nil {
		t.Fatalf("QueueMove error: %v", err)
	}
	if db.Queue.Items[0].TaskID != "task-2" {
		t.Fatalf("expected task-2 first; queue=%+v", db.Queue.Items)
	}
	if _, err := QueueRemove(db, "qi-missing"); !IsNotFound(err) {
		t.Fatalf("expected not found; got %v", err)
	}
	if _, err := QueueRemove(db, "task-1"); err != nil || len(db.Queue.Items) != 1 {
		t.Fatalf("expected removal by task id; err=%v queue=%+v", err, db.Queue)
	}
}

func TestFocusLifecycle(t *testing.T) {
	db := focusDB()
	if _, err := StartFocus(db, "task-1", now, 0, 90); !IsNotFound(err) {
		t.Fatalf("unqueued task should not start; got %v", err)
	}
	_, _ = QueueAdd(db, "task-1", "", nil, focus.SectionToday, now)

	res, err := StartFocus(db, "task-1", now, 0, 90)
	if err != nil {
		t.Fatalf("StartFocus error: %v", err)
	}
	if !res.State.Active || res.State.CurrentStepID != "s1" {
		t.Fatalf("unexpected state: %+v", res.State)
	}
	if _, err := StartFocus(db, "task-1", now, 0, 90); !errors.Is(err, focus.ErrSessionActive) {
		t.Fatalf("expected ErrSessionActive; got %v", err)
	}

	t1 := now.Add(10 * time.Minute)
	if _, err := PauseFocus(db, t1); err != nil {
		t.Fatalf("PauseFocus error: %v", err)
	}
	if _, err := ResumeFocus(db, t1.Add(5*time.Minute)); err != nil {
		t.Fatalf("ResumeFocus error: %v", err)
	}

	t2 := now.Add(20 * time.Minute)
	step, err := CompleteFocusStep(db, t2)
	if err != nil || step.State.CurrentStepID != "s2" {
		t.Fatalf("expected to advance to s2; got %+v err=%v", step.State, err)
	}
	if _, err := CompleteFocusedTask(db, t2); err != nil {
		t.Fatalf("CompleteFocusedTask error: %v", err)
	}

	out, err := ExitFocus(db, "", now.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("ExitFocus error: %v", err)
	}
	if out.Exit.Route != focus.RouteTaskDetail {
		t.Fatalf("expected task_detail route; got %q", out.Exit.Route)
	}
	if out.Exit.Focused != 25*time.Minute {
		t.Fatalf("expected 25m focused; got %v", out.Exit.Focused)
	}
	if db.Focus.Active || len(db.Sessions) != 1 || db.Sessions[0].TaskID != "task-1" {
		t.Fatalf("expected idle state and one session; focus=%+v sessions=%+v", db.Focus, db.Sessions)
	}
	if !db.Queue.Items[0].Completed {
		t.Fatalf("expected queue item marked completed")
	}
	if _, err := ExitFocus(db, "", now); !errors.Is(err, focus.ErrNotActive) {
		t.Fatalf("expected ErrNotActive; got %v", err)
	}
}

func TestStartFocus_RecurringUsesOccurrence(t *testing.T) {
	db := recurringDB()
	_, _ = SetRecurrence(db, "task-1", model.RecurrenceRule{Frequency: model.FrequencyDaily, StartDate: "2024-05-01"}, now)

	res, err := StartFocus(db, "task-1", now, 0, 90)
	if err != nil {
		t.Fatalf("StartFocus error: %v", err)
	}
	if res.State.InstanceDate != "2024-05-20" || res.State.QueueItemID != "" {
		t.Fatalf("unexpected state: %+v", res.State)
	}
	if _, err := CompleteFocusedTask(db, now.Add(time.Minute)); err != nil {
		t.Fatalf("CompleteFocusedTask error: %v", err)
	}
	if db.Tasks[0].Status == model.StatusComplete {
		t.Fatalf("recurring task itself must stay open")
	}
	out, _ := ExitFocus(db, "queue", now.Add(2*time.Minute))
	if out.Exit.Route != focus.RouteTaskDetail || out.Exit.Record.InstanceDate != "2024-05-20" {
		t.Fatalf("unexpected exit: %+v", out.Exit)
	}
}
