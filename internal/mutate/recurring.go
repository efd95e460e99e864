package mutate

import (
	"fmt"
	"strings"
	"time"

	"focus-tools/internal/dates"
	"focus-tools/internal/focus"
	"focus-tools/internal/model"
	"focus-tools/internal/recurrence"
	"focus-tools/internal/store"
)

type OccurrenceResult struct {
	Task         *model.Task
	Instance     model.RecurringInstance
	Changed      bool
	EventPayload map[string]any
}

// SetRecurrence makes a task recurring (or replaces its rule). Recurring tasks
// are focused by occurrence, so any queue item for the task is dropped.
func SetRecurrence(db *store.DB, taskID string, rule model.RecurrenceRule, now time.Time) (TaskResult, error) {
	t, err := liveTask(db, taskID)
	if err != nil {
		return TaskResult{}, err
	}
	if rule.Interval == 0 {
		rule.Interval = 1
	}
	if err := recurrence.Validate(rule); err != nil {
		return TaskResult{}, fmt.Errorf("set recurrence: %w", err)
	}
	if t.Recurrence != nil && t.Recurrence.PausedAt != nil && rule.PausedAt == nil {
		rule.PausedAt = t.Recurrence.PausedAt
	}
	r := rule
	t.Recurrence = &r
	t.Touch(now)
	if i := focus.ItemForTask(db.Queue, t.ID); i >= 0 {
		_ = focus.Remove(&db.Queue, db.Queue.Items[i].ID)
	}
	return TaskResult{
		Task:    t,
		Changed: true,
		EventPayload: map[string]any{
			"frequency": string(r.Frequency),
			"interval":  r.Interval,
			"startDate": r.StartDate,
		},
	}, nil
}

// ClearRecurrence turns a recurring task back into a one-off. Instance history is kept.
func ClearRecurrence(db *store.DB, taskID string, now time.Time) (TaskResult, error) {
	t, err := liveTask(db, taskID)
	if err != nil {
		return TaskResult{}, err
	}
	if !t.IsRecurring() {
		return TaskResult{Task: t, Changed: false}, nil
	}
	t.Recurrence = nil
	t.Touch(now)
	return TaskResult{Task: t, Changed: true, EventPayload: map[string]any{}}, nil
}

func recurringTask(db *store.DB, taskID string) (*model.Task, error) {
	t, err := liveTask(db, taskID)
	if err != nil {
		return nil, err
	}
	if !t.IsRecurring() {
		return nil, ErrNotRecurring
	}
	return t, nil
}

// PauseRecurrence stops occurrences from coming due until resumed.
func PauseRecurrence(db *store.DB, taskID string, now time.Time) (TaskResult, error) {
	t, err := recurringTask(db, taskID)
	if err != nil {
		return TaskResult{}, err
	}
	if t.Recurrence.PausedAt != nil {
		return TaskResult{Task: t, Changed: false}, nil
	}
	at := now
	t.Recurrence.PausedAt = &at
	t.Touch(now)
	return TaskResult{Task: t, Changed: true, EventPayload: map[string]any{"paused": true}}, nil
}

func ResumeRecurrence(db *store.DB, taskID string, now time.Time) (TaskResult, error) {
	t, err := recurringTask(db, taskID)
	if err != nil {
		return TaskResult{}, err
	}
	if t.Recurrence.PausedAt == nil {
		return TaskResult{Task: t, Changed: false}, nil
	}
	t.Recurrence.PausedAt = nil
	t.Touch(now)
	return TaskResult{Task: t, Changed: true, EventPayload: map[string]any{"paused": false}}, nil
}

func occurrenceDate(t *model.Task, date string) (string, error) {
	date = strings.TrimSpace(date)
	if !dates.Valid(date) {
		return "", ErrInvalidDate
	}
	if !recurrence.Matches(date, *t.Recurrence) {
		if _, ok := recurrence.FindInstance(*t, date); !ok {
			return "", NotFoundError{Kind: "occurrence", ID: t.ID + "@" + date}
		}
	}
	return date, nil
}

func occurrenceResult(t *model.Task, date string, payload map[string]any) OccurrenceResult {
	inst, _ := recurrence.FindInstance(*t, date)
	payload["date"] = date
	return OccurrenceResult{Task: t, Instance: inst, Changed: true, EventPayload: payload}
}

// ToggleRecurringStep flips one step of the occurrence on date. A template step id
// materializes an occurrence that does not exist yet; an unknown id changes nothing.
func ToggleRecurringStep(db *store.DB, taskID, date, stepID string, now time.Time) (OccurrenceResult, error) {
	t, err := recurringTask(db, taskID)
	if err != nil {
		return OccurrenceResult{}, err
	}
	if date, err = occurrenceDate(t, date); err != nil {
		return OccurrenceResult{}, err
	}
	if !recurrence.ToggleInstanceStep(t, date, strings.TrimSpace(stepID), now) {
		return OccurrenceResult{}, NotFoundError{Kind: "step", ID: stepID}
	}
	t.Touch(now)
	return occurrenceResult(t, date, map[string]any{"stepId": stepID}), nil
}

func SkipOccurrence(db *store.DB, taskID, date string, now time.Time) (OccurrenceResult, error) {
	t, err := recurringTask(db, taskID)
	if err != nil {
		return OccurrenceResult{}, err
	}
	if date, err = occurrenceDate(t, date); err != nil {
		return OccurrenceResult{}, err
	}
	recurrence.SkipInstance(t, date)
	t.Touch(now)
	return occurrenceResult(t, date, map[string]any{"skipped": true}), nil
}

func CompleteOccurrence(db *store.DB, taskID, date string, now time.Time) (OccurrenceResult, error) {
	t, err := recurringTask(db, taskID)
	if err != nil {
		return OccurrenceResult{}, err
	}
	if date, err = occurrenceDate(t, date); err != nil {
		return OccurrenceResult{}, err
	}
	recurrence.CompleteInstance(t, date, now)
	t.Touch(now)
	return occurrenceResult(t, date, map[string]any{"completed": true}), nil
}

// AddOccurrenceStep adds a one-off step to a single occurrence.
func AddOccurrenceStep(db *store.DB, taskID, date, text string, now time.Time) (OccurrenceResult, error) {
	t, err := recurringTask(db, taskID)
	if err != nil {
		return OccurrenceResult{}, err
	}
	if date, err = occurrenceDate(t, date); err != nil {
		return OccurrenceResult{}, err
	}
	st, ok := recurrence.AddInstanceStep(t, date, text)
	if !ok {
		return OccurrenceResult{}, ErrTitleRequired
	}
	t.Touch(now)
	return occurrenceResult(t, date, map[string]any{"stepId": st.ID, "text": st.Text}), nil
}

// PromoteOccurrenceStep makes an occurrence-only step part of the routine.
func PromoteOccurrenceStep(db *store.DB, taskID, date, stepID string, now time.Time) (OccurrenceResult, error) {
	t, err := recurringTask(db, taskID)
	if err != nil {
		return OccurrenceResult{}, err
	}
	if date, err = occurrenceDate(t, date); err != nil {
		return OccurrenceResult{}, err
	}
	if !recurrence.PromoteStep(t, date, strings.TrimSpace(stepID)) {
		return OccurrenceResult{}, NotFoundError{Kind: "step", ID: stepID}
	}
	t.Touch(now)
	return occurrenceResult(t, date, map[string]any{"stepId": stepID, "promoted": true}), nil
}

// DemoteOccurrenceStep removes a routine step from the template, keeping it on this occurrence only.
func DemoteOccurrenceStep(db *store.DB, taskID, date, stepID string, now time.Time) (OccurrenceResult, error) {
	t, err := recurringTask(db, taskID)
	if err != nil {
		return OccurrenceResult{}, err
	}
	if date, err = occurrenceDate(t, date); err != nil {
		return OccurrenceResult{}, err
	}
	if !recurrence.DemoteStep(t, date, strings.TrimSpace(stepID)) {
		return OccurrenceResult{}, NotFoundError{Kind: "step", ID: stepID}
	}
	t.Touch(now)
	return occurrenceResult(t, date, map[string]any{"stepId": stepID, "demoted": true}), nil
}
