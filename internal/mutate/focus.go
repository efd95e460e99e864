package mutate

import (
	"strings"
	"time"

	"focus-tools/internal/focus"
	"focus-tools/internal/model"
	"focus-tools/internal/store"
)

type FocusResult struct {
	State        model.FocusModeState
	Exit         *focus.ExitResult
	EventPayload map[string]any
}

// StartFocus starts a session from a queue item id or a task id. Recurring
// tasks focus their active occurrence; other tasks must be queued first.
func StartFocus(db *store.DB, ref string, now time.Time, dayStartHour, scanDays int) (FocusResult, error) {
	ref = strings.TrimSpace(ref)
	if t, ok := db.FindTask(ref); ok && t.IsRecurring() {
		return StartRecurringFocus(db, t.ID, now, dayStartHour, scanDays)
	}
	itemID, err := ResolveQueueItem(db, ref)
	if err != nil {
		return FocusResult{}, err
	}
	st, err := focus.StartFocus(db.Focus, &db.Queue, db.Tasks, itemID, now)
	if err != nil {
		return FocusResult{}, err
	}
	db.Focus = st
	return FocusResult{State: st, EventPayload: map[string]any{"queueItemId": itemID}}, nil
}

func StartRecurringFocus(db *store.DB, taskID string, now time.Time, dayStartHour, scanDays int) (FocusResult, error) {
	t, err := recurringTask(db, taskID)
	if err != nil {
		return FocusResult{}, err
	}
	st, err := focus.StartRecurringFocus(db.Focus, t, now, dayStartHour, scanDays)
	if err != nil {
		return FocusResult{}, err
	}
	db.Focus = st
	return FocusResult{State: st, EventPayload: map[string]any{"instanceDate": st.InstanceDate}}, nil
}

func PauseFocus(db *store.DB, now time.Time) (FocusResult, error) {
	st, err := focus.Pause(db.Focus, now)
	if err != nil {
		return FocusResult{}, err
	}
	db.Focus = st
	return FocusResult{State: st, EventPayload: map[string]any{}}, nil
}

func ResumeFocus(db *store.DB, now time.Time) (FocusResult, error) {
	st, err := focus.Resume(db.Focus, now)
	if err != nil {
		return FocusResult{}, err
	}
	db.Focus = st
	return FocusResult{State: st, EventPayload: map[string]any{"pausedTotalMs": st.PausedTime.Milliseconds()}}, nil
}

// ExitFocus ends the session and appends its record to the session history.
func ExitFocus(db *store.DB, returnTo string, now time.Time) (FocusResult, error) {
	taskID := db.Focus.TaskID
	st, res, err := focus.Exit(db.Focus, db.Tasks, returnTo, now)
	if err != nil {
		return FocusResult{}, err
	}
	db.Focus = st
	db.Sessions = append(db.Sessions, res.Record)
	return FocusResult{
		State: st,
		Exit:  &res,
		EventPayload: map[string]any{
			"taskId":    taskID,
			"route":     res.Route,
			"focusedMs": res.Focused.Milliseconds(),
		},
	}, nil
}

// CompleteFocusStep completes the current step of the session and advances.
func CompleteFocusStep(db *store.DB, now time.Time) (FocusResult, error) {
	if !db.Focus.Active {
		return FocusResult{}, focus.ErrNotActive
	}
	t, _ := db.FindTask(db.Focus.TaskID)
	stepID := db.Focus.CurrentStepID
	st, err := focus.CompleteCurrentStep(db.Focus, db.Queue, t, now)
	if err != nil {
		return FocusResult{}, err
	}
	db.Focus = st
	focus.Touch(&db.Queue, st.QueueItemID, now)
	return FocusResult{State: st, EventPayload: map[string]any{"stepId": stepID, "nextStepId": st.CurrentStepID}}, nil
}

// CompleteFocusedTask completes the focused task, or the focused occurrence
// of a recurring task. The session stays active until exited.
func CompleteFocusedTask(db *store.DB, now time.Time) (FocusResult, error) {
	if !db.Focus.Active {
		return FocusResult{}, focus.ErrNotActive
	}
	st := db.Focus
	if st.InstanceDate != "" {
		if _, err := CompleteOccurrence(db, st.TaskID, st.InstanceDate, now); err != nil {
			return FocusResult{}, err
		}
	} else if _, err := CompleteTask(db, st.TaskID, now); err != nil {
		return FocusResult{}, err
	}
	return FocusResult{State: st, EventPayload: map[string]any{"taskId": st.TaskID, "instanceDate": st.InstanceDate}}, nil
}
