package mutate

import (
	"slices"
	"strings"
	"time"

	"focus-tools/internal/model"
	"focus-tools/internal/store"
)

type StepResult struct {
	Task         *model.Task
	Step         model.Step
	Changed      bool
	EventPayload map[string]any
}

// AddStep appends a step. On a recurring task the step joins the template and
// shows up in occurrences materialized from now on.
func AddStep(db *store.DB, taskID, text string, estimatedMinutes *int, now time.Time) (StepResult, error) {
	t, err := liveTask(db, taskID)
	if err != nil {
		return StepResult{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return StepResult{}, ErrTitleRequired
	}
	if estimatedMinutes != nil && *estimatedMinutes < 0 {
		return StepResult{}, ErrInvalidValue
	}
	st := model.Step{ID: model.NewID("step"), Text: text}
	if estimatedMinutes != nil {
		m := *estimatedMinutes
		st.EstimatedMinutes = &m
	}
	t.Steps = append(t.Steps, st)
	t.Touch(now)
	return StepResult{
		Task:         t,
		Step:         st,
		Changed:      true,
		EventPayload: map[string]any{"stepId": st.ID, "text": st.Text},
	}, nil
}

func findTaskStep(t *model.Task, stepID string) int {
	stepID = strings.TrimSpace(stepID)
	return slices.IndexFunc(t.Steps, func(s model.Step) bool { return s.ID == stepID })
}

// ToggleStep flips a step of a one-off task. Recurring tasks toggle steps per
// occurrence via ToggleRecurringStep.
func ToggleStep(db *store.DB, taskID, stepID string, now time.Time) (StepResult, error) {
	t, err := liveTask(db, taskID)
	if err != nil {
		return StepResult{}, err
	}
	if t.IsRecurring() {
		return StepResult{}, ErrTemplateStep
	}
	i := findTaskStep(t, stepID)
	if i < 0 {
		return StepResult{}, NotFoundError{Kind: "step", ID: stepID}
	}
	st := &t.Steps[i]
	st.Completed = !st.Completed
	if st.Completed {
		at := now
		st.CompletedAt = &at
	} else {
		st.CompletedAt = nil
	}
	t.Touch(now)
	return StepResult{
		Task:         t,
		Step:         *st,
		Changed:      true,
		EventPayload: map[string]any{"stepId": st.ID, "completed": st.Completed},
	}, nil
}

func RemoveStep(db *store.DB, taskID, stepID string, now time.Time) (StepResult, error) {
	t, err := liveTask(db, taskID)
	if err != nil {
		return StepResult{}, err
	}
	i := findTaskStep(t, stepID)
	if i < 0 {
		return StepResult{}, NotFoundError{Kind: "step", ID: stepID}
	}
	st := t.Steps[i]
	t.Steps = slices.Delete(t.Steps, i, i+1)
	// Queue selections must not point at a step that no longer exists.
	for j := range db.Queue.Items {
		it := &db.Queue.Items[j]
		if it.TaskID != t.ID || it.SelectionType != model.SelectionSpecificSteps {
			continue
		}
		it.SelectedStepIDs = slices.DeleteFunc(it.SelectedStepIDs, func(id string) bool { return id == st.ID })
		if len(it.SelectedStepIDs) == 0 {
			it.SelectionType = model.SelectionAllToday
		}
	}
	t.Touch(now)
	return StepResult{
		Task:         t,
		Step:         st,
		Changed:      true,
		EventPayload: map[string]any{"stepId": st.ID},
	}, nil
}
