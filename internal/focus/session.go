package focus

import (
	"slices"
	"time"

	"focus-tools/internal/model"
	"focus-tools/internal/recurrence"
)

type Phase string

const (
	PhaseIdle   Phase = "idle"
	PhaseActive Phase = "active"
	PhasePaused Phase = "paused"
)

// RouteTaskDetail is where Exit sends the host when the task was finished during the session.
const RouteTaskDetail = "task_detail"

// DefaultReturnRoute is used when the caller does not say where it came from.
const DefaultReturnRoute = "queue"

func PhaseOf(s model.FocusModeState) Phase {
	switch {
	case !s.Active:
		return PhaseIdle
	case s.Paused:
		return PhasePaused
	default:
		return PhaseActive
	}
}

// ScopeSteps resolves the steps a queue item covers, in task order.
func ScopeSteps(task model.Task, item model.FocusQueueItem) []model.Step {
	if item.SelectionType != model.SelectionSpecificSteps {
		return task.Steps
	}
	out := make([]model.Step, 0, len(item.SelectedStepIDs))
	for _, s := range task.Steps {
		if slices.Contains(item.SelectedStepIDs, s.ID) {
			out = append(out, s)
		}
	}
	return out
}

func firstOpen(steps []model.Step) string {
	for _, s := range steps {
		if !s.Completed {
			return s.ID
		}
	}
	return ""
}

// StartFocus begins a session on a queued task. On error the previous state is returned.
func StartFocus(state model.FocusModeState, q *model.FocusQueue, tasks []model.Task, itemID string, now time.Time) (model.FocusModeState, error) {
	if state.Active {
		return state, ErrSessionActive
	}
	i := FindItem(*q, itemID)
	if i < 0 {
		return state, ErrQueueItemNotFound
	}
	item := q.Items[i]
	task, ok := FindTask(tasks, item.TaskID)
	if !ok {
		return state, ErrTaskNotFound
	}
	q.Items[i].LastInteractedAt = now
	return model.FocusModeState{
		Active:        true,
		QueueItemID:   item.ID,
		TaskID:        task.ID,
		CurrentStepID: firstOpen(ScopeSteps(task, item)),
		StartTime:     now,
	}, nil
}

// StartRecurringFocus begins a session on the task's active occurrence,
// materializing the instance if needed.
func StartRecurringFocus(state model.FocusModeState, task *model.Task, now time.Time, dayStartHour, scanDays int) (model.FocusModeState, error) {
	if state.Active {
		return state, ErrSessionActive
	}
	if task == nil || task.IsDeleted() {
		return state, ErrTaskNotFound
	}
	date, ok := recurrence.ActiveOccurrenceDate(*task, now, dayStartHour, scanDays)
	if !ok {
		return state, ErrNoActiveOccurrence
	}
	inst := recurrence.EnsureInstance(task, date)
	if inst == nil {
		return state, ErrNoActiveOccurrence
	}
	return model.FocusModeState{
		Active:        true,
		TaskID:        task.ID,
		InstanceDate:  date,
		CurrentStepID: firstOpen(inst.Steps()),
		StartTime:     now,
	}, nil
}

func Pause(state model.FocusModeState, now time.Time) (model.FocusModeState, error) {
	if !state.Active {
		return state, ErrNotActive
	}
	if state.Paused {
		return state, ErrAlreadyPaused
	}
	state.Paused = true
	at := now
	state.PauseStartTime = &at
	return state, nil
}

func Resume(state model.FocusModeState, now time.Time) (model.FocusModeState, error) {
	if !state.Active {
		return state, ErrNotActive
	}
	if !state.Paused {
		return state, ErrNotPaused
	}
	if state.PauseStartTime != nil {
		if d := now.Sub(*state.PauseStartTime); d > 0 {
			state.PausedTime += d
		}
	}
	state.Paused = false
	state.PauseStartTime = nil
	return state, nil
}

// Elapsed is the focused time so far: wall time since start minus pauses.
// A paused session does not accrue time.
func Elapsed(state model.FocusModeState, now time.Time) time.Duration {
	if !state.Active {
		return 0
	}
	end := now
	if state.Paused && state.PauseStartTime != nil {
		end = *state.PauseStartTime
	}
	return max(end.Sub(state.StartTime)-state.PausedTime, 0)
}

// ExitResult tells the host where to go and what to record.
type ExitResult struct {
	Route   string                   `json:"route" yaml:"route"`
	Focused time.Duration            `json:"focused" yaml:"focused"`
	Record  model.FocusSessionRecord `json:"record" yaml:"record"`
}

// Exit ends the session from any non-idle phase. The host goes to the task
// detail view when the task (or, for recurring focus, its occurrence) was
// completed after the session started, and back to returnTo otherwise.
func Exit(state model.FocusModeState, tasks []model.Task, returnTo string, now time.Time) (model.FocusModeState, ExitResult, error) {
	if !state.Active {
		return state, ExitResult{}, ErrNotActive
	}
	if returnTo == "" {
		returnTo = DefaultReturnRoute
	}
	focused := Elapsed(state, now)
	route := returnTo
	if task, ok := FindTask(tasks, state.TaskID); ok && completedDuring(task, state) {
		route = RouteTaskDetail
	}
	res := ExitResult{
		Route:   route,
		Focused: focused,
		Record: model.FocusSessionRecord{
			ID:           model.NewID("session"),
			TaskID:       state.TaskID,
			QueueItemID:  state.QueueItemID,
			InstanceDate: state.InstanceDate,
			StartedAt:    state.StartTime,
			EndedAt:      now,
			Focused:      focused,
			Route:        route,
		},
	}
	return model.FocusModeState{}, res, nil
}

func completedDuring(task model.Task, state model.FocusModeState) bool {
	if state.InstanceDate != "" {
		inst, ok := recurrence.FindInstance(task, state.InstanceDate)
		return ok && inst.Completed && inst.CompletedAt != nil && !inst.CompletedAt.Before(state.StartTime)
	}
	return task.Status == model.StatusComplete && task.CompletedAt != nil && !task.CompletedAt.Before(state.StartTime)
}

// CompleteCurrentStep marks the current step done and advances to the next
// open step in scope. When nothing is left open CurrentStepID becomes empty.
func CompleteCurrentStep(state model.FocusModeState, q model.FocusQueue, task *model.Task, now time.Time) (model.FocusModeState, error) {
	if !state.Active {
		return state, ErrNotActive
	}
	if task == nil || task.ID != state.TaskID || task.IsDeleted() {
		return state, ErrTaskNotFound
	}
	if state.CurrentStepID == "" {
		return state, ErrNoOpenStep
	}

	if state.InstanceDate != "" {
		inst, ok := recurrence.FindInstance(*task, state.InstanceDate)
		if !ok {
			return state, ErrNoActiveOccurrence
		}
		if !stepDone(inst.Steps(), state.CurrentStepID) {
			if !recurrence.ToggleInstanceStep(task, state.InstanceDate, state.CurrentStepID, now) {
				return state, ErrNoOpenStep
			}
		}
		inst, _ = recurrence.FindInstance(*task, state.InstanceDate)
		state.CurrentStepID = firstOpen(inst.Steps())
		return state, nil
	}

	i := slices.IndexFunc(task.Steps, func(s model.Step) bool { return s.ID == state.CurrentStepID })
	if i < 0 {
		return state, ErrNoOpenStep
	}
	if !task.Steps[i].Completed {
		at := now
		task.Steps[i].Completed = true
		task.Steps[i].CompletedAt = &at
		task.Touch(now)
	}
	scope := task.Steps
	if j := FindItem(q, state.QueueItemID); j >= 0 {
		scope = ScopeSteps(*task, q.Items[j])
	}
	state.CurrentStepID = firstOpen(scope)
	return state, nil
}

func stepDone(steps []model.Step, id string) bool {
	for _, s := range steps {
		if s.ID == id {
			return s.Completed
		}
	}
	return false
}

// SessionSteps resolves the steps the session works through: the occurrence's
// steps for recurring focus, else the queue item's scope.
func SessionSteps(state model.FocusModeState, q model.FocusQueue, task model.Task) []model.Step {
	if state.InstanceDate != "" {
		inst, ok := recurrence.FindInstance(task, state.InstanceDate)
		if !ok {
			return nil
		}
		return inst.Steps()
	}
	if i := FindItem(q, state.QueueItemID); i >= 0 {
		return ScopeSteps(task, q.Items[i])
	}
	return task.Steps
}
