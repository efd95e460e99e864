package recurrence

import (
	"slices"
	"strings"
	"time"

	"focus-tools/internal/model"
)

// ToggleInstanceStep flips the completion of one step of the occurrence on
// date. Completing the last open step completes the occurrence; reopening a
// step reopens it. An occurrence that does not exist yet is only materialized
// when stepID names a template step, which resolves to its fresh copy.
func ToggleInstanceStep(task *model.Task, date, stepID string, now time.Time) bool {
	if task == nil || task.Recurrence == nil {
		return false
	}
	i := instanceIndex(*task, date)
	if i < 0 {
		if !slices.ContainsFunc(task.Steps, func(s model.Step) bool { return s.ID == stepID }) {
			return false
		}
		created := EnsureInstance(task, date)
		if created == nil {
			return false
		}
		for _, s := range created.RoutineSteps {
			if s.TemplateStepID == stepID {
				stepID = s.ID
				break
			}
		}
		i = len(task.RecurringInstances) - 1
	}
	inst := &task.RecurringInstances[i]
	st := findStep(inst, stepID)
	if st == nil {
		return false
	}
	st.Completed = !st.Completed
	if st.Completed {
		t := now
		st.CompletedAt = &t
	} else {
		st.CompletedAt = nil
	}
	syncInstanceCompletion(inst, now)
	return true
}

func syncInstanceCompletion(inst *model.RecurringInstance, now time.Time) {
	steps := inst.Steps()
	if len(steps) == 0 {
		return
	}
	all := true
	for _, s := range steps {
		if !s.Completed {
			all = false
			break
		}
	}
	switch {
	case all && !inst.Completed:
		inst.Completed = true
		inst.Skipped = false
		t := now
		inst.CompletedAt = &t
	case !all && inst.Completed:
		inst.Completed = false
		inst.CompletedAt = nil
	}
}

func findStep(inst *model.RecurringInstance, stepID string) *model.Step {
	for i := range inst.RoutineSteps {
		if inst.RoutineSteps[i].ID == stepID {
			return &inst.RoutineSteps[i]
		}
	}
	for i := range inst.AdditionalSteps {
		if inst.AdditionalSteps[i].ID == stepID {
			return &inst.AdditionalSteps[i]
		}
	}
	return nil
}

// CompleteInstance marks the occurrence on date done, clearing any skip.
func CompleteInstance(task *model.Task, date string, now time.Time) bool {
	inst := EnsureInstance(task, date)
	if inst == nil {
		return false
	}
	inst.Completed = true
	inst.Skipped = false
	t := now
	inst.CompletedAt = &t
	return true
}

// SkipInstance marks the occurrence on date as deliberately skipped.
func SkipInstance(task *model.Task, date string) bool {
	inst := EnsureInstance(task, date)
	if inst == nil {
		return false
	}
	inst.Skipped = true
	inst.Completed = false
	inst.CompletedAt = nil
	return true
}

// AddInstanceStep adds a step that exists only on the occurrence for date.
func AddInstanceStep(task *model.Task, date, text string) (model.Step, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Step{}, false
	}
	inst := EnsureInstance(task, date)
	if inst == nil {
		return model.Step{}, false
	}
	st := model.Step{ID: model.NewID("step"), Text: text}
	inst.AdditionalSteps = append(inst.AdditionalSteps, st)
	if inst.Completed {
		inst.Completed = false
		inst.CompletedAt = nil
	}
	return st, true
}

// PromoteStep turns an instance-only step into a template step. The template
// receives a copy; the instance keeps its step, now linked to the template.
func PromoteStep(task *model.Task, date, stepID string) bool {
	if task == nil {
		return false
	}
	i := instanceIndex(*task, date)
	if i < 0 {
		return false
	}
	inst := &task.RecurringInstances[i]
	idx := -1
	for j := range inst.AdditionalSteps {
		if inst.AdditionalSteps[j].ID == stepID {
			idx = j
			break
		}
	}
	if idx < 0 {
		return false
	}
	st := inst.AdditionalSteps[idx]
	inst.AdditionalSteps = append(inst.AdditionalSteps[:idx:idx], inst.AdditionalSteps[idx+1:]...)

	tmpl := model.Step{ID: model.NewID("step"), Text: st.Text}
	if st.EstimatedMinutes != nil {
		m := *st.EstimatedMinutes
		tmpl.EstimatedMinutes = &m
	}
	task.Steps = append(task.Steps, tmpl)

	st.TemplateStepID = tmpl.ID
	inst.RoutineSteps = append(inst.RoutineSteps, st)
	return true
}

// DemoteStep removes a routine step's origin from the template and keeps the
// step on this instance only. Other instances keep their own copies.
func DemoteStep(task *model.Task, date, stepID string) bool {
	if task == nil {
		return false
	}
	i := instanceIndex(*task, date)
	if i < 0 {
		return false
	}
	inst := &task.RecurringInstances[i]
	idx := -1
	for j := range inst.RoutineSteps {
		if inst.RoutineSteps[j].ID == stepID {
			idx = j
			break
		}
	}
	if idx < 0 {
		return false
	}
	st := inst.RoutineSteps[idx]
	inst.RoutineSteps = append(inst.RoutineSteps[:idx:idx], inst.RoutineSteps[idx+1:]...)

	if st.TemplateStepID != "" {
		kept := make([]model.Step, 0, len(task.Steps))
		for _, s := range task.Steps {
			if s.ID != st.TemplateStepID {
				kept = append(kept, s)
			}
		}
		task.Steps = kept
	}

	st.TemplateStepID = ""
	inst.AdditionalSteps = append(inst.AdditionalSteps, st)
	return true
}
