package recurrence

import (
	"time"

	"focus-tools/internal/dates"
	"focus-tools/internal/model"
)

// FindInstance returns the instance recorded for date, if any.
func FindInstance(task model.Task, date string) (model.RecurringInstance, bool) {
	if i := instanceIndex(task, date); i >= 0 {
		return task.RecurringInstances[i], true
	}
	return model.RecurringInstance{}, false
}

func instanceIndex(task model.Task, date string) int {
	for i := range task.RecurringInstances {
		if task.RecurringInstances[i].Date == date {
			return i
		}
	}
	return -1
}

// ActiveOccurrenceDate returns the occurrence date the user should be working on.
//
// Today wins when it matches and is still open. Otherwise, when the rule rolls
// over, the most recent earlier occurrence that was never completed or skipped
// is returned; met occurrences are passed over and the scan gives up after
// scanDays. Without rollover a matching today is reported even once met.
// Paused rules have no active occurrence.
func ActiveOccurrenceDate(task model.Task, now time.Time, dayStartHour, scanDays int) (string, bool) {
	rule := task.Recurrence
	if rule == nil || rule.PausedAt != nil {
		return "", false
	}
	today := dates.TodayISO(now, dayStartHour)

	todayMatches := Matches(today, *rule)
	if todayMatches {
		if inst, ok := FindInstance(task, today); !ok || !inst.Met() {
			return today, true
		}
	}
	if rule.RolloverIfMissed {
		if d, ok := scanMissed(task, *rule, today, scanDays); ok {
			return d, true
		}
	}
	if todayMatches {
		return today, true
	}
	return "", false
}

func scanMissed(task model.Task, rule model.RecurrenceRule, today string, scanDays int) (string, bool) {
	d := today
	for i := 1; i <= scanDays; i++ {
		d = dates.AddDays(d, -1)
		if d < rule.StartDate {
			return "", false
		}
		if !Matches(d, rule) {
			continue
		}
		if inst, ok := FindInstance(task, d); ok && inst.Met() {
			continue
		}
		return d, true
	}
	return "", false
}

// EnsureInstance returns the instance for date, creating it from the task's
// current template steps if it does not exist yet. It is the only place
// instances are created. The returned pointer is valid until the task's
// instance list is next appended to. Non-recurring tasks and invalid dates
// yield nil.
func EnsureInstance(task *model.Task, date string) *model.RecurringInstance {
	if task == nil || task.Recurrence == nil || !dates.Valid(date) {
		return nil
	}
	if i := instanceIndex(*task, date); i >= 0 {
		return &task.RecurringInstances[i]
	}
	task.RecurringInstances = append(task.RecurringInstances, model.RecurringInstance{
		Date:            date,
		RoutineSteps:    cloneTemplate(task.Steps),
		AdditionalSteps: []model.Step{},
	})
	return &task.RecurringInstances[len(task.RecurringInstances)-1]
}

func cloneTemplate(template []model.Step) []model.Step {
	out := make([]model.Step, 0, len(template))
	for _, s := range model.CloneSteps(template) {
		out = append(out, model.Step{
			ID:               model.NewID("step"),
			Text:             s.Text,
			EstimatedMinutes: s.EstimatedMinutes,
			TemplateStepID:   s.ID,
		})
	}
	return out
}

// CalculateStreak counts consecutive completed occurrences walking back from
// today. An occurrence today that is still open does not break the streak;
// a skipped or missed occurrence does.
func CalculateStreak(task model.Task, now time.Time, dayStartHour, maxScanDays int) int {
	rule := task.Recurrence
	if rule == nil {
		return 0
	}
	today := dates.TodayISO(now, dayStartHour)

	streak := 0
	d := today
	for i := 0; i <= maxScanDays; i, d = i+1, dates.AddDays(d, -1) {
		if d < rule.StartDate {
			break
		}
		if !Matches(d, *rule) {
			continue
		}
		inst, ok := FindInstance(task, d)
		if ok && inst.Completed && !inst.Skipped {
			streak++
			continue
		}
		if i == 0 && !inst.Skipped {
			continue
		}
		break
	}
	return streak
}

// NextDue returns the first occurrence on or after today that is neither
// completed nor skipped.
func NextDue(task model.Task, now time.Time, dayStartHour, maxScanDays int) (string, bool) {
	rule := task.Recurrence
	if rule == nil || rule.PausedAt != nil {
		return "", false
	}
	d := dates.TodayISO(now, dayStartHour)
	if d < rule.StartDate {
		d = rule.StartDate
	}
	for i := 0; i <= maxScanDays; i, d = i+1, dates.AddDays(d, 1) {
		if !Matches(d, *rule) {
			continue
		}
		if inst, ok := FindInstance(task, d); ok && inst.Met() {
			continue
		}
		return d, true
	}
	return "", false
}
