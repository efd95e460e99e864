package recurrence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleInstanceStep_CompletesInstanceWhenAllDone(t *testing.T) {
	task := dailyTask()
	now := at("2024-01-10", 8)
	inst := EnsureInstance(&task, "2024-01-10")
	a, b := inst.RoutineSteps[0].ID, inst.RoutineSteps[1].ID

	require.True(t, ToggleInstanceStep(&task, "2024-01-10", a, now))
	got, _ := FindInstance(task, "2024-01-10")
	assert.False(t, got.Completed)

	require.True(t, ToggleInstanceStep(&task, "2024-01-10", b, now))
	got, _ = FindInstance(task, "2024-01-10")
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedAt)

	require.True(t, ToggleInstanceStep(&task, "2024-01-10", b, now))
	got, _ = FindInstance(task, "2024-01-10")
	assert.False(t, got.Completed, "reopening a step reopens the occurrence")

	assert.False(t, ToggleInstanceStep(&task, "2024-01-10", "missing", now))
	for _, st := range task.Steps {
		assert.False(t, st.Completed, "template is never touched")
	}
}

func TestToggleInstanceStep_UnmaterializedOccurrence(t *testing.T) {
	task := dailyTask()
	now := at("2024-01-11", 8)

	assert.False(t, ToggleInstanceStep(&task, "2024-01-11", "missing", now))
	assert.Empty(t, task.RecurringInstances, "unknown step leaves no occurrence behind")

	require.True(t, ToggleInstanceStep(&task, "2024-01-11", "tmpl-2", now))
	got, ok := FindInstance(task, "2024-01-11")
	require.True(t, ok)
	require.Len(t, got.RoutineSteps, 2)
	assert.False(t, got.RoutineSteps[0].Completed)
	assert.True(t, got.RoutineSteps[1].Completed)
	assert.Equal(t, "tmpl-2", got.RoutineSteps[1].TemplateStepID)
	assert.False(t, task.Steps[1].Completed, "template is never touched")
}

func TestCompleteAndSkipInstance(t *testing.T) {
	task := dailyTask()
	now := at("2024-01-10", 8)

	require.True(t, SkipInstance(&task, "2024-01-10"))
	got, _ := FindInstance(task, "2024-01-10")
	assert.True(t, got.Skipped)
	assert.True(t, got.Met())

	require.True(t, CompleteInstance(&task, "2024-01-10", now))
	got, _ = FindInstance(task, "2024-01-10")
	assert.True(t, got.Completed)
	assert.False(t, got.Skipped)
	assert.Len(t, task.RecurringInstances, 1)
}

func TestPromoteAndDemoteStep(t *testing.T) {
	task := dailyTask()
	st, ok := AddInstanceStep(&task, "2024-01-10", "Stretch")
	require.True(t, ok)

	require.True(t, PromoteStep(&task, "2024-01-10", st.ID))
	require.Len(t, task.Steps, 3)
	assert.Equal(t, "Stretch", task.Steps[2].Text)
	assert.NotEqual(t, st.ID, task.Steps[2].ID, "template gets its own copy")

	inst, _ := FindInstance(task, "2024-01-10")
	assert.Empty(t, inst.AdditionalSteps)
	require.Len(t, inst.RoutineSteps, 3)
	assert.Equal(t, task.Steps[2].ID, inst.RoutineSteps[2].TemplateStepID)

	// A new occurrence now includes the promoted step.
	next := EnsureInstance(&task, "2024-01-11")
	assert.Len(t, next.RoutineSteps, 3)

	// Demote the first routine step on the 10th: template loses it, the 11th keeps its copy.
	demoted := inst.RoutineSteps[0]
	require.True(t, DemoteStep(&task, "2024-01-10", demoted.ID))
	assert.Len(t, task.Steps, 2)
	for _, s := range task.Steps {
		assert.NotEqual(t, demoted.TemplateStepID, s.ID)
	}
	inst, _ = FindInstance(task, "2024-01-10")
	assert.Len(t, inst.RoutineSteps, 2)
	require.Len(t, inst.AdditionalSteps, 1)
	assert.Equal(t, demoted.ID, inst.AdditionalSteps[0].ID)
	assert.Empty(t, inst.AdditionalSteps[0].TemplateStepID)

	other, _ := FindInstance(task, "2024-01-11")
	assert.Len(t, other.RoutineSteps, 3)

	assert.False(t, PromoteStep(&task, "2024-01-12", "nope"))
	assert.False(t, DemoteStep(&task, "2024-01-10", "nope"))
}

func TestAddInstanceStep_ReopensCompletedInstance(t *testing.T) {
	task := dailyTask()
	require.True(t, CompleteInstance(&task, "2024-01-10", at("2024-01-10", 8)))
	_, ok := AddInstanceStep(&task, "2024-01-10", "One more thing")
	require.True(t, ok)
	got, _ := FindInstance(task, "2024-01-10")
	assert.False(t, got.Completed)

	_, ok = AddInstanceStep(&task, "2024-01-10", "   ")
	assert.False(t, ok)
}
