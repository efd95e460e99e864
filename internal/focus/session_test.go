package focus

import (
	"testing"
	"time"

	"focus-tools/internal/model"
	"focus-tools/internal/recurrence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartFocus_PicksFirstOpenStep(t *testing.T) {
	task := plainTask("t", step("A", true), step("B", false), step("C", false))
	q := queueOf(t, []model.Task{task}, nil)

	st, err := StartFocus(model.FocusModeState{}, &q, []model.Task{task}, q.Items[0].ID, now)
	require.NoError(t, err)
	assert.True(t, st.Active)
	assert.Equal(t, "B", st.CurrentStepID)
	assert.Equal(t, now, st.StartTime)
	assert.Equal(t, PhaseActive, PhaseOf(st))
}

func TestStartFocus_SpecificStepsAndNoOpenStep(t *testing.T) {
	task := plainTask("t", step("A", false), step("B", false), step("C", true))
	var q model.FocusQueue
	_, err := Add(&q, task, model.SelectionSpecificSteps, []string{"C", "B"}, SectionToday, now)
	require.NoError(t, err)

	st, err := StartFocus(model.FocusModeState{}, &q, []model.Task{task}, q.Items[0].ID, now)
	require.NoError(t, err)
	assert.Equal(t, "B", st.CurrentStepID, "scope follows task order, not selection order")

	done := plainTask("d", step("A", true))
	q = queueOf(t, []model.Task{done}, nil)
	st, err = StartFocus(model.FocusModeState{}, &q, []model.Task{done}, q.Items[0].ID, now)
	require.NoError(t, err)
	assert.Empty(t, st.CurrentStepID)
}

func TestStartFocus_GuardsReturnPreviousState(t *testing.T) {
	task := plainTask("t", step("A", false))
	q := queueOf(t, []model.Task{task}, nil)

	idle := model.FocusModeState{}
	st, err := StartFocus(idle, &q, []model.Task{task}, "missing", now)
	assert.ErrorIs(t, err, ErrQueueItemNotFound)
	assert.Equal(t, idle, st)

	st, err = StartFocus(idle, &q, nil, q.Items[0].ID, now)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.Equal(t, idle, st)

	active, err := StartFocus(idle, &q, []model.Task{task}, q.Items[0].ID, now)
	require.NoError(t, err)
	st, err = StartFocus(active, &q, []model.Task{task}, q.Items[0].ID, now.Add(time.Minute))
	assert.ErrorIs(t, err, ErrSessionActive)
	assert.Equal(t, active, st)
}

func TestPauseResume_AccumulatesPausedTime(t *testing.T) {
	task := plainTask("t", step("A", true), step("B", false))
	q := queueOf(t, []model.Task{task}, nil)
	st, err := StartFocus(model.FocusModeState{}, &q, []model.Task{task}, q.Items[0].ID, now)
	require.NoError(t, err)

	pauseAt := now.Add(10 * time.Second)
	st, err = Pause(st, pauseAt)
	require.NoError(t, err)
	assert.Equal(t, PhasePaused, PhaseOf(st))
	assert.Equal(t, 10*time.Second, Elapsed(st, pauseAt.Add(time.Hour)), "paused sessions do not accrue")

	_, err = Pause(st, pauseAt)
	assert.ErrorIs(t, err, ErrAlreadyPaused)

	st, err = Resume(st, pauseAt.Add(5000*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 5000*time.Millisecond, st.PausedTime)
	assert.Nil(t, st.PauseStartTime)
	assert.Equal(t, "B", st.CurrentStepID)

	_, err = Resume(st, pauseAt)
	assert.ErrorIs(t, err, ErrNotPaused)
	_, err = Pause(model.FocusModeState{}, now)
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestExit_RoutesToTaskDetailWhenCompletedDuringSession(t *testing.T) {
	task := plainTask("t", step("A", false))
	q := queueOf(t, []model.Task{task}, nil)
	st, err := StartFocus(model.FocusModeState{}, &q, []model.Task{task}, q.Items[0].ID, now)
	require.NoError(t, err)

	finished := task
	finished.Status = model.StatusComplete
	doneAt := now.Add(20 * time.Minute)
	finished.CompletedAt = &doneAt

	end := now.Add(25 * time.Minute)
	next, res, err := Exit(st, []model.Task{finished}, "inbox", end)
	require.NoError(t, err)
	assert.Equal(t, model.FocusModeState{}, next)
	assert.Equal(t, RouteTaskDetail, res.Route)
	assert.Equal(t, 25*time.Minute, res.Focused)
	assert.Equal(t, "t", res.Record.TaskID)
	assert.Equal(t, end, res.Record.EndedAt)

	_, res, err = Exit(st, []model.Task{task}, "inbox", end)
	require.NoError(t, err)
	assert.Equal(t, "inbox", res.Route)

	// Completed before the session started does not count.
	old := finished
	before := now.Add(-time.Hour)
	old.CompletedAt = &before
	_, res, _ = Exit(st, []model.Task{old}, "", end)
	assert.Equal(t, DefaultReturnRoute, res.Route)

	_, _, err = Exit(model.FocusModeState{}, nil, "", end)
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestExit_WhilePausedExcludesOpenPause(t *testing.T) {
	task := plainTask("t")
	q := queueOf(t, []model.Task{task}, nil)
	st, _ := StartFocus(model.FocusModeState{}, &q, []model.Task{task}, q.Items[0].ID, now)
	st, _ = Pause(st, now.Add(3*time.Minute))
	_, res, err := Exit(st, []model.Task{task}, "", now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3*time.Minute, res.Focused)
}

func TestCompleteCurrentStep_Advances(t *testing.T) {
	task := plainTask("t", step("A", false), step("B", false), step("C", false))
	var q model.FocusQueue
	_, err := Add(&q, task, model.SelectionSpecificSteps, []string{"A", "C"}, SectionToday, now)
	require.NoError(t, err)
	st, err := StartFocus(model.FocusModeState{}, &q, []model.Task{task}, q.Items[0].ID, now)
	require.NoError(t, err)

	later := now.Add(time.Minute)
	st, err = CompleteCurrentStep(st, q, &task, later)
	require.NoError(t, err)
	assert.True(t, task.Steps[0].Completed)
	assert.Equal(t, later, task.UpdatedAt)
	assert.Equal(t, "C", st.CurrentStepID, "B is outside the selection")

	st, err = CompleteCurrentStep(st, q, &task, later)
	require.NoError(t, err)
	assert.Empty(t, st.CurrentStepID)
	assert.False(t, task.Steps[1].Completed)

	_, err = CompleteCurrentStep(st, q, &task, later)
	assert.ErrorIs(t, err, ErrNoOpenStep)
}

func TestStartRecurringFocus(t *testing.T) {
	task := model.Task{
		ID: "routine", Title: "Morning", Status: model.StatusPool,
		Steps: []model.Step{{ID: "tmpl-1", Text: "Water"}, {ID: "tmpl-2", Text: "Stretch"}},
		Recurrence: &model.RecurrenceRule{
			Frequency: model.FrequencyDaily, Interval: 1, StartDate: "2024-01-01",
		},
	}
	st, err := StartRecurringFocus(model.FocusModeState{}, &task, now, 0, 90)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-20", st.InstanceDate)
	require.Len(t, task.RecurringInstances, 1)
	inst := task.RecurringInstances[0]
	assert.Equal(t, inst.RoutineSteps[0].ID, st.CurrentStepID)

	st, err = CompleteCurrentStep(st, model.FocusQueue{}, &task, now.Add(time.Minute))
	require.NoError(t, err)
	st, err = CompleteCurrentStep(st, model.FocusQueue{}, &task, now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Empty(t, st.CurrentStepID)
	got, _ := recurrence.FindInstance(task, "2024-05-20")
	assert.True(t, got.Completed)
	for _, s := range task.Steps {
		assert.False(t, s.Completed, "template untouched")
	}

	_, res, err := Exit(st, []model.Task{task}, "", now.Add(3*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, RouteTaskDetail, res.Route)
	assert.Equal(t, "2024-05-20", res.Record.InstanceDate)

	paused := task
	pausedAt := now
	rule := *task.Recurrence
	rule.PausedAt = &pausedAt
	paused.Recurrence = &rule
	_, err = StartRecurringFocus(model.FocusModeState{}, &paused, now, 0, 90)
	assert.ErrorIs(t, err, ErrNoActiveOccurrence)
}

func TestSessionSteps_ScopeAndOccurrence(t *testing.T) {
	task := plainTask("t", step("A", false), step("B", false))
	var q model.FocusQueue
	item, err := Add(&q, task, model.SelectionSpecificSteps, []string{"B"}, SectionToday, now)
	require.NoError(t, err)

	steps := SessionSteps(model.FocusModeState{Active: true, QueueItemID: item.ID, TaskID: "t"}, q, task)
	require.Len(t, steps, 1)
	assert.Equal(t, "B", steps[0].ID)

	assert.Len(t, SessionSteps(model.FocusModeState{Active: true, TaskID: "t"}, q, task), 2)
	assert.Nil(t, SessionSteps(model.FocusModeState{Active: true, TaskID: "t", InstanceDate: "2024-05-20"}, q, task))
}
