package health

import (
	"testing"
	"time"

	"focus-tools/internal/config"
	"focus-tools/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now = time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	cfg = config.Default().Health
)

func fresh() model.Task {
	return model.Task{ID: "task-1", Title: "T", Status: model.StatusPool, CreatedAt: now.AddDate(0, 0, -2), UpdatedAt: now.Add(-time.Hour)}
}

func TestComputeHealthStatus_Rules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.Task)
		status Status
		reason Reason
	}{
		{"fresh task is healthy", func(*model.Task) {}, StatusHealthy, ReasonNone},
		{"overdue deadline", func(t *model.Task) { t.DeadlineDate = "2024-05-19" }, StatusCritical, ReasonOverdue},
		{"deadline today", func(t *model.Task) { t.DeadlineDate = "2024-05-20" }, StatusAtRisk, ReasonDeadlineSoon},
		{"deadline in 3 days", func(t *model.Task) { t.DeadlineDate = "2024-05-23" }, StatusAtRisk, ReasonDeadlineSoon},
		{"deadline in 4 days", func(t *model.Task) { t.DeadlineDate = "2024-05-24" }, StatusHealthy, ReasonNone},
		{"stale", func(t *model.Task) { t.UpdatedAt = now.AddDate(0, 0, -21) }, StatusAtRisk, ReasonStale},
		{"nearly stale", func(t *model.Task) { t.UpdatedAt = now.AddDate(0, 0, -20) }, StatusHealthy, ReasonNone},
		{"stale but deferred", func(t *model.Task) {
			t.UpdatedAt = now.AddDate(0, 0, -40)
			t.DeferredUntil = "2024-06-01"
		}, StatusHealthy, ReasonNone},
		{"stale and deferral over", func(t *model.Task) {
			t.UpdatedAt = now.AddDate(0, 0, -40)
			t.DeferredUntil = "2024-05-20"
		}, StatusAtRisk, ReasonStale},
		{"waiting too long", func(t *model.Task) {
			t.UpdatedAt = now.AddDate(0, 0, -15)
			t.WaitingOn = &model.WaitingOn{Who: "Sam", Since: now.AddDate(0, 0, -15)}
		}, StatusCritical, ReasonWaitingStale},
		{"waiting but recently updated", func(t *model.Task) {
			t.UpdatedAt = now.AddDate(0, 0, -2)
			t.WaitingOn = &model.WaitingOn{Who: "Sam", Since: now.AddDate(0, 0, -30)}
		}, StatusHealthy, ReasonNone},
		{"waiting is not stale", func(t *model.Task) {
			t.UpdatedAt = now.AddDate(0, 0, -13)
			t.WaitingOn = &model.WaitingOn{Who: "Sam", Since: now.AddDate(0, 0, -13)}
		}, StatusHealthy, ReasonNone},
		{"overdue beats waiting", func(t *model.Task) {
			t.DeadlineDate = "2024-05-01"
			t.WaitingOn = &model.WaitingOn{Since: now.AddDate(0, 0, -30)}
			t.UpdatedAt = now.AddDate(0, 0, -30)
		}, StatusCritical, ReasonOverdue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := fresh()
			tc.mutate(&task)
			got := ComputeHealthStatus(task, now, 0, cfg)
			assert.Equal(t, tc.status, got.Status)
			assert.Equal(t, tc.reason, got.Reason)
			if tc.status != StatusHealthy {
				assert.NotEmpty(t, got.Detail)
			}
		})
	}
}

func TestComputeHealthStatus_NeverCriticalWithoutDeadlineWhenFresh(t *testing.T) {
	for _, imp := range []model.Importance{"", model.ImportanceMustDo, model.ImportanceWouldLikeTo} {
		task := fresh()
		task.Importance = imp
		task.DeferredUntil = "2024-05-01"
		assert.NotEqual(t, StatusCritical, ComputeHealthStatus(task, now, 0, cfg).Status)
	}
}

func TestComputeHealthStatus_UsesLogicalToday(t *testing.T) {
	early := time.Date(2024, 5, 21, 1, 0, 0, 0, time.UTC)
	task := fresh()
	task.UpdatedAt = early.Add(-time.Hour)
	task.DeadlineDate = "2024-05-20"

	assert.Equal(t, StatusCritical, ComputeHealthStatus(task, early, 0, cfg).Status)
	assert.Equal(t, StatusAtRisk, ComputeHealthStatus(task, early, 3, cfg).Status, "still the 20th before 3am")
}

func TestClassify_FiltersAndOrders(t *testing.T) {
	ok := fresh()
	ok.ID = "ok"
	late := fresh()
	late.ID = "late"
	late.DeadlineDate = "2024-05-01"
	soon := fresh()
	soon.ID = "soon"
	soon.DeadlineDate = "2024-05-21"
	done := fresh()
	done.ID = "done"
	done.Status = model.StatusComplete
	done.DeadlineDate = "2024-05-01"
	gone := fresh()
	gone.ID = "gone"
	deletedAt := now
	gone.DeletedAt = &deletedAt

	entries, sum := Classify([]model.Task{ok, soon, late, done, gone}, now, 0, cfg)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"late", "soon", "ok"}, []string{entries[0].TaskID, entries[1].TaskID, entries[2].TaskID})
	assert.Equal(t, Summary{Healthy: 1, AtRisk: 1, Critical: 1}, sum)
}
