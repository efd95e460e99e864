package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"focus-tools/internal/focus"
	"focus-tools/internal/model"
	"focus-tools/internal/store"
)

var now = time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)

func testDB() *store.DB {
	done := now
	return &store.DB{
		Projects: []model.Project{{ID: "proj-1", Name: "Home", CreatedAt: now}},
		Tasks: []model.Task{
			{
				ID:           "task-1",
				Title:        "Write report",
				Notes:        "Some **markdown**.",
				Status:       model.StatusPool,
				DeadlineDate: "2024-05-22",
				ProjectID:    "proj-1",
				Steps: []model.Step{
					{ID: "s1", Text: "Outline", Completed: true, CompletedAt: &done},
					{ID: "s2", Text: "Draft"},
				},
				CreatedAt: now,
				UpdatedAt: now,
			},
			{ID: "task-2", Title: "Later", Status: model.StatusPool, CreatedAt: now, UpdatedAt: now},
		},
		Queue: model.FocusQueue{
			Items: []model.FocusQueueItem{
				{ID: "q1", TaskID: "task-1", SelectionType: model.SelectionSpecificSteps, SelectedStepIDs: []string{"s2"}},
				{ID: "q2", TaskID: "task-2", SelectionType: model.SelectionAllUpcoming},
			},
			TodayLineIndex: 1,
		},
		Sessions: []model.FocusSessionRecord{
			{ID: "session-1", TaskID: "task-1", StartedAt: now, EndedAt: now.Add(25 * time.Minute), Focused: 25 * time.Minute, Route: focus.DefaultReturnRoute},
		},
	}
}

func TestRenderTaskMarkdown_IncludesMetaStepsNotesAndSessions(t *testing.T) {
	t.Parallel()

	md, err := RenderTaskMarkdown(testDB(), "task-1", RenderOptions{IncludeSessions: true})
	if err != nil {
		t.Fatalf("RenderTaskMarkdown: %v", err)
	}
	for _, want := range []string{
		"# Write report",
		"- Project: Home (proj-1)",
		"- Deadline: 2024-05-22",
		"- [x] Outline",
		"- [ ] Draft",
		"Some **markdown**.",
		"## Focus sessions",
		"Total: 25m0s",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, md)
		}
	}
}

func TestRenderTaskMarkdown_DeletedNeedsFlag(t *testing.T) {
	t.Parallel()

	db := testDB()
	del := now
	db.Tasks[0].DeletedAt = &del
	if _, err := RenderTaskMarkdown(db, "task-1", RenderOptions{}); err == nil {
		t.Fatalf("expected error for deleted task")
	}
	if _, err := RenderTaskMarkdown(db, "task-1", RenderOptions{IncludeDeleted: true}); err != nil {
		t.Fatalf("expected deleted task to render with IncludeDeleted: %v", err)
	}
	if _, err := RenderTaskMarkdown(db, "task-missing", RenderOptions{}); err == nil {
		t.Fatalf("expected not found")
	}
}

func TestRenderQueueMarkdown_SectionsAndScope(t *testing.T) {
	t.Parallel()

	md := RenderQueueMarkdown(testDB(), "Plan")
	today := strings.Index(md, "## Today")
	upcoming := strings.Index(md, "## Upcoming")
	if today < 0 || upcoming < today {
		t.Fatalf("expected today before upcoming:\n%s", md)
	}
	if !strings.Contains(md, "  - [ ] Draft") || strings.Contains(md, "Outline") {
		t.Fatalf("expected only the selected step under the task:\n%s", md)
	}
	if !strings.Contains(md[upcoming:], "Later (task-2)") {
		t.Fatalf("expected task-2 under upcoming:\n%s", md)
	}
}

func TestWriteTask_RefusesOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	res, err := WriteTask(testDB(), "task-1", dir, WriteOptions{})
	if err != nil {
		t.Fatalf("WriteTask: %v", err)
	}
	want := filepath.Join(dir, "tasks", "task-1.md")
	if len(res.Written) != 1 || res.Written[0] != want {
		t.Fatalf("unexpected written paths: %v", res.Written)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected file: %v", err)
	}
	if _, err := WriteTask(testDB(), "task-1", dir, WriteOptions{}); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
	if _, err := WriteTask(testDB(), "task-1", dir, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("expected overwrite to succeed: %v", err)
	}
}

func TestWriteQueue_FileName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	res, err := WriteQueue(testDB(), "2024-05-20", dir, WriteOptions{})
	if err != nil {
		t.Fatalf("WriteQueue: %v", err)
	}
	if res.Written[0] != filepath.Join(dir, "plan-2024-05-20.md") {
		t.Fatalf("unexpected path: %v", res.Written)
	}
}
