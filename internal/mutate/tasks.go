package mutate

import (
	"strings"
	"time"

	"focus-tools/internal/dates"
	"focus-tools/internal/focus"
	"focus-tools/internal/model"
	"focus-tools/internal/store"
)

type TaskResult struct {
	Task         *model.Task
	Changed      bool
	EventPayload map[string]any
}

type CreateTaskInput struct {
	Title         string
	Notes         string
	Status        model.TaskStatus
	Priority      model.Priority
	Importance    model.Importance
	EnergyType    model.EnergyType
	TargetDate    string
	DeadlineDate  string
	DeferredUntil string
	ProjectID     string
	Steps         []string
}

// CreateTask appends a new task. Status defaults to inbox.
// Callers are responsible for saving db and appending the task.create event.
func CreateTask(db *store.DB, in CreateTaskInput, now time.Time) (TaskResult, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return TaskResult{}, ErrTitleRequired
	}
	status := in.Status
	if status == "" {
		status = model.StatusInbox
	}
	if !ValidStatus(status) {
		return TaskResult{}, ErrInvalidStatus
	}
	if err := validateEnums(in.Priority, in.Importance, in.EnergyType); err != nil {
		return TaskResult{}, err
	}
	for _, d := range []string{in.TargetDate, in.DeadlineDate, in.DeferredUntil} {
		if d != "" && !dates.Valid(d) {
			return TaskResult{}, ErrInvalidDate
		}
	}
	projectID := strings.TrimSpace(in.ProjectID)
	if projectID != "" {
		if _, ok := db.FindProject(projectID); !ok {
			return TaskResult{}, NotFoundError{Kind: "project", ID: projectID}
		}
	}

	t := model.Task{
		ID:            model.NewID("task"),
		Title:         title,
		Notes:         in.Notes,
		Status:        status,
		Priority:      in.Priority,
		Importance:    in.Importance,
		EnergyType:    in.EnergyType,
		TargetDate:    in.TargetDate,
		DeadlineDate:  in.DeadlineDate,
		DeferredUntil: in.DeferredUntil,
		ProjectID:     projectID,
		Steps:         []model.Step{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, text := range in.Steps {
		if text = strings.TrimSpace(text); text != "" {
			t.Steps = append(t.Steps, model.Step{ID: model.NewID("step"), Text: text})
		}
	}
	if status == model.StatusComplete {
		at := now
		t.CompletedAt = &at
	}
	db.Tasks = append(db.Tasks, t)
	created := &db.Tasks[len(db.Tasks)-1]
	return TaskResult{
		Task:    created,
		Changed: true,
		EventPayload: map[string]any{
			"title":  created.Title,
			"status": string(created.Status),
		},
	}, nil
}

func ValidStatus(s model.TaskStatus) bool {
	switch s {
	case model.StatusInbox, model.StatusPool, model.StatusComplete, model.StatusArchived:
		return true
	}
	return false
}

func validateEnums(p model.Priority, imp model.Importance, e model.EnergyType) error {
	switch p {
	case "", model.PriorityHigh, model.PriorityMedium, model.PriorityLow:
	default:
		return ErrInvalidValue
	}
	switch imp {
	case "", model.ImportanceMustDo, model.ImportanceShouldDo, model.ImportanceCouldDo, model.ImportanceWouldLikeTo:
	default:
		return ErrInvalidValue
	}
	switch e {
	case "", model.EnergyEnergizing, model.EnergyNeutral, model.EnergyDraining:
	default:
		return ErrInvalidValue
	}
	return nil
}

// liveTask resolves a task that has not been soft-deleted.
func liveTask(db *store.DB, id string) (*model.Task, error) {
	id = strings.TrimSpace(id)
	t, ok := db.FindTask(id)
	if !ok {
		return nil, NotFoundError{Kind: "task", ID: id}
	}
	if t.IsDeleted() {
		return nil, ErrTaskDeleted
	}
	return t, nil
}

// SetTaskStatus moves a task between inbox, pool, complete and archived.
// Completing stamps CompletedAt; leaving complete clears it.
func SetTaskStatus(db *store.DB, taskID string, status model.TaskStatus, now time.Time) (TaskResult, error) {
	if !ValidStatus(status) {
		return TaskResult{}, ErrInvalidStatus
	}
	t, err := liveTask(db, taskID)
	if err != nil {
		return TaskResult{}, err
	}
	prev := t.Status
	if prev == status {
		return TaskResult{Task: t, Changed: false}, nil
	}
	t.Status = status
	if status == model.StatusComplete {
		at := now
		t.CompletedAt = &at
	} else {
		t.CompletedAt = nil
	}
	t.Touch(now)
	return TaskResult{
		Task:    t,
		Changed: true,
		EventPayload: map[string]any{
			"from": string(prev),
			"to":   string(status),
		},
	}, nil
}

// CompleteTask completes the task and marks its queue item done.
func CompleteTask(db *store.DB, taskID string, now time.Time) (TaskResult, error) {
	res, err := SetTaskStatus(db, taskID, model.StatusComplete, now)
	if err != nil {
		return res, err
	}
	if i := focus.ItemForTask(db.Queue, res.Task.ID); i >= 0 {
		_ = focus.MarkCompleted(&db.Queue, db.Queue.Items[i].ID, now)
	}
	return res, nil
}

// DeleteTask soft-deletes a task and drops it from the focus queue.
func DeleteTask(db *store.DB, taskID string, now time.Time) (TaskResult, error) {
	taskID = strings.TrimSpace(taskID)
	t, ok := db.FindTask(taskID)
	if !ok {
		return TaskResult{}, NotFoundError{Kind: "task", ID: taskID}
	}
	if t.IsDeleted() {
		return TaskResult{Task: t, Changed: false}, nil
	}
	at := now
	t.DeletedAt = &at
	t.Touch(now)
	pruned := focus.Prune(&db.Queue, db.Tasks)
	return TaskResult{
		Task:         t,
		Changed:      true,
		EventPayload: map[string]any{"queueItemsRemoved": pruned},
	}, nil
}

// RestoreTask undoes a soft delete.
func RestoreTask(db *store.DB, taskID string, now time.Time) (TaskResult, error) {
	taskID = strings.TrimSpace(taskID)
	t, ok := db.FindTask(taskID)
	if !ok {
		return TaskResult{}, NotFoundError{Kind: "task", ID: taskID}
	}
	if !t.IsDeleted() {
		return TaskResult{Task: t, Changed: false}, nil
	}
	t.DeletedAt = nil
	t.Touch(now)
	return TaskResult{Task: t, Changed: true, EventPayload: map[string]any{}}, nil
}

// TaskPatch carries optional field updates. A nil field is left unchanged;
// a pointer to "" clears the field.
type TaskPatch struct {
	Title         *string
	Notes         *string
	Priority      *model.Priority
	Importance    *model.Importance
	EnergyType    *model.EnergyType
	TargetDate    *string
	DeadlineDate  *string
	DeferredUntil *string
	ProjectID     *string

	WaitingOn      *model.WaitingOn
	ClearWaitingOn bool
}

func UpdateTask(db *store.DB, taskID string, p TaskPatch, now time.Time) (TaskResult, error) {
	t, err := liveTask(db, taskID)
	if err != nil {
		return TaskResult{}, err
	}
	next := *t
	changed := map[string]any{}

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return TaskResult{}, ErrTitleRequired
		}
		if title != next.Title {
			next.Title = title
			changed["title"] = title
		}
	}
	if p.Notes != nil && *p.Notes != next.Notes {
		next.Notes = *p.Notes
		changed["notes"] = true
	}
	var pr model.Priority
	var imp model.Importance
	var en model.EnergyType
	if p.Priority != nil {
		pr = *p.Priority
	}
	if p.Importance != nil {
		imp = *p.Importance
	}
	if p.EnergyType != nil {
		en = *p.EnergyType
	}
	if err := validateEnums(pr, imp, en); err != nil {
		return TaskResult{}, err
	}
	if p.Priority != nil && pr != next.Priority {
		next.Priority = pr
		changed["priority"] = string(pr)
	}
	if p.Importance != nil && imp != next.Importance {
		next.Importance = imp
		changed["importance"] = string(imp)
	}
	if p.EnergyType != nil && en != next.EnergyType {
		next.EnergyType = en
		changed["energyType"] = string(en)
	}

	dateFields := []struct {
		name string
		in   *string
		dst  *string
	}{
		{"targetDate", p.TargetDate, &next.TargetDate},
		{"deadlineDate", p.DeadlineDate, &next.DeadlineDate},
		{"deferredUntil", p.DeferredUntil, &next.DeferredUntil},
	}
	for _, f := range dateFields {
		if f.in == nil {
			continue
		}
		v := strings.TrimSpace(*f.in)
		if v != "" && !dates.Valid(v) {
			return TaskResult{}, ErrInvalidDate
		}
		if v != *f.dst {
			*f.dst = v
			changed[f.name] = v
		}
	}

	if p.ProjectID != nil {
		pid := strings.TrimSpace(*p.ProjectID)
		if pid != "" {
			if _, ok := db.FindProject(pid); !ok {
				return TaskResult{}, NotFoundError{Kind: "project", ID: pid}
			}
		}
		if pid != next.ProjectID {
			next.ProjectID = pid
			changed["projectId"] = pid
		}
	}

	switch {
	case p.ClearWaitingOn && next.WaitingOn != nil:
		next.WaitingOn = nil
		changed["waitingOn"] = nil
	case p.WaitingOn != nil:
		w := *p.WaitingOn
		w.Who = strings.TrimSpace(w.Who)
		if w.Since.IsZero() {
			w.Since = now
		}
		next.WaitingOn = &w
		changed["waitingOn"] = w.Who
	}

	if len(changed) == 0 {
		return TaskResult{Task: t, Changed: false}, nil
	}
	next.Touch(now)
	*t = next
	return TaskResult{Task: t, Changed: true, EventPayload: changed}, nil
}
