// Package focus owns the manually ordered focus queue and the focus-session
// state machine (idle, active, paused).
//
// Queue order is the user's. Priority is computed alongside it for display
// and never reorders items.
package focus

import (
	"errors"
	"slices"
	"time"

	"focus-tools/internal/config"
	"focus-tools/internal/model"
	"focus-tools/internal/priority"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrQueueItemNotFound  = errors.New("queue item not found")
	ErrRecurringTask      = errors.New("recurring tasks are focused by occurrence, not queued")
	ErrInvalidSelection   = errors.New("invalid step selection")
	ErrNotActive          = errors.New("no focus session is active")
	ErrAlreadyPaused      = errors.New("focus session is already paused")
	ErrNotPaused          = errors.New("focus session is not paused")
	ErrSessionActive      = errors.New("a focus session is already active")
	ErrNoActiveOccurrence = errors.New("no active occurrence")
	ErrNoOpenStep         = errors.New("no open step in focus")
)

type Section string

const (
	SectionToday    Section = "today"
	SectionUpcoming Section = "upcoming"
)

// normalize keeps TodayLineIndex inside the item list.
func normalize(q *model.FocusQueue) {
	if q.TodayLineIndex < 0 {
		q.TodayLineIndex = 0
	}
	if q.TodayLineIndex > len(q.Items) {
		q.TodayLineIndex = len(q.Items)
	}
}

// FindItem returns the index of the item with id, or -1.
func FindItem(q model.FocusQueue, itemID string) int {
	return slices.IndexFunc(q.Items, func(it model.FocusQueueItem) bool { return it.ID == itemID })
}

// ItemForTask returns the index of the item queued for taskID, or -1.
func ItemForTask(q model.FocusQueue, taskID string) int {
	return slices.IndexFunc(q.Items, func(it model.FocusQueueItem) bool { return it.TaskID == taskID })
}

// SectionOf reports which side of the today line index i falls on.
func SectionOf(q model.FocusQueue, i int) Section {
	if i < q.TodayLineIndex {
		return SectionToday
	}
	return SectionUpcoming
}

// Add queues task. A task appears at most once: adding it again replaces the
// selection in place and keeps its position.
func Add(q *model.FocusQueue, task model.Task, sel model.SelectionType, stepIDs []string, section Section, now time.Time) (model.FocusQueueItem, error) {
	normalize(q)
	if task.IsDeleted() {
		return model.FocusQueueItem{}, ErrTaskNotFound
	}
	if task.IsRecurring() {
		return model.FocusQueueItem{}, ErrRecurringTask
	}
	if sel == "" {
		sel = model.SelectionAllToday
	}
	ids, err := validateSelection(task, sel, stepIDs)
	if err != nil {
		return model.FocusQueueItem{}, err
	}

	if i := ItemForTask(*q, task.ID); i >= 0 {
		it := &q.Items[i]
		it.SelectionType = sel
		it.SelectedStepIDs = ids
		it.Completed = false
		it.LastInteractedAt = now
		return *it, nil
	}

	item := model.FocusQueueItem{
		ID:               model.NewID("qi"),
		TaskID:           task.ID,
		SelectionType:    sel,
		SelectedStepIDs:  ids,
		AddedAt:          now,
		LastInteractedAt: now,
	}
	if section == SectionUpcoming {
		q.Items = append(q.Items, item)
		return item, nil
	}
	q.Items = slices.Insert(q.Items, q.TodayLineIndex, item)
	q.TodayLineIndex++
	return item, nil
}

func validateSelection(task model.Task, sel model.SelectionType, stepIDs []string) ([]string, error) {
	switch sel {
	case model.SelectionAllToday, model.SelectionAllUpcoming:
		return nil, nil
	case model.SelectionSpecificSteps:
		if len(stepIDs) == 0 {
			return nil, ErrInvalidSelection
		}
		out := make([]string, 0, len(stepIDs))
		for _, id := range stepIDs {
			if !slices.ContainsFunc(task.Steps, func(s model.Step) bool { return s.ID == id }) {
				return nil, ErrInvalidSelection
			}
			if !slices.Contains(out, id) {
				out = append(out, id)
			}
		}
		return out, nil
	default:
		return nil, ErrInvalidSelection
	}
}

func removeAt(q *model.FocusQueue, i int) model.FocusQueueItem {
	it := q.Items[i]
	q.Items = slices.Delete(q.Items, i, i+1)
	if i < q.TodayLineIndex {
		q.TodayLineIndex--
	}
	return it
}

// Remove drops an item. The task itself is untouched.
func Remove(q *model.FocusQueue, itemID string) error {
	normalize(q)
	i := FindItem(*q, itemID)
	if i < 0 {
		return ErrQueueItemNotFound
	}
	removeAt(q, i)
	return nil
}

// Move repositions an item within its own section. to is an index relative
// to the start of that section and is clamped to the section bounds.
func Move(q *model.FocusQueue, itemID string, to int) error {
	normalize(q)
	i := FindItem(*q, itemID)
	if i < 0 {
		return ErrQueueItemNotFound
	}
	lo, hi := 0, q.TodayLineIndex-1
	if SectionOf(*q, i) == SectionUpcoming {
		lo, hi = q.TodayLineIndex, len(q.Items)-1
	}
	target := min(max(lo+to, lo), hi)
	it := q.Items[i]
	q.Items = slices.Delete(q.Items, i, i+1)
	q.Items = slices.Insert(q.Items, target, it)
	return nil
}

// MoveToToday moves an upcoming item to the end of today.
func MoveToToday(q *model.FocusQueue, itemID string) error {
	normalize(q)
	i := FindItem(*q, itemID)
	if i < 0 {
		return ErrQueueItemNotFound
	}
	if i < q.TodayLineIndex {
		return nil
	}
	it := removeAt(q, i)
	q.Items = slices.Insert(q.Items, q.TodayLineIndex, it)
	q.TodayLineIndex++
	return nil
}

// MoveToUpcoming moves a today item to the top of upcoming.
func MoveToUpcoming(q *model.FocusQueue, itemID string) error {
	normalize(q)
	i := FindItem(*q, itemID)
	if i < 0 {
		return ErrQueueItemNotFound
	}
	if i >= q.TodayLineIndex {
		return nil
	}
	it := removeAt(q, i)
	q.Items = slices.Insert(q.Items, q.TodayLineIndex, it)
	return nil
}

func MarkCompleted(q *model.FocusQueue, itemID string, now time.Time) error {
	i := FindItem(*q, itemID)
	if i < 0 {
		return ErrQueueItemNotFound
	}
	q.Items[i].Completed = true
	q.Items[i].LastInteractedAt = now
	return nil
}

// Touch records an interaction with the item, if it exists.
func Touch(q *model.FocusQueue, itemID string, now time.Time) {
	if i := FindItem(*q, itemID); i >= 0 {
		q.Items[i].LastInteractedAt = now
	}
}

// Prune drops items whose task is gone or soft-deleted and returns how many were removed.
func Prune(q *model.FocusQueue, tasks []model.Task) int {
	normalize(q)
	removed := 0
	for i := len(q.Items) - 1; i >= 0; i-- {
		if _, ok := FindTask(tasks, q.Items[i].TaskID); !ok {
			removeAt(q, i)
			removed++
		}
	}
	return removed
}

func Today(q model.FocusQueue) []model.FocusQueueItem {
	normalize(&q)
	return slices.Clone(q.Items[:q.TodayLineIndex])
}

func Upcoming(q model.FocusQueue) []model.FocusQueueItem {
	normalize(&q)
	return slices.Clone(q.Items[q.TodayLineIndex:])
}

// ViewItem is a queue item joined with its task and an advisory priority.
type ViewItem struct {
	Item     model.FocusQueueItem `json:"item" yaml:"item"`
	Section  Section              `json:"section" yaml:"section"`
	Task     model.Task           `json:"task" yaml:"task"`
	Priority priority.Info        `json:"priority" yaml:"priority"`
}

// View annotates the queue in its stored order. Items whose task is missing are skipped.
func View(q model.FocusQueue, tasks []model.Task, energy model.EnergyLevel, now time.Time, dayStartHour int, cfg config.Priority) []ViewItem {
	normalize(&q)
	out := make([]ViewItem, 0, len(q.Items))
	for i, it := range q.Items {
		task, ok := FindTask(tasks, it.TaskID)
		if !ok {
			continue
		}
		out = append(out, ViewItem{
			Item:     it,
			Section:  SectionOf(q, i),
			Task:     task,
			Priority: priority.GetTaskPriorityInfo(task, energy, now, dayStartHour, cfg),
		})
	}
	return out
}

// FindTask looks up a live (not soft-deleted) task by id.
func FindTask(tasks []model.Task, id string) (model.Task, bool) {
	for _, t := range tasks {
		if t.ID == id && !t.IsDeleted() {
			return t, true
		}
	}
	return model.Task{}, false
}
