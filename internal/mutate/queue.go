package mutate

import (
	"strings"
	"time"

	"focus-tools/internal/focus"
	"focus-tools/internal/model"
	"focus-tools/internal/store"
)

type QueueResult struct {
	Item         model.FocusQueueItem
	Section      focus.Section
	Changed      bool
	EventPayload map[string]any
}

// ResolveQueueItem accepts a queue item id or the id of a queued task.
func ResolveQueueItem(db *store.DB, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if i := focus.FindItem(db.Queue, ref); i >= 0 {
		return db.Queue.Items[i].ID, nil
	}
	if i := focus.ItemForTask(db.Queue, ref); i >= 0 {
		return db.Queue.Items[i].ID, nil
	}
	return "", NotFoundError{Kind: "queue item", ID: ref}
}

func queueResult(db *store.DB, itemID string, payload map[string]any) QueueResult {
	i := focus.FindItem(db.Queue, itemID)
	if i < 0 {
		return QueueResult{Changed: true, EventPayload: payload}
	}
	sec := focus.SectionOf(db.Queue, i)
	payload["section"] = string(sec)
	payload["position"] = i
	return QueueResult{Item: db.Queue.Items[i], Section: sec, Changed: true, EventPayload: payload}
}

// QueueAdd queues a task, or updates its selection when it is already queued.
func QueueAdd(db *store.DB, taskID string, sel model.SelectionType, stepIDs []string, section focus.Section, now time.Time) (QueueResult, error) {
	t, err := liveTask(db, taskID)
	if err != nil {
		return QueueResult{}, err
	}
	existed := focus.ItemForTask(db.Queue, t.ID) >= 0
	it, err := focus.Add(&db.Queue, *t, sel, stepIDs, section, now)
	if err != nil {
		return QueueResult{}, err
	}
	return queueResult(db, it.ID, map[string]any{
		"taskId":        t.ID,
		"selectionType": string(it.SelectionType),
		"updated":       existed,
	}), nil
}

func QueueRemove(db *store.DB, ref string) (QueueResult, error) {
	id, err := ResolveQueueItem(db, ref)
	if err != nil {
		return QueueResult{}, err
	}
	it := db.Queue.Items[focus.FindItem(db.Queue, id)]
	if err := focus.Remove(&db.Queue, id); err != nil {
		return QueueResult{}, err
	}
	return QueueResult{Item: it, Changed: true, EventPayload: map[string]any{"taskId": it.TaskID}}, nil
}

// QueueMove moves an item to position within its section (0-based).
func QueueMove(db *store.DB, ref string, position int) (QueueResult, error) {
	id, err := ResolveQueueItem(db, ref)
	if err != nil {
		return QueueResult{}, err
	}
	if err := focus.Move(&db.Queue, id, position); err != nil {
		return QueueResult{}, err
	}
	return queueResult(db, id, map[string]any{}), nil
}

// QueueSetSection moves an item across the today line.
func QueueSetSection(db *store.DB, ref string, section focus.Section) (QueueResult, error) {
	id, err := ResolveQueueItem(db, ref)
	if err != nil {
		return QueueResult{}, err
	}
	switch section {
	case focus.SectionToday:
		err = focus.MoveToToday(&db.Queue, id)
	case focus.SectionUpcoming:
		err = focus.MoveToUpcoming(&db.Queue, id)
	default:
		return QueueResult{}, ErrInvalidValue
	}
	if err != nil {
		return QueueResult{}, err
	}
	return queueResult(db, id, map[string]any{}), nil
}
