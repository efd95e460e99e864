package store

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"focus-tools/internal/model"
)

// AppendEvent records one mutation in the append-only events table.
// Events are informational; callers save the snapshot first.
func (s Store) AppendEvent(ts time.Time, typ, entityID string, payload any) error {
	ctx := context.Background()
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	raw := []byte("null")
	if payload != nil {
		if raw, err = json.Marshal(payload); err != nil {
			return err
		}
	}
	_, err = db.ExecContext(ctx, `INSERT INTO events(id, ts_unixms, type, entity_id, payload_json) VALUES(?, ?, ?, ?, ?)`,
		model.NewID("evt"), ts.UTC().UnixMilli(), strings.TrimSpace(typ), strings.TrimSpace(entityID), string(raw))
	return err
}

// ReadEventsForEntity returns the newest limit events for entityID, oldest first.
// limit <= 0 means all.
func (s Store) ReadEventsForEntity(entityID string, limit int) ([]model.Event, error) {
	ctx := context.Background()
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT id, ts_unixms, type, entity_id, payload_json FROM events WHERE entity_id = ? ORDER BY ts_unixms DESC, rowid DESC`
	args := []any{strings.TrimSpace(entityID)}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var (
			ev      model.Event
			tsMs    int64
			payload string
		)
		if err := rows.Scan(&ev.ID, &tsMs, &ev.Type, &ev.EntityID, &payload); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(tsMs).UTC()
		ev.Payload = json.RawMessage(payload)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Reverse into chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
