package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"focus-tools/internal/model"

	_ "modernc.org/sqlite"
)

const stateVersion = 1

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL gives one writer and many readers; busy_timeout covers a TUI and a CLI call overlapping.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// LoadSQLite reads the full snapshot. An empty database yields an empty DB.
func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return loadStateFromSQLite(ctx, db)
}

// SaveSQLite replaces the stored snapshot with st in one transaction.
// The events table is append-only and is not touched here.
func (s Store) SaveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	version := st.Version
	if version == 0 {
		version = stateVersion
	}
	focusJSON, err := json.Marshal(st.Focus)
	if err != nil {
		return err
	}
	meta := map[string]string{
		"version":          strconv.Itoa(version),
		"energy":           string(st.Energy),
		"today_line_index": strconv.Itoa(st.Queue.TodayLineIndex),
		"focus":            string(focusJSON),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, k, v); err != nil {
			return err
		}
	}

	for _, t := range []string{"projects", "tasks", "queue_items", "sessions"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	nowMs := time.Now().UTC().UnixMilli()

	for i, p := range st.Projects {
		raw, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO projects(id, pos, name, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			p.ID, i, p.Name, string(raw), nowMs); err != nil {
			return err
		}
	}
	for i, t := range st.Tasks {
		raw, err := json.Marshal(t)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO tasks(
			id, pos, project_id, status,
			deadline_date, deferred_until,
			recurring, deleted,
			json, updated_at_unixms
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, i, t.ProjectID, string(t.Status),
			t.DeadlineDate, t.DeferredUntil,
			boolToInt(t.IsRecurring()), boolToInt(t.IsDeleted()),
			string(raw), t.UpdatedAt.UTC().UnixMilli(),
		); err != nil {
			return err
		}
	}
	for i, it := range st.Queue.Items {
		raw, err := json.Marshal(it)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO queue_items(id, pos, task_id, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			it.ID, i, it.TaskID, string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, rec := range st.Sessions {
		raw, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO sessions(id, task_id, started_at_unixms, json) VALUES(?, ?, ?, ?)`,
			rec.ID, rec.TaskID, rec.StartedAt.UTC().UnixMilli(), string(raw)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			pos INTEGER NOT NULL,
			name TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			pos INTEGER NOT NULL,
			project_id TEXT NOT NULL,
			status TEXT NOT NULL,
			deadline_date TEXT NOT NULL,
			deferred_until TEXT NOT NULL,
			recurring INTEGER NOT NULL,
			deleted INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status, deleted);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_deadline ON tasks(deadline_date);`,
		`CREATE TABLE IF NOT EXISTS queue_items (
			id TEXT PRIMARY KEY,
			pos INTEGER NOT NULL,
			task_id TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			task_id TEXT NOT NULL,
			started_at_unixms INTEGER NOT NULL,
			json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_task ON sessions(task_id, started_at_unixms);`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			ts_unixms INTEGER NOT NULL,
			type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			payload_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_entity ON events(entity_id, ts_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func loadStateFromSQLite(ctx context.Context, db *sql.DB) (*DB, error) {
	out := &DB{Version: stateVersion}

	readMeta := func(k string) string {
		var v string
		_ = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, k).Scan(&v)
		return strings.TrimSpace(v)
	}
	if n, err := strconv.Atoi(readMeta("version")); err == nil {
		out.Version = n
	}
	out.Energy = model.EnergyLevel(readMeta("energy"))
	if v := readMeta("focus"); v != "" {
		if err := json.Unmarshal([]byte(v), &out.Focus); err != nil {
			return nil, err
		}
	}

	var err error
	if out.Projects, err = readJSONRows[model.Project](ctx, db, `SELECT json FROM projects ORDER BY pos`); err != nil {
		return nil, err
	}
	if out.Tasks, err = readJSONRows[model.Task](ctx, db, `SELECT json FROM tasks ORDER BY pos`); err != nil {
		return nil, err
	}
	if out.Queue.Items, err = readJSONRows[model.FocusQueueItem](ctx, db, `SELECT json FROM queue_items ORDER BY pos`); err != nil {
		return nil, err
	}
	if out.Sessions, err = readJSONRows[model.FocusSessionRecord](ctx, db, `SELECT json FROM sessions ORDER BY started_at_unixms, id`); err != nil {
		return nil, err
	}
	if n, err := strconv.Atoi(readMeta("today_line_index")); err == nil {
		out.Queue.TodayLineIndex = min(max(n, 0), len(out.Queue.Items))
	}

	// Nil slices are empty for stable callers and stable JSON output.
	if out.Projects == nil {
		out.Projects = []model.Project{}
	}
	if out.Tasks == nil {
		out.Tasks = []model.Task{}
	}
	if out.Queue.Items == nil {
		out.Queue.Items = []model.FocusQueueItem{}
	}
	if out.Sessions == nil {
		out.Sessions = []model.FocusSessionRecord{}
	}
	return out, nil
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
