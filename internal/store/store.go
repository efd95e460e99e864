package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"focus-tools/internal/config"
	"focus-tools/internal/model"
)

const (
	sqliteFileName = "state.sqlite"
	envDataDir     = "FOCUS_DIR"
)

// DB is the whole persisted state, loaded and saved as one snapshot.
type DB struct {
	Version  int                        `json:"version" yaml:"version"`
	Tasks    []model.Task               `json:"tasks" yaml:"tasks"`
	Projects []model.Project            `json:"projects" yaml:"projects"`
	Queue    model.FocusQueue           `json:"queue" yaml:"queue"`
	Focus    model.FocusModeState       `json:"focus" yaml:"focus"`
	Sessions []model.FocusSessionRecord `json:"sessions" yaml:"sessions"`
	Energy   model.EnergyLevel          `json:"energy,omitempty" yaml:"energy,omitempty"`
}

type Store struct {
	Dir string
}

// ResolveDir picks the data directory: explicit flag, then FOCUS_DIR, then <config dir>/data.
func ResolveDir(explicit string) (string, error) {
	if d := strings.TrimSpace(explicit); d != "" {
		return filepath.Clean(d), nil
	}
	if d := strings.TrimSpace(os.Getenv(envDataDir)); d != "" {
		return filepath.Clean(d), nil
	}
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store: empty dir")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

func (s Store) Load() (*DB, error) {
	return s.LoadSQLite(context.Background())
}

func (s Store) Save(db *DB) error {
	return s.SaveSQLite(context.Background(), db)
}

// LiveTasks returns live (not soft-deleted) tasks.
func (db *DB) LiveTasks() []model.Task {
	out := make([]model.Task, 0, len(db.Tasks))
	for _, t := range db.Tasks {
		if !t.IsDeleted() {
			out = append(out, t)
		}
	}
	return out
}

// FindTask returns a pointer into db.Tasks, including soft-deleted tasks.
func (db *DB) FindTask(id string) (*model.Task, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Tasks {
		if db.Tasks[i].ID == id {
			return &db.Tasks[i], true
		}
	}
	return nil, false
}

func (db *DB) FindProject(id string) (*model.Project, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Projects {
		if db.Projects[i].ID == id {
			return &db.Projects[i], true
		}
	}
	return nil, false
}

// FindProjectByName matches case-insensitively.
func (db *DB) FindProjectByName(name string) (*model.Project, bool) {
	name = strings.TrimSpace(name)
	for i := range db.Projects {
		if strings.EqualFold(db.Projects[i].Name, name) {
			return &db.Projects[i], true
		}
	}
	return nil, false
}

// SessionsForTask returns focus history for one task, oldest first.
func (db *DB) SessionsForTask(taskID string) []model.FocusSessionRecord {
	var out []model.FocusSessionRecord
	for _, s := range db.Sessions {
		if s.TaskID == taskID {
			out = append(out, s)
		}
	}
	return out
}
