package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"focus-tools/internal/model"
)

// Export writes the snapshot as indented JSON.
func Export(w io.Writer, db *DB) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(db)
}

// Import decodes a snapshot written by Export. Missing collections become empty.
func Import(r io.Reader) (*DB, error) {
	var db DB
	if err := json.NewDecoder(r).Decode(&db); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if db.Version == 0 {
		db.Version = stateVersion
	}
	if db.Version > stateVersion {
		return nil, fmt.Errorf("snapshot version %d is newer than supported version %d", db.Version, stateVersion)
	}
	if db.Tasks == nil {
		db.Tasks = []model.Task{}
	}
	if db.Projects == nil {
		db.Projects = []model.Project{}
	}
	if db.Queue.Items == nil {
		db.Queue.Items = []model.FocusQueueItem{}
	}
	if db.Sessions == nil {
		db.Sessions = []model.FocusSessionRecord{}
	}
	db.Queue.TodayLineIndex = min(max(db.Queue.TodayLineIndex, 0), len(db.Queue.Items))
	return &db, nil
}

// ExportFile writes a snapshot to path, creating parent directories.
func ExportFile(path string, db *DB) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Export(f, db); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func ImportFile(path string) (*DB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Import(f)
}
