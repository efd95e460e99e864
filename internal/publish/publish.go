// Package publish writes tasks and the focus queue as markdown files.
package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"focus-tools/internal/store"
)

type WriteOptions struct {
	IncludeDeleted  bool
	IncludeSessions bool
	Overwrite       bool
}

type WriteResult struct {
	Written []string `json:"written" yaml:"written"`
}

func WriteTask(db *store.DB, taskID string, toDir string, opt WriteOptions) (WriteResult, error) {
	if db == nil {
		return WriteResult{}, errors.New("missing db")
	}
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return WriteResult{}, errors.New("missing taskID")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}

	md, err := RenderTaskMarkdown(db, taskID, RenderOptions{
		IncludeDeleted:  opt.IncludeDeleted,
		IncludeSessions: opt.IncludeSessions,
	})
	if err != nil {
		return WriteResult{}, err
	}

	outDir := filepath.Join(filepath.Clean(toDir), "tasks")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	outPath := filepath.Join(outDir, taskID+".md")
	if err := writeFile(outPath, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

// WriteQueue writes the queue plan to <toDir>/plan-<date>.md.
func WriteQueue(db *store.DB, date string, toDir string, opt WriteOptions) (WriteResult, error) {
	if db == nil {
		return WriteResult{}, errors.New("missing db")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	outPath := filepath.Join(toDir, "plan-"+date+".md")
	if err := writeFile(outPath, []byte(RenderQueueMarkdown(db, "Focus plan "+date)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
