package cli

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"focus-tools/internal/mutate"
	"focus-tools/internal/store"

	"github.com/spf13/cobra"
)

func newTasksNotesCmd(app *App) *cobra.Command {
	var text string
	var file string
	var appendMode bool

	cmd := &cobra.Command{
		Use:     "notes <task-id>",
		Short:   "Replace or append to a task's markdown notes (--text, --file, or --file - for stdin)",
		Aliases: []string{"note"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readNotesInput(cmd, text, file)
			if err != nil {
				return writeErr(cmd, err)
			}
			return runTaskMutation(cmd, app, "task.notes", func(db *store.DB, now time.Time) (mutate.TaskResult, error) {
				notes := body
				if appendMode {
					if t, ok := db.FindTask(args[0]); ok && strings.TrimSpace(t.Notes) != "" {
						notes = strings.TrimRight(t.Notes, "\n") + "\n\n" + body
					}
				}
				return mutate.UpdateTask(db, args[0], mutate.TaskPatch{Notes: &notes}, now)
			})
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Markdown text")
	cmd.Flags().StringVar(&file, "file", "", "Read markdown from a file (- for stdin)")
	cmd.Flags().BoolVar(&appendMode, "append", false, "Append instead of replacing")
	return cmd
}

func readNotesInput(cmd *cobra.Command, text, file string) (string, error) {
	switch {
	case text != "" && file != "":
		return "", errors.New("use either --text or --file, not both")
	case file == "-":
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	default:
		return strings.TrimSpace(text), nil
	}
}
