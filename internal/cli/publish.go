package cli

import (
	"errors"
	"strings"

	"focus-tools/internal/publish"

	"github.com/spf13/cobra"
)

func newPublishCmd(app *App) *cobra.Command {
	var toDir string
	var includeDeleted bool
	var includeSessions bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write Markdown copies of tasks or the queue (derived, not canonical)",
	}

	taskCmd := &cobra.Command{
		Use:   "task <task-id>",
		Short: "Publish a single task as Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(toDir) == "" {
				return writeErr(cmd, errors.New("missing --to"))
			}
			res, err := publish.WriteTask(db, args[0], toDir, publish.WriteOptions{
				IncludeDeleted:  includeDeleted,
				IncludeSessions: includeSessions,
				Overwrite:       overwrite,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope(res, "focus tasks show "+args[0]))
		},
	}
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Publish today's plan (queue sections with selected steps) as Markdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			now, err := app.now()
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(toDir) == "" {
				return writeErr(cmd, errors.New("missing --to"))
			}
			res, err := publish.WriteQueue(db, app.today(now), toDir, publish.WriteOptions{Overwrite: overwrite})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope(res))
		},
	}

	cmd.PersistentFlags().StringVar(&toDir, "to", "", "Output directory")
	cmd.PersistentFlags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	taskCmd.Flags().BoolVar(&includeDeleted, "include-deleted", false, "Allow publishing a deleted task")
	taskCmd.Flags().BoolVar(&includeSessions, "sessions", false, "Include focus session history")

	cmd.AddCommand(taskCmd)
	cmd.AddCommand(queueCmd)
	return cmd
}
