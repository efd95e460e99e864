package cli

import (
	"github.com/spf13/cobra"
)

func newTasksEventsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events <task-id>",
		Short: "List a task's change history (oldest-first)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, ok := db.FindTask(args[0]); !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			evs, err := s.ReadEventsForEntity(args[0], limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": evs})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Max events to return (0 = all)")
	return cmd
}
