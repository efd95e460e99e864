package cli

import (
	"focus-tools/internal/focus"
	"focus-tools/internal/health"
	"focus-tools/internal/store"

	"github.com/spf13/cobra"
)

func storeDir(app *App) (string, error) {
	return store.ResolveDir(app.Dir)
}

func newStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show local store status",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			now, err := app.now()
			if err != nil {
				return writeErr(cmd, err)
			}
			_, summary := health.Classify(db.Tasks, now, app.cfg.DayStartHour, app.cfg.Health)
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"dir":        s.Dir,
					"version":    db.Version,
					"tasks":      len(db.LiveTasks()),
					"deleted":    len(db.Tasks) - len(db.LiveTasks()),
					"projects":   len(db.Projects),
					"today":      len(focus.Today(db.Queue)),
					"upcoming":   len(focus.Upcoming(db.Queue)),
					"sessions":   len(db.Sessions),
					"focus":      focus.PhaseOf(db.Focus),
					"energy":     db.Energy,
					"health":     summary,
					"logicalDay": app.today(now),
				},
			})
		},
	}
	return cmd
}
