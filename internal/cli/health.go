package cli

import (
	"slices"

	"focus-tools/internal/health"

	"github.com/spf13/cobra"
)

func newHealthCmd(app *App) *cobra.Command {
	var statuses []string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Classify active tasks as healthy, at risk or critical (worst first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			now, err := app.now()
			if err != nil {
				return writeErr(cmd, err)
			}
			want := make([]health.Status, 0, len(statuses))
			for _, st := range statuses {
				hs := health.Status(st)
				switch hs {
				case health.StatusHealthy, health.StatusAtRisk, health.StatusCritical:
					want = append(want, hs)
				default:
					return writeErr(cmd, errInvalidFlag("status", st, "healthy|at_risk|critical"))
				}
			}

			entries, summary := health.Classify(db.Tasks, now, app.cfg.DayStartHour, app.cfg.Health)
			if len(want) > 0 {
				entries = slices.DeleteFunc(entries, func(e health.Entry) bool { return !slices.Contains(want, e.Status) })
			}
			out := map[string]any{"data": entries, "meta": summary}
			if summary.Critical > 0 {
				out["_hints"] = []string{"focus tasks show <task-id>", "focus tasks set <task-id> --deadline <date>"}
			}
			return writeOut(cmd, app, out)
		},
	}
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Only show these health statuses (healthy|at_risk|critical)")
	return cmd
}
