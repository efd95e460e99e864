package cli

import (
	"slices"

	"focus-tools/internal/config"
	"focus-tools/internal/model"
	"focus-tools/internal/priority"

	"github.com/spf13/cobra"
)

// nextCandidates are the tasks worth ranking today: active one-off tasks that
// are not deferred past today.
func nextCandidates(tasks []model.Task, today string) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsDeleted() || t.IsRecurring() || t.Status != model.StatusPool {
			continue
		}
		if t.DeferredUntil != "" && t.DeferredUntil > today {
			continue
		}
		out = append(out, t)
	}
	return out
}

func newNextCmd(app *App) *cobra.Command {
	var limit int
	var hideMismatched bool
	var tiers []string

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Rank active tasks by priority score and tier",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			now, err := app.now()
			if err != nil {
				return writeErr(cmd, err)
			}
			energy, err := app.energy(db)
			if err != nil {
				return writeErr(cmd, err)
			}
			want := make([]priority.Tier, 0, len(tiers))
			for _, tr := range tiers {
				switch pt := priority.Tier(tr); pt {
				case priority.TierCritical, priority.TierHigh, priority.TierMedium, priority.TierLow:
					want = append(want, pt)
				default:
					return writeErr(cmd, errInvalidFlag("tier", tr, "critical|high|medium|low"))
				}
			}

			mode := app.cfg.EnergyFilter
			if hideMismatched {
				mode = config.EnergyFilterHideMismatched
			}
			visible, hidden := priority.FilterByEnergy(nextCandidates(db.Tasks, app.today(now)), energy, mode)
			ranked := priority.Rank(visible, energy, now, app.cfg.DayStartHour, app.cfg.Priority)
			if len(want) > 0 {
				ranked = slices.DeleteFunc(ranked, func(s priority.Scored) bool { return !slices.Contains(want, s.Info.Tier) })
			}
			if limit > 0 && len(ranked) > limit {
				ranked = ranked[:limit]
			}

			out := map[string]any{
				"data": ranked,
				"meta": map[string]any{"energy": energy, "hiddenByEnergy": len(hidden)},
			}
			if len(ranked) > 0 {
				out["_hints"] = []string{"focus queue add " + ranked[0].Task.ID}
			}
			return writeOut(cmd, app, out)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Max tasks (0 = all)")
	cmd.Flags().BoolVar(&hideMismatched, "hide-mismatched", false, "Hide tasks whose energy type mismatches your energy")
	cmd.Flags().StringSliceVar(&tiers, "tier", nil, "Only these tiers (critical|high|medium|low)")
	return cmd
}
