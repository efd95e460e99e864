package cli

import (
	"slices"
	"strconv"
	"time"

	"focus-tools/internal/focus"
	"focus-tools/internal/model"
	"focus-tools/internal/mutate"
	"focus-tools/internal/store"

	"github.com/spf13/cobra"
)

func newQueueCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Focus queue commands (today / upcoming)",
	}
	cmd.AddCommand(newQueueListCmd(app))
	cmd.AddCommand(newQueueAddCmd(app))
	cmd.AddCommand(newQueueRemoveCmd(app))
	cmd.AddCommand(newQueueMoveCmd(app))
	cmd.AddCommand(newQueueSectionCmd(app, focus.SectionToday))
	cmd.AddCommand(newQueueSectionCmd(app, focus.SectionUpcoming))
	return cmd
}

func newQueueListCmd(app *App) *cobra.Command {
	var section string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the queue in its manual order, annotated with priority",
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
			switch focus.Section(section) {
			case "", focus.SectionToday, focus.SectionUpcoming:
			default:
				return writeErr(cmd, errInvalidFlag("section", section, "today|upcoming"))
			}

			items := focus.View(db.Queue, db.Tasks, energy, now, app.cfg.DayStartHour, app.cfg.Priority)
			if section != "" {
				items = slices.DeleteFunc(items, func(v focus.ViewItem) bool { return v.Section != focus.Section(section) })
			}
			return writeOut(cmd, app, map[string]any{
				"data": items,
				"meta": map[string]any{
					"today":    len(focus.Today(db.Queue)),
					"upcoming": len(focus.Upcoming(db.Queue)),
				},
			})
		},
	}
	cmd.Flags().StringVar(&section, "section", "", "Only this section (today|upcoming)")
	return cmd
}

func newQueueAddCmd(app *App) *cobra.Command {
	var steps []string
	var selection string
	var upcoming bool

	cmd := &cobra.Command{
		Use:   "add <task-id>",
		Short: "Queue a task (re-adding updates its step selection)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := model.SelectionType(selection)
			if len(steps) > 0 {
				sel = model.SelectionSpecificSteps
			}
			section := focus.SectionToday
			if upcoming {
				section = focus.SectionUpcoming
			}
			return runQueueMutation(cmd, app, "queue.add", func(db *store.DB, now time.Time) (mutate.QueueResult, error) {
				return mutate.QueueAdd(db, args[0], sel, steps, section, now)
			}, "focus focus start "+args[0])
		},
	}
	cmd.Flags().StringSliceVar(&steps, "steps", nil, "Only these step ids (implies --selection specific_steps)")
	cmd.Flags().StringVar(&selection, "selection", "", "Step selection (all_today|all_upcoming|specific_steps)")
	cmd.Flags().BoolVar(&upcoming, "upcoming", false, "Add below the today line")
	return cmd
}

func newQueueRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <queue-item-or-task-id>",
		Short: "Remove an item from the queue (the task is kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueueMutation(cmd, app, "queue.remove", func(db *store.DB, now time.Time) (mutate.QueueResult, error) {
				return mutate.QueueRemove(db, args[0])
			})
		},
	}
	return cmd
}

func newQueueMoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <queue-item-or-task-id> <position>",
		Short: "Move an item to a 0-based position within its section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[1])
			if err != nil {
				return writeErr(cmd, errInvalidFlag("position", args[1], "an integer"))
			}
			return runQueueMutation(cmd, app, "queue.move", func(db *store.DB, now time.Time) (mutate.QueueResult, error) {
				return mutate.QueueMove(db, args[0], pos)
			})
		},
	}
	return cmd
}

func newQueueSectionCmd(app *App, section focus.Section) *cobra.Command {
	short := "Move an item to the end of today"
	if section == focus.SectionUpcoming {
		short = "Move an item to the top of upcoming"
	}
	cmd := &cobra.Command{
		Use:   string(section) + " <queue-item-or-task-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueueMutation(cmd, app, "queue.section", func(db *store.DB, now time.Time) (mutate.QueueResult, error) {
				return mutate.QueueSetSection(db, args[0], section)
			})
		},
	}
	return cmd
}

func runQueueMutation(cmd *cobra.Command, app *App, eventType string, fn func(db *store.DB, now time.Time) (mutate.QueueResult, error), hints ...string) error {
	db, s, err := loadDB(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	now, err := app.now()
	if err != nil {
		return writeErr(cmd, err)
	}
	res, err := fn(db, now)
	if err != nil {
		return writeErrHints(cmd, err)
	}
	if err := save(app, s, db, now, eventType, res.Item.ID, res.EventPayload); err != nil {
		return writeErr(cmd, err)
	}
	out := map[string]any{"item": res.Item}
	if res.Section != "" {
		out["section"] = res.Section
	}
	return writeOut(cmd, app, envelope(out, hints...))
}
