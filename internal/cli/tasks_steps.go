package cli

import (
	"strings"
	"time"

	"focus-tools/internal/mutate"
	"focus-tools/internal/store"

	"github.com/spf13/cobra"
)

func newTasksStepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "step",
		Aliases: []string{"steps"},
		Short:   "Step commands (one-off tasks; recurring steps are per occurrence)",
	}
	cmd.AddCommand(newTasksStepAddCmd(app))
	cmd.AddCommand(newTasksStepToggleCmd(app))
	cmd.AddCommand(newTasksStepRemoveCmd(app))
	return cmd
}

func newTasksStepAddCmd(app *App) *cobra.Command {
	var minutes int

	cmd := &cobra.Command{
		Use:   "add <task-id> <text>",
		Short: "Append a step",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var est *int
			if cmd.Flags().Changed("minutes") {
				est = &minutes
			}
			text := strings.Join(args[1:], " ")
			return runStepMutation(cmd, app, "step.add", func(db *store.DB, now time.Time) (mutate.StepResult, error) {
				return mutate.AddStep(db, args[0], text, est, now)
			})
		},
	}
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Estimated minutes")
	return cmd
}

func newTasksStepToggleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <task-id> <step-id>",
		Short: "Toggle a step's completion",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStepMutation(cmd, app, "step.toggle", func(db *store.DB, now time.Time) (mutate.StepResult, error) {
				return mutate.ToggleStep(db, args[0], args[1], now)
			})
		},
	}
	return cmd
}

func newTasksStepRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <task-id> <step-id>",
		Short: "Remove a step",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStepMutation(cmd, app, "step.remove", func(db *store.DB, now time.Time) (mutate.StepResult, error) {
				return mutate.RemoveStep(db, args[0], args[1], now)
			})
		},
	}
	return cmd
}

func runStepMutation(cmd *cobra.Command, app *App, eventType string, fn func(db *store.DB, now time.Time) (mutate.StepResult, error)) error {
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
	if res.Changed {
		if err := save(app, s, db, now, eventType, res.Task.ID, res.EventPayload); err != nil {
			return writeErr(cmd, err)
		}
	}
	return writeOut(cmd, app, map[string]any{"data": map[string]any{"task": res.Task, "step": res.Step}})
}
