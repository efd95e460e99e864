package cli

import (
	"slices"
	"time"

	"focus-tools/internal/focus"
	"focus-tools/internal/model"
	"focus-tools/internal/mutate"
	"focus-tools/internal/store"

	"github.com/spf13/cobra"
)

func newFocusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Focus session commands",
	}
	cmd.AddCommand(newFocusStartCmd(app))
	cmd.AddCommand(newFocusRecurringCmd(app))
	cmd.AddCommand(newFocusSimpleCmd(app, "pause", "Pause the session", "focus.pause", mutate.PauseFocus))
	cmd.AddCommand(newFocusSimpleCmd(app, "resume", "Resume a paused session", "focus.resume", mutate.ResumeFocus))
	cmd.AddCommand(newFocusSimpleCmd(app, "complete-step", "Complete the current step and advance", "focus.step", mutate.CompleteFocusStep))
	cmd.AddCommand(newFocusSimpleCmd(app, "done", "Complete the focused task (or occurrence)", "focus.done", mutate.CompleteFocusedTask))
	cmd.AddCommand(newFocusExitCmd(app))
	cmd.AddCommand(newFocusStatusCmd(app))
	cmd.AddCommand(newFocusHistoryCmd(app))
	cmd.AddCommand(newFocusTUICmd(app))
	return cmd
}

// focusStatus is the session as shown to people: phase, timing and step progress.
type focusStatus struct {
	Phase       focus.Phase          `json:"phase" yaml:"phase"`
	State       model.FocusModeState `json:"state" yaml:"state"`
	Title       string               `json:"title,omitempty" yaml:"title,omitempty"`
	CurrentStep string               `json:"currentStep,omitempty" yaml:"currentStep,omitempty"`
	StepsDone   int                  `json:"stepsDone" yaml:"stepsDone"`
	StepsTotal  int                  `json:"stepsTotal" yaml:"stepsTotal"`
	ElapsedMs   int64                `json:"elapsedMs" yaml:"elapsedMs"`
	Elapsed     string               `json:"elapsed" yaml:"elapsed"`
}

// sessionSteps returns the steps in scope for the current session.
func sessionSteps(db *store.DB) []model.Step {
	t, ok := db.FindTask(db.Focus.TaskID)
	if !ok {
		return nil
	}
	return focus.SessionSteps(db.Focus, db.Queue, *t)
}

func statusOf(db *store.DB, now time.Time) focusStatus {
	st := db.Focus
	el := focus.Elapsed(st, now)
	out := focusStatus{
		Phase:     focus.PhaseOf(st),
		State:     st,
		ElapsedMs: el.Milliseconds(),
		Elapsed:   el.Truncate(time.Second).String(),
	}
	if !st.Active {
		return out
	}
	if t, ok := db.FindTask(st.TaskID); ok {
		out.Title = t.Title
	}
	steps := sessionSteps(db)
	out.StepsTotal = len(steps)
	for _, s := range steps {
		if s.Completed {
			out.StepsDone++
		}
	}
	if i := slices.IndexFunc(steps, func(s model.Step) bool { return s.ID == st.CurrentStepID }); i >= 0 {
		out.CurrentStep = steps[i].Text
	}
	return out
}

func focusHints(st model.FocusModeState) []string {
	switch {
	case !st.Active:
		return []string{"focus queue list", "focus focus start <queue-item-or-task-id>"}
	case st.Paused:
		return []string{"focus focus resume", "focus focus exit"}
	default:
		return []string{"focus focus complete-step", "focus focus pause", "focus focus exit"}
	}
}

func runFocusMutation(cmd *cobra.Command, app *App, eventType string, fn func(db *store.DB, now time.Time) (mutate.FocusResult, error)) error {
	db, s, err := loadDB(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	now, err := app.now()
	if err != nil {
		return writeErr(cmd, err)
	}
	taskID := db.Focus.TaskID
	res, err := fn(db, now)
	if err != nil {
		app.log().WithError(err).Debug("focus transition rejected", "event", eventType)
		return writeErrHints(cmd, err)
	}
	if res.State.TaskID != "" {
		taskID = res.State.TaskID
	}
	if err := save(app, s, db, now, eventType, taskID, res.EventPayload); err != nil {
		return writeErr(cmd, err)
	}
	app.log().Debug("focus transition", "event", eventType, "phase", focus.PhaseOf(db.Focus), "task", taskID)
	return writeOut(cmd, app, envelope(statusOf(db, now), focusHints(db.Focus)...))
}

func newFocusStartCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start <queue-item-or-task-id>",
		Short: "Start focusing on a queued task (recurring tasks focus their active occurrence)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFocusMutation(cmd, app, "focus.start", func(db *store.DB, now time.Time) (mutate.FocusResult, error) {
				return mutate.StartFocus(db, args[0], now, app.cfg.DayStartHour, app.cfg.Recurrence.RolloverScanDays)
			})
		},
	}
	return cmd
}

func newFocusRecurringCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring <task-id>",
		Short: "Start focusing on a recurring task's active occurrence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFocusMutation(cmd, app, "focus.start", func(db *store.DB, now time.Time) (mutate.FocusResult, error) {
				return mutate.StartRecurringFocus(db, args[0], now, app.cfg.DayStartHour, app.cfg.Recurrence.RolloverScanDays)
			})
		},
	}
	return cmd
}

func newFocusSimpleCmd(app *App, use, short, eventType string, fn func(db *store.DB, now time.Time) (mutate.FocusResult, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFocusMutation(cmd, app, eventType, fn)
		},
	}
	return cmd
}

func newFocusExitCmd(app *App) *cobra.Command {
	var returnTo string

	cmd := &cobra.Command{
		Use:   "exit",
		Short: "End the session and record it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			now, err := app.now()
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.ExitFocus(db, returnTo, now)
			if err != nil {
				return writeErrHints(cmd, err)
			}
			if err := save(app, s, db, now, "focus.exit", res.Exit.Record.TaskID, res.EventPayload); err != nil {
				return writeErr(cmd, err)
			}
			hints := []string{"focus queue list"}
			if res.Exit.Route == focus.RouteTaskDetail {
				hints = []string{"focus tasks show " + res.Exit.Record.TaskID}
			}
			return writeOut(cmd, app, envelope(res.Exit, hints...))
		},
	}
	cmd.Flags().StringVar(&returnTo, "return", focus.DefaultReturnRoute, "View to return to when the task was not completed")
	return cmd
}

func newFocusStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
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
			return writeOut(cmd, app, envelope(statusOf(db, now), focusHints(db.Focus)...))
		},
	}
	return cmd
}

func newFocusHistoryCmd(app *App) *cobra.Command {
	var taskID string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded focus sessions (newest first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			sessions := db.Sessions
			if taskID != "" {
				sessions = db.SessionsForTask(taskID)
			}
			out := append([]model.FocusSessionRecord{}, sessions...)
			slices.Reverse(out)
			if limit > 0 && len(out) > limit {
				out = out[:limit]
			}
			var total time.Duration
			for _, s := range out {
				total += s.Focused
			}
			return writeOut(cmd, app, map[string]any{
				"data": out,
				"meta": map[string]any{"sessions": len(out), "focusedMs": total.Milliseconds(), "focused": total.Truncate(time.Second).String()},
			})
		},
	}
	cmd.Flags().StringVar(&taskID, "task", "", "Only sessions for this task")
	cmd.Flags().IntVar(&limit, "limit", 20, "Max sessions (0 = all)")
	return cmd
}
