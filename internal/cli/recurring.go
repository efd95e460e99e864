package cli

import (
	"strconv"
	"strings"
	"time"

	"focus-tools/internal/dates"
	"focus-tools/internal/model"
	"focus-tools/internal/mutate"
	"focus-tools/internal/recurrence"
	"focus-tools/internal/store"

	"github.com/spf13/cobra"
)

func newRecurringCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recurring",
		Aliases: []string{"routine"},
		Short:   "Recurring task and occurrence commands",
	}
	cmd.AddCommand(newRecurringSetCmd(app))
	cmd.AddCommand(newRecurringClearCmd(app))
	cmd.AddCommand(newRecurringPauseCmd(app, true))
	cmd.AddCommand(newRecurringPauseCmd(app, false))
	cmd.AddCommand(newRecurringTodayCmd(app))
	cmd.AddCommand(newRecurringStreakCmd(app))
	cmd.AddCommand(newRecurringPreviewCmd(app))

	cmd.AddCommand(newOccurrenceCmd(app, "skip <task-id>", "Skip an occurrence", "occurrence.skip", cobra.ExactArgs(1),
		func(db *store.DB, args []string, date string, now time.Time) (mutate.OccurrenceResult, error) {
			return mutate.SkipOccurrence(db, args[0], date, now)
		}))
	cmd.AddCommand(newOccurrenceCmd(app, "complete <task-id>", "Complete an occurrence", "occurrence.complete", cobra.ExactArgs(1),
		func(db *store.DB, args []string, date string, now time.Time) (mutate.OccurrenceResult, error) {
			return mutate.CompleteOccurrence(db, args[0], date, now)
		}))
	cmd.AddCommand(newOccurrenceCmd(app, "toggle-step <task-id> <step-id>", "Toggle a step of an occurrence", "occurrence.step.toggle", cobra.ExactArgs(2),
		func(db *store.DB, args []string, date string, now time.Time) (mutate.OccurrenceResult, error) {
			return mutate.ToggleRecurringStep(db, args[0], date, args[1], now)
		}))
	cmd.AddCommand(newOccurrenceCmd(app, "add-step <task-id> <text>", "Add a one-off step to an occurrence", "occurrence.step.add", cobra.MinimumNArgs(2),
		func(db *store.DB, args []string, date string, now time.Time) (mutate.OccurrenceResult, error) {
			return mutate.AddOccurrenceStep(db, args[0], date, strings.Join(args[1:], " "), now)
		}))
	cmd.AddCommand(newOccurrenceCmd(app, "promote <task-id> <step-id>", "Make an occurrence's one-off step part of the routine", "occurrence.step.promote", cobra.ExactArgs(2),
		func(db *store.DB, args []string, date string, now time.Time) (mutate.OccurrenceResult, error) {
			return mutate.PromoteOccurrenceStep(db, args[0], date, args[1], now)
		}))
	cmd.AddCommand(newOccurrenceCmd(app, "demote <task-id> <step-id>", "Remove a routine step from the template, keeping it on this occurrence", "occurrence.step.demote", cobra.ExactArgs(2),
		func(db *store.DB, args []string, date string, now time.Time) (mutate.OccurrenceResult, error) {
			return mutate.DemoteOccurrenceStep(db, args[0], date, args[1], now)
		}))
	return cmd
}

var weekdayNames = map[string]int{
	"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6,
}

// parseDaysOfWeek accepts weekday names (mon, tuesday) or numbers 0-6 (0=Sunday).
func parseDaysOfWeek(in []string) ([]int, error) {
	out := make([]int, 0, len(in))
	for _, raw := range in {
		s := strings.ToLower(strings.TrimSpace(raw))
		if s == "" {
			continue
		}
		if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
			out = append(out, n)
			continue
		}
		if len(s) >= 3 {
			if n, ok := weekdayNames[s[:3]]; ok {
				out = append(out, n)
				continue
			}
		}
		return nil, errInvalidFlag("days", raw, "sun..sat or 0-6")
	}
	return out, nil
}

func newRecurringSetCmd(app *App) *cobra.Command {
	var freq, start, at, weekOfMonth string
	var interval, dayOfMonth int
	var days []string
	var rollover bool

	cmd := &cobra.Command{
		Use:   "set <task-id>",
		Short: "Make a task recurring (or replace its rule)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskMutation(cmd, app, "task.recurrence", func(db *store.DB, now time.Time) (mutate.TaskResult, error) {
				rule := model.RecurrenceRule{
					Frequency:        model.Frequency(strings.ToLower(freq)),
					Interval:         interval,
					Time:             at,
					RolloverIfMissed: rollover,
				}
				var err error
				if rule.StartDate, err = parseDateArg(start, now, app.cfg.DayStartHour); err != nil {
					return mutate.TaskResult{}, err
				}
				if rule.StartDate == "" {
					rule.StartDate = app.today(now)
				}
				if cmd.Flags().Changed("days") {
					if rule.DaysOfWeek, err = parseDaysOfWeek(days); err != nil {
						return mutate.TaskResult{}, err
					}
				}
				if cmd.Flags().Changed("day-of-month") {
					rule.DayOfMonth = &dayOfMonth
				}
				if weekOfMonth != "" {
					w := model.LastWeekOfMonth
					if weekOfMonth != "last" {
						if w, err = strconv.Atoi(weekOfMonth); err != nil {
							return mutate.TaskResult{}, errInvalidFlag("week-of-month", weekOfMonth, "1-4 or last")
						}
					}
					rule.WeekOfMonth = &w
				}
				return mutate.SetRecurrence(db, args[0], rule, now)
			})
		},
	}
	cmd.Flags().StringVar(&freq, "freq", "daily", "Frequency (daily|weekly|monthly|yearly)")
	cmd.Flags().IntVar(&interval, "interval", 1, "Every N periods")
	cmd.Flags().StringSliceVar(&days, "days", nil, "Weekdays (weekly, or with --week-of-month), e.g. mon,wed,fri")
	cmd.Flags().IntVar(&dayOfMonth, "day-of-month", 0, "Day of month 1-31 (clamped to short months)")
	cmd.Flags().StringVar(&weekOfMonth, "week-of-month", "", "Week of month 1-4 or last (monthly, with --days)")
	cmd.Flags().StringVar(&at, "time", "", "Time of day HH:MM")
	cmd.Flags().StringVar(&start, "start", "", "Start date (default today)")
	cmd.Flags().BoolVar(&rollover, "rollover", false, "Carry a missed occurrence forward until done or skipped")
	return cmd
}

func newRecurringClearCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear <task-id>",
		Short: "Turn a recurring task back into a one-off (history is kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskMutation(cmd, app, "task.recurrence.clear", func(db *store.DB, now time.Time) (mutate.TaskResult, error) {
				return mutate.ClearRecurrence(db, args[0], now)
			})
		},
	}
	return cmd
}

func newRecurringPauseCmd(app *App, pause bool) *cobra.Command {
	use, short, ev := "resume <task-id>", "Resume a paused recurring task", "task.recurrence.resume"
	if pause {
		use, short, ev = "pause <task-id>", "Pause a recurring task (no occurrences come due)", "task.recurrence.pause"
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskMutation(cmd, app, ev, func(db *store.DB, now time.Time) (mutate.TaskResult, error) {
				if pause {
					return mutate.PauseRecurrence(db, args[0], now)
				}
				return mutate.ResumeRecurrence(db, args[0], now)
			})
		},
	}
	return cmd
}

// occurrenceDateFor resolves --date; empty means the active occurrence, else today.
func occurrenceDateFor(app *App, t model.Task, flag string, now time.Time) (string, error) {
	if d, err := parseDateArg(flag, now, app.cfg.DayStartHour); err != nil || d != "" {
		return d, err
	}
	if d, ok := recurrence.ActiveOccurrenceDate(t, now, app.cfg.DayStartHour, app.cfg.Recurrence.RolloverScanDays); ok {
		return d, nil
	}
	return app.today(now), nil
}

type occurrenceFn func(db *store.DB, args []string, date string, now time.Time) (mutate.OccurrenceResult, error)

func newOccurrenceCmd(app *App, use, short, eventType string, argsFn cobra.PositionalArgs, fn occurrenceFn) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  argsFn,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			now, err := app.now()
			if err != nil {
				return writeErr(cmd, err)
			}
			t, ok := db.FindTask(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			d, err := occurrenceDateFor(app, *t, date, now)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := fn(db, args, d, now)
			if err != nil {
				return writeErrHints(cmd, err)
			}
			if err := save(app, s, db, now, eventType, res.Task.ID, res.EventPayload); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"taskId":   res.Task.ID,
				"instance": res.Instance,
				"streak":   recurrence.CalculateStreak(*res.Task, now, app.cfg.DayStartHour, app.cfg.Recurrence.MaxScanDays),
			}})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Occurrence date (default: the active occurrence, else today)")
	return cmd
}

type routineRow struct {
	TaskID    string                   `json:"taskId" yaml:"taskId"`
	Title     string                   `json:"title" yaml:"title"`
	Date      string                   `json:"date" yaml:"date"`
	Overdue   bool                     `json:"overdue" yaml:"overdue"`
	Describe  string                   `json:"describe" yaml:"describe"`
	Time      string                   `json:"time,omitempty" yaml:"time,omitempty"`
	Streak    int                      `json:"streak" yaml:"streak"`
	StepsDone int                      `json:"stepsDone" yaml:"stepsDone"`
	StepsAll  int                      `json:"stepsAll" yaml:"stepsAll"`
	Instance  *model.RecurringInstance `json:"instance,omitempty" yaml:"instance,omitempty"`
}

func newRecurringTodayCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "today",
		Short: "List recurring tasks with an open occurrence today (including rolled-over ones)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			now, err := app.now()
			if err != nil {
				return writeErr(cmd, err)
			}
			dsh := app.cfg.DayStartHour
			today := app.today(now)

			rows := []routineRow{}
			for _, t := range db.LiveTasks() {
				if !t.IsRecurring() {
					continue
				}
				date, ok := recurrence.ActiveOccurrenceDate(t, now, dsh, app.cfg.Recurrence.RolloverScanDays)
				if !ok {
					continue
				}
				row := routineRow{
					TaskID:   t.ID,
					Title:    t.Title,
					Date:     date,
					Overdue:  date < today,
					Describe: recurrence.Describe(*t.Recurrence),
					Time:     t.Recurrence.Time,
					Streak:   recurrence.CalculateStreak(t, now, dsh, app.cfg.Recurrence.MaxScanDays),
					StepsAll: len(t.Steps),
				}
				if inst, ok := recurrence.FindInstance(t, date); ok {
					steps := inst.Steps()
					row.StepsAll = len(steps)
					for _, st := range steps {
						if st.Completed {
							row.StepsDone++
						}
					}
					row.Instance = &inst
				}
				rows = append(rows, row)
			}
			var hints []string
			if len(rows) > 0 {
				hints = []string{"focus focus recurring " + rows[0].TaskID}
			}
			return writeOut(cmd, app, envelope(rows, hints...))
		},
	}
	return cmd
}

func newRecurringStreakCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "streak <task-id>",
		Short: "Show the current streak and next due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			now, err := app.now()
			if err != nil {
				return writeErr(cmd, err)
			}
			t, ok := db.FindTask(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			if !t.IsRecurring() {
				return writeErr(cmd, mutate.ErrNotRecurring)
			}
			dsh, maxScan := app.cfg.DayStartHour, app.cfg.Recurrence.MaxScanDays
			next, _ := recurrence.NextDue(*t, now, dsh, maxScan)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"taskId":   t.ID,
				"streak":   recurrence.CalculateStreak(*t, now, dsh, maxScan),
				"nextDue":  next,
				"describe": recurrence.Describe(*t.Recurrence),
			}})
		},
	}
	return cmd
}

func newRecurringPreviewCmd(app *App) *cobra.Command {
	var from string
	var days int

	cmd := &cobra.Command{
		Use:   "preview <task-id>",
		Short: "List upcoming occurrence dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			now, err := app.now()
			if err != nil {
				return writeErr(cmd, err)
			}
			t, ok := db.FindTask(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			if !t.IsRecurring() {
				return writeErr(cmd, mutate.ErrNotRecurring)
			}
			start, err := parseDateArg(from, now, app.cfg.DayStartHour)
			if err != nil {
				return writeErr(cmd, err)
			}
			if start == "" {
				start = app.today(now)
			}
			days = min(max(days, 1), app.cfg.Recurrence.MaxScanDays)
			end := dates.AddDays(start, days-1)
			return writeOut(cmd, app, map[string]any{
				"data": recurrence.Occurrences(*t.Recurrence, start, end, days),
				"meta": map[string]any{"from": start, "to": end, "describe": recurrence.Describe(*t.Recurrence)},
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "First date to consider (default today)")
	cmd.Flags().IntVar(&days, "days", 30, "Number of days to scan")
	return cmd
}
