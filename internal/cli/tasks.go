package cli

import (
	"slices"
	"strings"
	"time"

	"focus-tools/internal/focus"
	"focus-tools/internal/health"
	"focus-tools/internal/model"
	"focus-tools/internal/mutate"
	"focus-tools/internal/priority"
	"focus-tools/internal/recurrence"
	"focus-tools/internal/store"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Task commands",
	}

	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksFindCmd(app))
	cmd.AddCommand(newTasksStatusCmd(app))
	cmd.AddCommand(newTasksCompleteCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))
	cmd.AddCommand(newTasksRestoreCmd(app))
	cmd.AddCommand(newTasksSetCmd(app))
	cmd.AddCommand(newTasksStepCmd(app))
	cmd.AddCommand(newTasksEventsCmd(app))
	cmd.AddCommand(newTasksNotesCmd(app))

	return cmd
}

// resolveProjectRef accepts a project id or a (case-insensitive) project name.
func resolveProjectRef(db *store.DB, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}
	if p, ok := db.FindProject(ref); ok {
		return p.ID, nil
	}
	if p, ok := db.FindProjectByName(ref); ok {
		return p.ID, nil
	}
	return "", errNotFound("project", ref)
}

func newTasksAddCmd(app *App) *cobra.Command {
	var in mutate.CreateTaskInput
	var status, prio, importance, energyType string
	var target, deadline, deferred, project string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			now, err := app.now()
			if err != nil {
				return writeErr(cmd, err)
			}

			in.Title = strings.Join(args, " ")
			in.Status = model.TaskStatus(status)
			in.Priority = model.Priority(prio)
			in.Importance = model.Importance(importance)
			in.EnergyType = model.EnergyType(energyType)
			for _, d := range []struct {
				src string
				dst *string
			}{
				{target, &in.TargetDate},
				{deadline, &in.DeadlineDate},
				{deferred, &in.DeferredUntil},
			} {
				if *d.dst, err = parseDateArg(d.src, now, app.cfg.DayStartHour); err != nil {
					return writeErr(cmd, err)
				}
			}
			if in.ProjectID, err = resolveProjectRef(db, project); err != nil {
				return writeErr(cmd, err)
			}

			res, err := mutate.CreateTask(db, in, now)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := save(app, s, db, now, "task.create", res.Task.ID, res.EventPayload); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": res.Task,
				"_hints": []string{
					"focus queue add " + res.Task.ID,
					"focus tasks step add " + res.Task.ID + " <text>",
				},
			})
		},
	}

	cmd.Flags().StringVar(&in.Notes, "notes", "", "Markdown notes")
	cmd.Flags().StringVar(&status, "status", "", "Initial status (inbox|pool|complete|archived; default inbox)")
	cmd.Flags().StringVar(&prio, "priority", "", "Priority label (high|medium|low)")
	cmd.Flags().StringVar(&importance, "importance", "", "Importance (must_do|should_do|could_do|would_like_to)")
	cmd.Flags().StringVar(&energyType, "energy-type", "", "How the task feels (energizing|neutral|draining)")
	cmd.Flags().StringVar(&target, "target", "", "Target date (YYYY-MM-DD, today, tomorrow, +Nd)")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline date (YYYY-MM-DD, today, tomorrow, +Nd)")
	cmd.Flags().StringVar(&deferred, "defer", "", "Hide until date (YYYY-MM-DD, today, tomorrow, +Nd)")
	cmd.Flags().StringVar(&project, "project", "", "Project id or name")
	cmd.Flags().StringArrayVar(&in.Steps, "step", nil, "Step text (repeatable)")
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var statuses []string
	var project string
	var all bool
	var deleted bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks (default: inbox and pool)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			want := make([]model.TaskStatus, 0, len(statuses))
			for _, st := range statuses {
				ts := model.TaskStatus(strings.TrimSpace(st))
				if !mutate.ValidStatus(ts) {
					return writeErr(cmd, errInvalidFlag("status", st, "inbox|pool|complete|archived"))
				}
				want = append(want, ts)
			}
			if len(want) == 0 && !all {
				want = []model.TaskStatus{model.StatusInbox, model.StatusPool}
			}
			projectID, err := resolveProjectRef(db, project)
			if err != nil {
				return writeErr(cmd, err)
			}

			out := make([]model.Task, 0, len(db.Tasks))
			for _, t := range db.Tasks {
				if t.IsDeleted() != deleted {
					continue
				}
				if len(want) > 0 && !slices.Contains(want, t.Status) {
					continue
				}
				if projectID != "" && t.ProjectID != projectID {
					continue
				}
				out = append(out, t)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Filter by status (repeatable or comma-separated)")
	cmd.Flags().StringVar(&project, "project", "", "Filter by project id or name")
	cmd.Flags().BoolVar(&all, "all", false, "Include every status")
	cmd.Flags().BoolVar(&deleted, "deleted", false, "List soft-deleted tasks instead")
	return cmd
}

// taskDetail is the show payload: the task plus everything derived from it.
type taskDetail struct {
	Task       model.Task                 `json:"task" yaml:"task"`
	Health     *health.Result             `json:"health,omitempty" yaml:"health,omitempty"`
	Priority   priority.Info              `json:"priority" yaml:"priority"`
	Recurrence *recurrenceInfo            `json:"recurrence,omitempty" yaml:"recurrence,omitempty"`
	Queue      *model.FocusQueueItem      `json:"queue,omitempty" yaml:"queue,omitempty"`
	Sessions   []model.FocusSessionRecord `json:"sessions,omitempty" yaml:"sessions,omitempty"`
}

type recurrenceInfo struct {
	Describe         string `json:"describe" yaml:"describe"`
	Paused           bool   `json:"paused" yaml:"paused"`
	ActiveOccurrence string `json:"activeOccurrence,omitempty" yaml:"activeOccurrence,omitempty"`
	NextDue          string `json:"nextDue,omitempty" yaml:"nextDue,omitempty"`
	Streak           int    `json:"streak" yaml:"streak"`
}

func newTasksShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task with health, priority and recurrence details",
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
			energy, err := app.energy(db)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, ok := db.FindTask(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}

			dsh := app.cfg.DayStartHour
			out := taskDetail{
				Task:     *t,
				Priority: priority.GetTaskPriorityInfo(*t, energy, now, dsh, app.cfg.Priority),
				Sessions: db.SessionsForTask(t.ID),
			}
			if health.IsClassifiable(*t) {
				h := health.ComputeHealthStatus(*t, now, dsh, app.cfg.Health)
				out.Health = &h
			}
			if t.IsRecurring() {
				ri := recurrenceInfo{
					Describe: recurrence.Describe(*t.Recurrence),
					Paused:   t.Recurrence.PausedAt != nil,
					Streak:   recurrence.CalculateStreak(*t, now, dsh, app.cfg.Recurrence.MaxScanDays),
				}
				ri.ActiveOccurrence, _ = recurrence.ActiveOccurrenceDate(*t, now, dsh, app.cfg.Recurrence.RolloverScanDays)
				ri.NextDue, _ = recurrence.NextDue(*t, now, dsh, app.cfg.Recurrence.MaxScanDays)
				out.Recurrence = &ri
			}
			if i := focus.ItemForTask(db.Queue, t.ID); i >= 0 {
				it := db.Queue.Items[i]
				out.Queue = &it
			}

			hints := []string{"focus tasks events " + t.ID}
			switch {
			case t.IsDeleted():
				hints = []string{"focus tasks restore " + t.ID}
			case t.IsRecurring():
				hints = append(hints, "focus focus recurring "+t.ID)
			case out.Queue == nil:
				hints = append(hints, "focus queue add "+t.ID)
			default:
				hints = append(hints, "focus focus start "+t.ID)
			}
			return writeOut(cmd, app, map[string]any{"data": out, "_hints": hints})
		},
	}
	return cmd
}

func newTasksStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <task-id> <inbox|pool|complete|archived>",
		Short: "Set a task's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskMutation(cmd, app, "task.status", func(db *store.DB, now time.Time) (mutate.TaskResult, error) {
				return mutate.SetTaskStatus(db, args[0], model.TaskStatus(args[1]), now)
			})
		},
	}
	return cmd
}

func newTasksCompleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete <task-id>",
		Short: "Complete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskMutation(cmd, app, "task.status", func(db *store.DB, now time.Time) (mutate.TaskResult, error) {
				return mutate.CompleteTask(db, args[0], now)
			})
		},
	}
	return cmd
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Soft-delete a task (also removes it from the focus queue)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskMutation(cmd, app, "task.delete", func(db *store.DB, now time.Time) (mutate.TaskResult, error) {
				return mutate.DeleteTask(db, args[0], now)
			})
		},
	}
	return cmd
}

func newTasksRestoreCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <task-id>",
		Short: "Restore a soft-deleted task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskMutation(cmd, app, "task.restore", func(db *store.DB, now time.Time) (mutate.TaskResult, error) {
				return mutate.RestoreTask(db, args[0], now)
			})
		},
	}
	return cmd
}

func newTasksSetCmd(app *App) *cobra.Command {
	var title, notes, prio, importance, energyType string
	var target, deadline, deferred, project string
	var waitingOn, waitingNote string
	var clearWaiting bool

	cmd := &cobra.Command{
		Use:   "set <task-id>",
		Short: "Update task fields (only flags that are passed change)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			return runTaskMutation(cmd, app, "task.update", func(db *store.DB, now time.Time) (mutate.TaskResult, error) {
				var p mutate.TaskPatch
				if flags.Changed("title") {
					p.Title = &title
				}
				if flags.Changed("notes") {
					p.Notes = &notes
				}
				if flags.Changed("priority") {
					v := model.Priority(prio)
					p.Priority = &v
				}
				if flags.Changed("importance") {
					v := model.Importance(importance)
					p.Importance = &v
				}
				if flags.Changed("energy-type") {
					v := model.EnergyType(energyType)
					p.EnergyType = &v
				}
				for _, d := range []struct {
					flag string
					src  string
					dst  **string
				}{
					{"target", target, &p.TargetDate},
					{"deadline", deadline, &p.DeadlineDate},
					{"defer", deferred, &p.DeferredUntil},
				} {
					if !flags.Changed(d.flag) {
						continue
					}
					v, err := parseDateArg(d.src, now, app.cfg.DayStartHour)
					if err != nil {
						return mutate.TaskResult{}, err
					}
					*d.dst = &v
				}
				if flags.Changed("project") {
					id, err := resolveProjectRef(db, project)
					if err != nil {
						return mutate.TaskResult{}, err
					}
					p.ProjectID = &id
				}
				if flags.Changed("waiting-on") {
					p.WaitingOn = &model.WaitingOn{Who: waitingOn, Note: waitingNote}
				}
				p.ClearWaitingOn = clearWaiting
				return mutate.UpdateTask(db, args[0], p, now)
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title")
	cmd.Flags().StringVar(&notes, "notes", "", "Markdown notes")
	cmd.Flags().StringVar(&prio, "priority", "", "Priority label (high|medium|low; empty clears)")
	cmd.Flags().StringVar(&importance, "importance", "", "Importance (must_do|should_do|could_do|would_like_to; empty clears)")
	cmd.Flags().StringVar(&energyType, "energy-type", "", "Energy type (energizing|neutral|draining; empty clears)")
	cmd.Flags().StringVar(&target, "target", "", "Target date (empty clears)")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline date (empty clears)")
	cmd.Flags().StringVar(&deferred, "defer", "", "Deferred-until date (empty clears)")
	cmd.Flags().StringVar(&project, "project", "", "Project id or name (empty clears)")
	cmd.Flags().StringVar(&waitingOn, "waiting-on", "", "Mark as waiting on someone")
	cmd.Flags().StringVar(&waitingNote, "waiting-note", "", "Note for --waiting-on")
	cmd.Flags().BoolVar(&clearWaiting, "clear-waiting", false, "Clear waiting-on")
	return cmd
}

// runTaskMutation loads the db, applies fn, and saves plus records an event
// only when something changed.
func runTaskMutation(cmd *cobra.Command, app *App, eventType string, fn func(db *store.DB, now time.Time) (mutate.TaskResult, error)) error {
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
	return writeOut(cmd, app, map[string]any{"data": res.Task})
}
