package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"focus-tools/internal/config"
	"focus-tools/internal/dates"
	"focus-tools/internal/format"
	"focus-tools/internal/log"
	"focus-tools/internal/model"
	"focus-tools/internal/store"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	ConfigPath string
	PrettyJSON bool
	Format     string
	LogLevel   string
	Energy     string
	NowFlag    string

	cfg    config.Config
	logger *log.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "focus",
		Short:        "Local task health, priority and focus-session tool",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive focus view
  focus

  # What should I work on?
  focus next --energy low

  # Queue a task for today and focus on it
  focus queue add task-1a2b3c4d
  focus focus start task-1a2b3c4d

  # Direct task lookup (shortcut for: focus tasks show <task-id>)
  focus task-1a2b3c4d
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init()
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("FOCUS_DIR", ""), "Path to data dir (default: <config dir>/data)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("FOCUS_CONFIG", ""), "Path to config.yaml")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("FOCUS_FORMAT", "json"), "Output format (json|yaml|text)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("FOCUS_LOG_LEVEL", ""), "Log level (debug|info|warn|error; default from config)")
	cmd.PersistentFlags().StringVar(&app.Energy, "energy", envOr("FOCUS_ENERGY", ""), "Current energy for scoring (high|medium|low; default: last declared)")
	cmd.PersistentFlags().StringVar(&app.NowFlag, "now", envOr("FOCUS_NOW", ""), "Evaluate as of this RFC3339 time")
	_ = cmd.PersistentFlags().MarkHidden("now")

	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newHealthCmd(app))
	cmd.AddCommand(newNextCmd(app))
	cmd.AddCommand(newRecurringCmd(app))
	cmd.AddCommand(newQueueCmd(app))
	cmd.AddCommand(newFocusCmd(app))
	cmd.AddCommand(newEnergyCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// init loads the config file and builds the logger. Flags win over config.
func (app *App) init() error {
	path, err := config.Path(app.ConfigPath)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	app.cfg = cfg

	lc := log.DefaultConfig()
	levelStr := app.LogLevel
	if levelStr == "" {
		levelStr = cfg.Log.Level
	}
	if lc.Level, err = log.ParseLevel(levelStr); err != nil {
		return err
	}
	if lc.Format, err = log.ParseFormat(cfg.Log.Format); err != nil {
		return err
	}
	app.logger = log.New(lc)
	app.logger.Debug("config loaded", "path", path, "dayStartHour", cfg.DayStartHour)
	return nil
}

func (app *App) log() *log.Logger {
	if app.logger == nil {
		return log.Discard()
	}
	return app.logger
}

// now is the evaluation time: --now when given, else the wall clock.
func (app *App) now() (time.Time, error) {
	if s := strings.TrimSpace(app.NowFlag); s != "" {
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --now %q (want RFC3339)", s)
		}
		return ts, nil
	}
	return time.Now(), nil
}

func (app *App) today(now time.Time) string {
	return dates.TodayISO(now, app.cfg.DayStartHour)
}

// energy resolves the current energy: --energy, then the last declared level, then config.
func (app *App) energy(db *store.DB) (model.EnergyLevel, error) {
	if s := strings.TrimSpace(app.Energy); s != "" {
		lvl := model.EnergyLevel(strings.ToLower(s))
		switch lvl {
		case model.EnergyHigh, model.EnergyMedium, model.EnergyLow:
			return lvl, nil
		}
		return "", fmt.Errorf("invalid --energy %q (want high|medium|low)", s)
	}
	if db != nil && db.Energy != "" {
		return db.Energy, nil
	}
	return app.cfg.Energy, nil
}

func loadDB(app *App) (*store.DB, store.Store, error) {
	dir, err := store.ResolveDir(app.Dir)
	if err != nil {
		return nil, store.Store{}, err
	}
	app.Dir = dir

	s := store.Store{Dir: dir}
	db, err := s.Load()
	if err != nil {
		app.log().WithError(err).Error("store load failed", "dir", dir)
		return nil, s, err
	}
	app.log().Debug("store loaded", "dir", dir, "tasks", len(db.Tasks), "queue", len(db.Queue.Items))
	return db, s, nil
}

// save persists db and then records one event. Event failures are logged, not returned.
func save(app *App, s store.Store, db *store.DB, now time.Time, typ, entityID string, payload any) error {
	if err := s.Save(db); err != nil {
		app.log().WithError(err).Error("store save failed", "dir", s.Dir)
		return err
	}
	if err := s.AppendEvent(now, typ, entityID, payload); err != nil {
		app.log().WithError(err).Warn("append event failed", "type", typ, "entity", entityID)
	}
	app.log().Debug("saved", "event", typ, "entity", entityID)
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

// envelope wraps data in the output envelope, omitting _hints when there are none.
func envelope(data any, hints ...string) map[string]any {
	out := map[string]any{"data": data}
	if len(hints) > 0 {
		out["_hints"] = hints
	}
	return out
}
