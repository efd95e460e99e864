package cli

import (
	"time"

	"focus-tools/internal/tui"

	"github.com/spf13/cobra"
)

func newFocusTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive focus view (same as running with no command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}
}

func runTUI(cmd *cobra.Command, app *App) error {
	db, s, err := loadDB(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	energy, err := app.energy(db)
	if err != nil {
		return writeErr(cmd, err)
	}
	opts := tui.Options{
		Config:     app.cfg,
		Energy:     energy,
		StartFocus: true,
	}
	if app.NowFlag != "" {
		now, err := app.now()
		if err != nil {
			return writeErr(cmd, err)
		}
		opts.Now = func() time.Time { return now }
	}
	app.log().Debug("tui start", "dir", s.Dir, "focusActive", db.Focus.Active)
	if err := tui.Run(s, db, opts); err != nil {
		app.log().WithError(err).Error("tui failed")
		return writeErr(cmd, err)
	}
	return nil
}
