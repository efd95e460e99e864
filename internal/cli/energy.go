package cli

import (
	"strings"

	"focus-tools/internal/model"
	"focus-tools/internal/mutate"

	"github.com/spf13/cobra"
)

func newEnergyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "energy",
		Short: "Declare or show your current energy level",
	}
	cmd.AddCommand(newEnergySetCmd(app))
	cmd.AddCommand(newEnergyShowCmd(app))
	return cmd
}

func newEnergySetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <high|medium|low|none>",
		Short: "Declare your current energy (none clears it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			now, err := app.now()
			if err != nil {
				return writeErr(cmd, err)
			}
			lvl := model.EnergyLevel(strings.ToLower(strings.TrimSpace(args[0])))
			if lvl == "none" {
				lvl = ""
			}
			if err := mutate.SetEnergy(db, lvl); err != nil {
				return writeErr(cmd, errInvalidFlag("energy", args[0], "high|medium|low|none"))
			}
			if err := save(app, s, db, now, "energy.set", "energy", map[string]any{"level": lvl}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope(map[string]any{"energy": db.Energy}, "focus next"))
		},
	}
	return cmd
}

func newEnergyShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the energy used for scoring",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			eff, err := app.energy(db)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"declared":     db.Energy,
				"effective":    eff,
				"energyFilter": app.cfg.EnergyFilter,
			}})
		},
	}
	return cmd
}
