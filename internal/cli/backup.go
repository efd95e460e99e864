package cli

import (
	"errors"
	"strings"

	"focus-tools/internal/store"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Export the whole store as a JSON snapshot (stdout when no path)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(args) == 0 || args[0] == "-" {
				if err := store.Export(cmd.OutOrStdout(), db); err != nil {
					return writeErr(cmd, err)
				}
				return nil
			}
			if err := store.ExportFile(args[0], db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"path": args[0], "tasks": len(db.Tasks)}})
		},
	}
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Replace the store with a JSON snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			now, err := app.now()
			if err != nil {
				return writeErr(cmd, err)
			}
			if !force && (len(cur.Tasks) > 0 || len(cur.Projects) > 0) {
				return writeErr(cmd, errors.New("store is not empty; pass --force to replace it"))
			}
			db, err := store.ImportFile(strings.TrimSpace(args[0]))
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := save(app, s, db, now, "store.import", "store", map[string]any{"path": args[0], "tasks": len(db.Tasks)}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"tasks":    len(db.Tasks),
				"projects": len(db.Projects),
				"queue":    len(db.Queue.Items),
				"sessions": len(db.Sessions),
			}})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Replace a non-empty store")
	return cmd
}
