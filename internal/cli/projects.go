package cli

import (
	"strings"

	"focus-tools/internal/mutate"

	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Project commands",
	}
	cmd.AddCommand(newProjectsAddCmd(app))
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsDeleteCmd(app))
	return cmd
}

func newProjectsAddCmd(app *App) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a project",
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
			res, err := mutate.CreateProject(db, strings.Join(args, " "), color, now)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := save(app, s, db, now, "project.create", res.Project.ID, res.EventPayload); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope(res.Project, "focus tasks add <title> --project "+res.Project.ID))
		},
	}
	cmd.Flags().StringVar(&color, "color", "", "Display color (e.g. #4f46e5)")
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": db.Projects})
		},
	}
	return cmd
}

func newProjectsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <project-id-or-name>",
		Short: "Delete a project (its tasks are kept and detached)",
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
			id, err := resolveProjectRef(db, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.DeleteProject(db, id, now)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := save(app, s, db, now, "project.delete", res.Project.ID, res.EventPayload); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"project":       res.Project,
				"tasksDetached": res.EventPayload["tasksDetached"],
			}})
		},
	}
	return cmd
}
