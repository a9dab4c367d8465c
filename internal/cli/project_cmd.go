package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazardhunt/tts/internal/cli/formatter"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage the cached construction projects",
	}

	cmd.AddCommand(
		newProjectListCmd(app),
		newProjectSyncCmd(app),
	)

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List cached projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newProjectSyncCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Refresh the project cache from the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := spin(app, cmd, "Syncing projects", app.syncProjectsUseCase().Sync)
			if err != nil {
				return fmt.Errorf("syncing projects: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatSyncResult(res))
			if len(res.Projects) > 0 {
				fmt.Fprintln(out, formatter.FormatProjectList(res.Projects))
			}
			return nil
		},
	}
}
