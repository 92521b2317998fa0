package cmd

import (
	"fmt"

	"github.com/bnema/desk/internal/application"
	"github.com/bnema/desk/internal/domain"
	"github.com/spf13/cobra"
)

func newWorkspaceCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Manage workspaces",
	}

	cmd.AddCommand(
		newWorkspaceAddCmd(app),
		newWorkspaceRemoveCmd(app),
		newWorkspaceUseCmd(app),
		newWorkspaceRenameCmd(app),
		newWorkspaceListCmd(app),
	)

	return cmd
}

func newWorkspaceAddCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a workspace with an empty project and switch to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := domain.ValidateName("workspace", args[0]); err != nil {
				return err
			}

			return app.withSession(cmd.Context(), func(s *application.Session) error {
				id := s.Store.AddWorkspace(args[0])
				_, err := fmt.Fprintln(cmd.OutOrStdout(), id)
				return err
			})
		},
	}
}

func newWorkspaceRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <workspace>",
		Aliases: []string{"remove"},
		Short:   "Delete a workspace with all of its projects and windows",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withSession(cmd.Context(), func(s *application.Session) error {
				workspace, err := resolveWorkspace(s.Store, args[0])
				if err != nil {
					return err
				}

				reportChange(cmd, s.Store.DeleteWorkspace(workspace.ID), "removed workspace %s", workspace.ID)
				return nil
			})
		},
	}
}

func newWorkspaceUseCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "use <workspace>",
		Short: "Activate a workspace and its first project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withSession(cmd.Context(), func(s *application.Session) error {
				workspace, err := resolveWorkspace(s.Store, args[0])
				if err != nil {
					return err
				}

				reportChange(cmd, s.Store.SetActiveWorkspace(workspace.ID), "active workspace %s", workspace.ID)
				return nil
			})
		},
	}
}

func newWorkspaceRenameCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <workspace> <name>",
		Short: "Rename a workspace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := domain.ValidateName("workspace", args[1]); err != nil {
				return err
			}

			return app.withSession(cmd.Context(), func(s *application.Session) error {
				workspace, err := resolveWorkspace(s.Store, args[0])
				if err != nil {
					return err
				}

				reportChange(cmd, s.Store.UpdateWorkspaceName(workspace.ID, args[1]), "renamed workspace %s", workspace.ID)
				return nil
			})
		},
	}
}

func newWorkspaceListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List workspaces",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withSession(cmd.Context(), func(s *application.Session) error {
				snapshot := s.Store.Snapshot()
				for _, workspace := range snapshot.Workspaces {
					marker := " "
					if workspace.ID == snapshot.ActiveWorkspaceID {
						marker = "*"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\t%d projects\n", marker, workspace.ID, workspace.Name, len(workspace.Projects))
				}
				return nil
			})
		},
	}
}
