package cmd

import (
	"fmt"

	"github.com/bnema/desk/internal/application"
	"github.com/bnema/desk/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *app) *cobra.Command {
	var workspaceRef string

	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"proj"},
		Short:   "Manage projects of a workspace",
	}
	cmd.PersistentFlags().StringVarP(&workspaceRef, "workspace", "w", "", "workspace id or name (default: active workspace)")

	cmd.AddCommand(
		newProjectAddCmd(app, &workspaceRef),
		newProjectRemoveCmd(app, &workspaceRef),
		newProjectUseCmd(app, &workspaceRef),
		newProjectRenameCmd(app, &workspaceRef),
		newProjectListCmd(app, &workspaceRef),
	)

	return cmd
}

func newProjectAddCmd(app *app, workspaceRef *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add an empty project and switch to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := domain.ValidateName("project", args[0]); err != nil {
				return err
			}

			return app.withSession(cmd.Context(), func(s *application.Session) error {
				workspace, err := resolveWorkspace(s.Store, *workspaceRef)
				if err != nil {
					return err
				}

				id := s.Store.AddProject(workspace.ID, args[0])
				if id == "" {
					return fmt.Errorf("add project: %w", domain.ErrWorkspaceNotFound)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
				return err
			})
		},
	}
}

func newProjectRemoveCmd(app *app, workspaceRef *string) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <project>",
		Aliases: []string{"remove"},
		Short:   "Delete a project; the last project of a workspace is kept",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withSession(cmd.Context(), func(s *application.Session) error {
				workspace, err := resolveWorkspace(s.Store, *workspaceRef)
				if err != nil {
					return err
				}
				project, err := resolveProject(s.Store, workspace, args[0])
				if err != nil {
					return err
				}

				reportChange(cmd, s.Store.DeleteProject(workspace.ID, project.ID), "removed project %s", project.ID)
				return nil
			})
		},
	}
}

func newProjectUseCmd(app *app, workspaceRef *string) *cobra.Command {
	return &cobra.Command{
		Use:   "use <project>",
		Short: "Activate a project (and its workspace)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withSession(cmd.Context(), func(s *application.Session) error {
				workspace, err := resolveWorkspace(s.Store, *workspaceRef)
				if err != nil {
					return err
				}
				project, err := resolveProject(s.Store, workspace, args[0])
				if err != nil {
					return err
				}

				reportChange(cmd, s.Store.SetActiveProject(workspace.ID, project.ID), "active project %s", project.ID)
				return nil
			})
		},
	}
}

func newProjectRenameCmd(app *app, workspaceRef *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <project> <name>",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := domain.ValidateName("project", args[1]); err != nil {
				return err
			}

			return app.withSession(cmd.Context(), func(s *application.Session) error {
				workspace, err := resolveWorkspace(s.Store, *workspaceRef)
				if err != nil {
					return err
				}
				project, err := resolveProject(s.Store, workspace, args[0])
				if err != nil {
					return err
				}

				reportChange(cmd, s.Store.UpdateProjectName(workspace.ID, project.ID, args[1]), "renamed project %s", project.ID)
				return nil
			})
		},
	}
}

func newProjectListCmd(app *app, workspaceRef *string) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List projects of a workspace",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withSession(cmd.Context(), func(s *application.Session) error {
				workspace, err := resolveWorkspace(s.Store, *workspaceRef)
				if err != nil {
					return err
				}

				activeID := s.Store.Snapshot().ActiveProjectID
				for _, project := range workspace.Projects {
					marker := " "
					if project.ID == activeID {
						marker = "*"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\t%d windows\n", marker, project.ID, project.Name, len(project.Windows))
				}
				return nil
			})
		},
	}
}
