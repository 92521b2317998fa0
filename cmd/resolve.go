package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/desk/internal/application"
	"github.com/bnema/desk/internal/domain"
	"github.com/spf13/cobra"
)

// reportChange prints msg when the store applied the operation and a notice
// on stderr when it did not. A no-op is not an error.
func reportChange(cmd *cobra.Command, changed bool, format string, args ...any) {
	if !changed {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "nothing changed")
		return
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}

// resolveWorkspace accepts an id or an exact name; empty means the active workspace.
func resolveWorkspace(store *application.Store, ref string) (domain.Workspace, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		workspace, ok := store.ActiveWorkspace()
		if !ok {
			return domain.Workspace{}, fmt.Errorf("active workspace: %w", domain.ErrWorkspaceNotFound)
		}
		return workspace, nil
	}

	var byName []domain.Workspace
	for _, workspace := range store.Workspaces() {
		if string(workspace.ID) == ref {
			return workspace, nil
		}
		if workspace.Name == ref {
			byName = append(byName, workspace)
		}
	}

	switch len(byName) {
	case 1:
		return byName[0], nil
	case 0:
		return domain.Workspace{}, fmt.Errorf("%w: %q", domain.ErrWorkspaceNotFound, ref)
	default:
		return domain.Workspace{}, fmt.Errorf("workspace name %q is ambiguous, use its id", ref)
	}
}

// resolveProject accepts an id or an exact name inside workspace; empty means
// the active project when workspace is the active one.
func resolveProject(store *application.Store, workspace domain.Workspace, ref string) (domain.Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		project, ok := store.ActiveProject()
		if !ok || workspace.ProjectIndex(project.ID) < 0 {
			return domain.Project{}, fmt.Errorf("active project in workspace %s: %w", workspace.ID, domain.ErrProjectNotFound)
		}
		return project, nil
	}

	var byName []domain.Project
	for _, project := range workspace.Projects {
		if string(project.ID) == ref {
			return project, nil
		}
		if project.Name == ref {
			byName = append(byName, project)
		}
	}

	switch len(byName) {
	case 1:
		return byName[0], nil
	case 0:
		return domain.Project{}, fmt.Errorf("%w: %q in workspace %s", domain.ErrProjectNotFound, ref, workspace.ID)
	default:
		return domain.Project{}, fmt.Errorf("project name %q is ambiguous, use its id", ref)
	}
}

// resolveWindow only finds windows of the active project, like the store does.
func resolveWindow(store *application.Store, ref string) (domain.Window, error) {
	id := domain.WindowID(strings.TrimSpace(ref))
	if window, ok := store.Window(id); ok {
		return window, nil
	}

	if location, ok := store.LocateWindow(id); ok {
		return domain.Window{}, fmt.Errorf("window %s lives in project %s of workspace %s; switch with `desk project use`: %w",
			id, location.ProjectID, location.WorkspaceID, domain.ErrWindowNotFound)
	}
	if _, ok := store.ActiveProject(); !ok {
		return domain.Window{}, domain.ErrNoActiveProject
	}

	return domain.Window{}, fmt.Errorf("%w: %q", domain.ErrWindowNotFound, ref)
}
