package application

import (
	"github.com/bnema/desk/internal/domain"
)

// AddWorkspace creates a workspace holding one empty default project and
// makes both active.
func (s *Store) AddWorkspace(name string) domain.WorkspaceID {
	workspace := domain.Workspace{
		ID:       s.ids.NewWorkspaceID(),
		Name:     name,
		Projects: []domain.Project{domain.NewProject(s.ids.NewProjectID(), domain.DefaultProjectName)},
	}

	s.mutate("add_workspace", func(d *domain.Desktop) bool {
		d.Workspaces = append(d.Workspaces, workspace)
		d.ActiveWorkspaceID = workspace.ID
		d.ActiveProjectID = workspace.Projects[0].ID
		return true
	})

	return workspace.ID
}

// DeleteWorkspace removes the workspace with everything in it. When it was
// active, the selection falls to the first remaining workspace, or to none.
func (s *Store) DeleteWorkspace(id domain.WorkspaceID) bool {
	return s.mutate("delete_workspace", func(d *domain.Desktop) bool {
		idx := d.WorkspaceIndex(id)
		if idx < 0 {
			return false
		}

		d.Workspaces = append(d.Workspaces[:idx], d.Workspaces[idx+1:]...)
		if d.ActiveWorkspaceID != id {
			return true
		}

		d.ActiveWorkspaceID = ""
		d.ActiveProjectID = ""
		if len(d.Workspaces) > 0 {
			d.ActiveWorkspaceID = d.Workspaces[0].ID
			if len(d.Workspaces[0].Projects) > 0 {
				d.ActiveProjectID = d.Workspaces[0].Projects[0].ID
			}
		}

		return true
	})
}

func (s *Store) SetActiveWorkspace(id domain.WorkspaceID) bool {
	return s.mutate("set_active_workspace", func(d *domain.Desktop) bool {
		idx := d.WorkspaceIndex(id)
		if idx < 0 || len(d.Workspaces[idx].Projects) == 0 {
			return false
		}

		firstProject := d.Workspaces[idx].Projects[0].ID
		if d.ActiveWorkspaceID == id && d.ActiveProjectID == firstProject {
			return false
		}
		d.ActiveWorkspaceID = id
		d.ActiveProjectID = firstProject
		return true
	})
}

func (s *Store) UpdateWorkspaceName(id domain.WorkspaceID, name string) bool {
	return s.mutate("update_workspace_name", func(d *domain.Desktop) bool {
		idx := d.WorkspaceIndex(id)
		if idx < 0 {
			return false
		}

		d.Workspaces[idx].Name = name
		return true
	})
}

// AddProject appends an empty project to the workspace and selects it. The
// workspace becomes active too so the two pointers never disagree.
func (s *Store) AddProject(workspaceID domain.WorkspaceID, name string) domain.ProjectID {
	project := domain.NewProject(s.ids.NewProjectID(), name)

	added := s.mutate("add_project", func(d *domain.Desktop) bool {
		idx := d.WorkspaceIndex(workspaceID)
		if idx < 0 {
			return false
		}

		d.Workspaces[idx].Projects = append(d.Workspaces[idx].Projects, project)
		d.ActiveWorkspaceID = workspaceID
		d.ActiveProjectID = project.ID
		return true
	})
	if !added {
		return ""
	}

	return project.ID
}

// DeleteProject refuses to remove the last project of a workspace.
func (s *Store) DeleteProject(workspaceID domain.WorkspaceID, projectID domain.ProjectID) bool {
	return s.mutate("delete_project", func(d *domain.Desktop) bool {
		wsIdx := d.WorkspaceIndex(workspaceID)
		if wsIdx < 0 {
			return false
		}
		workspace := &d.Workspaces[wsIdx]
		projectIdx := workspace.ProjectIndex(projectID)
		if projectIdx < 0 || len(workspace.Projects) <= 1 {
			return false
		}

		workspace.Projects = append(workspace.Projects[:projectIdx], workspace.Projects[projectIdx+1:]...)
		if d.ActiveProjectID == projectID {
			d.ActiveProjectID = workspace.Projects[0].ID
		}

		return true
	})
}

// SetActiveProject selects workspace and project together; the workspace
// does not need to be active already.
func (s *Store) SetActiveProject(workspaceID domain.WorkspaceID, projectID domain.ProjectID) bool {
	return s.mutate("set_active_project", func(d *domain.Desktop) bool {
		wsIdx := d.WorkspaceIndex(workspaceID)
		if wsIdx < 0 || d.Workspaces[wsIdx].ProjectIndex(projectID) < 0 {
			return false
		}
		if d.ActiveWorkspaceID == workspaceID && d.ActiveProjectID == projectID {
			return false
		}

		d.ActiveWorkspaceID = workspaceID
		d.ActiveProjectID = projectID
		return true
	})
}

func (s *Store) UpdateProjectName(workspaceID domain.WorkspaceID, projectID domain.ProjectID, name string) bool {
	return s.mutate("update_project_name", func(d *domain.Desktop) bool {
		wsIdx := d.WorkspaceIndex(workspaceID)
		if wsIdx < 0 {
			return false
		}
		projectIdx := d.Workspaces[wsIdx].ProjectIndex(projectID)
		if projectIdx < 0 {
			return false
		}

		d.Workspaces[wsIdx].Projects[projectIdx].Name = name
		return true
	})
}
