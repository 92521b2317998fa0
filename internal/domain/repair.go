package domain

// IDSource mints identifiers for containers synthesized while repairing.
type IDSource interface {
	NewWorkspaceID() WorkspaceID
	NewProjectID() ProjectID
}

type RepairReport struct {
	RaisedMaxZIndex         []ProjectID
	RepairedWindows         []WindowID
	AddedDefaultProjects    []WorkspaceID
	CreatedDefaultWorkspace bool
	ClearedDanglingSelected bool
	ActivatedFirstWorkspace bool
	ResetActiveProject      bool
}

func (r RepairReport) Changed() bool {
	return len(r.RaisedMaxZIndex) > 0 ||
		len(r.RepairedWindows) > 0 ||
		len(r.AddedDefaultProjects) > 0 ||
		r.CreatedDefaultWorkspace ||
		r.ClearedDanglingSelected ||
		r.ActivatedFirstWorkspace ||
		r.ResetActiveProject
}

// Repair normalizes a desktop read back from storage. The input is never
// modified, and repairing an already repaired desktop changes nothing.
func Repair(raw Desktop, ids IDSource) (Desktop, RepairReport) {
	desktop := raw.Clone()
	report := RepairReport{}

	for wi := range desktop.Workspaces {
		workspace := &desktop.Workspaces[wi]
		for pi := range workspace.Projects {
			project := &workspace.Projects[pi]
			if project.Windows == nil {
				project.Windows = []Window{}
			}
			if top := project.TopZIndex(); top > project.MaxZIndex {
				project.MaxZIndex = top
				report.RaisedMaxZIndex = append(report.RaisedMaxZIndex, project.ID)
			}
			for i := range project.Windows {
				if repairWindow(&project.Windows[i]) {
					report.RepairedWindows = append(report.RepairedWindows, project.Windows[i].ID)
				}
			}
		}

		if len(workspace.Projects) == 0 {
			workspace.Projects = []Project{NewProject(ids.NewProjectID(), DefaultProjectName)}
			report.AddedDefaultProjects = append(report.AddedDefaultProjects, workspace.ID)
		}
	}

	if len(desktop.Workspaces) == 0 {
		workspace := Workspace{
			ID:       ids.NewWorkspaceID(),
			Name:     DefaultWorkspaceName,
			Projects: []Project{NewProject(ids.NewProjectID(), DefaultProjectName)},
		}
		desktop.Workspaces = []Workspace{workspace}
		desktop.ActiveWorkspaceID = workspace.ID
		desktop.ActiveProjectID = workspace.Projects[0].ID
		report.CreatedDefaultWorkspace = true
		return desktop, report
	}

	if desktop.ActiveWorkspaceID != "" && desktop.WorkspaceIndex(desktop.ActiveWorkspaceID) < 0 {
		desktop.ActiveWorkspaceID = ""
		report.ClearedDanglingSelected = true
	}

	if desktop.ActiveWorkspaceID == "" {
		first := desktop.Workspaces[0]
		desktop.ActiveWorkspaceID = first.ID
		desktop.ActiveProjectID = first.Projects[0].ID
		report.ActivatedFirstWorkspace = true
		return desktop, report
	}

	wsIdx, projectIdx := desktop.ActiveIndices()
	if projectIdx < 0 {
		desktop.ActiveProjectID = desktop.Workspaces[wsIdx].Projects[0].ID
		report.ResetActiveProject = true
	}

	return desktop, report
}

// repairWindow enforces the maximize snapshot invariant and a non-nil content map.
func repairWindow(w *Window) bool {
	changed := false
	if w.Content == nil {
		w.Content = Content{}
		changed = true
	}

	if w.IsMaximized {
		if w.PreviousPosition == nil {
			position := DefaultRestorePosition
			w.PreviousPosition = &position
			changed = true
		}
		if w.PreviousSize == nil {
			size := DefaultRestoreSize
			w.PreviousSize = &size
			changed = true
		}
		return changed
	}

	if w.PreviousPosition != nil || w.PreviousSize != nil {
		w.PreviousPosition = nil
		w.PreviousSize = nil
		changed = true
	}

	return changed
}
