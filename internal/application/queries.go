package application

import (
	"sort"

	"github.com/bnema/desk/internal/domain"
)

// WindowLocation pins a window to the workspace and project holding it.
type WindowLocation struct {
	WorkspaceID domain.WorkspaceID
	ProjectID   domain.ProjectID
	Window      domain.Window
}

// Snapshot returns a deep copy of the whole desktop.
func (s *Store) Snapshot() domain.Desktop {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.desktop.Clone()
}

func (s *Store) Workspaces() []domain.Workspace {
	return s.Snapshot().Workspaces
}

func (s *Store) ActiveWorkspace() (domain.Workspace, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wsIdx, _ := s.desktop.ActiveIndices()
	if wsIdx < 0 {
		return domain.Workspace{}, false
	}

	return s.desktop.Workspaces[wsIdx].Clone(), true
}

func (s *Store) ActiveProject() (domain.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	project := activeProject(&s.desktop)
	if project == nil {
		return domain.Project{}, false
	}

	return project.Clone(), true
}

// Windows lists the active project's windows in insertion order.
func (s *Store) Windows() []domain.Window {
	project, ok := s.ActiveProject()
	if !ok {
		return []domain.Window{}
	}

	return project.Windows
}

// WindowsByStackingOrder lists the active project's windows bottom to top.
func (s *Store) WindowsByStackingOrder() []domain.Window {
	windows := s.Windows()
	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].ZIndex < windows[j].ZIndex
	})

	return windows
}

func (s *Store) Window(id domain.WindowID) (domain.Window, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	project := activeProject(&s.desktop)
	if project == nil {
		return domain.Window{}, false
	}
	idx := project.WindowIndex(id)
	if idx < 0 {
		return domain.Window{}, false
	}

	return project.Windows[idx].Clone(), true
}

func (s *Store) WindowContent(id domain.WindowID) (domain.Content, bool) {
	window, ok := s.Window(id)
	if !ok {
		return nil, false
	}

	return window.Content, true
}

// LocateWindow searches every project, not only the active one.
func (s *Store) LocateWindow(id domain.WindowID) (WindowLocation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, workspace := range s.desktop.Workspaces {
		for _, project := range workspace.Projects {
			if idx := project.WindowIndex(id); idx >= 0 {
				return WindowLocation{
					WorkspaceID: workspace.ID,
					ProjectID:   project.ID,
					Window:      project.Windows[idx].Clone(),
				}, true
			}
		}
	}

	return WindowLocation{}, false
}
