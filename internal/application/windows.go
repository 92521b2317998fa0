package application

import (
	"github.com/bnema/desk/internal/domain"
)

// AddWindow places a new window on top of the active project's stack and
// returns its id, or "" when there is no active project or the id is taken.
func (s *Store) AddWindow(cmd NewWindow) domain.WindowID {
	window := cmd.window()
	generated := window.ID == ""

	added := s.mutate("add_window", func(d *domain.Desktop) bool {
		project := activeProject(d)
		if project == nil {
			return false
		}
		if generated {
			// Stored records may already hold ids the generator hands out.
			window.ID = s.ids.NewWindowID()
			for d.HasWindow(window.ID) {
				window.ID = s.ids.NewWindowID()
			}
		} else if d.HasWindow(window.ID) {
			return false
		}

		window.ZIndex = project.NextZIndex()
		project.Windows = append(project.Windows, window)
		return true
	})
	if !added {
		return ""
	}

	return window.ID
}

func (s *Store) UpdateWindowPosition(id domain.WindowID, position domain.Position) bool {
	return s.mutateWindow("update_window_position", id, func(_ *domain.Project, w *domain.Window) bool {
		w.Position = position
		return true
	})
}

func (s *Store) UpdateWindowSize(id domain.WindowID, size domain.Size) bool {
	return s.mutateWindow("update_window_size", id, func(_ *domain.Project, w *domain.Window) bool {
		w.Size = size
		return true
	})
}

func (s *Store) ToggleMaximize(id domain.WindowID) bool {
	return s.mutateWindow("toggle_maximize", id, func(_ *domain.Project, w *domain.Window) bool {
		w.ToggleMaximize()
		return true
	})
}

// FocusWindow raises the window above every other window in the project,
// even when it is already on top.
func (s *Store) FocusWindow(id domain.WindowID) bool {
	return s.mutateWindow("focus_window", id, func(p *domain.Project, w *domain.Window) bool {
		w.ZIndex = p.NextZIndex()
		return true
	})
}

// CloseWindow removes the window. The remaining zIndex values are kept as is.
func (s *Store) CloseWindow(id domain.WindowID) bool {
	return s.mutate("close_window", func(d *domain.Desktop) bool {
		project := activeProject(d)
		if project == nil {
			return false
		}
		idx := project.WindowIndex(id)
		if idx < 0 {
			return false
		}

		project.Windows = append(project.Windows[:idx], project.Windows[idx+1:]...)
		return true
	})
}

// UpdateWindowContent overlays partial onto the window's content. The merged
// result is a fresh map so earlier snapshots keep their own copy.
func (s *Store) UpdateWindowContent(id domain.WindowID, partial domain.Content) bool {
	return s.mutateWindow("update_window_content", id, func(_ *domain.Project, w *domain.Window) bool {
		w.Content = w.Content.Merge(partial)
		return true
	})
}
