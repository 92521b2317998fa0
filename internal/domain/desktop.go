package domain

import (
	"fmt"
	"strings"
)

type WorkspaceID string
type ProjectID string
type WindowID string

const (
	DefaultWorkspaceName = "Main Workspace"
	DefaultProjectName   = "Main Project"
)

var (
	DefaultRestorePosition = Position{X: 100, Y: 100}
	DefaultRestoreSize     = Size{W: 300, H: 300}
)

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Content is the opaque per-window blob owned by the widget. Values are
// treated as immutable: writers replace keys, they never mutate a value in place.
type Content map[string]any

func (c Content) Clone() Content {
	cloned := make(Content, len(c))
	for key, value := range c {
		cloned[key] = value
	}

	return cloned
}

// Merge returns a new map holding c overlaid with partial.
func (c Content) Merge(partial Content) Content {
	merged := make(Content, len(c)+len(partial))
	for key, value := range c {
		merged[key] = value
	}
	for key, value := range partial {
		merged[key] = value
	}

	return merged
}

type Window struct {
	ID               WindowID   `json:"id"`
	Title            string     `json:"title"`
	Type             WidgetType `json:"type"`
	Position         Position   `json:"position"`
	Size             Size       `json:"size"`
	IsMaximized      bool       `json:"isMaximized"`
	ZIndex           int        `json:"zIndex"`
	Content          Content    `json:"content"`
	PreviousPosition *Position  `json:"previousPosition,omitempty"`
	PreviousSize     *Size      `json:"previousSize,omitempty"`
}

func (w Window) Clone() Window {
	cloned := w
	if w.Content != nil {
		cloned.Content = w.Content.Clone()
	}
	if w.PreviousPosition != nil {
		position := *w.PreviousPosition
		cloned.PreviousPosition = &position
	}
	if w.PreviousSize != nil {
		size := *w.PreviousSize
		cloned.PreviousSize = &size
	}

	return cloned
}

// ToggleMaximize flips the window between normal and maximized. Maximizing
// snapshots the current geometry; restoring reads it back, or falls back to
// the default restore geometry when the snapshot is missing.
func (w *Window) ToggleMaximize() {
	if w == nil {
		return
	}

	if !w.IsMaximized {
		position := w.Position
		size := w.Size
		w.PreviousPosition = &position
		w.PreviousSize = &size
		w.IsMaximized = true
		w.Position = Position{}
		return
	}

	w.IsMaximized = false
	w.Position = DefaultRestorePosition
	if w.PreviousPosition != nil {
		w.Position = *w.PreviousPosition
	}
	w.Size = DefaultRestoreSize
	if w.PreviousSize != nil {
		w.Size = *w.PreviousSize
	}
	w.PreviousPosition = nil
	w.PreviousSize = nil
}

type Project struct {
	ID        ProjectID `json:"id"`
	Name      string    `json:"name"`
	Windows   []Window  `json:"windows"`
	MaxZIndex int       `json:"maxZIndex"`
}

func NewProject(id ProjectID, name string) Project {
	return Project{ID: id, Name: name, Windows: []Window{}}
}

func (p Project) Clone() Project {
	cloned := p
	cloned.Windows = make([]Window, len(p.Windows))
	for i, window := range p.Windows {
		cloned.Windows[i] = window.Clone()
	}

	return cloned
}

// NextZIndex advances the stacking counter and returns the new top value.
func (p *Project) NextZIndex() int {
	p.MaxZIndex++
	return p.MaxZIndex
}

// TopZIndex is the highest zIndex carried by any window, 0 for an empty project.
func (p Project) TopZIndex() int {
	top := 0
	for _, window := range p.Windows {
		if window.ZIndex > top {
			top = window.ZIndex
		}
	}

	return top
}

func (p Project) WindowIndex(id WindowID) int {
	for i := range p.Windows {
		if p.Windows[i].ID == id {
			return i
		}
	}

	return -1
}

type Workspace struct {
	ID       WorkspaceID `json:"id"`
	Name     string      `json:"name"`
	Projects []Project   `json:"projects"`
}

func (w Workspace) Clone() Workspace {
	cloned := w
	cloned.Projects = make([]Project, len(w.Projects))
	for i, project := range w.Projects {
		cloned.Projects[i] = project.Clone()
	}

	return cloned
}

func (w Workspace) ProjectIndex(id ProjectID) int {
	for i := range w.Projects {
		if w.Projects[i].ID == id {
			return i
		}
	}

	return -1
}

// Desktop is the persisted record: the container tree plus the active selection.
type Desktop struct {
	Workspaces        []Workspace `json:"workspaces"`
	ActiveWorkspaceID WorkspaceID `json:"activeWorkspaceId"`
	ActiveProjectID   ProjectID   `json:"activeProjectId"`
}

func (d Desktop) Clone() Desktop {
	cloned := d
	cloned.Workspaces = make([]Workspace, len(d.Workspaces))
	for i, workspace := range d.Workspaces {
		cloned.Workspaces[i] = workspace.Clone()
	}

	return cloned
}

func (d Desktop) WorkspaceIndex(id WorkspaceID) int {
	if id == "" {
		return -1
	}
	for i := range d.Workspaces {
		if d.Workspaces[i].ID == id {
			return i
		}
	}

	return -1
}

// ActiveIndices locates the active workspace and project. Either index is -1
// when the corresponding pointer is unset or dangling.
func (d Desktop) ActiveIndices() (int, int) {
	wsIdx := d.WorkspaceIndex(d.ActiveWorkspaceID)
	if wsIdx < 0 || d.ActiveProjectID == "" {
		return wsIdx, -1
	}

	return wsIdx, d.Workspaces[wsIdx].ProjectIndex(d.ActiveProjectID)
}

// HasWindow reports whether any project anywhere holds a window with id.
func (d Desktop) HasWindow(id WindowID) bool {
	for _, workspace := range d.Workspaces {
		for _, project := range workspace.Projects {
			if project.WindowIndex(id) >= 0 {
				return true
			}
		}
	}

	return false
}

func (d Desktop) CountWindows() int {
	total := 0
	for _, workspace := range d.Workspaces {
		for _, project := range workspace.Projects {
			total += len(project.Windows)
		}
	}

	return total
}

func ValidateName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s name: %w", kind, ErrEmptyName)
	}

	return nil
}
