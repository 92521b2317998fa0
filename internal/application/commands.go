package application

import (
	"github.com/bnema/desk/internal/domain"
)

// NewWindow describes a window to open. ZIndex is always assigned by the store.
type NewWindow struct {
	ID          domain.WindowID
	Title       string
	Type        domain.WidgetType
	Position    domain.Position
	Size        domain.Size
	IsMaximized bool
	Content     domain.Content
}

// NewWindowFromTemplate seeds a window with the default title, geometry and
// content registered for kind.
func NewWindowFromTemplate(kind domain.WidgetType) NewWindow {
	template := domain.TemplateFor(kind)
	return NewWindow{
		Title:    template.Title,
		Type:     kind,
		Position: template.Position,
		Size:     template.Size,
		Content:  template.Content,
	}
}

func (c NewWindow) window() domain.Window {
	content := domain.Content{}
	if c.Content != nil {
		content = c.Content.Clone()
	}

	window := domain.Window{
		ID:       c.ID,
		Title:    c.Title,
		Type:     c.Type,
		Position: c.Position,
		Size:     c.Size,
		Content:  content,
	}
	if c.IsMaximized {
		window.ToggleMaximize()
	}

	return window
}
