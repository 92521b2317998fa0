package desktop

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/bnema/desk/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const contentPreviewWidth = 60

type RenderOptions struct {
	Status domain.SaveStatus
	// ShowContent appends a one-line preview of each window's content.
	ShowContent bool
	// ActiveOnly limits the tree to the active workspace.
	ActiveOnly bool
}

func renderView(desktop domain.Desktop, opts RenderOptions, s styles) string {
	header := fmt.Sprintf("workspaces: %d  windows: %d", len(desktop.Workspaces), desktop.CountWindows())
	if label := opts.Status.Label(); label != "" {
		header += "  " + statusStyle(opts.Status, s).Render(label)
	}

	lines := []string{
		s.title.Render("Desktop"),
		s.header.Render(header),
	}

	if len(desktop.Workspaces) == 0 {
		lines = append(lines, s.empty.Render("No workspaces."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, workspace := range desktop.Workspaces {
		active := workspace.ID == desktop.ActiveWorkspaceID
		if opts.ActiveOnly && !active {
			continue
		}
		lines = append(lines, s.section.Render(renderWorkspace(workspace, desktop, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderWorkspace(workspace domain.Workspace, desktop domain.Desktop, opts RenderOptions, s styles) string {
	title := s.workspace.Render(workspace.Name) + " " + s.windowID.Render(string(workspace.ID))
	if workspace.ID == desktop.ActiveWorkspaceID {
		title = s.active.Render("*") + " " + title
	} else {
		title = "  " + title
	}

	parts := []string{title}
	for _, project := range workspace.Projects {
		activeProject := workspace.ID == desktop.ActiveWorkspaceID && project.ID == desktop.ActiveProjectID
		parts = append(parts, renderProject(project, activeProject, opts, s)...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderProject(project domain.Project, active bool, opts RenderOptions, s styles) []string {
	marker := "  "
	if active {
		marker = s.active.Render("> ")
	}
	lines := []string{
		"    " + marker + s.project.Render(project.Name) + " " +
			s.windowID.Render(fmt.Sprintf("%s z=%d", project.ID, project.MaxZIndex)),
	}

	if len(project.Windows) == 0 {
		return append(lines, "        "+s.empty.Render("no windows"))
	}

	for _, window := range topFirst(project.Windows) {
		lines = append(lines, "        "+windowLine(window, s))
		if opts.ShowContent {
			lines = append(lines, "          "+s.content.Render(contentPreview(window.Content)))
		}
	}

	return lines
}

func windowLine(window domain.Window, s styles) string {
	geometry := fmt.Sprintf("@%s,%s %sx%s",
		formatNumber(window.Position.X), formatNumber(window.Position.Y),
		formatNumber(window.Size.W), formatNumber(window.Size.H))

	line := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.windowID.Render(fmt.Sprintf("[%d]", window.ZIndex)),
		" ",
		s.window.Render(window.Title),
		" ",
		s.windowID.Render(fmt.Sprintf("(%s %s)", window.Type, window.ID)),
		" ",
		s.geometry.Render(geometry),
	)
	if window.IsMaximized {
		line += " " + s.maximized.Render("[max]")
	}

	return line
}

// topFirst orders windows front to back.
func topFirst(windows []domain.Window) []domain.Window {
	ordered := make([]domain.Window, len(windows))
	copy(ordered, windows)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ZIndex > ordered[j].ZIndex
	})

	return ordered
}

func contentPreview(content domain.Content) string {
	if len(content) == 0 {
		return "{}"
	}

	data, err := json.Marshal(content)
	if err != nil {
		return "(unprintable content)"
	}

	preview := string(data)
	if len(preview) > contentPreviewWidth {
		preview = preview[:contentPreviewWidth-3] + "..."
	}

	return preview
}

func formatNumber(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

func statusStyle(status domain.SaveStatus, s styles) lipgloss.Style {
	if status == domain.SaveStatusSaved {
		return s.saved
	}

	return s.saving
}
