package desktop

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	workspace lipgloss.Style
	project   lipgloss.Style
	active    lipgloss.Style
	window    lipgloss.Style
	windowID  lipgloss.Style
	geometry  lipgloss.Style
	maximized lipgloss.Style
	content   lipgloss.Style
	saving    lipgloss.Style
	saved     lipgloss.Style
	section   lipgloss.Style
	empty     lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		workspace: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		project:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		active:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114")),
		window:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		windowID:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		geometry:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		maximized: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("215")),
		content:   lipgloss.NewStyle().Faint(true),
		saving:    lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
		saved:     lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		section:   lipgloss.NewStyle().MarginTop(1),
		empty:     lipgloss.NewStyle().Faint(true),
	}
}
