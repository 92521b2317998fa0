package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/desk/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type saveStatusMsg struct {
	status domain.SaveStatus
}

type saveIndicatorDoneMsg struct{}

type saveIndicatorModel struct {
	spinner spinner.Model
	saved   lipgloss.Style
	status  domain.SaveStatus
	listen  tea.Cmd
	done    bool
}

func newSaveIndicatorModel(ctx context.Context, updates <-chan domain.SaveStatus) saveIndicatorModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	listen := func() tea.Msg {
		select {
		case <-ctx.Done():
			return saveIndicatorDoneMsg{}
		case status := <-updates:
			return saveStatusMsg{status: status}
		}
	}

	return saveIndicatorModel{
		spinner: s,
		saved:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		status:  domain.SaveStatusIdle,
		listen:  listen,
	}
}

func (m saveIndicatorModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen)
}

func (m saveIndicatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case saveStatusMsg:
		m.status = msg.status
		return m, m.listen
	case saveIndicatorDoneMsg:
		m.done = true
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m saveIndicatorModel) View() string {
	if m.done {
		return ""
	}

	switch m.status {
	case domain.SaveStatusSaving:
		return fmt.Sprintf("%s %s", m.spinner.View(), m.status.Label())
	case domain.SaveStatusSaved:
		return m.saved.Render("✓ " + m.status.Label())
	default:
		return ""
	}
}

// runSaveIndicator draws the save status until ctx is done.
func runSaveIndicator(ctx context.Context, output io.Writer, updates <-chan domain.SaveStatus) error {
	p := tea.NewProgram(
		newSaveIndicatorModel(ctx, updates),
		tea.WithInput(nil),
		tea.WithOutput(output),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if _, ok := finalModel.(saveIndicatorModel); !ok {
		return fmt.Errorf("unexpected final indicator model type %T", finalModel)
	}

	return nil
}
