package spinner

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// doneMsg is sent to the model when the work completes.
type doneMsg struct{}

type model struct {
	spinner     spinner.Model
	title       string
	quitting    bool
	interrupted bool
}

func newModel(title string) model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{spinner: s, title: title}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			m.interrupted = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m model) View() string {
	// The spinner is transient progress UI.
	if m.quitting {
		return ""
	}
	return m.spinner.View() + " " + m.title
}
