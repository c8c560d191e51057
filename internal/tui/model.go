package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joshuadavidthomas/liment/internal/render"
)

// dispatchMsg carries a callback onto the bubbletea goroutine.
type dispatchMsg func()

type keyMap struct {
	Refresh    key.Binding
	OpenConfig key.Binding
	Quit       key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.OpenConfig, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	OpenConfig: key.NewBinding(key.WithKeys(","), key.WithHelp(",", "open config")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	badgeStyle   = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("0"))
)

// model is used through a pointer so callbacks dispatched into Update can
// paint into it.
type model struct {
	vm       render.ViewModel
	notice   string
	spinner  spinner.Model
	bar      progress.Model
	help     help.Model
	width    int
	do       func(render.Action)
	quitting bool
}

func newModel() *model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bar := progress.New(progress.WithoutPercentage(), progress.WithWidth(24))

	return &model{
		vm:      render.Render(render.Input{}),
		spinner: s,
		bar:     bar,
		help:    help.New(),
		do:      func(render.Action) {},
	}
}

func (m *model) paint(vm render.ViewModel) { m.vm = vm }

func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dispatchMsg:
		msg()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Refresh):
			m.notice = ""
			m.do(render.ActionRefresh)
		case key.Matches(msg, keys.OpenConfig):
			m.do(render.ActionOpenConfig)
		}
	}
	return m, nil
}

func (m *model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	for _, r := range m.vm.Menu {
		switch r.Kind {
		case render.RowHeader:
			b.WriteString(titleStyle.Render(r.Text))
			if r.Badge != nil {
				b.WriteString(" ")
				b.WriteString(badgeStyle.Background(lipgloss.Color(r.Badge.Color.Hex())).Render(r.Badge.Text))
			}
			b.WriteString("\n")
		case render.RowWindow:
			bar := m.bar
			bar.FullColor = r.Color.Hex()
			b.WriteString(bar.ViewAs(r.Percent / 100))
			b.WriteString("  ")
			b.WriteString(r.Text)
			b.WriteString("\n")
			if r.Detail != "" {
				b.WriteString(dimStyle.Render("  " + r.Detail))
				b.WriteString("\n")
			}
		case render.RowSeparator:
			b.WriteString("\n")
		case render.RowSection:
			b.WriteString(sectionStyle.Render(r.Text))
			b.WriteString("\n")
		case render.RowKeyValue:
			b.WriteString("  " + r.Text + ": " + r.Value + "\n")
		case render.RowMessage:
			if m.vm.Status == render.StatusLoading {
				b.WriteString(m.spinner.View() + " " + r.Text + "\n")
			} else {
				b.WriteString(errorStyle.Render(r.Text) + "\n")
			}
		}
	}
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(keys))
	b.WriteString("\n")
	return b.String()
}
