package spinner

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func TestNewModel(t *testing.T) {
	m := newModel("Fetching usage...")
	if m.quitting || m.interrupted {
		t.Error("new model should be running")
	}
	if !strings.Contains(m.View(), "Fetching usage...") {
		t.Errorf("View() = %q", m.View())
	}
}

func TestModelUpdateDone(t *testing.T) {
	updated, cmd := newModel("x").Update(doneMsg{})
	m := updated.(model)

	if !m.quitting || m.interrupted {
		t.Errorf("quitting=%v interrupted=%v", m.quitting, m.interrupted)
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.View() != "" {
		t.Errorf("View() after done = %q, want empty", m.View())
	}
}

func TestModelUpdateCtrlC(t *testing.T) {
	updated, cmd := newModel("x").Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m := updated.(model)

	if !m.interrupted {
		t.Error("ctrl+c should mark the model interrupted")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestModelIgnoresOtherKeys(t *testing.T) {
	updated, cmd := newModel("x").Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if updated.(model).quitting || cmd != nil {
		t.Error("only ctrl+c should quit")
	}
}

func TestModelTick(t *testing.T) {
	m := newModel("x")
	_, cmd := m.Update(spinner.TickMsg{ID: m.spinner.ID()})
	if cmd == nil {
		t.Error("tick should schedule the next frame")
	}
}

func TestFormatTitle(t *testing.T) {
	if got := FormatTitle("Claude Code"); got != "Fetching Claude Code usage..." {
		t.Errorf("FormatTitle() = %q", got)
	}
	if got := FormatTitle(""); got != "Fetching usage..." {
		t.Errorf("FormatTitle(\"\") = %q", got)
	}
}
