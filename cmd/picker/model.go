// Package picker is the fuel-type selection form.
package picker

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sumwatshade/fueldash/cmd/fuel"
)

var pickerTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("219"))
var faint = lipgloss.NewStyle().Faint(true)

// Model wraps a huh select over the fuel types.
type Model struct {
	form   *huh.Form
	choice fuel.Type
	done   bool
}

func New(current fuel.Type) *Model {
	m := &Model{choice: current}
	opts := make([]huh.Option[fuel.Type], 0, len(fuel.All()))
	for _, f := range fuel.All() {
		opts = append(opts, huh.NewOption(f.Label(), f))
	}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[fuel.Type]().Title("Fuel type").Options(opts...).Value(&m.choice),
		),
	).WithShowHelp(false)
	return m
}

func (m *Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update forwards input to the form. Once the form is finished its own
// follow-up command is dropped so it cannot end the program.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if m.done {
		return nil
	}
	updated, cmd := m.form.Update(msg)
	if f, ok := updated.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted, huh.StateAborted:
		m.done = true
		return nil
	}
	return cmd
}

// Choice returns the picked fuel type once the form completed.
func (m *Model) Choice() (fuel.Type, bool) {
	if m.form.State != huh.StateCompleted {
		return "", false
	}
	return m.choice, true
}

// Done reports whether the form is finished, picked or aborted.
func (m *Model) Done() bool { return m.done }

func (m *Model) View() string {
	return pickerTitleStyle.Render("Select fuel type") + "\n" + m.form.View() + "\n" + faint.Render("enter to pick · esc to cancel")
}
