package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/ropecoil/internal/coiler"
)

const (
	stateMenu = iota
	stateSim
)

// Launcher starts a live session for the chosen coiler variant.
type Launcher func(variant string) (Model, error)

type picker struct {
	state, cursor int
	ids           []string
	variants      coiler.Table
	launch        Launcher
	err           error
	liveModel     Model
}

// NewPicker lists ids (in display order) from variants and hands the
// selection to launch.
func NewPicker(variants coiler.Table, ids []string, launch Launcher) tea.Model {
	return picker{ids: ids, variants: variants, launch: launch}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		next, cmd := m.liveModel.Update(msg)
		m.liveModel = next.(Model)
		return m, cmd
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.ids)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.ids) == 0 {
			return m, nil
		}
		live, err := m.launch(m.ids[m.cursor])
		if err != nil {
			m.err = err
			return m, nil
		}
		m.liveModel, m.state, m.err = live, stateSim, nil
		return m, live.Init()
	}
	return m, nil
}

func (m picker) View() string {
	if m.state == stateSim {
		return m.liveModel.View()
	}
	p := newPalette(CurrentTheme())
	var b strings.Builder
	b.WriteString("\n\n    " + p.title.Render("ROPECOIL") + "\n    " + p.label.Render("rope winding simulator") +
		"\n    " + p.label.Render("──────────────────────") + "\n\n")
	for i, id := range m.ids {
		v := m.variants[id]
		desc := fmt.Sprintf("r=%.2f h=%.2f cap=%d", v.Radius, v.Height, v.MaxSegments)
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", p.rope.Render("▸"), p.value.Render(fmt.Sprintf("%-10s", id)), p.scene.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", p.label.Render(fmt.Sprintf("%-10s", id)), p.label.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + p.fault.Render(m.err.Error()) + "\n")
	}
	key := lipgloss.NewStyle().Foreground(CurrentTheme().Primary).Bold(true)
	b.WriteString("\n    " + key.Render("j/k") + p.hint.Render(" navigate  ") + key.Render("enter") + p.hint.Render(" wind  ") +
		key.Render("q") + p.hint.Render(" quit") + "\n")
	return b.String()
}

// RunPicker shows the variant menu and the live view it launches.
func RunPicker(variants coiler.Table, ids []string, launch Launcher) error {
	_, err := tea.NewProgram(NewPicker(variants, ids, launch), tea.WithAltScreen()).Run()
	return err
}
