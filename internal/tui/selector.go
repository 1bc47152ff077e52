package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrAborted is returned when the user quits without confirming.
var ErrAborted = errors.New("selection aborted")

type model struct {
	choices  []string
	cursor   int
	chosen   map[int]bool
	selected bool
	aborted  bool
}

func newModel(choices []string) model {
	chosen := make(map[int]bool, len(choices))
	for i := range choices {
		chosen[i] = true
	}
	return model{choices: choices, chosen: chosen}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
		case " ", "space", "x":
			m.chosen[m.cursor] = !m.chosen[m.cursor]
		case "a":
			all := len(m.picked()) < len(m.choices)
			for i := range m.choices {
				m.chosen[i] = all
			}
		case "enter":
			m.selected = true
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	var sb strings.Builder
	sb.WriteString("Choose config files to generate (space toggles, enter confirms):\n\n")
	for i, choice := range m.choices {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		check := "[ ]"
		if m.chosen[i] {
			check = "[x]"
		}
		sb.WriteString(cursor + " " + check + " " + choice + "\n")
	}
	if m.selected {
		sb.WriteString("\nGenerating...\n")
	}
	return sb.String()
}

func (m model) picked() []string {
	var out []string
	for i, choice := range m.choices {
		if m.chosen[i] {
			out = append(out, choice)
		}
	}
	return out
}

// SelectTargets lets the user pick a subset of names. Every name starts
// selected.
func SelectTargets(names []string) ([]string, error) {
	p := tea.NewProgram(newModel(names))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m := final.(model)
	if m.aborted {
		return nil, ErrAborted
	}
	return m.picked(), nil
}
