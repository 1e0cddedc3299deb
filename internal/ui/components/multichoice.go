package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/synthtutor/internal/ui/theme"
)

// MultiChoice renders answer options with a cursor. The owner decides what a
// choice means: enter or a number key calls OnChoose with the option index.
// Once Reveal is set, Correct is shown in green and Chosen, if wrong, in red.
type MultiChoice struct {
	Options  []string
	Cursor   int
	Chosen   int
	Correct  int
	Reveal   bool
	Frozen   bool
	OnChoose func(i int) tea.Cmd
}

// NewMultiChoice creates a selector with nothing chosen.
func NewMultiChoice(options []string, onChoose func(int) tea.Cmd) MultiChoice {
	return MultiChoice{Options: options, Chosen: -1, Correct: -1, OnChoose: onChoose}
}

// Update handles keyboard navigation and choice.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || m.Frozen {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
		return m, nil
	case "enter", "space":
		return m.choose(m.Cursor)
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		if i := int(key[0] - '1'); i < len(m.Options) {
			m.Cursor = i
			return m.choose(i)
		}
	}
	return m, nil
}

func (m MultiChoice) choose(i int) (MultiChoice, tea.Cmd) {
	m.Chosen = i
	if m.OnChoose == nil {
		return m, nil
	}
	return m, m.OnChoose(i)
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor && !m.Frozen {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		var style lipgloss.Style
		switch {
		case m.Reveal && i == m.Correct:
			style = theme.Correct
		case m.Reveal && i == m.Chosen:
			style = theme.Incorrect
		case i == m.Chosen:
			style = theme.Selected
		case i == m.Cursor && !m.Frozen:
			style = theme.Selected
		case m.Frozen:
			style = theme.Disabled
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
