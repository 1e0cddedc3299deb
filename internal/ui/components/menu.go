package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/synthtutor/internal/ui/theme"
)

// MenuItem is one row of a Menu. Disabled rows are shown but cannot be
// chosen; the cursor still stops on them so their Detail can be read.
type MenuItem struct {
	Label    string
	Detail   string
	Disabled bool
	Action   func() tea.Cmd
}

// Menu is a vertical list with a cursor.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the cursor on the first row.
func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items}
}

// SetItems replaces the rows, keeping the cursor in range.
func (m *Menu) SetItems(items []MenuItem) {
	m.Items = items
	m.Selected = min(m.Selected, max(len(items)-1, 0))
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Items)-1 {
			m.Selected++
		}
	case "enter":
		item := m.Items[m.Selected]
		if item.Action != nil && !item.Disabled {
			return m, item.Action()
		}
	}
	return m, nil
}

// View renders the menu. focused controls whether the cursor is drawn.
func (m Menu) View(focused bool) string {
	var b strings.Builder
	for i, item := range m.Items {
		prefix := "  "
		if focused && i == m.Selected {
			prefix = "▸ "
		}

		label := prefix + item.Label
		switch {
		case item.Disabled:
			b.WriteString(theme.Disabled.Render(label))
		case focused && i == m.Selected:
			b.WriteString(theme.Selected.Render(label))
		default:
			b.WriteString(theme.Unselected.Render(label))
		}
		b.WriteString("\n")

		if item.Detail != "" {
			b.WriteString(theme.Hint.Render("    " + item.Detail))
			b.WriteString("\n")
		}
	}
	return b.String()
}
