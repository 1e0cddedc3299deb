package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/synthtutor/internal/ui/theme"
)

// Panel draws a titled, bordered box of exactly width x height cells.
// Focused panels get the primary border color.
func Panel(title, body string, width, height int, focused bool) string {
	style := theme.Panel
	if focused {
		style = theme.PanelFocused
	}
	inner := max(width-4, 1)
	content := body
	if title != "" {
		content = theme.Title.Render(title) + "\n" + body
	}
	return style.
		Width(width).
		Height(height).
		MaxHeight(height).
		Render(lipgloss.NewStyle().MaxWidth(inner).Render(content))
}

// Card renders centered content in a rounded card at the given width.
func Card(content string, width int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(width).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}
