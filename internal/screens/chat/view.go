package chat

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/synthtutor/internal/api"
	"github.com/abhisek/synthtutor/internal/ui/components"
	"github.com/abhisek/synthtutor/internal/ui/theme"
)

const tutorName = "Synthesis"

func (c *ChatScreen) View(width, height int) string {
	_, hasStudent := c.sess.Student()
	if !hasStudent {
		return c.renderMain(width, height)
	}

	side := min(max(width/3, 28), 40)
	main := c.renderMain(width-side, height)
	modules := components.Panel("Modules", c.menu.View(c.focus == focusModules && c.active == nil),
		side, height, c.focus == focusModules && c.active == nil)
	return lipgloss.JoinHorizontal(lipgloss.Top, main, modules)
}

func (c *ChatScreen) renderMain(width, height int) string {
	if c.active != nil {
		return components.Panel("", c.active.View(width-4, height-2), width, height, true)
	}

	inputH := 3
	if c.notice != "" {
		inputH++
	}
	transcriptH := max(height-inputH, 3)
	inner := max(width-4, 10)

	body := tail(c.renderTranscript(inner), transcriptH-2)
	transcript := components.Panel("", body, width, transcriptH, false)

	c.input.SetWidth(inner - 2)
	var b strings.Builder
	if c.notice != "" {
		b.WriteString(theme.Incorrect.Render("  " + c.notice))
		b.WriteString("\n")
	}
	box := theme.Panel
	if c.focus == focusInput {
		box = theme.PanelFocused
	}
	b.WriteString(box.Width(width).Render(c.input.View()))

	return lipgloss.JoinVertical(lipgloss.Left, transcript, b.String())
}

func (c *ChatScreen) renderTranscript(width int) string {
	student := "You"
	if st, ok := c.sess.Student(); ok {
		student = st.Name
	}

	bubble := min(width, 72)
	var parts []string
	for _, m := range c.sess.Transcript() {
		if m.Role == api.RoleStudent {
			name := theme.StudentName.Render(student)
			text := theme.StudentBubble.Width(bubble).Render(m.Content)
			parts = append(parts, lipgloss.PlaceHorizontal(width, lipgloss.Right, name+"\n"+text))
			continue
		}
		name := theme.TutorName.Render(tutorName)
		parts = append(parts, name+"\n"+theme.TutorBubble.Width(bubble).Render(m.Content))
	}
	if c.sess.InFlight() {
		parts = append(parts, theme.Hint.Render(tutorName+" is typing..."))
	}
	return strings.Join(parts, "\n\n")
}

// tail keeps the last n lines of s so the newest messages stay visible.
func tail(s string, n int) string {
	lines := strings.Split(s, "\n")
	if n <= 0 || len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
