package module

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/synthtutor/internal/ui/components"
	"github.com/abhisek/synthtutor/internal/ui/theme"
	"github.com/abhisek/synthtutor/internal/widget"
)

func (s *ModuleScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(s.w.Title()))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%s · difficulty %d", s.mod.Subject, s.mod.Difficulty)))
	b.WriteString("\n\n")

	switch w := s.w.(type) {
	case *widget.Math:
		b.WriteString(s.renderMath(w, width))
	case *widget.Reading:
		b.WriteString(s.renderReading(w, width))
	case *widget.Fraction:
		b.WriteString(s.renderFraction(w))
	case *widget.Science:
		b.WriteString(s.renderScience(w, width))
	}

	if res, ok := s.w.Result(); ok {
		b.WriteString("\n")
		b.WriteString(theme.Correct.Render(fmt.Sprintf("Module complete! Score: %.0f%%", res.Score)))
	}

	return lipgloss.NewStyle().MaxWidth(width).MaxHeight(height).Render(b.String())
}

func (s *ModuleScreen) renderMath(m *widget.Math, width int) string {
	var b strings.Builder
	done := m.Index()
	if _, ok := m.Result(); ok {
		done = m.Total()
	}
	b.WriteString(components.NewProgressBar("Problems", done, m.Total(), min(width, 50)).View())
	b.WriteString("\n\n")

	p := m.Problem()
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(p.Prompt + " = ?"))
	b.WriteString("\n\n")

	s.input.SetWidth(min(width-4, 20))
	b.WriteString(s.input.View())
	b.WriteString("\n\n")
	b.WriteString(renderFeedback(m.Feedback(), "Not quite, try again."))
	return b.String()
}

func (s *ModuleScreen) renderReading(r *widget.Reading, width int) string {
	var b strings.Builder
	b.WriteString(components.Card(r.Passage(), min(width-2, 70)))
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Question %d of %d", r.Index()+1, r.Total())))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(r.Question().Prompt))
	b.WriteString("\n\n")
	b.WriteString(s.choice.View())
	if r.ShowingFeedback() {
		b.WriteString("\n")
		b.WriteString(renderFeedback(r.Feedback(), "The answer is "+r.Question().Answer+"."))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Press Enter to continue"))
	}
	return b.String()
}

func (s *ModuleScreen) renderFraction(f *widget.Fraction) string {
	var b strings.Builder
	b.WriteString(shape())
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(f.Prompt()))
	b.WriteString("\n\n")
	b.WriteString(s.choice.View())
	if f.Locked() {
		b.WriteString("\n")
		b.WriteString(renderFeedback(f.Feedback(), "One slice out of four is "+f.Answer()+"."))
		if f.Feedback() == widget.FeedbackIncorrect {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Render("Press Esc to go back and try again later"))
		}
	}
	return b.String()
}

func (s *ModuleScreen) renderScience(sc *widget.Science, width int) string {
	var b strings.Builder

	tabs := make([]string, sc.Total())
	for i := range tabs {
		label := fmt.Sprintf(" %d ", i+1)
		if sc.Completed(i) {
			label = fmt.Sprintf(" %d ✓ ", i+1)
		}
		style := theme.ButtonInactive
		if i == sc.Index() {
			style = theme.ButtonActive
		}
		tabs[i] = style.Render(label)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	st := sc.Step()
	b.WriteString(theme.Subtitle.Render(st.Title))
	b.WriteString("\n")
	b.WriteString(theme.Body.Width(min(width-2, 70)).Render(st.Intro))
	b.WriteString("\n\n")
	for _, line := range st.Lines {
		b.WriteString("  • " + line + "\n")
	}
	b.WriteString("\n")
	if sc.Completed(sc.Index()) {
		b.WriteString(theme.Correct.Render("✓ Understood"))
	} else {
		b.WriteString(s.button.View())
	}
	return b.String()
}

func renderFeedback(fb widget.Feedback, miss string) string {
	switch fb {
	case widget.FeedbackCorrect:
		return theme.Correct.Render("✓ Correct!")
	case widget.FeedbackIncorrect:
		return theme.Incorrect.Render("✗ " + miss)
	}
	return ""
}

// shape draws a square cut into quarters with the top-left one highlighted.
func shape() string {
	hi := lipgloss.NewStyle().Foreground(theme.Accent)
	lo := lipgloss.NewStyle().Foreground(theme.Border)
	return "  " + hi.Render("┏━━━━┓") + lo.Render("────╮") + "\n" +
		"  " + hi.Render("┃████┃") + lo.Render("    │") + "\n" +
		"  " + hi.Render("┗━━━━┛") + lo.Render("────┤") + "\n" +
		"  " + lo.Render("│    │    │") + "\n" +
		"  " + lo.Render("╰────┴────╯")
}
