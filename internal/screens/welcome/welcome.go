// Package welcome is the splash screen shown before the conversation starts.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/synthtutor/internal/router"
	"github.com/abhisek/synthtutor/internal/screen"
	"github.com/abhisek/synthtutor/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	bannerAt     = 500 * time.Millisecond
	typingAt     = 1000 * time.Millisecond
	totalDur     = 4500 * time.Millisecond
)

// Tagline is typed out under the banner.
const Tagline = "Your friendly tutor for math, reading and science"

// typingSpeed is how many tagline characters appear per tick.
const typingSpeed = 2

type tickMsg time.Time

// WelcomeScreen shows the banner and types out the tagline, then hands over
// to the next screen on the first key press.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with the screen built by
// next.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned || w.elapsed >= totalDur {
			return w, nil
		}
		w.elapsed += tickInterval
		if w.elapsed >= totalDur {
			return w, nil
		}
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

// transition builds the next screen once, however many keys are pressed.
func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

// typed returns the part of the tagline visible so far.
func (w *WelcomeScreen) typed() string {
	if w.elapsed < typingAt {
		return ""
	}
	n := int((w.elapsed-typingAt)/tickInterval) * typingSpeed
	return Tagline[:min(n, len(Tagline))]
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	if w.elapsed >= bannerAt {
		sections = append(sections, RenderBanner(width), "")
	}

	if text := w.typed(); text != "" {
		cursor := ""
		if len(text) < len(Tagline) {
			cursor = "▌"
		}
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(text+cursor))
	}

	sections = append(sections, "", lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true).
		Render("press any key to start"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
