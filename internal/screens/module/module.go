// Package module hosts one exercise widget and reports its result.
package module

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/synthtutor/internal/screen"
	"github.com/abhisek/synthtutor/internal/tutor"
	"github.com/abhisek/synthtutor/internal/ui/components"
	"github.com/abhisek/synthtutor/internal/ui/layout"
	"github.com/abhisek/synthtutor/internal/widget"
)

// ModuleScreen renders the widget for a module and turns key presses into
// widget actions.
type ModuleScreen struct {
	mod    tutor.Module
	w      widget.Widget
	input  components.TextInput
	choice components.MultiChoice
	button components.Button
	done   bool
}

var _ screen.Screen = (*ModuleScreen)(nil)
var _ screen.KeyHintProvider = (*ModuleScreen)(nil)

// New builds the screen for mod using the widget its kind resolves to.
func New(mod tutor.Module) *ModuleScreen {
	s := &ModuleScreen{mod: mod, w: widget.New(mod.Kind)}
	switch w := s.w.(type) {
	case *widget.Math:
		s.input = components.NewTextInput("Your answer", true, 6)
	case *widget.Reading:
		s.choice = components.NewMultiChoice(w.Question().Options, nil)
	case *widget.Fraction:
		s.choice = components.NewMultiChoice(w.Options(), nil)
	case *widget.Science:
		s.button = components.NewButton("I understand", func() tea.Cmd { return s.understand(w) })
	}
	return s
}

// Module returns the module being worked on.
func (s *ModuleScreen) Module() tutor.Module { return s.mod }

// Widget exposes the hosted widget.
func (s *ModuleScreen) Widget() widget.Widget { return s.w }

func (s *ModuleScreen) Init() tea.Cmd {
	if _, ok := s.w.(*widget.Math); ok {
		return s.input.Init()
	}
	return nil
}

func (s *ModuleScreen) Title() string {
	return s.mod.Name
}

func (s *ModuleScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Esc", Description: "Back to modules"}}
	switch s.w.(type) {
	case *widget.Math:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Check"})
	case *widget.Reading:
		hints = append(hints, layout.KeyHint{Key: "↑↓/1-4", Description: "Choose"}, layout.KeyHint{Key: "Enter", Description: "Next"})
	case *widget.Fraction:
		hints = append(hints, layout.KeyHint{Key: "↑↓/1-4", Description: "Answer"})
	case *widget.Science:
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Topic"}, layout.KeyHint{Key: "Enter", Description: "I understand"})
	}
	return hints
}

func (s *ModuleScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case advanceMsg:
		if m, ok := s.w.(*widget.Math); ok {
			m.Advance()
			s.input.Reset()
			return s, s.complete(0)
		}
		return s, nil

	case tea.KeyPressMsg:
		if msg.String() == "esc" {
			if s.done {
				return s, nil
			}
			return s, func() tea.Msg { return BackMsg{} }
		}
		if s.done {
			return s, nil
		}
		switch w := s.w.(type) {
		case *widget.Math:
			return s.updateMath(w, msg)
		case *widget.Reading:
			return s.updateReading(w, msg)
		case *widget.Fraction:
			return s.updateFraction(w, msg)
		case *widget.Science:
			return s.updateScience(w, msg)
		}
	}

	if _, ok := s.w.(*widget.Math); ok {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ModuleScreen) updateMath(m *widget.Math, msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if m.Feedback() != widget.FeedbackNone {
		return s, nil
	}
	if msg.String() == "enter" {
		m.SetAnswer(s.input.Value())
		if m.Check() == widget.FeedbackNone {
			return s, nil
		}
		return s, tea.Tick(m.Delay(), func(time.Time) tea.Msg { return advanceMsg{} })
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ModuleScreen) updateReading(r *widget.Reading, msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "enter" {
		if !r.ShowingFeedback() {
			r.Select(s.choice.Options[s.choice.Cursor])
		}
		if err := r.Next(); err != nil {
			return s, nil
		}
		if _, ok := r.Result(); ok {
			return s, s.complete(r.Delay())
		}
		s.syncReading(r)
		return s, nil
	}
	if r.ShowingFeedback() {
		return s, nil
	}
	s.choice, _ = s.choice.Update(msg)
	if s.choice.Chosen >= 0 {
		r.Select(s.choice.Options[s.choice.Chosen])
	}
	return s, nil
}

// syncReading mirrors the widget's question and feedback into the selector.
func (s *ModuleScreen) syncReading(r *widget.Reading) {
	q := r.Question()
	if r.ShowingFeedback() {
		s.choice.Reveal = true
		s.choice.Frozen = true
		s.choice.Correct = indexOf(q.Options, q.Answer)
		s.choice.Chosen = indexOf(q.Options, r.Selected())
		return
	}
	s.choice = components.NewMultiChoice(q.Options, nil)
}

func (s *ModuleScreen) updateFraction(f *widget.Fraction, msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if f.Locked() {
		return s, nil
	}
	s.choice, _ = s.choice.Update(msg)
	if s.choice.Chosen < 0 {
		return s, nil
	}
	f.Select(s.choice.Options[s.choice.Chosen])
	s.choice.Reveal = true
	s.choice.Frozen = true
	if f.Feedback() == widget.FeedbackCorrect {
		s.choice.Correct = s.choice.Chosen
	}
	return s, s.complete(f.Delay())
}

func (s *ModuleScreen) updateScience(sc *widget.Science, msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		sc.Goto(sc.Index() - 1)
	case "right", "l", "tab":
		sc.Goto(sc.Index() + 1)
	case "1", "2", "3":
		sc.Goto(int(msg.String()[0] - '1'))
	case "space":
		return s, s.understand(sc)
	case "enter":
		var cmd tea.Cmd
		s.button, cmd = s.button.Update(msg)
		return s, cmd
	}
	return s, nil
}

// understand marks the shown step and moves on to the next unfinished one.
func (s *ModuleScreen) understand(sc *widget.Science) tea.Cmd {
	if sc.Understand() {
		return s.complete(sc.Delay())
	}
	for i := 1; i < sc.Total(); i++ {
		next := (sc.Index() + i) % sc.Total()
		if !sc.Completed(next) {
			sc.Goto(next)
			break
		}
	}
	return nil
}

// complete schedules the ResultMsg after delay if the widget has finished.
// It fires at most once.
func (s *ModuleScreen) complete(delay time.Duration) tea.Cmd {
	res, ok := s.w.Result()
	if !ok || s.done {
		return nil
	}
	s.done = true
	msg := ResultMsg{ModuleID: s.mod.ID, Result: res}
	if delay <= 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg { return msg })
}

func indexOf(options []string, v string) int {
	for i, o := range options {
		if o == v {
			return i
		}
	}
	return -1
}
