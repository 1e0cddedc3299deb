package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/synthtutor/internal/screen"
)

type stubScreen struct {
	title string
	inits int
	seen  []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.inits++
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.seen = append(s.seen, msg)
	return s, nil
}

func (s *stubScreen) View(int, int) string { return "view:" + s.title }
func (s *stubScreen) Title() string        { return s.title }

func TestNavigation(t *testing.T) {
	tests := []struct {
		name      string
		run       func(r *Router)
		wantDepth int
		wantTitle string
	}{
		{
			name:      "push",
			run:       func(r *Router) { r.Push(&stubScreen{title: "chat"}) },
			wantDepth: 2,
			wantTitle: "chat",
		},
		{
			name: "pop",
			run: func(r *Router) {
				r.Push(&stubScreen{title: "chat"})
				r.Pop()
			},
			wantDepth: 1,
			wantTitle: "welcome",
		},
		{
			name:      "pop at bottom is a no-op",
			run:       func(r *Router) { r.Pop() },
			wantDepth: 1,
			wantTitle: "welcome",
		},
		{
			name:      "replace root",
			run:       func(r *Router) { r.Replace(&stubScreen{title: "chat"}) },
			wantDepth: 1,
			wantTitle: "chat",
		},
		{
			name: "replace keeps depth",
			run: func(r *Router) {
				r.Push(&stubScreen{title: "chat"})
				r.Replace(&stubScreen{title: "module"})
			},
			wantDepth: 2,
			wantTitle: "module",
		},
		{
			name:      "replace message",
			run:       func(r *Router) { r.Update(ReplaceScreenMsg{Screen: &stubScreen{title: "chat"}}) },
			wantDepth: 1,
			wantTitle: "chat",
		},
		{
			name: "push and pop messages",
			run: func(r *Router) {
				r.Update(PushScreenMsg{Screen: &stubScreen{title: "chat"}})
				r.Update(PushScreenMsg{Screen: &stubScreen{title: "module"}})
				r.Update(PopScreenMsg{})
			},
			wantDepth: 2,
			wantTitle: "chat",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&stubScreen{title: "welcome"})
			tt.run(r)
			if r.Depth() != tt.wantDepth {
				t.Errorf("depth = %d, want %d", r.Depth(), tt.wantDepth)
			}
			if got := r.Active().Title(); got != tt.wantTitle {
				t.Errorf("active = %q, want %q", got, tt.wantTitle)
			}
		})
	}
}

func TestInitRunsOnEntry(t *testing.T) {
	r := New(&stubScreen{title: "welcome"})

	pushed := &stubScreen{title: "chat"}
	r.Push(pushed)
	replaced := &stubScreen{title: "module"}
	r.Update(ReplaceScreenMsg{Screen: replaced})

	if pushed.inits != 1 || replaced.inits != 1 {
		t.Errorf("inits = %d, %d; want 1, 1", pushed.inits, replaced.inits)
	}
}

func TestUpdateReachesOnlyActive(t *testing.T) {
	bottom := &stubScreen{title: "welcome"}
	top := &stubScreen{title: "chat"}
	r := New(bottom)
	r.Push(top)

	r.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if len(top.seen) != 1 || len(bottom.seen) != 0 {
		t.Errorf("top saw %d, bottom saw %d", len(top.seen), len(bottom.seen))
	}
	if got := r.View(80, 24); got != "view:chat" {
		t.Errorf("view = %q", got)
	}
}

func TestEmptyRouter(t *testing.T) {
	r := &Router{}
	if r.Active() != nil {
		t.Error("expected no active screen")
	}
	if cmd := r.Update(tea.KeyPressMsg{Code: 'a'}); cmd != nil {
		t.Error("expected no command")
	}
	if r.View(80, 24) != "" {
		t.Error("expected empty view")
	}
	r.Replace(&stubScreen{title: "chat"})
	if r.Depth() != 1 {
		t.Errorf("depth = %d, want 1", r.Depth())
	}
}
