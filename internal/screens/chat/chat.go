// Package chat is the main tutoring screen: the transcript, the message
// input, the module list and, while a module is open, its exercise.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/synthtutor/internal/screen"
	"github.com/abhisek/synthtutor/internal/screens/module"
	"github.com/abhisek/synthtutor/internal/tutor"
	"github.com/abhisek/synthtutor/internal/ui/components"
	"github.com/abhisek/synthtutor/internal/ui/layout"
)

// DefaultPace is how long scripted tutor replies wait before appearing.
const DefaultPace = time.Second

// Recorder is the capture loop as seen by the screen.
type Recorder interface {
	Start(ctx context.Context, studentID string) error
	Stop()
	Active() bool
}

// Deps are the collaborators the screen needs. Recorder may be nil when
// capture is disabled.
type Deps struct {
	Services tutor.Services
	Modules  tutor.ModuleSource
	Progress tutor.ProgressStore
	Recorder Recorder
	Log      *zap.Logger

	// Timeout bounds each backend call made from the screen. Zero means no
	// extra deadline.
	Timeout time.Duration

	// Pace delays scripted replies. Zero shows them immediately.
	Pace time.Duration
}

type focusArea int

const (
	focusInput focusArea = iota
	focusModules
)

// ChatScreen implements screen.Screen for the tutoring conversation.
type ChatScreen struct {
	sess   *tutor.Session
	deps   Deps
	log    *zap.Logger
	input  components.TextInput
	menu   components.Menu
	focus  focusArea
	active *module.ModuleScreen
	notice string

	// muted is set when the student switches the camera off. starting is
	// set while a recorder start is in flight.
	muted    bool
	starting bool
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)
var _ screen.StatusProvider = (*ChatScreen)(nil)

// New creates the chat screen for sess.
func New(sess *tutor.Session, deps Deps) *ChatScreen {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	if deps.Services.Log == nil {
		deps.Services.Log = log
	}
	in := components.NewTextInput("Type a message...", false, 500)
	in.DisabledHint = "Tutor is typing..."
	return &ChatScreen{sess: sess, deps: deps, log: log, input: in}
}

// Session exposes the conversation state.
func (c *ChatScreen) Session() *tutor.Session { return c.sess }

func (c *ChatScreen) Init() tea.Cmd {
	return c.input.Init()
}

func (c *ChatScreen) Title() string {
	if c.active != nil {
		return c.active.Module().Name
	}
	if m, ok := c.sess.Selected(); ok {
		return m.Name
	}
	return "Chat"
}

func (c *ChatScreen) Status() layout.Status {
	st := layout.Status{Camera: c.deps.Recorder != nil && c.deps.Recorder.Active()}
	if student, ok := c.sess.Student(); ok {
		st.Student = student.Name
	}
	return st
}

func (c *ChatScreen) KeyHints() []layout.KeyHint {
	if c.active != nil {
		hints := c.active.KeyHints()
		if c.deps.Recorder != nil {
			hints = append(hints, layout.KeyHint{Key: "Ctrl+K", Description: "Camera"})
		}
		return hints
	}
	hints := []layout.KeyHint{{Key: "Enter", Description: "Send"}}
	if _, ok := c.sess.Student(); ok {
		if c.focus == focusModules {
			hints = []layout.KeyHint{
				{Key: "↑↓", Description: "Navigate"},
				{Key: "Enter", Description: "Open module"},
			}
		}
		hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Switch panel"})
		if c.deps.Recorder != nil {
			hints = append(hints, layout.KeyHint{Key: "Ctrl+K", Description: "Camera"})
		}
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case stepDoneMsg:
		return c, c.handleOutcome(msg.outcome)

	case catalogMsg:
		c.sess.ApplyCatalog(msg.catalog)
		c.refreshMenu()
		return c, nil

	case syncDoneMsg:
		c.sess.Reconcile(msg.result)
		c.refreshMenu()
		return c, nil

	case openModuleMsg:
		return c, c.openModule(msg.id)

	case captureStartedMsg:
		c.starting = false
		if msg.err != nil {
			c.notice = "Camera unavailable: " + msg.err.Error()
			return c, nil
		}
		if c.muted {
			// Switched off while the start was in flight.
			return c, stopCapture(c.deps.Recorder)
		}
		return c, nil

	case captureStoppedMsg:
		return c, nil

	case module.ResultMsg:
		return c, c.finishModule(msg)

	case module.BackMsg:
		c.sess.BackToModules()
		c.active = nil
		c.focus = focusModules
		return c, c.syncCapture()

	case tea.KeyPressMsg:
		return c, c.handleKey(msg)
	}

	if c.active != nil {
		_, cmd := c.active.Update(msg)
		return c, cmd
	}
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *ChatScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if msg.String() == "ctrl+k" {
		return c.toggleCapture()
	}
	if c.active != nil {
		_, cmd := c.active.Update(msg)
		return cmd
	}

	_, hasStudent := c.sess.Student()
	if msg.String() == "tab" && hasStudent {
		if c.focus == focusInput {
			c.focus = focusModules
		} else {
			c.focus = focusInput
		}
		return nil
	}

	if c.focus == focusModules {
		var cmd tea.Cmd
		c.menu, cmd = c.menu.Update(msg)
		return cmd
	}

	if msg.String() == "enter" {
		return c.send()
	}
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

// send hands the typed text to the session and schedules the reply.
func (c *ChatScreen) send() tea.Cmd {
	step, err := c.sess.Send(c.input.Value())
	switch {
	case errors.Is(err, tutor.ErrEmptyInput):
		return nil
	case err != nil:
		c.notice = err.Error()
		return nil
	}
	c.notice = ""
	c.input.Reset()
	c.input.SetDisabled(true)

	svc := c.deps.Services
	if step.Kind == tutor.StepScripted {
		run := func() tea.Msg { return stepDoneMsg{outcome: step.Run(context.Background(), svc)} }
		if c.deps.Pace <= 0 {
			return run
		}
		return tea.Tick(c.deps.Pace, func(time.Time) tea.Msg { return run() })
	}

	timeout := c.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		return stepDoneMsg{outcome: step.Run(ctx, svc)}
	}
}

func (c *ChatScreen) handleOutcome(o tutor.Outcome) tea.Cmd {
	_, hadStudent := c.sess.Student()
	c.sess.Resolve(o)
	c.input.SetDisabled(false)

	student, ok := c.sess.Student()
	if !ok || hadStudent {
		return nil
	}
	c.log.Info("student created", zap.String("student_id", student.ID), zap.String("session_id", c.sess.ID()))
	c.refreshMenu()
	return tea.Batch(c.fetchCatalog(student.ID), c.syncCapture())
}

func (c *ChatScreen) fetchCatalog(studentID string) tea.Cmd {
	if c.deps.Modules == nil || c.deps.Progress == nil {
		return nil
	}
	modules, progress, log, timeout := c.deps.Modules, c.deps.Progress, c.log, c.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		cat, _ := tutor.FetchCatalog(ctx, modules, progress, studentID, log)
		return catalogMsg{catalog: cat}
	}
}

func (c *ChatScreen) openModule(id string) tea.Cmd {
	if err := c.sess.SelectModule(id); err != nil {
		c.log.Info("module not opened", zap.String("module_id", id), zap.Error(err))
		c.notice = noticeFor(err)
		return nil
	}
	m, _ := c.sess.Selected()
	c.notice = ""
	c.active = module.New(m)
	return tea.Batch(c.active.Init(), c.syncCapture())
}

func (c *ChatScreen) finishModule(msg module.ResultMsg) tea.Cmd {
	c.active = nil
	c.focus = focusModules
	sync, ok := c.sess.CompleteModule(msg.Result)
	c.refreshMenu()
	if !ok {
		c.sess.BackToModules()
		return nil
	}
	c.log.Info("module completed",
		zap.String("module_id", msg.ModuleID),
		zap.Float64("score", msg.Result.Score))

	if c.deps.Progress == nil {
		return nil
	}
	store, log, timeout := c.deps.Progress, c.log, c.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		return syncDoneMsg{result: sync.Run(ctx, store, log)}
	}
}

// syncCapture starts the recorder once the student exists and the session
// is learning or in a module, unless the student switched it off. It never
// stops a running recorder; that is left to the toggle and to app shutdown.
func (c *ChatScreen) syncCapture() tea.Cmd {
	rec := c.deps.Recorder
	student, ok := c.sess.Student()
	if rec == nil || !ok || c.muted || c.starting || rec.Active() {
		return nil
	}
	switch c.sess.State() {
	case tutor.StateLearning, tutor.StateChat, tutor.StateModule:
	default:
		return nil
	}
	c.starting = true
	return startCapture(rec, student.ID, c.log)
}

func (c *ChatScreen) toggleCapture() tea.Cmd {
	rec := c.deps.Recorder
	student, ok := c.sess.Student()
	if rec == nil || !ok {
		return nil
	}
	if c.starting || rec.Active() {
		c.muted = true
		return stopCapture(rec)
	}
	c.muted = false
	c.starting = true
	return startCapture(rec, student.ID, c.log)
}

func startCapture(rec Recorder, studentID string, log *zap.Logger) tea.Cmd {
	return func() tea.Msg {
		if err := rec.Start(context.Background(), studentID); err != nil {
			log.Warn("camera start failed", zap.String("student_id", studentID), zap.Error(err))
			return captureStartedMsg{err: err}
		}
		return captureStartedMsg{}
	}
}

func stopCapture(rec Recorder) tea.Cmd {
	return func() tea.Msg {
		rec.Stop()
		return captureStoppedMsg{}
	}
}

// refreshMenu rebuilds the module rows from the session.
func (c *ChatScreen) refreshMenu() {
	scores := make(map[string]float64)
	for _, r := range c.sess.Progress() {
		if r.Completed {
			scores[r.ModuleID] = r.Score
		}
	}

	mods := c.sess.Modules()
	items := make([]components.MenuItem, len(mods))
	for i, m := range mods {
		id := m.ID
		item := components.MenuItem{
			Label:  m.Name,
			Detail: fmt.Sprintf("%s · level %d", m.Subject, m.Difficulty),
			Action: func() tea.Cmd {
				return func() tea.Msg { return openModuleMsg{id: id} }
			},
		}
		if score, ok := scores[m.ID]; ok {
			item.Label = "✓ " + m.Name
			item.Detail = fmt.Sprintf("%s · scored %s%%", m.Subject, tutor.FormatScore(score))
		}
		if m.Locked {
			item.Label = "🔒 " + m.Name
			item.Detail = "Requires: " + strings.Join(m.Requirements, ", ")
			item.Disabled = true
		}
		items[i] = item
	}
	c.menu.SetItems(items)
}

func noticeFor(err error) string {
	switch {
	case errors.Is(err, tutor.ErrModuleLocked):
		return "That module is still locked."
	case errors.Is(err, tutor.ErrNotReady):
		return "Modules open once we have finished getting to know you."
	default:
		return err.Error()
	}
}

func withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), d)
}
