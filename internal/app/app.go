package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/synthtutor/internal/api"
	"github.com/abhisek/synthtutor/internal/capture"
	"github.com/abhisek/synthtutor/internal/config"
	"github.com/abhisek/synthtutor/internal/llm"
	"github.com/abhisek/synthtutor/internal/router"
	"github.com/abhisek/synthtutor/internal/screen"
	"github.com/abhisek/synthtutor/internal/screens/chat"
	"github.com/abhisek/synthtutor/internal/screens/welcome"
	"github.com/abhisek/synthtutor/internal/store"
	"github.com/abhisek/synthtutor/internal/tutor"
	"github.com/abhisek/synthtutor/internal/ui/layout"
)

// Options holds the dependencies Run wires together.
type Options struct {
	Config  config.Config
	Log     *zap.Logger
	Journal store.EventRepo
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel starting at first.
func newAppModel(first screen.Screen) AppModel {
	return AppModel{
		router: router.New(first),
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	var status layout.Status
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)

	footerHints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run wires the backend client, chat responder and capture loop, then
// starts the Bubble Tea program. The camera is released on exit.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	sess := tutor.NewSession(tutor.WithLogger(log))
	log = log.With(zap.String("session_id", sess.ID()))

	client := api.New(cfg.BackendURL,
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(log),
		api.WithJournal(opts.Journal),
		api.WithSessionID(sess.ID()),
	)

	responder, err := newResponder(ctx, cfg, client, opts.Journal, log)
	if err != nil {
		return err
	}

	deps := chat.Deps{
		Services: tutor.Services{Students: client, Chat: responder, Log: log},
		Modules:  client,
		Progress: client,
		Log:      log,
		Timeout:  cfg.Timeout,
		Pace:     chat.DefaultPace,
	}
	if cfg.Capture.Enabled {
		loop := capture.NewLoop(cfg.Capture.Camera(), client,
			capture.WithInterval(cfg.Capture.Interval),
			capture.WithLogger(log))
		defer loop.Stop()
		deps.Recorder = loop
	}

	chatScreen := chat.New(sess, deps)
	first := welcome.New(func() screen.Screen { return chatScreen })

	log.Info("starting tutor",
		zap.String("backend", client.BaseURL()),
		zap.String("chat_mode", cfg.ChatMode),
		zap.Bool("capture", cfg.Capture.Enabled))

	p := tea.NewProgram(newAppModel(first), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

// newResponder picks how free-text messages are answered.
func newResponder(ctx context.Context, cfg config.Config, client *api.Client, journal store.EventRepo, log *zap.Logger) (tutor.Responder, error) {
	if cfg.ChatMode != config.ChatModeDirect {
		return tutor.NewBackendChat(client), nil
	}
	provider, err := llm.NewProvider(ctx, cfg.LLM, journal, log)
	if err != nil {
		return nil, fmt.Errorf("chat provider: %w", err)
	}
	log.Info("direct chat mode", zap.String("provider", cfg.LLM.Provider), zap.String("model", provider.ModelID()))
	return tutor.NewLLMChat(provider), nil
}
