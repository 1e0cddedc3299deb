package tutor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/synthtutor/internal/api"
	"github.com/abhisek/synthtutor/internal/llm"
)

// StudentCreator registers a new learner.
type StudentCreator interface {
	CreateStudent(ctx context.Context, in api.StudentCreate) (*api.Student, error)
}

// Responder produces the tutor's reply to a free-text message.
type Responder interface {
	Reply(ctx context.Context, student api.Student, req api.ChatRequest) (string, error)
}

// ProgressStore persists and lists progress records.
type ProgressStore interface {
	UpdateProgress(ctx context.Context, in api.ProgressUpdate) (*api.ProgressRecord, error)
	ListProgress(ctx context.Context, studentID string) ([]api.ProgressRecord, error)
}

// ModuleSource lists the module registry.
type ModuleSource interface {
	ListModules(ctx context.Context) ([]api.Module, error)
}

// Services are the collaborators a Step needs.
type Services struct {
	Students StudentCreator
	Chat     Responder
	Log      *zap.Logger
}

func (s Services) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// chatClient is the subset of *api.Client used by BackendChat.
type chatClient interface {
	Chat(ctx context.Context, in api.ChatRequest) (*api.ChatResponse, error)
}

// BackendChat forwards messages to the backend's chat endpoint.
type BackendChat struct {
	Client chatClient
}

// NewBackendChat returns a Responder backed by POST /chat.
func NewBackendChat(c chatClient) *BackendChat {
	return &BackendChat{Client: c}
}

func (b *BackendChat) Reply(ctx context.Context, _ api.Student, req api.ChatRequest) (string, error) {
	resp, err := b.Client.Chat(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Response, nil
}

// LLMChat talks to an LLM provider directly, using the tutor persona as the
// system prompt.
type LLMChat struct {
	Provider    llm.Provider
	MaxTokens   int
	Temperature float64
}

// NewLLMChat returns a Responder backed by p with the backend's generation
// settings.
func NewLLMChat(p llm.Provider) *LLMChat {
	return &LLMChat{Provider: p, MaxTokens: 2048, Temperature: 0.9}
}

// PersonaPrompt is the system prompt for a student.
func PersonaPrompt(student api.Student) string {
	grade := student.Grade
	if grade == "" {
		grade = "school"
	}
	return fmt.Sprintf("You are Synthesis Tutor 2.0, an AI tutor for a student named %s.\n"+
		"Your goal is to be helpful, supportive, and personalized in your teaching approach.\n"+
		"Keep your answers friendly and conversational for a student in grade %s.\n"+
		"Explain concepts clearly and provide interactive examples when possible.", student.Name, grade)
}

func (c *LLMChat) Reply(ctx context.Context, student api.Student, req api.ChatRequest) (string, error) {
	turns := append([]api.Message(nil), req.Context...)
	if n := len(turns); n == 0 || turns[n-1].Role != api.RoleStudent || turns[n-1].Content != req.Message {
		turns = append(turns, api.Message{Role: api.RoleStudent, Content: req.Message})
	}

	// Providers want alternating turns that open with the user.
	var msgs []llm.Message
	for _, m := range turns {
		role := roleFor(m.Role)
		if len(msgs) == 0 && role != llm.RoleUser {
			continue
		}
		if n := len(msgs); n > 0 && msgs[n-1].Role == role {
			msgs[n-1].Content += "\n\n" + m.Content
			continue
		}
		msgs = append(msgs, llm.Message{Role: role, Content: m.Content})
	}

	resp, err := c.Provider.Generate(llm.WithPurpose(ctx, "chat"), llm.Request{
		System:      PersonaPrompt(student),
		Messages:    msgs,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func roleFor(r api.Role) llm.Role {
	if r == api.RoleStudent {
		return llm.RoleUser
	}
	return llm.RoleAssistant
}

