package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/synthtutor/internal/store"
)

// JournalProvider records every request in the event journal and the log.
type JournalProvider struct {
	inner   Provider
	name    string
	journal store.EventRepo
	log     *zap.Logger
}

// WithJournal wraps p so each call is journaled. A nil repo only logs.
func WithJournal(p Provider, name string, repo store.EventRepo, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &JournalProvider{inner: p, name: name, journal: repo, log: log}
}

func (j *JournalProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := j.inner.Generate(ctx, req)
	latency := time.Since(start)

	data := store.LLMRequestEventData{
		SessionID: SessionFrom(ctx),
		Provider:  j.name,
		Model:     j.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: latency.Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		j.log.Warn("llm request failed",
			zap.String("provider", j.name),
			zap.String("model", data.Model),
			zap.Duration("latency", latency),
			zap.Error(err))
	} else {
		j.log.Debug("llm request",
			zap.String("provider", j.name),
			zap.String("model", data.Model),
			zap.Int("input_tokens", data.InputTokens),
			zap.Int("output_tokens", data.OutputTokens),
			zap.Duration("latency", latency))
	}

	if j.journal != nil {
		if jerr := j.journal.AppendLLMRequest(context.WithoutCancel(ctx), data); jerr != nil {
			j.log.Warn("journal append failed", zap.Error(jerr))
		}
	}
	return resp, err
}

func (j *JournalProvider) ModelID() string {
	return j.inner.ModelID()
}
