package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// APIRequestEventData captures one call to the tutoring backend.
type APIRequestEventData struct {
	SessionID    string
	RequestID    string
	Method       string
	Endpoint     string
	StatusCode   int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// APIRequestEvent is a stored APIRequestEventData with its journal metadata.
type APIRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	APIRequestEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	SessionID    string
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEvent is a stored LLMRequestEventData with its journal metadata.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to journal events.
type EventRepo interface {
	// AppendAPIRequest records a backend HTTP call.
	AppendAPIRequest(ctx context.Context, data APIRequestEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryAPIEvents returns backend call events, newest first.
	QueryAPIEvents(ctx context.Context, opts QueryOpts) ([]APIRequestEvent, error)

	// QueryLLMEvents returns LLM call events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
}
