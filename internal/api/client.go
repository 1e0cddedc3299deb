package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/synthtutor/internal/store"
)

// DefaultBaseURL is used when no backend URL is configured.
const DefaultBaseURL = "http://localhost:8001"

const defaultTimeout = 30 * time.Second

// Client talks to the tutoring backend. All routes live under <base>/api.
// Nothing is retried: a failed call is reported once to the caller.
type Client struct {
	base      string
	http      *http.Client
	journal   store.EventRepo
	log       *zap.Logger
	sessionID string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithJournal records every call in the given event repo.
func WithJournal(repo store.EventRepo) Option {
	return func(c *Client) { c.journal = repo }
}

// WithLogger attaches a structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithSessionID tags journal entries with a session identifier.
func WithSessionID(id string) Option {
	return func(c *Client) { c.sessionID = id }
}

// New creates a Client for the backend at baseURL. An empty baseURL falls
// back to DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		base: strings.TrimRight(baseURL, "/") + "/api",
		http: &http.Client{Timeout: defaultTimeout},
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the resolved API root, including the /api suffix.
func (c *Client) BaseURL() string { return c.base }

// CreateStudent registers a new learner.
func (c *Client) CreateStudent(ctx context.Context, in StudentCreate) (*Student, error) {
	if in.Interests == nil {
		in.Interests = []string{}
	}
	var out Student
	if err := c.do(ctx, http.MethodPost, "/students", in, &out, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListModules fetches the module registry.
func (c *Client) ListModules(ctx context.Context) ([]Module, error) {
	var out []Module
	if err := c.do(ctx, http.MethodGet, "/modules", nil, &out, "modules"); err != nil {
		return nil, err
	}
	return out, nil
}

// ListProgress fetches every progress record for a student.
func (c *Client) ListProgress(ctx context.Context, studentID string) ([]ProgressRecord, error) {
	var out []ProgressRecord
	if err := c.do(ctx, http.MethodGet, "/progress/"+url.PathEscape(studentID), nil, &out, "progress"); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProgress upserts a progress record.
func (c *Client) UpdateProgress(ctx context.Context, in ProgressUpdate) (*ProgressRecord, error) {
	var out ProgressRecord
	if err := c.do(ctx, http.MethodPost, "/progress", in, &out, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat asks the tutor for a reply to the latest student message.
func (c *Client) Chat(ctx context.Context, in ChatRequest) (*ChatResponse, error) {
	if in.Context == nil {
		in.Context = []Message{}
	}
	var out ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", in, &out, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessVideoFrame uploads one captured camera segment.
func (c *Client) ProcessVideoFrame(ctx context.Context, in VideoFrame) (*FrameAck, error) {
	var out FrameAck
	if err := c.do(ctx, http.MethodPost, "/process-video-frame", in, &out, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health pings the backend root.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/", nil, &out, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one request. When schema is non-empty the 2xx body is
// validated against that payload schema before decoding.
func (c *Client) do(ctx context.Context, method, endpoint string, in, out any, schema string) (err error) {
	requestID := uuid.NewString()
	start := time.Now()
	status := 0

	defer func() {
		c.record(ctx, requestID, method, endpoint, status, time.Since(start), err)
	}()

	var body io.Reader
	if in != nil {
		buf, merr := json.Marshal(in)
		if merr != nil {
			return fmt.Errorf("encode %s body: %w", endpoint, merr)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+endpoint, body)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &UnavailableError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &UnavailableError{Endpoint: endpoint, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:     method,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if schema != "" {
		if verr := validatePayload(schema, raw); verr != nil {
			return &InvalidPayloadError{Endpoint: endpoint, Err: verr}
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &InvalidPayloadError{Endpoint: endpoint, Err: err}
	}
	return nil
}

func (c *Client) record(ctx context.Context, requestID, method, endpoint string, status int, latency time.Duration, err error) {
	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", status),
		zap.Duration("latency", latency),
	}
	if err != nil {
		c.log.Warn("backend request failed", append(fields, zap.Error(err))...)
	} else {
		c.log.Debug("backend request", fields...)
	}

	if c.journal == nil {
		return
	}
	data := store.APIRequestEventData{
		SessionID:  c.sessionID,
		RequestID:  requestID,
		Method:     method,
		Endpoint:   endpoint,
		StatusCode: status,
		LatencyMs:  latency.Milliseconds(),
		Success:    err == nil,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}
	// The journal write must outlive a cancelled request context.
	if jerr := c.journal.AppendAPIRequest(context.WithoutCancel(ctx), data); jerr != nil {
		c.log.Warn("journal append failed", zap.Error(jerr))
	}
}
