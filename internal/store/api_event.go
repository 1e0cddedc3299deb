package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendAPIRequest(ctx context.Context, data APIRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO api_request_events
		(sequence, timestamp, session_id, request_id, method, endpoint,
		 status_code, latency_ms, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, formatTime(time.Now()), data.SessionID, data.RequestID, data.Method, data.Endpoint,
		data.StatusCode, data.LatencyMs, data.Success, data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save API request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAPIEvents(ctx context.Context, opts QueryOpts) ([]APIRequestEvent, error) {
	where, args := opts.clauses()
	rows, err := r.db.QueryContext(ctx, `SELECT id, sequence, timestamp, session_id, request_id,
		method, endpoint, status_code, latency_ms, success, error_message
		FROM api_request_events`+where+` ORDER BY sequence DESC`+opts.limit(), args...)
	if err != nil {
		return nil, fmt.Errorf("query API events: %w", err)
	}
	defer rows.Close()

	var events []APIRequestEvent
	for rows.Next() {
		var (
			e  APIRequestEvent
			ts string
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.SessionID, &e.RequestID,
			&e.Method, &e.Endpoint, &e.StatusCode, &e.LatencyMs, &e.Success,
			&e.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan API event: %w", err)
		}
		e.Timestamp = parseTime(ts)
		events = append(events, e)
	}
	return events, rows.Err()
}
