package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RequestEvent is one logged Gemini API request.
type RequestEvent struct {
	ID           int64
	RunID        string
	Timestamp    time.Time
	Purpose      string
	Model        string
	PromptTokens int
	CachedTokens int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// ErrNotFound is returned when a requested event does not exist.
var ErrNotFound = errors.New("event not found")

// EventRepo records and queries request events.
type EventRepo interface {
	Append(ctx context.Context, e RequestEvent) error
	List(ctx context.Context, limit int) ([]RequestEvent, error)
	Get(ctx context.Context, id int64) (*RequestEvent, error)
}

type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) Append(ctx context.Context, e RequestEvent) error {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO request_events (
			run_id, created_at, purpose, model,
			prompt_tokens, cached_tokens, output_tokens,
			latency_ms, success, error_message, request_body, response_body
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, ts.UTC().Format(time.RFC3339Nano), e.Purpose, e.Model,
		e.PromptTokens, e.CachedTokens, e.OutputTokens,
		e.LatencyMs, boolToInt(e.Success), e.ErrorMessage, e.RequestBody, e.ResponseBody,
	)
	if err != nil {
		return fmt.Errorf("insert request event: %w", err)
	}
	return nil
}

func (r *eventRepo) List(ctx context.Context, limit int) ([]RequestEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, run_id, created_at, purpose, model,
			prompt_tokens, cached_tokens, output_tokens,
			latency_ms, success, error_message, request_body, response_body
		FROM request_events
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query request events: %w", err)
	}
	defer rows.Close()

	var events []RequestEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (r *eventRepo) Get(ctx context.Context, id int64) (*RequestEvent, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, run_id, created_at, purpose, model,
			prompt_tokens, cached_tokens, output_tokens,
			latency_ms, success, error_message, request_body, response_body
		FROM request_events
		WHERE id = ?`, id)

	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*RequestEvent, error) {
	var e RequestEvent
	var createdAt string
	var success int

	err := row.Scan(
		&e.ID, &e.RunID, &createdAt, &e.Purpose, &e.Model,
		&e.PromptTokens, &e.CachedTokens, &e.OutputTokens,
		&e.LatencyMs, &success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scan request event: %w", err)
	}

	e.Success = success != 0
	if ts, perr := time.Parse(time.RFC3339Nano, createdAt); perr == nil {
		e.Timestamp = ts
	}
	return &e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
