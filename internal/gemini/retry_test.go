package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func fastRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts: attempts,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetry_SingleAttemptByDefault(t *testing.T) {
	mock := NewMockClient(MockResponse{Err: &ErrServiceUnavailable{Err: errors.New("down")}})
	client := WithRetry(mock, fastRetryConfig(1))

	_, err := client.Generate(context.Background(), Request{Prompt: "hi"})
	var unavail *ErrServiceUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("one attempt means no retry, got %d calls", mock.CallCount())
	}
}

func TestRetry_TransientErrorRetried(t *testing.T) {
	mock := NewMockClient(
		MockResponse{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}},
		MockResponse{Err: &ErrServiceUnavailable{Err: errors.New("503")}},
		MockResponse{Content: json.RawMessage(`{"ok":true}`)},
	)
	client := WithRetry(mock, fastRetryConfig(3))

	resp, err := client.Generate(context.Background(), Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Errorf("unexpected content: %s", resp.Content)
	}
	if mock.CallCount() != 3 {
		t.Errorf("expected 3 attempts, got %d", mock.CallCount())
	}
}

func TestRetry_ExhaustedReturnsLastError(t *testing.T) {
	mock := NewMockClient(
		MockResponse{Err: &ErrServiceUnavailable{Err: errors.New("first")}},
		MockResponse{Err: &ErrServiceUnavailable{Err: errors.New("second")}},
	)
	client := WithRetry(mock, fastRetryConfig(2))

	_, err := client.Generate(context.Background(), Request{Prompt: "hi"})
	var unavail *ErrServiceUnavailable
	if !errors.As(err, &unavail) || unavail.Err.Error() != "second" {
		t.Errorf("expected the last error, got %v", err)
	}
	if mock.CallCount() != 2 {
		t.Errorf("expected 2 attempts, got %d", mock.CallCount())
	}
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	mock := NewMockClient(
		MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad json")}},
		MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad json again")}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	client := WithRetry(mock, fastRetryConfig(5))

	_, err := client.Generate(context.Background(), Request{Prompt: "hi"})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
	if mock.CallCount() != 2 {
		t.Errorf("invalid responses get exactly one retry, got %d calls", mock.CallCount())
	}
}

func TestRetry_MaxTokensNotRetried(t *testing.T) {
	mock := NewMockClient(MockResponse{Err: &ErrMaxTokensExceeded{}})
	client := WithRetry(mock, fastRetryConfig(3))

	_, err := client.Generate(context.Background(), Request{Prompt: "hi"})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("max tokens is not transient, got %d calls", mock.CallCount())
	}
}

func TestRetry_ContextCancelNotRetried(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := NewMockClient(MockResponse{Err: ctx.Err()})
	client := WithRetry(mock, fastRetryConfig(3))

	_, err := client.Generate(ctx, Request{Prompt: "hi"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("cancellation must not be retried, got %d calls", mock.CallCount())
	}
}

func TestRetry_PassthroughOperations(t *testing.T) {
	mock := NewMockClient()
	client := WithRetry(mock, fastRetryConfig(3))

	if err := client.DeleteFile(context.Background(), "files/mock-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.DeletedFiles) != 1 {
		t.Error("DeleteFile should pass through to the wrapped client")
	}
	if client.ModelID() != "mock" {
		t.Errorf("ModelID should pass through, got %q", client.ModelID())
	}
}
