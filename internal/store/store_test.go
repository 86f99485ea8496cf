package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleEvent(runID, purpose string) RequestEvent {
	return RequestEvent{
		RunID:        runID,
		Purpose:      purpose,
		Model:        "gemini-2.5-pro",
		PromptTokens: 1200,
		CachedTokens: 900,
		OutputTokens: 300,
		LatencyMs:    2500,
		Success:      true,
		RequestBody:  "[user]\nGenerate questions",
		ResponseBody: `{"categories":[]}`,
	}
}

func TestAppendAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, sampleEvent("run-1", "question-gen")))

	events, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)

	got, err := repo.Get(ctx, events[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, "question-gen", got.Purpose)
	assert.Equal(t, "gemini-2.5-pro", got.Model)
	assert.Equal(t, 1200, got.PromptTokens)
	assert.Equal(t, 900, got.CachedTokens)
	assert.True(t, got.Success)
	assert.Equal(t, `{"categories":[]}`, got.ResponseBody)
	assert.WithinDuration(t, time.Now(), got.Timestamp, time.Minute)
}

func TestList_NewestFirst(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, purpose := range []string{"question-gen", "question-validate", "question-gen"} {
		require.NoError(t, repo.Append(ctx, sampleEvent("run-1", purpose)))
	}

	events, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "question-gen", events[0].Purpose)
	assert.Equal(t, "question-validate", events[1].Purpose)
	assert.Greater(t, events[0].ID, events[1].ID)
}

func TestList_Limit(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Append(ctx, sampleEvent("run-1", "question-gen")))
	}

	events, err := repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestGet_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.EventRepo().Get(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppend_FailureEvent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	e := sampleEvent("run-2", "question-validate")
	e.Success = false
	e.ErrorMessage = "Gemini service unavailable"
	require.NoError(t, repo.Append(ctx, e))

	events, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Success)
	assert.Equal(t, "Gemini service unavailable", events[0].ErrorMessage)
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.EventRepo().Append(ctx, sampleEvent("run-1", "question-gen")))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	events, err := s.EventRepo().List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
