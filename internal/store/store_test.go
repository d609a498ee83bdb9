package store

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(t.TempDir(), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetSet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "v"))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestGet_AbsentKey(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestDelete_AbsentKeyIsNoError(t *testing.T) {
	s := setupTestStore(t)
	assert.NoError(t, s.Delete(context.Background(), "missing"))
}

func TestSet_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyCurrentMinutes, "45"))
	require.NoError(t, s.Close())

	s, err = Open(dir, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, KeyCurrentMinutes)
	require.NoError(t, err)
	assert.Equal(t, "45", got)
}

func TestKeys(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeyToken, "tok"))
	require.NoError(t, s.Set(ctx, KeyDateString, "2026-03-07"))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{KeyToken, KeyDateString}, keys)
}

func TestGet_CancelledContext(t *testing.T) {
	s := setupTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
