package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strconv"

	"github.com/fluentview/fluentview-client/internal/domain"
)

// GetVideoCache loads the cached video catalog envelope.
// Returns ErrKeyNotFound when no catalog has been cached yet.
func (s *Store) GetVideoCache(ctx context.Context) (domain.CacheEnvelope[[]domain.Video], error) {
	return getEnvelope[[]domain.Video](ctx, s, KeyVideosData, KeyVideosStamp)
}

// SetVideoCache replaces the cached video catalog envelope.
func (s *Store) SetVideoCache(ctx context.Context, env domain.CacheEnvelope[[]domain.Video]) error {
	return setEnvelope(ctx, s, KeyVideosData, KeyVideosStamp, env)
}

// GetSeriesCache loads the cached series catalog envelope.
// Returns ErrKeyNotFound when no catalog has been cached yet.
func (s *Store) GetSeriesCache(ctx context.Context) (domain.CacheEnvelope[[]domain.Series], error) {
	return getEnvelope[[]domain.Series](ctx, s, KeySeriesData, KeySeriesStamp)
}

// SetSeriesCache replaces the cached series catalog envelope.
func (s *Store) SetSeriesCache(ctx context.Context, env domain.CacheEnvelope[[]domain.Series]) error {
	return setEnvelope(ctx, s, KeySeriesData, KeySeriesStamp, env)
}

// ClearCatalogCaches drops both catalog envelopes.
func (s *Store) ClearCatalogCaches(ctx context.Context) error {
	return s.DeleteAll(ctx, KeyVideosData, KeyVideosStamp, KeySeriesData, KeySeriesStamp)
}

func getEnvelope[T any](ctx context.Context, s *Store, dataKey, stampKey string) (domain.CacheEnvelope[T], error) {
	var env domain.CacheEnvelope[T]

	raw, err := s.Get(ctx, dataKey)
	if err != nil {
		return env, err
	}

	if err := json.Unmarshal([]byte(raw), &env.Payload); err != nil {
		// A corrupt payload is treated as absent; the caller refetches.
		if s.logger != nil {
			s.logger.Warn("corrupt cache payload", "key", dataKey, "error", err)
		}
		return env, ErrKeyNotFound
	}

	stamp, err := s.Get(ctx, stampKey)
	if errors.Is(err, ErrKeyNotFound) {
		// Payload without a timestamp counts as expired, not missing.
		return env, nil
	}
	if err != nil {
		return env, err
	}

	millis, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil {
		return env, nil
	}
	env.FetchedAt = millis
	return env, nil
}

func setEnvelope[T any](ctx context.Context, s *Store, dataKey, stampKey string, env domain.CacheEnvelope[T]) error {
	data, err := json.Marshal(env.Payload)
	if err != nil {
		return fmt.Errorf("marshal cache payload: %w", err)
	}

	if err := s.Set(ctx, dataKey, string(data)); err != nil {
		return fmt.Errorf("set %s: %w", dataKey, err)
	}
	if err := s.Set(ctx, stampKey, strconv.FormatInt(env.FetchedAt, 10)); err != nil {
		return fmt.Errorf("set %s: %w", stampKey, err)
	}
	return nil
}
