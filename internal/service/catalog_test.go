package service

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluentview/fluentview-client/internal/api"
	"github.com/fluentview/fluentview-client/internal/config"
	"github.com/fluentview/fluentview-client/internal/domain"
	"github.com/fluentview/fluentview-client/internal/store"
)

func setupCatalog(t *testing.T, backend *fakeBackend, maxAge time.Duration) (*CatalogService, *clockwork.FakeClock) {
	t.Helper()

	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	st, err := store.Open(t.TempDir(), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	client := api.New(config.APIConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, slog.New(slog.DiscardHandler))
	clock := clockwork.NewFakeClockAt(testDay)
	svc := NewCatalogService(st, client, clock, config.CatalogConfig{CacheMaxAge: maxAge}, slog.New(slog.DiscardHandler))

	return svc, clock
}

func catalogVideos() []domain.Video {
	return []domain.Video{
		{ID: "v1", Title: "  first episode ", Level: "beginner", HasAccess: true},
		{ID: "v2", Title: "members only", Private: true, HasAccess: false},
		{ID: "v3", Title: "open to all", Level: "advanced", Private: true, HasAccess: true},
	}
}

func TestVideos_FreshCacheSkipsNetwork(t *testing.T) {
	backend := &fakeBackend{videos: catalogVideos()}
	svc, _ := setupCatalog(t, backend, time.Hour)
	ctx := context.Background()

	got, err := svc.Videos(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Inaccessible private entries are dropped, titles are tidied.
	assert.Equal(t, "First episode", got[0].Title)
	assert.Equal(t, "Open to all", got[1].Title)
	assert.Equal(t, 1, backend.pathCount("/videos"))

	got, err = svc.Videos(ctx, "tok")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, backend.pathCount("/videos"))
}

func TestVideos_CacheFreshnessBoundary(t *testing.T) {
	backend := &fakeBackend{videos: catalogVideos()}
	svc, clock := setupCatalog(t, backend, time.Hour)
	ctx := context.Background()

	_, err := svc.Videos(ctx, "tok")
	require.NoError(t, err)

	// Exactly at max age the envelope is still fresh.
	clock.Advance(time.Hour)
	_, err = svc.Videos(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.pathCount("/videos"))

	// One millisecond past it is not.
	clock.Advance(time.Millisecond)
	_, err = svc.Videos(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 2, backend.pathCount("/videos"))
}

func TestVideos_StaleCacheServedOnFetchFailure(t *testing.T) {
	backend := &fakeBackend{videos: catalogVideos()}
	svc, clock := setupCatalog(t, backend, time.Hour)
	ctx := context.Background()

	_, err := svc.Videos(ctx, "tok")
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	backend.setFailCatalog(true)

	got, err := svc.Videos(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "First episode", got[0].Title)
}

func TestVideos_FetchFailureWithoutCache(t *testing.T) {
	backend := &fakeBackend{failCatalog: true}
	svc, _ := setupCatalog(t, backend, time.Hour)

	_, err := svc.Videos(context.Background(), "tok")
	require.Error(t, err)
}

func TestSeries_IndependentEnvelope(t *testing.T) {
	backend := &fakeBackend{
		videos: catalogVideos(),
		series: []domain.Series{{ID: "s1", Title: "Travel Diaries"}},
	}
	svc, _ := setupCatalog(t, backend, time.Hour)
	ctx := context.Background()

	_, err := svc.Videos(ctx, "tok")
	require.NoError(t, err)

	// A warm video cache does not satisfy a series request.
	series, err := svc.Series(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, "Travel Diaries", series[0].Title)
	assert.Equal(t, 1, backend.pathCount("/series"))

	_, err = svc.Series(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.pathCount("/series"))
}

func TestClearCache_ForcesRefetch(t *testing.T) {
	backend := &fakeBackend{videos: catalogVideos()}
	svc, _ := setupCatalog(t, backend, time.Hour)
	ctx := context.Background()

	_, err := svc.Videos(ctx, "tok")
	require.NoError(t, err)
	require.NoError(t, svc.ClearCache(ctx))

	_, err = svc.Videos(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 2, backend.pathCount("/videos"))
}

func TestFilterVideos(t *testing.T) {
	videos := []domain.Video{
		{ID: "a", Level: "Beginner", Duration: 300, DifficultyScore: 20, PublishedAt: "2026-01-15"},
		{ID: "b", Level: "intermediate", Duration: 900, DifficultyScore: 55, PublishedAt: "2026-03-01"},
		{ID: "c", Level: "beginner", Duration: 600, DifficultyScore: 35, PublishedAt: "2026-02-10"},
		{ID: "d", Duration: 120, DifficultyScore: 10, PublishedAt: "2025-12-31"},
	}

	ids := func(vs []domain.Video) []string {
		out := make([]string, len(vs))
		for i, v := range vs {
			out[i] = v.ID
		}
		return out
	}

	t.Run("level filter is case-insensitive and drops unlevelled", func(t *testing.T) {
		got := FilterVideos(videos, FilterOptions{Levels: []string{"BEGINNER"}})
		assert.Equal(t, []string{"a", "c"}, ids(got))
	})

	t.Run("no levels keeps everything", func(t *testing.T) {
		got := FilterVideos(videos, FilterOptions{})
		assert.Equal(t, []string{"a", "b", "c", "d"}, ids(got))
	})

	t.Run("sort orders", func(t *testing.T) {
		cases := []struct {
			sort string
			want []string
		}{
			{SortNew, []string{"b", "c", "a", "d"}},
			{SortOld, []string{"d", "a", "c", "b"}},
			{SortEasy, []string{"d", "a", "c", "b"}},
			{SortHard, []string{"b", "c", "a", "d"}},
			{SortLong, []string{"b", "c", "a", "d"}},
			{SortShort, []string{"d", "a", "c", "b"}},
		}
		for _, tc := range cases {
			got := FilterVideos(videos, FilterOptions{Sort: tc.sort})
			assert.Equal(t, tc.want, ids(got), "sort %s", tc.sort)
		}
	})

	t.Run("random keeps the same set", func(t *testing.T) {
		got := FilterVideos(videos, FilterOptions{Sort: SortRandom})
		assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, ids(got))
	})

	t.Run("input is not mutated", func(t *testing.T) {
		_ = FilterVideos(videos, FilterOptions{Sort: SortShort})
		assert.Equal(t, []string{"a", "b", "c", "d"}, ids(videos))
	})
}
