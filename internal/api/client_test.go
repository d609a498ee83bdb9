package api

import (
	"context"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluentview/fluentview-client/internal/config"
	"github.com/fluentview/fluentview-client/internal/domain"
	domainerrors "github.com/fluentview/fluentview-client/internal/errors"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(config.APIConfig{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	}, slog.New(slog.DiscardHandler))
}

func TestGetDayWatchedTime(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dayWatchedTime", r.URL.Path)
		assert.Equal(t, "2026-03-07", r.URL.Query().Get("date"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		w.Write([]byte(`{"dayWatchedTime":{"goalReached":false,"timeSeconds":1800}}`))
	}))

	got, err := c.GetDayWatchedTime(context.Background(), "tok", "2026-03-07")
	require.NoError(t, err)
	assert.Equal(t, domain.DayWatchedTime{GoalReached: false, TimeSeconds: 1800}, got)
}

func TestGetUser_SendsTimezoneOffset(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		assert.Equal(t, "-5", r.URL.Query().Get("timezone"))

		w.Write([]byte(`{"user":{"dailyGoalSeconds":3600}}`))
	}))

	got, err := c.GetUser(context.Background(), "tok", -5)
	require.NoError(t, err)
	assert.Equal(t, 3600, got.DailyGoalSeconds)
}

func TestLogExternalTime_PostsEntry(t *testing.T) {
	var received domain.ExternalTimeEntry
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/externalTime", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.UnmarshalRead(r.Body, &received))
		w.WriteHeader(http.StatusOK)
	}))

	entry := domain.ExternalTimeEntry{
		Date:        "2026-03-07",
		Description: "Intermediate Stories -- Logged by FluentView",
		ID:          "ext-abc123",
		TimeSeconds: 95,
		Type:        domain.EntryTypeWatching,
	}
	require.NoError(t, c.LogExternalTime(context.Background(), "tok", entry))
	assert.Equal(t, entry, received)
}

func TestGetVideos(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos", r.URL.Path)
		w.Write([]byte(`{"videos":[{"_id":"v1","title":"One","hasAccess":true},{"_id":"v2","title":"Two"}]}`))
	}))

	got, err := c.GetVideos(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "v1", got[0].ID)
	assert.True(t, got[0].HasAccess)
}

func TestGetVideo_ByID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/video", r.URL.Path)
		assert.Equal(t, "v42", r.URL.Query().Get("id"))
		w.Write([]byte(`{"video":{"_id":"v42","title":"Answer","sources":{"bunny":"https://cdn.example.com/v42"}}}`))
	}))

	got, err := c.GetVideo(context.Background(), "tok", "v42")
	require.NoError(t, err)
	assert.Equal(t, "Answer", got.Title)
	assert.Equal(t, "https://cdn.example.com/v42/playlist.m3u8", got.PlayableURL())
}

func TestGetSeries(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/series", r.URL.Path)
		w.Write([]byte(`{"series":[{"_id":"s1","title":"Cooking","numberOfEpisodes":12}]}`))
	}))

	got, err := c.GetSeries(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 12, got[0].NumberOfEpisodes)
}

func TestAuthFlow(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/newEphemeralAccount":
			assert.Empty(t, r.Header.Get("Authorization"))
			w.Write([]byte(`{"token":"temp-tok"}`))
		case "/register":
			assert.Equal(t, "Bearer temp-tok", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusOK)
		case "/verify":
			assert.Equal(t, "Bearer temp-tok", r.Header.Get("Authorization"))
			w.Write([]byte(`{"token":"durable-tok"}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	ctx := context.Background()

	temp, err := c.NewEphemeralAccount(ctx)
	require.NoError(t, err)
	assert.Equal(t, "temp-tok", temp)

	require.NoError(t, c.Register(ctx, temp, "user@example.com"))

	durable, err := c.Verify(ctx, temp, "user@example.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "durable-tok", durable)
}

func TestDoRequest_Unauthorized(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.GetVideos(context.Background(), "stale-tok")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestDoRequest_ServerError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.GetDayWatchedTime(context.Background(), "tok", "2026-03-07")
	assert.ErrorIs(t, err, domainerrors.ErrUnavailable)
}

func TestDoRequest_MalformedJSON(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"user": nonsense`))
	}))

	_, err := c.GetUser(context.Background(), "tok", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}
