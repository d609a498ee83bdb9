package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/jonboulle/clockwork"

	"github.com/fluentview/fluentview-client/internal/api"
	"github.com/fluentview/fluentview-client/internal/config"
	"github.com/fluentview/fluentview-client/internal/domain"
	"github.com/fluentview/fluentview-client/internal/store"
)

// CatalogService serves the video and series catalogs through the local cache
// envelopes. A fresh envelope is served without touching the network; a stale
// or absent one triggers a refetch that replaces the cache. The two catalogs
// have independent envelopes.
type CatalogService struct {
	store  *store.Store
	api    *api.Client
	clock  clockwork.Clock
	maxAge time.Duration
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store *store.Store, api *api.Client, clock clockwork.Clock, cfg config.CatalogConfig, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:  store,
		api:    api,
		clock:  clock,
		maxAge: cfg.CacheMaxAge,
		logger: logger,
	}
}

// Videos returns the watchable video catalog, served from cache when fresh.
// When the remote fetch fails but a stale cache exists, the stale copy is
// served with a warning instead of an error.
func (c *CatalogService) Videos(ctx context.Context, token string) ([]domain.Video, error) {
	cached, cacheErr := c.store.GetVideoCache(ctx)
	if cacheErr == nil && !cached.Expired(c.clock.Now(), c.maxAge) {
		c.logger.Debug("serving videos from cache", "count", len(cached.Payload))
		return cached.Payload, nil
	}

	videos, err := c.api.GetVideos(ctx, token)
	if err != nil {
		if cacheErr == nil {
			c.logger.Warn("video refetch failed, serving stale cache", "error", err)
			return cached.Payload, nil
		}
		return nil, fmt.Errorf("fetch videos: %w", err)
	}

	videos = normalizeVideos(videos)

	env := domain.NewCacheEnvelope(videos, c.clock.Now())
	if err := c.store.SetVideoCache(ctx, env); err != nil {
		// Serving the fetched data matters more than caching it.
		c.logger.Warn("failed to cache videos", "error", err)
	}

	c.logger.Debug("video catalog refreshed", "count", len(videos))
	return videos, nil
}

// Series returns the series catalog with the same envelope logic as Videos.
func (c *CatalogService) Series(ctx context.Context, token string) ([]domain.Series, error) {
	cached, cacheErr := c.store.GetSeriesCache(ctx)
	if cacheErr == nil && !cached.Expired(c.clock.Now(), c.maxAge) {
		c.logger.Debug("serving series from cache", "count", len(cached.Payload))
		return cached.Payload, nil
	}

	series, err := c.api.GetSeries(ctx, token)
	if err != nil {
		if cacheErr == nil {
			c.logger.Warn("series refetch failed, serving stale cache", "error", err)
			return cached.Payload, nil
		}
		return nil, fmt.Errorf("fetch series: %w", err)
	}

	env := domain.NewCacheEnvelope(series, c.clock.Now())
	if err := c.store.SetSeriesCache(ctx, env); err != nil {
		c.logger.Warn("failed to cache series", "error", err)
	}

	c.logger.Debug("series catalog refreshed", "count", len(series))
	return series, nil
}

// Video returns a single video's metadata. Not cached: the player needs
// current stream URLs.
func (c *CatalogService) Video(ctx context.Context, token, videoID string) (domain.Video, error) {
	return c.api.GetVideo(ctx, token, videoID)
}

// ClearCache drops both catalog envelopes.
func (c *CatalogService) ClearCache(ctx context.Context) error {
	return c.store.ClearCatalogCaches(ctx)
}

// normalizeVideos drops entries the account cannot watch and tidies titles.
func normalizeVideos(videos []domain.Video) []domain.Video {
	out := make([]domain.Video, 0, len(videos))
	for _, v := range videos {
		if !v.Watchable() {
			continue
		}
		v.Title = formatTitle(v.Title)
		out = append(out, v)
	}
	return out
}

// formatTitle trims whitespace and upper-cases the first letter.
func formatTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return title
	}
	runes := []rune(title)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Sort orders for FilterVideos.
const (
	SortNone   = "none"
	SortRandom = "random"
	SortNew    = "new"
	SortOld    = "old"
	SortEasy   = "easy"
	SortHard   = "hard"
	SortLong   = "long"
	SortShort  = "short"
)

// FilterOptions selects and orders a video listing.
type FilterOptions struct {
	// Levels keeps only videos whose level (case-insensitive) is listed.
	// Empty means all levels.
	Levels []string
	Sort   string
}

// FilterVideos applies level filtering and sorting to a catalog slice.
// Pure: the input is never mutated.
func FilterVideos(videos []domain.Video, opts FilterOptions) []domain.Video {
	filtered := make([]domain.Video, 0, len(videos))

	if len(opts.Levels) == 0 {
		filtered = append(filtered, videos...)
	} else {
		levels := make(map[string]bool, len(opts.Levels))
		for _, l := range opts.Levels {
			levels[strings.ToLower(l)] = true
		}
		for _, v := range videos {
			if v.Level != "" && levels[strings.ToLower(v.Level)] {
				filtered = append(filtered, v)
			}
		}
	}

	switch opts.Sort {
	case SortRandom:
		rand.Shuffle(len(filtered), func(i, j int) {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		})
	case SortNew:
		slices.SortFunc(filtered, func(a, b domain.Video) int {
			return strings.Compare(b.PublishedAt, a.PublishedAt)
		})
	case SortOld:
		slices.SortFunc(filtered, func(a, b domain.Video) int {
			return strings.Compare(a.PublishedAt, b.PublishedAt)
		})
	case SortEasy:
		slices.SortFunc(filtered, func(a, b domain.Video) int {
			return cmpFloat(a.DifficultyScore, b.DifficultyScore)
		})
	case SortHard:
		slices.SortFunc(filtered, func(a, b domain.Video) int {
			return cmpFloat(b.DifficultyScore, a.DifficultyScore)
		})
	case SortLong:
		slices.SortFunc(filtered, func(a, b domain.Video) int {
			return b.Duration - a.Duration
		})
	case SortShort:
		slices.SortFunc(filtered, func(a, b domain.Video) int {
			return a.Duration - b.Duration
		})
	}

	return filtered
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
