package domain

import "time"

// CacheEnvelope pairs a cached remote payload with its fetch timestamp.
// Used for the video and series catalogs; unrelated to the progress state's
// own day-boundary logic, which is a calendar test rather than a rolling
// window.
type CacheEnvelope[T any] struct {
	Payload T `json:"payload"`
	// FetchedAt is epoch milliseconds of the fetch that produced Payload.
	FetchedAt int64 `json:"fetched_at"`
}

// NewCacheEnvelope wraps a payload fetched at the given instant.
func NewCacheEnvelope[T any](payload T, fetchedAt time.Time) CacheEnvelope[T] {
	return CacheEnvelope[T]{
		Payload:   payload,
		FetchedAt: fetchedAt.UnixMilli(),
	}
}

// Expired reports whether the envelope is older than maxAge at the given
// instant. A zero timestamp (never fetched) is always expired.
func (e CacheEnvelope[T]) Expired(now time.Time, maxAge time.Duration) bool {
	if e.FetchedAt == 0 {
		return true
	}
	return now.UnixMilli()-e.FetchedAt > maxAge.Milliseconds()
}
