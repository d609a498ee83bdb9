package domain

import (
	"time"

	"github.com/google/uuid"
)

// WatchSession is one continuous viewing interval from player mount to
// explicit finish. Ephemeral; never persisted.
type WatchSession struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	Title     string    `json:"title"`
	StartedAt time.Time `json:"started_at"`

	// ObservedPositionSeconds is the furthest playback position sampled
	// during the session. Monotonically non-decreasing: seeking backward
	// never reduces it, re-watching a section never inflates it.
	ObservedPositionSeconds float64 `json:"observed_position_seconds"`
}

// NewWatchSession creates a session for a mounted player.
func NewWatchSession(videoID, title string, startedAt time.Time) *WatchSession {
	return &WatchSession{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		Title:     title,
		StartedAt: startedAt,
	}
}

// Observe records a sampled playback position, keeping the maximum.
func (s *WatchSession) Observe(positionSeconds float64) {
	if positionSeconds > s.ObservedPositionSeconds {
		s.ObservedPositionSeconds = positionSeconds
	}
}

// WatchedSeconds is the whole-second watch time to report when the session ends.
func (s *WatchSession) WatchedSeconds() int {
	return int(s.ObservedPositionSeconds)
}

// Loggable reports whether the session is long enough to be worth logging.
func (s *WatchSession) Loggable() bool {
	return s.WatchedSeconds() >= MinLoggableSeconds
}
