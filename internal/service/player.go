package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/fluentview/fluentview-client/internal/api"
	"github.com/fluentview/fluentview-client/internal/domain"
)

// sampleInterval is how often the tracker reads the playback position.
const sampleInterval = time.Second

// PlaybackSource is the capability the external playback widget exposes to
// the tracker. The tracker only consumes an observed position and play/pause
// control; decoding and rendering stay outside.
type PlaybackSource interface {
	// Position returns the current playback position in seconds, or 0 when
	// the source has no readable position.
	Position() float64
	Play()
	Pause()
	Playing() bool
}

// PlayerState is the tracker's state machine.
type PlayerState int

// Tracker states. Ready/Playing/Paused transitions are driven by explicit
// user play/pause actions through the playback widget.
const (
	PlayerLoading PlayerState = iota
	PlayerReady
	PlayerPlaying
	PlayerPaused
	PlayerFinished
	PlayerFailed
)

// String returns the state name for logs.
func (s PlayerState) String() string {
	switch s {
	case PlayerLoading:
		return "loading"
	case PlayerReady:
		return "ready"
	case PlayerPlaying:
		return "playing"
	case PlayerPaused:
		return "paused"
	case PlayerFinished:
		return "finished"
	case PlayerFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PlayerService creates watch sessions: it resolves a video's playable source
// and tracks the furthest observed playback position until the user finishes.
type PlayerService struct {
	api      *api.Client
	progress *ProgressService
	clock    clockwork.Clock
	logger   *slog.Logger
}

// NewPlayerService creates a new player service.
func NewPlayerService(api *api.Client, progress *ProgressService, clock clockwork.Clock, logger *slog.Logger) *PlayerService {
	return &PlayerService{
		api:      api,
		progress: progress,
		clock:    clock,
		logger:   logger,
	}
}

// Session is one mounted player. It samples the attached playback source once
// per second and keeps the maximum observed position; a backward seek never
// reduces the recorded watch time and replayed sections are not double
// counted.
type Session struct {
	svc *PlayerService

	mu     sync.Mutex
	video  domain.Video
	watch  *domain.WatchSession
	state  PlayerState
	source PlaybackSource

	streamURL string
	cancel    context.CancelFunc
	done      chan struct{}
}

// Start fetches the video's metadata and begins a session in the Ready state.
// If the metadata fetch fails the session never starts and no sampling runs.
func (p *PlayerService) Start(ctx context.Context, token, videoID string) (*Session, error) {
	video, err := p.api.GetVideo(ctx, token, videoID)
	if err != nil {
		return nil, fmt.Errorf("fetch video %s: %w", videoID, err)
	}

	s := &Session{
		svc:       p,
		video:     video,
		watch:     domain.NewWatchSession(video.ID, video.Title, p.clock.Now()),
		state:     PlayerReady,
		streamURL: video.PlayableURL(),
		done:      make(chan struct{}),
	}

	sampleCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	go s.sampleLoop(sampleCtx)

	p.logger.Debug("watch session started",
		"video_id", video.ID,
		"title", video.Title,
		"stream_url", s.streamURL,
	)

	return s, nil
}

// sampleLoop polls the playback source until the session ends.
func (s *Session) sampleLoop(ctx context.Context) {
	defer close(s.done)

	ticker := s.svc.clock.NewTicker(sampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.mu.Lock()
			if s.source != nil && s.state != PlayerFinished {
				s.watch.Observe(s.source.Position())
			}
			s.mu.Unlock()
		}
	}
}

// Attach binds the external playback widget to the session.
func (s *Session) Attach(source PlaybackSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = source
}

// TogglePlayback flips between Playing and Paused via the attached widget.
// A no-op without an attached source or after Finish.
func (s *Session) TogglePlayback() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == nil || s.state == PlayerFinished || s.state == PlayerFailed {
		return
	}

	if s.source.Playing() {
		s.source.Pause()
		s.state = PlayerPaused
	} else {
		s.source.Play()
		s.state = PlayerPlaying
	}
}

// State returns the current tracker state.
func (s *Session) State() PlayerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Video returns the session's video metadata.
func (s *Session) Video() domain.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.video
}

// StreamURL returns the resolved playable URL, empty when the video has no
// usable source.
func (s *Session) StreamURL() string {
	return s.streamURL
}

// WatchedSeconds returns the furthest observed position so far.
func (s *Session) WatchedSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watch.WatchedSeconds()
}

// Finish ends the session and submits the watched time to the progress
// service. It always completes; a failed submission is logged but never
// blocks navigation away from the player. Returns whether time was logged.
func (s *Session) Finish(ctx context.Context, token string) bool {
	s.mu.Lock()
	if s.state == PlayerFinished {
		s.mu.Unlock()
		return false
	}
	s.state = PlayerFinished
	title := s.watch.Title
	watched := s.watch.WatchedSeconds()
	s.mu.Unlock()

	s.cancel()
	<-s.done

	logged, err := s.svc.progress.LogWatchSession(ctx, token, title, watched)
	if err != nil {
		s.svc.logger.Warn("failed to log watch session on finish",
			"title", title,
			"watched_seconds", watched,
			"error", err,
		)
	}
	return logged
}
