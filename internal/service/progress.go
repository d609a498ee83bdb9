package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/fluentview/fluentview-client/internal/api"
	"github.com/fluentview/fluentview-client/internal/domain"
	domainerrors "github.com/fluentview/fluentview-client/internal/errors"
	"github.com/fluentview/fluentview-client/internal/id"
	"github.com/fluentview/fluentview-client/internal/store"
)

// logDescriptionSuffix tags entries this client writes into the shared
// external-time log.
const logDescriptionSuffix = " -- Logged by FluentView"

// ProgressService owns the canonical in-process progress state and reconciles
// it between the local store and the remote API. One instance per process;
// the session tracker, dashboard, and progress screen all go through it, and
// it is the sole writer of the progress keys in the store.
type ProgressService struct {
	store  *store.Store
	api    *api.Client
	clock  clockwork.Clock
	logger *slog.Logger

	mu    sync.Mutex
	state domain.ProgressState

	// Reconcile sequencing: results of an older in-flight reconcile must not
	// overwrite a newer one that happened to finish first.
	reconcileSeq     uint64
	reconcileApplied uint64
}

// NewProgressService creates a new progress service.
func NewProgressService(store *store.Store, api *api.Client, clock clockwork.Clock, logger *slog.Logger) *ProgressService {
	return &ProgressService{
		store:  store,
		api:    api,
		clock:  clock,
		logger: logger,
	}
}

// State returns a snapshot of the current progress state.
func (s *ProgressService) State() domain.ProgressState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Initialize loads persisted progress, applies the day-boundary policy, and
// dispatches a background reconcile. The cache-adoption step (including the
// immediate re-persist on a day rollover) completes before Initialize
// returns; the reconcile resolves later and may finish after first render.
//
// With an empty token the client is logged out: a zero-value state is
// returned and no remote call is made.
func (s *ProgressService) Initialize(ctx context.Context, token string) (domain.ProgressState, error) {
	today := domain.DateString(s.clock.Now())

	if token == "" {
		s.mu.Lock()
		s.state = domain.NewProgressState(today)
		state := s.state
		s.mu.Unlock()
		return state, nil
	}

	stored, err := s.store.GetProgressData(ctx)
	if err != nil {
		return domain.ProgressState{}, fmt.Errorf("load stored progress: %w", err)
	}

	state := domain.ProgressState{
		GoalMinutes:    stored.GoalMinutes,
		CurrentMinutes: stored.CurrentMinutes,
		GoalReached:    stored.GoalReached,
		DateString:     today,
	}

	if domain.ShouldReset(stored.DateString, today) {
		// New day (or first run): zero the daily counters but keep the cached
		// goal, which changes rarely. Persist at once so a crash before the
		// reconcile cannot resurrect yesterday's progress.
		state.CurrentMinutes = 0
		state.GoalReached = false

		if err := s.store.SetProgressData(ctx, store.ProgressUpdate{
			CurrentMinutes: &state.CurrentMinutes,
			GoalReached:    &state.GoalReached,
			DateString:     &today,
		}); err != nil {
			return domain.ProgressState{}, fmt.Errorf("persist day reset: %w", err)
		}

		s.logger.Info("daily progress reset", "date", today, "goal_minutes", state.GoalMinutes)
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	// Server truth arrives asynchronously; callers render the cached state
	// meanwhile. Errors surface on the state's Error field.
	go func() {
		if _, err := s.Reconcile(context.WithoutCancel(ctx), token); err != nil {
			s.logger.Warn("background reconcile failed", "error", err)
		}
	}()

	return state, nil
}

// Reconcile overwrites local progress with the server's authoritative values:
// today's watched seconds plus goal flag, and the configured daily goal. The
// two reads run in parallel. On any failure the existing in-memory and
// persisted state is left untouched and the state's Error field is set; the
// caller decides whether to retry.
func (s *ProgressService) Reconcile(ctx context.Context, token string) (domain.ProgressState, error) {
	if token == "" {
		return s.State(), domainerrors.Unauthorized("reconcile requires a credential")
	}

	now := s.clock.Now()
	today := domain.DateString(now)

	s.mu.Lock()
	s.reconcileSeq++
	seq := s.reconcileSeq
	s.state.Loading = true
	s.state.Error = nil
	s.mu.Unlock()

	var (
		day  domain.DayWatchedTime
		user domain.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		day, err = s.api.GetDayWatchedTime(gctx, token, today)
		return err
	})
	g.Go(func() error {
		var err error
		user, err = s.api.GetUser(gctx, token, domain.TimezoneOffsetHours(now))
		return err
	})

	if err := g.Wait(); err != nil {
		msg := "failed to fetch progress data"
		s.mu.Lock()
		s.state.Loading = false
		s.state.Error = &msg
		state := s.state
		s.mu.Unlock()

		s.logger.Warn("reconcile failed", "error", err)
		return state, fmt.Errorf("reconcile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.reconcileApplied {
		// A newer reconcile already landed; this result is stale.
		s.state.Loading = false
		return s.state, nil
	}
	s.reconcileApplied = seq

	s.state.CurrentMinutes = domain.SecondsToMinutes(day.TimeSeconds)
	s.state.GoalMinutes = domain.SecondsToMinutes(user.DailyGoalSeconds)
	s.state.GoalReached = day.GoalReached
	s.state.DateString = today
	s.state.Loading = false
	s.state.Error = nil

	if err := s.store.SetProgressData(ctx, store.ProgressUpdate{
		GoalMinutes:    &s.state.GoalMinutes,
		CurrentMinutes: &s.state.CurrentMinutes,
		GoalReached:    &s.state.GoalReached,
		DateString:     &today,
	}); err != nil {
		msg := "failed to persist progress data"
		s.state.Error = &msg
		return s.state, fmt.Errorf("persist reconciled progress: %w", err)
	}

	s.logger.Debug("progress reconciled",
		"date", today,
		"current_minutes", s.state.CurrentMinutes,
		"goal_minutes", s.state.GoalMinutes,
		"goal_reached", s.state.GoalReached,
	)

	return s.state, nil
}

// Refresh forces a reconcile regardless of any cached state. Bound to
// explicit user-initiated refresh actions.
func (s *ProgressService) Refresh(ctx context.Context, token string) (domain.ProgressState, error) {
	return s.Reconcile(ctx, token)
}

// LogWatchSession submits a finished watch session to the remote time log and
// optimistically folds it into local state. Sessions under the minimum
// threshold are dropped with a false return and no error.
//
// The remote submission is not idempotent: every call generates a fresh entry
// id, so a failed call must not be retried automatically. Local optimism and
// server truth may diverge until the next reconcile; that window is accepted.
func (s *ProgressService) LogWatchSession(ctx context.Context, token, title string, watchedSeconds int) (bool, error) {
	if watchedSeconds < domain.MinLoggableSeconds {
		s.logger.Debug("watch session below threshold, not logged",
			"title", title,
			"watched_seconds", watchedSeconds,
		)
		return false, nil
	}

	if token == "" {
		return false, domainerrors.Unauthorized("logging watch time requires a credential")
	}

	entryID, err := id.Generate("ext")
	if err != nil {
		return false, fmt.Errorf("generate entry id: %w", err)
	}

	entry := domain.ExternalTimeEntry{
		Date:        domain.DateString(s.clock.Now()),
		Description: title + logDescriptionSuffix,
		ID:          entryID,
		TimeSeconds: watchedSeconds,
		Type:        domain.EntryTypeWatching,
	}

	if err := s.api.LogExternalTime(ctx, token, entry); err != nil {
		msg := "failed to log watch time"
		s.mu.Lock()
		s.state.Error = &msg
		s.mu.Unlock()

		s.logger.Warn("log watch session failed", "title", title, "error", err)
		return false, fmt.Errorf("log external time: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.CurrentMinutes += domain.SecondsToMinutes(watchedSeconds)
	s.state.RecomputeGoalReached()
	s.state.Error = nil

	if err := s.store.SetProgressData(ctx, store.ProgressUpdate{
		CurrentMinutes: &s.state.CurrentMinutes,
		GoalReached:    &s.state.GoalReached,
	}); err != nil {
		return true, fmt.Errorf("persist optimistic update: %w", err)
	}

	s.logger.Info("watch session logged",
		"title", title,
		"watched_seconds", watchedSeconds,
		"current_minutes", s.state.CurrentMinutes,
		"goal_reached", s.state.GoalReached,
	)

	return true, nil
}

// ResetDailyProgress zeroes the daily counters for today and persists the
// reset. The goal is left alone.
func (s *ProgressService) ResetDailyProgress(ctx context.Context) (domain.ProgressState, error) {
	today := domain.DateString(s.clock.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.CurrentMinutes = 0
	s.state.GoalReached = false
	s.state.DateString = today

	if err := s.store.SetProgressData(ctx, store.ProgressUpdate{
		CurrentMinutes: &s.state.CurrentMinutes,
		GoalReached:    &s.state.GoalReached,
		DateString:     &today,
	}); err != nil {
		return s.state, fmt.Errorf("persist daily reset: %w", err)
	}

	return s.state, nil
}
