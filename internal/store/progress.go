package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/fluentview/fluentview-client/internal/domain"
)

// ProgressData is the persisted snapshot of daily progress. Absent or
// unparseable values read back as defaults, never as errors.
type ProgressData struct {
	GoalMinutes    int
	CurrentMinutes int
	GoalReached    bool
	// DateString is empty when no progress has ever been persisted.
	DateString string
}

// ProgressUpdate is a partial write of progress fields. Nil fields are left
// untouched.
type ProgressUpdate struct {
	GoalMinutes    *int
	CurrentMinutes *int
	GoalReached    *bool
	DateString     *string
}

// GetToken returns the persisted bearer token. ErrKeyNotFound means logged out.
func (s *Store) GetToken(ctx context.Context) (string, error) {
	return s.Get(ctx, KeyToken)
}

// SetToken persists the bearer token.
func (s *Store) SetToken(ctx context.Context, token string) error {
	return s.Set(ctx, KeyToken, token)
}

// DeleteToken removes the bearer token.
func (s *Store) DeleteToken(ctx context.Context) error {
	return s.Delete(ctx, KeyToken)
}

// GetProgressData reads the four progress keys, substituting defaults for
// absent or invalid entries.
func (s *Store) GetProgressData(ctx context.Context) (ProgressData, error) {
	data := ProgressData{
		GoalMinutes:    domain.DefaultGoalMinutes,
		CurrentMinutes: 0,
		GoalReached:    false,
	}

	goal, err := s.getInt(ctx, KeyGoalMinutes)
	if err != nil {
		return ProgressData{}, fmt.Errorf("get goal minutes: %w", err)
	}
	if goal != nil {
		data.GoalMinutes = *goal
	}

	current, err := s.getInt(ctx, KeyCurrentMinutes)
	if err != nil {
		return ProgressData{}, fmt.Errorf("get current minutes: %w", err)
	}
	if current != nil {
		data.CurrentMinutes = *current
	}

	reached, err := s.Get(ctx, KeyGoalReached)
	switch {
	case errors.Is(err, ErrKeyNotFound):
		// Default stands.
	case err != nil:
		return ProgressData{}, fmt.Errorf("get goal reached: %w", err)
	default:
		data.GoalReached = reached == "true"
	}

	date, err := s.Get(ctx, KeyDateString)
	switch {
	case errors.Is(err, ErrKeyNotFound):
		// First run; empty date triggers the reset path.
	case err != nil:
		return ProgressData{}, fmt.Errorf("get date string: %w", err)
	default:
		data.DateString = date
	}

	return data, nil
}

// SetProgressData writes the non-nil fields of the update.
func (s *Store) SetProgressData(ctx context.Context, update ProgressUpdate) error {
	if update.GoalMinutes != nil {
		if err := s.Set(ctx, KeyGoalMinutes, strconv.Itoa(*update.GoalMinutes)); err != nil {
			return fmt.Errorf("set goal minutes: %w", err)
		}
	}
	if update.CurrentMinutes != nil {
		if err := s.Set(ctx, KeyCurrentMinutes, strconv.Itoa(*update.CurrentMinutes)); err != nil {
			return fmt.Errorf("set current minutes: %w", err)
		}
	}
	if update.GoalReached != nil {
		if err := s.Set(ctx, KeyGoalReached, strconv.FormatBool(*update.GoalReached)); err != nil {
			return fmt.Errorf("set goal reached: %w", err)
		}
	}
	if update.DateString != nil {
		if err := s.Set(ctx, KeyDateString, *update.DateString); err != nil {
			return fmt.Errorf("set date string: %w", err)
		}
	}
	return nil
}

// ClearAll wipes everything the client persists: token, progress, and caches.
// Used on logout.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.DeleteAll(ctx,
		KeyToken,
		KeyGoalMinutes,
		KeyCurrentMinutes,
		KeyGoalReached,
		KeyDateString,
		KeyVideosData,
		KeyVideosStamp,
		KeySeriesData,
		KeySeriesStamp,
	)
}

// getInt reads a decimal-string key. Nil pointer means absent or invalid.
func (s *Store) getInt(ctx context.Context, key string) (*int, error) {
	value, err := s.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		// A corrupt entry reads as absent; the next write repairs it.
		if s.logger != nil {
			s.logger.Warn("invalid stored integer", "key", key, "value", value)
		}
		return nil, nil
	}
	return &n, nil
}
