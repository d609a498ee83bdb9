package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/fluentview/fluentview-client/internal/domain"
)

type dayWatchedTimeResponse struct {
	DayWatchedTime domain.DayWatchedTime `json:"dayWatchedTime"`
}

type userResponse struct {
	User domain.User `json:"user"`
}

// GetDayWatchedTime returns the server's accumulated watch time for the given
// local calendar day (YYYY-MM-DD).
func (c *Client) GetDayWatchedTime(ctx context.Context, token, date string) (domain.DayWatchedTime, error) {
	query := url.Values{"date": {date}}

	var resp dayWatchedTimeResponse
	if err := c.get(ctx, pathDayWatchedTime, token, query, &resp); err != nil {
		return domain.DayWatchedTime{}, err
	}
	return resp.DayWatchedTime, nil
}

// GetUser returns the user profile, including the configured daily goal.
// The timezone offset in whole hours selects the server's notion of "today".
func (c *Client) GetUser(ctx context.Context, token string, timezoneOffsetHours int) (domain.User, error) {
	query := url.Values{"timezone": {strconv.Itoa(timezoneOffsetHours)}}

	var resp userResponse
	if err := c.get(ctx, pathUser, token, query, &resp); err != nil {
		return domain.User{}, err
	}
	return resp.User, nil
}

// LogExternalTime appends one watch-time entry to the server's log.
// Fire-and-forget: no response body is consumed. Not idempotent; each entry
// id is fresh, so a blind retry double-counts.
func (c *Client) LogExternalTime(ctx context.Context, token string, entry domain.ExternalTimeEntry) error {
	return c.post(ctx, pathExternalTime, token, entry, nil)
}
