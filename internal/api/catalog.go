package api

import (
	"context"
	"net/url"

	"github.com/fluentview/fluentview-client/internal/domain"
)

type videosResponse struct {
	Videos []domain.Video `json:"videos"`
}

type videoResponse struct {
	Video domain.Video `json:"video"`
}

type seriesResponse struct {
	Series []domain.Series `json:"series"`
}

// GetVideos returns the full video catalog.
func (c *Client) GetVideos(ctx context.Context, token string) ([]domain.Video, error) {
	var resp videosResponse
	if err := c.get(ctx, pathVideos, token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Videos, nil
}

// GetVideo returns a single video's metadata, including its stream sources.
func (c *Client) GetVideo(ctx context.Context, token, videoID string) (domain.Video, error) {
	query := url.Values{"id": {videoID}}

	var resp videoResponse
	if err := c.get(ctx, pathVideo, token, query, &resp); err != nil {
		return domain.Video{}, err
	}
	return resp.Video, nil
}

// GetSeries returns the series catalog.
func (c *Client) GetSeries(ctx context.Context, token string) ([]domain.Series, error) {
	var resp seriesResponse
	if err := c.get(ctx, pathSeries, token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Series, nil
}
