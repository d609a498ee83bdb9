// Package api provides the HTTP client for the backend REST API.
// All endpoints except newEphemeralAccount are bearer-authenticated.
package api

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fluentview/fluentview-client/internal/config"
	domainerrors "github.com/fluentview/fluentview-client/internal/errors"
)

const defaultTimeout = 10 * time.Second

// API paths.
const (
	pathNewEphemeralAccount = "/newEphemeralAccount"
	pathRegister            = "/register"
	pathVerify              = "/verify"
	pathUser                = "/user"
	pathDayWatchedTime      = "/dayWatchedTime"
	pathExternalTime        = "/externalTime"
	pathVideos              = "/videos"
	pathVideo               = "/video"
	pathSeries              = "/series"
)

// Client is the backend API client.
type Client struct {
	http    *http.Client
	baseURL string
	logger  *slog.Logger
}

// New creates a new API client.
func New(cfg config.APIConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		logger:  logger,
	}
}

// doRequest executes a request and decodes the JSON response into out
// (when out is non-nil). An empty token sends no Authorization header.
func (c *Client) doRequest(ctx context.Context, method, path, token string, query url.Values, payload, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("api request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return domainerrors.Wrapf(err, domainerrors.CodeUnavailable, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domainerrors.Wrapf(err, domainerrors.CodeUnavailable, "read response for %s", path)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return domainerrors.ErrUnauthorized.WithMessage("request unauthorized")
	case resp.StatusCode == http.StatusNotFound:
		return domainerrors.NotFoundf("%s not found", path)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return domainerrors.Unavailablef("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response for %s: %w", path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path, token string, query url.Values, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, token, query, nil, out)
}

func (c *Client) post(ctx context.Context, path, token string, payload, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, token, nil, payload, out)
}
