// Package powcast is the HTTP client for the grid-data provider. It maps the
// provider's loose response conventions (empty bodies, 404-as-no-data, mixed
// payload casings) onto a strict fetch result: payload, no-data, or failure.
package powcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"urja-assistant/internal/common/config"
	"urja-assistant/internal/common/httpclient"
	"urja-assistant/internal/common/logger"
)

// ErrFetchFailed covers network errors, non-2xx statuses other than the
// no-data set, and undecodable non-empty bodies.
var ErrFetchFailed = errors.New("FETCH_FAILED")

const maxBodyBytes = 4 << 20

type Client struct {
	baseURL string
	http    *httpclient.Client
	log     logger.Logger
}

func NewClient(cfg config.PowcastConfig, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpclient.NewClient(cfg.HTTPTimeout()),
		log:     log.With(map[string]interface{}{"component": "powcast-client"}),
	}
}

// Get fetches path with query params. It returns (payload, noData, err):
// noData is true for 204/404/410, empty-ish bodies and empty JSON
// collections; err wraps ErrFetchFailed for everything unrecoverable.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, bool, error) {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	c.log.Debug("GET", map[string]interface{}{"url": u})
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusNotFound, http.StatusGone:
		return nil, true, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, false, fmt.Errorf("%w: status %d for %s", ErrFetchFailed, resp.StatusCode, path)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, false, fmt.Errorf("%w: read body: %v", ErrFetchFailed, err)
	}
	if looksEmpty(string(body)) {
		return nil, true, nil
	}

	var probe interface{}
	if err := json.Unmarshal(body, &probe); err != nil {
		c.log.Error("undecodable 2xx body", map[string]interface{}{
			"path":    path,
			"preview": preview(string(body)),
		})
		return nil, false, fmt.Errorf("%w: invalid json for %s", ErrFetchFailed, path)
	}
	switch v := probe.(type) {
	case nil:
		return nil, true, nil
	case []interface{}:
		if len(v) == 0 {
			return nil, true, nil
		}
	case map[string]interface{}:
		if len(v) == 0 {
			return nil, true, nil
		}
	}

	return json.RawMessage(body), false, nil
}

func looksEmpty(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "[]", "{}", "null", "none":
		return true
	}
	return false
}

func preview(s string) string {
	if len(s) > 200 {
		return s[:200]
	}
	return s
}
