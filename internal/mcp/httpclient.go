package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/pplog/internal/models"
	"github.com/claude/pplog/internal/progress"
)

// HTTPClient implements DataSource by calling the PPLog REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the log lives on another machine (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) CurrentDay(ctx context.Context) (CurrentDay, error) {
	body, err := c.get(ctx, "/api/v1/program/current", nil)
	if err != nil {
		return CurrentDay{}, err
	}

	var current CurrentDay
	if err := json.Unmarshal(body, &current); err != nil {
		return CurrentDay{}, fmt.Errorf("httpclient: decode current day: %w", err)
	}
	return current, nil
}

func (c *HTTPClient) History(ctx context.Context, day string, limit int) ([]models.HistoryRecord, error) {
	params := url.Values{}
	if day != "" {
		params.Set("day", day)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.get(ctx, "/api/v1/history", params)
	if err != nil {
		return nil, err
	}

	var records []models.HistoryRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("httpclient: decode history: %w", err)
	}
	return records, nil
}

func (c *HTTPClient) Progress(ctx context.Context, day string) ([]progress.Series, error) {
	if day == "" {
		body, err := c.get(ctx, "/api/v1/progress", nil)
		if err != nil {
			return nil, err
		}
		var all []progress.Series
		if err := json.Unmarshal(body, &all); err != nil {
			return nil, fmt.Errorf("httpclient: decode progress: %w", err)
		}
		return all, nil
	}

	body, err := c.get(ctx, "/api/v1/progress/"+url.PathEscape(day), nil)
	if err != nil {
		return nil, err
	}
	var series progress.Series
	if err := json.Unmarshal(body, &series); err != nil {
		return nil, fmt.Errorf("httpclient: decode progress: %w", err)
	}
	return []progress.Series{series}, nil
}
