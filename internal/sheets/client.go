// Package sheets is the adapter over the remote spreadsheet store. All
// reads and writes in the system go through this client; there is no
// other persistence layer.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mazta/kpi-dashboard/internal"
	"github.com/mazta/kpi-dashboard/pkg/metrics"
)

type Client struct {
	httpClient    *http.Client
	baseURL       string
	spreadsheetID string
	apiKey        string
	timeout       time.Duration
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

func NewClient(cfg internal.SheetsConfig, logger *slog.Logger, m *metrics.Metrics) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient:    &http.Client{Timeout: timeout},
		baseURL:       cfg.BaseURL,
		spreadsheetID: cfg.SpreadsheetID,
		apiKey:        cfg.APIKey,
		timeout:       timeout,
		logger:        logger,
		metrics:       m,
	}
}

type valuesResponse struct {
	Range  string     `json:"range"`
	Values [][]string `json:"values"`
}

// Values fetches the raw rows of a named range. Every call is bounded by
// the configured request timeout; failures are returned, never retried.
func (c *Client) Values(ctx context.Context, rangeName string) ([][]string, error) {
	start := time.Now()

	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.valuesURL(rangeName, "", nil), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observeFetch(rangeName, start, err)
		return nil, fmt.Errorf("failed to fetch range %s: %w", rangeName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("sheet API returned status %d for range %s", resp.StatusCode, rangeName)
		c.observeFetch(rangeName, start, err)
		return nil, err
	}

	var body valuesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.observeFetch(rangeName, start, err)
		return nil, fmt.Errorf("failed to decode values response: %w", err)
	}

	c.observeFetch(rangeName, start, nil)
	return body.Values, nil
}

// Records fetches a sheet and flattens it into canonical records.
func (c *Client) Records(ctx context.Context, sheetName string) ([]Record, error) {
	values, err := c.Values(ctx, sheetName)
	if err != nil {
		return nil, err
	}
	return ParseTable(values), nil
}

// Append adds one row to the end of a range.
func (c *Client) Append(ctx context.Context, rangeName string, row []string) error {
	payload := map[string]interface{}{
		"values": [][]string{row},
	}
	params := url.Values{}
	params.Set("valueInputOption", "USER_ENTERED")
	params.Set("insertDataOption", "INSERT_ROWS")
	return c.post(ctx, c.valuesURL(rangeName, ":append", params), payload)
}

// Clear empties the cells of a range. Used to blank a metadata row in
// place; row indices of the remaining rows are unchanged.
func (c *Client) Clear(ctx context.Context, rangeName string) error {
	return c.post(ctx, c.valuesURL(rangeName, ":clear", nil), struct{}{})
}

func (c *Client) post(ctx context.Context, rawURL string, payload interface{}) error {
	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sheet write failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("sheet write rejected",
			"status", resp.StatusCode,
			"body", string(snippet))
		return fmt.Errorf("sheet API returned status %d", resp.StatusCode)
	}

	return nil
}

func (c *Client) valuesURL(rangeName, verb string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	u := fmt.Sprintf("%s/%s/values/%s%s",
		c.baseURL, c.spreadsheetID, url.PathEscape(rangeName), verb)
	if enc := params.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

func (c *Client) observeFetch(rangeName string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.ObserveSheetFetch(rangeName, time.Since(start), err)
}
