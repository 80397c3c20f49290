package neows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/neo-impact-service/internal/config"
	"github.com/couchcryptid/neo-impact-service/internal/domain"
	"github.com/couchcryptid/neo-impact-service/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

// maxResponseBytes caps the feed body. A full seven-day window is well under 1 MiB.
const maxResponseBytes = 10 << 20

// Exponential backoff between attempts: start at 200ms, double each retry, cap at 2s.
const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 2 * time.Second
)

// ErrMalformedFeed reports a feed response that cannot be mapped to asteroid records.
var ErrMalformedFeed = errors.New("malformed NEO feed")

// Client implements domain.AsteroidFeed using the NASA NeoWs feed API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	windowDays int
	maxRetries int
	// fetchBudget bounds a whole fetch, every attempt and backoff included.
	fetchBudget time.Duration
	metrics     *observability.Metrics
	logger      *slog.Logger
}

// NewClient creates a NeoWs feed client from the service configuration.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: cfg.NEOAPIKey,
		httpClient: &http.Client{
			Timeout: cfg.NEOFeedTimeout,
		},
		baseURL:     cfg.NEOFeedURL,
		windowDays:  cfg.NEOFeedWindowDays,
		maxRetries:  cfg.NEOFeedMaxRetries,
		fetchBudget: config.MaxFeedFetchDuration,
		metrics:     metrics,
		logger:      logger,
	}
}

// FetchAsteroids returns every near-Earth object in the feed window starting
// today, ordered by approach date.
func (c *Client) FetchAsteroids(ctx context.Context) ([]domain.AsteroidRecord, error) {
	window := domain.FeedWindow(c.windowDays)

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse feed URL: %w", err)
	}
	params := u.Query()
	params.Set("start_date", window.StartDate())
	params.Set("end_date", window.EndDate())
	params.Set("api_key", c.apiKey)
	u.RawQuery = params.Encode()

	if c.fetchBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.fetchBudget)
		defer cancel()
	}

	start := time.Now()
	records, err := c.fetch(ctx, u)
	c.metrics.FeedDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	c.metrics.FeedRequests.WithLabelValues("success").Inc()
	c.metrics.FeedRecords.Observe(float64(len(records)))
	c.logger.Debug("neo feed fetched",
		"start_date", window.StartDate(),
		"end_date", window.EndDate(),
		"records", len(records),
	)
	return records, nil
}

func (c *Client) fetch(ctx context.Context, u *url.URL) ([]domain.AsteroidRecord, error) {
	body, err := c.getWithRetry(ctx, u)
	if err != nil {
		return nil, err
	}

	var resp feedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrMalformedFeed, err)
	}
	return resp.records()
}

// getWithRetry issues the GET, retrying transient failures with exponential
// backoff until maxRetries is exhausted or ctx is done.
func (c *Client) getWithRetry(ctx context.Context, u *url.URL) ([]byte, error) {
	backoff := initialBackoff
	for attempt := 0; ; attempt++ {
		body, err := c.doRequest(ctx, u)
		if err == nil {
			return body, nil
		}
		if attempt >= c.maxRetries || !isRetryable(err) || ctx.Err() != nil {
			return nil, err
		}

		c.logger.Warn("neo feed request failed, retrying",
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"backoff", backoff,
			"error", err,
		)
		c.metrics.FeedRetries.Inc()
		if !retry.SleepWithContext(ctx, backoff) {
			return nil, fmt.Errorf("neo feed retry aborted: %w", ctx.Err())
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
}

func (c *Client) doRequest(ctx context.Context, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("neo feed request: %w", redactURL(err, u))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &statusError{code: resp.StatusCode, body: string(body)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if len(body) > maxResponseBytes {
		return nil, fmt.Errorf("%w: response exceeds %d byte limit", ErrMalformedFeed, maxResponseBytes)
	}
	return body, nil
}

// redactURL strips the API key from the URL embedded in transport errors,
// since those messages end up in client-facing error responses.
func redactURL(err error, u *url.URL) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	redacted := *u
	params := redacted.Query()
	if params.Has("api_key") {
		params.Set("api_key", "REDACTED")
	}
	redacted.RawQuery = params.Encode()
	urlErr.URL = redacted.String()
	return err
}

// statusError is a non-200 response from the feed.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("neo feed API error: status %d: %s", e.code, e.body)
}

// isRetryable reports whether a failed request may succeed on a later attempt:
// transport errors, 429, and 5xx responses.
func isRetryable(err error) bool {
	if errors.Is(err, ErrMalformedFeed) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return true
}
