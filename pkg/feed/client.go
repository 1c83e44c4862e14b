package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"github.com/zeromicro/go-zero/core/logx"
)

const (
	DefaultBaseURL = "https://api.cryptowat.ch"

	defaultHTTPTimeout = 10 * time.Second
	defaultMaxRetries  = 3
	defaultRetryBase   = 250 * time.Millisecond
	defaultOpenTimeout = 30 * time.Second
	maxErrorBody       = 512
	maxResponseBody    = 32 << 20

	pairsPath     = "/pairs"
	summariesPath = "/markets/summaries"
	apiKeyHeader  = "X-CW-API-Key"
)

// RequestObserver receives the outcome of every upstream call, retries included.
type RequestObserver interface {
	ObserveRequest(path string, err error, elapsed time.Duration)
}

// Client reads pairs and 24h market summaries from the upstream API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
	retryBase  time.Duration
	breaker    *gobreaker.CircuitBreaker
	observer   RequestObserver
}

// Option configures a new Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithHTTPTimeout bounds every single HTTP round trip.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout, Transport: c.httpClient.Transport}
		}
	}
}

// WithBaseURL overrides the API root.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithAPIKey sends the key with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithMaxRetries adjusts the retry budget for transient failures.
func WithMaxRetries(max int) Option {
	return func(c *Client) {
		if max >= 0 {
			c.maxRetries = max
		}
	}
}

// WithRetryBase sets the first backoff delay.
func WithRetryBase(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.retryBase = d
		}
	}
}

// WithBreaker opens the circuit after failures consecutive failed calls and
// lets a trial request through after openTimeout.
func WithBreaker(failures uint32, openTimeout time.Duration) Option {
	return func(c *Client) {
		if failures == 0 {
			c.breaker = nil
			return
		}
		if openTimeout <= 0 {
			openTimeout = defaultOpenTimeout
		}
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "feed",
			Timeout: openTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logx.Infow("feed: circuit breaker state changed",
					logx.Field("breaker", name),
					logx.Field("from", from.String()),
					logx.Field("to", to.String()))
			},
		})
	}
}

// WithObserver reports request outcomes to o.
func WithObserver(o RequestObserver) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// NewClient constructs an upstream client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		maxRetries: defaultMaxRetries,
		retryBase:  defaultRetryBase,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Pairs lists every trading pair known upstream.
func (c *Client) Pairs(ctx context.Context) ([]Pair, error) {
	var payload pairsResponse
	if err := c.get(ctx, pairsPath, &payload); err != nil {
		return nil, err
	}
	if payload.Result == nil {
		return nil, malformed(pairsPath, errors.New("missing result"))
	}
	return payload.Result, nil
}

// Summaries returns the 24h summary of every market.
func (c *Client) Summaries(ctx context.Context) (*SummariesResponse, error) {
	var payload SummariesResponse
	if err := c.get(ctx, summariesPath, &payload); err != nil {
		return nil, err
	}
	if payload.Result == nil {
		return nil, malformed(summariesPath, errors.New("missing result"))
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryBase
	policy.MaxInterval = 16 * c.retryBase
	policy.MaxElapsedTime = 0
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.maxRetries)), ctx)

	return backoff.RetryNotify(func() error {
		start := time.Now()
		err := c.guarded(path, func() error { return c.fetch(ctx, path, out) })
		if c.observer != nil {
			c.observer.ObserveRequest(path, err, time.Since(start))
		}
		return err
	}, retry, func(err error, wait time.Duration) {
		logx.WithContext(ctx).Infof("feed: %s failed, retrying in %s: %v", path, wait, err)
	})
}

func (c *Client) guarded(path string, fn func() error) error {
	if c.breaker == nil {
		return fn()
	}
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return backoff.Permanent(fmt.Errorf("feed: %s: %w", path, err))
	}
	return err
}

// fetch performs one GET. Errors wrapped in backoff.Permanent are not retried.
func (c *Client) fetch(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("feed: build request %s: %w", path, err))
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return fmt.Errorf("feed: %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("feed: read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{Path: path, Code: resp.StatusCode, Body: truncate(string(body), maxErrorBody)}
		if statusErr.Retryable() {
			return statusErr
		}
		return backoff.Permanent(statusErr)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return backoff.Permanent(malformed(path, err))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
