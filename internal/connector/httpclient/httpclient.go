// Package httpclient is the JSON GET client behind the orders source.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultMaxBody = 64 << 20
	maxBackoff     = 30 * time.Second
	errBodyLimit   = 512
)

// ErrBodyTooLarge is returned when a response exceeds the configured body limit.
var ErrBodyTooLarge = errors.New("httpclient: response body too large")

// Client sends authenticated GET requests against one base URL.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	maxRetries int
	maxBody    int64
	httpClient *http.Client
	now        func() time.Time
}

// APIError represents a non-2xx HTTP response.
type APIError struct {
	StatusCode int
	Body       string // truncated
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed if sent again.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsNotFound reports whether err is an *APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Option configures Client behavior.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithMaxRetries sets how many times a 429 or 5xx response is retried.
// 0 disables retries. Default: 3.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithMaxBody caps the bytes read from one response. n <= 0 keeps the default.
func WithMaxBody(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client with Bearer auth and a base URL.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		token:      token,
		userAgent:  "orderflow",
		maxRetries: 3,
		maxBody:    defaultMaxBody,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get sends a GET request and returns the response body unmodified.
// Non-2xx responses are *APIError. 429 and 5xx are retried up to the
// configured limit, honouring Retry-After and otherwise backing off 1s, 2s, 4s...
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var apiErr *APIError
	for attempt := 0; ; attempt++ {
		body, err := c.do(ctx, target)
		if err == nil {
			return body, nil
		}
		if !errors.As(err, &apiErr) || !apiErr.Retryable() || attempt >= c.maxRetries {
			return nil, err
		}

		t := time.NewTimer(backoffDelay(attempt+1, apiErr))
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

// do performs a single attempt.
func (c *Client) do(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, c.maxBody)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	if len(body) > errBodyLimit {
		body = body[:errBodyLimit]
	}
	return nil, &APIError{
		StatusCode: resp.StatusCode,
		Body:       string(body),
		RetryAfter: retryAfter(resp.Header.Get("Retry-After"), c.now()),
	}
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP date.
// It returns -1 when the header is absent or unusable.
func retryAfter(v string, now time.Time) time.Duration {
	if v == "" {
		return -1
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
		return 0
	}
	return -1
}

// backoffDelay returns the wait before retry number attempt (1-based).
func backoffDelay(attempt int, lastErr *APIError) time.Duration {
	if lastErr != nil && lastErr.StatusCode == http.StatusTooManyRequests && lastErr.RetryAfter >= 0 {
		return min(lastErr.RetryAfter, maxBackoff)
	}
	return min(time.Duration(1<<(attempt-1))*time.Second, maxBackoff)
}
