package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/crimson-sun/orderflow/internal/model"
	"github.com/crimson-sun/orderflow/internal/output"
)

const (
	defaultBatchSize = 50
	defaultTimeout   = 10 * time.Second
	defaultRetries   = 3
)

// Option configures a webhook Output.
type Option func(*Output)

// WithHeaders sets custom HTTP headers sent with every POST.
func WithHeaders(h map[string]string) Option {
	return func(o *Output) { o.headers = h }
}

// WithBatchSize sets the number of rejects accumulated before a POST. Default: 50.
func WithBatchSize(n int) Option {
	return func(o *Output) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithTimeout sets the HTTP client timeout. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return func(o *Output) { o.client.Timeout = d }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Output) { o.client = c }
}

// WithRetries sets how many times a 5xx response is retried. Default: 3.
func WithRetries(n int) Option {
	return func(o *Output) { o.retries = n }
}

// withBackoff overrides the retry delay; tests use it to avoid sleeping.
func withBackoff(f func(attempt int) time.Duration) Option {
	return func(o *Output) { o.backoff = f }
}

// Output POSTs batches of rejects to an HTTP endpoint as a JSON array. The
// batch is sent when it reaches batchSize and on Close. Writes happen on the
// caller's goroutine; the transformer is single-threaded.
type Output struct {
	client    *http.Client
	url       string
	headers   map[string]string
	batchSize int
	retries   int
	verbosity output.Verbosity
	backoff   func(attempt int) time.Duration
	pending   []model.Reject
}

// New creates a webhook output targeting url.
func New(url string, verbosity output.Verbosity, opts ...Option) *Output {
	o := &Output{
		client:    &http.Client{Timeout: defaultTimeout},
		url:       url,
		batchSize: defaultBatchSize,
		retries:   defaultRetries,
		verbosity: verbosity,
		backoff: func(attempt int) time.Duration {
			return time.Duration(1<<(attempt-1)) * time.Second
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Output) Write(ctx context.Context, r model.Reject) error {
	o.pending = append(o.pending, output.FormatReject(r, o.verbosity))
	if len(o.pending) >= o.batchSize {
		return o.flush(ctx)
	}
	return nil
}

// Close sends any pending rejects.
func (o *Output) Close() error {
	return o.flush(context.Background())
}

func (o *Output) flush(ctx context.Context) error {
	if len(o.pending) == 0 {
		return nil
	}
	batch := o.pending
	o.pending = nil

	body, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("webhook output: marshal: %w", err)
	}
	if err := o.post(ctx, body); err != nil {
		return fmt.Errorf("webhook output: %d rejects: %w", len(batch), err)
	}
	return nil
}

func (o *Output) post(ctx context.Context, body []byte) error {
	var lastErr error
	for attempt := 0; attempt <= o.retries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(o.backoff(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range o.headers {
			req.Header.Set(k, v)
		}

		resp, err := o.client.Do(req)
		if err != nil {
			return err
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		lastErr = fmt.Errorf("HTTP %d", resp.StatusCode)
		if resp.StatusCode < 500 {
			return lastErr
		}
	}
	return lastErr
}
