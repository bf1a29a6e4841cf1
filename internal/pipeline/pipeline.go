// Package pipeline runs the two batch stages: the Archiver copies API pages
// into the raw store, the Transformer flattens the raw store into rows.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/crimson-sun/orderflow/internal/logging"
	"github.com/crimson-sun/orderflow/internal/metrics"
)

// Stage names used in logs, summaries and metric labels.
const (
	StageArchive   = "archive"
	StageTransform = "transform"
)

// Stop reasons reported in an archive summary.
const (
	StopExhausted = "exhausted"
	StopMaxPages  = "max_pages"
)

// common holds the ambient dependencies shared by both stages.
type common struct {
	logger  *slog.Logger
	metrics *metrics.Registry
	now     func() time.Time
	newID   func() string
}

// Option configures either stage.
type Option func(*common)

// WithLogger sets the stage logger. Default: logs are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(c *common) { c.logger = l }
}

// WithMetrics sets the registry the stage records into. Default: a private one.
func WithMetrics(m *metrics.Registry) Option {
	return func(c *common) { c.metrics = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *common) { c.now = now }
}

// WithRunID overrides the run id generator.
func WithRunID(f func() string) Option {
	return func(c *common) { c.newID = f }
}

func newCommon(opts []Option) common {
	c := common{
		logger:  logging.Discard(),
		metrics: metrics.NewRegistry(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// sleepCtx waits d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
