// Package multi fans reject reports out to several sinks.
package multi

import (
	"context"
	"errors"
	"fmt"

	"github.com/crimson-sun/orderflow/internal/model"
	"github.com/crimson-sun/orderflow/internal/output"
)

// defaultMaxFailures is how many consecutive write errors disable a sink.
const defaultMaxFailures = 5

type sink struct {
	out      output.Output
	failures int // consecutive
	disabled bool
}

// Multi writes every reject to each sink in order. A failing sink does not
// stop delivery to the others. A sink that fails maxFailures writes in a row
// is skipped for the rest of the run but still closed.
type Multi struct {
	sinks       []*sink
	maxFailures int
}

// New creates a Multi over outputs, ignoring nil ones. With no outputs it
// discards everything.
func New(outputs ...output.Output) *Multi {
	m := &Multi{maxFailures: defaultMaxFailures}
	for _, o := range outputs {
		if o != nil {
			m.sinks = append(m.sinks, &sink{out: o})
		}
	}
	return m
}

func (m *Multi) Write(ctx context.Context, r model.Reject) error {
	var errs []error
	for i, s := range m.sinks {
		if s.disabled {
			continue
		}
		if err := s.out.Write(ctx, r); err != nil {
			s.failures++
			if m.maxFailures > 0 && s.failures >= m.maxFailures {
				s.disabled = true
				err = fmt.Errorf("%w (disabled after %d failures)", err, s.failures)
			}
			errs = append(errs, fmt.Errorf("reject sink %d: %w", i, err))
			continue
		}
		s.failures = 0
	}
	return errors.Join(errs...)
}

// Active returns the number of sinks still receiving rejects.
func (m *Multi) Active() int {
	n := 0
	for _, s := range m.sinks {
		if !s.disabled {
			n++
		}
	}
	return n
}

// Close closes every sink, disabled ones included, collecting errors.
func (m *Multi) Close() error {
	var errs []error
	for i, s := range m.sinks {
		if err := s.out.Close(); err != nil {
			errs = append(errs, fmt.Errorf("reject sink %d: close: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
