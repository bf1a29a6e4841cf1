// Package output defines the reject report sinks.
package output

import (
	"context"

	"github.com/crimson-sun/orderflow/internal/model"
)

// Output defines the interface for reject report destinations.
type Output interface {
	Write(ctx context.Context, r model.Reject) error
	Close() error
}
