package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/crimson-sun/orderflow/internal/model"
	"github.com/crimson-sun/orderflow/internal/output"
)

// Output writes JSON-encoded rejects to stdout, one per line.
type Output struct {
	enc       *json.Encoder
	verbosity output.Verbosity
}

// New creates a stdout Output with verbosity-aware field omission
// and optional pretty-printed JSON.
func New(verbosity output.Verbosity, pretty bool) *Output {
	return NewWriter(os.Stdout, verbosity, pretty)
}

// NewWriter is New writing to w.
func NewWriter(w io.Writer, verbosity output.Verbosity, pretty bool) *Output {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &Output{enc: enc, verbosity: verbosity}
}

func (o *Output) Write(_ context.Context, r model.Reject) error {
	if err := o.enc.Encode(output.FormatReject(r, o.verbosity)); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
