package output

import (
	"fmt"

	"github.com/crimson-sun/orderflow/internal/model"
)

// Verbosity controls how much of a reject is reported.
type Verbosity int

const (
	// Minimal drops the raw record.
	Minimal Verbosity = iota
	// Full keeps every field.
	Full
)

// ParseVerbosity reads "minimal" or "full".
func ParseVerbosity(s string) (Verbosity, error) {
	switch s {
	case "minimal":
		return Minimal, nil
	case "full", "":
		return Full, nil
	default:
		return Full, fmt.Errorf("unknown verbosity %q", s)
	}
}

// FormatReject returns a copy of r with fields stripped according to verbosity.
// At Minimal, Raw is dropped (omitted from JSON via omitempty).
func FormatReject(r model.Reject, v Verbosity) model.Reject {
	if v == Minimal {
		r.Raw = nil
	}
	return r
}
