package mapping

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/crimson-sun/orderflow/internal/model"
)

// ErrNotNumeric is returned for monetary or quantity text that is not a decimal
// once thousands separators are removed.
var ErrNotNumeric = errors.New("not a number")

// CleanNumeric normalizes a numeric source value into the text bound to the
// column. JSON numbers keep their literal spelling; strings are trimmed and
// stripped of ',' separators. The text is validated, never rounded.
func CleanNumeric(t model.Text) (any, error) {
	if !t.Valid {
		return nil, nil
	}
	s := strings.ReplaceAll(strings.TrimSpace(t.Value), ",", "")
	if s == "" {
		return nil, nil
	}
	if _, err := decimal.NewFromString(s); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotNumeric, t.Value)
	}
	return s, nil
}
