package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// OrdersKey is the key of the wrapped list in object-shaped responses.
const OrdersKey = "orders"

// ErrExhausted signals the conventional end of pagination: an empty page or a 404.
// It is a normal stop, not a failure.
var ErrExhausted = errors.New("no more pages")

// Source defines the interface all order page sources must implement.
type Source interface {
	// FetchPage returns page number n (1-based). It returns an error wrapping
	// ErrExhausted when the source signals there is nothing at or after n.
	FetchPage(ctx context.Context, n int) (Page, error)
}

// Page is one non-empty response, ready to archive.
type Page struct {
	Number int
	Body   json.RawMessage // response body as received, surrounding whitespace trimmed
	Orders int             // number of orders in the list, 0 for object bodies without one
}

// ConnectorConfig holds provider-specific connection settings.
type ConnectorConfig struct {
	Provider   string
	APIKey     string
	Endpoint   string
	Shop       string
	Include    string
	Dir        string
	Timeout    time.Duration
	MaxRetries int
}

// ShapeError reports a response body that is valid transport but not a page.
type ShapeError struct {
	Page   int
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("page %d: unexpected response shape: %s", e.Page, e.Reason)
}

// Classify decides what a response body means for pagination. It accepts either
// {"orders": [...]} or a bare list. Empty lists, empty objects, null and empty
// bodies end pagination; scalars and invalid JSON are shape errors.
func Classify(n int, body []byte) (Page, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Page{}, fmt.Errorf("%w: page %d has no data", ErrExhausted, n)
	}
	if !json.Valid(trimmed) {
		return Page{}, &ShapeError{Page: n, Reason: "invalid JSON"}
	}

	switch trimmed[0] {
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return Page{}, &ShapeError{Page: n, Reason: err.Error()}
		}
		raw, ok := obj[OrdersKey]
		if !ok {
			if len(obj) == 0 {
				return Page{}, fmt.Errorf("%w: page %d is an empty object", ErrExhausted, n)
			}
			return Page{Number: n, Body: trimmed}, nil
		}
		var orders []json.RawMessage
		if err := json.Unmarshal(raw, &orders); err != nil {
			return Page{}, &ShapeError{Page: n, Reason: "orders is not a list"}
		}
		if len(orders) == 0 {
			return Page{}, fmt.Errorf("%w: page %d has no orders", ErrExhausted, n)
		}
		return Page{Number: n, Body: trimmed, Orders: len(orders)}, nil

	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return Page{}, &ShapeError{Page: n, Reason: err.Error()}
		}
		if len(list) == 0 {
			return Page{}, fmt.Errorf("%w: page %d is an empty list", ErrExhausted, n)
		}
		return Page{Number: n, Body: trimmed, Orders: len(list)}, nil

	default:
		return Page{}, &ShapeError{Page: n, Reason: "top-level value is not an object or list"}
	}
}
