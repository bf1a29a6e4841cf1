package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Optional is a nested JSON object that may be missing or arrive in the wrong
// shape. null, "", [] and {} decode as absent. Any other non-object is also
// absent and leaves a Warning. Decoding never fails the enclosing record.
type Optional[T any] struct {
	Value   *T
	Warning string
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] { return Optional[T]{Value: &v} }

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	*o = Optional[T]{}
	kind, empty := jsonKind(b)
	switch {
	case empty:
	case kind != "object":
		o.Warning = "expected object, got " + kind
	default:
		v := new(T)
		if err := json.Unmarshal(b, v); err != nil {
			o.Warning = "ignored: " + err.Error()
			return nil
		}
		o.Value = v
	}
	return nil
}

// List is a nested JSON array of records with the same tolerance as Optional.
// Elements that do not decode are dropped, each with a warning.
type List[T any] struct {
	Items    []T
	Warnings []string
}

// ListOf returns a List holding items.
func ListOf[T any](items ...T) List[T] { return List[T]{Items: items} }

func (l *List[T]) UnmarshalJSON(b []byte) error {
	*l = List[T]{}
	kind, empty := jsonKind(b)
	if empty {
		return nil
	}
	if kind != "array" {
		l.Warnings = []string{"expected array, got " + kind}
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(b, &elems); err != nil {
		l.Warnings = []string{"ignored: " + err.Error()}
		return nil
	}
	for i, raw := range elems {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			l.Warnings = append(l.Warnings, fmt.Sprintf("element %d ignored: %v", i, err))
			continue
		}
		l.Items = append(l.Items, v)
	}
	return nil
}

// jsonKind names the JSON type of a valid value b and reports whether it is
// empty: null, a blank string, [] or {}.
func jsonKind(b []byte) (kind string, empty bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return "null", true
	}
	switch b[0] {
	case 'n':
		return "null", true
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "string", false
		}
		return "string", strings.TrimSpace(s) == ""
	case '[':
		return "array", len(bytes.TrimSpace(b[1:len(b)-1])) == 0
	case '{':
		return "object", len(bytes.TrimSpace(b[1:len(b)-1])) == 0
	case 't', 'f':
		return "boolean", false
	default:
		return "number", false
	}
}
