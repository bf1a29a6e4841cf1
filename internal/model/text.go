package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Text is a JSON scalar kept as its literal text. Strings are unquoted, numbers and
// booleans keep their exact JSON spelling, and null or an absent key leaves it unset.
type Text struct {
	Value string
	Valid bool
}

// T returns a set Text.
func T(s string) Text { return Text{Value: s, Valid: true} }

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = Text{}
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text{Value: s, Valid: true}
	case '{':
		return fmt.Errorf("expected scalar, got object")
	case '[':
		return fmt.Errorf("expected scalar, got array")
	default:
		*t = Text{Value: string(b), Valid: true}
	}
	return nil
}

// MarshalJSON writes the value as a JSON string, or null when unset.
func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Value)
}

// Present reports whether the value is set and not blank.
func (t Text) Present() bool {
	return t.Valid && strings.TrimSpace(t.Value) != ""
}

// Any returns the text as a column value: nil when unset, the string otherwise.
func (t Text) Any() any {
	if !t.Valid {
		return nil
	}
	return t.Value
}

// Truthy reports whether the value spells a boolean true ("true", "1", "yes").
func (t Text) Truthy() bool {
	if !t.Valid {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(t.Value)) {
	case "true", "1", "yes", "y":
		return true
	}
	return false
}

func (t Text) String() string { return t.Value }

// Or returns t when present, otherwise fallback.
func (t Text) Or(fallback Text) Text {
	if t.Present() {
		return t
	}
	return fallback
}
