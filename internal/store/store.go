package store

//go:generate mockgen -source=store.go -destination=mock/store_mock.go -package=mock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/crimson-sun/orderflow/internal/model"
)

var (
	// ErrTableNotFound is returned when a table is absent from the catalog.
	ErrTableNotFound = errors.New("table not found")
	// ErrMissingKeyColumn is returned when the target table lacks the conflict key column.
	ErrMissingKeyColumn = errors.New("key column missing")
	// ErrRejectedValue is returned when the database refuses a single row's value
	// (bad timestamp text, numeric overflow). The row can be skipped; the store is healthy.
	ErrRejectedValue = errors.New("value rejected")
)

// PageWriter appends raw pages. Raw storage is append-only with no uniqueness,
// so writing the same page twice is allowed.
type PageWriter interface {
	// EnsureRawTable creates the raw schema and table when missing.
	EnsureRawTable(ctx context.Context) error
	// InsertPage stores one page in its own committed transaction.
	InsertPage(ctx context.Context, data json.RawMessage) (model.RawPage, error)
}

// PageReader scans the raw store.
type PageReader interface {
	// ScanPages calls fn for every raw page in ascending id order. An error
	// from fn stops the scan and is returned.
	ScanPages(ctx context.Context, fn func(model.RawPage) error) error
}

// RowWriter writes flattened rows into the structured store.
type RowWriter interface {
	// Columns lists the table's columns in catalog order.
	Columns(ctx context.Context, table Table) ([]Column, error)
	// InsertRow inserts one row unless a row with the same key exists.
	// It reports whether a row was written.
	InsertRow(ctx context.Context, ins Insert, values []any) (bool, error)
}

// Table is a schema-qualified table name.
type Table struct {
	Schema string
	Name   string
}

// ParseTable reads "schema.table" or "table" (schema public).
func ParseTable(s string) (Table, error) {
	s = strings.TrimSpace(s)
	schema, name, ok := strings.Cut(s, ".")
	if !ok {
		schema, name = "public", s
	}
	if schema == "" || name == "" || strings.Contains(name, ".") {
		return Table{}, fmt.Errorf("store: invalid table name %q", s)
	}
	return Table{Schema: schema, Name: name}, nil
}

func (t Table) String() string {
	return t.Schema + "." + t.Name
}

// Column is one entry of the destination table's catalog.
type Column struct {
	Name     string
	DataType string
	Position int
	Nullable bool
}

// Insert describes an insert-if-absent statement: values are bound to Columns
// in order, and a conflict on KeyColumn is a no-op.
type Insert struct {
	Table     Table
	KeyColumn string
	Columns   []string
}
