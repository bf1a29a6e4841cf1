// Package mapping holds the versioned tables that map destination column
// names to extraction functions over an order line.
package mapping

import (
	"fmt"
	"sort"

	"github.com/crimson-sun/orderflow/internal/engine/flags"
	"github.com/crimson-sun/orderflow/internal/model"
)

// KeyColumn is the destination column holding the composite key.
const KeyColumn = "unique_order_key"

// Extractor produces the value bound to one column. A non-nil error nulls the
// column and is reported; the row is still written.
type Extractor func(l model.OrderLine) (any, error)

// Column is one mapping entry.
type Column struct {
	Name    string
	Extract Extractor
}

// Mapping is an ordered, versioned set of columns.
type Mapping struct {
	Version   string
	KeyColumn string
	Columns   []Column

	byName map[string]int
}

func newMapping(version string, cols ...Column) *Mapping {
	m := &Mapping{Version: version, KeyColumn: KeyColumn, Columns: cols, byName: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := m.byName[c.Name]; dup {
			panic(fmt.Sprintf("mapping %s: duplicate column %q", version, c.Name))
		}
		m.byName[c.Name] = i
	}
	return m
}

// Lookup returns the entry for a column name.
func (m *Mapping) Lookup(name string) (Column, bool) {
	i, ok := m.byName[name]
	if !ok {
		return Column{}, false
	}
	return m.Columns[i], true
}

var registry = map[string]*Mapping{
	"v1": v1(),
	"v2": v2(),
}

// Get returns the mapping registered under version.
func Get(version string) (*Mapping, error) {
	m, ok := registry[version]
	if !ok {
		return nil, fmt.Errorf("unknown mapping version %q (available: %v)", version, Versions())
	}
	return m, nil
}

// Versions returns the registered versions sorted.
func Versions() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func text(name string, f func(model.OrderLine) model.Text) Column {
	return Column{Name: name, Extract: func(l model.OrderLine) (any, error) {
		return f(l).Any(), nil
	}}
}

func numeric(name string, f func(model.OrderLine) model.Text) Column {
	return Column{Name: name, Extract: func(l model.OrderLine) (any, error) {
		return CleanNumeric(f(l))
	}}
}

func flag(name string, f func(flags.Flags) bool) Column {
	return Column{Name: name, Extract: func(l model.OrderLine) (any, error) {
		return f(flags.Derive(l.Order)), nil
	}}
}

func key() Column {
	return Column{Name: KeyColumn, Extract: func(l model.OrderLine) (any, error) {
		return l.Key(), nil
	}}
}

func order(f func(*model.Order) model.Text) func(model.OrderLine) model.Text {
	return func(l model.OrderLine) model.Text { return f(l.Order) }
}

func item(f func(*model.LineItem) model.Text) func(model.OrderLine) model.Text {
	return func(l model.OrderLine) model.Text { return f(l.Item) }
}

func customer(f func(*model.Customer) model.Text) func(model.OrderLine) model.Text {
	return func(l model.OrderLine) model.Text { return model.Field(l.Order.Customer.Value, f) }
}

func billing(f func(*model.Address) model.Text) func(model.OrderLine) model.Text {
	return func(l model.OrderLine) model.Text { return model.Field(l.Order.BillingAddress.Value, f) }
}

func shipping(f func(*model.Address) model.Text) func(model.OrderLine) model.Text {
	return func(l model.OrderLine) model.Text { return model.Field(l.Order.ShippingAddress.Value, f) }
}

func transaction(f func(*model.Transaction) model.Text) func(model.OrderLine) model.Text {
	return func(l model.OrderLine) model.Text { return model.Field(l.Order.FirstTransaction(), f) }
}

// transactionID is the first transaction id, or the order id when the order
// carries no transactions.
func transactionID(l model.OrderLine) model.Text {
	return model.Field(l.Order.FirstTransaction(), func(t *model.Transaction) model.Text { return t.ID }).Or(l.Order.ID)
}

func orderStatus(l model.OrderLine) model.Text { return l.Order.EffectiveStatus() }

func orderID(l model.OrderLine) model.Text { return l.Order.ID }

// email prefers the order email, then the customer's.
func email(l model.OrderLine) model.Text {
	return l.Order.Email.Or(model.Field(l.Order.Customer.Value, func(c *model.Customer) model.Text { return c.Email }))
}
