// Package engine flattens archived order pages into destination rows.
package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/crimson-sun/orderflow/internal/connector"
	"github.com/crimson-sun/orderflow/internal/engine/mapping"
	"github.com/crimson-sun/orderflow/internal/model"
	"github.com/crimson-sun/orderflow/internal/store"
)

// Stage is the reject stage name set by the engine.
const Stage = "transform"

// Engine turns raw pages into one row per (order, line item) pair using a
// single mapping version.
type Engine struct {
	mapping *mapping.Mapping
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used to stamp rejects.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine for m.
func New(m *mapping.Mapping, opts ...Option) *Engine {
	e := &Engine{mapping: m, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Mapping returns the engine's mapping.
func (e *Engine) Mapping() *mapping.Mapping { return e.mapping }

// Plan binds the mapping to the destination table's discovered columns.
type Plan struct {
	Insert store.Insert
	// Unmapped are table columns with no mapping entry; they are left null.
	Unmapped []string
	// Unused are mapping entries the table does not have.
	Unused []string

	columns []mapping.Column
}

// Plan intersects the discovered columns with the mapping, keeping catalog
// order. The table must have the mapping's key column.
func (e *Engine) Plan(table store.Table, cols []store.Column) (*Plan, error) {
	p := &Plan{Insert: store.Insert{Table: table, KeyColumn: e.mapping.KeyColumn}}
	inTable := make(map[string]bool, len(cols))
	for _, c := range cols {
		inTable[c.Name] = true
		mc, ok := e.mapping.Lookup(c.Name)
		if !ok {
			p.Unmapped = append(p.Unmapped, c.Name)
			continue
		}
		p.columns = append(p.columns, mc)
		p.Insert.Columns = append(p.Insert.Columns, c.Name)
	}
	if !inTable[e.mapping.KeyColumn] {
		return nil, fmt.Errorf("engine plan: %w: %s has no %q column", store.ErrMissingKeyColumn, table, e.mapping.KeyColumn)
	}
	for _, mc := range e.mapping.Columns {
		if !inTable[mc.Name] {
			p.Unused = append(p.Unused, mc.Name)
		}
	}
	return p, nil
}

// Row is one flattened (order, line item) pair ready for insertion. Values are
// bound to Plan.Insert.Columns in order.
type Row struct {
	RawID      int64
	OrderIndex int
	OrderID    string
	ItemID     string
	Key        string
	Values     []any
}

// Result is the outcome of processing one raw page.
type Result struct {
	Orders  int
	Rows    []Row
	Rejects []model.Reject
}

// Process flattens one raw page. Malformed orders and items are rejected
// individually; they never fail the page.
func (e *Engine) Process(page model.RawPage, plan *Plan) Result {
	var res Result

	orders, err := splitOrders(page.Data)
	if err != nil {
		res.Rejects = append(res.Rejects, e.reject(model.Reject{
			Level:      model.LevelPage,
			RawID:      page.ID,
			OrderIndex: -1,
			Reason:     err.Error(),
		}))
		return res
	}

	for i, raw := range orders {
		var o model.Order
		if err := json.Unmarshal(raw, &o); err != nil {
			res.Rejects = append(res.Rejects, e.reject(model.Reject{
				Level: model.LevelOrder, RawID: page.ID, OrderIndex: i,
				Reason: "decode order: " + err.Error(), Raw: raw,
			}))
			continue
		}
		if !o.ID.Present() {
			res.Rejects = append(res.Rejects, e.reject(model.Reject{
				Level: model.LevelOrder, RawID: page.ID, OrderIndex: i,
				Reason: "order has no id", Raw: raw,
			}))
			continue
		}
		res.Orders++
		for _, w := range o.ShapeWarnings() {
			res.Rejects = append(res.Rejects, e.reject(model.Reject{
				Level: model.LevelField, RawID: page.ID, OrderIndex: i, OrderID: o.ID.Value,
				Column: w.Field, Reason: w.Field + ": " + w.Reason,
			}))
		}

		for _, rawItem := range o.LineItems.Items {
			base := model.Reject{
				RawID: page.ID, OrderIndex: i, OrderID: o.ID.Value, Raw: rawItem,
			}
			var it model.LineItem
			if err := json.Unmarshal(rawItem, &it); err != nil {
				base.Level, base.Reason = model.LevelItem, "decode line item: "+err.Error()
				res.Rejects = append(res.Rejects, e.reject(base))
				continue
			}
			if !it.ID.Present() {
				base.Level, base.Reason = model.LevelItem, "line item has no id"
				res.Rejects = append(res.Rejects, e.reject(base))
				continue
			}

			row, fieldRejects, err := e.build(plan, model.OrderLine{Order: &o, Item: &it})
			base.ItemID = it.ID.Value
			for _, fr := range fieldRejects {
				r := base
				r.Level, r.Column, r.Reason, r.Raw = model.LevelField, fr.column, fr.err.Error(), nil
				res.Rejects = append(res.Rejects, e.reject(r))
			}
			if err != nil {
				base.Level, base.Reason = model.LevelItem, err.Error()
				res.Rejects = append(res.Rejects, e.reject(base))
				continue
			}
			row.RawID, row.OrderIndex = page.ID, i
			res.Rows = append(res.Rows, row)
		}
	}
	return res
}

type fieldError struct {
	column string
	err    error
}

func (e *Engine) build(plan *Plan, l model.OrderLine) (row Row, rejects []fieldError, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("build row: %v", r)
		}
	}()

	row = Row{
		OrderID: l.Order.ID.Value,
		ItemID:  l.Item.ID.Value,
		Key:     l.Key(),
		Values:  make([]any, len(plan.columns)),
	}
	for i, c := range plan.columns {
		v, ferr := c.Extract(l)
		if ferr != nil {
			rejects = append(rejects, fieldError{column: c.Name, err: ferr})
			v = nil
		}
		row.Values[i] = v
	}
	return row, rejects, nil
}

func (e *Engine) reject(r model.Reject) model.Reject {
	r.Stage = Stage
	r.At = e.now()
	return r
}

// splitOrders extracts the order list from a page stored either as
// {"orders": [...]} or as a bare list. A null list is an empty page.
func splitOrders(data json.RawMessage) ([]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty page")
	}

	var list json.RawMessage
	switch data[0] {
	case '[':
		list = data
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("decode page: %w", err)
		}
		v, ok := obj[connector.OrdersKey]
		if !ok {
			return nil, fmt.Errorf("page has no %q list", connector.OrdersKey)
		}
		list = v
	default:
		return nil, fmt.Errorf("page is neither an object nor a list")
	}

	var orders []json.RawMessage
	if err := json.Unmarshal(list, &orders); err != nil {
		return nil, fmt.Errorf("decode order list: %w", err)
	}
	return orders, nil
}
