package model

import (
	"encoding/json"
	"testing"
)

func TestOrderDecodeMissingNested(t *testing.T) {
	var o Order
	raw := `{"id": 1001, "email": "a@b.co", "total_price": "1,200.00", "line_items": [{"id": 1}]}`
	if err := json.Unmarshal([]byte(raw), &o); err != nil {
		t.Fatal(err)
	}
	if o.ID.Value != "1001" {
		t.Errorf("ID = %q", o.ID.Value)
	}
	if o.BillingAddress.Value != nil || o.Customer.Value != nil {
		t.Error("absent nested records should stay nil")
	}
	if got := Field(o.BillingAddress.Value, func(a *Address) Text { return a.City }); got.Valid {
		t.Errorf("Field on nil = %+v", got)
	}
	if o.FirstTransaction() != nil {
		t.Error("expected no transaction")
	}
	if len(o.LineItems.Items) != 1 {
		t.Fatalf("line items = %d", len(o.LineItems.Items))
	}
	if ws := o.ShapeWarnings(); len(ws) != 0 {
		t.Errorf("unexpected warnings: %+v", ws)
	}
}

func TestField(t *testing.T) {
	a := &Address{City: T("Lisbon")}
	if got := Field(a, func(a *Address) Text { return a.City }); got.Value != "Lisbon" {
		t.Fatalf("got %q", got.Value)
	}
}

func TestFirstTransactionSkipsBlankIDs(t *testing.T) {
	o := Order{Transactions: ListOf(Transaction{ID: T("")}, Transaction{ID: T("tx-2"), Gateway: T("stripe")})}
	tx := o.FirstTransaction()
	if tx == nil || tx.ID.Value != "tx-2" {
		t.Fatalf("got %+v", tx)
	}
}

func TestEffectiveStatus(t *testing.T) {
	o := Order{PaymentStatus: T("paid")}
	if got := o.EffectiveStatus().Value; got != "paid" {
		t.Errorf("fallback = %q", got)
	}
	o.FinancialStatus = T("refunded")
	if got := o.EffectiveStatus().Value; got != "refunded" {
		t.Errorf("financial = %q", got)
	}
}

func TestCompositeKey(t *testing.T) {
	o := &Order{ID: T("5")}
	a := OrderLine{Order: o, Item: &LineItem{ID: T("10")}}
	b := OrderLine{Order: o, Item: &LineItem{ID: T("11")}}
	if a.Key() != "5-10" {
		t.Errorf("Key = %q", a.Key())
	}
	if a.Key() == b.Key() {
		t.Error("distinct items must have distinct keys")
	}
}
