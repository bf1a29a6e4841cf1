package model

import "encoding/json"

// Order is the typed-but-partial view of one order inside a raw page. Nested
// records are Optional or List so that absence, and a wrong shape, stay visible
// to the caller without failing the order. Line items are kept undecoded so a
// single bad item does not reject its order.
type Order struct {
	ID                Text                  `json:"id"`
	Number            Text                  `json:"order_number"`
	Email             Text                  `json:"email"`
	Phone             Text                  `json:"phone"`
	Currency          Text                  `json:"currency"`
	CreatedAt         Text                  `json:"created_at"`
	UpdatedAt         Text                  `json:"updated_at"`
	FinancialStatus   Text                  `json:"financial_status"`
	PaymentStatus     Text                  `json:"payment_status"`
	FulfillmentStatus Text                  `json:"fulfillment_status"`
	CancelledAt       Text                  `json:"cancelled_at"`
	ChargebackAt      Text                  `json:"chargeback_at"`
	Test              Text                  `json:"test"`
	Customer          Optional[Customer]    `json:"customer"`
	BillingAddress    Optional[Address]     `json:"billing_address"`
	ShippingAddress   Optional[Address]     `json:"shipping_address"`
	Transactions      List[Transaction]     `json:"transactions"`
	LineItems         List[json.RawMessage] `json:"line_items"`
	SubtotalPrice     Text                  `json:"subtotal_price"`
	TotalDiscounts    Text                  `json:"total_discounts"`
	TotalShipping     Text                  `json:"total_shipping_price"`
	TotalTax          Text                  `json:"total_tax"`
	TotalPrice        Text                  `json:"total_price"`
}

// Customer is the buyer record embedded in an order.
type Customer struct {
	ID        Text `json:"id"`
	Email     Text `json:"email"`
	FirstName Text `json:"first_name"`
	LastName  Text `json:"last_name"`
	Phone     Text `json:"phone"`
}

// Address is a billing or shipping address.
type Address struct {
	FirstName   Text `json:"first_name"`
	LastName    Text `json:"last_name"`
	Company     Text `json:"company"`
	Address1    Text `json:"address1"`
	Address2    Text `json:"address2"`
	City        Text `json:"city"`
	Province    Text `json:"province"`
	Zip         Text `json:"zip"`
	Country     Text `json:"country"`
	CountryCode Text `json:"country_code"`
	Phone       Text `json:"phone"`
}

// Transaction is one payment attempt on an order.
type Transaction struct {
	ID            Text `json:"id"`
	Gateway       Text `json:"gateway"`
	PaymentMethod Text `json:"payment_method"`
	Status        Text `json:"status"`
	Amount        Text `json:"amount"`
}

// LineItem is one product line of an order.
type LineItem struct {
	ID           Text `json:"id"`
	ProductID    Text `json:"product_id"`
	VariantID    Text `json:"variant_id"`
	SKU          Text `json:"sku"`
	Title        Text `json:"title"`
	Name         Text `json:"name"`
	VariantTitle Text `json:"variant_title"`
	Price        Text `json:"price"`
	Quantity     Text `json:"quantity"`
}

// Field returns the field f selects from p, or an unset Text when p is absent.
func Field[R any](p *R, f func(*R) Text) Text {
	if p == nil {
		return Text{}
	}
	return f(p)
}

// FirstTransaction returns the first transaction carrying an id, or nil.
func (o *Order) FirstTransaction() *Transaction {
	txs := o.Transactions.Items
	for i := range txs {
		if txs[i].ID.Present() {
			return &txs[i]
		}
	}
	return nil
}

// ShapeWarning names a nested field that was ignored, fully or in part,
// because of its JSON shape.
type ShapeWarning struct {
	Field  string
	Reason string
}

// ShapeWarnings lists the nested fields of o that did not have the expected shape.
func (o *Order) ShapeWarnings() []ShapeWarning {
	var ws []ShapeWarning
	add := func(field string, reasons ...string) {
		for _, r := range reasons {
			if r != "" {
				ws = append(ws, ShapeWarning{Field: field, Reason: r})
			}
		}
	}
	add("customer", o.Customer.Warning)
	add("billing_address", o.BillingAddress.Warning)
	add("shipping_address", o.ShippingAddress.Warning)
	add("transactions", o.Transactions.Warnings...)
	add("line_items", o.LineItems.Warnings...)
	return ws
}

// EffectiveStatus is financial_status, falling back to payment_status.
func (o *Order) EffectiveStatus() Text {
	return o.FinancialStatus.Or(o.PaymentStatus)
}

// OrderLine pairs an order with one of its line items; it is the unit the
// transformer turns into a row.
type OrderLine struct {
	Order *Order
	Item  *LineItem
}

// Key is the composite key of the pair.
func (l OrderLine) Key() string {
	return CompositeKey(l.Order.ID.Value, l.Item.ID.Value)
}

// CompositeKey joins an order id and a line item id with a literal hyphen.
func CompositeKey(orderID, itemID string) string {
	return orderID + "-" + itemID
}
