package mapping

import (
	"github.com/crimson-sun/orderflow/internal/engine/flags"
	"github.com/crimson-sun/orderflow/internal/model"
)

// v1 is the field set of the first destination table (orders_10057).
func v1() *Mapping {
	return newMapping("v1",
		key(),
		text("order_id", orderID),
		text("transaction_id", orderID),
		text("customer_email", order(func(o *model.Order) model.Text { return o.Email })),
		text("product_name", item(func(i *model.LineItem) model.Text { return i.Title })),
		numeric("product_price", item(func(i *model.LineItem) model.Text { return i.Price })),
		numeric("quantity", item(func(i *model.LineItem) model.Text { return i.Quantity })),
		text("currency", order(func(o *model.Order) model.Text { return o.Currency })),
		text("order_status", orderStatus),
		flag("is_approved", func(f flags.Flags) bool { return f.Approved }),
		flag("is_refund", func(f flags.Flags) bool { return f.Refunded }),
		flag("is_cancelled", func(f flags.Flags) bool { return f.Cancelled }),
		text("created_at", order(func(o *model.Order) model.Text { return o.CreatedAt })),
	)
}

// v2 is the final field set (orders_10001): the v1 columns plus customer,
// item identity, every status, payment, billing, shipping and order totals.
func v2() *Mapping {
	return newMapping("v2",
		key(),
		text("order_id", orderID),
		text("order_number", order(func(o *model.Order) model.Text { return o.Number })),
		text("transaction_id", transactionID),
		text("customer_id", customer(func(c *model.Customer) model.Text { return c.ID })),
		text("customer_email", email),
		text("customer_first_name", customer(func(c *model.Customer) model.Text { return c.FirstName })),
		text("customer_last_name", customer(func(c *model.Customer) model.Text { return c.LastName })),
		text("customer_phone", func(l model.OrderLine) model.Text {
			return model.Field(l.Order.Customer.Value, func(c *model.Customer) model.Text { return c.Phone }).Or(l.Order.Phone)
		}),
		text("line_item_id", item(func(i *model.LineItem) model.Text { return i.ID })),
		text("product_id", item(func(i *model.LineItem) model.Text { return i.ProductID })),
		text("variant_id", item(func(i *model.LineItem) model.Text { return i.VariantID })),
		text("sku", item(func(i *model.LineItem) model.Text { return i.SKU })),
		text("product_name", item(func(i *model.LineItem) model.Text { return i.Title.Or(i.Name) })),
		text("variant_title", item(func(i *model.LineItem) model.Text { return i.VariantTitle })),
		numeric("product_price", item(func(i *model.LineItem) model.Text { return i.Price })),
		numeric("quantity", item(func(i *model.LineItem) model.Text { return i.Quantity })),
		text("currency", order(func(o *model.Order) model.Text { return o.Currency })),
		text("order_status", orderStatus),
		text("financial_status", order(func(o *model.Order) model.Text { return o.FinancialStatus })),
		text("payment_status", order(func(o *model.Order) model.Text { return o.PaymentStatus })),
		text("fulfillment_status", order(func(o *model.Order) model.Text { return o.FulfillmentStatus })),
		flag("is_approved", func(f flags.Flags) bool { return f.Approved }),
		flag("is_refund", func(f flags.Flags) bool { return f.Refunded }),
		flag("is_cancelled", func(f flags.Flags) bool { return f.Cancelled }),
		flag("is_chargeback", func(f flags.Flags) bool { return f.Chargeback }),
		flag("is_test", func(f flags.Flags) bool { return f.Test }),
		text("created_at", order(func(o *model.Order) model.Text { return o.CreatedAt })),
		text("updated_at", order(func(o *model.Order) model.Text { return o.UpdatedAt })),
		text("cancelled_at", order(func(o *model.Order) model.Text { return o.CancelledAt })),
		text("chargeback_at", order(func(o *model.Order) model.Text { return o.ChargebackAt })),
		text("payment_gateway", transaction(func(t *model.Transaction) model.Text { return t.Gateway })),
		text("payment_method", transaction(func(t *model.Transaction) model.Text { return t.PaymentMethod })),
		text("transaction_status", transaction(func(t *model.Transaction) model.Text { return t.Status })),
		numeric("transaction_amount", transaction(func(t *model.Transaction) model.Text { return t.Amount })),
		text("bill_first_name", billing(func(a *model.Address) model.Text { return a.FirstName })),
		text("bill_last_name", billing(func(a *model.Address) model.Text { return a.LastName })),
		text("bill_company", billing(func(a *model.Address) model.Text { return a.Company })),
		text("bill_address1", billing(func(a *model.Address) model.Text { return a.Address1 })),
		text("bill_address2", billing(func(a *model.Address) model.Text { return a.Address2 })),
		text("bill_city", billing(func(a *model.Address) model.Text { return a.City })),
		text("bill_province", billing(func(a *model.Address) model.Text { return a.Province })),
		text("bill_zip", billing(func(a *model.Address) model.Text { return a.Zip })),
		text("bill_country", billing(func(a *model.Address) model.Text { return a.Country })),
		text("bill_country_code", billing(func(a *model.Address) model.Text { return a.CountryCode })),
		text("bill_phone", billing(func(a *model.Address) model.Text { return a.Phone })),
		text("ship_first_name", shipping(func(a *model.Address) model.Text { return a.FirstName })),
		text("ship_last_name", shipping(func(a *model.Address) model.Text { return a.LastName })),
		text("ship_company", shipping(func(a *model.Address) model.Text { return a.Company })),
		text("ship_address1", shipping(func(a *model.Address) model.Text { return a.Address1 })),
		text("ship_address2", shipping(func(a *model.Address) model.Text { return a.Address2 })),
		text("ship_city", shipping(func(a *model.Address) model.Text { return a.City })),
		text("ship_province", shipping(func(a *model.Address) model.Text { return a.Province })),
		text("ship_zip", shipping(func(a *model.Address) model.Text { return a.Zip })),
		text("ship_country", shipping(func(a *model.Address) model.Text { return a.Country })),
		text("ship_country_code", shipping(func(a *model.Address) model.Text { return a.CountryCode })),
		text("ship_phone", shipping(func(a *model.Address) model.Text { return a.Phone })),
		numeric("subtotal_price", order(func(o *model.Order) model.Text { return o.SubtotalPrice })),
		numeric("total_discounts", order(func(o *model.Order) model.Text { return o.TotalDiscounts })),
		numeric("total_shipping", order(func(o *model.Order) model.Text { return o.TotalShipping })),
		numeric("total_tax", order(func(o *model.Order) model.Text { return o.TotalTax })),
		numeric("order_total", order(func(o *model.Order) model.Text { return o.TotalPrice })),
	)
}
