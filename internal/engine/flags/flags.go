// Package flags derives the boolean status columns of an order.
package flags

import (
	"strings"

	"github.com/crimson-sun/orderflow/internal/model"
)

// Flags are pure functions of an order's status strings and timestamps.
type Flags struct {
	Approved   bool
	Refunded   bool
	Cancelled  bool
	Chargeback bool
	Test       bool
}

// Derive computes the flags of o. The status checked is financial_status,
// falling back to payment_status when it is blank, compared case-insensitively.
// A timestamp counts once it is non-null, even when blank.
func Derive(o *model.Order) Flags {
	status := strings.ToLower(strings.TrimSpace(o.EffectiveStatus().Value))
	return Flags{
		Approved:   status == "paid",
		Refunded:   status == "refunded",
		Cancelled:  o.CancelledAt.Valid || status == "cancelled" || status == "voided",
		Chargeback: o.ChargebackAt.Valid || status == "chargeback" || status == "charged_back",
		Test:       o.Test.Truthy() || status == "test",
	}
}
