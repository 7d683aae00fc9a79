package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status is the lifecycle state of an order, persisted as a short string token
// directly on the order row.
//
// State transitions (simplified):
//
//	created ──┬──> awaiting_payment ──> prepayment_deposited ──┐
//	          │         │    ^                                 v
//	          │         └────┘ (partial payment loops back)  payment_confirmed
//	          └──> no_payment_required ────────────────────────┘
//
//	payment_confirmed ──> pick_goods ──> pack_goods ──> ship_goods ──> ready_for_delivery
//
//	cancelable states ──> cancel_order ──┬──> refund_payment ──> order_canceled
//	                                     └──> order_canceled (nothing paid)
//
// Which edges exist, and under which guards, is defined by the workflow
// policies in the services package; Status itself only enumerates the tokens.
type Status string

const (
	// StatusNew marks an order that exists only as a cart-side draft.
	StatusNew Status = "new"

	// StatusCreated is the initial status of an order built from a cart at checkout.
	StatusCreated Status = "created"

	// StatusAwaitingPayment means a payment request was issued for a nonzero total.
	StatusAwaitingPayment Status = "awaiting_payment"

	// StatusPrepaymentDeposited means the payment ledger covers the order total.
	StatusPrepaymentDeposited Status = "prepayment_deposited"

	// StatusNoPaymentRequired is entered directly when the order total is zero.
	StatusNoPaymentRequired Status = "no_payment_required"

	// StatusPaymentConfirmed means the payment was acknowledged downstream and
	// fulfillment may begin.
	StatusPaymentConfirmed Status = "payment_confirmed"

	// StatusPaymentDeclined means the payment provider rejected the payment.
	StatusPaymentDeclined Status = "payment_declined"

	// StatusPickGoods, StatusPackGoods, and StatusShipGoods are the warehouse steps.
	StatusPickGoods Status = "pick_goods"
	StatusPackGoods Status = "pack_goods"
	StatusShipGoods Status = "ship_goods"

	// StatusReadyForDelivery is entered automatically once goods are shipped.
	StatusReadyForDelivery Status = "ready_for_delivery"

	// StatusRefundPayment means the order was canceled with money on the ledger
	// and awaits a manual refund confirmation.
	StatusRefundPayment Status = "refund_payment"

	// StatusCanceled is the terminal canceled state. No further transitions exist.
	StatusCanceled Status = "order_canceled"
)

// validStatuses holds the complete set of known status tokens.
func validStatuses() map[Status]struct{} {
	return map[Status]struct{}{
		StatusNew:                 {},
		StatusCreated:             {},
		StatusAwaitingPayment:     {},
		StatusPrepaymentDeposited: {},
		StatusNoPaymentRequired:   {},
		StatusPaymentConfirmed:    {},
		StatusPaymentDeclined:     {},
		StatusPickGoods:           {},
		StatusPackGoods:           {},
		StatusShipGoods:           {},
		StatusReadyForDelivery:    {},
		StatusRefundPayment:       {},
		StatusCanceled:            {},
	}
}

// Validate checks that the status is a known token.
// Used when reconstructing orders from the database or parsing API input.
func (s Status) Validate() error {
	if _, ok := validStatuses()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

// String returns the persisted token form of the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no transition can ever leave this status.
func (s Status) IsTerminal() bool {
	return s == StatusCanceled
}
