package services

import (
	"fulfillment/internal/core/domain/model/order"
)

// PaymentAcknowledger is the generic "acknowledge payment" hook fired by the
// acknowledge_prepayment auto transition, intended for downstream accounting.
type PaymentAcknowledger interface {
	AcknowledgePayment(o *order.Order) error
}

// PaymentWorkflow contributes the payment handling transitions:
//
//	request_payment       created → awaiting_payment | no_payment_required
//	prepayment_deposited  awaiting_payment → prepayment_deposited | awaiting_payment (loop-back)
//	decline_payment       awaiting_payment → payment_declined
//	acknowledge_prepayment (auto) prepayment_deposited | no_payment_required → payment_confirmed
//	payment_refunded      refund_payment → order_canceled | refund_payment (loop-back)
//
// The prepayment_deposited resolver keeps the order in awaiting_payment while
// the ledger does not cover the total: partial payments grow the ledger but
// never move the state. payment_refunded mirrors that on the way out: it
// only reaches order_canceled once refund entries have drained the ledger.
type PaymentWorkflow struct {
	acknowledger PaymentAcknowledger
}

// NewPaymentWorkflow creates the payment policy. The acknowledger may be nil,
// in which case the acknowledge hook is skipped.
func NewPaymentWorkflow(acknowledger PaymentAcknowledger) *PaymentWorkflow {
	return &PaymentWorkflow{acknowledger: acknowledger}
}

// Transitions implements WorkflowPolicy.
func (p *PaymentWorkflow) Transitions() []order.Transition {
	return []order.Transition{
		{
			Name:    "request_payment",
			Sources: []order.Status{order.StatusCreated},
			Targets: []order.Status{order.StatusAwaitingPayment, order.StatusNoPaymentRequired},
			Resolve: func(o *order.Order) order.Status {
				if o.Total().IsZero() {
					return order.StatusNoPaymentRequired
				}
				return order.StatusAwaitingPayment
			},
			Kind: order.KindManual,
		},
		{
			Name:    "prepayment_deposited",
			Sources: []order.Status{order.StatusAwaitingPayment},
			Targets: []order.Status{order.StatusPrepaymentDeposited, order.StatusAwaitingPayment},
			Guards: []order.Guard{
				{Name: "payment_deposited", Check: func(o *order.Order) bool {
					return len(o.Payments()) > 0
				}},
			},
			Resolve: func(o *order.Order) order.Status {
				if o.IsFullyPaid() {
					return order.StatusPrepaymentDeposited
				}
				return order.StatusAwaitingPayment
			},
			Kind: order.KindManual,
		},
		{
			Name:    "decline_payment",
			Sources: []order.Status{order.StatusAwaitingPayment},
			Targets: []order.Status{order.StatusPaymentDeclined},
			Kind:    order.KindManual,
		},
		{
			Name: "acknowledge_prepayment",
			Sources: []order.Status{
				order.StatusPrepaymentDeposited,
				order.StatusNoPaymentRequired,
			},
			Targets: []order.Status{order.StatusPaymentConfirmed},
			Kind:    order.KindAuto,
		},
		{
			Name:    "payment_refunded",
			Sources: []order.Status{order.StatusRefundPayment},
			Targets: []order.Status{order.StatusCanceled, order.StatusRefundPayment},
			Resolve: func(o *order.Order) order.Status {
				if o.AmountPaid().IsPositive() {
					return order.StatusRefundPayment
				}
				return order.StatusCanceled
			},
			Kind: order.KindManual,
		},
	}
}

// Effects implements WorkflowPolicy.
func (p *PaymentWorkflow) Effects() map[string]Effect {
	return map[string]Effect{
		"acknowledge_prepayment": func(o *order.Order, _ Input) error {
			if p.acknowledger == nil {
				return nil
			}
			return p.acknowledger.AcknowledgePayment(o)
		},
	}
}
