package services

import (
	"slices"

	"fulfillment/internal/core/domain/model/order"
)

// DefaultCancelableStates are the source states from which cancel_order is
// reachable unless the deployment configures its own set.
func DefaultCancelableStates() []order.Status {
	return []order.Status{
		order.StatusNew,
		order.StatusCreated,
		order.StatusPaymentConfirmed,
		order.StatusPaymentDeclined,
		order.StatusReadyForDelivery,
	}
}

// CancellationWorkflow contributes the cross-cutting cancel_order transition.
// It is reachable from the configured cancelable states while the cancelable
// guard holds; on firing it first withdraws any in-progress delivery, then
// resolves to refund_payment when money is on the ledger (awaiting manual
// refund confirmation) or straight to the terminal order_canceled otherwise.
type CancellationWorkflow struct {
	cancelableStates []order.Status

	// condition is the deployment-specific extension of the cancelable guard.
	// The transition is cancelable when it holds OR when the status is in the
	// cancelable set.
	condition func(o *order.Order) bool
}

// NewCancellationWorkflow creates the cancellation policy. A nil or empty
// state set falls back to DefaultCancelableStates; a nil condition leaves the
// set-membership rule as the only criterion.
func NewCancellationWorkflow(cancelableStates []order.Status, condition func(o *order.Order) bool) *CancellationWorkflow {
	if len(cancelableStates) == 0 {
		cancelableStates = DefaultCancelableStates()
	}
	return &CancellationWorkflow{
		cancelableStates: cancelableStates,
		condition:        condition,
	}
}

// Cancelable reports whether the order may currently be canceled.
func (c *CancellationWorkflow) Cancelable(o *order.Order) bool {
	if c.condition != nil && c.condition(o) {
		return true
	}
	return slices.Contains(c.cancelableStates, o.Status())
}

// Transitions implements WorkflowPolicy.
func (c *CancellationWorkflow) Transitions() []order.Transition {
	return []order.Transition{
		{
			Name:    "cancel_order",
			Sources: c.cancelableStates,
			Targets: []order.Status{order.StatusRefundPayment, order.StatusCanceled},
			Guards: []order.Guard{
				{Name: "cancelable", Check: c.Cancelable},
			},
			Resolve: func(o *order.Order) order.Status {
				if o.AmountPaid().IsPositive() {
					return order.StatusRefundPayment
				}
				return order.StatusCanceled
			},
			Kind:       order.KindAdmin,
			ButtonName: "Cancel this order",
		},
	}
}

// Effects implements WorkflowPolicy. Withdrawing the open delivery is the
// compensating action reversing any in-progress shipment.
func (c *CancellationWorkflow) Effects() map[string]Effect {
	return map[string]Effect{
		"cancel_order": func(o *order.Order, _ Input) error {
			o.WithdrawOpenDelivery()
			return nil
		},
	}
}
