package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrExecuteTransitionCommandIsNotConstructed = errors.New(
		"ExecuteTransitionCommand must be created via NewExecuteTransitionCommand constructor",
	)
	ErrTransitionNameIsRequired = errors.New("transition name is required")
)

// ExecuteTransitionCommand represents a request to run one named workflow
// transition on an order. A single command type covers every transition that
// needs no per-invocation input; packing carries its delivery decisions in
// the dedicated PackGoodsCommand.
type ExecuteTransitionCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	transition string

	guard guard.ConstructorGuard
}

// NewExecuteTransitionCommand creates a command to run the named transition.
func NewExecuteTransitionCommand(orderID kernel.UUID, transition string) (ExecuteTransitionCommand, error) {
	cmd := ExecuteTransitionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTransition(transition),
	); err != nil {
		return ExecuteTransitionCommand{}, err
	}

	return cmd, nil
}

// NewRequestPaymentCommand asks the customer to settle the order.
func NewRequestPaymentCommand(orderID kernel.UUID) (ExecuteTransitionCommand, error) {
	return NewExecuteTransitionCommand(orderID, "request_payment")
}

// NewDeclinePaymentCommand marks the pending payment as declined.
func NewDeclinePaymentCommand(orderID kernel.UUID) (ExecuteTransitionCommand, error) {
	return NewExecuteTransitionCommand(orderID, "decline_payment")
}

// NewPickGoodsCommand starts a picking round on a paid order.
func NewPickGoodsCommand(orderID kernel.UUID) (ExecuteTransitionCommand, error) {
	return NewExecuteTransitionCommand(orderID, "pick_goods")
}

// NewShipGoodsCommand hands the open delivery to the shipping method.
func NewShipGoodsCommand(orderID kernel.UUID) (ExecuteTransitionCommand, error) {
	return NewExecuteTransitionCommand(orderID, "ship_goods")
}

// NewCancelOrderCommand cancels the order, routing through refund when the
// ledger holds money.
func NewCancelOrderCommand(orderID kernel.UUID) (ExecuteTransitionCommand, error) {
	return NewExecuteTransitionCommand(orderID, "cancel_order")
}

// NewRefundPaymentCommand confirms the refund of a canceled, paid order.
func NewRefundPaymentCommand(orderID kernel.UUID) (ExecuteTransitionCommand, error) {
	return NewExecuteTransitionCommand(orderID, "payment_refunded")
}

// Validate ensures the command was created through the constructor.
func (c ExecuteTransitionCommand) Validate() error {
	return c.guard.Validate(ErrExecuteTransitionCommandIsNotConstructed)
}

// OrderID returns the target order's identifier.
func (c ExecuteTransitionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Transition returns the name of the transition to run.
func (c ExecuteTransitionCommand) Transition() string {
	return c.transition
}

func (c *ExecuteTransitionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ExecuteTransitionCommand) setTransition(transition string) error {
	if transition == "" {
		return ErrTransitionNameIsRequired
	}

	c.transition = transition
	return nil
}
