package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrPackGoodsCommandIsNotConstructed = errors.New(
	"PackGoodsCommand must be created via NewPackGoodsCommand constructor",
)

// PackGoodsCommand represents the administrative packing decision: which item
// quantities go into the current shipment and which items are canceled
// outright. The delivery id names the delivery to create if none is open.
type PackGoodsCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	deliveryID kernel.UUID
	decisions  []order.DeliveryDecision

	guard guard.ConstructorGuard
}

// NewPackGoodsCommand creates a command carrying the packing decisions.
// An all-zero decision set is legal and leaves the order without a delivery.
func NewPackGoodsCommand(
	orderID, deliveryID kernel.UUID,
	decisions []order.DeliveryDecision,
) (PackGoodsCommand, error) {
	cmd := PackGoodsCommand{
		decisions: decisions,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDeliveryID(deliveryID),
	); err != nil {
		return PackGoodsCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PackGoodsCommand) Validate() error {
	return c.guard.Validate(ErrPackGoodsCommandIsNotConstructed)
}

// OrderID returns the target order's identifier.
func (c PackGoodsCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DeliveryID returns the identifier for the delivery created on demand.
func (c PackGoodsCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// Decisions returns the per-item packing decisions.
func (c PackGoodsCommand) Decisions() []order.DeliveryDecision {
	return c.decisions
}

func (c *PackGoodsCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *PackGoodsCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}
