package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrAnnotateOrderCommandIsNotConstructed = errors.New(
		"AnnotateOrderCommand must be created via NewAnnotateOrderCommand constructor",
	)
	ErrAnnotationKeyIsRequired = errors.New("annotation key is required")
)

// AnnotateOrderCommand represents a request to record a free-form key-value
// annotation in the order's extra bag.
type AnnotateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	key     string
	value   string

	guard guard.ConstructorGuard
}

// NewAnnotateOrderCommand creates a command to annotate an order.
func NewAnnotateOrderCommand(orderID kernel.UUID, key, value string) (AnnotateOrderCommand, error) {
	cmd := AnnotateOrderCommand{
		value: value,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setKey(key),
	); err != nil {
		return AnnotateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AnnotateOrderCommand) Validate() error {
	return c.guard.Validate(ErrAnnotateOrderCommandIsNotConstructed)
}

// OrderID returns the target order's identifier.
func (c AnnotateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Key returns the annotation key.
func (c AnnotateOrderCommand) Key() string {
	return c.key
}

// Value returns the annotation value.
func (c AnnotateOrderCommand) Value() string {
	return c.value
}

func (c *AnnotateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AnnotateOrderCommand) setKey(key string) error {
	if key == "" {
		return ErrAnnotationKeyIsRequired
	}

	c.key = key
	return nil
}
