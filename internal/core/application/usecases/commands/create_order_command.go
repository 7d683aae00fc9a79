package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrCustomerEmailIsRequired = errors.New("customer email is required")
	ErrCurrencyIsRequired      = errors.New("currency is required")
)

// OrderLine is one cart position carried by CreateOrderCommand.
type OrderLine struct {
	ProductCode string
	ProductName string
	UnitPrice   kernel.Money
	Quantity    int
}

// CreateOrderCommand represents a request to convert a checked-out cart into
// an order. The order starts in created status; payment is requested
// separately.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), customerID,
//	    "customer@example.com", "EUR", lines)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	customerID    kernel.UUID
	customerEmail string
	currency      string
	lines         []OrderLine

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// An empty line set is legal: zero-total orders skip payment entirely.
func NewCreateOrderCommand(
	orderID, customerID kernel.UUID,
	customerEmail, currency string,
	lines []OrderLine,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		lines: lines,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomer(customerID, customerEmail),
		cmd.setCurrency(currency),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier for the order to create.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the ordering customer's identifier.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// CustomerEmail returns the customer email snapshot to record on the order.
func (c CreateOrderCommand) CustomerEmail() string {
	return c.customerEmail
}

// Currency returns the order currency.
func (c CreateOrderCommand) Currency() string {
	return c.currency
}

// Lines returns the cart positions to convert into order items.
func (c CreateOrderCommand) Lines() []OrderLine {
	return c.lines
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomer(customerID kernel.UUID, email string) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	if email == "" {
		return ErrCustomerEmailIsRequired
	}

	c.customerID = customerID
	c.customerEmail = email
	return nil
}

func (c *CreateOrderCommand) setCurrency(currency string) error {
	if currency == "" {
		return ErrCurrencyIsRequired
	}

	c.currency = currency
	return nil
}
