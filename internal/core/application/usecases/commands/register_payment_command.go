package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrRegisterPaymentCommandIsNotConstructed = errors.New(
		"RegisterPaymentCommand must be created via NewRegisterPaymentCommand constructor",
	)
	ErrTransactionIDIsRequired = errors.New("transaction id is required")
	ErrPaymentMethodIsRequired = errors.New("payment method is required")
)

// RegisterPaymentCommand represents a payment provider callback: an amount
// to append to the order's payment ledger. Negative amounts record refunds.
type RegisterPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	amount        kernel.Money
	transactionID string
	method        string

	guard guard.ConstructorGuard
}

// NewRegisterPaymentCommand creates a command to append one ledger entry.
func NewRegisterPaymentCommand(
	orderID kernel.UUID,
	amount kernel.Money,
	transactionID, method string,
) (RegisterPaymentCommand, error) {
	cmd := RegisterPaymentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setAmount(amount),
		cmd.setTransaction(transactionID, method),
	); err != nil {
		return RegisterPaymentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRegisterPaymentCommandIsNotConstructed)
}

// OrderID returns the target order's identifier.
func (c RegisterPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Amount returns the ledger entry amount, negative for refunds.
func (c RegisterPaymentCommand) Amount() kernel.Money {
	return c.amount
}

// TransactionID returns the provider's transaction reference.
func (c RegisterPaymentCommand) TransactionID() string {
	return c.transactionID
}

// Method returns the payment method code.
func (c RegisterPaymentCommand) Method() string {
	return c.method
}

func (c *RegisterPaymentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RegisterPaymentCommand) setAmount(amount kernel.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}

	c.amount = amount
	return nil
}

func (c *RegisterPaymentCommand) setTransaction(transactionID, method string) error {
	if transactionID == "" {
		return ErrTransactionIDIsRequired
	}
	if method == "" {
		return ErrPaymentMethodIsRequired
	}

	c.transactionID = transactionID
	c.method = method
	return nil
}
