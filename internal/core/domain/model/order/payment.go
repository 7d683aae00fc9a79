package order

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrPaymentIsNotConstructed is returned when a Payment was not created
// through the NewPayment constructor.
var ErrPaymentIsNotConstructed = errors.New("Payment must be created via NewPayment")

// Payment is one append-only ledger entry recording a payment event.
// Entries are never mutated after creation; the order's amount paid is
// always the sum over its ledger. A refund is recorded as a new entry
// with a negative amount, never by editing an existing one.
type Payment struct { //nolint:recvcheck //using for validation
	amount        kernel.Money
	transactionID string
	method        string
	createdAt     time.Time

	guard guard.ConstructorGuard
}

// NewPayment creates a ledger entry with validation. The amount may be
// negative to record a refund.
func NewPayment(amount kernel.Money, transactionID, method string, createdAt time.Time) (Payment, error) {
	if err := amount.Validate(); err != nil {
		return Payment{}, err
	}
	if transactionID == "" {
		return Payment{}, errs.NewValueIsRequiredError("transaction id")
	}
	if method == "" {
		return Payment{}, errs.NewValueIsRequiredError("payment method")
	}
	if createdAt.IsZero() {
		return Payment{}, errs.NewValueIsRequiredError("payment timestamp")
	}

	return Payment{
		amount:        amount,
		transactionID: transactionID,
		method:        method,
		createdAt:     createdAt,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the payment was created through the constructor.
func (p Payment) Validate() error {
	return p.guard.Validate(ErrPaymentIsNotConstructed)
}

// Amount returns the recorded amount. Negative for refunds.
func (p Payment) Amount() kernel.Money {
	return p.amount
}

// TransactionID returns the payment provider's transaction identifier.
func (p Payment) TransactionID() string {
	return p.transactionID
}

// Method returns the payment method identifier, e.g. "prepayment".
func (p Payment) Method() string {
	return p.method
}

// CreatedAt returns the time the payment event was recorded.
func (p Payment) CreatedAt() time.Time {
	return p.createdAt
}
