package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrMoneyIsNotConstructed is returned when a Money value was not created through
// one of the constructor functions.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError(
	"money must be created via NewMoney, NewMoneyFromString, or ZeroMoney")

// ErrCurrencyMismatch is returned when arithmetic or comparison is attempted on
// Money values of different currencies.
var ErrCurrencyMismatch = errs.NewValueIsInvalidError("money values have different currencies")

// Money is an immutable value object representing a monetary amount in a single
// currency. Amounts are arbitrary-precision decimals, so ledger sums never
// accumulate floating-point drift. Refunds are represented as negative amounts.
//
// Example:
//
//	total, err := kernel.NewMoneyFromString("99.90", "EUR")
//	if err != nil {
//	    // handle error
//	}
//	paid := kernel.ZeroMoney("EUR").Add(payment.Amount())
type Money struct { //nolint:recvcheck //using for validation
	amount   decimal.Decimal
	currency string

	guard guard.ConstructorGuard
}

// NewMoney creates a Money value from a decimal amount and an ISO currency code.
// The currency code must not be empty.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if currency == "" {
		return Money{}, errs.NewValueIsRequiredError("currency")
	}

	return Money{
		amount:   amount,
		currency: currency,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// NewMoneyFromString parses a decimal string like "100.00" into a Money value.
func NewMoneyFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(d, currency)
}

// ZeroMoney creates a zero amount in the given currency.
func ZeroMoney(currency string) Money {
	return Money{
		amount:   decimal.Zero,
		currency: currency,
		guard:    guard.NewConstructorGuard(),
	}
}

// Validate ensures the Money value was created through a constructor.
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the ISO currency code.
func (m Money) Currency() string {
	return m.currency
}

// IsZero reports whether the amount equals zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Add returns the sum of two amounts.
// Returns an error if the currencies differ.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	return NewMoney(m.amount.Add(other.amount), m.currency)
}

// Sub returns the difference of two amounts.
// Returns an error if the currencies differ.
func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	return NewMoney(m.amount.Sub(other.amount), m.currency)
}

// MulInt returns the amount multiplied by an integer factor.
// Used for computing line totals from a unit price and quantity.
func (m Money) MulInt(factor int) Money {
	result, _ := NewMoney(m.amount.Mul(decimal.NewFromInt(int64(factor))), m.currency)
	return result
}

// GreaterThanOrEqual reports whether m >= other. Currencies must match;
// mismatched currencies report false.
func (m Money) GreaterThanOrEqual(other Money) bool {
	if m.currency != other.currency {
		return false
	}
	return m.amount.GreaterThanOrEqual(other.amount)
}

// IsEqual reports whether two Money values have the same currency and amount.
func (m Money) IsEqual(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String returns a human-readable representation like "100.00 EUR".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.String(), m.currency)
}
