// Package queries contains read-only operations against the database.
// Implements the Query side of the CQRS architecture: handlers read straight
// from the tables into response structs, bypassing the domain aggregates.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves the full detail of one order: header, items,
// payment ledger, and deliveries.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for the given order.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order's identifier.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is the serialized order detail. Monetary amounts are
// rendered as decimal strings in the order's currency.
type GetOrderQueryResponse struct {
	ID            kernel.UUID
	Number        string
	CustomerEmail string
	Currency      string
	Subtotal      string
	Total         string
	AmountPaid    string
	Status        string
	Extra         map[string]string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Items         []OrderItemResponse
	Payments      []OrderPaymentResponse
	Deliveries    []DeliveryResponse
}

// OrderItemResponse is one serialized order line.
type OrderItemResponse struct {
	ID          kernel.UUID
	ProductCode string
	ProductName string
	UnitPrice   string
	Quantity    int
	LineTotal   string
	Canceled    bool
}

// OrderPaymentResponse is one serialized payment ledger entry.
// Refund entries carry negative amounts.
type OrderPaymentResponse struct {
	Amount        string
	TransactionID string
	Method        string
	CreatedAt     time.Time
}

// DeliveryResponse is one serialized delivery with its sequence number.
type DeliveryResponse struct {
	ID             kernel.UUID
	Number         string
	ShippingID     string
	ShippingMethod string
	FulfilledAt    *time.Time
	ShippedAt      *time.Time
	Items          []DeliveryItemResponse
}

// DeliveryItemResponse maps one order item to its delivered quantity.
type DeliveryItemResponse struct {
	ItemID   kernel.UUID
	Quantity int
}
