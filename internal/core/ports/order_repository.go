// Package ports defines the persistence contracts between the domain layer
// and infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, including its
	// items, payment ledger entries, and deliveries.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with items, payments, and deliveries.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByNumber retrieves an order aggregate by its display number.
	GetByNumber(ctx context.Context, number string) (*order.Order, error)

	// GetAllActive retrieves all orders that have not reached a terminal
	// status, most recently updated first.
	GetAllActive(ctx context.Context) ([]*order.Order, error)

	// NextNumber reserves the next order display number.
	NextNumber(ctx context.Context) (string, error)
}
