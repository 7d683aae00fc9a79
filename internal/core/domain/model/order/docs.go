// Package order provides the Order aggregate root and its fulfillment workflow
// building blocks: line items, the append-only payment ledger, deliveries for
// (partial) shipments, and the declarative status transition table.
//
// The package includes:
//   - Order: the aggregate root holding items, payments, deliveries, and status
//   - Item: a line item snapshot taken from the cart at checkout time
//   - Payment: an immutable ledger entry; the amount paid is always the ledger sum
//   - Delivery and DeliveryItem: shipment groupings supporting partial fulfillment
//   - Status: the short string token persisted directly on the order row
//   - Transition: guarded, multi-target transition metadata interpreted by the
//     workflow engine in the services package
//
// Key business rules:
//   - The status field changes only through Apply with a declared Transition;
//     a rejected transition leaves the order untouched
//   - Payments are never mutated after being recorded; refunds are negative entries
//   - Canceled items are excluded from delivery and fulfillment accounting
//   - The delivered quantity of an item never exceeds its ordered quantity
//   - A delivery that ends up with no items attached is discarded, not persisted
//
// Orders are financial records: they are never deleted, only canceled.
package order
