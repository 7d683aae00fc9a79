package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrDeliveryIsNotConstructed is returned when a Delivery was not created
// through the NewDelivery or RestoreDelivery factory functions.
var ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery or RestoreDelivery")

// DeliveryItem links one order item to a delivery with the quantity shipped
// in that batch. The sum of delivered quantities for an item across all
// deliveries never exceeds the ordered quantity; the Order aggregate checks
// that when attaching items.
type DeliveryItem struct {
	ItemID   kernel.UUID
	Quantity int
}

// Delivery represents one shipment for a subset of an order's items, used to
// support partial fulfillment. A delivery is "open" until it is shipped; the
// aggregate keeps at most one open delivery per order.
//
// A delivery that ends up with no items attached after packing is discarded
// by the aggregate and never persisted.
type Delivery struct {
	id             kernel.UUID
	shippingID     string
	shippingMethod string
	fulfilledAt    *time.Time
	shippedAt      *time.Time
	items          []DeliveryItem

	isConstructed bool
}

// NewDelivery creates an empty open delivery for the given shipping method.
func NewDelivery(id kernel.UUID, shippingMethod string) (*Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if shippingMethod == "" {
		return nil, errs.NewValueIsRequiredError("shipping method")
	}

	return &Delivery{
		id:             id,
		shippingMethod: shippingMethod,
		isConstructed:  true,
	}, nil
}

// RestoreDelivery reconstructs a delivery from persistence.
func RestoreDelivery(
	id kernel.UUID,
	shippingID, shippingMethod string,
	fulfilledAt, shippedAt *time.Time,
	items []DeliveryItem,
) (*Delivery, error) {
	d, err := NewDelivery(id, shippingMethod)
	if err != nil {
		return nil, err
	}

	d.shippingID = shippingID
	d.fulfilledAt = fulfilledAt
	d.shippedAt = shippedAt
	d.items = items
	return d, nil
}

// Validate ensures the delivery was created through a factory function.
func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

// ID returns the delivery's unique identifier.
func (d *Delivery) ID() kernel.UUID {
	return d.id
}

// ShippingID returns the carrier tracking identifier, if one was assigned.
func (d *Delivery) ShippingID() string {
	return d.shippingID
}

// ShippingMethod returns the identifier of the shipping modifier in charge.
func (d *Delivery) ShippingMethod() string {
	return d.shippingMethod
}

// FulfilledAt returns the time goods were packed into this delivery, or nil.
func (d *Delivery) FulfilledAt() *time.Time {
	return d.fulfilledAt
}

// ShippedAt returns the time the delivery was handed to the carrier, or nil.
func (d *Delivery) ShippedAt() *time.Time {
	return d.shippedAt
}

// Items returns the delivery's item attachments.
func (d *Delivery) Items() []DeliveryItem {
	return d.items
}

// IsShipped reports whether the delivery has left the warehouse.
// An unshipped delivery is the order's open delivery.
func (d *Delivery) IsShipped() bool {
	return d.shippedAt != nil
}

// IsEmpty reports whether no items ended up attached to the delivery.
func (d *Delivery) IsEmpty() bool {
	return len(d.items) == 0
}

// DeliveredQuantity returns the quantity of the given item shipped in this batch.
func (d *Delivery) DeliveredQuantity(itemID kernel.UUID) int {
	for _, di := range d.items {
		if di.ItemID.IsEqual(itemID) {
			return di.Quantity
		}
	}
	return 0
}

// MarkFulfilled stamps the time goods were packed into the delivery.
func (d *Delivery) MarkFulfilled(at time.Time) {
	d.fulfilledAt = &at
}

// MarkShipped stamps the shipping time. Called by the shipping modifier's
// ship-the-goods hook; depending on the carrier it also assigns a shipping id
// via SetShippingID.
func (d *Delivery) MarkShipped(at time.Time) {
	d.shippedAt = &at
}

// SetShippingID assigns the carrier tracking identifier.
func (d *Delivery) SetShippingID(shippingID string) {
	d.shippingID = shippingID
}

// attach adds or increases an item attachment. Quantity validation against
// the ordered amount happens in Order.PackGoods, which knows the full
// delivery history of the item.
func (d *Delivery) attach(itemID kernel.UUID, quantity int) {
	for idx, di := range d.items {
		if di.ItemID.IsEqual(itemID) {
			d.items[idx].Quantity += quantity
			return
		}
	}
	d.items = append(d.items, DeliveryItem{ItemID: itemID, Quantity: quantity})
}

// number renders the delivery's display number: the order number alone for a
// single-delivery order, or suffixed with the one-based part index when the
// order has more than one delivery.
func (d *Delivery) number(orderNumber string, index, total int) string {
	if total <= 1 {
		return orderNumber
	}
	return fmt.Sprintf("%s/%d", orderNumber, index+1)
}
