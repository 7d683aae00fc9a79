package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrItemIsNotConstructed is returned when an Item instance was not created
// through the NewItem or RestoreItem factory functions.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem or RestoreItem")

// Item is a line item snapshot taken from the cart when the order is built.
// Product code, name, and unit price are copied, not referenced, so later
// catalog changes never alter the financial record.
//
// Quantity and the canceled flag may be adjusted administratively before
// shipment; both become immutable once the item is included in a delivery.
// The Order aggregate enforces that rule, since delivery coverage is
// accounted for at the order level.
type Item struct {
	id          kernel.UUID
	productCode string
	productName string
	unitPrice   kernel.Money
	quantity    int
	canceled    bool
	extra       map[string]string

	isConstructed bool
}

// NewItem creates a line item snapshot with validation.
func NewItem(id kernel.UUID, productCode, productName string, unitPrice kernel.Money, quantity int) (*Item, error) {
	item := &Item{
		extra:         map[string]string{},
		isConstructed: true,
	}

	if err := errors.Join(
		item.setID(id),
		item.setProduct(productCode, productName),
		item.setUnitPrice(unitPrice),
		item.setQuantity(quantity),
	); err != nil {
		return nil, err
	}

	return item, nil
}

// RestoreItem reconstructs a line item from persistence, including its
// canceled flag and extra bag.
func RestoreItem(
	id kernel.UUID,
	productCode, productName string,
	unitPrice kernel.Money,
	quantity int,
	canceled bool,
	extra map[string]string,
) (*Item, error) {
	item, err := NewItem(id, productCode, productName, unitPrice, quantity)
	if err != nil {
		return nil, err
	}

	item.canceled = canceled
	if extra != nil {
		item.extra = extra
	}
	return item, nil
}

// Validate ensures the item was created through a factory function.
func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// ID returns the item's unique identifier.
func (i *Item) ID() kernel.UUID {
	return i.id
}

// ProductCode returns the snapshotted product code.
func (i *Item) ProductCode() string {
	return i.productCode
}

// ProductName returns the snapshotted product name.
func (i *Item) ProductName() string {
	return i.productName
}

// UnitPrice returns the snapshotted price per unit.
func (i *Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Quantity returns the ordered quantity.
func (i *Item) Quantity() int {
	return i.quantity
}

// Canceled reports whether the item was administratively canceled.
// Canceled items are excluded from delivery and fulfillment accounting.
func (i *Item) Canceled() bool {
	return i.canceled
}

// Extra returns the item's free-form annotation bag.
func (i *Item) Extra() map[string]string {
	return i.extra
}

// LineTotal returns unit price multiplied by the ordered quantity.
func (i *Item) LineTotal() kernel.Money {
	return i.unitPrice.MulInt(i.quantity)
}

func (i *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Item) setProduct(code, name string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("product code")
	}
	if name == "" {
		return errs.NewValueIsRequiredError("product name")
	}
	i.productCode = code
	i.productName = name
	return nil
}

func (i *Item) setUnitPrice(price kernel.Money) error {
	if err := price.Validate(); err != nil {
		return err
	}
	i.unitPrice = price
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}
