package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory functions.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrItemLockedByDelivery is returned when an administrative change is
	// attempted on an item already covered by a delivery.
	ErrItemLockedByDelivery = errors.New("item is included in a delivery and can no longer be changed")
)

// DeliveryDecision is one administrative decision taken when packing goods:
// how many units of the item go into the current delivery batch, and whether
// the item is canceled instead. The decision list is an explicit input to the
// pack step rather than something inferred from form state.
type DeliveryDecision struct {
	ItemID   kernel.UUID
	Quantity int
	Canceled bool
}

// Order is the aggregate root for a purchase. It owns the line items, the
// append-only payment ledger, and the deliveries, and it carries the workflow
// status token. The status is mutated only through Apply (see transition.go);
// everything else the aggregate exposes are accounting reads and the
// administrative mutations the workflow engine drives.
//
// Orders are financial records and are never deleted. Cancellation is a
// terminal status, not a removal.
type Order struct {
	id            kernel.UUID
	number        string
	customerID    kernel.UUID
	customerEmail string
	currency      string
	subtotal      kernel.Money
	total         kernel.Money
	status        Status
	items         []*Item
	payments      []Payment
	deliveries    []*Delivery
	extra         map[string]string
	createdAt     time.Time
	updatedAt     time.Time

	isConstructed bool
}

// NewOrder creates an order in StatusCreated with an empty item list.
// Items are added with AddItem while the order is still in its creation
// phase; the checkout command does both in one transaction.
func NewOrder(
	id kernel.UUID,
	number string,
	customerID kernel.UUID,
	customerEmail, currency string,
) (*Order, error) {
	now := time.Now().UTC()
	o := &Order{
		status:        StatusCreated,
		extra:         map[string]string{},
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setCustomer(customerID, customerEmail),
		o.setCurrency(currency),
	); err != nil {
		return nil, err
	}

	o.subtotal = kernel.ZeroMoney(currency)
	o.total = kernel.ZeroMoney(currency)
	return o, nil
}

// RestoreOrder reconstructs an order aggregate from persistence.
func RestoreOrder(
	id kernel.UUID,
	number string,
	customerID kernel.UUID,
	customerEmail, currency string,
	subtotal, total kernel.Money,
	status Status,
	items []*Item,
	payments []Payment,
	deliveries []*Delivery,
	extra map[string]string,
	createdAt, updatedAt time.Time,
) (*Order, error) {
	o, err := NewOrder(id, number, customerID, customerEmail, currency)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}
	if err = errors.Join(subtotal.Validate(), total.Validate()); err != nil {
		return nil, err
	}

	o.subtotal = subtotal
	o.total = total
	o.status = status
	o.items = items
	o.payments = payments
	o.deliveries = deliveries
	if extra != nil {
		o.extra = extra
	}
	o.createdAt = createdAt
	o.updatedAt = updatedAt
	return o, nil
}

// Validate ensures the order was created through a factory function.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Number returns the order's display number.
func (o *Order) Number() string {
	return o.number
}

// CustomerID returns the owning customer's identifier.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// CustomerEmail returns the customer email snapshotted at checkout,
// used as the notification recipient.
func (o *Order) CustomerEmail() string {
	return o.customerEmail
}

// Currency returns the order's ISO currency code.
func (o *Order) Currency() string {
	return o.currency
}

// Subtotal returns the sum of line totals snapshotted at checkout.
func (o *Order) Subtotal() kernel.Money {
	return o.subtotal
}

// Total returns the amount the customer owes. Administrative item
// cancellation after checkout does not change it; the refund path
// settles the difference in money.
func (o *Order) Total() kernel.Money {
	return o.total
}

// Status returns the current workflow status token.
func (o *Order) Status() Status {
	return o.status
}

// Items returns the order's line items.
func (o *Order) Items() []*Item {
	return o.items
}

// Payments returns the append-only payment ledger.
func (o *Order) Payments() []Payment {
	return o.payments
}

// Deliveries returns the order's shipments in creation order.
func (o *Order) Deliveries() []*Delivery {
	return o.deliveries
}

// Extra returns the order's free-form key-value bag. It holds the chosen
// payment/shipping modifier identifiers and arbitrary annotations.
func (o *Order) Extra() map[string]string {
	return o.extra
}

// CreatedAt returns the order creation time.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the time of the last mutation.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// AddItem attaches a line item and updates the order totals.
// Only permitted while the order is still in StatusCreated, before any
// payment request was issued.
func (o *Order) AddItem(item *Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if o.status != StatusCreated {
		return errs.NewTransitionNotAllowedError("add_item", string(o.status),
			"items can only be added while the order is in created status")
	}
	if item.UnitPrice().Currency() != o.currency {
		return kernel.ErrCurrencyMismatch
	}

	o.items = append(o.items, item)

	subtotal, err := o.subtotal.Add(item.LineTotal())
	if err != nil {
		return err
	}
	o.subtotal = subtotal
	o.total = subtotal
	o.touch()
	return nil
}

// ItemByID returns the line item with the given identifier.
func (o *Order) ItemByID(itemID kernel.UUID) (*Item, error) {
	for _, item := range o.items {
		if item.ID().IsEqual(itemID) {
			return item, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("order item", itemID.String())
}

// RegisterPayment appends one entry to the payment ledger. The ledger is
// append-only: nothing here ever mutates or removes an existing entry.
func (o *Order) RegisterPayment(payment Payment) error {
	if err := payment.Validate(); err != nil {
		return err
	}
	if payment.Amount().Currency() != o.currency {
		return kernel.ErrCurrencyMismatch
	}

	o.payments = append(o.payments, payment)
	o.touch()
	return nil
}

// AmountPaid returns the sum over the payment ledger. Refund entries carry
// negative amounts, so the sum reflects what the shop currently holds.
func (o *Order) AmountPaid() kernel.Money {
	sum := kernel.ZeroMoney(o.currency)
	for _, p := range o.payments {
		sum, _ = sum.Add(p.Amount()) // currencies are enforced by RegisterPayment
	}
	return sum
}

// IsFullyPaid reports whether the ledger covers the order total.
func (o *Order) IsFullyPaid() bool {
	return o.AmountPaid().GreaterThanOrEqual(o.total)
}

// DeliveredQuantity returns how many units of the item have been attached to
// deliveries so far, across all shipments.
func (o *Order) DeliveredQuantity(itemID kernel.UUID) int {
	total := 0
	for _, d := range o.deliveries {
		total += d.DeliveredQuantity(itemID)
	}
	return total
}

// UnfulfilledItems returns the ordered, non-canceled quantity not yet covered
// by any delivery. Picking is only permitted while this is positive.
func (o *Order) UnfulfilledItems() int {
	total := 0
	for _, item := range o.items {
		if item.Canceled() {
			continue
		}
		total += item.Quantity() - o.DeliveredQuantity(item.ID())
	}
	return total
}

// OpenDelivery returns the order's unshipped delivery, or nil.
// The aggregate keeps at most one delivery open at a time.
func (o *Order) OpenDelivery() *Delivery {
	for _, d := range o.deliveries {
		if !d.IsShipped() {
			return d
		}
	}
	return nil
}

// LatestDelivery returns the most recently created delivery, or nil.
func (o *Order) LatestDelivery() *Delivery {
	if len(o.deliveries) == 0 {
		return nil
	}
	return o.deliveries[len(o.deliveries)-1]
}

// DeliveryNumber renders the delivery's display number: the order number,
// suffixed with a sequential part index when the order has more than one
// delivery.
func (o *Order) DeliveryNumber(d *Delivery) string {
	for idx, candidate := range o.deliveries {
		if candidate.ID().IsEqual(d.ID()) {
			return d.number(o.number, idx, len(o.deliveries))
		}
	}
	return o.number
}

// PackGoods applies the administrative delivery decisions: items flagged
// canceled are canceled, and positive quantities of the remaining items are
// attached to the order's open delivery, creating one with the given id and
// shipping method if none is open.
//
// Returns the delivery that received items, or nil if every decision resolved
// to nothing: an empty delivery is discarded, not persisted (and no delivery
// is created in the first place).
func (o *Order) PackGoods(
	deliveryID kernel.UUID,
	shippingMethod string,
	decisions []DeliveryDecision,
) (*Delivery, error) {
	type attachment struct {
		itemID   kernel.UUID
		quantity int
	}
	attachments := make([]attachment, 0, len(decisions))

	for _, decision := range decisions {
		item, err := o.ItemByID(decision.ItemID)
		if err != nil {
			return nil, err
		}

		if decision.Canceled {
			if err = o.CancelItem(decision.ItemID); err != nil {
				return nil, err
			}
			continue
		}
		if decision.Quantity <= 0 || item.Canceled() {
			continue
		}

		remaining := item.Quantity() - o.DeliveredQuantity(item.ID())
		if decision.Quantity > remaining {
			return nil, errs.NewValueIsOutOfRangeError(
				fmt.Sprintf("deliver quantity of item %s", item.ID()), decision.Quantity, 0, remaining)
		}
		attachments = append(attachments, attachment{itemID: item.ID(), quantity: decision.Quantity})
	}

	if len(attachments) == 0 {
		return nil, nil
	}

	delivery := o.OpenDelivery()
	if delivery == nil {
		created, err := NewDelivery(deliveryID, shippingMethod)
		if err != nil {
			return nil, err
		}
		o.deliveries = append(o.deliveries, created)
		delivery = created
	}

	for _, a := range attachments {
		delivery.attach(a.itemID, a.quantity)
	}
	delivery.MarkFulfilled(time.Now().UTC())
	o.touch()
	return delivery, nil
}

// WithdrawOpenDelivery removes the open (unshipped) delivery, reversing an
// in-progress shipment. Used as the compensating action of cancellation.
// Returns the withdrawn delivery, or nil if none was open.
func (o *Order) WithdrawOpenDelivery() *Delivery {
	for idx, d := range o.deliveries {
		if !d.IsShipped() {
			o.deliveries = append(o.deliveries[:idx], o.deliveries[idx+1:]...)
			o.touch()
			return d
		}
	}
	return nil
}

// CancelItem marks a line item as administratively canceled, excluding it
// from fulfillment accounting. Rejected once the item is covered by a
// delivery.
func (o *Order) CancelItem(itemID kernel.UUID) error {
	item, err := o.ItemByID(itemID)
	if err != nil {
		return err
	}
	if o.DeliveredQuantity(itemID) > 0 {
		return ErrItemLockedByDelivery
	}

	item.canceled = true
	o.touch()
	return nil
}

// SetItemQuantity adjusts an item's ordered quantity administratively.
// Rejected once the item is covered by a delivery.
func (o *Order) SetItemQuantity(itemID kernel.UUID, quantity int) error {
	item, err := o.ItemByID(itemID)
	if err != nil {
		return err
	}
	if o.DeliveredQuantity(itemID) > 0 {
		return ErrItemLockedByDelivery
	}
	if err = item.setQuantity(quantity); err != nil {
		return err
	}

	o.touch()
	return nil
}

// Annotate stores a free-form key-value pair in the order's extra bag.
func (o *Order) Annotate(key, value string) error {
	if key == "" {
		return errs.NewValueIsRequiredError("annotation key")
	}
	o.extra[key] = value
	o.touch()
	return nil
}

func (o *Order) touch() {
	o.updatedAt = time.Now().UTC()
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	if number == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	o.number = number
	return nil
}

func (o *Order) setCustomer(customerID kernel.UUID, email string) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	if email == "" {
		return errs.NewValueIsRequiredError("customer email")
	}
	o.customerID = customerID
	o.customerEmail = email
	return nil
}

func (o *Order) setCurrency(currency string) error {
	if currency == "" {
		return errs.NewValueIsRequiredError("currency")
	}
	o.currency = currency
	return nil
}
