package services

import (
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// ExtraShippingModifier is the key in the order's extra bag holding the
// chosen shipping modifier code.
const ExtraShippingModifier = "shipping_modifier"

// ModifierChoice is a value/label pair a modifier exposes for selection
// surfaces (checkout, admin).
type ModifierChoice struct {
	Code  string
	Label string
}

// ShippingModifier is one registered shipping method. Its ShipTheGoods hook
// runs when the ship_goods transition fires: it stamps the shipped timestamp
// and, depending on the method, assigns a shipping id.
type ShippingModifier interface {
	Choice() ModifierChoice
	ShipTheGoods(d *order.Delivery) error
}

// PaymentModifier is one registered payment method. Gateways themselves are
// outside this service; the modifier only contributes its selection choice
// and the method identifier recorded on ledger entries.
type PaymentModifier interface {
	Choice() ModifierChoice
}

// ModifierRegistry holds the configured shipping and payment modifiers.
// It is an explicit configuration struct built once at startup and passed
// into the workflow engine's collaborators, not a process-wide singleton.
type ModifierRegistry struct {
	shipping        map[string]ShippingModifier
	payment         map[string]PaymentModifier
	defaultShipping string
}

// NewModifierRegistry builds the registry. The default shipping code must
// refer to one of the given shipping modifiers.
func NewModifierRegistry(
	defaultShipping string,
	shipping []ShippingModifier,
	payment []PaymentModifier,
) (*ModifierRegistry, error) {
	r := &ModifierRegistry{
		shipping:        make(map[string]ShippingModifier, len(shipping)),
		payment:         make(map[string]PaymentModifier, len(payment)),
		defaultShipping: defaultShipping,
	}
	for _, m := range shipping {
		r.shipping[m.Choice().Code] = m
	}
	for _, m := range payment {
		r.payment[m.Choice().Code] = m
	}
	if _, ok := r.shipping[defaultShipping]; !ok {
		return nil, errs.NewObjectNotFoundError("shipping modifier", defaultShipping)
	}
	return r, nil
}

// ShippingFor returns the shipping modifier active for the order: the one
// recorded in the extra bag, or the configured default.
func (r *ModifierRegistry) ShippingFor(o *order.Order) ShippingModifier {
	if code, ok := o.Extra()[ExtraShippingModifier]; ok {
		if m, found := r.shipping[code]; found {
			return m
		}
	}
	return r.shipping[r.defaultShipping]
}

// Shipping returns the shipping modifier with the given code.
func (r *ModifierRegistry) Shipping(code string) (ShippingModifier, error) {
	m, ok := r.shipping[code]
	if !ok {
		return nil, errs.NewObjectNotFoundError("shipping modifier", code)
	}
	return m, nil
}

// Payment returns the payment modifier with the given code.
func (r *ModifierRegistry) Payment(code string) (PaymentModifier, error) {
	m, ok := r.payment[code]
	if !ok {
		return nil, errs.NewObjectNotFoundError("payment modifier", code)
	}
	return m, nil
}

// ShippingChoices lists the selectable shipping methods.
func (r *ModifierRegistry) ShippingChoices() []ModifierChoice {
	choices := make([]ModifierChoice, 0, len(r.shipping))
	for _, m := range r.shipping {
		choices = append(choices, m.Choice())
	}
	return choices
}

// PaymentChoices lists the selectable payment methods.
func (r *ModifierRegistry) PaymentChoices() []ModifierChoice {
	choices := make([]ModifierChoice, 0, len(r.payment))
	for _, m := range r.payment {
		choices = append(choices, m.Choice())
	}
	return choices
}

// SelfCollectionModifier is the built-in shipping method for customers
// collecting goods themselves. Shipping merely stamps the timestamp; there
// is no carrier and therefore no shipping id.
type SelfCollectionModifier struct{}

// Choice implements ShippingModifier.
func (SelfCollectionModifier) Choice() ModifierChoice {
	return ModifierChoice{Code: "self-collection", Label: "Self collection"}
}

// ShipTheGoods implements ShippingModifier.
func (SelfCollectionModifier) ShipTheGoods(d *order.Delivery) error {
	if err := d.Validate(); err != nil {
		return err
	}
	d.MarkShipped(time.Now().UTC())
	return nil
}

// PostalShippingModifier is the built-in carrier shipping method. Shipping
// stamps the timestamp and assigns the delivery's id as the tracking number.
type PostalShippingModifier struct{}

// Choice implements ShippingModifier.
func (PostalShippingModifier) Choice() ModifierChoice {
	return ModifierChoice{Code: "postal-shipping", Label: "Postal shipping"}
}

// ShipTheGoods implements ShippingModifier.
func (PostalShippingModifier) ShipTheGoods(d *order.Delivery) error {
	if err := d.Validate(); err != nil {
		return err
	}
	d.MarkShipped(time.Now().UTC())
	if d.ShippingID() == "" {
		d.SetShippingID(d.ID().String())
	}
	return nil
}

// AdvancePaymentModifier is the built-in bank-prepayment method.
type AdvancePaymentModifier struct{}

// Choice implements PaymentModifier.
func (AdvancePaymentModifier) Choice() ModifierChoice {
	return ModifierChoice{Code: "advance-payment", Label: "Advance payment"}
}
