package services

import (
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// guardFullyPaid holds when the payment ledger covers the order total.
var guardFullyPaid = order.Guard{
	Name:  "fully_paid",
	Check: func(o *order.Order) bool { return o.IsFullyPaid() },
}

// guardReadyForDelivery holds when the order is fully paid AND unfulfilled
// items remain; picking under the partial policy is permitted only then.
var guardReadyForDelivery = order.Guard{
	Name: "ready_for_delivery",
	Check: func(o *order.Order) bool {
		return o.IsFullyPaid() && o.UnfulfilledItems() > 0
	},
}

// SimpleShippingWorkflow is the shipping policy without partial delivery:
// a linear pick → pack → ship sequence of admin actions, no Delivery objects,
// and an automatic advance to ready_for_delivery once goods are shipped.
type SimpleShippingWorkflow struct{}

// NewSimpleShippingWorkflow creates the simple shipping policy.
func NewSimpleShippingWorkflow() *SimpleShippingWorkflow {
	return &SimpleShippingWorkflow{}
}

// Transitions implements WorkflowPolicy.
func (s *SimpleShippingWorkflow) Transitions() []order.Transition {
	return []order.Transition{
		{
			Name:       "pick_goods",
			Sources:    []order.Status{order.StatusPaymentConfirmed},
			Targets:    []order.Status{order.StatusPickGoods},
			Guards:     []order.Guard{guardFullyPaid},
			Kind:       order.KindAdmin,
			ButtonName: "Pick the goods",
		},
		{
			Name:       "pack_goods",
			Sources:    []order.Status{order.StatusPickGoods},
			Targets:    []order.Status{order.StatusPackGoods},
			Kind:       order.KindAdmin,
			ButtonName: "Pack the goods",
		},
		{
			Name:       "ship_goods",
			Sources:    []order.Status{order.StatusPackGoods},
			Targets:    []order.Status{order.StatusShipGoods},
			Kind:       order.KindAdmin,
			ButtonName: "Ship the goods",
		},
		{
			Name:    "ready_for_delivery",
			Sources: []order.Status{order.StatusShipGoods},
			Targets: []order.Status{order.StatusReadyForDelivery},
			Kind:    order.KindAuto,
		},
	}
}

// Effects implements WorkflowPolicy. The simple policy has none: no Delivery
// objects are created and no carrier hook runs.
func (s *SimpleShippingWorkflow) Effects() map[string]Effect {
	return map[string]Effect{}
}

// PartialShippingWorkflow is the shipping policy with partial delivery
// tracking. Picking is re-enterable from payment_confirmed, pack_goods, or
// ship_goods while paid-for items remain unfulfilled; packing attaches the
// explicitly decided item quantities to the open delivery; shipping hands the
// open delivery to the active shipping modifier. The automatic advance to
// ready_for_delivery happens only once no unfulfilled items remain, so
// further pick rounds stay reachable for multi-shipment orders.
type PartialShippingWorkflow struct {
	modifiers *ModifierRegistry
}

// NewPartialShippingWorkflow creates the partial-delivery shipping policy.
// The modifier registry supplies each order's active shipping method.
func NewPartialShippingWorkflow(modifiers *ModifierRegistry) *PartialShippingWorkflow {
	return &PartialShippingWorkflow{modifiers: modifiers}
}

// Transitions implements WorkflowPolicy.
func (s *PartialShippingWorkflow) Transitions() []order.Transition {
	return []order.Transition{
		{
			Name: "pick_goods",
			Sources: []order.Status{
				order.StatusPaymentConfirmed,
				order.StatusPackGoods,
				order.StatusShipGoods,
			},
			Targets:    []order.Status{order.StatusPickGoods},
			Guards:     []order.Guard{guardReadyForDelivery},
			Kind:       order.KindAdmin,
			ButtonName: "Pick the goods",
		},
		{
			Name:       "pack_goods",
			Sources:    []order.Status{order.StatusPickGoods},
			Targets:    []order.Status{order.StatusPackGoods},
			Kind:       order.KindAdmin,
			ButtonName: "Pack the goods",
		},
		{
			Name:    "ship_goods",
			Sources: []order.Status{order.StatusPackGoods},
			Targets: []order.Status{order.StatusShipGoods},
			Guards: []order.Guard{
				{Name: "open_delivery_exists", Check: func(o *order.Order) bool {
					return o.OpenDelivery() != nil
				}},
			},
			Kind:       order.KindAdmin,
			ButtonName: "Ship the goods",
		},
		{
			Name:    "ready_for_delivery",
			Sources: []order.Status{order.StatusShipGoods},
			Targets: []order.Status{order.StatusReadyForDelivery},
			Guards: []order.Guard{
				{Name: "nothing_unfulfilled", Check: func(o *order.Order) bool {
					return o.UnfulfilledItems() == 0
				}},
			},
			Kind: order.KindAuto,
		},
	}
}

// Effects implements WorkflowPolicy.
func (s *PartialShippingWorkflow) Effects() map[string]Effect {
	return map[string]Effect{
		"pack_goods": func(o *order.Order, in Input) error {
			method := s.modifiers.ShippingFor(o).Choice().Code
			_, err := o.PackGoods(in.DeliveryID, method, in.Decisions)
			return err
		},
		"ship_goods": func(o *order.Order, _ Input) error {
			delivery := o.OpenDelivery()
			if delivery == nil {
				// Guarded against, but a withdrawn delivery between guard and
				// effect would leave nothing to ship.
				return errs.NewObjectNotFoundError("open delivery", o.ID().String())
			}
			return s.modifiers.ShippingFor(o).ShipTheGoods(delivery)
		},
	}
}
