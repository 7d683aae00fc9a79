package order

import (
	"fmt"
	"slices"

	"fulfillment/internal/pkg/errs"
)

// Kind classifies how a transition is triggered.
type Kind int

const (
	// KindManual transitions are invoked programmatically, e.g. by a payment callback.
	KindManual Kind = iota

	// KindAuto transitions fire automatically after another transition lands
	// in one of their source states and their guards hold.
	KindAuto

	// KindAdmin transitions are exposed as explicit administrative actions
	// with a button label.
	KindAdmin
)

// Guard is a named boolean predicate over order state. All guards of a
// transition must hold for the transition to be eligible. Guards must be pure:
// they read the order and decide, nothing else.
type Guard struct {
	Name  string
	Check func(*Order) bool
}

// Resolver selects the target state of a multi-target transition at runtime,
// after all guards have passed. It must be a pure function of order state and
// must return one of the transition's declared targets.
type Resolver func(*Order) Status

// Transition is one guarded edge (or edge bundle) of the order status state
// machine. Transitions are declarative metadata: the workflow engine in the
// services package looks them up by name and applies them through Order.Apply,
// which is the only way an order's status ever changes.
//
// A transition with several Targets carries a Resolver that picks the actual
// target once the guards have passed; a single-target transition needs none.
type Transition struct {
	Name    string
	Sources []Status
	Targets []Status
	Guards  []Guard
	Resolve Resolver
	Kind    Kind

	// ButtonName is the admin action label, set for KindAdmin transitions only.
	ButtonName string
}

// AllowedFrom reports whether s is a legal source state for the transition.
func (t Transition) AllowedFrom(s Status) bool {
	return slices.Contains(t.Sources, s)
}

// Eligible reports whether the transition could fire on the order right now:
// the current status is a legal source and every guard holds. Used for the
// auto-fire loop and for listing available admin actions.
func (t Transition) Eligible(o *Order) bool {
	if !t.AllowedFrom(o.Status()) {
		return false
	}
	for _, g := range t.Guards {
		if !g.Check(o) {
			return false
		}
	}
	return true
}

// Validate checks the structural integrity of the transition definition.
// Called once at engine construction, not per attempt.
func (t Transition) Validate() error {
	if t.Name == "" {
		return errs.NewValueIsRequiredError("transition name")
	}
	if len(t.Sources) == 0 {
		return errs.NewValueIsRequiredError(fmt.Sprintf("sources of transition %s", t.Name))
	}
	if len(t.Targets) == 0 {
		return errs.NewValueIsRequiredError(fmt.Sprintf("targets of transition %s", t.Name))
	}
	if len(t.Targets) > 1 && t.Resolve == nil {
		return errs.NewValueIsRequiredError(fmt.Sprintf("resolver of multi-target transition %s", t.Name))
	}
	for _, s := range append(append([]Status{}, t.Sources...), t.Targets...) {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Apply executes the transition on the order: it verifies the current status
// is a legal source, evaluates every guard, resolves the target state, and
// only then mutates the status. On any failure the order is left unchanged
// and a TransitionNotAllowedError is returned.
//
// Apply performs no side effects beyond the status change itself; effects
// (creating deliveries, refund hooks, notifications) belong to the workflow
// engine that drives it.
func (o *Order) Apply(t Transition) (Status, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}

	if !t.AllowedFrom(o.status) {
		return "", errs.NewTransitionNotAllowedError(
			t.Name, string(o.status), "status is not a legal source for this transition")
	}

	for _, g := range t.Guards {
		if !g.Check(o) {
			return "", errs.NewTransitionNotAllowedError(
				t.Name, string(o.status), fmt.Sprintf("guard %s failed", g.Name))
		}
	}

	target := t.Targets[0]
	if t.Resolve != nil {
		target = t.Resolve(o)
		if !slices.Contains(t.Targets, target) {
			return "", errs.NewValueIsInvalidErrorWithCause("transition target",
				fmt.Errorf("resolver of %s returned undeclared target %q", t.Name, string(target)))
		}
	}

	o.status = target
	o.touch()
	return target, nil
}
