package services

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// maxAutoFirings bounds the auto-transition loop per attempt. The declared
// policies move strictly forward, so hitting the bound means a policy bug.
const maxAutoFirings = 8

// Input carries per-invocation data handed to transition effects.
// Only the pack step consumes it today: the explicit delivery decisions and
// the id for the delivery that may be created.
type Input struct {
	DeliveryID kernel.UUID
	Decisions  []order.DeliveryDecision
}

// Effect is a side effect bound to a transition by a workflow policy. It runs
// after the status change succeeded, inside the same business transaction, so
// a failing effect aborts the whole attempt when the caller rolls back.
type Effect func(o *order.Order, in Input) error

// WorkflowPolicy is a composable bundle of transitions implementing one
// merchant policy: payment handling, shipping handling, or cancellation.
// Exactly one shipping policy is composed per deployment.
type WorkflowPolicy interface {
	// Transitions returns the policy's declarative transition metadata.
	Transitions() []order.Transition

	// Effects returns side effects keyed by transition name.
	Effects() map[string]Effect
}

// TransitionObserver receives one call per executed transition, including
// auto transitions and loop-backs. Observers run through Notify, which the
// caller invokes only once the order change is persisted, so an observer
// never sees a transition that a rollback later undid. Observers are
// fire-and-forget: they must handle their own failures and never block
// order progression.
type TransitionObserver interface {
	OnTransition(ctx context.Context, o *order.Order, transition string, target order.Status)
}

// ExecutedTransition records one state change made during an attempt.
type ExecutedTransition struct {
	Name   string
	Target order.Status
}

// Outcome describes a completed attempt: the order's final status and the
// transitions that executed, the named one first, then autos in firing order.
type Outcome struct {
	Status   order.Status
	Executed []ExecutedTransition
}

// AdminAction describes one administrative transition currently eligible on
// an order, with the button label to render for it.
type AdminAction struct {
	Transition string
	ButtonName string
}

// Workflow is the order fulfillment state machine engine. It interprets the
// transition table contributed by its policies: a single generic attempt
// operation checks the source state, evaluates guards, resolves the target,
// runs the transition's effect, fires eligible auto transitions to
// quiescence, and reports the executed transitions back to the caller.
// The caller fans them out to observers with Notify once persisted.
//
// The engine holds no global state. Policies, observers, and hooks are
// injected once at construction; application configuration decides which
// shipping policy and cancelable states are active.
type Workflow struct {
	transitions map[string]order.Transition
	autos       []order.Transition
	effects     map[string]Effect
	observers   []TransitionObserver
	logger      *slog.Logger
}

// NewWorkflow composes the engine from its policies. Transition names must
// be unique across policies; each transition is structurally validated once
// here rather than on every attempt.
func NewWorkflow(
	policies []WorkflowPolicy,
	observers []TransitionObserver,
	logger *slog.Logger,
) (*Workflow, error) {
	if len(policies) == 0 {
		return nil, errs.NewValueIsRequiredError("workflow policies")
	}
	if logger == nil {
		logger = slog.Default()
	}

	w := &Workflow{
		transitions: make(map[string]order.Transition),
		effects:     make(map[string]Effect),
		observers:   observers,
		logger:      logger.With("component", "workflow"),
	}

	for _, policy := range policies {
		for _, t := range policy.Transitions() {
			if err := t.Validate(); err != nil {
				return nil, err
			}
			if _, exists := w.transitions[t.Name]; exists {
				return nil, errs.NewValueIsInvalidErrorWithCause("workflow policies",
					fmt.Errorf("transition %s is declared twice", t.Name))
			}
			w.transitions[t.Name] = t
			if t.Kind == order.KindAuto {
				w.autos = append(w.autos, t)
			}
		}
		for name, effect := range policy.Effects() {
			w.effects[name] = effect
		}
	}

	return w, nil
}

// Attempt executes the named transition on the order, then fires any
// eligible auto transitions. Returns the order's final status.
//
// An unknown transition name, an illegal source state, or a failed guard
// rejects the attempt with no mutation; the caller surfaces those as
// validation errors, not fatal failures.
func (w *Workflow) Attempt(ctx context.Context, o *order.Order, name string) (order.Status, error) {
	out, err := w.AttemptWith(ctx, o, name, Input{})
	if err != nil {
		return "", err
	}
	return out.Status, nil
}

// AttemptWith is Attempt with per-invocation effect input and the full
// outcome: the pack step passes its delivery decisions through, and command
// handlers keep the executed list for the post-commit observer fan-out.
func (w *Workflow) AttemptWith(
	ctx context.Context,
	o *order.Order,
	name string,
	in Input,
) (Outcome, error) {
	t, ok := w.transitions[name]
	if !ok {
		return Outcome{}, errs.NewObjectNotFoundError("transition", name)
	}

	var executed []ExecutedTransition
	if err := w.execute(ctx, o, t, in, &executed); err != nil {
		return Outcome{}, err
	}

	if err := w.fireAutos(ctx, o, &executed); err != nil {
		return Outcome{}, err
	}
	return Outcome{Status: o.Status(), Executed: executed}, nil
}

// Notify fans executed transitions out to the observers, in execution order.
// Callers invoke it after the order change is committed; enqueueing mail for
// a transition that a rollback undid would notify the customer of a state
// the order never reached.
func (w *Workflow) Notify(ctx context.Context, o *order.Order, executed []ExecutedTransition) {
	for _, e := range executed {
		for _, observer := range w.observers {
			observer.OnTransition(ctx, o, e.Name, e.Target)
		}
	}
}

// Transition returns the declared transition metadata by name.
func (w *Workflow) Transition(name string) (order.Transition, error) {
	t, ok := w.transitions[name]
	if !ok {
		return order.Transition{}, errs.NewObjectNotFoundError("transition", name)
	}
	return t, nil
}

// AvailableAdminActions lists the admin-kind transitions currently eligible
// on the order, sorted by transition name so the admin surface renders the
// same button order on every request. One button per entry.
func (w *Workflow) AvailableAdminActions(o *order.Order) []AdminAction {
	actions := make([]AdminAction, 0)
	for _, t := range w.transitions {
		if t.Kind == order.KindAdmin && t.Eligible(o) {
			actions = append(actions, AdminAction{Transition: t.Name, ButtonName: t.ButtonName})
		}
	}
	slices.SortFunc(actions, func(a, b AdminAction) int {
		return cmp.Compare(a.Transition, b.Transition)
	})
	return actions
}

// execute runs one transition and appends it to the executed journal.
func (w *Workflow) execute(
	ctx context.Context,
	o *order.Order,
	t order.Transition,
	in Input,
	executed *[]ExecutedTransition,
) error {
	target, err := o.Apply(t)
	if err != nil {
		return err
	}

	if effect := w.effects[t.Name]; effect != nil {
		if err = effect(o, in); err != nil {
			return fmt.Errorf("effect of transition %s failed: %w", t.Name, err)
		}
	}

	w.logger.InfoContext(ctx, "Order transition executed",
		"order", o.ID().String(), "transition", t.Name, "target", string(target))

	*executed = append(*executed, ExecutedTransition{Name: t.Name, Target: target})
	return nil
}

// fireAutos repeatedly executes the first eligible auto transition until none
// applies. Auto transitions move state strictly forward, so the loop reaches
// quiescence quickly; the iteration bound only trips on a misdeclared policy.
func (w *Workflow) fireAutos(ctx context.Context, o *order.Order, executed *[]ExecutedTransition) error {
	for range maxAutoFirings {
		fired := false
		for _, t := range w.autos {
			if !t.Eligible(o) {
				continue
			}
			if err := w.execute(ctx, o, t, Input{}, executed); err != nil {
				return err
			}
			fired = true
			break
		}
		if !fired {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("auto transitions",
		fmt.Errorf("no quiescence after %d firings on order %s", maxAutoFirings, o.ID()))
}
