package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// ExecuteTransitionCommandHandler loads the order, runs the requested
// transition through the workflow engine, and persists the result. The whole
// cycle happens inside one transaction, so a rejected transition or a failed
// effect leaves the stored order untouched.
type ExecuteTransitionCommandHandler struct {
	uowFactory OrderUoWFactory
	workflow   *services.Workflow
}

// NewExecuteTransitionCommandHandler creates a handler bound to the composed
// workflow engine.
func NewExecuteTransitionCommandHandler(
	uowFactory OrderUoWFactory,
	workflow *services.Workflow,
) ExecuteTransitionCommandHandler {
	return ExecuteTransitionCommandHandler{
		uowFactory: uowFactory,
		workflow:   workflow,
	}
}

// Handle runs the transition and returns the order's final status, after any
// auto transitions fired.
func (h *ExecuteTransitionCommandHandler) Handle(
	ctx context.Context,
	cmd ExecuteTransitionCommand,
) (order.Status, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return "", err
	}

	outcome, err := h.workflow.AttemptWith(ctx, aggregate, cmd.Transition(), services.Input{})
	if err != nil {
		return "", err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return "", err
	}

	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	h.workflow.Notify(ctx, aggregate, outcome.Executed)
	return outcome.Status, nil
}
