package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// RegisterPaymentCommandHandler appends a ledger entry to the order and,
// while the order is awaiting payment, confirms the deposit through the
// workflow. Partial deposits loop back to awaiting_payment; a covering one
// advances the order. Refund entries on a canceled order only grow the
// ledger, the refund is confirmed separately.
type RegisterPaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	workflow   *services.Workflow
}

// NewRegisterPaymentCommandHandler creates a handler for payment callbacks.
func NewRegisterPaymentCommandHandler(
	uowFactory OrderUoWFactory,
	workflow *services.Workflow,
) RegisterPaymentCommandHandler {
	return RegisterPaymentCommandHandler{
		uowFactory: uowFactory,
		workflow:   workflow,
	}
}

// Handle appends the ledger entry and returns the order's final status.
func (h *RegisterPaymentCommandHandler) Handle(
	ctx context.Context,
	cmd RegisterPaymentCommand,
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

	payment, err := order.NewPayment(
		cmd.Amount(), cmd.TransactionID(), cmd.Method(), time.Now().UTC())
	if err != nil {
		return "", err
	}
	if err = aggregate.RegisterPayment(payment); err != nil {
		return "", err
	}

	var executed []services.ExecutedTransition
	if aggregate.Status() == order.StatusAwaitingPayment {
		outcome, attemptErr := h.workflow.AttemptWith(
			ctx, aggregate, "prepayment_deposited", services.Input{})
		if attemptErr != nil {
			return "", attemptErr
		}
		executed = outcome.Executed
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return "", err
	}

	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	h.workflow.Notify(ctx, aggregate, executed)
	return aggregate.Status(), nil
}
