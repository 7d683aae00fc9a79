package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// PackGoodsCommandHandler runs the pack_goods transition with the command's
// delivery decisions as effect input.
type PackGoodsCommandHandler struct {
	uowFactory OrderUoWFactory
	workflow   *services.Workflow
}

// NewPackGoodsCommandHandler creates a handler for the packing step.
func NewPackGoodsCommandHandler(
	uowFactory OrderUoWFactory,
	workflow *services.Workflow,
) PackGoodsCommandHandler {
	return PackGoodsCommandHandler{
		uowFactory: uowFactory,
		workflow:   workflow,
	}
}

// Handle runs pack_goods and returns the order's final status.
func (h *PackGoodsCommandHandler) Handle(ctx context.Context, cmd PackGoodsCommand) (order.Status, error) {
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

	outcome, err := h.workflow.AttemptWith(ctx, aggregate, "pack_goods", services.Input{
		DeliveryID: cmd.DeliveryID(),
		Decisions:  cmd.Decisions(),
	})
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
