package commands

import (
	"context"
)

// AnnotateOrderCommandHandler records a key-value annotation on an order.
type AnnotateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewAnnotateOrderCommandHandler creates a handler for order annotation.
func NewAnnotateOrderCommandHandler(uowFactory OrderUoWFactory) AnnotateOrderCommandHandler {
	return AnnotateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the annotation command.
func (h *AnnotateOrderCommandHandler) Handle(ctx context.Context, cmd AnnotateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.Annotate(cmd.Key(), cmd.Value()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
