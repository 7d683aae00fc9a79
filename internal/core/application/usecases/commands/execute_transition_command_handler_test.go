package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExecuteTransitionCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	stored := storedOrder(t, id, "100.00")
	cmd, _ := commands.NewRequestPaymentCommand(id)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).Return(stored, nil).Once(),
		repo.On("Update", mock.Anything, stored).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewExecuteTransitionCommandHandler(factory, testWorkflow(t))
	status, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.StatusAwaitingPayment, status)
	assert.Equal(t, order.StatusAwaitingPayment, stored.Status())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestExecuteTransitionCommandHandler_Handle_RejectedTransitionRollsBack(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	stored := storedOrder(t, id, "100.00") // created: pick_goods has no legal source
	cmd, _ := commands.NewPickGoodsCommand(id)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).Return(stored, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewExecuteTransitionCommandHandler(factory, testWorkflow(t))
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrTransitionNotAllowed)
	assert.Equal(t, order.StatusCreated, stored.Status())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestExecuteTransitionCommandHandler_Handle_NotifiesObserversAfterCommit(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	// zero-total order: request_payment resolves to no_payment_required and
	// the acknowledge auto fires, so one command executes two transitions
	stored := storedOrder(t, id, "")
	cmd, _ := commands.NewRequestPaymentCommand(id)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	observer := &recordingObserver{}
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).Return(stored, nil).Once(),
		repo.On("Update", mock.Anything, stored).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Run(func(mock.Arguments) {
			// the mail dispatcher hangs off these notifications, so none may
			// be delivered before the order change is durable
			assert.Empty(t, observer.transitions)
		}).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewExecuteTransitionCommandHandler(factory, testWorkflow(t, observer))
	status, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaymentConfirmed, status)
	assert.Equal(t, []string{"request_payment", "acknowledge_prepayment"}, observer.transitions)
	uow.AssertExpectations(t)
}

func TestExecuteTransitionCommandHandler_Handle_UpdateFailureSkipsObservers(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	stored := storedOrder(t, id, "100.00")
	cmd, _ := commands.NewRequestPaymentCommand(id)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	observer := &recordingObserver{}
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).Return(stored, nil).Once(),
		repo.On("Update", mock.Anything, stored).Return(errors.New("connection reset")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewExecuteTransitionCommandHandler(factory, testWorkflow(t, observer))
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	// the transition rolled back, so nothing may be announced for it
	assert.Empty(t, observer.transitions)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestExecuteTransitionCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewRequestPaymentCommand(id)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).
			Return(nil, errs.NewObjectNotFoundError("order", id.String())).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewExecuteTransitionCommandHandler(factory, testWorkflow(t))
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}
