package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	transitions []string
}

func (r *recordingObserver) OnTransition(_ context.Context, _ *order.Order, transition string, _ order.Status) {
	r.transitions = append(r.transitions, transition)
}

func testWorkflow(t *testing.T, observers ...services.TransitionObserver) *services.Workflow {
	t.Helper()
	registry, err := services.NewModifierRegistry(
		"postal-shipping",
		[]services.ShippingModifier{services.PostalShippingModifier{}},
		[]services.PaymentModifier{services.AdvancePaymentModifier{}},
	)
	require.NoError(t, err)

	w, err := services.NewWorkflow(
		[]services.WorkflowPolicy{
			services.NewPaymentWorkflow(nil),
			services.NewPartialShippingWorkflow(registry),
			services.NewCancellationWorkflow(nil, nil),
		},
		observers,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.NoError(t, err)
	return w
}

func euros(t *testing.T, amount string) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoneyFromString(amount, "EUR")
	require.NoError(t, err)
	return m
}

func storedOrder(t *testing.T, id kernel.UUID, lineTotal string) *order.Order {
	t.Helper()
	o, err := order.NewOrder(id, "2026-00001", kernel.NewUUID(), "customer@example.com", "EUR")
	require.NoError(t, err)
	if lineTotal != "" {
		item, itemErr := order.NewItem(kernel.NewUUID(), "SKU-1", "Widget", euros(t, lineTotal), 1)
		require.NoError(t, itemErr)
		require.NoError(t, o.AddItem(item))
	}
	return o
}

func payOrder(t *testing.T, o *order.Order, amount string) {
	t.Helper()
	p, err := order.NewPayment(euros(t, amount), "tx-"+amount, "advance-payment", time.Now())
	require.NoError(t, err)
	require.NoError(t, o.RegisterPayment(p))
}
