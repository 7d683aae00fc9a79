package order_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	t.Run("should accept all declared status tokens", func(t *testing.T) {
		statuses := []order.Status{
			order.StatusNew,
			order.StatusCreated,
			order.StatusAwaitingPayment,
			order.StatusPrepaymentDeposited,
			order.StatusNoPaymentRequired,
			order.StatusPaymentConfirmed,
			order.StatusPaymentDeclined,
			order.StatusPickGoods,
			order.StatusPackGoods,
			order.StatusShipGoods,
			order.StatusReadyForDelivery,
			order.StatusRefundPayment,
			order.StatusCanceled,
		}

		for _, s := range statuses {
			require.NoError(t, s.Validate(), "status %s should be valid", s)
		}
	})

	t.Run("should reject unknown tokens", func(t *testing.T) {
		err := order.Status("on_hold").Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "on_hold")
	})

	t.Run("should reject the empty token", func(t *testing.T) {
		require.Error(t, order.Status("").Validate())
	})
}

func TestStatus_String(t *testing.T) {
	t.Run("should return the persisted token", func(t *testing.T) {
		assert.Equal(t, "awaiting_payment", order.StatusAwaitingPayment.String())
		assert.Equal(t, "order_canceled", order.StatusCanceled.String())
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	t.Run("only order_canceled is terminal", func(t *testing.T) {
		assert.True(t, order.StatusCanceled.IsTerminal())
		assert.False(t, order.StatusCreated.IsTerminal())
		assert.False(t, order.StatusReadyForDelivery.IsTerminal())
		assert.False(t, order.StatusRefundPayment.IsTerminal())
	})
}
