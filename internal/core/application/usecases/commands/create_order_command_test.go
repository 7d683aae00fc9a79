package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	orderID := kernel.NewUUID()
	customerID := kernel.NewUUID()
	lines := []commands.OrderLine{
		{ProductCode: "SKU-1", ProductName: "Widget", UnitPrice: euros(t, "25.00"), Quantity: 2},
	}

	cmd, err := commands.NewCreateOrderCommand(orderID, customerID, "c@example.com", "EUR", lines)
	require.NoError(t, err)
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, customerID, cmd.CustomerID())
	assert.Equal(t, "c@example.com", cmd.CustomerEmail())
	assert.Equal(t, "EUR", cmd.Currency())
	assert.Len(t, cmd.Lines(), 1)
}

func TestNewCreateOrderCommand_EmptyLinesAllowed(t *testing.T) {
	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(), "c@example.com", "EUR", nil)
	require.NoError(t, err)
	assert.Empty(t, cmd.Lines())
}

func TestNewCreateOrderCommand_InvalidOrderID(t *testing.T) {
	invalidID := kernel.UUID{}
	_, err := commands.NewCreateOrderCommand(
		invalidID, kernel.NewUUID(), "c@example.com", "EUR", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewCreateOrderCommand_EmptyEmail(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(), "", "EUR", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrCustomerEmailIsRequired)
}

func TestNewCreateOrderCommand_EmptyCurrency(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(), "c@example.com", "", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrCurrencyIsRequired)
}
