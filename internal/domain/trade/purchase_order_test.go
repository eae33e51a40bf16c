package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func purchaseInput() PurchaseOrderInput {
	return PurchaseOrderInput{
		OrderNumber: "PO-20240101-0000BBBB",
		SupplierID:  uuid.New(),
		UserID:      uuid.New(),
		Items: []ItemInput{
			{ProductID: uuid.New(), Quantity: decimal.NewFromInt(20), UnitPrice: decimal.NewFromFloat(2.00)},
		},
		TaxRate: decimal.NewFromFloat(0.16),
	}
}

func TestPurchaseStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to PurchaseStatus
		want     bool
	}{
		{PurchaseStatusPending, PurchaseStatusConfirmed, true},
		{PurchaseStatusPending, PurchaseStatusReceived, true},
		{PurchaseStatusPending, PurchaseStatusCancelled, true},
		{PurchaseStatusConfirmed, PurchaseStatusReceived, true},
		{PurchaseStatusConfirmed, PurchaseStatusCancelled, true},
		{PurchaseStatusConfirmed, PurchaseStatusPending, false},
		{PurchaseStatusReceived, PurchaseStatusCancelled, false},
		{PurchaseStatusReceived, PurchaseStatusReceived, false},
		{PurchaseStatusCancelled, PurchaseStatusReceived, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("creates pending purchase", func(t *testing.T) {
		order, err := NewPurchaseOrder(purchaseInput())
		require.NoError(t, err)

		assert.Equal(t, PurchaseStatusPending, order.Status)
		assert.Equal(t, "net_30", order.PaymentTerms)
		assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(40)))
		assert.True(t, order.TaxAmount.Equal(decimal.NewFromFloat(6.4)))
		assert.True(t, order.TotalAmount.Equal(decimal.NewFromFloat(46.4)))
	})

	t.Run("creates confirmed purchase", func(t *testing.T) {
		in := purchaseInput()
		in.Status = PurchaseStatusConfirmed
		order, err := NewPurchaseOrder(in)
		require.NoError(t, err)
		assert.Equal(t, PurchaseStatusConfirmed, order.Status)
		assert.NotNil(t, order.ConfirmedAt)
	})

	t.Run("rejects creation as received", func(t *testing.T) {
		in := purchaseInput()
		in.Status = PurchaseStatusReceived
		_, err := NewPurchaseOrder(in)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("requires supplier", func(t *testing.T) {
		in := purchaseInput()
		in.SupplierID = uuid.Nil
		_, err := NewPurchaseOrder(in)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("rejects empty items", func(t *testing.T) {
		in := purchaseInput()
		in.Items = []ItemInput{}
		_, err := NewPurchaseOrder(in)
		assert.True(t, shared.IsValidation(err))
	})
}

func TestPurchaseOrder_Receive(t *testing.T) {
	t.Run("receives pending purchase", func(t *testing.T) {
		order, err := NewPurchaseOrder(purchaseInput())
		require.NoError(t, err)
		order.PullDomainEvents()

		require.NoError(t, order.Receive())
		assert.Equal(t, PurchaseStatusReceived, order.Status)
		assert.NotNil(t, order.ReceivedAt)

		events := order.PendingEvents()
		require.Len(t, events, 1)
		received, ok := events[0].(*PurchaseOrderReceivedEvent)
		require.True(t, ok)
		assert.Equal(t, order.UserID, received.UserID)
		assert.True(t, received.Lines[0].Quantity.Equal(decimal.NewFromInt(20)))
	})

	t.Run("second receive is rejected", func(t *testing.T) {
		order, err := NewPurchaseOrder(purchaseInput())
		require.NoError(t, err)
		require.NoError(t, order.Receive())

		err = order.Receive()
		require.Error(t, err)
		assert.True(t, shared.IsInvalidState(err))

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "ALREADY_RECEIVED", de.Code)
	})

	t.Run("cancelled purchase cannot be received", func(t *testing.T) {
		order, err := NewPurchaseOrder(purchaseInput())
		require.NoError(t, err)
		require.NoError(t, order.Cancel())

		assert.True(t, shared.IsInvalidState(order.Receive()))
	})
}

func TestPurchaseOrder_Update(t *testing.T) {
	t.Run("updates pending purchase", func(t *testing.T) {
		order, err := NewPurchaseOrder(purchaseInput())
		require.NoError(t, err)

		supplierID := uuid.New()
		err = order.Update(PurchaseOrderUpdate{
			SupplierID: supplierID,
			Items: []ItemInput{
				{ProductID: uuid.New(), Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(3)},
			},
			TaxRate:      decimal.Zero,
			PaymentTerms: "net_60",
		})
		require.NoError(t, err)
		assert.Equal(t, supplierID, order.SupplierID)
		assert.Equal(t, "net_60", order.PaymentTerms)
		assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(30)))
	})

	t.Run("rejects edit of received purchase", func(t *testing.T) {
		order, err := NewPurchaseOrder(purchaseInput())
		require.NoError(t, err)
		require.NoError(t, order.Receive())

		in := purchaseInput()
		err = order.Update(PurchaseOrderUpdate{SupplierID: in.SupplierID, Items: in.Items, TaxRate: in.TaxRate})
		assert.True(t, shared.IsInvalidState(err))
	})

	t.Run("rejects edit of cancelled purchase", func(t *testing.T) {
		order, err := NewPurchaseOrder(purchaseInput())
		require.NoError(t, err)
		require.NoError(t, order.Cancel())

		in := purchaseInput()
		err = order.Update(PurchaseOrderUpdate{SupplierID: in.SupplierID, Items: in.Items, TaxRate: in.TaxRate})
		assert.True(t, shared.IsInvalidState(err))
	})
}

func TestPurchaseOrder_ConfirmAndCancel(t *testing.T) {
	order, err := NewPurchaseOrder(purchaseInput())
	require.NoError(t, err)

	require.NoError(t, order.Confirm())
	assert.True(t, shared.IsInvalidState(order.Confirm()))

	require.NoError(t, order.Cancel())
	assert.Equal(t, PurchaseStatusCancelled, order.Status)
	assert.NoError(t, order.EnsureDeletable())
}

func TestPurchaseOrder_EnsureDeletable(t *testing.T) {
	order, err := NewPurchaseOrder(purchaseInput())
	require.NoError(t, err)
	assert.NoError(t, order.EnsureDeletable())

	require.NoError(t, order.Receive())
	assert.True(t, shared.IsInvalidState(order.EnsureDeletable()))
	assert.True(t, shared.IsInvalidState(order.Cancel()))
}
