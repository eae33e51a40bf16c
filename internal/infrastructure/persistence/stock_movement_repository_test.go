package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smallerp/backend/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMovement(t *testing.T, productID uuid.UUID, movementType string, qty string) *inventory.StockMovement {
	t.Helper()
	in := inventory.MovementInput{
		ProductID:     productID,
		Type:          inventory.MovementType(movementType),
		Quantity:      dec(qty),
		ReferenceType: inventory.ReferenceTypeAdjustment,
		UserID:        uuid.New(),
	}
	if movementType != string(inventory.MovementTypeAdjustment) {
		ref := uuid.New()
		in.ReferenceID = &ref
		in.ReferenceType = inventory.ReferenceTypeSale
		if movementType == string(inventory.MovementTypeIn) {
			in.ReferenceType = inventory.ReferenceTypePurchase
		}
	}
	m, err := inventory.NewStockMovement(in)
	require.NoError(t, err)
	return m
}

func TestGormStockMovementRepository(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewGormStockMovementRepository(db)

	productID := uuid.New()
	base := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	opening := newMovement(t, productID, "adjustment", "10")
	opening.CreatedAt = base
	received := newMovement(t, productID, "in", "20")
	received.CreatedAt = base.Add(time.Hour)
	sold := newMovement(t, productID, "out", "5")
	sold.CreatedAt = base.Add(2 * time.Hour)
	unrelated := newMovement(t, uuid.New(), "in", "7")
	unrelated.CreatedAt = base

	for _, m := range []*inventory.StockMovement{sold, opening, received, unrelated} {
		require.NoError(t, repo.Append(ctx, m))
	}

	t.Run("full history oldest first", func(t *testing.T) {
		movements, err := repo.ListByProductSince(ctx, productID, time.Time{})
		require.NoError(t, err)
		require.Len(t, movements, 3)
		assert.Equal(t, opening.ID, movements[0].ID)
		assert.Equal(t, received.ID, movements[1].ID)
		assert.Equal(t, sold.ID, movements[2].ID)
		assert.Equal(t, inventory.MovementTypeOut, movements[2].Type)
		assert.Equal(t, sold.UserID, movements[2].UserID)
		require.NotNil(t, movements[2].ReferenceID)
		assert.Equal(t, *sold.ReferenceID, *movements[2].ReferenceID)
	})

	t.Run("since is inclusive", func(t *testing.T) {
		movements, err := repo.ListByProductSince(ctx, productID, base.Add(time.Hour))
		require.NoError(t, err)
		require.Len(t, movements, 2)
		assert.Equal(t, received.ID, movements[0].ID)
	})

	t.Run("by reference", func(t *testing.T) {
		movements, err := repo.ListByReference(ctx, inventory.ReferenceTypePurchase, *received.ReferenceID)
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.True(t, movements[0].Quantity.Equal(dec("20")))
	})

	t.Run("signed sum", func(t *testing.T) {
		sum, err := repo.SumByProduct(ctx, productID)
		require.NoError(t, err)
		assert.True(t, sum.Equal(dec("25")), "got %s", sum)
	})

	t.Run("sum of nothing is zero", func(t *testing.T) {
		sum, err := repo.SumByProduct(ctx, uuid.New())
		require.NoError(t, err)
		assert.True(t, sum.IsZero())
	})
}
