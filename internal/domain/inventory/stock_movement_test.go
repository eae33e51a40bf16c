package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func movementInput(t MovementType, qty int64, ref ReferenceType) MovementInput {
	refID := uuid.New()
	return MovementInput{
		ProductID:     uuid.New(),
		Type:          t,
		Quantity:      decimal.NewFromInt(qty),
		ReferenceType: ref,
		ReferenceID:   &refID,
		UserID:        uuid.New(),
	}
}

func TestMovementType_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		mt       MovementType
		expected bool
	}{
		{"in is valid", MovementTypeIn, true},
		{"out is valid", MovementTypeOut, true},
		{"adjustment is valid", MovementTypeAdjustment, true},
		{"uppercase is not valid", MovementType("IN"), false},
		{"empty is not valid", MovementType(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.mt.IsValid())
		})
	}
}

func TestReferenceType_IsValid(t *testing.T) {
	for _, r := range []ReferenceType{ReferenceTypeSale, ReferenceTypePurchase, ReferenceTypeAdjustment, ReferenceTypeReturn} {
		assert.True(t, r.IsValid(), r.String())
	}
	assert.False(t, ReferenceType("transfer").IsValid())
}

func TestNewStockMovement_Success(t *testing.T) {
	in := movementInput(MovementTypeIn, 20, ReferenceTypePurchase)
	m, err := NewStockMovement(in)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, m.ID)
	assert.Equal(t, in.ProductID, m.ProductID)
	assert.Equal(t, MovementTypeIn, m.Type)
	assert.True(t, m.Quantity.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, *in.ReferenceID, *m.ReferenceID)
	assert.Equal(t, in.UserID, m.UserID)
	assert.False(t, m.CreatedAt.IsZero())
}

func TestNewStockMovement_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(in *MovementInput)
		code   string
	}{
		{"missing product", func(in *MovementInput) { in.ProductID = uuid.Nil }, "INVALID_PRODUCT"},
		{"unknown type", func(in *MovementInput) { in.Type = "transfer" }, "INVALID_MOVEMENT_TYPE"},
		{"unknown reference", func(in *MovementInput) { in.ReferenceType = "invoice" }, "INVALID_REFERENCE_TYPE"},
		{"missing user", func(in *MovementInput) { in.UserID = uuid.Nil }, "MISSING_USER"},
		{"zero quantity", func(in *MovementInput) { in.Quantity = decimal.Zero }, "INVALID_QUANTITY"},
		{"negative quantity", func(in *MovementInput) { in.Quantity = decimal.NewFromInt(-3) }, "INVALID_QUANTITY"},
		{"quantity beyond four places", func(in *MovementInput) { in.Quantity = decimal.RequireFromString("2.50005") }, "INVALID_QUANTITY"},
		{"missing reference", func(in *MovementInput) { in.ReferenceID = nil }, "MISSING_REFERENCE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := movementInput(MovementTypeOut, 5, ReferenceTypeSale)
			tt.modify(&in)

			_, err := NewStockMovement(in)
			require.Error(t, err)
			assert.True(t, shared.IsValidation(err))

			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.code, de.Code)
		})
	}
}

func TestNewStockMovement_Adjustment(t *testing.T) {
	t.Run("accepts negative quantity without reference", func(t *testing.T) {
		in := movementInput(MovementTypeAdjustment, -4, ReferenceTypeAdjustment)
		in.ReferenceID = nil

		m, err := NewStockMovement(in)
		require.NoError(t, err)
		assert.Nil(t, m.ReferenceID)
		assert.True(t, m.SignedDelta().Equal(decimal.NewFromInt(-4)))
	})

	t.Run("rejects zero", func(t *testing.T) {
		in := movementInput(MovementTypeAdjustment, 0, ReferenceTypeAdjustment)
		_, err := NewStockMovement(in)
		assert.True(t, shared.IsValidation(err))
	})
}

func TestStockMovement_SignedDelta(t *testing.T) {
	in, err := NewStockMovement(movementInput(MovementTypeIn, 7, ReferenceTypePurchase))
	require.NoError(t, err)
	out, err := NewStockMovement(movementInput(MovementTypeOut, 7, ReferenceTypeSale))
	require.NoError(t, err)

	assert.True(t, in.SignedDelta().Equal(decimal.NewFromInt(7)))
	assert.True(t, out.SignedDelta().Equal(decimal.NewFromInt(-7)))
}
