package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/shared"
)

// MovementType is the direction of a stock movement
type MovementType string

const (
	// MovementTypeIn adds stock (purchase receipt, returned sale)
	MovementTypeIn MovementType = "in"
	// MovementTypeOut removes stock (confirmed sale)
	MovementTypeOut MovementType = "out"
	// MovementTypeAdjustment carries a signed correction
	MovementTypeAdjustment MovementType = "adjustment"
)

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjustment:
		return true
	}
	return false
}

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// ReferenceType identifies the kind of document that caused a movement
type ReferenceType string

const (
	ReferenceTypeSale       ReferenceType = "sale"
	ReferenceTypePurchase   ReferenceType = "purchase"
	ReferenceTypeAdjustment ReferenceType = "adjustment"
	ReferenceTypeReturn     ReferenceType = "return"
)

// IsValid returns true if the reference type is valid
func (r ReferenceType) IsValid() bool {
	switch r {
	case ReferenceTypeSale, ReferenceTypePurchase, ReferenceTypeAdjustment, ReferenceTypeReturn:
		return true
	}
	return false
}

// String returns the string representation of ReferenceType
func (r ReferenceType) String() string {
	return string(r)
}

// StockMovement is an immutable ledger entry. Corrections are made with new
// movements, never by editing old ones.
//
// Quantity is positive for in and out movements. Adjustments carry their
// sign in Quantity.
type StockMovement struct {
	ID            uuid.UUID
	ProductID     uuid.UUID
	Type          MovementType
	Quantity      decimal.Decimal
	ReferenceType ReferenceType
	ReferenceID   *uuid.UUID
	UserID        uuid.UUID
	Notes         string
	CreatedAt     time.Time
}

// MovementInput carries the data for appending one movement
type MovementInput struct {
	ProductID     uuid.UUID
	Type          MovementType
	Quantity      decimal.Decimal
	ReferenceType ReferenceType
	ReferenceID   *uuid.UUID
	UserID        uuid.UUID
	Notes         string
}

// NewStockMovement validates the input and builds a ledger entry
func NewStockMovement(in MovementInput) (*StockMovement, error) {
	if in.ProductID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !in.Type.IsValid() {
		return nil, shared.NewValidationError("INVALID_MOVEMENT_TYPE", fmt.Sprintf("Unknown movement type %q", in.Type))
	}
	if !in.ReferenceType.IsValid() {
		return nil, shared.NewValidationError("INVALID_REFERENCE_TYPE", fmt.Sprintf("Unknown reference type %q", in.ReferenceType))
	}
	if in.UserID == uuid.Nil {
		return nil, shared.NewValidationError("MISSING_USER", "Acting user is required")
	}

	switch in.Type {
	case MovementTypeIn, MovementTypeOut:
		if !in.Quantity.IsPositive() {
			return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
		}
	case MovementTypeAdjustment:
		if in.Quantity.IsZero() {
			return nil, shared.NewValidationError("INVALID_QUANTITY", "Adjustment quantity cannot be zero")
		}
	}

	if !shared.FitsScale(in.Quantity) {
		return nil, shared.NewValidationError("INVALID_QUANTITY",
			fmt.Sprintf("Quantity cannot have more than %d decimal places", shared.StoredScale))
	}

	if in.ReferenceType != ReferenceTypeAdjustment && (in.ReferenceID == nil || *in.ReferenceID == uuid.Nil) {
		return nil, shared.NewValidationError("MISSING_REFERENCE", fmt.Sprintf("A %s movement must reference its document", in.ReferenceType))
	}
	if in.ReferenceID != nil && *in.ReferenceID == uuid.Nil {
		in.ReferenceID = nil
	}

	return &StockMovement{
		ID:            uuid.New(),
		ProductID:     in.ProductID,
		Type:          in.Type,
		Quantity:      in.Quantity,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		UserID:        in.UserID,
		Notes:         in.Notes,
		CreatedAt:     time.Now(),
	}, nil
}

// SignedDelta is the change this movement applies to stock_quantity
func (m *StockMovement) SignedDelta() decimal.Decimal {
	if m.Type == MovementTypeOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
