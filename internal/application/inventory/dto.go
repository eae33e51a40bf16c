package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/inventory"
)

// AdjustStockRequest is a signed manual correction of a product's stock
type AdjustStockRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Notes    string          `json:"notes" binding:"max=500"`
}

// MovementResponse represents a stock movement in API responses
type MovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	MovementType  string          `json:"movement_type"`
	Quantity      decimal.Decimal `json:"quantity"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   *uuid.UUID      `json:"reference_id,omitempty"`
	UserID        uuid.UUID       `json:"user_id"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ReconciliationResponse compares the stock counter with the ledger
type ReconciliationResponse struct {
	ProductID     uuid.UUID       `json:"product_id"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	LedgerStock   decimal.Decimal `json:"ledger_stock"`
	Drift         decimal.Decimal `json:"drift"`
	InSync        bool            `json:"in_sync"`
}

// ToMovementResponse converts a domain movement to its response
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		MovementType:  m.Type.String(),
		Quantity:      m.Quantity,
		ReferenceType: m.ReferenceType.String(),
		ReferenceID:   m.ReferenceID,
		UserID:        m.UserID,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}

// ToMovementResponses converts a slice of movements
func ToMovementResponses(movements []inventory.StockMovement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses
}

// ToReconciliationResponse converts a domain reconciliation to its response
func ToReconciliationResponse(r inventory.Reconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		ProductID:     r.ProductID,
		StockQuantity: r.StockQuantity,
		LedgerStock:   r.LedgerStock,
		Drift:         r.Drift,
		InSync:        r.InSync(),
	}
}
