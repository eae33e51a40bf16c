package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/shared"
)

// AggregateTypeProductStock is the aggregate type used for stock events
const AggregateTypeProductStock = "ProductStock"

// EventTypeStockMoved is raised after a movement has been applied
const EventTypeStockMoved = "StockMoved"

// StockMovedEvent is raised when a movement has been appended and applied
type StockMovedEvent struct {
	shared.BaseDomainEvent
	MovementID    uuid.UUID       `json:"movement_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	SKU           string          `json:"sku"`
	MovementType  MovementType    `json:"movement_type"`
	Quantity      decimal.Decimal `json:"quantity"`
	ReferenceType ReferenceType   `json:"reference_type"`
	ReferenceID   *uuid.UUID      `json:"reference_id,omitempty"`
	StockAfter    decimal.Decimal `json:"stock_after"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
}

// NewStockMovedEvent creates a new StockMovedEvent
func NewStockMovedEvent(m *StockMovement, sku string, stockAfter, minStockLevel decimal.Decimal) *StockMovedEvent {
	return &StockMovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockMoved, AggregateTypeProductStock, m.ProductID),
		MovementID:      m.ID,
		ProductID:       m.ProductID,
		SKU:             sku,
		MovementType:    m.Type,
		Quantity:        m.Quantity,
		ReferenceType:   m.ReferenceType,
		ReferenceID:     m.ReferenceID,
		StockAfter:      stockAfter,
		MinStockLevel:   minStockLevel,
	}
}

// IsLowStock reports whether the movement left the product at or below
// its minimum level
func (e *StockMovedEvent) IsLowStock() bool {
	return e.StockAfter.LessThanOrEqual(e.MinStockLevel)
}
