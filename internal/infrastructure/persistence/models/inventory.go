package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/inventory"
)

// StockMovementModel is the persistence model for a ledger entry. Rows are
// only ever inserted.
type StockMovementModel struct {
	ID            uuid.UUID               `gorm:"type:uuid;primaryKey"`
	ProductID     uuid.UUID               `gorm:"type:uuid;not null;index:idx_stock_movements_product_created,priority:1"`
	MovementType  inventory.MovementType  `gorm:"type:varchar(20);not null"`
	Quantity      decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	ReferenceType inventory.ReferenceType `gorm:"type:varchar(20);not null;index:idx_stock_movements_reference,priority:1"`
	ReferenceID   *uuid.UUID              `gorm:"type:uuid;index:idx_stock_movements_reference,priority:2"`
	UserID        uuid.UUID               `gorm:"type:uuid;not null"`
	Notes         string                  `gorm:"type:text"`
	CreatedAt     time.Time               `gorm:"not null;index:idx_stock_movements_product_created,priority:2"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain StockMovement
func (m *StockMovementModel) ToDomain() inventory.StockMovement {
	return inventory.StockMovement{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          m.MovementType,
		Quantity:      m.Quantity,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		UserID:        m.UserID,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}

// StockMovementModelFromDomain creates a new persistence model from a domain StockMovement
func StockMovementModelFromDomain(s *inventory.StockMovement) *StockMovementModel {
	return &StockMovementModel{
		ID:            s.ID,
		ProductID:     s.ProductID,
		MovementType:  s.Type,
		Quantity:      s.Quantity,
		ReferenceType: s.ReferenceType,
		ReferenceID:   s.ReferenceID,
		UserID:        s.UserID,
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt,
	}
}
