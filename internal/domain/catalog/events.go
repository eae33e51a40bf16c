package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/shared"
)

const (
	AggregateTypeProduct    = "Product"
	EventTypeProductCreated = "ProductCreated"
)

// ProductCreatedEvent announces a new catalog entry. Stock is always zero
// at this point; opening stock arrives as a ledger movement.
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID     uuid.UUID       `json:"product_id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
}

func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Unit:            p.Unit,
		MinStockLevel:   p.MinStockLevel,
	}
}
