package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockMovementRepository persists the append-only ledger. There is no
// update or delete.
type StockMovementRepository interface {
	// Append inserts one movement
	Append(ctx context.Context, movement *StockMovement) error

	// ListByProductSince returns a product's movements created at or after
	// since, oldest first. A zero since returns the full history.
	ListByProductSince(ctx context.Context, productID uuid.UUID, since time.Time) ([]StockMovement, error)

	// ListByReference returns the movements caused by one document
	ListByReference(ctx context.Context, referenceType ReferenceType, referenceID uuid.UUID) ([]StockMovement, error)

	// SumByProduct returns the signed sum of a product's movements
	SumByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)
}
