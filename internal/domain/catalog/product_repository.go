package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence.
// It never writes stock_quantity except through AdjustStock.
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindBySKU finds a product by its SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindAll finds all products matching the filter.
	// Filters: "status" (ProductStatus).
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// FindLowStock lists products whose stock is at or below min_stock_level
	FindLowStock(ctx context.Context, filter shared.Filter) ([]Product, error)

	// ExistsBySKU checks if a product with the given SKU exists
	ExistsBySKU(ctx context.Context, sku string) (bool, error)

	// Save creates or updates a product's catalog attributes. A duplicate
	// SKU yields a ConflictError.
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// IsReferenced reports whether any order item or stock movement points
	// at the product
	IsReferenced(ctx context.Context, id uuid.UUID) (bool, error)

	// AdjustStock applies a relative delta to stock_quantity in a single
	// statement. When allowNegative is false and the result would drop
	// below zero, nothing is written and ErrInsufficientStock is returned.
	AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal, allowNegative bool) error
}
