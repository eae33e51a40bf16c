package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/smallerp/backend/internal/domain/shared"
)

// Store is the persistence contract customers and suppliers share
type Store[T any] interface {
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]T, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, partner *T) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomerRepository persists customers. A customer referenced by a sale
// cannot be deleted.
type CustomerRepository interface {
	Store[Customer]
	HasSales(ctx context.Context, id uuid.UUID) (bool, error)
}

// SupplierRepository persists suppliers. A supplier referenced by a
// purchase cannot be deleted.
type SupplierRepository interface {
	Store[Supplier]
	HasPurchases(ctx context.Context, id uuid.UUID) (bool, error)
}
