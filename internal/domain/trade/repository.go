package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/smallerp/backend/internal/domain/shared"
)

// SalesOrderRepository defines the interface for sale persistence
type SalesOrderRepository interface {
	// FindByID finds a sale with its items
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)

	// FindByIDForUpdate finds a sale and locks its row until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*SalesOrder, error)

	// FindAll lists sales with their items. Filters: "status", "customer_id".
	FindAll(ctx context.Context, filter shared.Filter) ([]SalesOrder, error)

	// Count counts sales matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create inserts the header and items. A duplicate invoice number
	// yields a ConflictError with code DUPLICATE_ORDER_NUMBER.
	Create(ctx context.Context, order *SalesOrder) error

	// Update saves the header with an optimistic version check and, when
	// replaceItems is set, deletes and reinserts the items
	Update(ctx context.Context, order *SalesOrder, replaceItems bool) error

	// Delete removes items first, then the header
	Delete(ctx context.Context, id uuid.UUID) error
}

// PurchaseOrderRepository defines the interface for purchase persistence
type PurchaseOrderRepository interface {
	// FindByID finds a purchase with its items
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByIDForUpdate finds a purchase and locks its row until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindAll lists purchases with their items. Filters: "status", "supplier_id".
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)

	// Count counts purchases matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create inserts the header and items. A duplicate order number
	// yields a ConflictError with code DUPLICATE_ORDER_NUMBER.
	Create(ctx context.Context, order *PurchaseOrder) error

	// Update saves the header with an optimistic version check and, when
	// replaceItems is set, deletes and reinserts the items
	Update(ctx context.Context, order *PurchaseOrder, replaceItems bool) error

	// Delete removes items first, then the header
	Delete(ctx context.Context, id uuid.UUID) error
}

// ErrDuplicateOrderNumber is returned by Create when the order number is taken
var ErrDuplicateOrderNumber = shared.NewConflictError("DUPLICATE_ORDER_NUMBER", "Order number already exists")
