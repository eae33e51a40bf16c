package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/catalog"
	"github.com/smallerp/backend/internal/domain/inventory"
	"github.com/smallerp/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// result unpacks a (value, error) pair set up with On(...).Return; a nil
// value comes back as T's zero value
func result[T any](args mock.Arguments) (T, error) {
	v, _ := args.Get(0).(T)
	return v, args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return result[*catalog.Product](m.Called(ctx, id))
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	return result[[]catalog.Product](m.Called(ctx, ids))
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	return result[*catalog.Product](m.Called(ctx, sku))
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	return result[[]catalog.Product](m.Called(ctx, filter))
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return result[int64](m.Called(ctx, filter))
}

func (m *MockProductRepository) FindLowStock(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	return result[[]catalog.Product](m.Called(ctx, filter))
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	return result[bool](m.Called(ctx, sku))
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	return result[bool](m.Called(ctx, id))
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal, allowNegative bool) error {
	return m.Called(ctx, id, delta, allowNegative).Error(0)
}

// MockStockMovementRepository is a mock implementation of inventory.StockMovementRepository
type MockStockMovementRepository struct {
	mock.Mock
}

func (m *MockStockMovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	return m.Called(ctx, movement).Error(0)
}

func (m *MockStockMovementRepository) ListByProductSince(ctx context.Context, productID uuid.UUID, since time.Time) ([]inventory.StockMovement, error) {
	return result[[]inventory.StockMovement](m.Called(ctx, productID, since))
}

func (m *MockStockMovementRepository) ListByReference(ctx context.Context, referenceType inventory.ReferenceType, referenceID uuid.UUID) ([]inventory.StockMovement, error) {
	return result[[]inventory.StockMovement](m.Called(ctx, referenceType, referenceID))
}

func (m *MockStockMovementRepository) SumByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	return result[decimal.Decimal](m.Called(ctx, productID))
}

// recordingPublisher captures published events
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func newTestProduct(stock, minLevel int64) *catalog.Product {
	product, err := catalog.NewProduct("SKU-001", catalog.ProductDetails{
		Name:          "Widget",
		CostPrice:     decimal.NewFromInt(2),
		SalePrice:     decimal.NewFromInt(10),
		MinStockLevel: decimal.NewFromInt(minLevel),
	})
	if err != nil {
		panic(err)
	}
	product.StockQuantity = decimal.NewFromInt(stock)
	return product
}

func withStock(p *catalog.Product, stock int64) *catalog.Product {
	clone := *p
	clone.StockQuantity = decimal.NewFromInt(stock)
	return &clone
}
