package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/catalog"
	"github.com/smallerp/backend/internal/domain/inventory"
	"github.com/smallerp/backend/internal/domain/partner"
	"github.com/smallerp/backend/internal/domain/shared"
	"github.com/smallerp/backend/internal/domain/trade"
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

// MockSalesOrderRepository is a mock implementation of trade.SalesOrderRepository
type MockSalesOrderRepository struct {
	mock.Mock
}

func (m *MockSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	return result[*trade.SalesOrder](m.Called(ctx, id))
}

func (m *MockSalesOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	return result[*trade.SalesOrder](m.Called(ctx, id))
}

func (m *MockSalesOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.SalesOrder, error) {
	return result[[]trade.SalesOrder](m.Called(ctx, filter))
}

func (m *MockSalesOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return result[int64](m.Called(ctx, filter))
}

func (m *MockSalesOrderRepository) Create(ctx context.Context, order *trade.SalesOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockSalesOrderRepository) Update(ctx context.Context, order *trade.SalesOrder, replaceItems bool) error {
	return m.Called(ctx, order, replaceItems).Error(0)
}

func (m *MockSalesOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockPurchaseOrderRepository is a mock implementation of trade.PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	return result[*trade.PurchaseOrder](m.Called(ctx, id))
}

func (m *MockPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	return result[*trade.PurchaseOrder](m.Called(ctx, id))
}

func (m *MockPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	return result[[]trade.PurchaseOrder](m.Called(ctx, filter))
}

func (m *MockPurchaseOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return result[int64](m.Called(ctx, filter))
}

func (m *MockPurchaseOrderRepository) Create(ctx context.Context, order *trade.PurchaseOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockPurchaseOrderRepository) Update(ctx context.Context, order *trade.PurchaseOrder, replaceItems bool) error {
	return m.Called(ctx, order, replaceItems).Error(0)
}

func (m *MockPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	return result[*partner.Customer](m.Called(ctx, id))
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	return result[[]partner.Customer](m.Called(ctx, filter))
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return result[int64](m.Called(ctx, filter))
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCustomerRepository) HasSales(ctx context.Context, id uuid.UUID) (bool, error) {
	return result[bool](m.Called(ctx, id))
}

// MockSupplierRepository is a mock implementation of partner.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	return result[*partner.Supplier](m.Called(ctx, id))
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	return result[[]partner.Supplier](m.Called(ctx, filter))
}

func (m *MockSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return result[int64](m.Called(ctx, filter))
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return m.Called(ctx, supplier).Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSupplierRepository) HasPurchases(ctx context.Context, id uuid.UUID) (bool, error) {
	return result[bool](m.Called(ctx, id))
}

// recordingPublisher captures published events
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}
