//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogapp "github.com/smallerp/backend/internal/application/catalog"
	inventoryapp "github.com/smallerp/backend/internal/application/inventory"
	partnerapp "github.com/smallerp/backend/internal/application/partner"
	tradeapp "github.com/smallerp/backend/internal/application/trade"
	"github.com/smallerp/backend/internal/infrastructure/event"
	"github.com/smallerp/backend/internal/infrastructure/persistence"
	"github.com/smallerp/backend/tests/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stack wires every service against one migrated database
type stack struct {
	db        *TestDB
	products  *catalogapp.ProductService
	inventory *inventoryapp.InventoryService
	customers *partnerapp.CustomerService
	suppliers *partnerapp.SupplierService
	sales     *tradeapp.SalesOrderService
	purchases *tradeapp.PurchaseOrderService
	events    *testutil.RecordingEventHandler
	userID    uuid.UUID
}

func newStack(t *testing.T, allowNegative bool) *stack {
	t.Helper()

	tdb := NewTestDB(t)
	log := zap.NewNop()

	productRepo := persistence.NewGormProductRepository(tdb.DB)
	movementRepo := persistence.NewGormStockMovementRepository(tdb.DB)
	customerRepo := persistence.NewGormCustomerRepository(tdb.DB)
	supplierRepo := persistence.NewGormSupplierRepository(tdb.DB)
	txScope := persistence.NewGormTransactionScope(tdb.DB)
	ledger := inventoryapp.NewLedger(allowNegative, log)
	taxRates := tradeapp.StaticTaxRate(decimal.RequireFromString("0.16"))

	s := &stack{
		db:        tdb,
		products:  catalogapp.NewProductService(productRepo, txScope, ledger, log),
		inventory: inventoryapp.NewInventoryService(productRepo, movementRepo, txScope, ledger, log),
		customers: partnerapp.NewCustomerService(customerRepo),
		suppliers: partnerapp.NewSupplierService(supplierRepo),
		sales: tradeapp.NewSalesOrderService(
			persistence.NewGormSalesOrderRepository(tdb.DB), productRepo, customerRepo,
			txScope, ledger, taxRates, tradeapp.DefaultPostingConfig(), log,
		),
		purchases: tradeapp.NewPurchaseOrderService(
			persistence.NewGormPurchaseOrderRepository(tdb.DB), productRepo, supplierRepo,
			txScope, ledger, taxRates, tradeapp.DefaultPostingConfig(), log,
		),
		events: testutil.NewRecordingEventHandler(),
		userID: uuid.New(),
	}

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(s.events)
	s.products.SetEventPublisher(bus)
	s.inventory.SetEventPublisher(bus)
	s.sales.SetEventPublisher(bus)
	s.purchases.SetEventPublisher(bus)

	return s
}

func (s *stack) createProduct(t *testing.T, sku string, opening string) uuid.UUID {
	t.Helper()

	stock := decimal.RequireFromString(opening)
	product, err := s.products.Create(context.Background(), s.userID, catalogapp.CreateProductRequest{
		SKU:           sku,
		Name:          "Product " + sku,
		Unit:          "pcs",
		CostPrice:     decimal.NewFromInt(6),
		SalePrice:     decimal.NewFromInt(10),
		OpeningStock:  &stock,
		MinStockLevel: decimal.NewFromInt(2),
	})
	require.NoError(t, err)
	return product.ID
}

func (s *stack) createCustomer(t *testing.T, name string) uuid.UUID {
	t.Helper()

	customer, err := s.customers.Create(context.Background(), partnerapp.CreateCustomerRequest{Name: name})
	require.NoError(t, err)
	return customer.ID
}

func (s *stack) createSupplier(t *testing.T, name string) uuid.UUID {
	t.Helper()

	supplier, err := s.suppliers.Create(context.Background(), partnerapp.CreateSupplierRequest{Name: name})
	require.NoError(t, err)
	return supplier.ID
}

func (s *stack) draftSale(t *testing.T, lines ...tradeapp.OrderItemInput) uuid.UUID {
	t.Helper()

	sale, err := s.sales.Create(context.Background(), s.userID, tradeapp.CreateSalesOrderRequest{Items: lines})
	require.NoError(t, err)
	return sale.ID
}

func (s *stack) stockOf(t *testing.T, productID uuid.UUID) decimal.Decimal {
	t.Helper()

	product, err := s.products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	return product.StockQuantity
}

func (s *stack) requireInSync(t *testing.T, productID uuid.UUID) {
	t.Helper()

	report, err := s.inventory.Reconcile(context.Background(), productID)
	require.NoError(t, err)
	require.True(t, report.InSync, "stock %s, ledger %s", report.StockQuantity, report.LedgerStock)
}

func line(productID uuid.UUID, quantity string) tradeapp.OrderItemInput {
	return tradeapp.OrderItemInput{
		ProductID: productID,
		Quantity:  decimal.RequireFromString(quantity),
		UnitPrice: decimal.NewFromInt(10),
	}
}
