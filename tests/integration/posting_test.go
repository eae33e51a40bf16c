//go:build integration

package integration

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	tradeapp "github.com/smallerp/backend/internal/application/trade"
	"github.com/smallerp/backend/internal/domain/inventory"
	"github.com/smallerp/backend/internal/domain/shared"
	"github.com/smallerp/backend/internal/domain/trade"
	"github.com/smallerp/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleConfirm_PostsOutMovements(t *testing.T) {
	s := newStack(t, false)
	ctx := context.Background()
	productID := s.createProduct(t, "SKU-1", "10")
	customerID := s.createCustomer(t, "Acme")

	sale, err := s.sales.Create(ctx, s.userID, tradeapp.CreateSalesOrderRequest{
		CustomerID: &customerID,
		Items:      []tradeapp.OrderItemInput{line(productID, "4")},
	})
	require.NoError(t, err)
	assert.Equal(t, "draft", sale.Status)
	assert.True(t, strings.HasPrefix(sale.InvoiceNumber, "INV-"))
	assert.True(t, decimal.RequireFromString("46.4").Equal(sale.TotalAmount), sale.TotalAmount.String())
	assert.True(t, decimal.NewFromInt(10).Equal(s.stockOf(t, productID)))

	confirmed, err := s.sales.Confirm(ctx, sale.ID, s.userID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", confirmed.Status)
	assert.NotNil(t, confirmed.ConfirmedAt)
	assert.True(t, decimal.NewFromInt(6).Equal(s.stockOf(t, productID)))

	movements, err := s.inventory.ListMovements(ctx, productID, time.Time{})
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, "adjustment", movements[0].MovementType)
	assert.Equal(t, "out", movements[1].MovementType)
	require.NotNil(t, movements[1].ReferenceID)
	assert.Equal(t, sale.ID, *movements[1].ReferenceID)
	s.requireInSync(t, productID)

	assert.Contains(t, s.events.Types(), trade.EventTypeSalesOrderConfirmed)
	assert.Contains(t, s.events.Types(), inventory.EventTypeStockMoved)

	_, err = s.sales.Confirm(ctx, sale.ID, s.userID)
	assert.True(t, shared.IsInvalidState(err))
	assert.True(t, decimal.NewFromInt(6).Equal(s.stockOf(t, productID)))
}

func TestSaleConfirm_InsufficientStockRollsBack(t *testing.T) {
	s := newStack(t, false)
	ctx := context.Background()
	plenty := s.createProduct(t, "SKU-A", "10")
	scarce := s.createProduct(t, "SKU-B", "2")

	saleID := s.draftSale(t, line(plenty, "1"), line(scarce, "5"))

	_, err := s.sales.Confirm(ctx, saleID, s.userID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInsufficientStock))

	assert.True(t, decimal.NewFromInt(10).Equal(s.stockOf(t, plenty)), "earlier lines roll back")
	assert.True(t, decimal.NewFromInt(2).Equal(s.stockOf(t, scarce)))

	sale, err := s.sales.GetByID(ctx, saleID)
	require.NoError(t, err)
	assert.Equal(t, "draft", sale.Status)

	movements, err := s.inventory.ListMovements(ctx, plenty, time.Time{})
	require.NoError(t, err)
	assert.Len(t, movements, 1, "only the opening movement remains")
	s.requireInSync(t, plenty)
	s.requireInSync(t, scarce)
}

func TestSaleConfirm_ConcurrentPostingsNeverOversell(t *testing.T) {
	s := newStack(t, false)
	ctx := context.Background()
	productID := s.createProduct(t, "SKU-1", "10")

	const orders = 5
	saleIDs := make([]uuid.UUID, 0, orders)
	for i := 0; i < orders; i++ {
		saleIDs = append(saleIDs, s.draftSale(t, line(productID, "3")))
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for _, id := range saleIDs {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := s.sales.Confirm(ctx, id, s.userID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, shared.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 2, rejected)
	assert.True(t, decimal.NewFromInt(1).Equal(s.stockOf(t, productID)))
	s.requireInSync(t, productID)
}

func TestSaleCancel_RestocksConfirmedSale(t *testing.T) {
	s := newStack(t, false)
	ctx := context.Background()
	productID := s.createProduct(t, "SKU-1", "10")

	sale, err := s.sales.Create(ctx, s.userID, tradeapp.CreateSalesOrderRequest{
		Items:  []tradeapp.OrderItemInput{line(productID, "5")},
		Status: "confirmed",
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5).Equal(s.stockOf(t, productID)))

	cancelled, err := s.sales.Cancel(ctx, sale.ID, s.userID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.True(t, decimal.NewFromInt(10).Equal(s.stockOf(t, productID)))
	s.requireInSync(t, productID)

	assert.True(t, shared.IsInvalidState(s.sales.Delete(ctx, sale.ID)), "a sale that moved stock is kept")
}

func TestPurchaseReceive_PostsInMovementsOnce(t *testing.T) {
	s := newStack(t, false)
	ctx := context.Background()
	productID := s.createProduct(t, "SKU-1", "0")
	supplierID := s.createSupplier(t, "Parts Co")

	zero := decimal.Zero
	purchase, err := s.purchases.Create(ctx, s.userID, tradeapp.CreatePurchaseOrderRequest{
		SupplierID: supplierID,
		Items: []tradeapp.OrderItemInput{
			{ProductID: productID, Quantity: decimal.NewFromInt(8), UnitPrice: decimal.NewFromInt(6)},
		},
		TaxRate: &zero,
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", purchase.Status)
	assert.True(t, strings.HasPrefix(purchase.OrderNumber, "PO-"))

	_, err = s.purchases.Confirm(ctx, purchase.ID)
	require.NoError(t, err)
	assert.True(t, decimal.Zero.Equal(s.stockOf(t, productID)))

	received, err := s.purchases.Receive(ctx, purchase.ID, s.userID)
	require.NoError(t, err)
	assert.Equal(t, "received", received.Status)
	assert.True(t, decimal.NewFromInt(8).Equal(s.stockOf(t, productID)))

	_, err = s.purchases.Receive(ctx, purchase.ID, s.userID)
	assert.True(t, shared.IsInvalidState(err))
	assert.True(t, decimal.NewFromInt(8).Equal(s.stockOf(t, productID)))

	_, err = s.purchases.Cancel(ctx, purchase.ID)
	assert.True(t, shared.IsInvalidState(err))
	s.requireInSync(t, productID)
	assert.Contains(t, s.events.Types(), trade.EventTypePurchaseOrderReceived)
}

func TestAllowNegativeStock(t *testing.T) {
	s := newStack(t, true)
	ctx := context.Background()
	productID := s.createProduct(t, "SKU-1", "1")

	saleID := s.draftSale(t, line(productID, "3"))
	_, err := s.sales.Confirm(ctx, saleID, s.userID)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(-2).Equal(s.stockOf(t, productID)))
	s.requireInSync(t, productID)
}

func TestOrderNumbers_AreUnique(t *testing.T) {
	s := newStack(t, false)
	productID := s.createProduct(t, "SKU-1", "0")

	const orders = 20
	numbers := make(chan string, orders)
	var wg sync.WaitGroup
	for i := 0; i < orders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sale, err := s.sales.Create(context.Background(), s.userID, tradeapp.CreateSalesOrderRequest{
				Items: []tradeapp.OrderItemInput{line(productID, "1")},
			})
			if err != nil {
				t.Errorf("create sale: %v", err)
				return
			}
			numbers <- sale.InvoiceNumber
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool)
	for n := range numbers {
		assert.False(t, seen[n], "duplicate invoice number %s", n)
		seen[n] = true
	}
	assert.Len(t, seen, orders)
}

func TestProductDelete_RefusedOnceReferenced(t *testing.T) {
	s := newStack(t, false)
	ctx := context.Background()
	productID := s.createProduct(t, "SKU-1", "5")

	err := s.products.Delete(ctx, productID)
	require.Error(t, err)
	assert.True(t, shared.IsConflict(err))

	_, err = s.products.GetByID(ctx, productID)
	assert.NoError(t, err)
}

func TestSaleAmounts_SurviveReloadAtFullPrecision(t *testing.T) {
	s := newStack(t, false)
	ctx := context.Background()
	productID := s.createProduct(t, "SKU-FINE", "10")
	rate := decimal.RequireFromString("0.1625")

	created, err := s.sales.Create(ctx, s.userID, tradeapp.CreateSalesOrderRequest{
		Items: []tradeapp.OrderItemInput{{
			ProductID: productID,
			Quantity:  decimal.RequireFromString("3"),
			UnitPrice: decimal.RequireFromString("0.3333"),
		}},
		TaxRate: &rate,
	})
	require.NoError(t, err)

	stored, err := persistence.NewGormSalesOrderRepository(s.db.DB).FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	item := stored.Items[0]
	assert.True(t, item.LineTotal.Equal(item.Quantity.Mul(item.UnitPrice).Sub(item.DiscountAmount)), item.LineTotal.String())
	assert.True(t, stored.Subtotal.Equal(decimal.RequireFromString("0.9999")), stored.Subtotal.String())
	assert.True(t, stored.TaxAmount.Equal(stored.Subtotal.Mul(stored.TaxRate)), stored.TaxAmount.String())
	assert.True(t, stored.TotalAmount.Equal(stored.Subtotal.Add(stored.TaxAmount)), stored.TotalAmount.String())

	_, err = s.sales.Create(ctx, s.userID, tradeapp.CreateSalesOrderRequest{
		Items: []tradeapp.OrderItemInput{{
			ProductID: productID,
			Quantity:  decimal.RequireFromString("3"),
			UnitPrice: decimal.RequireFromString("0.33333"),
		}},
	})
	assert.True(t, shared.IsValidation(err))
}
