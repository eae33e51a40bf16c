package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogapp "github.com/smallerp/backend/internal/application/catalog"
	inventoryapp "github.com/smallerp/backend/internal/application/inventory"
	partnerapp "github.com/smallerp/backend/internal/application/partner"
	tradeapp "github.com/smallerp/backend/internal/application/trade"
	"github.com/smallerp/backend/internal/infrastructure/persistence"
	"github.com/smallerp/backend/internal/infrastructure/persistence/models"
	"github.com/smallerp/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
)

// apiFixture serves the ledger API from real services on an in-memory
// SQLite database. Requests run as userID unless anonymous is set.
type apiFixture struct {
	engine    *gin.Engine
	userID    uuid.UUID
	anonymous bool
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	db, err := persistence.Open(sqlite.Open("file::memory:?_foreign_keys=on"), nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	log := zap.NewNop()
	productRepo := persistence.NewGormProductRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	supplierRepo := persistence.NewGormSupplierRepository(db)
	txScope := persistence.NewGormTransactionScope(db)
	ledger := inventoryapp.NewLedger(false, log)
	taxRate := tradeapp.StaticTaxRate(decimal.RequireFromString("0.16"))
	posting := tradeapp.DefaultPostingConfig()

	products := NewProductHandler(catalogapp.NewProductService(productRepo, txScope, ledger, log))
	stock := NewInventoryHandler(inventoryapp.NewInventoryService(productRepo,
		persistence.NewGormStockMovementRepository(db), txScope, ledger, log))
	customers := NewCustomerHandler(partnerapp.NewCustomerService(customerRepo))
	suppliers := NewSupplierHandler(partnerapp.NewSupplierService(supplierRepo))
	sales := NewSalesOrderHandler(tradeapp.NewSalesOrderService(persistence.NewGormSalesOrderRepository(db),
		productRepo, customerRepo, txScope, ledger, taxRate, posting, log))
	purchases := NewPurchaseOrderHandler(tradeapp.NewPurchaseOrderService(persistence.NewGormPurchaseOrderRepository(db),
		productRepo, supplierRepo, txScope, ledger, taxRate, posting, log))

	f := &apiFixture{userID: uuid.New()}
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(func(c *gin.Context) {
		if !f.anonymous {
			c.Set(middleware.UserIDKey, f.userID.String())
		}
		c.Next()
	})

	api := engine.Group("/api/v1")
	api.GET("/products", products.List)
	api.POST("/products", products.Create)
	api.GET("/products/low-stock", products.ListLowStock)
	api.GET("/products/:id", products.GetByID)
	api.PUT("/products/:id", products.Update)
	api.DELETE("/products/:id", products.Delete)
	api.POST("/products/:id/adjustments", stock.AdjustStock)
	api.GET("/products/:id/movements", stock.ListMovements)
	api.GET("/products/:id/reconciliation", stock.Reconcile)

	api.GET("/customers", customers.List)
	api.POST("/customers", customers.Create)
	api.GET("/customers/:id", customers.GetByID)
	api.PUT("/customers/:id", customers.Update)
	api.DELETE("/customers/:id", customers.Delete)
	api.GET("/suppliers", suppliers.List)
	api.POST("/suppliers", suppliers.Create)
	api.GET("/suppliers/:id", suppliers.GetByID)
	api.PUT("/suppliers/:id", suppliers.Update)
	api.DELETE("/suppliers/:id", suppliers.Delete)

	api.GET("/sales", sales.List)
	api.POST("/sales", sales.Create)
	api.GET("/sales/:id", sales.GetByID)
	api.PUT("/sales/:id", sales.Update)
	api.DELETE("/sales/:id", sales.Delete)
	api.POST("/sales/:id/confirm", sales.Confirm)
	api.POST("/sales/:id/cancel", sales.Cancel)
	api.PUT("/sales/:id/payment-status", sales.SetPaymentStatus)

	api.GET("/purchases", purchases.List)
	api.POST("/purchases", purchases.Create)
	api.GET("/purchases/:id", purchases.GetByID)
	api.PUT("/purchases/:id", purchases.Update)
	api.DELETE("/purchases/:id", purchases.Delete)
	api.POST("/purchases/:id/confirm", purchases.Confirm)
	api.POST("/purchases/:id/receive", purchases.Receive)
	api.POST("/purchases/:id/cancel", purchases.Cancel)
	api.PUT("/purchases/:id/payment-status", purchases.SetPaymentStatus)

	f.engine = engine
	return f
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

// data decodes the envelope and returns its data object
func data(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	resp := decodeResponse(t, w)
	obj, ok := resp.Data.(map[string]any)
	require.Truef(t, ok, "data is not an object: %s", w.Body.String())
	return obj
}

// list decodes the envelope and returns its data array
func list(t *testing.T, w *httptest.ResponseRecorder) []any {
	t.Helper()
	resp := decodeResponse(t, w)
	items, ok := resp.Data.([]any)
	require.Truef(t, ok, "data is not an array: %s", w.Body.String())
	return items
}

// errorCode returns the error code of a failed response
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decodeResponse(t, w)
	require.NotNilf(t, resp.Error, "no error in: %s", w.Body.String())
	return resp.Error.Code
}

func (f *apiFixture) createProduct(t *testing.T, sku, openingStock string) string {
	t.Helper()
	w := f.do(t, http.MethodPost, "/products", map[string]any{
		"sku":             sku,
		"name":            "Widget " + sku,
		"sale_price":      "10",
		"cost_price":      "6",
		"opening_stock":   openingStock,
		"min_stock_level": "2",
	})
	require.Equalf(t, http.StatusCreated, w.Code, w.Body.String())
	return data(t, w)["id"].(string)
}

func (f *apiFixture) createSupplier(t *testing.T, name string) string {
	t.Helper()
	w := f.do(t, http.MethodPost, "/suppliers", map[string]any{"name": name})
	require.Equalf(t, http.StatusCreated, w.Code, w.Body.String())
	return data(t, w)["id"].(string)
}

func (f *apiFixture) stockOf(t *testing.T, productID string) string {
	t.Helper()
	w := f.do(t, http.MethodGet, "/products/"+productID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	return data(t, w)["stock_quantity"].(string)
}
