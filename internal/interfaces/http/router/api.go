package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallerp/backend/internal/domain/shared"
	"github.com/smallerp/backend/internal/infrastructure/auth"
	"github.com/smallerp/backend/internal/infrastructure/config"
	"github.com/smallerp/backend/internal/infrastructure/logger"
	"github.com/smallerp/backend/internal/interfaces/http/handler"
	"github.com/smallerp/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers groups the resource handlers mounted by NewEngine
type Handlers struct {
	Product       *handler.ProductHandler
	Inventory     *handler.InventoryHandler
	Customer      *handler.CustomerHandler
	Supplier      *handler.SupplierHandler
	SalesOrder    *handler.SalesOrderHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	System        *handler.SystemHandler
}

// Options configures the middleware stack
type Options struct {
	Logger  *zap.Logger
	HTTP    config.HTTPConfig
	Swagger config.SwaggerConfig
	Tracing middleware.TracingConfig
	// Meter records HTTP metrics; nil disables them
	Meter metric.Meter
	// JWTService validates bearer tokens; nil trusts the X-User-ID header
	JWTService *auth.JWTService
	// IdempotencyStore guards create endpoints; nil disables the guard
	IdempotencyStore shared.IdempotencyStore
	IdempotencyTTL   time.Duration
}

// NewEngine builds the HTTP engine with the full middleware stack and every
// route of the ledger API
func NewEngine(h Handlers, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(opts.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// The request id must exist before logging and recovery.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(opts.Tracing))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins:     opts.HTTP.CORSAllowOrigins,
		AllowMethods:     opts.HTTP.CORSAllowMethods,
		AllowHeaders:     opts.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(opts.HTTP.MaxBodySize))
	engine.Use(middleware.HTTPMetrics(opts.Meter, log))

	engine.GET("/health", h.System.Health)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(opts.Swagger.Enabled, opts.Swagger.AllowedIPs),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	idempotent := middleware.Idempotency(opts.IdempotencyStore, opts.IdempotencyTTL, log)

	products := NewResource("/products").
		CRUD(h.Product.List, h.Product.GetByID, h.Product.Update, h.Product.Delete, idempotent, h.Product.Create).
		GET("/low-stock", h.Product.ListLowStock).
		POST("/:id/adjustments", idempotent, h.Inventory.AdjustStock).
		GET("/:id/movements", h.Inventory.ListMovements).
		GET("/:id/reconciliation", h.Inventory.Reconcile)

	customers := NewResource("/customers").
		CRUD(h.Customer.List, h.Customer.GetByID, h.Customer.Update, h.Customer.Delete, idempotent, h.Customer.Create)

	suppliers := NewResource("/suppliers").
		CRUD(h.Supplier.List, h.Supplier.GetByID, h.Supplier.Update, h.Supplier.Delete, idempotent, h.Supplier.Create)

	sales := NewResource("/sales").
		CRUD(h.SalesOrder.List, h.SalesOrder.GetByID, h.SalesOrder.Update, h.SalesOrder.Delete, idempotent, h.SalesOrder.Create).
		Action("confirm", h.SalesOrder.Confirm).
		Action("cancel", h.SalesOrder.Cancel).
		PUT("/:id/payment-status", h.SalesOrder.SetPaymentStatus)

	purchases := NewResource("/purchases").
		CRUD(h.PurchaseOrder.List, h.PurchaseOrder.GetByID, h.PurchaseOrder.Update, h.PurchaseOrder.Delete, idempotent, h.PurchaseOrder.Create).
		Action("confirm", h.PurchaseOrder.Confirm).
		Action("receive", h.PurchaseOrder.Receive).
		Action("cancel", h.PurchaseOrder.Cancel).
		PUT("/:id/payment-status", h.PurchaseOrder.SetPaymentStatus)

	system := NewResource("/health").GET("", h.System.Health)

	Mount(engine, "v1", []gin.HandlerFunc{
		middleware.Auth(middleware.DefaultAuthConfig(opts.JWTService, log)),
		middleware.TracingAttributeInjector(),
	}, products, customers, suppliers, sales, purchases, system)

	return engine
}
