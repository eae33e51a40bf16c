package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	catalogapp "github.com/smallerp/backend/internal/application/catalog"
	inventoryapp "github.com/smallerp/backend/internal/application/inventory"
	partnerapp "github.com/smallerp/backend/internal/application/partner"
	tradeapp "github.com/smallerp/backend/internal/application/trade"
	"github.com/smallerp/backend/internal/domain/shared"
	"github.com/smallerp/backend/internal/infrastructure/auth"
	"github.com/smallerp/backend/internal/infrastructure/cache"
	"github.com/smallerp/backend/internal/infrastructure/config"
	"github.com/smallerp/backend/internal/infrastructure/event"
	"github.com/smallerp/backend/internal/infrastructure/logger"
	"github.com/smallerp/backend/internal/infrastructure/persistence"
	"github.com/smallerp/backend/internal/infrastructure/scheduler"
	"github.com/smallerp/backend/internal/infrastructure/telemetry"
	"github.com/smallerp/backend/internal/interfaces/http/handler"
	"github.com/smallerp/backend/internal/interfaces/http/middleware"
	"github.com/smallerp/backend/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/smallerp/backend/docs"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Small ERP Ledger API
//	@version		1.0
//	@description	Inventory ledger with sale and purchase posting

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, cfg.App.Env)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting ledger server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Telemetry
	telemetryConfig := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
	}
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryConfig, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetryConfig, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetryConfig, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = loggerProvider.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabase(ctx, &cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.DefaultDBTracingConfig()
		dbTracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL
		dbTracing.SlowQueryThreshold = cfg.Telemetry.DBSlowQueryThresh
		if err := telemetry.NewDBTracer(dbTracing, log).Register(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	healthChecks := map[string]handler.HealthCheck{
		"database": db.Ping,
	}

	// Redis holds the shared tax rate and idempotency keys when enabled
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis", zap.Error(err))
			}
		}()
		healthChecks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	var taxRates tradeapp.TaxRateProvider = tradeapp.StaticTaxRate(cfg.Trade.TaxRate)
	if redisClient != nil {
		taxRates = cache.NewRedisTaxRateProvider(redisClient, cfg.Trade.TaxRate, log)
	}

	var idempotencyStore shared.IdempotencyStore
	if cfg.Idempotency.Enabled {
		idempotencyStore = cache.NewIdempotencyStore(redisClient, log)
		defer func() {
			_ = idempotencyStore.Close()
		}()
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	ledger := inventoryapp.NewLedger(cfg.Trade.AllowNegativeStock, log)
	posting := tradeapp.PostingConfig{
		InvoicePrefix:      cfg.Trade.InvoicePrefix,
		PurchasePrefix:     cfg.Trade.PurchasePrefix,
		OrderNumberRetries: cfg.Trade.OrderNumberRetries,
	}

	productService := catalogapp.NewProductService(productRepo, txScope, ledger, log)
	inventoryService := inventoryapp.NewInventoryService(productRepo, movementRepo, txScope, ledger, log)
	customerService := partnerapp.NewCustomerService(customerRepo)
	supplierService := partnerapp.NewSupplierService(supplierRepo)
	salesOrderService := tradeapp.NewSalesOrderService(
		salesOrderRepo, productRepo, customerRepo, txScope, ledger, taxRates, posting, log,
	)
	purchaseOrderService := tradeapp.NewPurchaseOrderService(
		purchaseOrderRepo, productRepo, supplierRepo, txScope, ledger, taxRates, posting, log,
	)

	// Event bus; handlers run after the posting transaction commits
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(inventoryapp.NewLowStockHandler(log))

	postingMetrics, err := telemetry.NewPostingMetrics(meter, telemetry.NewGormLowStockCounter(db.DB), log)
	if err != nil {
		log.Fatal("Failed to initialize posting metrics", zap.Error(err))
	}
	eventBus.Subscribe(postingMetrics)

	productService.SetEventPublisher(eventBus)
	inventoryService.SetEventPublisher(eventBus)
	salesOrderService.SetEventPublisher(eventBus)
	purchaseOrderService.SetEventPublisher(eventBus)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	var sweeper *scheduler.ReconcileSweeper
	if cfg.Trade.ReconcileInterval > 0 {
		sweepConfig := scheduler.DefaultSweeperConfig()
		sweepConfig.Interval = cfg.Trade.ReconcileInterval
		sweeper, err = scheduler.NewReconcileSweeper(sweepConfig, productService, inventoryService, meter, log)
		if err != nil {
			log.Fatal("Failed to create reconciliation sweeper", zap.Error(err))
		}
		if err := sweeper.Start(ctx); err != nil {
			log.Fatal("Failed to start reconciliation sweeper", zap.Error(err))
		}
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	var jwtService *auth.JWTService
	if cfg.JWT.Enabled {
		jwtService = auth.NewJWTService(cfg.JWT)
	} else {
		log.Warn("JWT authentication disabled; the X-User-ID header is trusted")
	}

	engine := router.NewEngine(router.Handlers{
		Product:       handler.NewProductHandler(productService),
		Inventory:     handler.NewInventoryHandler(inventoryService),
		Customer:      handler.NewCustomerHandler(customerService),
		Supplier:      handler.NewSupplierHandler(supplierService),
		SalesOrder:    handler.NewSalesOrderHandler(salesOrderService),
		PurchaseOrder: handler.NewPurchaseOrderHandler(purchaseOrderService),
		System:        handler.NewSystemHandler(version, healthChecks),
	}, router.Options{
		Logger:  log,
		HTTP:    cfg.HTTP,
		Swagger: cfg.Swagger,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		Meter:            meter,
		JWTService:       jwtService,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.Idempotency.TTL,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if sweeper != nil {
		if err := sweeper.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping reconciliation sweeper", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
