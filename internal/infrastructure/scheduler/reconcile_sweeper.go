// Package scheduler runs background jobs next to the HTTP server.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	catalogapp "github.com/smallerp/backend/internal/application/catalog"
	inventoryapp "github.com/smallerp/backend/internal/application/inventory"
	"github.com/smallerp/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ProductLister pages through the catalog
type ProductLister interface {
	List(ctx context.Context, filter catalogapp.ProductListFilter) ([]catalogapp.ProductResponse, int64, error)
}

// Reconciler compares one product's stock counter with its ledger
type Reconciler interface {
	Reconcile(ctx context.Context, productID uuid.UUID) (*inventoryapp.ReconciliationResponse, error)
}

// SweeperConfig holds configuration for the reconciliation sweep
type SweeperConfig struct {
	// Interval between sweeps
	Interval time.Duration
	// PageSize is how many products are loaded per query
	PageSize int
}

// DefaultSweeperConfig returns default sweep configuration
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Interval: time.Hour,
		PageSize: 100,
	}
}

// Validate checks the configuration
func (c SweeperConfig) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("%w: page size must be between 1 and 100", ErrInvalidConfig)
	}
	return nil
}

// SweepResult summarises one pass over the catalog
type SweepResult struct {
	Checked  int
	Drifted  []uuid.UUID
	Failed   int
	Duration time.Duration
}

// ReconcileSweeper periodically reconciles every product against its
// ledger and reports drift. It never corrects the counter.
type ReconcileSweeper struct {
	config     SweeperConfig
	products   ProductLister
	reconciler Reconciler
	drift      *telemetry.Counter
	logger     *zap.Logger

	// cancel and done belong to the current run and are guarded by mu
	cancel    context.CancelFunc
	done      chan struct{}
	mu        sync.Mutex
	isRunning bool
	sweeping  atomic.Bool
}

// NewReconcileSweeper creates a sweeper. A nil meter disables the drift
// counter.
func NewReconcileSweeper(
	config SweeperConfig,
	products ProductLister,
	reconciler Reconciler,
	meter metric.Meter,
	logger *zap.Logger,
) (*ReconcileSweeper, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &ReconcileSweeper{
		config:     config,
		products:   products,
		reconciler: reconciler,
		logger:     logger,
	}
	if meter != nil {
		drift, err := telemetry.NewCounter(meter,
			"ledger.reconcile.drift",
			"Products whose stock counter disagrees with the ledger",
			"{product}")
		if err != nil {
			return nil, err
		}
		s.drift = drift
	}
	return s, nil
}

// Start starts the sweep loop
func (s *ReconcileSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.isRunning = true
	done := s.done
	s.mu.Unlock()

	go s.runLoop(ctx, done)

	s.logger.Info("Reconciliation sweeper started",
		zap.Duration("interval", s.config.Interval),
	)
	return nil
}

// Stop stops the loop and waits for a running sweep to finish
func (s *ReconcileSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	cancel()

	select {
	case <-done:
		s.logger.Info("Reconciliation sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ReconcileSweeper) runLoop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("Reconciliation sweep failed", zap.Error(err))
			}
		}
	}
}

// RunOnce reconciles every product once. A product that fails to reconcile
// is counted and skipped; listing failures abort the sweep.
func (s *ReconcileSweeper) RunOnce(ctx context.Context) (*SweepResult, error) {
	if !s.sweeping.CompareAndSwap(false, true) {
		return nil, ErrSweepInProgress
	}
	defer s.sweeping.Store(false)

	start := time.Now()
	result := &SweepResult{}

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		products, total, err := s.products.List(ctx, catalogapp.ProductListFilter{
			Page:     page,
			PageSize: s.config.PageSize,
			OrderBy:  "created_at",
			OrderDir: "asc",
		})
		if err != nil {
			return result, fmt.Errorf("list products page %d: %w", page, err)
		}

		for _, product := range products {
			report, err := s.reconciler.Reconcile(ctx, product.ID)
			if err != nil {
				result.Failed++
				s.logger.Warn("Failed to reconcile product",
					zap.String("product_id", product.ID.String()),
					zap.Error(err),
				)
				continue
			}
			result.Checked++
			if !report.InSync {
				result.Drifted = append(result.Drifted, product.ID)
				if s.drift != nil {
					s.drift.Inc(ctx, telemetry.AttrSKU.String(product.SKU))
				}
			}
		}

		if len(products) == 0 || int64(page*s.config.PageSize) >= total {
			break
		}
	}

	result.Duration = time.Since(start)
	s.logger.Info("Reconciliation sweep completed",
		zap.Int("checked", result.Checked),
		zap.Int("drifted", len(result.Drifted)),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}
