package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/application/event"
	"github.com/smallerp/backend/internal/domain/catalog"
	"github.com/smallerp/backend/internal/domain/inventory"
	"github.com/smallerp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InventoryService exposes the ledger's query surface and manual
// adjustments
type InventoryService struct {
	productRepo  catalog.ProductRepository
	movementRepo inventory.StockMovementRepository
	txScope      TransactionScope
	ledger       *Ledger
	dispatcher   *event.Dispatcher
	logger       *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	productRepo catalog.ProductRepository,
	movementRepo inventory.StockMovementRepository,
	txScope TransactionScope,
	ledger *Ledger,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		txScope:      txScope,
		ledger:       ledger,
		logger:       logger,
	}
}

// SetEventPublisher sets the publisher used after commit
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.dispatcher = event.NewDispatcher(publisher, s.logger)
}

// AdjustStock applies a signed correction as an adjustment movement
func (s *InventoryService) AdjustStock(ctx context.Context, productID, userID uuid.UUID, req AdjustStockRequest) (*MovementResponse, error) {
	var (
		movement *inventory.StockMovement
		moved    *inventory.StockMovedEvent
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		movement, moved, err = s.ledger.AppendMovement(ctx, repos, inventory.MovementInput{
			ProductID:     productID,
			Type:          inventory.MovementTypeAdjustment,
			Quantity:      req.Quantity,
			ReferenceType: inventory.ReferenceTypeAdjustment,
			UserID:        userID,
			Notes:         req.Notes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.String("product_id", productID.String()),
		zap.String("quantity", req.Quantity.String()),
		zap.String("stock_after", moved.StockAfter.String()),
	)
	s.dispatcher.Dispatch(ctx, moved)

	response := ToMovementResponse(movement)
	return &response, nil
}

// ListMovements returns a product's movements since the given time, oldest
// first. A zero since returns the whole history.
func (s *InventoryService) ListMovements(ctx context.Context, productID uuid.UUID, since time.Time) ([]MovementResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.ListByProductSince(ctx, productID, since)
	if err != nil {
		return nil, err
	}
	return ToMovementResponses(movements), nil
}

// ComputedStock returns the stock implied by the ledger alone
func (s *InventoryService) ComputedStock(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return decimal.Zero, err
	}
	return s.movementRepo.SumByProduct(ctx, productID)
}

// Reconcile compares the product's stock counter with the ledger
func (s *InventoryService) Reconcile(ctx context.Context, productID uuid.UUID) (*ReconciliationResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	ledgerStock, err := s.movementRepo.SumByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	rec := inventory.NewReconciliation(productID, product.StockQuantity, ledgerStock)
	if !rec.InSync() {
		s.logger.Warn("stock counter drifted from ledger",
			zap.String("product_id", productID.String()),
			zap.String("sku", product.SKU),
			zap.String("stock_quantity", rec.StockQuantity.String()),
			zap.String("ledger_stock", rec.LedgerStock.String()),
		)
	}

	response := ToReconciliationResponse(rec)
	return &response, nil
}
