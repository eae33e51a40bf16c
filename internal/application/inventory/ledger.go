package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/smallerp/backend/internal/domain/inventory"
	"github.com/smallerp/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// Ledger is the only code path that changes products.stock_quantity.
// Callers run it inside a TransactionScope so the movement row and the
// counter update commit together.
type Ledger struct {
	allowNegative bool
	logger        *zap.Logger
}

// NewLedger creates a Ledger. With allowNegative false an out movement
// that would take stock below zero fails with ErrInsufficientStock.
func NewLedger(allowNegative bool, logger *zap.Logger) *Ledger {
	return &Ledger{
		allowNegative: allowNegative,
		logger:        logger,
	}
}

// AppendMovement records one movement and applies its signed delta to the
// product's stock counter. The movement is inserted before the counter is
// touched. The returned event is meant to be published after commit.
func (l *Ledger) AppendMovement(ctx context.Context, repos TransactionalRepositories, in inventory.MovementInput) (*inventory.StockMovement, *inventory.StockMovedEvent, error) {
	movement, err := inventory.NewStockMovement(in)
	if err != nil {
		return nil, nil, err
	}

	// Existence check gives a clean NotFound instead of an FK failure.
	if _, err := repos.ProductRepo().FindByID(ctx, movement.ProductID); err != nil {
		return nil, nil, err
	}

	if err := repos.MovementRepo().Append(ctx, movement); err != nil {
		return nil, nil, err
	}
	if err := repos.ProductRepo().AdjustStock(ctx, movement.ProductID, movement.SignedDelta(), l.allowNegative); err != nil {
		return nil, nil, err
	}

	product, err := repos.ProductRepo().FindByID(ctx, movement.ProductID)
	if err != nil {
		return nil, nil, err
	}

	l.logger.Debug("stock movement applied",
		zap.String("movement_id", movement.ID.String()),
		zap.String("product_id", movement.ProductID.String()),
		zap.String("type", movement.Type.String()),
		zap.String("quantity", movement.Quantity.String()),
		zap.String("reference_type", movement.ReferenceType.String()),
		zap.String("stock_after", product.StockQuantity.String()),
	)

	return movement, inventory.NewStockMovedEvent(movement, product.SKU, product.StockQuantity, product.MinStockLevel), nil
}

// PostLines appends one movement per line, all of the same type and
// reference. Lines for the same product are applied in order.
func (l *Ledger) PostLines(
	ctx context.Context,
	repos TransactionalRepositories,
	lines []trade.LineInfo,
	movementType inventory.MovementType,
	referenceType inventory.ReferenceType,
	referenceID uuid.UUID,
	userID uuid.UUID,
) ([]*inventory.StockMovedEvent, error) {
	events := make([]*inventory.StockMovedEvent, 0, len(lines))
	for _, line := range lines {
		refID := referenceID
		_, event, err := l.AppendMovement(ctx, repos, inventory.MovementInput{
			ProductID:     line.ProductID,
			Type:          movementType,
			Quantity:      line.Quantity,
			ReferenceType: referenceType,
			ReferenceID:   &refID,
			UserID:        userID,
		})
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}
