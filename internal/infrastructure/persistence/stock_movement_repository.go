package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/inventory"
	"github.com/smallerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStockMovementRepository implements inventory.StockMovementRepository.
// The ledger is append-only, so there is no update or delete.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Append inserts one movement
func (r *GormStockMovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	if err := r.db.WithContext(ctx).Create(models.StockMovementModelFromDomain(movement)).Error; err != nil {
		return wrapError("append stock movement", err)
	}
	return nil
}

// ListByProductSince returns a product's movements created at or after
// since, oldest first
func (r *GormStockMovementRepository) ListByProductSince(ctx context.Context, productID uuid.UUID, since time.Time) ([]inventory.StockMovement, error) {
	query := r.db.WithContext(ctx).Where("product_id = ?", productID)
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}

	var rows []models.StockMovementModel
	if err := query.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, wrapError("list stock movements", err)
	}
	return movementsToDomain(rows), nil
}

// ListByReference returns the movements caused by one document
func (r *GormStockMovementRepository) ListByReference(ctx context.Context, referenceType inventory.ReferenceType, referenceID uuid.UUID) ([]inventory.StockMovement, error) {
	var rows []models.StockMovementModel
	if err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", referenceType, referenceID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, wrapError("list stock movements by reference", err)
	}
	return movementsToDomain(rows), nil
}

// SumByProduct returns the signed sum of a product's movements: in and
// adjustment add their quantity, out subtracts it
func (r *GormStockMovementRepository) SumByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	row := r.db.WithContext(ctx).Model(&models.StockMovementModel{}).
		Select("SUM(CASE WHEN movement_type = ? THEN -quantity ELSE quantity END)", inventory.MovementTypeOut).
		Where("product_id = ?", productID).
		Row()
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, wrapError("sum stock movements", err)
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

func movementsToDomain(rows []models.StockMovementModel) []inventory.StockMovement {
	movements := make([]inventory.StockMovement, len(rows))
	for i := range rows {
		movements[i] = rows[i].ToDomain()
	}
	return movements
}

var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
