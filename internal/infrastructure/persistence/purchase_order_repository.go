package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/smallerp/backend/internal/domain/shared"
	"github.com/smallerp/backend/internal/domain/trade"
	"github.com/smallerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errPurchaseNotFound = shared.NewNotFoundError("PURCHASE_NOT_FOUND", "Purchase not found")

// GormPurchaseOrderRepository implements trade.PurchaseOrderRepository using
// GORM. Writes touch the header and purchase_items; callers run them inside
// one transaction.
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase with its items
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	return r.findOne(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate finds a purchase and locks its row until the
// surrounding transaction ends. Concurrent receipts of the same purchase
// serialize here, so only one of them sees the unreceived status.
func (r *GormPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	return r.findOne(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormPurchaseOrderRepository) findOne(query *gorm.DB, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var model models.PurchaseModel
	if err := query.Preload("Items", orderedItems).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find purchase", err, errPurchaseNotFound, nil)
	}
	return model.ToDomain(), nil
}

// FindAll lists purchases with their items
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	filter = filter.Normalize()
	var rows []models.PurchaseModel
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.PurchaseModel{}), filter).
		Preload("Items", orderedItems).
		Order(purchaseSort.Order(filter)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, wrapError("list purchases", err)
	}

	orders := make([]trade.PurchaseOrder, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// Count counts purchases matching the filter
func (r *GormPurchaseOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.PurchaseModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, wrapError("count purchases", err)
	}
	return count, nil
}

// Create inserts the header, then the items
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, order *trade.PurchaseOrder) error {
	model := models.PurchaseModelFromDomain(order)
	db := r.db.WithContext(ctx)

	if err := db.Omit(clause.Associations).Create(model).Error; err != nil {
		return translateError("create purchase", err, nil, trade.ErrDuplicateOrderNumber)
	}
	if len(model.Items) > 0 {
		if err := db.Create(&model.Items).Error; err != nil {
			return wrapError("create purchase items", err)
		}
	}
	return nil
}

// Update saves the header with an optimistic version check and, when
// replaceItems is set, deletes and reinserts the items
func (r *GormPurchaseOrderRepository) Update(ctx context.Context, order *trade.PurchaseOrder, replaceItems bool) error {
	model := models.PurchaseModelFromDomain(order)
	db := r.db.WithContext(ctx)

	result := db.Model(&models.PurchaseModel{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]any{
			"supplier_id":       model.SupplierID,
			"subtotal":          model.Subtotal,
			"tax_rate":          model.TaxRate,
			"tax_amount":        model.TaxAmount,
			"discount_amount":   model.DiscountAmount,
			"total_amount":      model.TotalAmount,
			"payment_status":    model.PaymentStatus,
			"expected_delivery": model.ExpectedDelivery,
			"payment_terms":     model.PaymentTerms,
			"status":            model.Status,
			"notes":             model.Notes,
			"confirmed_at":      model.ConfirmedAt,
			"received_at":       model.ReceivedAt,
			"cancelled_at":      model.CancelledAt,
			"updated_at":        model.UpdatedAt,
			"version":           gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return wrapError("update purchase", result.Error)
	}
	if result.RowsAffected == 0 {
		return missingOrStale(db, &models.PurchaseModel{}, order.ID, errPurchaseNotFound)
	}

	if replaceItems {
		if err := db.Where("purchase_id = ?", order.ID).Delete(&models.PurchaseItemModel{}).Error; err != nil {
			return wrapError("delete purchase items", err)
		}
		if len(model.Items) > 0 {
			if err := db.Create(&model.Items).Error; err != nil {
				return wrapError("create purchase items", err)
			}
		}
	}

	order.IncrementVersion()
	return nil
}

// Delete removes items first, then the header
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("purchase_id = ?", id).Delete(&models.PurchaseItemModel{}).Error; err != nil {
		return wrapError("delete purchase items", err)
	}
	result := db.Delete(&models.PurchaseModel{}, "id = ?", id)
	if result.Error != nil {
		return wrapError("delete purchase", result.Error)
	}
	if result.RowsAffected == 0 {
		return errPurchaseNotFound
	}
	return nil
}

func (r *GormPurchaseOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"]; ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if supplierID, ok := filter.Filters["supplier_id"]; ok && supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(order_number) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	return query
}

var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
