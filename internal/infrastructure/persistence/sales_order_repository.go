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

var errSaleNotFound = shared.NewNotFoundError("SALE_NOT_FOUND", "Sale not found")

// GormSalesOrderRepository implements trade.SalesOrderRepository using GORM.
// Writes touch the header and sale_items; callers run them inside one
// transaction.
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// FindByID finds a sale with its items
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	return r.findOne(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate finds a sale and locks its row until the surrounding
// transaction ends
func (r *GormSalesOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	return r.findOne(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormSalesOrderRepository) findOne(query *gorm.DB, id uuid.UUID) (*trade.SalesOrder, error) {
	var model models.SaleModel
	if err := query.Preload("Items", orderedItems).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find sale", err, errSaleNotFound, nil)
	}
	return model.ToDomain(), nil
}

// FindAll lists sales with their items
func (r *GormSalesOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.SalesOrder, error) {
	filter = filter.Normalize()
	var rows []models.SaleModel
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.SaleModel{}), filter).
		Preload("Items", orderedItems).
		Order(saleSort.Order(filter)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, wrapError("list sales", err)
	}

	orders := make([]trade.SalesOrder, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// Count counts sales matching the filter
func (r *GormSalesOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.SaleModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, wrapError("count sales", err)
	}
	return count, nil
}

// Create inserts the header, then the items
func (r *GormSalesOrderRepository) Create(ctx context.Context, order *trade.SalesOrder) error {
	model := models.SaleModelFromDomain(order)
	db := r.db.WithContext(ctx)

	if err := db.Omit(clause.Associations).Create(model).Error; err != nil {
		return translateError("create sale", err, nil, trade.ErrDuplicateOrderNumber)
	}
	if len(model.Items) > 0 {
		if err := db.Create(&model.Items).Error; err != nil {
			return wrapError("create sale items", err)
		}
	}
	return nil
}

// Update saves the header with an optimistic version check and, when
// replaceItems is set, deletes and reinserts the items
func (r *GormSalesOrderRepository) Update(ctx context.Context, order *trade.SalesOrder, replaceItems bool) error {
	model := models.SaleModelFromDomain(order)
	db := r.db.WithContext(ctx)

	result := db.Model(&models.SaleModel{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]any{
			"customer_id":     model.CustomerID,
			"subtotal":        model.Subtotal,
			"tax_rate":        model.TaxRate,
			"tax_amount":      model.TaxAmount,
			"discount_amount": model.DiscountAmount,
			"total_amount":    model.TotalAmount,
			"payment_status":  model.PaymentStatus,
			"payment_method":  model.PaymentMethod,
			"status":          model.Status,
			"notes":           model.Notes,
			"confirmed_at":    model.ConfirmedAt,
			"cancelled_at":    model.CancelledAt,
			"updated_at":      model.UpdatedAt,
			"version":         gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return wrapError("update sale", result.Error)
	}
	if result.RowsAffected == 0 {
		return missingOrStale(db, &models.SaleModel{}, order.ID, errSaleNotFound)
	}

	if replaceItems {
		if err := db.Where("sale_id = ?", order.ID).Delete(&models.SaleItemModel{}).Error; err != nil {
			return wrapError("delete sale items", err)
		}
		if len(model.Items) > 0 {
			if err := db.Create(&model.Items).Error; err != nil {
				return wrapError("create sale items", err)
			}
		}
	}

	order.IncrementVersion()
	return nil
}

// Delete removes items first, then the header
func (r *GormSalesOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("sale_id = ?", id).Delete(&models.SaleItemModel{}).Error; err != nil {
		return wrapError("delete sale items", err)
	}
	result := db.Delete(&models.SaleModel{}, "id = ?", id)
	if result.Error != nil {
		return wrapError("delete sale", result.Error)
	}
	if result.RowsAffected == 0 {
		return errSaleNotFound
	}
	return nil
}

func (r *GormSalesOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"]; ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID, ok := filter.Filters["customer_id"]; ok && customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(invoice_number) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	return query
}

// orderedItems preloads order lines in their original order
func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("line_no ASC")
}

// missingOrStale explains a versioned update that matched no row
func missingOrStale(db *gorm.DB, table any, id uuid.UUID, notFound *shared.DomainError) error {
	var count int64
	if err := db.Model(table).Where("id = ?", id).Count(&count).Error; err != nil {
		return wrapError("check order", err)
	}
	if count == 0 {
		return notFound
	}
	return errConcurrentModification
}

var _ trade.SalesOrderRepository = (*GormSalesOrderRepository)(nil)
