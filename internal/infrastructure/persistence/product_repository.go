package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/catalog"
	"github.com/smallerp/backend/internal/domain/shared"
	"github.com/smallerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var (
	errProductNotFound = shared.NewNotFoundError("PRODUCT_NOT_FOUND", "Product not found")
	errDuplicateSKU    = shared.NewConflictError("DUPLICATE_SKU", "Product with this SKU already exists")
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find product", err, errProductNotFound, nil)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple products by their IDs. Missing IDs are skipped.
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}

	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, wrapError("find products", err)
	}
	return productsToDomain(rows), nil
}

// FindBySKU finds a product by its SKU
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("sku = ?", strings.ToUpper(strings.TrimSpace(sku))).
		First(&model).Error; err != nil {
		return nil, translateError("find product by sku", err, errProductNotFound, nil)
	}
	return model.ToDomain(), nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var rows []models.ProductModel
	query := r.applyPaging(r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, wrapError("list products", err)
	}
	return productsToDomain(rows), nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, wrapError("count products", err)
	}
	return count, nil
}

// FindLowStock lists products whose stock is at or below min_stock_level
func (r *GormProductRepository) FindLowStock(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var rows []models.ProductModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter).
		Where("stock_quantity <= min_stock_level")
	if err := r.applyPaging(query, filter).Find(&rows).Error; err != nil {
		return nil, wrapError("list low stock products", err)
	}
	return productsToDomain(rows), nil
}

// ExistsBySKU checks if a product with the given SKU exists
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("sku = ?", strings.ToUpper(strings.TrimSpace(sku))).
		Count(&count).Error; err != nil {
		return false, wrapError("check sku", err)
	}
	return count > 0, nil
}

// Save creates or updates a product's catalog attributes. stock_quantity is
// written on insert only; afterwards it belongs to AdjustStock.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)

	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ? AND version = ?", product.ID, product.Version).
		Updates(map[string]any{
			"sku":             model.SKU,
			"name":            model.Name,
			"description":     model.Description,
			"unit":            model.Unit,
			"cost_price":      model.CostPrice,
			"sale_price":      model.SalePrice,
			"min_stock_level": model.MinStockLevel,
			"status":          model.Status,
			"updated_at":      model.UpdatedAt,
			"version":         gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return translateError("update product", result.Error, nil, errDuplicateSKU)
	}
	if result.RowsAffected > 0 {
		product.IncrementVersion()
		return nil
	}

	return createIfAbsent(ctx, r.db, &models.ProductModel{}, product.ID, model, "create product", errDuplicateSKU)
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return wrapError("delete product", result.Error)
	}
	if result.RowsAffected == 0 {
		return errProductNotFound
	}
	return nil
}

// IsReferenced reports whether any order item or stock movement points at the product
func (r *GormProductRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	for _, table := range []any{&models.SaleItemModel{}, &models.PurchaseItemModel{}, &models.StockMovementModel{}} {
		var count int64
		if err := r.db.WithContext(ctx).Model(table).Where("product_id = ?", id).Limit(1).Count(&count).Error; err != nil {
			return false, wrapError("check product references", err)
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

// AdjustStock applies a relative delta to stock_quantity in one statement,
// so concurrent postings never lose an update
func (r *GormProductRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal, allowNegative bool) error {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{}).Where("id = ?", id)
	if !allowNegative {
		query = query.Where("stock_quantity + ? >= 0", delta)
	}

	result := query.Updates(map[string]any{
		"stock_quantity": gorm.Expr("stock_quantity + ?", delta),
		"updated_at":     time.Now(),
	})
	if result.Error != nil {
		return wrapError("adjust stock", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	exists, err := r.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return errProductNotFound
	}
	return shared.ErrInsufficientStock
}

func (r *GormProductRepository) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, wrapError("check product", err)
	}
	return count > 0, nil
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(sku) LIKE LOWER(?)", pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok && status != "" {
		query = query.Where("status = ?", status)
	}
	return query
}

func (r *GormProductRepository) applyPaging(query *gorm.DB, filter shared.Filter) *gorm.DB {
	filter = filter.Normalize()
	return query.Order(productSort.Order(filter)).Offset(filter.Offset()).Limit(filter.PageSize)
}

func productsToDomain(rows []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
