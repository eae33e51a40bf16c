package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/smallerp/backend/internal/domain/partner"
	"github.com/smallerp/backend/internal/domain/shared"
	"github.com/smallerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var errSupplierNotFound = shared.NewNotFoundError("SUPPLIER_NOT_FOUND", "Supplier not found")

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by its ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	var model models.SupplierModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find supplier", err, errSupplierNotFound, nil)
	}
	return model.ToDomain(), nil
}

// FindAll finds all suppliers matching the filter
func (r *GormSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	filter = filter.Normalize()
	var rows []models.SupplierModel
	if err := applyPartnerSearch(r.db.WithContext(ctx).Model(&models.SupplierModel{}), filter).
		Order(supplierSort.Order(filter)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, wrapError("list suppliers", err)
	}

	suppliers := make([]partner.Supplier, len(rows))
	for i := range rows {
		suppliers[i] = *rows[i].ToDomain()
	}
	return suppliers, nil
}

// Count counts suppliers matching the filter
func (r *GormSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := applyPartnerSearch(r.db.WithContext(ctx).Model(&models.SupplierModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, wrapError("count suppliers", err)
	}
	return count, nil
}

// Save creates or updates a supplier with an optimistic version check
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	model := models.SupplierModelFromDomain(supplier)

	result := r.db.WithContext(ctx).Model(&models.SupplierModel{}).
		Where("id = ? AND version = ?", supplier.ID, supplier.Version).
		Updates(map[string]any{
			"name":           model.Name,
			"contact_person": model.ContactPerson,
			"email":          model.Email,
			"phone":          model.Phone,
			"address":        model.Address,
			"tax_id":         model.TaxID,
			"payment_terms":  model.PaymentTerms,
			"updated_at":     model.UpdatedAt,
			"version":        gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return wrapError("update supplier", result.Error)
	}
	if result.RowsAffected > 0 {
		supplier.IncrementVersion()
		return nil
	}

	return createIfAbsent(ctx, r.db, &models.SupplierModel{}, supplier.ID, model, "create supplier", shared.ErrAlreadyExists)
}

// Delete deletes a supplier
func (r *GormSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SupplierModel{}, "id = ?", id)
	if result.Error != nil {
		return wrapError("delete supplier", result.Error)
	}
	if result.RowsAffected == 0 {
		return errSupplierNotFound
	}
	return nil
}

// HasPurchases reports whether any purchase references the supplier
func (r *GormSupplierRepository) HasPurchases(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PurchaseModel{}).
		Where("supplier_id = ?", id).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, wrapError("check supplier purchases", err)
	}
	return count > 0, nil
}

var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
