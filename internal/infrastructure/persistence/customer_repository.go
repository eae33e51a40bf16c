package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/smallerp/backend/internal/domain/partner"
	"github.com/smallerp/backend/internal/domain/shared"
	"github.com/smallerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var errCustomerNotFound = shared.NewNotFoundError("CUSTOMER_NOT_FOUND", "Customer not found")

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find customer", err, errCustomerNotFound, nil)
	}
	return model.ToDomain(), nil
}

// FindAll finds all customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	filter = filter.Normalize()
	var rows []models.CustomerModel
	if err := applyPartnerSearch(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter).
		Order(customerSort.Order(filter)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, wrapError("list customers", err)
	}

	customers := make([]partner.Customer, len(rows))
	for i := range rows {
		customers[i] = *rows[i].ToDomain()
	}
	return customers, nil
}

// Count counts customers matching the filter
func (r *GormCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := applyPartnerSearch(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, wrapError("count customers", err)
	}
	return count, nil
}

// Save creates or updates a customer with an optimistic version check
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)

	result := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Where("id = ? AND version = ?", customer.ID, customer.Version).
		Updates(map[string]any{
			"name":         model.Name,
			"email":        model.Email,
			"phone":        model.Phone,
			"address":      model.Address,
			"tax_id":       model.TaxID,
			"credit_limit": model.CreditLimit,
			"updated_at":   model.UpdatedAt,
			"version":      gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return wrapError("update customer", result.Error)
	}
	if result.RowsAffected > 0 {
		customer.IncrementVersion()
		return nil
	}

	return createIfAbsent(ctx, r.db, &models.CustomerModel{}, customer.ID, model, "create customer", shared.ErrAlreadyExists)
}

// Delete deletes a customer
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CustomerModel{}, "id = ?", id)
	if result.Error != nil {
		return wrapError("delete customer", result.Error)
	}
	if result.RowsAffected == 0 {
		return errCustomerNotFound
	}
	return nil
}

// HasSales reports whether any sale references the customer
func (r *GormCustomerRepository) HasSales(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Where("customer_id = ?", id).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, wrapError("check customer sales", err)
	}
	return count > 0, nil
}

// applyPartnerSearch matches the search term against name, email and phone
func applyPartnerSearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search == "" {
		return query
	}
	pattern := "%" + filter.Search + "%"
	return query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?) OR phone LIKE ?", pattern, pattern, pattern)
}

// createIfAbsent inserts model after a versioned update matched no row. A
// row that exists under another version means a concurrent modification.
func createIfAbsent(ctx context.Context, db *gorm.DB, table any, id uuid.UUID, model any, op string, conflict *shared.DomainError) error {
	var count int64
	if err := db.WithContext(ctx).Model(table).Where("id = ?", id).Count(&count).Error; err != nil {
		return wrapError(op, err)
	}
	if count > 0 {
		return errConcurrentModification
	}
	if err := db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(op, err, nil, conflict)
	}
	return nil
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
