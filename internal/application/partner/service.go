package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/smallerp/backend/internal/domain/partner"
	"github.com/smallerp/backend/internal/domain/shared"
)

// directory holds the operations customers and suppliers share. T is the
// aggregate and R its API shape; referenced guards deletion with inUse.
type directory[T any, R any] struct {
	repo       partner.Store[T]
	view       func(*T) R
	referenced func(ctx context.Context, id uuid.UUID) (bool, error)
	inUse      *shared.DomainError
}

func (d directory[T, R]) save(ctx context.Context, entity *T) (*R, error) {
	if err := d.repo.Save(ctx, entity); err != nil {
		return nil, err
	}
	out := d.view(entity)
	return &out, nil
}

func (d directory[T, R]) GetByID(ctx context.Context, id uuid.UUID) (*R, error) {
	entity, err := d.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := d.view(entity)
	return &out, nil
}

// List returns one page and the total matching count.
func (d directory[T, R]) List(ctx context.Context, filter ListFilter) ([]R, int64, error) {
	query := filter.toDomain()
	page, err := d.repo.FindAll(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	total, err := d.repo.Count(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	out := make([]R, len(page))
	for i := range page {
		out[i] = d.view(&page[i])
	}
	return out, total, nil
}

// Delete removes an unreferenced partner.
func (d directory[T, R]) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := d.repo.FindByID(ctx, id); err != nil {
		return err
	}
	used, err := d.referenced(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return d.inUse
	}
	return d.repo.Delete(ctx, id)
}

// CustomerService manages the customers sales are made to
type CustomerService struct {
	directory[partner.Customer, CustomerResponse]
}

func NewCustomerService(repo partner.CustomerRepository) *CustomerService {
	return &CustomerService{directory[partner.Customer, CustomerResponse]{
		repo:       repo,
		view:       ToCustomerResponse,
		referenced: repo.HasSales,
		inUse:      shared.NewConflictError("CUSTOMER_IN_USE", "Customer has sales and cannot be deleted"),
	}}
}

func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(req.Name, req.Contact.toDomain(), req.CreditLimit)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, customer)
}

func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := customer.Update(req.Name, req.Contact.toDomain(), req.CreditLimit); err != nil {
		return nil, err
	}
	return s.save(ctx, customer)
}

// SupplierService manages the suppliers purchases are made from
type SupplierService struct {
	directory[partner.Supplier, SupplierResponse]
}

func NewSupplierService(repo partner.SupplierRepository) *SupplierService {
	return &SupplierService{directory[partner.Supplier, SupplierResponse]{
		repo:       repo,
		view:       ToSupplierResponse,
		referenced: repo.HasPurchases,
		inUse:      shared.NewConflictError("SUPPLIER_IN_USE", "Supplier has purchases and cannot be deleted"),
	}}
}

func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(req.Name, req.ContactPerson, req.Contact.toDomain(), req.PaymentTerms)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, supplier)
}

func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.Update(req.Name, req.ContactPerson, req.Contact.toDomain(), req.PaymentTerms); err != nil {
		return nil, err
	}
	return s.save(ctx, supplier)
}
