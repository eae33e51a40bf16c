package inventory

import (
	"context"

	"github.com/smallerp/backend/internal/domain/catalog"
	"github.com/smallerp/backend/internal/domain/inventory"
	"github.com/smallerp/backend/internal/domain/partner"
	"github.com/smallerp/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories that
// take part in stock posting. Everything done inside fn is committed or
// rolled back as one unit.
type TransactionScope interface {
	// Execute runs fn within a database transaction. If fn returns an
	// error the transaction is rolled back, otherwise it is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to repositories bound to the
// current transaction. All of them share the same underlying transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// MovementRepo returns the stock movement repository scoped to the current transaction
	MovementRepo() inventory.StockMovementRepository
	// SalesOrderRepo returns the sales order repository scoped to the current transaction
	SalesOrderRepo() trade.SalesOrderRepository
	// PurchaseOrderRepo returns the purchase order repository scoped to the current transaction
	PurchaseOrderRepo() trade.PurchaseOrderRepository
	// CustomerRepo returns the customer repository scoped to the current transaction
	CustomerRepo() partner.CustomerRepository
	// SupplierRepo returns the supplier repository scoped to the current transaction
	SupplierRepo() partner.SupplierRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Used by unit tests.
type NoOpTransactionScope struct {
	productRepo  catalog.ProductRepository
	movementRepo inventory.StockMovementRepository
	salesRepo    trade.SalesOrderRepository
	purchaseRepo trade.PurchaseOrderRepository
	customerRepo partner.CustomerRepository
	supplierRepo partner.SupplierRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	movementRepo inventory.StockMovementRepository,
	salesRepo trade.SalesOrderRepository,
	purchaseRepo trade.PurchaseOrderRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		salesRepo:    salesRepo,
		purchaseRepo: purchaseRepo,
	}
}

// WithPartners sets the customer and supplier repositories and returns s
func (s *NoOpTransactionScope) WithPartners(customers partner.CustomerRepository, suppliers partner.SupplierRepository) *NoOpTransactionScope {
	s.customerRepo = customers
	s.supplierRepo = suppliers
	return s
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// MovementRepo returns the stock movement repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository {
	return s.movementRepo
}

// SalesOrderRepo returns the sales order repository.
func (s *NoOpTransactionScope) SalesOrderRepo() trade.SalesOrderRepository {
	return s.salesRepo
}

// PurchaseOrderRepo returns the purchase order repository.
func (s *NoOpTransactionScope) PurchaseOrderRepo() trade.PurchaseOrderRepository {
	return s.purchaseRepo
}

// CustomerRepo returns the customer repository.
func (s *NoOpTransactionScope) CustomerRepo() partner.CustomerRepository {
	return s.customerRepo
}

// SupplierRepo returns the supplier repository.
func (s *NoOpTransactionScope) SupplierRepo() partner.SupplierRepository {
	return s.supplierRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
