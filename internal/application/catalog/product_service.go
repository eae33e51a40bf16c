package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/smallerp/backend/internal/application/event"
	appinventory "github.com/smallerp/backend/internal/application/inventory"
	"github.com/smallerp/backend/internal/domain/catalog"
	"github.com/smallerp/backend/internal/domain/inventory"
	"github.com/smallerp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	txScope     appinventory.TransactionScope
	ledger      *appinventory.Ledger
	dispatcher  *event.Dispatcher
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	txScope appinventory.TransactionScope,
	ledger *appinventory.Ledger,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		txScope:     txScope,
		ledger:      ledger,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher used after commit
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.dispatcher = event.NewDispatcher(publisher, s.logger)
}

// Create creates a new product. Opening stock is posted as an adjustment
// movement in the same transaction so the ledger reconciles from day one.
func (s *ProductService) Create(ctx context.Context, userID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.SKU, catalog.ProductDetails{
		Name:          req.Name,
		Description:   req.Description,
		Unit:          req.Unit,
		CostPrice:     req.CostPrice,
		SalePrice:     req.SalePrice,
		MinStockLevel: req.MinStockLevel,
		Status:        catalog.ProductStatus(req.Status),
	})
	if err != nil {
		return nil, err
	}

	if req.OpeningStock != nil && req.OpeningStock.IsNegative() {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Opening stock cannot be negative")
	}

	exists, err := s.productRepo.ExistsBySKU(ctx, product.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewConflictError("DUPLICATE_SKU", "Product with this SKU already exists")
	}

	events := product.PullDomainEvents()
	err = s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return err
		}
		if req.OpeningStock == nil || req.OpeningStock.IsZero() {
			return nil
		}

		_, moved, err := s.ledger.AppendMovement(ctx, repos, inventory.MovementInput{
			ProductID:     product.ID,
			Type:          inventory.MovementTypeAdjustment,
			Quantity:      *req.OpeningStock,
			ReferenceType: inventory.ReferenceTypeAdjustment,
			UserID:        userID,
			Notes:         "opening stock",
		})
		if err != nil {
			return err
		}
		product.StockQuantity = moved.StockAfter
		events = append(events, moved)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
		zap.String("stock_quantity", product.StockQuantity.String()),
	)
	s.dispatcher.Dispatch(ctx, events...)

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves a page of products
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}.Normalize()
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// ListLowStock lists products at or below their minimum stock level
func (s *ProductService) ListLowStock(ctx context.Context, filter ProductListFilter) ([]ProductResponse, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "stock_quantity",
		OrderDir: "asc",
		Filters:  make(map[string]interface{}),
	}.Normalize()

	products, err := s.productRepo.FindLowStock(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// Update updates a product's catalog attributes. Stock is never changed
// here; use an adjustment instead.
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	details := catalog.ProductDetails{
		Name:          product.Name,
		Description:   product.Description,
		Unit:          product.Unit,
		CostPrice:     product.CostPrice,
		SalePrice:     product.SalePrice,
		MinStockLevel: product.MinStockLevel,
		Status:        product.Status,
	}
	if req.Name != nil {
		details.Name = *req.Name
	}
	if req.Description != nil {
		details.Description = *req.Description
	}
	if req.Unit != nil {
		details.Unit = *req.Unit
	}
	if req.CostPrice != nil {
		details.CostPrice = *req.CostPrice
	}
	if req.SalePrice != nil {
		details.SalePrice = *req.SalePrice
	}
	if req.MinStockLevel != nil {
		details.MinStockLevel = *req.MinStockLevel
	}
	if req.Status != nil {
		details.Status = catalog.ProductStatus(*req.Status)
	}

	if req.SKU != nil {
		previous := product.SKU
		if err := product.ChangeSKU(*req.SKU); err != nil {
			return nil, err
		}
		if product.SKU != previous {
			exists, err := s.productRepo.ExistsBySKU(ctx, product.SKU)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewConflictError("DUPLICATE_SKU", "Product with this SKU already exists")
			}
		}
	}

	if err := product.Update(details); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete deletes a product that no order item or movement references
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}

	referenced, err := s.productRepo.IsReferenced(ctx, productID)
	if err != nil {
		return err
	}
	if referenced {
		return shared.NewConflictError("PRODUCT_IN_USE", "Product is referenced by orders or stock movements, deactivate it instead")
	}

	return s.productRepo.Delete(ctx, productID)
}
