package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smallerp/backend/internal/application/event"
	appinventory "github.com/smallerp/backend/internal/application/inventory"
	"github.com/smallerp/backend/internal/domain/catalog"
	"github.com/smallerp/backend/internal/domain/inventory"
	"github.com/smallerp/backend/internal/domain/partner"
	"github.com/smallerp/backend/internal/domain/shared"
	"github.com/smallerp/backend/internal/domain/trade"
	"github.com/smallerp/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PurchaseOrderService runs the purchase receipt workflow
type PurchaseOrderService struct {
	orderRepo    trade.PurchaseOrderRepository
	productRepo  catalog.ProductRepository
	supplierRepo partner.SupplierRepository
	txScope      appinventory.TransactionScope
	ledger       *appinventory.Ledger
	taxRates     TaxRateProvider
	config       PostingConfig
	dispatcher   *event.Dispatcher
	logger       *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo trade.PurchaseOrderRepository,
	productRepo catalog.ProductRepository,
	supplierRepo partner.SupplierRepository,
	txScope appinventory.TransactionScope,
	ledger *appinventory.Ledger,
	taxRates TaxRateProvider,
	config PostingConfig,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		txScope:      txScope,
		ledger:       ledger,
		taxRates:     taxRates,
		config:       config,
		logger:       logger,
	}
}

// SetEventPublisher sets the publisher used after commit
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.dispatcher = event.NewDispatcher(publisher, s.logger)
}

// Create creates a pending or confirmed purchase. No stock moves.
func (s *PurchaseOrderService) Create(ctx context.Context, userID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	taxRate, err := resolveTaxRate(ctx, s.taxRates, req.TaxRate)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewPurchaseOrder(trade.PurchaseOrderInput{
		OrderNumber:      trade.NewOrderNumber(s.config.PurchasePrefix, time.Now()),
		SupplierID:       req.SupplierID,
		UserID:           userID,
		Items:            toItemInputs(req.Items),
		DiscountAmount:   req.DiscountAmount,
		TaxRate:          taxRate,
		Status:           trade.PurchaseStatus(req.Status),
		PaymentStatus:    trade.PaymentStatus(req.PaymentStatus),
		ExpectedDelivery: req.ExpectedDelivery,
		PaymentTerms:     req.PaymentTerms,
		Notes:            req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := ensureSupplierExists(ctx, s.supplierRepo, order.SupplierID); err != nil {
		return nil, err
	}
	if err := ensureProductsExist(ctx, s.productRepo, order.ProductIDs()); err != nil {
		return nil, err
	}

	err = createWithRetry(s.config.OrderNumberRetries, func() error {
		return s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			return repos.PurchaseOrderRepo().Create(ctx, order)
		})
	}, func() {
		order.Renumber(trade.NewOrderNumber(s.config.PurchasePrefix, time.Now()))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("supplier_id", order.SupplierID.String()),
		zap.String("total_amount", order.TotalAmount.String()),
	)
	s.publish(ctx, order, nil)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves a page of purchases
func (s *PurchaseOrderService) List(ctx context.Context, filter PurchaseOrderListFilter) ([]PurchaseOrderResponse, int64, error) {
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
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPurchaseOrderResponses(orders), total, nil
}

// Update replaces an unreceived purchase's header fields and items
func (s *PurchaseOrderService) Update(ctx context.Context, id uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	var order *trade.PurchaseOrder
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.PurchaseOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		taxRate := order.TaxRate
		if req.TaxRate != nil {
			taxRate = *req.TaxRate
		}
		if err := order.Update(trade.PurchaseOrderUpdate{
			SupplierID:       req.SupplierID,
			Items:            toItemInputs(req.Items),
			DiscountAmount:   req.DiscountAmount,
			TaxRate:          taxRate,
			PaymentStatus:    trade.PaymentStatus(req.PaymentStatus),
			ExpectedDelivery: req.ExpectedDelivery,
			PaymentTerms:     req.PaymentTerms,
			Notes:            req.Notes,
		}); err != nil {
			return err
		}

		if err := ensureSupplierExists(ctx, repos.SupplierRepo(), order.SupplierID); err != nil {
			return err
		}
		if err := ensureProductsExist(ctx, repos.ProductRepo(), order.ProductIDs()); err != nil {
			return err
		}
		return repos.PurchaseOrderRepo().Update(ctx, order, true)
	})
	if err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Confirm marks a pending purchase as confirmed with the supplier
func (s *PurchaseOrderService) Confirm(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	var order *trade.PurchaseOrder
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.PurchaseOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := order.Confirm(); err != nil {
			return err
		}
		return repos.PurchaseOrderRepo().Update(ctx, order, false)
	})
	if err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Receive posts a purchase receipt. The status change and one in movement
// per line commit together; a received purchase cannot be received again.
func (s *PurchaseOrderService) Receive(ctx context.Context, id, userID uuid.UUID) (_ *PurchaseOrderResponse, err error) {
	ctx, span := telemetry.StartPostingSpan(ctx, "purchase_order", "receive", id)
	defer func() { telemetry.EndSpan(span, err) }()

	var (
		order *trade.PurchaseOrder
		moved []*inventory.StockMovedEvent
	)
	err = s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.PurchaseOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := order.Receive(); err != nil {
			return err
		}
		if err := repos.PurchaseOrderRepo().Update(ctx, order, false); err != nil {
			return err
		}
		moved, err = s.ledger.PostLines(ctx, repos, order.Lines(),
			inventory.MovementTypeIn, inventory.ReferenceTypePurchase, order.ID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase order received",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Int("lines", len(order.Items)),
	)
	telemetry.AnnotateOrder(span, order.OrderNumber, len(order.Items))
	s.publish(ctx, order, moved)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Cancel cancels a purchase that has not been received
func (s *PurchaseOrderService) Cancel(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	var order *trade.PurchaseOrder
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.PurchaseOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := order.Cancel(); err != nil {
			return err
		}
		return repos.PurchaseOrderRepo().Update(ctx, order, false)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase order cancelled", zap.String("order_id", order.ID.String()))

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// SetPaymentStatus updates only the payment status; allowed in any state
func (s *PurchaseOrderService) SetPaymentStatus(ctx context.Context, id uuid.UUID, req SetPaymentStatusRequest) (*PurchaseOrderResponse, error) {
	var order *trade.PurchaseOrder
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.PurchaseOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := order.SetPaymentStatus(trade.PaymentStatus(req.PaymentStatus)); err != nil {
			return err
		}
		return repos.PurchaseOrderRepo().Update(ctx, order, false)
	})
	if err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Delete deletes a purchase that has not been received
func (s *PurchaseOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		order, err := repos.PurchaseOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := order.EnsureDeletable(); err != nil {
			return err
		}
		return repos.PurchaseOrderRepo().Delete(ctx, id)
	})
}

func ensureSupplierExists(ctx context.Context, suppliers partner.SupplierRepository, supplierID uuid.UUID) error {
	if _, err := suppliers.FindByID(ctx, supplierID); err != nil {
		if shared.IsNotFound(err) {
			return shared.NewNotFoundError("SUPPLIER_NOT_FOUND", "Supplier not found")
		}
		return err
	}
	return nil
}

func (s *PurchaseOrderService) publish(ctx context.Context, order *trade.PurchaseOrder, moved []*inventory.StockMovedEvent) {
	events := append(order.PullDomainEvents(), movedToEvents(moved)...)
	s.dispatcher.Dispatch(ctx, events...)
}
