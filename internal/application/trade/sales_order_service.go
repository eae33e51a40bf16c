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

// SalesOrderService runs the sale posting workflow. Every operation that
// writes runs in one transaction; stock only moves through the ledger.
type SalesOrderService struct {
	orderRepo    trade.SalesOrderRepository
	productRepo  catalog.ProductRepository
	customerRepo partner.CustomerRepository
	txScope      appinventory.TransactionScope
	ledger       *appinventory.Ledger
	taxRates     TaxRateProvider
	config       PostingConfig
	dispatcher   *event.Dispatcher
	logger       *zap.Logger
}

// NewSalesOrderService creates a new SalesOrderService
func NewSalesOrderService(
	orderRepo trade.SalesOrderRepository,
	productRepo catalog.ProductRepository,
	customerRepo partner.CustomerRepository,
	txScope appinventory.TransactionScope,
	ledger *appinventory.Ledger,
	taxRates TaxRateProvider,
	config PostingConfig,
	logger *zap.Logger,
) *SalesOrderService {
	return &SalesOrderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		txScope:      txScope,
		ledger:       ledger,
		taxRates:     taxRates,
		config:       config,
		logger:       logger,
	}
}

// SetEventPublisher sets the publisher used after commit
func (s *SalesOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.dispatcher = event.NewDispatcher(publisher, s.logger)
}

// Create creates a sale. A sale created as confirmed has its stock posted
// in the same transaction as the header and items.
func (s *SalesOrderService) Create(ctx context.Context, userID uuid.UUID, req CreateSalesOrderRequest) (*SalesOrderResponse, error) {
	taxRate, err := resolveTaxRate(ctx, s.taxRates, req.TaxRate)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewSalesOrder(trade.SalesOrderInput{
		InvoiceNumber:  trade.NewOrderNumber(s.config.InvoicePrefix, time.Now()),
		CustomerID:     req.CustomerID,
		UserID:         userID,
		Items:          toItemInputs(req.Items),
		DiscountAmount: req.DiscountAmount,
		TaxRate:        taxRate,
		Status:         trade.SaleStatus(req.Status),
		PaymentStatus:  trade.PaymentStatus(req.PaymentStatus),
		PaymentMethod:  req.PaymentMethod,
		Notes:          req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := ensureCustomerExists(ctx, s.customerRepo, order.CustomerID); err != nil {
		return nil, err
	}
	if err := ensureProductsExist(ctx, s.productRepo, order.ProductIDs()); err != nil {
		return nil, err
	}

	var moved []*inventory.StockMovedEvent
	err = createWithRetry(s.config.OrderNumberRetries, func() error {
		return s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			if err := repos.SalesOrderRepo().Create(ctx, order); err != nil {
				return err
			}
			if !order.Status.IsPosted() {
				moved = nil
				return nil
			}
			var err error
			moved, err = s.ledger.PostLines(ctx, repos, order.Lines(),
				inventory.MovementTypeOut, inventory.ReferenceTypeSale, order.ID, userID)
			return err
		})
	}, func() {
		order.Renumber(trade.NewOrderNumber(s.config.InvoicePrefix, time.Now()))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sales order created",
		zap.String("order_id", order.ID.String()),
		zap.String("invoice_number", order.OrderNumber),
		zap.String("status", order.Status.String()),
		zap.String("total_amount", order.TotalAmount.String()),
	)
	s.publish(ctx, order, moved)

	response := ToSalesOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a sale by ID
func (s *SalesOrderService) GetByID(ctx context.Context, id uuid.UUID) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSalesOrderResponse(order)
	return &response, nil
}

// List retrieves a page of sales
func (s *SalesOrderService) List(ctx context.Context, filter SalesOrderListFilter) ([]SalesOrderResponse, int64, error) {
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
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSalesOrderResponses(orders), total, nil
}

// Update replaces a draft sale's header fields and items
func (s *SalesOrderService) Update(ctx context.Context, id uuid.UUID, req UpdateSalesOrderRequest) (*SalesOrderResponse, error) {
	var order *trade.SalesOrder
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.SalesOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		taxRate := order.TaxRate
		if req.TaxRate != nil {
			taxRate = *req.TaxRate
		}
		if err := order.Update(trade.SalesOrderUpdate{
			CustomerID:     req.CustomerID,
			Items:          toItemInputs(req.Items),
			DiscountAmount: req.DiscountAmount,
			TaxRate:        taxRate,
			PaymentStatus:  trade.PaymentStatus(req.PaymentStatus),
			PaymentMethod:  req.PaymentMethod,
			Notes:          req.Notes,
		}); err != nil {
			return err
		}

		if err := ensureCustomerExists(ctx, repos.CustomerRepo(), order.CustomerID); err != nil {
			return err
		}
		if err := ensureProductsExist(ctx, repos.ProductRepo(), order.ProductIDs()); err != nil {
			return err
		}
		return repos.SalesOrderRepo().Update(ctx, order, true)
	})
	if err != nil {
		return nil, err
	}

	response := ToSalesOrderResponse(order)
	return &response, nil
}

// Confirm posts a draft sale: stock goes out and one out movement is
// appended per line
func (s *SalesOrderService) Confirm(ctx context.Context, id, userID uuid.UUID) (_ *SalesOrderResponse, err error) {
	ctx, span := telemetry.StartPostingSpan(ctx, "sales_order", "confirm", id)
	defer func() { telemetry.EndSpan(span, err) }()

	var (
		order *trade.SalesOrder
		moved []*inventory.StockMovedEvent
	)
	err = s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.SalesOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := order.Confirm(); err != nil {
			return err
		}
		if err := repos.SalesOrderRepo().Update(ctx, order, false); err != nil {
			return err
		}
		moved, err = s.ledger.PostLines(ctx, repos, order.Lines(),
			inventory.MovementTypeOut, inventory.ReferenceTypeSale, order.ID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sales order confirmed",
		zap.String("order_id", order.ID.String()),
		zap.String("invoice_number", order.OrderNumber),
	)
	telemetry.AnnotateOrder(span, order.OrderNumber, len(order.Items))
	s.publish(ctx, order, moved)

	response := ToSalesOrderResponse(order)
	return &response, nil
}

// Cancel cancels a sale. Cancelling a confirmed sale returns its stock
// through in movements with reference type return.
func (s *SalesOrderService) Cancel(ctx context.Context, id, userID uuid.UUID) (_ *SalesOrderResponse, err error) {
	ctx, span := telemetry.StartPostingSpan(ctx, "sales_order", "cancel", id)
	defer func() { telemetry.EndSpan(span, err) }()

	var (
		order *trade.SalesOrder
		moved []*inventory.StockMovedEvent
	)
	err = s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.SalesOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		wasPosted, err := order.Cancel()
		if err != nil {
			return err
		}
		if err := repos.SalesOrderRepo().Update(ctx, order, false); err != nil {
			return err
		}
		if !wasPosted {
			return nil
		}
		moved, err = s.ledger.PostLines(ctx, repos, order.Lines(),
			inventory.MovementTypeIn, inventory.ReferenceTypeReturn, order.ID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sales order cancelled",
		zap.String("order_id", order.ID.String()),
		zap.Bool("restocked", len(moved) > 0),
	)
	s.publish(ctx, order, moved)

	response := ToSalesOrderResponse(order)
	return &response, nil
}

// SetPaymentStatus updates only the payment status; allowed in any state
func (s *SalesOrderService) SetPaymentStatus(ctx context.Context, id uuid.UUID, req SetPaymentStatusRequest) (*SalesOrderResponse, error) {
	var order *trade.SalesOrder
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.SalesOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := order.SetPaymentStatus(trade.PaymentStatus(req.PaymentStatus)); err != nil {
			return err
		}
		return repos.SalesOrderRepo().Update(ctx, order, false)
	})
	if err != nil {
		return nil, err
	}

	response := ToSalesOrderResponse(order)
	return &response, nil
}

// Delete deletes a sale that never moved stock
func (s *SalesOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		order, err := repos.SalesOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := order.EnsureDeletable(); err != nil {
			return err
		}
		return repos.SalesOrderRepo().Delete(ctx, id)
	})
}

func ensureCustomerExists(ctx context.Context, customers partner.CustomerRepository, customerID *uuid.UUID) error {
	if customerID == nil {
		return nil
	}
	if _, err := customers.FindByID(ctx, *customerID); err != nil {
		if shared.IsNotFound(err) {
			return shared.NewNotFoundError("CUSTOMER_NOT_FOUND", "Customer not found")
		}
		return err
	}
	return nil
}

func (s *SalesOrderService) publish(ctx context.Context, order *trade.SalesOrder, moved []*inventory.StockMovedEvent) {
	events := append(order.PullDomainEvents(), movedToEvents(moved)...)
	s.dispatcher.Dispatch(ctx, events...)
}
