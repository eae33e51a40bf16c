package telemetry

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/inventory"
	"github.com/smallerp/backend/internal/domain/shared"
	"github.com/smallerp/backend/internal/domain/trade"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Order types used as the order_type attribute
const (
	OrderTypeSales    = "sales"
	OrderTypePurchase = "purchase"
)

// LowStockCounter reports how many products are at or below their
// minimum stock level
type LowStockCounter interface {
	CountLowStock(ctx context.Context) (int64, error)
}

// PostingMetrics turns posting events into counters. It is subscribed to
// the event bus like any other handler.
type PostingMetrics struct {
	logger *zap.Logger

	ordersPosted    *Counter
	ordersCancelled *Counter
	orderAmount     *Counter
	movements       *Counter
	lowStockAlerts  *Counter
}

// NewPostingMetrics registers the posting instruments on meter. When
// counter is non-nil a low stock gauge is observed from it on every
// collection.
func NewPostingMetrics(meter metric.Meter, counter LowStockCounter, logger *zap.Logger) (*PostingMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pm := &PostingMetrics{logger: logger}

	var err error
	if pm.ordersPosted, err = NewCounter(meter, "erp_orders_posted_total",
		"Orders whose stock was posted", "{orders}"); err != nil {
		return nil, err
	}
	if pm.ordersCancelled, err = NewCounter(meter, "erp_orders_cancelled_total",
		"Sales cancelled, with restocked=true when stock was returned", "{orders}"); err != nil {
		return nil, err
	}
	if pm.orderAmount, err = NewCounter(meter, "erp_order_amount_total",
		"Posted sale amount in cents", "{cents}"); err != nil {
		return nil, err
	}
	if pm.movements, err = NewCounter(meter, "erp_stock_movements_total",
		"Stock movements appended to the ledger", "{movements}"); err != nil {
		return nil, err
	}
	if pm.lowStockAlerts, err = NewCounter(meter, "erp_low_stock_alerts_total",
		"Movements that left a product at or below its minimum level", "{alerts}"); err != nil {
		return nil, err
	}

	if counter != nil {
		_, err = meter.Int64ObservableGauge("erp_low_stock_products",
			metric.WithDescription("Products at or below their minimum stock level"),
			metric.WithUnit("{products}"),
			metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
				n, err := counter.CountLowStock(ctx)
				if err != nil {
					logger.Warn("failed to count low stock products", zap.Error(err))
					return nil
				}
				o.Observe(n)
				return nil
			}),
		)
		if err != nil {
			return nil, err
		}
	}

	return pm, nil
}

// EventTypes returns the posting events this handler counts
func (pm *PostingMetrics) EventTypes() []string {
	return []string{
		trade.EventTypeSalesOrderConfirmed,
		trade.EventTypeSalesOrderCancelled,
		trade.EventTypePurchaseOrderReceived,
		inventory.EventTypeStockMoved,
	}
}

// Handle records the event. Unknown events are ignored.
func (pm *PostingMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *trade.SalesOrderConfirmedEvent:
		pm.ordersPosted.Inc(ctx, AttrOrderType.String(OrderTypeSales))
		pm.orderAmount.Add(ctx, toCents(e.TotalAmount), AttrOrderType.String(OrderTypeSales))
	case *trade.SalesOrderCancelledEvent:
		pm.ordersCancelled.Inc(ctx, AttrOrderType.String(OrderTypeSales), AttrRestocked.Bool(e.Restocked))
	case *trade.PurchaseOrderReceivedEvent:
		pm.ordersPosted.Inc(ctx, AttrOrderType.String(OrderTypePurchase))
	case *inventory.StockMovedEvent:
		pm.movements.Inc(ctx,
			AttrMovementType.String(string(e.MovementType)),
			AttrReferenceType.String(string(e.ReferenceType)),
		)
		if e.IsLowStock() {
			pm.lowStockAlerts.Inc(ctx)
		}
	default:
		pm.logger.Debug("posting metrics ignored event", zap.String("event_type", event.EventType()))
	}
	return nil
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

var _ shared.EventHandler = (*PostingMetrics)(nil)
