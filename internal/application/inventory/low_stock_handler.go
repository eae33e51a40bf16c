package inventory

import (
	"context"
	"fmt"

	"github.com/smallerp/backend/internal/domain/inventory"
	"github.com/smallerp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockAlertNotifier sends low stock alerts
type StockAlertNotifier interface {
	SendAlert(ctx context.Context, alert StockAlert) error
}

// StockAlert represents a stock level alert
type StockAlert struct {
	ProductID       string `json:"product_id"`
	SKU             string `json:"sku"`
	CurrentQuantity string `json:"current_quantity"`
	MinimumQuantity string `json:"minimum_quantity"`
	AlertType       string `json:"alert_type"` // "low_stock", "out_of_stock"
}

// LowStockHandler raises an alert when a movement leaves a product at or
// below its minimum stock level
type LowStockHandler struct {
	logger   *zap.Logger
	notifier StockAlertNotifier
}

// NewLowStockHandler creates a new handler for StockMoved events
func NewLowStockHandler(logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{
		logger:   logger,
		notifier: NewLoggingStockAlertNotifier(logger),
	}
}

// WithNotifier replaces the default logging notifier
func (h *LowStockHandler) WithNotifier(notifier StockAlertNotifier) *LowStockHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockMoved}
}

// Handle processes a StockMovedEvent
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	moved, ok := event.(*inventory.StockMovedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", inventory.EventTypeStockMoved),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockMoved, event.EventType())
	}

	if !moved.IsLowStock() {
		return nil
	}

	alertType := "low_stock"
	if !moved.StockAfter.IsPositive() {
		alertType = "out_of_stock"
	}

	alert := StockAlert{
		ProductID:       moved.ProductID.String(),
		SKU:             moved.SKU,
		CurrentQuantity: moved.StockAfter.String(),
		MinimumQuantity: moved.MinStockLevel.String(),
		AlertType:       alertType,
	}

	if err := h.notifier.SendAlert(ctx, alert); err != nil {
		// Alert delivery never fails the posting that triggered it.
		h.logger.Error("failed to send stock alert",
			zap.String("product_id", alert.ProductID),
			zap.Error(err),
		)
	}
	return nil
}

var _ shared.EventHandler = (*LowStockHandler)(nil)

// LoggingStockAlertNotifier writes alerts to the log
type LoggingStockAlertNotifier struct {
	logger *zap.Logger
}

// NewLoggingStockAlertNotifier creates a new logging notifier
func NewLoggingStockAlertNotifier(logger *zap.Logger) *LoggingStockAlertNotifier {
	return &LoggingStockAlertNotifier{logger: logger}
}

// SendAlert logs the stock alert
func (n *LoggingStockAlertNotifier) SendAlert(_ context.Context, alert StockAlert) error {
	n.logger.Warn("STOCK ALERT",
		zap.String("type", alert.AlertType),
		zap.String("product_id", alert.ProductID),
		zap.String("sku", alert.SKU),
		zap.String("current_qty", alert.CurrentQuantity),
		zap.String("minimum_qty", alert.MinimumQuantity),
	)
	return nil
}

var _ StockAlertNotifier = (*LoggingStockAlertNotifier)(nil)
