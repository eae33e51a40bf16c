package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeSalesOrder    = "SalesOrder"
	AggregateTypePurchaseOrder = "PurchaseOrder"
)

// Event type constants
const (
	EventTypeSalesOrderCreated     = "SalesOrderCreated"
	EventTypeSalesOrderConfirmed   = "SalesOrderConfirmed"
	EventTypeSalesOrderCancelled   = "SalesOrderCancelled"
	EventTypePurchaseOrderCreated  = "PurchaseOrderCreated"
	EventTypePurchaseOrderReceived = "PurchaseOrderReceived"
)

// LineInfo is the stock-relevant part of an order line
type LineInfo struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

func lineInfos(items []OrderItem) []LineInfo {
	lines := make([]LineInfo, len(items))
	for i, item := range items {
		lines[i] = LineInfo{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return lines
}

// SalesOrderCreatedEvent is published when a sale is created
type SalesOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	InvoiceNumber string          `json:"invoice_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewSalesOrderCreatedEvent creates a new SalesOrderCreatedEvent
func NewSalesOrderCreatedEvent(o *SalesOrder) *SalesOrderCreatedEvent {
	return &SalesOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCreated, AggregateTypeSalesOrder, o.ID),
		OrderID:         o.ID,
		InvoiceNumber:   o.OrderNumber,
		TotalAmount:     o.TotalAmount,
	}
}

// SalesOrderConfirmedEvent is published when a sale is posted
type SalesOrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	InvoiceNumber string          `json:"invoice_number"`
	UserID        uuid.UUID       `json:"user_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Lines         []LineInfo      `json:"lines"`
}

// NewSalesOrderConfirmedEvent creates a new SalesOrderConfirmedEvent
func NewSalesOrderConfirmedEvent(o *SalesOrder) *SalesOrderConfirmedEvent {
	return &SalesOrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderConfirmed, AggregateTypeSalesOrder, o.ID),
		OrderID:         o.ID,
		InvoiceNumber:   o.OrderNumber,
		UserID:          o.UserID,
		TotalAmount:     o.TotalAmount,
		Lines:           lineInfos(o.Items),
	}
}

// SalesOrderCancelledEvent is published when a sale is cancelled
type SalesOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID  `json:"order_id"`
	Restocked bool       `json:"restocked"`
	Lines     []LineInfo `json:"lines"`
}

// NewSalesOrderCancelledEvent creates a new SalesOrderCancelledEvent
func NewSalesOrderCancelledEvent(o *SalesOrder, restocked bool) *SalesOrderCancelledEvent {
	return &SalesOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCancelled, AggregateTypeSalesOrder, o.ID),
		OrderID:         o.ID,
		Restocked:       restocked,
		Lines:           lineInfos(o.Items),
	}
}

// PurchaseOrderCreatedEvent is published when a purchase is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(o *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		SupplierID:      o.SupplierID,
		TotalAmount:     o.TotalAmount,
	}
}

// PurchaseOrderReceivedEvent is published when a purchase is received
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID  `json:"order_id"`
	OrderNumber string     `json:"order_number"`
	UserID      uuid.UUID  `json:"user_id"`
	Lines       []LineInfo `json:"lines"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(o *PurchaseOrder) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, AggregateTypePurchaseOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Lines:           lineInfos(o.Items),
	}
}
