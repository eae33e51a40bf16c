package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/trade"
)

// ==================== Shared ====================

// OrderItemInput represents one line in a create or update request
type OrderItemInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount_amount"`
}

// SetPaymentStatusRequest changes only the payment status of an order
type SetPaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required,oneof=pending paid partial overdue"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

func toItemInputs(items []OrderItemInput) []trade.ItemInput {
	inputs := make([]trade.ItemInput, len(items))
	for i, item := range items {
		inputs[i] = trade.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
		}
	}
	return inputs
}

func toItemResponses(items []trade.OrderItem) []OrderItemResponse {
	responses := make([]OrderItemResponse, len(items))
	for i, item := range items {
		responses[i] = OrderItemResponse{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			DiscountAmount: item.DiscountAmount,
			LineTotal:      trade.RoundMoney(item.LineTotal),
		}
	}
	return responses
}

// ==================== Sales Order DTOs ====================

// CreateSalesOrderRequest represents a request to create a sale. Status
// "confirmed" posts the sale immediately.
type CreateSalesOrderRequest struct {
	CustomerID     *uuid.UUID       `json:"customer_id"`
	Items          []OrderItemInput `json:"items" binding:"dive"`
	DiscountAmount decimal.Decimal  `json:"discount_amount"`
	TaxRate        *decimal.Decimal `json:"tax_rate"`
	Status         string           `json:"status" binding:"omitempty,oneof=draft confirmed"`
	PaymentStatus  string           `json:"payment_status" binding:"omitempty,oneof=pending paid partial overdue"`
	PaymentMethod  string           `json:"payment_method" binding:"max=50"`
	Notes          string           `json:"notes" binding:"max=2000"`
}

// UpdateSalesOrderRequest represents a request to update a draft sale.
// Items replace the existing lines wholesale.
type UpdateSalesOrderRequest struct {
	CustomerID     *uuid.UUID       `json:"customer_id"`
	Items          []OrderItemInput `json:"items" binding:"dive"`
	DiscountAmount decimal.Decimal  `json:"discount_amount"`
	TaxRate        *decimal.Decimal `json:"tax_rate"`
	PaymentStatus  string           `json:"payment_status" binding:"omitempty,oneof=pending paid partial overdue"`
	PaymentMethod  string           `json:"payment_method" binding:"max=50"`
	Notes          string           `json:"notes" binding:"max=2000"`
}

// SalesOrderListFilter represents filter options for the sales list
type SalesOrderListFilter struct {
	Status     string     `form:"status" binding:"omitempty,oneof=draft confirmed cancelled"`
	CustomerID *uuid.UUID `form:"customer_id"`
	Search     string     `form:"search"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SalesOrderResponse represents a sale in API responses. Amounts are
// rounded to two decimals.
type SalesOrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	InvoiceNumber  string              `json:"invoice_number"`
	CustomerID     *uuid.UUID          `json:"customer_id,omitempty"`
	UserID         uuid.UUID           `json:"user_id"`
	OrderDate      time.Time           `json:"order_date"`
	Items          []OrderItemResponse `json:"items"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	TaxRate        decimal.Decimal     `json:"tax_rate"`
	TaxAmount      decimal.Decimal     `json:"tax_amount"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	PaymentStatus  string              `json:"payment_status"`
	PaymentMethod  string              `json:"payment_method,omitempty"`
	Status         string              `json:"status"`
	Notes          string              `json:"notes,omitempty"`
	ConfirmedAt    *time.Time          `json:"confirmed_at,omitempty"`
	CancelledAt    *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	Version        int                 `json:"version"`
}

// ToSalesOrderResponse converts a domain SalesOrder to SalesOrderResponse
func ToSalesOrderResponse(o *trade.SalesOrder) SalesOrderResponse {
	return SalesOrderResponse{
		ID:             o.ID,
		InvoiceNumber:  o.OrderNumber,
		CustomerID:     o.CustomerID,
		UserID:         o.UserID,
		OrderDate:      o.OrderDate,
		Items:          toItemResponses(o.Items),
		Subtotal:       trade.RoundMoney(o.Subtotal),
		TaxRate:        o.TaxRate,
		TaxAmount:      trade.RoundMoney(o.TaxAmount),
		DiscountAmount: trade.RoundMoney(o.DiscountAmount),
		TotalAmount:    trade.RoundMoney(o.TotalAmount),
		PaymentStatus:  string(o.PaymentStatus),
		PaymentMethod:  o.PaymentMethod,
		Status:         o.Status.String(),
		Notes:          o.Notes,
		ConfirmedAt:    o.ConfirmedAt,
		CancelledAt:    o.CancelledAt,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
		Version:        o.Version,
	}
}

// ToSalesOrderResponses converts a slice of domain SalesOrders
func ToSalesOrderResponses(orders []trade.SalesOrder) []SalesOrderResponse {
	responses := make([]SalesOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToSalesOrderResponse(&orders[i])
	}
	return responses
}

// ==================== Purchase Order DTOs ====================

// CreatePurchaseOrderRequest represents a request to create a purchase.
// UnitPrice on each item is the unit cost.
type CreatePurchaseOrderRequest struct {
	SupplierID       uuid.UUID        `json:"supplier_id" binding:"required"`
	Items            []OrderItemInput `json:"items" binding:"dive"`
	DiscountAmount   decimal.Decimal  `json:"discount_amount"`
	TaxRate          *decimal.Decimal `json:"tax_rate"`
	Status           string           `json:"status" binding:"omitempty,oneof=pending confirmed"`
	PaymentStatus    string           `json:"payment_status" binding:"omitempty,oneof=pending paid partial overdue"`
	ExpectedDelivery *time.Time       `json:"expected_delivery"`
	PaymentTerms     string           `json:"payment_terms" binding:"max=100"`
	Notes            string           `json:"notes" binding:"max=2000"`
}

// UpdatePurchaseOrderRequest represents a request to update an unreceived
// purchase. Items replace the existing lines wholesale.
type UpdatePurchaseOrderRequest struct {
	SupplierID       uuid.UUID        `json:"supplier_id" binding:"required"`
	Items            []OrderItemInput `json:"items" binding:"dive"`
	DiscountAmount   decimal.Decimal  `json:"discount_amount"`
	TaxRate          *decimal.Decimal `json:"tax_rate"`
	PaymentStatus    string           `json:"payment_status" binding:"omitempty,oneof=pending paid partial overdue"`
	ExpectedDelivery *time.Time       `json:"expected_delivery"`
	PaymentTerms     string           `json:"payment_terms" binding:"max=100"`
	Notes            string           `json:"notes" binding:"max=2000"`
}

// PurchaseOrderListFilter represents filter options for the purchase list
type PurchaseOrderListFilter struct {
	Status     string     `form:"status" binding:"omitempty,oneof=pending confirmed received cancelled"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	Search     string     `form:"search"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseOrderResponse represents a purchase in API responses
type PurchaseOrderResponse struct {
	ID               uuid.UUID           `json:"id"`
	OrderNumber      string              `json:"order_number"`
	SupplierID       uuid.UUID           `json:"supplier_id"`
	UserID           uuid.UUID           `json:"user_id"`
	OrderDate        time.Time           `json:"order_date"`
	Items            []OrderItemResponse `json:"items"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	TaxRate          decimal.Decimal     `json:"tax_rate"`
	TaxAmount        decimal.Decimal     `json:"tax_amount"`
	DiscountAmount   decimal.Decimal     `json:"discount_amount"`
	TotalAmount      decimal.Decimal     `json:"total_amount"`
	PaymentStatus    string              `json:"payment_status"`
	PaymentTerms     string              `json:"payment_terms"`
	Status           string              `json:"status"`
	ExpectedDelivery *time.Time          `json:"expected_delivery,omitempty"`
	Notes            string              `json:"notes,omitempty"`
	ConfirmedAt      *time.Time          `json:"confirmed_at,omitempty"`
	ReceivedAt       *time.Time          `json:"received_at,omitempty"`
	CancelledAt      *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
	Version          int                 `json:"version"`
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder to PurchaseOrderResponse
func ToPurchaseOrderResponse(o *trade.PurchaseOrder) PurchaseOrderResponse {
	return PurchaseOrderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		SupplierID:       o.SupplierID,
		UserID:           o.UserID,
		OrderDate:        o.OrderDate,
		Items:            toItemResponses(o.Items),
		Subtotal:         trade.RoundMoney(o.Subtotal),
		TaxRate:          o.TaxRate,
		TaxAmount:        trade.RoundMoney(o.TaxAmount),
		DiscountAmount:   trade.RoundMoney(o.DiscountAmount),
		TotalAmount:      trade.RoundMoney(o.TotalAmount),
		PaymentStatus:    string(o.PaymentStatus),
		PaymentTerms:     o.PaymentTerms,
		Status:           o.Status.String(),
		ExpectedDelivery: o.ExpectedDelivery,
		Notes:            o.Notes,
		ConfirmedAt:      o.ConfirmedAt,
		ReceivedAt:       o.ReceivedAt,
		CancelledAt:      o.CancelledAt,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		Version:          o.Version,
	}
}

// ToPurchaseOrderResponses converts a slice of domain PurchaseOrders
func ToPurchaseOrderResponses(orders []trade.PurchaseOrder) []PurchaseOrderResponse {
	responses := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return responses
}
