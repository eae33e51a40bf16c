package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/trade"
)

// OrderColumns are the header columns shared by sales and purchases
type OrderColumns struct {
	UserID         uuid.UUID           `gorm:"type:uuid;not null;index"`
	OrderDate      time.Time           `gorm:"not null;index"`
	Subtotal       decimal.Decimal     `gorm:"type:numeric;not null;default:0"`
	TaxRate        decimal.Decimal     `gorm:"type:decimal(6,4);not null;default:0"`
	TaxAmount      decimal.Decimal     `gorm:"type:numeric;not null;default:0"`
	DiscountAmount decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount    decimal.Decimal     `gorm:"type:numeric;not null;default:0"`
	PaymentStatus  trade.PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	Notes          string              `gorm:"type:text"`
}

func orderColumnsFrom(o *trade.Order) OrderColumns {
	return OrderColumns{
		UserID:         o.UserID,
		OrderDate:      o.OrderDate,
		Subtotal:       o.Subtotal,
		TaxRate:        o.TaxRate,
		TaxAmount:      o.TaxAmount,
		DiscountAmount: o.DiscountAmount,
		TotalAmount:    o.TotalAmount,
		PaymentStatus:  o.PaymentStatus,
		Notes:          o.Notes,
	}
}

func (c OrderColumns) toOrder(root AggregateModel, number string, items []trade.OrderItem) trade.Order {
	return trade.Order{
		BaseAggregateRoot: root.ToAggregateRoot(),
		OrderNumber:       number,
		UserID:            c.UserID,
		OrderDate:         c.OrderDate,
		Items:             items,
		Subtotal:          c.Subtotal,
		TaxRate:           c.TaxRate,
		TaxAmount:         c.TaxAmount,
		DiscountAmount:    c.DiscountAmount,
		TotalAmount:       c.TotalAmount,
		PaymentStatus:     c.PaymentStatus,
		Notes:             c.Notes,
	}
}

// SaleModel is the persistence model for the SalesOrder aggregate
type SaleModel struct {
	AggregateModel
	InvoiceNumber string `gorm:"type:varchar(50);not null;uniqueIndex:idx_sales_invoice_number"`
	OrderColumns
	CustomerID    *uuid.UUID       `gorm:"type:uuid;index"`
	PaymentMethod string           `gorm:"type:varchar(50)"`
	Status        trade.SaleStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	ConfirmedAt   *time.Time
	CancelledAt   *time.Time
	Items         []SaleItemModel `gorm:"foreignKey:SaleID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain SalesOrder
func (m *SaleModel) ToDomain() *trade.SalesOrder {
	items := make([]trade.OrderItem, len(m.Items))
	for i := range m.Items {
		items[i] = m.Items[i].ToDomain()
	}
	return &trade.SalesOrder{
		Order:         m.OrderColumns.toOrder(m.AggregateModel, m.InvoiceNumber, items),
		CustomerID:    m.CustomerID,
		PaymentMethod: m.PaymentMethod,
		Status:        m.Status,
		ConfirmedAt:   m.ConfirmedAt,
		CancelledAt:   m.CancelledAt,
	}
}

// FromDomain populates the persistence model from a domain SalesOrder
func (m *SaleModel) FromDomain(o *trade.SalesOrder) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.InvoiceNumber = o.OrderNumber
	m.OrderColumns = orderColumnsFrom(&o.Order)
	m.CustomerID = o.CustomerID
	m.PaymentMethod = o.PaymentMethod
	m.Status = o.Status
	m.ConfirmedAt = o.ConfirmedAt
	m.CancelledAt = o.CancelledAt
	m.Items = make([]SaleItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = SaleItemModel{
			ID:             item.ID,
			LineNo:         i + 1,
			SaleID:         o.ID,
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			DiscountAmount: item.DiscountAmount,
			LineTotal:      item.LineTotal,
		}
	}
}

// SaleModelFromDomain creates a new persistence model from a domain SalesOrder
func SaleModelFromDomain(o *trade.SalesOrder) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(o)
	return m
}

// SaleItemModel is a line of a sale
type SaleItemModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	LineNo         int             `gorm:"not null;default:0"`
	SaleID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LineTotal      decimal.Decimal `gorm:"type:numeric;not null"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// ToDomain converts the persistence model to a domain OrderItem
func (m *SaleItemModel) ToDomain() trade.OrderItem {
	return trade.OrderItem{
		ID:             m.ID,
		OrderID:        m.SaleID,
		ProductID:      m.ProductID,
		Quantity:       m.Quantity,
		UnitPrice:      m.UnitPrice,
		DiscountAmount: m.DiscountAmount,
		LineTotal:      m.LineTotal,
	}
}

// PurchaseModel is the persistence model for the PurchaseOrder aggregate
type PurchaseModel struct {
	AggregateModel
	OrderNumber string `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchases_order_number"`
	OrderColumns
	SupplierID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	ExpectedDelivery *time.Time
	PaymentTerms     string               `gorm:"type:varchar(100);not null;default:'net_30'"`
	Status           trade.PurchaseStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	ConfirmedAt      *time.Time
	ReceivedAt       *time.Time
	CancelledAt      *time.Time
	Items            []PurchaseItemModel `gorm:"foreignKey:PurchaseID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PurchaseModel) TableName() string {
	return "purchases"
}

// ToDomain converts the persistence model to a domain PurchaseOrder
func (m *PurchaseModel) ToDomain() *trade.PurchaseOrder {
	items := make([]trade.OrderItem, len(m.Items))
	for i := range m.Items {
		items[i] = m.Items[i].ToDomain()
	}
	return &trade.PurchaseOrder{
		Order:            m.OrderColumns.toOrder(m.AggregateModel, m.OrderNumber, items),
		SupplierID:       m.SupplierID,
		ExpectedDelivery: m.ExpectedDelivery,
		PaymentTerms:     m.PaymentTerms,
		Status:           m.Status,
		ConfirmedAt:      m.ConfirmedAt,
		ReceivedAt:       m.ReceivedAt,
		CancelledAt:      m.CancelledAt,
	}
}

// FromDomain populates the persistence model from a domain PurchaseOrder
func (m *PurchaseModel) FromDomain(o *trade.PurchaseOrder) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.OrderColumns = orderColumnsFrom(&o.Order)
	m.SupplierID = o.SupplierID
	m.ExpectedDelivery = o.ExpectedDelivery
	m.PaymentTerms = o.PaymentTerms
	m.Status = o.Status
	m.ConfirmedAt = o.ConfirmedAt
	m.ReceivedAt = o.ReceivedAt
	m.CancelledAt = o.CancelledAt
	m.Items = make([]PurchaseItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = PurchaseItemModel{
			ID:             item.ID,
			LineNo:         i + 1,
			PurchaseID:     o.ID,
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitCost:       item.UnitPrice,
			DiscountAmount: item.DiscountAmount,
			LineTotal:      item.LineTotal,
		}
	}
}

// PurchaseModelFromDomain creates a new persistence model from a domain PurchaseOrder
func PurchaseModelFromDomain(o *trade.PurchaseOrder) *PurchaseModel {
	m := &PurchaseModel{}
	m.FromDomain(o)
	return m
}

// PurchaseItemModel is a line of a purchase
type PurchaseItemModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	LineNo         int             `gorm:"not null;default:0"`
	PurchaseID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LineTotal      decimal.Decimal `gorm:"type:numeric;not null"`
}

// TableName returns the table name for GORM
func (PurchaseItemModel) TableName() string {
	return "purchase_items"
}

// ToDomain converts the persistence model to a domain OrderItem
func (m *PurchaseItemModel) ToDomain() trade.OrderItem {
	return trade.OrderItem{
		ID:             m.ID,
		OrderID:        m.PurchaseID,
		ProductID:      m.ProductID,
		Quantity:       m.Quantity,
		UnitPrice:      m.UnitCost,
		DiscountAmount: m.DiscountAmount,
		LineTotal:      m.LineTotal,
	}
}
