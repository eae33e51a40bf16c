package models

import (
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product aggregate
type ProductModel struct {
	AggregateModel
	SKU           string                `gorm:"column:sku;type:varchar(100);not null;uniqueIndex:idx_products_sku"`
	Name          string                `gorm:"type:varchar(255);not null"`
	Description   string                `gorm:"type:text"`
	Unit          string                `gorm:"type:varchar(20);not null;default:'unit'"`
	CostPrice     decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	SalePrice     decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	StockQuantity decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	MinStockLevel decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Status        catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'active';index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToAggregateRoot(),
		SKU:               m.SKU,
		Name:              m.Name,
		Description:       m.Description,
		Unit:              m.Unit,
		CostPrice:         m.CostPrice,
		SalePrice:         m.SalePrice,
		StockQuantity:     m.StockQuantity,
		MinStockLevel:     m.MinStockLevel,
		Status:            m.Status,
	}
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.SKU = p.SKU
	m.Name = p.Name
	m.Description = p.Description
	m.Unit = p.Unit
	m.CostPrice = p.CostPrice
	m.SalePrice = p.SalePrice
	m.StockQuantity = p.StockQuantity
	m.MinStockLevel = p.MinStockLevel
	m.Status = p.Status
}

// ProductModelFromDomain creates a new persistence model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
