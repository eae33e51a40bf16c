package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	SKU           string           `json:"sku" binding:"required,min=1,max=100"`
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	Description   string           `json:"description" binding:"max=2000"`
	Unit          string           `json:"unit" binding:"max=20"`
	CostPrice     decimal.Decimal  `json:"cost_price"`
	SalePrice     decimal.Decimal  `json:"sale_price"`
	OpeningStock  *decimal.Decimal `json:"opening_stock"`
	MinStockLevel decimal.Decimal  `json:"min_stock_level"`
	Status        string           `json:"status" binding:"omitempty,oneof=active inactive discontinued"`
}

// UpdateProductRequest represents a request to update a product. Stock is
// not editable here.
type UpdateProductRequest struct {
	SKU           *string          `json:"sku" binding:"omitempty,min=1,max=100"`
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string          `json:"description" binding:"omitempty,max=2000"`
	Unit          *string          `json:"unit" binding:"omitempty,min=1,max=20"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	MinStockLevel *decimal.Decimal `json:"min_stock_level"`
	Status        *string          `json:"status" binding:"omitempty,oneof=active inactive discontinued"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive discontinued"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Unit          string          `json:"unit"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	Status        string          `json:"status"`
	LowStock      bool            `json:"low_stock"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		Unit:          p.Unit,
		CostPrice:     p.CostPrice,
		SalePrice:     p.SalePrice,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		Status:        string(p.Status),
		LowStock:      p.IsLowStock(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.Version,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
