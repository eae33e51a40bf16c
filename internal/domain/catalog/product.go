package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/shared"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// IsValid checks if the status is a known value
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusDiscontinued:
		return true
	}
	return false
}

// Product is the catalog aggregate root.
//
// StockQuantity is a projection of the stock ledger. The domain never
// assigns it; the persistence layer reads it back and the ledger adjusts it
// with relative updates.
type Product struct {
	shared.BaseAggregateRoot
	SKU           string
	Name          string
	Description   string
	Unit          string
	CostPrice     decimal.Decimal
	SalePrice     decimal.Decimal
	StockQuantity decimal.Decimal
	MinStockLevel decimal.Decimal
	Status        ProductStatus
}

// ProductDetails carries the editable attributes of a product
type ProductDetails struct {
	Name          string
	Description   string
	Unit          string
	CostPrice     decimal.Decimal
	SalePrice     decimal.Decimal
	MinStockLevel decimal.Decimal
	Status        ProductStatus
}

// NewProduct creates a new product with zero stock. Opening stock is
// recorded separately through the ledger.
func NewProduct(sku string, details ProductDetails) (*Product, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if details.Unit == "" {
		details.Unit = "unit"
	}
	if details.Status == "" {
		details.Status = ProductStatusActive
	}
	if err := validateDetails(details); err != nil {
		return nil, err
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		StockQuantity:     decimal.Zero,
	}
	product.apply(details)

	product.RecordEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update replaces the editable attributes. SKU changes go through ChangeSKU
// and stock never changes here.
func (p *Product) Update(details ProductDetails) error {
	if details.Unit == "" {
		details.Unit = p.Unit
	}
	if details.Status == "" {
		details.Status = p.Status
	}
	if err := validateDetails(details); err != nil {
		return err
	}

	p.apply(details)
	p.Touch()

	return nil
}

// ChangeSKU updates the product's SKU
func (p *Product) ChangeSKU(sku string) error {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if err := validateSKU(sku); err != nil {
		return err
	}
	if sku == p.SKU {
		return nil
	}

	p.SKU = sku
	p.Touch()

	return nil
}

func (p *Product) apply(d ProductDetails) {
	p.Name = strings.TrimSpace(d.Name)
	p.Description = d.Description
	p.Unit = d.Unit
	p.CostPrice = d.CostPrice
	p.SalePrice = d.SalePrice
	p.MinStockLevel = d.MinStockLevel
	p.Status = d.Status
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// IsLowStock reports whether stock is at or below the minimum level
func (p *Product) IsLowStock() bool {
	return p.StockQuantity.LessThanOrEqual(p.MinStockLevel)
}

func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewValidationError("INVALID_SKU", "SKU is required")
	}
	if len(sku) > 100 {
		return shared.NewValidationError("INVALID_SKU", "SKU cannot exceed 100 characters")
	}
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.') {
			return shared.NewValidationError("INVALID_SKU", "SKU can only contain letters, numbers, dots, underscores, and hyphens")
		}
	}
	return nil
}

func validateDetails(d ProductDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Product name is required")
	}
	if len(name) > 255 {
		return shared.NewValidationError("INVALID_NAME", "Product name cannot exceed 255 characters")
	}
	if len(d.Unit) > 20 {
		return shared.NewValidationError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}
	if d.CostPrice.IsNegative() {
		return shared.NewValidationError("INVALID_PRICE", "Cost price cannot be negative")
	}
	if d.SalePrice.IsNegative() {
		return shared.NewValidationError("INVALID_PRICE", "Sale price cannot be negative")
	}
	if d.MinStockLevel.IsNegative() {
		return shared.NewValidationError("INVALID_MIN_STOCK", "Minimum stock level cannot be negative")
	}
	if !d.Status.IsValid() {
		return shared.NewValidationError("INVALID_STATUS", "Product status must be active, inactive or discontinued")
	}
	return nil
}
