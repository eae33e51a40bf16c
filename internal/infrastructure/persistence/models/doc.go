// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities are free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. ToDomain/FromDomain convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: AggregateModel (id, timestamps, version)
// - catalog.go: products
// - partner.go: customers and suppliers
// - trade.go: sales, sale_items, purchases, purchase_items
// - inventory.go: stock_movements
//
// migrations/000001_init_schema.up.sql is the authoritative schema; AllModels
// exists for in-memory test databases.
package models

// AllModels lists every model in dependency order, for AutoMigrate
func AllModels() []any {
	return []any{
		&ProductModel{},
		&CustomerModel{},
		&SupplierModel{},
		&SaleModel{},
		&SaleItemModel{},
		&PurchaseModel{},
		&PurchaseItemModel{},
		&StockMovementModel{},
	}
}
