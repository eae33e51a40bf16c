package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormLowStockCounter implements LowStockCounter with a single count
// query over the products table
type GormLowStockCounter struct {
	db *gorm.DB
}

// NewGormLowStockCounter creates a new GormLowStockCounter
func NewGormLowStockCounter(db *gorm.DB) *GormLowStockCounter {
	return &GormLowStockCounter{db: db}
}

// CountLowStock counts products whose stock is at or below min_stock_level
func (c *GormLowStockCounter) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Table("products").
		Where("stock_quantity <= min_stock_level").
		Count(&count).Error
	return count, err
}
