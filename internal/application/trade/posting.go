package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/catalog"
	"github.com/smallerp/backend/internal/domain/inventory"
	"github.com/smallerp/backend/internal/domain/shared"
	"github.com/smallerp/backend/internal/domain/trade"
)

// TaxRateProvider supplies the tax rate applied when a request names none
type TaxRateProvider interface {
	TaxRate(ctx context.Context) (decimal.Decimal, error)
}

// StaticTaxRate is a TaxRateProvider with a fixed rate
type StaticTaxRate decimal.Decimal

// TaxRate returns the fixed rate
func (r StaticTaxRate) TaxRate(context.Context) (decimal.Decimal, error) {
	return decimal.Decimal(r), nil
}

// PostingConfig holds the order numbering settings
type PostingConfig struct {
	InvoicePrefix      string
	PurchasePrefix     string
	OrderNumberRetries int
}

// DefaultPostingConfig returns the default numbering settings
func DefaultPostingConfig() PostingConfig {
	return PostingConfig{
		InvoicePrefix:      "INV",
		PurchasePrefix:     "PO",
		OrderNumberRetries: 5,
	}
}

func resolveTaxRate(ctx context.Context, provider TaxRateProvider, requested *decimal.Decimal) (decimal.Decimal, error) {
	if requested != nil {
		return *requested, nil
	}
	return provider.TaxRate(ctx)
}

// ensureProductsExist fails with NotFound when any id is unknown
func ensureProductsExist(ctx context.Context, repo catalog.ProductRepository, ids []uuid.UUID) error {
	products, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	found := make(map[uuid.UUID]struct{}, len(products))
	for i := range products {
		found[products[i].ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return shared.NewNotFoundError("PRODUCT_NOT_FOUND", fmt.Sprintf("Product %s not found", id))
		}
	}
	return nil
}

// createWithRetry runs attempt until it succeeds or fails with something
// other than a duplicate order number. Each retry gets a fresh number.
func createWithRetry(retries int, attempt func() error, renumber func()) error {
	var err error
	for i := 0; i <= retries; i++ {
		err = attempt()
		if !errors.Is(err, trade.ErrDuplicateOrderNumber) {
			return err
		}
		renumber()
	}
	return err
}

func movedToEvents(moved []*inventory.StockMovedEvent) []shared.DomainEvent {
	events := make([]shared.DomainEvent, len(moved))
	for i, e := range moved {
		events[i] = e
	}
	return events
}
