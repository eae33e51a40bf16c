package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reconciliation compares a product's stock counter with its ledger
type Reconciliation struct {
	ProductID     uuid.UUID
	StockQuantity decimal.Decimal
	LedgerStock   decimal.Decimal
	Drift         decimal.Decimal
}

// NewReconciliation builds a Reconciliation. Drift is counter minus ledger.
func NewReconciliation(productID uuid.UUID, stockQuantity, ledgerStock decimal.Decimal) Reconciliation {
	return Reconciliation{
		ProductID:     productID,
		StockQuantity: stockQuantity,
		LedgerStock:   ledgerStock,
		Drift:         stockQuantity.Sub(ledgerStock),
	}
}

// InSync reports whether the counter matches the ledger exactly
func (r Reconciliation) InSync() bool {
	return r.Drift.IsZero()
}
