package shared

import "github.com/shopspring/decimal"

// StoredScale is the number of decimal places kept for quantities, prices,
// discounts and rates. Derived amounts are stored unscaled.
const StoredScale = 4

// FitsScale reports whether d has no significant digits beyond StoredScale
func FitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(StoredScale))
}
