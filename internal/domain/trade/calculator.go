package trade

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/shared"
)

// LineAmount is the monetary input of one order line
type LineAmount struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

// Totals is the result of CalculateTotals. Values keep full precision;
// round with RoundMoney only when presenting them.
type Totals struct {
	LineTotals     []decimal.Decimal
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
}

// CalculateTotals derives order totals from its lines.
//
// Line discounts are taken off each line before summing:
//
//	line_total = quantity × unit_price − line_discount
//	subtotal   = Σ line_total
//	tax        = subtotal × taxRate
//	total      = subtotal − orderDiscount + tax
//
// It performs no I/O and returns a ValidationError for negative or
// out-of-range inputs, and for inputs with more than shared.StoredScale
// decimal places.
func CalculateTotals(lines []LineAmount, orderDiscount, taxRate decimal.Decimal) (Totals, error) {
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(1)) {
		return Totals{}, shared.NewValidationError("INVALID_TAX_RATE", "Tax rate must be between 0 and 1")
	}
	if !shared.FitsScale(taxRate) {
		return Totals{}, scaleError("INVALID_TAX_RATE", "Tax rate")
	}
	if orderDiscount.IsNegative() {
		return Totals{}, shared.NewValidationError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if !shared.FitsScale(orderDiscount) {
		return Totals{}, scaleError("INVALID_DISCOUNT", "Discount")
	}

	lineTotals := make([]decimal.Decimal, len(lines))
	subtotal := decimal.Zero
	for i, l := range lines {
		total, err := lineTotal(l)
		if err != nil {
			return Totals{}, err
		}
		lineTotals[i] = total
		subtotal = subtotal.Add(total)
	}

	if orderDiscount.GreaterThan(subtotal) {
		return Totals{}, shared.NewValidationError("INVALID_DISCOUNT", "Discount cannot exceed subtotal")
	}

	tax := subtotal.Mul(taxRate)
	return Totals{
		LineTotals:     lineTotals,
		Subtotal:       subtotal,
		DiscountAmount: orderDiscount,
		TaxAmount:      tax,
		TotalAmount:    subtotal.Sub(orderDiscount).Add(tax),
	}, nil
}

func lineTotal(l LineAmount) (decimal.Decimal, error) {
	if !l.Quantity.IsPositive() {
		return decimal.Zero, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if l.UnitPrice.IsNegative() {
		return decimal.Zero, shared.NewValidationError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if l.Discount.IsNegative() {
		return decimal.Zero, shared.NewValidationError("INVALID_DISCOUNT", "Line discount cannot be negative")
	}
	switch {
	case !shared.FitsScale(l.Quantity):
		return decimal.Zero, scaleError("INVALID_QUANTITY", "Quantity")
	case !shared.FitsScale(l.UnitPrice):
		return decimal.Zero, scaleError("INVALID_PRICE", "Unit price")
	case !shared.FitsScale(l.Discount):
		return decimal.Zero, scaleError("INVALID_DISCOUNT", "Line discount")
	}
	gross := l.Quantity.Mul(l.UnitPrice)
	if l.Discount.GreaterThan(gross) {
		return decimal.Zero, shared.NewValidationError("INVALID_DISCOUNT", "Line discount cannot exceed line amount")
	}
	return gross.Sub(l.Discount), nil
}

func scaleError(code, field string) error {
	return shared.NewValidationError(code, fmt.Sprintf("%s cannot have more than %d decimal places", field, shared.StoredScale))
}

// RoundMoney rounds an amount to two decimal places for presentation
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
