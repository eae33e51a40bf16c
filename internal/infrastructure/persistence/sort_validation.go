package persistence

import (
	"strings"

	"github.com/smallerp/backend/internal/domain/shared"
)

// sortable whitelists the columns a listing may be ordered by. Anything
// else, including injection attempts, falls back to created_at.
type sortable map[string]bool

func newSortable(columns ...string) sortable {
	s := sortable{"id": true, "created_at": true, "updated_at": true}
	for _, c := range columns {
		s[c] = true
	}
	return s
}

// Order returns the ORDER BY clause for filter. id breaks ties so paging
// through rows with equal sort keys never skips or repeats a row.
func (s sortable) Order(filter shared.Filter) string {
	column := strings.TrimSpace(filter.OrderBy)
	if !s[column] {
		column = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(strings.TrimSpace(filter.OrderDir), "asc") {
		dir = "ASC"
	}
	if column == "id" {
		return "id " + dir
	}
	return column + " " + dir + ", id " + dir
}

var (
	productSort  = newSortable("sku", "name", "status", "cost_price", "sale_price", "stock_quantity", "min_stock_level")
	customerSort = newSortable("name", "email", "credit_limit")
	supplierSort = newSortable("name", "email", "payment_terms")
	saleSort     = newSortable("invoice_number", "order_date", "status", "payment_status", "total_amount", "confirmed_at")
	purchaseSort = newSortable("order_number", "order_date", "status", "payment_status", "total_amount", "expected_delivery", "received_at")
)
