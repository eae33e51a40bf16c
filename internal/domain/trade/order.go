package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/shared"
)

// PaymentStatus represents the settlement state of an order
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// IsValid checks if the payment status is a known value
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusPartial, PaymentStatusOverdue:
		return true
	}
	return false
}

// ItemInput describes one requested order line
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

// OrderItem is a line of a sale or purchase. For purchases UnitPrice is
// the unit cost.
type OrderItem struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	ProductID      uuid.UUID
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	DiscountAmount decimal.Decimal
	LineTotal      decimal.Decimal
}

// Order holds the header fields and lines shared by sales and purchases.
// Totals are only ever set by setLines.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber    string
	UserID         uuid.UUID
	OrderDate      time.Time
	Items          []OrderItem
	Subtotal       decimal.Decimal
	TaxRate        decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	PaymentStatus  PaymentStatus
	Notes          string
}

func newOrder(orderNumber string, userID uuid.UUID, paymentStatus PaymentStatus, notes string) (Order, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return Order{}, shared.NewValidationError("INVALID_ORDER_NUMBER", "Order number is required")
	}
	if userID == uuid.Nil {
		return Order{}, shared.NewValidationError("MISSING_USER", "Acting user is required")
	}
	if paymentStatus == "" {
		paymentStatus = PaymentStatusPending
	}
	if !paymentStatus.IsValid() {
		return Order{}, shared.NewValidationError("INVALID_PAYMENT_STATUS", fmt.Sprintf("Unknown payment status %q", paymentStatus))
	}

	root := shared.NewBaseAggregateRoot()
	return Order{
		BaseAggregateRoot: root,
		OrderNumber:       orderNumber,
		UserID:            userID,
		OrderDate:         root.CreatedAt,
		PaymentStatus:     paymentStatus,
		Notes:             notes,
	}, nil
}

// setLines validates the requested lines, replaces Items wholesale and
// recomputes every total. On error the order is left unchanged.
func (o *Order) setLines(inputs []ItemInput, orderDiscount, taxRate decimal.Decimal) error {
	if len(inputs) == 0 {
		return shared.NewValidationError("EMPTY_ITEMS", "Order must have at least one item")
	}

	lines := make([]LineAmount, len(inputs))
	for i, in := range inputs {
		if in.ProductID == uuid.Nil {
			return shared.NewValidationError("INVALID_PRODUCT", fmt.Sprintf("Item %d: product is required", i+1))
		}
		lines[i] = LineAmount{Quantity: in.Quantity, UnitPrice: in.UnitPrice, Discount: in.Discount}
	}

	totals, err := CalculateTotals(lines, orderDiscount, taxRate)
	if err != nil {
		return err
	}

	items := make([]OrderItem, len(inputs))
	for i, in := range inputs {
		items[i] = OrderItem{
			ID:             uuid.New(),
			OrderID:        o.ID,
			ProductID:      in.ProductID,
			Quantity:       in.Quantity,
			UnitPrice:      in.UnitPrice,
			DiscountAmount: in.Discount,
			LineTotal:      totals.LineTotals[i],
		}
	}

	o.Items = items
	o.Subtotal = totals.Subtotal
	o.TaxRate = taxRate
	o.TaxAmount = totals.TaxAmount
	o.DiscountAmount = totals.DiscountAmount
	o.TotalAmount = totals.TotalAmount
	return nil
}

// ProductIDs returns the distinct products referenced by the order's lines
func (o *Order) ProductIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(o.Items))
	ids := make([]uuid.UUID, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// Lines returns the stock-relevant part of every line, in order
func (o *Order) Lines() []LineInfo {
	return lineInfos(o.Items)
}

// Renumber replaces the order number. Used when the generated number
// collided with an existing order before the first save.
func (o *Order) Renumber(orderNumber string) {
	o.OrderNumber = orderNumber
}

// SetPaymentStatus updates the payment status. It is allowed in every
// lifecycle state and never touches totals.
func (o *Order) SetPaymentStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("INVALID_PAYMENT_STATUS", fmt.Sprintf("Unknown payment status %q", status))
	}
	o.PaymentStatus = status
	o.touch()
	return nil
}

// touch stamps the modification time. Version is advanced by the
// repository when the change is saved, so it always matches the stored row.
func (o *Order) touch() {
	o.Touch()
}

// NewOrderNumber builds a collision-resistant order number such as
// INV-20240115-9F86D081. Uniqueness is still enforced by the store.
func NewOrderNumber(prefix string, now time.Time) string {
	id := uuid.New()
	suffix := strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), suffix)
}
