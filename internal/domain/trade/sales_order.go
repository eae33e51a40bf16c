package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/shared"
)

// SaleStatus represents the lifecycle of a sale
type SaleStatus string

const (
	SaleStatusDraft     SaleStatus = "draft"
	SaleStatusConfirmed SaleStatus = "confirmed"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// IsValid checks if the status is a known value
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusDraft, SaleStatusConfirmed, SaleStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s SaleStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s SaleStatus) CanTransitionTo(target SaleStatus) bool {
	switch s {
	case SaleStatusDraft:
		return target == SaleStatusConfirmed || target == SaleStatusCancelled
	case SaleStatusConfirmed:
		return target == SaleStatusCancelled
	case SaleStatusCancelled:
		return false
	}
	return false
}

// IsPosted reports whether the status has moved stock
func (s SaleStatus) IsPosted() bool {
	return s == SaleStatusConfirmed
}

// SalesOrder is a sale to an optional customer. Confirming it is what
// moves stock out; confirmed sales are immutable.
type SalesOrder struct {
	Order
	CustomerID    *uuid.UUID
	PaymentMethod string
	Status        SaleStatus
	ConfirmedAt   *time.Time
	CancelledAt   *time.Time
}

// SalesOrderInput carries the data needed to create a sale
type SalesOrderInput struct {
	InvoiceNumber  string
	CustomerID     *uuid.UUID
	UserID         uuid.UUID
	Items          []ItemInput
	DiscountAmount decimal.Decimal
	TaxRate        decimal.Decimal
	Status         SaleStatus
	PaymentStatus  PaymentStatus
	PaymentMethod  string
	Notes          string
}

// SalesOrderUpdate carries the editable fields of a draft sale
type SalesOrderUpdate struct {
	CustomerID     *uuid.UUID
	Items          []ItemInput
	DiscountAmount decimal.Decimal
	TaxRate        decimal.Decimal
	PaymentStatus  PaymentStatus
	PaymentMethod  string
	Notes          string
}

// NewSalesOrder creates a sale in draft, or directly in confirmed when
// in.Status says so. A confirmed sale records SalesOrderConfirmed so the
// caller posts its stock in the same unit of work.
func NewSalesOrder(in SalesOrderInput) (*SalesOrder, error) {
	if in.Status == "" {
		in.Status = SaleStatusDraft
	}
	if in.Status != SaleStatusDraft && in.Status != SaleStatusConfirmed {
		return nil, shared.NewValidationError("INVALID_STATUS", fmt.Sprintf("A sale cannot be created as %s", in.Status))
	}
	if in.CustomerID != nil && *in.CustomerID == uuid.Nil {
		in.CustomerID = nil
	}

	base, err := newOrder(in.InvoiceNumber, in.UserID, in.PaymentStatus, in.Notes)
	if err != nil {
		return nil, err
	}

	order := &SalesOrder{
		Order:         base,
		CustomerID:    in.CustomerID,
		PaymentMethod: in.PaymentMethod,
		Status:        SaleStatusDraft,
	}
	if err := order.setLines(in.Items, in.DiscountAmount, in.TaxRate); err != nil {
		return nil, err
	}

	order.RecordEvent(NewSalesOrderCreatedEvent(order))

	if in.Status == SaleStatusConfirmed {
		if err := order.Confirm(); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// Update replaces the sale's editable fields and its lines wholesale
func (o *SalesOrder) Update(u SalesOrderUpdate) error {
	if !o.CanEdit() {
		return shared.NewInvalidStateError("SALE_NOT_EDITABLE", fmt.Sprintf("Cannot edit a sale in %s status", o.Status))
	}
	if u.PaymentStatus == "" {
		u.PaymentStatus = o.PaymentStatus
	}
	if !u.PaymentStatus.IsValid() {
		return shared.NewValidationError("INVALID_PAYMENT_STATUS", fmt.Sprintf("Unknown payment status %q", u.PaymentStatus))
	}
	if err := o.setLines(u.Items, u.DiscountAmount, u.TaxRate); err != nil {
		return err
	}
	if u.CustomerID != nil && *u.CustomerID == uuid.Nil {
		u.CustomerID = nil
	}

	o.CustomerID = u.CustomerID
	o.PaymentStatus = u.PaymentStatus
	o.PaymentMethod = u.PaymentMethod
	o.Notes = u.Notes
	o.touch()

	return nil
}

// Confirm posts a draft sale
func (o *SalesOrder) Confirm() error {
	if !o.Status.CanTransitionTo(SaleStatusConfirmed) {
		return shared.NewInvalidStateError("INVALID_STATE", fmt.Sprintf("Cannot confirm a sale in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewValidationError("EMPTY_ITEMS", "Cannot confirm a sale without items")
	}

	now := time.Now()
	o.Status = SaleStatusConfirmed
	o.ConfirmedAt = &now
	o.touch()

	o.RecordEvent(NewSalesOrderConfirmedEvent(o))

	return nil
}

// Cancel cancels the sale. It reports whether the sale had been confirmed,
// in which case the caller must return its stock.
func (o *SalesOrder) Cancel() (wasPosted bool, err error) {
	if !o.Status.CanTransitionTo(SaleStatusCancelled) {
		return false, shared.NewInvalidStateError("INVALID_STATE", fmt.Sprintf("Cannot cancel a sale in %s status", o.Status))
	}

	wasPosted = o.Status.IsPosted()
	now := time.Now()
	o.Status = SaleStatusCancelled
	o.CancelledAt = &now
	o.touch()

	o.RecordEvent(NewSalesOrderCancelledEvent(o, wasPosted))

	return wasPosted, nil
}

// CanEdit returns true while the sale is still a draft
func (o *SalesOrder) CanEdit() bool {
	return o.Status == SaleStatusDraft
}

// EnsureDeletable fails with InvalidStateTransition unless the sale never
// moved stock
func (o *SalesOrder) EnsureDeletable() error {
	if o.Status.IsPosted() || o.ConfirmedAt != nil {
		return shared.NewInvalidStateError("SALE_NOT_DELETABLE", "Cannot delete a sale that affected inventory, cancel it instead")
	}
	return nil
}
