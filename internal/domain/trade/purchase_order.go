package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/shared"
)

// PurchaseStatus represents the lifecycle of a purchase
type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusConfirmed PurchaseStatus = "confirmed"
	PurchaseStatusReceived  PurchaseStatus = "received"
	PurchaseStatusCancelled PurchaseStatus = "cancelled"
)

// IsValid checks if the status is a known value
func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchaseStatusPending, PurchaseStatusConfirmed, PurchaseStatusReceived, PurchaseStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s PurchaseStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseStatus) CanTransitionTo(target PurchaseStatus) bool {
	switch s {
	case PurchaseStatusPending:
		return target == PurchaseStatusConfirmed || target == PurchaseStatusReceived || target == PurchaseStatusCancelled
	case PurchaseStatusConfirmed:
		return target == PurchaseStatusReceived || target == PurchaseStatusCancelled
	case PurchaseStatusReceived, PurchaseStatusCancelled:
		return false
	}
	return false
}

// IsPosted reports whether the status has moved stock
func (s PurchaseStatus) IsPosted() bool {
	return s == PurchaseStatusReceived
}

// PurchaseOrder is an order placed with a supplier. Receiving it is what
// moves stock in; received purchases are immutable.
type PurchaseOrder struct {
	Order
	SupplierID       uuid.UUID
	ExpectedDelivery *time.Time
	PaymentTerms     string
	Status           PurchaseStatus
	ConfirmedAt      *time.Time
	ReceivedAt       *time.Time
	CancelledAt      *time.Time
}

// PurchaseOrderInput carries the data needed to create a purchase
type PurchaseOrderInput struct {
	OrderNumber      string
	SupplierID       uuid.UUID
	UserID           uuid.UUID
	Items            []ItemInput
	DiscountAmount   decimal.Decimal
	TaxRate          decimal.Decimal
	Status           PurchaseStatus
	PaymentStatus    PaymentStatus
	ExpectedDelivery *time.Time
	PaymentTerms     string
	Notes            string
}

// PurchaseOrderUpdate carries the editable fields of an unreceived purchase
type PurchaseOrderUpdate struct {
	SupplierID       uuid.UUID
	Items            []ItemInput
	DiscountAmount   decimal.Decimal
	TaxRate          decimal.Decimal
	PaymentStatus    PaymentStatus
	ExpectedDelivery *time.Time
	PaymentTerms     string
	Notes            string
}

// NewPurchaseOrder creates a purchase in pending or confirmed status.
// Stock only moves through Receive.
func NewPurchaseOrder(in PurchaseOrderInput) (*PurchaseOrder, error) {
	if in.SupplierID == uuid.Nil {
		return nil, shared.NewValidationError("MISSING_SUPPLIER", "Supplier is required")
	}
	if in.Status == "" {
		in.Status = PurchaseStatusPending
	}
	if in.Status != PurchaseStatusPending && in.Status != PurchaseStatusConfirmed {
		return nil, shared.NewValidationError("INVALID_STATUS", fmt.Sprintf("A purchase cannot be created as %s", in.Status))
	}

	base, err := newOrder(in.OrderNumber, in.UserID, in.PaymentStatus, in.Notes)
	if err != nil {
		return nil, err
	}

	order := &PurchaseOrder{
		Order:            base,
		SupplierID:       in.SupplierID,
		ExpectedDelivery: in.ExpectedDelivery,
		PaymentTerms:     paymentTermsOrDefault(in.PaymentTerms),
		Status:           in.Status,
	}
	if in.Status == PurchaseStatusConfirmed {
		now := order.CreatedAt
		order.ConfirmedAt = &now
	}
	if err := order.setLines(in.Items, in.DiscountAmount, in.TaxRate); err != nil {
		return nil, err
	}

	order.RecordEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// Update replaces the purchase's editable fields and its lines wholesale
func (o *PurchaseOrder) Update(u PurchaseOrderUpdate) error {
	if !o.CanEdit() {
		return shared.NewInvalidStateError("PURCHASE_NOT_EDITABLE", fmt.Sprintf("Cannot edit a purchase in %s status", o.Status))
	}
	if u.SupplierID == uuid.Nil {
		return shared.NewValidationError("MISSING_SUPPLIER", "Supplier is required")
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

	o.SupplierID = u.SupplierID
	o.PaymentStatus = u.PaymentStatus
	o.ExpectedDelivery = u.ExpectedDelivery
	o.PaymentTerms = paymentTermsOrDefault(u.PaymentTerms)
	o.Notes = u.Notes
	o.touch()

	return nil
}

// Confirm marks a pending purchase as confirmed with the supplier
func (o *PurchaseOrder) Confirm() error {
	if o.Status != PurchaseStatusPending {
		return shared.NewInvalidStateError("INVALID_STATE", fmt.Sprintf("Cannot confirm a purchase in %s status", o.Status))
	}

	now := time.Now()
	o.Status = PurchaseStatusConfirmed
	o.ConfirmedAt = &now
	o.touch()

	return nil
}

// Receive posts the purchase. A second call fails with
// InvalidStateTransition, so stock is never credited twice.
func (o *PurchaseOrder) Receive() error {
	if o.Status == PurchaseStatusReceived {
		return shared.NewInvalidStateError("ALREADY_RECEIVED", "Purchase has already been received")
	}
	if !o.Status.CanTransitionTo(PurchaseStatusReceived) {
		return shared.NewInvalidStateError("INVALID_STATE", fmt.Sprintf("Cannot receive a purchase in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewValidationError("EMPTY_ITEMS", "Cannot receive a purchase without items")
	}

	now := time.Now()
	o.Status = PurchaseStatusReceived
	o.ReceivedAt = &now
	o.touch()

	o.RecordEvent(NewPurchaseOrderReceivedEvent(o))

	return nil
}

// Cancel cancels a purchase that has not been received
func (o *PurchaseOrder) Cancel() error {
	if !o.Status.CanTransitionTo(PurchaseStatusCancelled) {
		return shared.NewInvalidStateError("INVALID_STATE", fmt.Sprintf("Cannot cancel a purchase in %s status", o.Status))
	}

	now := time.Now()
	o.Status = PurchaseStatusCancelled
	o.CancelledAt = &now
	o.touch()

	return nil
}

// CanEdit returns true for pending and confirmed purchases
func (o *PurchaseOrder) CanEdit() bool {
	return o.Status == PurchaseStatusPending || o.Status == PurchaseStatusConfirmed
}

// EnsureDeletable fails with InvalidStateTransition for received purchases
func (o *PurchaseOrder) EnsureDeletable() error {
	if o.Status.IsPosted() {
		return shared.NewInvalidStateError("PURCHASE_NOT_DELETABLE", "Cannot delete a received purchase, it affected inventory")
	}
	return nil
}

func paymentTermsOrDefault(terms string) string {
	if terms == "" {
		return "net_30"
	}
	return terms
}
