package partner

import (
	"strings"

	"github.com/smallerp/backend/internal/domain/shared"
)

// DefaultPaymentTerms applies when a supplier or purchase names none
const DefaultPaymentTerms = "net_30"

// Supplier is the counterparty of a purchase
type Supplier struct {
	shared.BaseAggregateRoot
	Name          string
	ContactPerson string
	Contact       Contact
	PaymentTerms  string
}

// NewSupplier creates a new supplier
func NewSupplier(name, contactPerson string, contact Contact, paymentTerms string) (*Supplier, error) {
	s := &Supplier{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := s.set(name, contactPerson, contact, paymentTerms); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces the supplier's attributes
func (s *Supplier) Update(name, contactPerson string, contact Contact, paymentTerms string) error {
	if err := s.set(name, contactPerson, contact, paymentTerms); err != nil {
		return err
	}
	s.Touch()
	return nil
}

func (s *Supplier) set(name, contactPerson string, contact Contact, paymentTerms string) error {
	name = strings.TrimSpace(name)
	contact = contact.normalized()
	if err := validateName(name); err != nil {
		return err
	}
	if len(contactPerson) > 255 {
		return shared.NewValidationError("INVALID_CONTACT_PERSON", "Contact person cannot exceed 255 characters")
	}
	if err := contact.validate(); err != nil {
		return err
	}
	if paymentTerms == "" {
		paymentTerms = DefaultPaymentTerms
	}
	if len(paymentTerms) > 100 {
		return shared.NewValidationError("INVALID_PAYMENT_TERMS", "Payment terms cannot exceed 100 characters")
	}
	s.Name = name
	s.ContactPerson = strings.TrimSpace(contactPerson)
	s.Contact = contact
	s.PaymentTerms = paymentTerms
	return nil
}
