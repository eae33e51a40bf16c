package partner

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/shared"
)

// Customer is the counterparty of a sale
type Customer struct {
	shared.BaseAggregateRoot
	Name        string
	Contact     Contact
	CreditLimit decimal.Decimal
}

// NewCustomer creates a new customer
func NewCustomer(name string, contact Contact, creditLimit decimal.Decimal) (*Customer, error) {
	c := &Customer{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := c.set(name, contact, creditLimit); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the customer's attributes
func (c *Customer) Update(name string, contact Contact, creditLimit decimal.Decimal) error {
	if err := c.set(name, contact, creditLimit); err != nil {
		return err
	}
	c.Touch()
	return nil
}

func (c *Customer) set(name string, contact Contact, creditLimit decimal.Decimal) error {
	name = strings.TrimSpace(name)
	contact = contact.normalized()
	if err := validateName(name); err != nil {
		return err
	}
	if err := contact.validate(); err != nil {
		return err
	}
	if creditLimit.IsNegative() {
		return shared.NewValidationError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}
	c.Name = name
	c.Contact = contact
	c.CreditLimit = creditLimit
	return nil
}
