package models

import (
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/partner"
)

// ContactColumns are the contact fields shared by customers and suppliers
type ContactColumns struct {
	Email   string `gorm:"type:varchar(255)"`
	Phone   string `gorm:"type:varchar(50)"`
	Address string `gorm:"type:text"`
	TaxID   string `gorm:"column:tax_id;type:varchar(50)"`
}

func contactColumnsFrom(c partner.Contact) ContactColumns {
	return ContactColumns{Email: c.Email, Phone: c.Phone, Address: c.Address, TaxID: c.TaxID}
}

func (c ContactColumns) toDomain() partner.Contact {
	return partner.Contact{Email: c.Email, Phone: c.Phone, Address: c.Address, TaxID: c.TaxID}
}

// CustomerModel is the persistence model for the Customer aggregate
type CustomerModel struct {
	AggregateModel
	Name string `gorm:"type:varchar(255);not null;index"`
	ContactColumns
	CreditLimit decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Contact:           m.ContactColumns.toDomain(),
		CreditLimit:       m.CreditLimit,
	}
}

// FromDomain populates the persistence model from a domain Customer
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.ContactColumns = contactColumnsFrom(c.Contact)
	m.CreditLimit = c.CreditLimit
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// SupplierModel is the persistence model for the Supplier aggregate
type SupplierModel struct {
	AggregateModel
	Name          string `gorm:"type:varchar(255);not null;index"`
	ContactPerson string `gorm:"type:varchar(255)"`
	ContactColumns
	PaymentTerms string `gorm:"type:varchar(100);not null;default:'net_30'"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier
func (m *SupplierModel) ToDomain() *partner.Supplier {
	return &partner.Supplier{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		ContactPerson:     m.ContactPerson,
		Contact:           m.ContactColumns.toDomain(),
		PaymentTerms:      m.PaymentTerms,
	}
}

// FromDomain populates the persistence model from a domain Supplier
func (m *SupplierModel) FromDomain(s *partner.Supplier) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Name = s.Name
	m.ContactPerson = s.ContactPerson
	m.ContactColumns = contactColumnsFrom(s.Contact)
	m.PaymentTerms = s.PaymentTerms
}

// SupplierModelFromDomain creates a new persistence model from a domain Supplier
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{}
	m.FromDomain(s)
	return m
}
