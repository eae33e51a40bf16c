package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/partner"
	"github.com/smallerp/backend/internal/domain/shared"
)

// ContactInput carries contact attributes in requests
type ContactInput struct {
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address" binding:"max=500"`
	TaxID   string `json:"tax_id" binding:"max=50"`
}

func (c ContactInput) toDomain() partner.Contact {
	return partner.Contact{Email: c.Email, Phone: c.Phone, Address: c.Address, TaxID: c.TaxID}
}

// ContactResponse represents contact attributes in responses
type ContactResponse struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	TaxID   string `json:"tax_id,omitempty"`
}

func toContactResponse(c partner.Contact) ContactResponse {
	return ContactResponse{Email: c.Email, Phone: c.Phone, Address: c.Address, TaxID: c.TaxID}
}

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Contact     ContactInput    `json:"contact"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Contact     ContactInput    `json:"contact"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Contact     ContactResponse `json:"contact"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID,
		Name:        c.Name,
		Contact:     toContactResponse(c.Contact),
		CreditLimit: c.CreditLimit,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Version:     c.Version,
	}
}

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	Name          string       `json:"name" binding:"required,min=1,max=200"`
	ContactPerson string       `json:"contact_person" binding:"max=100"`
	Contact       ContactInput `json:"contact"`
	PaymentTerms  string       `json:"payment_terms" binding:"max=50"`
}

// UpdateSupplierRequest represents a request to update a supplier
type UpdateSupplierRequest struct {
	Name          string       `json:"name" binding:"required,min=1,max=200"`
	ContactPerson string       `json:"contact_person" binding:"max=100"`
	Contact       ContactInput `json:"contact"`
	PaymentTerms  string       `json:"payment_terms" binding:"max=50"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	ContactPerson string          `json:"contact_person,omitempty"`
	Contact       ContactResponse `json:"contact"`
	PaymentTerms  string          `json:"payment_terms"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ToSupplierResponse converts a domain Supplier to SupplierResponse
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Contact:       toContactResponse(s.Contact),
		PaymentTerms:  s.PaymentTerms,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
		Version:       s.Version,
	}
}

// ListFilter represents filter options for partner lists
type ListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f ListFilter) toDomain() shared.Filter {
	return shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  make(map[string]interface{}),
	}.Normalize()
}
