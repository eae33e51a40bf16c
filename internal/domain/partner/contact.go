package partner

import (
	"regexp"
	"strings"

	"github.com/smallerp/backend/internal/domain/shared"
)

var (
	phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// Contact holds the contact attributes shared by customers and suppliers
type Contact struct {
	Email   string
	Phone   string
	Address string
	TaxID   string
}

func (c Contact) normalized() Contact {
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.TaxID = strings.TrimSpace(c.TaxID)
	return c
}

func (c Contact) validate() error {
	if c.Phone != "" {
		if len(c.Phone) > 50 {
			return shared.NewValidationError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
		}
		if !phonePattern.MatchString(c.Phone) {
			return shared.NewValidationError("INVALID_PHONE", "Invalid phone number format")
		}
	}
	if c.Email != "" {
		if len(c.Email) > 255 {
			return shared.NewValidationError("INVALID_EMAIL", "Email cannot exceed 255 characters")
		}
		if !emailPattern.MatchString(c.Email) {
			return shared.NewValidationError("INVALID_EMAIL", "Invalid email format")
		}
	}
	if len(c.TaxID) > 50 {
		return shared.NewValidationError("INVALID_TAX_ID", "Tax ID cannot exceed 50 characters")
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Name is required")
	}
	if len(name) > 255 {
		return shared.NewValidationError("INVALID_NAME", "Name cannot exceed 255 characters")
	}
	return nil
}
