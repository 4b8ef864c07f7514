package contacts

import (
	"github.com/google/uuid"

	"github.com/dealflowhq/dealflow-backend/pkg/pagination"
)

// CreateContactInput holds the validated payload to create a contact.
type CreateContactInput struct {
	AccountID   *uuid.UUID
	FirstName   string
	LastName    string
	Email       *string
	Phone       *string
	Title       *string
	LeadSource  *string
	OwnerUserID *string
	IsActive    *bool
}

// UpdateContactInput holds optional mutation values; nil fields are left
// untouched. Lead scores are computed, not patched.
type UpdateContactInput struct {
	AccountID   *uuid.UUID
	FirstName   *string
	LastName    *string
	Email       *string
	Phone       *string
	Title       *string
	LeadSource  *string
	OwnerUserID *string
	IsActive    *bool
}

// ListContactsInput captures list filters and pagination.
type ListContactsInput struct {
	AccountID   *uuid.UUID
	OwnerUserID *string
	IsActive    *bool
	Query       string
	Pagination  pagination.Params
}
