package accounts

import (
	"github.com/dealflowhq/dealflow-backend/pkg/pagination"
)

// CreateAccountInput holds the validated payload to create an account.
type CreateAccountInput struct {
	Name        string
	Domain      *string
	Industry    *string
	Size        *string
	Description *string
	OwnerUserID *string
}

// UpdateAccountInput holds optional mutation values; nil fields are left
// untouched.
type UpdateAccountInput struct {
	Name        *string
	Domain      *string
	Industry    *string
	Size        *string
	Description *string
	OwnerUserID *string
}

// ListAccountsInput captures list filters and pagination.
type ListAccountsInput struct {
	Query       string
	OwnerUserID *string
	Pagination  pagination.Params
}
