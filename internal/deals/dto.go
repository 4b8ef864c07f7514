package deals

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealflowhq/dealflow-backend/pkg/enums"
	"github.com/dealflowhq/dealflow-backend/pkg/pagination"
)

// CreateDealInput holds the validated payload to create a deal.
type CreateDealInput struct {
	AccountID         uuid.UUID
	PrimaryContactID  *uuid.UUID
	Name              string
	Amount            decimal.Decimal
	Currency          *string
	ExpectedCloseDate *time.Time
	Probability       *float64
	Status            *enums.DealStatus
	StageID           *uuid.UUID
}

// UpdateDealInput holds optional mutation values; nil fields are left
// untouched.
type UpdateDealInput struct {
	PrimaryContactID  *uuid.UUID
	Name              *string
	Amount            *decimal.Decimal
	Currency          *string
	ExpectedCloseDate *time.Time
	Probability       *float64
	Status            *enums.DealStatus
	StageID           *uuid.UUID
}

// ListDealsInput captures list filters and pagination.
type ListDealsInput struct {
	AccountID  *uuid.UUID
	StageID    *uuid.UUID
	Status     *enums.DealStatus
	Query      string
	Pagination pagination.Params
}
