package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealflowhq/dealflow-backend/api/responses"
	"github.com/dealflowhq/dealflow-backend/api/validators"
	dealsvc "github.com/dealflowhq/dealflow-backend/internal/deals"
	"github.com/dealflowhq/dealflow-backend/pkg/enums"
	pkgerrors "github.com/dealflowhq/dealflow-backend/pkg/errors"
	"github.com/dealflowhq/dealflow-backend/pkg/logger"
)

const closeDateLayout = "2006-01-02"

type createDealRequest struct {
	AccountID         uuid.UUID        `json:"account_id" validate:"required"`
	PrimaryContactID  *uuid.UUID       `json:"primary_contact_id,omitempty"`
	Name              string           `json:"name" validate:"required,min=1,max=255"`
	Amount            *decimal.Decimal `json:"amount,omitempty"`
	Currency          *string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	ExpectedCloseDate *string          `json:"expected_close_date,omitempty"`
	Probability       *float64         `json:"probability,omitempty" validate:"omitempty,gte=0,lte=100"`
	Status            *string          `json:"status,omitempty"`
	StageID           *uuid.UUID       `json:"stage_id,omitempty"`
}

type updateDealRequest struct {
	PrimaryContactID  *uuid.UUID       `json:"primary_contact_id,omitempty"`
	Name              *string          `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Amount            *decimal.Decimal `json:"amount,omitempty"`
	Currency          *string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	ExpectedCloseDate *string          `json:"expected_close_date,omitempty"`
	Probability       *float64         `json:"probability,omitempty" validate:"omitempty,gte=0,lte=100"`
	Status            *string          `json:"status,omitempty"`
	StageID           *uuid.UUID       `json:"stage_id,omitempty"`
}

func parseCloseDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	parsed, err := time.Parse(closeDateLayout, strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "expected_close_date must be YYYY-MM-DD")
	}
	return &parsed, nil
}

func parseDealStatus(raw *string) (*enums.DealStatus, error) {
	if raw == nil {
		return nil, nil
	}
	status, err := enums.ParseDealStatus(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
	}
	return &status, nil
}

// CreateDeal handles POST /deals.
func CreateDeal(svc dealsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deals service unavailable"))
			return
		}

		var payload createDealRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		closeDate, err := parseCloseDate(payload.ExpectedCloseDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := parseDealStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amount := decimal.Zero
		if payload.Amount != nil {
			amount = *payload.Amount
		}

		deal, err := svc.Create(r.Context(), dealsvc.CreateDealInput{
			AccountID:         payload.AccountID,
			PrimaryContactID:  payload.PrimaryContactID,
			Name:              payload.Name,
			Amount:            amount,
			Currency:          payload.Currency,
			ExpectedCloseDate: closeDate,
			Probability:       payload.Probability,
			Status:            status,
			StageID:           payload.StageID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toDealResponse(deal))
	}
}

// GetDeal handles GET /deals/{dealId}.
func GetDeal(svc dealsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deals service unavailable"))
			return
		}

		id, err := pathUUID(r, "dealId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deal, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toDealResponse(deal))
	}
}

// ListDeals handles GET /deals.
func ListDeals(svc dealsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deals service unavailable"))
			return
		}

		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		accountID, err := validators.ParseQueryUUID(r, "account_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stageID, err := validators.ParseQueryUUID(r, "stage_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := parseDealStatus(validators.ParseQueryString(r, "status"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deals, err := svc.List(r.Context(), dealsvc.ListDealsInput{
			AccountID:  accountID,
			StageID:    stageID,
			Status:     status,
			Query:      strings.TrimSpace(r.URL.Query().Get("q")),
			Pagination: page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toDealResponses(deals))
	}
}

// UpdateDeal handles PATCH /deals/{dealId}.
func UpdateDeal(svc dealsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deals service unavailable"))
			return
		}

		id, err := pathUUID(r, "dealId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateDealRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		closeDate, err := parseCloseDate(payload.ExpectedCloseDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := parseDealStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deal, err := svc.Update(r.Context(), id, dealsvc.UpdateDealInput{
			PrimaryContactID:  payload.PrimaryContactID,
			Name:              payload.Name,
			Amount:            payload.Amount,
			Currency:          payload.Currency,
			ExpectedCloseDate: closeDate,
			Probability:       payload.Probability,
			Status:            status,
			StageID:           payload.StageID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toDealResponse(deal))
	}
}

// MoveDealStage handles POST /deals/{dealId}/move/{stageId}.
func MoveDealStage(svc dealsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deals service unavailable"))
			return
		}

		id, err := pathUUID(r, "dealId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stageID, err := pathUUID(r, "stageId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deal, err := svc.MoveToStage(r.Context(), id, stageID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toDealResponse(deal))
	}
}

// DeleteDeal handles DELETE /deals/{dealId}.
func DeleteDeal(svc dealsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deals service unavailable"))
			return
		}

		id, err := pathUUID(r, "dealId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
