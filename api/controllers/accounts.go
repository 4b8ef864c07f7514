package controllers

import (
	"net/http"
	"strings"

	"github.com/dealflowhq/dealflow-backend/api/responses"
	"github.com/dealflowhq/dealflow-backend/api/validators"
	accountsvc "github.com/dealflowhq/dealflow-backend/internal/accounts"
	pkgerrors "github.com/dealflowhq/dealflow-backend/pkg/errors"
	"github.com/dealflowhq/dealflow-backend/pkg/logger"
)

type createAccountRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Domain      *string `json:"domain,omitempty" validate:"omitempty,max=255"`
	Industry    *string `json:"industry,omitempty" validate:"omitempty,max=255"`
	Size        *string `json:"size,omitempty" validate:"omitempty,max=64"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=4000"`
	OwnerUserID *string `json:"owner_user_id,omitempty" validate:"omitempty,max=255"`
}

type updateAccountRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Domain      *string `json:"domain,omitempty" validate:"omitempty,max=255"`
	Industry    *string `json:"industry,omitempty" validate:"omitempty,max=255"`
	Size        *string `json:"size,omitempty" validate:"omitempty,max=64"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=4000"`
	OwnerUserID *string `json:"owner_user_id,omitempty" validate:"omitempty,max=255"`
}

// CreateAccount handles POST /accounts.
func CreateAccount(svc accountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accounts service unavailable"))
			return
		}

		var payload createAccountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := svc.Create(r.Context(), accountsvc.CreateAccountInput{
			Name:        payload.Name,
			Domain:      payload.Domain,
			Industry:    payload.Industry,
			Size:        payload.Size,
			Description: payload.Description,
			OwnerUserID: payload.OwnerUserID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toAccountResponse(account))
	}
}

// GetAccount handles GET /accounts/{accountId}.
func GetAccount(svc accountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accounts service unavailable"))
			return
		}

		id, err := pathUUID(r, "accountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toAccountResponse(account))
	}
}

// ListAccounts handles GET /accounts.
func ListAccounts(svc accountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accounts service unavailable"))
			return
		}

		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := accountsvc.ListAccountsInput{
			Query:       strings.TrimSpace(r.URL.Query().Get("q")),
			OwnerUserID: validators.ParseQueryString(r, "owner_user_id"),
			Pagination:  page,
		}

		accounts, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toAccountResponses(accounts))
	}
}

// UpdateAccount handles PATCH /accounts/{accountId}.
func UpdateAccount(svc accountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accounts service unavailable"))
			return
		}

		id, err := pathUUID(r, "accountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateAccountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := svc.Update(r.Context(), id, accountsvc.UpdateAccountInput{
			Name:        payload.Name,
			Domain:      payload.Domain,
			Industry:    payload.Industry,
			Size:        payload.Size,
			Description: payload.Description,
			OwnerUserID: payload.OwnerUserID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toAccountResponse(account))
	}
}

// DeleteAccount handles DELETE /accounts/{accountId}.
func DeleteAccount(svc accountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accounts service unavailable"))
			return
		}

		id, err := pathUUID(r, "accountId")
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
