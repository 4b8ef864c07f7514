package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dealflowhq/dealflow-backend/api/responses"
	"github.com/dealflowhq/dealflow-backend/api/validators"
	contactsvc "github.com/dealflowhq/dealflow-backend/internal/contacts"
	pkgerrors "github.com/dealflowhq/dealflow-backend/pkg/errors"
	"github.com/dealflowhq/dealflow-backend/pkg/logger"
)

type createContactRequest struct {
	AccountID   *uuid.UUID `json:"account_id,omitempty"`
	FirstName   string     `json:"first_name" validate:"required,min=1,max=255"`
	LastName    string     `json:"last_name" validate:"required,min=1,max=255"`
	Email       *string    `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone       *string    `json:"phone,omitempty" validate:"omitempty,max=64"`
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=255"`
	LeadSource  *string    `json:"lead_source,omitempty" validate:"omitempty,max=255"`
	OwnerUserID *string    `json:"owner_user_id,omitempty" validate:"omitempty,max=255"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

type updateContactRequest struct {
	AccountID   *uuid.UUID `json:"account_id,omitempty"`
	FirstName   *string    `json:"first_name,omitempty" validate:"omitempty,min=1,max=255"`
	LastName    *string    `json:"last_name,omitempty" validate:"omitempty,min=1,max=255"`
	Email       *string    `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone       *string    `json:"phone,omitempty" validate:"omitempty,max=64"`
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=255"`
	LeadSource  *string    `json:"lead_source,omitempty" validate:"omitempty,max=255"`
	OwnerUserID *string    `json:"owner_user_id,omitempty" validate:"omitempty,max=255"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

// CreateContact handles POST /contacts.
func CreateContact(svc contactsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contacts service unavailable"))
			return
		}

		var payload createContactRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		contact, err := svc.Create(r.Context(), contactsvc.CreateContactInput{
			AccountID:   payload.AccountID,
			FirstName:   payload.FirstName,
			LastName:    payload.LastName,
			Email:       payload.Email,
			Phone:       payload.Phone,
			Title:       payload.Title,
			LeadSource:  payload.LeadSource,
			OwnerUserID: payload.OwnerUserID,
			IsActive:    payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toContactResponse(contact))
	}
}

// GetContact handles GET /contacts/{contactId}.
func GetContact(svc contactsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contacts service unavailable"))
			return
		}

		id, err := pathUUID(r, "contactId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		contact, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toContactResponse(contact))
	}
}

// ListContacts handles GET /contacts.
func ListContacts(svc contactsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contacts service unavailable"))
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
		isActive, err := validators.ParseQueryBool(r, "is_active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		contacts, err := svc.List(r.Context(), contactsvc.ListContactsInput{
			AccountID:   accountID,
			OwnerUserID: validators.ParseQueryString(r, "owner_user_id"),
			IsActive:    isActive,
			Query:       strings.TrimSpace(r.URL.Query().Get("q")),
			Pagination:  page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toContactResponses(contacts))
	}
}

// UpdateContact handles PATCH /contacts/{contactId}.
func UpdateContact(svc contactsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contacts service unavailable"))
			return
		}

		id, err := pathUUID(r, "contactId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateContactRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		contact, err := svc.Update(r.Context(), id, contactsvc.UpdateContactInput{
			AccountID:   payload.AccountID,
			FirstName:   payload.FirstName,
			LastName:    payload.LastName,
			Email:       payload.Email,
			Phone:       payload.Phone,
			Title:       payload.Title,
			LeadSource:  payload.LeadSource,
			OwnerUserID: payload.OwnerUserID,
			IsActive:    payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toContactResponse(contact))
	}
}

// DeleteContact handles DELETE /contacts/{contactId}.
func DeleteContact(svc contactsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contacts service unavailable"))
			return
		}

		id, err := pathUUID(r, "contactId")
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
