package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dealflowhq/dealflow-backend/api/responses"
	"github.com/dealflowhq/dealflow-backend/api/validators"
	activitysvc "github.com/dealflowhq/dealflow-backend/internal/activities"
	"github.com/dealflowhq/dealflow-backend/pkg/enums"
	pkgerrors "github.com/dealflowhq/dealflow-backend/pkg/errors"
	"github.com/dealflowhq/dealflow-backend/pkg/logger"
)

type createActivityRequest struct {
	DealID            *uuid.UUID `json:"deal_id,omitempty"`
	ContactID         *uuid.UUID `json:"contact_id,omitempty"`
	Type              *string    `json:"type,omitempty"`
	Subject           *string    `json:"subject,omitempty" validate:"omitempty,max=255"`
	Content           *string    `json:"content,omitempty" validate:"omitempty,max=8000"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	Completed         *bool      `json:"completed,omitempty"`
	PerformedByUserID *string    `json:"performed_by_user_id,omitempty" validate:"omitempty,max=255"`
}

type updateActivityRequest struct {
	Type              *string    `json:"type,omitempty"`
	Subject           *string    `json:"subject,omitempty" validate:"omitempty,max=255"`
	Content           *string    `json:"content,omitempty" validate:"omitempty,max=8000"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	Completed         *bool      `json:"completed,omitempty"`
	PerformedByUserID *string    `json:"performed_by_user_id,omitempty" validate:"omitempty,max=255"`
}

func parseActivityType(raw *string) (*enums.ActivityType, error) {
	if raw == nil {
		return nil, nil
	}
	kind, err := enums.ParseActivityType(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid activity type")
	}
	return &kind, nil
}

// CreateActivity handles POST /activities.
func CreateActivity(svc activitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "activities service unavailable"))
			return
		}

		var payload createActivityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := parseActivityType(payload.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		activity, err := svc.Create(r.Context(), activitysvc.CreateActivityInput{
			DealID:            payload.DealID,
			ContactID:         payload.ContactID,
			Type:              kind,
			Subject:           payload.Subject,
			Content:           payload.Content,
			DueDate:           payload.DueDate,
			Completed:         payload.Completed,
			PerformedByUserID: payload.PerformedByUserID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toActivityResponse(activity))
	}
}

// GetActivity handles GET /activities/{activityId}.
func GetActivity(svc activitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "activities service unavailable"))
			return
		}

		id, err := pathUUID(r, "activityId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		activity, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toActivityResponse(activity))
	}
}

// ListActivities handles GET /activities.
func ListActivities(svc activitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "activities service unavailable"))
			return
		}

		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dealID, err := validators.ParseQueryUUID(r, "deal_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contactID, err := validators.ParseQueryUUID(r, "contact_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		kind, err := parseActivityType(validators.ParseQueryString(r, "type"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		completed, err := validators.ParseQueryBool(r, "completed")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		activities, err := svc.List(r.Context(), activitysvc.ListActivitiesInput{
			DealID:     dealID,
			ContactID:  contactID,
			Type:       kind,
			Completed:  completed,
			Pagination: page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toActivityResponses(activities))
	}
}

// UpdateActivity handles PATCH /activities/{activityId}.
func UpdateActivity(svc activitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "activities service unavailable"))
			return
		}

		id, err := pathUUID(r, "activityId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateActivityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := parseActivityType(payload.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		activity, err := svc.Update(r.Context(), id, activitysvc.UpdateActivityInput{
			Type:              kind,
			Subject:           payload.Subject,
			Content:           payload.Content,
			DueDate:           payload.DueDate,
			Completed:         payload.Completed,
			PerformedByUserID: payload.PerformedByUserID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toActivityResponse(activity))
	}
}

// DeleteActivity handles DELETE /activities/{activityId}.
func DeleteActivity(svc activitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "activities service unavailable"))
			return
		}

		id, err := pathUUID(r, "activityId")
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
