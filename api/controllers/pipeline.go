package controllers

import (
	"net/http"

	"github.com/dealflowhq/dealflow-backend/api/responses"
	"github.com/dealflowhq/dealflow-backend/api/validators"
	pipelinesvc "github.com/dealflowhq/dealflow-backend/internal/pipeline"
	pkgerrors "github.com/dealflowhq/dealflow-backend/pkg/errors"
	"github.com/dealflowhq/dealflow-backend/pkg/logger"
)

type createStageRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=255"`
	Order       int      `json:"order" validate:"gte=0"`
	IsDefault   *bool    `json:"is_default,omitempty"`
	Probability *float64 `json:"probability,omitempty" validate:"omitempty,gte=0,lte=1"`
}

type updateStageRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Order       *int     `json:"order,omitempty" validate:"omitempty,gte=0"`
	IsDefault   *bool    `json:"is_default,omitempty"`
	Probability *float64 `json:"probability,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// CreateStage handles POST /pipeline/stages.
func CreateStage(svc pipelinesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pipeline service unavailable"))
			return
		}

		var payload createStageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stage, err := svc.Create(r.Context(), pipelinesvc.CreateStageInput{
			Name:        payload.Name,
			Order:       payload.Order,
			IsDefault:   payload.IsDefault,
			Probability: payload.Probability,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toStageResponse(stage))
	}
}

// GetStage handles GET /pipeline/stages/{stageId}.
func GetStage(svc pipelinesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pipeline service unavailable"))
			return
		}

		id, err := pathUUID(r, "stageId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stage, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toStageResponse(stage))
	}
}

// ListStages handles GET /pipeline/stages, ordered by pipeline position.
func ListStages(svc pipelinesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pipeline service unavailable"))
			return
		}

		stages, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toStageResponses(stages))
	}
}

// GetDefaultStage handles GET /pipeline/stages/default.
func GetDefaultStage(svc pipelinesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pipeline service unavailable"))
			return
		}

		stage, err := svc.GetDefault(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toStageResponse(stage))
	}
}

// UpdateStage handles PATCH /pipeline/stages/{stageId}.
func UpdateStage(svc pipelinesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pipeline service unavailable"))
			return
		}

		id, err := pathUUID(r, "stageId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateStageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stage, err := svc.Update(r.Context(), id, pipelinesvc.UpdateStageInput{
			Name:        payload.Name,
			Order:       payload.Order,
			IsDefault:   payload.IsDefault,
			Probability: payload.Probability,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toStageResponse(stage))
	}
}

// DeleteStage handles DELETE /pipeline/stages/{stageId}.
func DeleteStage(svc pipelinesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pipeline service unavailable"))
			return
		}

		id, err := pathUUID(r, "stageId")
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
