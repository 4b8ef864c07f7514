package controllers

import (
	"net/http"

	"github.com/dealflowhq/dealflow-backend/api/responses"
	"github.com/dealflowhq/dealflow-backend/api/validators"
	insightsvc "github.com/dealflowhq/dealflow-backend/internal/insights"
	pkgerrors "github.com/dealflowhq/dealflow-backend/pkg/errors"
	"github.com/dealflowhq/dealflow-backend/pkg/logger"
)

const maxRankingLimit = 100

// EvaluateLeadScore handles GET /insights/leads/{contactId}/score. It is a
// pure read; nothing is written back to the contact.
func EvaluateLeadScore(svc insightsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "insights service unavailable"))
			return
		}

		id, err := pathUUID(r, "contactId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		score, err := svc.EvaluateLeadScore(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, score)
	}
}

// ComputeLeadScore handles POST /insights/leads/{contactId}/score and
// persists the score onto the contact.
func ComputeLeadScore(svc insightsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "insights service unavailable"))
			return
		}

		id, err := pathUUID(r, "contactId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		score, err := svc.ComputeLeadScore(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, score)
	}
}

// EstimateWinProbability handles GET /insights/deals/{dealId}/win-probability.
func EstimateWinProbability(svc insightsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "insights service unavailable"))
			return
		}

		id, err := pathUUID(r, "dealId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		estimate, err := svc.EstimateWinProbability(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, estimate)
	}
}

// Forecast handles GET /insights/forecast.
func Forecast(svc insightsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "insights service unavailable"))
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

		forecast, err := svc.Forecast(r.Context(), insightsvc.ForecastInput{
			AccountID: accountID,
			StageID:   stageID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, forecast)
	}
}

// RankLeads handles GET /insights/lead-ranking.
func RankLeads(svc insightsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "insights service unavailable"))
			return
		}

		accountID, err := validators.ParseQueryUUID(r, "account_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxRankingLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ranked, err := svc.RankLeads(r.Context(), insightsvc.RankLeadsInput{
			AccountID: accountID,
			Limit:     limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ranked)
	}
}
