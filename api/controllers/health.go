package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/dealflowhq/dealflow-backend/api/responses"
	"github.com/dealflowhq/dealflow-backend/pkg/config"
	"github.com/dealflowhq/dealflow-backend/pkg/db"
	pkgerrors "github.com/dealflowhq/dealflow-backend/pkg/errors"
	"github.com/dealflowhq/dealflow-backend/pkg/logger"
)

const readyCheckTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-DealFlow-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-DealFlow-Env", cfg.App.Env)

		if dbP != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
			defer cancel()
			if err := dbP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database not reachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
