package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/dealflowhq/dealflow-backend/api/routes"
	"github.com/dealflowhq/dealflow-backend/internal/accounts"
	"github.com/dealflowhq/dealflow-backend/internal/activities"
	"github.com/dealflowhq/dealflow-backend/internal/contacts"
	"github.com/dealflowhq/dealflow-backend/internal/deals"
	"github.com/dealflowhq/dealflow-backend/internal/insights"
	"github.com/dealflowhq/dealflow-backend/internal/pipeline"
	"github.com/dealflowhq/dealflow-backend/pkg/config"
	"github.com/dealflowhq/dealflow-backend/pkg/db"
	"github.com/dealflowhq/dealflow-backend/pkg/logger"
	"github.com/dealflowhq/dealflow-backend/pkg/metrics"
	"github.com/dealflowhq/dealflow-backend/pkg/migrate"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	accountRepo := accounts.NewRepository(dbClient.DB())
	contactRepo := contacts.NewRepository(dbClient.DB())
	stageRepo := pipeline.NewRepository(dbClient.DB())
	dealRepo := deals.NewRepository(dbClient.DB())
	activityRepo := activities.NewRepository(dbClient.DB())
	apiMetrics := metrics.NewAPIMetrics()

	accountService, err := accounts.NewService(accountRepo, dbClient)
	exitOnError(logg, "failed to create accounts service", err)

	contactService, err := contacts.NewService(contactRepo, accountRepo, dbClient)
	exitOnError(logg, "failed to create contacts service", err)

	pipelineService, err := pipeline.NewService(stageRepo, dbClient)
	exitOnError(logg, "failed to create pipeline service", err)

	dealService, err := deals.NewService(dealRepo, accountRepo, contactRepo, stageRepo, dbClient)
	exitOnError(logg, "failed to create deals service", err)

	activityService, err := activities.NewService(activityRepo, dealRepo, contactRepo, dbClient)
	exitOnError(logg, "failed to create activities service", err)

	insightService, err := insights.NewService(insights.NewAggregates(dbClient.DB()), contactRepo, dealRepo, apiMetrics)
	exitOnError(logg, "failed to create insights service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			apiMetrics,
			accountService,
			contactService,
			pipelineService,
			dealService,
			activityService,
			insightService,
		),
	}

	if err := serve(ctx, logg, server); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}

func serve(ctx context.Context, logg *logger.Logger, server *http.Server) error {
	notifyCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-notifyCtx.Done():
	}

	logg.Info(ctx, "shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var combined error
	if err := server.Shutdown(shutdownCtx); err != nil {
		combined = multierr.Append(combined, err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		combined = multierr.Append(combined, err)
	}
	return combined
}

func exitOnError(logg *logger.Logger, msg string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
