package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	accountsvc "github.com/dealflowhq/dealflow-backend/internal/accounts"
	activitysvc "github.com/dealflowhq/dealflow-backend/internal/activities"
	contactsvc "github.com/dealflowhq/dealflow-backend/internal/contacts"
	dealsvc "github.com/dealflowhq/dealflow-backend/internal/deals"
	insightsvc "github.com/dealflowhq/dealflow-backend/internal/insights"
	pipelinesvc "github.com/dealflowhq/dealflow-backend/internal/pipeline"
	"github.com/dealflowhq/dealflow-backend/pkg/config"
	"github.com/dealflowhq/dealflow-backend/pkg/db/models"
	"github.com/dealflowhq/dealflow-backend/pkg/logger"
	"github.com/dealflowhq/dealflow-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAccountService struct{}

func (stubAccountService) Create(context.Context, accountsvc.CreateAccountInput) (*models.Account, error) {
	panic("unimplemented")
}

func (stubAccountService) Get(context.Context, uuid.UUID) (*models.Account, error) {
	panic("unimplemented")
}

func (stubAccountService) List(context.Context, accountsvc.ListAccountsInput) ([]models.Account, error) {
	return []models.Account{}, nil
}

func (stubAccountService) Update(context.Context, uuid.UUID, accountsvc.UpdateAccountInput) (*models.Account, error) {
	panic("unimplemented")
}

func (stubAccountService) Delete(context.Context, uuid.UUID) error {
	panic("unimplemented")
}

type stubContactService struct{}

func (stubContactService) Create(context.Context, contactsvc.CreateContactInput) (*models.Contact, error) {
	panic("unimplemented")
}

func (stubContactService) Get(context.Context, uuid.UUID) (*models.Contact, error) {
	panic("unimplemented")
}

func (stubContactService) List(context.Context, contactsvc.ListContactsInput) ([]models.Contact, error) {
	return []models.Contact{}, nil
}

func (stubContactService) Update(context.Context, uuid.UUID, contactsvc.UpdateContactInput) (*models.Contact, error) {
	panic("unimplemented")
}

func (stubContactService) Delete(context.Context, uuid.UUID) error {
	panic("unimplemented")
}

type stubPipelineService struct{}

func (stubPipelineService) Create(context.Context, pipelinesvc.CreateStageInput) (*models.PipelineStage, error) {
	panic("unimplemented")
}

func (stubPipelineService) Get(context.Context, uuid.UUID) (*models.PipelineStage, error) {
	panic("unimplemented")
}

func (stubPipelineService) List(context.Context) ([]models.PipelineStage, error) {
	return []models.PipelineStage{{ID: uuid.New(), Name: "Prospecting", Probability: 0.1}}, nil
}

func (stubPipelineService) GetDefault(context.Context) (*models.PipelineStage, error) {
	panic("unimplemented")
}

func (stubPipelineService) Update(context.Context, uuid.UUID, pipelinesvc.UpdateStageInput) (*models.PipelineStage, error) {
	panic("unimplemented")
}

func (stubPipelineService) Delete(context.Context, uuid.UUID) error {
	panic("unimplemented")
}

type stubDealService struct{}

func (stubDealService) Create(context.Context, dealsvc.CreateDealInput) (*models.Deal, error) {
	panic("unimplemented")
}

func (stubDealService) Get(context.Context, uuid.UUID) (*models.Deal, error) {
	panic("unimplemented")
}

func (stubDealService) List(context.Context, dealsvc.ListDealsInput) ([]models.Deal, error) {
	return []models.Deal{}, nil
}

func (stubDealService) Update(context.Context, uuid.UUID, dealsvc.UpdateDealInput) (*models.Deal, error) {
	panic("unimplemented")
}

func (stubDealService) MoveToStage(context.Context, uuid.UUID, uuid.UUID) (*models.Deal, error) {
	panic("unimplemented")
}

func (stubDealService) Delete(context.Context, uuid.UUID) error {
	panic("unimplemented")
}

type stubActivityService struct{}

func (stubActivityService) Create(context.Context, activitysvc.CreateActivityInput) (*models.ActivityLog, error) {
	panic("unimplemented")
}

func (stubActivityService) Get(context.Context, uuid.UUID) (*models.ActivityLog, error) {
	panic("unimplemented")
}

func (stubActivityService) List(context.Context, activitysvc.ListActivitiesInput) ([]models.ActivityLog, error) {
	return []models.ActivityLog{}, nil
}

func (stubActivityService) Update(context.Context, uuid.UUID, activitysvc.UpdateActivityInput) (*models.ActivityLog, error) {
	panic("unimplemented")
}

func (stubActivityService) Delete(context.Context, uuid.UUID) error {
	panic("unimplemented")
}

type stubInsightService struct{}

func (stubInsightService) EvaluateLeadScore(context.Context, uuid.UUID) (*insightsvc.LeadScore, error) {
	panic("unimplemented")
}

func (stubInsightService) ComputeLeadScore(context.Context, uuid.UUID) (*insightsvc.LeadScore, error) {
	panic("unimplemented")
}

func (stubInsightService) EstimateWinProbability(context.Context, uuid.UUID) (*insightsvc.WinProbability, error) {
	panic("unimplemented")
}

func (stubInsightService) Forecast(context.Context, insightsvc.ForecastInput) (*insightsvc.Forecast, error) {
	return &insightsvc.Forecast{}, nil
}

func (stubInsightService) RankLeads(context.Context, insightsvc.RankLeadsInput) ([]insightsvc.RankedLead, error) {
	return []insightsvc.RankedLead{}, nil
}

func newTestRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "dev"
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})

	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		metrics.NewAPIMetrics(),
		stubAccountService{},
		stubContactService{},
		stubPipelineService{},
		stubDealService{},
		stubActivityService{},
		stubInsightService{},
	)
}

func TestRouterWiring(t *testing.T) {
	router := newTestRouter()

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("liveness", func(t *testing.T) {
		rec := get("/health/live")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if env := rec.Header().Get("X-DealFlow-Env"); env != "dev" {
			t.Fatalf("expected env header, got %q", env)
		}
	})

	t.Run("readiness", func(t *testing.T) {
		if rec := get("/health/ready"); rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("metrics endpoint", func(t *testing.T) {
		if rec := get("/metrics"); rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("stages list", func(t *testing.T) {
		rec := get("/api/v1/pipeline/stages")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "Prospecting") {
			t.Fatalf("expected stage payload, got %s", rec.Body.String())
		}
	})

	t.Run("forecast", func(t *testing.T) {
		if rec := get("/api/v1/insights/forecast"); rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		if rec := get("/api/v1/unknown"); rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
