package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dealflowhq/dealflow-backend/api/controllers"
	"github.com/dealflowhq/dealflow-backend/api/middleware"
	accountsvc "github.com/dealflowhq/dealflow-backend/internal/accounts"
	activitysvc "github.com/dealflowhq/dealflow-backend/internal/activities"
	contactsvc "github.com/dealflowhq/dealflow-backend/internal/contacts"
	dealsvc "github.com/dealflowhq/dealflow-backend/internal/deals"
	insightsvc "github.com/dealflowhq/dealflow-backend/internal/insights"
	pipelinesvc "github.com/dealflowhq/dealflow-backend/internal/pipeline"
	"github.com/dealflowhq/dealflow-backend/pkg/config"
	"github.com/dealflowhq/dealflow-backend/pkg/db"
	"github.com/dealflowhq/dealflow-backend/pkg/logger"
	"github.com/dealflowhq/dealflow-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	apiMetrics *metrics.APIMetrics,
	accountService accountsvc.Service,
	contactService contactsvc.Service,
	pipelineService pipelinesvc.Service,
	dealService dealsvc.Service,
	activityService activitysvc.Service,
	insightService insightsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.App.AllowedOrigins()),
		middleware.Logging(logg, apiMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	r.Method(http.MethodGet, "/metrics", apiMetrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", controllers.CreateAccount(accountService, logg))
			r.Get("/", controllers.ListAccounts(accountService, logg))
			r.Get("/{accountId}", controllers.GetAccount(accountService, logg))
			r.Patch("/{accountId}", controllers.UpdateAccount(accountService, logg))
			r.Delete("/{accountId}", controllers.DeleteAccount(accountService, logg))
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Post("/", controllers.CreateContact(contactService, logg))
			r.Get("/", controllers.ListContacts(contactService, logg))
			r.Get("/{contactId}", controllers.GetContact(contactService, logg))
			r.Patch("/{contactId}", controllers.UpdateContact(contactService, logg))
			r.Delete("/{contactId}", controllers.DeleteContact(contactService, logg))
		})

		r.Route("/pipeline/stages", func(r chi.Router) {
			r.Post("/", controllers.CreateStage(pipelineService, logg))
			r.Get("/", controllers.ListStages(pipelineService, logg))
			r.Get("/default", controllers.GetDefaultStage(pipelineService, logg))
			r.Get("/{stageId}", controllers.GetStage(pipelineService, logg))
			r.Patch("/{stageId}", controllers.UpdateStage(pipelineService, logg))
			r.Delete("/{stageId}", controllers.DeleteStage(pipelineService, logg))
		})

		r.Route("/deals", func(r chi.Router) {
			r.Post("/", controllers.CreateDeal(dealService, logg))
			r.Get("/", controllers.ListDeals(dealService, logg))
			r.Get("/{dealId}", controllers.GetDeal(dealService, logg))
			r.Patch("/{dealId}", controllers.UpdateDeal(dealService, logg))
			r.Post("/{dealId}/move/{stageId}", controllers.MoveDealStage(dealService, logg))
			r.Delete("/{dealId}", controllers.DeleteDeal(dealService, logg))
		})

		r.Route("/activities", func(r chi.Router) {
			r.Post("/", controllers.CreateActivity(activityService, logg))
			r.Get("/", controllers.ListActivities(activityService, logg))
			r.Get("/{activityId}", controllers.GetActivity(activityService, logg))
			r.Patch("/{activityId}", controllers.UpdateActivity(activityService, logg))
			r.Delete("/{activityId}", controllers.DeleteActivity(activityService, logg))
		})

		r.Route("/insights", func(r chi.Router) {
			r.Get("/leads/{contactId}/score", controllers.EvaluateLeadScore(insightService, logg))
			r.Post("/leads/{contactId}/score", controllers.ComputeLeadScore(insightService, logg))
			r.Get("/deals/{dealId}/win-probability", controllers.EstimateWinProbability(insightService, logg))
			r.Get("/forecast", controllers.Forecast(insightService, logg))
			r.Get("/lead-ranking", controllers.RankLeads(insightService, logg))
		})
	})

	return r
}
