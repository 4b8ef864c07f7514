package insights

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dealflowhq/dealflow-backend/internal/contacts"
	"github.com/dealflowhq/dealflow-backend/internal/deals"
	"github.com/dealflowhq/dealflow-backend/pkg/db/models"
	"github.com/dealflowhq/dealflow-backend/pkg/enums"
	pkgerrors "github.com/dealflowhq/dealflow-backend/pkg/errors"
	"github.com/dealflowhq/dealflow-backend/pkg/metrics"
)

func setupInsightsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE IF NOT EXISTS accounts (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  domain TEXT,
  industry TEXT,
  size TEXT,
  description TEXT,
  owner_user_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS contacts (
  id TEXT PRIMARY KEY,
  account_id TEXT,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  email TEXT,
  phone TEXT,
  title TEXT,
  lead_source TEXT,
  owner_user_id TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  lead_score REAL,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS pipeline_stages (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  display_order INTEGER NOT NULL,
  is_default INTEGER NOT NULL DEFAULT 0,
  probability REAL NOT NULL DEFAULT 0.1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS deals (
  id TEXT PRIMARY KEY,
  account_id TEXT NOT NULL,
  primary_contact_id TEXT,
  name TEXT NOT NULL,
  amount NUMERIC NOT NULL DEFAULT 0,
  currency TEXT NOT NULL DEFAULT 'USD',
  expected_close_date DATETIME,
  probability REAL,
  status TEXT NOT NULL DEFAULT 'open',
  stage_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS activity_logs (
  id TEXT PRIMARY KEY,
  deal_id TEXT,
  contact_id TEXT,
  type TEXT NOT NULL DEFAULT 'note',
  subject TEXT,
  content TEXT,
  due_date DATETIME,
  completed INTEGER NOT NULL DEFAULT 0,
  performed_by_user_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, stmt := range ddl {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	for _, table := range []string{"activity_logs", "deals", "pipeline_stages", "contacts", "accounts"} {
		require.NoError(t, conn.Exec("DELETE FROM "+table).Error)
	}
	return conn
}

func newInsightsService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(
		NewAggregates(conn),
		contacts.NewRepository(conn),
		deals.NewRepository(conn),
		metrics.NewAPIMetrics(),
	)
	require.NoError(t, err)
	return svc
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func seedContact(t *testing.T, conn *gorm.DB, contact *models.Contact) *models.Contact {
	t.Helper()
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	require.NoError(t, conn.Create(contact).Error)
	return contact
}

func seedDeal(t *testing.T, conn *gorm.DB, deal *models.Deal) *models.Deal {
	t.Helper()
	if deal.ID == uuid.Nil {
		deal.ID = uuid.New()
	}
	if deal.AccountID == uuid.Nil {
		deal.AccountID = uuid.New()
	}
	if deal.Status == "" {
		deal.Status = enums.DealStatusOpen
	}
	require.NoError(t, conn.Create(deal).Error)
	return deal
}

func seedActivities(t *testing.T, conn *gorm.DB, n int, dealID, contactID *uuid.UUID) {
	t.Helper()
	for i := 0; i < n; i++ {
		activity := &models.ActivityLog{ID: uuid.New(), DealID: dealID, ContactID: contactID}
		require.NoError(t, conn.Create(activity).Error)
	}
}

func TestLeadScoreSeniorContactWithPipeline(t *testing.T) {
	conn := setupInsightsTestDB(t)
	svc := newInsightsService(t, conn)
	ctx := context.Background()

	contact := seedContact(t, conn, &models.Contact{
		FirstName: "Sam",
		LastName:  "Harper",
		Title:     strPtr("VP of Sales"),
		Phone:     strPtr("+1-555-0100"),
		Email:     strPtr("sam@pipeline.test"),
	})
	seedActivities(t, conn, 6, nil, &contact.ID)
	seedDeal(t, conn, &models.Deal{
		PrimaryContactID: &contact.ID,
		Name:             "Big open deal",
		Amount:           decimal.NewFromInt(5000),
	})

	// 30 base + 10 title + 15 phone&email + 25 capped activities
	// + 10*log10(6) for the open pipeline.
	result, err := svc.EvaluateLeadScore(ctx, contact.ID)
	require.NoError(t, err)
	assert.InDelta(t, 87.7815, result.Score, 1e-9)
	assert.EqualValues(t, 6, result.ActivityCount)
}

func TestLeadScoreMinimalContact(t *testing.T) {
	conn := setupInsightsTestDB(t)
	svc := newInsightsService(t, conn)

	contact := seedContact(t, conn, &models.Contact{FirstName: "Quiet", LastName: "Lead"})

	result, err := svc.EvaluateLeadScore(context.Background(), contact.ID)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, result.Score, 1e-9)
}

func TestLeadScoreStaysWithinBounds(t *testing.T) {
	conn := setupInsightsTestDB(t)
	svc := newInsightsService(t, conn)

	contact := seedContact(t, conn, &models.Contact{
		FirstName: "Maxed",
		LastName:  "Out",
		Title:     strPtr("Chief Revenue Officer and Head of Everything"),
		Phone:     strPtr("+1-555-0111"),
		Email:     strPtr("maxed@bounds.test"),
	})
	seedActivities(t, conn, 40, nil, &contact.ID)
	seedDeal(t, conn, &models.Deal{
		PrimaryContactID: &contact.ID,
		Name:             "Whale",
		Amount:           decimal.NewFromInt(100_000_000),
	})

	result, err := svc.EvaluateLeadScore(context.Background(), contact.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, result.Score, 100.0)
	assert.GreaterOrEqual(t, result.Score, 0.0)
	// 30 + 10 + 15 + 25 + 20 capped.
	assert.InDelta(t, 100.0, result.Score, 1e-9)
}

func TestComputeLeadScorePersists(t *testing.T) {
	conn := setupInsightsTestDB(t)
	svc := newInsightsService(t, conn)
	ctx := context.Background()

	contact := seedContact(t, conn, &models.Contact{FirstName: "Store", LastName: "Me"})

	result, err := svc.ComputeLeadScore(ctx, contact.ID)
	require.NoError(t, err)

	var stored models.Contact
	require.NoError(t, conn.First(&stored, "id = ?", contact.ID).Error)
	require.NotNil(t, stored.LeadScore)
	assert.InDelta(t, result.Score, *stored.LeadScore, 1e-9)
}

func TestLeadScoreUnknownContact(t *testing.T) {
	conn := setupInsightsTestDB(t)
	svc := newInsightsService(t, conn)

	_, err := svc.EvaluateLeadScore(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestWinProbabilityStageMedianAndCloseDate(t *testing.T) {
	conn := setupInsightsTestDB(t)
	svc := newInsightsService(t, conn)
	ctx := context.Background()

	stage := &models.PipelineStage{ID: uuid.New(), Name: "Qualification", Order: 2, Probability: 0.2}
	require.NoError(t, conn.Create(stage).Error)

	closeDate := time.Now().UTC().AddDate(0, 0, 3)
	deal := seedDeal(t, conn, &models.Deal{
		Name:              "On the bubble",
		Amount:            decimal.NewFromInt(1000),
		StageID:           &stage.ID,
		ExpectedCloseDate: &closeDate,
	})

	// The only open deal: its amount equals the scope median, and the close
	// date is inside the 14-day window.
	result, err := svc.EstimateWinProbability(ctx, deal.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.30, result.Probability, 1e-9)

	// Pure function: a repeat call yields the identical value.
	again, err := svc.EstimateWinProbability(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Probability, again.Probability)
}

func TestWinProbabilityFallbacksAndWindow(t *testing.T) {
	conn := setupInsightsTestDB(t)
	svc := newInsightsService(t, conn)
	ctx := context.Background()

	// No stage: fallback 0.2. Past close date still counts as day 0.
	pastDate := time.Now().UTC().AddDate(0, 0, -5)
	hit := seedDeal(t, conn, &models.Deal{
		Name:              "Overdue",
		Amount:            decimal.NewFromInt(100),
		ExpectedCloseDate: &pastDate,
	})

	result, err := svc.EstimateWinProbability(ctx, hit.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.30, result.Probability, 1e-9)

	// A close date beyond the window earns no bonus, and a larger amount
	// sits above the median.
	farDate := time.Now().UTC().AddDate(0, 0, 30)
	miss := seedDeal(t, conn, &models.Deal{
		Name:              "Distant",
		Amount:            decimal.NewFromInt(9000),
		ExpectedCloseDate: &farDate,
	})

	result, err = svc.EstimateWinProbability(ctx, miss.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.20, result.Probability, 1e-9)
}

func TestWinProbabilityClamped(t *testing.T) {
	conn := setupInsightsTestDB(t)
	svc := newInsightsService(t, conn)
	ctx := context.Background()

	stage := &models.PipelineStage{ID: uuid.New(), Name: "Signature", Order: 8, Probability: 0.95}
	require.NoError(t, conn.Create(stage).Error)

	closeDate := time.Now().UTC().AddDate(0, 0, 1)
	deal := seedDeal(t, conn, &models.Deal{
		Name:              "Sure thing",
		Amount:            decimal.NewFromInt(10),
		StageID:           &stage.ID,
		ExpectedCloseDate: &closeDate,
	})

	result, err := svc.EstimateWinProbability(ctx, deal.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.95, result.Probability, 1e-9)
}

func TestForecastWeightsAndAverages(t *testing.T) {
	conn := setupInsightsTestDB(t)
	svc := newInsightsService(t, conn)
	ctx := context.Background()

	seedDeal(t, conn, &models.Deal{Name: "Half", Amount: decimal.NewFromInt(1000), Probability: floatPtr(50)})
	seedDeal(t, conn, &models.Deal{Name: "Quarter", Amount: decimal.NewFromInt(3000), Probability: floatPtr(25)})
	seedDeal(t, conn, &models.Deal{Name: "Closed", Amount: decimal.NewFromInt(77777), Probability: floatPtr(90), Status: enums.DealStatusWon})

	result, err := svc.Forecast(ctx, ForecastInput{})
	require.NoError(t, err)
	assert.Equal(t, "4000", result.PipelineTotal.String())
	assert.Equal(t, "1250", result.WeightedPipeline.String())
	assert.Equal(t, 2, result.OpenDeals)
	assert.InDelta(t, 0.375, result.AvgProbability, 1e-9)
}

func TestForecastStageFallbackChain(t *testing.T) {
	conn := setupInsightsTestDB(t)
	svc := newInsightsService(t, conn)
	ctx := context.Background()

	stage := &models.PipelineStage{ID: uuid.New(), Name: "Proposal", Order: 5, Probability: 0.6}
	require.NoError(t, conn.Create(stage).Error)

	// Explicit probability wins over the stage value; a bare deal falls all
	// the way back to 0.2.
	seedDeal(t, conn, &models.Deal{Name: "Explicit", Amount: decimal.NewFromInt(1000), Probability: floatPtr(80), StageID: &stage.ID})
	seedDeal(t, conn, &models.Deal{Name: "Staged", Amount: decimal.NewFromInt(1000), StageID: &stage.ID})
	seedDeal(t, conn, &models.Deal{Name: "Bare", Amount: decimal.NewFromInt(1000)})

	result, err := svc.Forecast(ctx, ForecastInput{})
	require.NoError(t, err)
	assert.Equal(t, "3000", result.PipelineTotal.String())
	// 1000*0.8 + 1000*0.6 + 1000*0.2
	assert.Equal(t, "1600", result.WeightedPipeline.String())
	assert.InDelta(t, 0.5333, result.AvgProbability, 1e-9)
}

func TestForecastScopedAndEmpty(t *testing.T) {
	conn := setupInsightsTestDB(t)
	svc := newInsightsService(t, conn)
	ctx := context.Background()

	accountID := uuid.New()
	seedDeal(t, conn, &models.Deal{AccountID: accountID, Name: "In scope", Amount: decimal.NewFromInt(500), Probability: floatPtr(40)})
	seedDeal(t, conn, &models.Deal{Name: "Out of scope", Amount: decimal.NewFromInt(800), Probability: floatPtr(40)})

	result, err := svc.Forecast(ctx, ForecastInput{AccountID: &accountID})
	require.NoError(t, err)
	assert.Equal(t, 1, result.OpenDeals)
	assert.Equal(t, "500", result.PipelineTotal.String())

	missing := uuid.New()
	empty, err := svc.Forecast(ctx, ForecastInput{AccountID: &missing})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.OpenDeals)
	assert.True(t, empty.PipelineTotal.IsZero())
	assert.Zero(t, empty.AvgProbability)
}

func TestRankLeadsCompositeOrdering(t *testing.T) {
	conn := setupInsightsTestDB(t)
	svc := newInsightsService(t, conn)
	ctx := context.Background()

	busy := seedDeal(t, conn, &models.Deal{Name: "Busy", Amount: decimal.NewFromInt(1000), Probability: floatPtr(50)})
	seedActivities(t, conn, 10, &busy.ID, nil)
	big := seedDeal(t, conn, &models.Deal{Name: "Big", Amount: decimal.NewFromInt(10000), Probability: floatPtr(50)})
	quiet := seedDeal(t, conn, &models.Deal{Name: "Quiet", Amount: decimal.NewFromInt(1000)})

	ranked, err := svc.RankLeads(ctx, RankLeadsInput{})
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	// busy: 0.5*1 + 0.3*0.1 + 0.2*0.5 = 0.63
	// big:   0.5*0 + 0.3*1 + 0.2*0.5 = 0.40
	// quiet: 0.5*0 + 0.3*0.1 + 0.2*0.5 = 0.13
	assert.Equal(t, busy.ID, ranked[0].DealID)
	assert.InDelta(t, 0.63, ranked[0].CompositeScore, 1e-9)
	assert.Equal(t, big.ID, ranked[1].DealID)
	assert.InDelta(t, 0.40, ranked[1].CompositeScore, 1e-9)
	assert.Equal(t, quiet.ID, ranked[2].DealID)
	assert.InDelta(t, 0.13, ranked[2].CompositeScore, 1e-9)
}

func TestRankLeadsTiesKeepCreationOrder(t *testing.T) {
	conn := setupInsightsTestDB(t)
	svc := newInsightsService(t, conn)
	ctx := context.Background()

	first := seedDeal(t, conn, &models.Deal{Name: "Older twin", Amount: decimal.NewFromInt(100), Probability: floatPtr(50)})
	time.Sleep(5 * time.Millisecond)
	second := seedDeal(t, conn, &models.Deal{Name: "Younger twin", Amount: decimal.NewFromInt(100), Probability: floatPtr(50)})

	ranked, err := svc.RankLeads(ctx, RankLeadsInput{})
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, first.ID, ranked[0].DealID)
	assert.Equal(t, second.ID, ranked[1].DealID)
}

func TestRankLeadsCapAndFilter(t *testing.T) {
	conn := setupInsightsTestDB(t)
	svc := newInsightsService(t, conn)
	ctx := context.Background()

	accountID := uuid.New()
	for i := 0; i < 4; i++ {
		seedDeal(t, conn, &models.Deal{AccountID: accountID, Name: "Scoped", Amount: decimal.NewFromInt(int64(100 * (i + 1)))})
	}
	seedDeal(t, conn, &models.Deal{Name: "Elsewhere", Amount: decimal.NewFromInt(5000)})

	ranked, err := svc.RankLeads(ctx, RankLeadsInput{AccountID: &accountID, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, ranked, 2)
	for _, lead := range ranked {
		assert.Equal(t, accountID, lead.AccountID)
	}
}

func TestRankLeadsZeroAmountsNormalize(t *testing.T) {
	conn := setupInsightsTestDB(t)
	svc := newInsightsService(t, conn)
	ctx := context.Background()

	seedDeal(t, conn, &models.Deal{Name: "Zero", Amount: decimal.Zero})

	ranked, err := svc.RankLeads(ctx, RankLeadsInput{})
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	// Max amount substitutes 1.0, so the amount term is 0 not NaN.
	assert.InDelta(t, 0.1, ranked[0].CompositeScore, 1e-9)
}
