package insights

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeadScore is the result of evaluating a contact against the scoring
// heuristic.
type LeadScore struct {
	ContactID     uuid.UUID       `json:"contact_id"`
	Score         float64         `json:"score"`
	ActivityCount int64           `json:"activity_count"`
	OpenAmount    decimal.Decimal `json:"open_amount"`
}

// WinProbability is the estimated chance of an individual deal closing.
type WinProbability struct {
	DealID      uuid.UUID `json:"deal_id"`
	Probability float64   `json:"probability"`
}

// ForecastInput narrows the deals a forecast considers.
type ForecastInput struct {
	AccountID *uuid.UUID
	StageID   *uuid.UUID
}

// Forecast aggregates the open pipeline in scope.
type Forecast struct {
	PipelineTotal    decimal.Decimal `json:"pipeline_total"`
	WeightedPipeline decimal.Decimal `json:"weighted_pipeline"`
	OpenDeals        int             `json:"open_deals"`
	AvgProbability   float64         `json:"avg_probability"`
}

// RankLeadsInput narrows and caps the ranking result.
type RankLeadsInput struct {
	AccountID *uuid.UUID
	Limit     int
}

// RankedLead is one row of the bulk lead triage ranking.
type RankedLead struct {
	DealID         uuid.UUID       `json:"deal_id"`
	DealName       string          `json:"deal_name"`
	AccountID      uuid.UUID       `json:"account_id"`
	Amount         decimal.Decimal `json:"amount"`
	CompositeScore float64         `json:"composite_score"`
}
