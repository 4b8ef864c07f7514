package insights

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealflowhq/dealflow-backend/pkg/db/models"
	"github.com/dealflowhq/dealflow-backend/pkg/metrics"
)

const (
	winProbabilityFloor   = 0.05
	winProbabilityCeiling = 0.95
	closeWindowDays       = 14
	defaultRankingLimit   = 10
)

var seniorityKeywords = []string{"chief", "head", "director", "vp"}

type contactsRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	SetLeadScore(ctx context.Context, id uuid.UUID, score float64) error
}

type dealFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Deal, error)
}

// Service exposes the heuristic analytics entry points. Every computation is
// a deterministic function of current entity state; only ComputeLeadScore
// writes anything back.
type Service interface {
	EvaluateLeadScore(ctx context.Context, contactID uuid.UUID) (*LeadScore, error)
	ComputeLeadScore(ctx context.Context, contactID uuid.UUID) (*LeadScore, error)
	EstimateWinProbability(ctx context.Context, dealID uuid.UUID) (*WinProbability, error)
	Forecast(ctx context.Context, input ForecastInput) (*Forecast, error)
	RankLeads(ctx context.Context, input RankLeadsInput) ([]RankedLead, error)
}

type service struct {
	aggregates *Aggregates
	contacts   contactsRepository
	deals      dealFinder
	metrics    *metrics.APIMetrics
	now        func() time.Time
}

// NewService builds the analytics service. The metrics handle may be nil.
func NewService(aggregates *Aggregates, contacts contactsRepository, deals dealFinder, m *metrics.APIMetrics) (Service, error) {
	if aggregates == nil {
		return nil, fmt.Errorf("aggregates required")
	}
	if contacts == nil {
		return nil, fmt.Errorf("contacts repository required")
	}
	if deals == nil {
		return nil, fmt.Errorf("deal finder required")
	}
	return &service{
		aggregates: aggregates,
		contacts:   contacts,
		deals:      deals,
		metrics:    m,
		now:        time.Now,
	}, nil
}

// EvaluateLeadScore scores a contact without persisting anything.
func (s *service) EvaluateLeadScore(ctx context.Context, contactID uuid.UUID) (*LeadScore, error) {
	result, err := s.evaluateLeadScore(ctx, contactID)
	if err != nil {
		s.metrics.IncInsightFailure("lead_score")
		return nil, err
	}
	s.metrics.IncInsight("lead_score")
	return result, nil
}

// ComputeLeadScore scores a contact and writes the score back onto it.
func (s *service) ComputeLeadScore(ctx context.Context, contactID uuid.UUID) (*LeadScore, error) {
	result, err := s.evaluateLeadScore(ctx, contactID)
	if err != nil {
		s.metrics.IncInsightFailure("lead_score")
		return nil, err
	}

	if err := s.contacts.SetLeadScore(ctx, contactID, result.Score); err != nil {
		s.metrics.IncInsightFailure("lead_score")
		return nil, err
	}
	s.metrics.IncInsight("lead_score")
	return result, nil
}

func (s *service) evaluateLeadScore(ctx context.Context, contactID uuid.UUID) (*LeadScore, error) {
	contact, err := s.contacts.FindByID(ctx, contactID)
	if err != nil {
		return nil, err
	}

	activityCount, err := s.aggregates.ActivityCountByContact(ctx, contactID)
	if err != nil {
		return nil, err
	}
	openAmount, err := s.aggregates.SumOpenAmountForContact(ctx, contactID)
	if err != nil {
		return nil, err
	}

	score := 30.0
	if contact.Title != nil && containsSeniorityKeyword(*contact.Title) {
		score += 10
	}
	if hasValue(contact.Phone) && hasValue(contact.Email) {
		score += 15
	}
	score += math.Min(float64(activityCount)*5, 25)

	if amount, _ := openAmount.Float64(); amount > 0 {
		score += math.Min(20, 10*math.Log10(1+amount/1000))
	}

	return &LeadScore{
		ContactID:     contactID,
		Score:         round4(clamp(score, 0, 100)),
		ActivityCount: activityCount,
		OpenAmount:    openAmount,
	}, nil
}

// EstimateWinProbability estimates the chance of a deal closing. Repeated
// calls with unchanged state yield the identical value.
func (s *service) EstimateWinProbability(ctx context.Context, dealID uuid.UUID) (*WinProbability, error) {
	result, err := s.estimateWinProbability(ctx, dealID)
	if err != nil {
		s.metrics.IncInsightFailure("win_probability")
		return nil, err
	}
	s.metrics.IncInsight("win_probability")
	return result, nil
}

func (s *service) estimateWinProbability(ctx context.Context, dealID uuid.UUID) (*WinProbability, error) {
	deal, err := s.deals.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	probability, err := s.aggregates.StageProbability(ctx, deal.StageID)
	if err != nil {
		return nil, err
	}

	median, err := s.aggregates.MedianOpenAmount(ctx)
	if err != nil {
		return nil, err
	}
	if deal.Amount.LessThanOrEqual(median) {
		probability += 0.05
	}

	if deal.ExpectedCloseDate != nil {
		if daysUntil(s.now(), *deal.ExpectedCloseDate) <= closeWindowDays {
			probability += 0.05
		}
	}

	return &WinProbability{
		DealID:      dealID,
		Probability: round4(clamp(probability, winProbabilityFloor, winProbabilityCeiling)),
	}, nil
}

// Forecast aggregates the open pipeline in scope.
func (s *service) Forecast(ctx context.Context, input ForecastInput) (*Forecast, error) {
	result, err := s.forecast(ctx, input)
	if err != nil {
		s.metrics.IncInsightFailure("forecast")
		return nil, err
	}
	s.metrics.IncInsight("forecast")
	return result, nil
}

func (s *service) forecast(ctx context.Context, input ForecastInput) (*Forecast, error) {
	deals, err := s.aggregates.OpenDeals(ctx, input.AccountID, input.StageID)
	if err != nil {
		return nil, err
	}
	stageProbs, err := s.aggregates.StageProbabilities(ctx)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	weighted := decimal.Zero
	probabilitySum := 0.0
	for _, deal := range deals {
		probability := resolveDealProbability(deal, stageProbs)
		total = total.Add(deal.Amount)
		weighted = weighted.Add(deal.Amount.Mul(decimal.NewFromFloat(probability)))
		probabilitySum += probability
	}

	avgProbability := 0.0
	if len(deals) > 0 {
		avgProbability = round4(probabilitySum / float64(len(deals)))
	}

	return &Forecast{
		PipelineTotal:    total.Round(2),
		WeightedPipeline: weighted.Round(2),
		OpenDeals:        len(deals),
		AvgProbability:   avgProbability,
	}, nil
}

// RankLeads produces the bulk triage ranking over open deals in scope.
func (s *service) RankLeads(ctx context.Context, input RankLeadsInput) ([]RankedLead, error) {
	result, err := s.rankLeads(ctx, input)
	if err != nil {
		s.metrics.IncInsightFailure("lead_ranking")
		return nil, err
	}
	s.metrics.IncInsight("lead_ranking")
	return result, nil
}

func (s *service) rankLeads(ctx context.Context, input RankLeadsInput) ([]RankedLead, error) {
	deals, err := s.aggregates.OpenDeals(ctx, input.AccountID, nil)
	if err != nil {
		return nil, err
	}

	maxAmount := MaxAmount(deals)
	ranked := make([]RankedLead, 0, len(deals))
	for _, deal := range deals {
		activityCount, err := s.aggregates.ActivityCountByDeal(ctx, deal.ID)
		if err != nil {
			return nil, err
		}

		activityScore := math.Min(1, float64(activityCount)/10)
		amountScore := math.Min(1, ratio(deal.Amount, maxAmount))
		probabilityScore := 50.0
		if deal.Probability != nil {
			probabilityScore = *deal.Probability
		}
		probabilityScore /= 100

		ranked = append(ranked, RankedLead{
			DealID:         deal.ID,
			DealName:       deal.Name,
			AccountID:      deal.AccountID,
			Amount:         deal.Amount,
			CompositeScore: round4(0.5*activityScore + 0.3*amountScore + 0.2*probabilityScore),
		})
	}

	// Input order is oldest-first, so the stable sort breaks ties by
	// creation order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CompositeScore > ranked[j].CompositeScore
	})

	limit := input.Limit
	if limit <= 0 {
		limit = defaultRankingLimit
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func resolveDealProbability(deal models.Deal, stageProbs map[uuid.UUID]float64) float64 {
	if deal.Probability != nil {
		return *deal.Probability / 100
	}
	if deal.StageID != nil {
		if p, ok := stageProbs[*deal.StageID]; ok {
			return p
		}
	}
	return stageFallbackProbability
}

func containsSeniorityKeyword(title string) bool {
	lowered := strings.ToLower(title)
	for _, keyword := range seniorityKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

func hasValue(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func daysUntil(now, target time.Time) int {
	nowDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	targetDate := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	return int(targetDate.Sub(nowDate).Hours() / 24)
}

func ratio(amount, max decimal.Decimal) float64 {
	value, _ := amount.Div(max).Float64()
	return value
}

func clamp(value, low, high float64) float64 {
	return math.Min(high, math.Max(low, value))
}

func round4(value float64) float64 {
	return math.Round(value*10000) / 10000
}
