package insights

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dealflowhq/dealflow-backend/internal/repo"
	"github.com/dealflowhq/dealflow-backend/pkg/db/models"
	"github.com/dealflowhq/dealflow-backend/pkg/enums"
	pkgerrors "github.com/dealflowhq/dealflow-backend/pkg/errors"
)

// stageFallbackProbability is used whenever a deal has no stage, the stage is
// gone, or the stage carries no usable probability.
const stageFallbackProbability = 0.2

// Aggregates provides the read-side projections the scoring heuristics are
// built on. All queries are read-only.
type Aggregates struct {
	base repo.Base
}

// NewAggregates builds the projection reader on the provided GORM DB.
func NewAggregates(db *gorm.DB) *Aggregates {
	return &Aggregates{base: repo.NewBase(db)}
}

// ActivityCountByContact counts activity log rows referencing the contact.
func (a *Aggregates) ActivityCountByContact(ctx context.Context, contactID uuid.UUID) (int64, error) {
	return a.countActivities(ctx, "contact_id", contactID)
}

// ActivityCountByDeal counts activity log rows referencing the deal.
func (a *Aggregates) ActivityCountByDeal(ctx context.Context, dealID uuid.UUID) (int64, error) {
	return a.countActivities(ctx, "deal_id", dealID)
}

func (a *Aggregates) countActivities(ctx context.Context, column string, id uuid.UUID) (int64, error) {
	var count int64
	err := a.base.DB(ctx).Model(&models.ActivityLog{}).
		Where(column+" = ?", id).
		Count(&count).Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count activities")
	}
	return count, nil
}

// StageProbability resolves a stage's configured probability, falling back to
// the global default when the stage is absent or carries no positive value.
func (a *Aggregates) StageProbability(ctx context.Context, stageID *uuid.UUID) (float64, error) {
	if stageID == nil {
		return stageFallbackProbability, nil
	}

	var stage models.PipelineStage
	err := a.base.DB(ctx).First(&stage, "id = ?", *stageID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return stageFallbackProbability, nil
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stage probability")
	}
	if stage.Probability <= 0 {
		return stageFallbackProbability, nil
	}
	return stage.Probability, nil
}

// StageProbabilities loads every stage's resolved probability in one pass.
func (a *Aggregates) StageProbabilities(ctx context.Context) (map[uuid.UUID]float64, error) {
	var stages []models.PipelineStage
	if err := a.base.DB(ctx).Find(&stages).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stage probabilities")
	}

	probs := make(map[uuid.UUID]float64, len(stages))
	for _, stage := range stages {
		p := stage.Probability
		if p <= 0 {
			p = stageFallbackProbability
		}
		probs[stage.ID] = p
	}
	return probs, nil
}

// SumOpenAmountForContact totals open deal amounts where the contact is the
// primary contact.
func (a *Aggregates) SumOpenAmountForContact(ctx context.Context, contactID uuid.UUID) (decimal.Decimal, error) {
	deals, err := a.openDealsWhere(ctx, "primary_contact_id = ?", contactID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, deal := range deals {
		total = total.Add(deal.Amount)
	}
	return total, nil
}

// MedianOpenAmount computes the median amount across all open deals. An empty
// scope yields 0.
func (a *Aggregates) MedianOpenAmount(ctx context.Context) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := a.base.DB(ctx).Model(&models.Deal{}).
		Where("status = ?", enums.DealStatusOpen).
		Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load open amounts")
	}
	if len(amounts) == 0 {
		return decimal.Zero, nil
	}

	sort.Slice(amounts, func(i, j int) bool { return amounts[i].LessThan(amounts[j]) })
	mid := len(amounts) / 2
	if len(amounts)%2 == 1 {
		return amounts[mid], nil
	}
	return amounts[mid-1].Add(amounts[mid]).Div(decimal.NewFromInt(2)), nil
}

// MaxAmount returns the largest amount in the deal set, or 1 when the set is
// empty or every amount is zero, so normalization never divides by zero.
func MaxAmount(deals []models.Deal) decimal.Decimal {
	max := decimal.Zero
	for _, deal := range deals {
		if deal.Amount.GreaterThan(max) {
			max = deal.Amount
		}
	}
	if max.IsZero() {
		return decimal.NewFromInt(1)
	}
	return max
}

// OpenDeals fetches open deals in scope, oldest first so downstream stable
// sorts break ties by creation order.
func (a *Aggregates) OpenDeals(ctx context.Context, accountID, stageID *uuid.UUID) ([]models.Deal, error) {
	qb := a.base.DB(ctx).Model(&models.Deal{}).
		Where("status = ?", enums.DealStatusOpen)
	if accountID != nil {
		qb = qb.Where("account_id = ?", *accountID)
	}
	if stageID != nil {
		qb = qb.Where("stage_id = ?", *stageID)
	}
	qb = qb.Order("created_at ASC").Order("id ASC")

	return repo.Find[models.Deal](ctx, qb, "open deals")
}

func (a *Aggregates) openDealsWhere(ctx context.Context, cond string, args ...any) ([]models.Deal, error) {
	qb := a.base.DB(ctx).Model(&models.Deal{}).
		Where("status = ?", enums.DealStatusOpen).
		Where(cond, args...)
	return repo.Find[models.Deal](ctx, qb, "open deals")
}
