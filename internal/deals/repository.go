package deals

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealflowhq/dealflow-backend/internal/repo"
	"github.com/dealflowhq/dealflow-backend/pkg/db/models"
	pkgerrors "github.com/dealflowhq/dealflow-backend/pkg/errors"
)

// Repository provides deal persistence.
type Repository struct {
	base repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// FindByID loads the deal.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	return repo.FindByID[models.Deal](ctx, r.base.DB(ctx), id, "deal")
}

// List returns deals matching the filters, most recent first.
func (r *Repository) List(ctx context.Context, input ListDealsInput) ([]models.Deal, error) {
	page := input.Pagination.Normalize()

	qb := r.base.DB(ctx).Model(&models.Deal{})
	if input.AccountID != nil {
		qb = qb.Where("account_id = ?", *input.AccountID)
	}
	if input.StageID != nil {
		qb = qb.Where("stage_id = ?", *input.StageID)
	}
	if input.Status != nil {
		qb = qb.Where("status = ?", *input.Status)
	}
	if search := strings.TrimSpace(input.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("LOWER(name) LIKE ?", pattern)
	}
	qb = qb.Order("created_at DESC").Order("id DESC").Limit(page.Limit).Offset(page.Offset)

	return repo.Find[models.Deal](ctx, qb, "deals")
}

// Create inserts the deal.
func (r *Repository) Create(ctx context.Context, deal *models.Deal) error {
	if deal.ID == uuid.Nil {
		deal.ID = uuid.New()
	}
	return repo.Create(ctx, r.base.DB(ctx), deal, "deal")
}

// UpdateFields applies a partial update.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return repo.UpdateFields[models.Deal](ctx, r.base.DB(ctx), id, fields, "deal")
}

// CascadeDelete removes the deal together with its activity log. Must run
// inside a transaction.
func (r *Repository) CascadeDelete(ctx context.Context, dealID uuid.UUID) error {
	tx := r.base.DB(ctx)

	if err := tx.Where("deal_id = ?", dealID).Delete(&models.ActivityLog{}).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cascade delete deal activities")
	}

	return repo.DeleteByID[models.Deal](ctx, tx, dealID, "deal")
}
