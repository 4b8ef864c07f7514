package activities

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealflowhq/dealflow-backend/internal/repo"
	"github.com/dealflowhq/dealflow-backend/pkg/db/models"
)

// Repository provides activity log persistence.
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

// FindByID loads the activity log entry.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ActivityLog, error) {
	return repo.FindByID[models.ActivityLog](ctx, r.base.DB(ctx), id, "activity")
}

// List returns activity entries matching the filters, most recent first.
func (r *Repository) List(ctx context.Context, input ListActivitiesInput) ([]models.ActivityLog, error) {
	page := input.Pagination.Normalize()

	qb := r.base.DB(ctx).Model(&models.ActivityLog{})
	if input.DealID != nil {
		qb = qb.Where("deal_id = ?", *input.DealID)
	}
	if input.ContactID != nil {
		qb = qb.Where("contact_id = ?", *input.ContactID)
	}
	if input.Type != nil {
		qb = qb.Where("type = ?", *input.Type)
	}
	if input.Completed != nil {
		qb = qb.Where("completed = ?", *input.Completed)
	}
	qb = qb.Order("created_at DESC").Order("id DESC").Limit(page.Limit).Offset(page.Offset)

	return repo.Find[models.ActivityLog](ctx, qb, "activities")
}

// Create inserts the activity log entry.
func (r *Repository) Create(ctx context.Context, activity *models.ActivityLog) error {
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	return repo.Create(ctx, r.base.DB(ctx), activity, "activity")
}

// UpdateFields applies a partial update.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return repo.UpdateFields[models.ActivityLog](ctx, r.base.DB(ctx), id, fields, "activity")
}

// DeleteByID removes the activity log entry.
func (r *Repository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return repo.DeleteByID[models.ActivityLog](ctx, r.base.DB(ctx), id, "activity")
}
