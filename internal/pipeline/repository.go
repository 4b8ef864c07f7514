package pipeline

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealflowhq/dealflow-backend/internal/repo"
	"github.com/dealflowhq/dealflow-backend/pkg/db/models"
	pkgerrors "github.com/dealflowhq/dealflow-backend/pkg/errors"
)

// Repository provides pipeline stage persistence.
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

// FindByID loads the stage.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PipelineStage, error) {
	return repo.FindByID[models.PipelineStage](ctx, r.base.DB(ctx), id, "pipeline stage")
}

// List returns all stages ordered by their pipeline position.
func (r *Repository) List(ctx context.Context) ([]models.PipelineStage, error) {
	qb := r.base.DB(ctx).Model(&models.PipelineStage{}).
		Order("display_order ASC").Order("created_at ASC")
	return repo.Find[models.PipelineStage](ctx, qb, "pipeline stages")
}

// FindDefault returns the stage flagged as default, or nil when none is set.
func (r *Repository) FindDefault(ctx context.Context) (*models.PipelineStage, error) {
	var stage models.PipelineStage
	err := r.base.DB(ctx).Where("is_default = ?", true).First(&stage).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load default stage")
	}
	return &stage, nil
}

// Create inserts the stage after checking the name is free. When the stage is
// flagged default, every other default flag is cleared first; run inside a
// transaction so the single-default rule holds.
func (r *Repository) Create(ctx context.Context, stage *models.PipelineStage) error {
	if err := r.ensureNameFree(ctx, stage.Name, uuid.Nil); err != nil {
		return err
	}
	if stage.ID == uuid.Nil {
		stage.ID = uuid.New()
	}
	if stage.IsDefault {
		if err := r.clearDefaults(ctx, uuid.Nil); err != nil {
			return err
		}
	}
	return repo.Create(ctx, r.base.DB(ctx), stage, "pipeline stage")
}

// UpdateFields applies a partial update, enforcing name uniqueness and the
// single-default rule.
func (r *Repository) UpdateFields(ctx context.Context, current *models.PipelineStage, fields map[string]any) error {
	if v, ok := fields["name"]; ok {
		name := v.(string)
		if name != current.Name {
			if err := r.ensureNameFree(ctx, name, current.ID); err != nil {
				return err
			}
		}
	}
	if v, ok := fields["is_default"]; ok && v.(bool) {
		if err := r.clearDefaults(ctx, current.ID); err != nil {
			return err
		}
	}
	return repo.UpdateFields[models.PipelineStage](ctx, r.base.DB(ctx), current.ID, fields, "pipeline stage")
}

// DetachAndDelete clears deal references to the stage, then removes it. Must
// run inside a transaction.
func (r *Repository) DetachAndDelete(ctx context.Context, stageID uuid.UUID) error {
	tx := r.base.DB(ctx)

	if err := tx.Model(&models.Deal{}).
		Where("stage_id = ?", stageID).
		Update("stage_id", nil).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "detach stage deals")
	}

	return repo.DeleteByID[models.PipelineStage](ctx, tx, stageID, "pipeline stage")
}

func (r *Repository) clearDefaults(ctx context.Context, excludeID uuid.UUID) error {
	qb := r.base.DB(ctx).Model(&models.PipelineStage{}).Where("is_default = ?", true)
	if excludeID != uuid.Nil {
		qb = qb.Where("id <> ?", excludeID)
	}
	if err := qb.Update("is_default", false).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default stages")
	}
	return nil
}

func (r *Repository) ensureNameFree(ctx context.Context, name string, excludeID uuid.UUID) error {
	qb := r.base.DB(ctx).Model(&models.PipelineStage{}).Where("name = ?", name)
	if excludeID != uuid.Nil {
		qb = qb.Where("id <> ?", excludeID)
	}

	var count int64
	if err := qb.Count(&count).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check stage name uniqueness")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "pipeline stage with this name already exists")
	}
	return nil
}
