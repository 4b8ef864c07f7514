package contacts

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealflowhq/dealflow-backend/internal/repo"
	"github.com/dealflowhq/dealflow-backend/pkg/db/models"
	pkgerrors "github.com/dealflowhq/dealflow-backend/pkg/errors"
)

// Repository provides contact persistence.
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

// FindByID loads the contact.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	return repo.FindByID[models.Contact](ctx, r.base.DB(ctx), id, "contact")
}

// List returns contacts matching the filters, most recent first.
func (r *Repository) List(ctx context.Context, input ListContactsInput) ([]models.Contact, error) {
	page := input.Pagination.Normalize()

	qb := r.base.DB(ctx).Model(&models.Contact{})
	if input.AccountID != nil {
		qb = qb.Where("account_id = ?", *input.AccountID)
	}
	if input.OwnerUserID != nil {
		qb = qb.Where("owner_user_id = ?", *input.OwnerUserID)
	}
	if input.IsActive != nil {
		qb = qb.Where("is_active = ?", *input.IsActive)
	}
	if search := strings.TrimSpace(input.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where(
			"(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(COALESCE(email, '')) LIKE ? OR LOWER(COALESCE(phone, '')) LIKE ?)",
			pattern, pattern, pattern, pattern,
		)
	}
	qb = qb.Order("created_at DESC").Order("id DESC").Limit(page.Limit).Offset(page.Offset)

	return repo.Find[models.Contact](ctx, qb, "contacts")
}

// Create inserts the contact after checking the email is free.
func (r *Repository) Create(ctx context.Context, contact *models.Contact) error {
	if err := r.ensureEmailFree(ctx, contact.Email, uuid.Nil); err != nil {
		return err
	}
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	return repo.Create(ctx, r.base.DB(ctx), contact, "contact")
}

// UpdateFields applies a partial update, re-checking email uniqueness when it
// changes.
func (r *Repository) UpdateFields(ctx context.Context, current *models.Contact, fields map[string]any) error {
	if v, ok := fields["email"]; ok {
		email := v.(string)
		if current.Email == nil || *current.Email != email {
			if err := r.ensureEmailFree(ctx, &email, current.ID); err != nil {
				return err
			}
		}
	}
	return repo.UpdateFields[models.Contact](ctx, r.base.DB(ctx), current.ID, fields, "contact")
}

// SetLeadScore persists a computed lead score.
func (r *Repository) SetLeadScore(ctx context.Context, id uuid.UUID, score float64) error {
	return repo.UpdateFields[models.Contact](ctx, r.base.DB(ctx), id, map[string]any{"lead_score": score}, "contact")
}

// DetachAndDelete clears deal and activity references to the contact, then
// removes it. Must run inside a transaction.
func (r *Repository) DetachAndDelete(ctx context.Context, contactID uuid.UUID) error {
	tx := r.base.DB(ctx)

	if err := tx.Model(&models.Deal{}).
		Where("primary_contact_id = ?", contactID).
		Update("primary_contact_id", nil).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "detach deal primary contacts")
	}
	if err := tx.Model(&models.ActivityLog{}).
		Where("contact_id = ?", contactID).
		Update("contact_id", nil).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "detach contact activities")
	}

	return repo.DeleteByID[models.Contact](ctx, tx, contactID, "contact")
}

func (r *Repository) ensureEmailFree(ctx context.Context, email *string, excludeID uuid.UUID) error {
	if email == nil {
		return nil
	}

	qb := r.base.DB(ctx).Model(&models.Contact{}).Where("email = ?", *email)
	if excludeID != uuid.Nil {
		qb = qb.Where("id <> ?", excludeID)
	}

	var count int64
	if err := qb.Count(&count).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check contact email uniqueness")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "contact with this email already exists")
	}
	return nil
}
