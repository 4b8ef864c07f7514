package accounts

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealflowhq/dealflow-backend/internal/repo"
	"github.com/dealflowhq/dealflow-backend/pkg/db/models"
	pkgerrors "github.com/dealflowhq/dealflow-backend/pkg/errors"
)

// Repository provides account persistence.
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

// FindByID loads the account.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return repo.FindByID[models.Account](ctx, r.base.DB(ctx), id, "account")
}

// List returns accounts matching the filters, most recent first.
func (r *Repository) List(ctx context.Context, input ListAccountsInput) ([]models.Account, error) {
	page := input.Pagination.Normalize()

	qb := r.base.DB(ctx).Model(&models.Account{})
	if search := strings.TrimSpace(input.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where(
			"(LOWER(name) LIKE ? OR LOWER(COALESCE(domain, '')) LIKE ? OR LOWER(COALESCE(industry, '')) LIKE ?)",
			pattern, pattern, pattern,
		)
	}
	if input.OwnerUserID != nil {
		qb = qb.Where("owner_user_id = ?", *input.OwnerUserID)
	}
	qb = qb.Order("created_at DESC").Order("id DESC").Limit(page.Limit).Offset(page.Offset)

	return repo.Find[models.Account](ctx, qb, "accounts")
}

// Create inserts the account after checking the (name, domain) pair is free.
// Run inside the caller's transaction so check and insert commit together.
func (r *Repository) Create(ctx context.Context, account *models.Account) error {
	if err := r.ensureNameDomainFree(ctx, account.Name, account.Domain, uuid.Nil); err != nil {
		return err
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	return repo.Create(ctx, r.base.DB(ctx), account, "account")
}

// UpdateFields applies a partial update, re-checking uniqueness when the name
// or domain changes.
func (r *Repository) UpdateFields(ctx context.Context, current *models.Account, fields map[string]any) error {
	name := current.Name
	domain := current.Domain
	if v, ok := fields["name"]; ok {
		name = v.(string)
	}
	if v, ok := fields["domain"]; ok {
		d := v.(string)
		domain = &d
	}
	if name != current.Name || !equalOptional(domain, current.Domain) {
		if err := r.ensureNameDomainFree(ctx, name, domain, current.ID); err != nil {
			return err
		}
	}
	return repo.UpdateFields[models.Account](ctx, r.base.DB(ctx), current.ID, fields, "account")
}

// CascadeDelete removes the account with its contacts, deals, and deal-owned
// activity logs, detaching references held by surviving rows. Must run inside
// a transaction.
func (r *Repository) CascadeDelete(ctx context.Context, accountID uuid.UUID) error {
	tx := r.base.DB(ctx)

	var dealIDs []uuid.UUID
	if err := tx.Model(&models.Deal{}).Where("account_id = ?", accountID).Pluck("id", &dealIDs).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "collect account deals")
	}
	var contactIDs []uuid.UUID
	if err := tx.Model(&models.Contact{}).Where("account_id = ?", accountID).Pluck("id", &contactIDs).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "collect account contacts")
	}

	if len(dealIDs) > 0 {
		if err := tx.Where("deal_id IN ?", dealIDs).Delete(&models.ActivityLog{}).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cascade delete deal activities")
		}
	}
	if len(contactIDs) > 0 {
		if err := tx.Model(&models.ActivityLog{}).
			Where("contact_id IN ?", contactIDs).
			Update("contact_id", nil).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "detach contact activities")
		}
		// Deals under other accounts may still point at these contacts.
		if err := tx.Model(&models.Deal{}).
			Where("primary_contact_id IN ?", contactIDs).
			Update("primary_contact_id", nil).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "detach deal primary contacts")
		}
	}

	if err := tx.Where("account_id = ?", accountID).Delete(&models.Deal{}).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cascade delete deals")
	}
	if err := tx.Where("account_id = ?", accountID).Delete(&models.Contact{}).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cascade delete contacts")
	}

	return repo.DeleteByID[models.Account](ctx, tx, accountID, "account")
}

func (r *Repository) ensureNameDomainFree(ctx context.Context, name string, domain *string, excludeID uuid.UUID) error {
	qb := r.base.DB(ctx).Model(&models.Account{}).Where("name = ?", name)
	if domain == nil {
		qb = qb.Where("domain IS NULL")
	} else {
		qb = qb.Where("domain = ?", *domain)
	}
	if excludeID != uuid.Nil {
		qb = qb.Where("id <> ?", excludeID)
	}

	var count int64
	if err := qb.Count(&count).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check account uniqueness")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "account with this name and domain already exists")
	}
	return nil
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
