package activities

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealflowhq/dealflow-backend/pkg/db/models"
	"github.com/dealflowhq/dealflow-backend/pkg/enums"
	pkgerrors "github.com/dealflowhq/dealflow-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type dealFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Deal, error)
}

type contactFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Contact, error)
}

// Service exposes activity log operations.
type Service interface {
	Create(ctx context.Context, input CreateActivityInput) (*models.ActivityLog, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ActivityLog, error)
	List(ctx context.Context, input ListActivitiesInput) ([]models.ActivityLog, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateActivityInput) (*models.ActivityLog, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     *Repository
	deals    dealFinder
	contacts contactFinder
	tx       txRunner
}

// NewService builds an activity log service.
func NewService(repo *Repository, deals dealFinder, contacts contactFinder, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("activities repository required")
	}
	if deals == nil {
		return nil, fmt.Errorf("deal finder required")
	}
	if contacts == nil {
		return nil, fmt.Errorf("contact finder required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, deals: deals, contacts: contacts, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateActivityInput) (*models.ActivityLog, error) {
	if input.DealID == nil && input.ContactID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "activity must reference a deal or a contact")
	}
	if input.Type != nil && !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid activity type %q", *input.Type))
	}
	if input.DealID != nil {
		if _, err := s.deals.FindByID(ctx, *input.DealID); err != nil {
			return nil, asReferenceError(err, "referenced deal does not exist")
		}
	}
	if input.ContactID != nil {
		if _, err := s.contacts.FindByID(ctx, *input.ContactID); err != nil {
			return nil, asReferenceError(err, "referenced contact does not exist")
		}
	}

	activity := &models.ActivityLog{
		DealID:            input.DealID,
		ContactID:         input.ContactID,
		Type:              enums.ActivityTypeNote,
		Subject:           input.Subject,
		Content:           input.Content,
		DueDate:           input.DueDate,
		PerformedByUserID: input.PerformedByUserID,
	}
	if input.Type != nil {
		activity.Type = *input.Type
	}
	if input.Completed != nil {
		activity.Completed = *input.Completed
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, activity)
	})
	if err != nil {
		return nil, err
	}
	return activity, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.ActivityLog, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, input ListActivitiesInput) ([]models.ActivityLog, error) {
	return s.repo.List(ctx, input)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateActivityInput) (*models.ActivityLog, error) {
	if input.Type != nil && !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid activity type %q", *input.Type))
	}

	fields := map[string]any{}
	if input.Type != nil {
		fields["type"] = *input.Type
	}
	if input.Subject != nil {
		fields["subject"] = *input.Subject
	}
	if input.Content != nil {
		fields["content"] = *input.Content
	}
	if input.DueDate != nil {
		fields["due_date"] = *input.DueDate
	}
	if input.Completed != nil {
		fields["completed"] = *input.Completed
	}
	if input.PerformedByUserID != nil {
		fields["performed_by_user_id"] = *input.PerformedByUserID
	}

	var updated *models.ActivityLog
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByID(ctx, id); err != nil {
			return err
		}
		if err := repo.UpdateFields(ctx, id, fields); err != nil {
			return err
		}
		var err error
		updated, err = repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteByID(ctx, id)
}

func asReferenceError(err error, msg string) error {
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return pkgerrors.New(pkgerrors.CodeValidation, msg)
	}
	return err
}
