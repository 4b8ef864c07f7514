package contacts

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealflowhq/dealflow-backend/pkg/db/models"
	pkgerrors "github.com/dealflowhq/dealflow-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type accountFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
}

// Service exposes contact operations.
type Service interface {
	Create(ctx context.Context, input CreateContactInput) (*models.Contact, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	List(ctx context.Context, input ListContactsInput) ([]models.Contact, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateContactInput) (*models.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     *Repository
	accounts accountFinder
	tx       txRunner
}

// NewService builds a contact service.
func NewService(repo *Repository, accounts accountFinder, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contacts repository required")
	}
	if accounts == nil {
		return nil, fmt.Errorf("account finder required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, accounts: accounts, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateContactInput) (*models.Contact, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" || lastName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact first and last name are required")
	}
	if err := s.ensureAccountExists(ctx, input.AccountID); err != nil {
		return nil, err
	}

	contact := &models.Contact{
		AccountID:   input.AccountID,
		FirstName:   firstName,
		LastName:    lastName,
		Email:       input.Email,
		Phone:       input.Phone,
		Title:       input.Title,
		LeadSource:  input.LeadSource,
		OwnerUserID: input.OwnerUserID,
		IsActive:    true,
	}
	if input.IsActive != nil {
		contact.IsActive = *input.IsActive
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, contact)
	})
	if err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, input ListContactsInput) ([]models.Contact, error) {
	return s.repo.List(ctx, input)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateContactInput) (*models.Contact, error) {
	fields := map[string]any{}
	if input.AccountID != nil {
		if err := s.ensureAccountExists(ctx, input.AccountID); err != nil {
			return nil, err
		}
		fields["account_id"] = *input.AccountID
	}
	if input.FirstName != nil {
		name := strings.TrimSpace(*input.FirstName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact first name cannot be blank")
		}
		fields["first_name"] = name
	}
	if input.LastName != nil {
		name := strings.TrimSpace(*input.LastName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact last name cannot be blank")
		}
		fields["last_name"] = name
	}
	if input.Email != nil {
		fields["email"] = *input.Email
	}
	if input.Phone != nil {
		fields["phone"] = *input.Phone
	}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.LeadSource != nil {
		fields["lead_source"] = *input.LeadSource
	}
	if input.OwnerUserID != nil {
		fields["owner_user_id"] = *input.OwnerUserID
	}
	if input.IsActive != nil {
		fields["is_active"] = *input.IsActive
	}

	var updated *models.Contact
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := repo.UpdateFields(ctx, current, fields); err != nil {
			return err
		}
		updated, err = repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByID(ctx, id); err != nil {
			return err
		}
		return repo.DetachAndDelete(ctx, id)
	})
}

func (s *service) ensureAccountExists(ctx context.Context, accountID *uuid.UUID) error {
	if accountID == nil {
		return nil
	}
	if _, err := s.accounts.FindByID(ctx, *accountID); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "referenced account does not exist")
		}
		return err
	}
	return nil
}
