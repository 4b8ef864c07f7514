package accounts

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

// Service exposes account operations.
type Service interface {
	Create(ctx context.Context, input CreateAccountInput) (*models.Account, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Account, error)
	List(ctx context.Context, input ListAccountsInput) ([]models.Account, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateAccountInput) (*models.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService builds an account service.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateAccountInput) (*models.Account, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account name is required")
	}

	account := &models.Account{
		Name:        name,
		Domain:      input.Domain,
		Industry:    input.Industry,
		Size:        input.Size,
		Description: input.Description,
		OwnerUserID: input.OwnerUserID,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, input ListAccountsInput) ([]models.Account, error) {
	return s.repo.List(ctx, input)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateAccountInput) (*models.Account, error) {
	fields := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "account name cannot be blank")
		}
		fields["name"] = name
	}
	if input.Domain != nil {
		fields["domain"] = *input.Domain
	}
	if input.Industry != nil {
		fields["industry"] = *input.Industry
	}
	if input.Size != nil {
		fields["size"] = *input.Size
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.OwnerUserID != nil {
		fields["owner_user_id"] = *input.OwnerUserID
	}

	var updated *models.Account
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
		return repo.CascadeDelete(ctx, id)
	})
}
