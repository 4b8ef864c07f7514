package deals

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealflowhq/dealflow-backend/pkg/db/models"
	"github.com/dealflowhq/dealflow-backend/pkg/enums"
	pkgerrors "github.com/dealflowhq/dealflow-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type accountFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
}

type contactFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Contact, error)
}

type stageFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.PipelineStage, error)
	FindDefault(ctx context.Context) (*models.PipelineStage, error)
}

// Service exposes deal operations.
type Service interface {
	Create(ctx context.Context, input CreateDealInput) (*models.Deal, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Deal, error)
	List(ctx context.Context, input ListDealsInput) ([]models.Deal, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateDealInput) (*models.Deal, error)
	MoveToStage(ctx context.Context, dealID, stageID uuid.UUID) (*models.Deal, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     *Repository
	accounts accountFinder
	contacts contactFinder
	stages   stageFinder
	tx       txRunner
}

// NewService builds a deal service.
func NewService(repo *Repository, accounts accountFinder, contacts contactFinder, stages stageFinder, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("deals repository required")
	}
	if accounts == nil {
		return nil, fmt.Errorf("account finder required")
	}
	if contacts == nil {
		return nil, fmt.Errorf("contact finder required")
	}
	if stages == nil {
		return nil, fmt.Errorf("stage finder required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, accounts: accounts, contacts: contacts, stages: stages, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateDealInput) (*models.Deal, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deal name is required")
	}
	if input.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deal amount cannot be negative")
	}
	if err := validateDealProbability(input.Probability); err != nil {
		return nil, err
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid deal status %q", *input.Status))
	}

	if _, err := s.accounts.FindByID(ctx, input.AccountID); err != nil {
		return nil, asReferenceError(err, "referenced account does not exist")
	}
	if input.PrimaryContactID != nil {
		if _, err := s.contacts.FindByID(ctx, *input.PrimaryContactID); err != nil {
			return nil, asReferenceError(err, "referenced contact does not exist")
		}
	}

	stageID := input.StageID
	if stageID != nil {
		if _, err := s.stages.FindByID(ctx, *stageID); err != nil {
			return nil, asReferenceError(err, "referenced pipeline stage does not exist")
		}
	} else {
		def, err := s.stages.FindDefault(ctx)
		if err != nil {
			return nil, err
		}
		if def != nil {
			stageID = &def.ID
		}
	}

	deal := &models.Deal{
		AccountID:         input.AccountID,
		PrimaryContactID:  input.PrimaryContactID,
		Name:              name,
		Amount:            input.Amount,
		Currency:          "USD",
		ExpectedCloseDate: input.ExpectedCloseDate,
		Probability:       input.Probability,
		Status:            enums.DealStatusOpen,
		StageID:           stageID,
	}
	if input.Currency != nil && strings.TrimSpace(*input.Currency) != "" {
		deal.Currency = strings.ToUpper(strings.TrimSpace(*input.Currency))
	}
	if input.Status != nil {
		deal.Status = *input.Status
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, deal)
	})
	if err != nil {
		return nil, err
	}
	return deal, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, input ListDealsInput) ([]models.Deal, error) {
	return s.repo.List(ctx, input)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateDealInput) (*models.Deal, error) {
	if err := validateDealProbability(input.Probability); err != nil {
		return nil, err
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid deal status %q", *input.Status))
	}
	if input.Amount != nil && input.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deal amount cannot be negative")
	}

	fields := map[string]any{}
	if input.PrimaryContactID != nil {
		if _, err := s.contacts.FindByID(ctx, *input.PrimaryContactID); err != nil {
			return nil, asReferenceError(err, "referenced contact does not exist")
		}
		fields["primary_contact_id"] = *input.PrimaryContactID
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "deal name cannot be blank")
		}
		fields["name"] = name
	}
	if input.Amount != nil {
		fields["amount"] = *input.Amount
	}
	if input.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*input.Currency))
		if currency == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "deal currency cannot be blank")
		}
		fields["currency"] = currency
	}
	if input.ExpectedCloseDate != nil {
		fields["expected_close_date"] = *input.ExpectedCloseDate
	}
	if input.Probability != nil {
		fields["probability"] = *input.Probability
	}
	if input.Status != nil {
		fields["status"] = *input.Status
	}
	if input.StageID != nil {
		if _, err := s.stages.FindByID(ctx, *input.StageID); err != nil {
			return nil, asReferenceError(err, "referenced pipeline stage does not exist")
		}
		fields["stage_id"] = *input.StageID
	}

	var updated *models.Deal
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

// MoveToStage relocates an open deal to an existing pipeline stage.
func (s *service) MoveToStage(ctx context.Context, dealID, stageID uuid.UUID) (*models.Deal, error) {
	if _, err := s.stages.FindByID(ctx, stageID); err != nil {
		return nil, err
	}

	var updated *models.Deal
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByID(ctx, dealID); err != nil {
			return err
		}
		if err := repo.UpdateFields(ctx, dealID, map[string]any{"stage_id": stageID}); err != nil {
			return err
		}
		var err error
		updated, err = repo.FindByID(ctx, dealID)
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

func validateDealProbability(p *float64) error {
	if p == nil {
		return nil
	}
	if *p < 0 || *p > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "deal probability must be between 0 and 100")
	}
	return nil
}

func asReferenceError(err error, msg string) error {
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return pkgerrors.New(pkgerrors.CodeValidation, msg)
	}
	return err
}
