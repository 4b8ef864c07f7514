package pipeline

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

// Service exposes pipeline stage operations.
type Service interface {
	Create(ctx context.Context, input CreateStageInput) (*models.PipelineStage, error)
	Get(ctx context.Context, id uuid.UUID) (*models.PipelineStage, error)
	List(ctx context.Context) ([]models.PipelineStage, error)
	GetDefault(ctx context.Context) (*models.PipelineStage, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateStageInput) (*models.PipelineStage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService builds a pipeline stage service.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pipeline repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateStageInput) (*models.PipelineStage, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stage name is required")
	}
	if err := validateProbability(input.Probability); err != nil {
		return nil, err
	}

	stage := &models.PipelineStage{
		Name:        name,
		Order:       input.Order,
		Probability: 0.1,
	}
	if input.Probability != nil {
		stage.Probability = *input.Probability
	}
	if input.IsDefault != nil {
		stage.IsDefault = *input.IsDefault
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, stage)
	})
	if err != nil {
		return nil, err
	}
	return stage, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.PipelineStage, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]models.PipelineStage, error) {
	return s.repo.List(ctx)
}

func (s *service) GetDefault(ctx context.Context) (*models.PipelineStage, error) {
	stage, err := s.repo.FindDefault(ctx)
	if err != nil {
		return nil, err
	}
	if stage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no default pipeline stage configured")
	}
	return stage, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateStageInput) (*models.PipelineStage, error) {
	if err := validateProbability(input.Probability); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stage name cannot be blank")
		}
		fields["name"] = name
	}
	if input.Order != nil {
		fields["display_order"] = *input.Order
	}
	if input.IsDefault != nil {
		fields["is_default"] = *input.IsDefault
	}
	if input.Probability != nil {
		fields["probability"] = *input.Probability
	}

	var updated *models.PipelineStage
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

func validateProbability(p *float64) error {
	if p == nil {
		return nil
	}
	if *p < 0 || *p > 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stage probability must be between 0 and 1")
	}
	return nil
}
