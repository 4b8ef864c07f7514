package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgdb "github.com/dealflowhq/dealflow-backend/pkg/db"
	pkgerrors "github.com/dealflowhq/dealflow-backend/pkg/errors"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// The helpers below are the single parameterized CRUD operation set shared by
// every entity repository. Entity-specific rules (uniqueness, cascades) live
// in the domain repositories that call them.

// FindByID loads one row by primary key. A missing row maps to CodeNotFound.
func FindByID[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, entity string) (*T, error) {
	var row T
	if err := db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s not found", entity))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("load %s", entity))
	}
	return &row, nil
}

// Create inserts the row. Unique-index violations the domain checks missed
// (concurrent writers) surface as CodeConflict.
func Create[T any](ctx context.Context, db *gorm.DB, row *T, entity string) error {
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		if pkgdb.IsUniqueViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, fmt.Sprintf("%s already exists", entity))
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("insert %s", entity))
	}
	return nil
}

// UpdateFields applies a partial update touching only the supplied columns.
// GORM refreshes updated_at alongside. An empty field map is a no-op.
func UpdateFields[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, fields map[string]any, entity string) error {
	if len(fields) == 0 {
		return nil
	}
	var model T
	result := db.WithContext(ctx).Model(&model).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		if pkgdb.IsUniqueViolation(result.Error, "") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, result.Error, fmt.Sprintf("%s already exists", entity))
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, fmt.Sprintf("update %s", entity))
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s not found", entity))
	}
	return nil
}

// DeleteByID removes one row by primary key. Cascade and detach obligations
// are the caller's responsibility and must share the caller's transaction.
func DeleteByID[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, entity string) error {
	var model T
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&model)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, fmt.Sprintf("delete %s", entity))
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s not found", entity))
	}
	return nil
}

// Find runs the prepared query and returns all matching rows.
func Find[T any](ctx context.Context, qb *gorm.DB, entity string) ([]T, error) {
	var rows []T
	if err := qb.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("list %s", entity))
	}
	return rows, nil
}
