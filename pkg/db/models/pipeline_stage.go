package models

import (
	"time"

	"github.com/google/uuid"
)

// PipelineStage is one step of the single global sales pipeline. At most one
// stage is flagged default at any time. Probability is the stage's baseline
// win probability on the [0, 1] scale.
type PipelineStage struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Order       int       `gorm:"column:display_order;not null"`
	IsDefault   bool      `gorm:"column:is_default;not null;default:false"`
	Probability float64   `gorm:"column:probability;not null;default:0.1"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
