package models

import (
	"time"

	"github.com/google/uuid"
)

// Account represents an organization that owns contacts and deals.
// The (name, domain) pair is unique across all accounts.
type Account struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Domain      *string   `gorm:"column:domain"`
	Industry    *string   `gorm:"column:industry"`
	Size        *string   `gorm:"column:size"`
	Description *string   `gorm:"column:description"`
	OwnerUserID *string   `gorm:"column:owner_user_id"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
