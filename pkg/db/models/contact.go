package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact is a person optionally linked to an account. Email is globally
// unique when present. LeadScore is written only by the insights engine.
type Contact struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID   *uuid.UUID `gorm:"column:account_id;type:uuid"`
	FirstName   string     `gorm:"column:first_name;not null"`
	LastName    string     `gorm:"column:last_name;not null"`
	Email       *string    `gorm:"column:email"`
	Phone       *string    `gorm:"column:phone"`
	Title       *string    `gorm:"column:title"`
	LeadSource  *string    `gorm:"column:lead_source"`
	OwnerUserID *string    `gorm:"column:owner_user_id"`
	IsActive    bool       `gorm:"column:is_active;not null;default:true"`
	LeadScore   *float64   `gorm:"column:lead_score"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
