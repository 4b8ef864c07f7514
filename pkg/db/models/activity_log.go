package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dealflowhq/dealflow-backend/pkg/enums"
)

// ActivityLog records an interaction tied to a deal and/or a contact.
// Deal-tied activity dies with the deal; contact-tied activity survives the
// contact and is merely detached.
type ActivityLog struct {
	ID                uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DealID            *uuid.UUID         `gorm:"column:deal_id;type:uuid"`
	ContactID         *uuid.UUID         `gorm:"column:contact_id;type:uuid"`
	Type              enums.ActivityType `gorm:"column:type;not null;default:note"`
	Subject           *string            `gorm:"column:subject"`
	Content           *string            `gorm:"column:content"`
	DueDate           *time.Time         `gorm:"column:due_date;type:date"`
	Completed         bool               `gorm:"column:completed;not null;default:false"`
	PerformedByUserID *string            `gorm:"column:performed_by_user_id"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
