package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealflowhq/dealflow-backend/pkg/enums"
)

// Deal is a sales opportunity. The account owns the deal (cascade delete);
// the primary contact and the stage are associations (detach on delete).
// Probability is the deal's own estimate on the 0-100 scale, independent of
// the stage baseline.
type Deal struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID         uuid.UUID        `gorm:"column:account_id;type:uuid;not null"`
	PrimaryContactID  *uuid.UUID       `gorm:"column:primary_contact_id;type:uuid"`
	Name              string           `gorm:"column:name;not null"`
	Amount            decimal.Decimal  `gorm:"column:amount;type:numeric(14,2);not null"`
	Currency          string           `gorm:"column:currency;not null;default:USD"`
	ExpectedCloseDate *time.Time       `gorm:"column:expected_close_date;type:date"`
	Probability       *float64         `gorm:"column:probability"`
	Status            enums.DealStatus `gorm:"column:status;not null;default:open"`
	StageID           *uuid.UUID       `gorm:"column:stage_id;type:uuid"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
