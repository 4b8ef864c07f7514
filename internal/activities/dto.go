package activities

import (
	"time"

	"github.com/google/uuid"

	"github.com/dealflowhq/dealflow-backend/pkg/enums"
	"github.com/dealflowhq/dealflow-backend/pkg/pagination"
)

// CreateActivityInput holds the validated payload to log an activity.
type CreateActivityInput struct {
	DealID            *uuid.UUID
	ContactID         *uuid.UUID
	Type              *enums.ActivityType
	Subject           *string
	Content           *string
	DueDate           *time.Time
	Completed         *bool
	PerformedByUserID *string
}

// UpdateActivityInput holds optional mutation values; nil fields are left
// untouched.
type UpdateActivityInput struct {
	Type              *enums.ActivityType
	Subject           *string
	Content           *string
	DueDate           *time.Time
	Completed         *bool
	PerformedByUserID *string
}

// ListActivitiesInput captures list filters and pagination.
type ListActivitiesInput struct {
	DealID     *uuid.UUID
	ContactID  *uuid.UUID
	Type       *enums.ActivityType
	Completed  *bool
	Pagination pagination.Params
}
