package controllers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealflowhq/dealflow-backend/pkg/db/models"
)

type accountResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Domain      *string   `json:"domain"`
	Industry    *string   `json:"industry"`
	Size        *string   `json:"size"`
	Description *string   `json:"description"`
	OwnerUserID *string   `json:"owner_user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toAccountResponse(account *models.Account) accountResponse {
	return accountResponse{
		ID:          account.ID,
		Name:        account.Name,
		Domain:      account.Domain,
		Industry:    account.Industry,
		Size:        account.Size,
		Description: account.Description,
		OwnerUserID: account.OwnerUserID,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	}
}

func toAccountResponses(accounts []models.Account) []accountResponse {
	out := make([]accountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, toAccountResponse(&accounts[i]))
	}
	return out
}

type contactResponse struct {
	ID          uuid.UUID  `json:"id"`
	AccountID   *uuid.UUID `json:"account_id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       *string    `json:"email"`
	Phone       *string    `json:"phone"`
	Title       *string    `json:"title"`
	LeadSource  *string    `json:"lead_source"`
	OwnerUserID *string    `json:"owner_user_id"`
	IsActive    bool       `json:"is_active"`
	LeadScore   *float64   `json:"lead_score"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toContactResponse(contact *models.Contact) contactResponse {
	return contactResponse{
		ID:          contact.ID,
		AccountID:   contact.AccountID,
		FirstName:   contact.FirstName,
		LastName:    contact.LastName,
		Email:       contact.Email,
		Phone:       contact.Phone,
		Title:       contact.Title,
		LeadSource:  contact.LeadSource,
		OwnerUserID: contact.OwnerUserID,
		IsActive:    contact.IsActive,
		LeadScore:   contact.LeadScore,
		CreatedAt:   contact.CreatedAt,
		UpdatedAt:   contact.UpdatedAt,
	}
}

func toContactResponses(contacts []models.Contact) []contactResponse {
	out := make([]contactResponse, 0, len(contacts))
	for i := range contacts {
		out = append(out, toContactResponse(&contacts[i]))
	}
	return out
}

type stageResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Order       int       `json:"order"`
	IsDefault   bool      `json:"is_default"`
	Probability float64   `json:"probability"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toStageResponse(stage *models.PipelineStage) stageResponse {
	return stageResponse{
		ID:          stage.ID,
		Name:        stage.Name,
		Order:       stage.Order,
		IsDefault:   stage.IsDefault,
		Probability: stage.Probability,
		CreatedAt:   stage.CreatedAt,
		UpdatedAt:   stage.UpdatedAt,
	}
}

func toStageResponses(stages []models.PipelineStage) []stageResponse {
	out := make([]stageResponse, 0, len(stages))
	for i := range stages {
		out = append(out, toStageResponse(&stages[i]))
	}
	return out
}

type dealResponse struct {
	ID                uuid.UUID       `json:"id"`
	AccountID         uuid.UUID       `json:"account_id"`
	PrimaryContactID  *uuid.UUID      `json:"primary_contact_id"`
	Name              string          `json:"name"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	ExpectedCloseDate *time.Time      `json:"expected_close_date"`
	Probability       *float64        `json:"probability"`
	Status            string          `json:"status"`
	StageID           *uuid.UUID      `json:"stage_id"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func toDealResponse(deal *models.Deal) dealResponse {
	return dealResponse{
		ID:                deal.ID,
		AccountID:         deal.AccountID,
		PrimaryContactID:  deal.PrimaryContactID,
		Name:              deal.Name,
		Amount:            deal.Amount,
		Currency:          deal.Currency,
		ExpectedCloseDate: deal.ExpectedCloseDate,
		Probability:       deal.Probability,
		Status:            deal.Status.String(),
		StageID:           deal.StageID,
		CreatedAt:         deal.CreatedAt,
		UpdatedAt:         deal.UpdatedAt,
	}
}

func toDealResponses(deals []models.Deal) []dealResponse {
	out := make([]dealResponse, 0, len(deals))
	for i := range deals {
		out = append(out, toDealResponse(&deals[i]))
	}
	return out
}

type activityResponse struct {
	ID                uuid.UUID  `json:"id"`
	DealID            *uuid.UUID `json:"deal_id"`
	ContactID         *uuid.UUID `json:"contact_id"`
	Type              string     `json:"type"`
	Subject           *string    `json:"subject"`
	Content           *string    `json:"content"`
	DueDate           *time.Time `json:"due_date"`
	Completed         bool       `json:"completed"`
	PerformedByUserID *string    `json:"performed_by_user_id"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func toActivityResponse(activity *models.ActivityLog) activityResponse {
	return activityResponse{
		ID:                activity.ID,
		DealID:            activity.DealID,
		ContactID:         activity.ContactID,
		Type:              activity.Type.String(),
		Subject:           activity.Subject,
		Content:           activity.Content,
		DueDate:           activity.DueDate,
		Completed:         activity.Completed,
		PerformedByUserID: activity.PerformedByUserID,
		CreatedAt:         activity.CreatedAt,
		UpdatedAt:         activity.UpdatedAt,
	}
}

func toActivityResponses(activities []models.ActivityLog) []activityResponse {
	out := make([]activityResponse, 0, len(activities))
	for i := range activities {
		out = append(out, toActivityResponse(&activities[i]))
	}
	return out
}
