package activities

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dealflowhq/dealflow-backend/internal/contacts"
	"github.com/dealflowhq/dealflow-backend/internal/deals"
	"github.com/dealflowhq/dealflow-backend/pkg/db"
	"github.com/dealflowhq/dealflow-backend/pkg/db/models"
	"github.com/dealflowhq/dealflow-backend/pkg/enums"
	pkgerrors "github.com/dealflowhq/dealflow-backend/pkg/errors"
)

func setupActivitiesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE IF NOT EXISTS contacts (
  id TEXT PRIMARY KEY,
  account_id TEXT,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  email TEXT,
  phone TEXT,
  title TEXT,
  lead_source TEXT,
  owner_user_id TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  lead_score REAL,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS deals (
  id TEXT PRIMARY KEY,
  account_id TEXT NOT NULL,
  primary_contact_id TEXT,
  name TEXT NOT NULL,
  amount NUMERIC NOT NULL DEFAULT 0,
  currency TEXT NOT NULL DEFAULT 'USD',
  expected_close_date DATETIME,
  probability REAL,
  status TEXT NOT NULL DEFAULT 'open',
  stage_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS activity_logs (
  id TEXT PRIMARY KEY,
  deal_id TEXT,
  contact_id TEXT,
  type TEXT NOT NULL DEFAULT 'note',
  subject TEXT,
  content TEXT,
  due_date DATETIME,
  completed INTEGER NOT NULL DEFAULT 0,
  performed_by_user_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, stmt := range ddl {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	for _, table := range []string{"activity_logs", "deals", "contacts"} {
		require.NoError(t, conn.Exec("DELETE FROM "+table).Error)
	}
	return conn
}

func newActivitiesService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(
		NewRepository(conn),
		deals.NewRepository(conn),
		contacts.NewRepository(conn),
		db.FromConn(conn),
	)
	require.NoError(t, err)
	return svc
}

func seedDeal(t *testing.T, conn *gorm.DB, name string) *models.Deal {
	t.Helper()
	deal := &models.Deal{ID: uuid.New(), AccountID: uuid.New(), Name: name}
	require.NoError(t, conn.Create(deal).Error)
	return deal
}

func seedContact(t *testing.T, conn *gorm.DB, first, last string) *models.Contact {
	t.Helper()
	contact := &models.Contact{ID: uuid.New(), FirstName: first, LastName: last}
	require.NoError(t, conn.Create(contact).Error)
	return contact
}

func typePtr(v enums.ActivityType) *enums.ActivityType { return &v }

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func TestActivityCreateAndGet(t *testing.T) {
	conn := setupActivitiesTestDB(t)
	svc := newActivitiesService(t, conn)
	ctx := context.Background()
	deal := seedDeal(t, conn, "Activity deal")

	created, err := svc.Create(ctx, CreateActivityInput{
		DealID:  &deal.ID,
		Type:    typePtr(enums.ActivityTypeCall),
		Subject: strPtr("Intro call"),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.ActivityTypeCall, created.Type)
	assert.False(t, created.Completed)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Subject)
	assert.Equal(t, "Intro call", *got.Subject)
}

func TestActivityCreateDefaultsToNote(t *testing.T) {
	conn := setupActivitiesTestDB(t)
	svc := newActivitiesService(t, conn)
	contact := seedContact(t, conn, "Note", "Taker")

	created, err := svc.Create(context.Background(), CreateActivityInput{ContactID: &contact.ID})
	require.NoError(t, err)
	assert.Equal(t, enums.ActivityTypeNote, created.Type)
}

func TestActivityCreateValidation(t *testing.T) {
	conn := setupActivitiesTestDB(t)
	svc := newActivitiesService(t, conn)
	ctx := context.Background()
	deal := seedDeal(t, conn, "Ref deal")

	_, err := svc.Create(ctx, CreateActivityInput{})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	bad := enums.ActivityType("carrier_pigeon")
	_, err = svc.Create(ctx, CreateActivityInput{DealID: &deal.ID, Type: &bad})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	missing := uuid.New()
	_, err = svc.Create(ctx, CreateActivityInput{DealID: &missing})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(ctx, CreateActivityInput{ContactID: &missing})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestActivityUpdatePartial(t *testing.T) {
	conn := setupActivitiesTestDB(t)
	svc := newActivitiesService(t, conn)
	ctx := context.Background()
	deal := seedDeal(t, conn, "Task deal")

	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	created, err := svc.Create(ctx, CreateActivityInput{
		DealID:  &deal.ID,
		Type:    typePtr(enums.ActivityTypeTask),
		Subject: strPtr("Send proposal"),
		DueDate: &due,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateActivityInput{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, enums.ActivityTypeTask, updated.Type)
	require.NotNil(t, updated.Subject)
	assert.Equal(t, "Send proposal", *updated.Subject)
}

func TestActivityDelete(t *testing.T) {
	conn := setupActivitiesTestDB(t)
	svc := newActivitiesService(t, conn)
	ctx := context.Background()
	deal := seedDeal(t, conn, "Delete deal")

	created, err := svc.Create(ctx, CreateActivityInput{DealID: &deal.ID})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	err = svc.Delete(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestActivityListFilters(t *testing.T) {
	conn := setupActivitiesTestDB(t)
	svc := newActivitiesService(t, conn)
	ctx := context.Background()
	deal := seedDeal(t, conn, "Filter deal")
	contact := seedContact(t, conn, "Filter", "Contact")

	_, err := svc.Create(ctx, CreateActivityInput{DealID: &deal.ID, Type: typePtr(enums.ActivityTypeEmail)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateActivityInput{ContactID: &contact.ID, Type: typePtr(enums.ActivityTypeMeeting), Completed: boolPtr(true)})
	require.NoError(t, err)

	found, err := svc.List(ctx, ListActivitiesInput{DealID: &deal.ID})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, enums.ActivityTypeEmail, found[0].Type)

	found, err = svc.List(ctx, ListActivitiesInput{ContactID: &contact.ID})
	require.NoError(t, err)
	require.Len(t, found, 1)

	found, err = svc.List(ctx, ListActivitiesInput{Completed: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, enums.ActivityTypeMeeting, found[0].Type)

	found, err = svc.List(ctx, ListActivitiesInput{Type: typePtr(enums.ActivityTypeEmail)})
	require.NoError(t, err)
	require.Len(t, found, 1)
}
