// internal/store/applications_test.go
package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"office-portal/internal/common/errors"
	"office-portal/internal/models"
	"office-portal/internal/workflow"
)

func appColumns() []string {
	return []string{"id", "application_type", "applicant_name", "title", "details",
		"submitted_at", "status", "processed_by", "processed_at"}
}

func TestApplicationStore_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO applications`).
		WithArgs(
			sqlmock.AnyArg(), // uuid
			"facility_reservation",
			"Yamada",
			"Meeting room B",
			sqlmock.AnyArg(), // details JSON
			sqlmock.AnyArg(), // submitted_at
			"unprocessed",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	s := NewApplicationStore(db)
	app, err := s.Insert(context.Background(), models.Application{
		Type:          models.TypeFacilityReservation,
		ApplicantName: "Yamada",
		Title:         "Meeting room B",
		Details:       map[string]string{"date": "2025-11-01", "room": "B"},
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, app.ID)
	assert.Equal(t, models.StatusUnprocessed, app.Status)

	_, err = time.Parse(time.RFC3339, app.SubmittedAt)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationStore_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM applications`).
		WithArgs("missing-id").
		WillReturnRows(sqlmock.NewRows(appColumns()))

	s := NewApplicationStore(db)
	_, err = s.GetByID(context.Background(), "missing-id")

	assert.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationStore_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	submitted := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .+ FROM applications`).
		WithArgs("app-1").
		WillReturnRows(sqlmock.NewRows(appColumns()).
			AddRow("app-1", "customer_registration", "Yamada", "New customer: Acme",
				[]byte(`{"customerName":"Acme"}`), submitted, "processing", "Suzuki", nil))

	s := NewApplicationStore(db)
	app, err := s.GetByID(context.Background(), "app-1")

	assert.NoError(t, err)
	assert.Equal(t, models.TypeCustomerRegistration, app.Type)
	assert.Equal(t, models.StatusProcessing, app.Status)
	assert.Equal(t, "Suzuki", app.ProcessedBy)
	assert.Empty(t, app.ProcessedAt)
	assert.Equal(t, "Acme", app.Details["customerName"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationStore_UpdateProcessing(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE applications`).
		WithArgs("app-1", "processed", "Suzuki", "2025-10-15T09:30:00Z").
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewApplicationStore(db)
	err = s.UpdateProcessing(context.Background(), "app-1", workflow.Result{
		Status:      models.StatusProcessed,
		ProcessedBy: "Suzuki",
		ProcessedAt: "2025-10-15T09:30:00Z",
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationStore_UpdateProcessing_ClearsNulls(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE applications`).
		WithArgs("app-1", "unprocessed", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewApplicationStore(db)
	err = s.UpdateProcessing(context.Background(), "app-1", workflow.Result{
		Status: models.StatusUnprocessed,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationStore_UpdateProcessing_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE applications`).
		WithArgs("missing-id", "processing", "Suzuki", nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewApplicationStore(db)
	err = s.UpdateProcessing(context.Background(), "missing-id", workflow.Result{
		Status:      models.StatusProcessing,
		ProcessedBy: "Suzuki",
	})

	assert.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationStore_CountUnprocessed_ExcludesProposals(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("unprocessed", "proposal").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	s := NewApplicationStore(db)
	count, err := s.CountUnprocessed(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
