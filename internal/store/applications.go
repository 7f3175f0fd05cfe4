// internal/store/applications.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"office-portal/internal/common/errors"
	"office-portal/internal/models"
	"office-portal/internal/workflow"
)

type ApplicationStore struct {
	db *sql.DB
}

func NewApplicationStore(db *sql.DB) *ApplicationStore {
	return &ApplicationStore{db: db}
}

// Insert stores a new application in the unprocessed state.
func (s *ApplicationStore) Insert(ctx context.Context, app models.Application) (models.Application, error) {
	app.ID = uuid.New().String()
	app.Status = models.StatusUnprocessed
	app.SubmittedAt = time.Now().UTC().Format(time.RFC3339)

	detailsJSON, err := json.Marshal(app.Details)
	if err != nil {
		return models.Application{}, errors.NewUnavailable(errors.ErrCodeStoreUnavailable,
			fmt.Errorf("marshal details: %w", err))
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO applications (
			id, application_type, applicant_name, title, details, submitted_at, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		app.ID, string(app.Type), app.ApplicantName, app.Title, detailsJSON,
		app.SubmittedAt, string(app.Status))
	if err != nil {
		return models.Application{}, errors.NewUnavailable(errors.ErrCodeStoreUnavailable,
			fmt.Errorf("insert application: %w", err))
	}
	return app, nil
}

// GetByID returns one application, or a not-found error.
func (s *ApplicationStore) GetByID(ctx context.Context, id string) (models.Application, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, application_type, applicant_name, title, details,
		       submitted_at, status, processed_by, processed_at
		FROM applications
		WHERE id = $1`, id)

	app, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return models.Application{}, errors.NewNotFound("application", id)
	}
	if err != nil {
		return models.Application{}, errors.NewUnavailable(errors.ErrCodeStoreUnavailable,
			fmt.Errorf("get application: %w", err))
	}
	return app, nil
}

// List returns applications, newest first, optionally filtered by status
// and/or type.
func (s *ApplicationStore) List(ctx context.Context, status models.ApplicationStatus, appType models.ApplicationType) ([]models.Application, error) {
	query := `
		SELECT id, application_type, applicant_name, title, details,
		       submitted_at, status, processed_by, processed_at
		FROM applications
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR application_type = $2)
		ORDER BY submitted_at DESC`

	rows, err := s.db.QueryContext(ctx, query, string(status), string(appType))
	if err != nil {
		return nil, errors.NewUnavailable(errors.ErrCodeStoreUnavailable,
			fmt.Errorf("list applications: %w", err))
	}
	defer rows.Close()

	apps := make([]models.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, errors.NewUnavailable(errors.ErrCodeStoreUnavailable,
				fmt.Errorf("scan application: %w", err))
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewUnavailable(errors.ErrCodeStoreUnavailable, err)
	}
	return apps, nil
}

// UpdateProcessing writes a validated workflow result to one row atomically.
// A zero-row update is reported as not-found, distinguishable from success.
func (s *ApplicationStore) UpdateProcessing(ctx context.Context, id string, res workflow.Result) error {
	var processedBy sql.NullString
	if res.ProcessedBy != "" {
		processedBy = sql.NullString{String: res.ProcessedBy, Valid: true}
	}
	var processedAt sql.NullString
	if res.ProcessedAt != "" {
		processedAt = sql.NullString{String: res.ProcessedAt, Valid: true}
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE applications
		SET status = $2, processed_by = $3, processed_at = $4
		WHERE id = $1`,
		id, string(res.Status), processedBy, processedAt)
	if err != nil {
		return errors.NewUnavailable(errors.ErrCodeStoreUnavailable,
			fmt.Errorf("update application: %w", err))
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return errors.NewNotFound("application", id)
	}
	return nil
}

// CountUnprocessed implements the sidebar badge contract: unprocessed rows in
// the applications table only. Proposals and evaluations have their own
// tables; legacy proposal-typed rows are excluded explicitly.
func (s *ApplicationStore) CountUnprocessed(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM applications
		WHERE status = $1 AND application_type <> $2`,
		string(models.StatusUnprocessed), string(models.TypeProposal)).Scan(&count)
	if err != nil {
		return 0, errors.NewUnavailable(errors.ErrCodeStoreUnavailable,
			fmt.Errorf("count unprocessed: %w", err))
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (models.Application, error) {
	var app models.Application
	var appType, status string
	var detailsJSON []byte
	var submittedAt time.Time
	var processedBy sql.NullString
	var processedAt sql.NullTime

	err := row.Scan(&app.ID, &appType, &app.ApplicantName, &app.Title, &detailsJSON,
		&submittedAt, &status, &processedBy, &processedAt)
	if err != nil {
		return models.Application{}, err
	}

	app.Type = models.ApplicationType(appType)
	app.Status = models.ApplicationStatus(status)
	app.SubmittedAt = submittedAt.UTC().Format(time.RFC3339)
	if processedBy.Valid {
		app.ProcessedBy = processedBy.String
	}
	if processedAt.Valid {
		app.ProcessedAt = processedAt.Time.UTC().Format(time.RFC3339)
	}
	if err := json.Unmarshal(detailsJSON, &app.Details); err != nil {
		return models.Application{}, fmt.Errorf("decode details: %w", err)
	}
	return app, nil
}
