// internal/store/schema.go
package store

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema applies every DDL statement in order. Safe to run at every
// startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}

// Schema holds the DDL applied at startup and by cmd/tools/schema-init.
// Statements are idempotent so they can be re-run safely.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         INTEGER PRIMARY KEY,
		name       TEXT NOT NULL,
		role       TEXT NOT NULL,
		is_trainee BOOLEAN NOT NULL DEFAULT FALSE,
		is_active  BOOLEAN NOT NULL DEFAULT TRUE
	)`,

	`CREATE TABLE IF NOT EXISTS evaluations (
		id                   UUID PRIMARY KEY,
		evaluator_name       TEXT NOT NULL,
		target_employee_name TEXT NOT NULL,
		evaluation_month     TEXT NOT NULL,
		total_score          INTEGER NOT NULL,
		comment              TEXT NOT NULL DEFAULT '',
		scores               JSONB NOT NULL,
		submitted_at         TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_evaluations_target
		ON evaluations (target_employee_name, evaluation_month)`,

	`CREATE TABLE IF NOT EXISTS proposals (
		id            UUID PRIMARY KEY,
		proposer_name TEXT NOT NULL,
		proposal_year TEXT NOT NULL,
		event_name    TEXT NOT NULL,
		timing        TEXT NOT NULL DEFAULT '',
		type          TEXT NOT NULL DEFAULT '',
		content       TEXT NOT NULL DEFAULT '',
		submitted_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_proposals_year
		ON proposals (proposal_year)`,

	`CREATE TABLE IF NOT EXISTS applications (
		id               UUID PRIMARY KEY,
		application_type TEXT NOT NULL,
		applicant_name   TEXT NOT NULL,
		title            TEXT NOT NULL,
		details          JSONB NOT NULL,
		submitted_at     TIMESTAMPTZ NOT NULL,
		status           TEXT NOT NULL DEFAULT 'unprocessed',
		processed_by     TEXT,
		processed_at     TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_applications_status
		ON applications (status)`,

	// The settings document is stored as TEXT, not JSONB. JSONB normalizes
	// (reorders keys, strips whitespace) and the document must read back
	// byte-for-byte; validity is enforced before the write.
	`CREATE TABLE IF NOT EXISTS app_settings (
		key        TEXT PRIMARY KEY,
		document   TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS audit_log (
		id            BIGSERIAL PRIMARY KEY,
		event_type    TEXT NOT NULL,
		resource_type TEXT NOT NULL,
		resource_id   TEXT NOT NULL,
		details       JSONB NOT NULL DEFAULT '{}',
		created_at    TIMESTAMPTZ NOT NULL
	)`,
}
