// internal/store/audit.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type AuditStore struct {
	db *sql.DB
}

func NewAuditStore(db *sql.DB) *AuditStore {
	return &AuditStore{db: db}
}

// Record inserts an audit entry. Callers treat failures as non-critical: log
// and move on, never fail the primary write.
func (s *AuditStore) Record(ctx context.Context, eventType, resourceType, resourceID string, details map[string]interface{}) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		eventType, resourceType, resourceID, detailsJSON, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("audit insert: %w", err)
	}
	return nil
}
