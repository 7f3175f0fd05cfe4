// internal/store/settings.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"office-portal/internal/common/errors"
	"office-portal/internal/models"
)

type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the raw settings document exactly as it was saved. Not-found
// means the document was never saved and callers should fall back to
// defaults.
func (s *SettingsStore) Get(ctx context.Context) (json.RawMessage, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT document FROM app_settings WHERE key = $1`,
		models.SettingsKey).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("settings", models.SettingsKey)
	}
	if err != nil {
		return nil, errors.NewUnavailable(errors.ErrCodeStoreUnavailable,
			fmt.Errorf("get settings: %w", err))
	}
	return doc, nil
}

// Upsert overwrites the settings document wholesale. The raw bytes are stored
// untouched so a repeated save of the same document is byte-for-byte
// idempotent. Last writer wins; there is no versioning.
func (s *SettingsStore) Upsert(ctx context.Context, doc json.RawMessage) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_settings (key, document, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET document = $2, updated_at = $3`,
		models.SettingsKey, string(doc), time.Now().UTC())
	if err != nil {
		return errors.NewUnavailable(errors.ErrCodeStoreUnavailable,
			fmt.Errorf("upsert settings: %w", err))
	}
	return nil
}
