// internal/store/proposals.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"office-portal/internal/common/errors"
	"office-portal/internal/models"
)

type ProposalStore struct {
	db *sql.DB
}

func NewProposalStore(db *sql.DB) *ProposalStore {
	return &ProposalStore{db: db}
}

// InsertItems stores one row per proposed event item. Each row is a single
// insert; a failure part-way leaves earlier rows committed, matching the
// original row-per-item submission behavior.
func (s *ProposalStore) InsertItems(ctx context.Context, proposer, year string, items []models.ProposalItem) ([]models.Proposal, error) {
	submittedAt := time.Now().UTC().Format(time.RFC3339)
	created := make([]models.Proposal, 0, len(items))

	for _, item := range items {
		p := models.Proposal{
			ID:           uuid.New().String(),
			ProposerName: proposer,
			ProposalYear: year,
			EventName:    item.EventName,
			Timing:       item.Timing,
			Type:         item.Type,
			Content:      item.Content,
			SubmittedAt:  submittedAt,
		}
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO proposals (
				id, proposer_name, proposal_year, event_name, timing, type, content, submitted_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			p.ID, p.ProposerName, p.ProposalYear, p.EventName, p.Timing, p.Type, p.Content, p.SubmittedAt)
		if err != nil {
			return created, errors.NewUnavailable(errors.ErrCodeStoreUnavailable,
				fmt.Errorf("insert proposal: %w", err))
		}
		created = append(created, p)
	}
	return created, nil
}

// ListByYear returns proposals for one year, newest first.
func (s *ProposalStore) ListByYear(ctx context.Context, year string) ([]models.Proposal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, proposer_name, proposal_year, event_name, timing, type, content, submitted_at
		FROM proposals
		WHERE proposal_year = $1
		ORDER BY submitted_at DESC`, year)
	if err != nil {
		return nil, errors.NewUnavailable(errors.ErrCodeStoreUnavailable,
			fmt.Errorf("list proposals: %w", err))
	}
	defer rows.Close()

	return scanProposals(rows)
}

// ListYears returns the distinct proposal years, most recent first.
func (s *ProposalStore) ListYears(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT proposal_year
		FROM proposals
		ORDER BY proposal_year DESC`)
	if err != nil {
		return nil, errors.NewUnavailable(errors.ErrCodeStoreUnavailable,
			fmt.Errorf("list proposal years: %w", err))
	}
	defer rows.Close()

	years := make([]string, 0)
	for rows.Next() {
		var y string
		if err := rows.Scan(&y); err != nil {
			return nil, errors.NewUnavailable(errors.ErrCodeStoreUnavailable, err)
		}
		years = append(years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewUnavailable(errors.ErrCodeStoreUnavailable, err)
	}
	return years, nil
}

func scanProposals(rows *sql.Rows) ([]models.Proposal, error) {
	proposals := make([]models.Proposal, 0)
	for rows.Next() {
		var p models.Proposal
		var submittedAt time.Time
		if err := rows.Scan(&p.ID, &p.ProposerName, &p.ProposalYear, &p.EventName,
			&p.Timing, &p.Type, &p.Content, &submittedAt); err != nil {
			return nil, errors.NewUnavailable(errors.ErrCodeStoreUnavailable,
				fmt.Errorf("scan proposal: %w", err))
		}
		p.SubmittedAt = submittedAt.UTC().Format(time.RFC3339)
		proposals = append(proposals, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewUnavailable(errors.ErrCodeStoreUnavailable, err)
	}
	return proposals, nil
}
