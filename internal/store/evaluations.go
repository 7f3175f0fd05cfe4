// internal/store/evaluations.go
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
)

type EvaluationStore struct {
	db *sql.DB
}

func NewEvaluationStore(db *sql.DB) *EvaluationStore {
	return &EvaluationStore{db: db}
}

// Insert stores a submitted evaluation. Rows are immutable; there is no
// update or delete path.
func (s *EvaluationStore) Insert(ctx context.Context, ev models.Evaluation) (models.Evaluation, error) {
	ev.ID = uuid.New().String()
	ev.SubmittedAt = time.Now().UTC().Format(time.RFC3339)

	scoresJSON, err := json.Marshal(ev.Scores)
	if err != nil {
		return models.Evaluation{}, errors.NewUnavailable(errors.ErrCodeStoreUnavailable,
			fmt.Errorf("marshal scores: %w", err))
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO evaluations (
			id, evaluator_name, target_employee_name, evaluation_month,
			total_score, comment, scores, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ev.ID, ev.EvaluatorName, ev.TargetName, ev.Month,
		ev.TotalScore, ev.Comment, scoresJSON, ev.SubmittedAt)
	if err != nil {
		return models.Evaluation{}, errors.NewUnavailable(errors.ErrCodeStoreUnavailable,
			fmt.Errorf("insert evaluation: %w", err))
	}
	return ev, nil
}

// ListByTarget returns every evaluation for a target employee, oldest first
// within a month so later submissions override earlier ones downstream.
func (s *EvaluationStore) ListByTarget(ctx context.Context, target string) ([]models.Evaluation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, evaluator_name, target_employee_name, evaluation_month,
		       total_score, comment, scores, submitted_at
		FROM evaluations
		WHERE target_employee_name = $1
		ORDER BY submitted_at ASC`, target)
	if err != nil {
		return nil, errors.NewUnavailable(errors.ErrCodeStoreUnavailable,
			fmt.Errorf("list evaluations: %w", err))
	}
	defer rows.Close()

	return scanEvaluations(rows)
}

// ListTargets returns the distinct target employee names with at least one
// evaluation, alphabetically.
func (s *EvaluationStore) ListTargets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT target_employee_name
		FROM evaluations
		ORDER BY target_employee_name ASC`)
	if err != nil {
		return nil, errors.NewUnavailable(errors.ErrCodeStoreUnavailable,
			fmt.Errorf("list targets: %w", err))
	}
	defer rows.Close()

	targets := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.NewUnavailable(errors.ErrCodeStoreUnavailable, err)
		}
		targets = append(targets, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewUnavailable(errors.ErrCodeStoreUnavailable, err)
	}
	return targets, nil
}

func scanEvaluations(rows *sql.Rows) ([]models.Evaluation, error) {
	evals := make([]models.Evaluation, 0)
	for rows.Next() {
		var ev models.Evaluation
		var scoresJSON []byte
		var submittedAt time.Time
		if err := rows.Scan(&ev.ID, &ev.EvaluatorName, &ev.TargetName, &ev.Month,
			&ev.TotalScore, &ev.Comment, &scoresJSON, &submittedAt); err != nil {
			return nil, errors.NewUnavailable(errors.ErrCodeStoreUnavailable,
				fmt.Errorf("scan evaluation: %w", err))
		}
		if err := json.Unmarshal(scoresJSON, &ev.Scores); err != nil {
			return nil, errors.NewUnavailable(errors.ErrCodeStoreUnavailable,
				fmt.Errorf("decode scores: %w", err))
		}
		ev.SubmittedAt = submittedAt.UTC().Format(time.RFC3339)
		evals = append(evals, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewUnavailable(errors.ErrCodeStoreUnavailable, err)
	}
	return evals, nil
}
