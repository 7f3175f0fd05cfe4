// internal/server/evaluations.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"office-portal/internal/analytics"
	"office-portal/internal/common/errors"
	"office-portal/internal/models"
)

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

func (s *Server) handleCreateEvaluation(w http.ResponseWriter, r *http.Request) {
	view, err := s.settings.View(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if !view.EvaluationOpen {
		writeError(w, errors.NewValidation(errors.ErrCodeSubmissionClosed,
			"evaluation submissions are currently closed"))
		return
	}

	var ev models.Evaluation
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, errors.NewValidation(errors.ErrCodeValidationFailed, "invalid request body"))
		return
	}
	if err := validateEvaluation(ev); err != nil {
		writeError(w, err)
		return
	}

	created, err := s.evals.Insert(r.Context(), ev)
	if err != nil {
		writeError(w, err)
		return
	}

	s.recordAudit(r, "evaluation.submitted", "evaluation", created.ID, map[string]interface{}{
		"target": created.TargetName,
		"month":  created.Month,
	})
	writeData(w, http.StatusCreated, created)
}

func validateEvaluation(ev models.Evaluation) error {
	if ev.EvaluatorName == "" {
		return errors.NewValidation(errors.ErrCodeValidationFailed, "evaluator name is required")
	}
	if ev.TargetName == "" {
		return errors.NewValidation(errors.ErrCodeValidationFailed, "target employee name is required")
	}
	if !monthPattern.MatchString(ev.Month) {
		return errors.NewValidation(errors.ErrCodeValidationFailed,
			`evaluation month must be formatted "YYYY-MM"`)
	}

	sum := 0
	for _, item := range models.ScoreItems {
		score, ok := ev.Scores[item]
		if !ok {
			return errors.NewValidation(errors.ErrCodeValidationFailed,
				"missing score for item: "+item)
		}
		if score < 1 || score > models.ItemMax(item) {
			return errors.NewValidation(errors.ErrCodeValidationFailed,
				fmt.Sprintf("score for %s must be between 1 and %d", item, models.ItemMax(item)))
		}
		sum += score
	}
	if len(ev.Scores) != len(models.ScoreItems) {
		return errors.NewValidation(errors.ErrCodeValidationFailed, "unexpected score items")
	}
	if ev.TotalScore != sum {
		return errors.NewValidation(errors.ErrCodeValidationFailed,
			fmt.Sprintf("total score %d does not match the sum of item scores %d", ev.TotalScore, sum))
	}
	return nil
}

func (s *Server) handleListTargets(w http.ResponseWriter, r *http.Request) {
	targets, err := s.evals.ListTargets(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, targets)
}

// loadRecords fetches a target's evaluations and converts them to analytics
// records.
func (s *Server) loadRecords(r *http.Request) ([]analytics.Record, string, error) {
	target := r.URL.Query().Get("target")
	if target == "" {
		return nil, "", errors.NewValidation(errors.ErrCodeValidationFailed,
			"query parameter target is required")
	}

	evals, err := s.evals.ListByTarget(r.Context(), target)
	if err != nil {
		return nil, "", err
	}

	records := make([]analytics.Record, 0, len(evals))
	for _, ev := range evals {
		records = append(records, analytics.Record{
			Evaluator: ev.EvaluatorName,
			Month:     ev.Month,
			Scores:    ev.Scores,
			Total:     ev.TotalScore,
			Comment:   ev.Comment,
		})
	}
	return records, target, nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	records, target, err := s.loadRecords(r)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"target": target,
		"months": analytics.MonthlyReport(records),
	})
}

func (s *Server) handleCrossTab(w http.ResponseWriter, r *http.Request) {
	records, target, err := s.loadRecords(r)
	if err != nil {
		writeError(w, err)
		return
	}

	view, err := s.settings.View(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	evaluators, err := s.settings.CachedDirectory(r.Context(), func(ctx context.Context) ([]models.User, error) {
		return s.users.ListEvaluators(ctx, view.EvaluatorRoles)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	ct := analytics.BuildCrossTab(records, evaluators, queryInt(r, "monthIndex", 0))
	writeData(w, http.StatusOK, map[string]interface{}{
		"target":   target,
		"crosstab": ct,
	})
}

func (s *Server) handleRadar(w http.ResponseWriter, r *http.Request) {
	records, target, err := s.loadRecords(r)
	if err != nil {
		writeError(w, err)
		return
	}

	rv := analytics.Radar(records, queryInt(r, "monthIndex", 0))
	writeData(w, http.StatusOK, map[string]interface{}{
		"target": target,
		"radar":  rv,
	})
}

func (s *Server) handleComments(w http.ResponseWriter, r *http.Request) {
	records, target, err := s.loadRecords(r)
	if err != nil {
		writeError(w, err)
		return
	}

	page := analytics.Comments(records,
		queryInt(r, "monthIndex", 0),
		queryInt(r, "page", 1),
		queryInt(r, "perPage", 10))
	writeData(w, http.StatusOK, map[string]interface{}{
		"target":   target,
		"comments": page,
	})
}
