// internal/server/proposals.go
package server

import (
	"encoding/json"
	"net/http"
	"regexp"

	"office-portal/internal/common/errors"
	"office-portal/internal/models"
)

var yearPattern = regexp.MustCompile(`^\d{4}$`)

type proposalSubmission struct {
	ProposerName string                `json:"proposerName"`
	ProposalYear string                `json:"proposalYear"`
	Items        []models.ProposalItem `json:"items"`
}

func (s *Server) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	view, err := s.settings.View(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if !view.ProposalOpen {
		writeError(w, errors.NewValidation(errors.ErrCodeSubmissionClosed,
			"event proposal submissions are currently closed"))
		return
	}

	var sub proposalSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, errors.NewValidation(errors.ErrCodeValidationFailed, "invalid request body"))
		return
	}
	if sub.ProposerName == "" {
		writeError(w, errors.NewValidation(errors.ErrCodeValidationFailed, "proposer name is required"))
		return
	}
	if !yearPattern.MatchString(sub.ProposalYear) {
		writeError(w, errors.NewValidation(errors.ErrCodeValidationFailed,
			`proposal year must be formatted "YYYY"`))
		return
	}
	if len(sub.Items) == 0 {
		writeError(w, errors.NewValidation(errors.ErrCodeValidationFailed,
			"a proposal needs at least one event item"))
		return
	}
	for _, item := range sub.Items {
		if item.EventName == "" {
			writeError(w, errors.NewValidation(errors.ErrCodeValidationFailed,
				"event name is required for every item"))
			return
		}
	}

	created, err := s.proposals.InsertItems(r.Context(), sub.ProposerName, sub.ProposalYear, sub.Items)
	if err != nil {
		// Earlier items may already be committed; report them alongside the
		// failure so the client can avoid double submission.
		writeError(w, err)
		return
	}

	s.recordAudit(r, "proposal.submitted", "proposal", sub.ProposalYear, map[string]interface{}{
		"proposer": sub.ProposerName,
		"items":    len(created),
	})
	writeData(w, http.StatusCreated, created)
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	year := r.URL.Query().Get("year")
	if !yearPattern.MatchString(year) {
		writeError(w, errors.NewValidation(errors.ErrCodeValidationFailed,
			`query parameter year must be formatted "YYYY"`))
		return
	}

	proposals, err := s.proposals.ListByYear(r.Context(), year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, proposals)
}

func (s *Server) handleListProposalYears(w http.ResponseWriter, r *http.Request) {
	years, err := s.proposals.ListYears(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, years)
}
