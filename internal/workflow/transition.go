// internal/workflow/transition.go

// Package workflow validates application status transitions. Apply is a pure
// function: it either returns the full final status triple to persist or a
// validation error, and the caller must leave the row untouched on rejection.
package workflow

import (
	"time"

	"office-portal/internal/common/errors"
	"office-portal/internal/models"
)

// Request is a partial update of an application's processing fields.
// Nil pointers mean "unchanged".
type Request struct {
	Status *models.ApplicationStatus `json:"status,omitempty"`

	// ProcessedBy assigns (or with an empty string, clears) the processor.
	ProcessedBy *string `json:"processedBy,omitempty"`

	// ConfirmReprocess must be set by the caller when changing the status of
	// an application whose current status is no longer unprocessed. The
	// workflow never re-derives it.
	ConfirmReprocess bool `json:"confirmReprocess,omitempty"`
}

// Result is the final state to persist. Empty strings mean NULL.
type Result struct {
	Status      models.ApplicationStatus
	ProcessedBy string
	ProcessedAt string // RFC3339
}

// Apply validates req against the application's current state. now is only
// consulted when the transition enters the processed status.
func Apply(current models.Application, req Request, now time.Time) (Result, error) {
	if req.Status == nil && req.ProcessedBy == nil {
		return Result{}, errors.NewValidation(errors.ErrCodeValidationFailed, "nothing to update")
	}

	res := Result{
		Status:      current.Status,
		ProcessedBy: current.ProcessedBy,
		ProcessedAt: current.ProcessedAt,
	}

	if req.ProcessedBy != nil {
		res.ProcessedBy = *req.ProcessedBy
	}

	// Changing the processor alone is always allowed.
	if req.Status == nil {
		return res, nil
	}

	next := *req.Status
	if !models.ValidApplicationStatus(next) {
		return Result{}, errors.NewValidation(errors.ErrCodeTransitionRejected,
			"unknown status: "+string(next))
	}

	if next != models.StatusUnprocessed && current.Status != models.StatusUnprocessed && !req.ConfirmReprocess {
		return Result{}, errors.NewValidation(errors.ErrCodeConfirmationRequired,
			"application was already picked up; confirmation required to change its status again")
	}

	switch next {
	case models.StatusUnprocessed:
		// Returning to unprocessed clears the processor unconditionally.
		res.ProcessedBy = ""
		res.ProcessedAt = ""
	case models.StatusProcessed, models.StatusCancelled:
		if res.ProcessedBy == "" {
			return Result{}, errors.NewValidation(errors.ErrCodeProcessorRequired,
				"a processor must be assigned before marking an application "+string(next))
		}
		if next == models.StatusProcessed {
			res.ProcessedAt = now.UTC().Format(time.RFC3339)
		} else {
			res.ProcessedAt = ""
		}
	default: // processing, returned
		res.ProcessedAt = ""
	}

	res.Status = next
	return res, nil
}
