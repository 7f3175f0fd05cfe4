// internal/server/users.go
package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"office-portal/internal/common/errors"
	"office-portal/internal/models"
	"office-portal/internal/store"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("active") == "true"

	users, err := s.users.List(r.Context(), onlyActive)
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("sort") == "role" {
		// Role ordering for the evaluation target selector: president, sales,
		// clerical, id ascending within a role.
		sorted := make([]models.User, len(users))
		copy(sorted, users)
		store.SortByRole(sorted)
		users = sorted
	}

	writeData(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, errors.NewValidation(errors.ErrCodeValidationFailed, "invalid request body"))
		return
	}
	if err := validateUser(u); err != nil {
		writeError(w, err)
		return
	}

	if err := s.users.Create(r.Context(), u); err != nil {
		writeError(w, err)
		return
	}

	s.settings.InvalidateDirectory(r.Context())
	s.recordAudit(r, "user.created", "user", strconv.Itoa(u.ID), nil)
	writeData(w, http.StatusCreated, u)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errors.NewValidation(errors.ErrCodeValidationFailed, "user id must be an integer"))
		return
	}

	var u models.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, errors.NewValidation(errors.ErrCodeValidationFailed, "invalid request body"))
		return
	}
	u.ID = id
	if err := validateUser(u); err != nil {
		writeError(w, err)
		return
	}

	if err := s.users.Update(r.Context(), u); err != nil {
		writeError(w, err)
		return
	}

	s.settings.InvalidateDirectory(r.Context())
	s.recordAudit(r, "user.updated", "user", strconv.Itoa(id), nil)
	writeData(w, http.StatusOK, u)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errors.NewValidation(errors.ErrCodeValidationFailed, "user id must be an integer"))
		return
	}

	if err := s.users.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	s.settings.InvalidateDirectory(r.Context())
	s.recordAudit(r, "user.deleted", "user", strconv.Itoa(id), nil)
	writeData(w, http.StatusOK, map[string]int{"id": id})
}

func validateUser(u models.User) error {
	if u.ID <= 0 {
		return errors.NewValidation(errors.ErrCodeValidationFailed, "user id must be a positive integer")
	}
	if u.Name == "" {
		return errors.NewValidation(errors.ErrCodeValidationFailed, "user name is required")
	}
	if !models.ValidRole(u.Role) {
		return errors.NewValidation(errors.ErrCodeValidationFailed, "unknown role: "+string(u.Role))
	}
	return nil
}

// recordAudit writes an audit entry, logging instead of failing on error.
func (s *Server) recordAudit(r *http.Request, event, resourceType, resourceID string, details map[string]interface{}) {
	if err := s.audit.Record(r.Context(), event, resourceType, resourceID, details); err != nil {
		s.log.WithError(err).Warn("audit record failed", map[string]interface{}{
			"event": event,
		})
	}
}
