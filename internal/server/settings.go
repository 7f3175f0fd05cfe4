// internal/server/settings.go
package server

import (
	"encoding/json"
	"io"
	"net/http"

	"office-portal/internal/common/errors"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	doc, err := s.settings.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, json.RawMessage(doc))
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	doc, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, errors.NewValidation(errors.ErrCodeValidationFailed, "unreadable request body"))
		return
	}

	if err := s.settings.Save(r.Context(), doc); err != nil {
		writeError(w, err)
		return
	}

	s.recordAudit(r, "settings.saved", "settings", "default", nil)
	writeData(w, http.StatusOK, json.RawMessage(doc))
}
