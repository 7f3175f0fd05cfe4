// internal/server/postal.go
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"office-portal/internal/common/errors"
)

func (s *Server) handlePostalLookup(w http.ResponseWriter, r *http.Request) {
	if s.postal == nil {
		writeError(w, errors.NewDownstream(errors.ErrCodeAddressLookupFailed,
			"postal code lookup is not configured", nil))
		return
	}

	addresses, err := s.postal.Lookup(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, addresses)
}
