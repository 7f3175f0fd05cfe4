// internal/server/respond.go
package server

import (
	"encoding/json"
	"net/http"

	"office-portal/internal/common/errors"
)

// envelope is the uniform response shape. Successful responses carry data and
// optionally warnings for best-effort side effects that failed; error
// responses carry the error object alone.
type envelope struct {
	Data     interface{} `json:"data,omitempty"`
	Warnings []string    `json:"warnings,omitempty"`
	Error    *errBody    `json:"error,omitempty"`
}

type errBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, envelope{Data: data})
}

func writeDataWarn(w http.ResponseWriter, status int, data interface{}, warnings []string) {
	writeJSON(w, status, envelope{Data: data, Warnings: warnings})
}

func writeError(w http.ResponseWriter, err error) {
	stdErr := errors.Normalize(err)
	writeJSON(w, errors.HTTPStatus(err), envelope{Error: &errBody{
		Code:    string(stdErr.Code),
		Message: stdErr.Message,
		Details: stdErr.Details,
	}})
}
