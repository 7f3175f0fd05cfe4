// internal/server/applications.go
package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"office-portal/internal/common/errors"
	"office-portal/internal/common/metrics"
	"office-portal/internal/models"
	"office-portal/internal/workflow"
)

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var app models.Application
	if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
		writeError(w, errors.NewValidation(errors.ErrCodeValidationFailed, "invalid request body"))
		return
	}

	if !models.ValidApplicationType(app.Type) {
		writeError(w, errors.NewValidation(errors.ErrCodeValidationFailed,
			"unknown application type: "+string(app.Type)))
		return
	}
	if app.ApplicantName == "" {
		writeError(w, errors.NewValidation(errors.ErrCodeValidationFailed, "applicant name is required"))
		return
	}
	if app.Title == "" {
		writeError(w, errors.NewValidation(errors.ErrCodeValidationFailed, "title is required"))
		return
	}
	if app.Details == nil {
		app.Details = map[string]string{}
	}

	if s.registry != nil {
		violations, err := s.registry.Validate(string(app.Type), app.Details)
		if err != nil {
			writeError(w, errors.NewValidation(errors.ErrCodeValidationFailed, err.Error()))
			return
		}
		if len(violations) > 0 {
			writeError(w, errors.NewValidation(errors.ErrCodeValidationFailed,
				"details failed validation: "+strings.Join(violations, "; ")))
			return
		}
	}

	created, err := s.apps.Insert(r.Context(), app)
	if err != nil {
		writeError(w, err)
		return
	}

	// Everything past this point is best-effort; the application is stored.
	warnings := s.afterApplicationWrite(r, created, true)

	s.recordAudit(r, "application.submitted", "application", created.ID, map[string]interface{}{
		"type": string(created.Type),
	})
	writeDataWarn(w, http.StatusCreated, created, warnings)
}

// afterApplicationWrite runs the best-effort side effects after an application
// row changed: notification email (create only), search indexing and the badge
// refresh fan-out. Each failure becomes a warning, never an error.
func (s *Server) afterApplicationWrite(r *http.Request, app models.Application, notifyAdmins bool) []string {
	var warnings []string
	ctx := r.Context()

	if notifyAdmins && s.notifier != nil {
		view, err := s.settings.View(ctx)
		if err == nil {
			err = s.notifier.ApplicationSubmitted(ctx, app, view.NotificationEmails)
		}
		if err != nil {
			s.log.WithError(err).Warn("application notification failed", map[string]interface{}{
				"application_id": app.ID,
			})
			warnings = append(warnings, "notification email could not be sent")
		}
	}

	if s.search != nil && s.search.Enabled() {
		if err := s.search.IndexApplication(ctx, app); err != nil {
			s.log.WithError(err).Warn("application indexing failed", map[string]interface{}{
				"application_id": app.ID,
			})
			warnings = append(warnings, "application was not indexed for search")
		}
	}

	count, err := s.apps.CountUnprocessed(ctx)
	if err == nil {
		metrics.UnprocessedApplications.Set(float64(count))
		if s.notifier != nil {
			if err := s.notifier.PublishBadgeRefresh(ctx, count); err != nil {
				s.log.WithError(err).Warn("badge refresh publish failed", nil)
				warnings = append(warnings, "badge refresh could not be published")
			}
		}
	}

	return warnings
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	status := models.ApplicationStatus(r.URL.Query().Get("status"))
	appType := models.ApplicationType(r.URL.Query().Get("type"))

	if status != "" && !models.ValidApplicationStatus(status) {
		writeError(w, errors.NewValidation(errors.ErrCodeValidationFailed,
			"unknown status filter: "+string(status)))
		return
	}

	apps, err := s.apps.List(r.Context(), status, appType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, apps)
}

// applicationDetail is an application plus its detail fields in form order.
type applicationDetail struct {
	models.Application
	Fields []models.DetailField `json:"fields"`
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	app, err := s.apps.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, applicationDetail{
		Application: app,
		Fields:      s.orderedFields(app),
	})
}

// orderedFields lays out the detail map in the field order the form registry
// defines. Detail keys not in the registry keep their raw key as the label and
// come last.
func (s *Server) orderedFields(app models.Application) []models.DetailField {
	fields := make([]models.DetailField, 0, len(app.Details))
	seen := make(map[string]bool, len(app.Details))

	if s.registry != nil {
		if form, ok := s.registry.Form(string(app.Type)); ok {
			for _, f := range form.Fields {
				value, present := app.Details[f.Key]
				if !present {
					continue
				}
				fields = append(fields, models.DetailField{Key: f.Key, Label: f.Label, Value: value})
				seen[f.Key] = true
			}
		}
	}

	for key, value := range app.Details {
		if !seen[key] {
			fields = append(fields, models.DetailField{Key: key, Label: key, Value: value})
		}
	}
	return fields
}

func (s *Server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req workflow.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewValidation(errors.ErrCodeValidationFailed, "invalid request body"))
		return
	}

	current, err := s.apps.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	// Apply validates the transition; on rejection the row stays untouched.
	res, err := workflow.Apply(current, req, s.now())
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.apps.UpdateProcessing(r.Context(), id, res); err != nil {
		writeError(w, err)
		return
	}

	current.Status = res.Status
	current.ProcessedBy = res.ProcessedBy
	current.ProcessedAt = res.ProcessedAt

	warnings := s.afterApplicationWrite(r, current, false)

	s.recordAudit(r, "application.status_changed", "application", id, map[string]interface{}{
		"status":       string(res.Status),
		"processed_by": res.ProcessedBy,
	})
	writeDataWarn(w, http.StatusOK, current, warnings)
}

func (s *Server) handleBadge(w http.ResponseWriter, r *http.Request) {
	count, err := s.apps.CountUnprocessed(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.UnprocessedApplications.Set(float64(count))
	writeData(w, http.StatusOK, map[string]int{"unprocessedCount": count})
}

func (s *Server) handleSearchApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		writeError(w, errors.NewValidation(errors.ErrCodeValidationFailed,
			"query parameter q is required"))
		return
	}
	if s.search == nil {
		writeError(w, errors.NewUnavailable(errors.ErrCodeSearchUnavailable, nil))
		return
	}

	apps, err := s.search.Search(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, apps)
}

// handleListForms exposes the form registry so clients render submission forms
// from the same definitions the server validates against.
func (s *Server) handleListForms(w http.ResponseWriter, r *http.Request) {
	if s.registry == nil {
		writeData(w, http.StatusOK, []interface{}{})
		return
	}

	forms := make([]interface{}, 0)
	for _, t := range s.registry.Types() {
		if form, ok := s.registry.Form(t); ok {
			forms = append(forms, form)
		}
	}
	writeData(w, http.StatusOK, forms)
}
