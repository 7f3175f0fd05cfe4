// internal/server/health.go
package server

import (
	"context"
	"net/http"
	"time"
)

// handleHealth pings the backing services. Postgres failure marks the service
// degraded with a 503; Redis is only checked when configured, since the
// settings cache degrades to the store without it.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	checks := map[string]string{}

	if err := s.db.PingContext(ctx); err != nil {
		status = "degraded"
		checks["postgres"] = err.Error()
	} else {
		checks["postgres"] = "ok"
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx).Err(); err != nil {
			status = "degraded"
			checks["redis"] = err.Error()
		} else {
			checks["redis"] = "ok"
		}
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeData(w, code, map[string]interface{}{
		"status":  status,
		"service": s.cfg.App.Name,
		"version": s.cfg.App.Version,
		"checks":  checks,
	})
}
