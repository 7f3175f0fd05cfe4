// internal/server/health_test.go
package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"office-portal/internal/common/config"
	"office-portal/internal/common/logger"
	"office-portal/internal/settings"
)

func newHealthTestServer(t *testing.T, db *sql.DB, cache *redis.Client) *Server {
	t.Helper()
	svc := settings.NewService(&fakeSettingsStore{}, nil, time.Minute, logger.NewNoOpLogger())
	return New(Deps{
		DB:       db,
		Cache:    cache,
		Settings: svc,
		Config: &config.Config{
			App: config.AppConfig{Name: "office-portal", Version: "test"},
		},
		Logger: logger.NewNoOpLogger(),
		Now:    fixedNow,
	})
}

func TestHealthz_DegradedWhenPostgresDown(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectPing().WillReturnError(fmt.Errorf("connection refused"))

	srv := newHealthTestServer(t, db, nil)
	rec := doRequest(t, srv, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthz_ChecksRedisWhenConfigured(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mock.ExpectPing()

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	srv := newHealthTestServer(t, db, cache)
	rec := doRequest(t, srv, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"ok"`)
}

func TestHealthz_DegradedWhenRedisDown(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mock.ExpectPing()

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	srv := newHealthTestServer(t, db, cache)
	rec := doRequest(t, srv, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
}
