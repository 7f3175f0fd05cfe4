// internal/settings/service.go
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"office-portal/internal/common/errors"
	"office-portal/internal/common/logger"
	"office-portal/internal/common/metrics"
	"office-portal/internal/models"
)

const (
	cacheKey     = "portal:settings:" + models.SettingsKey
	directoryKey = "portal:directory:evaluators"
)

// Store is the persistence surface the service needs.
type Store interface {
	Get(ctx context.Context) (json.RawMessage, error)
	Upsert(ctx context.Context, doc json.RawMessage) error
}

// Service reads and writes the singleton settings document, with a Redis
// read-through cache in front of Postgres. Cache failures degrade to the
// store; they never fail a request.
type Service struct {
	store Store
	redis *redis.Client
	ttl   time.Duration
	log   logger.Logger
}

func NewService(store Store, redisClient *redis.Client, ttl time.Duration, log logger.Logger) *Service {
	return &Service{
		store: store,
		redis: redisClient,
		ttl:   ttl,
		log:   log,
	}
}

// Get returns the current settings document. Falls back to defaults when no
// document was ever saved.
func (s *Service) Get(ctx context.Context) (json.RawMessage, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, cacheKey).Bytes()
		if err == nil {
			metrics.CacheOperations.WithLabelValues("settings", "hit").Inc()
			return cached, nil
		}
		if err != redis.Nil {
			metrics.CacheOperations.WithLabelValues("settings", "error").Inc()
			s.log.WithError(err).Warn("settings cache read failed, falling back to store", nil)
		} else {
			metrics.CacheOperations.WithLabelValues("settings", "miss").Inc()
		}
	}

	doc, err := s.store.Get(ctx)
	if errors.IsNotFound(err) {
		defaults, mErr := json.Marshal(models.DefaultSettings())
		if mErr != nil {
			return nil, fmt.Errorf("marshal default settings: %w", mErr)
		}
		return defaults, nil
	}
	if err != nil {
		return nil, err
	}

	s.fillCache(ctx, doc)
	return doc, nil
}

// View returns the decoded settings for code that needs individual fields.
func (s *Service) View(ctx context.Context) (models.Settings, error) {
	doc, err := s.Get(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	parsed, err := models.ParseSettings(doc)
	if err != nil {
		return models.Settings{}, errors.NewValidation(errors.ErrCodeValidationFailed,
			"settings document is not valid JSON")
	}
	return parsed, nil
}

// Save replaces the settings document wholesale and refreshes the cache.
// The raw bytes are persisted untouched, so saving an unchanged document is
// idempotent.
func (s *Service) Save(ctx context.Context, doc json.RawMessage) error {
	if _, err := models.ParseSettings(doc); err != nil {
		return errors.NewValidation(errors.ErrCodeValidationFailed,
			"settings document is not valid JSON")
	}

	if err := s.store.Upsert(ctx, doc); err != nil {
		return err
	}

	s.fillCache(ctx, doc)
	// Evaluator roles may have changed, so the cached directory is stale.
	s.InvalidateDirectory(ctx)
	return nil
}

// CachedDirectory returns the evaluator directory, served from Redis when a
// fresh copy exists and loaded through the supplied function otherwise. Cache
// failures fall through to the loader.
func (s *Service) CachedDirectory(ctx context.Context, load func(context.Context) ([]models.User, error)) ([]models.User, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, directoryKey).Bytes()
		if err == nil {
			var users []models.User
			if uErr := json.Unmarshal(cached, &users); uErr == nil {
				metrics.CacheOperations.WithLabelValues("directory", "hit").Inc()
				return users, nil
			}
			metrics.CacheOperations.WithLabelValues("directory", "error").Inc()
		} else if err != redis.Nil {
			metrics.CacheOperations.WithLabelValues("directory", "error").Inc()
			s.log.WithError(err).Warn("directory cache read failed, falling back to store", nil)
		} else {
			metrics.CacheOperations.WithLabelValues("directory", "miss").Inc()
		}
	}

	users, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		encoded, mErr := json.Marshal(users)
		if mErr == nil {
			if sErr := s.redis.Set(ctx, directoryKey, encoded, s.ttl).Err(); sErr != nil {
				metrics.CacheOperations.WithLabelValues("directory", "error").Inc()
				s.log.WithError(sErr).Warn("directory cache write failed", nil)
			}
		}
	}
	return users, nil
}

// InvalidateDirectory drops the cached evaluator directory. Called after any
// user mutation and after a settings save, since both can change who counts
// as an evaluator.
func (s *Service) InvalidateDirectory(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, directoryKey).Err(); err != nil {
		s.log.WithError(err).Warn("directory cache invalidation failed", nil)
	}
}

// Invalidate drops the cached document. Used when another writer may have
// touched the row directly.
func (s *Service) Invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, cacheKey).Err(); err != nil {
		s.log.WithError(err).Warn("settings cache invalidation failed", nil)
	}
}

func (s *Service) fillCache(ctx context.Context, doc json.RawMessage) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, cacheKey, []byte(doc), s.ttl).Err(); err != nil {
		metrics.CacheOperations.WithLabelValues("settings", "error").Inc()
		s.log.WithError(err).Warn("settings cache write failed", nil)
	}
}
