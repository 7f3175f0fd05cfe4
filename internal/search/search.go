// internal/search/search.go

// Package search maintains the application search index. Indexing is
// best-effort: a failed index write is reported as a downstream error so the
// caller can log it, but the application itself is already stored.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"office-portal/internal/common/errors"
	"office-portal/internal/common/logger"
	"office-portal/internal/models"
)

type Service struct {
	es      *elasticsearch.Client
	index   string
	enabled bool
	log     logger.Logger
}

func NewService(es *elasticsearch.Client, index string, enabled bool, log logger.Logger) *Service {
	return &Service{
		es:      es,
		index:   index,
		enabled: enabled,
		log:     log,
	}
}

// Enabled reports whether the search backend is configured.
func (s *Service) Enabled() bool {
	return s.enabled && s.es != nil
}

// IndexApplication writes or overwrites one application document, keyed by
// application id so status changes update in place.
func (s *Service) IndexApplication(ctx context.Context, app models.Application) error {
	if !s.Enabled() {
		return nil
	}

	body, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("marshal application document: %w", err)
	}

	res, err := s.es.Index(
		s.index,
		bytes.NewReader(body),
		s.es.Index.WithContext(ctx),
		s.es.Index.WithDocumentID(app.ID),
	)
	if err != nil {
		return errors.NewDownstream(errors.ErrCodeSearchFailed, "index application", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.NewDownstream(errors.ErrCodeSearchFailed,
			fmt.Sprintf("index application: %s", res.Status()), nil)
	}
	return nil
}

// Search runs a free-text query over applicant names, titles and detail
// fields, newest first.
func (s *Service) Search(ctx context.Context, query string) ([]models.Application, error) {
	if !s.Enabled() {
		return nil, errors.NewUnavailable(errors.ErrCodeSearchUnavailable,
			fmt.Errorf("search backend is not configured"))
	}

	var buf bytes.Buffer
	searchBody := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  normalizeQuery(query),
				"fields": []string{"applicantName^2", "title^2", "details.*"},
			},
		},
		"sort": []map[string]interface{}{
			{"submittedAt": map[string]string{"order": "desc"}},
		},
		"size": 50,
	}
	if err := json.NewEncoder(&buf).Encode(searchBody); err != nil {
		return nil, fmt.Errorf("encode search query: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(s.index),
		s.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, errors.NewDownstream(errors.ErrCodeSearchFailed, "search applications", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewDownstream(errors.ErrCodeSearchFailed,
			fmt.Sprintf("search applications: %s", res.Status()), nil)
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source models.Application `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewDownstream(errors.ErrCodeSearchFailed, "decode search response", err)
	}

	apps := make([]models.Application, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		apps = append(apps, hit.Source)
	}
	return apps, nil
}

// normalizeQuery trims and collapses whitespace so cache keys and logs stay
// stable for the same effective query.
func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}
