// internal/search/search_test.go
package search

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"office-portal/internal/common/errors"
	"office-portal/internal/common/logger"
	"office-portal/internal/models"
)

type fakeTransport struct {
	requests []*http.Request
	bodies   []string
	status   int
	response string
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.requests = append(f.requests, req)
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		f.bodies = append(f.bodies, string(b))
	} else {
		f.bodies = append(f.bodies, "")
	}
	return &http.Response{
		StatusCode: f.status,
		Body:       io.NopCloser(strings.NewReader(f.response)),
		Header:     http.Header{"X-Elastic-Product": []string{"Elasticsearch"}, "Content-Type": []string{"application/json"}},
	}, nil
}

func newTestService(t *testing.T, transport *fakeTransport) *Service {
	t.Helper()
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://localhost:9200"},
		Transport: transport,
	})
	require.NoError(t, err)
	return NewService(es, "applications", true, logger.NewNoOpLogger())
}

func TestService_IndexApplication(t *testing.T) {
	transport := &fakeTransport{status: http.StatusCreated, response: `{"result":"created"}`}
	svc := newTestService(t, transport)

	err := svc.IndexApplication(context.Background(), models.Application{
		ID:            "app-1",
		Type:          models.TypeCustomerRegistration,
		ApplicantName: "Yamada",
		Title:         "New customer: Acme",
		Status:        models.StatusUnprocessed,
	})

	require.NoError(t, err)
	require.Len(t, transport.requests, 1)
	assert.Contains(t, transport.requests[0].URL.Path, "/applications/_doc/app-1")
	assert.Contains(t, transport.bodies[0], `"applicantName":"Yamada"`)
}

func TestService_IndexApplication_BackendErrorIsDownstream(t *testing.T) {
	transport := &fakeTransport{status: http.StatusServiceUnavailable, response: `{"error":"unavailable"}`}
	svc := newTestService(t, transport)

	err := svc.IndexApplication(context.Background(), models.Application{ID: "app-1"})

	require.Error(t, err)
	stdErr, ok := errors.AsStandard(err)
	require.True(t, ok)
	assert.Equal(t, errors.KindDownstream, stdErr.Kind)
	assert.Equal(t, errors.ErrCodeSearchFailed, stdErr.Code)
}

func TestService_IndexApplication_DisabledIsNoOp(t *testing.T) {
	transport := &fakeTransport{status: http.StatusOK, response: `{}`}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://localhost:9200"},
		Transport: transport,
	})
	require.NoError(t, err)
	svc := NewService(es, "applications", false, logger.NewNoOpLogger())

	require.NoError(t, svc.IndexApplication(context.Background(), models.Application{ID: "app-1"}))
	assert.Empty(t, transport.requests)
}

func TestService_Search(t *testing.T) {
	transport := &fakeTransport{
		status: http.StatusOK,
		response: `{
			"hits": {
				"hits": [
					{"_source": {"id": "app-2", "applicantName": "Yamada", "title": "Meeting room B", "status": "unprocessed"}},
					{"_source": {"id": "app-1", "applicantName": "Yamada", "title": "Meeting room A", "status": "processed"}}
				]
			}
		}`,
	}
	svc := newTestService(t, transport)

	apps, err := svc.Search(context.Background(), "  meeting   room ")

	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "app-2", apps[0].ID)
	assert.Equal(t, models.StatusProcessed, apps[1].Status)

	// Whitespace in the query is collapsed before it reaches the backend.
	assert.Contains(t, transport.bodies[0], `"query":"meeting room"`)
}

func TestService_Search_DisabledIsUnavailable(t *testing.T) {
	svc := NewService(nil, "applications", false, logger.NewNoOpLogger())

	_, err := svc.Search(context.Background(), "meeting")

	require.Error(t, err)
	stdErr, ok := errors.AsStandard(err)
	require.True(t, ok)
	assert.Equal(t, errors.KindUnavailable, stdErr.Kind)
	assert.Equal(t, errors.ErrCodeSearchUnavailable, stdErr.Code)
}
