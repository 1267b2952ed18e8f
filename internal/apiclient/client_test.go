package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codereview-frontend/internal/models"
	"codereview-frontend/internal/shared/telemetry"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(Config{BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestListCodeReviews(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/code-reviews", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"_id":"r1","repository_url":"https://github.com/a/b","status":"completed","created_at":"2024-01-01T09:00:00","updated_at":"2024-01-01T10:00:00"},
			{"_id":"r2","repository_url":"https://github.com/c/d","status":"in_progress","created_at":"2024-01-02T09:00:00Z","updated_at":"2024-01-02T09:05:00Z"}
		]`))
	})

	reviews, err := client.ListCodeReviews(context.Background())
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "r1", reviews[0].ID)
	assert.Equal(t, models.StatusInProgress, reviews[1].Status)
}

func TestCreateCodeReviewSendsPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://github.com/a/b", body["repository_url"])
		assert.Equal(t, []any{}, body["standard_sets"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"_id":"new-id","repository_url":"https://github.com/a/b","status":"pending","created_at":"2024-01-01T09:00:00","updated_at":"2024-01-01T09:00:00"}`))
	})

	review, err := client.CreateCodeReview(context.Background(), CreateCodeReviewRequest{RepositoryURL: "https://github.com/a/b"})
	require.NoError(t, err)
	assert.Equal(t, "new-id", review.ID)
}

func TestErrorResponsesBecomeAPIError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{name: "string detail", status: http.StatusNotFound, body: `{"detail":"Code review not found"}`, wantDetail: "Code review not found"},
		{name: "list detail", status: http.StatusUnprocessableEntity, body: `{"detail":[{"msg":"invalid url"},{"msg":"too long"}]}`, wantDetail: "invalid url; too long"},
		{name: "message", status: http.StatusForbidden, body: `{"message":"forbidden"}`, wantDetail: "forbidden"},
		{name: "not json", status: http.StatusInternalServerError, body: `boom`, wantDetail: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.GetCodeReview(context.Background(), "missing")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, "code-reviews/{id}", apiErr.Endpoint)
			assert.Equal(t, tt.wantDetail, Detail(err))
			assert.Equal(t, tt.status, StatusCode(err))
		})
	}
}

func TestTransportFailureHasNoStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClientWithHTTP(srv.URL, nil)
	srv.Close()

	_, err := client.ListStandardSets(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, StatusCode(err))
	assert.False(t, IsNotFound(err))
}

func TestDeleteEscapesID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/classifications/a%2Fb", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteClassification(context.Background(), "a/b"))
}

func TestStatusReturnsReviewStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"_id":"r1","status":"completed","created_at":"2024-01-01T09:00:00","updated_at":"2024-01-01T09:00:00"}`))
	})

	status, err := client.Status(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "completed", status)
}

func TestStatusLogsUnknownStatus(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(telemetry.SetOutput(&buf))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"_id":"r1","status":"paused","created_at":"2024-01-01T09:00:00","updated_at":"2024-01-01T09:00:00"}`))
	})

	status, err := client.Status(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "paused", status)
	assert.Contains(t, buf.String(), "api.unknown_status")
	assert.Contains(t, buf.String(), `"status":"paused"`)
}

func TestStatusKnownDoesNotLog(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(telemetry.SetOutput(&buf))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"_id":"r1","status":"in_progress","created_at":"2024-01-01T09:00:00","updated_at":"2024-01-01T09:00:00"}`))
	})

	_, err := client.Status(context.Background(), "r1")
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "api.unknown_status")
}
