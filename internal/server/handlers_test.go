package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Digital-Shane/trailer-tidy/internal/notify"
	"github.com/Digital-Shane/trailer-tidy/internal/provider"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFinder struct {
	records []provider.TrailerRecord
	err     error
	queries []string
}

func (s *stubFinder) FindAll(ctx context.Context, searchText string) ([]provider.TrailerRecord, error) {
	s.queries = append(s.queries, searchText)
	return s.records, s.err
}

type stubSender struct {
	outcome notify.Outcome
	text    string
	email   string
}

func (s *stubSender) SendTrailer(ctx context.Context, searchText, emailAddress string) notify.Outcome {
	s.text, s.email = searchText, emailAddress
	return s.outcome
}

func newTestRouter(finder TrailerFinder, sender TrailerSender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(NewHandler(finder, sender, nil), nil)
}

func TestGetTrailers_OK(t *testing.T) {
	finder := &stubFinder{records: []provider.TrailerRecord{
		{URL: "https://example.com/v1", Title: "Inception Trailer", Source: provider.SourceMetadata},
		{URL: "https://www.youtube.com/watch?v=abc", Title: "Inception Official Trailer", Source: provider.SourceVideoSearch},
	}}
	router := newTestRouter(finder, &stubSender{})

	req, _ := http.NewRequest(http.MethodGet, "/api/Trailer/Trailers?searchText=Inception", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Inception"}, finder.queries)

	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "Failed to unmarshal response: %s", w.Body.String())
	require.Len(t, body, 2)
	assert.Equal(t, map[string]interface{}{"url": "https://example.com/v1", "title": "Inception Trailer"}, body[0])
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", body[1]["url"])
	_, hasSource := body[0]["source"]
	assert.False(t, hasSource, "source must not be serialized")
}

func TestGetTrailers_ErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "invalid_argument", err: fmt.Errorf("%w: you must provide search text", provider.ErrInvalidArgument), wantStatus: http.StatusBadRequest},
		{name: "not_found", err: &provider.NotFoundError{SearchText: "zzz"}, wantStatus: http.StatusNotFound},
		{name: "unavailable", err: fmt.Errorf("tmdb: %w", provider.ErrProviderUnavailable), wantStatus: http.StatusServiceUnavailable},
		{name: "joined_unavailable", err: errors.Join(errors.New("boom"), provider.ErrProviderUnavailable), wantStatus: http.StatusServiceUnavailable},
		{name: "upstream", err: &provider.ProviderError{Provider: "tmdb", Code: "AUTH_FAILED", Message: "TMDB authentication failed"}, wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubFinder{err: tt.err}, &stubSender{})

			req, _ := http.NewRequest(http.MethodGet, "/api/Trailer/Trailers?searchText=zzz", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.err.Error(), body["error"])
		})
	}
}

func TestGetTrailers_NotFoundMessage(t *testing.T) {
	router := newTestRouter(&stubFinder{err: &provider.NotFoundError{SearchText: "Nonexistent"}}, &stubSender{})

	req, _ := http.NewRequest(http.MethodGet, "/api/Trailer/Trailers?searchText=Nonexistent", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "trailer for Nonexistent is not found")
}

func TestSendTrailer(t *testing.T) {
	sender := &stubSender{outcome: notify.Outcome{Success: false, Message: "You must provide a valid email address."}}
	router := newTestRouter(&stubFinder{}, sender)

	req, _ := http.NewRequest(http.MethodPost, "/api/Trailer/SendTrailer?searchText=Inception&emailAddress=not-an-email", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Inception", sender.text)
	assert.Equal(t, "not-an-email", sender.email)
	assert.JSONEq(t, `{"success":false,"message":"You must provide a valid email address."}`, w.Body.String())
}

func TestSendTrailer_MethodNotGET(t *testing.T) {
	router := newTestRouter(&stubFinder{}, &stubSender{})

	req, _ := http.NewRequest(http.MethodGet, "/api/Trailer/SendTrailer?searchText=x&emailAddress=a@b.com", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&stubFinder{}, &stubSender{})

	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}
