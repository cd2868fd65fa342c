package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"atscan/internal/ats"
	"atscan/internal/config"
	"atscan/internal/errors"
	"atscan/internal/extract"
	"atscan/internal/observability"
	"atscan/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testResume = `John Smith
john.smith@example.com | 555-123-4567

Summary
Backend engineer with five years of experience building Go services.

Experience
Senior Software Engineer, Acme Corp (2021 - Present)
- Developed REST APIs in Go serving 10k requests per second
- Reduced deployment time by 40% by migrating CI to containers

Software Engineer, Widget Inc (2018 - 2021)
- Built data pipelines with Python and PostgreSQL
- Implemented caching with Redis across three services

Education
B.S. Computer Science, State University, 2018

Skills
Go, Python, PostgreSQL, Redis, Docker, Kubernetes, AWS
`

func newTestServer(t *testing.T) (*Server, *observability.ObservabilityManager) {
	t.Helper()

	logger, err := errors.New("error")
	require.NoError(t, err)

	analyzer, err := ats.NewAnalyzer(ats.DefaultConfig(), nil, logger)
	require.NoError(t, err)

	appCfg := &config.Config{}
	appCfg.Observability.HealthCheck.Timeout = time.Second
	appCfg.App.MaxFileSize = 1 << 20
	appCfg.App.AllowedFileTypes = []string{".pdf", ".docx", ".txt"}

	srv := &Server{
		Version:        "test",
		AppConfig:      appCfg,
		APIKeys:        map[string]bool{},
		MaxRequestSize: 1 << 20,
		Analyzer:       analyzer,
		Extractor:      extract.New(appCfg.App.MaxFileSize, appCfg.App.AllowedFileTypes, logger),
		Logger:         logger,
	}

	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{Enabled: false}, appCfg)
	require.NoError(t, err)

	return srv, om
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestAnalyzeHandlerMissingResumeText(t *testing.T) {
	srv, om := newTestServer(t)
	handler := srv.createAnalyzeHandler(om)

	rec := postJSON(t, handler, "/analyze", AnalyzeRequest{ResumeText: "   "})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Missing resume text", resp.Error)
}

func TestAnalyzeHandlerRejectsWrongContentType(t *testing.T) {
	srv, om := newTestServer(t)
	handler := srv.createAnalyzeHandler(om)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("resume"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeHandlerRejectsNonResume(t *testing.T) {
	srv, om := newTestServer(t)
	handler := srv.createAnalyzeHandler(om)

	rec := postJSON(t, handler, "/analyze", AnalyzeRequest{
		ResumeText: "Shopping list\nmilk\neggs\nbread\nbananas\ncoffee beans\n",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, errors.ErrCodeNotAResume, resp.Code)
}

func TestAnalyzeHandlerSuccess(t *testing.T) {
	srv, om := newTestServer(t)
	handler := srv.createAnalyzeHandler(om)

	rec := postJSON(t, handler, "/analyze", AnalyzeRequest{
		ResumeText:     testResume,
		JobTitle:       "Backend Engineer",
		JobDescription: "Looking for a backend engineer with Go, PostgreSQL and Kubernetes experience.",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result types.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.GreaterOrEqual(t, result.OverallScore, 0)
	assert.LessOrEqual(t, result.OverallScore, 100)
	assert.Greater(t, result.WordCount, 0)
	assert.Greater(t, result.TotalKeywords, 0)
}

func TestAnalyzeHandlerDeterministic(t *testing.T) {
	srv, om := newTestServer(t)
	handler := srv.createAnalyzeHandler(om)

	req := AnalyzeRequest{
		ResumeText:     testResume,
		JobDescription: "Go engineer with Docker and AWS experience.",
	}

	first := postJSON(t, handler, "/analyze", req)
	second := postJSON(t, handler, "/analyze", req)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestKeywordsHandlerMissingJobDescription(t *testing.T) {
	srv, om := newTestServer(t)
	handler := srv.createKeywordsHandler(om)

	rec := postJSON(t, handler, "/keywords", KeywordRequest{ResumeText: testResume})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Missing job description", resp.Error)
}

func TestKeywordsHandlerSuccess(t *testing.T) {
	srv, om := newTestServer(t)
	handler := srv.createKeywordsHandler(om)

	rec := postJSON(t, handler, "/keywords", KeywordRequest{
		ResumeText:     testResume,
		JobDescription: "Go engineer with PostgreSQL, Redis and Kubernetes experience.",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result types.KeywordAnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Greater(t, result.TotalKeywords, 0)
	assert.GreaterOrEqual(t, result.KeywordMatch, 0)
	assert.LessOrEqual(t, result.KeywordMatch, 100)
}

func TestHistoryHandlersWithoutStorage(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	rec := httptest.NewRecorder()
	srv.listHistoryHandler(rec, req)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/history/0d9f9aa2-93c2-4d34-a1b3-0cbe72de56a1", nil)
	rec = httptest.NewRecorder()
	srv.historyItemHandler(rec, req)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.APIKeys = map[string]bool{"valid-test-key-123": true}

	called := false
	handler := srv.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	// No key
	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)

	// Invalid key
	req = httptest.NewRequest(http.MethodPost, "/analyze", nil)
	req.Header.Set("X-API-Key", "wrong-key")
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)

	// Valid key via header
	req = httptest.NewRequest(http.MethodPost, "/analyze", nil)
	req.Header.Set("X-API-Key", "valid-test-key-123")
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)

	// Valid key via bearer token
	called = false
	req = httptest.NewRequest(http.MethodPost, "/analyze", nil)
	req.Header.Set("Authorization", "Bearer valid-test-key-123")
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "empty document",
			err:        errors.NewValidationError(errors.ErrCodeEmptyDocument, "empty", nil),
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeEmptyDocument,
		},
		{
			name:       "not a resume",
			err:        errors.NewAnalysisError(errors.ErrCodeNotAResume, "not a resume", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   errors.ErrCodeNotAResume,
		},
		{
			name:       "unsupported file type",
			err:        errors.NewValidationError(errors.ErrCodeUnsupportedFileType, "bad type", nil),
			wantStatus: http.StatusUnsupportedMediaType,
			wantCode:   errors.ErrCodeUnsupportedFileType,
		},
		{
			name:       "file too large",
			err:        errors.NewValidationError(errors.ErrCodeFileTooLarge, "too big", nil),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   errors.ErrCodeFileTooLarge,
		},
		{
			name:       "not found",
			err:        errors.NewStorageError(errors.ErrCodeNotFound, "missing", nil),
			wantStatus: http.StatusNotFound,
			wantCode:   errors.ErrCodeNotFound,
		},
		{
			name:       "storage unavailable",
			err:        errors.NewStorageError(errors.ErrCodeStorageUnavailable, "down", nil),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   errors.ErrCodeStorageUnavailable,
		},
		{
			name:       "plain error",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
			wantCode:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := statusForError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestHealthHandlerHealthy(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.healthHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "atscan", resp["service"])

	storage, ok := resp["storage"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, storage["enabled"])
}

func TestStatsHandler(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	srv.statsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "atscan", resp["service"])
}
