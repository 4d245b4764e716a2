package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	apierrors "billingdash/internal/errors"
	"billingdash/internal/services"
)

func TestHealthHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		uploadDir  func(t *testing.T) string
		handler    func(h *HealthHandler) http.HandlerFunc
		wantStatus int
		wantBody   string
	}{
		{
			name:       "healthy",
			uploadDir:  func(t *testing.T) string { return t.TempDir() },
			handler:    func(h *HealthHandler) http.HandlerFunc { return h.HealthCheck },
			wantStatus: http.StatusOK,
			wantBody:   `"status":"ok"`,
		},
		{
			name:       "degraded",
			uploadDir:  func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing") },
			handler:    func(h *HealthHandler) http.HandlerFunc { return h.HealthCheck },
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `"status":"degraded"`,
		},
		{
			name:       "liveness ignores storage",
			uploadDir:  func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing") },
			handler:    func(h *HealthHandler) http.HandlerFunc { return h.LivenessCheck },
			wantStatus: http.StatusOK,
			wantBody:   `"status":"alive"`,
		},
		{
			name:       "version",
			uploadDir:  func(t *testing.T) string { return t.TempDir() },
			handler:    func(h *HealthHandler) http.HandlerFunc { return h.Version },
			wantStatus: http.StatusOK,
			wantBody:   `"version":"9.9.9"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(services.NewHealthService("9.9.9", tt.uploadDir(t), logger), logger)
			rec := httptest.NewRecorder()
			tt.handler(h)(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestMetricsHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	errorHandler := apierrors.NewErrorHandler(logger, false)

	disabled := NewMetricsHandler(nil, errorHandler)
	rec := httptest.NewRecorder()
	disabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	enabled := NewMetricsHandler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# HELP up"))
	}), errorHandler)
	rec = httptest.NewRecorder()
	enabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# HELP up", rec.Body.String())
}
