package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "billingdash/internal/errors"
)

type uploadName struct {
	Filename string `json:"filename" validate:"required,filename,workbook"`
}

func TestValidator_ValidateStruct(t *testing.T) {
	v := NewValidator(discardLogger())

	tests := []struct {
		name      string
		filename  string
		wantErr   bool
		wantField string
	}{
		{name: "xlsx", filename: "billing_2025.xlsx"},
		{name: "xlsx upper case", filename: "BILLING.XLSX"},
		{name: "legacy xls", filename: "billing.xls", wantErr: true, wantField: "filename"},
		{name: "empty", filename: "", wantErr: true, wantField: "filename"},
		{name: "traversal", filename: "../etc/passwd.xlsx", wantErr: true, wantField: "filename"},
		{name: "backslash", filename: `dir\a.xlsx`, wantErr: true, wantField: "filename"},
		{name: "too long", filename: strings.Repeat("a", 300) + ".xlsx", wantErr: true, wantField: "filename"},
		{name: "csv", filename: "billing.csv", wantErr: true, wantField: "filename"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(uploadName{Filename: tt.filename})
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var apiErr *apierrors.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			details, ok := apiErr.Details.([]apierrors.ValidationError)
			require.True(t, ok)
			require.NotEmpty(t, details)
			assert.Equal(t, tt.wantField, details[0].Field)
		})
	}
}

func TestContentTypeValidator(t *testing.T) {
	errorHandler := apierrors.NewErrorHandler(discardLogger(), false)
	h := ContentTypeValidator(errorHandler, "multipart/form-data")(http.HandlerFunc(okHandler))

	tests := []struct {
		name        string
		method      string
		contentType string
		want        int
	}{
		{"multipart", http.MethodPost, "multipart/form-data; boundary=x", http.StatusOK},
		{"missing", http.MethodPost, "", http.StatusBadRequest},
		{"json", http.MethodPost, "application/json", http.StatusUnsupportedMediaType},
		{"get skipped", http.MethodGet, "", http.StatusOK},
		{"delete skipped", http.MethodDelete, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/uploads", nil)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
