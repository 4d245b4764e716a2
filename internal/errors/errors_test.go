package errors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusBadRequest, CodeInvalidRequest, "bad input")
	assert.Equal(t, "bad input", err.Error())

	var target *APIError
	wrapped := errors.Join(errors.New("outer"), err)
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, CodeInvalidRequest, target.ErrorCode)
}

func TestAPIError_Render(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	require.NoError(t, render.Render(rec, req, ErrNotFound))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error_code":"NOT_FOUND"`)
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"invalid request", InvalidRequestWithError(errors.New("boom")), http.StatusBadRequest, CodeInvalidRequest, "Invalid request format"},
		{"validation", ErrValidation("filename", "filename is required"), http.StatusBadRequest, CodeValidationFailed, "Request validation failed"},
		{"not found", NotFoundError("Resource A"), http.StatusNotFound, CodeNotFound, "Resource A not found"},
		{"unsupported type", UnsupportedFileType("x.csv", []string{"xlsx"}), http.StatusBadRequest, CodeUnsupportedFileType, "Invalid file type"},
		{"too large", PayloadTooLarge(10), http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "The request body exceeds the maximum allowed size"},
		{"workbook rejected", WorkbookRejected("worksheet not found"), http.StatusUnprocessableEntity, CodeWorkbookRejected, "worksheet not found"},
		{"no file", ErrNoFile, http.StatusBadRequest, CodeInvalidRequest, "No file part in the request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.Equal(t, tt.wantMsg, tt.err.Message)
		})
	}
}

func TestNewValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "filename", Message: "filename is required"},
		{Field: "name", Message: "name is required"},
	})
	details, ok := err.Details.([]ValidationError)
	require.True(t, ok)
	assert.Len(t, details, 2)
}

func TestProblemDetailsJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", "missing", "/api/x").
		WithExtension("request_id", "abc").
		WithExtension("status", 999)

	data, err := pd.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "/errors/not-found",
		"title": "Not Found",
		"status": 404,
		"detail": "missing",
		"instance": "/api/x",
		"request_id": "abc"
	}`, string(data), "extensions never override standard members")

	empty := &ProblemDetails{Type: TypeInternal, Title: "x", Status: 500}
	empty.WithExtension("k", "v")
	data, err = empty.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"/errors/internal","title":"x","status":500,"k":"v"}`, string(data))
}
