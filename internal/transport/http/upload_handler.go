package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "billingdash/internal/errors"
	"billingdash/internal/exporter"
	"billingdash/internal/infrastructure"
	"billingdash/internal/middleware"
	"billingdash/internal/services"
)

type ctxKey string

const filenameKey ctxKey = "filename"

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temp files.
const multipartMemory = 8 << 20

// filenameParam is validated with the custom filename tag
type filenameParam struct {
	Filename string `json:"filename" validate:"required,filename,workbook"`
}

// UploadHandler handles workbook upload and metrics requests with RFC 7807 compliance
type UploadHandler struct {
	service        DashboardServiceInterface
	validator      *middleware.Validator
	errorHandler   *apierrors.ErrorHandler
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(service DashboardServiceInterface, validator *middleware.Validator, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		service:        service,
		validator:      validator,
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
		logger:         infrastructure.WithComponent(logger, "upload_handler"),
	}
}

// Routes returns the upload routes
func (h *UploadHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.With(middleware.ContentTypeValidator(h.errorHandler, "multipart/form-data")).Post("/", h.Upload)
	r.Get("/", h.List)

	r.Route("/{filename}", func(r chi.Router) {
		r.Use(h.FilenameCtx)
		r.Get("/metrics", h.Metrics)
		r.Get("/resources", h.Resources)
		r.Get("/resources/{name}", h.Resource)
		r.Get("/export/{report}", h.Export)
		r.Delete("/", h.Delete)
	})

	return r
}

// FilenameCtx validates the filename path parameter and stores it in context
func (h *UploadHandler) FilenameCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		param := filenameParam{Filename: chi.URLParam(r, "filename")}
		if err := h.validator.ValidateStruct(param); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), filenameKey, param.Filename)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func filenameFrom(r *http.Request) string {
	name, _ := r.Context().Value(filenameKey).(string)
	return name
}

// Upload handles POST /api/uploads
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		if r.ContentLength > h.maxUploadBytes {
			h.errorHandler.HandleError(w, r, apierrors.PayloadTooLarge(h.maxUploadBytes))
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler.HandleError(w, r, apierrors.PayloadTooLarge(h.maxUploadBytes))
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrNoFile)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "No selected file"))
		return
	}

	result, err := h.service.Upload(r.Context(), header.Filename, file)
	if err != nil {
		h.handleServiceError(w, r, header.Filename, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/uploads/%s/metrics", result.Filename))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, result)
}

// List handles GET /api/uploads
func (h *UploadHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{
		"uploads": list,
		"count":   len(list),
	})
}

// Metrics handles GET /api/uploads/{filename}/metrics
func (h *UploadHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	filename := filenameFrom(r)
	model, err := h.service.Metrics(r.Context(), filename)
	if err != nil {
		h.handleServiceError(w, r, filename, err)
		return
	}
	render.JSON(w, r, model)
}

// Resources handles GET /api/uploads/{filename}/resources
func (h *UploadHandler) Resources(w http.ResponseWriter, r *http.Request) {
	filename := filenameFrom(r)
	resources, err := h.service.Resources(r.Context(), filename)
	if err != nil {
		h.handleServiceError(w, r, filename, err)
		return
	}
	render.JSON(w, r, map[string]any{"resources": resources})
}

// Resource handles GET /api/uploads/{filename}/resources/{name}
func (h *UploadHandler) Resource(w http.ResponseWriter, r *http.Request) {
	filename := filenameFrom(r)
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	if name == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("name", "Resource name is required"))
		return
	}

	record, err := h.service.Resource(r.Context(), filename, name)
	if err != nil {
		h.handleServiceError(w, r, filename, err)
		return
	}
	render.JSON(w, r, record)
}

// Export handles GET /api/uploads/{filename}/export/{report} and streams the
// report as a CSV attachment.
func (h *UploadHandler) Export(w http.ResponseWriter, r *http.Request) {
	filename := filenameFrom(r)
	report, err := exporter.ParseReport(chi.URLParam(r, "report"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError(fmt.Sprintf("Report %s", chi.URLParam(r, "report"))))
		return
	}

	model, err := h.service.Metrics(r.Context(), filename)
	if err != nil {
		h.handleServiceError(w, r, filename, err)
		return
	}

	table, err := exporter.Build(report, model)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_%s.csv"`, stem, report))
	if err := exporter.NewCSVWriter(true).Write(w, table); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write export",
			slog.String("filename", filename),
			slog.String("report", string(report)),
			slog.String("error", err.Error()))
	}
}

// Delete handles DELETE /api/uploads/{filename}
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	filename := filenameFrom(r)
	if err := h.service.Delete(r.Context(), filename); err != nil {
		h.handleServiceError(w, r, filename, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps service errors to API errors. Storage errors
// already carry an *apierrors.AppError and are passed through.
func (h *UploadHandler) handleServiceError(w http.ResponseWriter, r *http.Request, filename string, err error) {
	var wbErr *services.WorkbookError
	switch {
	case errors.As(err, &wbErr):
		err = apierrors.WorkbookRejected(wbErr.Message)
	case errors.Is(err, services.ErrInvalidFileType):
		err = apierrors.UnsupportedFileType(filename, h.service.AllowedExtensions())
	case errors.Is(err, services.ErrNoResourceData):
		err = apierrors.New(http.StatusNotFound, apierrors.CodeNotFound, "No resource data available")
	case errors.Is(err, services.ErrResourceNotFound):
		err = apierrors.NotFoundError(fmt.Sprintf("Resource %s", chi.URLParam(r, "name")))
	}
	h.errorHandler.HandleError(w, r, err)
}
