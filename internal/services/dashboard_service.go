package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"billingdash/internal/files"
	"billingdash/internal/infrastructure"
	"billingdash/pkg/contracts/domain"
)

// WorkbookProcessor turns a workbook on disk into a metrics model.
// A structural failure is reported through the model, never as a Go error.
type WorkbookProcessor interface {
	Process(ctx context.Context, path string) *domain.MetricsModel
}

// UploadResult is returned after a workbook has been stored
type UploadResult struct {
	Filename string `json:"filename"`
}

// DashboardService serves uploads and the models computed from them
type DashboardService struct {
	files     *files.Manager
	processor WorkbookProcessor
	tracer    trace.Tracer
	metrics   *infrastructure.PipelineMetrics
	timeout   time.Duration
	logger    *slog.Logger
}

// DashboardOption customises a DashboardService
type DashboardOption func(*DashboardService)

// WithTracer sets the tracer used around pipeline runs
func WithTracer(tracer trace.Tracer) DashboardOption {
	return func(s *DashboardService) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithMetrics sets the instruments updated by uploads and pipeline runs
func WithMetrics(metrics *infrastructure.PipelineMetrics) DashboardOption {
	return func(s *DashboardService) {
		s.metrics = metrics
	}
}

// WithProcessTimeout bounds each pipeline run. Zero disables the bound.
func WithProcessTimeout(timeout time.Duration) DashboardOption {
	return func(s *DashboardService) {
		s.timeout = timeout
	}
}

// NewDashboardService creates a dashboard service
func NewDashboardService(store *files.Manager, processor WorkbookProcessor, logger *slog.Logger, opts ...DashboardOption) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &DashboardService{
		files:     store,
		processor: processor,
		tracer:    tracenoop.NewTracerProvider().Tracer(infrastructure.InstrumentationName),
		logger:    logger.With(slog.String("service", "dashboard")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload stores a workbook under its sanitised name
func (s *DashboardService) Upload(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	stored, err := s.files.Save(filename, r)
	if err != nil {
		s.metrics.RecordUpload(ctx, false)
		switch {
		case errors.Is(err, files.ErrUnsupportedType):
			return nil, fmt.Errorf("%w: %w", ErrInvalidFileType, err)
		case errors.Is(err, files.ErrInvalidFilename):
			return nil, fmt.Errorf("%w: %w", ErrInvalidFilename, err)
		default:
			return nil, err
		}
	}

	s.metrics.RecordUpload(ctx, true)
	s.logger.InfoContext(ctx, "workbook uploaded",
		slog.String("original_name", filename),
		slog.String("filename", stored))
	return &UploadResult{Filename: stored}, nil
}

// AllowedExtensions returns the accepted upload extensions
func (s *DashboardService) AllowedExtensions() []string {
	exts := s.files.AllowedExtensions()
	sort.Strings(exts)
	return exts
}

// List returns the stored workbooks, newest first
func (s *DashboardService) List(ctx context.Context) ([]files.FileInfo, error) {
	list, err := s.files.List()
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "uploads listed", slog.Int("count", len(list)))
	return list, nil
}

// Metrics recomputes the model for an uploaded workbook. A model carrying an
// error is returned as *WorkbookError.
func (s *DashboardService) Metrics(ctx context.Context, filename string) (*domain.MetricsModel, error) {
	path, err := s.files.Open(filename)
	if err != nil {
		return nil, s.mapFileError(err)
	}

	model, err := s.process(ctx, filename, path)
	if err != nil {
		return nil, err
	}
	if model.Failed() {
		return nil, &WorkbookError{Filename: filename, Message: model.Error}
	}
	return model, nil
}

// Resources returns the resource list of a workbook
func (s *DashboardService) Resources(ctx context.Context, filename string) ([]domain.ResourceRecord, error) {
	model, err := s.Metrics(ctx, filename)
	if err != nil {
		return nil, err
	}
	if model.Resources == nil {
		return nil, ErrNoResourceData
	}
	return model.Resources, nil
}

// Resource returns one resource of a workbook by exact name
func (s *DashboardService) Resource(ctx context.Context, filename, name string) (*domain.ResourceRecord, error) {
	model, err := s.Metrics(ctx, filename)
	if err != nil {
		return nil, err
	}
	record, ok := model.FindResource(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
	}
	return record, nil
}

// Delete removes an uploaded workbook
func (s *DashboardService) Delete(ctx context.Context, filename string) error {
	if err := s.files.Delete(filename); err != nil {
		return s.mapFileError(err)
	}
	s.logger.InfoContext(ctx, "workbook deleted", slog.String("filename", filename))
	return nil
}

// process runs the pipeline inside a span and records its outcome
func (s *DashboardService) process(ctx context.Context, filename, path string) (*domain.MetricsModel, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ctx, span := s.tracer.Start(ctx, "workbook.process",
		trace.WithAttributes(attribute.String("workbook.filename", filename)))
	defer span.End()

	start := time.Now()
	model := s.processor.Process(ctx, path)
	duration := time.Since(start)

	// A deadline that fired mid-run surfaces as a timeout, not a bad workbook.
	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "processing timed out")
		return nil, fmt.Errorf("processing %s: %w", filename, err)
	}

	s.metrics.RecordProcessing(ctx, duration, model.Failed(), len(model.Resources))
	span.SetAttributes(
		attribute.Bool("workbook.failed", model.Failed()),
		attribute.Int("workbook.resources", len(model.Resources)),
	)
	if model.Failed() {
		span.SetStatus(codes.Error, model.Error)
		s.logger.WarnContext(ctx, "workbook rejected",
			slog.String("filename", filename),
			slog.String("error", model.Error))
	} else {
		s.logger.InfoContext(ctx, "workbook processed",
			slog.String("filename", filename),
			slog.Duration("duration", duration))
	}
	return model, nil
}

// mapFileError tags storage failures with the service sentinels. The
// underlying *apierrors.AppError stays in the chain for the HTTP layer.
func (s *DashboardService) mapFileError(err error) error {
	switch {
	case errors.Is(err, files.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrUploadNotFound, err)
	case errors.Is(err, files.ErrInvalidFilename):
		return fmt.Errorf("%w: %w", ErrInvalidFilename, err)
	default:
		return err
	}
}
