package http

import (
	"context"
	"io"

	"billingdash/internal/files"
	"billingdash/internal/services"
	"billingdash/pkg/contracts/domain"
)

// DashboardServiceInterface defines the operations behind the upload routes
type DashboardServiceInterface interface {
	Upload(ctx context.Context, filename string, r io.Reader) (*services.UploadResult, error)
	List(ctx context.Context) ([]files.FileInfo, error)
	Metrics(ctx context.Context, filename string) (*domain.MetricsModel, error)
	Resources(ctx context.Context, filename string) ([]domain.ResourceRecord, error)
	Resource(ctx context.Context, filename, name string) (*domain.ResourceRecord, error)
	Delete(ctx context.Context, filename string) error
	AllowedExtensions() []string
}
