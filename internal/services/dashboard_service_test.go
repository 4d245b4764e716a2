package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"billingdash/internal/config"
	"billingdash/internal/dataprocessing"
	apierrors "billingdash/internal/errors"
	"billingdash/internal/files"
	"billingdash/internal/shared/testutil"
	"billingdash/pkg/contracts/domain"
)

// MockProcessor is a mock implementation of WorkbookProcessor
type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) Process(ctx context.Context, path string) *domain.MetricsModel {
	args := m.Called(path)
	return args.Get(0).(*domain.MetricsModel)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStore(t *testing.T) *files.Manager {
	t.Helper()
	store, err := files.NewManager(config.StorageConfig{
		UploadDir:         t.TempDir(),
		AllowedExtensions: []string{"xlsx"},
	}, discardLogger())
	require.NoError(t, err)
	return store
}

func sampleModel() *domain.MetricsModel {
	return &domain.MetricsModel{
		TotalAllocated: domain.Some(40.0),
		Resources: []domain.ResourceRecord{
			{Name: "A", Department: domain.Some("Eng"), Projects: []domain.ProjectAssignment{{Name: "P1"}}},
			{Name: "B", Department: domain.Null[string](), Projects: []domain.ProjectAssignment{{Name: "P2"}}},
		},
	}
}

func TestDashboardService_Upload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
		wantErr  error
	}{
		{name: "stored", filename: "Billing 2025.xlsx", want: "Billing_2025.xlsx"},
		{name: "wrong type", filename: "billing.pdf", wantErr: ErrInvalidFileType},
		{name: "unusable name", filename: "€.xlsx", wantErr: ErrInvalidFilename},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewDashboardService(newStore(t), new(MockProcessor), discardLogger())

			res, err := svc.Upload(context.Background(), tt.filename, strings.NewReader("data"))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Filename)
		})
	}
}

func TestDashboardService_Metrics(t *testing.T) {
	store := newStore(t)
	_, err := store.Save("ok.xlsx", strings.NewReader("x"))
	require.NoError(t, err)
	_, err = store.Save("bad.xlsx", strings.NewReader("x"))
	require.NoError(t, err)

	proc := new(MockProcessor)
	proc.On("Process", filepath.Join(store.Dir(), "ok.xlsx")).Return(sampleModel())
	proc.On("Process", filepath.Join(store.Dir(), "bad.xlsx")).Return(domain.NewErrorModel("worksheet named 'Billed_2025' not found"))

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	svc := NewDashboardService(store, proc, discardLogger(), WithTracer(tp.Tracer("test")))

	model, err := svc.Metrics(context.Background(), "ok.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 40.0, model.TotalAllocated.Or(0))

	_, err = svc.Metrics(context.Background(), "bad.xlsx")
	var wbErr *WorkbookError
	require.ErrorAs(t, err, &wbErr)
	assert.Equal(t, "worksheet named 'Billed_2025' not found", wbErr.Message)
	assert.Equal(t, "bad.xlsx", wbErr.Filename)

	_, err = svc.Metrics(context.Background(), "missing.xlsx")
	assert.ErrorIs(t, err, ErrUploadNotFound)
	var appErr *apierrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apierrors.ErrTypeNotFound, appErr.Type)
	assert.Equal(t, "File missing.xlsx not found", appErr.Message)

	_, err = svc.Metrics(context.Background(), "../escape.xlsx")
	assert.ErrorIs(t, err, ErrInvalidFilename)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apierrors.ErrTypeValidation, appErr.Type)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "workbook.process", spans[0].Name())
	proc.AssertExpectations(t)
}

func TestDashboardService_Resources(t *testing.T) {
	store := newStore(t)
	for _, name := range []string{"full.xlsx", "nores.xlsx"} {
		_, err := store.Save(name, strings.NewReader("x"))
		require.NoError(t, err)
	}

	proc := new(MockProcessor)
	proc.On("Process", filepath.Join(store.Dir(), "full.xlsx")).Return(sampleModel())
	proc.On("Process", filepath.Join(store.Dir(), "nores.xlsx")).Return(&domain.MetricsModel{TotalAllocated: domain.Some(1.0)})
	svc := NewDashboardService(store, proc, discardLogger())
	ctx := context.Background()

	list, err := svc.Resources(ctx, "full.xlsx")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.Resources(ctx, "nores.xlsx")
	assert.ErrorIs(t, err, ErrNoResourceData)

	record, err := svc.Resource(ctx, "full.xlsx", "B")
	require.NoError(t, err)
	assert.True(t, record.Department.IsNull())

	_, err = svc.Resource(ctx, "full.xlsx", "b")
	assert.ErrorIs(t, err, ErrResourceNotFound, "names match exactly")

	_, err = svc.Resource(ctx, "nores.xlsx", "A")
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestDashboardService_DeleteAndList(t *testing.T) {
	store := newStore(t)
	svc := NewDashboardService(store, new(MockProcessor), discardLogger())
	ctx := context.Background()

	_, err := svc.Upload(ctx, "a.xlsx", strings.NewReader("x"))
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a.xlsx", list[0].Name)

	require.NoError(t, svc.Delete(ctx, "a.xlsx"))
	assert.ErrorIs(t, svc.Delete(ctx, "a.xlsx"), ErrUploadNotFound)

	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// slowProcessor blocks until the context is done
type slowProcessor struct{}

func (slowProcessor) Process(ctx context.Context, _ string) *domain.MetricsModel {
	<-ctx.Done()
	return domain.NewErrorModel(ctx.Err().Error())
}

func TestDashboardService_ProcessTimeout(t *testing.T) {
	store := newStore(t)
	_, err := store.Save("a.xlsx", strings.NewReader("x"))
	require.NoError(t, err)

	svc := NewDashboardService(store, slowProcessor{}, discardLogger(), WithProcessTimeout(10*time.Millisecond))

	_, err = svc.Metrics(context.Background(), "a.xlsx")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	var wbErr *WorkbookError
	assert.False(t, errors.As(err, &wbErr))
}

func TestDashboardService_WithRealPipeline(t *testing.T) {
	store := newStore(t)

	data := testutil.WorkbookBytes(t,
		testutil.Sheet{Name: dataprocessing.DefaultPrimarySheet, Rows: [][]any{
			{"Resource", "Department", "Project Name", "Allocated Days 2025", "Utilized Days 2025 (Project Plan)"},
			{"Ana", "Eng", "Apollo", 10, 8},
			{"Ben", "Ops", "Zeus", 10, 2},
		}},
		testutil.Sheet{Name: dataprocessing.DefaultMilestoneSheet},
	)

	svc := NewDashboardService(store,
		dataprocessing.NewProcessor(dataprocessing.DefaultOptions(), discardLogger()),
		discardLogger())
	ctx := context.Background()

	_, err := svc.Upload(ctx, "real.xlsx", bytes.NewReader(data))
	require.NoError(t, err)

	model, err := svc.Metrics(ctx, "real.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 20.0, model.TotalAllocated.Or(0))
	assert.Equal(t, 50.0, model.UtilizationRate.Or(0))

	record, err := svc.Resource(ctx, "real.xlsx", "Ana")
	require.NoError(t, err)
	assert.Equal(t, "Eng", record.Department.Or(""))
}
