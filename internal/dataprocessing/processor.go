package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"

	"billingdash/internal/infrastructure"
	"billingdash/pkg/contracts/domain"
)

const (
	// DefaultPrimarySheet is the billing sheet name.
	DefaultPrimarySheet = "Billed_2025"
	// DefaultMilestoneSheet is the milestone sheet name; trailing whitespace
	// in the workbook is tolerated.
	DefaultMilestoneSheet = "Milestone Status"
)

var (
	// ErrWorkbookUnreadable is returned when the file is not a readable workbook.
	ErrWorkbookUnreadable = errors.New("workbook could not be read")
	// ErrSheetNotFound is returned when a required worksheet is missing.
	ErrSheetNotFound = errors.New("worksheet not found")
)

// Options configures which sheets the processor reads.
type Options struct {
	PrimarySheet   string
	MilestoneSheet string
}

// DefaultOptions returns the standard sheet names.
func DefaultOptions() Options {
	return Options{
		PrimarySheet:   DefaultPrimarySheet,
		MilestoneSheet: DefaultMilestoneSheet,
	}
}

// Workbook holds the two tables the pipeline reads.
type Workbook struct {
	Primary   *Table
	Milestone *Table
}

// Processor runs the metrics pipeline over billing workbooks.
// It holds no per-request state and is safe for concurrent use.
type Processor struct {
	opts   Options
	logger *slog.Logger
}

// NewProcessor creates a processor. Empty sheet names fall back to the defaults.
func NewProcessor(opts Options, logger *slog.Logger) *Processor {
	if opts.PrimarySheet == "" {
		opts.PrimarySheet = DefaultPrimarySheet
	}
	if opts.MilestoneSheet == "" {
		opts.MilestoneSheet = DefaultMilestoneSheet
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		opts:   opts,
		logger: infrastructure.WithComponent(logger, "processor"),
	}
}

// Process reads the workbook at path and returns its metrics model.
// Load failures are reported through the model's Error field.
func (p *Processor) Process(ctx context.Context, path string) *domain.MetricsModel {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return p.fail(ctx, path, fmt.Errorf("%w: %v", ErrWorkbookUnreadable, err))
	}
	defer f.Close()
	return p.processFile(ctx, path, f)
}

// ProcessReader is Process for an already opened stream.
func (p *Processor) ProcessReader(ctx context.Context, name string, r io.Reader) *domain.MetricsModel {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return p.fail(ctx, name, fmt.Errorf("%w: %v", ErrWorkbookUnreadable, err))
	}
	defer f.Close()
	return p.processFile(ctx, name, f)
}

func (p *Processor) processFile(ctx context.Context, name string, f *excelize.File) *domain.MetricsModel {
	wb, err := p.Load(f)
	if err != nil {
		return p.fail(ctx, name, err)
	}

	p.logger.InfoContext(ctx, "workbook loaded",
		slog.String("file", name),
		slog.Int("billing_rows", wb.Primary.Len()),
		slog.Int("milestone_rows", wb.Milestone.Len()))

	model, err := p.Aggregate(ctx, wb)
	if err != nil {
		return p.fail(ctx, name, err)
	}
	return model
}

// Load reads the billing and milestone sheets of an open workbook.
func (p *Processor) Load(f *excelize.File) (*Workbook, error) {
	primaryName, ok := findSheet(f.GetSheetList(), p.opts.PrimarySheet, false)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, p.opts.PrimarySheet)
	}
	milestoneName, ok := findSheet(f.GetSheetList(), p.opts.MilestoneSheet, true)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, p.opts.MilestoneSheet)
	}

	primary, err := LoadTable(f, primaryName)
	if err != nil {
		return nil, err
	}
	milestone, err := LoadTable(f, milestoneName)
	if err != nil {
		return nil, err
	}
	return &Workbook{Primary: primary, Milestone: milestone}, nil
}

// Aggregate runs every aggregator over a loaded workbook and merges the
// results. Each aggregator writes its own keys; earlier keys always win.
// The context is checked between steps.
func (p *Processor) Aggregate(ctx context.Context, wb *Workbook) (model *domain.MetricsModel, err error) {
	defer func() {
		if r := recover(); r != nil {
			model, err = nil, fmt.Errorf("aggregation failed: %v", r)
		}
	}()

	primaryCols := ResolveColumns(wb.Primary)
	milestoneCols := ResolveColumns(wb.Milestone)

	p.logger.DebugContext(ctx, "columns resolved",
		slog.Any("billing", primaryCols.Resolved()),
		slog.Any("milestone", milestoneCols.Resolved()))

	steps := []struct {
		name string
		run  func() *domain.MetricsModel
	}{
		{"billing", func() *domain.MetricsModel { return AggregateBilling(wb.Primary, primaryCols) }},
		{"milestone", func() *domain.MetricsModel {
			if wb.Milestone.Empty() || !milestoneCols.Has(RoleMilestoneStatus) {
				return nil
			}
			out := AggregateMilestones(wb.Milestone, milestoneCols)
			out.Merge(CheckLinkage(primaryCols, milestoneCols))
			return out
		}},
		{"resources", func() *domain.MetricsModel { return AggregateResources(wb.Primary, primaryCols) }},
		{"comparison", func() *domain.MetricsModel { return AggregateComparison(wb.Primary, primaryCols) }},
	}

	model = &domain.MetricsModel{}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("processing cancelled before %s step: %w", step.name, err)
		}
		model.Merge(step.run())
	}
	return model, nil
}

func (p *Processor) fail(ctx context.Context, name string, err error) *domain.MetricsModel {
	p.logger.ErrorContext(ctx, "workbook processing failed",
		slog.String("file", name),
		slog.String("error", err.Error()))
	return domain.NewErrorModel(err.Error())
}

// findSheet looks a sheet up by exact name, or ignoring trailing whitespace
// when tolerant is set.
func findSheet(sheets []string, want string, tolerant bool) (string, bool) {
	for _, s := range sheets {
		if s == want {
			return s, true
		}
	}
	if !tolerant {
		return "", false
	}
	want = strings.TrimRightFunc(want, unicode.IsSpace)
	for _, s := range sheets {
		if strings.TrimRightFunc(s, unicode.IsSpace) == want {
			return s, true
		}
	}
	return "", false
}
