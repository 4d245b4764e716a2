package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"billingdash/internal/config"
	"billingdash/internal/dataprocessing"
	"billingdash/internal/exporter"
	"billingdash/internal/files"
	"billingdash/internal/infrastructure"
	"billingdash/pkg/contracts"
	"billingdash/pkg/contracts/domain"
)

// errFailedWorkbooks is returned when at least one workbook produced an error model.
var errFailedWorkbooks = errors.New("workbooks failed")

const (
	formatJSON = "json"
	formatCSV  = "csv"
)

type options struct {
	outDir         string
	pretty         bool
	format         string
	primarySheet   string
	milestoneSheet string
	concurrency    int
	logLevel       string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "processor [workbook|directory...]",
		Short: "Compute billing and milestone metrics for Excel workbooks",
		Long: `processor runs the metrics pipeline over each workbook and writes the
resulting metrics model as JSON. Directories are expanded to the workbooks
they contain, oldest first.`,
		Version:      contracts.GetFullVersionString(),
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := infrastructure.NewLoggerWithWriter(config.LoggingConfig{
				Level:  opts.logLevel,
				Format: "text",
			}, stderr)
			return run(cmd.Context(), opts, args, stdout, logger)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "Output directory for per-workbook JSON files (default: stdout)")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatJSON, "Output format: json, or csv (requires --out)")
	cmd.Flags().StringVar(&opts.primarySheet, "primary-sheet", dataprocessing.DefaultPrimarySheet, "Name of the billing sheet")
	cmd.Flags().StringVar(&opts.milestoneSheet, "milestone-sheet", dataprocessing.DefaultMilestoneSheet, "Name of the milestone sheet")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "c", runtime.NumCPU(), "Number of workbooks processed at once")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

func run(ctx context.Context, opts options, args []string, stdout io.Writer, logger *slog.Logger) error {
	switch opts.format {
	case formatJSON:
	case formatCSV:
		if opts.outDir == "" {
			return errors.New("--format csv requires --out")
		}
	default:
		return fmt.Errorf("invalid format: %s (must be json or csv)", opts.format)
	}

	paths, err := files.ExpandWorkbooks(args)
	if err != nil {
		return fmt.Errorf("failed to expand arguments: %w", err)
	}
	if len(paths) == 0 {
		return errors.New("no workbooks found")
	}

	if opts.outDir != "" {
		if err := checkOutputNames(paths); err != nil {
			return err
		}
		if err := os.MkdirAll(opts.outDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	processor := dataprocessing.NewProcessor(dataprocessing.Options{
		PrimarySheet:   opts.primarySheet,
		MilestoneSheet: opts.milestoneSheet,
	}, logger)

	start := time.Now()
	models := make([]*domain.MetricsModel, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.concurrency, 1))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			models[i] = processor.Process(gctx, path)
			if opts.outDir == "" {
				return nil
			}
			if opts.format == formatCSV {
				return writeReports(opts.outDir, path, models[i])
			}
			return writeModel(filepath.Join(opts.outDir, outputName(path)), models[i], opts.pretty)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.outDir == "" {
		if err := printModels(stdout, paths, models, opts.pretty); err != nil {
			return err
		}
	}

	failed := 0
	for i, m := range models {
		if m.Failed() {
			failed++
			logger.Warn("workbook rejected",
				slog.String("file", paths[i]),
				slog.String("error", m.Error))
		}
	}

	logger.Info("batch complete",
		slog.Int("workbooks", len(paths)),
		slog.Int("failed", failed),
		slog.Duration("duration", time.Since(start)))

	if failed > 0 {
		return fmt.Errorf("%d of %d %w", failed, len(paths), errFailedWorkbooks)
	}
	return nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// outputName maps a workbook path to its JSON file name.
func outputName(path string) string {
	return stem(path) + ".json"
}

// checkOutputNames rejects inputs that would write the same output file.
func checkOutputNames(paths []string) error {
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		name := outputName(p)
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("%s and %s both write %s", prev, p, name)
		}
		seen[name] = p
	}
	return nil
}

func marshal(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

func writeModel(path string, model *domain.MetricsModel, pretty bool) error {
	data, err := marshal(model, pretty)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// writeReports writes every CSV report of a model as <stem>_<report>.csv.
// Failed models have no reports.
func writeReports(dir, path string, model *domain.MetricsModel) error {
	if model.Failed() {
		return nil
	}
	writer := exporter.NewCSVWriter(true)
	for _, report := range exporter.Reports() {
		table, err := exporter.Build(report, model)
		if err != nil {
			return fmt.Errorf("failed to build %s report for %s: %w", report, path, err)
		}
		name := fmt.Sprintf("%s_%s.csv", stem(path), report)
		if err := writer.WriteFile(filepath.Join(dir, name), table); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

// printModels writes one model as-is, or several keyed by their input path.
func printModels(w io.Writer, paths []string, models []*domain.MetricsModel, pretty bool) error {
	var v any = models[0]
	if len(models) > 1 {
		byPath := make(map[string]*domain.MetricsModel, len(models))
		for i, p := range paths {
			byPath[p] = models[i]
		}
		v = byPath
	}

	data, err := marshal(v, pretty)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
