// Command timesheet-clean cleans payroll timesheet exports.
//
// Each input is read, filtered and typed, then written to the export
// directory in the configured format. One JSON summary line per input is
// printed to stdout in argument order; logs go to stderr.
//
// Usage:
//
//	timesheet-clean [flags] <file|dir|glob>...
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"golang.org/x/sync/errgroup"

	"payrollcli/internal/config"
	apierrors "payrollcli/internal/errors"
	"payrollcli/internal/exporter"
	"payrollcli/internal/infrastructure"
	"payrollcli/internal/timesheet"
	"payrollcli/internal/validation"
	"payrollcli/pkg/contracts"
)

// shutdownTimeout bounds the final telemetry flush.
const shutdownTimeout = 5 * time.Second

// fileSummary is the line printed for each input.
type fileSummary struct {
	File      string         `json:"file"`
	TraceID   string         `json:"trace_id"`
	Size      int64          `json:"size"`
	PayPeriod string         `json:"pay_period,omitempty"`
	RowsRead  int            `json:"rows_read"`
	Dropped   map[string]int `json:"dropped,omitempty"`
	Records   int            `json:"records"`
	Anomalies int            `json:"anomalies"`
	Warnings  int            `json:"warnings"`
	Outputs   []string       `json:"outputs,omitempty"`
	Error     string         `json:"error,omitempty"`

	exitCode int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is main without process globals. It returns the exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] <file|dir|glob>...\n\n", config.AppName)
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "path to a YAML config file (default: timesheet.yaml or configs/timesheet.yaml if present)")
	skip := fs.Int("skip", config.DefaultSkipLines, "preamble lines before the header row")
	format := fs.String("format", config.FormatJSON, "export format: json, csv or xlsx")
	outDir := fs.String("out", config.DefaultReportsDir, "export directory")
	tz := fs.String("tz", config.DefaultTimezone, "IANA time zone clock times are recorded in")
	workers := fs.Int("workers", config.DefaultWorkers, "files processed concurrently")
	metricsFile := fs.String("metrics", "", "write a Prometheus textfile snapshot here on exit")
	trace := fs.Bool("trace", false, "write spans to stderr")
	showVersion := fs.Bool("version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return apierrors.ExitOK
		}
		return apierrors.ExitValidation
	}

	if *showVersion {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return apierrors.ExitOK
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", config.AppName, err)
		return apierrors.ExitCode(err)
	}

	// Flags given explicitly override file and environment settings.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "skip":
			cfg.Timesheet.SkipLines = *skip
		case "format":
			cfg.Export.Format = *format
		case "out":
			cfg.Export.Dir = *outDir
		case "tz":
			cfg.Timesheet.Timezone = *tz
		case "workers":
			cfg.Timesheet.Workers = *workers
		case "metrics":
			cfg.Telemetry.MetricsFile = *metricsFile
		case "trace":
			cfg.Telemetry.Tracing = *trace
			if *trace {
				cfg.Telemetry.TraceExporter = "stdout"
			}
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", config.AppName, err)
		return apierrors.ExitCode(err)
	}

	logger, closeLog, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", config.AppName, err)
		return apierrors.ExitStorage
	}
	defer closeLog()

	return newApp(cfg, logger).run(ctx, fs.Args(), stdout, stderr)
}

// app wires the configured components for one invocation.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newApp(cfg *config.Config, logger *slog.Logger) *app {
	return &app{cfg: cfg, logger: logger}
}

func (a *app) run(ctx context.Context, inputs []string, stdout, stderr io.Writer) int {
	loc, err := a.cfg.Location()
	if err != nil {
		apierrors.LogError(ctx, a.logger, "invalid time zone", err)
		return apierrors.ExitCode(err)
	}

	providers, err := infrastructure.InitializeOTel(a.cfg.Telemetry, stderr, a.logger)
	if err != nil {
		apierrors.LogError(ctx, a.logger, "failed to initialize telemetry", err)
		return apierrors.ExitFailure
	}
	defer func() {
		if err := providers.WriteMetrics(a.cfg.Telemetry.MetricsFile); err != nil {
			a.logger.Warn("failed to write metrics snapshot", slog.String("error", err.Error()))
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	pipeline, err := timesheet.New(
		timesheet.WithSkipLines(a.cfg.Timesheet.SkipLines),
		timesheet.WithLocation(loc),
		timesheet.WithLogger(a.logger),
		timesheet.WithTracer(providers.Tracer(timesheet.InstrumentationName)),
		timesheet.WithMeter(providers.Meter(timesheet.InstrumentationName)),
	)
	if err != nil {
		apierrors.LogError(ctx, a.logger, "failed to create pipeline", err)
		return apierrors.ExitCode(err)
	}

	validator := validation.NewFileValidator(a.logger)
	files, err := validator.ExpandInputs(inputs)
	if err != nil {
		apierrors.LogError(ctx, a.logger, "no usable inputs", err)
		return apierrors.ExitCode(err)
	}
	if err := validator.ValidateOutputDirectory(a.cfg.Export.Dir); err != nil {
		apierrors.LogError(ctx, a.logger, "export directory unusable", err)
		return apierrors.ExitCode(err)
	}

	a.logger.InfoContext(ctx, "Starting timesheet cleaning",
		slog.String("version", contracts.Version),
		slog.Int("files", len(files)),
		slog.String("format", a.cfg.Export.Format),
		slog.String("export_dir", a.cfg.Export.Dir),
		slog.Int("workers", a.cfg.Timesheet.Workers))

	w := &worker{
		pipeline:  pipeline,
		validator: validator,
		exporter:  exporter.New(a.cfg.Export, a.logger),
		logger:    a.logger,
	}

	// Same-named inputs from different directories must not share output files.
	stems := exporter.UniqueStems(files)
	summaries := make([]fileSummary, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Timesheet.Workers)
	for i, file := range files {
		g.Go(func() error {
			summaries[i] = w.process(gctx, file, stems[i])
			// Failures are reported per file; siblings keep running.
			return nil
		})
	}
	_ = g.Wait()

	code := apierrors.ExitOK
	enc := json.NewEncoder(stdout)
	failed := 0
	for _, s := range summaries {
		if err := enc.Encode(s); err != nil {
			a.logger.Error("failed to write summary", slog.String("error", err.Error()))
			return apierrors.ExitFailure
		}
		if s.exitCode != apierrors.ExitOK {
			failed++
			if code == apierrors.ExitOK {
				code = s.exitCode
			}
		}
	}

	a.logger.InfoContext(ctx, "Timesheet cleaning finished",
		slog.Int("files", len(files)),
		slog.Int("failed", failed))
	return code
}

// worker processes single files. It is shared by all goroutines.
type worker struct {
	pipeline  *timesheet.Pipeline
	validator *validation.FileValidator
	exporter  *exporter.Exporter
	logger    *slog.Logger
}

func (w *worker) process(ctx context.Context, file, stem string) fileSummary {
	ctx = infrastructure.EnsureTraceID(ctx)
	summary := fileSummary{File: file, TraceID: infrastructure.GetTraceID(ctx)}

	fail := func(msg string, err error) fileSummary {
		apierrors.LogError(ctx, w.logger, msg, err)
		summary.Error = err.Error()
		summary.exitCode = apierrors.ExitCode(err)
		return summary
	}

	if err := ctx.Err(); err != nil {
		return fail("processing cancelled", err)
	}
	if err := w.validator.ValidateCSVFile(file); err != nil {
		return fail("invalid input file", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fail("failed to read input", apierrors.NewStorageError("failed to read input", err).WithContext("path", file))
	}
	summary.Size = int64(len(data))

	result, err := w.pipeline.Process(ctx, file, data)
	if err != nil {
		return fail("timesheet rejected", err)
	}
	summary.PayPeriod = result.PayPeriod.String()
	summary.RowsRead = result.Stats.RowsRead
	summary.Dropped = result.Stats.Dropped
	summary.Records = result.Stats.Records
	summary.Anomalies = result.Stats.Anomalies
	summary.Warnings = len(result.Warnings)

	outputs, err := w.exporter.ExportAs(ctx, result, stem)
	if err != nil {
		return fail("export failed", err)
	}
	summary.Outputs = outputs
	return summary
}
