package timesheet

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	apierrors "payrollcli/internal/errors"
	"payrollcli/internal/infrastructure"
	"payrollcli/pkg/contracts/domain"
)

// Result is the outcome of processing one export.
type Result struct {
	Source    string               `json:"source"`
	PayPeriod domain.PayPeriod     `json:"pay_period"`
	Records   []domain.ShiftRecord `json:"records"`
	Anomalies []Anomaly            `json:"anomalies"`
	Warnings  []TableWarning       `json:"warnings"`
	Stats     Stats                `json:"stats"`
}

// Stats summarizes row counts through the pipeline.
type Stats struct {
	RowsRead  int            `json:"rows_read"`
	Dropped   map[string]int `json:"dropped"`
	Records   int            `json:"records"`
	Anomalies int            `json:"anomalies"`
	Duration  time.Duration  `json:"duration_ns"`
}

// Pipeline reads, filters and types timesheet exports. It holds no per-call
// state and is safe for concurrent use.
type Pipeline struct {
	skipLines int
	location  *time.Location
	filters   []RowFilter
	logger    *slog.Logger
	tracer    trace.Tracer
	meter     metric.Meter
	metrics   *pipelineMetrics
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSkipLines sets the number of preamble records before the header.
func WithSkipLines(n int) Option {
	return func(p *Pipeline) { p.skipLines = n }
}

// WithLocation sets the zone clock times are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(p *Pipeline) { p.location = loc }
}

// WithFilters replaces the default filter sequence.
func WithFilters(filters ...RowFilter) Option {
	return func(p *Pipeline) { p.filters = append([]RowFilter(nil), filters...) }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithTracer sets the tracer used for step spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) { p.tracer = tracer }
}

// WithMeter sets the meter pipeline instruments are created from.
func WithMeter(meter metric.Meter) Option {
	return func(p *Pipeline) { p.meter = meter }
}

// New creates a pipeline. Without options it skips DefaultSkipLines preamble
// records, reads times as UTC, runs DefaultFilters and reports to the global
// OpenTelemetry providers.
func New(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		skipLines: DefaultSkipLines,
		location:  time.UTC,
		filters:   DefaultFilters(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.skipLines < 0 {
		return nil, apierrors.NewAppValidationError(
			fmt.Sprintf("skip lines must not be negative, got %d", p.skipLines))
	}
	if p.location == nil {
		p.location = time.UTC
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.tracer == nil {
		p.tracer = otel.Tracer(InstrumentationName)
	}
	if p.meter == nil {
		p.meter = otel.Meter(InstrumentationName)
	}
	p.logger = infrastructure.WithComponent(p.logger, "timesheet")

	metrics, err := newPipelineMetrics(p.meter)
	if err != nil {
		return nil, err
	}
	p.metrics = metrics

	return p, nil
}

// Process cleans one export. data is read twice: once with no preamble for
// the pay period, then with the configured preamble for the shift table.
// Structural problems return a *errors.ParseError carrying source.
func (p *Pipeline) Process(ctx context.Context, source string, data []byte) (*Result, error) {
	start := time.Now()
	ctx, span := p.startStep(ctx, SpanProcess,
		attribute.String("timesheet.source", source),
		attribute.Int("timesheet.bytes", len(data)),
	)

	result, err := p.process(ctx, source, data)
	duration := time.Since(start)

	outcome := "success"
	if err != nil {
		outcome = "failure"
		if pe, ok := apierrors.AsParseError(err); ok {
			pe.WithSource(source)
		}
		p.logger.WarnContext(ctx, "timesheet rejected",
			slog.String("source", source),
			slog.String("error", err.Error()),
		)
	} else {
		result.Stats.Duration = duration
		span.SetAttributes(
			attribute.Int("timesheet.records", result.Stats.Records),
			attribute.Int("timesheet.anomalies", result.Stats.Anomalies),
		)
		p.logger.InfoContext(ctx, "timesheet processed",
			slog.String("source", source),
			slog.String("pay_period", result.PayPeriod.String()),
			slog.Int("rows_read", result.Stats.RowsRead),
			slog.Int("records", result.Stats.Records),
			slog.Int("anomalies", result.Stats.Anomalies),
			slog.Duration("duration", duration),
		)
	}

	outcomeAttr := metric.WithAttributes(attribute.String("outcome", outcome))
	p.metrics.FilesProcessed.Add(ctx, 1, outcomeAttr)
	p.metrics.Duration.Record(ctx, duration.Seconds(), outcomeAttr)

	endStep(span, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (p *Pipeline) process(ctx context.Context, source string, data []byte) (*Result, error) {
	period, err := p.payPeriod(ctx, data)
	if err != nil {
		return nil, err
	}

	table, err := p.read(ctx, data)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Source:    source,
		PayPeriod: period,
		Warnings:  append([]TableWarning(nil), table.Warnings...),
		Stats: Stats{
			RowsRead: table.Len(),
			Dropped:  make(map[string]int, len(p.filters)),
		},
	}
	if !period.Ordered() {
		result.Warnings = append(result.Warnings, TableWarning{Message: "pay period starts after it ends"})
	}
	if !period.SameYear() {
		result.Warnings = append(result.Warnings, TableWarning{Message: "pay period spans two calendar years"})
	}
	for _, w := range result.Warnings {
		p.logger.WarnContext(ctx, "timesheet irregularity",
			slog.String("source", source),
			slog.Int("line", w.Line),
			slog.String("warning", w.Message),
		)
	}

	filtered := p.filter(ctx, table, result.Stats.Dropped)

	records, anomalies, err := p.typeColumns(ctx, filtered)
	if err != nil {
		return nil, err
	}
	result.Records = records
	result.Anomalies = anomalies
	result.Stats.Records = len(records)
	result.Stats.Anomalies = len(anomalies)

	return result, nil
}

func (p *Pipeline) payPeriod(ctx context.Context, data []byte) (domain.PayPeriod, error) {
	ctx, span := p.startStep(ctx, SpanPayPeriod)
	period, err := ExtractPayPeriod(bytes.NewReader(data))
	if err == nil {
		span.SetAttributes(
			attribute.String("pay_period.start", period.Start.Format(time.DateOnly)),
			attribute.String("pay_period.end", period.End.Format(time.DateOnly)),
		)
		p.logger.DebugContext(ctx, "pay period extracted", slog.String("pay_period", period.String()))
	}
	endStep(span, err)
	return period, err
}

func (p *Pipeline) read(ctx context.Context, data []byte) (*RawTable, error) {
	ctx, span := p.startStep(ctx, SpanRead, attribute.Int("timesheet.skip_lines", p.skipLines))
	table, err := ReadTable(bytes.NewReader(data), p.skipLines)
	if err == nil {
		span.SetAttributes(
			attribute.Int("table.columns", len(table.Columns)),
			attribute.Int("table.rows", table.Len()),
		)
		p.metrics.RowsRead.Add(ctx, int64(table.Len()))
	}
	endStep(span, err)
	return table, err
}

// filter runs the filter sequence, recording how many rows each step removed.
func (p *Pipeline) filter(ctx context.Context, table *RawTable, dropped map[string]int) *RawTable {
	for _, f := range p.filters {
		stepCtx, span := p.startStep(ctx, SpanFilter, attribute.String("filter.name", f.Name))
		before := table.Len()
		table = f.Apply(table)
		removed := before - table.Len()
		dropped[f.Name] += removed

		span.SetAttributes(attribute.Int("filter.rows_dropped", removed))
		p.metrics.RowsDropped.Add(stepCtx, int64(removed),
			metric.WithAttributes(attribute.String("filter", f.Name)))
		p.logger.DebugContext(stepCtx, "row filter applied",
			slog.String("filter", f.Name),
			slog.Int("rows_before", before),
			slog.Int("rows_dropped", removed),
		)
		span.SetStatus(codes.Ok, "")
		span.End()
	}
	return table
}

func (p *Pipeline) typeColumns(ctx context.Context, table *RawTable) ([]domain.ShiftRecord, []Anomaly, error) {
	ctx, span := p.startStep(ctx, SpanType, attribute.Int("table.rows", table.Len()))
	records, anomalies, err := TypeColumns(table, p.location)
	if err == nil {
		p.metrics.RecordsProduced.Add(ctx, int64(len(records)))
		for _, a := range anomalies {
			p.metrics.Anomalies.Add(ctx, 1, metric.WithAttributes(attribute.String("column", a.Column)))
			p.logger.DebugContext(ctx, "cell defaulted",
				slog.Int("line", a.Row),
				slog.String("column", a.Column),
				slog.String("value", a.Value),
				slog.String("reason", a.Reason),
			)
		}
		span.SetAttributes(
			attribute.Int("timesheet.records", len(records)),
			attribute.Int("timesheet.anomalies", len(anomalies)),
		)
	}
	endStep(span, err)
	return records, anomalies, err
}
