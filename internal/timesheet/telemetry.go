package timesheet

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName identifies this package's tracer and meter.
const InstrumentationName = "payrollcli/timesheet"

// Span names, one per pipeline step.
const (
	SpanProcess   = "timesheet.process"
	SpanPayPeriod = "timesheet.pay_period"
	SpanRead      = "timesheet.read"
	SpanFilter    = "timesheet.filter"
	SpanType      = "timesheet.type_columns"
)

// pipelineMetrics holds the instruments recorded by Process.
type pipelineMetrics struct {
	FilesProcessed  metric.Int64Counter
	RowsRead        metric.Int64Counter
	RowsDropped     metric.Int64Counter
	RecordsProduced metric.Int64Counter
	Anomalies       metric.Int64Counter
	Duration        metric.Float64Histogram
}

func newPipelineMetrics(meter metric.Meter) (*pipelineMetrics, error) {
	m := &pipelineMetrics{}
	var err error

	m.FilesProcessed, err = meter.Int64Counter(
		"timesheet_files_processed_total",
		metric.WithDescription("Timesheet exports processed, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create files processed counter: %w", err)
	}

	m.RowsRead, err = meter.Int64Counter(
		"timesheet_rows_read_total",
		metric.WithDescription("Data rows read below the header"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rows read counter: %w", err)
	}

	m.RowsDropped, err = meter.Int64Counter(
		"timesheet_rows_dropped_total",
		metric.WithDescription("Rows removed by each row filter"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rows dropped counter: %w", err)
	}

	m.RecordsProduced, err = meter.Int64Counter(
		"timesheet_records_total",
		metric.WithDescription("Shift records produced by the typing pass"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create records counter: %w", err)
	}

	m.Anomalies, err = meter.Int64Counter(
		"timesheet_anomalies_total",
		metric.WithDescription("Cells replaced by their default, by column"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create anomalies counter: %w", err)
	}

	m.Duration, err = meter.Float64Histogram(
		"timesheet_process_duration_seconds",
		metric.WithDescription("Time spent processing one export"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return m, nil
}

// startStep opens a child span for one pipeline step.
func (p *Pipeline) startStep(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// endStep closes a step span, marking it failed when err is non-nil.
func endStep(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
