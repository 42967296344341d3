package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"payrollcli/internal/config"
	apierrors "payrollcli/internal/errors"
	"payrollcli/internal/infrastructure"
	"payrollcli/internal/timesheet"
)

// Exporter writes results into a directory in one configured format.
type Exporter struct {
	dir    string
	format string
	bom    bool
	logger *slog.Logger
	csv    *CSVWriter
}

// New creates an exporter from the export configuration.
func New(cfg config.ExportConfig, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "exporter")
	return &Exporter{
		dir:    cfg.Dir,
		format: strings.ToLower(cfg.Format),
		bom:    cfg.BOM,
		logger: logger,
		csv:    NewCSVWriter(logger),
	}
}

// Export writes result under a name derived from its source. See ExportAs.
func (e *Exporter) Export(ctx context.Context, result *timesheet.Result) ([]string, error) {
	return e.ExportAs(ctx, result, BaseName(result.Source))
}

// ExportAs writes result using stem as the output file name prefix and
// returns the paths of the files created. CSV output produces a shifts file
// and an anomalies file; the other formats produce one file each.
func (e *Exporter) ExportAs(ctx context.Context, result *timesheet.Result, stem string) ([]string, error) {
	base := filepath.Join(e.dir, stem)

	var files []string
	var err error
	switch e.format {
	case config.FormatCSV:
		shifts, anomalies := base+".shifts.csv", base+".anomalies.csv"
		if err = e.csv.WriteShifts(shifts, result.Records, e.bom); err == nil {
			err = e.csv.WriteAnomalies(anomalies, result.Anomalies, e.bom)
		}
		files = []string{shifts, anomalies}
	case config.FormatXLSX:
		files = []string{base + ".xlsx"}
		err = WriteWorkbook(files[0], result)
	case config.FormatJSON, "":
		files = []string{base + ".json"}
		err = WriteJSON(files[0], result)
	default:
		return nil, apierrors.NewAppValidationError(fmt.Sprintf("unsupported export format %q", e.format))
	}

	if err != nil {
		return nil, apierrors.NewStorageError("failed to export result", err).
			WithContext("source", result.Source).
			WithContext("format", e.format)
	}

	e.logger.InfoContext(ctx, "result exported",
		slog.String("source", result.Source),
		slog.String("format", e.format),
		slog.Any("files", files))
	return files, nil
}

// BaseName derives an output file stem from a source path, e.g.
// "in/ts_feb_24.csv" becomes "ts_feb_24".
func BaseName(source string) string {
	name := filepath.Base(source)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "timesheet"
	}
	return name
}

// UniqueStems returns one output stem per source, in order, such that no two
// are equal. Sources sharing a base name are prefixed with their parent
// directory ("a/ts.csv" becomes "a_ts"); any stem still taken gets a numeric
// suffix.
func UniqueStems(sources []string) []string {
	stems := make([]string, len(sources))
	count := make(map[string]int, len(sources))
	for i, src := range sources {
		stems[i] = BaseName(src)
		count[stems[i]]++
	}

	for i, src := range sources {
		if count[stems[i]] < 2 {
			continue
		}
		dir := filepath.Base(filepath.Dir(src))
		if dir != "." && dir != string(filepath.Separator) {
			stems[i] = dir + "_" + stems[i]
		}
	}

	taken := make(map[string]bool, len(stems))
	for i, stem := range stems {
		name := stem
		for n := 2; taken[name]; n++ {
			name = fmt.Sprintf("%s_%d", stem, n)
		}
		taken[name] = true
		stems[i] = name
	}
	return stems
}
