package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"payrollcli/internal/timesheet"
	"payrollcli/pkg/contracts/domain"
)

// utf8BOM helps Excel recognize UTF-8 CSV files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options, replacing any
// existing file.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Debug("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}

// WriteShifts writes cleaned shift records, one row per record.
func (w *CSVWriter) WriteShifts(filePath string, records []domain.ShiftRecord, bom bool) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, shiftRow(r))
	}
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   shiftHeaders,
		Records:   rows,
		BOMPrefix: bom,
	})
}

// WriteAnomalies writes the anomaly report. The header is written even when
// there are no anomalies.
func (w *CSVWriter) WriteAnomalies(filePath string, anomalies []timesheet.Anomaly, bom bool) error {
	rows := make([][]string, 0, len(anomalies))
	for _, a := range anomalies {
		rows = append(rows, []string{strconv.Itoa(a.Row), a.Column, a.Value, a.Reason})
	}
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   anomalyHeaders,
		Records:   rows,
		BOMPrefix: bom,
	})
}
