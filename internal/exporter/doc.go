// Package exporter writes cleaned timesheet results to the export directory.
//
// This package contains four main components:
//
// CSVWriter: Core CSV writing with headers and an optional UTF-8 BOM for
// Excel compatibility. Shifts and anomalies go to separate files.
//
// WriteWorkbook: A single XLSX workbook with Shifts, Anomalies and Summary
// sheets, bold headers and an auto-filter on each sheet.
//
// WriteJSON: The full result, including stats and table warnings, as one
// indented JSON document.
//
// Exporter: Picks the writer for the configured format and names output
// files after the source export.
//
// Example usage:
//
//	exp := exporter.New(cfg.Export, logger)
//	files, err := exp.Export(ctx, result)
package exporter
