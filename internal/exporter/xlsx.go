package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"payrollcli/internal/timesheet"
)

// Workbook sheet names.
const (
	SheetShifts    = "Shifts"
	SheetAnomalies = "Anomalies"
	SheetSummary   = "Summary"
)

// sheetSpec is one sheet of the exported workbook.
type sheetSpec struct {
	Title  string
	Header []string
	Rows   [][]string
}

// WriteWorkbook writes result to an XLSX file with shift, anomaly and
// summary sheets.
func WriteWorkbook(filePath string, result *timesheet.Result) error {
	f, err := buildWorkbook(workbookSheets(result))
	if err != nil {
		return err
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func workbookSheets(result *timesheet.Result) []sheetSpec {
	shifts := make([][]string, 0, len(result.Records))
	for _, r := range result.Records {
		shifts = append(shifts, shiftRow(r))
	}

	anomalies := make([][]string, 0, len(result.Anomalies))
	for _, a := range result.Anomalies {
		anomalies = append(anomalies, []string{strconv.Itoa(a.Row), a.Column, a.Value, a.Reason})
	}

	summary := [][]string{
		{"Source", result.Source},
		{"Pay period", result.PayPeriod.String()},
		{"Rows read", strconv.Itoa(result.Stats.RowsRead)},
		{"Records", strconv.Itoa(result.Stats.Records)},
		{"Anomalies", strconv.Itoa(result.Stats.Anomalies)},
	}
	for _, name := range sortedKeys(result.Stats.Dropped) {
		summary = append(summary, []string{"Dropped (" + name + ")", strconv.Itoa(result.Stats.Dropped[name])})
	}
	for _, w := range result.Warnings {
		summary = append(summary, []string{"Warning", fmt.Sprintf("line %d: %s", w.Line, w.Message)})
	}

	return []sheetSpec{
		{Title: SheetShifts, Header: shiftHeaders, Rows: shifts},
		{Title: SheetAnomalies, Header: anomalyHeaders, Rows: anomalies},
		{Title: SheetSummary, Header: []string{"Field", "Value"}, Rows: summary},
	}
}

func buildWorkbook(sheets []sheetSpec) (*excelize.File, error) {
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("new style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Title); err != nil {
				f.Close()
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.Title); err != nil {
			f.Close()
			return nil, fmt.Errorf("new sheet: %w", err)
		}
		if err := fillSheet(f, s, bold); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func fillSheet(f *excelize.File, s sheetSpec, headerStyle int) error {
	for col, h := range s.Header {
		if err := setCell(f, s.Title, col+1, 1, h); err != nil {
			return err
		}
	}

	last, err := excelize.CoordinatesToCellName(len(s.Header), 1)
	if err != nil {
		return fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(s.Title, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style header %s: %w", s.Title, err)
	}
	if err := f.AutoFilter(s.Title, "A1:"+last, nil); err != nil {
		return fmt.Errorf("auto filter %s: %w", s.Title, err)
	}

	for r, row := range s.Rows {
		for c, val := range row {
			if err := setCell(f, s.Title, c+1, r+2, val); err != nil {
				return err
			}
		}
	}

	// Width heuristic from the header and the first rows.
	for c := 1; c <= len(s.Header); c++ {
		width := len(s.Header[c-1])
		for r := 0; r < min(50, len(s.Rows)); r++ {
			if c-1 < len(s.Rows[r]) && len(s.Rows[r][c-1]) > width {
				width = len(s.Rows[r][c-1])
			}
		}
		w := float64(width) * 0.9
		if w < 12 {
			w = 12
		}
		if w > 40 {
			w = 40
		}
		name, err := excelize.ColumnNumberToName(c)
		if err != nil {
			return fmt.Errorf("column %d: %w", c, err)
		}
		if err := f.SetColWidth(s.Title, name, name, w); err != nil {
			return fmt.Errorf("set width %s!%s: %w", s.Title, name, err)
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell (%d,%d): %w", col, row, err)
	}
	if err := f.SetCellStr(sheet, cell, value); err != nil {
		return fmt.Errorf("set cell %s: %w", cell, err)
	}
	return nil
}
