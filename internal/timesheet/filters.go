package timesheet

import (
	"strings"
)

// Source column names.
const (
	ColName         = "Name"
	ColPayrollID    = "Payroll ID"
	ColClockInDate  = "Clock in date"
	ColClockInTime  = "Clock in time"
	ColClockOutDate = "Clock out date"
	ColClockOutTime = "Clock out time"
	ColBreakStart   = "Break start"
	ColBreakEnd     = "Break end"
	ColBreakType    = "Break type"
	ColRole         = "Role"
	ColWage         = "Wage"
	ColScheduled    = "Scheduled"
	ColIssues       = "Issues"
	ColEmployeeNote = "Employee note"
	ColManagerNote  = "Manager note"
)

const totalsPrefix = "Totals for "

// RowFilter is one named step of the filter sequence. Apply never modifies its
// input and never fails.
type RowFilter struct {
	Name  string
	Apply func(*RawTable) *RawTable
}

// Filter names, also used as metric and log attribute values.
const (
	FilterBlankRows        = "blank_rows"
	FilterDuplicateHeaders = "duplicate_headers"
	FilterEmptyShifts      = "empty_shifts"
)

// DefaultFilters returns the standard filter sequence. The order matters:
// totals lines must be gone before header and shift checks look at them.
func DefaultFilters() []RowFilter {
	return []RowFilter{
		{Name: FilterBlankRows, Apply: DropBlankRows},
		{Name: FilterDuplicateHeaders, Apply: DropDuplicateHeaders},
		{Name: FilterEmptyShifts, Apply: DropEmptyShifts},
	}
}

// DropBlankRows removes rows whose first cell is absent, empty, "-", or starts
// with "Totals for ".
func DropBlankRows(t *RawTable) *RawTable {
	return t.keep(func(r Row) bool {
		first := "-"
		if len(r.Cells) > 0 && r.Cells[0].Valid {
			first = r.Cells[0].Text
		}
		return first != "" && first != "-" && !strings.HasPrefix(first, totalsPrefix)
	})
}

// DropDuplicateHeaders removes header rows repeated inside the data, recognized
// by a first cell equal to the first column name.
func DropDuplicateHeaders(t *RawTable) *RawTable {
	if len(t.Columns) == 0 {
		return t.withRows(append([]Row(nil), t.Rows...))
	}
	first := t.Columns[0]
	return t.keep(func(r Row) bool {
		return !(len(r.Cells) > 0 && r.Cells[0].Valid && r.Cells[0].Text == first)
	})
}

// DropEmptyShifts removes rows with no clock data at all: both clock times and
// both clock dates absent. A row with any one of them is kept for review.
func DropEmptyShifts(t *RawTable) *RawTable {
	return t.keep(func(r Row) bool {
		return t.Get(r, ColClockInTime).Valid ||
			t.Get(r, ColClockOutTime).Valid ||
			t.Get(r, ColClockInDate).Valid ||
			t.Get(r, ColClockOutDate).Valid
	})
}

// ApplyFilters runs filters in order and returns the final table.
func ApplyFilters(t *RawTable, filters []RowFilter) *RawTable {
	for _, f := range filters {
		t = f.Apply(t)
	}
	return t
}
