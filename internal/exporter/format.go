package exporter

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"payrollcli/pkg/contracts/domain"
)

// minorUnitExp is the exponent matching domain.MinorUnitScale.
const minorUnitExp = -3

// formatMinorUnits renders a scale-1000 amount as a plain decimal, e.g.
// 1234500 as "1234.5".
func formatMinorUnits(v int64) string {
	return decimal.New(v, minorUnitExp).String()
}

// formatTime formats a nullable timestamp as RFC 3339, or "" when absent
func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

// shiftHeaders is the column order used by the CSV and XLSX shift tables.
var shiftHeaders = []string{
	"Name", "Payroll ID", "Clock in", "Clock out", "Break start", "Break end",
	"Role", "Wage", "Scheduled", "Issues", "Employee note", "Manager note", "Break paid",
}

func shiftRow(r domain.ShiftRecord) []string {
	return []string{
		r.Name,
		formatInt(r.PayrollID),
		formatTime(r.ClockIn),
		formatTime(r.ClockOut),
		formatTime(r.BreakStart),
		formatTime(r.BreakEnd),
		r.Role,
		formatMinorUnits(r.Wage),
		formatMinorUnits(r.ScheduledHours),
		r.Issues,
		r.EmployeeNote,
		r.ManagerNote,
		formatBool(r.BreakPaid),
	}
}

var anomalyHeaders = []string{"Row", "Column", "Value", "Reason"}
