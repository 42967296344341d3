package domain

import (
	"time"
)

// ShiftRecord is one cleaned timesheet row. Every field is always populated;
// only the four datetime fields may be nil.
type ShiftRecord struct {
	Name           string     `json:"name"`
	PayrollID      int64      `json:"payroll_id"`
	ClockIn        *time.Time `json:"clock_in"`
	ClockOut       *time.Time `json:"clock_out"`
	BreakStart     *time.Time `json:"break_start"`
	BreakEnd       *time.Time `json:"break_end"`
	Role           string     `json:"role"`
	Wage           int64      `json:"wage"`      // minor units, scale 1000
	ScheduledHours int64      `json:"scheduled"` // minor units, scale 1000
	Issues         string     `json:"issues"`
	EmployeeNote   string     `json:"employee_note"`
	ManagerNote    string     `json:"manager_note"`
	BreakPaid      bool       `json:"break_paid"`
}

// HasSentinelPayrollID reports whether the payroll ID was substituted
// because the source cell was missing or unreadable.
func (r ShiftRecord) HasSentinelPayrollID() bool {
	return r.PayrollID == PayrollIDSentinel
}

// PayrollIDSentinel marks a payroll ID that needs manual review.
const PayrollIDSentinel int64 = 9999

// MinorUnitScale is the fixed-point scale used for wages and scheduled hours.
const MinorUnitScale = 1000

// PayPeriod is the date range a timesheet export covers.
type PayPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Ordered reports whether the period starts on or before its end.
func (p PayPeriod) Ordered() bool {
	return !p.Start.After(p.End)
}

// SameYear reports whether both ends fall in the same calendar year.
func (p PayPeriod) SameYear() bool {
	return p.Start.Year() == p.End.Year()
}

// Days returns the inclusive number of calendar days in the period.
func (p PayPeriod) Days() int {
	if !p.Ordered() {
		return 0
	}
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// String formats the period the same way exports print it.
func (p PayPeriod) String() string {
	return p.Start.Format("01/02/2006") + " To " + p.End.Format("01/02/2006")
}
