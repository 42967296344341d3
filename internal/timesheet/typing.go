package timesheet

import (
	"strings"
	"time"

	apierrors "payrollcli/internal/errors"
	"payrollcli/pkg/contracts/domain"
)

// RequiredColumns must all appear in the header for typing to proceed.
var RequiredColumns = []string{
	ColName,
	ColPayrollID,
	ColClockInDate,
	ColClockInTime,
	ColClockOutDate,
	ColClockOutTime,
	ColBreakStart,
	ColBreakEnd,
	ColBreakType,
	ColRole,
	ColWage,
	ColScheduled,
}

// OptionalColumns default to empty text when the header lacks them.
var OptionalColumns = []string{ColIssues, ColEmployeeNote, ColManagerNote}

// Anomaly reasons.
const (
	ReasonMissingPayrollID = "missing payroll id"
	ReasonInvalidInteger   = "not an integer"
	ReasonInvalidDatetime  = "not a recognizable date and time"
	ReasonIncompleteClock  = "date or time missing"
	ReasonInvalidAmount    = "not a decimal amount"
	ReasonBreakWithoutDate = "break time without clock in date"
)

// Anomaly is a cell whose value was replaced by its default. The record is
// still produced; anomalies exist for manual review.
type Anomaly struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// CheckColumns returns a missing-column ParseError naming every required column
// absent from t.
func CheckColumns(t *RawTable) error {
	var missing []string
	for _, c := range RequiredColumns {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return apierrors.MissingColumnError(missing...)
	}
	return nil
}

// TypeColumns converts every row of t into a ShiftRecord, in row order.
// Datetimes are interpreted in loc (UTC when nil). Structural problems return
// a *errors.ParseError; unreadable cells never do.
func TypeColumns(t *RawTable, loc *time.Location) ([]domain.ShiftRecord, []Anomaly, error) {
	if err := CheckColumns(t); err != nil {
		return nil, nil, err
	}
	if loc == nil {
		loc = time.UTC
	}

	records := make([]domain.ShiftRecord, 0, len(t.Rows))
	var anomalies []Anomaly
	for _, row := range t.Rows {
		rec, rowAnomalies := typeRow(t, row, loc)
		records = append(records, rec)
		anomalies = append(anomalies, rowAnomalies...)
	}
	return records, anomalies, nil
}

// typeRow applies the coercers in column order. Derived datetimes always read
// the original cells of row.
func typeRow(t *RawTable, row Row, loc *time.Location) (domain.ShiftRecord, []Anomaly) {
	var anomalies []Anomaly
	flag := func(column, value, reason string) {
		anomalies = append(anomalies, Anomaly{Row: row.Line, Column: column, Value: value, Reason: reason})
	}
	cell := func(column string) Cell { return t.Get(row, column) }

	var rec domain.ShiftRecord

	rec.Name = trimmedText(cell(ColName))

	id := cell(ColPayrollID)
	rec.PayrollID = ToInteger(id, DefaultPayrollID)
	if !id.Valid {
		flag(ColPayrollID, "", ReasonMissingPayrollID)
	} else if _, ok := parseInteger(id.Text); !ok {
		flag(ColPayrollID, id.Text, ReasonInvalidInteger)
	}

	clockInDate := cell(ColClockInDate)
	rec.ClockIn = typeClock(clockInDate, cell(ColClockInTime), loc, "Clock in", flag)
	rec.ClockOut = typeClock(cell(ColClockOutDate), cell(ColClockOutTime), loc, "Clock out", flag)
	rec.BreakStart = typeBreak(clockInDate, cell(ColBreakStart), loc, ColBreakStart, flag)
	rec.BreakEnd = typeBreak(clockInDate, cell(ColBreakEnd), loc, ColBreakEnd, flag)

	rec.Role = ToText(cell(ColRole), DefaultRole)
	rec.Wage = typeAmount(cell(ColWage), ColWage, flag)
	rec.ScheduledHours = typeAmount(cell(ColScheduled), ColScheduled, flag)

	rec.Issues = ToText(cell(ColIssues), DefaultText)
	rec.EmployeeNote = ToText(cell(ColEmployeeNote), DefaultText)
	rec.ManagerNote = ToText(cell(ColManagerNote), DefaultText)

	rec.BreakPaid = ToBreakPaid(cell(ColBreakType))

	return rec, anomalies
}

type flagFunc func(column, value, reason string)

func trimmedText(c Cell) string {
	return strings.TrimSpace(ToText(c, DefaultText))
}

func typeClock(date, clock Cell, loc *time.Location, column string, flag flagFunc) *time.Time {
	ts := CombineDatetime(date, clock, loc)
	if ts != nil || (!date.Valid && !clock.Valid) {
		return ts
	}
	if date.Valid && clock.Valid {
		flag(column, date.Text+clock.Text, ReasonInvalidDatetime)
	} else {
		flag(column, date.String()+clock.String(), ReasonIncompleteClock)
	}
	return nil
}

func typeBreak(date, clock Cell, loc *time.Location, column string, flag flagFunc) *time.Time {
	if !clock.Valid {
		return nil
	}
	ts := CombineDatetime(date, clock, loc)
	if ts != nil {
		return ts
	}
	if !date.Valid {
		flag(column, clock.Text, ReasonBreakWithoutDate)
	} else {
		flag(column, date.Text+clock.Text, ReasonInvalidDatetime)
	}
	return nil
}

func typeAmount(c Cell, column string, flag flagFunc) int64 {
	if !c.Valid {
		return DefaultMinor
	}
	v, ok := parseMinorUnits(c.Text)
	if !ok {
		flag(column, c.Text, ReasonInvalidAmount)
		return DefaultMinor
	}
	return v
}
