package timesheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"payrollcli/pkg/contracts/domain"
)

// DatetimeLayout is how exports concatenate a date cell and a time cell, e.g.
// "2 February 2024" + "9:05am". Parsing is case-insensitive on the month and
// the am/pm suffix.
const DatetimeLayout = "2 January 20063:04pm"

// BreakPaidMarker is the Break type text of a paid break.
const BreakPaidMarker = "30 min - Paid"

// Placeholder values substituted when a cell is absent or unreadable.
const (
	DefaultPayrollID = domain.PayrollIDSentinel
	DefaultRole      = "None"
	DefaultText      = ""
	DefaultMinor     = int64(0)
)

// minorUnitExp is the decimal exponent of domain.MinorUnitScale.
const minorUnitExp = 3

// ToInteger parses a base-10 integer, ignoring surrounding whitespace. Decimal
// text with no fractional part, as spreadsheets write numeric IDs, is accepted.
// Anything else yields def.
func ToInteger(c Cell, def int64) int64 {
	if !c.Valid {
		return def
	}
	if v, ok := parseInteger(c.Text); ok {
		return v
	}
	return def
}

func parseInteger(text string) (int64, bool) {
	s := strings.TrimSpace(text)
	// "1042.0" and "1042." are whole numbers; exponents and real fractions are not.
	if whole, frac, ok := strings.Cut(s, "."); ok && strings.Trim(frac, "0") == "" {
		s = whole
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ToText returns the cell text, or def when absent.
func ToText(c Cell, def string) string {
	if !c.Valid {
		return def
	}
	return c.Text
}

// ToDatetime parses text in DatetimeLayout within loc (UTC when nil). It
// returns nil when text does not match.
func ToDatetime(text string, loc *time.Location) *time.Time {
	if loc == nil {
		loc = time.UTC
	}
	s := strings.TrimSpace(text)
	if len(s) < 2 {
		return nil
	}
	// Layout parsing only knows lowercase "am"/"pm" for the "pm" element.
	s = s[:len(s)-2] + strings.ToLower(s[len(s)-2:])
	t, err := time.ParseInLocation(DatetimeLayout, s, loc)
	if err != nil {
		return nil
	}
	return &t
}

// CombineDatetime joins a date cell and a time cell and parses the result.
// Either cell absent gives nil.
func CombineDatetime(date, clock Cell, loc *time.Location) *time.Time {
	if !date.Valid || !clock.Valid {
		return nil
	}
	return ToDatetime(date.Text+clock.Text, loc)
}

// ToCurrencyMinorUnits parses a money or hours amount such as "$1,234.50" and
// returns it scaled by domain.MinorUnitScale, truncating extra precision toward
// zero. Surrounding whitespace, one leading "$" (after an optional sign) and
// thousands separators are ignored. Unparseable text yields def.
func ToCurrencyMinorUnits(text string, def int64) int64 {
	if v, ok := parseMinorUnits(text); ok {
		return v
	}
	return def
}

func parseMinorUnits(text string) (int64, bool) {
	s := strings.TrimSpace(text)
	sign := ""
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		sign, s = "-", rest
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}

	d, err := decimal.NewFromString(sign + s)
	if err != nil {
		return 0, false
	}
	scaled := d.Shift(minorUnitExp).Truncate(0)
	if !scaled.BigInt().IsInt64() {
		return 0, false
	}
	return scaled.IntPart(), true
}

// ToBreakPaid reports whether the Break type cell marks a paid break.
func ToBreakPaid(c Cell) bool {
	return c.Valid && c.Text == BreakPaidMarker
}
