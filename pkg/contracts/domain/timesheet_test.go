package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPayPeriod(t *testing.T) {
	tests := []struct {
		name     string
		period   PayPeriod
		ordered  bool
		sameYear bool
		days     int
		str      string
	}{
		{
			name:     "fortnight",
			period:   PayPeriod{Start: date(2024, 2, 1), End: date(2024, 2, 14)},
			ordered:  true,
			sameYear: true,
			days:     14,
			str:      "02/01/2024 To 02/14/2024",
		},
		{
			name:     "single day",
			period:   PayPeriod{Start: date(2024, 3, 5), End: date(2024, 3, 5)},
			ordered:  true,
			sameYear: true,
			days:     1,
			str:      "03/05/2024 To 03/05/2024",
		},
		{
			name:     "across new year",
			period:   PayPeriod{Start: date(2023, 12, 25), End: date(2024, 1, 7)},
			ordered:  true,
			sameYear: false,
			days:     14,
			str:      "12/25/2023 To 01/07/2024",
		},
		{
			name:     "reversed",
			period:   PayPeriod{Start: date(2024, 2, 14), End: date(2024, 2, 1)},
			ordered:  false,
			sameYear: true,
			days:     0,
			str:      "02/14/2024 To 02/01/2024",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ordered, tt.period.Ordered())
			assert.Equal(t, tt.sameYear, tt.period.SameYear())
			assert.Equal(t, tt.days, tt.period.Days())
			assert.Equal(t, tt.str, tt.period.String())
		})
	}
}

func TestShiftRecord_HasSentinelPayrollID(t *testing.T) {
	assert.True(t, ShiftRecord{PayrollID: PayrollIDSentinel}.HasSentinelPayrollID())
	assert.False(t, ShiftRecord{PayrollID: 1042}.HasSentinelPayrollID())
}
