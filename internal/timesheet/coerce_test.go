package timesheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInteger(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want int64
	}{
		{name: "plain", cell: Text("42"), want: 42},
		{name: "surrounding space", cell: Text(" 1042 "), want: 1042},
		{name: "negative", cell: Text("-7"), want: -7},
		{name: "integral decimal", cell: Text("42.0"), want: 42},
		{name: "trailing point", cell: Text("1042."), want: 1042},
		{name: "zero fraction run", cell: Text("1042.000"), want: 1042},
		{name: "fractional", cell: Text("42.5"), want: 9999},
		{name: "exponent", cell: Text("1e3"), want: 9999},
		{name: "decimal exponent", cell: Text("4.2e1"), want: 9999},
		{name: "exponent after point", cell: Text("42.0e1"), want: 9999},
		{name: "bare point", cell: Text("."), want: 9999},
		{name: "letters", cell: Text("abc"), want: 9999},
		{name: "mixed", cell: Text("12a"), want: 9999},
		{name: "overflow", cell: Text("99999999999999999999"), want: 9999},
		{name: "absent", cell: Absent, want: 9999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToInteger(tt.cell, 9999))
		})
	}
}

func TestToText(t *testing.T) {
	assert.Equal(t, "Barista", ToText(Text("Barista"), "None"))
	assert.Equal(t, " Barista ", ToText(Text(" Barista "), "None"))
	assert.Equal(t, "None", ToText(Absent, "None"))
	assert.Equal(t, "", ToText(Absent, ""))
}

func TestToDatetime(t *testing.T) {
	sydney, err := time.LoadLocation("Australia/Sydney")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}

	tests := []struct {
		name string
		text string
		loc  *time.Location
		want time.Time
	}{
		{
			name: "morning",
			text: "1 February 20248:00am",
			want: time.Date(2024, time.February, 1, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "afternoon two digit day",
			text: "14 February 20244:30pm",
			want: time.Date(2024, time.February, 14, 16, 30, 0, 0, time.UTC),
		},
		{
			name: "noon",
			text: "01 January 202412:00pm",
			want: time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "midnight",
			text: "01 January 202412:15am",
			want: time.Date(2024, time.January, 1, 0, 15, 0, 0, time.UTC),
		},
		{
			name: "upper case suffix",
			text: "2 February 20248:05AM",
			want: time.Date(2024, time.February, 2, 8, 5, 0, 0, time.UTC),
		},
		{
			name: "lower case month",
			text: "2 february 20248:05pm",
			want: time.Date(2024, time.February, 2, 20, 5, 0, 0, time.UTC),
		},
		{
			name: "surrounding space",
			text: " 2 February 20248:05pm ",
			want: time.Date(2024, time.February, 2, 20, 5, 0, 0, time.UTC),
		},
		{
			name: "location",
			text: "2 February 20248:05pm",
			loc:  sydney,
			want: time.Date(2024, time.February, 2, 20, 5, 0, 0, sydney),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDatetime(tt.text, tt.loc)
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %v want %v", got, tt.want)
		})
	}
}

func TestToDatetime_Invalid(t *testing.T) {
	for _, text := range []string{
		"",
		"x",
		"2 February 2024",
		"2 February 2024 8:05pm",
		"2 Febtober 20248:05pm",
		"2 February 202413:05pm",
		"02/02/2024 8:05pm",
		"2 February 20248:05",
	} {
		t.Run(text, func(t *testing.T) {
			assert.Nil(t, ToDatetime(text, nil))
		})
	}
}

func TestCombineDatetime(t *testing.T) {
	date := Text("1 February 2024")
	clock := Text("8:00am")

	got := CombineDatetime(date, clock, nil)
	require.NotNil(t, got)
	assert.True(t, time.Date(2024, time.February, 1, 8, 0, 0, 0, time.UTC).Equal(*got))

	assert.Nil(t, CombineDatetime(Absent, clock, nil))
	assert.Nil(t, CombineDatetime(date, Absent, nil))
	assert.Nil(t, CombineDatetime(Absent, Absent, nil))
}

func TestToCurrencyMinorUnits(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int64
	}{
		{name: "dollars with separator", text: "$1,234.50", want: 1234500},
		{name: "dollars", text: "$20.00", want: 20000},
		{name: "hours", text: "8.50", want: 8500},
		{name: "whole", text: "7", want: 7000},
		{name: "surrounding space", text: "  $15.25 ", want: 15250},
		{name: "truncates extra precision", text: "1.23456", want: 1234},
		{name: "negative truncates toward zero", text: "-1.23456", want: -1234},
		{name: "negative dollars", text: "-$5.00", want: -5000},
		{name: "large", text: "$1,000,000.999", want: 1000000999},
		{name: "bogus", text: "bogus", want: 0},
		{name: "empty", text: "", want: 0},
		{name: "sign only", text: "-", want: 0},
		{name: "symbol only", text: "$", want: 0},
		{name: "overflow", text: "99999999999999999999", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToCurrencyMinorUnits(tt.text, 0))
		})
	}
}

func TestToCurrencyMinorUnits_Default(t *testing.T) {
	assert.Equal(t, int64(-1), ToCurrencyMinorUnits("n/a", -1))
}

func TestToBreakPaid(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want bool
	}{
		{name: "paid", cell: Text("30 min - Paid"), want: true},
		{name: "unpaid", cell: Text("Unpaid"), want: false},
		{name: "unpaid thirty", cell: Text("30 min - Unpaid"), want: false},
		{name: "case differs", cell: Text("30 min - paid"), want: false},
		{name: "padded", cell: Text(" 30 min - Paid"), want: false},
		{name: "absent", cell: Absent, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToBreakPaid(tt.cell))
		})
	}
}
