// Package timesheet cleans payroll timesheet exports into typed shift records.
// An export is delimited text with a short preamble, a header row and one row per
// shift, interleaved with blank separator rows, repeated header rows and per-employee
// totals lines.
//
// # Architecture
//
// The package is organized into four components applied in sequence:
//
// 1. Table reader: decodes the bytes and builds a RawTable of optional cells
// 2. Row filters: drop blank, duplicated-header and empty-shift rows
// 3. Field coercers: convert single cells with an explicit fallback value
// 4. Typing pass: turns every surviving row into a domain.ShiftRecord
//
// # Usage
//
//	p := timesheet.New(timesheet.WithLocation(loc))
//	result, err := p.Process(ctx, "week-07.csv", data)
//	if err != nil {
//	    return err // *errors.ParseError for structural problems
//	}
//	for _, rec := range result.Records {
//	    ...
//	}
//
// # Data Flow
//
//	bytes → ReadTable → blank rows → duplicate headers → empty shifts → TypeColumns → records
//
// # Error Handling
//
// Cell-level problems never fail: the coercer's default is substituted and an Anomaly
// is recorded. Only structural problems (no readable table, missing required column,
// malformed pay period) abort processing with a *errors.ParseError.
//
// # Thread Safety
//
// Filters and coercers are pure functions. A Pipeline is immutable after New and may
// be shared by any number of goroutines.
package timesheet
