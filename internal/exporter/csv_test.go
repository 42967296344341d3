package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payrollcli/internal/timesheet"
	"payrollcli/pkg/contracts/domain"
)

// sampleResult builds a small result with one clean shift, one defaulted
// shift and two anomalies.
func sampleResult() *timesheet.Result {
	in := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	out := time.Date(2024, 2, 1, 17, 30, 0, 0, time.UTC)
	return &timesheet.Result{
		Source: "in/ts_feb_24.csv",
		PayPeriod: domain.PayPeriod{
			Start: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
		},
		Records: []domain.ShiftRecord{
			{Name: "John Smith", PayrollID: 1042, ClockIn: &in, ClockOut: &out, Role: "Cook", Wage: 1234500, BreakPaid: true},
			{Name: "Jane Doe", PayrollID: domain.PayrollIDSentinel, Role: "None"},
		},
		Anomalies: []timesheet.Anomaly{
			{Row: 6, Column: "Payroll ID", Reason: "missing payroll id"},
			{Row: 6, Column: "Wage", Value: "bogus", Reason: "not a decimal amount"},
		},
		Warnings: []timesheet.TableWarning{{Line: 9, Message: "row has 16 fields, truncated to 15"}},
		Stats: timesheet.Stats{
			RowsRead:  5,
			Dropped:   map[string]int{"blank_rows": 2, "empty_shifts": 1},
			Records:   2,
			Anomalies: 2,
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	content = bytes.TrimPrefix(content, utf8BOM)
	rows, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewCSVWriter(nil)

	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		validate func(t *testing.T, filePath string)
	}{
		{
			name:     "basic write with headers",
			filePath: "test_basic.csv",
			options: WriteOptions{
				Headers: []string{"Name", "Role", "Wage"},
				Records: [][]string{
					{"John", "Cook", "20"},
					{"Jane", "Server", "15.5"},
				},
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 3)
				assert.Equal(t, "Name,Role,Wage", lines[0])
				assert.Equal(t, "John,Cook,20", lines[1])
				assert.Equal(t, "Jane,Server,15.5", lines[2])
			},
		},
		{
			name:     "write with BOM prefix",
			filePath: "test_bom.csv",
			options: WriteOptions{
				Headers:   []string{"Name"},
				Records:   [][]string{{"José"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				assert.True(t, bytes.HasPrefix(content, utf8BOM))
				lines := strings.Split(strings.TrimSpace(string(content[3:])), "\n")
				assert.Equal(t, "Name", lines[0])
				assert.Equal(t, "José", lines[1])
			},
		},
		{
			name:     "write without headers",
			filePath: "test_no_headers.csv",
			options: WriteOptions{
				Records: [][]string{{"a", "b"}, {"c", "d"}},
			},
			validate: func(t *testing.T, filePath string) {
				assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, readCSV(t, filePath))
			},
		},
		{
			name:     "quotes embedded commas",
			filePath: "test_quotes.csv",
			options: WriteOptions{
				Headers: []string{"Note"},
				Records: [][]string{{"late, called ahead"}},
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)
				assert.Contains(t, string(content), `"late, called ahead"`)
			},
		},
		{
			name:     "creates nested directories",
			filePath: filepath.Join("a", "b", "test_nested.csv"),
			options: WriteOptions{
				Headers: []string{"Col1", "Col2"},
			},
			validate: func(t *testing.T, filePath string) {
				assert.Equal(t, [][]string{{"Col1", "Col2"}}, readCSV(t, filePath))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tempDir, tt.filePath)
			require.NoError(t, writer.WriteCSV(path, tt.options))
			tt.validate(t, path)
		})
	}
}

func TestCSVWriter_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	writer := NewCSVWriter(nil)

	require.NoError(t, writer.WriteCSV(path, WriteOptions{Records: [][]string{{"old"}, {"rows"}}}))
	require.NoError(t, writer.WriteCSV(path, WriteOptions{Records: [][]string{{"new"}}}))

	assert.Equal(t, [][]string{{"new"}}, readCSV(t, path))
}

func TestCSVWriter_WriteShifts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shifts.csv")
	result := sampleResult()

	require.NoError(t, NewCSVWriter(nil).WriteShifts(path, result.Records, true))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, shiftHeaders, rows[0])
	assert.Equal(t, "John Smith", rows[1][0])
	assert.Equal(t, "1042", rows[1][1])
	assert.Equal(t, "2024-02-01T09:00:00Z", rows[1][2])
	assert.Equal(t, "1234.5", rows[1][7])
	assert.Equal(t, "true", rows[1][12])
	assert.Equal(t, "9999", rows[2][1])
	assert.Equal(t, "", rows[2][2])
}

func TestCSVWriter_WriteAnomalies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anomalies.csv")

	require.NoError(t, NewCSVWriter(nil).WriteAnomalies(path, sampleResult().Anomalies, false))
	assert.Equal(t, [][]string{
		anomalyHeaders,
		{"6", "Payroll ID", "", "missing payroll id"},
		{"6", "Wage", "bogus", "not a decimal amount"},
	}, readCSV(t, path))

	empty := filepath.Join(t.TempDir(), "none.csv")
	require.NoError(t, NewCSVWriter(nil).WriteAnomalies(empty, nil, false))
	assert.Equal(t, [][]string{anomalyHeaders}, readCSV(t, empty))
}
