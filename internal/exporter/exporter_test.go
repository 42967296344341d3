package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payrollcli/internal/config"
	apierrors "payrollcli/internal/errors"
)

func TestExporter_Export(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{config.FormatJSON, []string{"ts_feb_24.json"}},
		{config.FormatCSV, []string{"ts_feb_24.shifts.csv", "ts_feb_24.anomalies.csv"}},
		{config.FormatXLSX, []string{"ts_feb_24.xlsx"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			dir := t.TempDir()
			exp := New(config.ExportConfig{Dir: dir, Format: tt.format, BOM: true}, nil)

			files, err := exp.Export(context.Background(), sampleResult())
			require.NoError(t, err)
			require.Len(t, files, len(tt.want))
			for i, name := range tt.want {
				assert.Equal(t, filepath.Join(dir, name), files[i])
				assert.FileExists(t, files[i])
			}
		})
	}
}

func TestExporter_JSONContent(t *testing.T) {
	dir := t.TempDir()
	files, err := New(config.ExportConfig{Dir: dir, Format: "json"}, nil).
		Export(context.Background(), sampleResult())
	require.NoError(t, err)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)

	var doc struct {
		Source  string `json:"source"`
		Records []struct {
			Name      string `json:"name"`
			PayrollID int64  `json:"payroll_id"`
			Wage      int64  `json:"wage"`
		} `json:"records"`
		Stats struct {
			Dropped map[string]int `json:"dropped"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "in/ts_feb_24.csv", doc.Source)
	require.Len(t, doc.Records, 2)
	assert.Equal(t, int64(1234500), doc.Records[0].Wage)
	assert.Equal(t, int64(9999), doc.Records[1].PayrollID)
	assert.Equal(t, 2, doc.Stats.Dropped["blank_rows"])
}

func TestExporter_UnsupportedFormat(t *testing.T) {
	exp := New(config.ExportConfig{Dir: t.TempDir(), Format: "parquet"}, nil)

	_, err := exp.Export(context.Background(), sampleResult())
	require.Error(t, err)
	assert.Equal(t, apierrors.ExitValidation, apierrors.ExitCode(err))
}

func TestExporter_StorageError(t *testing.T) {
	// A regular file where the export directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	exp := New(config.ExportConfig{Dir: filepath.Join(blocker, "out"), Format: "json"}, nil)
	_, err := exp.Export(context.Background(), sampleResult())
	require.Error(t, err)

	var appErr *apierrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apierrors.ErrTypeStorage, appErr.Type)
	assert.Equal(t, apierrors.ExitStorage, apierrors.ExitCode(err))
}

func TestUniqueStems(t *testing.T) {
	tests := []struct {
		name    string
		sources []string
		want    []string
	}{
		{
			name:    "distinct names unchanged",
			sources: []string{"in/ts_feb.csv", "in/ts_mar.csv"},
			want:    []string{"ts_feb", "ts_mar"},
		},
		{
			name:    "same name in different directories",
			sources: []string{"a/ts.csv", "b/ts.csv", "c/other.csv"},
			want:    []string{"a_ts", "b_ts", "other"},
		},
		{
			name:    "same parent directory name",
			sources: []string{"x/site/ts.csv", "y/site/ts.csv"},
			want:    []string{"site_ts", "site_ts_2"},
		},
		{
			name:    "prefixed name collides with another input",
			sources: []string{"a/ts.csv", "b/ts.csv", "in/a_ts.csv"},
			want:    []string{"a_ts", "b_ts", "a_ts_2"},
		},
		{
			name:    "different extensions",
			sources: []string{"ts.csv", "ts.txt"},
			want:    []string{"ts", "ts_2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UniqueStems(tt.sources))
		})
	}
}

func TestExporter_ExportAs(t *testing.T) {
	dir := t.TempDir()
	exp := New(config.ExportConfig{Dir: dir, Format: "json"}, nil)

	first, err := exp.ExportAs(context.Background(), sampleResult(), "a_ts")
	require.NoError(t, err)
	second, err := exp.ExportAs(context.Background(), sampleResult(), "b_ts")
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "a_ts.json")}, first)
	assert.Equal(t, []string{filepath.Join(dir, "b_ts.json")}, second)
	assert.FileExists(t, first[0])
	assert.FileExists(t, second[0])
}

func TestExporter_LogsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	_, err := New(config.ExportConfig{Dir: t.TempDir(), Format: "json"}, logger).
		Export(context.Background(), sampleResult())
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "exporter", entry["component"])
	assert.Equal(t, "result exported", entry["msg"])
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "ts_feb_24", BaseName("in/ts_feb_24.csv"))
	assert.Equal(t, "export.v2", BaseName("export.v2.csv"))
	assert.Equal(t, "stdin", BaseName("stdin"))
	assert.Equal(t, "timesheet", BaseName(""))
}
