package errors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitOK},
		{name: "parse error", err: NewParseError(KindPayPeriod, "x", nil), want: ExitParsing},
		{name: "wrapped parse error", err: fmt.Errorf("file a.csv: %w", MissingColumnError("Wage")), want: ExitParsing},
		{name: "parsing app error", err: NewParsingError("x", nil), want: ExitParsing},
		{name: "validation", err: NewAppValidationError("x"), want: ExitValidation},
		{name: "config", err: NewConfigError("x", nil), want: ExitValidation},
		{name: "not found", err: NewNotFoundError("file"), want: ExitValidation},
		{name: "storage", err: NewStorageError("x", nil), want: ExitStorage},
		{name: "plain", err: errors.New("boom"), want: ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestLogError(t *testing.T) {
	t.Run("parse error attributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		err := MissingColumnError("Wage").WithSource("a.csv")
		LogError(context.Background(), logger, "processing failed", err)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "processing failed", entry["msg"])
		assert.Equal(t, "missing_column", entry["kind"])
		assert.Equal(t, "a.csv", entry["source"])
		assert.Equal(t, "Wage", entry["column"])
	})

	t.Run("app error context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		err := NewStorageError("write failed", nil).WithContext("path", "/tmp/x")
		LogError(context.Background(), logger, "export failed", err)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "STORAGE", entry["error_type"])
		assert.Equal(t, "/tmp/x", entry["path"])
	})

	t.Run("nil error logs nothing", func(t *testing.T) {
		var buf bytes.Buffer
		LogError(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)), "x", nil)
		assert.Zero(t, buf.Len())
	})
}
