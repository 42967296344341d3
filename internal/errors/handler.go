package errors

import (
	"context"
	stderrors "errors"
	"log/slog"
)

// Process exit codes reported by the command line tools.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitParsing    = 2
	ExitValidation = 3
	ExitStorage    = 4
)

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	if _, ok := AsParseError(err); ok {
		return ExitParsing
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		switch appErr.Type {
		case ErrTypeParsing:
			return ExitParsing
		case ErrTypeValidation, ErrTypeConfig, ErrTypeNotFound:
			return ExitValidation
		case ErrTypeStorage:
			return ExitStorage
		}
	}

	return ExitFailure
}

// LogError writes err with whatever structured context it carries.
func LogError(ctx context.Context, logger *slog.Logger, msg string, err error) {
	if err == nil {
		return
	}

	attrs := []any{slog.String("error", err.Error())}

	if pe, ok := AsParseError(err); ok {
		attrs = append(attrs, slog.String("kind", string(pe.Kind)))
		if pe.Source != "" {
			attrs = append(attrs, slog.String("source", pe.Source))
		}
		if pe.Line > 0 {
			attrs = append(attrs, slog.Int("line", pe.Line))
		}
		if pe.Column != "" {
			attrs = append(attrs, slog.String("column", pe.Column))
		}
	} else {
		var appErr *AppError
		if stderrors.As(err, &appErr) {
			attrs = append(attrs, slog.String("error_type", string(appErr.Type)))
			for k, v := range appErr.Context {
				attrs = append(attrs, slog.Any(k, v))
			}
		}
	}

	logger.ErrorContext(ctx, msg, attrs...)
}
