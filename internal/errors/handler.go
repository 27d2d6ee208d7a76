package errors

import (
	"context"
	"errors"
	"log/slog"
	"sort"
)

// Process exit codes used by the command line tools
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitConfig      = 2
	ExitMissingData = 3
)

// ErrorHandler provides centralized error reporting for command line tools
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// Handle logs err with its type and context and returns the process exit code.
func (h *ErrorHandler) Handle(ctx context.Context, err error) int {
	if err == nil {
		return ExitOK
	}

	attrs := []any{slog.String("error", err.Error())}

	var appErr *AppError
	if errors.As(err, &appErr) {
		attrs = append(attrs, slog.String("error_type", string(appErr.Type)))
		keys := make([]string, 0, len(appErr.Context))
		for k := range appErr.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			attrs = append(attrs, slog.Any(k, appErr.Context[k]))
		}
	}

	h.logger.ErrorContext(ctx, "run failed", attrs...)
	return ExitCode(err)
}

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrMissingCategoryFile):
		return ExitMissingData
	case IsType(err, ErrTypeConfig), IsType(err, ErrTypeValidation):
		return ExitConfig
	default:
		return ExitFailure
	}
}
