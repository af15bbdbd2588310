package shared

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Kargones/dbrename/internal/constants"
	"github.com/Kargones/dbrename/internal/pkg/output"
)

// HandleError writes a standardized error message to stdout and returns a formatted error.
// Used by handlers to report errors in a consistent format.
func HandleError(message, code string) error {
	_, _ = fmt.Fprintf(os.Stdout, "Ошибка: %s\nКод: %s\n", message, code)
	return fmt.Errorf("%s: %s", code, message)
}

// WriteError выводит ошибку команды в формате format и возвращает error вида "CODE: message".
// Для text используется HandleError, для json/yaml — Result со статусом error.
func WriteError(w io.Writer, format, command, traceID string, start time.Time, code, message string) error {
	if !output.IsStructured(format) {
		return HandleError(message, code)
	}

	result := &output.Result{
		Status:  output.StatusError,
		Command: command,
		Error: &output.ErrorInfo{
			Code:    code,
			Message: message,
		},
		Metadata: &output.Metadata{
			DurationMs: time.Since(start).Milliseconds(),
			TraceID:    traceID,
			APIVersion: constants.APIVersion,
		},
	}
	if writeErr := output.NewWriter(format).Write(w, result); writeErr != nil {
		slog.Default().Error("Не удалось записать ответ об ошибке",
			slog.String("trace_id", traceID),
			slog.String("error", writeErr.Error()))
	}
	return fmt.Errorf("%s: %s", code, message)
}
