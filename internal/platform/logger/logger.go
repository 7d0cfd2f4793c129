package logger

import (
	"log/slog"
	"os"
)

// New returns the structured logger used across the service. JSON output so
// station logs can be shipped as-is.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
