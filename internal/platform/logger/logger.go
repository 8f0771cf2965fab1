package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New returns a slog logger configured for the given mode: JSON in
// production, text elsewhere.
func New(mode string) *slog.Logger {
	var handler slog.Handler
	switch strings.ToLower(mode) {
	case "prod", "production":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(handler)
}

// Discard returns a logger that drops everything. Tests use it to keep
// output quiet without nil checks in services.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
