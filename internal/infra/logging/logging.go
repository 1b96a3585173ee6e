package logging

import (
	"io"
	"log/slog"
	"os"
)

// SetupJSON sets slog's default logger to emit JSON at the given level. A nil
// writer falls back to stdout.
func SetupJSON(w io.Writer, level slog.Level) {
	if w == nil {
		w = os.Stdout
	}

	logger := slog.New(
		slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}),
	)
	slog.SetDefault(logger)
}
