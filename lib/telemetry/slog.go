package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the default slog handler for the process.
// debug enables LevelDebug, which also turns on per-request
// logging in instrumented resty clients.
func InitSlog(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
