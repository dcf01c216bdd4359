// Package logging sets up dltcat's structured logger, grounded on the
// teacher's cmd/root.go setupLogger: log/slog with a tint handler chosen
// by the configured level.
package logging

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"

	"github.com/dlt-toolkit/dlthub/internal/config"
)

// New builds a leveled, colorized slog.Logger for the given configuration.
// The output stream follows the configured level, not each record's level:
// debug, info and unrecognized levels log everything to stdout, warn and
// error log everything to stderr.
func New(level config.LogLevel) *slog.Logger {
	switch level {
	case config.LogLevelDebug:
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: slog.LevelDebug}))
	case config.LogLevelInfo:
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: slog.LevelInfo}))
	case config.LogLevelWarn:
		return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelWarn}))
	case config.LogLevelError:
		return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelError}))
	default:
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: slog.LevelInfo}))
	}
}
