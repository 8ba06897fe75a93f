// Package status is the internal diagnostic channel used to report
// configuration warnings and per-event anomalies without returning
// them into application code.
package status

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"

	slogmulti "github.com/samber/slog-multi"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	SetHandlers()
}

func defaultHandler() slog.Handler {
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
}

// SetHandlers replaces handlers receiving status records.
// Without arguments it restores the default handler which writes
// warnings and errors to stderr.
func SetHandlers(hs ...slog.Handler) {
	var h slog.Handler
	switch len(hs) {
	case 0:
		h = defaultHandler()
	case 1:
		h = hs[0]
	default:
		h = slogmulti.Fanout(hs...)
	}
	logger.Store(slog.New(h).With(slog.String("component", "loglayout")))
}

// Logger returns current status logger.
func Logger() *slog.Logger { return logger.Load() }

func Debug(msg string, args ...any) { log(slog.LevelDebug, msg, args...) }

func Warn(msg string, args ...any) { log(slog.LevelWarn, msg, args...) }

func Error(msg string, args ...any) { log(slog.LevelError, msg, args...) }

func log(level slog.Level, msg string, args ...any) {
	logger.Load().Log(context.Background(), level, msg, args...)
}
