package loglayout

import (
	"log/slog"

	"github.com/powerman/loglayout/internal/status"
)

// SetStatusHandler sets handlers receiving diagnostics: configuration
// warnings, encoding fallbacks, compression failures, script errors and
// recovered panics. Records are sent to all handlers.
// Without arguments it restores the default handler, which writes
// warnings and errors to stderr.
func SetStatusHandler(hs ...slog.Handler) {
	status.SetHandlers(hs...)
}
