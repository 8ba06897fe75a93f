package loglayout

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/powerman/loglayout/logevent"
)

// MarkerKey is the key used by Marker.
const MarkerKey = "marker"

// Marker returns an attr which sets Event.Marker when logged through Handler.
func Marker(m *logevent.Marker) slog.Attr {
	return slog.Any(MarkerKey, m)
}

// LogSkip emits a log record using handler with the
// current time and the given level and message.
// Value skip=0 works exactly like (*slog.Logger).Log,
// value skip=1 skips caller of LogSkip() etc.
//
// Unlike slog.Logger it accepts levels like logevent.Trace and logevent.Fatal.
func LogSkip(ctx context.Context, skip int, handler slog.Handler, level logevent.Level, msg string, args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !handler.Enabled(ctx, level.Slog()) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(2+skip, pcs[:])
	r := slog.NewRecord(time.Now(), level.Slog(), msg, pcs[0])
	r.Add(args...)
	_ = handler.Handle(ctx, r)
}

// LogMarker works like LogSkip with skip=0 and adds marker m to the record.
func LogMarker(ctx context.Context, handler slog.Handler, level logevent.Level, m *logevent.Marker, msg string, args ...any) {
	LogSkip(ctx, 1, handler, level, msg, append([]any{Marker(m)}, args...)...)
}
