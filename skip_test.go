package loglayout_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/powerman/check"

	"github.com/powerman/loglayout"
	"github.com/powerman/loglayout/logevent"
)

func newSkipHandler(t *check.C, buf *bytes.Buffer, level logevent.Level) slog.Handler {
	t.Helper()
	l, err := loglayout.NewPatternLayout(loglayout.PatternLayoutOptions{
		Pattern: "%p %marker %F:%L %m %X%n",
	})
	t.Must(t.Nil(err))
	return loglayout.NewHandler(buf, l, &loglayout.HandlerOptions{Level: level.Slog()})
}

func TestLogSkip(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	var buf bytes.Buffer
	ctx := context.Background()
	h := newSkipHandler(t, &buf, logevent.Error)

	loglayout.LogSkip(ctx, 0, h, logevent.Warn, "message", "err", io.EOF)
	t.Len(buf.String(), 0)

	loglayout.LogSkip(ctx, 0, h, logevent.Fatal, "message", "id", 1)
	t.Match(buf.String(), `^FATAL  .*/skip_test.go:\d+ message \{id=1\}\n$`)

	buf.Reset()
	loglayout.LogSkip(nil, 1, h, logevent.Error, "message", "id", 2) //nolint:staticcheck // Test nil ctx.
	t.Match(buf.String(), `^ERROR  .*/testing/testing.go:\d+ message \{id=2\}\n$`)
}

func TestLogSkip_Trace(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	var buf bytes.Buffer
	h := newSkipHandler(t, &buf, logevent.Trace)

	loglayout.LogSkip(context.Background(), 0, h, logevent.Trace, "deep")
	t.Match(buf.String(), `^TRACE  .*/skip_test.go:\d+ deep \{\}\n$`)
}

func TestLogMarker(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	var buf bytes.Buffer
	h := newSkipHandler(t, &buf, logevent.Info)
	audit := logevent.NewMarker("AUDIT", logevent.NewMarker("SECURITY"))

	loglayout.LogMarker(context.Background(), h, logevent.Debug, audit, "hidden")
	t.Len(buf.String(), 0)

	loglayout.LogMarker(context.Background(), h, logevent.Info, audit, "login", "user", "alice")
	t.Match(buf.String(), `^INFO AUDIT\[ SECURITY \] .*/skip_test.go:\d+ login \{user=alice\}\n$`)
}
