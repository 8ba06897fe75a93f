package loglayout_test

import (
	"bytes"
	"time"

	"github.com/powerman/check"

	"github.com/powerman/loglayout"
	"github.com/powerman/loglayout/encode"
	"github.com/powerman/loglayout/logevent"
)

var testTime = time.Date(2024, 3, 5, 7, 8, 9, 123456789, time.UTC)

func newEvent() *logevent.Event {
	return &logevent.Event{
		Time:           testTime,
		Nanos:          42,
		Level:          logevent.Info,
		LoggerName:     "org.example.app.Service",
		LoggerFQCN:     "log/slog.Logger",
		ThreadName:     "main",
		ThreadID:       7,
		ThreadPriority: 5,
		Message:        logevent.Text("hello"),
		ContextMap:     map[string]string{"user": "alice", "req": "r1"},
		ContextStack:   []string{"outer", "inner"},
	}
}

func format(t *check.C, l loglayout.Layout, e *logevent.Event) string {
	t.Helper()
	s, err := l.Format(e)
	t.Must(t.Nil(err))
	return s
}

// encodeEvent returns bytes written by l.Encode.
func encodeEvent(t *check.C, l loglayout.Layout, e *logevent.Event) ([]byte, error) {
	t.Helper()
	var buf bytes.Buffer
	dst := encode.NewWriterDestination(&buf, 16)
	err := l.Encode(e, dst)
	t.Nil(dst.Flush())
	return buf.Bytes(), err
}
