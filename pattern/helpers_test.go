package pattern_test

import (
	"time"

	"github.com/powerman/check"

	"github.com/powerman/loglayout/logevent"
	"github.com/powerman/loglayout/pattern"
)

func newEvent() *logevent.Event {
	return &logevent.Event{
		Time:           time.Date(2024, 3, 5, 7, 8, 9, 123456789, time.UTC),
		Nanos:          42,
		Level:          logevent.Info,
		LoggerName:     "org.example.app.Service",
		ThreadName:     "main",
		ThreadID:       7,
		ThreadPriority: 5,
		Message:        logevent.Text("hello"),
		ContextMap:     map[string]string{"user": "alice", "req": "r1"},
		ContextStack:   []string{"outer", "inner"},
	}
}

func render(t *check.C, pat string, e *logevent.Event) string {
	t.Helper()
	return renderWith(t, pat, pattern.ParseOptions{}, e)
}

func renderWith(t *check.C, pat string, opts pattern.ParseOptions, e *logevent.Event) string {
	t.Helper()
	p, err := pattern.NewParser(nil).ParseWithOptions(pat, opts)
	t.Must(t.Nil(err))
	return p.Format(e)
}
