package logevent

import (
	"runtime"
	"strings"
	"time"
)

// Event is a single log record.
type Event struct {
	Time           time.Time
	Nanos          int64 // Monotonic clock reading, used by %N.
	Level          Level
	LoggerName     string
	LoggerFQCN     string // Fully qualified name of the logging API entry point.
	ThreadName     string
	ThreadID       int64
	ThreadPriority int
	Message        Message
	Marker         *Marker
	Thrown         error
	Source         *Source           // Nil unless the layout RequiresLocation.
	ContextMap     map[string]string // MDC.
	ContextStack   []string          // NDC, oldest first.
	EndOfBatch     bool
}

// TimeMillis returns event time as milliseconds since the Unix epoch.
func (e *Event) TimeMillis() int64 {
	return e.Time.UnixMilli()
}

// FormattedMessage returns rendered message or empty string if there is no message.
func (e *Event) FormattedMessage() string {
	if e.Message == nil {
		return ""
	}
	return e.Message.FormattedMessage()
}

// Source describes the location of the log call.
type Source struct {
	Class  string // Package path plus receiver type, if any.
	Method string
	File   string
	Line   int
}

// SourceFromPC returns location of the function containing pc.
// It returns nil for zero pc.
func SourceFromPC(pc uintptr) *Source {
	if pc == 0 {
		return nil
	}
	fs := runtime.CallersFrames([]uintptr{pc})
	f, _ := fs.Next()
	class, method := splitFuncName(f.Function)
	return &Source{Class: class, Method: method, File: f.File, Line: f.Line}
}

// splitFuncName splits "path/pkg.(*T).M" into "path/pkg.T" and "M",
// and "path/pkg.F" into "path/pkg" and "F".
func splitFuncName(fn string) (class, method string) {
	slash := strings.LastIndexByte(fn, '/')
	dot := strings.IndexByte(fn[slash+1:], '.')
	if dot < 0 {
		return "", fn
	}
	pkg, rest := fn[:slash+1+dot], fn[slash+2+dot:]
	if !strings.HasPrefix(rest, "(") {
		return pkg, rest
	}
	recv, method, ok := strings.Cut(rest, ").")
	if !ok {
		return pkg, rest
	}
	return pkg + "." + strings.TrimPrefix(strings.TrimPrefix(recv, "("), "*"), method
}
