package loglayout

import (
	"strconv"
	"time"

	"github.com/powerman/loglayout/encode"
	"github.com/powerman/loglayout/logevent"
)

// SyslogOptions configure NewSyslogLayout.
type SyslogOptions struct {
	Facility       Facility
	IncludeNewLine bool
	// EscapeNewLine replaces line breaks in the message if not empty.
	EscapeNewLine string
	Hostname      string         // Default: local host name.
	Location      *time.Location // Default: time zone of the event.
	Charset       *encode.Charset
}

// DefaultSyslogOptions returns options with LOCAL0 facility.
func DefaultSyslogOptions() SyslogOptions {
	return SyslogOptions{Facility: FacilityLocal0}
}

// SyslogLayout renders events in BSD syslog (RFC 3164) format:
//
//	<PRI>Mmm dd hh:mm:ss HOSTNAME MESSAGE
type SyslogLayout struct {
	textLayout
	opts       SyslogOptions
	timestamps *timestampCache
}

var _ Layout = (*SyslogLayout)(nil)

// NewSyslogLayout returns a layout configured by opts.
func NewSyslogLayout(opts SyslogOptions) *SyslogLayout {
	if opts.Hostname == "" {
		opts.Hostname = localHostname()
	}
	l := &SyslogLayout{opts: opts, timestamps: newTimestampCache(appendBSDTimestamp)}
	l.textLayout = newTextLayout(opts.Charset, "text/plain", l.appendTo)
	return l
}

func (l *SyslogLayout) appendTo(dst []byte, e *logevent.Event) ([]byte, error) {
	dst = append(dst, '<')
	dst = strconv.AppendInt(dst, int64(Priority(l.opts.Facility, e.Level)), 10)
	dst = append(dst, '>')
	t := e.Time
	if l.opts.Location != nil {
		t = t.In(l.opts.Location)
	}
	dst = l.timestamps.append(dst, t)
	dst = append(dst, ' ')
	dst = append(dst, l.opts.Hostname...)
	dst = append(dst, ' ')
	msg := e.FormattedMessage()
	if l.opts.EscapeNewLine != "" {
		dst = appendEscapedNewLines(dst, msg, l.opts.EscapeNewLine)
	} else {
		dst = append(dst, msg...)
	}
	if l.opts.IncludeNewLine {
		dst = append(dst, '\n')
	}
	return dst, nil
}

func (*SyslogLayout) RequiresLocation() bool { return false }

func (*SyslogLayout) ContentFormat() map[string]string {
	return map[string]string{
		"structured": "false",
		"formatType": "logfilepatternreceiver",
		"dateFormat": bsdTimestampLayout,
		"format":     "<LEVEL>TIMESTAMP PROP(HOSTNAME) MESSAGE",
	}
}

// appendEscapedNewLines appends s replacing each "\n" and "\r\n" with repl.
func appendEscapedNewLines(dst []byte, s, repl string) []byte {
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\n':
			dst = append(dst, repl...)
		case s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n':
			dst = append(dst, repl...)
			i++
		default:
			dst = append(dst, s[i])
		}
	}
	return dst
}
