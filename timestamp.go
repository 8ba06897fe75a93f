package loglayout

import (
	"os"
	"sync"
	"sync/atomic"
	"time"
)

type cachedTimestamp struct {
	millis int64
	loc    *time.Location
	text   []byte
}

// timestampCache keeps the last rendered timestamp.
// Concurrent misses may render the same value twice, last one published wins.
type timestampCache struct {
	render func(dst []byte, t time.Time) []byte
	last   atomic.Pointer[cachedTimestamp]
}

func newTimestampCache(render func(dst []byte, t time.Time) []byte) *timestampCache {
	return &timestampCache{render: render}
}

func (c *timestampCache) append(dst []byte, t time.Time) []byte {
	millis := t.UnixMilli()
	if last := c.last.Load(); last != nil && last.millis == millis && last.loc == t.Location() {
		return append(dst, last.text...)
	}
	start := len(dst)
	dst = c.render(dst, t)
	c.last.Store(&cachedTimestamp{
		millis: millis,
		loc:    t.Location(),
		text:   append([]byte(nil), dst[start:]...),
	})
	return dst
}

const bsdTimestampLayout = "Jan _2 15:04:05"

func appendBSDTimestamp(dst []byte, t time.Time) []byte {
	return t.AppendFormat(dst, bsdTimestampLayout)
}

// appendRFC5424Timestamp appends t as YYYY-MM-DDThh:mm:ss.SSS followed
// by Z for UTC or by ±hh:mm.
func appendRFC5424Timestamp(dst []byte, t time.Time) []byte {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()
	dst = appendDigits(dst, year, 4)
	dst = append(dst, '-')
	dst = appendDigits(dst, int(month), 2)
	dst = append(dst, '-')
	dst = appendDigits(dst, day, 2)
	dst = append(dst, 'T')
	dst = appendDigits(dst, hour, 2)
	dst = append(dst, ':')
	dst = appendDigits(dst, minute, 2)
	dst = append(dst, ':')
	dst = appendDigits(dst, sec, 2)
	dst = append(dst, '.')
	dst = appendDigits(dst, t.Nanosecond()/int(time.Millisecond), 3)
	_, offset := t.Zone()
	if offset == 0 {
		return append(dst, 'Z')
	}
	sign := byte('+')
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	offset /= 60
	dst = append(dst, sign)
	dst = appendDigits(dst, offset/60, 2)
	dst = append(dst, ':')
	return appendDigits(dst, offset%60, 2)
}

// appendDigits appends non-negative v padded with zeros to width.
func appendDigits(dst []byte, v, width int) []byte {
	var digits [20]byte
	i := len(digits)
	for v >= 10 || width > 1 {
		i--
		digits[i] = byte('0' + v%10)
		v /= 10
		width--
	}
	i--
	digits[i] = byte('0' + v)
	return append(dst, digits[i:]...)
}

var localHostname = sync.OnceValue(func() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "localhost"
	}
	return name
})
