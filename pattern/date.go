package pattern

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/powerman/loglayout/internal/status"
	"github.com/powerman/loglayout/logevent"
)

const defaultDateFormat = "DEFAULT"

type dateCache struct {
	millis int64
	loc    *time.Location
	text   []byte
}

type dateConverter struct {
	format *dateFormat
	loc    *time.Location
	unix   time.Duration // Non-zero for UNIX and UNIX_MILLIS.
	cache  atomic.Pointer[dateCache]
}

func newDateConverter(ctx *FactoryContext) (Converter, error) {
	c := &dateConverter{}
	if tz := strings.TrimSpace(ctx.Option(1)); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("%w: time zone %q: %w", ErrInvalidOption, tz, err)
		}
		c.loc = loc
	}

	name := ctx.Option(0)
	switch name {
	case "UNIX":
		c.unix = time.Second
		return c, nil
	case "UNIX_MILLIS":
		c.unix = time.Millisecond
		return c, nil
	case "":
		name = defaultDateFormat
	}
	layout, ok := namedDateFormats[name]
	if !ok {
		layout = name
	}
	df, err := compileDateFormat(layout)
	if err != nil {
		status.Warn("invalid date pattern, using default", "pattern", name, "err", err)
		df, _ = compileDateFormat(namedDateFormats[defaultDateFormat])
	}
	c.format = df
	return c, nil
}

func (c *dateConverter) Format(dst []byte, e *logevent.Event) []byte {
	switch c.unix {
	case time.Second:
		return strconv.AppendInt(dst, e.Time.Unix(), 10)
	case time.Millisecond:
		return strconv.AppendInt(dst, e.Time.UnixMilli(), 10)
	}
	t := e.Time
	if c.loc != nil {
		t = t.In(c.loc)
	}
	if c.format.subMillis {
		return c.format.Append(dst, t)
	}
	millis := t.UnixMilli()
	if cached := c.cache.Load(); cached != nil && cached.millis == millis && cached.loc == t.Location() {
		return append(dst, cached.text...)
	}
	start := len(dst)
	dst = c.format.Append(dst, t)
	c.cache.Store(&dateCache{millis: millis, loc: t.Location(), text: append([]byte(nil), dst[start:]...)})
	return dst
}
