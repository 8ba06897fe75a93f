package pattern

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/powerman/loglayout/logevent"
)

type levelConverter struct {
	names   map[logevent.Level]string // Renamed or precomputed standard levels.
	renamed map[string]string         // By level name.
	lower   bool
	width   int
}

func newLevelConverter(ctx *FactoryContext) (Converter, error) {
	c := &levelConverter{names: make(map[logevent.Level]string), renamed: make(map[string]string)}
	renamed := c.renamed
	for opt := range strings.SplitSeq(ctx.Option(0), ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(opt), "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		switch {
		case k == "":
		case !ok:
			return nil, fmt.Errorf("%w: level option %q", ErrInvalidOption, opt)
		case k == "length":
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("%w: level length %q", ErrInvalidOption, v)
			}
			c.width = n
		case k == "lowerCase":
			c.lower = v == "true"
		default:
			renamed[strings.ToUpper(k)] = v
		}
	}
	for _, l := range []logevent.Level{
		logevent.Off, logevent.Fatal, logevent.Error, logevent.Warn,
		logevent.Info, logevent.Debug, logevent.Trace, logevent.All,
	} {
		if name, ok := renamed[l.Name()]; ok {
			c.names[l] = name
		} else {
			c.names[l] = string(c.appendName(nil, l.Name()))
		}
	}
	return c, nil
}

func (c *levelConverter) appendName(dst []byte, name string) []byte {
	n := 0
	for _, r := range name {
		if c.width > 0 && n == c.width {
			break
		}
		if c.lower && 'A' <= r && r <= 'Z' {
			r += 'a' - 'A'
		}
		dst = utf8.AppendRune(dst, r)
		n++
	}
	return dst
}

func (c *levelConverter) Format(dst []byte, e *logevent.Event) []byte {
	if name, ok := c.names[e.Level]; ok {
		return append(dst, name...)
	}
	name := e.Level.Name()
	if label, ok := c.renamed[name]; ok {
		return append(dst, label...)
	}
	return c.appendName(dst, name)
}

type loggerConverter struct {
	abbr NameAbbreviator
}

func newLoggerConverter(ctx *FactoryContext) (Converter, error) {
	abbr, err := ParseNameAbbreviator(ctx.Option(0))
	if err != nil {
		return nil, err
	}
	return loggerConverter{abbr: abbr}, nil
}

func (c loggerConverter) Format(dst []byte, e *logevent.Event) []byte {
	return c.abbr.Abbreviate(dst, e.LoggerName)
}

type locationField int

const (
	locationClass locationField = iota
	locationMethod
	locationFile
	locationLine
	locationFull
)

type locationConverter struct {
	field locationField
	abbr  NameAbbreviator
}

func newLocationFactory(field locationField) Factory {
	return func(ctx *FactoryContext) (Converter, error) {
		c := locationConverter{field: field, abbr: nopAbbreviator{}}
		if field == locationClass {
			var err error
			c.abbr, err = ParseNameAbbreviator(ctx.Option(0))
			if err != nil {
				return nil, err
			}
		}
		return c, nil
	}
}

var (
	newClassConverter    = newLocationFactory(locationClass)
	newMethodConverter   = newLocationFactory(locationMethod)
	newFileConverter     = newLocationFactory(locationFile)
	newLineConverter     = newLocationFactory(locationLine)
	newLocationConverter = newLocationFactory(locationFull)
)

func (locationConverter) RequiresLocation() bool { return true }

func (c locationConverter) Format(dst []byte, e *logevent.Event) []byte {
	s := e.Source
	if s == nil {
		return dst
	}
	switch c.field {
	case locationClass:
		return c.abbr.Abbreviate(dst, s.Class)
	case locationMethod:
		return append(dst, s.Method...)
	case locationFile:
		return append(dst, s.File...)
	case locationLine:
		if s.Line <= 0 {
			return dst
		}
		return strconv.AppendInt(dst, int64(s.Line), 10)
	default:
		dst = append(dst, s.Class...)
		dst = append(dst, '.')
		dst = append(dst, s.Method...)
		dst = append(dst, '(')
		dst = append(dst, s.File...)
		dst = append(dst, ':')
		dst = strconv.AppendInt(dst, int64(s.Line), 10)
		return append(dst, ')')
	}
}

func newThreadNameConverter(*FactoryContext) (Converter, error) {
	return ConverterFunc(func(dst []byte, e *logevent.Event) []byte {
		return append(dst, e.ThreadName...)
	}), nil
}

func newThreadIDConverter(*FactoryContext) (Converter, error) {
	return ConverterFunc(func(dst []byte, e *logevent.Event) []byte {
		return strconv.AppendInt(dst, e.ThreadID, 10)
	}), nil
}

func newThreadPriorityConverter(*FactoryContext) (Converter, error) {
	return ConverterFunc(func(dst []byte, e *logevent.Event) []byte {
		return strconv.AppendInt(dst, int64(e.ThreadPriority), 10)
	}), nil
}

func newMessageConverter(*FactoryContext) (Converter, error) {
	return ConverterFunc(func(dst []byte, e *logevent.Event) []byte {
		if e.Message == nil {
			return dst
		}
		return append(dst, e.Message.FormattedMessage()...)
	}), nil
}

func newLineSeparatorConverter(*FactoryContext) (Converter, error) {
	return Literal("\n"), nil
}

var keysPool = sync.Pool{New: func() any {
	s := make([]string, 0, 16)
	return &s
}}

// appendSortedMap appends "{k1=v1, k2=v2}" with keys sorted.
// If keys are given only these keys are output, in given order.
func appendSortedMap(dst []byte, m map[string]string, keys []string) []byte {
	dst = append(dst, '{')
	first := true
	appendPair := func(k, v string) {
		if !first {
			dst = append(dst, ", "...)
		}
		first = false
		dst = append(dst, k...)
		dst = append(dst, '=')
		dst = append(dst, v...)
	}
	if keys != nil {
		for _, k := range keys {
			if v, ok := m[k]; ok {
				appendPair(k, v)
			}
		}
		return append(dst, '}')
	}
	sorted := keysPool.Get().(*[]string)
	*sorted = slices.AppendSeq((*sorted)[:0], maps.Keys(m))
	slices.Sort(*sorted)
	for _, k := range *sorted {
		appendPair(k, m[k])
	}
	*sorted = (*sorted)[:0]
	keysPool.Put(sorted)
	return append(dst, '}')
}

type mapConverter struct {
	get  func(e *logevent.Event) map[string]string
	keys []string
}

func parseKeys(opt string) []string {
	var keys []string
	for k := range strings.SplitSeq(opt, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func (c mapConverter) Format(dst []byte, e *logevent.Event) []byte {
	m := c.get(e)
	if len(c.keys) == 1 {
		return append(dst, m[c.keys[0]]...)
	}
	if len(m) == 0 {
		return append(dst, "{}"...)
	}
	return appendSortedMap(dst, m, c.keys)
}

func newMDCConverter(ctx *FactoryContext) (Converter, error) {
	return mapConverter{
		get:  func(e *logevent.Event) map[string]string { return e.ContextMap },
		keys: parseKeys(ctx.Option(0)),
	}, nil
}

func newMapConverter(ctx *FactoryContext) (Converter, error) {
	return mapConverter{
		get: func(e *logevent.Event) map[string]string {
			if fm, ok := e.Message.(logevent.FieldsMessage); ok {
				return fm.Fields()
			}
			return nil
		},
		keys: parseKeys(ctx.Option(0)),
	}, nil
}

func newNDCConverter(*FactoryContext) (Converter, error) {
	return ConverterFunc(func(dst []byte, e *logevent.Event) []byte {
		dst = append(dst, '[')
		for i, s := range e.ContextStack {
			if i > 0 {
				dst = append(dst, ", "...)
			}
			dst = append(dst, s...)
		}
		return append(dst, ']')
	}), nil
}

func newMarkerConverter(*FactoryContext) (Converter, error) {
	return ConverterFunc(func(dst []byte, e *logevent.Event) []byte {
		return e.Marker.AppendText(dst)
	}), nil
}

func newMarkerSimpleNameConverter(*FactoryContext) (Converter, error) {
	return ConverterFunc(func(dst []byte, e *logevent.Event) []byte {
		if e.Marker == nil {
			return dst
		}
		return append(dst, e.Marker.Name()...)
	}), nil
}

// processStart is the reference point of %r.
var processStart = time.Now()

func newRelativeTimeConverter(*FactoryContext) (Converter, error) {
	return ConverterFunc(func(dst []byte, e *logevent.Event) []byte {
		return strconv.AppendInt(dst, e.Time.Sub(processStart).Milliseconds(), 10)
	}), nil
}

// sequenceNumber is shared by all %sn converters in the process.
var sequenceNumber atomic.Int64

func newSequenceNumberConverter(*FactoryContext) (Converter, error) {
	return ConverterFunc(func(dst []byte, _ *logevent.Event) []byte {
		return strconv.AppendInt(dst, sequenceNumber.Add(1), 10)
	}), nil
}

func newNanoTimeConverter(*FactoryContext) (Converter, error) {
	return ConverterFunc(func(dst []byte, e *logevent.Event) []byte {
		return strconv.AppendInt(dst, e.Nanos, 10)
	}), nil
}

func newProcessIDConverter(*FactoryContext) (Converter, error) {
	return Literal(strconv.Itoa(os.Getpid())), nil
}

func newUUIDConverter(ctx *FactoryContext) (Converter, error) {
	var gen func() (uuid.UUID, error)
	switch strings.ToUpper(strings.TrimSpace(ctx.Option(0))) {
	case "", "RANDOM":
		gen = uuid.NewRandom
	case "TIME":
		gen = uuid.NewUUID
	default:
		return nil, fmt.Errorf("%w: uuid type %q", ErrInvalidOption, ctx.Option(0))
	}
	return ConverterFunc(func(dst []byte, _ *logevent.Event) []byte {
		u, err := gen()
		if err != nil {
			return dst
		}
		return append(dst, u.String()...)
	}), nil
}

func newEndOfBatchConverter(*FactoryContext) (Converter, error) {
	return ConverterFunc(func(dst []byte, e *logevent.Event) []byte {
		return strconv.AppendBool(dst, e.EndOfBatch)
	}), nil
}
