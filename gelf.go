package loglayout

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/powerman/loglayout/encode"
	"github.com/powerman/loglayout/internal/buffer"
	"github.com/powerman/loglayout/internal/status"
	"github.com/powerman/loglayout/logevent"
	"github.com/powerman/loglayout/pattern"
)

// CompressionType selects GELF payload compression.
type CompressionType int

// Compression types.
const (
	CompressionGZIP CompressionType = iota
	CompressionZLIB
	CompressionOff
)

var compressionNames = [...]string{"GZIP", "ZLIB", "OFF"}

func (c CompressionType) String() string {
	if c < 0 || int(c) >= len(compressionNames) {
		return fmt.Sprintf("CompressionType(%d)", int(c))
	}
	return compressionNames[c]
}

func (c *CompressionType) UnmarshalText(text []byte) error {
	for i, name := range compressionNames {
		if strings.EqualFold(strings.TrimSpace(string(text)), name) {
			*c = CompressionType(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown compression type %q", ErrInvalidConfig, text)
}

func (c CompressionType) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// KeyValuePair is an additional GELF field.
type KeyValuePair struct {
	Key   string
	Value string // May contain ${...} lookups.
}

// GELFOptions configure NewGELFLayout.
type GELFOptions struct {
	Host                    string // Default: local host name.
	AdditionalFields        []KeyValuePair
	Properties              map[string]string // Used by lookups in AdditionalFields.
	CompressionType         CompressionType
	CompressionThreshold    int // Payloads up to this size are not compressed.
	IncludeStacktrace       bool
	IncludeThreadContext    bool
	IncludeMapMessage       bool
	IncludeNullDelimiter    bool
	IncludeNewLineDelimiter bool
	OmitEmptyFields         bool
	ThreadContextIncludes   []string
	ThreadContextExcludes   []string
	MapMessageIncludes      []string
	MapMessageExcludes      []string
	ThreadContextPrefix     string
	MapPrefix               string
	// MessagePattern renders full_message. Ignored if Selector is set.
	MessagePattern string
	Selector       pattern.Selector
	Registry       *pattern.Registry
}

// DefaultGELFOptions returns options with GZIP compression of payloads
// larger than 1024 bytes, stack traces, context map and map messages included.
func DefaultGELFOptions() GELFOptions {
	return GELFOptions{
		CompressionType:      CompressionGZIP,
		CompressionThreshold: 1024,
		IncludeStacktrace:    true,
		IncludeThreadContext: true,
		IncludeMapMessage:    true,
	}
}

// GELFLayout renders events as Graylog Extended Log Format JSON.
type GELFLayout struct {
	textLayout
	opts        GELFOptions
	substitutor *pattern.Substitutor
	mdcChecker  keyChecker
	mapChecker  keyChecker
	message     *pattern.Serializer
}

var _ Layout = (*GELFLayout)(nil)

var stackTracePattern = sync.OnceValue(func() *pattern.CompiledPattern {
	return defaultParser().MustParse("%ex", pattern.ParseOptions{})
})

// NewGELFLayout returns a layout configured by opts.
func NewGELFLayout(opts GELFOptions) (*GELFLayout, error) {
	if opts.IncludeNullDelimiter && opts.CompressionType != CompressionOff {
		return nil, fmt.Errorf("%w: null delimiter cannot be used with compression", ErrInvalidConfig)
	}
	if opts.Host == "" {
		opts.Host = localHostname()
	}
	if opts.Selector != nil && opts.MessagePattern != "" {
		status.Warn("GELF layout has both message pattern and selector, using selector")
	}
	s, err := pattern.NewSerializer(pattern.SerializerOptions{
		Parser:   parserFor(opts.Registry),
		Pattern:  opts.MessagePattern,
		Selector: opts.Selector,
	})
	if err != nil {
		return nil, fmt.Errorf("gelf layout: %w", err)
	}
	l := &GELFLayout{
		opts:        opts,
		substitutor: pattern.NewSubstitutor(opts.Properties),
		mdcChecker:  newKeyChecker("thread context", opts.ThreadContextIncludes, opts.ThreadContextExcludes),
		mapChecker:  newKeyChecker("map message", opts.MapMessageIncludes, opts.MapMessageExcludes),
		message:     s,
	}
	l.textLayout = newTextLayout(encode.UTF8, "application/json", l.appendTo)
	return l, nil
}

func (l *GELFLayout) appendTo(dst []byte, e *logevent.Event) ([]byte, error) {
	dst = append(dst, `{"version":"1.1","host":"`...)
	dst = pattern.AppendJSONEscaped(dst, l.opts.Host)
	dst = append(dst, `","timestamp":`...)
	dst = appendGELFTimestamp(dst, e.TimeMillis())
	dst = append(dst, `,"level":`...)
	dst = strconv.AppendInt(dst, int64(SeverityOf(e.Level)), 10)
	dst = append(dst, ',')
	if e.ThreadName != "" {
		dst = appendJSONField(dst, "_thread", e.ThreadName)
	}
	if e.LoggerName != "" {
		dst = appendJSONField(dst, "_logger", e.LoggerName)
	}
	for _, f := range l.opts.AdditionalFields {
		value := f.Value
		if pattern.HasVariables(value) {
			value = l.substitutor.Replace(value, e)
		}
		if value != "" || !l.opts.OmitEmptyFields {
			dst = appendJSONField(dst, "_"+f.Key, value)
		}
	}
	if l.opts.IncludeThreadContext {
		dst = l.appendFields(dst, e.ContextMap, l.opts.ThreadContextPrefix, l.mdcChecker)
	}
	if m, ok := e.Message.(logevent.FieldsMessage); ok && l.opts.IncludeMapMessage {
		dst = l.appendFields(dst, m.Fields(), l.opts.MapPrefix, l.mapChecker)
	}
	if e.Thrown != nil || l.message != nil {
		dst = append(dst, `"full_message":"`...)
		dst = l.appendFullMessage(dst, e)
		dst = append(dst, `",`...)
	}
	dst = append(dst, `"short_message":"`...)
	dst = pattern.AppendJSONEscaped(dst, e.FormattedMessage())
	dst = append(dst, `"}`...)
	if l.opts.IncludeNullDelimiter {
		dst = append(dst, 0)
	}
	if l.opts.IncludeNewLineDelimiter {
		dst = append(dst, '\n')
	}
	return dst, nil
}

func (l *GELFLayout) appendFields(dst []byte, fields map[string]string, prefix string, check keyChecker) []byte {
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		v := fields[k]
		if check(k) && (v != "" || !l.opts.OmitEmptyFields) {
			dst = appendJSONField(dst, "_"+prefix+k, v)
		}
	}
	return dst
}

func (l *GELFLayout) appendFullMessage(dst []byte, e *logevent.Event) []byte {
	var text string
	switch {
	case l.message != nil:
		text = l.message.Serialize(e)
	case l.opts.IncludeStacktrace:
		text = stackTracePattern().Format(e)
	default:
		text = e.Thrown.Error()
	}
	return pattern.AppendJSONEscaped(dst, text)
}

// appendJSONField appends "key":"value", with escaped key and value.
func appendJSONField(dst []byte, key, value string) []byte {
	dst = append(dst, '"')
	dst = pattern.AppendJSONEscaped(dst, key)
	dst = append(dst, `":"`...)
	dst = pattern.AppendJSONEscaped(dst, value)
	return append(dst, `",`...)
}

// appendGELFTimestamp appends seconds since epoch with milliseconds
// as a fraction, or "0" for times before the first second.
func appendGELFTimestamp(dst []byte, millis int64) []byte {
	if millis < 1000 {
		return append(dst, '0')
	}
	var digits [20]byte
	s := strconv.AppendInt(digits[:0], millis, 10)
	dst = append(dst, s[:len(s)-3]...)
	dst = append(dst, '.')
	return append(dst, s[len(s)-3:]...)
}

// Bytes returns rendered event, compressed if it is larger than
// CompressionThreshold.
func (l *GELFLayout) Bytes(e *logevent.Event) ([]byte, error) {
	buf := buffer.New()
	defer buf.Free()
	var err error
	*buf, err = l.renderEvent(*buf, e)
	if err != nil {
		return nil, err
	}
	if l.opts.CompressionType == CompressionOff || len(*buf) <= l.opts.CompressionThreshold {
		return bytes.Clone(*buf), nil
	}
	return l.compress(*buf), nil
}

func (l *GELFLayout) compress(text []byte) []byte {
	var out bytes.Buffer
	out.Grow(l.opts.CompressionThreshold / 8)
	var w io.WriteCloser
	switch l.opts.CompressionType {
	case CompressionZLIB:
		w = zlib.NewWriter(&out)
	default:
		w = gzip.NewWriter(&out)
	}
	_, err := w.Write(text)
	if err == nil {
		err = w.Close()
	}
	if err != nil {
		status.Error("failed to compress GELF payload", "compression", l.opts.CompressionType, "err", err)
		return bytes.Clone(text)
	}
	return out.Bytes()
}

// Encode streams event through the text encoder if compression is off,
// otherwise it writes result of Bytes.
func (l *GELFLayout) Encode(e *logevent.Event, dst encode.Destination) error {
	if l.opts.CompressionType == CompressionOff {
		return l.textLayout.Encode(e, dst)
	}
	b, err := l.Bytes(e)
	if err != nil {
		return err
	}
	return encode.WriteTo(dst, b)
}

func (l *GELFLayout) RequiresLocation() bool {
	return l.message != nil && l.message.RequiresLocation()
}

func (*GELFLayout) ContentFormat() map[string]string { return map[string]string{} }
