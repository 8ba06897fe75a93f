package loglayout

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/powerman/loglayout/encode"
	"github.com/powerman/loglayout/internal/buffer"
	"github.com/powerman/loglayout/internal/status"
	"github.com/powerman/loglayout/logevent"
	"github.com/powerman/loglayout/pattern"
)

// Errors.
var (
	ErrInvalidConfig      = errors.New("invalid layout configuration")
	ErrRequiredKeyMissing = errors.New("required key is missing")
)

// RequiredKeyError is returned by RFC5424Layout when the context map
// of an event lacks one of the required keys.
type RequiredKeyError struct {
	Key string
	ID  string // Structured data id of the context map.
}

func (e *RequiredKeyError) Error() string {
	return fmt.Sprintf("required key %s is missing from the %s", e.Key, e.ID)
}

func (*RequiredKeyError) Unwrap() error { return ErrRequiredKeyMissing }

// Layout renders log events.
// Implementations are safe for concurrent use.
type Layout interface {
	// Format returns rendered event as text.
	Format(e *logevent.Event) (string, error)
	// Bytes returns rendered event in the layout's charset.
	Bytes(e *logevent.Event) ([]byte, error)
	// Encode writes rendered event into dst. Nothing is written on error,
	// except errors returned by dst itself.
	Encode(e *logevent.Event, dst encode.Destination) error
	// Header returns bytes to write once at the beginning of output, if any.
	Header() []byte
	// Footer returns bytes to write once at the end of output, if any.
	Footer() []byte
	// ContentType returns MIME type of the output.
	ContentType() string
	// ContentFormat describes the output format.
	ContentFormat() map[string]string
	// RequiresLocation reports whether Event.Source is used.
	RequiresLocation() bool
}

var defaultParser = sync.OnceValue(func() *pattern.Parser { return pattern.NewParser(nil) })

func parserFor(reg *pattern.Registry) *pattern.Parser {
	if reg == nil {
		return defaultParser()
	}
	return pattern.NewParser(reg)
}

// appendFunc appends rendered event to dst.
type appendFunc func(dst []byte, e *logevent.Event) ([]byte, error)

// textLayout implements Layout methods common for text layouts.
type textLayout struct {
	charset     *encode.Charset
	contentType string // Without charset.
	header      *pattern.Serializer
	footer      *pattern.Serializer
	render      appendFunc
}

func newTextLayout(charset *encode.Charset, contentType string, render appendFunc) textLayout {
	if charset == nil {
		charset = encode.UTF8
	}
	return textLayout{charset: charset, contentType: contentType, render: render}
}

// Charset returns output charset.
func (l *textLayout) Charset() *encode.Charset { return l.charset }

func (l *textLayout) renderEvent(dst []byte, e *logevent.Event) (out []byte, err error) {
	start := len(dst)
	defer func() {
		if r := recover(); r != nil {
			status.Error("layout panic", "panic", r, "logger", e.LoggerName)
			out, err = fmt.Appendf(dst[:start], "!PANIC: %v", r), nil
		}
	}()
	return l.render(dst, e)
}

func (l *textLayout) Format(e *logevent.Event) (string, error) {
	buf := buffer.New()
	defer buf.Free()
	var err error
	*buf, err = l.renderEvent(*buf, e)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (l *textLayout) Bytes(e *logevent.Event) ([]byte, error) {
	buf := buffer.New()
	defer buf.Free()
	var err error
	*buf, err = l.renderEvent(*buf, e)
	if err != nil {
		return nil, err
	}
	return l.charset.Bytes(*buf), nil
}

func (l *textLayout) Encode(e *logevent.Event, dst encode.Destination) error {
	buf := buffer.New()
	defer buf.Free()
	var err error
	*buf, err = l.renderEvent(*buf, e)
	if err != nil {
		return err
	}
	return l.charset.Encode(*buf, dst)
}

func (l *textLayout) Header() []byte { return l.serializeFrame(l.header) }

func (l *textLayout) Footer() []byte { return l.serializeFrame(l.footer) }

func (l *textLayout) serializeFrame(s *pattern.Serializer) []byte {
	if s == nil {
		return nil
	}
	buf := buffer.New()
	defer buf.Free()
	*buf = s.AppendSerialized(*buf, &logevent.Event{Time: time.Now(), Level: logevent.Off})
	return l.charset.Bytes(*buf)
}

func (l *textLayout) ContentType() string {
	return l.contentType + "; charset=" + l.charset.Name()
}

// setFrames compiles header and footer patterns.
func (l *textLayout) setFrames(parser *pattern.Parser, header, footer string) error {
	var err error
	l.header, err = pattern.NewSerializer(pattern.SerializerOptions{Parser: parser, Pattern: header})
	if err != nil {
		return fmt.Errorf("header: %w", err)
	}
	l.footer, err = pattern.NewSerializer(pattern.SerializerOptions{Parser: parser, Pattern: footer})
	if err != nil {
		return fmt.Errorf("footer: %w", err)
	}
	return nil
}
