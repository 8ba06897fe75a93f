package loglayout

import (
	"fmt"

	"github.com/powerman/loglayout/encode"
	"github.com/powerman/loglayout/logevent"
	"github.com/powerman/loglayout/pattern"
)

// PatternLayoutOptions configure NewPatternLayout.
type PatternLayoutOptions struct {
	// Pattern defaults to pattern.DefaultPattern. Ignored if Selector is set.
	Pattern  string
	Selector pattern.Selector
	// Replace is applied to the whole rendered event.
	Replace *pattern.RegexReplacement
	Charset *encode.Charset // Default: UTF-8.
	// AlwaysWriteExceptions appends the error of the event unless the
	// pattern already renders it.
	AlwaysWriteExceptions bool
	DisableAnsi           bool
	NoConsoleNoAnsi       bool
	Header                string
	Footer                string
	Registry              *pattern.Registry // Default: pattern.DefaultRegistry().
}

// DefaultPatternLayoutOptions returns options with AlwaysWriteExceptions set.
func DefaultPatternLayoutOptions() PatternLayoutOptions {
	return PatternLayoutOptions{
		Pattern:               pattern.DefaultPattern,
		AlwaysWriteExceptions: true,
	}
}

// PatternLayout renders events with a conversion pattern.
type PatternLayout struct {
	textLayout
	pattern    string
	serializer *pattern.Serializer
}

var _ Layout = (*PatternLayout)(nil)

// NewPatternLayout returns a layout configured by opts.
func NewPatternLayout(opts PatternLayoutOptions) (*PatternLayout, error) {
	parser := parserFor(opts.Registry)
	s, err := pattern.NewSerializer(pattern.SerializerOptions{
		Parser:                parser,
		Pattern:               opts.Pattern,
		DefaultPattern:        pattern.DefaultPattern,
		Selector:              opts.Selector,
		Replace:               opts.Replace,
		AlwaysWriteExceptions: opts.AlwaysWriteExceptions,
		DisableAnsi:           opts.DisableAnsi,
		NoConsoleNoAnsi:       opts.NoConsoleNoAnsi,
	})
	if err != nil {
		return nil, fmt.Errorf("pattern layout: %w", err)
	}
	l := &PatternLayout{serializer: s, pattern: opts.Pattern}
	if l.pattern == "" {
		l.pattern = pattern.DefaultPattern
	}
	l.textLayout = newTextLayout(opts.Charset, "text/plain", l.appendTo)
	err = l.setFrames(parser, opts.Header, opts.Footer)
	if err != nil {
		return nil, fmt.Errorf("pattern layout: %w", err)
	}
	return l, nil
}

func (l *PatternLayout) appendTo(dst []byte, e *logevent.Event) ([]byte, error) {
	return l.serializer.AppendSerialized(dst, e), nil
}

// Pattern returns the conversion pattern.
func (l *PatternLayout) Pattern() string { return l.pattern }

func (l *PatternLayout) String() string { return l.pattern }

func (l *PatternLayout) RequiresLocation() bool { return l.serializer.RequiresLocation() }

func (l *PatternLayout) ContentFormat() map[string]string {
	return map[string]string{
		"structured": "false",
		"formatType": "conversion",
		"format":     l.pattern,
	}
}
