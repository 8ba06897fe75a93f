package pattern

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/powerman/loglayout/internal/buffer"
	"github.com/powerman/loglayout/logevent"
)

// nested is embedded by converters which render a nested pattern.
type nested struct {
	p *CompiledPattern
}

func (n nested) RequiresLocation() bool { return n.p.RequiresLocation() }

func (n nested) HandlesThrowable() bool { return n.p.HandlesThrowable() }

func parseNestedOption(ctx *FactoryContext, min int) (*CompiledPattern, error) {
	if len(ctx.Options) < min {
		return nil, fmt.Errorf("%w: %%%s requires %d options, got %d",
			ErrInvalidOption, ctx.Key, min, len(ctx.Options))
	}
	return ctx.ParseNested(ctx.Options[0])
}

// transformTail renders p and replaces its output using f.
func transformTail(dst []byte, p *CompiledPattern, e *logevent.Event, f func(dst, text []byte) []byte) []byte {
	start := len(dst)
	dst = p.Append(dst, e)
	tmp := buffer.New()
	defer tmp.Free()
	*tmp = append(*tmp, dst[start:]...)
	return f(dst[:start], *tmp)
}

type escapeFormat int

const (
	escapeHTML escapeFormat = iota
	escapeXML
	escapeJSON
	escapeCRLF
)

type encodeConverter struct {
	nested
	format escapeFormat
}

func newEncodeConverter(ctx *FactoryContext) (Converter, error) {
	p, err := parseNestedOption(ctx, 1)
	if err != nil {
		return nil, err
	}
	c := &encodeConverter{nested: nested{p}}
	switch strings.ToUpper(strings.TrimSpace(ctx.Option(1))) {
	case "", "HTML":
		c.format = escapeHTML
	case "XML":
		c.format = escapeXML
	case "JSON":
		c.format = escapeJSON
	case "CRLF":
		c.format = escapeCRLF
	default:
		return nil, fmt.Errorf("%w: unknown escape format %q", ErrInvalidOption, ctx.Option(1))
	}
	return c, nil
}

func (c *encodeConverter) Format(dst []byte, e *logevent.Event) []byte {
	return transformTail(dst, c.p, e, func(dst, text []byte) []byte {
		switch c.format {
		case escapeJSON:
			return AppendJSONEscaped(dst, string(text))
		case escapeCRLF:
			return appendCRLFEscaped(dst, text)
		default:
			return appendMarkupEscaped(dst, text, c.format == escapeHTML)
		}
	})
}

func appendCRLFEscaped(dst, text []byte) []byte {
	for _, b := range text {
		switch b {
		case '\r':
			dst = append(dst, `\r`...)
		case '\n':
			dst = append(dst, `\n`...)
		default:
			dst = append(dst, b)
		}
	}
	return dst
}

func appendMarkupEscaped(dst, text []byte, html bool) []byte {
	for _, b := range text {
		switch {
		case b == '&':
			dst = append(dst, "&amp;"...)
		case b == '<':
			dst = append(dst, "&lt;"...)
		case b == '>':
			dst = append(dst, "&gt;"...)
		case b == '"':
			dst = append(dst, "&quot;"...)
		case b == '\'':
			dst = append(dst, "&apos;"...)
		case html && b == '/':
			dst = append(dst, "&#x2F;"...)
		case html && b == '\r':
			dst = append(dst, `\r`...)
		case html && b == '\n':
			dst = append(dst, `\n`...)
		default:
			dst = append(dst, b)
		}
	}
	return dst
}

const hexDigits = "0123456789abcdef"

// AppendJSONEscaped appends text escaped for use inside a JSON string.
// Invalid UTF-8 is replaced with U+FFFD.
func AppendJSONEscaped(dst []byte, text string) []byte {
	for i := 0; i < len(text); {
		b := text[i]
		if b < utf8.RuneSelf {
			switch {
			case b == '"' || b == '\\':
				dst = append(dst, '\\', b)
			case b == '\n':
				dst = append(dst, `\n`...)
			case b == '\r':
				dst = append(dst, `\r`...)
			case b == '\t':
				dst = append(dst, `\t`...)
			case b == '\b':
				dst = append(dst, `\b`...)
			case b == '\f':
				dst = append(dst, `\f`...)
			case b < 0x20:
				dst = append(dst, `\u00`...)
				dst = append(dst, hexDigits[b>>4], hexDigits[b&0xf])
			default:
				dst = append(dst, b)
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			dst = append(dst, "�"...)
		} else {
			dst = append(dst, text[i:i+size]...)
		}
		i += size
	}
	return dst
}

type equalsConverter struct {
	nested
	test       string
	substitute *CompiledPattern
	ignoreCase bool
}

func newEqualsConverter(ignoreCase bool) Factory {
	return func(ctx *FactoryContext) (Converter, error) {
		p, err := parseNestedOption(ctx, 3)
		if err != nil {
			return nil, err
		}
		sub, err := ctx.ParseNested(ctx.Options[2])
		if err != nil {
			return nil, err
		}
		return &equalsConverter{nested: nested{p}, test: ctx.Options[1], substitute: sub, ignoreCase: ignoreCase}, nil
	}
}

func (c *equalsConverter) RequiresLocation() bool {
	return c.p.RequiresLocation() || c.substitute.RequiresLocation()
}

func (c *equalsConverter) HandlesThrowable() bool {
	return c.p.HandlesThrowable() || c.substitute.HandlesThrowable()
}

func (c *equalsConverter) Format(dst []byte, e *logevent.Event) []byte {
	start := len(dst)
	dst = c.p.Append(dst, e)
	out := dst[start:]
	if (c.ignoreCase && bytes.EqualFold(out, []byte(c.test))) || (!c.ignoreCase && string(out) == c.test) {
		return c.substitute.Append(dst[:start], e)
	}
	return dst
}

type notEmptyConverter struct {
	nested
}

func newNotEmptyConverter(ctx *FactoryContext) (Converter, error) {
	p, err := parseNestedOption(ctx, 1)
	if err != nil {
		return nil, err
	}
	return &notEmptyConverter{nested{p}}, nil
}

// Format outputs nested pattern only if some non-literal converter
// produced output.
func (c *notEmptyConverter) Format(dst []byte, e *logevent.Event) []byte {
	start := len(dst)
	empty := true
	for _, f := range c.p.Formatters() {
		before := len(dst)
		dst = f.Format(dst, e)
		if !isLiteral(f.Converter) && len(dst) > before {
			empty = false
		}
	}
	if empty {
		return dst[:start]
	}
	return dst
}

type maxLengthConverter struct {
	nested
	max int
}

func newMaxLengthConverter(ctx *FactoryContext) (Converter, error) {
	p, err := parseNestedOption(ctx, 2)
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(ctx.Options[1]))
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: max length %q", ErrInvalidOption, ctx.Options[1])
	}
	return &maxLengthConverter{nested: nested{p}, max: n}, nil
}

// Format truncates nested output to max runes; an ellipsis is added when
// max is over 20.
func (c *maxLengthConverter) Format(dst []byte, e *logevent.Event) []byte {
	start := len(dst)
	dst = c.p.Append(dst, e)
	if utf8.RuneCount(dst[start:]) <= c.max {
		return dst
	}
	dst = dst[:skipRunes(dst, start, c.max)]
	if c.max > 20 {
		dst = append(dst, "..."...)
	}
	return dst
}

type replaceConverter struct {
	nested
	re          *regexp.Regexp
	replacement []byte
}

func newReplaceConverter(ctx *FactoryContext) (Converter, error) {
	p, err := parseNestedOption(ctx, 3)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(ctx.Options[1])
	if err != nil {
		return nil, fmt.Errorf("%w: replace regex: %w", ErrInvalidOption, err)
	}
	return &replaceConverter{nested: nested{p}, re: re, replacement: []byte(ctx.Options[2])}, nil
}

func (c *replaceConverter) Format(dst []byte, e *logevent.Event) []byte {
	return transformTail(dst, c.p, e, func(dst, text []byte) []byte {
		return append(dst, c.re.ReplaceAll(text, c.replacement)...)
	})
}
