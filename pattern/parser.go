package pattern

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultPattern is used by layouts configured without a pattern.
const DefaultPattern = "%m%n"

// DefaultCacheSize is the number of compiled patterns kept by a Parser.
const DefaultCacheSize = 128

// ParseOptions control compilation of a pattern.
type ParseOptions struct {
	// AlwaysWriteExceptions appends an exception converter if the pattern
	// has no directive rendering Event.Thrown.
	AlwaysWriteExceptions bool
	// NoConsoleNoAnsi disables ANSI escapes when stdout is not a terminal.
	NoConsoleNoAnsi bool
	// DisableAnsi disables ANSI escapes unconditionally.
	DisableAnsi bool
}

type cacheKey struct {
	pattern string
	opts    ParseOptions
}

// Parser compiles patterns using converters from a Registry.
// It is safe for concurrent use.
type Parser struct {
	reg   *Registry
	cache *lru.Cache[cacheKey, *CompiledPattern]
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithCacheSize sets the size of compiled patterns cache. Zero disables caching.
func WithCacheSize(size int) ParserOption {
	return func(p *Parser) {
		p.cache = nil
		if size > 0 {
			p.cache, _ = lru.New[cacheKey, *CompiledPattern](size)
		}
	}
}

// NewParser returns a parser using reg, or DefaultRegistry if reg is nil.
func NewParser(reg *Registry, opts ...ParserOption) *Parser {
	if reg == nil {
		reg = DefaultRegistry()
	}
	p := &Parser{reg: reg}
	WithCacheSize(DefaultCacheSize)(p)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Registry returns registry used by p.
func (p *Parser) Registry() *Registry { return p.reg }

// Parse compiles pattern.
func (p *Parser) Parse(pattern string, alwaysWriteExceptions, noConsoleNoAnsi bool) (*CompiledPattern, error) {
	return p.ParseWithOptions(pattern, ParseOptions{
		AlwaysWriteExceptions: alwaysWriteExceptions,
		NoConsoleNoAnsi:       noConsoleNoAnsi,
	})
}

// ParseWithOptions compiles pattern. Errors for all bad directives
// are returned together; each of them is a *ParseError.
func (p *Parser) ParseWithOptions(pattern string, opts ParseOptions) (*CompiledPattern, error) {
	key := cacheKey{pattern: pattern, opts: opts}
	if p.cache != nil {
		if cp, ok := p.cache.Get(key); ok {
			return cp, nil
		}
	}
	cp, err := p.compile(pattern, opts)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		p.cache.Add(key, cp)
	}
	return cp, nil
}

// MustParse is like ParseWithOptions but panics on error.
func (p *Parser) MustParse(pattern string, opts ParseOptions) *CompiledPattern {
	cp, err := p.ParseWithOptions(pattern, opts)
	if err != nil {
		panic(err)
	}
	return cp
}

type compiler struct {
	p          *Parser
	pattern    string
	opts       ParseOptions
	formatters []Formatter
	literal    []byte
	errs       *multierror.Error
}

func (p *Parser) compile(pattern string, opts ParseOptions) (*CompiledPattern, error) {
	c := &compiler{p: p, pattern: pattern, opts: opts}
	for i := 0; i < len(pattern); {
		switch {
		case pattern[i] != '%':
			c.literal = append(c.literal, pattern[i])
			i++
		case i+1 == len(pattern):
			c.literal = append(c.literal, '%')
			i++
		case pattern[i+1] == '%':
			c.literal = append(c.literal, '%')
			i += 2
		default:
			c.flushLiteral()
			i = c.directive(i)
		}
	}
	c.flushLiteral()

	if err := c.errs.ErrorOrNil(); err != nil {
		if len(c.errs.Errors) == 1 {
			return nil, c.errs.Errors[0]
		}
		return nil, err
	}

	cp := newCompiledPattern(pattern, c.formatters)
	if opts.AlwaysWriteExceptions && !cp.throwable {
		implicit := &throwableConverter{kind: throwableExtended, maxLines: -1, sep: "\n"}
		formatters := append(cp.formatters[:len(cp.formatters):len(cp.formatters)],
			Formatter{Converter: implicit, Info: DefaultFormattingInfo})
		cp = newCompiledPattern(pattern, formatters)
	}
	return cp, nil
}

func (c *compiler) flushLiteral() {
	if len(c.literal) == 0 {
		return
	}
	lit := Literal(convertBackslashes(string(c.literal)))
	c.literal = c.literal[:0]
	// Merge adjacent literals.
	if n := len(c.formatters); n > 0 {
		if prev, ok := c.formatters[n-1].Converter.(Literal); ok && c.formatters[n-1].Info.IsDefault() {
			c.formatters[n-1].Converter = prev + lit
			return
		}
	}
	c.formatters = append(c.formatters, Formatter{Converter: lit, Info: DefaultFormattingInfo})
}

func (c *compiler) fail(start, end int, err error) {
	c.errs = multierror.Append(c.errs, &ParseError{
		Pattern:  c.pattern,
		Pos:      start,
		Fragment: c.pattern[start:end],
		Err:      err,
	})
}

// directive compiles directive starting with '%' at start
// and returns position after it.
func (c *compiler) directive(start int) int {
	info, i, err := parseFormattingInfo(c.pattern, start+1)
	if err != nil {
		c.fail(start, i, err)
		return i
	}

	keyStart := i
	for i < len(c.pattern) {
		r, size := utf8.DecodeRuneInString(c.pattern[i:])
		if !(r == '_' || unicode.IsLetter(r) || (i > keyStart && unicode.IsDigit(r))) {
			break
		}
		i += size
	}
	key := c.pattern[keyStart:i]

	options, i, err := extractOptions(c.pattern, i)
	if err != nil {
		c.fail(start, i, err)
		return i
	}

	if key == "" {
		c.fail(start, i, fmt.Errorf("%w: empty conversion specifier", ErrInvalidPattern))
		return i
	}
	factory, matched := c.p.reg.Lookup(key)
	if factory == nil {
		c.fail(start, i, fmt.Errorf("%w [%s]", ErrUnknownConverter, key))
		return i
	}
	conv, err := factory(&FactoryContext{Key: matched, Options: options, Parser: c.p, Flags: c.opts})
	if err != nil {
		if !errors.Is(err, ErrInvalidOption) {
			err = fmt.Errorf("%w: %w", ErrInvalidOption, err)
		}
		c.fail(start, i, err)
		return i
	}
	c.formatters = append(c.formatters, Formatter{Converter: conv, Info: info})
	c.literal = append(c.literal, key[len(matched):]...)
	return i
}

// parseFormattingInfo parses "[-][0][min][.[-]max]" starting at i.
func parseFormattingInfo(pattern string, i int) (FormattingInfo, int, error) {
	info := DefaultFormattingInfo
	for ; i < len(pattern); i++ {
		switch pattern[i] {
		case '-':
			info.LeftAlign = true
			continue
		case '0':
			info.ZeroPad = true
			continue
		}
		break
	}
	info.MinLength, i = parseDigits(pattern, i, 0)
	if i < len(pattern) && pattern[i] == '.' {
		i++
		if i < len(pattern) && pattern[i] == '-' {
			info.TruncateEnd = true
			i++
		}
		if i == len(pattern) || !isDigit(pattern[i]) {
			return info, min(i+1, len(pattern)), fmt.Errorf("%w: expecting digit after '.'", ErrInvalidPattern)
		}
		info.MaxLength, i = parseDigits(pattern, i, 0)
	}
	return info, i, nil
}

func parseDigits(s string, i, n int) (int, int) {
	const limit = 1 << 20
	for ; i < len(s) && isDigit(s[i]); i++ {
		n = min(n*10+int(s[i]-'0'), limit)
	}
	return n, i
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// extractOptions parses zero or more balanced {...} blocks starting at i.
func extractOptions(pattern string, i int) ([]string, int, error) {
	var options []string
	for i < len(pattern) && pattern[i] == '{' {
		begin := i + 1
		depth := 1
		for i = begin; i < len(pattern) && depth > 0; i++ {
			switch pattern[i] {
			case '{':
				depth++
			case '}':
				depth--
			}
		}
		if depth > 0 {
			return nil, len(pattern), fmt.Errorf("%w: unbalanced '{'", ErrInvalidPattern)
		}
		options = append(options, pattern[begin:i-1])
	}
	return options, i, nil
}

var backslashReplacer = strings.NewReplacer(
	`\\`, `\`,
	`\n`, "\n",
	`\r`, "\r",
	`\t`, "\t",
	`\f`, "\f",
	`\b`, "\b",
)

// convertBackslashes replaces escape sequences in literal text.
func convertBackslashes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return backslashReplacer.Replace(s)
}
