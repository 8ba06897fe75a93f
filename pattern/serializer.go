package pattern

import (
	"fmt"
	"regexp"

	"github.com/powerman/loglayout/internal/buffer"
	"github.com/powerman/loglayout/logevent"
)

// RegexReplacement replaces all matches of Regex in the complete output.
type RegexReplacement struct {
	Regex       *regexp.Regexp
	Replacement string
}

// NewRegexReplacement compiles regex.
func NewRegexReplacement(regex, replacement string) (*RegexReplacement, error) {
	re, err := regexp.Compile(regex)
	if err != nil {
		return nil, fmt.Errorf("%w: replace regex: %w", ErrInvalidOption, err)
	}
	return &RegexReplacement{Regex: re, Replacement: replacement}, nil
}

// Apply returns text with replacements applied.
func (r *RegexReplacement) Apply(text []byte) []byte {
	return r.Regex.ReplaceAll(text, []byte(r.Replacement))
}

// SerializerOptions configure NewSerializer. Selector wins over Pattern.
type SerializerOptions struct {
	Parser                *Parser // Default: NewParser(nil).
	Pattern               string
	DefaultPattern        string // Used if Pattern is empty.
	Selector              Selector
	Replace               *RegexReplacement
	AlwaysWriteExceptions bool
	DisableAnsi           bool
	NoConsoleNoAnsi       bool
}

// Serializer renders an event with a fixed pattern or a selector.
type Serializer struct {
	p        *CompiledPattern
	selector Selector
	replace  *RegexReplacement
}

// NewSerializer returns nil serializer without error if there is
// neither a pattern nor a selector.
func NewSerializer(opts SerializerOptions) (*Serializer, error) {
	s := &Serializer{selector: opts.Selector, replace: opts.Replace}
	if s.selector != nil {
		return s, nil
	}
	pattern := opts.Pattern
	if pattern == "" {
		pattern = opts.DefaultPattern
	}
	if pattern == "" {
		return nil, nil //nolint:nilnil // No serializer configured.
	}
	parser := opts.Parser
	if parser == nil {
		parser = NewParser(nil)
	}
	p, err := parser.ParseWithOptions(pattern, ParseOptions{
		AlwaysWriteExceptions: opts.AlwaysWriteExceptions,
		NoConsoleNoAnsi:       opts.NoConsoleNoAnsi,
		DisableAnsi:           opts.DisableAnsi,
	})
	if err != nil {
		return nil, err
	}
	s.p = p
	return s, nil
}

// Pattern returns the fixed pattern or nil if a selector is used.
func (s *Serializer) Pattern() *CompiledPattern { return s.p }

// RequiresLocation reports whether rendering needs Event.Source.
func (s *Serializer) RequiresLocation() bool {
	if s.selector != nil {
		return s.selector.RequiresLocation()
	}
	return s.p.RequiresLocation()
}

// AppendSerialized appends rendered event to dst.
func (s *Serializer) AppendSerialized(dst []byte, e *logevent.Event) []byte {
	p := s.p
	if s.selector != nil {
		p = s.selector.Select(e)
	}
	if s.replace == nil {
		return p.Append(dst, e)
	}
	start := len(dst)
	dst = p.Append(dst, e)
	tmp := buffer.New()
	defer tmp.Free()
	*tmp = append(*tmp, dst[start:]...)
	return append(dst[:start], s.replace.Apply(*tmp)...)
}

// Serialize returns rendered event.
func (s *Serializer) Serialize(e *logevent.Event) string {
	buf := buffer.New()
	defer buf.Free()
	*buf = s.AppendSerialized(*buf, e)
	return buf.String()
}
