package pattern

import (
	"github.com/powerman/loglayout/internal/buffer"
	"github.com/powerman/loglayout/logevent"
)

// CompiledPattern is an immutable pipeline of formatters.
type CompiledPattern struct {
	pattern    string
	formatters []Formatter
	location   bool
	throwable  bool
	plain      bool // No formatter has formatting info.
}

func newCompiledPattern(pattern string, formatters []Formatter) *CompiledPattern {
	p := &CompiledPattern{pattern: pattern, formatters: formatters, plain: true}
	for _, f := range formatters {
		p.location = p.location || requiresLocation(f.Converter)
		p.throwable = p.throwable || handlesThrowable(f.Converter)
		p.plain = p.plain && f.Info.IsDefault()
	}
	return p
}

// Pattern returns source pattern.
func (p *CompiledPattern) Pattern() string { return p.pattern }

func (p *CompiledPattern) String() string { return p.pattern }

// Formatters returns pipeline items. The slice must not be modified.
func (p *CompiledPattern) Formatters() []Formatter { return p.formatters }

// RequiresLocation reports whether any converter needs Event.Source.
func (p *CompiledPattern) RequiresLocation() bool { return p.location }

// HandlesThrowable reports whether any converter renders Event.Thrown.
func (p *CompiledPattern) HandlesThrowable() bool { return p.throwable }

// HasFormattingInfo reports whether any field has width constraints.
func (p *CompiledPattern) HasFormattingInfo() bool { return !p.plain }

// Append appends rendered event to dst.
func (p *CompiledPattern) Append(dst []byte, e *logevent.Event) []byte {
	if p.plain {
		for _, f := range p.formatters {
			dst = f.Converter.Format(dst, e)
		}
		return dst
	}
	for _, f := range p.formatters {
		dst = f.Format(dst, e)
	}
	return dst
}

// Format returns rendered event.
func (p *CompiledPattern) Format(e *logevent.Event) string {
	buf := buffer.New()
	defer buf.Free()
	*buf = p.Append(*buf, e)
	return buf.String()
}
