package pattern

import (
	"github.com/powerman/loglayout/logevent"
)

// Converter renders one attribute of an event.
// Format must only append to dst; width constraints are applied by the caller.
type Converter interface {
	Format(dst []byte, e *logevent.Event) []byte
}

// LocationAware is implemented by converters which need Event.Source.
type LocationAware interface {
	RequiresLocation() bool
}

// ThrowableHandler is implemented by converters which render Event.Thrown.
type ThrowableHandler interface {
	HandlesThrowable() bool
}

// ConverterFunc adapts a function to Converter.
type ConverterFunc func(dst []byte, e *logevent.Event) []byte

func (f ConverterFunc) Format(dst []byte, e *logevent.Event) []byte { return f(dst, e) }

// Literal is a converter which outputs fixed text.
type Literal string

func (l Literal) Format(dst []byte, _ *logevent.Event) []byte { return append(dst, l...) }

func requiresLocation(c Converter) bool {
	la, ok := c.(LocationAware)
	return ok && la.RequiresLocation()
}

func handlesThrowable(c Converter) bool {
	th, ok := c.(ThrowableHandler)
	return ok && th.HandlesThrowable()
}

func isLiteral(c Converter) bool {
	_, ok := c.(Literal)
	return ok
}

// Formatter binds a converter with its formatting info.
type Formatter struct {
	Converter Converter
	Info      FormattingInfo
}

// Format appends converter output constrained by formatting info.
func (f Formatter) Format(dst []byte, e *logevent.Event) []byte {
	start := len(dst)
	dst = f.Converter.Format(dst, e)
	if f.Info.IsDefault() {
		return dst
	}
	return f.Info.Format(dst, start)
}
