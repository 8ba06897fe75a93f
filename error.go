package loglayout

import (
	"errors"
	"log/slog"

	"github.com/powerman/loglayout/internal"
)

type errorAttrs struct { //nolint:errname // Custom naming.
	err   error
	attrs []slog.Attr
}

// Error implements error interface.
func (e errorAttrs) Error() string { return e.err.Error() }

// Unwrap returns wrapped error.
func (e errorAttrs) Unwrap() error { return e.err }

// NewError returns err with attached slog Attrs specified by args.
// When logged through Handler the attrs are added to the context map of the event.
func NewError(err error, args ...any) error {
	return NewErrorAttrs(err, internal.ArgsToAttrSlice(args)...)
}

// NewErrorAttrs returns err with attached slog attrs.
func NewErrorAttrs(err error, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	return errorAttrs{err: err, attrs: attrs}
}

// getAllAttrs returns attrs attached to err and all errors it wraps,
// innermost first.
func getAllAttrs(err error) []slog.Attr {
	if err == nil {
		return nil
	}
	if errAttr, ok := err.(errorAttrs); ok { //nolint:errorlint // Necessary type assertion.
		return append(getAllAttrs(errors.Unwrap(err)), errAttr.attrs...)
	}
	return getAllAttrs(errors.Unwrap(err))
}
