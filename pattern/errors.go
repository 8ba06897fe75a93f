package pattern

import (
	"errors"
	"fmt"
)

// Errors.
var (
	ErrInvalidPattern   = errors.New("invalid pattern")
	ErrUnknownConverter = errors.New("unknown converter")
	ErrInvalidOption    = errors.New("invalid converter option")
)

// ParseError describes a problem with a single directive.
type ParseError struct {
	Pattern  string
	Pos      int    // Byte offset of the directive in Pattern.
	Fragment string // Offending directive text.
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pattern %q: %s at position %d: %v", e.Pattern, e.Fragment, e.Pos, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
