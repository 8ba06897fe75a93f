package logevent

import "errors"

// ErrInvalidLevel is returned for malformed or conflicting level definitions.
var ErrInvalidLevel = errors.New("invalid level")
