package pattern

import (
	"math"
	"unicode/utf8"
)

// FormattingInfo describes width constraints of a single field.
type FormattingInfo struct {
	LeftAlign   bool
	MinLength   int
	MaxLength   int
	TruncateEnd bool // Set by ".-": truncation always keeps the first characters.
	ZeroPad     bool
}

// DefaultFormattingInfo does not modify field output.
var DefaultFormattingInfo = FormattingInfo{MaxLength: math.MaxInt}

// IsDefault reports whether fi leaves field output unchanged.
func (fi FormattingInfo) IsDefault() bool { return fi == DefaultFormattingInfo }

// Format applies width constraints to dst[start:], which holds one field.
// Widths are counted in runes.
func (fi FormattingInfo) Format(dst []byte, start int) []byte {
	n := utf8.RuneCount(dst[start:])
	if n > fi.MaxLength {
		if fi.LeftAlign && !fi.TruncateEnd {
			cut := skipRunes(dst, start, n-fi.MaxLength)
			dst = dst[:start+copy(dst[start:], dst[cut:])]
		} else {
			dst = dst[:skipRunes(dst, start, fi.MaxLength)]
		}
		n = fi.MaxLength
	}
	if n >= fi.MinLength {
		return dst
	}
	pad := fi.MinLength - n
	if fi.LeftAlign {
		for range pad {
			dst = append(dst, ' ')
		}
		return dst
	}
	end := len(dst)
	for range pad {
		dst = append(dst, ' ')
	}
	copy(dst[start+pad:], dst[start:end])
	fill := byte(' ')
	if fi.ZeroPad {
		fill = '0'
	}
	for i := start; i < start+pad; i++ {
		dst[i] = fill
	}
	return dst
}

// skipRunes returns position in b after n runes starting at pos.
func skipRunes(b []byte, pos, n int) int {
	for ; n > 0 && pos < len(b); n-- {
		_, size := utf8.DecodeRune(b[pos:])
		pos += size
	}
	return pos
}
