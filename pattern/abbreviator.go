package pattern

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NameAbbreviator shortens dot-separated names like logger names.
type NameAbbreviator interface {
	Abbreviate(dst []byte, name string) []byte
}

// ParseNameAbbreviator parses a precision pattern:
//
//   - "" keeps the name unchanged;
//   - "N" keeps N rightmost elements;
//   - "-N" drops N leftmost elements;
//   - fragments like "1." or "1.2~.*" shorten each element to the given
//     number of characters, optionally followed by an ellipsis character;
//     the last fragment applies to all remaining elements except the last.
func ParseNameAbbreviator(prec string) (NameAbbreviator, error) {
	prec = strings.TrimSpace(prec)
	if prec == "" {
		return nopAbbreviator{}, nil
	}
	number, drop := prec, false
	if len(prec) > 1 && prec[0] == '-' {
		number, drop = prec[1:], true
	}
	if strings.Trim(number, "0123456789") == "" {
		n, err := strconv.Atoi(number)
		if err != nil {
			return nil, fmt.Errorf("%w: precision %q", ErrInvalidOption, prec)
		}
		if drop {
			return dropAbbreviator(n), nil
		}
		return retainAbbreviator(max(n, 1)), nil
	}

	var frags []abbrFragment
	for pos := 0; pos < len(prec); {
		f := abbrFragment{}
		ellipsisPos := pos
		switch c := prec[pos]; {
		case c == '*':
			f.chars = math.MaxInt
			ellipsisPos++
		case isDigit(c):
			f.chars = int(c - '0')
			ellipsisPos++
		}
		if ellipsisPos < len(prec) && prec[ellipsisPos] != '.' {
			f.ellipsis = prec[ellipsisPos]
		}
		frags = append(frags, f)
		next := strings.IndexByte(prec[pos:], '.')
		if next < 0 {
			break
		}
		pos += next + 1
	}
	return patternAbbreviator(frags), nil
}

type nopAbbreviator struct{}

func (nopAbbreviator) Abbreviate(dst []byte, name string) []byte { return append(dst, name...) }

type retainAbbreviator int

func (n retainAbbreviator) Abbreviate(dst []byte, name string) []byte {
	end := len(name) - 1
	for range int(n) {
		if end <= 0 {
			return append(dst, name...)
		}
		end = strings.LastIndexByte(name[:end], '.')
		if end < 0 {
			return append(dst, name...)
		}
	}
	return append(dst, name[end+1:]...)
}

type dropAbbreviator int

func (n dropAbbreviator) Abbreviate(dst []byte, name string) []byte {
	start := 0
	for range int(n) {
		next := strings.IndexByte(name[start:], '.')
		if next < 0 {
			return append(dst, name...)
		}
		start += next + 1
	}
	return append(dst, name[start:]...)
}

type abbrFragment struct {
	chars    int
	ellipsis byte
}

type patternAbbreviator []abbrFragment

func (p patternAbbreviator) Abbreviate(dst []byte, name string) []byte {
	for i, pos := 0, 0; pos < len(name); i++ {
		f := p[min(i, len(p)-1)]
		next := strings.IndexByte(name[pos:], '.')
		if next < 0 {
			return append(dst, name[pos:]...)
		}
		if next > f.chars {
			dst = append(dst, name[pos:pos+f.chars]...)
			if f.ellipsis != 0 {
				dst = append(dst, f.ellipsis)
			}
			dst = append(dst, '.')
		} else {
			dst = append(dst, name[pos:pos+next+1]...)
		}
		pos += next + 1
	}
	return dst
}
