package pattern

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Named date formats accepted by %d.
var namedDateFormats = map[string]string{
	"ABSOLUTE":                       "HH:mm:ss,SSS",
	"ABSOLUTE_MICROS":                "HH:mm:ss,nnnnnn",
	"ABSOLUTE_NANOS":                 "HH:mm:ss,nnnnnnnnn",
	"ABSOLUTE_PERIOD":                "HH:mm:ss.SSS",
	"COMPACT":                        "yyyyMMddHHmmssSSS",
	"DATE":                           "dd MMM yyyy HH:mm:ss,SSS",
	"DATE_PERIOD":                    "dd MMM yyyy HH:mm:ss.SSS",
	"DEFAULT":                        "yyyy-MM-dd HH:mm:ss,SSS",
	"DEFAULT_MICROS":                 "yyyy-MM-dd HH:mm:ss,nnnnnn",
	"DEFAULT_NANOS":                  "yyyy-MM-dd HH:mm:ss,nnnnnnnnn",
	"DEFAULT_PERIOD":                 "yyyy-MM-dd HH:mm:ss.SSS",
	"ISO8601_BASIC":                  "yyyyMMdd'T'HHmmss,SSS",
	"ISO8601_BASIC_PERIOD":           "yyyyMMdd'T'HHmmss.SSS",
	"ISO8601":                        "yyyy-MM-dd'T'HH:mm:ss,SSS",
	"ISO8601_OFFSET_DATE_TIME_HH":    "yyyy-MM-dd'T'HH:mm:ss,SSSX",
	"ISO8601_OFFSET_DATE_TIME_HHMM":  "yyyy-MM-dd'T'HH:mm:ss,SSSXX",
	"ISO8601_OFFSET_DATE_TIME_HHCMM": "yyyy-MM-dd'T'HH:mm:ss,SSSXXX",
	"ISO8601_PERIOD":                 "yyyy-MM-dd'T'HH:mm:ss.SSS",
	"ISO8601_PERIOD_MICROS":          "yyyy-MM-dd'T'HH:mm:ss.nnnnnn",
	"US_MONTH_DAY_YEAR2_TIME":        "dd/MM/yy HH:mm:ss.SSS",
	"US_MONTH_DAY_YEAR4_TIME":        "dd/MM/yyyy HH:mm:ss.SSS",
}

type dateField struct {
	letter byte // 0 for literal
	count  int
	text   string
}

// dateFormat is a compiled date pattern using the letters of
// java.text.SimpleDateFormat.
type dateFormat struct {
	fields    []dateField
	subMillis bool // Has nanosecond field, output may change within a millisecond.
}

func compileDateFormat(pattern string) (*dateFormat, error) {
	df := &dateFormat{}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			df.fields = append(df.fields, dateField{text: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(pattern); {
		c := pattern[i]
		switch {
		case c == '\'':
			i++
			if i < len(pattern) && pattern[i] == '\'' {
				lit.WriteByte('\'')
				i++
				continue
			}
			for {
				if i == len(pattern) {
					return nil, fmt.Errorf("%w: unterminated quote in date pattern %q", ErrInvalidOption, pattern)
				}
				if pattern[i] == '\'' {
					if i+1 < len(pattern) && pattern[i+1] == '\'' {
						lit.WriteByte('\'')
						i += 2
						continue
					}
					i++
					break
				}
				lit.WriteByte(pattern[i])
				i++
			}
		case ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z'):
			if !strings.ContainsRune("GyMdHkKhmsSnaEDuZXz", rune(c)) {
				return nil, fmt.Errorf("%w: unsupported letter %q in date pattern %q", ErrInvalidOption, c, pattern)
			}
			j := i
			for j < len(pattern) && pattern[j] == c {
				j++
			}
			flush()
			df.fields = append(df.fields, dateField{letter: c, count: j - i})
			df.subMillis = df.subMillis || c == 'n'
			i = j
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()
	return df, nil
}

func appendPadded(dst []byte, v, width int) []byte {
	if v < 0 {
		dst = append(dst, '-')
		v = -v
	}
	var digits [20]byte
	s := strconv.AppendInt(digits[:0], int64(v), 10)
	for range width - len(s) {
		dst = append(dst, '0')
	}
	return append(dst, s...)
}

func (df *dateFormat) Append(dst []byte, t time.Time) []byte {
	for _, f := range df.fields {
		switch f.letter {
		case 0:
			dst = append(dst, f.text...)
		case 'G':
			if t.Year() > 0 {
				dst = append(dst, "AD"...)
			} else {
				dst = append(dst, "BC"...)
			}
		case 'y', 'u':
			if f.count == 2 {
				dst = appendPadded(dst, t.Year()%100, 2)
			} else {
				dst = appendPadded(dst, t.Year(), f.count)
			}
		case 'M':
			switch {
			case f.count >= 4:
				dst = append(dst, t.Month().String()...)
			case f.count == 3:
				dst = append(dst, t.Month().String()[:3]...)
			default:
				dst = appendPadded(dst, int(t.Month()), f.count)
			}
		case 'd':
			dst = appendPadded(dst, t.Day(), f.count)
		case 'D':
			dst = appendPadded(dst, t.YearDay(), f.count)
		case 'E':
			if f.count >= 4 {
				dst = append(dst, t.Weekday().String()...)
			} else {
				dst = append(dst, t.Weekday().String()[:3]...)
			}
		case 'H':
			dst = appendPadded(dst, t.Hour(), f.count)
		case 'k':
			h := t.Hour()
			if h == 0 {
				h = 24
			}
			dst = appendPadded(dst, h, f.count)
		case 'K':
			dst = appendPadded(dst, t.Hour()%12, f.count)
		case 'h':
			h := t.Hour() % 12
			if h == 0 {
				h = 12
			}
			dst = appendPadded(dst, h, f.count)
		case 'm':
			dst = appendPadded(dst, t.Minute(), f.count)
		case 's':
			dst = appendPadded(dst, t.Second(), f.count)
		case 'S':
			dst = appendFraction(dst, t.Nanosecond()/int(time.Millisecond)*int(time.Millisecond), f.count)
		case 'n':
			dst = appendFraction(dst, t.Nanosecond(), f.count)
		case 'a':
			if t.Hour() < 12 {
				dst = append(dst, "AM"...)
			} else {
				dst = append(dst, "PM"...)
			}
		case 'Z':
			dst = appendZoneOffset(dst, t, false, false)
		case 'X':
			dst = appendZoneOffset(dst, t, true, f.count >= 3)
			if f.count == 1 {
				// "X" renders hours only.
				if _, offset := t.Zone(); offset != 0 && offset%3600 == 0 {
					dst = dst[:len(dst)-2]
				}
			}
		case 'z':
			name, _ := t.Zone()
			dst = append(dst, name...)
		}
	}
	return dst
}

// appendFraction appends the first count digits of nanos (9 digit fraction).
func appendFraction(dst []byte, nanos, count int) []byte {
	var digits [9]byte
	for i := 8; i >= 0; i-- {
		digits[i] = byte('0' + nanos%10)
		nanos /= 10
	}
	n := min(count, 9)
	dst = append(dst, digits[:n]...)
	for range count - n {
		dst = append(dst, '0')
	}
	return dst
}

// appendZoneOffset appends +hhmm, +hh:mm (colon) or Z for UTC (iso).
func appendZoneOffset(dst []byte, t time.Time, iso, colon bool) []byte {
	_, offset := t.Zone()
	if offset == 0 && iso {
		return append(dst, 'Z')
	}
	sign := byte('+')
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	dst = append(dst, sign)
	dst = appendPadded(dst, offset/3600, 2)
	if colon {
		dst = append(dst, ':')
	}
	return appendPadded(dst, offset%3600/60, 2)
}
