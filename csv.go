package loglayout

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"

	"github.com/powerman/loglayout/encode"
	"github.com/powerman/loglayout/logevent"
)

// QuoteMode defines which CSV fields are quoted.
type QuoteMode int

// Quote modes.
const (
	QuoteMinimal    QuoteMode = iota // Fields with special characters.
	QuoteAll                         // All fields, including null ones.
	QuoteAllNonNull                  // All fields except null ones.
	QuoteNonNumeric                  // Fields which are not numbers.
	QuoteNone                        // No fields, special characters are escaped.
)

var quoteModeNames = [...]string{"MINIMAL", "ALL", "ALL_NON_NULL", "NON_NUMERIC", "NONE"}

func (m QuoteMode) String() string {
	if m < 0 || int(m) >= len(quoteModeNames) {
		return fmt.Sprintf("QuoteMode(%d)", int(m))
	}
	return quoteModeNames[m]
}

func (m *QuoteMode) UnmarshalText(text []byte) error {
	for i, name := range quoteModeNames {
		if strings.EqualFold(strings.TrimSpace(string(text)), name) {
			*m = QuoteMode(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown quote mode %q", ErrInvalidConfig, text)
}

func (m QuoteMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// CSVFormat describes a CSV dialect. Zero Quote or Escape means not set.
type CSVFormat struct {
	Delimiter       rune
	Quote           rune
	Escape          rune
	QuoteMode       QuoteMode
	NullString      string // Written for null fields.
	RecordSeparator string
	Header          []string
}

// Predefined CSV formats.
var (
	CSVDefault       = CSVFormat{Delimiter: ',', Quote: '"', RecordSeparator: "\r\n"}
	CSVRFC4180       = CSVFormat{Delimiter: ',', Quote: '"', RecordSeparator: "\r\n"}
	CSVExcel         = CSVFormat{Delimiter: ',', Quote: '"', RecordSeparator: "\r\n"}
	CSVTDF           = CSVFormat{Delimiter: '\t', Quote: '"', RecordSeparator: "\r\n"}
	CSVMySQL         = CSVFormat{Delimiter: '\t', Escape: '\\', QuoteMode: QuoteAllNonNull, NullString: `\N`, RecordSeparator: "\n"}
	CSVPostgreSQLCSV = CSVFormat{Delimiter: ',', Quote: '"', QuoteMode: QuoteAllNonNull, RecordSeparator: "\n"}
)

var csvFormats = map[string]*CSVFormat{
	"default":       &CSVDefault,
	"rfc4180":       &CSVRFC4180,
	"excel":         &CSVExcel,
	"tdf":           &CSVTDF,
	"mysql":         &CSVMySQL,
	"postgresqlcsv": &CSVPostgreSQLCSV,
}

// LookupCSVFormat returns predefined format by case-insensitive name:
// Default, RFC4180, Excel, TDF, MySQL or PostgreSQLCsv.
func LookupCSVFormat(name string) (CSVFormat, error) {
	f, ok := csvFormats[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return CSVFormat{}, fmt.Errorf("%w: unknown CSV format %q", ErrInvalidConfig, name)
	}
	return *f, nil
}

// Validate returns error if f can't be used to print records.
func (f *CSVFormat) Validate() error {
	var errs error
	special := func(r rune) bool { return r == '\r' || r == '\n' }
	switch {
	case f.Delimiter == 0 || special(f.Delimiter):
		errs = multierror.Append(errs, fmt.Errorf("%w: invalid delimiter %q", ErrInvalidConfig, f.Delimiter))
	case f.Delimiter == f.Quote:
		errs = multierror.Append(errs, fmt.Errorf("%w: delimiter and quote are the same %q", ErrInvalidConfig, f.Delimiter))
	case f.Delimiter == f.Escape:
		errs = multierror.Append(errs, fmt.Errorf("%w: delimiter and escape are the same %q", ErrInvalidConfig, f.Delimiter))
	}
	if special(f.Quote) || special(f.Escape) {
		errs = multierror.Append(errs, fmt.Errorf("%w: quote or escape is a line break", ErrInvalidConfig))
	}
	if f.Quote != 0 && f.Quote == f.Escape {
		errs = multierror.Append(errs, fmt.Errorf("%w: quote and escape are the same %q", ErrInvalidConfig, f.Quote))
	}
	if f.QuoteMode == QuoteNone && f.Escape == 0 {
		errs = multierror.Append(errs, fmt.Errorf("%w: quote mode NONE requires escape", ErrInvalidConfig))
	}
	return errs
}

// AppendRecord appends fields and RecordSeparator to dst.
// Nil fields are printed as null.
func (f *CSVFormat) AppendRecord(dst []byte, fields ...any) []byte {
	for i, v := range fields {
		if i > 0 {
			dst = utf8.AppendRune(dst, f.Delimiter)
		}
		dst = f.appendField(dst, v, i == 0)
	}
	return append(dst, f.RecordSeparator...)
}

func (f *CSVFormat) appendField(dst []byte, v any, first bool) []byte {
	if v == nil {
		if f.QuoteMode == QuoteAll && f.Quote != 0 {
			return f.appendQuoted(dst, f.NullString)
		}
		return append(dst, f.NullString...)
	}
	s, numeric := csvString(v)
	switch {
	case f.Quote != 0 && f.QuoteMode != QuoteNone:
		if f.needQuotes(s, numeric, first) {
			return f.appendQuoted(dst, s)
		}
		return append(dst, s...)
	case f.Escape != 0:
		return f.appendEscaped(dst, s)
	default:
		return append(dst, s...)
	}
}

func (f *CSVFormat) needQuotes(s string, numeric, first bool) bool {
	switch f.QuoteMode {
	case QuoteAll, QuoteAllNonNull:
		return true
	case QuoteNonNumeric:
		return !numeric
	}
	if s == "" {
		return first
	}
	if s[0] == ' ' || s[len(s)-1] == ' ' {
		return true
	}
	return strings.ContainsFunc(s, func(r rune) bool {
		return r == f.Delimiter || r == f.Quote || r == '\r' || r == '\n' || f.Escape != 0 && r == f.Escape
	})
}

func (f *CSVFormat) appendQuoted(dst []byte, s string) []byte {
	dst = utf8.AppendRune(dst, f.Quote)
	for _, r := range s {
		if r == f.Quote || f.Escape != 0 && r == f.Escape {
			if f.Escape != 0 {
				dst = utf8.AppendRune(dst, f.Escape)
			} else {
				dst = utf8.AppendRune(dst, f.Quote)
			}
		}
		dst = utf8.AppendRune(dst, r)
	}
	return utf8.AppendRune(dst, f.Quote)
}

func (f *CSVFormat) appendEscaped(dst []byte, s string) []byte {
	for _, r := range s {
		switch {
		case r == '\r':
			dst = utf8.AppendRune(dst, f.Escape)
			r = 'r'
		case r == '\n':
			dst = utf8.AppendRune(dst, f.Escape)
			r = 'n'
		case r == f.Delimiter || r == f.Escape || f.Quote != 0 && r == f.Quote:
			dst = utf8.AppendRune(dst, f.Escape)
		}
		dst = utf8.AppendRune(dst, r)
	}
	return dst
}

func csvString(v any) (s string, numeric bool) {
	switch v := v.(type) {
	case string:
		return v, false
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case int32, int16, int8, uint, uint64, uint32, uint16, uint8:
		return fmt.Sprint(v), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), true
	case fmt.Stringer:
		return v.String(), false
	case error:
		return v.Error(), false
	default:
		return fmt.Sprint(v), false
	}
}

// CSVOptions configure CSV layouts.
type CSVOptions struct {
	Format  CSVFormat
	Charset *encode.Charset
}

// DefaultCSVOptions returns options with CSVDefault format.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Format: CSVDefault}
}

// CSVLayout renders each event as a single CSV record.
type CSVLayout struct {
	textLayout
	format   CSVFormat
	fields   func(e *logevent.Event) []any
	location bool
}

var _ Layout = (*CSVLayout)(nil)

// NewCSVParameterLayout returns a layout which renders message parameters.
func NewCSVParameterLayout(opts CSVOptions) (*CSVLayout, error) {
	return newCSVLayout(opts, false, func(e *logevent.Event) []any {
		if e.Message == nil {
			return nil
		}
		return e.Message.Parameters()
	})
}

// NewCSVLogEventLayout returns a layout which renders event fields:
// time in milliseconds, nanos, level, thread id, thread name,
// thread priority, message, logger FQCN, logger name, marker, error,
// source, context map and context stack.
func NewCSVLogEventLayout(opts CSVOptions) (*CSVLayout, error) {
	return newCSVLayout(opts, true, eventFields)
}

func newCSVLayout(opts CSVOptions, location bool, fields func(e *logevent.Event) []any) (*CSVLayout, error) {
	err := opts.Format.Validate()
	if err != nil {
		return nil, fmt.Errorf("csv layout: %w", err)
	}
	l := &CSVLayout{format: opts.Format, fields: fields, location: location}
	l.textLayout = newTextLayout(opts.Charset, "text/csv", l.appendTo)
	return l, nil
}

func (l *CSVLayout) appendTo(dst []byte, e *logevent.Event) ([]byte, error) {
	return l.format.AppendRecord(dst, l.fields(e)...), nil
}

// Header returns header record or nil if format has no header.
func (l *CSVLayout) Header() []byte {
	if len(l.format.Header) == 0 {
		return nil
	}
	fields := make([]any, len(l.format.Header))
	for i, h := range l.format.Header {
		fields[i] = h
	}
	return l.charset.Bytes(l.format.AppendRecord(nil, fields...))
}

// CSVFormat returns CSV dialect used by the layout.
func (l *CSVLayout) CSVFormat() CSVFormat { return l.format }

// RequiresLocation reports true for the log event layout, which
// renders the source column.
func (l *CSVLayout) RequiresLocation() bool { return l.location }

func (l *CSVLayout) ContentFormat() map[string]string {
	return map[string]string{
		"structured": "true",
		"formatType": "csv",
		"delimiter":  string(l.format.Delimiter),
	}
}

func eventFields(e *logevent.Event) []any {
	fields := []any{
		e.TimeMillis(),
		e.Nanos,
		e.Level.Name(),
		e.ThreadID,
		e.ThreadName,
		e.ThreadPriority,
		e.FormattedMessage(),
		e.LoggerFQCN,
		e.LoggerName,
		nil, nil, nil,
		contextMapString(e.ContextMap),
		"[" + strings.Join(e.ContextStack, ", ") + "]",
	}
	if e.Marker != nil {
		fields[9] = e.Marker.String()
	}
	if e.Thrown != nil {
		fields[10] = e.Thrown.Error()
	}
	if s := e.Source; s != nil {
		fields[11] = fmt.Sprintf("%s.%s(%s:%d)", s.Class, s.Method, filepath.Base(s.File), s.Line)
	}
	return fields
}

// contextMapString returns "{k1=v1, k2=v2}" with keys sorted.
func contextMapString(m map[string]string) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range slices.Sorted(maps.Keys(m)) {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(m[k])
	}
	sb.WriteByte('}')
	return sb.String()
}
