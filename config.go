package loglayout

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-viper/mapstructure/v2"

	"github.com/powerman/loglayout/encode"
	"github.com/powerman/loglayout/pattern"
)

// Layout kinds supported by New.
const (
	KindPattern       = "pattern"
	KindSyslog        = "syslog"
	KindRFC5424       = "rfc5424"
	KindGELF          = "gelf"
	KindCSVParameters = "csvParameters"
	KindCSVLogEvent   = "csvLogEvent"
)

// New returns a layout of given kind configured by raw options.
// Options not present in raw have their default values.
func New(kind string, raw map[string]any) (Layout, error) {
	switch strings.ToLower(kind) {
	case strings.ToLower(KindPattern):
		return build(raw, DefaultPatternLayoutOptions(), NewPatternLayout)
	case strings.ToLower(KindSyslog):
		return build(raw, DefaultSyslogOptions(), func(opts SyslogOptions) (*SyslogLayout, error) {
			return NewSyslogLayout(opts), nil
		})
	case strings.ToLower(KindRFC5424):
		return build(raw, DefaultRFC5424Options(), NewRFC5424Layout)
	case strings.ToLower(KindGELF):
		return build(raw, DefaultGELFOptions(), NewGELFLayout)
	case strings.ToLower(KindCSVParameters):
		return build(raw, DefaultCSVOptions(), NewCSVParameterLayout)
	case strings.ToLower(KindCSVLogEvent):
		return build(raw, DefaultCSVOptions(), NewCSVLogEventLayout)
	default:
		return nil, fmt.Errorf("%w: unknown layout kind %q", ErrInvalidConfig, kind)
	}
}

func build[O any, L Layout](raw map[string]any, opts O, newLayout func(O) (L, error)) (Layout, error) {
	err := DecodeOptions(raw, &opts)
	if err != nil {
		return nil, err
	}
	l, err := newLayout(opts)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// DecodeOptions decodes generic configuration map into layout options
// pointed to by out. Field names are matched case-insensitively.
// Besides weak typing of scalars it supports:
//   - comma-separated strings for string slices;
//   - names for Facility, CompressionType, QuoteMode and logevent.Level;
//   - charset names for *encode.Charset and zone names for *time.Location;
//   - single character strings for runes;
//   - format names for CSVFormat;
//   - maps for []KeyValuePair;
//   - {regex, replacement} maps for *pattern.RegexReplacement.
func DecodeOptions(raw map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			stringToCharsetHook,
			stringToLocationHook,
			stringToRuneHook,
			stringToCSVFormatHook,
			mapToKeyValuePairsHook,
			mapToRegexReplacementHook,
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	err = decoder.Decode(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

var (
	charsetType          = reflect.TypeFor[*encode.Charset]()
	locationType         = reflect.TypeFor[*time.Location]()
	csvFormatType        = reflect.TypeFor[CSVFormat]()
	keyValuePairsType    = reflect.TypeFor[[]KeyValuePair]()
	regexReplacementType = reflect.TypeFor[*pattern.RegexReplacement]()
)

func stringToCharsetHook(f, t reflect.Type, data any) (any, error) {
	if f.Kind() != reflect.String || t != charsetType {
		return data, nil
	}
	return encode.LookupCharset(data.(string))
}

func stringToLocationHook(f, t reflect.Type, data any) (any, error) {
	if f.Kind() != reflect.String || t != locationType {
		return data, nil
	}
	return time.LoadLocation(data.(string))
}

var runeEscapes = map[string]rune{`\t`: '\t', `\n`: '\n', `\r`: '\r', `\\`: '\\'}

// stringToRuneHook converts single character strings into int32.
// Other strings are left for weak decoding as numbers.
func stringToRuneHook(f, t reflect.Type, data any) (any, error) {
	if f.Kind() != reflect.String || t.Kind() != reflect.Int32 {
		return data, nil
	}
	s := data.(string)
	if r, ok := runeEscapes[s]; ok {
		return r, nil
	}
	if utf8.RuneCountInString(s) != 1 || '0' <= s[0] && s[0] <= '9' {
		return data, nil
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func stringToCSVFormatHook(f, t reflect.Type, data any) (any, error) {
	if f.Kind() != reflect.String || t != csvFormatType {
		return data, nil
	}
	return LookupCSVFormat(data.(string))
}

func mapToKeyValuePairsHook(f, t reflect.Type, data any) (any, error) {
	if f.Kind() != reflect.Map || t != keyValuePairsType {
		return data, nil
	}
	m, ok := data.(map[string]any)
	if !ok {
		return data, nil
	}
	pairs := make([]KeyValuePair, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		pairs = append(pairs, KeyValuePair{Key: k, Value: fmt.Sprint(m[k])})
	}
	return pairs, nil
}

func mapToRegexReplacementHook(f, t reflect.Type, data any) (any, error) {
	if f.Kind() != reflect.Map || t != regexReplacementType {
		return data, nil
	}
	m, ok := data.(map[string]any)
	if !ok {
		return data, nil
	}
	regex, _ := m["regex"].(string)
	if regex == "" {
		return nil, errors.New("replace: regex is required")
	}
	replacement, _ := m["replacement"].(string)
	return pattern.NewRegexReplacement(regex, replacement)
}
