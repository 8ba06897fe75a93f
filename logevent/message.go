package logevent

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Message is the payload of an event.
type Message interface {
	// FormattedMessage returns the message with parameters substituted.
	FormattedMessage() string
	// Format returns the message format string (or the raw text).
	Format() string
	// Parameters returns message parameters, if any.
	Parameters() []any
}

// FieldsMessage is a message which carries named string fields.
type FieldsMessage interface {
	Message
	Fields() map[string]string
}

// Text is a plain message without parameters.
type Text string

func (m Text) FormattedMessage() string { return string(m) }
func (m Text) Format() string           { return string(m) }
func (Text) Parameters() []any          { return nil }

// Printf is a message rendered with fmt.Sprintf.
type Printf struct {
	format    string
	params    []any
	formatted string
}

// NewPrintf returns a message which renders format with args.
// Rendering happens once, at construction time, so args may be changed
// afterwards without affecting the message.
func NewPrintf(format string, args ...any) *Printf {
	return &Printf{
		format:    format,
		params:    args,
		formatted: fmt.Sprintf(format, args...),
	}
}

func (m *Printf) FormattedMessage() string { return m.formatted }
func (m *Printf) Format() string           { return m.format }
func (m *Printf) Parameters() []any        { return m.params }

// Params is a message with free-form parameters, rendered by
// joining their fmt representation with spaces.
type Params []any

func (m Params) FormattedMessage() string {
	var sb strings.Builder
	for i, p := range m {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprint(&sb, p)
	}
	return sb.String()
}

func (m Params) Format() string    { return "" }
func (m Params) Parameters() []any { return m }

// MapMessage is a message consisting of string fields.
type MapMessage map[string]string

// FormattedMessage renders fields sorted by key as `k1="v1" k2="v2"`.
func (m MapMessage) FormattedMessage() string {
	var sb strings.Builder
	for i, k := range slices.Sorted(maps.Keys(m)) {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(m[k])
		sb.WriteByte('"')
	}
	return sb.String()
}

func (m MapMessage) Format() string            { return "" }
func (m MapMessage) Fields() map[string]string { return m }

// Parameters returns field values sorted by key.
func (m MapMessage) Parameters() []any {
	ps := make([]any, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		ps = append(ps, m[k])
	}
	return ps
}
