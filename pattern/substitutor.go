package pattern

import (
	"os"
	"strconv"
	"strings"

	"github.com/powerman/loglayout/logevent"
)

// Substitutor replaces ${prefix:key:-default} variables.
//
// Supported prefixes: ctx (Event.ContextMap), map (MapMessage fields),
// marker, event (Level, LoggerName, ThreadName, ThreadId, Message, Marker,
// Timestamp, Exception), sd (structured data "id" or "type"), env.
// Variables without prefix are looked up in Properties.
// Unresolved variables without default are kept unchanged, "$${" outputs "${".
type Substitutor struct {
	Properties map[string]string
}

// NewSubstitutor returns a substitutor using props for variables without prefix.
func NewSubstitutor(props map[string]string) *Substitutor {
	return &Substitutor{Properties: props}
}

// HasVariables reports whether text contains variables or escapes.
func HasVariables(text string) bool {
	return strings.Contains(text, "${")
}

// Replace returns text with all variables resolved for e (which may be nil).
func (s *Substitutor) Replace(text string, e *logevent.Event) string {
	if !HasVariables(text) {
		return text
	}
	return string(s.AppendReplace(nil, text, e))
}

// AppendReplace appends text with all variables resolved for e.
func (s *Substitutor) AppendReplace(dst []byte, text string, e *logevent.Event) []byte {
	for {
		i := strings.Index(text, "${")
		if i < 0 {
			return append(dst, text...)
		}
		if i > 0 && text[i-1] == '$' {
			dst = append(dst, text[:i-1]...)
			dst = append(dst, "${"...)
			text = text[i+2:]
			continue
		}
		end := strings.IndexByte(text[i+2:], '}')
		if end < 0 {
			return append(dst, text...)
		}
		dst = append(dst, text[:i]...)
		variable := text[i+2 : i+2+end]
		name, def, hasDefault := strings.Cut(variable, ":-")
		if v, ok := s.Lookup(name, e); ok {
			dst = append(dst, v...)
		} else if hasDefault {
			dst = append(dst, def...)
		} else {
			dst = append(dst, text[i:i+3+end]...)
		}
		text = text[i+3+end:]
	}
}

// Lookup resolves single variable name like "ctx:user".
func (s *Substitutor) Lookup(name string, e *logevent.Event) (string, bool) {
	prefix, key, hasPrefix := strings.Cut(name, ":")
	if !hasPrefix {
		if prefix == "marker" && e != nil && e.Marker != nil {
			return e.Marker.Name(), true
		}
		v, ok := s.Properties[name]
		return v, ok
	}
	switch prefix {
	case "env":
		return os.LookupEnv(key)
	case "ctx":
		if e == nil {
			return "", false
		}
		v, ok := e.ContextMap[key]
		return v, ok
	case "map":
		if e == nil {
			return "", false
		}
		if fm, ok := e.Message.(logevent.FieldsMessage); ok {
			v, ok := fm.Fields()[key]
			return v, ok
		}
	case "marker":
		if e != nil && e.Marker != nil {
			return e.Marker.Name(), true
		}
	case "event":
		if e != nil {
			return lookupEvent(key, e)
		}
	case "sd":
		if e == nil {
			return "", false
		}
		if sd, ok := e.Message.(*logevent.StructuredDataMessage); ok {
			switch key {
			case "id":
				return sd.ID.String(), true
			case "type":
				return sd.Type, true
			}
		}
	default:
		v, ok := s.Properties[name]
		return v, ok
	}
	return "", false
}

func lookupEvent(key string, e *logevent.Event) (string, bool) {
	switch key {
	case "Level":
		return e.Level.Name(), true
	case "LoggerName":
		return e.LoggerName, true
	case "ThreadName":
		return e.ThreadName, true
	case "ThreadId":
		return strconv.FormatInt(e.ThreadID, 10), true
	case "Message":
		if e.Message == nil {
			return "", true
		}
		return e.Message.FormattedMessage(), true
	case "Marker":
		if e.Marker == nil {
			return "", false
		}
		return e.Marker.Name(), true
	case "Timestamp":
		return strconv.FormatInt(e.TimeMillis(), 10), true
	case "Exception":
		if e.Thrown == nil {
			return "", false
		}
		return e.Thrown.Error(), true
	}
	return "", false
}
