package loglayout

import (
	"cmp"
	"fmt"
	"maps"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/powerman/loglayout/encode"
	"github.com/powerman/loglayout/internal/buffer"
	"github.com/powerman/loglayout/internal/status"
	"github.com/powerman/loglayout/logevent"
	"github.com/powerman/loglayout/pattern"
)

var enterpriseNumberRe = regexp.MustCompile(`^\d+(\.\d+)*$`)

// LoggerFields describe a structured data element rendered from patterns.
type LoggerFields struct {
	SDID   string            // Default: id of the context map element.
	Fields map[string]string // Param name to pattern.
	// DiscardIfAllFieldsAreEmpty skips the element when all fields are rendered empty.
	DiscardIfAllFieldsAreEmpty bool
}

// RFC5424Options configure NewRFC5424Layout.
type RFC5424Options struct {
	Facility         Facility
	ID               string // Structured data id of messages without one.
	EnterpriseNumber string
	IncludeMDC       bool
	MDCID            string
	MDCPrefix        string
	EventPrefix      string
	IncludeNewLine   bool
	// EscapeNewLine replaces line breaks in the message and params if not empty.
	EscapeNewLine string
	AppName       string
	ConfigName    string // Used as APP-NAME when AppName is empty.
	MessageID     string
	// MDCIncludes is ignored if MDCExcludes is set.
	MDCExcludes      []string
	MDCIncludes      []string
	MDCRequired      []string
	ExceptionPattern string
	// UseTLSMessageFormat prefixes each record with its length (RFC 5425).
	UseTLSMessageFormat bool
	LoggerFields        []LoggerFields
	Hostname            string         // Default: local host name.
	ProcID              string         // Default: process id.
	Location            *time.Location // Default: time zone of the event.
	Charset             *encode.Charset
	Registry            *pattern.Registry
}

// DefaultRFC5424Options returns options with "Audit" id,
// 32473 enterprise number and context map included as "mdc" element.
func DefaultRFC5424Options() RFC5424Options {
	return RFC5424Options{
		Facility:         FacilityLocal0,
		ID:               "Audit",
		EnterpriseNumber: "32473",
		IncludeMDC:       true,
		MDCID:            "mdc",
	}
}

type fieldFormatter struct {
	params  map[string]*pattern.CompiledPattern
	discard bool
}

// RFC5424Layout renders events as RFC 5424 syslog records:
//
//	<PRI>1 TIMESTAMP HOSTNAME APP-NAME PROCID MSGID SD [MSG]
type RFC5424Layout struct {
	textLayout
	opts       RFC5424Options
	appName    string
	mdcSDID    string
	checker    keyChecker
	exception  *pattern.CompiledPattern
	fields     map[string]fieldFormatter
	location   bool
	timestamps *timestampCache
}

var _ Layout = (*RFC5424Layout)(nil)

// NewRFC5424Layout returns a layout configured by opts.
func NewRFC5424Layout(opts RFC5424Options) (*RFC5424Layout, error) {
	if opts.EnterpriseNumber == "" {
		opts.EnterpriseNumber = DefaultRFC5424Options().EnterpriseNumber
	}
	if !enterpriseNumberRe.MatchString(opts.EnterpriseNumber) {
		return nil, fmt.Errorf("%w: enterprise number %q", ErrInvalidConfig, opts.EnterpriseNumber)
	}
	if opts.ID == "" {
		opts.ID = DefaultRFC5424Options().ID
	}
	if opts.MDCID == "" {
		opts.MDCID = DefaultRFC5424Options().MDCID
	}
	if opts.Hostname == "" {
		opts.Hostname = localHostname()
	}
	if opts.ProcID == "" {
		opts.ProcID = strconv.Itoa(os.Getpid())
	}

	l := &RFC5424Layout{
		opts:       opts,
		appName:    cmp.Or(opts.AppName, opts.ConfigName, "-"),
		mdcSDID:    opts.MDCID + "@" + opts.EnterpriseNumber,
		timestamps: newTimestampCache(appendRFC5424Timestamp),
	}
	l.textLayout = newTextLayout(opts.Charset, "text/plain", l.appendTo)

	l.checker = newKeyChecker("MDC", opts.MDCIncludes, opts.MDCExcludes)
	l.opts.MDCRequired = trimList(opts.MDCRequired)

	parser := parserFor(opts.Registry)
	var errs error
	if opts.ExceptionPattern != "" {
		p, err := parser.ParseWithOptions(opts.ExceptionPattern, pattern.ParseOptions{})
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("exception pattern: %w", err))
		}
		l.exception = p
	}
	for _, lf := range opts.LoggerFields {
		if len(lf.Fields) == 0 {
			continue
		}
		sdid := cmp.Or(lf.SDID, l.mdcSDID)
		ff := fieldFormatter{
			params:  make(map[string]*pattern.CompiledPattern, len(lf.Fields)),
			discard: lf.DiscardIfAllFieldsAreEmpty,
		}
		for name, text := range lf.Fields {
			p, err := parser.ParseWithOptions(text, pattern.ParseOptions{})
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("logger field %s %s: %w", sdid, name, err))
				continue
			}
			ff.params[name] = p
		}
		if l.fields == nil {
			l.fields = make(map[string]fieldFormatter)
		}
		l.fields[sdid] = ff
	}
	if errs != nil {
		return nil, fmt.Errorf("rfc5424 layout: %w", errs)
	}

	l.location = l.exception != nil && l.exception.RequiresLocation()
	for _, ff := range l.fields {
		for _, p := range ff.params {
			l.location = l.location || p.RequiresLocation()
		}
	}
	return l, nil
}

func (l *RFC5424Layout) appendTo(dst []byte, e *logevent.Event) ([]byte, error) {
	if !l.opts.UseTLSMessageFormat {
		return l.appendRecord(dst, e)
	}
	buf := buffer.New()
	defer buf.Free()
	var err error
	*buf, err = l.appendRecord(*buf, e)
	if err != nil {
		return dst, err
	}
	return appendTLSFrame(dst, *buf), nil
}

func (l *RFC5424Layout) appendRecord(dst []byte, e *logevent.Event) ([]byte, error) {
	for _, key := range l.opts.MDCRequired {
		if _, ok := e.ContextMap[key]; !ok {
			return dst, &RequiredKeyError{Key: key, ID: l.opts.MDCID}
		}
	}

	dst = append(dst, '<')
	dst = strconv.AppendInt(dst, int64(Priority(l.opts.Facility, e.Level)), 10)
	dst = append(dst, ">1 "...)
	t := e.Time
	if l.opts.Location != nil {
		t = t.In(l.opts.Location)
	}
	dst = l.timestamps.append(dst, t)
	dst = append(dst, ' ')
	dst = append(dst, l.opts.Hostname...)
	dst = append(dst, ' ')
	dst = append(dst, l.appName...)
	dst = append(dst, ' ')
	dst = append(dst, l.opts.ProcID...)
	dst = append(dst, ' ')
	dst = l.appendMessageID(dst, e.Message)
	dst = append(dst, ' ')
	dst = l.appendStructuredData(dst, e)
	return l.appendMessage(dst, e), nil
}

func (l *RFC5424Layout) appendMessageID(dst []byte, msg logevent.Message) []byte {
	if sd, ok := msg.(*logevent.StructuredDataMessage); ok && sd.Type != "" {
		return append(dst, sd.Type...)
	}
	if l.opts.MessageID != "" {
		return append(dst, l.opts.MessageID...)
	}
	return append(dst, '-')
}

type sdElement struct {
	prefix  string
	fields  map[string]string
	discard bool
}

func (el *sdElement) union(fields map[string]string) {
	if el.fields == nil {
		el.fields = make(map[string]string, len(fields))
	}
	maps.Copy(el.fields, fields)
}

func (el *sdElement) discarded() bool {
	if !el.discard {
		return false
	}
	for _, v := range el.fields {
		if v != "" {
			return false
		}
	}
	return true
}

func (l *RFC5424Layout) appendStructuredData(dst []byte, e *logevent.Event) []byte {
	sdMsg, structured := e.Message.(logevent.StructuredData)
	includeMDC := l.opts.IncludeMDC && len(e.ContextMap) > 0
	if !structured && len(l.fields) == 0 && !includeMDC {
		return append(dst, '-')
	}

	elements := make(map[string]*sdElement, len(l.fields)+2)
	for sdid, ff := range l.fields {
		el := &sdElement{prefix: l.opts.EventPrefix, discard: ff.discard, fields: make(map[string]string, len(ff.params))}
		for name, p := range ff.params {
			el.fields[name] = p.Format(e)
		}
		elements[sdid] = el
	}
	if includeMDC {
		if el, ok := elements[l.mdcSDID]; ok {
			el.union(e.ContextMap)
		} else {
			el = &sdElement{prefix: l.opts.MDCPrefix}
			el.union(e.ContextMap)
			elements[l.mdcSDID] = el
		}
	}
	if structured {
		sdMsg.StructuredData(func(m *logevent.StructuredDataMessage) bool {
			sdid := l.structuredDataID(m.ID)
			el, ok := elements[sdid]
			if !ok {
				el = &sdElement{prefix: l.opts.EventPrefix}
				elements[sdid] = el
			}
			el.union(m.Data)
			return true
		})
	}

	start := len(dst)
	for _, sdid := range slices.Sorted(maps.Keys(elements)) {
		el := elements[sdid]
		if el.discarded() {
			continue
		}
		checker := noopChecker
		if sdid == l.mdcSDID {
			checker = l.checker
		}
		dst = append(dst, '[')
		dst = append(dst, sdid...)
		for _, k := range slices.Sorted(maps.Keys(el.fields)) {
			if !checker(k) {
				continue
			}
			dst = append(dst, ' ')
			dst = append(dst, el.prefix...)
			dst = l.appendParam(dst, k)
			dst = append(dst, `="`...)
			dst = l.appendParam(dst, el.fields[k])
			dst = append(dst, '"')
		}
		dst = append(dst, ']')
	}
	if len(dst) == start {
		dst = append(dst, '-')
	}
	return dst
}

// structuredDataID returns id with the layout enterprise number when
// id has none or has the reserved one.
func (l *RFC5424Layout) structuredDataID(id logevent.StructuredDataID) string {
	name := cmp.Or(id.Name, l.opts.ID)
	ein := id.EnterpriseNumber
	if ein == "" || ein == logevent.ReservedEnterpriseNumber {
		ein = l.opts.EnterpriseNumber
	}
	return name + "@" + ein
}

// appendParam appends s with '"', ']' and '\' escaped by backslash.
func (l *RFC5424Layout) appendParam(dst []byte, s string) []byte {
	start := len(dst)
	for i := range len(s) {
		switch s[i] {
		case '"', ']', '\\':
			dst = append(dst, '\\')
		}
		dst = append(dst, s[i])
	}
	return l.escapeNewLines(dst, start)
}

func (l *RFC5424Layout) appendMessage(dst []byte, e *logevent.Event) []byte {
	var text string
	if _, ok := e.Message.(logevent.StructuredData); ok {
		text = e.Message.Format()
	} else {
		text = e.FormattedMessage()
	}
	if text != "" {
		dst = append(dst, ' ')
		start := len(dst)
		dst = append(dst, text...)
		dst = l.escapeNewLines(dst, start)
	}
	if l.exception != nil && e.Thrown != nil {
		start := len(dst)
		dst = append(dst, '\n')
		dst = l.exception.Append(dst, e)
		dst = l.escapeNewLines(dst, start)
	}
	if l.opts.IncludeNewLine {
		dst = append(dst, '\n')
	}
	return dst
}

// escapeNewLines replaces line breaks in dst[start:] if configured.
func (l *RFC5424Layout) escapeNewLines(dst []byte, start int) []byte {
	if l.opts.EscapeNewLine == "" || !slices.Contains(dst[start:], '\n') {
		return dst
	}
	text := string(dst[start:])
	return appendEscapedNewLines(dst[:start], text, l.opts.EscapeNewLine)
}

func (l *RFC5424Layout) RequiresLocation() bool { return l.location }

func (*RFC5424Layout) ContentFormat() map[string]string {
	return map[string]string{
		"structured": "true",
		"formatType": "RFC5424",
	}
}

// TLSFrame returns msg framed with octet counting as defined by RFC 5425.
func TLSFrame(msg string) string {
	return string(appendTLSFrame(nil, []byte(msg)))
}

func appendTLSFrame(dst, msg []byte) []byte {
	dst = strconv.AppendInt(dst, int64(len(msg)), 10)
	dst = append(dst, ' ')
	return append(dst, msg...)
}

// keyChecker reports whether a map key should be rendered.
type keyChecker func(key string) bool

func noopChecker(string) bool { return true }

// newKeyChecker returns checker for include and exclude lists.
// Includes are ignored if excludes are set.
func newKeyChecker(name string, includes, excludes []string) keyChecker {
	includes, excludes = trimList(includes), trimList(excludes)
	switch {
	case len(excludes) > 0:
		if len(includes) > 0 {
			status.Warn(name+" includes and excludes are mutually exclusive, includes will be ignored",
				"includes", includes, "excludes", excludes)
		}
		return func(key string) bool { return !slices.Contains(excludes, key) }
	case len(includes) > 0:
		return func(key string) bool { return slices.Contains(includes, key) }
	default:
		return noopChecker
	}
}

func trimList(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
