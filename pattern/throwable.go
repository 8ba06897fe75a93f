package pattern

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/powerman/loglayout/logevent"
)

type throwableKind int

const (
	throwablePlain throwableKind = iota
	throwableExtended
	throwableRootFirst
)

type throwableShort int

const (
	shortNone throwableShort = iota
	shortMessage
	shortClassName
	shortFileName
	shortLineNumber
	shortMethodName
)

type throwableConverter struct {
	kind     throwableKind
	maxLines int // -1 means unlimited.
	sep      string
	filters  []string
	short    throwableShort
}

func newThrowableConverter(kind throwableKind) Factory {
	return func(ctx *FactoryContext) (Converter, error) {
		c := &throwableConverter{kind: kind, maxLines: -1, sep: "\n"}
		for _, opt := range ctx.Options {
			for _, o := range splitThrowableOptions(opt) {
				if err := c.setOption(o); err != nil {
					return nil, err
				}
			}
		}
		return c, nil
	}
}

// splitThrowableOptions splits on commas outside of parentheses.
func splitThrowableOptions(opt string) []string {
	var parts []string
	depth, start := 0, 0
	for i := range len(opt) {
		switch opt[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, opt[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, opt[start:])
}

func (c *throwableConverter) setOption(o string) error {
	o = strings.TrimSpace(o)
	switch {
	case o == "" || strings.EqualFold(o, "full"):
		c.maxLines = -1
	case strings.EqualFold(o, "none"):
		c.maxLines = 0
	case strings.EqualFold(o, "short"):
		c.maxLines = 1
	case o == "short.message" || o == "short.localizedMessage":
		c.short = shortMessage
	case o == "short.className":
		c.short = shortClassName
	case o == "short.fileName":
		c.short = shortFileName
	case o == "short.lineNumber":
		c.short = shortLineNumber
	case o == "short.methodName":
		c.short = shortMethodName
	case strings.HasPrefix(o, "separator(") && strings.HasSuffix(o, ")"):
		c.sep = convertBackslashes(o[len("separator(") : len(o)-1])
	case strings.HasPrefix(o, "filters(") && strings.HasSuffix(o, ")"):
		for f := range strings.SplitSeq(o[len("filters("):len(o)-1], ",") {
			if f = strings.TrimSpace(f); f != "" {
				c.filters = append(c.filters, f)
			}
		}
	default:
		n, err := strconv.Atoi(o)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: exception option %q", ErrInvalidOption, o)
		}
		c.maxLines = n
	}
	return nil
}

func (*throwableConverter) HandlesThrowable() bool { return true }

func (c *throwableConverter) Format(dst []byte, e *logevent.Event) []byte {
	if e.Thrown == nil || c.maxLines == 0 {
		return dst
	}
	if len(dst) > 0 && !isSpace(dst[len(dst)-1]) {
		dst = append(dst, ' ')
	}
	if c.short != shortNone {
		return c.appendShort(dst, e.Thrown)
	}

	start := len(dst)
	chain := errorChain(e.Thrown)
	if c.kind == throwableRootFirst {
		dst = c.appendRootFirst(dst, chain)
	} else {
		dst = c.appendChain(dst, chain, "", "")
	}
	if c.maxLines < 0 && c.sep == "\n" {
		return dst
	}
	return limitLines(dst, start, c.maxLines, c.sep)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

// limitLines keeps at most maxLines of dst[start:] ("\n"-terminated)
// and joins them with sep. Unlimited output keeps a trailing sep.
func limitLines(dst []byte, start, maxLines int, sep string) []byte {
	text := dst[start:]
	n := bytes.Count(text, []byte{'\n'})
	if maxLines >= 0 && maxLines < n {
		n = maxLines
	}
	out := make([]byte, 0, len(text))
	for i := 0; i < n; i++ {
		line, rest, _ := bytes.Cut(text, []byte{'\n'})
		if i > 0 {
			out = append(out, sep...)
		}
		out = append(out, line...)
		text = rest
	}
	if maxLines < 0 {
		out = append(out, sep...)
	}
	return append(dst[:start], out...)
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

type chainItem struct {
	err   error
	msg   string
	stack pkgerrors.StackTrace
}

// errorChain flattens err and its causes. Wrappers which do not change
// the message (like pkg/errors withStack) are merged with their cause.
func errorChain(err error) []chainItem {
	var chain []chainItem
	for ; err != nil; err = errors.Unwrap(err) {
		var stack pkgerrors.StackTrace
		if st, ok := err.(stackTracer); ok {
			stack = st.StackTrace()
		}
		msg := err.Error()
		if n := len(chain); n > 0 && chain[n-1].msg == msg {
			if chain[n-1].stack == nil {
				chain[n-1].stack = stack
			}
			continue
		}
		chain = append(chain, chainItem{err: err, msg: msg, stack: stack})
	}
	return chain
}

func (c *throwableConverter) appendChain(dst []byte, chain []chainItem, indent, caption string) []byte {
	var enclosing pkgerrors.StackTrace
	for i, item := range chain {
		if i > 0 {
			caption = "Caused by: "
		}
		dst = append(dst, indent...)
		dst = append(dst, caption...)
		dst = append(dst, item.msg...)
		dst = append(dst, '\n')
		dst = c.appendStack(dst, item.stack, enclosing, indent)
		if item.stack != nil {
			enclosing = item.stack
		}
		if joined, ok := item.err.(interface{ Unwrap() []error }); ok {
			for _, sub := range joined.Unwrap() {
				if sub != nil {
					dst = c.appendChain(dst, errorChain(sub), indent+"\t", "Suppressed: ")
				}
			}
		}
	}
	return dst
}

func (c *throwableConverter) appendRootFirst(dst []byte, chain []chainItem) []byte {
	for i := len(chain) - 1; i >= 0; i-- {
		if i < len(chain)-1 {
			dst = append(dst, "Wrapped by: "...)
		}
		dst = append(dst, chain[i].msg...)
		dst = append(dst, '\n')
		dst = c.appendStack(dst, chain[i].stack, nil, "")
	}
	return dst
}

func (c *throwableConverter) appendStack(dst []byte, stack, enclosing pkgerrors.StackTrace, indent string) []byte {
	n := len(stack)
	common := 0
	if c.kind == throwableExtended {
		for common < n && common < len(enclosing) &&
			stack[n-1-common] == enclosing[len(enclosing)-1-common] {
			common++
		}
	}
	suppressed := 0
	for _, f := range stack[:n-common] {
		fn, file, line := frameInfo(f)
		if c.filtered(fn) {
			suppressed++
			continue
		}
		dst = c.appendSuppressed(dst, suppressed, indent)
		suppressed = 0
		if c.kind != throwableExtended {
			file = filepath.Base(file)
		}
		dst = append(dst, indent...)
		dst = append(dst, "\tat "...)
		dst = append(dst, fn...)
		dst = append(dst, '(')
		dst = append(dst, file...)
		dst = append(dst, ':')
		dst = strconv.AppendInt(dst, int64(line), 10)
		dst = append(dst, ")\n"...)
	}
	dst = c.appendSuppressed(dst, suppressed, indent)
	if common > 0 {
		dst = append(dst, indent...)
		dst = append(dst, "\t... "...)
		dst = strconv.AppendInt(dst, int64(common), 10)
		dst = append(dst, " more\n"...)
	}
	return dst
}

func (c *throwableConverter) appendSuppressed(dst []byte, n int, indent string) []byte {
	if n == 0 {
		return dst
	}
	dst = append(dst, indent...)
	dst = append(dst, "\t... suppressed "...)
	dst = strconv.AppendInt(dst, int64(n), 10)
	return append(dst, " lines\n"...)
}

func (c *throwableConverter) filtered(fn string) bool {
	for _, prefix := range c.filters {
		if strings.HasPrefix(fn, prefix) {
			return true
		}
	}
	return false
}

func frameInfo(f pkgerrors.Frame) (fn, file string, line int) {
	pc := uintptr(f) - 1
	rf := runtime.FuncForPC(pc)
	if rf == nil {
		return "unknown", "unknown", 0
	}
	file, line = rf.FileLine(pc)
	return rf.Name(), file, line
}

func (c *throwableConverter) appendShort(dst []byte, err error) []byte {
	if c.short == shortMessage {
		return append(dst, err.Error()...)
	}
	if c.short == shortClassName {
		return fmt.Appendf(dst, "%T", err)
	}
	var fn, file string
	var line int
	for _, item := range errorChain(err) {
		if len(item.stack) > 0 {
			fn, file, line = frameInfo(item.stack[0])
			break
		}
	}
	switch c.short {
	case shortFileName:
		return append(dst, filepath.Base(file)...)
	case shortLineNumber:
		if line == 0 {
			return dst
		}
		return strconv.AppendInt(dst, int64(line), 10)
	default:
		return append(dst, fn...)
	}
}
