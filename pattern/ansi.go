package pattern

import (
	"fmt"
	"maps"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/powerman/loglayout/logevent"
)

// isConsole reports whether stdout is a terminal.
var isConsole = func() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

const ansiReset = "\x1b[m"

var ansiAttributes = map[string]color.Attribute{
	"normal":    color.Reset,
	"reset":     color.Reset,
	"default":   color.Reset,
	"bold":      color.Bold,
	"bright":    color.Bold,
	"dim":       color.Faint,
	"faint":     color.Faint,
	"italic":    color.Italic,
	"underline": color.Underline,
	"blink":     color.BlinkSlow,
	"reverse":   color.ReverseVideo,
	"hidden":    color.Concealed,
	"crossed":   color.CrossedOut,
}

// styleNames lists colors usable as %name{pattern} directives.
var styleNames = []string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

func init() {
	for i, name := range styleNames {
		ansiAttributes[name] = color.FgBlack + color.Attribute(i)
		ansiAttributes["fg_"+name] = color.FgBlack + color.Attribute(i)
		ansiAttributes["bg_"+name] = color.BgBlack + color.Attribute(i)
		ansiAttributes["bright_"+name] = color.FgHiBlack + color.Attribute(i)
		ansiAttributes["fg_bright_"+name] = color.FgHiBlack + color.Attribute(i)
		ansiAttributes["bg_bright_"+name] = color.BgHiBlack + color.Attribute(i)
	}
}

// ansiSequence builds escape sequence from attribute names separated
// by commas or spaces, like "bright red" or "bold,bg_blue".
func ansiSequence(names string) (string, error) {
	var seq []byte
	for name := range strings.FieldsFuncSeq(names, func(r rune) bool { return r == ',' || r == ' ' }) {
		attr, ok := ansiAttributes[strings.ToLower(name)]
		if !ok {
			return "", fmt.Errorf("%w: unknown ANSI style %q", ErrInvalidOption, name)
		}
		if seq == nil {
			seq = append(seq, "\x1b["...)
		} else {
			seq = append(seq, ';')
		}
		seq = strconv.AppendInt(seq, int64(attr), 10)
	}
	if seq == nil {
		return "", nil
	}
	return string(append(seq, 'm')), nil
}

type styleConverter struct {
	nested
	style string // Empty if ANSI is disabled.
}

func newStyleConverter(ctx *FactoryContext) (Converter, error) {
	p, err := parseNestedOption(ctx, 1)
	if err != nil {
		return nil, err
	}
	c := &styleConverter{nested: nested{p}}
	if ctx.ansiEnabled() {
		c.style, err = ansiSequence(strings.Join(ctx.Options[1:], ","))
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

func newNamedStyleConverter(name string) Factory {
	return func(ctx *FactoryContext) (Converter, error) {
		p, err := parseNestedOption(ctx, 1)
		if err != nil {
			return nil, err
		}
		c := &styleConverter{nested: nested{p}}
		if ctx.ansiEnabled() {
			c.style, _ = ansiSequence(name)
		}
		return c, nil
	}
}

func (c *styleConverter) Format(dst []byte, e *logevent.Event) []byte {
	return appendStyled(dst, c.p, e, c.style)
}

func appendStyled(dst []byte, p *CompiledPattern, e *logevent.Event, style string) []byte {
	if style == "" {
		return p.Append(dst, e)
	}
	start := len(dst)
	dst = append(dst, style...)
	mark := len(dst)
	dst = p.Append(dst, e)
	if len(dst) == mark {
		return dst[:start]
	}
	return append(dst, ansiReset...)
}

var highlightStyles = map[string]map[string]string{
	"default": {
		"FATAL": "bright red",
		"ERROR": "bright red",
		"WARN":  "yellow",
		"INFO":  "green",
		"DEBUG": "cyan",
		"TRACE": "black",
	},
	"logback": {
		"FATAL": "blink bright red",
		"ERROR": "bright red",
		"WARN":  "red",
		"INFO":  "blue",
		"DEBUG": "normal",
		"TRACE": "normal",
	},
}

type highlightConverter struct {
	nested
	styles   map[logevent.Level]string
	fallback map[string]string // Custom levels by standard level name.
	enabled  bool
}

func newHighlightConverter(ctx *FactoryContext) (Converter, error) {
	p, err := parseNestedOption(ctx, 1)
	if err != nil {
		return nil, err
	}
	names := maps.Clone(highlightStyles["default"])
	enabled := ctx.ansiEnabled()
	for opt := range strings.SplitSeq(strings.Join(ctx.Options[1:], ","), ",") {
		k, v, ok := strings.Cut(opt, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		switch {
		case k == "":
		case !ok:
			return nil, fmt.Errorf("%w: highlight option %q", ErrInvalidOption, opt)
		case strings.EqualFold(k, "STYLE"):
			preset, ok := highlightStyles[strings.ToLower(v)]
			if !ok {
				return nil, fmt.Errorf("%w: unknown highlight style %q", ErrInvalidOption, v)
			}
			maps.Copy(names, preset)
		case strings.EqualFold(k, "disableAnsi"):
			enabled = enabled && v != "true"
		case strings.EqualFold(k, "noConsoleNoAnsi"):
			enabled = enabled && (v != "true" || isConsole())
		default:
			names[strings.ToUpper(k)] = v
		}
	}

	c := &highlightConverter{
		nested:   nested{p},
		styles:   make(map[logevent.Level]string),
		fallback: make(map[string]string),
		enabled:  enabled,
	}
	for name, style := range names {
		seq, err := ansiSequence(style)
		if err != nil {
			return nil, err
		}
		if l, ok := logevent.LevelOf(name); ok {
			c.styles[l] = seq
		}
		c.fallback[name] = seq
	}
	return c, nil
}

func (c *highlightConverter) Format(dst []byte, e *logevent.Event) []byte {
	if !c.enabled {
		return c.p.Append(dst, e)
	}
	style, ok := c.styles[e.Level]
	if !ok {
		style = c.fallback[e.Level.StandardLevel().Name()]
	}
	return appendStyled(dst, c.p, e, style)
}
