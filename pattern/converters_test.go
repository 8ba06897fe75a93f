package pattern_test

import (
	"os"
	"strconv"
	"strings"
	"testing"
	_ "time/tzdata"

	"github.com/powerman/check"

	"github.com/powerman/loglayout/logevent"
	"github.com/powerman/loglayout/pattern"
)

func TestConverters(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	tests := []struct {
		pattern string
		want    string
	}{
		{"%p", "INFO"},
		{"%level{length=1}", "I"},
		{"%p{lowerCase=true}", "info"},
		{"%p{INFO=Inf, WARN=W}", "Inf"},
		{"%c", "org.example.app.Service"},
		{"%c{1}", "Service"},
		{"%c{2}", "app.Service"},
		{"%c{-1}", "example.app.Service"},
		{"%c{1.}", "o.e.a.Service"},
		{"%c{1.1.~}", "o.e.~.Service"},
		{"%t %T %tp", "main 7 5"},
		{"%X", "{req=r1, user=alice}"},
		{"%X{user}", "alice"},
		{"%X{user,req}", "{user=alice, req=r1}"},
		{"%X{missing}", ""},
		{"%x", "[outer, inner]"},
		{"%K", "{}"},
		{"%N", "42"},
		{"%endOfBatch", "false"},
		{"%marker|%markerSimpleName", "|"},
		{"%pid", strconv.Itoa(os.Getpid())},
		{"%l|%L", "|"},
		{"%d", "2024-03-05 07:08:09,123"},
		{"%d{ISO8601}", "2024-03-05T07:08:09,123"},
		{"%d{ISO8601_BASIC}", "20240305T070809,123"},
		{"%d{DEFAULT_MICROS}", "2024-03-05 07:08:09,123456"},
		{"%d{ABSOLUTE_NANOS}", "07:08:09,123456789"},
		{"%d{ABSOLUTE}", "07:08:09,123"},
		{"%d{COMPACT}", "20240305070809123"},
		{"%d{DATE}", "05 Mar 2024 07:08:09,123"},
		{"%d{US_MONTH_DAY_YEAR2_TIME}", "05/03/24 07:08:09.123"},
		{"%d{ISO8601_OFFSET_DATE_TIME_HHCMM}", "2024-03-05T07:08:09,123Z"},
		{"%d{UNIX}", "1709622489"},
		{"%d{UNIX_MILLIS}", "1709622489123"},
		{"%d{HH:mm}{Asia/Tokyo}", "16:08"},
		{"%d{HH:mm XXX}{Asia/Kolkata}", "12:38 +05:30"},
		{"%d{HH:mm Z}{America/New_York}", "02:08 -0500"},
		{"%d{EEE, d MMMM yy h a}", "Tue, 5 March 24 7 AM"},
		{"%d{HH 'o''clock'}", "07 o'clock"},
		{"%d{bad pattern}", "2024-03-05 07:08:09,123"},
		{"%enc{<%m/>}", "&lt;hello&#x2F;&gt;"},
		{"%enc{<%m/>}{XML}", "&lt;hello/&gt;"},
		{"%enc{%m%n}{CRLF}", `hello\n`},
		{"%equals{%X{missing}}{}{N/A}", "N/A"},
		{"%equals{%p}{INFO}{i%c{1}}", "iService"},
		{"%equals{%p}{info}{i}", "INFO"},
		{"%equalsIgnoreCase{%p}{info}{i}", "i"},
		{"%notEmpty{[%X{missing}]}", ""},
		{"%notEmpty{[%X{user}]}", "[alice]"},
		{"%notEmpty{static}", ""},
		{"%maxLen{%m}{3}", "hel"},
		{"%maxLength{%m}{10}", "hello"},
		{"%replace{%m}{l+}{L}", "heLo"},
		{"%replace{%c}{(\\w+)\\.}{$1/}", "org/example/app/Service"},
		{"%style{%m}{red,bold}", "\x1b[31;1mhello\x1b[m"},
		{"%style{%X{missing}}{red}", ""},
		{"%red{%m}", "\x1b[31mhello\x1b[m"},
		{"%style{%m}{bg_bright_blue underline}", "\x1b[104;4mhello\x1b[m"},
		{"%highlight{%p}", "\x1b[32mINFO\x1b[m"},
		{"%highlight{%p}{INFO=blue}", "\x1b[34mINFO\x1b[m"},
		{"%highlight{%p}{STYLE=Logback}", "\x1b[34mINFO\x1b[m"},
		{"%highlight{%p}{disableAnsi=true}", "INFO"},
	}
	for _, tc := range tests {
		t.Run(tc.pattern, func(tt *testing.T) {
			t := check.T(tt)
			t.Equal(render(t, tc.pattern, newEvent()), tc.want)
		})
	}
}

func TestConverters_DisableAnsi(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	opts := pattern.ParseOptions{DisableAnsi: true}
	for _, pat := range []string{"%style{%m}{red}", "%red{%m}", "%highlight{%m}"} {
		t.Equal(renderWith(t, pat, opts, newEvent()), "hello", pat)
	}
}

func TestConverters_Event(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	e := newEvent()
	e.Level = logevent.Error
	e.Marker = logevent.NewMarker("LOGIN", logevent.NewMarker("SECURITY"), logevent.NewMarker("AUDIT"))
	e.Message = logevent.MapMessage{"b": "2", "a": "1"}
	e.Source = &logevent.Source{Class: "example.com/app.Handler", Method: "Serve", File: "handler.go", Line: 12}
	e.EndOfBatch = true

	tests := []struct {
		pattern string
		want    string
	}{
		{"%marker", "LOGIN[ SECURITY, AUDIT ]"},
		{"%markerSimpleName", "LOGIN"},
		{"%K", "{a=1, b=2}"},
		{"%map{b}", "2"},
		{"%m", `a="1" b="2"`},
		{"%C{1}.%M(%F:%L)", "Handler.Serve(handler.go:12)"},
		{"%l", "example.com/app.Handler.Serve(handler.go:12)"},
		{"%endOfBatch", "true"},
		{"%highlight{%p}", "\x1b[1;31mERROR\x1b[m"},
		{"%-7level|", "ERROR  |"},
		{"%equals{%markerSimpleName}{LOGIN}{auth}", "auth"},
		{"%enc{%m}{JSON}", `a=\"1\" b=\"2\"`},
	}
	for _, tc := range tests {
		t.Run(tc.pattern, func(tt *testing.T) {
			t := check.T(tt)
			t.Equal(render(t, tc.pattern, e), tc.want)
		})
	}
}

func TestConverters_MaxLenEllipsis(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	e := newEvent()
	e.Message = logevent.Text(strings.Repeat("x", 30))
	t.Equal(render(t, "%maxLen{%m}{25}", e), strings.Repeat("x", 25)+"...")
	t.Equal(render(t, "%maxLen{%m}{20}", e), strings.Repeat("x", 20))
}

func TestConverters_JSONEscape(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	e := newEvent()
	e.Message = logevent.Text("a\"b\\c\n\t\x01é\xff")
	t.Equal(render(t, "%enc{%m}{JSON}", e), `a\"b\\c\n\t\u0001é`+"�")
}

func TestConverters_Sequence(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	parser := pattern.NewParser(nil)
	p1 := parser.MustParse("%sn %sn", pattern.ParseOptions{})
	p2 := parser.MustParse("%sn ", pattern.ParseOptions{})
	e := newEvent()
	var seq []int
	for _, p := range []*pattern.CompiledPattern{p1, p2, p1} {
		for f := range strings.FieldsSeq(p.Format(e)) {
			n, err := strconv.Atoi(f)
			t.Nil(err)
			seq = append(seq, n)
		}
	}
	t.Must(t.Len(seq, 5))
	for i := 1; i < len(seq); i++ {
		t.True(seq[i] > seq[i-1], "sequence %v", seq)
	}
}

func TestConverters_CustomLevel(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	notice, err := logevent.NewLevel("NOTICE_PATTERN", 350)
	t.Must(t.Nil(err))
	e := newEvent()
	e.Level = notice
	t.Equal(render(t, "%p{NOTICE_PATTERN=N, INFO=I}", e), "N")
	t.Equal(render(t, "%p{lowerCase=true}", e), "notice_pattern")
	t.Equal(render(t, "%p{length=3}", e), "NOT")
}

func TestConverters_UUID(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	hex := `[0-9a-f]`
	t.Match(render(t, "%uuid", newEvent()), `^`+hex+`{8}-`+hex+`{4}-4`+hex+`{3}-[89ab]`+hex+`{3}-`+hex+`{12}$`)
	t.Match(render(t, "%u{TIME}", newEvent()), `^`+hex+`{8}-`+hex+`{4}-1`+hex+`{3}-`)
	a, b := render(t, "%u", newEvent()), render(t, "%u", newEvent())
	t.NotEqual(a, b)
}

func TestConverters_Relative(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	e := newEvent()
	e.Time = e.Time.AddDate(100, 0, 0)
	n, err := strconv.ParseInt(render(t, "%r", e), 10, 64)
	t.Nil(err)
	t.True(n > 0)
}

func TestDateCache(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	p := pattern.NewParser(nil).MustParse("%d{HH:mm:ss.SSS}", pattern.ParseOptions{})
	e := newEvent()
	t.Equal(p.Format(e), "07:08:09.123")
	e.Time = e.Time.Add(500) // Same millisecond.
	t.Equal(p.Format(e), "07:08:09.123")
	e.Time = e.Time.Add(1e6)
	t.Equal(p.Format(e), "07:08:09.124")
}
