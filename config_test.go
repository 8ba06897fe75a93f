package loglayout_test

import (
	"errors"
	"testing"

	"github.com/powerman/check"

	"github.com/powerman/loglayout"
	"github.com/powerman/loglayout/encode"
	"github.com/powerman/loglayout/logevent"
	"github.com/powerman/loglayout/pattern"
)

func TestNew(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	tests := []struct {
		kind  string
		raw   map[string]any
		event func(*logevent.Event)
		want  string
	}{
		{loglayout.KindPattern, map[string]any{"pattern": "%p %m"}, nil,
			"INFO hello"},
		{loglayout.KindPattern, map[string]any{"pattern": "%m", "replace": map[string]any{"regex": "l+", "replacement": "L"}}, nil,
			"heLo"},
		{loglayout.KindPattern, map[string]any{"pattern": "%m", "alwaysWriteExceptions": "false"},
			func(e *logevent.Event) { e.Thrown = errors.New("boom") },
			"hello"},
		{"SYSLOG", map[string]any{"facility": "user", "hostname": "h", "includeNewLine": "true"}, nil,
			"<14>Mar  5 07:08:09 h hello\n"},
		{loglayout.KindRFC5424, map[string]any{
			"appName":          "app",
			"hostname":         "web1",
			"procId":           42,
			"mdcIncludes":      "user, req",
			"enterpriseNumber": "18060",
			"location":         "UTC",
			"loggerFields": []any{
				map[string]any{"sdId": "req@1", "fields": map[string]any{"lvl": "%p"}},
			},
		}, nil,
			`<134>1 2024-03-05T07:08:09.123Z web1 app 42 - [mdc@18060 req="r1" user="alice"][req@1 lvl="INFO"] hello`},
		{loglayout.KindGELF, map[string]any{
			"host":                 "web1",
			"compressionType":      "off",
			"includeThreadContext": false,
			"additionalFields":     map[string]any{"env": "prod", "dc": 1},
		}, nil,
			gelfHead + `"_dc":"1","_env":"prod","short_message":"hello"}`},
		{loglayout.KindCSVParameters, map[string]any{"format": map[string]any{"delimiter": ";", "quoteMode": "all"}},
			func(e *logevent.Event) { e.Message = logevent.Params{"a", 1} },
			"\"a\";\"1\"\r\n"},
		{"csvlogevent", map[string]any{"format": "TDF"},
			func(e *logevent.Event) { e.ContextMap, e.ContextStack = nil, nil },
			"1709622489123\t42\tINFO\t7\tmain\t5\thello\tlog/slog.Logger\torg.example.app.Service\t\t\t\t{}\t[]\r\n"},
	}
	for _, tc := range tests {
		t.Run(tc.kind, func(tt *testing.T) {
			t := check.T(tt)
			l, err := loglayout.New(tc.kind, tc.raw)
			t.Must(t.Nil(err))
			e := newEvent()
			if tc.event != nil {
				tc.event(e)
			}
			t.Equal(format(t, l, e), tc.want)
		})
	}
}

func TestNew_Defaults(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	for _, kind := range []string{
		loglayout.KindPattern,
		loglayout.KindSyslog,
		loglayout.KindRFC5424,
		loglayout.KindGELF,
		loglayout.KindCSVParameters,
		loglayout.KindCSVLogEvent,
	} {
		t.Run(kind, func(tt *testing.T) {
			t := check.T(tt)
			l, err := loglayout.New(kind, nil)
			t.Must(t.Nil(err))
			_, err = l.Format(newEvent())
			t.Nil(err)
		})
	}
}

func TestNew_Error(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	tests := []struct {
		name    string
		kind    string
		raw     map[string]any
		wantErr error
	}{
		{"unknown kind", "json", nil, loglayout.ErrInvalidConfig},
		{"unknown option", loglayout.KindPattern, map[string]any{"nope": 1}, loglayout.ErrInvalidConfig},
		{"bad facility", loglayout.KindSyslog, map[string]any{"facility": "LOCAL9"}, loglayout.ErrInvalidConfig},
		{"bad charset", loglayout.KindSyslog, map[string]any{"charset": "no-such-charset"}, loglayout.ErrInvalidConfig},
		{"bad location", loglayout.KindSyslog, map[string]any{"location": "Mars/Olympus"}, loglayout.ErrInvalidConfig},
		{"bad pattern", loglayout.KindPattern, map[string]any{"pattern": "%nope"}, pattern.ErrUnknownConverter},
		{"bad replace", loglayout.KindPattern, map[string]any{"replace": map[string]any{"replacement": "x"}}, loglayout.ErrInvalidConfig},
		{"bad enterprise number", loglayout.KindRFC5424, map[string]any{"enterpriseNumber": "x"}, loglayout.ErrInvalidConfig},
		{"null delimiter with compression", loglayout.KindGELF, map[string]any{"includeNullDelimiter": true}, loglayout.ErrInvalidConfig},
		{"bad compression", loglayout.KindGELF, map[string]any{"compressionType": "lz4"}, loglayout.ErrInvalidConfig},
		{"bad csv format", loglayout.KindCSVLogEvent, map[string]any{"format": "json"}, loglayout.ErrInvalidConfig},
		{"bad delimiter", loglayout.KindCSVLogEvent, map[string]any{"format": map[string]any{"delimiter": "ab"}}, loglayout.ErrInvalidConfig},
		{"invalid csv format", loglayout.KindCSVLogEvent, map[string]any{"format": map[string]any{"quote": ","}}, loglayout.ErrInvalidConfig},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(tt *testing.T) {
			t := check.T(tt)
			l, err := loglayout.New(tc.kind, tc.raw)
			t.True(errors.Is(err, tc.wantErr))
			t.Nil(l)
		})
	}
}

func TestDecodeOptions(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	var opts loglayout.RFC5424Options
	err := loglayout.DecodeOptions(map[string]any{
		"facility":       "local3",
		"mdcExcludes":    "a,b",
		"mdcRequired":    []any{"c"},
		"includeNewLine": 1,
		"charset":        "iso-8859-1",
		"loggerFields": []any{
			map[string]any{
				"sdId":                       "x@1",
				"fields":                     map[string]any{"k": "%m"},
				"discardIfAllFieldsAreEmpty": "true",
			},
		},
	}, &opts)
	t.Must(t.Nil(err))
	t.Equal(opts.Facility, loglayout.FacilityLocal3)
	t.DeepEqual(opts.MDCExcludes, []string{"a", "b"})
	t.DeepEqual(opts.MDCRequired, []string{"c"})
	t.True(opts.IncludeNewLine)
	t.Must(t.NotNil(opts.Charset))
	t.Equal(opts.Charset.Name(), encode.ISO88591.Name())
	t.DeepEqual(opts.LoggerFields, []loglayout.LoggerFields{
		{SDID: "x@1", Fields: map[string]string{"k": "%m"}, DiscardIfAllFieldsAreEmpty: true},
	})

	var csv loglayout.CSVOptions
	err = loglayout.DecodeOptions(map[string]any{
		"format": map[string]any{"delimiter": `\t`, "quote": "'", "escape": "\\", "nullString": "NULL"},
	}, &csv)
	t.Must(t.Nil(err))
	t.Equal(csv.Format.Delimiter, '\t')
	t.Equal(csv.Format.Quote, '\'')
	t.Equal(csv.Format.Escape, '\\')
	t.Equal(csv.Format.NullString, "NULL")
}
