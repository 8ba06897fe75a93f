package pattern_test

import (
	"errors"
	"testing"

	"github.com/powerman/check"
	"go.uber.org/mock/gomock"

	"github.com/powerman/loglayout/logevent"
	"github.com/powerman/loglayout/pattern"
)

func TestLevelSelector(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	s, err := pattern.NewLevelSelector(nil, []pattern.PatternMatch{
		{Key: "error", Pattern: "E %m"},
		{Key: "WARN", Pattern: "W %m"},
	}, "", pattern.ParseOptions{})
	t.Must(t.Nil(err))
	t.False(s.RequiresLocation())

	e := newEvent()
	t.Equal(s.Select(e).Format(e), "hello\n")
	e.Level = logevent.Error
	t.Equal(s.Select(e).Format(e), "E hello")
	e.Level = logevent.Warn
	t.Equal(s.Select(e).Format(e), "W hello")
}

func TestSelector_Errors(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	_, err := pattern.NewLevelSelector(nil, nil, "%m", pattern.ParseOptions{})
	t.True(errors.Is(err, pattern.ErrNoMatches))

	_, err = pattern.NewMarkerSelector(nil, []pattern.PatternMatch{
		{Key: "A", Pattern: "%bad1"},
		{Key: "B", Pattern: "%m"},
	}, "%bad2", pattern.ParseOptions{})
	t.Must(t.NotNil(err))
	t.True(errors.Is(err, pattern.ErrUnknownConverter))
	t.Match(err.Error(), `pattern for "A"`)
	t.Match(err.Error(), `default pattern`)

	_, err = pattern.NewScriptSelector(nil, nil, []pattern.PatternMatch{{Key: "A", Pattern: "%m"}}, "", pattern.ParseOptions{}, nil)
	t.True(errors.Is(err, pattern.ErrInvalidOption))
}

func TestMarkerSelector(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	s, err := pattern.NewMarkerSelector(nil, []pattern.PatternMatch{
		{Key: "SECURITY", Pattern: "sec %m %L"},
		{Key: "AUDIT", Pattern: "audit %m"},
	}, "default %m", pattern.ParseOptions{})
	t.Must(t.Nil(err))
	t.True(s.RequiresLocation())

	audit := logevent.NewMarker("AUDIT")
	security := logevent.NewMarker("SECURITY")
	e := newEvent()
	t.Equal(s.Select(e).Format(e), "default hello")
	e.Marker = logevent.NewMarker("LOGIN", audit)
	t.Equal(s.Select(e).Format(e), "audit hello")
	e.Marker = logevent.NewMarker("LOGIN", audit, security)
	t.Equal(s.Select(e).Format(e), "sec hello ", "configuration order wins")
	e.Marker = logevent.NewMarker("OTHER")
	t.Equal(s.Select(e).Format(e), "default hello")
}

func TestScriptSelector(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	ctrl := gomock.NewController(t)
	script := NewMockScript(ctrl)
	props := map[string]string{"env": "prod"}
	s, err := pattern.NewScriptSelector(nil, script, []pattern.PatternMatch{
		{Key: "short", Pattern: "%m"},
		{Key: "42", Pattern: "answer %m"},
	}, "long %p %m", pattern.ParseOptions{}, props)
	t.Must(t.Nil(err))

	e := newEvent()
	gomock.InOrder(
		script.EXPECT().Evaluate(gomock.Any()).DoAndReturn(func(b pattern.Bindings) (any, error) {
			t.True(b.Event == e)
			t.DeepEqual(b.Properties, props)
			t.Equal(b.Substitutor.Replace("${env}", b.Event), "prod")
			return "short", nil
		}),
		script.EXPECT().Evaluate(gomock.Any()).Return(42, nil),
		script.EXPECT().Evaluate(gomock.Any()).Return(nil, nil),
		script.EXPECT().Evaluate(gomock.Any()).Return("unknown", nil),
		script.EXPECT().Evaluate(gomock.Any()).Return(nil, errors.New("script failed")),
	)
	t.Equal(s.Select(e).Format(e), "hello")
	t.Equal(s.Select(e).Format(e), "answer hello")
	t.Equal(s.Select(e).Format(e), "long INFO hello")
	t.Equal(s.Select(e).Format(e), "long INFO hello")
	t.Equal(s.Select(e).Format(e), "long INFO hello")
}

func TestExprScript(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	script, err := pattern.NewExprScript(
		pattern.ExprRule{When: `Level == "ERROR"`, Result: "error"},
		pattern.ExprRule{When: `Context.user == "alice"`, Result: "${ctx:user}-${env}"},
		pattern.ExprRule{When: `Marker == "AUDIT"`, Result: "audit"},
	)
	t.Must(t.Nil(err))

	subst := pattern.NewSubstitutor(map[string]string{"env": "prod"})
	e := newEvent()
	res, err := script.Evaluate(pattern.Bindings{Event: e, Substitutor: subst})
	t.Nil(err)
	t.Equal(res, "alice-prod")

	e.Level = logevent.Error
	res, err = script.Evaluate(pattern.Bindings{Event: e})
	t.Nil(err)
	t.Equal(res, "error")

	e = newEvent()
	e.ContextMap = map[string]string{"user": "bob"}
	res, err = script.Evaluate(pattern.Bindings{Event: e})
	t.Nil(err)
	t.Nil(res)

	e.Marker = logevent.NewMarker("AUDIT")
	res, err = script.Evaluate(pattern.Bindings{Event: e})
	t.Nil(err)
	t.Equal(res, "audit")

	_, err = pattern.NewExprScript(pattern.ExprRule{When: "Level ==", Result: "x"})
	t.True(errors.Is(err, pattern.ErrInvalidOption))
	_, err = pattern.NewExprScript(pattern.ExprRule{When: `NoSuchField == "x"`, Result: "x"})
	t.NotNil(err)
}

func TestScriptFunc(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	var script pattern.Script = pattern.ScriptFunc(func(b pattern.Bindings) (any, error) {
		return b.Event.LoggerName, nil
	})
	res, err := script.Evaluate(pattern.Bindings{Event: newEvent()})
	t.Nil(err)
	t.Equal(res, "org.example.app.Service")
}
