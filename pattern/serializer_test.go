package pattern_test

import (
	"errors"
	"testing"

	"github.com/powerman/check"

	"github.com/powerman/loglayout/logevent"
	"github.com/powerman/loglayout/pattern"
)

func TestSerializer(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	s, err := pattern.NewSerializer(pattern.SerializerOptions{})
	t.Nil(err)
	t.Nil(s)

	s, err = pattern.NewSerializer(pattern.SerializerOptions{DefaultPattern: "%p %m"})
	t.Must(t.Nil(err))
	e := newEvent()
	t.Equal(s.Serialize(e), "INFO hello")
	t.False(s.RequiresLocation())
	t.Equal(s.Pattern().Pattern(), "%p %m")

	s, err = pattern.NewSerializer(pattern.SerializerOptions{Pattern: "%m %L", DefaultPattern: "%p"})
	t.Must(t.Nil(err))
	t.True(s.RequiresLocation())

	_, err = pattern.NewSerializer(pattern.SerializerOptions{Pattern: "%nope"})
	t.True(errors.Is(err, pattern.ErrUnknownConverter))
}

func TestSerializer_AlwaysWriteExceptions(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	s, err := pattern.NewSerializer(pattern.SerializerOptions{Pattern: "%m", AlwaysWriteExceptions: true})
	t.Must(t.Nil(err))
	e := newEvent()
	e.Thrown = errors.New("boom")
	t.Equal(s.Serialize(e), "hello boom\n")
}

func TestSerializer_Replace(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	replace, err := pattern.NewRegexReplacement(`\d{4}`, "****")
	t.Must(t.Nil(err))
	s, err := pattern.NewSerializer(pattern.SerializerOptions{Pattern: "%m", Replace: replace})
	t.Must(t.Nil(err))
	e := newEvent()
	e.Message = logevent.Text("card 1234 5678")
	t.Equal(string(s.AppendSerialized([]byte("> "), e)), "> card **** ****")

	_, err = pattern.NewRegexReplacement(`(`, "")
	t.True(errors.Is(err, pattern.ErrInvalidOption))
}

func TestSerializer_Selector(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	sel, err := pattern.NewLevelSelector(nil, []pattern.PatternMatch{{Key: "ERROR", Pattern: "%l !%m"}}, "%m", pattern.ParseOptions{})
	t.Must(t.Nil(err))
	s, err := pattern.NewSerializer(pattern.SerializerOptions{Pattern: "ignored", Selector: sel})
	t.Must(t.Nil(err))
	t.True(s.RequiresLocation())
	t.Nil(s.Pattern())

	e := newEvent()
	t.Equal(s.Serialize(e), "hello")
	e.Level = logevent.Error
	t.Equal(s.Serialize(e), " !hello")
}
