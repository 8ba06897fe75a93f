package pattern

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-bexpr"

	"github.com/powerman/loglayout/logevent"
)

// Bindings are available to a Script.
type Bindings struct {
	Event       *logevent.Event
	Substitutor *Substitutor
	Properties  map[string]string
}

// Script chooses a pattern key for an event.
// Result is converted to string with fmt; nil result means no choice.
type Script interface {
	Evaluate(b Bindings) (any, error)
}

// ScriptFunc adapts a function to Script.
type ScriptFunc func(b Bindings) (any, error)

func (f ScriptFunc) Evaluate(b Bindings) (any, error) { return f(b) }

// ExprRule is a boolean expression and a result returned when it matches.
// Result may contain ${...} variables.
type ExprRule struct {
	When   string
	Result string
}

type exprRule struct {
	eval   *bexpr.Evaluator
	result string
}

// ExprScript evaluates go-bexpr rules in order and returns the Result
// of the first matching one.
//
// Expressions see fields Level, Logger, Thread, Message, Marker (name)
// and Context (map), e.g. `Level == ERROR and Context.user is not empty`.
type ExprScript struct {
	rules []exprRule
}

// exprDatum is the value ExprScript rules are evaluated against.
type exprDatum struct {
	Level   string
	Logger  string
	Thread  string
	Message string
	Marker  string
	Context map[string]string
}

// NewExprScript compiles rules.
func NewExprScript(rules ...ExprRule) (*ExprScript, error) {
	s := &ExprScript{rules: make([]exprRule, 0, len(rules))}
	for _, rule := range rules {
		eval, err := bexpr.CreateEvaluatorForType(rule.When, nil, reflect.TypeOf(exprDatum{}))
		if err != nil {
			return nil, fmt.Errorf("%w: expression %q: %w", ErrInvalidOption, rule.When, err)
		}
		s.rules = append(s.rules, exprRule{eval: eval, result: rule.Result})
	}
	return s, nil
}

func (s *ExprScript) Evaluate(b Bindings) (any, error) {
	e := b.Event
	datum := exprDatum{
		Level:   e.Level.Name(),
		Logger:  e.LoggerName,
		Thread:  e.ThreadName,
		Context: e.ContextMap,
	}
	if datum.Context == nil {
		datum.Context = map[string]string{}
	}
	if e.Message != nil {
		datum.Message = e.Message.FormattedMessage()
	}
	if e.Marker != nil {
		datum.Marker = e.Marker.Name()
	}
	for _, rule := range s.rules {
		ok, err := rule.eval.Evaluate(datum)
		if err != nil {
			return nil, err
		}
		if ok {
			if b.Substitutor != nil {
				return b.Substitutor.Replace(rule.result, e), nil
			}
			return rule.result, nil
		}
	}
	return nil, nil
}
