package pattern

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/powerman/loglayout/internal/status"
	"github.com/powerman/loglayout/logevent"
)

// ErrNoMatches is returned by selector constructors without matches.
var ErrNoMatches = errors.New("selector requires at least one pattern match")

// PatternMatch binds a selector key to a pattern.
type PatternMatch struct {
	Key     string
	Pattern string
}

// Selector chooses a compiled pattern per event.
type Selector interface {
	Select(e *logevent.Event) *CompiledPattern
	RequiresLocation() bool
}

type keyedPattern struct {
	key string
	p   *CompiledPattern
}

// selectorBase holds compiled matches and the default pattern.
type selectorBase struct {
	matches  []keyedPattern
	def      *CompiledPattern
	location bool
}

func newSelectorBase(parser *Parser, matches []PatternMatch, defaultPattern string, opts ParseOptions) (selectorBase, error) {
	var sb selectorBase
	if len(matches) == 0 {
		return sb, ErrNoMatches
	}
	if parser == nil {
		parser = NewParser(nil)
	}
	if defaultPattern == "" {
		defaultPattern = DefaultPattern
	}
	var errs *multierror.Error
	for _, m := range matches {
		p, err := parser.ParseWithOptions(m.Pattern, opts)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("pattern for %q: %w", m.Key, err))
			continue
		}
		sb.matches = append(sb.matches, keyedPattern{key: m.Key, p: p})
		sb.location = sb.location || p.RequiresLocation()
	}
	def, err := parser.ParseWithOptions(defaultPattern, opts)
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("default pattern: %w", err))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return sb, err
	}
	sb.def = def
	sb.location = sb.location || def.RequiresLocation()
	return sb, nil
}

func (sb *selectorBase) RequiresLocation() bool { return sb.location }

// Default returns pattern used when nothing matches.
func (sb *selectorBase) Default() *CompiledPattern { return sb.def }

// LevelSelector chooses pattern by event level name (case-insensitive).
type LevelSelector struct {
	selectorBase
	byLevel map[string]*CompiledPattern
}

// NewLevelSelector returns a selector using level names as keys.
func NewLevelSelector(parser *Parser, matches []PatternMatch, defaultPattern string, opts ParseOptions) (*LevelSelector, error) {
	sb, err := newSelectorBase(parser, matches, defaultPattern, opts)
	if err != nil {
		return nil, err
	}
	s := &LevelSelector{selectorBase: sb, byLevel: make(map[string]*CompiledPattern, len(sb.matches))}
	for _, m := range sb.matches {
		key := strings.ToUpper(m.key)
		if _, ok := s.byLevel[key]; !ok {
			s.byLevel[key] = m.p
		}
	}
	return s, nil
}

func (s *LevelSelector) Select(e *logevent.Event) *CompiledPattern {
	if p, ok := s.byLevel[e.Level.Name()]; ok {
		return p
	}
	return s.def
}

// MarkerSelector chooses pattern of the first configured key which is
// an ancestor-or-self of the event marker.
type MarkerSelector struct {
	selectorBase
}

// NewMarkerSelector returns a selector using marker names as keys.
func NewMarkerSelector(parser *Parser, matches []PatternMatch, defaultPattern string, opts ParseOptions) (*MarkerSelector, error) {
	sb, err := newSelectorBase(parser, matches, defaultPattern, opts)
	if err != nil {
		return nil, err
	}
	return &MarkerSelector{selectorBase: sb}, nil
}

func (s *MarkerSelector) Select(e *logevent.Event) *CompiledPattern {
	if e.Marker == nil {
		return s.def
	}
	for _, m := range s.matches {
		if e.Marker.IsInstanceOf(m.key) {
			return m.p
		}
	}
	return s.def
}

// ScriptSelector chooses pattern by the key returned from a Script.
type ScriptSelector struct {
	selectorBase
	script Script
	subst  *Substitutor
	byKey  map[string]*CompiledPattern
}

// NewScriptSelector returns a selector using script results as keys.
// Properties are available to script and as ${name} variables.
func NewScriptSelector(parser *Parser, script Script, matches []PatternMatch, defaultPattern string, opts ParseOptions, props map[string]string) (*ScriptSelector, error) {
	if script == nil {
		return nil, fmt.Errorf("%w: script is required", ErrInvalidOption)
	}
	sb, err := newSelectorBase(parser, matches, defaultPattern, opts)
	if err != nil {
		return nil, err
	}
	s := &ScriptSelector{
		selectorBase: sb,
		script:       script,
		subst:        NewSubstitutor(props),
		byKey:        make(map[string]*CompiledPattern, len(sb.matches)),
	}
	for _, m := range sb.matches {
		if _, ok := s.byKey[m.key]; !ok {
			s.byKey[m.key] = m.p
		}
	}
	return s, nil
}

func (s *ScriptSelector) Select(e *logevent.Event) *CompiledPattern {
	res, err := s.script.Evaluate(Bindings{Event: e, Substitutor: s.subst, Properties: s.subst.Properties})
	if err != nil {
		status.Error("pattern selector script failed", "err", err)
		return s.def
	}
	if res == nil {
		return s.def
	}
	key, ok := res.(string)
	if !ok {
		key = fmt.Sprint(res)
	}
	if p, ok := s.byKey[key]; ok {
		return p
	}
	return s.def
}
