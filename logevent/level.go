package logevent

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
)

// Level is an ordered log severity. Lower rank means more severe.
type Level struct {
	name string
	rank int
}

// Standard levels.
var (
	Off   = Level{"OFF", 0}
	Fatal = Level{"FATAL", 100}
	Error = Level{"ERROR", 200}
	Warn  = Level{"WARN", 300}
	Info  = Level{"INFO", 400}
	Debug = Level{"DEBUG", 500}
	Trace = Level{"TRACE", 600}
	All   = Level{"ALL", math.MaxInt32}
)

var standardLevels = []Level{Off, Fatal, Error, Warn, Info, Debug, Trace, All}

var levels = struct {
	sync.RWMutex
	byName map[string]Level
}{byName: make(map[string]Level)}

func init() {
	for _, l := range standardLevels {
		levels.byName[l.name] = l
	}
}

// NewLevel registers a custom level. Registering an existing name
// with the same rank returns the existing level.
func NewLevel(name string, rank int) (Level, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return Level{}, fmt.Errorf("%w: empty level name", ErrInvalidLevel)
	}
	if rank < 0 {
		return Level{}, fmt.Errorf("%w: negative rank %d for %s", ErrInvalidLevel, rank, name)
	}
	levels.Lock()
	defer levels.Unlock()
	if l, ok := levels.byName[name]; ok {
		if l.rank != rank {
			return Level{}, fmt.Errorf("%w: %s already registered with rank %d", ErrInvalidLevel, name, l.rank)
		}
		return l, nil
	}
	l := Level{name: name, rank: rank}
	levels.byName[name] = l
	return l, nil
}

// LevelOf returns a registered level by case-insensitive name.
func LevelOf(name string) (Level, bool) {
	levels.RLock()
	defer levels.RUnlock()
	l, ok := levels.byName[strings.ToUpper(strings.TrimSpace(name))]
	return l, ok
}

// ParseLevel converts levelName from flag or config file into Level.
// Besides registered names it accepts common aliases.
// Unknown names result in Debug.
func ParseLevel(levelName string) Level {
	if l, ok := LevelOf(levelName); ok {
		return l
	}
	switch strings.ToLower(strings.TrimSpace(levelName)) {
	case "crit", "critical", "alert", "emerg", "emergency", "panic":
		return Fatal
	case "err":
		return Error
	case "wrn", "warning":
		return Warn
	case "inf", "notice":
		return Info
	case "dbg":
		return Debug
	case "trc", "finest":
		return Trace
	default:
		return Debug
	}
}

// Name returns level name in upper case.
func (l Level) Name() string { return l.name }

// Rank returns level's integer rank.
func (l Level) Rank() int { return l.rank }

func (l Level) String() string { return l.name }

// IsZero reports whether l is the zero Level.
func (l Level) IsZero() bool { return l == Level{} }

// MoreSpecificThan reports whether l is at least as severe as other.
func (l Level) MoreSpecificThan(other Level) bool { return l.rank <= other.rank }

// StandardLevel returns l for a standard level. For a custom level it returns
// the most verbose standard level which is at least as severe as l.
func (l Level) StandardLevel() Level {
	std := Off
	for _, s := range standardLevels {
		if s.rank > l.rank {
			break
		}
		std = s
	}
	return std
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	lvl, ok := LevelOf(string(text))
	if !ok {
		return fmt.Errorf("%w: unknown level %q", ErrInvalidLevel, text)
	}
	*l = lvl
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) { return []byte(l.name), nil }

// FromSlog converts slog.Level into Level.
func FromSlog(level slog.Level) Level {
	switch {
	case level > slog.LevelError:
		return Fatal
	case level > slog.LevelWarn:
		return Error
	case level > slog.LevelInfo:
		return Warn
	case level > slog.LevelDebug:
		return Info
	case level > slog.LevelDebug-4:
		return Debug
	default:
		return Trace
	}
}

// Slog converts l into slog.Level.
func (l Level) Slog() slog.Level {
	switch l.StandardLevel() {
	case Off, Fatal:
		return slog.LevelError + 4
	case Error:
		return slog.LevelError
	case Warn:
		return slog.LevelWarn
	case Info:
		return slog.LevelInfo
	case Debug:
		return slog.LevelDebug
	default:
		return slog.LevelDebug - 4
	}
}
