package pattern

import (
	"fmt"
	"maps"
	"sync"
)

// Factory creates a converter for one directive.
type Factory func(ctx *FactoryContext) (Converter, error)

// FactoryContext describes the directive being compiled.
type FactoryContext struct {
	Key     string   // Registered key which matched.
	Options []string // Contents of {...} blocks.
	Parser  *Parser
	Flags   ParseOptions
}

// Option returns i-th option or empty string.
func (ctx *FactoryContext) Option(i int) string {
	if i < len(ctx.Options) {
		return ctx.Options[i]
	}
	return ""
}

// ParseNested compiles a pattern given as an option of the directive.
func (ctx *FactoryContext) ParseNested(pattern string) (*CompiledPattern, error) {
	flags := ctx.Flags
	flags.AlwaysWriteExceptions = false
	return ctx.Parser.ParseWithOptions(pattern, flags)
}

func (ctx *FactoryContext) ansiEnabled() bool {
	if ctx.Flags.DisableAnsi {
		return false
	}
	return !ctx.Flags.NoConsoleNoAnsi || isConsole()
}

// Registry maps directive keys to converter factories.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	maxKeyLen int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

var builtin = sync.OnceValue(func() *Registry {
	r := NewRegistry()
	registerBuiltins(r)
	return r
})

// DefaultRegistry returns a new registry with all builtin directives.
func DefaultRegistry() *Registry {
	return builtin().Clone()
}

// Clone returns a copy of r.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &Registry{factories: maps.Clone(r.factories), maxKeyLen: r.maxKeyLen}
}

// Register adds factory under all given keys.
// It fails without registering anything if some key is already registered.
func (r *Registry) Register(factory Factory, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		if k == "" {
			return fmt.Errorf("%w: empty key", ErrInvalidPattern)
		}
		if _, ok := r.factories[k]; ok {
			return fmt.Errorf("converter %q is already registered", k)
		}
	}
	for _, k := range keys {
		r.factories[k] = factory
		r.maxKeyLen = max(r.maxKeyLen, len(k))
	}
	return nil
}

func (r *Registry) mustRegister(factory Factory, keys ...string) {
	if err := r.Register(factory, keys...); err != nil {
		panic(err)
	}
}

// Lookup returns factory for the longest registered prefix of key
// and the prefix itself.
func (r *Registry) Lookup(key string) (Factory, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for n := min(len(key), r.maxKeyLen); n > 0; n-- {
		if f, ok := r.factories[key[:n]]; ok {
			return f, key[:n]
		}
	}
	return nil, ""
}

func registerBuiltins(r *Registry) {
	r.mustRegister(newDateConverter, "d", "date")
	r.mustRegister(newLevelConverter, "p", "level")
	r.mustRegister(newLoggerConverter, "c", "logger")
	r.mustRegister(newClassConverter, "C", "class")
	r.mustRegister(newMethodConverter, "M", "method")
	r.mustRegister(newFileConverter, "F", "file")
	r.mustRegister(newLineConverter, "L", "line")
	r.mustRegister(newLocationConverter, "l", "location")
	r.mustRegister(newThreadNameConverter, "t", "tn", "thread", "threadName")
	r.mustRegister(newThreadIDConverter, "T", "tid", "threadId")
	r.mustRegister(newThreadPriorityConverter, "tp", "threadPriority")
	r.mustRegister(newMessageConverter, "m", "msg", "message")
	r.mustRegister(newLineSeparatorConverter, "n")
	r.mustRegister(newThrowableConverter(throwablePlain),
		"ex", "exception", "throwable")
	r.mustRegister(newThrowableConverter(throwableExtended),
		"xEx", "xException", "xThrowable", "xwEx", "xwException", "xwThrowable")
	r.mustRegister(newThrowableConverter(throwableRootFirst),
		"rEx", "rException", "rThrowable")
	r.mustRegister(newMDCConverter, "X", "mdc", "MDC")
	r.mustRegister(newNDCConverter, "x", "NDC")
	r.mustRegister(newMapConverter, "K", "map", "MAP")
	r.mustRegister(newMarkerConverter, "marker")
	r.mustRegister(newMarkerSimpleNameConverter, "markerSimpleName")
	r.mustRegister(newRelativeTimeConverter, "r", "relative")
	r.mustRegister(newSequenceNumberConverter, "sn", "sequenceNumber")
	r.mustRegister(newNanoTimeConverter, "N", "nano")
	r.mustRegister(newProcessIDConverter, "pid", "processId")
	r.mustRegister(newUUIDConverter, "u", "uuid")
	r.mustRegister(newEndOfBatchConverter, "endOfBatch")
	r.mustRegister(newEncodeConverter, "enc", "encode")
	r.mustRegister(newEqualsConverter(false), "equals")
	r.mustRegister(newEqualsConverter(true), "equalsIgnoreCase")
	r.mustRegister(newNotEmptyConverter, "notEmpty", "varsNotEmpty", "variablesNotEmpty")
	r.mustRegister(newMaxLengthConverter, "maxLen", "maxLength")
	r.mustRegister(newReplaceConverter, "replace")
	r.mustRegister(newStyleConverter, "style")
	r.mustRegister(newHighlightConverter, "highlight")
	for _, name := range styleNames {
		r.mustRegister(newNamedStyleConverter(name), name)
	}
}
