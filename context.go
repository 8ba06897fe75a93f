package loglayout

import (
	"context"
	"log/slog"
	"maps"

	"github.com/powerman/loglayout/internal"
	"github.com/powerman/loglayout/logevent"
)

type contextKey int

const (
	contextKeyMap contextKey = iota
	contextKeyStack
)

// ContextWith returns a new Context that carries context map of ctx
// extended with args, given as for slog.Logger.Log.
// Values are stored as text, groups are flattened with '.'-separated keys.
func ContextWith(ctx context.Context, args ...any) context.Context {
	m := maps.Clone(ContextMap(ctx))
	if m == nil {
		m = make(map[string]string, len(args)/2)
	}
	for _, a := range internal.ArgsToAttrSlice(args) {
		addContextAttr(m, "", a)
	}
	return context.WithValue(ctx, contextKeyMap, m)
}

func addContextAttr(m map[string]string, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range v.Group() {
			addContextAttr(m, prefix, ga)
		}
		return
	}
	m[prefix+a.Key] = v.String()
}

// ContextMap returns context map carried by ctx. It must not be modified.
func ContextMap(ctx context.Context) map[string]string {
	m, _ := ctx.Value(contextKeyMap).(map[string]string)
	return m
}

// ContextPush returns a new Context that carries context stack of ctx
// with msgs pushed on top of it.
func ContextPush(ctx context.Context, msgs ...string) context.Context {
	stack := ContextStack(ctx)
	return context.WithValue(ctx, contextKeyStack, append(stack[:len(stack):len(stack)], msgs...))
}

// ContextStack returns context stack carried by ctx, oldest first.
// It must not be modified.
func ContextStack(ctx context.Context) []string {
	stack, _ := ctx.Value(contextKeyStack).([]string)
	return stack
}

// eventFromContext adds context map and stack carried by ctx to e.
// Attributes of the record win over the context map.
func eventFromContext(ctx context.Context, e *logevent.Event) {
	if m := ContextMap(ctx); len(m) > 0 {
		if e.ContextMap == nil {
			e.ContextMap = make(map[string]string, len(m))
		}
		for k, v := range m {
			if _, ok := e.ContextMap[k]; !ok {
				e.ContextMap[k] = v
			}
		}
	}
	if stack := ContextStack(ctx); len(stack) > 0 {
		e.ContextStack = stack
	}
}
