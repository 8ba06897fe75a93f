// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE-go file.
//
// Modified by Alex Efros to build log events instead of text output.

package internal

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/powerman/loglayout/internal/buffer"
	"github.com/powerman/loglayout/logevent"
)

type EventHandlerOptions struct {
	// Level reports the minimum record level that will be logged.
	// If Level is nil, the handler assumes LevelInfo.
	Level Leveler

	// ReplaceAttr is called to rewrite each non-group attribute of the record
	// and attributes added by WithAttrs. Built-in record fields are not passed.
	// If ReplaceAttr returns a zero Attr, the attribute is discarded.
	ReplaceAttr func(groups []string, a Attr) Attr

	// AddSource causes the handler to set Event.Source.
	AddSource bool

	LoggerName string
	ThreadName string

	// ErrorAttrs returns attrs attached to err, added to the context map
	// when err becomes Event.Thrown.
	ErrorAttrs func(err error) []Attr

	// FromContext adds data carried by ctx to e.
	FromContext func(ctx context.Context, e *logevent.Event)

	// Emit outputs the event. The event must not be retained.
	Emit func(ctx context.Context, e *logevent.Event) error
}

// attrState is the part of the event collected from attrs.
type attrState struct {
	contextMap map[string]string
	thrown     error
	marker     *logevent.Marker
}

func (st attrState) clone() attrState {
	return attrState{
		contextMap: maps.Clone(st.contextMap),
		thrown:     st.thrown,
		marker:     st.marker,
	}
}

// EventHandler is a slog.Handler which converts records into log events.
type EventHandler struct {
	opts   EventHandlerOptions
	state  attrState // From WithAttrs.
	groups []string  // all groups started from WithGroup
	prefix []byte    // key prefix
}

// NewEventHandler creates an [EventHandler] using the given options.
func NewEventHandler(opts EventHandlerOptions) *EventHandler {
	return &EventHandler{opts: opts}
}

func (h *EventHandler) clone() *EventHandler {
	return &EventHandler{
		opts:   h.opts,
		state:  h.state.clone(),
		groups: slices.Clip(h.groups),
		prefix: slices.Clip(h.prefix),
	}
}

// Enabled reports whether l is greater than or equal to the
// minimum level.
func (h *EventHandler) Enabled(_ context.Context, l Level) bool {
	minLevel := LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return l >= minLevel
}

func (h *EventHandler) WithAttrs(as []Attr) Handler {
	// We are going to ignore empty groups, so if the entire slice consists of
	// them, there is nothing to do.
	if CountEmptyGroups(as) == len(as) {
		return h
	}
	h2 := h.clone()
	s := h2.newHandleState(&h2.state)
	defer s.free()
	s.prefix.Write(h.prefix)
	s.appendAttrs(as)
	return h2
}

func (h *EventHandler) WithGroup(name string) Handler {
	h2 := h.clone()
	h2.groups = append(h2.groups, name)
	h2.prefix = append(h2.prefix, name...)
	h2.prefix = append(h2.prefix, keyComponentSep)
	return h2
}

func (h *EventHandler) Handle(ctx context.Context, r Record) error {
	state := h.state.clone()
	if r.NumAttrs() > 0 {
		s := h.newHandleState(&state)
		s.prefix.Write(h.prefix)
		r.Attrs(func(a Attr) bool {
			s.appendAttr(a)
			return true
		})
		s.free()
	}

	e := &logevent.Event{
		Time:       r.Time.Round(0), // strip monotonic to match Attr behavior
		Level:      logevent.FromSlog(r.Level),
		LoggerName: h.opts.LoggerName,
		ThreadName: h.opts.ThreadName,
		Message:    logevent.Text(r.Message),
		Marker:     state.marker,
		Thrown:     state.thrown,
		ContextMap: state.contextMap,
	}
	if !r.Time.IsZero() {
		e.Nanos = r.Time.UnixNano()
	}
	if h.opts.AddSource {
		e.Source = logevent.SourceFromPC(r.PC)
	}
	if h.opts.FromContext != nil && ctx != nil {
		h.opts.FromContext(ctx, e)
	}
	return h.opts.Emit(ctx, e)
}

// handleState holds state for a single call to WithAttrs or Handle.
type handleState struct {
	h      *EventHandler
	st     *attrState
	value  *buffer.Buffer
	prefix *buffer.Buffer // key prefix
	groups *[]string      // pool-allocated slice of active groups, for ReplaceAttr
}

var groupPool = sync.Pool{New: func() any {
	s := make([]string, 0, 10)
	return &s
}}

var handleStatePool = sync.Pool{New: func() any {
	return &handleState{}
}}

func (h *EventHandler) newHandleState(st *attrState) *handleState {
	s := handleStatePool.Get().(*handleState)
	s.h = h
	s.st = st
	s.value = buffer.New()
	s.prefix = buffer.New()
	if h.opts.ReplaceAttr != nil {
		s.groups = groupPool.Get().(*[]string)
		*s.groups = append(*s.groups, h.groups...)
	}
	return s
}

func (s *handleState) free() {
	if gs := s.groups; gs != nil {
		*gs = (*gs)[:0]
		groupPool.Put(gs)
		s.groups = nil
	}
	s.value.Free()
	s.prefix.Free()
	s.h, s.st = nil, nil
	handleStatePool.Put(s)
}

// Separator for group names and keys.
const keyComponentSep = '.'

// openGroup starts a new group of attributes
// with the given name.
func (s *handleState) openGroup(name string) {
	s.prefix.WriteString(name)
	s.prefix.WriteByte(keyComponentSep)
	// Collect group names for ReplaceAttr.
	if s.groups != nil {
		*s.groups = append(*s.groups, name)
	}
}

// closeGroup ends the group with the given name.
func (s *handleState) closeGroup(name string) {
	(*s.prefix) = (*s.prefix)[:len(*s.prefix)-len(name)-1 /* for keyComponentSep */]
	if s.groups != nil {
		*s.groups = (*s.groups)[:len(*s.groups)-1]
	}
}

// appendAttrs appends the slice of Attrs.
func (s *handleState) appendAttrs(as []Attr) {
	for _, a := range as {
		s.appendAttr(a)
	}
}

// appendAttr adds the Attr to the event state.
// It handles replacement and checking for an empty key.
func (s *handleState) appendAttr(a Attr) {
	a.Value = a.Value.Resolve()
	if rep := s.h.opts.ReplaceAttr; rep != nil && a.Value.Kind() != KindGroup {
		var gs []string
		if s.groups != nil {
			gs = *s.groups
		}
		// a.Value is resolved before calling ReplaceAttr, so the user doesn't have to.
		a = rep(gs, a)
		// The ReplaceAttr function may return an unresolved Attr.
		a.Value = a.Value.Resolve()
	}
	// Elide empty Attrs.
	if a.Equal(Attr{}) {
		return
	}
	if a.Value.Kind() == KindAny {
		switch v := a.Value.Any().(type) {
		case *logevent.Marker:
			s.st.marker = v
			return
		case error:
			if s.st.thrown == nil {
				s.st.thrown = v
				if s.h.opts.ErrorAttrs != nil {
					s.appendAttrs(s.h.opts.ErrorAttrs(v))
				}
				return
			}
		}
	}
	if a.Value.Kind() == KindGroup {
		attrs := a.Value.Group()
		// Output only non-empty groups.
		if len(attrs) > 0 {
			// Inline a group with an empty key.
			if a.Key != "" {
				s.openGroup(a.Key)
			}
			s.appendAttrs(attrs)
			if a.Key != "" {
				s.closeGroup(a.Key)
			}
		}
		return
	}
	s.value.Reset()
	*s.value = appendValue(a.Value, *s.value)
	if s.st.contextMap == nil {
		s.st.contextMap = make(map[string]string)
	}
	s.st.contextMap[s.key(a.Key)] = s.value.String()
}

func (s *handleState) key(key string) string {
	if s.prefix != nil && len(*s.prefix) > 0 {
		return string(*s.prefix) + key
	}
	return key
}
