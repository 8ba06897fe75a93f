package loglayout

import (
	"context"
	"io"
	"log/slog"

	"github.com/powerman/loglayout/encode"
	"github.com/powerman/loglayout/internal"
	"github.com/powerman/loglayout/internal/status"
	"github.com/powerman/loglayout/logevent"
)

// HandlerOptions contains options for NewHandler.
type HandlerOptions struct {
	// Level reports the minimum record level that will be logged.
	// The handler discards records with lower levels.
	// If Level is nil, the handler assumes LevelInfo.
	Level slog.Leveler

	// ReplaceAttr is called to rewrite each non-group attribute before it is
	// added to the event. Built-in record fields (time, level, message and
	// source) are not passed to it.
	// If ReplaceAttr returns a zero Attr, the attribute is discarded.
	ReplaceAttr func(groups []string, a slog.Attr) slog.Attr

	// LoggerName is used as Event.LoggerName.
	LoggerName string
	// ThreadName is used as Event.ThreadName.
	ThreadName string

	// BufferSize of the destination. Default: encode.DefaultBufferSize.
	BufferSize int
}

// Handler is a slog.Handler which renders records with a Layout.
//
// Attributes become the context map of the event, with keys inside groups
// prefixed by group names separated by '.'. The first attribute holding
// an error becomes Event.Thrown, and attributes attached to it by NewError
// are added to the context map. An attribute holding *logevent.Marker
// becomes Event.Marker. Context map and stack carried by the context
// (see ContextWith and ContextPush) are added too.
//
// Event.Source is set only if the layout requires location.
type Handler struct {
	*internal.EventHandler
}

var _ slog.Handler = Handler{}

// NewHandler creates a [Handler] that writes events rendered by layout to w.
// Layout header is written immediately. If opts is nil, the default options are used.
func NewHandler(w io.Writer, layout Layout, opts *HandlerOptions) Handler {
	if opts == nil {
		opts = &HandlerOptions{}
	}
	size := opts.BufferSize
	if size <= 0 {
		size = encode.DefaultBufferSize
	}
	wd := encode.NewWriterDestination(w, size)
	dst := encode.NewLockingDestination(wd)
	if header := layout.Header(); len(header) > 0 {
		err := dst.Do(func(d encode.Destination) error {
			err := encode.WriteTo(d, header)
			if err == nil {
				err = wd.Flush()
			}
			return err
		})
		if err != nil {
			status.Error("failed to write layout header", "err", err)
		}
	}
	return Handler{internal.NewEventHandler(internal.EventHandlerOptions{
		Level:       opts.Level,
		ReplaceAttr: opts.ReplaceAttr,
		AddSource:   layout.RequiresLocation(),
		LoggerName:  opts.LoggerName,
		ThreadName:  opts.ThreadName,
		ErrorAttrs:  getAllAttrs,
		FromContext: eventFromContext,
		Emit: func(_ context.Context, e *logevent.Event) error {
			return dst.Do(func(d encode.Destination) error {
				err := layout.Encode(e, d)
				if ferr := wd.Flush(); err == nil {
					err = ferr
				}
				return err
			})
		},
	})}
}

func (h Handler) WithAttrs(as []slog.Attr) slog.Handler {
	return Handler{h.EventHandler.WithAttrs(as).(*internal.EventHandler)}
}

func (h Handler) WithGroup(name string) slog.Handler {
	return Handler{h.EventHandler.WithGroup(name).(*internal.EventHandler)}
}
