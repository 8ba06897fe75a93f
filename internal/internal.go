// Package internal contains slog handler machinery which builds log events.
package internal

import (
	"log/slog"
)

type (
	Attr     = slog.Attr
	Handler  = slog.Handler
	Level    = slog.Level
	LevelVar = slog.LevelVar
	Leveler  = slog.Leveler
	Record   = slog.Record
	Value    = slog.Value
)

const (
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

const (
	KindAny       = slog.KindAny
	KindBool      = slog.KindBool
	KindDuration  = slog.KindDuration
	KindFloat64   = slog.KindFloat64
	KindInt64     = slog.KindInt64
	KindString    = slog.KindString
	KindTime      = slog.KindTime
	KindUint64    = slog.KindUint64
	KindGroup     = slog.KindGroup
	KindLogValuer = slog.KindLogValuer
)

var (
	Any        = slog.Any
	Group      = slog.Group
	GroupValue = slog.GroupValue
	Int        = slog.Int
	New        = slog.New
	NewRecord  = slog.NewRecord
	String     = slog.String
	Time       = slog.Time
)
