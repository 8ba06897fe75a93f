package loglayout_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/powerman/check"

	"github.com/powerman/loglayout"
)

func TestContextWith(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	ctx := context.Background()
	t.Nil(loglayout.ContextMap(ctx))

	ctx1 := loglayout.ContextWith(ctx, "user", "alice", slog.Group("req", "id", 7, slog.Group("", "inline", true)))
	ctx2 := loglayout.ContextWith(ctx1, "user", "bob", "n", 1.5)

	t.DeepEqual(loglayout.ContextMap(ctx1), map[string]string{
		"user":       "alice",
		"req.id":     "7",
		"req.inline": "true",
	})
	t.DeepEqual(loglayout.ContextMap(ctx2), map[string]string{
		"user":       "bob",
		"req.id":     "7",
		"req.inline": "true",
		"n":          "1.5",
	})
}

func TestContextPush(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	ctx := context.Background()
	t.Nil(loglayout.ContextStack(ctx))

	ctx1 := loglayout.ContextPush(ctx, "a")
	ctx2 := loglayout.ContextPush(ctx1, "b", "c")
	ctx3 := loglayout.ContextPush(ctx1, "d")

	t.DeepEqual(loglayout.ContextStack(ctx1), []string{"a"})
	t.DeepEqual(loglayout.ContextStack(ctx2), []string{"a", "b", "c"})
	t.DeepEqual(loglayout.ContextStack(ctx3), []string{"a", "d"})
}
