package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/powerman/loglayout"
	"github.com/powerman/loglayout/logevent"
	"github.com/powerman/loglayout/pattern"
)

func main() {
	selector, err := pattern.NewLevelSelector(nil, []pattern.PatternMatch{
		{Key: "ERROR", Pattern: "%d{HH:mm:ss.SSS} %highlight{%-5p} %c{1.} [%X{user}] %m%n%xEx{short}"},
	}, "%d{HH:mm:ss.SSS} %highlight{%-5p} %c{1.} [%X{user}] %m%n", pattern.ParseOptions{NoConsoleNoAnsi: true})
	if err != nil {
		panic(err)
	}
	opts := loglayout.DefaultPatternLayoutOptions()
	opts.Selector = selector
	layout, err := loglayout.NewPatternLayout(opts)
	if err != nil {
		panic(err)
	}
	slog.SetDefault(slog.New(loglayout.NewHandler(os.Stdout, layout, &loglayout.HandlerOptions{
		LoggerName: "org.example.shop.Checkout",
		ThreadName: "main",
	})))

	ctx := loglayout.ContextWith(context.Background(), "user", "alice")
	slog.InfoContext(ctx, "User login attempt", slog.String("ip", "192.168.1.1"))

	audit := logevent.NewMarker("AUDIT")
	slog.ErrorContext(ctx, "Database connection failed",
		loglayout.Marker(audit),
		slog.Any("error", loglayout.NewError(errors.New("connection timeout"), "db", "orders")),
	)

	syslog, err := loglayout.New(loglayout.KindRFC5424, map[string]any{
		"appName":        "shop",
		"mdcIncludes":    "user",
		"includeNewLine": true,
	})
	if err != nil {
		panic(err)
	}
	slog.New(loglayout.NewHandler(os.Stdout, syslog, nil)).InfoContext(ctx, "Order placed")
}
