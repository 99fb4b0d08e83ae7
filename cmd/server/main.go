// Package main runs the merit bot HTTP server until SIGINT or SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/garyellow/merit-linebot-go/internal/app"
	"github.com/garyellow/merit-linebot-go/internal/buildinfo"
	"github.com/garyellow/merit-linebot-go/internal/config"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s %s: %v\n", app.ServiceName, buildinfo.Release(), err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	return application.Run(ctx)
}
