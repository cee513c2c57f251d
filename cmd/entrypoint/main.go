// Package main runs the storefront API and web site in one container.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/storefront/internal/platform/config"
	"github.com/louisbranch/storefront/internal/platform/logging"
	"github.com/louisbranch/storefront/internal/tools/supervisor"
)

func main() {
	config.ExitIf(logging.SetupFromEnv("storefront-entrypoint"), "configure logging")
	cfg, err := supervisor.LoadConfig()
	config.ExitIf(err, "load config")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = supervisor.Run(ctx, cfg.Processes(), cfg.ShutdownTimeout)
	var exitErr *supervisor.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code())
	}
	config.ExitIf(err, "supervise")
}
