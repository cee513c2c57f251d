// Package main starts the storefront web process lifecycle.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	webcmd "github.com/louisbranch/storefront/internal/cmd/web"
	"github.com/louisbranch/storefront/internal/platform/config"
)

func main() {
	cfg, err := webcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	config.ExitIf(err, "parse flags")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.ExitIf(webcmd.Run(ctx, cfg), "failed to serve")
}
