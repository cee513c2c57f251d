// Package main seeds a local storefront database with an admin account,
// demo products and default settings.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	seedcmd "github.com/louisbranch/storefront/internal/cmd/seed"
	"github.com/louisbranch/storefront/internal/platform/config"
)

func main() {
	cfg, err := seedcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	config.ExitIf(err, "parse flags")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.ExitIf(seedcmd.Run(ctx, cfg, os.Stdout), "seed failed")
}
