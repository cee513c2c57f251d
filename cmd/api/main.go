// Package main starts the storefront API process lifecycle.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	apicmd "github.com/louisbranch/storefront/internal/cmd/api"
	"github.com/louisbranch/storefront/internal/platform/config"
)

func main() {
	cfg, err := apicmd.ParseConfig(flag.CommandLine, os.Args[1:])
	config.ExitIf(err, "parse flags")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.ExitIf(apicmd.Run(ctx, cfg), "failed to serve")
}
