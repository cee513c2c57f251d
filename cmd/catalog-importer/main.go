package main

import (
	"context"
	"flag"
	"os"

	"github.com/louisbranch/storefront/internal/platform/config"
	productimporter "github.com/louisbranch/storefront/internal/tools/importer/products"
)

func main() {
	cfg, err := productimporter.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	if err := productimporter.Run(context.Background(), cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
