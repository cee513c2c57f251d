// Package products imports a product CSV file into the storefront database.
package products

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/storefront/internal/platform/requestctx"
	"github.com/louisbranch/storefront/internal/services/api/access"
	"github.com/louisbranch/storefront/internal/services/api/catalog"
	"github.com/louisbranch/storefront/internal/services/api/storage/sqlite"
)

// Config holds importer configuration.
type Config struct {
	File   string
	DBPath string
	// JSON prints the full import summary as JSON instead of text.
	JSON bool
	// Strict turns any failed row into a command error.
	Strict bool
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{DBPath: filepath.Join("data", "storefront.db")}

	fs.StringVar(&cfg.File, "file", "", "product CSV file to import")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "storefront database path")
	fs.BoolVar(&cfg.JSON, "json", false, "print the import summary as JSON")
	fs.BoolVar(&cfg.Strict, "strict", false, "fail when any row is rejected")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.File) == "" {
		return Config{}, errors.New("file is required")
	}
	return cfg, nil
}

// Run imports cfg.File into the database at cfg.DBPath.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}
	if strings.TrimSpace(cfg.File) == "" {
		return errors.New("file is required")
	}

	f, err := os.Open(cfg.File)
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.File, err)
	}
	defer f.Close()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	operator := requestctx.User{ID: "catalog-importer", Role: string(access.RoleAdmin)}
	summary, err := catalog.NewService(store, catalog.Config{}).Import(ctx, operator, f)
	if err != nil {
		return fmt.Errorf("import %s: %w", filepath.Base(cfg.File), err)
	}

	if err := writeSummary(out, summary, cfg.JSON); err != nil {
		return err
	}
	if cfg.Strict && summary.Failed > 0 {
		return fmt.Errorf("%d rows failed", summary.Failed)
	}
	return nil
}

func writeSummary(out io.Writer, summary catalog.ImportSummary, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	fmt.Fprintf(out, "created %d, updated %d, failed %d\n", summary.Created, summary.Updated, summary.Failed)
	for _, result := range summary.Results {
		if result.Status != catalog.ImportFailed {
			continue
		}
		fmt.Fprintf(out, "line %d (%s): %s\n", result.Line, result.Slug, result.Error)
	}
	return nil
}
