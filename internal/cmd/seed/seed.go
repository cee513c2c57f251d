// Package seed parses seed command flags and runs the database seeder.
package seed

import (
	"context"
	"flag"
	"io"

	entrypoint "github.com/louisbranch/storefront/internal/platform/cmd"
	"github.com/louisbranch/storefront/internal/tools/seed"
)

// Config holds seed command configuration.
type Config struct {
	DBPath        string `env:"STOREFRONT_API_DB_PATH" envDefault:"data/storefront.db"`
	AdminEmail    string `env:"STOREFRONT_SEED_ADMIN_EMAIL" envDefault:"admin@storefront.local"`
	AdminPassword string `env:"STOREFRONT_SEED_ADMIN_PASSWORD"`
	Generate      int
	Seed          uint64
	Verbose       bool
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The SQLite database path")
	fs.StringVar(&cfg.AdminEmail, "admin-email", cfg.AdminEmail, "Email of the superadmin account to create")
	fs.StringVar(&cfg.AdminPassword, "admin-password", cfg.AdminPassword, "Password for a newly created superadmin")
	fs.IntVar(&cfg.Generate, "generate", 0, "Number of random products to add on top of the fixtures")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "Random seed for generated products (0 = random)")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose output")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the seeder.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return seed.Run(ctx, seed.Config{
		DBPath:        cfg.DBPath,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		Generate:      cfg.Generate,
		Seed:          cfg.Seed,
		Verbose:       cfg.Verbose,
	}, out)
}
