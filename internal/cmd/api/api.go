// Package api parses api command flags and launches the API runtime.
package api

import (
	"context"
	"errors"
	"flag"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/storefront/internal/platform/cmd"
	apiapp "github.com/louisbranch/storefront/internal/services/api/app"
)

// Config holds api command configuration.
type Config struct {
	Addr              string        `env:"STOREFRONT_API_ADDR" envDefault:":8081"`
	DBPath            string        `env:"STOREFRONT_API_DB_PATH" envDefault:"data/storefront.db"`
	JWTSecret         string        `env:"STOREFRONT_JWT_SECRET"`
	JWTTTL            time.Duration `env:"STOREFRONT_JWT_TTL" envDefault:"24h"`
	RedisAddr         string        `env:"STOREFRONT_REDIS_ADDR"`
	CacheTTL          time.Duration `env:"STOREFRONT_CACHE_TTL" envDefault:"5m"`
	WebOrigin         string        `env:"STOREFRONT_WEB_ORIGIN" envDefault:"http://localhost:8080"`
	TrustForwardedFor bool          `env:"STOREFRONT_TRUST_FORWARDED_PROTO" envDefault:"false"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The API HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The SQLite database path")
	fs.DurationVar(&cfg.JWTTTL, "jwt-ttl", cfg.JWTTTL, "The access token lifetime")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "The Redis address for the catalog cache (empty uses memory)")
	fs.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "The catalog cache TTL")
	fs.StringVar(&cfg.WebOrigin, "web-origin", cfg.WebOrigin, "The browser origin allowed by CORS")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return Config{}, errors.New("STOREFRONT_JWT_SECRET is required")
	}
	return cfg, nil
}

// Run starts the API runtime.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceAPI, func(ctx context.Context) error {
		return apiapp.Run(ctx, apiapp.RuntimeConfig{
			Addr:              cfg.Addr,
			DBPath:            cfg.DBPath,
			JWTSecret:         cfg.JWTSecret,
			JWTTTL:            cfg.JWTTTL,
			RedisAddr:         cfg.RedisAddr,
			CacheTTL:          cfg.CacheTTL,
			WebOrigin:         cfg.WebOrigin,
			TrustForwardedFor: cfg.TrustForwardedFor,
		})
	})
}
