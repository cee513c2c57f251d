// Package web parses web command flags and launches the storefront site.
package web

import (
	"context"
	"flag"
	"time"

	entrypoint "github.com/louisbranch/storefront/internal/platform/cmd"
	"github.com/louisbranch/storefront/internal/services/web"
)

// Config holds web command configuration.
type Config struct {
	Addr                string        `env:"STOREFRONT_WEB_ADDR" envDefault:":8080"`
	APIURL              string        `env:"STOREFRONT_API_URL" envDefault:"http://localhost:8081/api"`
	SiteURL             string        `env:"STOREFRONT_SITE_URL"`
	TrustForwardedProto bool          `env:"STOREFRONT_TRUST_FORWARDED_PROTO" envDefault:"false"`
	APITimeout          time.Duration `env:"STOREFRONT_API_TIMEOUT" envDefault:"10s"`
	ShopCacheTTL        time.Duration `env:"STOREFRONT_WEB_CACHE_TTL" envDefault:"1m"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The web HTTP listen address")
	fs.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "The API base URL including /api")
	fs.StringVar(&cfg.SiteURL, "site-url", cfg.SiteURL, "The public site origin for canonical links")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Trust X-Forwarded-Proto from a proxy")
	fs.DurationVar(&cfg.APITimeout, "api-timeout", cfg.APITimeout, "The timeout for one API call")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the web runtime.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		return web.Run(ctx, web.Config{
			Addr:                cfg.Addr,
			APIURL:              cfg.APIURL,
			SiteURL:             cfg.SiteURL,
			TrustForwardedProto: cfg.TrustForwardedProto,
			APITimeout:          cfg.APITimeout,
			ShopCacheTTL:        cfg.ShopCacheTTL,
		})
	})
}
