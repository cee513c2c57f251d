// Package app wires storage, caches and services into the API process.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/storefront/internal/platform/cache"
	"github.com/louisbranch/storefront/internal/platform/metrics"
	"github.com/louisbranch/storefront/internal/platform/ratelimit"
	"github.com/louisbranch/storefront/internal/platform/timeouts"
	"github.com/louisbranch/storefront/internal/services/api/auth"
	"github.com/louisbranch/storefront/internal/services/api/catalog"
	"github.com/louisbranch/storefront/internal/services/api/dashboard"
	"github.com/louisbranch/storefront/internal/services/api/httpapi"
	"github.com/louisbranch/storefront/internal/services/api/orders"
	"github.com/louisbranch/storefront/internal/services/api/profiles"
	"github.com/louisbranch/storefront/internal/services/api/reviews"
	"github.com/louisbranch/storefront/internal/services/api/settings"
	"github.com/louisbranch/storefront/internal/services/api/storage/sqlite"
	"github.com/rs/zerolog/log"
)

const defaultCacheTTL = 5 * time.Minute

// RuntimeConfig controls API startup and dependency wiring.
type RuntimeConfig struct {
	Addr              string
	DBPath            string
	JWTSecret         string
	JWTTTL            time.Duration
	RedisAddr         string
	CacheTTL          time.Duration
	WebOrigin         string
	TrustForwardedFor bool
	// BcryptCost overrides the password hashing cost; zero keeps the default.
	BcryptCost int
}

// Runtime holds the opened resources behind an API handler.
type Runtime struct {
	Handler http.Handler
	Store   *sqlite.Store
	Metrics *metrics.Registry

	cache cache.Cache
}

// Close releases the runtime's store and cache.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.cache != nil {
		errs = append(errs, r.cache.Close())
	}
	if r.Store != nil {
		errs = append(errs, r.Store.Close())
	}
	return errors.Join(errs...)
}

// Build opens storage and the cache and composes the API handler.
func Build(ctx context.Context, cfg RuntimeConfig) (*Runtime, error) {
	if strings.TrimSpace(cfg.DBPath) == "" {
		return nil, errors.New("database path is required")
	}
	tokens, err := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL, nil)
	if err != nil {
		return nil, err
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	runtime := &Runtime{Store: store, Metrics: metrics.New()}

	cacheCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	backend, err := cache.Open(cacheCtx, strings.TrimSpace(cfg.RedisAddr), cfg.CacheTTL)
	if err != nil {
		_ = runtime.Close()
		return nil, fmt.Errorf("open cache: %w", err)
	}
	runtime.cache = backend

	catalogSvc := catalog.NewService(store, catalog.Config{
		Cache: cache.NewNamespace(backend, catalog.CacheNamespace, cfg.CacheTTL, runtime.Metrics),
	})
	settingsSvc := settings.NewService(store, nil)
	ordersSvc := orders.NewService(store, orders.Config{Policy: settingsSvc, Recorder: runtime.Metrics})

	handler, err := httpapi.NewHandler(httpapi.Config{
		Auth:              auth.NewService(store, tokens, auth.Config{BcryptCost: cfg.BcryptCost}),
		Catalog:           catalogSvc,
		Reviews:           reviews.NewService(store, catalogSvc, nil),
		Orders:            ordersSvc,
		Profiles:          profiles.NewService(store, nil),
		Settings:          settingsSvc,
		Dashboard:         dashboard.NewService(store, ordersSvc),
		Metrics:           runtime.Metrics,
		Health:            store.Ping,
		WebOrigin:         cfg.WebOrigin,
		TrustForwardedFor: cfg.TrustForwardedFor,
		AuthRateLimit:     ratelimit.Config{PerMinute: 10, Burst: 5},
		OrderRateLimit:    ratelimit.Config{PerMinute: 20, Burst: 10},
	})
	if err != nil {
		_ = runtime.Close()
		return nil, fmt.Errorf("compose api handler: %w", err)
	}
	runtime.Handler = handler
	return runtime, nil
}

// Run listens on cfg.Addr and serves the API until ctx is canceled.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return errors.New("http address is required")
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return Serve(ctx, listener, cfg)
}

// Serve serves the API on listener until ctx is canceled, then drains
// in-flight requests and releases resources.
func Serve(ctx context.Context, listener net.Listener, cfg RuntimeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if listener == nil {
		return errors.New("listener is required")
	}
	runtime, err := Build(ctx, cfg)
	if err != nil {
		_ = listener.Close()
		return err
	}
	defer func() {
		if closeErr := runtime.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("close api runtime")
		}
	}()

	server := &http.Server{
		Handler:           runtime.Handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()
	log.Info().Str("addr", listener.Addr().String()).Msg("api listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown api http server: %w", err)
		}
		if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve api http: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve api http: %w", err)
	}
}
