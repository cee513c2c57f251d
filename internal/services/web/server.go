// Package web hosts the browser-facing storefront service.
package web

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
	"github.com/louisbranch/storefront/internal/platform/timeouts"
	"github.com/louisbranch/storefront/internal/services/web/apiclient"
	webapp "github.com/louisbranch/storefront/internal/services/web/app"
	"github.com/louisbranch/storefront/internal/services/web/module"
	"github.com/louisbranch/storefront/internal/services/web/modules"
	"github.com/louisbranch/storefront/internal/services/web/platform/httpx"
	"github.com/louisbranch/storefront/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/storefront/internal/services/web/routepath"
	webstatic "github.com/louisbranch/storefront/internal/services/web/static"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ServiceName labels metrics and spans emitted by the web service.
const ServiceName = "storefront-web"

const defaultShopCacheTTL = time.Minute

// Config defines startup inputs for the web service.
type Config struct {
	Addr string
	// APIURL is the API root including the /api prefix.
	APIURL string
	// SiteURL is the public origin used for canonical links and the
	// sitemap. Empty falls back to the request host.
	SiteURL             string
	TrustForwardedProto bool
	APITimeout          time.Duration
	ShopCacheTTL        time.Duration
	// Transport overrides the API client's round tripper.
	Transport http.RoundTripper
	Metrics   *metrics.Registry
}

type healthReporter interface {
	Healthy() bool
}

// NewHandler builds the root handler from the default module registry.
func NewHandler(cfg Config) (http.Handler, error) {
	reg := cfg.Metrics
	if reg == nil {
		reg = metrics.New()
	}
	client, err := apiclient.New(apiclient.Config{
		BaseURL:   cfg.APIURL,
		Timeout:   cfg.APITimeout,
		Transport: cfg.Transport,
		Metrics:   reg,
	})
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}
	ttl := cfg.ShopCacheTTL
	if ttl <= 0 {
		ttl = defaultShopCacheTTL
	}
	principal := newPrincipalResolver(client, cache.NewMemory(ttl), ttl, reg)
	policy := requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto}
	deps := module.Dependencies{
		ResolveViewer: principal.resolveViewer,
		ResolveShop:   principal.resolveShop,
		ShopChanged:   principal.invalidateShop,
		SchemePolicy:  policy,
		SiteURL:       strings.TrimRight(strings.TrimSpace(cfg.SiteURL), "/"),
	}

	public := modules.DefaultPublicModules(client, deps)
	protected := modules.DefaultProtectedModules(client, deps)
	staff := modules.DefaultStaffModules(client, deps)
	base := modulehandler.NewBase(deps)
	h, err := webapp.Composer{}.Compose(webapp.ComposeInput{
		Viewer:           principal.resolveViewer,
		PublicModules:    public,
		ProtectedModules: protected,
		StaffModules:     staff,
		SchemePolicy:     policy,
		Forbidden: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			base.WriteForbidden(w, r)
		}),
	})
	if err != nil {
		return nil, err
	}

	all := append(append(append([]module.Module{}, public...), protected...), staff...)
	rootMux := http.NewServeMux()
	rootMux.Handle(routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(webstatic.FS))))
	rootMux.Handle(http.MethodGet+" "+routepath.Health, healthHandler(client, all))
	rootMux.Handle(http.MethodGet+" /metrics", reg.Handler())
	rootMux.Handle("/", h)

	handler := httpx.Chain(rootMux,
		httpx.RecoverPanic(),
		httpx.RequestID(log.Logger),
		withRequestPrincipalState,
		httpx.AccessLog(reg, ServiceName),
	)
	return otelhttp.NewHandler(handler, ServiceName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return !strings.HasPrefix(r.URL.Path, routepath.StaticPrefix) && r.URL.Path != routepath.Health
		}),
	), nil
}

type healthStatus struct {
	Status  string          `json:"status"`
	API     string          `json:"api"`
	Modules map[string]bool `json:"modules"`
}

// healthHandler reports module availability and the API breaker. An open
// breaker marks the service unavailable.
func healthHandler(client *apiclient.Client, mods []module.Module) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := healthStatus{Status: "ok", Modules: make(map[string]bool, len(mods))}
		for _, m := range mods {
			healthy := true
			if reporter, ok := m.(healthReporter); ok {
				healthy = reporter.Healthy()
			}
			status.Modules[m.ID()] = healthy
		}
		code := http.StatusOK
		state := client.BreakerState()
		status.API = state.String()
		if state == gobreaker.StateOpen {
			status.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
		if err := httpx.WriteJSON(w, code, status); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("write health")
		}
	})
}

// Run listens on cfg.Addr and serves until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
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

// Serve serves the web service on listener until ctx is canceled, then
// drains in-flight requests.
func Serve(ctx context.Context, listener net.Listener, cfg Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if listener == nil {
		return errors.New("listener is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		_ = listener.Close()
		return fmt.Errorf("compose web handler: %w", err)
	}

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()
	log.Info().Str("addr", listener.Addr().String()).Msg("web listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown web http server: %w", err)
		}
		if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve web http: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve web http: %w", err)
	}
}
