// Package httpapi exposes the storefront services as a JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/platform/metrics"
	"github.com/louisbranch/storefront/internal/platform/ratelimit"
	"github.com/louisbranch/storefront/internal/services/api/auth"
	"github.com/louisbranch/storefront/internal/services/api/catalog"
	"github.com/louisbranch/storefront/internal/services/api/dashboard"
	"github.com/louisbranch/storefront/internal/services/api/orders"
	"github.com/louisbranch/storefront/internal/services/api/profiles"
	"github.com/louisbranch/storefront/internal/services/api/reviews"
	"github.com/louisbranch/storefront/internal/services/api/settings"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ServiceName labels metrics and spans emitted by the API.
const ServiceName = "storefront-api"

// Config wires the API handler to its services.
type Config struct {
	Auth      *auth.Service
	Catalog   *catalog.Service
	Reviews   *reviews.Service
	Orders    *orders.Service
	Profiles  *profiles.Service
	Settings  *settings.Service
	Dashboard *dashboard.Service

	Metrics *metrics.Registry
	// Health reports readiness for /healthz; nil means always healthy.
	Health func(context.Context) error

	WebOrigin         string
	TrustForwardedFor bool
	AuthRateLimit     ratelimit.Config
	OrderRateLimit    ratelimit.Config
}

type api struct {
	auth      *auth.Service
	catalog   *catalog.Service
	reviews   *reviews.Service
	orders    *orders.Service
	profiles  *profiles.Service
	settings  *settings.Service
	dashboard *dashboard.Service

	health         func(context.Context) error
	trustForwarded bool
	authLimiter    *ratelimit.Keyed
	orderLimiter   *ratelimit.Keyed
}

// NewHandler builds the root API handler.
func NewHandler(cfg Config) (http.Handler, error) {
	switch {
	case cfg.Auth == nil:
		return nil, errors.New("auth service is required")
	case cfg.Catalog == nil:
		return nil, errors.New("catalog service is required")
	case cfg.Reviews == nil:
		return nil, errors.New("reviews service is required")
	case cfg.Orders == nil:
		return nil, errors.New("orders service is required")
	case cfg.Profiles == nil:
		return nil, errors.New("profiles service is required")
	case cfg.Settings == nil:
		return nil, errors.New("settings service is required")
	case cfg.Dashboard == nil:
		return nil, errors.New("dashboard service is required")
	}

	a := &api{
		auth:           cfg.Auth,
		catalog:        cfg.Catalog,
		reviews:        cfg.Reviews,
		orders:         cfg.Orders,
		profiles:       cfg.Profiles,
		settings:       cfg.Settings,
		dashboard:      cfg.Dashboard,
		health:         cfg.Health,
		trustForwarded: cfg.TrustForwardedFor,
		authLimiter:    ratelimit.NewKeyed(cfg.AuthRateLimit),
		orderLimiter:   ratelimit.NewKeyed(cfg.OrderRateLimit),
	}

	router := mux.NewRouter()
	router.Use(observeRequests(cfg.Metrics, ServiceName))
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, apperrors.New(apperrors.CodeNotFound, "Route not found"))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, apperrors.Response{
			StatusCode: http.StatusMethodNotAllowed,
			Error:      http.StatusText(http.StatusMethodNotAllowed),
			Message:    "Method not allowed",
			Code:       apperrors.CodeInvalidArgument,
		})
	})

	router.HandleFunc("/healthz", a.handleHealth).Methods(http.MethodGet)
	if cfg.Metrics != nil {
		router.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}
	a.routes(router.PathPrefix("/api").Subrouter())

	var handler http.Handler = router
	handler = accessLog(handler)
	handler = cors(cfg.WebOrigin)(handler)
	handler = recoverPanic(handler)
	handler = withRequestID(handler)
	handler = otelhttp.NewHandler(handler, ServiceName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/healthz" && r.URL.Path != "/metrics"
		}),
	)
	return handler, nil
}

func (a *api) routes(r *mux.Router) {
	get, post, put, del := http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete

	r.HandleFunc("/auth/register", a.rateLimited(a.authLimiter, a.handleRegister)).Methods(post)
	r.HandleFunc("/auth/login", a.rateLimited(a.authLimiter, a.handleLogin)).Methods(post)
	r.HandleFunc("/auth/me", a.requireUser(a.handleMe)).Methods(get)

	r.HandleFunc("/products", a.handleListProducts).Methods(get)
	r.HandleFunc("/products", a.requireStaff(a.handleCreateProduct)).Methods(post)
	r.HandleFunc("/products/featured", a.handleFeatured).Methods(get)
	r.HandleFunc("/products/recent", a.handleRecent).Methods(get)
	r.HandleFunc("/products/drafts", a.requireStaff(a.handleDrafts)).Methods(get)
	r.HandleFunc("/products/admin", a.requireStaff(a.handleListAllProducts)).Methods(get)
	r.HandleFunc("/products/admin/{id}", a.requireStaff(a.handleProductByID)).Methods(get)
	r.HandleFunc("/products/import", a.requireStaff(a.handleImport)).Methods(post)
	r.HandleFunc("/products/import/template", a.handleImportTemplate).Methods(get)
	r.HandleFunc("/products/{id}/reviews", a.handleListReviews).Methods(get)
	r.HandleFunc("/products/{id}/reviews", a.requireUser(a.handleCreateReview)).Methods(post)
	r.HandleFunc("/products/{slug}", a.handleProductBySlug).Methods(get)
	r.HandleFunc("/products/{id}", a.requireStaff(a.handleUpdateProduct)).Methods(put)
	r.HandleFunc("/products/{id}", a.requireStaff(a.handleDeleteProduct)).Methods(del)

	r.HandleFunc("/categories", a.handleCategories).Methods(get)
	r.HandleFunc("/categories", a.requireStaff(a.handleCreateCategory)).Methods(post)
	r.HandleFunc("/categories/all", a.requireStaff(a.handleAllCategories)).Methods(get)
	r.HandleFunc("/categories/{slug}", a.handleCategoryBySlug).Methods(get)
	r.HandleFunc("/categories/{id}", a.requireStaff(a.handleUpdateCategory)).Methods(put)

	r.HandleFunc("/orders", a.rateLimited(a.orderLimiter, a.optionalUser(a.handleCreateOrder))).Methods(post)
	r.HandleFunc("/orders", a.requireStaff(a.handleListOrders)).Methods(get)
	r.HandleFunc("/orders/me", a.requireUser(a.handleMyOrders)).Methods(get)
	r.HandleFunc("/orders/{id}", a.requireUser(a.handleGetOrder)).Methods(get)
	r.HandleFunc("/orders/{id}", a.requireStaff(a.handleUpdateOrder)).Methods(put)
	r.HandleFunc("/orders/{id}", a.requireStaff(a.handleDeleteOrder)).Methods(del)

	r.HandleFunc("/profiles/me", a.requireUser(a.handleMe)).Methods(get)
	r.HandleFunc("/profiles/me", a.requireUser(a.handleUpdateMe)).Methods(put)
	r.HandleFunc("/profiles", a.requireStaff(a.handleListProfiles)).Methods(get)
	r.HandleFunc("/profiles/{id}", a.requireUser(a.handleGetProfile)).Methods(get)
	r.HandleFunc("/profiles/{id}", a.requireUser(a.handleUpdateProfile)).Methods(put)
	r.HandleFunc("/profiles/{id}", a.requireUser(a.handleDeleteProfile)).Methods(del)

	r.HandleFunc("/settings", a.handleGetSettings).Methods(get)
	r.HandleFunc("/settings", a.requireStaff(a.handleUpdateSettings)).Methods(put)

	r.HandleFunc("/admin/stats", a.requireStaff(a.handleStats)).Methods(get)
	r.HandleFunc("/sitemap", a.handleSitemap).Methods(get)
}

func (a *api) handleHealth(w http.ResponseWriter, r *http.Request) {
	if a.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.health(ctx); err != nil {
			log.Ctx(r.Context()).Warn().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
