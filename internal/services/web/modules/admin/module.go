// Package admin serves the staff console: catalog, orders, accounts and
// store settings.
package admin

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/web/module"
	"github.com/louisbranch/storefront/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/web/routepath"
)

// Module provides admin console routes. Callers mount it behind a staff
// guard; the API re-checks every role.
type Module struct {
	gateway Gateway
	deps    module.Dependencies
}

// New returns an admin module. A nil gateway serves unavailable pages.
func New(gateway Gateway, deps module.Dependencies) Module {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return Module{gateway: gateway, deps: deps}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "admin" }

// Healthy reports whether the module has an operational gateway.
func (m Module) Healthy() bool {
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires admin route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(newService(m.gateway), modulehandler.NewBase(m.deps), m.deps.ShopChanged)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.AdminPrefix, Paths: []string{routepath.Admin}, Handler: mux}, nil
}
