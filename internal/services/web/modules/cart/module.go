// Package cart serves the cookie-backed shopping cart.
package cart

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/web/module"
	"github.com/louisbranch/storefront/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/web/routepath"
)

// Module provides cart routes.
type Module struct {
	gateway CartGateway
	deps    module.Dependencies
}

// New returns a cart module. A nil gateway serves unavailable pages.
func New(gateway CartGateway, deps module.Dependencies) Module {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return Module{gateway: gateway, deps: deps}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "cart" }

// Healthy reports whether the module has an operational gateway.
func (m Module) Healthy() bool {
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires cart route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(m.gateway, modulehandler.NewBase(m.deps))
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.CartPrefix, Paths: []string{routepath.Cart}, Handler: mux}, nil
}
