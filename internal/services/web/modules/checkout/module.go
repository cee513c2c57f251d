// Package checkout turns the cookie cart into an order.
package checkout

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/web/module"
	"github.com/louisbranch/storefront/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/web/routepath"
)

// Module provides checkout routes.
type Module struct {
	gateway CheckoutGateway
	deps    module.Dependencies
}

// New returns a checkout module. A nil gateway serves unavailable pages.
func New(gateway CheckoutGateway, deps module.Dependencies) Module {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return Module{gateway: gateway, deps: deps}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "checkout" }

// Healthy reports whether the module has an operational gateway.
func (m Module) Healthy() bool {
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires checkout route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(newService(m.gateway), modulehandler.NewBase(m.deps))
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.CheckoutPrefix, Paths: []string{routepath.Checkout}, Handler: mux}, nil
}
