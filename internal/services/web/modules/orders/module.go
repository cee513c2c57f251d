// Package orders serves the signed-in customer's order history.
package orders

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/web/module"
	"github.com/louisbranch/storefront/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/web/routepath"
)

// Module provides order history routes.
type Module struct {
	gateway OrderGateway
	deps    module.Dependencies
}

// New returns an orders module. A nil gateway serves unavailable pages.
func New(gateway OrderGateway, deps module.Dependencies) Module {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return Module{gateway: gateway, deps: deps}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "orders" }

// Healthy reports whether the module has an operational gateway.
func (m Module) Healthy() bool {
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires order history handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(m.gateway, modulehandler.NewBase(m.deps))
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.OrdersPrefix, Paths: []string{routepath.Orders}, Handler: mux}, nil
}
