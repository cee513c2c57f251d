// Package publicauth serves sign-in, sign-up and sign-out.
package publicauth

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/web/module"
	"github.com/louisbranch/storefront/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/web/routepath"
)

// Module provides public auth routes.
type Module struct {
	gateway AuthGateway
	deps    module.Dependencies
}

// New returns a public auth module. A nil gateway serves unavailable pages.
func New(gateway AuthGateway, deps module.Dependencies) Module {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return Module{gateway: gateway, deps: deps}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "publicauth" }

// Healthy reports whether the module has an operational gateway.
func (m Module) Healthy() bool {
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires auth route handlers on exact paths.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(newService(m.gateway), modulehandler.NewBase(m.deps))
	registerRoutes(mux, h)
	return module.Mount{
		Paths:   []string{routepath.Login, routepath.Register, routepath.Logout},
		Handler: mux,
	}, nil
}
