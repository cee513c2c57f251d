// Package account serves the signed-in customer's profile.
package account

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/web/module"
	"github.com/louisbranch/storefront/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/web/routepath"
)

// Module provides profile routes.
type Module struct {
	gateway ProfileGateway
	deps    module.Dependencies
}

// New returns an account module. A nil gateway serves unavailable pages.
func New(gateway ProfileGateway, deps module.Dependencies) Module {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return Module{gateway: gateway, deps: deps}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "account" }

// Healthy reports whether the module has an operational gateway.
func (m Module) Healthy() bool {
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires profile route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(m.gateway, modulehandler.NewBase(m.deps))
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.AccountPrefix, Paths: []string{routepath.Account}, Handler: mux}, nil
}
