// Package seo serves crawler files: the sitemap and robots.txt.
package seo

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/web/module"
	"github.com/louisbranch/storefront/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/web/routepath"
)

// Module provides /sitemap.xml and /robots.txt.
type Module struct {
	gateway SitemapGateway
	deps    module.Dependencies
}

// New returns an seo module. A nil gateway serves a sitemap of static
// pages only.
func New(gateway SitemapGateway, deps module.Dependencies) Module {
	return Module{gateway: gateway, deps: deps}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "seo" }

// Healthy reports whether catalog pages can be listed.
func (m Module) Healthy() bool { return m.gateway != nil }

// Mount wires crawler routes.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{Base: modulehandler.NewBase(m.deps), gateway: m.gateway}
	mux.HandleFunc(http.MethodGet+" "+routepath.Sitemap, h.handleSitemap)
	mux.HandleFunc(http.MethodGet+" "+routepath.Robots, h.handleRobots)
	return module.Mount{Paths: []string{routepath.Sitemap, routepath.Robots}, Handler: mux}, nil
}
