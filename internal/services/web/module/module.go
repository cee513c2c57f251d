// Package module defines the contract every web feature module implements.
package module

import (
	"context"
	"net/http"

	"github.com/louisbranch/storefront/internal/services/api/access"
	"github.com/louisbranch/storefront/internal/services/web/platform/requestmeta"
)

// Viewer is the signed-in state shown in page chrome.
type Viewer struct {
	SignedIn    bool
	UserID      string
	Email       string
	DisplayName string
	Role        string
}

// IsStaff reports whether the viewer may use the admin console.
func (v Viewer) IsStaff() bool {
	return v.SignedIn && access.IsStaff(access.Role(v.Role))
}

// Shop is the store identity shown in page chrome.
type Shop struct {
	Name        string
	Description string
	Currency    string
	CartCount   int
}

// ResolveViewer resolves viewer chrome for a request.
type ResolveViewer func(*http.Request) Viewer

// ResolveShop resolves store chrome for a request.
type ResolveShop func(*http.Request) Shop

// Dependencies carries the request-scoped resolvers shared by modules.
type Dependencies struct {
	ResolveViewer ResolveViewer
	ResolveShop   ResolveShop
	// SchemePolicy decides Secure cookies and same-origin checks.
	SchemePolicy requestmeta.SchemePolicy
	// SiteURL is the public origin used for canonical links, without a
	// trailing slash. Empty disables canonical links.
	SiteURL string
	// ShopChanged drops cached store chrome after settings change. Nil is a
	// no-op.
	ShopChanged func(context.Context)
}

// Mount is a module's mounted HTTP surface: a subtree Prefix ending in "/"
// and, optionally, exact Paths served by the same handler.
type Mount struct {
	Prefix  string
	Paths   []string
	Handler http.Handler
}

// Module is one feature area of the web service.
type Module interface {
	ID() string
	Mount() (Mount, error)
}
