// Package modulehandler provides a composable base for web module handlers.
//
// Every storefront module shares the same request plumbing: viewer and store
// resolution, API call context, flash notices, page rendering and error
// pages. Modules embed Base rather than duplicating it.
package modulehandler

import (
	"context"
	"net/http"
	"strings"

	"github.com/louisbranch/storefront/internal/services/web/apiclient"
	"github.com/louisbranch/storefront/internal/services/web/module"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
	flashnotice "github.com/louisbranch/storefront/internal/services/web/platform/flash"
	"github.com/louisbranch/storefront/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/storefront/internal/services/web/platform/i18n"
	"github.com/louisbranch/storefront/internal/services/web/platform/pagerender"
	"github.com/louisbranch/storefront/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/storefront/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/storefront/internal/services/web/platform/weberror"
	"github.com/louisbranch/storefront/internal/services/web/routepath"
)

// Base carries the shared request-scoped resolvers used by module handlers.
type Base struct {
	deps module.Dependencies
}

// NewBase builds a handler base from module dependencies.
func NewBase(deps module.Dependencies) Base {
	return Base{deps: deps}
}

// NewTestBase builds a handler base with no-op resolvers suitable for tests
// that do not exercise viewer or store state.
func NewTestBase() Base {
	return Base{deps: module.Dependencies{
		ResolveViewer: func(*http.Request) module.Viewer { return module.Viewer{} },
		ResolveShop:   func(*http.Request) module.Shop { return module.Shop{} },
	}}
}

// ResolveRequestViewer resolves chrome viewer state for a request.
func (b Base) ResolveRequestViewer(r *http.Request) module.Viewer {
	if b.deps.ResolveViewer == nil {
		return module.Viewer{}
	}
	return b.deps.ResolveViewer(r)
}

// ResolveRequestShop resolves store chrome for a request.
func (b Base) ResolveRequestShop(r *http.Request) module.Shop {
	if b.deps.ResolveShop == nil {
		return module.Shop{}
	}
	return b.deps.ResolveShop(r)
}

// SchemePolicy returns the cookie and origin policy.
func (b Base) SchemePolicy() requestmeta.SchemePolicy {
	return b.deps.SchemePolicy
}

// SiteURL returns the public origin for absolute links.
func (b Base) SiteURL() string {
	return strings.TrimRight(strings.TrimSpace(b.deps.SiteURL), "/")
}

// RequestContext returns the request context carrying the visitor's API
// token, if any.
func (b Base) RequestContext(r *http.Request) context.Context {
	ctx := httpx.RequestContext(r)
	if token, ok := sessioncookie.Read(r); ok {
		return apiclient.WithToken(ctx, token)
	}
	return ctx
}

// Localizer resolves the request localizer.
func (b Base) Localizer(w http.ResponseWriter, r *http.Request) webi18n.Localizer {
	loc, _ := webi18n.ResolveLocalizer(w, r)
	return loc
}

// Notify queues a notice for the next full page render.
func (b Base) Notify(w http.ResponseWriter, r *http.Request, notice flashnotice.Notice) {
	flashnotice.Writer{Policy: b.deps.SchemePolicy}.Write(w, r, notice)
}

// Redirect writes an HTMX-aware redirect.
func (b Base) Redirect(w http.ResponseWriter, r *http.Request, location string) {
	httpx.WriteRedirect(w, r, location)
}

// WritePage renders a page (HTMX-aware) with the given title and body.
func (b Base) WritePage(w http.ResponseWriter, r *http.Request, page pagerender.Page) {
	if err := pagerender.WritePage(w, r, b, page); err != nil {
		b.WriteError(w, r, err)
	}
}

// WriteError renders a localized error page. An expired or rejected session
// sends the visitor back to sign in.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if apperrors.KindOf(err) == apperrors.KindUnauthorized && r != nil {
		sessioncookie.Clear(w, r, b.deps.SchemePolicy)
		next := ""
		if r.Method == http.MethodGet && r.URL != nil {
			next = r.URL.RequestURI()
		}
		b.Redirect(w, r, routepath.LoginWithNext(next))
		return
	}
	weberror.WriteModuleError(w, r, err, b)
}

// WriteNotFound renders a 404 error page.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, b)
}

// WriteForbidden renders a 403 error page.
func (b Base) WriteForbidden(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusForbidden, b)
}
