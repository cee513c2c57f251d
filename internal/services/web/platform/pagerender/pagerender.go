// Package pagerender centralizes module page rendering behavior.
package pagerender

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/storefront/internal/services/web/module"
	flashnotice "github.com/louisbranch/storefront/internal/services/web/platform/flash"
	"github.com/louisbranch/storefront/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/storefront/internal/services/web/platform/i18n"
	"github.com/louisbranch/storefront/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/storefront/internal/services/web/templates"
	"golang.org/x/text/language"
)

// RequestResolver resolves viewer and store state from a request.
// This decouples platform rendering from the module-layer Dependencies type.
type RequestResolver interface {
	ResolveRequestViewer(r *http.Request) module.Viewer
	ResolveRequestShop(r *http.Request) module.Shop
	SchemePolicy() requestmeta.SchemePolicy
	SiteURL() string
}

// Page describes a module page response for both full-page and HTMX flows.
type Page struct {
	// Title is the localized page title; the store name is appended.
	Title       string
	Description string
	StatusCode  int
	// StructuredData is emitted as JSON-LD in the document head.
	StructuredData any
	Body           templ.Component
}

// WritePage writes a page inside the storefront shell. HTMX requests get the
// main fragment only.
func WritePage(w http.ResponseWriter, r *http.Request, resolver RequestResolver, page Page) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	body := page.Body
	if body == nil {
		body = templ.NopComponent
	}

	loc, tag := webi18n.ResolveLocalizer(w, r)
	var viewer module.Viewer
	var shop module.Shop
	var policy requestmeta.SchemePolicy
	siteURL := ""
	if resolver != nil {
		viewer = resolver.ResolveRequestViewer(r)
		shop = resolver.ResolveRequestShop(r)
		policy = resolver.SchemePolicy()
		siteURL = resolver.SiteURL()
	}

	data := templates.LayoutData{
		Title:          documentTitle(page.Title, shop.Name),
		Description:    firstNonEmpty(page.Description, shop.Description),
		Canonical:      canonicalURL(siteURL, r),
		Lang:           tag.String(),
		StructuredData: page.StructuredData,
		Chrome: templates.Chrome{
			SiteName:    shop.Name,
			SignedIn:    viewer.SignedIn,
			IsStaff:     viewer.IsStaff(),
			DisplayName: viewer.DisplayName,
			CartCount:   shop.CartCount,
			Languages:   languageLinks(r, tag),
		},
	}

	ctx := templates.WithRenderContext(httpx.RequestContext(r), templates.RenderContext{
		Localizer: loc,
		Lang:      tag,
		Currency:  shop.Currency,
	})
	var shell templ.Component
	if httpx.IsHTMXRequest(r) {
		// Notices stay queued until the next full page load.
		shell = templates.Fragment(data)
	} else {
		data.Notice = resolveNotice(w, r, flashnotice.Writer{Policy: policy}, loc)
		shell = templates.Layout(data)
	}
	var buf bytes.Buffer
	if err := shell.Render(templ.WithChildren(ctx, body), &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
	return nil
}

func resolveNotice(w http.ResponseWriter, r *http.Request, flash flashnotice.Writer, loc webi18n.Localizer) *templates.Notice {
	notice, ok := flash.ReadAndClear(w, r)
	if !ok {
		return nil
	}
	message := strings.TrimSpace(loc.Sprintf(notice.Key))
	if message == "" {
		message = strings.TrimSpace(notice.Key)
	}
	if message == "" {
		return nil
	}
	return &templates.Notice{
		Kind:    string(notice.Kind),
		Message: message,
	}
}

func languageLinks(r *http.Request, active language.Tag) []templates.LanguageLink {
	options := webi18n.Options(r, active)
	links := make([]templates.LanguageLink, 0, len(options))
	for _, option := range options {
		links = append(links, templates.LanguageLink{Code: option.Code, URL: option.URL, Active: option.Active})
	}
	return links
}

func documentTitle(title, siteName string) string {
	title = strings.TrimSpace(title)
	siteName = strings.TrimSpace(siteName)
	switch {
	case title == "":
		return siteName
	case siteName == "" || title == siteName:
		return title
	default:
		return title + " | " + siteName
	}
}

func canonicalURL(siteURL string, r *http.Request) string {
	siteURL = strings.TrimRight(strings.TrimSpace(siteURL), "/")
	if siteURL == "" || r == nil || r.URL == nil {
		return ""
	}
	return siteURL + r.URL.EscapedPath()
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
