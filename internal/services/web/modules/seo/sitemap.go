package seo

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/louisbranch/storefront/internal/services/web/apiclient"
	"github.com/louisbranch/storefront/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/web/routepath"
	"github.com/rs/zerolog/log"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// SitemapGateway lists public catalog pages.
type SitemapGateway interface {
	SitemapEntries(ctx context.Context) ([]storage.SitemapEntry, error)
}

var _ SitemapGateway = (*apiclient.Client)(nil)

// Entry kinds reported by the catalog feed.
const (
	kindProduct  = "product"
	kindCategory = "category"
)

var staticPages = []struct {
	path     string
	priority string
}{
	{path: routepath.Root, priority: "1.0"},
	{path: routepath.Store, priority: "0.9"},
	{path: routepath.About, priority: "0.3"},
	{path: routepath.Contact, priority: "0.3"},
}

// disallowed keeps crawlers out of private and transactional pages.
var disallowed = []string{
	routepath.AdminPrefix,
	routepath.AccountPrefix,
	routepath.OrdersPrefix,
	routepath.CheckoutPrefix,
	routepath.CartPrefix,
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type handlers struct {
	modulehandler.Base
	gateway SitemapGateway
}

// origin is the absolute site root for sitemap links.
func (h handlers) origin(r *http.Request) string {
	if site := h.SiteURL(); site != "" {
		return site
	}
	scheme := "http"
	if h.SchemePolicy().IsHTTPS(r) {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (h handlers) handleSitemap(w http.ResponseWriter, r *http.Request) {
	var entries []storage.SitemapEntry
	if h.gateway != nil {
		var err error
		entries, err = h.gateway.SitemapEntries(r.Context())
		if err != nil {
			// Static pages still go out when the catalog is unreachable.
			log.Ctx(r.Context()).Warn().Err(err).Msg("sitemap entries unavailable")
		}
	}
	set := buildSitemap(h.origin(r), entries)

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml.Header))
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("encode sitemap")
	}
}

func buildSitemap(origin string, entries []storage.SitemapEntry) urlSet {
	origin = strings.TrimRight(origin, "/")
	set := urlSet{XMLNS: sitemapNS}
	for _, page := range staticPages {
		set.URLs = append(set.URLs, urlEntry{Loc: origin + page.path, ChangeFreq: "daily", Priority: page.priority})
	}
	for _, entry := range entries {
		slug := strings.TrimSpace(entry.Slug)
		if slug == "" {
			continue
		}
		var loc, priority string
		switch entry.Kind {
		case kindProduct:
			loc, priority = routepath.Product(slug), "0.8"
		case kindCategory:
			loc, priority = routepath.Store+"?"+url.Values{"category": {slug}}.Encode(), "0.6"
		default:
			continue
		}
		set.URLs = append(set.URLs, urlEntry{
			Loc:        origin + loc,
			LastMod:    lastMod(entry.UpdatedAt),
			ChangeFreq: "weekly",
			Priority:   priority,
		})
	}
	return set
}

func lastMod(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

func (h handlers) handleRobots(w http.ResponseWriter, r *http.Request) {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	for _, path := range disallowed {
		b.WriteString("Disallow: " + path + "\n")
	}
	b.WriteString("\nSitemap: " + h.origin(r) + routepath.Sitemap + "\n")

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(b.String()))
}
