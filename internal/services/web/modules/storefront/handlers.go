package storefront

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/louisbranch/storefront/internal/services/web/platform/cartcookie"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
	flashnotice "github.com/louisbranch/storefront/internal/services/web/platform/flash"
	"github.com/louisbranch/storefront/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/web/platform/pagerender"
	"github.com/louisbranch/storefront/internal/services/web/routepath"
	"github.com/louisbranch/storefront/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	service service
}

func newHandlers(s service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

func (h handlers) handleHome(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.loadHome(h.RequestContext(r))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	var structured any
	if site := h.SiteURL(); site != "" {
		structured = map[string]any{
			"@context": "https://schema.org",
			"@type":    "WebSite",
			"name":     view.SiteName,
			"url":      site + routepath.Root,
			"potentialAction": map[string]any{
				"@type":       "SearchAction",
				"target":      site + routepath.Store + "?search={search_term_string}",
				"query-input": "required name=search_term_string",
			},
		}
	}
	h.WritePage(w, r, pagerender.Page{
		Title:          view.SiteName,
		Description:    view.Description,
		StructuredData: structured,
		Body:           templates.Page("store/home", view),
	})
}

func (h handlers) handleStore(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.loadStore(h.RequestContext(r), r.URL)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	loc := h.Localizer(w, r)
	h.WritePage(w, r, pagerender.Page{
		Title: loc.Sprintf("store.list.title"),
		Body:  templates.Page("store/list", view),
	})
}

func (h handlers) handleProduct(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.PathValue("slug"))
	product, productReviews, err := h.service.loadProduct(h.RequestContext(r), slug)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	viewer := h.ResolveRequestViewer(r)
	view := templates.ProductView{
		Product:    product,
		Reviews:    productReviews,
		Variation1: splitVariations(product.Variation1),
		Variation2: splitVariations(product.Variation2),
		SignedIn:   viewer.SignedIn,
		LoginURL:   routepath.LoginWithNext(routepath.Product(product.Slug)),
		ReviewURL:  routepath.ProductReviews(product.Slug),
	}
	h.WritePage(w, r, pagerender.Page{
		Title:          product.Name,
		Description:    summarize(product.Description),
		StructuredData: h.productStructuredData(r, product),
		Body:           templates.Page("store/product", view),
	})
}

func (h handlers) productStructuredData(r *http.Request, product storage.Product) any {
	site := h.SiteURL()
	if site == "" {
		return nil
	}
	price := product.Price
	if product.IsDiscount && product.DiscountPrice != nil && *product.DiscountPrice > 0 {
		price = *product.DiscountPrice
	}
	availability := "https://schema.org/OutOfStock"
	if product.InStock() {
		availability = "https://schema.org/InStock"
	}
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Product",
		"name":        product.Name,
		"description": product.Description,
		"url":         site + routepath.Product(product.Slug),
		"offers": map[string]any{
			"@type":         "Offer",
			"price":         price,
			"priceCurrency": h.ResolveRequestShop(r).Currency,
			"availability":  availability,
		},
	}
	if product.ImageURL != "" {
		data["image"] = product.ImageURL
	}
	if product.ReviewCount > 0 {
		data["aggregateRating"] = map[string]any{
			"@type":       "AggregateRating",
			"ratingValue": product.Rating,
			"reviewCount": product.ReviewCount,
		}
	}
	return data
}

func (h handlers) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.PathValue("slug"))
	if !h.ResolveRequestViewer(r).SignedIn {
		h.Redirect(w, r, routepath.LoginWithNext(routepath.Product(slug)))
		return
	}
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.E(apperrors.KindInvalidInput, "invalid form"))
		return
	}
	back := routepath.Product(slug) + "#reviews"
	in, err := parseReview(r.PostForm)
	if err == nil {
		err = h.service.createReview(h.RequestContext(r), slug, in)
	}
	switch {
	case err == nil:
		h.Notify(w, r, flashnotice.Success("core.flash.review_added"))
	case apperrors.KindOf(err) == apperrors.KindUnauthorized:
		h.WriteError(w, r, err)
		return
	default:
		key := apperrors.LocalizationKey(err)
		if key == "" {
			key = "error.internal"
		}
		h.Notify(w, r, flashnotice.Error(key))
	}
	h.Redirect(w, r, back)
}

func (h handlers) handleAbout(w http.ResponseWriter, r *http.Request) {
	h.writeInfo(w, r, "store/about", "store.about.title")
}

func (h handlers) handleContact(w http.ResponseWriter, r *http.Request) {
	h.writeInfo(w, r, "store/contact", "store.contact.title")
}

func (h handlers) writeInfo(w http.ResponseWriter, r *http.Request, page, titleKey string) {
	settings, err := h.service.settings(h.RequestContext(r))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WritePage(w, r, pagerender.Page{
		Title: h.Localizer(w, r).Sprintf(titleKey),
		Body:  templates.Page(page, templates.InfoView{Settings: settings}),
	})
}

// handleConfirmation shows a just-placed order from the receipt cookie, or
// from the API for signed-in owners and staff.
func (h handlers) handleConfirmation(w http.ResponseWriter, r *http.Request) {
	orderID := strings.TrimSpace(r.PathValue("orderID"))
	order, ok := cartcookie.ReadReceipt(r, orderID)
	if !ok {
		if !h.ResolveRequestViewer(r).SignedIn {
			h.WriteNotFound(w, r)
			return
		}
		var err error
		order, err = h.service.order(h.RequestContext(r), orderID)
		if err != nil {
			h.WriteError(w, r, err)
			return
		}
	}
	h.WritePage(w, r, pagerender.Page{
		Title: h.Localizer(w, r).Sprintf("store.confirmation.title"),
		Body:  templates.Page("store/confirmation", templates.OrderView{Order: order}),
	})
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}

// summarize trims text to a meta description length on a word boundary.
func summarize(text string) string {
	const limit = 160
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= limit {
		return text
	}
	cut := strings.LastIndex(text[:limit], " ")
	if cut <= 0 {
		cut = limit
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
	}
	return text[:cut] + "…"
}
