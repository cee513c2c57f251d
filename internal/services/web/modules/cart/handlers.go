package cart

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

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
	gateway CartGateway
}

func newHandlers(gateway CartGateway, base modulehandler.Base) handlers {
	return handlers{Base: base, gateway: gateway}
}

func (h handlers) handleCart(w http.ResponseWriter, r *http.Request) {
	settings, err := h.gateway.Settings(h.RequestContext(r))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WritePage(w, r, pagerender.Page{
		Title: h.Localizer(w, r).Sprintf("store.cart.title"),
		Body:  templates.Page("cart/index", cartView(cartcookie.Read(r), settings)),
	})
}

func (h handlers) handleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.E(apperrors.KindInvalidInput, "invalid form"))
		return
	}
	slug := strings.TrimSpace(r.PostForm.Get("slug"))
	if slug == "" {
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error.api.invalid", "slug is required"))
		return
	}
	product, err := h.gateway.ProductBySlug(h.RequestContext(r), slug)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	qty, _ := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("qty")))
	c := cartcookie.Read(r)
	if err := addProduct(&c, product, qty, r.PostForm.Get("variation1"), r.PostForm.Get("variation2")); err != nil {
		h.notifyError(w, r, err)
		h.Redirect(w, r, routepath.Product(product.Slug))
		return
	}
	if !h.save(w, r, c) {
		h.Redirect(w, r, routepath.Product(product.Slug))
		return
	}
	h.Notify(w, r, flashnotice.Success("core.flash.cart_added"))
	h.Redirect(w, r, routepath.Cart)
}

func (h handlers) handleUpdate(w http.ResponseWriter, r *http.Request) {
	index, ok := h.lineIndex(w, r)
	if !ok {
		return
	}
	qty, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("qty")))
	if err != nil {
		h.Notify(w, r, flashnotice.Error("error.api.invalid"))
		h.Redirect(w, r, routepath.Cart)
		return
	}
	if qty > cartcookie.MaxQty {
		qty = cartcookie.MaxQty
	}
	c := cartcookie.Read(r)
	if c.SetQty(index, qty) && h.save(w, r, c) {
		key := "core.flash.cart_updated"
		if qty <= 0 {
			key = "core.flash.cart_removed"
		}
		h.Notify(w, r, flashnotice.Success(key))
	}
	h.Redirect(w, r, routepath.Cart)
}

func (h handlers) handleRemove(w http.ResponseWriter, r *http.Request) {
	index, ok := h.lineIndex(w, r)
	if !ok {
		return
	}
	c := cartcookie.Read(r)
	if c.Remove(index) && h.save(w, r, c) {
		h.Notify(w, r, flashnotice.Success("core.flash.cart_removed"))
	}
	h.Redirect(w, r, routepath.Cart)
}

func (h handlers) handleClear(w http.ResponseWriter, r *http.Request) {
	cartcookie.Clear(w, r, h.SchemePolicy())
	h.Notify(w, r, flashnotice.Info("core.flash.cart_cleared"))
	h.Redirect(w, r, routepath.Cart)
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}

// lineIndex parses the posted line index. It answers the request itself
// when the form is unusable.
func (h handlers) lineIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.E(apperrors.KindInvalidInput, "invalid form"))
		return 0, false
	}
	index, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("index")))
	if err != nil || index < 0 {
		h.Notify(w, r, flashnotice.Error("error.api.invalid"))
		h.Redirect(w, r, routepath.Cart)
		return 0, false
	}
	return index, true
}

func (h handlers) save(w http.ResponseWriter, r *http.Request, c cartcookie.Cart) bool {
	if err := cartcookie.Write(w, r, h.SchemePolicy(), c); err != nil {
		h.notifyError(w, r, err)
		return false
	}
	return true
}

func (h handlers) notifyError(w http.ResponseWriter, r *http.Request, err error) {
	key := apperrors.LocalizationKey(err)
	switch {
	case errors.Is(err, cartcookie.ErrCartFull):
		key = "store.cart.full"
	case key == "":
		key = "error.internal"
	}
	h.Notify(w, r, flashnotice.Error(key))
}
