package checkout

import (
	"net/http"

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

func (h handlers) handleCheckout(w http.ResponseWriter, r *http.Request) {
	c := cartcookie.Read(r)
	if c.Empty() {
		h.Redirect(w, r, routepath.Cart)
		return
	}
	ctx := h.RequestContext(r)
	viewer := h.ResolveRequestViewer(r)
	form := templates.CheckoutForm{PaymentMethod: PaymentCashOnDelivery, Guest: !viewer.SignedIn}
	if viewer.SignedIn {
		var err error
		if form, err = h.service.prefill(ctx, form); err != nil {
			h.WriteError(w, r, err)
			return
		}
	}
	q, err := h.service.reprice(ctx, c.Items)
	if err != nil && !userFacing(err) {
		h.WriteError(w, r, err)
		return
	}
	if err != nil {
		q = quote{Items: c.Items}
	}
	h.render(w, r, http.StatusOK, templates.CheckoutView{
		Form:           form,
		Items:          q.Items,
		Totals:         q.Totals,
		SignedIn:       viewer.SignedIn,
		PaymentMethods: paymentMethods,
		ErrorKey:       apperrors.LocalizationKey(err),
	})
}

func (h handlers) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	c := cartcookie.Read(r)
	if c.Empty() {
		h.Redirect(w, r, routepath.Cart)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.E(apperrors.KindInvalidInput, "invalid form"))
		return
	}
	viewer := h.ResolveRequestViewer(r)
	form := parseForm(r.PostForm)
	form.Guest = !viewer.SignedIn
	view := templates.CheckoutView{
		Form:           form,
		Items:          c.Items,
		SignedIn:       viewer.SignedIn,
		PaymentMethods: paymentMethods,
	}
	if key := validate(form); key != "" {
		view.ErrorKey = key
		h.render(w, r, http.StatusUnprocessableEntity, view)
		return
	}

	ctx := h.RequestContext(r)
	q, err := h.service.reprice(ctx, c.Items)
	if err != nil {
		h.writeFormError(w, r, view, err)
		return
	}
	view.Items, view.Totals = q.Items, q.Totals
	order, err := h.service.place(ctx, form, q)
	if err != nil {
		h.writeFormError(w, r, view, err)
		return
	}
	cartcookie.Clear(w, r, h.SchemePolicy())
	cartcookie.WriteReceipt(w, r, h.SchemePolicy(), order)
	h.Notify(w, r, flashnotice.Success("core.flash.order_placed"))
	h.Redirect(w, r, routepath.Confirmation(order.ID))
}

// writeFormError re-renders the form for problems the shopper can fix and
// falls back to the error page otherwise.
func (h handlers) writeFormError(w http.ResponseWriter, r *http.Request, view templates.CheckoutView, err error) {
	if !userFacing(err) {
		h.WriteError(w, r, err)
		return
	}
	view.ErrorKey = apperrors.LocalizationKey(err)
	h.render(w, r, apperrors.HTTPStatus(err), view)
}

func (h handlers) render(w http.ResponseWriter, r *http.Request, status int, view templates.CheckoutView) {
	h.WritePage(w, r, pagerender.Page{
		Title:      h.Localizer(w, r).Sprintf("store.checkout.title"),
		StatusCode: status,
		Body:       templates.Page("checkout/index", view),
	})
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}

// userFacing reports whether err is a problem the shopper can fix on the
// checkout form, as opposed to an outage or a lost session.
func userFacing(err error) bool {
	if err == nil || apperrors.LocalizationKey(err) == "" {
		return false
	}
	switch apperrors.KindOf(err) {
	case apperrors.KindInvalidInput, apperrors.KindConflict:
		return true
	default:
		return false
	}
}
