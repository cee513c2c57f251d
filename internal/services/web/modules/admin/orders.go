package admin

import (
	"net/http"
	"slices"
	"strings"

	"github.com/louisbranch/storefront/internal/services/api/orders"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	flashnotice "github.com/louisbranch/storefront/internal/services/web/platform/flash"
	"github.com/louisbranch/storefront/internal/services/web/routepath"
	"github.com/louisbranch/storefront/internal/services/web/templates"
)

func (h handlers) handleOrders(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.orders(h.RequestContext(r), r.URL)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.page(w, r, http.StatusOK, "admin.orders.title", "admin/orders", view)
}

func (h handlers) handleOrder(w http.ResponseWriter, r *http.Request) {
	orderID := strings.TrimSpace(r.PathValue("orderID"))
	order, err := h.service.gateway.Order(h.RequestContext(r), orderID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.page(w, r, http.StatusOK, "account.order.title", "admin/order", templates.OrderView{Order: order, Statuses: storage.OrderStatuses})
}

func (h handlers) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	orderID := strings.TrimSpace(r.PathValue("orderID"))
	location := routepath.AdminOrder(orderID)
	status := strings.ToUpper(strings.TrimSpace(r.PostForm.Get("status")))
	if !slices.Contains(storage.OrderStatuses, storage.OrderStatus(status)) {
		h.Notify(w, r, flashnotice.Error("error.api.invalid"))
		h.Redirect(w, r, location)
		return
	}
	if _, err := h.service.gateway.UpdateOrder(h.RequestContext(r), orderID, orders.UpdateInput{Status: &status}); err != nil {
		if !formError(err) {
			h.WriteError(w, r, err)
			return
		}
		h.Notify(w, r, flashnotice.Error(errorKey(err)))
		h.Redirect(w, r, location)
		return
	}
	h.mutated(w, r, "admin.flash.saved", location)
}

func (h handlers) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID := strings.TrimSpace(r.PathValue("orderID"))
	if err := h.service.gateway.DeleteOrder(h.RequestContext(r), orderID); err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.mutated(w, r, "admin.flash.deleted", routepath.AdminOrders)
}
