package orders

import (
	"net/http"
	"strings"

	"github.com/louisbranch/storefront/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/web/platform/pagerender"
	"github.com/louisbranch/storefront/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	gateway OrderGateway
}

func newHandlers(gateway OrderGateway, base modulehandler.Base) handlers {
	return handlers{Base: base, gateway: gateway}
}

func (h handlers) handleOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.gateway.MyOrders(h.RequestContext(r))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WritePage(w, r, pagerender.Page{
		Title: h.Localizer(w, r).Sprintf("account.orders.title"),
		Body:  templates.Page("account/orders", templates.OrdersView{Orders: list}),
	})
}

func (h handlers) handleOrder(w http.ResponseWriter, r *http.Request) {
	orderID := strings.TrimSpace(r.PathValue("orderID"))
	order, err := h.gateway.Order(h.RequestContext(r), orderID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WritePage(w, r, pagerender.Page{
		Title: h.Localizer(w, r).Sprintf("account.order.title"),
		Body:  templates.Page("account/order", templates.OrderView{Order: order}),
	})
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}
