package checkout

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Checkout, h.handleCheckout)
	mux.HandleFunc(http.MethodPost+" "+routepath.Checkout, h.handlePlaceOrder)
	mux.HandleFunc(routepath.CheckoutPrefix, h.handleNotFound)
}
