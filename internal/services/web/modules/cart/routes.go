package cart

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Cart, h.handleCart)
	mux.HandleFunc(http.MethodGet+" "+routepath.CartPrefix+"{$}", h.handleCart)
	mux.HandleFunc(http.MethodPost+" "+routepath.CartAdd, h.handleAdd)
	mux.HandleFunc(http.MethodPost+" "+routepath.CartUpdate, h.handleUpdate)
	mux.HandleFunc(http.MethodPost+" "+routepath.CartRemove, h.handleRemove)
	mux.HandleFunc(http.MethodPost+" "+routepath.CartClear, h.handleClear)
	mux.HandleFunc(routepath.CartPrefix, h.handleNotFound)
}
