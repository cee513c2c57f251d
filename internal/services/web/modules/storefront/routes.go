package storefront

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Root+"{$}", h.handleHome)
	mux.HandleFunc(http.MethodGet+" "+routepath.Store, h.handleStore)
	mux.HandleFunc(http.MethodGet+" "+routepath.ProductPattern, h.handleProduct)
	mux.HandleFunc(http.MethodPost+" "+routepath.ProductReview, h.handleCreateReview)
	mux.HandleFunc(http.MethodGet+" "+routepath.About, h.handleAbout)
	mux.HandleFunc(http.MethodGet+" "+routepath.Contact, h.handleContact)
	mux.HandleFunc(http.MethodGet+" "+routepath.ConfirmationPattern, h.handleConfirmation)
	mux.HandleFunc(routepath.Root, h.handleNotFound)
}
