package account

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Account, h.handleProfile)
	mux.HandleFunc(http.MethodPost+" "+routepath.Account, h.handleUpdateProfile)
	mux.HandleFunc(routepath.AccountPrefix, h.handleNotFound)
}
