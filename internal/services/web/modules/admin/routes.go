package admin

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	get := func(path string, fn http.HandlerFunc) { mux.HandleFunc(http.MethodGet+" "+path, fn) }
	post := func(path string, fn http.HandlerFunc) { mux.HandleFunc(http.MethodPost+" "+path, fn) }

	get(routepath.Admin, h.handleDashboard)
	get(routepath.AdminPrefix+"{$}", h.handleDashboard)

	get(routepath.AdminProducts, h.handleProducts)
	get(routepath.AdminDrafts, h.handleDrafts)
	get(routepath.AdminProductsNew, h.handleNewProduct)
	post(routepath.AdminProductsNew, h.handleCreateProduct)
	get(routepath.AdminImport, h.handleImportPage)
	post(routepath.AdminImport, h.handleImport)
	get(routepath.AdminImportTemplate, h.handleImportTemplate)
	get(routepath.AdminProductPattern, h.handleEditProduct)
	post(routepath.AdminProductPattern, h.handleUpdateProduct)
	post(routepath.AdminProductDelete, h.handleDeleteProduct)

	get(routepath.AdminOrders, h.handleOrders)
	get(routepath.AdminOrderPattern, h.handleOrder)
	post(routepath.AdminOrderPattern, h.handleUpdateOrder)
	post(routepath.AdminOrderDelete, h.handleDeleteOrder)

	get(routepath.AdminUsers, h.handleUsers)
	get(routepath.AdminUserPattern, h.handleUser)
	post(routepath.AdminUserPattern, h.handleUpdateUser)
	post(routepath.AdminUserDelete, h.handleDeleteUser)

	get(routepath.AdminSettings, h.handleSettings)
	post(routepath.AdminSettings, h.handleUpdateSettings)
	post(routepath.AdminSettingsSlides, h.handleUpdateSlides)

	mux.HandleFunc(routepath.AdminPrefix, h.handleNotFound)
}
