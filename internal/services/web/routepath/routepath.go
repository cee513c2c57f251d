// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root                = "/"
	Health              = "/up"
	StaticPrefix        = "/static/"
	Store               = "/store"
	About               = "/about"
	Contact             = "/contact"
	ProductPrefix       = "/product/"
	ProductPattern      = ProductPrefix + "{slug}"
	ProductReview       = ProductPrefix + "{slug}/reviews"
	ConfirmationPrefix  = "/order-confirmation/"
	ConfirmationPattern = ConfirmationPrefix + "{orderID}"

	Cart           = "/cart"
	CartPrefix     = "/cart/"
	CartAdd        = "/cart/add"
	CartUpdate     = "/cart/update"
	CartRemove     = "/cart/remove"
	CartClear      = "/cart/clear"
	Checkout       = "/checkout"
	CheckoutPrefix = "/checkout/"

	Login        = "/login"
	Register     = "/register"
	Logout       = "/logout"
	NextQueryKey = "next"

	Account       = "/account"
	AccountPrefix = "/account/"
	Orders        = "/orders"
	OrdersPrefix  = "/orders/"
	OrderPattern  = OrdersPrefix + "{orderID}"

	Admin               = "/admin"
	AdminPrefix         = "/admin/"
	AdminProducts       = "/admin/products"
	AdminProductsNew    = "/admin/products/new"
	AdminDrafts         = "/admin/products/drafts"
	AdminImport         = "/admin/products/import"
	AdminImportTemplate = "/admin/products/import/template"
	AdminProductsPrefix = "/admin/products/"
	AdminProductPattern = AdminProductsPrefix + "{productID}"
	AdminProductDelete  = AdminProductsPrefix + "{productID}/delete"
	AdminOrders         = "/admin/orders"
	AdminOrdersPrefix   = "/admin/orders/"
	AdminOrderPattern   = AdminOrdersPrefix + "{orderID}"
	AdminOrderDelete    = AdminOrdersPrefix + "{orderID}/delete"
	AdminUsers          = "/admin/users"
	AdminUsersPrefix    = "/admin/users/"
	AdminUserPattern    = AdminUsersPrefix + "{userID}"
	AdminUserDelete     = AdminUsersPrefix + "{userID}/delete"
	AdminSettings       = "/admin/settings"
	AdminSettingsSlides = "/admin/settings/slides"

	Sitemap = "/sitemap.xml"
	Robots  = "/robots.txt"
)

// Product returns the public product page route.
func Product(slug string) string {
	return ProductPrefix + escapeSegment(slug)
}

// ProductReviews returns the review submission route for a product.
func ProductReviews(slug string) string {
	return Product(slug) + "/reviews"
}

// Confirmation returns the order confirmation route.
func Confirmation(orderID string) string {
	return ConfirmationPrefix + escapeSegment(orderID)
}

// Order returns the customer order detail route.
func Order(orderID string) string {
	return OrdersPrefix + escapeSegment(orderID)
}

// AdminProduct returns the admin product edit route.
func AdminProduct(productID string) string {
	return AdminProductsPrefix + escapeSegment(productID)
}

// AdminOrder returns the admin order detail route.
func AdminOrder(orderID string) string {
	return AdminOrdersPrefix + escapeSegment(orderID)
}

// AdminUser returns the admin user detail route.
func AdminUser(userID string) string {
	return AdminUsersPrefix + escapeSegment(userID)
}

// LoginWithNext returns the login route carrying a same-site return path.
func LoginWithNext(next string) string {
	next = SafeNext(next)
	if next == "" || next == Root {
		return Login
	}
	return Login + "?" + url.Values{NextQueryKey: {next}}.Encode()
}

// SafeNext keeps only local absolute paths so redirects never leave the
// site.
func SafeNext(next string) string {
	next = strings.TrimSpace(next)
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}

func escapeSegment(value string) string {
	return url.PathEscape(strings.TrimSpace(value))
}
