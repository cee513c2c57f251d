package templates

import (
	"net/url"
	"strconv"

	"github.com/louisbranch/storefront/internal/pricing"
	"github.com/louisbranch/storefront/internal/services/api/catalog"
	"github.com/louisbranch/storefront/internal/services/api/dashboard"
	"github.com/louisbranch/storefront/internal/services/api/storage"
)

// PageLink is one numbered pagination link.
type PageLink struct {
	Number  int
	URL     string
	Current bool
}

// Pager is the pagination strip under listings.
type Pager struct {
	Page       int
	TotalPages int
	Prev       string
	Next       string
	Links      []PageLink
}

// NewPager builds pagination links that keep the current query of u.
func NewPager(u *url.URL, page, totalPages int) Pager {
	pager := Pager{Page: page, TotalPages: totalPages}
	if u == nil || totalPages <= 1 {
		return pager
	}
	link := func(n int) string {
		query := u.Query()
		query.Set("page", strconv.Itoa(n))
		return (&url.URL{Path: u.Path, RawQuery: query.Encode()}).String()
	}
	if page > 1 {
		pager.Prev = link(page - 1)
	}
	if page < totalPages {
		pager.Next = link(page + 1)
	}
	for n := 1; n <= totalPages; n++ {
		pager.Links = append(pager.Links, PageLink{Number: n, URL: link(n), Current: n == page})
	}
	return pager
}

// ErrorView is the body of 4xx/5xx pages.
type ErrorView struct {
	Status     int
	TitleKey   string
	MessageKey string
}

// HomeView is the landing page.
type HomeView struct {
	SiteName    string
	Description string
	Slides      []storage.Slide
	Featured    []storage.Product
	Recent      []storage.Product
	Categories  []storage.Category
}

// StoreFilters echoes the listing filters back into the form.
type StoreFilters struct {
	Search   string
	Category string
	SortBy   string
	MinPrice string
	MaxPrice string
	InStock  bool
	OnSale   bool
}

// StoreView is the product listing.
type StoreView struct {
	Products   []storage.Product
	Categories []storage.Category
	Filters    StoreFilters
	Sorts      []storage.ProductSort
	Count      int
	Pager      Pager
}

// ProductView is the product detail page.
type ProductView struct {
	Product    storage.Product
	Reviews    []storage.Review
	Variation1 []string
	Variation2 []string
	SignedIn   bool
	LoginURL   string
	ReviewURL  string
}

// InfoView backs the about and contact pages.
type InfoView struct {
	Settings storage.StoreSettings
}

// CartLine is one cart row with its position.
type CartLine struct {
	Index int
	Item  pricing.CartItem
}

// CartView is the cart page.
type CartView struct {
	Lines         []CartLine
	Totals        pricing.Totals
	FreeThreshold float64
	Remaining     float64
}

// CheckoutForm holds the submitted delivery details.
type CheckoutForm struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	AddressLine1  string
	AddressLine2  string
	Company       string
	PostalCode    string
	City          string
	PaymentMethod string
	Guest         bool
}

// CheckoutView is the checkout page.
type CheckoutView struct {
	Form           CheckoutForm
	Items          []pricing.CartItem
	Totals         pricing.Totals
	SignedIn       bool
	PaymentMethods []string
	ErrorKey       string
}

// OrderView shows one order to its owner, a guest or staff.
type OrderView struct {
	Order    storage.Order
	Statuses []storage.OrderStatus
}

// AuthView backs the login and registration forms.
type AuthView struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Next      string
	ErrorKey  string
}

// ProfileView is the account page.
type ProfileView struct {
	Profile  storage.Profile
	ErrorKey string
}

// OrdersView lists orders.
type OrdersView struct {
	Orders []storage.Order
}

// AdminDashboardView is the admin landing page.
type AdminDashboardView struct {
	Overview dashboard.Overview
}

// AdminProductsView is the admin product table.
type AdminProductsView struct {
	Products []storage.Product
	Count    int
	Search   string
	Drafts   bool
	Pager    Pager
}

// ProductForm holds raw admin product form values.
type ProductForm struct {
	Name          string
	Slug          string
	Description   string
	Price         string
	DiscountPrice string
	IsDiscount    bool
	IsFeature     bool
	IsActive      bool
	IsDraft       bool
	CategoryID    string
	ImageURL      string
	Stock         string
	IsStock       bool
	Variation1    string
	Variation2    string
}

// ProductFormView is the admin product editor.
type ProductFormView struct {
	ProductID  string
	Form       ProductForm
	Categories []storage.Category
	Action     string
	ErrorKey   string
	ErrorText  string
}

// ImportView is the CSV import page.
type ImportView struct {
	Summary   *catalog.ImportSummary
	ErrorKey  string
	ErrorText string
}

// AdminOrdersView is the admin order table.
type AdminOrdersView struct {
	Orders   []storage.Order
	Count    int
	Status   string
	Statuses []storage.OrderStatus
	Pager    Pager
}

// AdminUsersView lists accounts.
type AdminUsersView struct {
	Profiles []storage.Profile
}

// AdminUserView edits one account.
type AdminUserView struct {
	Profile  storage.Profile
	Roles    []string
	IsSelf   bool
	ErrorKey string
}

// AdminSettingsView edits store settings and slides.
type AdminSettingsView struct {
	Settings storage.StoreSettings
	ErrorKey string
}
