// Package storage defines the storefront API persistence contracts and the
// records exchanged with the web frontend.
package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/pricing"
	"github.com/louisbranch/storefront/internal/services/api/access"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrAlreadyExists indicates a unique key is already taken.
var ErrAlreadyExists = apperrors.New(apperrors.CodeAlreadyExists, "record already exists")

// Category groups products.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryRef is the category summary joined onto product reads.
type CategoryRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Product is a catalog item.
type Product struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Slug          string       `json:"slug"`
	Description   string       `json:"description"`
	Price         float64      `json:"price"`
	DiscountPrice *float64     `json:"discount_price"`
	IsDiscount    bool         `json:"is_discount"`
	IsFeature     bool         `json:"is_feature"`
	IsActive      bool         `json:"is_active"`
	IsDraft       bool         `json:"is_draft"`
	CategoryID    string       `json:"category_id,omitempty"`
	Category      *CategoryRef `json:"category,omitempty"`
	ImageURL      string       `json:"image_url"`
	Stock         int          `json:"stock"`
	IsStock       bool         `json:"is_stock"`
	Variation1    string       `json:"variation1"`
	Variation2    string       `json:"variation2"`
	Rating        float64      `json:"rating"`
	ReviewCount   int          `json:"review_count"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// InStock reports whether the product can be ordered.
func (p Product) InStock() bool {
	return p.IsStock && p.Stock > 0
}

// ProductSort names a product ordering.
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortRating    ProductSort = "rating"
)

// ProductVisibility selects which lifecycle states a product query sees.
type ProductVisibility int

const (
	// VisiblePublished matches active, non-draft products.
	VisiblePublished ProductVisibility = iota
	// VisibleDrafts matches drafts only.
	VisibleDrafts
	// VisibleAll matches every product.
	VisibleAll
)

// ProductQuery filters and pages product listings.
type ProductQuery struct {
	Visibility   ProductVisibility
	Search       string
	CategoryID   string
	MinPrice     *float64
	MaxPrice     *float64
	InStock      bool
	OnSale       bool
	FeaturedOnly bool
	Sort         ProductSort
	Limit        int
	Offset       int
}

// ProductStore persists catalog products.
type ProductStore interface {
	ListProducts(ctx context.Context, query ProductQuery) ([]Product, error)
	CountProducts(ctx context.Context, query ProductQuery) (int, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	GetProductBySlug(ctx context.Context, slug string) (Product, error)
	CreateProduct(ctx context.Context, product Product) error
	UpdateProduct(ctx context.Context, product Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// CategoryStore persists product categories.
type CategoryStore interface {
	ListCategories(ctx context.Context, activeOnly bool) ([]Category, error)
	GetCategory(ctx context.Context, id string) (Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (Category, error)
	CreateCategory(ctx context.Context, category Category) error
	UpdateCategory(ctx context.Context, category Category) error
}

// SitemapEntry is one public URL candidate.
type SitemapEntry struct {
	Kind      string    `json:"kind"`
	Slug      string    `json:"slug"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SitemapStore lists public catalog slugs.
type SitemapStore interface {
	ListSitemapEntries(ctx context.Context) ([]SitemapEntry, error)
}

// Review is a product rating left by a signed-in customer.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewStore persists reviews. CreateReview also refreshes the product's
// rating and review_count in the same transaction.
type ReviewStore interface {
	ListReviews(ctx context.Context, productID string) ([]Review, error)
	CreateReview(ctx context.Context, review Review) error
}

// Account holds login credentials.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile is the public part of an account.
type Profile struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Phone     string      `json:"phone"`
	Role      access.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// AccountStore persists credentials and profiles.
type AccountStore interface {
	CreateAccount(ctx context.Context, account Account, profile Profile) error
	GetAccountByEmail(ctx context.Context, email string) (Account, error)
	GetProfile(ctx context.Context, id string) (Profile, error)
	ListProfiles(ctx context.Context) ([]Profile, error)
	UpdateProfile(ctx context.Context, profile Profile) error
	DeleteProfile(ctx context.Context, id string) error
}

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPaid      OrderStatus = "PAID"
	OrderFulfilled OrderStatus = "FULFILLED"
	OrderCanceled  OrderStatus = "CANCELED"
	OrderRefunded  OrderStatus = "REFUNDED"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{OrderPending, OrderPaid, OrderFulfilled, OrderCanceled, OrderRefunded}

// ParseOrderStatus validates a status string.
func ParseOrderStatus(value string) (OrderStatus, bool) {
	for _, status := range OrderStatuses {
		if string(status) == value {
			return status, true
		}
	}
	return "", false
}

// Order is a placed order with its cart snapshot.
type Order struct {
	ID            string             `json:"id"`
	UserID        string             `json:"user_id,omitempty"`
	IsGuest       bool               `json:"is_guest"`
	FirstName     string             `json:"first_name"`
	LastName      string             `json:"last_name"`
	Email         string             `json:"email"`
	Phone         string             `json:"phone"`
	AddressLine1  string             `json:"address_line1"`
	AddressLine2  string             `json:"address_line2"`
	Company       string             `json:"company"`
	PostalCode    string             `json:"postal_code"`
	City          string             `json:"city"`
	Cart          []pricing.CartItem `json:"cart"`
	PaymentMethod string             `json:"payment_method"`
	Status        OrderStatus        `json:"status"`
	Subtotal      float64            `json:"subtotal"`
	ShippingFee   float64            `json:"shipping_fee"`
	Total         float64            `json:"total"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// SQLCondition is a WHERE clause fragment with positional parameters.
type SQLCondition struct {
	Clause string
	Params []any
}

// OrderField is one ORDER BY term over a known column.
type OrderField struct {
	Column string
	Desc   bool
}

// OrderQuery filters and pages the admin order listing.
type OrderQuery struct {
	Condition SQLCondition
	OrderBy   []OrderField
	Limit     int
	Offset    int
}

// OrderPage is one page of orders plus the filtered total.
type OrderPage struct {
	Orders []Order
	Total  int
}

// OrderStore persists orders.
type OrderStore interface {
	CreateOrder(ctx context.Context, order Order) error
	GetOrder(ctx context.Context, id string) (Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]Order, error)
	ListOrders(ctx context.Context, query OrderQuery) (OrderPage, error)
	UpdateOrder(ctx context.Context, order Order) error
	DeleteOrder(ctx context.Context, id string) error
}

// Slide is one hero carousel entry on the home page.
type Slide struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	ButtonText  string `json:"button_text"`
	ButtonLink  string `json:"button_link"`
	ImageURL    string `json:"image_url"`
	IsActive    bool   `json:"is_active"`
}

// StoreSettings is the single store configuration document.
type StoreSettings struct {
	SiteName              string    `json:"site_name"`
	SiteDescription       string    `json:"site_description"`
	Currency              string    `json:"currency"`
	FreeShippingThreshold float64   `json:"free_shipping_threshold"`
	StandardShippingFee   float64   `json:"standard_shipping_fee"`
	TaxRate               float64   `json:"tax_rate"`
	ContactEmail          string    `json:"contact_email"`
	ContactPhone          string    `json:"contact_phone"`
	Address               string    `json:"address"`
	Slides                []Slide   `json:"slides"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// ShippingPolicy derives the pricing policy from the settings.
func (s StoreSettings) ShippingPolicy() pricing.Policy {
	return pricing.Policy{FreeThreshold: s.FreeShippingThreshold, Fee: s.StandardShippingFee}
}

// SettingsStore persists the store settings document.
type SettingsStore interface {
	GetSettings(ctx context.Context) (StoreSettings, error)
	PutSettings(ctx context.Context, settings StoreSettings) error
}

// Stats are the admin dashboard aggregates.
type Stats struct {
	TotalProducts int     `json:"totalProducts"`
	TotalOrders   int     `json:"totalOrders"`
	TotalUsers    int     `json:"totalUsers"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// StatsStore computes dashboard aggregates.
type StatsStore interface {
	GetStats(ctx context.Context) (Stats, error)
}
