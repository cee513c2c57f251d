// Package orders implements order placement and the order back office.
package orders

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/platform/id"
	"github.com/louisbranch/storefront/internal/platform/pagination"
	"github.com/louisbranch/storefront/internal/platform/requestctx"
	"github.com/louisbranch/storefront/internal/pricing"
	"github.com/louisbranch/storefront/internal/services/api/access"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/rs/zerolog/log"
)

var (
	// ErrServiceNotConfigured indicates the orders service is nil.
	ErrServiceNotConfigured = errors.New("orders service is not configured")

	errOrderNotFound = apperrors.New(apperrors.CodeNotFound, "Order not found")
)

// listPageSize bounds the admin order listing.
var listPageSize = pagination.PageSizeConfig{Default: 20, Max: 100}

// PolicySource resolves the current shipping policy.
type PolicySource interface {
	ShippingPolicy(ctx context.Context) (pricing.Policy, error)
}

// Recorder receives order placement events.
type Recorder interface {
	OrderCreated(guest bool)
}

// Config wires optional collaborators.
type Config struct {
	Policy      PolicySource
	Recorder    Recorder
	Clock       func() time.Time
	IDGenerator func() (string, error)
}

// Service places and manages orders.
type Service struct {
	store       storage.OrderStore
	policy      PolicySource
	recorder    Recorder
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewService builds an orders service over store.
func NewService(store storage.OrderStore, cfg Config) *Service {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = id.NewID
	}
	return &Service{
		store:       store,
		policy:      cfg.Policy,
		recorder:    cfg.Recorder,
		clock:       cfg.Clock,
		idGenerator: cfg.IDGenerator,
	}
}

// CreateInput is the checkout payload submitted by the frontend.
type CreateInput struct {
	UserID        string             `json:"userId,omitempty"`
	IsGuest       bool               `json:"isGuest"`
	FirstName     string             `json:"firstName"`
	LastName      string             `json:"lastName"`
	Email         string             `json:"email"`
	Phone         string             `json:"phone"`
	AddressLine1  string             `json:"addressLine1"`
	AddressLine2  string             `json:"addressLine2,omitempty"`
	Company       string             `json:"company,omitempty"`
	PostalCode    string             `json:"postalCode"`
	City          string             `json:"city"`
	Cart          []pricing.CartItem `json:"cart"`
	PaymentMethod string             `json:"paymentMethod,omitempty"`
	Status        string             `json:"status,omitempty"`
	Subtotal      float64            `json:"subtotal"`
	ShippingFee   float64            `json:"shippingFee"`
	Total         float64            `json:"total"`
}

// UpdateInput is a partial order update. Nil fields are left unchanged.
type UpdateInput struct {
	Status        *string `json:"status,omitempty"`
	PaymentMethod *string `json:"payment_method,omitempty"`
	FirstName     *string `json:"first_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	AddressLine1  *string `json:"address_line1,omitempty"`
	AddressLine2  *string `json:"address_line2,omitempty"`
	Company       *string `json:"company,omitempty"`
	PostalCode    *string `json:"postal_code,omitempty"`
	City          *string `json:"city,omitempty"`
}

// ListInput selects one page of the admin order listing.
type ListInput struct {
	Filter  string
	OrderBy string
	Page    int
	Limit   int
}

// ListResult is one page of orders.
type ListResult struct {
	Data       []storage.Order `json:"data"`
	Count      int             `json:"count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"totalPages"`
}

// Message is the acknowledgement returned by deletions.
type Message struct {
	Message string `json:"message"`
}

func invalid(message string) error {
	return apperrors.New(apperrors.CodeInvalidArgument, message)
}

func validateCreate(in CreateInput) error {
	required := []struct {
		field, value string
	}{
		{"firstName", in.FirstName},
		{"lastName", in.LastName},
		{"email", in.Email},
		{"phone", in.Phone},
		{"addressLine1", in.AddressLine1},
		{"postalCode", in.PostalCode},
		{"city", in.City},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return invalid(r.field + " is required")
		}
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(in.Email)); err != nil {
		return invalid("email must be an email")
	}
	if len(in.Cart) == 0 {
		return apperrors.New(apperrors.CodeOrderEmptyCart, "cart is required")
	}
	for i, item := range in.Cart {
		if strings.TrimSpace(item.ProductID) == "" {
			return invalid(fmt.Sprintf("cart.%d.productId is required", i))
		}
		if item.Qty < 1 {
			return invalid(fmt.Sprintf("cart.%d.qty must be at least 1", i))
		}
		if item.Price < 0 || (item.DiscountPrice != nil && *item.DiscountPrice < 0) {
			return invalid(fmt.Sprintf("cart.%d.price must not be negative", i))
		}
	}
	if in.Status != "" {
		if _, ok := storage.ParseOrderStatus(in.Status); !ok {
			return apperrors.New(apperrors.CodeOrderInvalidStatus, "status must be one of PENDING, PAID, FULFILLED, CANCELED, REFUNDED")
		}
	}
	return nil
}

func (s *Service) shippingPolicy(ctx context.Context) pricing.Policy {
	if s.policy == nil {
		return pricing.DefaultPolicy
	}
	policy, err := s.policy.ShippingPolicy(ctx)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("shipping policy unavailable, using default")
		return pricing.DefaultPolicy
	}
	return policy
}

// Create validates and stores a checkout order. The caller is optional:
// an authenticated caller who did not choose guest checkout owns the
// order; everything else is stored as a guest order.
func (s *Service) Create(ctx context.Context, in CreateInput, caller requestctx.User, authenticated bool) (storage.Order, error) {
	if s == nil || s.store == nil {
		return storage.Order{}, ErrServiceNotConfigured
	}
	if err := validateCreate(in); err != nil {
		return storage.Order{}, err
	}

	submitted := pricing.Totals{Subtotal: in.Subtotal, Shipping: in.ShippingFee, Total: in.Total}
	if err := pricing.Verify(in.Cart, submitted, s.shippingPolicy(ctx)); err != nil {
		return storage.Order{}, err
	}

	orderID, err := s.idGenerator()
	if err != nil {
		return storage.Order{}, fmt.Errorf("generate order id: %w", err)
	}

	status := storage.OrderPending
	if in.Status != "" {
		status = storage.OrderStatus(in.Status)
	}

	guest := in.IsGuest || !authenticated
	userID := ""
	if !guest {
		userID = caller.ID
	}

	now := s.clock().UTC()
	order := storage.Order{
		ID:            orderID,
		UserID:        userID,
		IsGuest:       guest,
		FirstName:     strings.TrimSpace(in.FirstName),
		LastName:      strings.TrimSpace(in.LastName),
		Email:         strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:         strings.TrimSpace(in.Phone),
		AddressLine1:  strings.TrimSpace(in.AddressLine1),
		AddressLine2:  strings.TrimSpace(in.AddressLine2),
		Company:       strings.TrimSpace(in.Company),
		PostalCode:    strings.TrimSpace(in.PostalCode),
		City:          strings.TrimSpace(in.City),
		Cart:          in.Cart,
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		Status:        status,
		Subtotal:      in.Subtotal,
		ShippingFee:   in.ShippingFee,
		Total:         in.Total,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.CreateOrder(ctx, order); err != nil {
		return storage.Order{}, fmt.Errorf("create order: %w", err)
	}
	if s.recorder != nil {
		s.recorder.OrderCreated(guest)
	}
	log.Ctx(ctx).Info().Str("order_id", order.ID).Bool("guest", guest).Float64("total", order.Total).Msg("order created")
	return order, nil
}

// ListMine returns the caller's orders, newest first.
func (s *Service) ListMine(ctx context.Context, caller requestctx.User) ([]storage.Order, error) {
	if s == nil || s.store == nil {
		return nil, ErrServiceNotConfigured
	}
	if err := access.RequireUser(caller, caller.ID != ""); err != nil {
		return nil, err
	}
	return s.store.ListOrdersByUser(ctx, caller.ID)
}

// List returns one filtered page of every order. Staff only.
func (s *Service) List(ctx context.Context, caller requestctx.User, in ListInput) (ListResult, error) {
	if s == nil || s.store == nil {
		return ListResult{}, ErrServiceNotConfigured
	}
	if err := access.RequireStaff(caller); err != nil {
		return ListResult{}, err
	}

	condition, err := ParseFilter(in.Filter)
	if err != nil {
		return ListResult{}, apperrors.Wrap(apperrors.CodeInvalidFilter, err.Error(), err)
	}
	orderBy, err := ParseOrderBy(in.OrderBy)
	if err != nil {
		return ListResult{}, apperrors.Wrap(apperrors.CodeInvalidOrderBy, err.Error(), err)
	}

	page := pagination.Normalize(in.Page, in.Limit, listPageSize)
	result, err := s.store.ListOrders(ctx, storage.OrderQuery{
		Condition: condition,
		OrderBy:   orderBy,
		Limit:     page.Size,
		Offset:    page.Offset(),
	})
	if err != nil {
		return ListResult{}, fmt.Errorf("list orders: %w", err)
	}
	return ListResult{
		Data:       result.Orders,
		Count:      result.Total,
		Page:       page.Number,
		Limit:      page.Size,
		TotalPages: pagination.TotalPages(result.Total, page.Size),
	}, nil
}

// Recent returns the newest orders for the dashboard. Staff only.
func (s *Service) Recent(ctx context.Context, caller requestctx.User, limit int) ([]storage.Order, error) {
	result, err := s.List(ctx, caller, ListInput{Page: 1, Limit: limit})
	if err != nil {
		return nil, err
	}
	return result.Data, nil
}

// Get returns one order. Staff see any order; other callers only their own.
func (s *Service) Get(ctx context.Context, caller requestctx.User, orderID string) (storage.Order, error) {
	if s == nil || s.store == nil {
		return storage.Order{}, ErrServiceNotConfigured
	}
	if caller.ID == "" {
		return storage.Order{}, access.ErrAccessDenied()
	}
	order, err := s.store.GetOrder(ctx, orderID)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.Order{}, errOrderNotFound
	}
	if err != nil {
		return storage.Order{}, err
	}
	if !access.IsStaff(access.Role(caller.Role)) && order.UserID != caller.ID {
		return storage.Order{}, errOrderNotFound
	}
	return order, nil
}

// Update applies a partial update. Staff only.
func (s *Service) Update(ctx context.Context, caller requestctx.User, orderID string, in UpdateInput) (storage.Order, error) {
	if s == nil || s.store == nil {
		return storage.Order{}, ErrServiceNotConfigured
	}
	if err := access.RequireStaff(caller); err != nil {
		return storage.Order{}, err
	}
	order, err := s.store.GetOrder(ctx, orderID)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.Order{}, errOrderNotFound
	}
	if err != nil {
		return storage.Order{}, err
	}

	if in.Status != nil {
		status, ok := storage.ParseOrderStatus(strings.TrimSpace(*in.Status))
		if !ok {
			return storage.Order{}, apperrors.New(apperrors.CodeOrderInvalidStatus, "status must be one of PENDING, PAID, FULFILLED, CANCELED, REFUNDED")
		}
		order.Status = status
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return storage.Order{}, invalid("email must be an email")
		}
		order.Email = email
	}
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	assign(&order.PaymentMethod, in.PaymentMethod)
	assign(&order.FirstName, in.FirstName)
	assign(&order.LastName, in.LastName)
	assign(&order.Phone, in.Phone)
	assign(&order.AddressLine1, in.AddressLine1)
	assign(&order.AddressLine2, in.AddressLine2)
	assign(&order.Company, in.Company)
	assign(&order.PostalCode, in.PostalCode)
	assign(&order.City, in.City)
	order.UpdatedAt = s.clock().UTC()

	if err := s.store.UpdateOrder(ctx, order); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Order{}, errOrderNotFound
		}
		return storage.Order{}, fmt.Errorf("update order: %w", err)
	}
	return order, nil
}

// Delete removes an order. Staff only.
func (s *Service) Delete(ctx context.Context, caller requestctx.User, orderID string) (Message, error) {
	if s == nil || s.store == nil {
		return Message{}, ErrServiceNotConfigured
	}
	if err := access.RequireStaff(caller); err != nil {
		return Message{}, err
	}
	if err := s.store.DeleteOrder(ctx, orderID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Message{}, errOrderNotFound
		}
		return Message{}, fmt.Errorf("delete order: %w", err)
	}
	return Message{Message: "Order deleted successfully"}, nil
}
