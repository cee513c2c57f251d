package checkout

import (
	"context"
	"net/mail"
	"net/url"
	"slices"
	"strings"

	"github.com/louisbranch/storefront/internal/pricing"
	"github.com/louisbranch/storefront/internal/services/api/orders"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
	"github.com/louisbranch/storefront/internal/services/web/templates"
	"golang.org/x/sync/errgroup"
)

// PaymentCashOnDelivery is the only payment method the store offers.
const PaymentCashOnDelivery = "cash_on_delivery"

var paymentMethods = []string{PaymentCashOnDelivery}

const repriceConcurrency = 4

type service struct {
	gateway CheckoutGateway
}

func newService(gateway CheckoutGateway) service {
	return service{gateway: gateway}
}

// quote is a cart repriced against the live catalog.
type quote struct {
	Items  []pricing.CartItem
	Totals pricing.Totals
}

// reprice reloads every cart line from the catalog so the order carries
// current prices, and fails when a line is gone or short on stock.
func (s service) reprice(ctx context.Context, items []pricing.CartItem) (quote, error) {
	var settings storage.StoreSettings
	products := make([]storage.Product, len(items))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(repriceConcurrency)
	group.Go(func() error {
		var err error
		settings, err = s.gateway.Settings(gctx)
		return err
	})
	for i, item := range items {
		group.Go(func() error {
			product, err := s.gateway.ProductBySlug(gctx, item.Slug)
			if apperrors.KindOf(err) == apperrors.KindNotFound {
				return apperrors.EK(apperrors.KindConflict, "store.checkout.item_unavailable", "cart product no longer exists")
			}
			products[i] = product
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return quote{}, err
	}

	repriced := make([]pricing.CartItem, 0, len(items))
	for i, item := range items {
		product := products[i]
		if product.ID != item.ProductID {
			return quote{}, apperrors.EK(apperrors.KindConflict, "store.checkout.item_unavailable", "cart product changed")
		}
		if !product.InStock() || item.Qty > product.Stock {
			return quote{}, apperrors.EK(apperrors.KindConflict, "store.checkout.insufficient_stock", "not enough stock for "+product.Name)
		}
		line := item
		line.Name = product.Name
		line.Price = product.Price
		line.DiscountPrice = nil
		if product.IsDiscount && product.DiscountPrice != nil && *product.DiscountPrice > 0 {
			line.DiscountPrice = pricing.Float(*product.DiscountPrice)
		}
		repriced = append(repriced, line)
	}
	return quote{Items: repriced, Totals: pricing.Compute(repriced, settings.ShippingPolicy())}, nil
}

// prefill fills blank delivery fields from the signed-in profile.
func (s service) prefill(ctx context.Context, form templates.CheckoutForm) (templates.CheckoutForm, error) {
	profile, err := s.gateway.Me(ctx)
	if err != nil {
		return form, err
	}
	fill := func(field *string, value string) {
		if strings.TrimSpace(*field) == "" {
			*field = value
		}
	}
	fill(&form.FirstName, profile.FirstName)
	fill(&form.LastName, profile.LastName)
	fill(&form.Email, profile.Email)
	fill(&form.Phone, profile.Phone)
	return form, nil
}

func (s service) place(ctx context.Context, form templates.CheckoutForm, q quote) (storage.Order, error) {
	return s.gateway.CreateOrder(ctx, orders.CreateInput{
		IsGuest:       form.Guest,
		FirstName:     form.FirstName,
		LastName:      form.LastName,
		Email:         form.Email,
		Phone:         form.Phone,
		AddressLine1:  form.AddressLine1,
		AddressLine2:  form.AddressLine2,
		Company:       form.Company,
		PostalCode:    form.PostalCode,
		City:          form.City,
		Cart:          q.Items,
		PaymentMethod: form.PaymentMethod,
		Subtotal:      q.Totals.Subtotal,
		ShippingFee:   q.Totals.Shipping,
		Total:         q.Totals.Total,
	})
}

func parseForm(values url.Values) templates.CheckoutForm {
	get := func(key string) string { return strings.TrimSpace(values.Get(key)) }
	form := templates.CheckoutForm{
		FirstName:     get("firstName"),
		LastName:      get("lastName"),
		Email:         get("email"),
		Phone:         get("phone"),
		AddressLine1:  get("addressLine1"),
		AddressLine2:  get("addressLine2"),
		Company:       get("company"),
		PostalCode:    get("postalCode"),
		City:          get("city"),
		PaymentMethod: get("paymentMethod"),
	}
	if form.PaymentMethod == "" {
		form.PaymentMethod = PaymentCashOnDelivery
	}
	return form
}

// validate returns the message key of the first problem with form.
func validate(form templates.CheckoutForm) string {
	for _, value := range []string{form.FirstName, form.LastName, form.Email, form.Phone, form.AddressLine1, form.PostalCode, form.City} {
		if value == "" {
			return "store.checkout.missing_fields"
		}
	}
	if addr, err := mail.ParseAddress(form.Email); err != nil || addr.Address != form.Email {
		return "store.checkout.invalid_email"
	}
	if !slices.Contains(paymentMethods, form.PaymentMethod) {
		return "store.checkout.invalid_payment"
	}
	return ""
}
