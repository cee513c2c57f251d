package cart

import (
	"slices"
	"strings"

	"github.com/louisbranch/storefront/internal/pricing"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/louisbranch/storefront/internal/services/web/platform/cartcookie"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
	"github.com/louisbranch/storefront/internal/services/web/templates"
)

// ItemFromProduct snapshots product into a cart line.
func ItemFromProduct(product storage.Product, qty int, variation1, variation2 string) pricing.CartItem {
	item := pricing.CartItem{
		ProductID:  product.ID,
		Slug:       product.Slug,
		Name:       product.Name,
		Price:      product.Price,
		Qty:        qty,
		Variation1: variation1,
		Variation2: variation2,
		ImageURL:   product.ImageURL,
	}
	if product.IsDiscount && product.DiscountPrice != nil && *product.DiscountPrice > 0 {
		item.DiscountPrice = pricing.Float(*product.DiscountPrice)
	}
	return item
}

// addProduct validates the chosen options and stock, then merges the line
// into c. Tracked stock caps the merged quantity.
func addProduct(c *cartcookie.Cart, product storage.Product, qty int, variation1, variation2 string) error {
	if !product.InStock() {
		return apperrors.EK(apperrors.KindConflict, "core.flash.out_of_stock", "product is out of stock")
	}
	if !validOption(product.Variation1, variation1) || !validOption(product.Variation2, variation2) {
		return apperrors.EK(apperrors.KindInvalidInput, "core.flash.variation_required", "variation is required")
	}
	if qty <= 0 {
		qty = 1
	}
	item := ItemFromProduct(product, qty, strings.TrimSpace(variation1), strings.TrimSpace(variation2))
	if err := c.Add(item); err != nil {
		return err
	}
	if product.IsStock {
		for i := range c.Items {
			if c.Items[i].ProductID == product.ID && c.Items[i].Qty > product.Stock {
				c.Items[i].Qty = product.Stock
			}
		}
	}
	return nil
}

// validOption reports whether chosen is one of the comma separated options.
// Products without options accept only an empty choice.
func validOption(options, chosen string) bool {
	chosen = strings.TrimSpace(chosen)
	var list []string
	for _, option := range strings.Split(options, ",") {
		if option = strings.TrimSpace(option); option != "" {
			list = append(list, option)
		}
	}
	if len(list) == 0 {
		return chosen == ""
	}
	return slices.Contains(list, chosen)
}

func cartView(c cartcookie.Cart, settings storage.StoreSettings) templates.CartView {
	policy := settings.ShippingPolicy()
	view := templates.CartView{
		Totals:        pricing.Compute(c.Items, policy),
		FreeThreshold: policy.FreeThreshold,
	}
	for i, item := range c.Items {
		view.Lines = append(view.Lines, templates.CartLine{Index: i, Item: item})
	}
	if view.Totals.Shipping > 0 && view.Totals.Subtotal < policy.FreeThreshold {
		view.Remaining = policy.FreeThreshold - view.Totals.Subtotal
	}
	return view
}
