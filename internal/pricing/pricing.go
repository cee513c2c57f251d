// Package pricing computes cart totals and verifies client-submitted totals.
// The web cart and the API order service share these rules so both sides
// agree on what a cart costs.
package pricing

import (
	"fmt"
	"math"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
)

// Tolerance is the largest accepted difference between a submitted and a
// recomputed amount.
const Tolerance = 0.01

// CartItem is one cart line as submitted by the storefront.
type CartItem struct {
	ProductID     string   `json:"productId"`
	Slug          string   `json:"slug,omitempty"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
	Qty           int      `json:"qty"`
	Variation1    string   `json:"variation1,omitempty"`
	Variation2    string   `json:"variation2,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
}

// Policy holds the shipping rule.
type Policy struct {
	FreeThreshold float64
	Fee           float64
}

// DefaultPolicy charges 8 below a subtotal of 100.
var DefaultPolicy = Policy{FreeThreshold: 100, Fee: 8}

// Totals is the priced breakdown of a cart.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shippingFee"`
	Total    float64 `json:"total"`
}

// UnitPrice returns the discount price when set and non-zero, else the price.
func UnitPrice(item CartItem) float64 {
	if item.DiscountPrice != nil && *item.DiscountPrice != 0 {
		return *item.DiscountPrice
	}
	return item.Price
}

// LineTotal returns unit price times quantity.
func LineTotal(item CartItem) float64 {
	return UnitPrice(item) * float64(item.Qty)
}

// Compute prices items under policy. An empty cart still pays shipping.
func Compute(items []CartItem, policy Policy) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += LineTotal(item)
	}
	var shipping float64
	if subtotal < policy.FreeThreshold {
		shipping = policy.Fee
	}
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal + shipping,
	}
}

// Verify recomputes items under policy and fails with
// ORDER_TOTALS_MISMATCH when any submitted amount is off by more than
// Tolerance.
func Verify(items []CartItem, submitted Totals, policy Policy) error {
	computed := Compute(items, policy)
	mismatched := map[string]string{}
	check := func(field string, want, got float64) {
		if math.Abs(want-got) > Tolerance {
			mismatched[field] = fmt.Sprintf("%.2f", want)
		}
	}
	check("subtotal", computed.Subtotal, submitted.Subtotal)
	check("shippingFee", computed.Shipping, submitted.Shipping)
	check("total", computed.Total, submitted.Total)
	if len(mismatched) == 0 {
		return nil
	}
	return apperrors.WithMetadata(apperrors.CodeOrderTotalsMismatch,
		"Order totals do not match calculated values", mismatched)
}

// ItemCount returns the total quantity across items.
func ItemCount(items []CartItem) int {
	count := 0
	for _, item := range items {
		count += item.Qty
	}
	return count
}

// Float returns a pointer to v, for optional discount prices.
func Float(v float64) *float64 {
	return &v
}
