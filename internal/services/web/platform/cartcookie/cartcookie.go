// Package cartcookie keeps the visitor's cart in a browser cookie.
package cartcookie

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/storefront/internal/pricing"
	"github.com/louisbranch/storefront/internal/services/web/platform/requestmeta"
)

const (
	// CookieName is the cart cookie name.
	CookieName = "sf_cart"
	// MaxLines caps distinct cart lines.
	MaxLines = 25
	// MaxQty caps the quantity of one line.
	MaxQty = 99

	maxCookieBytes = 3800
	maxAge         = 30 * 24 * time.Hour
)

// ErrCartFull is returned when the cart no longer fits in a cookie.
var ErrCartFull = errors.New("cart is full")

// Cart is the decoded cookie content.
type Cart struct {
	Items []pricing.CartItem
}

// Count returns the number of units in the cart.
func (c Cart) Count() int {
	return pricing.ItemCount(c.Items)
}

// Empty reports whether the cart has no lines.
func (c Cart) Empty() bool {
	return len(c.Items) == 0
}

// Add merges item into the cart. Lines with the same product and variations
// accumulate quantity.
func (c *Cart) Add(item pricing.CartItem) error {
	if item.Qty <= 0 {
		item.Qty = 1
	}
	for i := range c.Items {
		existing := &c.Items[i]
		if existing.ProductID == item.ProductID && existing.Variation1 == item.Variation1 && existing.Variation2 == item.Variation2 {
			existing.Qty = min(existing.Qty+item.Qty, MaxQty)
			existing.Name = item.Name
			existing.Price = item.Price
			existing.DiscountPrice = item.DiscountPrice
			existing.ImageURL = item.ImageURL
			return nil
		}
	}
	if len(c.Items) >= MaxLines {
		return ErrCartFull
	}
	item.Qty = min(item.Qty, MaxQty)
	c.Items = append(c.Items, item)
	return nil
}

// SetQty changes the quantity of line index; zero or less removes it.
func (c *Cart) SetQty(index, qty int) bool {
	if index < 0 || index >= len(c.Items) {
		return false
	}
	if qty <= 0 {
		return c.Remove(index)
	}
	c.Items[index].Qty = min(qty, MaxQty)
	return true
}

// Remove drops line index.
func (c *Cart) Remove(index int) bool {
	if index < 0 || index >= len(c.Items) {
		return false
	}
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
	return true
}

// Read decodes the cart cookie. Missing or corrupt cookies yield an empty
// cart.
func Read(r *http.Request) Cart {
	if r == nil {
		return Cart{}
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Cart{}
	}
	return decode(cookie.Value)
}

// Write stores cart on the response. An empty cart clears the cookie.
func Write(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy, cart Cart) error {
	if cart.Empty() {
		Clear(w, r, policy)
		return nil
	}
	value, err := encode(cart)
	if err != nil {
		return err
	}
	if len(value) > maxCookieBytes {
		// Images are cosmetic; drop them before giving up.
		slim := Cart{Items: make([]pricing.CartItem, len(cart.Items))}
		copy(slim.Items, cart.Items)
		for i := range slim.Items {
			slim.Items[i].ImageURL = ""
		}
		if value, err = encode(slim); err != nil {
			return err
		}
		if len(value) > maxCookieBytes {
			return ErrCartFull
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   policy.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the cart cookie.
func Clear(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   policy.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func encode(cart Cart) (string, error) {
	payload, err := json.Marshal(cart.Items)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(payload), nil
}

func decode(raw string) Cart {
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		return Cart{}
	}
	var items []pricing.CartItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return Cart{}
	}
	valid := items[:0]
	for _, item := range items {
		if strings.TrimSpace(item.ProductID) == "" || item.Qty <= 0 || item.Price < 0 {
			continue
		}
		item.Qty = min(item.Qty, MaxQty)
		valid = append(valid, item)
	}
	if len(valid) > MaxLines {
		valid = valid[:MaxLines]
	}
	return Cart{Items: valid}
}
