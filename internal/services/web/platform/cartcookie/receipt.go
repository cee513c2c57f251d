package cartcookie

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/storefront/internal/pricing"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/louisbranch/storefront/internal/services/web/platform/requestmeta"
)

const (
	// ReceiptCookieName holds the last placed order for the confirmation
	// page, so guests can see it without an account.
	ReceiptCookieName = "sf_receipt"
	receiptPath       = "/order-confirmation/"
	receiptMaxAge     = time.Hour
)

// WriteReceipt stores order for the confirmation page. Cart lines are
// dropped when the order is too large for a cookie.
func WriteReceipt(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy, order storage.Order) {
	if w == nil || strings.TrimSpace(order.ID) == "" {
		return
	}
	order.Cart = append([]pricing.CartItem(nil), order.Cart...)
	for i := range order.Cart {
		order.Cart[i].ImageURL = ""
	}
	value, ok := encodeReceipt(order)
	if !ok || len(value) > maxCookieBytes {
		order.Cart = nil
		if value, ok = encodeReceipt(order); !ok || len(value) > maxCookieBytes {
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     ReceiptCookieName,
		Value:    value,
		Path:     receiptPath,
		MaxAge:   int(receiptMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   policy.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadReceipt returns the stored order when it matches orderID.
func ReadReceipt(r *http.Request, orderID string) (storage.Order, bool) {
	if r == nil {
		return storage.Order{}, false
	}
	cookie, err := r.Cookie(ReceiptCookieName)
	if err != nil {
		return storage.Order{}, false
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(cookie.Value))
	if err != nil {
		return storage.Order{}, false
	}
	var order storage.Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return storage.Order{}, false
	}
	if order.ID == "" || order.ID != strings.TrimSpace(orderID) {
		return storage.Order{}, false
	}
	return order, true
}

func encodeReceipt(order storage.Order) (string, bool) {
	payload, err := json.Marshal(order)
	if err != nil {
		return "", false
	}
	return base64.RawURLEncoding.EncodeToString(payload), true
}
