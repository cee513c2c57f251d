package cartcookie

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/storefront/internal/pricing"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/louisbranch/storefront/internal/services/web/platform/requestmeta"
)

func TestAddMergesMatchingLines(t *testing.T) {
	var cart Cart
	mustAdd(t, &cart, pricing.CartItem{ProductID: "p1", Name: "Tee", Price: 10, Qty: 1, Variation1: "M"})
	mustAdd(t, &cart, pricing.CartItem{ProductID: "p1", Name: "Tee", Price: 12, Qty: 2, Variation1: "M"})
	mustAdd(t, &cart, pricing.CartItem{ProductID: "p1", Name: "Tee", Price: 12, Qty: 1, Variation1: "L"})

	if len(cart.Items) != 2 {
		t.Fatalf("lines = %d, want 2", len(cart.Items))
	}
	if cart.Items[0].Qty != 3 || cart.Items[0].Price != 12 {
		t.Fatalf("merged line = %+v", cart.Items[0])
	}
	if cart.Count() != 4 {
		t.Fatalf("count = %d, want 4", cart.Count())
	}
}

func TestAddCapsQuantityAndLines(t *testing.T) {
	var cart Cart
	mustAdd(t, &cart, pricing.CartItem{ProductID: "p1", Price: 1, Qty: MaxQty + 5})
	if cart.Items[0].Qty != MaxQty {
		t.Fatalf("qty = %d, want %d", cart.Items[0].Qty, MaxQty)
	}
	for i := 1; i < MaxLines; i++ {
		mustAdd(t, &cart, pricing.CartItem{ProductID: "p1", Price: 1, Qty: 1, Variation1: strings.Repeat("x", i)})
	}
	if err := cart.Add(pricing.CartItem{ProductID: "p2", Price: 1, Qty: 1}); err != ErrCartFull {
		t.Fatalf("err = %v, want ErrCartFull", err)
	}
}

func TestSetQtyAndRemove(t *testing.T) {
	cart := Cart{Items: []pricing.CartItem{
		{ProductID: "a", Price: 1, Qty: 1},
		{ProductID: "b", Price: 1, Qty: 1},
	}}
	if !cart.SetQty(1, 4) || cart.Items[1].Qty != 4 {
		t.Fatalf("set qty failed: %+v", cart.Items)
	}
	if cart.SetQty(5, 1) {
		t.Fatal("out of range index accepted")
	}
	if !cart.SetQty(0, 0) {
		t.Fatal("zero qty did not remove")
	}
	if len(cart.Items) != 1 || cart.Items[0].ProductID != "b" {
		t.Fatalf("items = %+v", cart.Items)
	}
	if !cart.Remove(0) || !cart.Empty() {
		t.Fatalf("remove failed: %+v", cart.Items)
	}
}

func TestWriteThenRead(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "https://shop.example.test/cart/add", nil)
	rr := httptest.NewRecorder()
	cart := Cart{Items: []pricing.CartItem{{ProductID: "p1", Slug: "tee", Name: "Tee", Price: 10, DiscountPrice: pricing.Float(8), Qty: 2}}}
	if err := Write(rr, req, requestmeta.SchemePolicy{}, cart); err != nil {
		t.Fatalf("write: %v", err)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || !cookies[0].HttpOnly {
		t.Fatalf("cookies = %+v", cookies)
	}

	next := httptest.NewRequest(http.MethodGet, "/cart", nil)
	next.AddCookie(cookies[0])
	got := Read(next)
	if len(got.Items) != 1 || got.Items[0].Slug != "tee" || pricing.UnitPrice(got.Items[0]) != 8 {
		t.Fatalf("read = %+v", got.Items)
	}
}

func TestWriteEmptyCartClears(t *testing.T) {
	rr := httptest.NewRecorder()
	if err := Write(rr, httptest.NewRequest(http.MethodPost, "/cart/clear", nil), requestmeta.SchemePolicy{}, Cart{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("cookies = %+v", cookies)
	}
}

func TestReadIgnoresCorruptAndInvalidLines(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "%%%"})
	if got := Read(req); !got.Empty() {
		t.Fatalf("corrupt cookie decoded: %+v", got)
	}

	raw, err := encode(Cart{Items: []pricing.CartItem{
		{ProductID: "", Price: 1, Qty: 1},
		{ProductID: "p1", Price: 1, Qty: 0},
		{ProductID: "p2", Price: -1, Qty: 1},
		{ProductID: "p3", Price: 2, Qty: 500},
	}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: raw})
	got := Read(req)
	if len(got.Items) != 1 || got.Items[0].ProductID != "p3" || got.Items[0].Qty != MaxQty {
		t.Fatalf("items = %+v", got.Items)
	}
}

func mustAdd(t *testing.T, cart *Cart, item pricing.CartItem) {
	t.Helper()
	if err := cart.Add(item); err != nil {
		t.Fatalf("add: %v", err)
	}
}

func TestReceiptRoundTripMatchesOrderID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	rr := httptest.NewRecorder()
	WriteReceipt(rr, req, requestmeta.SchemePolicy{}, storage.Order{
		ID:        "order-1",
		FirstName: "Ada",
		Cart:      []pricing.CartItem{{ProductID: "p1", Name: "Tee", Price: 10, Qty: 1, ImageURL: "https://img.example.test/tee.png"}},
		Total:     18,
	})
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Path != "/order-confirmation/" {
		t.Fatalf("cookies = %+v", cookies)
	}

	next := httptest.NewRequest(http.MethodGet, "/order-confirmation/order-1", nil)
	next.AddCookie(cookies[0])
	order, ok := ReadReceipt(next, "order-1")
	if !ok || order.FirstName != "Ada" || len(order.Cart) != 1 || order.Cart[0].ImageURL != "" {
		t.Fatalf("receipt = %+v, %v", order, ok)
	}
	if _, ok := ReadReceipt(next, "order-2"); ok {
		t.Fatal("receipt matched another order")
	}
}
