package checkout

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/httpjson"
)

func newTestMux(ledger *memoryLedger, cart *fakeCart) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	processor := NewProcessor(ledger, cart, nil, nil, logger)
	handler := NewHandler(processor, ledger, httpjson.NewWriter(logger, false), logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/checkout", handler.HandleCheckout)
	mux.HandleFunc("GET /api/checkout/orders", handler.HandleListOrders)
	mux.HandleFunc("GET /api/checkout/orders/{orderId}", handler.HandleGetOrder)
	return mux
}

func postCheckout(mux *http.ServeMux, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandler_HandleCheckout(t *testing.T) {
	t.Run("returns a receipt", func(t *testing.T) {
		ledger := newMemoryLedger()
		cart := &fakeCart{entries: 1}
		mux := newTestMux(ledger, cart)

		rec := postCheckout(mux, `{
			"name": "A",
			"email": "a@x.com",
			"cartItems": [{"cart_id": "c-1", "product_id": "p-1", "name": "Classic White T-Shirt", "price": 499, "quantity": 3, "subtotal": 1497}]
		}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp checkoutResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Message != "Order placed successfully" {
			t.Errorf("unexpected message: %s", resp.Message)
		}
		if resp.Receipt.Total != 1497 {
			t.Errorf("expected total 1497, got %d", resp.Receipt.Total)
		}
		if resp.Receipt.Items[0].ProductID != "p-1" {
			t.Errorf("expected product id to be kept, got %q", resp.Receipt.Items[0].ProductID)
		}
		if cart.entries != 0 {
			t.Errorf("expected cart to be cleared, %d entries left", cart.entries)
		}

		rec = httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/checkout/orders/"+resp.Receipt.OrderID, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected receipt order id to resolve, got %d", rec.Code)
		}
	})

	t.Run("rejects empty cart without creating an order", func(t *testing.T) {
		ledger := newMemoryLedger()
		mux := newTestMux(ledger, &fakeCart{})

		rec := postCheckout(mux, `{"name":"A","email":"a@x.com","cartItems":[]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}

		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp["error"] != "cart is empty" {
			t.Errorf("unexpected error: %s", resp["error"])
		}
		if len(ledger.orders) != 0 {
			t.Errorf("expected no orders, got %d", len(ledger.orders))
		}
	})

	t.Run("rejects missing customer fields", func(t *testing.T) {
		ledger := newMemoryLedger()
		mux := newTestMux(ledger, &fakeCart{})

		rec := postCheckout(mux, `{"email":"a@x.com","cartItems":[{"name":"Mug","price":299,"quantity":1}]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		if len(ledger.orders) != 0 {
			t.Errorf("expected no orders, got %d", len(ledger.orders))
		}
	})

	t.Run("accepts an email without a domain", func(t *testing.T) {
		ledger := newMemoryLedger()
		rec := postCheckout(newTestMux(ledger, &fakeCart{}), `{"name":"Bob","email":"bob","cartItems":[{"name":"Mug","price":299,"quantity":1}]}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(ledger.orders) != 1 {
			t.Fatalf("expected 1 order, got %d", len(ledger.orders))
		}
	})

	t.Run("rejects totals that overflow", func(t *testing.T) {
		ledger := newMemoryLedger()
		rec := postCheckout(newTestMux(ledger, &fakeCart{}), `{"name":"A","email":"a@x.com","cartItems":[{"name":"Mug","price":4611686018427387903,"quantity":3}]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(ledger.orders) != 0 {
			t.Fatalf("expected no orders, got %d", len(ledger.orders))
		}
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		rec := postCheckout(newTestMux(newMemoryLedger(), &fakeCart{}), `not json`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("returns 500 when the order cannot be saved", func(t *testing.T) {
		ledger := newMemoryLedger()
		ledger.err = errStorage
		rec := postCheckout(newTestMux(ledger, &fakeCart{}), `{"name":"A","email":"a@x.com","cartItems":[{"name":"Mug","price":299,"quantity":1}]}`)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected status 500, got %d", rec.Code)
		}
	})
}

func TestHandler_Orders(t *testing.T) {
	ledger := newMemoryLedger()
	mux := newTestMux(ledger, &fakeCart{})

	for _, name := range []string{"first", "second", "third"} {
		rec := postCheckout(mux, `{"name":"`+name+`","email":"a@x.com","cartItems":[{"name":"Mug","price":299,"quantity":1}]}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("checkout failed: %d %s", rec.Code, rec.Body.String())
		}
	}

	t.Run("lists newest first", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/checkout/orders", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var orders []domain.Order
		if err := json.NewDecoder(rec.Body).Decode(&orders); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(orders) != 3 {
			t.Fatalf("expected 3 orders, got %d", len(orders))
		}
		if orders[0].CustomerName != "third" || orders[2].CustomerName != "first" {
			t.Errorf("unexpected order: %s, %s, %s", orders[0].CustomerName, orders[1].CustomerName, orders[2].CustomerName)
		}
	})

	t.Run("returns 404 for unknown order", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/checkout/orders/does-not-exist", nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("returns 500 when listing fails", func(t *testing.T) {
		failing := newMemoryLedger()
		failing.err = errStorage

		rec := httptest.NewRecorder()
		newTestMux(failing, &fakeCart{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/checkout/orders", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected status 500, got %d", rec.Code)
		}
	})
}
