package api

import (
	"log/slog"
	"net/http"

	"github.com/rs/cors"

	"github.com/joao-fontenele/storefront/internal/cart"
	"github.com/joao-fontenele/storefront/internal/catalog"
	"github.com/joao-fontenele/storefront/internal/checkout"
	"github.com/joao-fontenele/storefront/internal/httpjson"
	"github.com/joao-fontenele/storefront/internal/telemetry"
)

const Version = "1.0.0"

type Handlers struct {
	Catalog  *catalog.Handler
	Cart     *cart.Handler
	Checkout *checkout.Handler
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

type Options struct {
	AllowedOrigins []string
}

// NewRouter assembles the storefront API. Routes that do not match get a
// JSON 404 and panics become a JSON 500.
func NewRouter(h Handlers, out *httpjson.Writer, logger *slog.Logger, opts Options) http.Handler {
	mux := http.NewServeMux()

	handle := func(pattern string, fn http.HandlerFunc) {
		mux.HandleFunc(pattern, telemetry.WithHTTPRoute(fn))
	}

	handle("GET /api/products", h.Catalog.HandleList)
	handle("GET /api/products/{id}", h.Catalog.HandleGet)

	handle("GET /api/cart", h.Cart.HandleGet)
	handle("POST /api/cart", h.Cart.HandleAdd)
	handle("DELETE /api/cart", h.Cart.HandleClear)
	handle("PUT /api/cart/{id}", h.Cart.HandleUpdate)
	handle("DELETE /api/cart/{id}", h.Cart.HandleRemove)

	handle("POST /api/checkout", h.Checkout.HandleCheckout)
	handle("GET /api/checkout/orders", h.Checkout.HandleListOrders)
	handle("GET /api/checkout/orders/{orderId}", h.Checkout.HandleGetOrder)

	handle("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		out.JSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Server is running"})
	})

	handle("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		out.JSON(w, http.StatusOK, serviceDescriptor())
	})

	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		out.Error(w, http.StatusNotFound, "route not found")
	})

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	return recoverPanics(logRequests(c.Handler(mux), logger), out, logger)
}

type descriptor struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Database  string            `json:"database"`
	Endpoints map[string]string `json:"endpoints"`
}

func serviceDescriptor() descriptor {
	return descriptor{
		Message:  "E-Commerce Cart API",
		Version:  Version,
		Database: "PostgreSQL",
		Endpoints: map[string]string{
			"health":    "/api/health",
			"products":  "/api/products",
			"cart":      "/api/cart",
			"checkout":  "/api/checkout",
			"orders":    "/api/checkout/orders",
			"orderById": "/api/checkout/orders/{orderId}",
		},
	}
}
