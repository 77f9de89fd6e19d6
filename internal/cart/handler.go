package cart

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/httpjson"
	"github.com/joao-fontenele/storefront/internal/telemetry"
	"github.com/joao-fontenele/storefront/internal/validation"
)

type Store interface {
	Get(ctx context.Context) (domain.Cart, error)
	Add(ctx context.Context, productID string, quantity int) (domain.AddOutcome, error)
	UpdateQuantity(ctx context.Context, id string, quantity int) (int, error)
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) (int64, error)
}

type Handler struct {
	store     Store
	validator *validatorv10.Validate
	metrics   *telemetry.StoreMetrics
	out       *httpjson.Writer
	logger    *slog.Logger
}

func NewHandler(store Store, metrics *telemetry.StoreMetrics, out *httpjson.Writer, logger *slog.Logger) *Handler {
	return &Handler{
		store:     store,
		validator: validation.New(),
		metrics:   metrics,
		out:       out,
		logger:    logger,
	}
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	cart, err := h.store.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to fetch cart", "error", err)
		h.out.Internal(w, "failed to fetch cart", err)
		return
	}

	if len(cart.Dangling) > 0 {
		h.logger.Warn("cart references missing products", "dangling", len(cart.Dangling))
	}

	h.out.JSON(w, http.StatusOK, cart)
}

type addRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity" validate:"omitempty,min=1,max=2147483647"`
}

type addResponse struct {
	Message  string `json:"message"`
	CartID   string `json:"cartId"`
	Quantity int    `json:"quantity"`
}

func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := validation.DecodeAndValidate(r, &req, h.validator); err != nil {
		h.out.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	outcome, err := h.store.Add(r.Context(), req.ProductID, quantity)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.out.Error(w, http.StatusNotFound, "product not found")
			return
		}
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			h.out.Error(w, http.StatusBadRequest, verr.Error())
			return
		}
		h.logger.Error("failed to add to cart", "error", err, "product_id", req.ProductID)
		h.out.Internal(w, "failed to add to cart", err)
		return
	}

	h.metrics.CartItemAdded(r.Context(), string(outcome.Result))

	status, message := http.StatusOK, "Cart updated successfully"
	if outcome.Result == domain.AddResultCreated {
		status, message = http.StatusCreated, "Item added to cart successfully"
	}

	h.logger.Info("cart item added", "cart_id", outcome.CartID, "product_id", req.ProductID, "quantity", outcome.Quantity, "result", outcome.Result)
	h.out.JSON(w, status, addResponse{
		Message:  message,
		CartID:   outcome.CartID,
		Quantity: outcome.Quantity,
	})
}

type updateRequest struct {
	Quantity int `json:"quantity" validate:"min=1,max=2147483647"`
}

type updateResponse struct {
	Message  string `json:"message"`
	Quantity int    `json:"quantity"`
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateRequest
	if err := validation.DecodeAndValidate(r, &req, h.validator); err != nil {
		h.out.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	quantity, err := h.store.UpdateQuantity(r.Context(), id, req.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.out.Error(w, http.StatusNotFound, "cart item not found")
			return
		}
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			h.out.Error(w, http.StatusBadRequest, verr.Error())
			return
		}
		h.logger.Error("failed to update cart", "error", err, "cart_id", id)
		h.out.Internal(w, "failed to update cart", err)
		return
	}

	h.logger.Info("cart item updated", "cart_id", id, "quantity", quantity)
	h.out.JSON(w, http.StatusOK, updateResponse{
		Message:  "Cart updated successfully",
		Quantity: quantity,
	})
}

func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.store.Remove(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.out.Error(w, http.StatusNotFound, "cart item not found")
			return
		}
		h.logger.Error("failed to remove cart item", "error", err, "cart_id", id)
		h.out.Internal(w, "failed to remove item from cart", err)
		return
	}

	h.logger.Info("cart item removed", "cart_id", id)
	h.out.Message(w, http.StatusOK, "Item removed from cart successfully")
}

func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	removed, err := h.store.Clear(r.Context())
	if err != nil {
		h.logger.Error("failed to clear cart", "error", err)
		h.out.Internal(w, "failed to clear cart", err)
		return
	}

	h.logger.Info("cart cleared", "removed", removed)
	h.out.Message(w, http.StatusOK, "Cart cleared successfully")
}
