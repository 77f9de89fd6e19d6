package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/httpjson"
)

type Ledger interface {
	List(ctx context.Context) ([]domain.Order, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error)
}

type Handler struct {
	processor *Processor
	ledger    Ledger
	out       *httpjson.Writer
	logger    *slog.Logger
}

func NewHandler(processor *Processor, ledger Ledger, out *httpjson.Writer, logger *slog.Logger) *Handler {
	return &Handler{
		processor: processor,
		ledger:    ledger,
		out:       out,
		logger:    logger,
	}
}

type checkoutResponse struct {
	Message string         `json:"message"`
	Receipt domain.Receipt `json:"receipt"`
}

func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		h.out.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.logger.Info("processing checkout", "customer_email", req.Email, "items", len(req.CartItems))

	receipt, err := h.processor.Checkout(r.Context(), req)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			h.logger.Info("checkout rejected", "reason", verr.Error())
			h.out.Error(w, http.StatusBadRequest, verr.Error())
			return
		}
		h.logger.Error("failed to process checkout", "error", err)
		h.out.Internal(w, "failed to process checkout", err)
		return
	}

	h.logger.Info("order placed", "order_id", receipt.OrderID, "total", receipt.Total)
	h.out.JSON(w, http.StatusOK, checkoutResponse{
		Message: "Order placed successfully",
		Receipt: receipt,
	})
}

func (h *Handler) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.ledger.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		h.out.Internal(w, "failed to fetch orders", err)
		return
	}

	h.logger.Info("orders listed", "count", len(orders))
	h.out.JSON(w, http.StatusOK, orders)
}

func (h *Handler) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderId")

	order, err := h.ledger.GetByOrderID(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.out.Error(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("failed to get order", "error", err, "order_id", orderID)
		h.out.Internal(w, "failed to fetch order", err)
		return
	}

	h.logger.Info("order retrieved", "order_id", order.OrderID)
	h.out.JSON(w, http.StatusOK, order)
}
