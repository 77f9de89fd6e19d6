package catalog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/httpjson"
)

type ProductReader interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type Handler struct {
	repo   ProductReader
	out    *httpjson.Writer
	logger *slog.Logger
}

func NewHandler(repo ProductReader, out *httpjson.Writer, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		out:    out,
		logger: logger,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.out.Internal(w, "failed to fetch products", err)
		return
	}

	h.logger.Info("products listed", "count", len(products))
	h.out.JSON(w, http.StatusOK, products)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	product, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.out.Error(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("failed to get product", "error", err, "product_id", id)
		h.out.Internal(w, "failed to fetch product", err)
		return
	}

	h.out.JSON(w, http.StatusOK, product)
}
