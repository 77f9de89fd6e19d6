package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/telemetry"
	"github.com/joao-fontenele/storefront/internal/validation"
)

// afterCommitTimeout bounds the cart clear and event publish that follow a
// committed order.
const afterCommitTimeout = 5 * time.Second

type OrderStore interface {
	Create(ctx context.Context, order *domain.Order) error
}

type CartClearer interface {
	Clear(ctx context.Context) (int64, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type Request struct {
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	CartItems []SubmittedItem `json:"cartItems" validate:"dive"`
}

// SubmittedItem is a cart line as the client last saw it. Its price is
// taken at face value.
type SubmittedItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name" validate:"required"`
	Price     int64  `json:"price" validate:"min=0"`
	Quantity  int    `json:"quantity" validate:"min=1,max=2147483647"`
}

// Processor turns a submitted cart snapshot into a confirmed order.
type Processor struct {
	orders    OrderStore
	cart      CartClearer
	publisher EventPublisher
	metrics   *telemetry.StoreMetrics
	validator *validatorv10.Validate
	logger    *slog.Logger
}

// NewProcessor wires a processor. publisher may be nil, in which case no
// order events are emitted.
func NewProcessor(orders OrderStore, cart CartClearer, publisher EventPublisher, metrics *telemetry.StoreMetrics, logger *slog.Logger) *Processor {
	return &Processor{
		orders:    orders,
		cart:      cart,
		publisher: publisher,
		metrics:   metrics,
		validator: validation.New(),
		logger:    logger,
	}
}

// Validate checks a request without modifying it. Blank name and email are
// judged after trimming, but the values are stored as submitted.
func (p *Processor) Validate(req Request) error {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return domain.NewValidationError("", "name and email are required")
	}

	if len(req.CartItems) == 0 {
		return domain.NewValidationError("", "cart is empty")
	}

	return validation.Struct(p.validator, &req)
}

// Checkout persists the order, then clears the cart and publishes the order
// event. Only a failure to persist the order is returned: once the order is
// committed the receipt is always produced.
func (p *Processor) Checkout(ctx context.Context, req Request) (domain.Receipt, error) {
	if err := p.Validate(req); err != nil {
		return domain.Receipt{}, err
	}

	items := make([]domain.OrderItem, len(req.CartItems))
	for i, item := range req.CartItems {
		items[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	total, err := domain.SumItems(items)
	if err != nil {
		return domain.Receipt{}, domain.NewValidationError("cartItems", "order total is too large")
	}

	order := &domain.Order{
		OrderID:       uuid.New().String(),
		CustomerName:  req.Name,
		CustomerEmail: req.Email,
		Items:         items,
		Total:         total,
		Status:        domain.OrderStatusConfirmed,
	}

	if err := p.orders.Create(ctx, order); err != nil {
		return domain.Receipt{}, fmt.Errorf("save order: %w", err)
	}

	p.logger.Info("order saved", "order_id", order.OrderID, "total", order.Total, "items", len(order.Items))
	p.metrics.OrderPlaced(ctx, order.Total)

	// The order is committed: finish even if the caller goes away.
	afterCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), afterCommitTimeout)
	defer cancel()

	p.clearCart(afterCtx, order.OrderID)
	p.publish(afterCtx, order)

	return order.Receipt(), nil
}

func (p *Processor) publish(ctx context.Context, order *domain.Order) {
	if p.publisher == nil {
		return
	}

	event := domain.OrderPlacedEvent{
		OrderID:       order.OrderID,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Items:         order.Items,
		Total:         order.Total,
		Timestamp:     order.CreatedAt,
	}
	if err := p.publisher.Publish(ctx, order.OrderID, event); err != nil {
		p.logger.Error("failed to publish order placed event", "error", err, "order_id", order.OrderID)
	}
}

func (p *Processor) clearCart(ctx context.Context, orderID string) {
	removed, err := p.cart.Clear(ctx)
	if err != nil {
		p.metrics.CartClearFailed(ctx)
		p.logger.Error("failed to clear cart after checkout", "error", err, "order_id", orderID)
		return
	}
	p.logger.Info("cart cleared after checkout", "order_id", orderID, "removed", removed)
}
