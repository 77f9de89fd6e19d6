package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// StoreMetrics holds the business instruments recorded by the storefront.
// Instruments come from the global MeterProvider, so they are no-ops until
// InitMeterProvider has run.
type StoreMetrics struct {
	cartAdditions     metric.Int64Counter
	ordersPlaced      metric.Int64Counter
	orderRevenue      metric.Int64Counter
	cartClearFailures metric.Int64Counter
}

func NewStoreMetrics() (*StoreMetrics, error) {
	meter := otel.Meter("storefront")

	cartAdditions, err := meter.Int64Counter("storefront.cart.additions",
		metric.WithDescription("Add-to-cart calls by outcome"))
	if err != nil {
		return nil, err
	}

	ordersPlaced, err := meter.Int64Counter("storefront.orders.placed",
		metric.WithDescription("Orders committed by checkout"))
	if err != nil {
		return nil, err
	}

	orderRevenue, err := meter.Int64Counter("storefront.orders.revenue",
		metric.WithDescription("Sum of order totals"),
		metric.WithUnit("{minor_unit}"))
	if err != nil {
		return nil, err
	}

	cartClearFailures, err := meter.Int64Counter("storefront.cart.clear_failures",
		metric.WithDescription("Cart clears after checkout that failed"))
	if err != nil {
		return nil, err
	}

	return &StoreMetrics{
		cartAdditions:     cartAdditions,
		ordersPlaced:      ordersPlaced,
		orderRevenue:      orderRevenue,
		cartClearFailures: cartClearFailures,
	}, nil
}

func (m *StoreMetrics) CartItemAdded(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.cartAdditions.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func (m *StoreMetrics) OrderPlaced(ctx context.Context, total int64) {
	if m == nil {
		return
	}
	m.ordersPlaced.Add(ctx, 1)
	m.orderRevenue.Add(ctx, total)
}

func (m *StoreMetrics) CartClearFailed(ctx context.Context) {
	if m == nil {
		return
	}
	m.cartClearFailures.Add(ctx, 1)
}
