package domain

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCart(t *testing.T) {
	t.Run("totals exclude dangling references", func(t *testing.T) {
		cart, err := NewCart(
			[]CartLine{
				{CartID: "c1", ProductID: "p1", Price: 499, Quantity: 3},
				{CartID: "c2", ProductID: "p2", Price: 1299, Quantity: 1},
			},
			[]DanglingReference{{CartID: "c3", ProductID: "gone", Quantity: 4}},
		)
		require.NoError(t, err)

		assert.Equal(t, int64(1497+1299), cart.Total)
		assert.Equal(t, 2, cart.Count)
		assert.Equal(t, int64(1497), cart.Items[0].Subtotal)
		assert.Len(t, cart.Dangling, 1)
	})

	t.Run("empty cart renders an empty item list", func(t *testing.T) {
		cart, err := NewCart(nil, nil)
		require.NoError(t, err)
		data, err := json.Marshal(cart)
		require.NoError(t, err)
		assert.JSONEq(t, `{"items":[],"total":0,"count":0}`, string(data))
	})

	t.Run("total that does not fit is an error", func(t *testing.T) {
		_, err := NewCart([]CartLine{
			{CartID: "c1", Price: math.MaxInt64 / 2, Quantity: 1},
			{CartID: "c2", Price: math.MaxInt64 / 2, Quantity: 3},
		}, nil)
		assert.ErrorIs(t, err, ErrAmountOverflow)
	})
}

func TestSumItems(t *testing.T) {
	items := []OrderItem{
		{Name: "a", Price: 250, Quantity: 2},
		{Name: "b", Price: 0, Quantity: 5},
		{Name: "c", Price: 99, Quantity: 1},
	}

	total, err := SumItems(items)
	require.NoError(t, err)
	assert.Equal(t, int64(599), total)
	assert.Equal(t, int64(500), items[0].Subtotal)
	assert.Equal(t, int64(0), items[1].Subtotal)
	assert.Equal(t, int64(99), items[2].Subtotal)

	total, err = SumItems(nil)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSumItemsOverflow(t *testing.T) {
	tests := []struct {
		name  string
		items []OrderItem
	}{
		{
			name:  "subtotal wraps",
			items: []OrderItem{{Name: "a", Price: math.MaxInt64 / 2, Quantity: 3}},
		},
		{
			name: "running total wraps",
			items: []OrderItem{
				{Name: "a", Price: math.MaxInt64 / 2, Quantity: 1},
				{Name: "b", Price: math.MaxInt64 / 2, Quantity: 1},
				{Name: "c", Price: 2, Quantity: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SumItems(tt.items)
			assert.ErrorIs(t, err, ErrAmountOverflow)
		})
	}

	total, err := SumItems([]OrderItem{{Name: "max", Price: math.MaxInt64, Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), total)
}

func TestOrderReceipt(t *testing.T) {
	order := &Order{
		ID:            "row-id",
		OrderID:       "order-1",
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		Items:         []OrderItem{{Name: "a", Price: 100, Quantity: 1, Subtotal: 100}},
		Total:         100,
		Status:        OrderStatusConfirmed,
		CreatedAt:     time.Date(2024, 5, 6, 7, 8, 9, 0, time.FixedZone("x", 3600)),
	}

	receipt := order.Receipt()
	assert.Equal(t, "order-1", receipt.OrderID)
	assert.Equal(t, "2024-05-06T06:08:09Z", receipt.Timestamp)
	assert.Equal(t, OrderStatusConfirmed, receipt.Status)
	assert.Equal(t, order.Items, receipt.Items)
}

func TestValidationError(t *testing.T) {
	assert.Equal(t, "email: is required", NewValidationError("email", "is required").Error())
	assert.Equal(t, "cart is empty", NewValidationError("", "cart is empty").Error())

	var err error = NewValidationError("quantity", "must be at least 1")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "quantity", verr.Field)
}
