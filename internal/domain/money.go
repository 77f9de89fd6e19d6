package domain

import (
	"errors"
	"math"
)

// Quantities are stored in INTEGER columns.
const MaxQuantity = math.MaxInt32

var ErrAmountOverflow = errors.New("amount out of range")

// lineAmount returns price × quantity for non-negative inputs and reports
// whether it fits in an int64.
func lineAmount(price int64, quantity int) (int64, bool) {
	if price < 0 || quantity < 0 {
		return 0, false
	}
	q := int64(quantity)
	if price != 0 && q > math.MaxInt64/price {
		return 0, false
	}
	return price * q, true
}

func addAmount(total, amount int64) (int64, bool) {
	if amount > math.MaxInt64-total {
		return 0, false
	}
	return total + amount, true
}
