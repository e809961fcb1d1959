package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor currency units.
type Money int64

const minorExponent = 2

var (
	maxMoney = decimal.NewFromInt(math.MaxInt64)
	minMoney = decimal.NewFromInt(math.MinInt64)
)

// MoneyFromDecimal rounds d to minor units. Amounts that do not fit in
// Money fail with ErrAmountOutOfRange.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	minor := d.Shift(minorExponent).Round(0)
	if minor.GreaterThan(maxMoney) || minor.LessThan(minMoney) {
		return 0, fmt.Errorf("amount %s: %w", d.String(), ErrAmountOutOfRange)
	}

	return Money(minor.IntPart()), nil
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -minorExponent)
}

// Mul multiplies by a quantity, failing with ErrAmountOutOfRange on overflow.
func (m Money) Mul(quantity int64) (Money, error) {
	if m == 0 || quantity == 0 {
		return 0, nil
	}

	product := int64(m) * quantity
	if product/quantity != int64(m) || (quantity == -1 && m == math.MinInt64) {
		return 0, fmt.Errorf("%s x %d: %w", m, quantity, ErrAmountOutOfRange)
	}

	return Money(product), nil
}

// Add sums two amounts, failing with ErrAmountOutOfRange on overflow.
func (m Money) Add(other Money) (Money, error) {
	if (other > 0 && m > math.MaxInt64-other) || (other < 0 && m < math.MinInt64-other) {
		return 0, fmt.Errorf("%s + %s: %w", m, other, ErrAmountOutOfRange)
	}

	return m + other, nil
}

// String renders the amount with two decimals, e.g. 36000 -> "360.00".
func (m Money) String() string {
	return m.Decimal().StringFixed(minorExponent)
}
