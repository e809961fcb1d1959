package domain

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func mustMul(t *testing.T, m Money, q int64) Money {
	t.Helper()

	total, err := m.Mul(q)
	require.NoError(t, err)
	return total
}

func mustFromDecimal(t *testing.T, s string) Money {
	t.Helper()

	m, err := MoneyFromDecimal(decimal.RequireFromString(s))
	require.NoError(t, err)
	return m
}

func TestMoney_String(t *testing.T) {
	require.Equal(t, "120.00", Money(12000).String())
	require.Equal(t, "0.05", Money(5).String())
	require.Equal(t, "0.00", Money(0).String())
	require.Equal(t, "360.00", mustMul(t, Money(12000), 3).String())
}

func TestMoneyFromDecimal(t *testing.T) {
	require.Equal(t, Money(12050), mustFromDecimal(t, "120.5"))
	require.Equal(t, Money(9999), mustFromDecimal(t, "99.99"))
	require.Equal(t, Money(1), mustFromDecimal(t, "0.005"))
	require.Equal(t, Money(11000), mustFromDecimal(t, "110"))
}

func TestMoneyFromDecimal_OutOfRange(t *testing.T) {
	_, err := MoneyFromDecimal(decimal.RequireFromString("100000000000000000"))
	require.ErrorIs(t, err, ErrAmountOutOfRange)

	_, err = MoneyFromDecimal(decimal.RequireFromString("-100000000000000000"))
	require.ErrorIs(t, err, ErrAmountOutOfRange)

	m := mustFromDecimal(t, "92233720368547758.07")
	require.Equal(t, Money(math.MaxInt64), m)
}

func TestMoney_MulOverflow(t *testing.T) {
	_, err := Money(9e17).Mul(20)
	require.ErrorIs(t, err, ErrAmountOutOfRange)

	_, err = Money(math.MinInt64).Mul(-1)
	require.ErrorIs(t, err, ErrAmountOutOfRange)

	require.Equal(t, Money(0), mustMul(t, Money(math.MaxInt64), 0))
	require.Equal(t, Money(-300), mustMul(t, Money(100), -3))
}

func TestMoney_AddOverflow(t *testing.T) {
	sum, err := Money(100).Add(250)
	require.NoError(t, err)
	require.Equal(t, Money(350), sum)

	_, err = Money(math.MaxInt64).Add(1)
	require.ErrorIs(t, err, ErrAmountOutOfRange)

	_, err = Money(math.MinInt64).Add(-1)
	require.ErrorIs(t, err, ErrAmountOutOfRange)
}

func TestMoney_DecimalRoundTrip(t *testing.T) {
	m := Money(7550)
	require.Equal(t, m, mustFromDecimal(t, m.Decimal().String()))
}

func TestNewProductInput_Validate(t *testing.T) {
	valid := NewProductInput{Name: "Red Onion", Category: "Storage Crops", Price: 4550, Stock: 300}
	require.NoError(t, valid.Validate())

	for _, in := range []NewProductInput{
		{Price: 0, Stock: 1},
		{Price: -5, Stock: 1},
		{Price: MaxPrice + 1, Stock: 1},
		{Price: 100, Stock: 0},
		{Price: 100, Stock: MaxStock + 1},
	} {
		require.ErrorIs(t, in.Validate(), ErrInvalidProduct)
	}
}
