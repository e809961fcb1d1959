package utils

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func TestParseWithFallback(t *testing.T) {
	t.Setenv("STOREFRONT_TEST_VALUE", "")
	require.Equal(t, "fallback", ParseWithFallback("STOREFRONT_TEST_VALUE", "fallback"))

	t.Setenv("STOREFRONT_TEST_VALUE", "   ")
	require.Equal(t, "fallback", ParseWithFallback("STOREFRONT_TEST_VALUE", "fallback"))

	t.Setenv("STOREFRONT_TEST_VALUE", " set ")
	require.Equal(t, "set", ParseWithFallback("STOREFRONT_TEST_VALUE", "fallback"))
}

func TestSampler(t *testing.T) {
	always := sdktrace.AlwaysSample().Description()
	require.Equal(t, always, sampler(0).Description())
	require.Equal(t, always, sampler(1).Description())
	require.NotEqual(t, always, sampler(0.25).Description())
}

func TestToken_RoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", 42, "farmer", time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken("secret", token)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "farmer", claims.Role)
	require.NotEmpty(t, claims.ID)
}

func TestToken_Rejected(t *testing.T) {
	token, err := GenerateToken("secret", 1, "buyer", time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken("other", token)
	require.Error(t, err)

	expired, err := GenerateToken("secret", 1, "farmer", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken("secret", expired)
	require.Error(t, err)

	_, err = GenerateToken("", 1, "farmer", time.Minute)
	require.ErrorIs(t, err, ErrMissingSecret)
}

type priceInput struct {
	Name     string          `json:"name" validate:"required,min=3"`
	Price    decimal.Decimal `json:"price" validate:"required,gt=0,lte=10000000"`
	ImageUrl string          `json:"image_url" validate:"omitempty,url"`
}

func TestValidator_Decimal(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Struct(priceInput{Name: "Rice", Price: decimal.RequireFromString("120.50")}))

	err := v.Struct(priceInput{Name: "Ri", Price: decimal.NewFromInt(-1), ImageUrl: "not a url"})
	require.Error(t, err)

	formatted := FormatValidationError(err)
	require.Equal(t, "name must be at least 3 characters", formatted["name"])
	require.Equal(t, "price must be greater than 0", formatted["price"])
	require.Equal(t, "image_url must be a valid URL", formatted["image_url"])

	err = v.Struct(priceInput{Name: "Rice", Price: decimal.RequireFromString("100000000000000000")})
	require.Error(t, err)
	require.Equal(t, "price must be at most 10000000", FormatValidationError(err)["price"])
}

func TestFormatValidationError_NonValidation(t *testing.T) {
	formatted := FormatValidationError(errors.New("boom"))
	require.Equal(t, map[string]string{"input": "boom"}, formatted)
}

func TestExecuteWithBreaker(t *testing.T) {
	cb := NewBreaker("test", zap.NewNop())

	res, err := ExecuteWithBreaker(cb, func() (int, error) { return 7, nil })
	require.NoError(t, err)
	require.Equal(t, 7, res)

	boom := errors.New("boom")
	for i := 0; i < 4; i++ {
		_, err = ExecuteWithBreaker(cb, func() (int, error) { return 0, boom })
		require.ErrorIs(t, err, boom)
	}

	_, err = ExecuteWithBreaker(cb, func() (int, error) { return 1, nil })
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
}

type countingSweeper struct {
	calls atomic.Int32
}

func (c *countingSweeper) Sweep() int {
	c.calls.Add(1)
	return 1
}

func TestRunJanitor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	first, second := &countingSweeper{}, &countingSweeper{}

	done := make(chan struct{})
	go func() {
		defer close(done)
		RunJanitor(ctx, 5*time.Millisecond, zap.NewNop(), first, second)
	}()

	require.Eventually(t, func() bool {
		return first.calls.Load() >= 2 && second.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
