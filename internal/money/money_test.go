package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ToMinorUnits(t *testing.T) {
	testCases := []struct {
		name     string
		amount   string
		expected int64
	}{
		{name: "whole amount", amount: "12", expected: 1200},
		{name: "two decimals", amount: "9.99", expected: 999},
		{name: "one decimal", amount: "12.3", expected: 1230},
		{name: "float drift prone value", amount: "0.29", expected: 29},
		{name: "zero", amount: "0", expected: 0},
		{name: "half cent rounds up", amount: "0.005", expected: 1},
		{name: "below half cent rounds down", amount: "0.0049", expected: 0},
		{name: "negative half cent rounds away from zero", amount: "-0.005", expected: -1},
		{name: "large amount", amount: "10000000.01", expected: 1000000001},
		{name: "upper bound", amount: "100000000000", expected: MaxCents},
		{name: "lower bound", amount: "-100000000000", expected: -MaxCents},
		{name: "rounds down onto the bound", amount: "100000000000.004", expected: MaxCents},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			amount, err := decimal.NewFromString(tc.amount)
			require.NoError(t, err)
			// when
			cents, err := ToMinorUnits(amount)
			// then
			require.NoError(t, err)
			assert.Equal(t, tc.expected, cents)
		})
	}
}

func Test_ToMinorUnits_OutOfRange(t *testing.T) {
	amounts := []string{
		"100000000000.01",
		"100000000000.005",
		"-100000000000.01",
		"92233720368547758.07",
		"92233720368547758.08",
		"184467440737095516.17",
		"1e20",
	}
	for _, a := range amounts {
		t.Run(a, func(t *testing.T) {
			cents, err := ToMinorUnits(decimal.RequireFromString(a))
			assert.ErrorIs(t, err, ErrOutOfRange)
			assert.Zero(t, cents)
		})
	}
}

func Test_ToDecimal(t *testing.T) {
	assert.Equal(t, "9.99", ToDecimal(999).StringFixed(2))
	assert.Equal(t, "0.05", ToDecimal(5).StringFixed(2))
	assert.Equal(t, "10000000.00", ToDecimal(1_000_000_000).StringFixed(2))
	assert.Equal(t, 9.99, Float(999))
	assert.Equal(t, 0.1, Float(10))
}

func Test_RoundTrip(t *testing.T) {
	amounts := []string{"0.01", "0.1", "0.29", "1.15", "9.99", "19.99", "123456.78", "9999999.99", "10000000.00"}
	for _, a := range amounts {
		t.Run(a, func(t *testing.T) {
			amount := decimal.RequireFromString(a)
			cents, err := ToMinorUnits(amount)
			require.NoError(t, err)
			back := ToDecimal(cents)
			assert.True(t, amount.Equal(back), "expected %s, got %s", amount, back)
		})
	}
}

func Test_RoundTrip_AllCentsUpToLimit(t *testing.T) {
	// sample every 9973rd cent value up to 10^9 cents
	for cents := int64(0); cents <= 1_000_000_000; cents += 9973 {
		amount := ToDecimal(cents)
		got, err := ToMinorUnits(amount)
		require.NoError(t, err)
		require.Equal(t, cents, got)
	}
}

func Test_RoundCents(t *testing.T) {
	assert.Equal(t, int64(1232), RoundCents(1232.3333))
	assert.Equal(t, int64(1233), RoundCents(1232.5))
	assert.Equal(t, int64(0), RoundCents(0))
}
