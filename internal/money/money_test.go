package money

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinor(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  int64
	}{
		{"whole amount", 3000, 300000},
		{"two decimals", 12.34, 1234},
		{"half rounds up", 1.005, 101},
		{"below half rounds down", 12.344, 1234},
		{"above half rounds up", 12.346, 1235},
		{"zero", 0, 0},
		{"negative", -12.5, -1250},
		{"negative half rounds toward positive", -0.005, 0},
		{"float noise", 0.1 + 0.2, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToMinor(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToMinor_RejectsNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := ToMinor(v)
		assert.ErrorIs(t, err, ErrNotFinite)
	}
}

func TestFromDecimal_OutOfRange(t *testing.T) {
	_, err := FromDecimal(decimal.RequireFromString("1e20"))
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = FromDecimal(decimal.RequireFromString("-1e20"))
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.01, 0.1, 1, 12.5, 99.99, 1234.56, 10000000} {
		minor, err := ToMinor(v)
		require.NoError(t, err)
		assert.InDelta(t, v, ToMajor(minor), 0.005, "round trip of %v", v)
		assert.True(t, ToDecimal(minor).Equal(decimal.NewFromFloat(v).Round(2)), "decimal round trip of %v", v)
	}
}

func TestToDecimal(t *testing.T) {
	assert.Equal(t, "12.5", ToDecimal(1250).String())
	assert.Equal(t, "1000.00", ToDecimal(100000).StringFixed(2))
	assert.Equal(t, "-0.01", ToDecimal(-1).String())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$12.50", Format(1250, "USD"))
	assert.Equal(t, "-$12.50", Format(-1250, "usd"))
	assert.Equal(t, "¥980", Format(98000, "JPY"))
	assert.Equal(t, "€12,50", Format(1250, "EUR"))
	assert.Equal(t, "¥980", Format(98000, "XYZ"), "unknown codes use the default layout")
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, DefaultCurrency, Normalize(""))
	assert.Equal(t, "USD", Normalize(" usd "))
	assert.Equal(t, "XYZ", Normalize("xyz"))
}

func TestCodes(t *testing.T) {
	assert.Equal(t, []string{"CNY", "EUR", "GBP", "JPY", "KRW", "USD"}, Codes())
}
