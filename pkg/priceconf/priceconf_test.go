package priceconf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const maxPDVI64 = int64(MaxPDV)

func pc(price int64, conf uint64, expo int32) PriceConf {
	return PriceConf{Price: price, Conf: conf, Expo: expo}
}

func pcScaled(t *testing.T, price int64, conf uint64, curExpo, expo int32) PriceConf {
	t.Helper()
	scaled, ok := pc(price, conf, curExpo).ScaleToExponent(expo)
	require.True(t, ok)
	return scaled
}

func TestDiv(t *testing.T) {
	normed, ok := pc(math.MaxInt64, math.MaxUint64, 0).Normalize()
	require.True(t, ok)

	succeeds := []struct {
		name     string
		x, y     PriceConf
		expected PriceConf
	}{
		{"unit", pc(1, 1, 0), pc(1, 1, 0), pcScaled(t, 1, 2, 0, PDExpo)},
		{"unit negative expo", pc(1, 1, -8), pc(1, 1, -8), pcScaled(t, 1, 2, 0, PDExpo)},
		{"ten over one", pc(10, 1, 0), pc(1, 1, 0), pcScaled(t, 10, 11, 0, PDExpo)},
		{"positive expo", pc(1, 1, 1), pc(1, 1, 0), pcScaled(t, 10, 20, 0, PDExpo+1)},
		{"one over five", pc(1, 1, 0), pc(5, 1, 0), pcScaled(t, 20, 24, -2, PDExpo)},

		{"mixed expos", pc(100, 10, -8), pc(2, 1, -7), pcScaled(t, 500_000_000, 300_000_000, -8, PDExpo-1)},
		{"mixed expos wide", pc(100, 10, -4), pc(2, 1, 0), pcScaled(t, 500_000, 300_000, -8, PDExpo-4)},

		{"max normalized both", pc(maxPDVI64, MaxPDV, 0), pc(maxPDVI64, MaxPDV, 0), pcScaled(t, 1, 2, 0, PDExpo)},
		{"max normalized over one", pc(maxPDVI64, MaxPDV, 0), pc(1, 1, 0), pcScaled(t, maxPDVI64, 2*MaxPDV, 0, PDExpo)},
		{"one over max normalized", pc(1, 1, 0), pc(maxPDVI64, MaxPDV, 0),
			pc(int64(PDScale)/maxPDVI64, 2*(PDScale/MaxPDV), PDExpo)},
		{"wide confidence", pc(1, MaxPDV, 0), pc(1, MaxPDV, 0), pcScaled(t, 1, 2*MaxPDV, 0, PDExpo)},

		// BTC priced in ETH
		{"btc/eth", pc(520010*10_000_000, 310*10_000_000, -8), pc(38591*10_000_000, 18*10_000_000, -8),
			pc(1347490347, 1431804, -8)},

		{"int64 max both", pc(math.MaxInt64, math.MaxUint64, 0), pc(math.MaxInt64, math.MaxUint64, 0), pcScaled(t, 1, 4, 0, PDExpo)},
		{"int64 max over one", pc(math.MaxInt64, math.MaxUint64, 0), pc(1, 1, 0),
			pcScaled(t, normed.Price, 3*uint64(normed.Price), normed.Expo, normed.Expo+PDExpo)},
		{"one over int64 max", pc(1, 1, 0), pc(math.MaxInt64, math.MaxUint64, 0),
			pc(int64(PDScale)/normed.Price, 3*(PDScale/uint64(normed.Price)), PDExpo-normed.Expo)},
		{"int64 max tight conf", pc(math.MaxInt64, 1, 0), pc(math.MaxInt64, 1, 0), pcScaled(t, 1, 0, 0, PDExpo)},
		{"int64 max tight conf over one", pc(math.MaxInt64, 1, 0), pc(1, 1, 0),
			pcScaled(t, normed.Price, uint64(normed.Price), normed.Expo, normed.Expo+PDExpo)},
		{"one over int64 max tight conf", pc(1, 1, 0), pc(math.MaxInt64, 1, 0),
			pc(int64(PDScale)/normed.Price, PDScale/uint64(normed.Price), PDExpo-normed.Expo)},
	}

	for _, tc := range succeeds {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.x.Div(tc.y)
			require.True(t, ok)
			assert.Equal(t, tc.expected, got)
		})
	}

	fails := []struct {
		name string
		x, y PriceConf
	}{
		{"confidence too large for result", pc(maxPDVI64, MaxPDV, 0), pc(1, MaxPDV, 0)},
		{"zero numerator", pc(0, 1, 0), pc(1, 1, 0)},
		{"zero denominator", pc(1, 1, 0), pc(0, 1, 0)},
		{"negative numerator", pc(-5, 1, 0), pc(1, 1, 0)},
		{"denominator conf dominates", pc(1, 1, 0), pc(1, math.MaxUint64, 0)},
		{"numerator conf dominates", pc(1, math.MaxUint64, 0), pc(1, 1, 0)},
	}

	for _, tc := range fails {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := tc.x.Div(tc.y)
			assert.False(t, ok)
		})
	}
}

func TestMul(t *testing.T) {
	tests := []struct {
		name     string
		x, y     PriceConf
		expected PriceConf
	}{
		{"unit", pc(1, 1, 0), pc(1, 1, 0), pc(1, 2, 0)},
		{"negative expos", pc(1, 1, -8), pc(1, 1, -8), pc(1, 2, -16)},
		{"ten by one", pc(10, 1, 0), pc(1, 1, 0), pc(10, 11, 0)},
		{"positive expo", pc(1, 1, 1), pc(1, 1, 0), pc(1, 2, 1)},
		{"one by five", pc(1, 1, 0), pc(5, 1, 0), pc(5, 6, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.x.Mul(tc.y)
			require.True(t, ok)
			assert.Equal(t, tc.expected, got)
		})
	}

	_, ok := pc(0, 1, 0).Mul(pc(1, 1, 0))
	assert.False(t, ok)
	_, ok = pc(1, 1, 0).Mul(pc(1, math.MaxUint64, 0))
	assert.False(t, ok)
}

func TestCmul(t *testing.T) {
	got, ok := pc(150, 2, -2).Cmul(3, 1)
	require.True(t, ok)
	assert.Equal(t, pc(450, 6, -1), got)
}

func TestAdd(t *testing.T) {
	got, ok := pc(100, 3, -2).Add(pc(25, 1, -2))
	require.True(t, ok)
	assert.Equal(t, pc(125, 4, -2), got)

	_, ok = pc(100, 3, -2).Add(pc(25, 1, -3))
	assert.False(t, ok, "exponents differ")

	_, ok = pc(math.MaxInt64, 0, 0).Add(pc(1, 0, 0))
	assert.False(t, ok, "price overflow")

	_, ok = pc(1, math.MaxUint64, 0).Add(pc(1, 1, 0))
	assert.False(t, ok, "confidence overflow")
}

func TestNormalize(t *testing.T) {
	got, ok := pc(1_000_000_000, 5_000, -9).Normalize()
	require.True(t, ok)
	assert.Equal(t, pc(100_000_000, 500, -8), got)

	got, ok = pc(7, 3, 0).Normalize()
	require.True(t, ok)
	assert.Equal(t, pc(7, 3, 0), got)

	_, ok = pc(0, 0, 0).Normalize()
	assert.False(t, ok)
	_, ok = pc(-1, 0, 0).Normalize()
	assert.False(t, ok)
}

func TestScaleToExponent(t *testing.T) {
	got, ok := pc(12345, 267, -2).ScaleToExponent(0)
	require.True(t, ok)
	assert.Equal(t, pc(123, 2, 0), got)

	got, ok = pc(-12345, 267, -2).ScaleToExponent(0)
	require.True(t, ok)
	assert.Equal(t, pc(-123, 2, 0), got, "truncates toward zero")

	got, ok = pc(123, 1, 2).ScaleToExponent(0)
	require.True(t, ok)
	assert.Equal(t, pc(12300, 100, 0), got)

	got, ok = pc(1, math.MaxUint64, -1000).ScaleToExponent(1000)
	require.True(t, ok)
	assert.Equal(t, pc(0, 0, 1000), got)

	_, ok = pc(1, math.MaxUint64, 1000).ScaleToExponent(-1000)
	assert.False(t, ok)

	_, ok = pc(math.MaxInt64, 1, 0).ScaleToExponent(-1)
	assert.False(t, ok)
}

func TestDecimal(t *testing.T) {
	p := pc(7398000000, 3200000, -9)
	assert.Equal(t, "7.398", p.Decimal().String())
	assert.Equal(t, "0.0032", p.ConfDecimal().String())
	assert.Equal(t, "7.398 ± 0.0032", p.String())

	big := pc(123, math.MaxUint64, 2)
	assert.Equal(t, "12300", big.Decimal().String())
	assert.Equal(t, "1844674407370955161500", big.ConfDecimal().String())
}
