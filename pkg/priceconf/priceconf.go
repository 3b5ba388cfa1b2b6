// Package priceconf implements fixed-point arithmetic on prices that carry a
// confidence interval, as published by the oracle.
//
// A PriceConf {Price: 12345, Conf: 267, Expo: -2} reads 123.45 ± 2.67.
// Operations that cannot represent their result return ok=false.
package priceconf

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"

	"github.com/shopspring/decimal"
)

const (
	// PDExpo is the extra precision, in decimal digits, carried by quotients.
	PDExpo int32 = -9
	// PDScale is 10^-PDExpo.
	PDScale uint64 = 1_000_000_000
	// MaxPDV bounds normalized prices and confidences (28 bits).
	MaxPDV uint64 = 1<<28 - 1
)

// PriceConf is a price ± confidence pair sharing the exponent Expo.
type PriceConf struct {
	Price int64
	Conf  uint64
	Expo  int32
}

// Decimal returns the price as an exact decimal.
func (pc PriceConf) Decimal() decimal.Decimal {
	return decimal.New(pc.Price, pc.Expo)
}

// ConfDecimal returns the confidence as an exact decimal.
func (pc PriceConf) ConfDecimal() decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(pc.Conf), pc.Expo)
}

func (pc PriceConf) String() string {
	return fmt.Sprintf("%s ± %s", pc.Decimal().String(), pc.ConfDecimal().String())
}

// Normalize scales price and confidence down until both are at most MaxPDV.
// It fails for non-positive prices and when the price rounds to zero, which
// happens when the confidence is much larger than the price.
func (pc PriceConf) Normalize() (PriceConf, bool) {
	if pc.Price <= 0 {
		return PriceConf{}, false
	}

	p := uint64(pc.Price)
	c := pc.Conf
	e := pc.Expo
	for p > MaxPDV || c > MaxPDV {
		p /= 10
		c /= 10
		e++
	}

	if p == 0 {
		return PriceConf{}, false
	}
	return PriceConf{Price: int64(p), Conf: c, Expo: e}, true
}

// ScaleToExponent rewrites pc with exponent target. Scaling up truncates
// digits; scaling down fails on overflow.
func (pc PriceConf) ScaleToExponent(target int32) (PriceConf, bool) {
	delta := int64(target) - int64(pc.Expo)
	p, c := pc.Price, pc.Conf

	if delta >= 0 {
		for ; delta > 0 && (p != 0 || c != 0); delta-- {
			p /= 10
			c /= 10
		}
		return PriceConf{Price: p, Conf: c, Expo: target}, true
	}

	for ; delta < 0; delta++ {
		if p > math.MaxInt64/10 || p < math.MinInt64/10 || c > math.MaxUint64/10 {
			return PriceConf{}, false
		}
		p *= 10
		c *= 10
	}
	return PriceConf{Price: p, Conf: c, Expo: target}, true
}

// Div divides pc by other, propagating both uncertainties. The result
// carries PDExpo extra digits when both inputs are normalized.
//
// The confidence uses the 1-norm midprice * (c1 + c2) of the relative
// confidences instead of the 2-norm, overestimating by at most sqrt(2).
// Div fails unless both prices are positive and the result confidence fits
// in 64 bits.
func (pc PriceConf) Div(other PriceConf) (PriceConf, bool) {
	base, ok := pc.Normalize()
	if !ok {
		return PriceConf{}, false
	}
	quote, ok := other.Normalize()
	if !ok {
		return PriceConf{}, false
	}

	// normalized: at most 28 bits each
	basePrice := uint64(base.Price)
	quotePrice := uint64(quote.Price)

	midprice := basePrice * PDScale / quotePrice
	midpriceExpo := PDExpo + base.Expo - quote.Expo

	baseConfPct := base.Conf * PDScale / basePrice
	quoteConfPct := quote.Conf * PDScale / quotePrice
	confPct := baseConfPct + quoteConfPct

	// confPct * midprice needs up to 115 bits
	hi, lo := bits.Mul64(confPct, midprice)
	if hi >= PDScale {
		return PriceConf{}, false
	}
	conf, _ := bits.Div64(hi, lo, PDScale)
	if conf == math.MaxUint64 {
		return PriceConf{}, false
	}

	return PriceConf{Price: int64(midprice), Conf: conf, Expo: midpriceExpo}, true
}

// Mul multiplies pc by other. The confidence is p1*c2 + p2*c1.
func (pc PriceConf) Mul(other PriceConf) (PriceConf, bool) {
	base, ok := pc.Normalize()
	if !ok {
		return PriceConf{}, false
	}
	factor, ok := other.Normalize()
	if !ok {
		return PriceConf{}, false
	}

	return PriceConf{
		Price: base.Price * factor.Price,
		Conf:  base.Conf*uint64(factor.Price) + factor.Conf*uint64(base.Price),
		Expo:  base.Expo + factor.Expo,
	}, true
}

// Cmul multiplies pc by the exact constant c * 10^e.
func (pc PriceConf) Cmul(c int64, e int32) (PriceConf, bool) {
	return pc.Mul(PriceConf{Price: c, Conf: 0, Expo: e})
}

// Add sums two values with the same exponent. Confidences add linearly.
func (pc PriceConf) Add(other PriceConf) (PriceConf, bool) {
	if pc.Expo != other.Expo {
		return PriceConf{}, false
	}

	price, overflow := addInt64(pc.Price, other.Price)
	if overflow {
		return PriceConf{}, false
	}
	conf, carry := bits.Add64(pc.Conf, other.Conf, 0)
	if carry != 0 {
		return PriceConf{}, false
	}

	return PriceConf{Price: price, Conf: conf, Expo: pc.Expo}, true
}

func addInt64(a, b int64) (int64, bool) {
	s := a + b
	return s, (a > 0 && b > 0 && s < 0) || (a < 0 && b < 0 && s >= 0)
}
