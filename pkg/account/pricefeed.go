package account

import (
	"github.com/LeJamon/goPyth/pkg/priceconf"
	"github.com/shopspring/decimal"
)

// CurrentPrice returns the aggregate price and confidence. ok is false
// unless the aggregate status is Trading.
func (p *Price) CurrentPrice() (pc priceconf.PriceConf, ok bool) {
	agg := p.Aggregate()
	if agg.Status != PriceStatusTrading {
		return priceconf.PriceConf{}, false
	}
	return priceconf.PriceConf{Price: agg.Price, Conf: agg.Conf, Expo: p.Exponent()}, true
}

// TWAPPrice returns the time-weighted average price, with the time-weighted
// average confidence as its interval.
func (p *Price) TWAPPrice() (priceconf.PriceConf, bool) {
	// twac is a non-negative i64
	return priceconf.PriceConf{Price: p.TWAP().Val, Conf: uint64(p.TWAC().Val), Expo: p.Exponent()}, true
}

// PriceInQuote prices this product in the currency of quote: given X/Z here
// and Y/Z in quote it returns X/Y scaled to resultExpo.
func (p *Price) PriceInQuote(quote *Price, resultExpo int32) (priceconf.PriceConf, bool) {
	base, ok := p.CurrentPrice()
	if !ok {
		return priceconf.PriceConf{}, false
	}
	q, ok := quote.CurrentPrice()
	if !ok {
		return priceconf.PriceConf{}, false
	}
	ratio, ok := base.Div(q)
	if !ok {
		return priceconf.PriceConf{}, false
	}
	return ratio.ScaleToExponent(resultExpo)
}

// RealPrice is the aggregate mantissa scaled by the exponent, whatever the
// status.
func (p *Price) RealPrice() decimal.Decimal {
	return decimal.New(p.Aggregate().Price, p.Exponent())
}

// RealConf is the aggregate confidence scaled by the exponent.
func (p *Price) RealConf() decimal.Decimal {
	agg := p.Aggregate()
	return priceconf.PriceConf{Price: agg.Price, Conf: agg.Conf, Expo: p.Exponent()}.ConfDecimal()
}

// BasketItem is one leg of a basket: Qty * 10^QtyExpo units priced by Price.
type BasketItem struct {
	Price   *Price
	Qty     int64
	QtyExpo int32
}

// PriceBasket values a basket of products, for example an LP token, as the
// sum of price * qty * 10^qtyExpo expressed with exponent resultExpo. It
// fails if any leg is not trading or the sum cannot be represented.
func PriceBasket(items []BasketItem, resultExpo int32) (priceconf.PriceConf, bool) {
	if len(items) == 0 {
		return priceconf.PriceConf{}, false
	}

	total := priceconf.PriceConf{Expo: resultExpo}
	for _, item := range items {
		current, ok := item.Price.CurrentPrice()
		if !ok {
			return priceconf.PriceConf{}, false
		}
		value, ok := current.Cmul(item.Qty, item.QtyExpo)
		if !ok {
			return priceconf.PriceConf{}, false
		}
		value, ok = value.ScaleToExponent(resultExpo)
		if !ok {
			return priceconf.PriceConf{}, false
		}
		total, ok = total.Add(value)
		if !ok {
			return priceconf.PriceConf{}, false
		}
	}
	return total, true
}
