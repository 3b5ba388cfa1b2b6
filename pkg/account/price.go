package account

import (
	"fmt"
	"iter"
)

const (
	// MaxComponents is the number of publisher slots in a full price account.
	MaxComponents = 32

	// PriceInfoBytes is the encoded size of a PriceInfo.
	PriceInfoBytes = 32

	// EmaBytes is the encoded size of an Ema.
	EmaBytes = 24

	// ComponentBytes is the encoded size of a PriceComponent.
	ComponentBytes = KeyBytes + 2*PriceInfoBytes

	// PriceHeaderBytes is where the component array starts.
	PriceHeaderBytes = priceOffComponents

	// PriceBytes is the size of a price account with every slot present.
	PriceBytes = priceOffComponents + MaxComponents*ComponentBytes
)

// price account field offsets
const (
	priceOffType       = 16
	priceOffExpo       = 20
	priceOffNum        = 24
	priceOffNumQt      = 28
	priceOffLastSlot   = 32
	priceOffValidSlot  = 40
	priceOffTWAP       = 48
	priceOffTWAC       = 72
	priceOffDrv1       = 96
	priceOffDrv2       = 104
	priceOffProduct    = 112
	priceOffNext       = 144
	priceOffPrevSlot   = 176
	priceOffPrevPrice  = 184
	priceOffPrevConf   = 192
	priceOffDrv3       = 200
	priceOffAggregate  = 208
	priceOffComponents = 240
)

// PriceInfo is a price with its confidence, status and publish slot. It is
// used both for the aggregate and for publisher contributions.
type PriceInfo struct {
	Price      int64
	Conf       uint64
	Status     PriceStatus
	CorpAction CorpAction
	PubSlot    uint64
}

func decodePriceInfo(buf []byte, off int) PriceInfo {
	return PriceInfo{
		Price:      i64(buf, off),
		Conf:       u64(buf, off+8),
		Status:     DecodePriceStatus(u32(buf, off+16)),
		CorpAction: DecodeCorpAction(u32(buf, off+20)),
		PubSlot:    u64(buf, off+24),
	}
}

// Ema is an exponentially weighted moving average; Val is the current value.
type Ema struct {
	Val   int64
	Numer int64
	Denom int64
}

func decodeEma(buf []byte, off int) Ema {
	return Ema{Val: i64(buf, off), Numer: i64(buf, off+8), Denom: i64(buf, off+16)}
}

// PriceComponent is one publisher's contribution.
type PriceComponent struct {
	Publisher Key
	// Aggregate is the price this publisher contributed to the last aggregate.
	Aggregate PriceInfo
	// Latest is the publisher's most recent price, not yet aggregated.
	Latest PriceInfo
}

// Active reports whether the slot holds a publisher.
func (c PriceComponent) Active() bool { return !c.Publisher.IsZero() }

// Price is a read-only view of a price account.
//
// Prices and confidences are fixed-point mantissas; the real value is
// mantissa * 10^Exponent().
type Price struct {
	Header
	data  []byte
	slots int
}

// ParsePrice validates buf as a price account. The returned view borrows buf.
func ParsePrice(buf []byte) (*Price, error) {
	h, err := parseAs(buf, AccountTypePrice)
	if err != nil {
		return nil, err
	}
	if h.Size < PriceHeaderBytes {
		return nil, fmt.Errorf("%w: price size %d below header size %d", ErrOutOfBounds, h.Size, PriceHeaderBytes)
	}

	slots := min((int(h.Size)-PriceHeaderBytes)/ComponentBytes, MaxComponents)
	return &Price{Header: h, data: buf, slots: slots}, nil
}

func (p *Price) PriceType() PriceType { return DecodePriceType(u32(p.data, priceOffType)) }

// Exponent scales price, confidence, TWAP and TWAC alike.
func (p *Price) Exponent() int32 { return i32(p.data, priceOffExpo) }

// NumComponents is the publisher count stored by the oracle program.
func (p *Price) NumComponents() uint32 { return u32(p.data, priceOffNum) }

// NumQuoters is the number of publishers that made up the last aggregate.
func (p *Price) NumQuoters() uint32 { return u32(p.data, priceOffNumQt) }

// LastSlot is the slot of the last aggregate whose status was not unknown.
func (p *Price) LastSlot() uint64 { return u64(p.data, priceOffLastSlot) }

// ValidSlot is the slot at which the aggregate was computed.
func (p *Price) ValidSlot() uint64 { return u64(p.data, priceOffValidSlot) }

func (p *Price) TWAP() Ema { return decodeEma(p.data, priceOffTWAP) }
func (p *Price) TWAC() Ema { return decodeEma(p.data, priceOffTWAC) }

// Derived returns the reserved derived-value fields drv1..drv3.
func (p *Price) Derived() [3]int64 {
	return [3]int64{i64(p.data, priceOffDrv1), i64(p.data, priceOffDrv2), i64(p.data, priceOffDrv3)}
}

// Product is the product account this price belongs to.
func (p *Price) Product() Key { return keyField(p.data, priceOffProduct) }

// Next links to another price account of the same product, typically a
// different quote currency. ok is false at the end of the chain.
func (p *Price) Next() (next Key, ok bool) {
	next = keyField(p.data, priceOffNext)
	return next, !next.IsZero()
}

func (p *Price) PrevSlot() uint64 { return u64(p.data, priceOffPrevSlot) }
func (p *Price) PrevPrice() int64 { return i64(p.data, priceOffPrevPrice) }
func (p *Price) PrevConf() uint64 { return u64(p.data, priceOffPrevConf) }

// Aggregate is the combined price. Check Status before trusting Price and
// Conf; stale values are still returned as stored.
func (p *Price) Aggregate() PriceInfo { return decodePriceInfo(p.data, priceOffAggregate) }

// ComponentSlots is the number of component slots the account size holds.
func (p *Price) ComponentSlots() int { return p.slots }

// Component decodes slot i. It panics if i is not in [0, ComponentSlots()).
func (p *Price) Component(i int) PriceComponent {
	if i < 0 || i >= p.slots {
		panic(fmt.Sprintf("account: component index %d out of range [0,%d)", i, p.slots))
	}
	return p.component(i)
}

func (p *Price) component(i int) PriceComponent {
	off := priceOffComponents + i*ComponentBytes
	return PriceComponent{
		Publisher: keyField(p.data, off),
		Aggregate: decodePriceInfo(p.data, off+KeyBytes),
		Latest:    decodePriceInfo(p.data, off+KeyBytes+PriceInfoBytes),
	}
}

// Components yields every slot, unused ones included; filter with Active.
func (p *Price) Components() iter.Seq2[int, PriceComponent] {
	return func(yield func(int, PriceComponent) bool) {
		for i := 0; i < p.slots; i++ {
			if !yield(i, p.component(i)) {
				return
			}
		}
	}
}
