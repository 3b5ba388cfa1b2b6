package account

import "fmt"

// AccountType is the tag stored in every account header.
type AccountType uint32

// Account types of the v2 format.
const (
	AccountTypeUnknown AccountType = 0
	AccountTypeMapping AccountType = 1 // Product directory node
	AccountTypeProduct AccountType = 2 // Reference data
	AccountTypePrice   AccountType = 3 // Price feed
)

// DecodeAccountType maps a raw tag to an AccountType. Unrecognized tags
// decode to AccountTypeUnknown.
func DecodeAccountType(raw uint32) AccountType {
	switch t := AccountType(raw); t {
	case AccountTypeMapping, AccountTypeProduct, AccountTypePrice:
		return t
	default:
		return AccountTypeUnknown
	}
}

func (t AccountType) Encode() uint32 { return uint32(t) }

func (t AccountType) String() string {
	switch t {
	case AccountTypeMapping:
		return "Mapping"
	case AccountTypeProduct:
		return "Product"
	case AccountTypePrice:
		return "Price"
	default:
		return "Unknown"
	}
}

// PriceType describes what a price account computes.
type PriceType uint32

const (
	PriceTypeUnknown PriceType = 0
	PriceTypePrice   PriceType = 1
)

// DecodePriceType maps a raw code to a PriceType, falling back to
// PriceTypeUnknown.
func DecodePriceType(raw uint32) PriceType {
	switch t := PriceType(raw); t {
	case PriceTypePrice:
		return t
	default:
		return PriceTypeUnknown
	}
}

func (t PriceType) Encode() uint32 { return uint32(t) }

func (t PriceType) String() string {
	switch t {
	case PriceTypePrice:
		return "price"
	default:
		return "unknown"
	}
}

// PriceStatus is attached to the aggregate and to every component price.
// Only PriceStatusTrading marks a price that can be trusted.
type PriceStatus uint32

const (
	PriceStatusUnknown PriceStatus = 0
	PriceStatusTrading PriceStatus = 1
	PriceStatusHalted  PriceStatus = 2
	PriceStatusAuction PriceStatus = 3
)

// DecodePriceStatus maps a raw code to a PriceStatus, falling back to
// PriceStatusUnknown.
func DecodePriceStatus(raw uint32) PriceStatus {
	switch s := PriceStatus(raw); s {
	case PriceStatusTrading, PriceStatusHalted, PriceStatusAuction:
		return s
	default:
		return PriceStatusUnknown
	}
}

func (s PriceStatus) Encode() uint32 { return uint32(s) }

func (s PriceStatus) String() string {
	switch s {
	case PriceStatusTrading:
		return "trading"
	case PriceStatusHalted:
		return "halted"
	case PriceStatusAuction:
		return "auction"
	default:
		return "unknown"
	}
}

// CorpAction signals an ongoing corporate action on the product.
type CorpAction uint32

const (
	CorpActionNone CorpAction = 0

	// CorpActionUnknown is never written on chain; it is what any code
	// this reader does not know decodes to.
	CorpActionUnknown CorpAction = 0xffffffff
)

// DecodeCorpAction maps a raw code to a CorpAction, falling back to
// CorpActionUnknown.
func DecodeCorpAction(raw uint32) CorpAction {
	switch c := CorpAction(raw); c {
	case CorpActionNone:
		return c
	default:
		return CorpActionUnknown
	}
}

func (c CorpAction) Encode() uint32 { return uint32(c) }

func (c CorpAction) String() string {
	switch c {
	case CorpActionNone:
		return "nocorpact"
	case CorpActionUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("corpact(%d)", uint32(c))
	}
}
