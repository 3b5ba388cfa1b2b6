package account

import (
	"fmt"
	"iter"

	"github.com/LeJamon/goPyth/pkg/codec"
)

const (
	// ProductBytes is the allocated size of a product account.
	ProductBytes = 512

	// ProductHeaderBytes is where the attribute region starts.
	ProductHeaderBytes = 48

	productOffPrice = 16
)

// Well-known product attribute keys.
const (
	AttrSymbol        = "symbol"
	AttrAssetType     = "asset_type"
	AttrQuoteCurrency = "quote_currency"
	AttrBase          = "base"
	AttrDescription   = "description"
	AttrGenericSymbol = "generic_symbol"
	AttrCountry       = "country"
	AttrTenor         = "tenor"
)

// Product is a read-only view of a product reference-data account.
//
// The attribute region holds (key, value) string pairs, each string
// prefixed with a one-byte length.
type Product struct {
	Header
	data  []byte
	attrs []byte
	count int
}

// ParseProduct validates buf as a product account, including the attribute
// region. The returned view borrows buf.
func ParseProduct(buf []byte) (*Product, error) {
	h, err := parseAs(buf, AccountTypeProduct)
	if err != nil {
		return nil, err
	}
	if h.Size < ProductHeaderBytes {
		return nil, fmt.Errorf("%w: product size %d below header size %d", ErrOutOfBounds, h.Size, ProductHeaderBytes)
	}

	attrs := buf[ProductHeaderBytes:h.Size]
	count := 0
	for off := 0; off < len(attrs); count++ {
		next, err := skipPair(attrs, off)
		if err != nil {
			return nil, fmt.Errorf("%w: pair %d at offset %d: %v", ErrMalformedAttributes, count, ProductHeaderBytes+off, err)
		}
		off = next
	}

	return &Product{Header: h, data: buf, attrs: attrs, count: count}, nil
}

func skipPair(attrs []byte, off int) (int, error) {
	_, off, err := readString(attrs, off)
	if err != nil {
		return 0, err
	}
	_, off, err = readString(attrs, off)
	return off, err
}

func readString(attrs []byte, off int) ([]byte, int, error) {
	n, err := codec.Uint8(attrs, off)
	if err != nil {
		return nil, 0, err
	}
	s, err := codec.Bytes(attrs, off+1, int(n))
	if err != nil {
		return nil, 0, err
	}
	return s, off + 1 + int(n), nil
}

// PriceAccount returns the first price account of the product; ok is false
// when the product has none.
func (p *Product) PriceAccount() (k Key, ok bool) {
	k = keyField(p.data, productOffPrice)
	return k, !k.IsZero()
}

// NumAttributes is the number of (key, value) pairs, duplicates included.
func (p *Product) NumAttributes() int { return p.count }

// Attributes yields the pairs in the order they are stored.
func (p *Product) Attributes() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for k, v := range p.rawAttributes() {
			if !yield(string(k), string(v)) {
				return
			}
		}
	}
}

func (p *Product) rawAttributes() iter.Seq2[[]byte, []byte] {
	return func(yield func([]byte, []byte) bool) {
		for off := 0; off < len(p.attrs); {
			// validated by ParseProduct
			k, next, _ := readString(p.attrs, off)
			v, next, _ := readString(p.attrs, next)
			if !yield(k, v) {
				return
			}
			off = next
		}
	}
}

// Attr looks up an attribute by key. When a key repeats, the first
// occurrence wins.
func (p *Product) Attr(name string) (string, bool) {
	for k, v := range p.rawAttributes() {
		if string(k) == name {
			return string(v), true
		}
	}
	return "", false
}

func (p *Product) Symbol() string {
	s, _ := p.Attr(AttrSymbol)
	return s
}

func (p *Product) AssetType() string {
	s, _ := p.Attr(AttrAssetType)
	return s
}

func (p *Product) QuoteCurrency() string {
	s, _ := p.Attr(AttrQuoteCurrency)
	return s
}
