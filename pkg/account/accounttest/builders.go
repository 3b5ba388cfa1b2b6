// Package accounttest builds synthetic account buffers for tests.
package accounttest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/LeJamon/goPyth/pkg/account"
	"github.com/LeJamon/goPyth/pkg/codec"
)

// Key returns a deterministic non-zero key derived from seed.
func Key(seed byte) account.Key {
	var k account.Key
	for i := range k {
		k[i] = seed + byte(i)
	}
	k[0] = seed | 0x80
	return k
}

func putHeader(buf []byte, t account.AccountType, size int) {
	h := account.Header{Magic: account.Magic, Version: account.Version, Type: t, Size: uint32(size)}
	if err := h.Encode(buf); err != nil {
		panic(err)
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Mapping builds a full-size mapping account listing products.
func Mapping(next account.Key, products ...account.Key) []byte {
	if len(products) > account.MappingCapacity {
		panic(fmt.Sprintf("accounttest: %d products exceed mapping capacity", len(products)))
	}
	buf := make([]byte, account.MappingBytes)
	putHeader(buf, account.AccountTypeMapping, 56+len(products)*account.KeyBytes)
	must(codec.PutUint32(buf, 16, uint32(len(products))))
	must(codec.PutBytes(buf, 24, next[:]))
	for i, p := range products {
		must(codec.PutBytes(buf, 56+i*account.KeyBytes, p[:]))
	}
	return buf
}

// Attr is one product attribute.
type Attr struct {
	Key   string
	Value string
}

// Attributes encodes attrs as length-prefixed pairs.
func Attributes(attrs ...Attr) []byte {
	var out []byte
	for _, a := range attrs {
		if len(a.Key) > 255 || len(a.Value) > 255 {
			panic("accounttest: attribute longer than 255 bytes")
		}
		out = append(out, byte(len(a.Key)))
		out = append(out, a.Key...)
		out = append(out, byte(len(a.Value)))
		out = append(out, a.Value...)
	}
	return out
}

// Product builds a full-size product account whose declared size ends
// exactly after the attributes.
func Product(price account.Key, attrs ...Attr) []byte {
	return ProductRaw(price, Attributes(attrs...))
}

// ProductRaw is Product with a pre-encoded attribute region.
func ProductRaw(price account.Key, region []byte) []byte {
	if account.ProductHeaderBytes+len(region) > account.ProductBytes {
		panic("accounttest: attributes do not fit a product account")
	}
	buf := make([]byte, account.ProductBytes)
	putHeader(buf, account.AccountTypeProduct, account.ProductHeaderBytes+len(region))
	must(codec.PutBytes(buf, 16, price[:]))
	must(codec.PutBytes(buf, account.ProductHeaderBytes, region))
	return buf
}

// PriceSpec lists the price account fields a test may set.
type PriceSpec struct {
	Type       account.PriceType
	Expo       int32
	Num        uint32
	NumQuoters uint32
	LastSlot   uint64
	ValidSlot  uint64
	TWAP       account.Ema
	TWAC       account.Ema
	Derived    [3]int64
	Product    account.Key
	Next       account.Key
	PrevSlot   uint64
	PrevPrice  int64
	PrevConf   uint64
	Aggregate  account.PriceInfo
	Components []account.PriceComponent
}

func putPriceInfo(buf []byte, off int, pi account.PriceInfo) {
	must(codec.PutInt64(buf, off, pi.Price))
	must(codec.PutUint64(buf, off+8, pi.Conf))
	must(codec.PutUint32(buf, off+16, pi.Status.Encode()))
	must(codec.PutUint32(buf, off+20, pi.CorpAction.Encode()))
	must(codec.PutUint64(buf, off+24, pi.PubSlot))
}

func putEma(buf []byte, off int, e account.Ema) {
	must(codec.PutInt64(buf, off, e.Val))
	must(codec.PutInt64(buf, off+8, e.Numer))
	must(codec.PutInt64(buf, off+16, e.Denom))
}

// Price builds a full-size price account.
func Price(spec PriceSpec) []byte {
	if len(spec.Components) > account.MaxComponents {
		panic("accounttest: too many price components")
	}
	buf := make([]byte, account.PriceBytes)
	putHeader(buf, account.AccountTypePrice, account.PriceBytes)
	must(codec.PutUint32(buf, 16, spec.Type.Encode()))
	must(codec.PutInt32(buf, 20, spec.Expo))
	must(codec.PutUint32(buf, 24, spec.Num))
	must(codec.PutUint32(buf, 28, spec.NumQuoters))
	must(codec.PutUint64(buf, 32, spec.LastSlot))
	must(codec.PutUint64(buf, 40, spec.ValidSlot))
	putEma(buf, 48, spec.TWAP)
	putEma(buf, 72, spec.TWAC)
	must(codec.PutInt64(buf, 96, spec.Derived[0]))
	must(codec.PutInt64(buf, 104, spec.Derived[1]))
	must(codec.PutBytes(buf, 112, spec.Product[:]))
	must(codec.PutBytes(buf, 144, spec.Next[:]))
	must(codec.PutUint64(buf, 176, spec.PrevSlot))
	must(codec.PutInt64(buf, 184, spec.PrevPrice))
	must(codec.PutUint64(buf, 192, spec.PrevConf))
	must(codec.PutInt64(buf, 200, spec.Derived[2]))
	putPriceInfo(buf, 208, spec.Aggregate)
	for i, c := range spec.Components {
		off := account.PriceHeaderBytes + i*account.ComponentBytes
		must(codec.PutBytes(buf, off, c.Publisher[:]))
		putPriceInfo(buf, off+account.KeyBytes, c.Aggregate)
		putPriceInfo(buf, off+account.KeyBytes+account.PriceInfoBytes, c.Latest)
	}
	return buf
}

// ErrNoAccount is returned by Ledger for keys it does not hold.
var ErrNoAccount = errors.New("accounttest: no such account")

// Ledger is an in-memory account store that counts loads.
type Ledger struct {
	mu       sync.Mutex
	accounts map[account.Key][]byte
	loads    map[account.Key]int
	fail     map[account.Key]error
}

func NewLedger() *Ledger {
	return &Ledger{
		accounts: make(map[account.Key][]byte),
		loads:    make(map[account.Key]int),
		fail:     make(map[account.Key]error),
	}
}

// Put stores data under k and returns the ledger for chaining.
func (l *Ledger) Put(k account.Key, data []byte) *Ledger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[k] = data
	return l
}

// Fail makes every load of k return err.
func (l *Ledger) Fail(k account.Key, err error) *Ledger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fail[k] = err
	return l
}

func (l *Ledger) Load(_ context.Context, k account.Key) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loads[k]++
	if err, ok := l.fail[k]; ok {
		return nil, err
	}
	data, ok := l.accounts[k]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoAccount, k)
	}
	return data, nil
}

// Loads reports how many times k was loaded.
func (l *Ledger) Loads(k account.Key) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads[k]
}
