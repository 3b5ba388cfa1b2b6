package account

import (
	"fmt"
	"iter"
)

const (
	// MappingCapacity is the number of product slots in a mapping account.
	MappingCapacity = 640

	// MappingBytes is the allocated size of a mapping account.
	MappingBytes = mappingOffProducts + MappingCapacity*KeyBytes

	mappingOffNum      = 16
	mappingOffNext     = 24
	mappingOffProducts = 56
)

// Mapping is a read-only view of one node in the product directory, a
// singly linked list of fixed-capacity tables of product account keys.
type Mapping struct {
	Header
	data []byte
}

// ParseMapping validates buf as a mapping account. The returned view
// borrows buf.
func ParseMapping(buf []byte) (*Mapping, error) {
	h, err := parseAs(buf, AccountTypeMapping)
	if err != nil {
		return nil, err
	}
	if len(buf) < mappingOffProducts {
		return nil, fmt.Errorf("%w: mapping needs %d bytes, have %d", ErrOutOfBounds, mappingOffProducts, len(buf))
	}

	num := u32(buf, mappingOffNum)
	if num > MappingCapacity {
		return nil, fmt.Errorf("%w: mapping lists %d products, capacity %d", ErrOutOfBounds, num, MappingCapacity)
	}
	if need := mappingOffProducts + int(num)*KeyBytes; len(buf) < need {
		return nil, fmt.Errorf("%w: mapping with %d products needs %d bytes, have %d", ErrOutOfBounds, num, need, len(buf))
	}

	return &Mapping{Header: h, data: buf}, nil
}

// NumProducts is the number of populated product slots.
func (m *Mapping) NumProducts() int {
	return int(u32(m.data, mappingOffNum))
}

// Product returns the key in slot i. It panics if i is not in
// [0, NumProducts()).
func (m *Mapping) Product(i int) Key {
	if i < 0 || i >= m.NumProducts() {
		panic(fmt.Sprintf("account: product index %d out of range [0,%d)", i, m.NumProducts()))
	}
	return keyField(m.data, mappingOffProducts+i*KeyBytes)
}

// Products yields (slot, key) for every populated slot.
func (m *Mapping) Products() iter.Seq2[int, Key] {
	return func(yield func(int, Key) bool) {
		n := m.NumProducts()
		for i := 0; i < n; i++ {
			if !yield(i, keyField(m.data, mappingOffProducts+i*KeyBytes)) {
				return
			}
		}
	}
}

// Next returns the following mapping account; ok is false at the end of
// the list.
func (m *Mapping) Next() (next Key, ok bool) {
	next = keyField(m.data, mappingOffNext)
	return next, !next.IsZero()
}
