// Package codec reads and writes fixed-width little-endian fields at fixed
// offsets of a byte buffer.
//
// Nothing here allocates: byte-array reads return sub-slices of the input,
// so the caller's buffer must outlive anything derived from it.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned when a field would extend past the buffer end.
var ErrOutOfBounds = errors.New("field out of bounds")

func span(buf []byte, off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off > len(buf) || n > len(buf)-off {
		return nil, fmt.Errorf("%w: offset=%d width=%d len=%d", ErrOutOfBounds, off, n, len(buf))
	}
	return buf[off : off+n : off+n], nil
}

// Bytes returns the n bytes at off as a sub-slice of buf.
func Bytes(buf []byte, off, n int) ([]byte, error) {
	return span(buf, off, n)
}

func Uint8(buf []byte, off int) (uint8, error) {
	b, err := span(buf, off, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func Uint32(buf []byte, off int) (uint32, error) {
	b, err := span(buf, off, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func Int32(buf []byte, off int) (int32, error) {
	v, err := Uint32(buf, off)
	return int32(v), err
}

func Uint64(buf []byte, off int) (uint64, error) {
	b, err := span(buf, off, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func Int64(buf []byte, off int) (int64, error) {
	v, err := Uint64(buf, off)
	return int64(v), err
}

// PutUint8 and friends are the write side, used by encoders and test fixtures.
func PutUint8(buf []byte, off int, v uint8) error {
	b, err := span(buf, off, 1)
	if err != nil {
		return err
	}
	b[0] = v
	return nil
}

func PutUint32(buf []byte, off int, v uint32) error {
	b, err := span(buf, off, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, v)
	return nil
}

func PutInt32(buf []byte, off int, v int32) error {
	return PutUint32(buf, off, uint32(v))
}

func PutUint64(buf []byte, off int, v uint64) error {
	b, err := span(buf, off, 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(b, v)
	return nil
}

func PutInt64(buf []byte, off int, v int64) error {
	return PutUint64(buf, off, uint64(v))
}

// PutBytes copies src into buf at off.
func PutBytes(buf []byte, off int, src []byte) error {
	b, err := span(buf, off, len(src))
	if err != nil {
		return err
	}
	copy(b, src)
	return nil
}
