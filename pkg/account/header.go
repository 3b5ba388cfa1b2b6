package account

import (
	"fmt"

	"github.com/LeJamon/goPyth/pkg/codec"
)

const (
	// Magic opens every account of this format.
	Magic uint32 = 0xa1b2c3d4

	Version2 uint32 = 2

	// Version is the format version written by the current oracle program.
	Version = Version2

	// HeaderBytes is the size of the common account prologue.
	HeaderBytes = 16
)

// header field offsets
const (
	offMagic   = 0
	offVersion = 4
	offType    = 8
	offSize    = 12
)

// IsSupportedVersion reports whether this reader decodes format version v.
func IsSupportedVersion(v uint32) bool {
	return v == Version2
}

// Header is the prologue shared by all account variants.
type Header struct {
	Magic   uint32
	Version uint32
	Type    AccountType
	// Size is the number of bytes of the account in use, header included.
	Size uint32
}

// ParseHeader validates the prologue of buf. Checks run in order (length,
// magic, version, type tag, declared size) and stop at the first failure.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderBytes {
		return Header{}, fmt.Errorf("%w: header needs %d bytes, have %d", ErrOutOfBounds, HeaderBytes, len(buf))
	}

	var h Header
	h.Magic = u32(buf, offMagic)
	if h.Magic != Magic {
		return Header{}, fmt.Errorf("%w: %#08x", ErrBadMagic, h.Magic)
	}

	h.Version = u32(buf, offVersion)
	if !IsSupportedVersion(h.Version) {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}

	raw := u32(buf, offType)
	h.Type = DecodeAccountType(raw)
	if h.Type == AccountTypeUnknown {
		return Header{}, fmt.Errorf("%w: tag %d", ErrUnexpectedAccountType, raw)
	}

	h.Size = u32(buf, offSize)
	if h.Size < HeaderBytes || uint64(h.Size) > uint64(len(buf)) {
		return Header{}, fmt.Errorf("%w: declared size %d, buffer %d", ErrOutOfBounds, h.Size, len(buf))
	}

	return h, nil
}

// Encode writes the four header fields into buf.
func (h Header) Encode(buf []byte) error {
	if len(buf) < HeaderBytes {
		return fmt.Errorf("%w: header needs %d bytes, have %d", ErrOutOfBounds, HeaderBytes, len(buf))
	}
	_ = codec.PutUint32(buf, offMagic, h.Magic)
	_ = codec.PutUint32(buf, offVersion, h.Version)
	_ = codec.PutUint32(buf, offType, h.Type.Encode())
	_ = codec.PutUint32(buf, offSize, h.Size)
	return nil
}

// parseAs validates the header and requires it to carry the wanted tag.
func parseAs(buf []byte, want AccountType) (Header, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return Header{}, err
	}
	if h.Type != want {
		return Header{}, fmt.Errorf("%w: want %s, have %s", ErrUnexpectedAccountType, want, h.Type)
	}
	return h, nil
}

// The accessors below read at offsets inside regions the parsers have
// already bounds-checked, so the codec error is always nil.

func u32(buf []byte, off int) uint32 { v, _ := codec.Uint32(buf, off); return v }
func i32(buf []byte, off int) int32 { v, _ := codec.Int32(buf, off); return v }
func u64(buf []byte, off int) uint64 { v, _ := codec.Uint64(buf, off); return v }
func i64(buf []byte, off int) int64 { v, _ := codec.Int64(buf, off); return v }
func keyField(buf []byte, off int) Key { k, _ := keyAt(buf, off); return k }
