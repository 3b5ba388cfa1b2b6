package account

import (
	"fmt"

	"github.com/LeJamon/goPyth/pkg/codec"
	"github.com/mr-tron/base58"
)

// KeyBytes is the width of an account address.
const KeyBytes = 32

// Key is a Solana account address. The all-zero key is the null sentinel
// used for end-of-list, unused component slots and absent links.
type Key [KeyBytes]byte

// ZeroKey is the null key.
var ZeroKey Key

// ParseKey decodes a base58 address.
func ParseKey(s string) (Key, error) {
	var k Key
	raw, err := base58.Decode(s)
	if err != nil {
		return k, fmt.Errorf("invalid key %q: %w", s, err)
	}
	if len(raw) != KeyBytes {
		return k, fmt.Errorf("invalid key %q: decoded to %d bytes, want %d", s, len(raw), KeyBytes)
	}
	copy(k[:], raw)
	return k, nil
}

// MustParseKey is ParseKey for constants and tests.
func MustParseKey(s string) Key {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

func (k Key) IsZero() bool { return k == ZeroKey }

func (k Key) String() string { return base58.Encode(k[:]) }

func (k Key) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func keyAt(buf []byte, off int) (Key, error) {
	var k Key
	b, err := codec.Bytes(buf, off, KeyBytes)
	if err != nil {
		return k, err
	}
	copy(k[:], b)
	return k, nil
}
