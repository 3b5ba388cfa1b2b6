package account

import (
	"errors"

	"github.com/LeJamon/goPyth/pkg/codec"
)

var (
	// ErrOutOfBounds is returned when the buffer is too short for a field,
	// or a declared size or count does not fit the buffer.
	ErrOutOfBounds = codec.ErrOutOfBounds

	// ErrBadMagic indicates the buffer is not a Pyth account at all
	ErrBadMagic = errors.New("bad magic number")

	// ErrUnsupportedVersion indicates a Pyth account in a format version
	// this reader does not handle
	ErrUnsupportedVersion = errors.New("unsupported account version")

	// ErrUnexpectedAccountType indicates the header tag does not match the
	// requested account variant
	ErrUnexpectedAccountType = errors.New("unexpected account type")

	// ErrMalformedAttributes indicates the product attribute region does not
	// parse to an exact fit
	ErrMalformedAttributes = errors.New("malformed product attributes")

	// ErrCyclicReference indicates a mapping or price "next" chain that would
	// not terminate
	ErrCyclicReference = errors.New("cyclic account reference")
)
