// Package compression holds the codecs snapshot values are stored with.
package compression

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrUnknownCompressor is returned by Get and ByID for unregistered codecs.
var ErrUnknownCompressor = errors.New("unknown compressor")

// Compressor defines the interface for compression algorithms.
type Compressor interface {
	// Name returns the name of the compression algorithm.
	Name() string

	// ID is the byte persisted in front of values compressed with this
	// algorithm. It must never change once data has been written.
	ID() byte

	// Compress compresses the input data.
	Compress(data []byte) ([]byte, error)

	// Decompress restores data that decompresses to exactly size bytes.
	Decompress(data []byte, size int) ([]byte, error)
}

// Factory is a function that creates a new compressor instance.
type Factory func() Compressor

var (
	mu          sync.RWMutex
	compressors = make(map[string]Factory)
	byID        = make(map[byte]string)
)

// Register registers a compressor factory with the given name.
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	compressors[name] = factory
	byID[factory().ID()] = name
}

// Get returns a new compressor instance for the given name.
func Get(name string) (Compressor, error) {
	mu.RLock()
	factory, ok := compressors[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompressor, name)
	}

	return factory(), nil
}

// ByID returns the compressor that writes id.
func ByID(id byte) (Compressor, error) {
	mu.RLock()
	name, ok := byID[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownCompressor, id)
	}
	return Get(name)
}

// Available returns the sorted names of registered compressors.
func Available() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(compressors))
	for name := range compressors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func init() {
	Register("none", func() Compressor { return &NoCompressor{} })
	Register("lz4", func() Compressor { return &LZ4Compressor{} })
}
