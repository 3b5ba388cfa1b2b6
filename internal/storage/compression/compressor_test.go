package compression

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"lz4", "none"}, Available())

	c, err := Get("lz4")
	require.NoError(t, err)
	assert.Equal(t, "lz4", c.Name())

	c, err = ByID(0)
	require.NoError(t, err)
	assert.Equal(t, "none", c.Name())

	_, err = Get("zstd")
	assert.ErrorIs(t, err, ErrUnknownCompressor)
	_, err = ByID(7)
	assert.ErrorIs(t, err, ErrUnknownCompressor)
}

func TestCompressors(t *testing.T) {
	// Mostly zero, like an account with few products.
	sparse := make([]byte, 20536)
	copy(sparse, []byte{0xd4, 0xc3, 0xb2, 0xa1, 2, 0, 0, 0, 1})

	for _, name := range Available() {
		t.Run(name, func(t *testing.T) {
			c, err := Get(name)
			require.NoError(t, err)

			compressed, err := c.Compress(sparse)
			require.NoError(t, err)

			got, err := c.Decompress(compressed, len(sparse))
			require.NoError(t, err)
			assert.True(t, bytes.Equal(sparse, got))

			_, err = c.Decompress(compressed, len(sparse)+1)
			assert.Error(t, err)

			empty, err := c.Compress(nil)
			require.NoError(t, err)
			got, err = c.Decompress(empty, 0)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}

	t.Run("lz4 shrinks sparse data", func(t *testing.T) {
		compressed, err := (&LZ4Compressor{}).Compress(sparse)
		require.NoError(t, err)
		assert.Less(t, len(compressed), len(sparse)/10)
	})
}
