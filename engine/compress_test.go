package engine

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressBlock(t *testing.T) {
	compressible := bytes.Repeat([]byte("abcdefgh"), 4096)

	for _, comp := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(comp.String(), func(t *testing.T) {
			block, err := compressBlock(compressible, comp)
			require.NoError(t, err)

			got, err := decompressBlock(block, comp)
			require.NoError(t, err)
			assert.Equal(t, compressible, got)

			if comp != CompressionNone {
				assert.Less(t, len(block), len(compressible))
			}
		})
	}

	t.Run("IncompressibleFallsBackToRaw", func(t *testing.T) {
		r := rand.New(rand.NewSource(3))
		noise := make([]byte, 4096)
		r.Read(noise)

		block, err := compressBlock(noise, CompressionLZ4)
		require.NoError(t, err)

		got, err := decompressBlock(block, CompressionLZ4)
		require.NoError(t, err)
		assert.Equal(t, noise, got)
	})

	t.Run("EmptyPayload", func(t *testing.T) {
		block, err := compressBlock(nil, CompressionZstd)
		require.NoError(t, err)

		got, err := decompressBlock(block, CompressionZstd)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("UnknownCompression", func(t *testing.T) {
		_, err := compressBlock([]byte("x"), Compression(42))
		assert.Error(t, err)
	})

	t.Run("TruncatedBlock", func(t *testing.T) {
		block, err := compressBlock(compressible, CompressionZstd)
		require.NoError(t, err)

		_, err = decompressBlock(block[:blockHeaderSize+4], CompressionZstd)
		assert.Error(t, err)

		_, err = decompressBlock(block[:4], CompressionZstd)
		assert.Error(t, err)
	})
}
