package sourcenet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethosn/npulower/quant"
)

func TestNewTensorInfo(t *testing.T) {
	q, err := quant.New(0, 1.0)
	require.NoError(t, err)

	t.Run("rejects negative dimension", func(t *testing.T) {
		_, err := NewTensorInfo(Dims4{1, -1, 8, 16}, quant.UInt8Quantized, NHWC, q)
		require.Error(t, err)
	})

	t.Run("accepts non-negative dimensions", func(t *testing.T) {
		info, err := NewTensorInfo(Dims4{1, 8, 8, 16}, quant.UInt8Quantized, NHWC, q)
		require.NoError(t, err)
		assert.Equal(t, 1024, info.Dims.Size())
	})
}

func TestDims4Equal(t *testing.T) {
	assert.True(t, Dims4{1, 2, 3, 4}.Equal(Dims4{1, 2, 3, 4}))
	assert.False(t, Dims4{1, 2, 3, 4}.Equal(Dims4{1, 2, 3, 5}))
}
