package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("rejects non-positive scale", func(t *testing.T) {
		_, err := New(0, 0)
		require.Error(t, err)
		_, err = New(0, -1)
		require.Error(t, err)
	})

	t.Run("accepts positive scale", func(t *testing.T) {
		info, err := New(128, 0.5)
		require.NoError(t, err)
		assert.Equal(t, int32(128), info.ZeroPoint)
		assert.Equal(t, float32(0.5), info.Scale)
	})
}

func TestInfoEqual(t *testing.T) {
	a, _ := New(0, 1.0)
	b, _ := New(0, 1.0)
	c, _ := New(1, 1.0)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestCheckScaleProduct(t *testing.T) {
	// spec.md §9 Open Questions: weight_scale=0.5, identity weight=2 must
	// keep their product invariant at 1.0.
	assert.True(t, CheckScaleProduct(0.5, 2))
	assert.False(t, CheckScaleProduct(0.5, 3))
}
