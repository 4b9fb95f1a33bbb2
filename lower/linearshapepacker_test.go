package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ethosn/npulower/sourcenet"
)

func TestLinearShapePacker(t *testing.T) {
	cases := []struct {
		name       string
		n          int
		bh, bw, bc int
		want       sourcenet.Dims4
	}{
		// num_patches = ceil(16/16) = 1 <= bc(16) and <= bc*(bh/4)(32) => W=4,H=4.
		// patches_per_bg = 2*2*16 = 64; full_groups=0, remainder=1 => C = 0 + min(16,1) = 1.
		{"single patch", 16, 8, 8, 16, sourcenet.Dims4{1, 4, 4, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := linearShapePacker(tc.n, tc.bh, tc.bw, tc.bc)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCeilDiv(t *testing.T) {
	assert.Equal(t, 1, ceilDiv(1, 16))
	assert.Equal(t, 1, ceilDiv(16, 16))
	assert.Equal(t, 2, ceilDiv(17, 16))
}
