package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethosn/npulower/capability"
	"github.com/ethosn/npulower/lowered"
	"github.com/ethosn/npulower/sourcenet"
	"github.com/ethosn/npulower/support"
)

func newPoolingNetwork(t *testing.T, inH, inW, inC int, p sourcenet.PoolParams, outH, outW int) (*sourcenet.Network, *sourcenet.Operation) {
	t.Helper()
	net := sourcenet.NewNetwork()
	inInfo := info(t, 1, inH, inW, inC)
	in := net.AddOperation(sourcenet.OpInput, 1)
	in.InputTensorInfo = inInfo
	in.Outputs[0].Info = inInfo

	pool := net.AddOperation(sourcenet.OpPooling, 1)
	pool.Outputs[0].Info = info(t, 1, outH, outW, inC)
	pool.Pool = p
	require.NoError(t, net.Connect(pool, in, 0))
	return net, pool
}

// spec.md §9 Open Questions: the mean-pooling pattern is pinned by
// matching the full input spatial extent with zero padding, not merely
// "average pooling with some kernel size."
func TestPoolingMeanPattern(t *testing.T) {
	net, _ := newPoolingNetwork(t, 8, 8, 16, sourcenet.PoolParams{
		KernelH: 8, KernelW: 8, StrideY: 1, StrideX: 1, Type: sourcenet.PoolAvg,
	}, 1, 1)

	pass := NewPass(capability.NewDefault(), support.AllSupported{})
	graph, _, err := pass.Run(net)
	require.NoError(t, err)

	var node *lowered.Node
	for i := 0; i < graph.NumNodes(); i++ {
		n := graph.Node(lowered.NodeRef(i))
		if n.Kind == lowered.KindFuseOnlyPleOperation {
			node = n
		}
	}
	require.NotNil(t, node)
	assert.Equal(t, lowered.PleMeanXY8x8, node.PleOperation)
}

func TestPoolingRecognizedPatterns(t *testing.T) {
	cases := []struct {
		name string
		p    sourcenet.PoolParams
		want lowered.PleOp
		kind lowered.NodeKind
	}{
		{"avg3x3_1x1", sourcenet.PoolParams{KernelH: 3, KernelW: 3, StrideY: 1, StrideX: 1, Type: sourcenet.PoolAvg}, lowered.PleAvgPool3x3_1x1Udma, lowered.KindStandalonePleOperation},
		{"max2x2_2x2", sourcenet.PoolParams{KernelH: 2, KernelW: 2, StrideY: 2, StrideX: 2, Type: sourcenet.PoolMax}, lowered.PleMaxPool2x2_2x2, lowered.KindFuseOnlyPleOperation},
		{"max3x3_2x2", sourcenet.PoolParams{KernelH: 3, KernelW: 3, StrideY: 2, StrideX: 2, Type: sourcenet.PoolMax}, lowered.PleMaxPool3x3_2x2, lowered.KindFuseOnlyPleOperation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			net, _ := newPoolingNetwork(t, 8, 8, 16, tc.p, 4, 4)
			pass := NewPass(capability.NewDefault(), support.AllSupported{})
			graph, _, err := pass.Run(net)
			require.NoError(t, err)

			var node *lowered.Node
			for i := 0; i < graph.NumNodes(); i++ {
				n := graph.Node(lowered.NodeRef(i))
				if n.Kind == tc.kind && n.PleOperation == tc.want {
					node = n
				}
			}
			require.NotNil(t, node)
		})
	}
}

// Boundary behaviour (spec.md §8): pooling config (1,1,1,1,...) is
// unsupported.
func TestPoolingUnsupportedPattern(t *testing.T) {
	net, _ := newPoolingNetwork(t, 8, 8, 16, sourcenet.PoolParams{
		KernelH: 1, KernelW: 1, StrideY: 1, StrideX: 1, Type: sourcenet.PoolAvg,
	}, 8, 8)

	pass := NewPass(capability.NewDefault(), support.AllSupported{})
	_, _, err := pass.Run(net)
	require.Error(t, err)
}
