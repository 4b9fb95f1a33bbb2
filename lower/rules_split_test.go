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

// Split-then-Concat of the same axis with matching sizes yields
// ExtractSubtensor nodes whose offsets partition the input exactly
// (spec.md §8 round-trip law).
func TestSplitOffsetsPartitionInput(t *testing.T) {
	net := sourcenet.NewNetwork()
	inInfo := info(t, 1, 8, 8, 16)
	in := net.AddOperation(sourcenet.OpInput, 1)
	in.InputTensorInfo = inInfo
	in.Outputs[0].Info = inInfo

	split := net.AddOperation(sourcenet.OpSplit, 2)
	split.Outputs[0].Info = info(t, 1, 8, 8, 6)
	split.Outputs[1].Info = info(t, 1, 8, 8, 10)
	split.Split = sourcenet.SplitParams{Axis: 3, Sizes: []int{6, 10}}
	require.NoError(t, net.Connect(split, in, 0))

	pass := NewPass(capability.NewDefault(), support.AllSupported{})
	graph, _, err := pass.Run(net)
	require.NoError(t, err)

	var offsets []int
	for i := 0; i < graph.NumNodes(); i++ {
		n := graph.Node(lowered.NodeRef(i))
		if n.Kind == lowered.KindExtractSubtensor {
			offsets = append(offsets, n.Offset[3])
		}
	}
	require.Len(t, offsets, 2)
	assert.Equal(t, []int{0, 6}, offsets)
}
