package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethosn/npulower/capability"
	"github.com/ethosn/npulower/lowered"
	"github.com/ethosn/npulower/quant"
	"github.com/ethosn/npulower/sourcenet"
	"github.com/ethosn/npulower/support"
)

func newAdditionNetwork(t *testing.T, aScale, bScale, outScale float32) (*sourcenet.Network, *sourcenet.Operation) {
	t.Helper()
	net := sourcenet.NewNetwork()

	qa, _ := quant.New(0, aScale)
	aInfo, _ := sourcenet.NewTensorInfo(sourcenet.Dims4{1, 4, 4, 8}, quant.UInt8Quantized, sourcenet.NHWCB, qa)
	a := net.AddOperation(sourcenet.OpInput, 1)
	a.InputTensorInfo = aInfo
	a.Outputs[0].Info = aInfo

	qb, _ := quant.New(0, bScale)
	bInfo, _ := sourcenet.NewTensorInfo(sourcenet.Dims4{1, 4, 4, 8}, quant.UInt8Quantized, sourcenet.NHWCB, qb)
	b := net.AddOperation(sourcenet.OpInput, 1)
	b.InputTensorInfo = bInfo
	b.Outputs[0].Info = bInfo

	qout, _ := quant.New(0, outScale)
	outInfo, _ := sourcenet.NewTensorInfo(sourcenet.Dims4{1, 4, 4, 8}, quant.UInt8Quantized, sourcenet.NHWCB, qout)

	add := net.AddOperation(sourcenet.OpAddition, 1)
	add.Outputs[0].Info = outInfo
	require.NoError(t, net.Connect(add, a, 0))
	require.NoError(t, net.Connect(add, b, 0))
	return net, add
}

func TestAdditionSameQuant(t *testing.T) {
	net, _ := newAdditionNetwork(t, 1.0, 1.0, 1.0)
	pass := NewPass(capability.NewDefault(), support.AllSupported{})
	graph, _, err := pass.Run(net)
	require.NoError(t, err)

	node := findKind(graph, lowered.KindStandalonePleOperation)
	require.NotNil(t, node)
	assert.Equal(t, lowered.PleAddition, node.PleOperation)
}

func TestAdditionMismatchedQuant(t *testing.T) {
	net, _ := newAdditionNetwork(t, 1.0, 2.0, 1.0)
	pass := NewPass(capability.NewDefault(), support.AllSupported{})
	graph, _, err := pass.Run(net)
	require.NoError(t, err)

	node := findKind(graph, lowered.KindStandalonePleOperation)
	require.NotNil(t, node)
	assert.Equal(t, lowered.PleAdditionRescale, node.PleOperation)
}

func findKind(g *lowered.Graph, kind lowered.NodeKind) *lowered.Node {
	for i := 0; i < g.NumNodes(); i++ {
		n := g.Node(lowered.NodeRef(i))
		if n.Kind == kind {
			return n
		}
	}
	return nil
}
