package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethosn/npulower/capability"
	"github.com/ethosn/npulower/lowered"
	"github.com/ethosn/npulower/npuerrors"
	"github.com/ethosn/npulower/sourcenet"
	"github.com/ethosn/npulower/support"
)

// S5 — Concat of two inputs (1,8,8,3) and (1,8,8,5) on axis 3,
// brick-group channels = 16. 3 mod 16 != 0 => layout NHWC; producers are
// NHWCB, so two FormatConversions are spliced onto Concat's inputs.
func TestScenarioS5Concat(t *testing.T) {
	net := sourcenet.NewNetwork()

	aInfo := info(t, 1, 8, 8, 3)
	a := net.AddOperation(sourcenet.OpInput, 1)
	a.InputTensorInfo = aInfo
	a.Outputs[0].Info = aInfo

	bInfo := info(t, 1, 8, 8, 5)
	b := net.AddOperation(sourcenet.OpInput, 1)
	b.InputTensorInfo = bInfo
	b.Outputs[0].Info = bInfo

	concat := net.AddOperation(sourcenet.OpConcatenation, 1)
	concat.Outputs[0].Info = info(t, 1, 8, 8, 8)
	concat.Concat = sourcenet.ConcatParams{Axis: 3}
	require.NoError(t, net.Connect(concat, a, 0))
	require.NoError(t, net.Connect(concat, b, 0))

	pass := NewPass(capability.NewDefault(), support.AllSupported{})
	graph, _, err := pass.Run(net)
	require.NoError(t, err)

	var concatRef lowered.NodeRef
	formatConversions := 0
	for i := 0; i < graph.NumNodes(); i++ {
		n := graph.Node(lowered.NodeRef(i))
		switch n.Kind {
		case lowered.KindConcat:
			concatRef = lowered.NodeRef(i)
			assert.Equal(t, sourcenet.NHWC, n.Layout)
		case lowered.KindFormatConversion:
			formatConversions++
		}
	}
	assert.Equal(t, 2, formatConversions)
	assert.Equal(t, 2, graph.NumInputs(concatRef))
}

func TestConcatRejectsSharedInput(t *testing.T) {
	net := sourcenet.NewNetwork()
	aInfo := info(t, 1, 8, 8, 16)
	a := net.AddOperation(sourcenet.OpInput, 1)
	a.InputTensorInfo = aInfo
	a.Outputs[0].Info = aInfo

	concat := net.AddOperation(sourcenet.OpConcatenation, 1)
	concat.Outputs[0].Info = info(t, 1, 8, 8, 32)
	concat.Concat = sourcenet.ConcatParams{Axis: 3}
	require.NoError(t, net.Connect(concat, a, 0))
	require.NoError(t, net.Connect(concat, a, 0)) // shared input

	relu := net.AddOperation(sourcenet.OpRelu, 1)
	relu.Outputs[0].Info = aInfo
	require.NoError(t, net.Connect(relu, a, 0)) // a now has 3 consumers total

	pass := NewPass(capability.NewDefault(), support.AllSupported{})
	_, _, err := pass.Run(net)
	require.Error(t, err)
	assert.ErrorIs(t, err, npuerrors.ErrSharedConcatInput)
}
