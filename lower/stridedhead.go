package lower

import (
	"fmt"

	"github.com/ethosn/npulower/lowered"
	"github.com/ethosn/npulower/sourcenet"
)

// stridedHead implements the shared "strided-head" subroutine (spec.md
// §9 Design Notes, §4.2 Convolution step 1): when a convolution's stride
// exceeds 1, it must be 2x2, and the strided problem is reformatted into
// a stride-1 convolution over an interleaved tensor via
// FuseOnlyPleOperation(INTERLEAVE_2X2_2_2). Shared by Convolution and
// DepthwiseConvolution.
//
// Returns the created node's ref, or ok=false if stride is (1,1) and no
// head is needed. Panics if stride is neither (1,1) nor (2,2) — a
// precondition violation per spec.md §7, not a recoverable error.
func stridedHead(c *ctx, op *sourcenet.Operation, in *sourcenet.Operand, strideY, strideX int) (lowered.NodeRef, bool) {
	if strideY == 1 && strideX == 1 {
		return 0, false
	}
	if strideY != 2 || strideX != 2 {
		panic(fmt.Sprintf("lower: convolution op %d has unsupported stride (%d,%d); only 1x1 and 2x2 are legal", op.ID, strideY, strideX))
	}

	dims := in.Info.Dims
	submapChannels := c.caps.NumSubmapChannels(dims[3], strideX, strideY)
	outShape := sourcenet.Dims4{dims[0], ceilDiv(dims[1], 2), ceilDiv(dims[2], 2), submapChannels}

	node := &lowered.Node{
		Kind:         lowered.KindFuseOnlyPleOperation,
		OutShape:     outShape,
		OutQuant:     in.Info.Quant,
		Layout:       sourcenet.NHWCB,
		PleOperation: lowered.PleInterleave2x2_2x2,
		ShapeMultiplier: lowered.ShapeMultiplier{
			NumH: 1, DenH: strideY,
			NumW: 1, DenW: strideX,
			ChanMult: strideY * strideX,
		},
	}
	ref := c.graph.CreateNode(node)
	return ref, true
}
