package lower

import (
	"github.com/ethosn/npulower/lowered"
	"github.com/ethosn/npulower/npuerrors"
	"github.com/ethosn/npulower/sourcenet"
)

// rulePooling implements spec.md §4.2 Pooling: dispatch on (KH, KW, SY,
// SX, type) to one of four recognized shapes; anything else is
// Unsupported. Padding is compared only for the "mean" shape, which
// requires zero padding; the three fixed-kernel shapes accept any padding.
//
// spec.md §9 Open Questions flags the source's "==" match against a
// full info struct (with padding substituted from the incoming info) as
// subtle; here the four cases are matched field-by-field so the
// "mean-pattern" case (full-input average pool) is pinned by the
// (KH=inH, KW=inW) check rather than an opaque struct comparison — see
// DESIGN.md for the Open Question's pinning test.
func rulePooling(c *ctx, op *sourcenet.Operation) error {
	p := op.Pool
	in := op.Inputs[0]
	out := op.Output(0)

	isMean := p.KernelH == in.Info.Dims[1] && p.KernelW == in.Info.Dims[2] &&
		p.Pad == (sourcenet.Padding4{}) && p.Type == sourcenet.PoolAvg

	var node *lowered.Node
	switch {
	case isMean:
		node = &lowered.Node{
			Kind:         lowered.KindFuseOnlyPleOperation,
			PleOperation: lowered.PleMeanXY8x8,
			ShapeMultiplier: lowered.ShapeMultiplier{
				NumH: 1, DenH: p.StrideY,
				NumW: 1, DenW: p.StrideX,
				ChanMult: 1,
			},
		}
	case p.KernelH == 3 && p.KernelW == 3 && p.StrideY == 1 && p.StrideX == 1 && p.Type == sourcenet.PoolAvg:
		node = &lowered.Node{Kind: lowered.KindStandalonePleOperation, PleOperation: lowered.PleAvgPool3x3_1x1Udma}
	case p.KernelH == 2 && p.KernelW == 2 && p.StrideY == 2 && p.StrideX == 2 && p.Type == sourcenet.PoolMax:
		node = &lowered.Node{Kind: lowered.KindFuseOnlyPleOperation, PleOperation: lowered.PleMaxPool2x2_2x2}
	case p.KernelH == 3 && p.KernelW == 3 && p.StrideY == 2 && p.StrideX == 2 && p.Type == sourcenet.PoolMax:
		node = &lowered.Node{Kind: lowered.KindFuseOnlyPleOperation, PleOperation: lowered.PleMaxPool3x3_2x2}
	default:
		return npuerrors.NotSupported("pooling (op %d) has no recognized kernel/stride/type pattern: %+v", op.ID, p)
	}

	node.OutShape = out.Info.Dims
	node.OutQuant = out.Info.Quant
	node.Layout = sourcenet.NHWCB

	chain := []lowered.NodeRef{c.graph.CreateNode(node)}
	setProvenance(c, op, chain)
	return chainConnect(c, op, chain)
}
