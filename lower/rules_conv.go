package lower

import (
	"fmt"

	"github.com/ethosn/npulower/lowered"
	"github.com/ethosn/npulower/sourcenet"
)

// ruleConvolution implements spec.md §4.2 Convolution (normal): an
// optional strided-interleave head followed by
// MceOperation(CONVOLUTION).
func ruleConvolution(c *ctx, op *sourcenet.Operation) error {
	in := op.Inputs[0]
	out := op.Output(0)
	p := op.Conv

	var chain []lowered.NodeRef
	mceInShape := in.Info.Dims
	if headRef, ok := stridedHead(c, op, in, p.StrideY, p.StrideX); ok {
		chain = append(chain, headRef)
		mceInShape = c.graph.Node(headRef).OutShape
	}

	chain = append(chain, c.graph.CreateNode(&lowered.Node{
		Kind:         lowered.KindMceOperation,
		OutShape:     out.Info.Dims,
		OutQuant:     out.Info.Quant,
		Layout:       sourcenet.NHWCB,
		InShape:      mceInShape,
		WeightsInfo:  p.Weights.Info,
		WeightsBytes: p.Weights.Bytes,
		BiasInfo:     p.Bias.Info,
		BiasI32:      bytesToI32(p.Bias.Bytes),
		StrideY:      p.StrideY,
		StrideX:      p.StrideX,
		UpscaleFactor: 1,
		TopPad:       p.Pad.Top,
		LeftPad:      p.Pad.Left,
		MceOp:        lowered.MceConvolution,
	}))

	setProvenance(c, op, chain)
	return chainConnect(c, op, chain)
}

// ruleDepthwiseConvolution implements spec.md §4.2 DepthwiseConvolution:
// the same strided-head transform as Convolution, then either a
// relabelled CONVOLUTION (channel-multiplier > 1, requiring in_channels
// == 1) or a genuine DEPTHWISE_CONVOLUTION. Winograd is never used for
// depthwise, so there is no Winograd flag to thread through here.
func ruleDepthwiseConvolution(c *ctx, op *sourcenet.Operation) error {
	in := op.Inputs[0]
	out := op.Output(0)
	p := op.Conv

	inChannels := in.Info.Dims[3]
	outChannels := out.Info.Dims[3]
	channelMultiplier := 0
	if inChannels != 0 {
		channelMultiplier = outChannels / inChannels
	}

	mceOp := lowered.MceDepthwiseConvolution
	weightsInfo := p.Weights.Info
	if channelMultiplier > 1 {
		if inChannels != 1 {
			panic(fmt.Sprintf("lower: depthwise convolution op %d has channel-multiplier %d with in_channels %d; channel-multiplier > 1 requires in_channels == 1", op.ID, channelMultiplier, inChannels))
		}
		mceOp = lowered.MceConvolution
		weightsInfo.Layout = sourcenet.HWIO
	}

	var chain []lowered.NodeRef
	mceInShape := in.Info.Dims
	if headRef, ok := stridedHead(c, op, in, p.StrideY, p.StrideX); ok {
		chain = append(chain, headRef)
		mceInShape = c.graph.Node(headRef).OutShape
	}

	chain = append(chain, c.graph.CreateNode(&lowered.Node{
		Kind:          lowered.KindMceOperation,
		OutShape:      out.Info.Dims,
		OutQuant:      out.Info.Quant,
		Layout:        sourcenet.NHWCB,
		InShape:       mceInShape,
		WeightsInfo:   weightsInfo,
		WeightsBytes:  p.Weights.Bytes,
		BiasInfo:      p.Bias.Info,
		BiasI32:       bytesToI32(p.Bias.Bytes),
		StrideY:       p.StrideY,
		StrideX:       p.StrideX,
		UpscaleFactor: 1,
		TopPad:        p.Pad.Top,
		LeftPad:       p.Pad.Left,
		MceOp:         mceOp,
	}))

	setProvenance(c, op, chain)
	return chainConnect(c, op, chain)
}
