package lower

import (
	"github.com/ethosn/npulower/lowered"
	"github.com/ethosn/npulower/sourcenet"
)

const weightChannelAlignment = 1024

// ruleFullyConnected implements spec.md §4.2 FullyConnected's four
// steps: optional layout normalization, linear-shape packing, a
// Reinterpret into brick format, and an MceOperation(FULLY_CONNECTED)
// over weights padded to a multiple of 1024 input channels.
func ruleFullyConnected(c *ctx, op *sourcenet.Operation) error {
	in := op.Inputs[0]
	out := op.Output(0)

	prodRef, ok := c.operand.Get(in.Key)
	if !ok {
		return abortMissingProducer(op)
	}
	currentLayout := c.graph.Node(prodRef).Layout

	var chain []lowered.NodeRef
	if currentLayout != sourcenet.NHWC {
		chain = append(chain, c.graph.CreateNode(&lowered.Node{
			Kind:     lowered.KindFormatConversion,
			OutShape: in.Info.Dims,
			OutQuant: in.Info.Quant,
			Layout:   sourcenet.NHWC,
		}))
	}

	bh, bw, bc := c.caps.BrickGroupShape()
	reinterpreted := linearShapePacker(in.Info.Dims.Size(), bh, bw, bc)

	chain = append(chain, c.graph.CreateNode(&lowered.Node{
		Kind:     lowered.KindReinterpret,
		OutShape: reinterpreted,
		OutQuant: in.Info.Quant,
		Layout:   sourcenet.NHWCB,
	}))

	paddedWeights, paddedInfo := padWeightsToChannelMultiple(op.FullyConnected.Weights, weightChannelAlignment)

	mce := &lowered.Node{
		Kind:          lowered.KindMceOperation,
		OutShape:      out.Info.Dims,
		OutQuant:      out.Info.Quant,
		Layout:        sourcenet.NHWCB,
		InShape:       reinterpreted,
		WeightsInfo:   paddedInfo,
		WeightsBytes:  paddedWeights,
		BiasInfo:      op.FullyConnected.Bias.Info,
		BiasI32:       bytesToI32(op.FullyConnected.Bias.Bytes),
		StrideY:       1,
		StrideX:       1,
		UpscaleFactor: 1,
		TopPad:        0,
		LeftPad:       0,
		MceOp:         lowered.MceFullyConnected,
	}
	chain = append(chain, c.graph.CreateNode(mce))

	setProvenance(c, op, chain)
	return chainConnect(c, op, chain)
}

// padWeightsToChannelMultiple pads weights' input-channel dimension up to
// the next multiple of alignment, using the weights' own zero-point as
// the pad byte (spec.md §4.2 FullyConnected step 4; spec.md §9 Open
// Questions resolves the ambiguous "input's zero-point" wording in favor
// of the weights' zero-point, for bit-exact parity — see DESIGN.md).
func padWeightsToChannelMultiple(weights sourcenet.ConstantData, alignment int) ([]byte, sourcenet.TensorInfo) {
	inChannels := weights.Info.Dims[3]
	padded := ceilDiv(inChannels, alignment) * alignment
	if padded == inChannels {
		return weights.Bytes, weights.Info
	}

	padByte := byte(weights.Info.Quant.ZeroPoint)
	rows := weights.Info.Dims.Size() / inChannels
	out := make([]byte, rows*padded)
	for r := 0; r < rows; r++ {
		srcOff := r * inChannels
		dstOff := r * padded
		copy(out[dstOff:dstOff+inChannels], weights.Bytes[srcOff:srcOff+inChannels])
		for i := inChannels; i < padded; i++ {
			out[dstOff+i] = padByte
		}
	}

	info := weights.Info
	info.Dims[3] = padded
	return out, info
}

// bytesToI32 reinterprets a little-endian int32 byte buffer, the layout
// bias constants are stored in throughout this package.
func bytesToI32(b []byte) []int32 {
	out := make([]int32, len(b)/4)
	for i := range out {
		off := i * 4
		out[i] = int32(uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16 | uint32(b[off+3])<<24)
	}
	return out
}
