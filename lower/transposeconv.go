package lower

import (
	"fmt"

	"github.com/ethosn/npulower/lowered"
	"github.com/ethosn/npulower/quant"
	"github.com/ethosn/npulower/sourcenet"
)

const largeKernelThreshold = 7

// transposeConvInputs bundles the shared Transpose-Conv Builder's inputs
// (spec.md §4.3): "stride (square), weights (info + bytes), bias (info +
// i32 data), user padding, input/output tensor-infos, source-op id."
type transposeConvInputs struct {
	stride        int
	weights       sourcenet.ConstantData
	bias          sourcenet.ConstantData
	pad           sourcenet.Padding4
	inputInfo     sourcenet.TensorInfo
	outputInfo    sourcenet.TensorInfo
	sourceOpID    sourcenet.OpID
}

// transposeConvBuilder implements spec.md §4.3's shared Transpose-Conv
// Builder, used by both TransposeConvolution and DepthToSpace. Returns
// the 1- or 2-node chain (upscale dwconv, if the kernel exceeds 7x7,
// then the rotated-weights convolution).
func transposeConvBuilder(c *ctx, in transposeConvInputs) []lowered.NodeRef {
	kh, kw := in.weights.Info.Dims[0], in.weights.Info.Dims[1]

	// Step 1: upscale factor.
	upscale := in.stride

	// Step 2: internal convolution padding.
	topMce := kh - 1 - in.pad.Top
	leftMce := kw - 1 - in.pad.Left
	if topMce < 0 || leftMce < 0 {
		panic(fmt.Sprintf("lower: transpose-conv op %d has negative derived padding (top=%d, left=%d); user padding exceeds kernel-1", in.sourceOpID, topMce, leftMce))
	}

	var chain []lowered.NodeRef
	mceInputShape := in.inputInfo.Dims

	// Step 3: large-kernel split.
	if kh > largeKernelThreshold || kw > largeKernelThreshold {
		const weightScale = 0.5
		const identityWeight = 2
		if !quant.CheckScaleProduct(weightScale, identityWeight) {
			panic(fmt.Sprintf("lower: transpose-conv op %d: identity weight %d times scale %v is not 1.0", in.sourceOpID, identityWeight, weightScale))
		}

		upscaledShape := sourcenet.Dims4{
			in.inputInfo.Dims[0],
			in.inputInfo.Dims[1] * upscale,
			in.inputInfo.Dims[2] * upscale,
			in.inputInfo.Dims[3],
		}
		channels := in.inputInfo.Dims[3]
		identityWeights := make([]byte, channels)
		for i := range identityWeights {
			identityWeights[i] = identityWeight
		}

		dwNode := &lowered.Node{
			Kind:     lowered.KindMceOperation,
			OutShape: upscaledShape,
			OutQuant: in.inputInfo.Quant,
			Layout:   sourcenet.NHWCB,
			InShape:  in.inputInfo.Dims,
			WeightsInfo: sourcenet.TensorInfo{
				Dims:     sourcenet.Dims4{1, 1, channels, 1},
				ElemKind: quant.UInt8Quantized,
				Layout:   sourcenet.HWIM,
				Quant:    quant.Info{ZeroPoint: 0, Scale: weightScale},
			},
			WeightsBytes:  identityWeights,
			BiasInfo:      sourcenet.TensorInfo{ElemKind: quant.Int32Quantized, Quant: quant.Info{ZeroPoint: 0, Scale: weightScale * in.inputInfo.Quant.Scale}},
			BiasI32:       make([]int32, channels),
			StrideY:       1,
			StrideX:       1,
			UpscaleFactor: upscale,
			TopPad:        0,
			LeftPad:       0,
			MceOp:         lowered.MceDepthwiseConvolution,
		}
		ref := c.graph.CreateNode(dwNode)
		chain = append(chain, ref)

		upscale = 1
		mceInputShape = upscaledShape
	}

	// Step 4: weight rotation.
	flipped := flipWeightsXY(in.weights.Bytes, kh, kw, in.weights.Info.Dims[2]*in.weights.Info.Dims[3])

	// Step 5: convolution emission.
	convNode := &lowered.Node{
		Kind:          lowered.KindMceOperation,
		OutShape:      in.outputInfo.Dims,
		OutQuant:      in.outputInfo.Quant,
		Layout:        sourcenet.NHWCB,
		InShape:       mceInputShape,
		WeightsInfo:   in.weights.Info,
		WeightsBytes:  flipped,
		BiasInfo:      in.bias.Info,
		BiasI32:       bytesToI32(in.bias.Bytes),
		StrideY:       1,
		StrideX:       1,
		UpscaleFactor: upscale,
		TopPad:        topMce,
		LeftPad:       leftMce,
		MceOp:         lowered.MceConvolution,
	}
	chain = append(chain, c.graph.CreateNode(convNode))

	return chain
}

// flipWeightsXY produces flipped_weights by reflecting the original
// weights through their XY plane (spec.md §4.3 step 4):
// flipped[KH-1-y, KW-1-x, *, *] = original[y, x, *, *]. The trailing two
// dimensions move as a contiguous block of in_channels*out_channels
// bytes.
func flipWeightsXY(original []byte, kh, kw, blockBytes int) []byte {
	out := make([]byte, len(original))
	for y := 0; y < kh; y++ {
		for x := 0; x < kw; x++ {
			srcOff := (y*kw + x) * blockBytes
			dstOff := ((kh-1-y)*kw + (kw - 1 - x)) * blockBytes
			copy(out[dstOff:dstOff+blockBytes], original[srcOff:srcOff+blockBytes])
		}
	}
	return out
}
