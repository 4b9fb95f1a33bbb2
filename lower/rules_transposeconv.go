package lower

import (
	"fmt"

	"github.com/ethosn/npulower/quant"
	"github.com/ethosn/npulower/sourcenet"
)

// ruleTransposeConvolution implements spec.md §4.2 TransposeConvolution:
// "Realised as zero-upsample + rotated-weights convolution by the shared
// Transpose-Conv Builder. Its result chain is spliced in via
// ChainConnect."
func ruleTransposeConvolution(c *ctx, op *sourcenet.Operation) error {
	in := op.Inputs[0]
	out := op.Output(0)
	p := op.TransposeConv

	chain := transposeConvBuilder(c, transposeConvInputs{
		stride:     p.Stride,
		weights:    p.Weights,
		bias:       p.Bias,
		pad:        p.Pad,
		inputInfo:  in.Info,
		outputInfo: out.Info,
		sourceOpID: op.ID,
	})

	setProvenance(c, op, chain)
	return chainConnect(c, op, chain)
}

const depthToSpaceBlockSize = 2

// ruleDepthToSpace implements spec.md §4.2 DepthToSpace: block size fixed
// at 2; synthesise a one-hot selector convolution weight tensor, then
// delegate to the Transpose-Conv Builder with stride 2, padding 0.
func ruleDepthToSpace(c *ctx, op *sourcenet.Operation) error {
	if op.DepthToSpace.BlockSize != depthToSpaceBlockSize {
		panic(fmt.Sprintf("lower: depth-to-space op %d has block size %d; only 2 is supported", op.ID, op.DepthToSpace.BlockSize))
	}

	in := op.Inputs[0]
	out := op.Output(0)

	inChannels := in.Info.Dims[3]
	outChannels := out.Info.Dims[3]

	const weightScale = 0.5
	weightsDims := sourcenet.Dims4{2, 2, inChannels, outChannels}
	weightsBytes := make([]byte, weightsDims.Size())
	// weights[v, u, o + (v*2+u)*(in_channels/4), o] = 1/weight_scale for
	// every output channel o and every (v, u) in {0,1}^2.
	for o := 0; o < outChannels; o++ {
		for v := 0; v < 2; v++ {
			for u := 0; u < 2; u++ {
				ic := o + (v*2+u)*(inChannels/4)
				idx := ((v*2+u)*inChannels + ic) * outChannels + o
				weightsBytes[idx] = byte(1.0 / weightScale)
			}
		}
	}

	weightsInfo := sourcenet.TensorInfo{
		Dims:     weightsDims,
		ElemKind: quant.UInt8Quantized,
		Layout:   sourcenet.HWIO,
		Quant:    quant.Info{ZeroPoint: 0, Scale: weightScale},
	}

	biasBytes := make([]byte, outChannels*4)
	biasInfo := sourcenet.TensorInfo{
		Dims:     sourcenet.Dims4{1, 1, 1, outChannels},
		ElemKind: quant.Int32Quantized,
		Quant:    quant.Info{ZeroPoint: 0, Scale: weightScale * in.Info.Quant.Scale},
	}

	chain := transposeConvBuilder(c, transposeConvInputs{
		stride:     depthToSpaceBlockSize,
		weights:    sourcenet.ConstantData{Info: weightsInfo, Bytes: weightsBytes},
		bias:       sourcenet.ConstantData{Info: biasInfo, Bytes: biasBytes},
		pad:        sourcenet.Padding4{},
		inputInfo:  in.Info,
		outputInfo: out.Info,
		sourceOpID: op.ID,
	})

	setProvenance(c, op, chain)
	return chainConnect(c, op, chain)
}
