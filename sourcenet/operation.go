package sourcenet

import "github.com/ethosn/npulower/quant"

// OpID identifies an Operation within a Network's arena.
type OpID int

// OpKind is the tagged-variant discriminant for a Source Operation
// (spec.md §1/§3): the visitor in package lower dispatches on this value
// instead of the class-based double-dispatch the original uses (spec.md
// §9 Design Notes).
type OpKind uint8

const (
	OpInput OpKind = iota
	OpOutput
	OpConstant
	OpConvolution
	OpDepthwiseConvolution
	OpPooling
	OpAddition
	OpConcatenation
	OpSplit
	OpReshape
	OpFullyConnected
	OpTransposeConvolution
	OpDepthToSpace
	OpSigmoid
	OpSoftmax
	OpRelu
	OpEstimateOnly
)

// String implements fmt.Stringer.
func (k OpKind) String() string {
	switch k {
	case OpInput:
		return "Input"
	case OpOutput:
		return "Output"
	case OpConstant:
		return "Constant"
	case OpConvolution:
		return "Convolution"
	case OpDepthwiseConvolution:
		return "DepthwiseConvolution"
	case OpPooling:
		return "Pooling"
	case OpAddition:
		return "Addition"
	case OpConcatenation:
		return "Concatenation"
	case OpSplit:
		return "Split"
	case OpReshape:
		return "Reshape"
	case OpFullyConnected:
		return "FullyConnected"
	case OpTransposeConvolution:
		return "TransposeConvolution"
	case OpDepthToSpace:
		return "DepthToSpace"
	case OpSigmoid:
		return "Sigmoid"
	case OpSoftmax:
		return "Softmax"
	case OpRelu:
		return "Relu"
	case OpEstimateOnly:
		return "EstimateOnly"
	default:
		return "UnknownOpKind"
	}
}

// PoolType distinguishes average from max pooling (spec.md §4.2 Pooling).
type PoolType uint8

const (
	PoolAvg PoolType = iota
	PoolMax
)

// Padding4 is (top, bottom, left, right) padding, matching the ordering
// the teacher's Conv2D/Pooling layers take as separate padH/padW
// arguments, generalized to four independent edges since spec.md's
// transpose-conv builder needs top/left individually.
type Padding4 struct {
	Top, Bottom, Left, Right int
}

// ConvParams carries a convolution's stride, padding, weights constant and
// bias constant (spec.md §3); the stride and padding fields stand in for a
// separate convolution-info struct.
type ConvParams struct {
	StrideY, StrideX int
	Pad              Padding4
	Weights          ConstantData
	Bias             ConstantData
}

// PoolParams carries spec.md §4.2 Pooling's (KH, KW, SY, SX, pad, type).
type PoolParams struct {
	KernelH, KernelW int
	StrideY, StrideX int
	Pad              Padding4
	Type             PoolType
}

// ConcatParams carries spec.md §4.2 Concatenation's axis.
type ConcatParams struct {
	Axis int
}

// SplitParams carries spec.md §4.2 Split's axis and per-output sizes.
type SplitParams struct {
	Axis  int
	Sizes []int
}

// ReshapeParams carries the declared output shape for spec.md §4.2
// Reshape; the rule itself only needs the operand's own TensorInfo plus
// this, since reshape is a pure metadata rewrite.
type ReshapeParams struct {
	OutputDims Dims4
}

// FullyConnectedParams carries the weights/bias constants spec.md §4.2
// FullyConnected's steps 2-4 operate on.
type FullyConnectedParams struct {
	Weights ConstantData
	Bias    ConstantData
}

// TransposeConvParams carries spec.md §4.3's inputs: "stride (square),
// weights, bias, user padding".
type TransposeConvParams struct {
	Stride  int
	Pad     Padding4
	Weights ConstantData
	Bias    ConstantData
}

// DepthToSpaceParams carries spec.md §4.2 DepthToSpace's block size,
// fixed at 2 but carried explicitly so the rewrite rule can assert it.
type DepthToSpaceParams struct {
	BlockSize int
}

// ReluParams carries the clamp bounds for an McePostProcessOperation
// (spec.md §3).
type ReluParams struct {
	LowerBound, UpperBound int32
}

// ConstantData is a constant operand's raw payload plus the quantization
// info needed to interpret it, matching spec.md §3's
// "Constant(TensorInfo, bytes)" lowered node shape.
type ConstantData struct {
	Info  TensorInfo
	Bytes []byte
}

// Operation is a Source Operation (spec.md §3): a tagged value carrying
// input/output operands, a stable id, and kind-specific parameters.
// Exactly one of the *Params fields is meaningful, selected by Kind; this
// mirrors the teacher's Base/Conv2D/Pooling/Dense split generalized from
// "one struct per executable layer type" to "one tagged struct, one
// params field per kind" so the lowering's switch-on-Kind dispatch has a
// single concrete type to range over.
type Operation struct {
	ID      OpID
	Kind    OpKind
	Inputs  []*Operand
	Outputs []*Operand

	Conv           ConvParams
	Pool           PoolParams
	Concat         ConcatParams
	Split          SplitParams
	Reshape        ReshapeParams
	FullyConnected FullyConnectedParams
	TransposeConv  TransposeConvParams
	DepthToSpace   DepthToSpaceParams
	Relu           ReluParams
	Constant       ConstantData

	// InputTensorInfo is the declared external TensorInfo for an Input
	// operation (spec.md §4.2 Input: "Emit Input(tensor_info)").
	InputTensorInfo TensorInfo

	// OutputTensorInfo is the declared external TensorInfo for an Output
	// operation, whose Layout drives the FormatConversion decision in
	// spec.md §4.2 Output.
	OutputTensorInfo TensorInfo
}

// Output returns the operation's i'th output operand, or nil if out of
// range. A convenience accessor; rules read op.Outputs directly when they
// need to range over all of them (Split, EstimateOnly).
func (op *Operation) Output(i int) *Operand {
	if i < 0 || i >= len(op.Outputs) {
		return nil
	}
	return op.Outputs[i]
}

// zeroQuant is an all-zero quantization Info. Nothing in the module
// reads it.
var zeroQuant = quant.Info{}
