// Package lowered models the Lowered Graph (spec.md §3): the DAG of
// hardware-executable primitives the conversion pass produces. It is
// grounded on spec.md §9 Design Notes' "arena-plus-index model"
// (generalizing the teacher's arena used elsewhere for parameters) and on
// the teacher's pkg/core/math/tensor/types.Shape contract for the shape
// fields every node carries.
package lowered

import (
	"fmt"

	"github.com/ethosn/npulower/quant"
	"github.com/ethosn/npulower/sourcenet"
)

// NodeKind is the tagged-variant discriminant for a Lowered Node
// (spec.md §3).
type NodeKind uint8

const (
	KindInput NodeKind = iota
	KindOutput
	KindConstant
	KindFormatConversion
	KindReinterpret
	KindExtractSubtensor
	KindConcat
	KindRequantize
	KindMcePostProcessOperation
	KindMceOperation
	KindFuseOnlyPleOperation
	KindStandalonePleOperation
	KindEstimateOnly
)

// String implements fmt.Stringer.
func (k NodeKind) String() string {
	switch k {
	case KindInput:
		return "Input"
	case KindOutput:
		return "Output"
	case KindConstant:
		return "Constant"
	case KindFormatConversion:
		return "FormatConversion"
	case KindReinterpret:
		return "Reinterpret"
	case KindExtractSubtensor:
		return "ExtractSubtensor"
	case KindConcat:
		return "Concat"
	case KindRequantize:
		return "Requantize"
	case KindMcePostProcessOperation:
		return "McePostProcessOperation"
	case KindMceOperation:
		return "MceOperation"
	case KindFuseOnlyPleOperation:
		return "FuseOnlyPleOperation"
	case KindStandalonePleOperation:
		return "StandalonePleOperation"
	case KindEstimateOnly:
		return "EstimateOnly"
	default:
		return "UnknownNodeKind"
	}
}

// PleOp enumerates the PLE micro-ops a FuseOnlyPleOperation or
// StandalonePleOperation can carry (spec.md §3).
type PleOp uint8

const (
	PleMeanXY8x8 PleOp = iota
	PleAvgPool3x3_1x1Udma
	PleMaxPool2x2_2x2
	PleMaxPool3x3_2x2
	PleSigmoid
	PleAddition
	PleAdditionRescale
	PleInterleave2x2_2x2
)

// String implements fmt.Stringer.
func (p PleOp) String() string {
	switch p {
	case PleMeanXY8x8:
		return "MEAN_XY_8X8"
	case PleAvgPool3x3_1x1Udma:
		return "AVGPOOL_3X3_1_1_UDMA"
	case PleMaxPool2x2_2x2:
		return "MAXPOOL_2X2_2_2"
	case PleMaxPool3x3_2x2:
		return "MAXPOOL_3X3_2_2"
	case PleSigmoid:
		return "SIGMOID"
	case PleAddition:
		return "ADDITION"
	case PleAdditionRescale:
		return "ADDITION_RESCALE"
	case PleInterleave2x2_2x2:
		return "INTERLEAVE_2X2_2_2"
	default:
		return "UNKNOWN_PLE_OP"
	}
}

// MceOperationType selects what an MceOperation node computes (spec.md
// §3).
type MceOperationType uint8

const (
	MceConvolution MceOperationType = iota
	MceDepthwiseConvolution
	MceFullyConnected
)

// String implements fmt.Stringer.
func (t MceOperationType) String() string {
	switch t {
	case MceConvolution:
		return "CONVOLUTION"
	case MceDepthwiseConvolution:
		return "DEPTHWISE_CONVOLUTION"
	case MceFullyConnected:
		return "FULLY_CONNECTED"
	default:
		return "UNKNOWN_MCE_OPERATION_TYPE"
	}
}

// ShapeMultiplier is the triple describing a PLE op's input-to-output
// spatial/channel ratio (spec.md GLOSSARY "Shape multiplier").
type ShapeMultiplier struct {
	NumH, DenH int
	NumW, DenW int
	ChanMult   int
}

// IdentityShapeMultiplier is the 1:1:1 multiplier used by ops that don't
// change shape (spec.md §4.2 Sigmoid: "an identity shape multiplier").
var IdentityShapeMultiplier = ShapeMultiplier{NumH: 1, DenH: 1, NumW: 1, DenW: 1, ChanMult: 1}

// Offset4 is a 4-D supertensor offset, used by ExtractSubtensor (spec.md
// §3/§4.2 Split).
type Offset4 = sourcenet.Dims4

// Node is a Lowered Node: a tagged variant carrying output shape,
// quantization, layout, and provenance (spec.md §3) plus kind-specific
// payload fields, selected by Kind exactly as sourcenet.Operation
// selects among its *Params fields by Kind.
type Node struct {
	Kind NodeKind

	OutShape sourcenet.Dims4
	OutQuant quant.Info
	Layout   sourcenet.Layout

	// Provenance is the set of source-operation ids that contributed to
	// this node's existence (spec.md §3 "Lowered Node").
	Provenance []sourcenet.OpID

	// Input / Output
	InputTensorInfo     sourcenet.TensorInfo // Input
	OutputProducerID    sourcenet.OpID       // Output
	OutputProducerIndex int                  // Output

	// Constant
	ConstantBytes []byte

	// ExtractSubtensor
	Offset Offset4

	// Concat
	ConcatAxis int

	// McePostProcessOperation (relu bounds)
	LowerBound, UpperBound int32

	// MceOperation
	InShape       sourcenet.Dims4
	WeightsInfo   sourcenet.TensorInfo
	WeightsBytes  []byte
	BiasInfo      sourcenet.TensorInfo
	BiasI32       []int32
	StrideY       int
	StrideX       int
	UpscaleFactor int
	TopPad        int
	LeftPad       int
	MceOp         MceOperationType

	// FuseOnlyPleOperation / StandalonePleOperation
	PleOperation    PleOp
	ShapeMultiplier ShapeMultiplier
}

func (n *Node) String() string {
	return fmt.Sprintf("%s(out=%s, layout=%s, provenance=%v)", n.Kind, n.OutShape, n.Layout, n.Provenance)
}
