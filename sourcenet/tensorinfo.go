// Package sourcenet models the Source Network (spec.md §3): the DAG of
// high-level operations the conversion pass consumes. It is grounded on
// the teacher's pkg/core/math/tensor/types.Shape (a plain []int with
// Rank/Size/Equal) and pkg/core/math/nn/types.Layer (the Name/Init/
// OutputShape contract), generalized from "one executable layer" to "one
// un-executed tagged source operation".
package sourcenet

import (
	"fmt"

	"github.com/ethosn/npulower/quant"
)

// Layout is the external or hardware tensor layout tag carried by a
// TensorInfo (spec.md §3, GLOSSARY).
type Layout uint8

const (
	// NHWC is the canonical external layout: batch, height, width, channels.
	NHWC Layout = iota
	// NHWCB is the hardware brick-group layout.
	NHWCB
	// HWIO is a weight layout indexing "per output channel".
	HWIO
	// HWIM is a weight layout indexing "per multiplier" (depthwise weights).
	HWIM
)

// String implements fmt.Stringer.
func (l Layout) String() string {
	switch l {
	case NHWC:
		return "NHWC"
	case NHWCB:
		return "NHWCB"
	case HWIO:
		return "HWIO"
	case HWIM:
		return "HWIM"
	default:
		return "UNKNOWN_LAYOUT"
	}
}

// Dims4 is a 4-element non-negative shape in NHWC-indexed order
// (spec.md §3: "4-vector of non-negative integers in NHWC order").
type Dims4 [4]int

// Size returns the product of all four dimensions.
func (d Dims4) Size() int {
	return d[0] * d[1] * d[2] * d[3]
}

// Equal reports whether two shapes have identical dimensions.
func (d Dims4) Equal(other Dims4) bool {
	return d == other
}

func (d Dims4) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", d[0], d[1], d[2], d[3])
}

// TensorInfo is the tuple described by spec.md §3: shape, element type,
// external/hardware layout, and quantization.
type TensorInfo struct {
	Dims     Dims4
	ElemKind quant.ElementType
	Layout   Layout
	Quant    quant.Info
}

// NewTensorInfo validates and constructs a TensorInfo. All four
// dimensions must be non-negative, matching spec.md §3's invariant.
func NewTensorInfo(dims Dims4, elemKind quant.ElementType, layout Layout, q quant.Info) (TensorInfo, error) {
	for i, d := range dims {
		if d < 0 {
			return TensorInfo{}, fmt.Errorf("sourcenet: dimension %d is negative: %d", i, d)
		}
	}
	return TensorInfo{Dims: dims, ElemKind: elemKind, Layout: layout, Quant: q}, nil
}
