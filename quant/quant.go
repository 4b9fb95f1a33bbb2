// Package quant describes the fixed-point quantization parameters carried
// by every TensorInfo (spec.md §3) and the element types the lowering pass
// targets (UINT8_QUANTIZED, INT32_QUANTIZED — spec.md GLOSSARY/§3).
//
// It is grounded on the teacher's pkg/core/math/tensor/types/dtype.go
// DataType enum, narrowed to the two hardware-native quantized element
// types the lowered graph cares about (the teacher's DTFP32/DTFP16/DTINT16
// variants have no target here: spec.md §1 Non-goals excludes numeric
// tensor evaluation, so quant carries descriptors only, never a
// Quantize/Dequantize runtime path).
package quant

import (
	"fmt"

	"github.com/chewxy/math32"
)

// ElementType is the element type of a lowered tensor.
type ElementType uint8

const (
	// UInt8Quantized is an 8-bit asymmetric-affine quantized element type.
	UInt8Quantized ElementType = iota
	// Int32Quantized is a 32-bit quantized element type, used for bias
	// accumulators and intermediate MCE results.
	Int32Quantized
)

// String implements fmt.Stringer.
func (e ElementType) String() string {
	switch e {
	case UInt8Quantized:
		return "UINT8_QUANTIZED"
	case Int32Quantized:
		return "INT32_QUANTIZED"
	default:
		return "UNKNOWN_ELEMENT_TYPE"
	}
}

// Info is a quantization descriptor: a zero-point and a scale, per
// spec.md §3 "quantization = (zero_point, scale)".
type Info struct {
	ZeroPoint int32
	Scale     float32
}

// New validates and constructs an Info. Scale must be strictly positive;
// a non-positive scale cannot represent any quantized range.
func New(zeroPoint int32, scale float32) (Info, error) {
	if scale <= 0 {
		return Info{}, errScaleNotPositive(scale)
	}
	return Info{ZeroPoint: zeroPoint, Scale: scale}, nil
}

// Equal reports whether two quantization descriptors are identical. Used
// throughout lower's rewrite rules (Addition's "all three quantizations
// equal" check, Concat's per-input Requantize-splice decision).
func (i Info) Equal(other Info) bool {
	return i.ZeroPoint == other.ZeroPoint && i.Scale == other.Scale
}

// scaleProductTolerance bounds the float32 rounding slack accepted by
// CheckScaleProduct; the exact value only has to distinguish
// "deliberately chosen to make the product 1.0" from "programmer error".
const scaleProductTolerance = 1e-5

// CheckScaleProduct reports whether weightScale*identityValue is within
// tolerance of 1.0, the invariant spec.md §9 Open Questions requires of
// the large-kernel transpose-conv path (weight_scale=0.5, identity
// weight=2). Kept in float32 throughout, matching the "stay fp32, never
// promote to float64" discipline of pkg/core/math/primitive/fp32.
func CheckScaleProduct(weightScale, identityValue float32) bool {
	return math32.Abs(weightScale*identityValue-1.0) < scaleProductTolerance
}

func errScaleNotPositive(scale float32) error {
	return &InvalidScaleError{Scale: scale}
}

// InvalidScaleError reports an attempt to construct a quantization Info
// with a non-positive scale.
type InvalidScaleError struct {
	Scale float32
}

func (e *InvalidScaleError) Error() string {
	return fmt.Sprintf("quant: scale must be positive, got %f", e.Scale)
}
