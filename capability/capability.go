// Package capability is the hardware-capability oracle the conversion
// pass treats as an external collaborator (spec.md §1/§6): brick-group
// shape and sub-map channel arithmetic. The pass never computes these
// itself, matching spec.md's "out of scope... hardware-capability
// queries" boundary.
//
// Grounded on the teacher's pkg/core/math/nn/types.Layer interface
// pattern (a small, name-stable contract other packages depend on
// without knowing the concrete implementation), here narrowed to two
// pure queries instead of a stateful layer.
package capability

// Oracle reports the fixed hardware parameters the conversion pass needs
// but does not own (spec.md §6): brick-group shape and the channel count
// produced by a strided sub-map reinterpretation.
type Oracle interface {
	// BrickGroupShape returns (1, BH, BW, BC), the NHWCB tiling unit
	// (spec.md GLOSSARY "Brick group").
	BrickGroupShape() (bh, bw, bc int)

	// NumSubmapChannels returns the channel count C' produced when
	// reinterpreting C channels through an SX-by-SY strided sub-map
	// (spec.md §6 num_submap_channels(C, SX, SY) -> C').
	NumSubmapChannels(channels, strideX, strideY int) int
}

// Default is a fixed-parameter Oracle matching the brick-group shape used
// throughout spec.md's worked examples (brick-group channels = 16, per
// §8 S5) and the textbook "pack channels densely" sub-map arithmetic.
type Default struct {
	BH, BW, BC int
}

// NewDefault returns a Default oracle with the canonical (1, 8, 8, 16)
// brick-group shape.
func NewDefault() Default {
	return Default{BH: 8, BW: 8, BC: 16}
}

// BrickGroupShape implements Oracle.
func (d Default) BrickGroupShape() (bh, bw, bc int) {
	return d.BH, d.BW, d.BC
}

// NumSubmapChannels implements Oracle. A strided sub-map groups SX*SY
// spatial positions into the channel dimension, so the resulting channel
// count scales by that factor.
func (d Default) NumSubmapChannels(channels, strideX, strideY int) int {
	return channels * strideX * strideY
}
