package lower

import "github.com/ethosn/npulower/sourcenet"

// linearShapePacker implements spec.md §4.2's Linear-Shape Packer: given
// the brick-group shape (1, BH, BW, BC) and a 1-D element count N,
// compute the smallest 4-D shape whose brick-format layout exactly
// covers N logical elements.
func linearShapePacker(n, bh, bw, bc int) sourcenet.Dims4 {
	const patchSize = 16 // 4x4 patches

	numPatches := ceilDiv(n, patchSize)

	w := bw
	if numPatches <= bc*(bh/4) {
		w = 4
	}
	h := bh
	if numPatches <= bc {
		h = 4
	}

	patchesPerBg := (bh / 4) * (bw / 4) * bc
	fullGroups := numPatches / patchesPerBg
	remainder := numPatches % patchesPerBg
	c := bc*fullGroups + min(bc, remainder)

	return sourcenet.Dims4{1, h, w, c}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
