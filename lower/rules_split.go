package lower

import (
	"github.com/ethosn/npulower/lowered"
	"github.com/ethosn/npulower/sourcenet"
)

// ruleSplit implements spec.md §4.2 Split: layout choice mirrors Concat,
// then k ExtractSubtensor nodes are emitted with a running
// supertensor_offset along axis. Split is multi-output, so like
// Concatenation it binds its own outputs instead of calling
// chainConnect.
func ruleSplit(c *ctx, op *sourcenet.Operation) error {
	in := op.Inputs[0]
	axis := op.Split.Axis
	bh, bw, bc := c.caps.BrickGroupShape()
	brickGroupShape := [4]int{1, bh, bw, bc}

	layout := sourcenet.NHWCB
	for i := range op.Outputs {
		if op.Outputs[i].Info.Dims[axis]%brickGroupShape[axis] != 0 {
			layout = sourcenet.NHWC
			break
		}
	}

	prodRef, ok := c.operand.Get(in.Key)
	if !ok {
		return abortMissingProducer(op)
	}

	head := prodRef
	if c.graph.Node(prodRef).Layout != layout {
		fc := &lowered.Node{
			Kind:       lowered.KindFormatConversion,
			OutShape:   in.Info.Dims,
			OutQuant:   in.Info.Quant,
			Layout:     layout,
			Provenance: []sourcenet.OpID{op.ID},
		}
		fcRef := c.graph.CreateNode(fc)
		c.graph.Connect(prodRef, 0, fcRef)
		head = fcRef
	}

	offset := sourcenet.Dims4{}
	for i, size := range op.Split.Sizes {
		out := op.Outputs[i]
		node := &lowered.Node{
			Kind:       lowered.KindExtractSubtensor,
			OutShape:   out.Info.Dims,
			OutQuant:   in.Info.Quant,
			Layout:     layout,
			Offset:     offset,
			Provenance: []sourcenet.OpID{op.ID},
		}
		ref := c.graph.CreateNode(node)
		c.graph.Connect(head, 0, ref)
		c.operand.Set(out.Key, ref)

		offset[axis] += size
	}

	return nil
}
