package lower

import (
	"github.com/ethosn/npulower/lowered"
	"github.com/ethosn/npulower/npuerrors"
	"github.com/ethosn/npulower/sourcenet"
)

// ruleConcatenation implements spec.md §4.2 Concatenation. Concat is
// multi-edge (one edge per input) rather than a single head->tail chain,
// so unlike most rules it does not end in chainConnect: it creates the
// Concat node directly, wires each input's current producer, then
// splices FormatConversion/Requantize nodes onto the edges that need
// them.
func ruleConcatenation(c *ctx, op *sourcenet.Operation) error {
	// Step 1: outside estimation mode (this rule only runs when the
	// support oracle returned Supported), reject any input with >1
	// consumer.
	for i, in := range op.Inputs {
		if len(in.Consumers()) > 1 {
			return npuerrors.SharedConcatInput("concat (op %d) input %d is consumed by %d operations", op.ID, i, len(in.Consumers()))
		}
	}

	out := op.Output(0)
	axis := op.Concat.Axis
	bh, bw, bc := c.caps.BrickGroupShape()
	brickGroupShape := [4]int{1, bh, bw, bc}

	// Step 2: layout choice.
	layout := sourcenet.NHWCB
	for _, in := range op.Inputs {
		if in.Info.Dims[axis]%brickGroupShape[axis] != 0 {
			layout = sourcenet.NHWC
			break
		}
	}

	concatNode := &lowered.Node{
		Kind:       lowered.KindConcat,
		OutShape:   out.Info.Dims,
		OutQuant:   out.Info.Quant,
		Layout:     layout,
		ConcatAxis: axis,
		Provenance: []sourcenet.OpID{op.ID},
	}
	concatRef := c.graph.CreateNode(concatNode)

	type splice struct {
		edge       lowered.EdgeRef
		needFormat bool
		needQuant  bool
		info       sourcenet.TensorInfo
	}
	var splices []splice

	for _, in := range op.Inputs {
		prodRef, ok := c.operand.Get(in.Key)
		if !ok {
			return abortMissingProducer(op)
		}
		edge := c.graph.Connect(prodRef, 0, concatRef)
		producerLayout := c.graph.Node(prodRef).Layout
		splices = append(splices, splice{
			edge:       edge,
			needFormat: producerLayout != layout,
			needQuant:  !in.Info.Quant.Equal(out.Info.Quant),
			info:       in.Info,
		})
	}

	// Steps 4-6: splice FormatConversion/Requantize after all splice
	// decisions have been made (two-phase, so splicing one edge doesn't
	// perturb the edges still to be inspected).
	for _, s := range splices {
		edge := s.edge
		if s.needFormat {
			fc := c.graph.CreateNode(&lowered.Node{
				Kind:       lowered.KindFormatConversion,
				OutShape:   s.info.Dims,
				OutQuant:   s.info.Quant,
				Layout:     layout,
				Provenance: []sourcenet.OpID{op.ID},
			})
			c.graph.SplitEdge(edge, fc)
		}
		if s.needQuant {
			rq := c.graph.CreateNode(&lowered.Node{
				Kind:       lowered.KindRequantize,
				OutShape:   s.info.Dims,
				OutQuant:   out.Info.Quant,
				Layout:     layout,
				Provenance: []sourcenet.OpID{op.ID},
			})
			c.graph.SplitEdge(edge, rq)
		}
	}

	c.operand.Set(op.Outputs[0].Key, concatRef)
	return nil
}
