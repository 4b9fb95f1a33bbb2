package lower

import (
	"github.com/ethosn/npulower/lowered"
	"github.com/ethosn/npulower/sourcenet"
)

// ruleAddition implements spec.md §4.2 Addition: "If all three
// quantizations (both inputs + output) are equal, emit
// StandalonePleOperation(ADDITION); otherwise ADDITION_RESCALE."
func ruleAddition(c *ctx, op *sourcenet.Operation) error {
	a, b := op.Inputs[0], op.Inputs[1]
	out := op.Output(0)

	pleOp := lowered.PleAddition
	if !(a.Info.Quant.Equal(b.Info.Quant) && a.Info.Quant.Equal(out.Info.Quant)) {
		pleOp = lowered.PleAdditionRescale
	}

	chain := []lowered.NodeRef{c.graph.CreateNode(&lowered.Node{
		Kind:         lowered.KindStandalonePleOperation,
		OutShape:     out.Info.Dims,
		OutQuant:     out.Info.Quant,
		Layout:       sourcenet.NHWCB,
		PleOperation: pleOp,
	})}
	setProvenance(c, op, chain)
	return chainConnect(c, op, chain)
}
