package lower

import (
	"github.com/ethosn/npulower/lowered"
	"github.com/ethosn/npulower/sourcenet"
)

// ruleReshape implements spec.md §4.2 Reshape: "ensure NHWC (prepend
// FormatConversion if current layout != NHWC) -> Reinterpret to the
// output shape (NHWC, same quant) -> FormatConversion back to NHWCB."
func ruleReshape(c *ctx, op *sourcenet.Operation) error {
	in := op.Inputs[0]
	out := op.Output(0)

	prodRef, ok := c.operand.Get(in.Key)
	if !ok {
		return abortMissingProducer(op)
	}
	currentLayout := c.graph.Node(prodRef).Layout

	var chain []lowered.NodeRef
	if currentLayout != sourcenet.NHWC {
		chain = append(chain, c.graph.CreateNode(&lowered.Node{
			Kind:     lowered.KindFormatConversion,
			OutShape: in.Info.Dims,
			OutQuant: in.Info.Quant,
			Layout:   sourcenet.NHWC,
		}))
	}

	chain = append(chain, c.graph.CreateNode(&lowered.Node{
		Kind:     lowered.KindReinterpret,
		OutShape: op.Reshape.OutputDims,
		OutQuant: in.Info.Quant,
		Layout:   sourcenet.NHWC,
	}))

	chain = append(chain, c.graph.CreateNode(&lowered.Node{
		Kind:     lowered.KindFormatConversion,
		OutShape: op.Reshape.OutputDims,
		OutQuant: out.Info.Quant,
		Layout:   sourcenet.NHWCB,
	}))

	setProvenance(c, op, chain)
	return chainConnect(c, op, chain)
}
