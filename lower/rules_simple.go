package lower

import (
	"fmt"

	"github.com/ethosn/npulower/lowered"
	"github.com/ethosn/npulower/npuerrors"
	"github.com/ethosn/npulower/sourcenet"
)

// ruleInput implements spec.md §4.2 Input: "Emit Input(tensor_info); if
// its declared external layout != NHWCB, append a FormatConversion to
// NHWCB."
func ruleInput(c *ctx, op *sourcenet.Operation) error {
	info := op.InputTensorInfo
	chain := []lowered.NodeRef{c.graph.CreateNode(&lowered.Node{
		Kind:            lowered.KindInput,
		OutShape:        info.Dims,
		OutQuant:        info.Quant,
		Layout:          info.Layout,
		InputTensorInfo: info,
	})}
	if info.Layout != sourcenet.NHWCB {
		chain = append(chain, c.graph.CreateNode(&lowered.Node{
			Kind:     lowered.KindFormatConversion,
			OutShape: info.Dims,
			OutQuant: info.Quant,
			Layout:   sourcenet.NHWCB,
		}))
	}
	setProvenance(c, op, chain)
	return chainConnect(c, op, chain)
}

// ruleOutput implements spec.md §4.2 Output: if the producer's current
// layout differs from the output's declared external layout, prepend a
// FormatConversion converting to that layout, then emit
// Output(producer_id, producer_output_index). Both nodes' provenance uses
// the producer's id, not the Output operation's own id, so downstream
// consumers can identify which producing op each network output belongs
// to.
func ruleOutput(c *ctx, op *sourcenet.Operation) error {
	if len(op.Inputs) != 1 {
		return fmt.Errorf("lower: Output op %d must have exactly 1 input, got %d", op.ID, len(op.Inputs))
	}
	in := op.Inputs[0]
	prodRef, ok := c.operand.Get(in.Key)
	if !ok {
		return fmt.Errorf("lower: Output op %d input has no producer", op.ID)
	}
	producerNode := c.graph.Node(prodRef)
	declared := op.OutputTensorInfo

	head := prodRef
	var chain []lowered.NodeRef
	if producerNode.Layout != declared.Layout {
		fc := &lowered.Node{
			Kind:       lowered.KindFormatConversion,
			OutShape:   in.Info.Dims,
			OutQuant:   in.Info.Quant,
			Layout:     declared.Layout,
			Provenance: []sourcenet.OpID{in.Key.ProducerID},
		}
		fcRef := c.graph.CreateNode(fc)
		c.graph.Connect(head, 0, fcRef)
		head = fcRef
		chain = append(chain, fcRef)
	}

	outNode := &lowered.Node{
		Kind:                lowered.KindOutput,
		OutShape:            in.Info.Dims,
		OutQuant:            in.Info.Quant,
		Layout:              declared.Layout,
		OutputProducerID:    in.Key.ProducerID,
		OutputProducerIndex: in.Key.OutputIndex,
		Provenance:          []sourcenet.OpID{in.Key.ProducerID},
	}
	outRef := c.graph.CreateNode(outNode)
	c.graph.Connect(head, 0, outRef)
	chain = append(chain, outRef)

	// Output has no output operand of its own to bind; chainConnect's
	// input-wiring step is unnecessary since the edges above already
	// connect the producer (and optional FormatConversion) to Output.
	_ = chain
	return nil
}

// ruleConstant implements spec.md §4.2 Constant: "Emit a single Constant
// node carrying raw bytes."
func ruleConstant(c *ctx, op *sourcenet.Operation) error {
	chain := []lowered.NodeRef{c.graph.CreateNode(&lowered.Node{
		Kind:          lowered.KindConstant,
		OutShape:      op.Constant.Info.Dims,
		OutQuant:      op.Constant.Info.Quant,
		Layout:        op.Constant.Info.Layout,
		ConstantBytes: op.Constant.Bytes,
	})}
	setProvenance(c, op, chain)
	return chainConnect(c, op, chain)
}

// ruleRelu implements spec.md §4.2 Relu: "Emit a single
// McePostProcessOperation with the relu lower/upper bounds, NHWCB
// layout."
func ruleRelu(c *ctx, op *sourcenet.Operation) error {
	out := op.Output(0)
	chain := []lowered.NodeRef{c.graph.CreateNode(&lowered.Node{
		Kind:       lowered.KindMcePostProcessOperation,
		OutShape:   out.Info.Dims,
		OutQuant:   out.Info.Quant,
		Layout:     sourcenet.NHWCB,
		LowerBound: op.Relu.LowerBound,
		UpperBound: op.Relu.UpperBound,
	})}
	setProvenance(c, op, chain)
	return chainConnect(c, op, chain)
}

// ruleSigmoid implements spec.md §4.2 Sigmoid: "Emit a
// FuseOnlyPleOperation(SIGMOID) with an identity shape multiplier."
func ruleSigmoid(c *ctx, op *sourcenet.Operation) error {
	out := op.Output(0)
	chain := []lowered.NodeRef{c.graph.CreateNode(&lowered.Node{
		Kind:            lowered.KindFuseOnlyPleOperation,
		OutShape:        out.Info.Dims,
		OutQuant:        out.Info.Quant,
		Layout:          sourcenet.NHWCB,
		PleOperation:    lowered.PleSigmoid,
		ShapeMultiplier: lowered.IdentityShapeMultiplier,
	})}
	setProvenance(c, op, chain)
	return chainConnect(c, op, chain)
}

// ruleSoftmax implements spec.md §4.2 Softmax: "Only EstimateOnly is
// legal; otherwise the pass aborts (NotImplemented)." The support oracle
// is expected to return EstimateOnly for every Softmax; dispatch handles
// that branch before ever calling this rule, so reaching here means the
// oracle returned Supported, which the oracle's contract forbids for
// Softmax.
func ruleSoftmax(c *ctx, op *sourcenet.Operation) error {
	return npuerrors.NotImplemented("softmax (op %d) is only legal in estimation mode", op.ID)
}
