package lower

import (
	"fmt"

	"github.com/ethosn/npulower/lowered"
	"github.com/ethosn/npulower/sourcenet"
)

// chainConnect implements spec.md §4.1's ChainConnect(op, chain):
// it connects each successive pair in chain (head->...->tail), wires
// every input operand of op into chain's head, and — for single-output
// operations — binds OperandMap[op.output(0)] to chain's tail. Multi-
// output operations (Split, EstimateOnly) must bind their own outputs
// and must not call chainConnect.
func chainConnect(c *ctx, op *sourcenet.Operation, chain []lowered.NodeRef) error {
	if len(op.Outputs) > 1 {
		return fmt.Errorf("lower: chainConnect called on multi-output op %d (%s); multi-output ops bind their own outputs", op.ID, op.Kind)
	}
	if len(chain) == 0 {
		return fmt.Errorf("lower: chainConnect called with an empty chain for op %d (%s)", op.ID, op.Kind)
	}

	for i := 0; i+1 < len(chain); i++ {
		c.graph.Connect(chain[i], 0, chain[i+1])
	}

	for _, in := range op.Inputs {
		prodRef, ok := c.operand.Get(in.Key)
		if !ok {
			return fmt.Errorf("lower: operand %v has no producer when lowering op %d (%s)", in.Key, op.ID, op.Kind)
		}
		c.graph.Connect(prodRef, 0, chain[0])
	}

	if len(op.Outputs) == 1 {
		c.operand.Set(op.Outputs[0].Key, chain[len(chain)-1])
	}
	return nil
}

// abortMissingProducer reports a rule trying to read an operand whose
// producer was never lowered — a bug in network construction or
// topological ordering, not a spec-defined error condition.
func abortMissingProducer(op *sourcenet.Operation) error {
	return fmt.Errorf("lower: op %d (%s) input has no lowered producer", op.ID, op.Kind)
}

// setProvenance stamps every node in chain with op's id, appended to
// whatever provenance the node already carries (a rule may construct a
// node before calling setProvenance, e.g. the transpose-conv builder's
// synthesised upscale node).
func setProvenance(c *ctx, op *sourcenet.Operation, chain []lowered.NodeRef) {
	for _, ref := range chain {
		n := c.graph.Node(ref)
		n.Provenance = append(n.Provenance, op.ID)
	}
}
