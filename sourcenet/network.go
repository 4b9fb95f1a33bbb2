// Package sourcenet models the Source Network (spec.md §3): the DAG of
// high-level operations the conversion pass consumes. It is grounded on
// the teacher's pkg/core/math/tensor/types.Shape (a plain []int with
// Rank/Size/Equal) and pkg/core/math/nn/types.Layer (the Name/Init/
// OutputShape contract), generalized from "one executable layer" to "one
// un-executed tagged source operation".
package sourcenet

import (
	"fmt"

	"github.com/ethosn/npulower/internal/arena"
)

// Network is the Source Network: an arena of Operations plus the operand
// bookkeeping needed to resolve producer/consumer edges. Operations are
// added in the order the caller discovers them; Walk yields them in the
// same order, which the builder (package ingest) is responsible for
// making topological, per spec.md §5 ("the source network is walked in
// topological order").
type Network struct {
	ops      *arena.Arena[*Operation]
	operands map[OperandKey]*Operand
}

// NewNetwork returns an empty Network.
func NewNetwork() *Network {
	return &Network{
		ops:      arena.New[*Operation](),
		operands: make(map[OperandKey]*Operand),
	}
}

// AddOperation creates an operation of the given kind, appends it to the
// network under the next OpID, and registers numOutputs fresh Operands as
// its outputs. The caller fills in inputs (via Connect), output
// TensorInfos and kind-specific parameters on the returned operation.
func (n *Network) AddOperation(kind OpKind, numOutputs int) *Operation {
	id := OpID(n.ops.Len())
	op := &Operation{ID: id, Kind: kind}
	op.Outputs = make([]*Operand, numOutputs)
	for i := 0; i < numOutputs; i++ {
		key := OperandKey{ProducerID: id, OutputIndex: i}
		operand := &Operand{Key: key}
		op.Outputs[i] = operand
		n.operands[key] = operand
	}
	n.ops.Add(op)
	return op
}

// Connect records that consumer reads producer's output at outputIndex,
// appending the bound Operand to consumer.Inputs and registering
// consumer as that operand's consumer (spec.md §3 Operand invariant:
// "may have many consumers").
func (n *Network) Connect(consumer *Operation, producer *Operation, outputIndex int) error {
	operand := producer.Output(outputIndex)
	if operand == nil {
		return fmt.Errorf("sourcenet: operation %d has no output %d", producer.ID, outputIndex)
	}
	operand.AddConsumer(consumer.ID)
	consumer.Inputs = append(consumer.Inputs, operand)
	return nil
}

// Operation returns the operation with the given id.
func (n *Network) Operation(id OpID) *Operation {
	return n.ops.Get(arena.Ref(id))
}

// Len returns the number of operations in the network.
func (n *Network) Len() int {
	return n.ops.Len()
}

// Walk calls fn once per operation in insertion order. The caller
// (package lower) relies on this order being a valid topological order
// of the network.
func (n *Network) Walk(fn func(*Operation) error) error {
	for _, op := range n.ops.All() {
		if err := fn(op); err != nil {
			return err
		}
	}
	return nil
}

// Operand looks up an operand by its key, returning nil if absent.
func (n *Network) Operand(key OperandKey) *Operand {
	return n.operands[key]
}
