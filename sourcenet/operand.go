package sourcenet

// OperandKey identifies one output of one operation: (producer id,
// output index). Per spec.md §9 Design Notes, this replaces the original
// pointer-identity keying so operands don't have to outlive the network
// arena that owns them.
type OperandKey struct {
	ProducerID   OpID
	OutputIndex int
}

// Operand is an edge endpoint belonging to a source operation (spec.md
// §3). Every operand produced by the network has exactly one producer
// but may have many consumers.
type Operand struct {
	Key      OperandKey
	Info     TensorInfo
	consumers []OpID
}

// AddConsumer records that op reads this operand. Called while building
// the network; a single operand may gain multiple consumers, which is
// exactly what Concat's shared-input rejection rule (spec.md §4.2) checks
// for.
func (o *Operand) AddConsumer(op OpID) {
	o.consumers = append(o.consumers, op)
}

// Consumers returns the operations that read this operand.
func (o *Operand) Consumers() []OpID {
	out := make([]OpID, len(o.consumers))
	copy(out, o.consumers)
	return out
}
