// Package support is the supportedness oracle the conversion pass treats
// as an external collaborator (spec.md §1/§6): the "IsXSupported"
// predicates that classify an operation into Supported, EstimateOnly, or
// Unsupported. The pass never decides this itself; every rewrite rule in
// package lower begins by consulting it (spec.md §4.1).
//
// Grounded on the same small-interface-as-boundary idiom as package
// capability, generalized from the teacher's per-layer validation
// (Conv2D.Init's shape checks) to a single cross-cutting verdict an
// external test double can control per operation kind.
package support

import "github.com/ethosn/npulower/sourcenet"

// Verdict is the three-valued result of a supportedness query (spec.md
// GLOSSARY "Supportedness").
type Verdict uint8

const (
	// Supported means the kind-specific lowering in package lower should
	// run in full.
	Supported Verdict = iota
	// EstimateOnly means the rule should emit a single EstimateOnly node
	// instead of its normal lowering.
	EstimateOnly
	// Unsupported means the pass must abort with NotSupported.
	Unsupported
)

// String implements fmt.Stringer.
func (v Verdict) String() string {
	switch v {
	case Supported:
		return "Supported"
	case EstimateOnly:
		return "EstimateOnly"
	case Unsupported:
		return "Unsupported"
	default:
		return "UnknownVerdict"
	}
}

// Oracle answers "is this operation supported" for every source
// operation kind (spec.md §6: "the predicate's input is the full
// operation info"). One method per kind lets a test double return a
// different verdict per call site without a kind+payload union type.
type Oracle interface {
	IsInputSupported(op *sourcenet.Operation) Verdict
	IsOutputSupported(op *sourcenet.Operation) Verdict
	IsConstantSupported(op *sourcenet.Operation) Verdict
	IsConvolutionSupported(op *sourcenet.Operation) Verdict
	IsDepthwiseConvolutionSupported(op *sourcenet.Operation) Verdict
	IsPoolingSupported(op *sourcenet.Operation) Verdict
	IsAdditionSupported(op *sourcenet.Operation) Verdict
	IsConcatenationSupported(op *sourcenet.Operation) Verdict
	IsSplitSupported(op *sourcenet.Operation) Verdict
	IsReshapeSupported(op *sourcenet.Operation) Verdict
	IsFullyConnectedSupported(op *sourcenet.Operation) Verdict
	IsTransposeConvolutionSupported(op *sourcenet.Operation) Verdict
	IsDepthToSpaceSupported(op *sourcenet.Operation) Verdict
	IsSigmoidSupported(op *sourcenet.Operation) Verdict
	IsSoftmaxSupported(op *sourcenet.Operation) Verdict
	IsReluSupported(op *sourcenet.Operation) Verdict
}

// AllSupported is an Oracle that reports Supported for every operation
// except Softmax, which spec.md §4.2 permits only as EstimateOnly. It is
// the default used by cmd/npulower and by tests that exercise the
// "happy path" lowering of each kind.
type AllSupported struct{}

func (AllSupported) IsInputSupported(*sourcenet.Operation) Verdict                 { return Supported }
func (AllSupported) IsOutputSupported(*sourcenet.Operation) Verdict                { return Supported }
func (AllSupported) IsConstantSupported(*sourcenet.Operation) Verdict              { return Supported }
func (AllSupported) IsConvolutionSupported(*sourcenet.Operation) Verdict           { return Supported }
func (AllSupported) IsDepthwiseConvolutionSupported(*sourcenet.Operation) Verdict  { return Supported }
func (AllSupported) IsPoolingSupported(*sourcenet.Operation) Verdict               { return Supported }
func (AllSupported) IsAdditionSupported(*sourcenet.Operation) Verdict              { return Supported }
func (AllSupported) IsConcatenationSupported(*sourcenet.Operation) Verdict         { return Supported }
func (AllSupported) IsSplitSupported(*sourcenet.Operation) Verdict                 { return Supported }
func (AllSupported) IsReshapeSupported(*sourcenet.Operation) Verdict               { return Supported }
func (AllSupported) IsFullyConnectedSupported(*sourcenet.Operation) Verdict        { return Supported }
func (AllSupported) IsTransposeConvolutionSupported(*sourcenet.Operation) Verdict  { return Supported }
func (AllSupported) IsDepthToSpaceSupported(*sourcenet.Operation) Verdict          { return Supported }
func (AllSupported) IsSigmoidSupported(*sourcenet.Operation) Verdict               { return Supported }
func (AllSupported) IsSoftmaxSupported(*sourcenet.Operation) Verdict               { return EstimateOnly }
func (AllSupported) IsReluSupported(*sourcenet.Operation) Verdict                  { return Supported }
