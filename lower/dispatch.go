package lower

import (
	"fmt"

	"github.com/ethosn/npulower/sourcenet"
	"github.com/ethosn/npulower/support"
)

// ruleFunc performs the kind-specific lowering for an operation once the
// support oracle has returned Supported.
type ruleFunc func(c *ctx, op *sourcenet.Operation) error

// dispatch is the visitor of spec.md §4.1: it consults the Support
// Oracle for op's kind, then branches into EstimateOnly, Unsupported, or
// the kind's rule. It returns the verdict alongside any error so Run can
// keep Stats without re-deriving the verdict.
func dispatch(c *ctx, op *sourcenet.Operation) (support.Verdict, error) {
	verdict, rule, err := classify(c, op)
	if err != nil {
		return support.Unsupported, err
	}

	switch verdict {
	case support.EstimateOnly:
		return verdict, estimateOnlyChain(c, op)
	case support.Unsupported:
		return verdict, abortUnsupported(op)
	default:
		return verdict, rule(c, op)
	}
}

// classify maps op.Kind to its oracle predicate and rule function.
func classify(c *ctx, op *sourcenet.Operation) (support.Verdict, ruleFunc, error) {
	switch op.Kind {
	case sourcenet.OpInput:
		return c.support.IsInputSupported(op), ruleInput, nil
	case sourcenet.OpOutput:
		return c.support.IsOutputSupported(op), ruleOutput, nil
	case sourcenet.OpConstant:
		return c.support.IsConstantSupported(op), ruleConstant, nil
	case sourcenet.OpConvolution:
		return c.support.IsConvolutionSupported(op), ruleConvolution, nil
	case sourcenet.OpDepthwiseConvolution:
		return c.support.IsDepthwiseConvolutionSupported(op), ruleDepthwiseConvolution, nil
	case sourcenet.OpPooling:
		return c.support.IsPoolingSupported(op), rulePooling, nil
	case sourcenet.OpAddition:
		return c.support.IsAdditionSupported(op), ruleAddition, nil
	case sourcenet.OpConcatenation:
		return c.support.IsConcatenationSupported(op), ruleConcatenation, nil
	case sourcenet.OpSplit:
		return c.support.IsSplitSupported(op), ruleSplit, nil
	case sourcenet.OpReshape:
		return c.support.IsReshapeSupported(op), ruleReshape, nil
	case sourcenet.OpFullyConnected:
		return c.support.IsFullyConnectedSupported(op), ruleFullyConnected, nil
	case sourcenet.OpTransposeConvolution:
		return c.support.IsTransposeConvolutionSupported(op), ruleTransposeConvolution, nil
	case sourcenet.OpDepthToSpace:
		return c.support.IsDepthToSpaceSupported(op), ruleDepthToSpace, nil
	case sourcenet.OpSigmoid:
		return c.support.IsSigmoidSupported(op), ruleSigmoid, nil
	case sourcenet.OpSoftmax:
		return c.support.IsSoftmaxSupported(op), ruleSoftmax, nil
	case sourcenet.OpRelu:
		return c.support.IsReluSupported(op), ruleRelu, nil
	case sourcenet.OpEstimateOnly:
		return support.EstimateOnly, nil, nil
	default:
		return support.Unsupported, nil, fmt.Errorf("lower: unknown operation kind %v for op %d", op.Kind, op.ID)
	}
}
