// Package lower implements the Network -> Lowered Graph conversion pass
// (spec.md §1-§4): the pattern-matcher and rewrite engine at the core of
// this system. It is grounded on the teacher's pkg/core/math/nn/layers
// package (conv2d.go, pooling.go, dense.go) for its per-kind validation
// idiom — fmt.Errorf with a "Kind: field must satisfy X, got Y" message
// for malformed input, a plain panic for invariants that can only be
// violated by a programming error — generalized from "validate then
// execute a layer" to "validate then rewrite an operation into lowered
// nodes".
package lower

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ethosn/npulower/capability"
	"github.com/ethosn/npulower/internal/nlog"
	"github.com/ethosn/npulower/lowered"
	"github.com/ethosn/npulower/npuerrors"
	"github.com/ethosn/npulower/sourcenet"
	"github.com/ethosn/npulower/support"
)

// Stats summarizes one Pass.Run, the supplemented statistics noted in
// SPEC_FULL.md: how many operations landed on the Supported and
// EstimateOnly branches, and how many lowered nodes were created, without
// having to walk the lowered graph back out. An Unsupported verdict
// aborts the run, so it has no counter.
type Stats struct {
	Supported    int
	EstimateOnly int
	NodesCreated int
}

// Pass runs the conversion pass over one Source Network. It owns no
// state across runs; Caps and Support are external collaborators per
// spec.md §1's scope boundary.
type Pass struct {
	Caps    capability.Oracle
	Support support.Oracle
	Log     zerolog.Logger
}

// NewPass returns a Pass wired with the given oracles and the package's
// default logger (internal/nlog, following the teacher's pkg/logger
// convention of a package-level logger constructor gated by a build
// tag).
func NewPass(caps capability.Oracle, sup support.Oracle) *Pass {
	return &Pass{Caps: caps, Support: sup, Log: nlog.New()}
}

// ctx bundles the per-Run state every rewrite rule needs: the graph being
// built, the operand map, and the oracles/logger carried from the Pass.
// Passed by pointer to every rule function instead of as Pass methods, so
// rule files (rules_*.go) can be tested in isolation with a bare ctx.
type ctx struct {
	graph   *lowered.Graph
	operand *lowered.OperandMap
	caps    capability.Oracle
	support support.Oracle
	log     zerolog.Logger
	stats   Stats
}

// Run visits net in topological order and lowers every operation,
// producing a Graph whose invariants are (I1)-(I3) of spec.md §3 plus the
// Concat/Split axis-tiling invariants of spec.md §6. It aborts on the
// first Unsupported verdict or precondition violation (spec.md §7: "no
// retry... no partial success"); the returned error wraps npuerrors
// sentinels so callers can branch with errors.Is.
func (p *Pass) Run(net *sourcenet.Network) (*lowered.Graph, Stats, error) {
	c := &ctx{
		graph:   lowered.NewGraph(),
		operand: lowered.NewOperandMap(),
		caps:    p.Caps,
		support: p.Support,
		log:     p.Log,
	}

	err := net.Walk(func(op *sourcenet.Operation) error {
		verdict, chainErr := dispatch(c, op)
		switch verdict {
		case support.Supported:
			c.stats.Supported++
		case support.EstimateOnly:
			c.stats.EstimateOnly++
		}
		if chainErr != nil {
			c.log.Error().Err(chainErr).Int("op", int(op.ID)).Str("kind", op.Kind.String()).Msg("conversion pass aborted")
			return chainErr
		}
		c.log.Debug().Int("op", int(op.ID)).Str("kind", op.Kind.String()).Str("verdict", verdict.String()).Msg("lowered operation")
		return nil
	})
	if err != nil {
		return nil, Stats{}, err
	}

	c.stats.NodesCreated = c.graph.NumNodes()
	return c.graph, c.stats, nil
}

// estimateOnlyChain emits one EstimateOnly node per output of op,
// connecting it from every current producer of op's inputs, and binds
// OperandMap accordingly (spec.md §4.1 "If the verdict is EstimateOnly,
// the rule emits a single EstimateOnly node..." generalized to
// multi-output operations by spec.md §4.2 EstimateOnly: "one EstimateOnly
// lowered node per output").
func estimateOnlyChain(c *ctx, op *sourcenet.Operation) error {
	for i, out := range op.Outputs {
		node := &lowered.Node{
			Kind:       lowered.KindEstimateOnly,
			OutShape:   out.Info.Dims,
			OutQuant:   out.Info.Quant,
			Layout:     sourcenet.NHWCB,
			Provenance: []sourcenet.OpID{op.ID},
		}
		ref := c.graph.CreateNode(node)
		for _, in := range op.Inputs {
			prodRef, ok := c.operand.Get(in.Key)
			if !ok {
				return fmt.Errorf("lower: operand %v has no producer when lowering op %d output %d", in.Key, op.ID, i)
			}
			c.graph.Connect(prodRef, 0, ref)
		}
		c.operand.Set(out.Key, ref)
	}
	return nil
}

// abortUnsupported builds the NotSupported error for an Unsupported
// verdict from the support oracle (spec.md §4.1: "If Unsupported, the
// pass aborts with NotSupported").
func abortUnsupported(op *sourcenet.Operation) error {
	return npuerrors.NotSupported("%s (op %d) rejected by support oracle", op.Kind, op.ID)
}
