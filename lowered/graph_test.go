package lowered

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethosn/npulower/sourcenet"
)

func TestGraphConnectAndEdgeIn(t *testing.T) {
	g := NewGraph()
	a := g.CreateNode(&Node{Kind: KindInput})
	b := g.CreateNode(&Node{Kind: KindConstant})

	edge := g.Connect(a, 0, b)

	ref, ok := g.EdgeIn(b, 0)
	require.True(t, ok)
	assert.Equal(t, edge, ref)

	e := g.Edge(edge)
	assert.Equal(t, a, e.Producer)
	assert.Equal(t, b, e.Consumer)
	assert.Equal(t, 0, e.ConsumerIndex)
}

func TestGraphSplitEdgePreservesOrder(t *testing.T) {
	// (I3) spec.md §3: split_edge inserts middle between an edge's
	// endpoints without disturbing the consumer's input ordering.
	g := NewGraph()
	producer := g.CreateNode(&Node{Kind: KindInput})
	other := g.CreateNode(&Node{Kind: KindInput})
	consumer := g.CreateNode(&Node{Kind: KindConcat})

	e0 := g.Connect(producer, 0, consumer)
	e1 := g.Connect(other, 0, consumer)

	middle := g.CreateNode(&Node{Kind: KindFormatConversion})
	g.SplitEdge(e0, middle)

	require.Equal(t, 2, g.NumInputs(consumer))

	ref0, ok := g.EdgeIn(consumer, 0)
	require.True(t, ok)
	assert.Equal(t, e0, ref0, "original edge ref should still identify input 0")
	assert.Equal(t, middle, g.Edge(ref0).Producer)

	ref1, ok := g.EdgeIn(consumer, 1)
	require.True(t, ok)
	assert.Equal(t, e1, ref1)
	assert.Equal(t, other, g.Edge(ref1).Producer, "input 1 must be untouched by the split")

	// producer now feeds middle, not consumer directly.
	middleEdge, ok := g.EdgeIn(middle, 0)
	require.True(t, ok)
	assert.Equal(t, producer, g.Edge(middleEdge).Producer)
}

func TestOperandMap(t *testing.T) {
	om := NewOperandMap()
	key := sourcenet.OperandKey{ProducerID: 3, OutputIndex: 1}

	_, ok := om.Get(key)
	assert.False(t, ok)

	om.Set(key, 7)
	ref, ok := om.Get(key)
	require.True(t, ok)
	assert.Equal(t, NodeRef(7), ref)
}

func TestGraphProvenance(t *testing.T) {
	g := NewGraph()
	a := g.CreateNode(&Node{Kind: KindInput, Provenance: []sourcenet.OpID{1}})
	b := g.CreateNode(&Node{Kind: KindConstant, Provenance: []sourcenet.OpID{1, 2}})

	got := g.Provenance(a, b)
	assert.Equal(t, []sourcenet.OpID{1, 2}, got)
}
