package lowered

import (
	"fmt"

	"github.com/awalterschulze/gographviz"

	"github.com/ethosn/npulower/internal/arena"
	"github.com/ethosn/npulower/sourcenet"
)

// NodeRef indexes a Node within a Graph's arena (spec.md §9 Design Notes:
// "NodeRef/EdgeRef are lightweight indices").
type NodeRef = arena.Ref

// EdgeRef indexes an Edge within a Graph's arena.
type EdgeRef = arena.Ref

// Edge connects one producer output to one consumer input (spec.md §3:
// "(producer-node, producer-output-index) -> (consumer-node,
// consumer-input-index)").
type Edge struct {
	Producer      NodeRef
	ProducerIndex int
	Consumer      NodeRef
	ConsumerIndex int
}

// Graph is the Lowered Graph (spec.md §3): an append-only store of nodes
// and edges. No node or edge is ever deleted; split_edge mutates one edge
// in place and appends one new edge (spec.md §9 Design Notes).
type Graph struct {
	nodes *arena.Arena[*Node]
	edges *arena.Arena[*Edge]
	// incoming maps a node to the refs of edges whose Consumer is that
	// node, preserving edge_in's input-index ordering.
	incoming map[NodeRef][]EdgeRef
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:    arena.New[*Node](),
		edges:    arena.New[*Edge](),
		incoming: make(map[NodeRef][]EdgeRef),
	}
}

// CreateNode appends node to the graph and returns its NodeRef (spec.md
// §3 "create_node(variant) -> NodeRef").
func (g *Graph) CreateNode(node *Node) NodeRef {
	return g.nodes.Add(node)
}

// Node returns the node at ref.
func (g *Graph) Node(ref NodeRef) *Node {
	return g.nodes.Get(ref)
}

// NumNodes returns the number of nodes created so far.
func (g *Graph) NumNodes() int {
	return g.nodes.Len()
}

// Connect appends an input edge from src's producerIndex'th output to
// dst's next free input slot (spec.md §3 "connect(src, dst) (appends an
// input edge)").
func (g *Graph) Connect(src NodeRef, producerIndex int, dst NodeRef) EdgeRef {
	consumerIndex := len(g.incoming[dst])
	edge := &Edge{Producer: src, ProducerIndex: producerIndex, Consumer: dst, ConsumerIndex: consumerIndex}
	ref := g.edges.Add(edge)
	g.incoming[dst] = append(g.incoming[dst], ref)
	return ref
}

// SplitEdge inserts middle between edge's endpoints, preserving input
// order: the original edge's producer now feeds middle's single input,
// and the original edge is rewritten to run from middle to the original
// consumer at the original consumer index (spec.md §3 "split_edge(edge,
// middle) (inserts middle between the edge's endpoints, preserving
// order)"). No edge is deleted: the original EdgeRef is mutated in place
// and one new edge is created for the producer->middle leg.
func (g *Graph) SplitEdge(edge EdgeRef, middle NodeRef) {
	e := g.edges.Get(edge)
	original := *e
	g.Connect(original.Producer, original.ProducerIndex, middle)
	e.Producer = middle
	e.ProducerIndex = 0
	g.edges.Set(edge, e)
}

// EdgeIn returns the edge feeding node's i'th input (spec.md §3
// "edge_in(node, i)").
func (g *Graph) EdgeIn(node NodeRef, i int) (EdgeRef, bool) {
	refs := g.incoming[node]
	if i < 0 || i >= len(refs) {
		return 0, false
	}
	return refs[i], true
}

// NumInputs returns the number of input edges currently attached to
// node.
func (g *Graph) NumInputs(node NodeRef) int {
	return len(g.incoming[node])
}

// Edge returns the edge at ref.
func (g *Graph) Edge(ref EdgeRef) *Edge {
	return g.edges.Get(ref)
}

// OperandMap maps a source-operand identity to the lowered node currently
// producing its value (spec.md §3). Populated as rewrites complete; read
// whenever a rewrite needs to wire its inputs.
type OperandMap struct {
	m map[sourcenet.OperandKey]NodeRef
}

// NewOperandMap returns an empty OperandMap.
func NewOperandMap() *OperandMap {
	return &OperandMap{m: make(map[sourcenet.OperandKey]NodeRef)}
}

// Set binds key to ref.
func (om *OperandMap) Set(key sourcenet.OperandKey, ref NodeRef) {
	om.m[key] = ref
}

// Get returns the node currently producing key's value.
func (om *OperandMap) Get(key sourcenet.OperandKey) (NodeRef, bool) {
	ref, ok := om.m[key]
	return ref, ok
}

// Provenance returns the union of every source operation id recorded
// against the given nodes, de-duplicated and in first-seen order
// (spec.md §3 "a set of source-operation ids... for debuggability").
func (g *Graph) Provenance(refs ...NodeRef) []sourcenet.OpID {
	seen := make(map[sourcenet.OpID]bool)
	var out []sourcenet.OpID
	for _, ref := range refs {
		for _, id := range g.Node(ref).Provenance {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// DumpDOT renders the graph as a Graphviz DOT document, for the
// debugging workflow spec.md's provenance sets exist to support: one
// node per lowered Node labeled with its kind and output shape, one edge
// per Edge labeled with its producer/consumer port indices.
func (g *Graph) DumpDOT() (string, error) {
	gv := gographviz.NewGraph()
	if err := gv.SetName("lowered"); err != nil {
		return "", err
	}
	if err := gv.SetDir(true); err != nil {
		return "", err
	}

	for i, node := range g.nodes.All() {
		name := nodeName(arena.Ref(i))
		label := fmt.Sprintf("\"%s\\n%s\"", node.Kind, node.OutShape)
		if err := gv.AddNode("lowered", name, map[string]string{"label": label}); err != nil {
			return "", err
		}
	}
	for _, edge := range g.edges.All() {
		src := nodeName(edge.Producer)
		dst := nodeName(edge.Consumer)
		label := fmt.Sprintf("\"%d->%d\"", edge.ProducerIndex, edge.ConsumerIndex)
		if err := gv.AddEdge(src, dst, true, map[string]string{"label": label}); err != nil {
			return "", err
		}
	}
	return gv.String(), nil
}

func nodeName(ref NodeRef) string {
	return fmt.Sprintf("n%d", int(ref))
}
