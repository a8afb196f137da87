package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/ritzau/netgraph/pkg/model"
)

// Network is an undirected weighted co-occurrence network. It wraps a gonum
// graph and keeps the mapping between node names and graph IDs.
type Network struct {
	graph  *simple.WeightedUndirectedGraph
	ids    map[string]int64 // Map from node name to graph ID
	names  map[int64]string // Map from graph ID to node name
	nextID int64
}

// NewNetwork creates an empty network
func NewNetwork() *Network {
	return &Network{
		graph:  simple.NewWeightedUndirectedGraph(0, 0),
		ids:    make(map[string]int64),
		names:  make(map[int64]string),
		nextID: 0,
	}
}

// Build constructs a network from parsed edge records. Weights of duplicate
// unordered pairs are summed, matching how repeated co-occurrence exports
// accumulate.
func Build(records []model.EdgeRecord) *Network {
	n := NewNetwork()
	for _, rec := range records {
		n.AddEdge(rec.NodeA, rec.NodeB, rec.Weight)
	}
	return n
}

// addNode registers a name and returns its graph ID
func (n *Network) addNode(name string) int64 {
	if id, exists := n.ids[name]; exists {
		return id
	}

	id := n.nextID
	n.ids[name] = id
	n.names[id] = name
	n.graph.AddNode(simple.Node(id))
	n.nextID++

	return id
}

// AddEdge adds weight w between a and b, summing with any existing weight for
// the pair. Self-edges are ignored since the network is simple.
func (n *Network) AddEdge(a, b string, w float64) {
	if a == b {
		return
	}

	aid := n.addNode(a)
	bid := n.addNode(b)

	total := w
	if existing := n.graph.WeightedEdgeBetween(aid, bid); existing != nil {
		total += existing.Weight()
	}
	n.graph.SetWeightedEdge(n.graph.NewWeightedEdge(simple.Node(aid), simple.Node(bid), total))
}

// Filter returns a new network keeping only edges with weight >= threshold.
// Nodes left without any surviving edge are dropped entirely. The receiver is
// not modified.
func (n *Network) Filter(threshold float64) *Network {
	out := NewNetwork()
	for _, e := range n.Edges() {
		if e.Weight >= threshold {
			out.AddEdge(e.NodeA, e.NodeB, e.Weight)
		}
	}
	return out
}

// NodeCount returns the number of nodes in the network
func (n *Network) NodeCount() int {
	return len(n.ids)
}

// EdgeCount returns the number of edges in the network
func (n *Network) EdgeCount() int {
	return n.graph.Edges().Len()
}

// Has reports whether a node with the given name exists
func (n *Network) Has(name string) bool {
	_, exists := n.ids[name]
	return exists
}

// ID returns the graph ID for a node name
func (n *Network) ID(name string) (int64, bool) {
	id, exists := n.ids[name]
	return id, exists
}

// Name returns the node name for a graph ID
func (n *Network) Name(id int64) string {
	return n.names[id]
}

// Names returns all node names in ascending order. The stable order keeps
// downstream output deterministic.
func (n *Network) Names() []string {
	names := make([]string, 0, len(n.ids))
	for name := range n.ids {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DegreeOf returns the number of neighbors of the named node
func (n *Network) DegreeOf(name string) int {
	id, exists := n.ids[name]
	if !exists {
		return 0
	}
	return n.graph.From(id).Len()
}

// Weight returns the edge weight between two named nodes
func (n *Network) Weight(a, b string) (float64, bool) {
	aid, okA := n.ids[a]
	bid, okB := n.ids[b]
	if !okA || !okB || aid == bid {
		return 0, false
	}
	e := n.graph.WeightedEdgeBetween(aid, bid)
	if e == nil {
		return 0, false
	}
	return e.Weight(), true
}

// Edges returns all edges with each pair in lexicographic order, sorted by
// node names. The stable order keeps downstream output deterministic.
func (n *Network) Edges() []model.EdgeRecord {
	edges := make([]model.EdgeRecord, 0, n.EdgeCount())

	iter := n.graph.WeightedEdges()
	for iter.Next() {
		e := iter.WeightedEdge()
		a := n.names[e.From().ID()]
		b := n.names[e.To().ID()]
		if b < a {
			a, b = b, a
		}
		edges = append(edges, model.EdgeRecord{NodeA: a, NodeB: b, Weight: e.Weight()})
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].NodeA != edges[j].NodeA {
			return edges[i].NodeA < edges[j].NodeA
		}
		return edges[i].NodeB < edges[j].NodeB
	})

	return edges
}

// Graph returns the underlying gonum graph for algorithms that consume the
// gonum interfaces directly.
func (n *Network) Graph() *simple.WeightedUndirectedGraph {
	return n.graph
}
