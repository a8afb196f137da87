package centrality

import (
	"gonum.org/v1/gonum/graph/network"

	"github.com/ritzau/netgraph/pkg/graph"
	"github.com/ritzau/netgraph/pkg/model"
)

// Degree returns degree centrality for every node: the fraction of the other
// nodes each node is directly connected to. With fewer than two nodes there
// are no other nodes, so every score is zero.
func Degree(n *graph.Network) map[string]float64 {
	count := n.NodeCount()
	scores := make(map[string]float64, count)
	for _, name := range n.Names() {
		if count < 2 {
			scores[name] = 0
			continue
		}
		scores[name] = float64(n.DegreeOf(name)) / float64(count-1)
	}
	return scores
}

// Betweenness returns betweenness centrality for every node: the fraction of
// shortest paths between other node pairs passing through it, normalized by
// the number of unordered pairs. Paths are unweighted; co-occurrence weights
// measure tie strength, not distance. With fewer than three nodes no node can
// sit between two others, so every score is zero.
func Betweenness(n *graph.Network) map[string]float64 {
	count := n.NodeCount()
	scores := make(map[string]float64, count)
	for _, name := range n.Names() {
		scores[name] = 0
	}
	if count < 3 {
		return scores
	}

	// Brandes accumulates over ordered (s,t) pairs, visiting each unordered
	// pair twice on an undirected graph. Dividing by (N-1)(N-2) therefore
	// yields the 2/((N-1)(N-2)) normalization of the unordered sum. Nodes on
	// no shortest path are absent from the result and keep their zero.
	raw := network.Betweenness(n.Graph())
	scale := 1 / (float64(count-1) * float64(count-2))
	for id, v := range raw {
		scores[n.Name(id)] = v * scale
	}
	return scores
}

// Compute returns one record per node with all three centrality measures,
// sorted by node name.
func Compute(n *graph.Network) ([]model.CentralityRecord, error) {
	degree := Degree(n)
	betweenness := Betweenness(n)
	eigenvector, err := Eigenvector(n, DefaultPower())
	if err != nil {
		return nil, err
	}

	names := n.Names()
	records := make([]model.CentralityRecord, 0, len(names))
	for _, name := range names {
		records = append(records, model.CentralityRecord{
			Node:        name,
			Degree:      degree[name],
			Betweenness: betweenness[name],
			Eigenvector: eigenvector[name],
		})
	}
	return records, nil
}
