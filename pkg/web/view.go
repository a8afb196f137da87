package web

import (
	"github.com/ritzau/netgraph/pkg/analysis"
	"github.com/ritzau/netgraph/pkg/model"
)

// BuildNetworkView converts an analysis result into the JSON shape the UI
// renders. Nodes follow the centrality records, which are sorted by name;
// edges are in canonical order. Slices are always non-nil so empty networks
// serialize as [] rather than null.
func BuildNetworkView(res *analysis.Result) model.NetworkView {
	view := model.NetworkView{
		Nodes: make([]model.NodeView, 0, len(res.Records)),
		Edges: make([]model.EdgeView, 0, res.Network.EdgeCount()),
	}

	for _, rec := range res.Records {
		pos := res.Positions[rec.Node]
		view.Nodes = append(view.Nodes, model.NodeView{
			ID:          rec.Node,
			X:           pos.X,
			Y:           pos.Y,
			Degree:      rec.Degree,
			Betweenness: rec.Betweenness,
			Eigenvector: rec.Eigenvector,
		})
	}

	for _, edge := range res.Network.Edges() {
		view.Edges = append(view.Edges, model.EdgeView{
			Source: edge.NodeA,
			Target: edge.NodeB,
			Weight: edge.Weight,
		})
	}

	return view
}
