package model

// EdgeRecord is one validated row of a weighted edge list: an undirected
// co-occurrence between two named nodes.
type EdgeRecord struct {
	NodeA  string  `json:"nodeA"`
	NodeB  string  `json:"nodeB"`
	Weight float64 `json:"weight"`
}

// CentralityRecord holds the centrality measures computed for a single node.
type CentralityRecord struct {
	Node        string  `json:"node"`
	Degree      float64 `json:"degree"`
	Betweenness float64 `json:"betweenness"`
	Eigenvector float64 `json:"eigenvector"`
}

// RunStats summarizes one analysis run for reports and the status API.
type RunStats struct {
	RowsParsed    int     `json:"rowsParsed"`    // Valid edge rows read from the input
	TotalNodes    int     `json:"totalNodes"`    // Nodes before filtering
	TotalEdges    int     `json:"totalEdges"`    // Edges before filtering
	FilteredNodes int     `json:"filteredNodes"` // Nodes kept after filtering
	FilteredEdges int     `json:"filteredEdges"` // Edges kept after filtering
	Threshold     float64 `json:"threshold"`
}

// EdgeRetention returns the fraction of edges that survived the weight filter
func (s RunStats) EdgeRetention() float64 {
	if s.TotalEdges == 0 {
		return 0
	}
	return float64(s.FilteredEdges) / float64(s.TotalEdges)
}

// NodeView is a positioned, scored node as served to the web UI
type NodeView struct {
	ID          string  `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Degree      float64 `json:"degree"`
	Betweenness float64 `json:"betweenness"`
	Eigenvector float64 `json:"eigenvector"`
}

// EdgeView is a weighted edge as served to the web UI
type EdgeView struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

// NetworkView holds the filtered network for visualization
type NetworkView struct {
	Nodes []NodeView `json:"nodes"`
	Edges []EdgeView `json:"edges"`
}
